// Package mongo implements the account directory over a MongoDB
// users collection. Uniqueness of name and email is enforced by
// unique indexes created at startup; store-level errors are
// translated into domain outcomes here.
package mongo

import (
	"context"
	"errors"
	"regexp"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.uber.org/zap"

	domain "user-account-service/internal/domain/user"
	apperrors "user-account-service/pkg/errors"
)

const userCollection = "users"

// publicProjection excludes the password hash from list and search reads.
var publicProjection = bson.M{"password": 0}

// UserRepository is the MongoDB-backed account directory.
type UserRepository struct {
	db  *mongo.Database
	log *zap.Logger
}

// NewUserRepository creates the repository and ensures the unique
// indexes on name and email exist.
func NewUserRepository(ctx context.Context, db *mongo.Database, log *zap.Logger) (*UserRepository, error) {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "name", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	}

	if _, err := db.Collection(userCollection).Indexes().CreateMany(ctx, indexes); err != nil {
		return nil, err
	}

	return &UserRepository{db: db, log: log}, nil
}

// Create inserts a new user record and returns it with its assigned id.
func (r *UserRepository) Create(ctx context.Context, u *domain.User) (*domain.User, error) {
	result, err := r.db.Collection(userCollection).InsertOne(ctx, u)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			// Lost a race with a concurrent registration; the usecase
			// already checked uniqueness, so surface it as a conflict.
			return nil, apperrors.NewConflictError("User already exists")
		}
		r.log.Error("failed to insert user", zap.Error(err))
		return nil, apperrors.NewInternalError("Error registering user", err)
	}

	id, ok := result.InsertedID.(bson.ObjectID)
	if !ok {
		return nil, apperrors.NewInternalError("Error registering user", errors.New("inserted ID is not an ObjectID"))
	}
	u.ID = id

	return u, nil
}

// GetByID retrieves a user by its hex id. A structurally invalid id is
// a domain error, not "not found". Returns nil when no record matches.
func (r *UserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	objectID, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return nil, apperrors.NewValidationError("Invalid user ID")
	}

	return r.findOne(ctx, bson.M{"_id": objectID})
}

// GetByEmail retrieves a user by exact email. Returns nil when no
// record matches.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

// GetByName retrieves a user by exact name. Returns nil when no record
// matches.
func (r *UserRepository) GetByName(ctx context.Context, name string) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"name": name})
}

func (r *UserRepository) findOne(ctx context.Context, filter bson.M) (*domain.User, error) {
	result := r.db.Collection(userCollection).FindOne(ctx, filter)

	var u domain.User
	if err := result.Decode(&u); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		r.log.Error("failed to read user", zap.Error(err))
		return nil, apperrors.NewInternalError("Server error", err)
	}

	return &u, nil
}

// List returns all users with the password hash excluded by projection.
func (r *UserRepository) List(ctx context.Context) ([]domain.User, error) {
	return r.find(ctx, bson.M{})
}

// SearchByName returns users whose name contains the fragment,
// case-insensitively. An empty slice means no matches.
func (r *UserRepository) SearchByName(ctx context.Context, fragment string) ([]domain.User, error) {
	filter := bson.M{"name": bson.M{
		"$regex":   regexp.QuoteMeta(fragment),
		"$options": "i",
	}}
	return r.find(ctx, filter)
}

func (r *UserRepository) find(ctx context.Context, filter bson.M) ([]domain.User, error) {
	cursor, err := r.db.Collection(userCollection).Find(ctx, filter,
		options.Find().SetProjection(publicProjection))
	if err != nil {
		r.log.Error("failed to query users", zap.Error(err))
		return nil, apperrors.NewInternalError("Server error", err)
	}
	defer cursor.Close(ctx)

	var users []domain.User
	for cursor.Next(ctx) {
		var u domain.User
		if err := cursor.Decode(&u); err != nil {
			return nil, apperrors.NewInternalError("Server error", err)
		}
		users = append(users, u)
	}
	if err := cursor.Err(); err != nil {
		return nil, apperrors.NewInternalError("Server error", err)
	}

	return users, nil
}

// Save persists in-place mutations of an existing record and returns
// the updated document.
func (r *UserRepository) Save(ctx context.Context, u *domain.User) (*domain.User, error) {
	update := bson.M{"$set": bson.M{
		"name":     u.Name,
		"email":    u.Email,
		"age":      u.Age,
		"gender":   u.Gender,
		"password": u.PasswordHash,
		"profile":  u.ProfileImageURL,
	}}

	result := r.db.Collection(userCollection).FindOneAndUpdate(
		ctx,
		bson.M{"_id": u.ID},
		update,
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	)

	var updated domain.User
	if err := result.Decode(&updated); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperrors.NewNotFoundError("User Not Found")
		}
		r.log.Error("failed to save user", zap.String("id", u.ID.Hex()), zap.Error(err))
		return nil, apperrors.NewInternalError("Server error", err)
	}

	return &updated, nil
}

// Delete removes a user record by hex id.
func (r *UserRepository) Delete(ctx context.Context, id string) error {
	objectID, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return apperrors.NewValidationError("Invalid user ID")
	}

	if _, err := r.db.Collection(userCollection).DeleteOne(ctx, bson.M{"_id": objectID}); err != nil {
		r.log.Error("failed to delete user", zap.String("id", id), zap.Error(err))
		return apperrors.NewInternalError("Server error", err)
	}

	return nil
}
