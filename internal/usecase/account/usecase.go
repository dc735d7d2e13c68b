package account

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	domain "user-account-service/internal/domain/user"
	apperrors "user-account-service/pkg/errors"
	"user-account-service/pkg/security"
)

// Service implements the account business logic: registration, login,
// listing, lookup, search, profile editing, and deletion.
type Service struct {
	repo     Repository
	tokens   TokenIssuer
	images   ImageStore
	log      *zap.Logger
	validate *validator.Validate
}

// New creates a new account Service.
func New(repo Repository, tokens TokenIssuer, images ImageStore, log *zap.Logger) *Service {
	return &Service{
		repo:     repo,
		tokens:   tokens,
		images:   images,
		log:      log,
		validate: validator.New(),
	}
}

// formatValidationError converts validator.ValidationErrors into a
// human-readable domain error.
func formatValidationError(err error) error {
	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return apperrors.NewValidationError("Invalid request")
	}

	var messages []string
	for _, e := range validationErrors {
		switch e.Tag() {
		case "email":
			messages = append(messages, fmt.Sprintf("%s must be a valid email", e.Field()))
		case "oneof":
			messages = append(messages, fmt.Sprintf("%s must be one of: %s", e.Field(), e.Param()))
		case "gt":
			messages = append(messages, fmt.Sprintf("%s must be greater than %s", e.Field(), e.Param()))
		default:
			messages = append(messages, fmt.Sprintf("%s is invalid", e.Field()))
		}
	}
	return apperrors.NewValidationError(strings.Join(messages, ", "))
}

// Register creates a new account. It checks email uniqueness, then
// name uniqueness, hashes the password, creates the record, and issues
// a token.
func (s *Service) Register(ctx context.Context, in RegisterRequest) (*RegisterResponse, error) {
	if in.Name == "" || in.Email == "" || in.Age == 0 || in.Password == "" || in.Gender == "" {
		return nil, apperrors.NewValidationError("Name, email, age, gender, and password are required")
	}
	if err := s.validate.Struct(in); err != nil {
		s.log.Warn("register validation failed", zap.Error(err))
		return nil, formatValidationError(err)
	}

	s.log.Info("registering user", zap.String("name", in.Name), zap.String("email", in.Email))

	if existing, err := s.repo.GetByEmail(ctx, in.Email); err != nil {
		return nil, err
	} else if existing != nil {
		s.log.Warn("email already exists", zap.String("email", in.Email))
		return nil, apperrors.NewConflictError("Email already exists")
	}

	if existing, err := s.repo.GetByName(ctx, in.Name); err != nil {
		return nil, err
	} else if existing != nil {
		s.log.Warn("name already exists", zap.String("name", in.Name))
		return nil, apperrors.NewConflictError("Name already exists")
	}

	hash, err := security.HashPassword(in.Password)
	if err != nil {
		s.log.Error("failed to hash password", zap.Error(err))
		return nil, apperrors.NewInternalError("Error registering user", err)
	}

	created, err := s.repo.Create(ctx, &domain.User{
		Name:         in.Name,
		Email:        in.Email,
		Age:          in.Age,
		Gender:       domain.Gender(in.Gender),
		PasswordHash: hash,
	})
	if err != nil {
		s.log.Error("failed to create user", zap.Error(err))
		return nil, err
	}

	token, err := s.tokens.Issue(created.ID.Hex(), created.Name)
	if err != nil {
		s.log.Error("failed to issue token", zap.Error(err))
		return nil, apperrors.NewInternalError("Error registering user", err)
	}

	return &RegisterResponse{Token: token, User: publicView(created)}, nil
}

// Login authenticates by email and password and issues a fresh token.
// A missing user and a wrong password yield the identical error.
func (s *Service) Login(ctx context.Context, in LoginRequest) (*LoginResponse, error) {
	if in.Email == "" || in.Password == "" {
		return nil, apperrors.NewValidationError("Email and password are required")
	}

	u, err := s.repo.GetByEmail(ctx, in.Email)
	if err != nil {
		return nil, err
	}
	if u == nil || !security.VerifyPassword(in.Password, u.PasswordHash) {
		s.log.Warn("login failed", zap.String("email", in.Email))
		return nil, apperrors.NewInvalidCredentialsError("Invalid credentials")
	}

	token, err := s.tokens.Issue(u.ID.Hex(), u.Name)
	if err != nil {
		s.log.Error("failed to issue token", zap.Error(err))
		return nil, apperrors.NewInternalError("Login failed", err)
	}

	s.log.Info("user logged in", zap.String("id", u.ID.Hex()))

	return &LoginResponse{Token: token, User: publicView(u)}, nil
}

// ListAll returns the public views of all users.
func (s *Service) ListAll(ctx context.Context) ([]PublicUser, error) {
	users, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	return publicViews(users), nil
}

// GetByID returns the public view of a single user.
func (s *Service) GetByID(ctx context.Context, in GetUserRequest) (*PublicUser, error) {
	if in.ID == "" {
		return nil, apperrors.NewValidationError("User ID is required")
	}

	u, err := s.repo.GetByID(ctx, in.ID)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, apperrors.NewNotFoundError("User Not Found")
	}

	view := publicView(u)
	return &view, nil
}

// SearchByName performs a case-insensitive substring search. An empty
// result is a not-found outcome, never an empty success list.
func (s *Service) SearchByName(ctx context.Context, in SearchByNameRequest) ([]PublicUser, error) {
	if in.Name == "" {
		return nil, apperrors.NewValidationError("Name is required")
	}

	users, err := s.repo.SearchByName(ctx, in.Name)
	if err != nil {
		return nil, err
	}
	if len(users) == 0 {
		return nil, apperrors.NewNotFoundError("No users matched")
	}

	return publicViews(users), nil
}

// EditProfile applies a partial update: each supplied field overwrites
// the corresponding attribute independently. A supplied password is
// re-hashed; a supplied image payload replaces the stored image.
// Uniqueness of a new name is not re-checked on edit.
func (s *Service) EditProfile(ctx context.Context, in EditProfileRequest) (*PublicUser, error) {
	if in.ID == "" {
		return nil, apperrors.NewValidationError("User ID is required")
	}

	u, err := s.repo.GetByID(ctx, in.ID)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, apperrors.NewNotFoundError("User Not Found")
	}

	if in.Name != nil {
		u.Name = *in.Name
	}
	if in.Age != nil {
		if *in.Age <= 0 {
			return nil, apperrors.NewValidationError("Age must be greater than 0")
		}
		u.Age = *in.Age
	}
	if in.Gender != nil {
		g := domain.Gender(*in.Gender)
		if !g.Valid() {
			return nil, apperrors.NewValidationError("Gender must be one of: male female other")
		}
		u.Gender = g
	}
	if in.Password != nil {
		hash, err := security.HashPassword(*in.Password)
		if err != nil {
			s.log.Error("failed to hash password", zap.Error(err))
			return nil, apperrors.NewInternalError("Server error", err)
		}
		u.PasswordHash = hash
	}
	if in.Profile != nil {
		filename, err := s.images.Save(*in.Profile)
		if err != nil {
			return nil, err
		}
		if u.ProfileImageURL != "" {
			s.images.Remove(u.ProfileImageURL)
		}
		u.ProfileImageURL = s.images.URL(in.Scheme, in.Host, filename)
	}

	updated, err := s.repo.Save(ctx, u)
	if err != nil {
		s.log.Error("failed to save user", zap.String("id", in.ID), zap.Error(err))
		return nil, err
	}

	s.log.Info("profile updated", zap.String("id", in.ID))

	view := publicView(updated)
	return &view, nil
}

// DeleteAccount removes the stored image (best-effort) and then the
// user record.
func (s *Service) DeleteAccount(ctx context.Context, in DeleteAccountRequest) error {
	if in.ID == "" {
		return apperrors.NewValidationError("User ID is required")
	}

	u, err := s.repo.GetByID(ctx, in.ID)
	if err != nil {
		return err
	}
	if u == nil {
		return apperrors.NewNotFoundError("User Not Found")
	}

	if u.ProfileImageURL != "" {
		s.images.Remove(u.ProfileImageURL)
	}

	if err := s.repo.Delete(ctx, in.ID); err != nil {
		s.log.Error("failed to delete user", zap.String("id", in.ID), zap.Error(err))
		return err
	}

	s.log.Info("account deleted", zap.String("id", in.ID))

	return nil
}

func publicView(u *domain.User) PublicUser {
	return PublicUser{
		ID:      u.ID.Hex(),
		Name:    u.Name,
		Email:   u.Email,
		Age:     u.Age,
		Gender:  string(u.Gender),
		Profile: u.ProfileImageURL,
	}
}

func publicViews(users []domain.User) []PublicUser {
	views := make([]PublicUser, len(users))
	for i := range users {
		views[i] = publicView(&users[i])
	}
	return views
}
