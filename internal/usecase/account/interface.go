package account

import (
	"context"

	domain "user-account-service/internal/domain/user"
)

// Usecase defines the account business operations exposed to transports.
type Usecase interface {
	Register(ctx context.Context, in RegisterRequest) (*RegisterResponse, error)
	Login(ctx context.Context, in LoginRequest) (*LoginResponse, error)
	ListAll(ctx context.Context) ([]PublicUser, error)
	GetByID(ctx context.Context, in GetUserRequest) (*PublicUser, error)
	SearchByName(ctx context.Context, in SearchByNameRequest) ([]PublicUser, error)
	EditProfile(ctx context.Context, in EditProfileRequest) (*PublicUser, error)
	DeleteAccount(ctx context.Context, in DeleteAccountRequest) error
}

// Repository defines the account directory operations. Lookups return
// a nil user (and nil error) when no record matches.
type Repository interface {
	Create(ctx context.Context, u *domain.User) (*domain.User, error)
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByName(ctx context.Context, name string) (*domain.User, error)
	List(ctx context.Context) ([]domain.User, error)
	SearchByName(ctx context.Context, fragment string) ([]domain.User, error)
	Save(ctx context.Context, u *domain.User) (*domain.User, error)
	Delete(ctx context.Context, id string) error
}

// TokenIssuer issues signed identity tokens.
type TokenIssuer interface {
	Issue(subjectID, subjectName string) (string, error)
}

// ImageStore persists profile image payloads and resolves their URLs.
type ImageStore interface {
	// Save decodes the payload and writes it to the upload directory,
	// returning the generated file name.
	Save(payload string) (string, error)
	// Remove deletes the file behind a previously stored image URL.
	// Best-effort: a missing file is not an error.
	Remove(imageURL string)
	// URL builds the fully qualified URL for a stored file from the
	// request's scheme and host.
	URL(scheme, host, filename string) string
}
