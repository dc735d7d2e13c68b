package account

// RegisterRequest represents the payload for member registration.
type RegisterRequest struct {
	Name     string `validate:"required"`
	Email    string `validate:"required,email"`
	Age      int    `validate:"required,gt=0"`
	Password string `validate:"required"`
	Gender   string `validate:"required,oneof=male female other"`
}

// RegisterResponse carries the issued token and the public view of the
// new user.
type RegisterResponse struct {
	Token string     `json:"token"`
	User  PublicUser `json:"user"`
}

// LoginRequest represents the payload for login. Login checks
// presence only, never email shape: a malformed email must fail with
// the same undifferentiated credentials error as a wrong password.
type LoginRequest struct {
	Email    string
	Password string
}

// LoginResponse carries a fresh token and the public view of the user,
// including the profile image URL.
type LoginResponse struct {
	Token string     `json:"token"`
	User  PublicUser `json:"user"`
}

// GetUserRequest represents the payload for a single-user lookup.
type GetUserRequest struct {
	ID string
}

// SearchByNameRequest represents the payload for a name substring search.
type SearchByNameRequest struct {
	Name string
}

// EditProfileRequest represents a partial profile update. Every field
// except ID is optional; absent fields are left untouched. Scheme and
// Host come from the inbound request and are used to build the stored
// profile image URL.
type EditProfileRequest struct {
	ID       string
	Name     *string
	Age      *int
	Gender   *string
	Password *string
	Profile  *string
	Scheme   string
	Host     string
}

// DeleteAccountRequest represents the payload for account deletion.
type DeleteAccountRequest struct {
	ID string
}

// PublicUser is the outward-facing user representation. The password
// hash is never part of it.
type PublicUser struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Age     int    `json:"age"`
	Gender  string `json:"gender"`
	Profile string `json:"profile,omitempty"`
}
