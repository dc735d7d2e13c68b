package security

import "golang.org/x/crypto/bcrypt"

// HashCost is the bcrypt work factor used for password hashing.
const HashCost = 10

// HashPassword generates a salted one-way hash of the plaintext password.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), HashCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// VerifyPassword reports whether the plaintext password matches the
// stored hash. Any mismatch returns false; it never returns an error
// for a wrong password.
func VerifyPassword(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
