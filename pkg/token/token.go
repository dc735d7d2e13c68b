// Package token issues and verifies the signed bearer tokens that
// carry a user's identity between requests.
package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultTTL is how long an issued token stays valid.
const DefaultTTL = time.Hour

var (
	// ErrInvalidToken is returned when a token is malformed or its
	// signature does not validate.
	ErrInvalidToken = errors.New("invalid token")
	// ErrExpiredToken is returned when the current time is past the
	// token's embedded expiry.
	ErrExpiredToken = errors.New("token expired")
)

// Subject is the identity embedded in an issued token.
type Subject struct {
	ID   string
	Name string
}

// claims is the JWT claim set for an account token.
type claims struct {
	Name string `json:"name"`
	jwt.RegisteredClaims
}

// Service signs and verifies HS256 tokens with a process-wide secret.
// The secret has a single source of truth: it is injected once at
// construction from configuration.
type Service struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewService creates a token service. A non-positive ttl falls back to
// DefaultTTL.
func NewService(secret string, ttl time.Duration) *Service {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Service{
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
	}
}

// Issue produces a signed token encoding the subject identity with an
// expiry ttl from now.
func (s *Service) Issue(subjectID, subjectName string) (string, error) {
	now := s.now()
	c := claims{
		Name: subjectName,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subjectID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString(s.secret)
}

// Verify validates the token signature and expiry and returns the
// embedded subject identity.
func (s *Service) Verify(tokenString string) (*Subject, error) {
	var c claims
	tok, err := jwt.ParseWithClaims(tokenString, &c, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	},
		jwt.WithExpirationRequired(),
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Name}),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}
	if !tok.Valid || c.Subject == "" {
		return nil, ErrInvalidToken
	}
	return &Subject{ID: c.Subject, Name: c.Name}, nil
}
