// Package auth implements session authentication for the rounds
// workstation: a single-user credential login that issues short-lived
// HS256 tokens, and middleware enforcing them on the API surface.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var ErrInvalidCredentials = errors.New("invalid credentials")

const tokenTTL = 24 * time.Hour

// Claims carried in an issued session token.
type Claims struct {
	jwt.RegisteredClaims
}

// Service validates the configured staff credential and signs session
// tokens. The single shared credential mirrors the one-workstation
// deployment model; swapping in a user directory only changes Login.
type Service struct {
	user     string
	password string
	secret   []byte
	now      func() time.Time
}

func NewService(user, password, secret string) *Service {
	return &Service{user: user, password: password, secret: []byte(secret), now: time.Now}
}

// Login checks the credential and returns a signed token.
func (s *Service) Login(user, password string) (string, error) {
	if user != s.user || password != s.password {
		return "", ErrInvalidCredentials
	}
	now := s.now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(tokenTTL)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// Verify parses and validates a session token, returning the subject.
func (s *Service) Verify(tokenString string) (string, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		return "", err
	}
	if !token.Valid {
		return "", fmt.Errorf("invalid token")
	}
	return claims.Subject, nil
}
