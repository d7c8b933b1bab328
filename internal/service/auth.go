package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/jtully/wayfarer/backend/internal/domain"
	"github.com/jtully/wayfarer/backend/internal/repo"
)

const minPasswordLength = 8

// AuthService implements account creation and login. Sessions are stateless:
// a successful login yields a signed token whose subject is the user ID, and
// the HTTP middleware turns that token back into an explicit owner ID on each
// request. Nothing below the middleware ever consults ambient session state.
type AuthService struct {
	users  repo.UserRepo
	secret []byte
	ttl    time.Duration
}

// NewAuthService constructs an AuthService. secret signs tokens (HS256);
// ttl bounds their validity.
func NewAuthService(users repo.UserRepo, secret []byte, ttl time.Duration) *AuthService {
	return &AuthService{users: users, secret: secret, ttl: ttl}
}

// Signup creates a new account with a bcrypt-hashed password.
func (s *AuthService) Signup(ctx context.Context, username, password string) (domain.User, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return domain.User{}, fmt.Errorf("service.AuthService.Signup: %w: username and password are required", domain.ErrValidation)
	}
	if len(password) < minPasswordLength {
		return domain.User{}, fmt.Errorf("service.AuthService.Signup: %w: password must be at least %d characters", domain.ErrValidation, minPasswordLength)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return domain.User{}, fmt.Errorf("service.AuthService.Signup: hash password: %w", err)
	}

	user, err := s.users.Create(ctx, username, string(hash))
	if err != nil {
		return domain.User{}, fmt.Errorf("service.AuthService.Signup: %w", err)
	}
	return user, nil
}

// Login verifies the credentials and returns a signed token. A wrong username
// and a wrong password produce the same error, so callers learn nothing about
// which accounts exist.
func (s *AuthService) Login(ctx context.Context, username, password string) (string, error) {
	user, err := s.users.GetByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return "", fmt.Errorf("service.AuthService.Login: %w", domain.ErrInvalidCredentials)
		}
		return "", fmt.Errorf("service.AuthService.Login: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return "", fmt.Errorf("service.AuthService.Login: %w", domain.ErrInvalidCredentials)
	}

	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   user.ID.String(),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
	})

	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("service.AuthService.Login: sign token: %w", err)
	}
	return signed, nil
}

// ParseToken validates a token and returns the owner ID it was issued for.
// Used by the auth middleware; expired or tampered tokens fail with
// domain.ErrInvalidCredentials.
func (s *AuthService) ParseToken(tokenString string) (uuid.UUID, error) {
	token, err := jwt.ParseWithClaims(tokenString, &jwt.RegisteredClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return uuid.Nil, fmt.Errorf("service.AuthService.ParseToken: %w", domain.ErrInvalidCredentials)
	}

	claims, ok := token.Claims.(*jwt.RegisteredClaims)
	if !ok {
		return uuid.Nil, fmt.Errorf("service.AuthService.ParseToken: %w", domain.ErrInvalidCredentials)
	}

	ownerID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return uuid.Nil, fmt.Errorf("service.AuthService.ParseToken: %w", domain.ErrInvalidCredentials)
	}
	return ownerID, nil
}
