// Package service provides business logic for the local backend
// emulation: account management with JWT issuance and the generic
// row store, delegating persistence to repository interfaces.
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/dammytech/dtxstore/internal/middleware"
	"github.com/dammytech/dtxstore/internal/repository"
)

// ErrInvalidCredentials is returned when the email/password pair does
// not match a stored account.
var ErrInvalidCredentials = errors.New("service: invalid login credentials")

// UserRepository defines the persistence operations required by the
// authentication service.
type UserRepository interface {
	// CreateUser inserts a new account, failing with
	// repository.ErrEmailTaken on duplicate email.
	CreateUser(ctx context.Context, u repository.User) error
	// FindByEmail looks an account up by email.
	FindByEmail(ctx context.Context, email string) (*repository.User, error)
	// FindByID looks an account up by id.
	FindByID(ctx context.Context, id string) (*repository.User, error)
	// UpdateUser patches password hash and/or full name; empty fields
	// are left untouched.
	UpdateUser(ctx context.Context, id, passwordHash, fullName string) error
}

// Token is an issued access token plus the identity it proves.
type Token struct {
	AccessToken string
	ExpiresIn   int
	User        repository.User
}

// AuthService implements signup, password sign-in and profile updates.
type AuthService struct {
	repo   UserRepository
	secret []byte
}

// NewAuthService constructs an AuthService signing tokens with secret.
func NewAuthService(repo UserRepository, secret string) *AuthService {
	return &AuthService{repo: repo, secret: []byte(secret)}
}

// SignUp registers a new account. The password is stored as a bcrypt
// hash.
func (s *AuthService) SignUp(ctx context.Context, email, password, fullName string) (*repository.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	u := repository.User{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: string(hash),
		FullName:     fullName,
	}
	if err := s.repo.CreateUser(ctx, u); err != nil {
		return nil, err
	}
	return &u, nil
}

// SignIn verifies the credentials and issues a JWT with the requested
// lifetime.
func (s *AuthService) SignIn(ctx context.Context, email, password string, ttl time.Duration) (*Token, error) {
	u, err := s.repo.FindByEmail(ctx, email)
	if errors.Is(err, repository.ErrUserNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}

	claims := &middleware.Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   u.ID,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
		Email: u.Email,
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return nil, fmt.Errorf("sign token: %w", err)
	}
	return &Token{AccessToken: signed, ExpiresIn: int(ttl.Seconds()), User: *u}, nil
}

// UpdateUser patches the account's password and/or full name. Empty
// fields are left untouched.
func (s *AuthService) UpdateUser(ctx context.Context, userID, password, fullName string) (*repository.User, error) {
	var hash string
	if password != "" {
		h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
		hash = string(h)
	}
	if err := s.repo.UpdateUser(ctx, userID, hash, fullName); err != nil {
		return nil, err
	}
	return s.repo.FindByID(ctx, userID)
}
