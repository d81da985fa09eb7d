package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"golang.org/x/crypto/bcrypt"

	"github.com/dammytech/dtxstore/internal/middleware"
	"github.com/dammytech/dtxstore/internal/repository"
)

// mockUsers is a func-field fake of UserRepository.
type mockUsers struct {
	CreateUserFunc  func(ctx context.Context, u repository.User) error
	FindByEmailFunc func(ctx context.Context, email string) (*repository.User, error)
	FindByIDFunc    func(ctx context.Context, id string) (*repository.User, error)
	UpdateUserFunc  func(ctx context.Context, id, passwordHash, fullName string) error
}

func (m *mockUsers) CreateUser(ctx context.Context, u repository.User) error {
	return m.CreateUserFunc(ctx, u)
}

func (m *mockUsers) FindByEmail(ctx context.Context, email string) (*repository.User, error) {
	return m.FindByEmailFunc(ctx, email)
}

func (m *mockUsers) FindByID(ctx context.Context, id string) (*repository.User, error) {
	return m.FindByIDFunc(ctx, id)
}

func (m *mockUsers) UpdateUser(ctx context.Context, id, passwordHash, fullName string) error {
	return m.UpdateUserFunc(ctx, id, passwordHash, fullName)
}

func hashOf(t *testing.T, password string) string {
	t.Helper()
	h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}
	return string(h)
}

func TestSignUp_HashesPassword(t *testing.T) {
	var created repository.User
	repo := &mockUsers{
		CreateUserFunc: func(ctx context.Context, u repository.User) error {
			created = u
			return nil
		},
	}
	s := NewAuthService(repo, "secret")

	u, err := s.SignUp(context.Background(), "ada@example.com", "hunter22", "Ada")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if u.ID == "" {
		t.Error("expected a generated user id")
	}
	if created.PasswordHash == "hunter22" || created.PasswordHash == "" {
		t.Error("password must be stored hashed")
	}
	if bcrypt.CompareHashAndPassword([]byte(created.PasswordHash), []byte("hunter22")) != nil {
		t.Error("stored hash does not verify the password")
	}
}

func TestSignIn_IssuesToken(t *testing.T) {
	repo := &mockUsers{
		FindByEmailFunc: func(ctx context.Context, email string) (*repository.User, error) {
			return &repository.User{
				ID: "u1", Email: email, PasswordHash: hashOf(t, "hunter22"), FullName: "Ada",
			}, nil
		},
	}
	s := NewAuthService(repo, "secret")

	tok, err := s.SignIn(context.Background(), "ada@example.com", "hunter22", time.Hour)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tok.ExpiresIn != 3600 {
		t.Errorf("expires_in = %d; want 3600", tok.ExpiresIn)
	}

	claims := &middleware.Claims{}
	parsed, err := jwt.ParseWithClaims(tok.AccessToken, claims, func(*jwt.Token) (any, error) {
		return []byte("secret"), nil
	})
	if err != nil || !parsed.Valid {
		t.Fatalf("issued token does not parse: %v", err)
	}
	if claims.Subject != "u1" || claims.Email != "ada@example.com" {
		t.Errorf("unexpected claims: %+v", claims)
	}
}

func TestSignIn_WrongPassword(t *testing.T) {
	repo := &mockUsers{
		FindByEmailFunc: func(ctx context.Context, email string) (*repository.User, error) {
			return &repository.User{ID: "u1", Email: email, PasswordHash: hashOf(t, "hunter22")}, nil
		},
	}
	s := NewAuthService(repo, "secret")

	_, err := s.SignIn(context.Background(), "ada@example.com", "wrong", time.Hour)
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestSignIn_UnknownEmail(t *testing.T) {
	repo := &mockUsers{
		FindByEmailFunc: func(ctx context.Context, email string) (*repository.User, error) {
			return nil, repository.ErrUserNotFound
		},
	}
	s := NewAuthService(repo, "secret")

	_, err := s.SignIn(context.Background(), "ghost@example.com", "x", time.Hour)
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestUpdateUser_PatchesNameOnly(t *testing.T) {
	var gotHash, gotName string
	repo := &mockUsers{
		UpdateUserFunc: func(ctx context.Context, id, passwordHash, fullName string) error {
			gotHash, gotName = passwordHash, fullName
			return nil
		},
		FindByIDFunc: func(ctx context.Context, id string) (*repository.User, error) {
			return &repository.User{ID: id, FullName: "New Name"}, nil
		},
	}
	s := NewAuthService(repo, "secret")

	u, err := s.UpdateUser(context.Background(), "u1", "", "New Name")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotHash != "" {
		t.Error("no password given, hash must stay empty")
	}
	if gotName != "New Name" || u.FullName != "New Name" {
		t.Errorf("name patch = %q, user = %+v", gotName, u)
	}
}
