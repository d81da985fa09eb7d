// Package repository provides PostgreSQL persistence for the local
// backend emulation: user accounts and the generic jsonb row store.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// ErrUserNotFound is returned when no user matches the lookup.
var ErrUserNotFound = errors.New("repository: user not found")

// ErrEmailTaken is returned when a signup reuses an existing email.
var ErrEmailTaken = errors.New("repository: email already registered")

// User is a stored account row. PasswordHash is a bcrypt hash, never
// the plaintext password.
type User struct {
	ID           string
	Email        string
	PasswordHash string
	FullName     string
}

// PostgresUserRepository implements account persistence against a
// PostgreSQL database.
type PostgresUserRepository struct {
	// DB is the database handle for executing queries.
	DB *sql.DB
}

// NewPostgresUserRepository creates a new PostgresUserRepository with
// the given database connection.
func NewPostgresUserRepository(db *sql.DB) *PostgresUserRepository {
	return &PostgresUserRepository{DB: db}
}

// CreateUser inserts a new account. Returns ErrEmailTaken when the
// email is already registered.
func (r *PostgresUserRepository) CreateUser(ctx context.Context, u User) error {
	res, err := r.DB.ExecContext(
		ctx,
		`INSERT INTO users (id, email, password_hash, full_name) VALUES ($1, $2, $3, $4) ON CONFLICT (email) DO NOTHING`,
		u.ID, u.Email, u.PasswordHash, u.FullName,
	)
	if err != nil {
		return fmt.Errorf("create user: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrEmailTaken
	}
	return nil
}

// FindByEmail returns the account registered under email, or
// ErrUserNotFound.
func (r *PostgresUserRepository) FindByEmail(ctx context.Context, email string) (*User, error) {
	var u User
	err := r.DB.QueryRowContext(
		ctx,
		`SELECT id, email, password_hash, full_name FROM users WHERE email = $1`,
		email,
	).Scan(&u.ID, &u.Email, &u.PasswordHash, &u.FullName)
	if err == sql.ErrNoRows {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	return &u, nil
}

// FindByID returns the account with the given id, or ErrUserNotFound.
func (r *PostgresUserRepository) FindByID(ctx context.Context, id string) (*User, error) {
	var u User
	err := r.DB.QueryRowContext(
		ctx,
		`SELECT id, email, password_hash, full_name FROM users WHERE id = $1`,
		id,
	).Scan(&u.ID, &u.Email, &u.PasswordHash, &u.FullName)
	if err == sql.ErrNoRows {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	return &u, nil
}

// UpdateUser patches the stored hash and/or full name of an account.
// Empty fields are left untouched.
func (r *PostgresUserRepository) UpdateUser(ctx context.Context, id, passwordHash, fullName string) error {
	res, err := r.DB.ExecContext(
		ctx,
		`UPDATE users SET
		    password_hash = COALESCE(NULLIF($2, ''), password_hash),
		    full_name = COALESCE(NULLIF($3, ''), full_name)
		  WHERE id = $1`,
		id, passwordHash, fullName,
	)
	if err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrUserNotFound
	}
	return nil
}
