package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
)

func setupUserMock(t *testing.T) (*PostgresUserRepository, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to open sqlmock database: %v", err)
	}
	repo := NewPostgresUserRepository(db)
	cleanup := func() {
		db.Close()
	}
	return repo, mock, cleanup
}

func TestCreateUser_Success(t *testing.T) {
	repo, mock, cleanup := setupUserMock(t)
	defer cleanup()

	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO users (id, email, password_hash, full_name) VALUES ($1, $2, $3, $4) ON CONFLICT (email) DO NOTHING`)).
		WithArgs("u1", "ada@example.com", "hash", "Ada").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.CreateUser(context.Background(), User{
		ID: "u1", Email: "ada@example.com", PasswordHash: "hash", FullName: "Ada",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

func TestCreateUser_EmailTaken(t *testing.T) {
	repo, mock, cleanup := setupUserMock(t)
	defer cleanup()

	mock.ExpectExec("INSERT INTO users").
		WithArgs("u2", "ada@example.com", "hash", "").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.CreateUser(context.Background(), User{
		ID: "u2", Email: "ada@example.com", PasswordHash: "hash",
	})
	if !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
}

func TestFindByEmail_Success(t *testing.T) {
	repo, mock, cleanup := setupUserMock(t)
	defer cleanup()

	rows := sqlmock.NewRows([]string{"id", "email", "password_hash", "full_name"}).
		AddRow("u1", "ada@example.com", "hash", "Ada")

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, email, password_hash, full_name FROM users WHERE email = $1`)).
		WithArgs("ada@example.com").
		WillReturnRows(rows)

	u, err := repo.FindByEmail(context.Background(), "ada@example.com")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if u.ID != "u1" || u.FullName != "Ada" {
		t.Errorf("unexpected user: %+v", u)
	}
}

func TestFindByEmail_NotFound(t *testing.T) {
	repo, mock, cleanup := setupUserMock(t)
	defer cleanup()

	mock.ExpectQuery("SELECT id, email, password_hash, full_name FROM users").
		WithArgs("missing@example.com").
		WillReturnRows(sqlmock.NewRows([]string{"id", "email", "password_hash", "full_name"}))

	_, err := repo.FindByEmail(context.Background(), "missing@example.com")
	if !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestUpdateUser_Success(t *testing.T) {
	repo, mock, cleanup := setupUserMock(t)
	defer cleanup()

	mock.ExpectExec("UPDATE users SET").
		WithArgs("u1", "newhash", "").
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.UpdateUser(context.Background(), "u1", "newhash", ""); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestUpdateUser_NotFound(t *testing.T) {
	repo, mock, cleanup := setupUserMock(t)
	defer cleanup()

	mock.ExpectExec("UPDATE users SET").
		WithArgs("ghost", "", "New Name").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.UpdateUser(context.Background(), "ghost", "", "New Name")
	if !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}
