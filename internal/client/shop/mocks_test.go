package shop

import (
	"context"
	"encoding/json"

	"github.com/dammytech/dtxstore/internal/client/backend"
	"github.com/dammytech/dtxstore/internal/models"
)

// mockTables is a func-field fake of the row-store surface.
type mockTables struct {
	SelectFunc       func(ctx context.Context, table string, opts ...backend.Option) ([]json.RawMessage, error)
	SelectSingleFunc func(ctx context.Context, table string, opts ...backend.Option) (json.RawMessage, error)
	InsertFunc       func(ctx context.Context, table string, payload any) (json.RawMessage, error)
	UpdateFunc       func(ctx context.Context, table string, patch any, opts ...backend.Option) error
	DeleteFunc       func(ctx context.Context, table string, opts ...backend.Option) error
	CountFunc        func(ctx context.Context, table string, opts ...backend.Option) (int, error)
}

func (m *mockTables) Select(ctx context.Context, table string, opts ...backend.Option) ([]json.RawMessage, error) {
	return m.SelectFunc(ctx, table, opts...)
}
func (m *mockTables) SelectSingle(ctx context.Context, table string, opts ...backend.Option) (json.RawMessage, error) {
	return m.SelectSingleFunc(ctx, table, opts...)
}
func (m *mockTables) Insert(ctx context.Context, table string, payload any) (json.RawMessage, error) {
	return m.InsertFunc(ctx, table, payload)
}
func (m *mockTables) Update(ctx context.Context, table string, patch any, opts ...backend.Option) error {
	return m.UpdateFunc(ctx, table, patch, opts...)
}
func (m *mockTables) Delete(ctx context.Context, table string, opts ...backend.Option) error {
	return m.DeleteFunc(ctx, table, opts...)
}
func (m *mockTables) Count(ctx context.Context, table string, opts ...backend.Option) (int, error) {
	return m.CountFunc(ctx, table, opts...)
}

// fakeSessions satisfies SessionSource with a fixed session.
type fakeSessions struct {
	session *models.Session
}

func (f *fakeSessions) Current() *models.Session { return f.session }

func signedIn(userID string) *fakeSessions {
	return &fakeSessions{session: &models.Session{
		AccessToken: "tok",
		User:        models.SessionUser{ID: userID, Email: userID + "@example.com"},
	}}
}
