package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/dammytech/dtxstore/internal/repository"
)

// RowRepository defines the persistence operations needed by the
// RowService.
type RowRepository interface {
	// Select returns the raw documents matching the query.
	Select(ctx context.Context, table string, q repository.RowQuery) ([]json.RawMessage, error)
	// Insert stores one document under the logical table name.
	Insert(ctx context.Context, table, id string, data json.RawMessage) error
	// Update merges patch into matching documents.
	Update(ctx context.Context, table string, patch json.RawMessage, q repository.RowQuery) (int64, error)
	// Delete soft-deletes matching documents.
	Delete(ctx context.Context, table string, q repository.RowQuery) (int64, error)
	// Count returns how many documents match the query.
	Count(ctx context.Context, table string, q repository.RowQuery) (int, error)
}

// RowService implements the row-store semantics on top of the
// repository: it stamps server-owned fields on insert and hands
// filtering through untouched.
type RowService struct {
	repo RowRepository
}

// NewRowService constructs a RowService with the provided repository.
func NewRowService(repo RowRepository) *RowService {
	return &RowService{repo: repo}
}

// Select returns the documents matching the query.
func (s *RowService) Select(ctx context.Context, table string, q repository.RowQuery) ([]json.RawMessage, error) {
	return s.repo.Select(ctx, table, q)
}

// Insert stores a new document, stamping id and created_at when the
// payload does not carry them, and returns the stored form.
func (s *RowService) Insert(ctx context.Context, table string, payload json.RawMessage) (json.RawMessage, error) {
	var doc map[string]any
	if err := json.Unmarshal(payload, &doc); err != nil {
		return nil, fmt.Errorf("parse payload: %w", err)
	}
	if id, ok := doc["id"].(string); !ok || id == "" {
		doc["id"] = uuid.NewString()
	}
	if _, ok := doc["created_at"]; !ok {
		doc["created_at"] = time.Now().UTC().Format(time.RFC3339Nano)
	}
	data, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("encode row: %w", err)
	}
	if err := s.repo.Insert(ctx, table, doc["id"].(string), data); err != nil {
		return nil, err
	}
	return data, nil
}

// Update merges patch into every document matching the query.
func (s *RowService) Update(ctx context.Context, table string, patch json.RawMessage, q repository.RowQuery) (int64, error) {
	var doc map[string]any
	if err := json.Unmarshal(patch, &doc); err != nil {
		return 0, fmt.Errorf("parse patch: %w", err)
	}
	// id is immutable once stored
	delete(doc, "id")
	clean, err := json.Marshal(doc)
	if err != nil {
		return 0, fmt.Errorf("encode patch: %w", err)
	}
	return s.repo.Update(ctx, table, clean, q)
}

// Delete removes every document matching the query.
func (s *RowService) Delete(ctx context.Context, table string, q repository.RowQuery) (int64, error) {
	return s.repo.Delete(ctx, table, q)
}

// Count returns how many documents match the query.
func (s *RowService) Count(ctx context.Context, table string, q repository.RowQuery) (int, error) {
	return s.repo.Count(ctx, table, q)
}
