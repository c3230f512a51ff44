package screen

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"plate2share/internal/listview"
	"plate2share/internal/model"
	"plate2share/internal/storage"
)

// Repository persists one entity kind as JSON records. It implements
// listview.Collaborator so controllers write through to storage.
type Repository[T any] struct {
	store  storage.Storage
	kind   string
	schema *listview.Schema[T]
}

// NewRepository creates a repository for records of kind described by
// schema.
func NewRepository[T any](store storage.Storage, kind string, schema *listview.Schema[T]) *Repository[T] {
	return &Repository[T]{store: store, kind: kind, schema: schema}
}

// Create stores a new record. Ids that were ever stored, live or
// deleted, are rejected.
func (r *Repository[T]) Create(ctx context.Context, item T) (T, error) {
	id := r.schema.ID(item)
	known, err := r.store.Known(ctx, r.kind, id)
	if err != nil {
		return item, err
	}
	if known {
		return item, fmt.Errorf("create %s %q: %w", r.kind, id, listview.ErrDuplicateID)
	}
	return item, r.put(ctx, item)
}

// Update overwrites an existing live record.
func (r *Repository[T]) Update(ctx context.Context, item T) (T, error) {
	id := r.schema.ID(item)
	if _, err := r.store.GetRecord(ctx, r.kind, id); err != nil {
		return item, mapNotFound(err)
	}
	return item, r.put(ctx, item)
}

// Delete retires the record id.
func (r *Repository[T]) Delete(ctx context.Context, id string) error {
	return mapNotFound(r.store.DeleteRecord(ctx, r.kind, id))
}

// Load returns every live record in insertion order.
func (r *Repository[T]) Load(ctx context.Context) ([]T, error) {
	recs, err := r.store.ListRecords(ctx, r.kind)
	if err != nil {
		return nil, err
	}
	items := make([]T, 0, len(recs))
	for _, rec := range recs {
		var item T
		if err := json.Unmarshal(rec.Payload, &item); err != nil {
			return nil, fmt.Errorf("decode %s %q: %w", r.kind, rec.ID, err)
		}
		items = append(items, item)
	}
	return items, nil
}

// Seed stores the items whose ids were never stored before and returns
// how many were added. Deleted sample records stay deleted.
func (r *Repository[T]) Seed(ctx context.Context, items []T) (int, error) {
	n := 0
	for _, item := range items {
		known, err := r.store.Known(ctx, r.kind, r.schema.ID(item))
		if err != nil {
			return n, err
		}
		if known {
			continue
		}
		if err := r.put(ctx, item); err != nil {
			return n, err
		}
		n++
	}
	return n, nil
}

func (r *Repository[T]) put(ctx context.Context, item T) error {
	payload, err := json.Marshal(item)
	if err != nil {
		return fmt.Errorf("encode %s: %w", r.kind, err)
	}
	rec := model.Record{
		Kind:    r.kind,
		ID:      r.schema.ID(item),
		Payload: payload,
	}
	if r.schema.Status != nil {
		rec.Status = r.schema.Status(item)
	}
	return r.store.PutRecord(ctx, &rec)
}

func mapNotFound(err error) error {
	if errors.Is(err, storage.ErrNotFound) {
		return fmt.Errorf("%w: %w", listview.ErrNotFound, err)
	}
	return err
}
