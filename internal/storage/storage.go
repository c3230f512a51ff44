// Package storage defines the persistence interface and its implementations.
package storage

import (
	"context"
	"errors"

	"plate2share/internal/model"
)

// Errors returned by Storage implementations.
var (
	ErrNotFound = errors.New("record not found")
	ErrRetired  = errors.New("record id was deleted and cannot be reused")
)

// Storage is the interface for all persistence operations.
type Storage interface {
	PutRecord(ctx context.Context, rec *model.Record) error
	GetRecord(ctx context.Context, kind, id string) (*model.Record, error)
	ListRecords(ctx context.Context, kind string) ([]model.Record, error)
	CountRecords(ctx context.Context, kind string) (int, error)
	DeleteRecord(ctx context.Context, kind, id string) error
	Known(ctx context.Context, kind, id string) (bool, error)

	GetSettings(ctx context.Context, chatID int64) (*model.Settings, error)
	SaveSettings(ctx context.Context, s *model.Settings) error

	Close() error
}
