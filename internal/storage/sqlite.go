package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite" // SQLite driver registration.

	"plate2share/internal/model"
	"plate2share/migrations"
)

const timeLayout = "2006-01-02T15:04:05Z"

// SQLite implements Storage backed by a SQLite database.
type SQLite struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at dsn and runs pending migrations.
func NewSQLite(dsn string) (*SQLite, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// :memory: databases are per connection.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	if err := migrations.Run(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLite{db: db}, nil
}

// Close closes the underlying database connection.
func (s *SQLite) Close() error {
	return s.db.Close()
}

// PutRecord inserts or updates a live record and sets its UpdatedAt.
// Ids deleted earlier are rejected with ErrRetired.
func (s *SQLite) PutRecord(ctx context.Context, rec *model.Record) error {
	now := time.Now().UTC().Format(timeLayout)
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO records (kind, id, status, payload, updated_at)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT (kind, id) DO UPDATE
		   SET status = excluded.status, payload = excluded.payload, updated_at = excluded.updated_at
		   WHERE records.deleted = 0`,
		rec.Kind, rec.ID, rec.Status, string(rec.Payload), now,
	)
	if err != nil {
		return fmt.Errorf("upsert record: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("put %s %q: %w", rec.Kind, rec.ID, ErrRetired)
	}
	rec.UpdatedAt, _ = time.Parse(timeLayout, now)
	return nil
}

// GetRecord returns a single live record.
func (s *SQLite) GetRecord(ctx context.Context, kind, id string) (*model.Record, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT kind, id, status, payload, updated_at
		 FROM records WHERE kind = ? AND id = ? AND deleted = 0`, kind, id,
	)
	rec, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get %s %q: %w", kind, id, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// ListRecords returns the live records of a kind in insertion order.
func (s *SQLite) ListRecords(ctx context.Context, kind string) ([]model.Record, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT kind, id, status, payload, updated_at
		 FROM records WHERE kind = ? AND deleted = 0 ORDER BY rowid`, kind,
	)
	if err != nil {
		return nil, fmt.Errorf("query records: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var recs []model.Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		recs = append(recs, rec)
	}
	return recs, rows.Err()
}

// CountRecords returns the number of live records of a kind.
func (s *SQLite) CountRecords(ctx context.Context, kind string) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM records WHERE kind = ? AND deleted = 0`, kind,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count records: %w", err)
	}
	return count, nil
}

// DeleteRecord tombstones a live record so its id is never reused.
func (s *SQLite) DeleteRecord(ctx context.Context, kind, id string) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE records SET deleted = 1, payload = '{}', updated_at = ?
		 WHERE kind = ? AND id = ? AND deleted = 0`,
		time.Now().UTC().Format(timeLayout), kind, id,
	)
	if err != nil {
		return fmt.Errorf("delete record: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("delete %s %q: %w", kind, id, ErrNotFound)
	}
	return nil
}

// Known reports whether an id was ever stored for kind, live or deleted.
func (s *SQLite) Known(ctx context.Context, kind, id string) (bool, error) {
	var count int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM records WHERE kind = ? AND id = ?`, kind, id,
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("check known: %w", err)
	}
	return count > 0, nil
}

// GetSettings returns the saved preferences of a chat, or the defaults
// when none were saved.
func (s *SQLite) GetSettings(ctx context.Context, chatID int64) (*model.Settings, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT dark_mode, email_notifications, push_notifications, language
		 FROM settings WHERE chat_id = ?`, chatID,
	)
	var dark, email, push int
	st := model.Settings{ChatID: chatID}
	err := row.Scan(&dark, &email, &push, &st.Language)
	if errors.Is(err, sql.ErrNoRows) {
		def := model.DefaultSettings(chatID)
		return &def, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scan settings: %w", err)
	}
	st.DarkMode = dark == 1
	st.EmailNotifications = email == 1
	st.PushNotifications = push == 1
	return &st, nil
}

// SaveSettings persists the preferences of a chat.
func (s *SQLite) SaveSettings(ctx context.Context, st *model.Settings) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO settings (chat_id, dark_mode, email_notifications, push_notifications, language, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT (chat_id) DO UPDATE
		   SET dark_mode = excluded.dark_mode,
		       email_notifications = excluded.email_notifications,
		       push_notifications = excluded.push_notifications,
		       language = excluded.language,
		       updated_at = excluded.updated_at`,
		st.ChatID, boolToInt(st.DarkMode), boolToInt(st.EmailNotifications), boolToInt(st.PushNotifications),
		st.Language, time.Now().UTC().Format(timeLayout),
	)
	if err != nil {
		return fmt.Errorf("save settings: %w", err)
	}
	return nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

type scannable interface {
	Scan(dest ...any) error
}

func scanRecord(row scannable) (model.Record, error) {
	var rec model.Record
	var payload, updated string
	err := row.Scan(&rec.Kind, &rec.ID, &rec.Status, &payload, &updated)
	if errors.Is(err, sql.ErrNoRows) {
		return rec, err
	}
	if err != nil {
		return rec, fmt.Errorf("scan record: %w", err)
	}
	rec.Payload = []byte(payload)
	rec.UpdatedAt, _ = time.Parse(timeLayout, updated)
	return rec, nil
}
