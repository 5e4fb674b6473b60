package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/nhle/trainadmin/internal/model"
)

// ErrNotFound is returned when a requested row does not exist.
var ErrNotFound = errors.New("not found")

// SQLiteStore implements the Store interface using a local SQLite database.
type SQLiteStore struct {
	db *sqlx.DB
}

// NewSQLiteStore opens (or creates) a SQLite database at dbPath,
// enables WAL mode, and runs any pending schema migrations.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sqlx.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite db: %w", err)
	}

	// A single connection keeps ":memory:" databases coherent and
	// serializes writers.
	db.SetMaxOpenConns(1)

	// Enable WAL mode for better concurrent read performance.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling WAL mode: %w", err)
	}

	s := &SQLiteStore{db: db}
	if err := s.runMigrations(); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the underlying database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// runMigrations checks the current schema version and applies any
// outstanding migrations in order.
func (s *SQLiteStore) runMigrations() error {
	currentVersion := 0

	// Check if schema_version table exists.
	var tableCount int
	err := s.db.Get(
		&tableCount,
		"SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='schema_version'",
	)
	if err != nil {
		return fmt.Errorf("checking schema_version table: %w", err)
	}

	if tableCount > 0 {
		err = s.db.Get(&currentVersion, "SELECT COALESCE(MAX(version), 0) FROM schema_version")
		if err != nil {
			return fmt.Errorf("reading schema version: %w", err)
		}
	}

	for _, m := range migrations {
		if m.version <= currentVersion {
			continue
		}
		if _, err := s.db.Exec(m.sql); err != nil {
			return fmt.Errorf("applying migration v%d: %w", m.version, err)
		}
	}

	return nil
}

// ReplaceTrains swaps the cached list for trains, keeping their order.
func (s *SQLiteStore) ReplaceTrains(ctx context.Context, trains []model.Train) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM trains"); err != nil {
		return fmt.Errorf("clearing trains: %w", err)
	}

	stmt, err := tx.PreparexContext(ctx, `
		INSERT OR REPLACE INTO trains (
			id, name, number, origin, destination,
			departure, arrival, position, fetched_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing insert statement: %w", err)
	}
	defer stmt.Close()

	now := time.Now().UTC()
	for i, t := range trains {
		_, err := stmt.ExecContext(ctx,
			t.ID, t.Name, t.Number, t.Origin, t.Destination,
			t.Departure, t.Arrival, i+1, now,
		)
		if err != nil {
			return fmt.Errorf("inserting train %s: %w", t.ID, err)
		}
	}

	return tx.Commit()
}

// UpsertTrain inserts a new train at the end of the list or refreshes an
// existing one in place.
func (s *SQLiteStore) UpsertTrain(ctx context.Context, t model.Train) error {
	if t.ID == "" {
		return fmt.Errorf("train id must not be empty")
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO trains (
			id, name, number, origin, destination,
			departure, arrival, position, fetched_at
		) VALUES (
			?, ?, ?, ?, ?, ?, ?,
			(SELECT COALESCE(MAX(position), 0) + 1 FROM trains), ?
		)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			number = excluded.number,
			origin = excluded.origin,
			destination = excluded.destination,
			departure = excluded.departure,
			arrival = excluded.arrival,
			fetched_at = excluded.fetched_at`,
		t.ID, t.Name, t.Number, t.Origin, t.Destination,
		t.Departure, t.Arrival, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("upserting train %s: %w", t.ID, err)
	}
	return nil
}

// GetTrains returns the cached list in its original order.
func (s *SQLiteStore) GetTrains(ctx context.Context) ([]model.Train, error) {
	var trains []model.Train
	err := s.db.SelectContext(ctx, &trains, `
		SELECT id, name, number, origin, destination, departure, arrival
		FROM trains ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("querying trains: %w", err)
	}
	return trains, nil
}

// GetTrainByID retrieves a single cached train.
func (s *SQLiteStore) GetTrainByID(ctx context.Context, id string) (*model.Train, error) {
	var t model.Train
	err := s.db.GetContext(ctx, &t, `
		SELECT id, name, number, origin, destination, departure, arrival
		FROM trains WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("train %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("getting train %s: %w", id, err)
	}
	return &t, nil
}

// CreateNotification inserts a new notification record.
func (s *SQLiteStore) CreateNotification(
	ctx context.Context,
	n model.Notification,
) error {
	if n.ID == "" {
		n.ID = uuid.New().String()
	}
	if n.Level == "" {
		n.Level = model.LevelInfo
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO notifications (id, train_id, level, message, read, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		n.ID, n.TrainID, n.Level, n.Message,
		boolToInt(n.Read), n.CreatedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("creating notification: %w", err)
	}

	return nil
}

// GetRecentNotifications returns up to limit notifications, newest first.
func (s *SQLiteStore) GetRecentNotifications(
	ctx context.Context,
	limit int,
) ([]model.Notification, error) {
	if limit <= 0 {
		limit = 50
	}
	var ns []model.Notification
	err := s.db.SelectContext(ctx, &ns, `
		SELECT id, train_id, level, message, read, created_at
		FROM notifications ORDER BY created_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying notifications: %w", err)
	}
	return ns, nil
}

// GetUnreadNotifications retrieves all notifications that have not been read,
// ordered by creation time descending.
func (s *SQLiteStore) GetUnreadNotifications(
	ctx context.Context,
) ([]model.Notification, error) {
	var ns []model.Notification
	err := s.db.SelectContext(ctx, &ns, `
		SELECT id, train_id, level, message, read, created_at
		FROM notifications WHERE read = 0 ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("querying unread notifications: %w", err)
	}
	return ns, nil
}

// MarkAllNotificationsRead marks every notification as read.
func (s *SQLiteStore) MarkAllNotificationsRead(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, "UPDATE notifications SET read = 1 WHERE read = 0")
	if err != nil {
		return fmt.Errorf("marking notifications read: %w", err)
	}
	return nil
}

// boolToInt converts a boolean to 0 or 1 for SQLite storage.
func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
