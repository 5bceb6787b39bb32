package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	// Registers the "sqlite" driver (pure Go).
	_ "modernc.org/sqlite"

	"github.com/ykvlv/forecast-bot/internal/domain"
)

// SQLiteRepo implements Store using an embedded SQLite database.
type SQLiteRepo struct{ db *sql.DB }

// OpenSQLite opens (or creates) the SQLite database at the given path,
// applies recommended PRAGMAs, runs SQL migrations, and returns a repository.
func OpenSQLite(ctx context.Context, path string) (*SQLiteRepo, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	// SQLite is a single-writer engine.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := applyPragmas(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply pragmas: %w", err)
	}
	if _, err := RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrations: %w", err)
	}

	return &SQLiteRepo{db: db}, nil
}

func applyPragmas(ctx context.Context, db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA busy_timeout=5000;",
	}
	for _, p := range pragmas {
		if _, err := db.ExecContext(ctx, p); err != nil {
			return err
		}
	}
	return nil
}

// Close releases the underlying database resources.
func (r *SQLiteRepo) Close() error {
	return r.db.Close()
}

// Set replaces the user's row.
func (r *SQLiteRepo) Set(ctx context.Context, userID int64, p domain.Preferences) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO preferences (user_id, city, provider, notify_time, magnetic_region, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(user_id) DO UPDATE SET
			city            = excluded.city,
			provider        = excluded.provider,
			notify_time     = excluded.notify_time,
			magnetic_region = excluded.magnetic_region,
			updated_at      = excluded.updated_at`,
		userID, p.City, p.Provider, p.NotifyTime, p.MagneticRegion, time.Now().UTC().Unix(),
	)
	return err
}

// Get returns the user's preferences; an unknown user yields the zero value.
func (r *SQLiteRepo) Get(ctx context.Context, userID int64) (domain.Preferences, error) {
	var p domain.Preferences
	err := r.db.QueryRowContext(ctx, `
		SELECT city, provider, notify_time, magnetic_region
		FROM preferences
		WHERE user_id = ?`,
		userID,
	).Scan(&p.City, &p.Provider, &p.NotifyTime, &p.MagneticRegion)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Preferences{}, nil
	}
	if err != nil {
		return domain.Preferences{}, err
	}
	return p, nil
}

// List returns all users ordered by id.
func (r *SQLiteRepo) List(ctx context.Context) (map[int64]domain.Preferences, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT user_id, city, provider, notify_time, magnetic_region
		FROM preferences
		ORDER BY user_id ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	res := make(map[int64]domain.Preferences)
	for rows.Next() {
		var (
			id int64
			p  domain.Preferences
		)
		if err := rows.Scan(&id, &p.City, &p.Provider, &p.NotifyTime, &p.MagneticRegion); err != nil {
			return nil, err
		}
		res[id] = p
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return res, nil
}
