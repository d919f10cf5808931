// Package sqlite implements the booking log over a local SQLite file.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"voice-scheduling-agent/internal/bookinglog"
	"voice-scheduling-agent/internal/model"
)

const schema = `
CREATE TABLE IF NOT EXISTS bookings (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	caller_name TEXT NOT NULL DEFAULT '',
	title TEXT NOT NULL,
	start_utc TEXT NOT NULL,
	end_utc TEXT NOT NULL,
	duration_minutes INTEGER NOT NULL,
	timezone TEXT NOT NULL,
	event_id TEXT NOT NULL DEFAULT '',
	event_link TEXT NOT NULL DEFAULT '',
	status TEXT NOT NULL DEFAULT 'created',
	created_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_bookings_created_at ON bookings (created_at DESC);
`

type DB struct {
	db *sql.DB
}

// Open opens (and if needed creates) the booking log database at path.
func Open(path string) (*DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open booking log: %w", err)
	}
	// A single writer keeps modernc/sqlite away from SQLITE_BUSY.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate booking log: %w", err)
	}
	return &DB{db: db}, nil
}

func (d *DB) Close() error {
	return d.db.Close()
}

func (d *DB) Insert(ctx context.Context, booking *model.Booking) error {
	if booking.CreatedAt.IsZero() {
		booking.CreatedAt = time.Now().UTC()
	}
	if booking.Status == "" {
		booking.Status = "created"
	}

	stmt := `INSERT INTO bookings (
		caller_name, title, start_utc, end_utc, duration_minutes,
		timezone, event_id, event_link, status, created_at
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	RETURNING id`

	if err := d.db.QueryRowContext(ctx, stmt,
		booking.CallerName,
		booking.Title,
		booking.StartUTC.UTC().Format(time.RFC3339),
		booking.EndUTC.UTC().Format(time.RFC3339),
		booking.DurationMinutes,
		booking.Timezone,
		booking.EventID,
		booking.EventLink,
		booking.Status,
		booking.CreatedAt.Format(time.RFC3339),
	).Scan(&booking.ID); err != nil {
		return fmt.Errorf("failed to insert booking: %w", err)
	}
	return nil
}

func (d *DB) Recent(ctx context.Context, limit int) ([]model.Booking, error) {
	if limit <= 0 {
		limit = 20
	}

	stmt := `SELECT id, caller_name, title, start_utc, end_utc, duration_minutes,
		timezone, event_id, event_link, status, created_at
	FROM bookings
	ORDER BY created_at DESC, id DESC
	LIMIT ?`

	rows, err := d.db.QueryContext(ctx, stmt, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}
	defer rows.Close()

	bookings := make([]model.Booking, 0, limit)
	for rows.Next() {
		var (
			b                         model.Booking
			startUTC, endUTC, created string
		)
		if err := rows.Scan(
			&b.ID, &b.CallerName, &b.Title, &startUTC, &endUTC,
			&b.DurationMinutes, &b.Timezone, &b.EventID, &b.EventLink,
			&b.Status, &created,
		); err != nil {
			return nil, fmt.Errorf("failed to scan booking: %w", err)
		}
		if b.StartUTC, err = time.Parse(time.RFC3339, startUTC); err != nil {
			return nil, fmt.Errorf("failed to parse booking start: %w", err)
		}
		if b.EndUTC, err = time.Parse(time.RFC3339, endUTC); err != nil {
			return nil, fmt.Errorf("failed to parse booking end: %w", err)
		}
		if b.CreatedAt, err = time.Parse(time.RFC3339, created); err != nil {
			return nil, fmt.Errorf("failed to parse booking created_at: %w", err)
		}
		bookings = append(bookings, b)
	}
	return bookings, rows.Err()
}

var _ bookinglog.Repository = (*DB)(nil)
