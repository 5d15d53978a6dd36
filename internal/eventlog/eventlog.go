// Package eventlog keeps a log of toggle changes in a SQL database.
package eventlog

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// Event is one observed toggle change.
type Event struct {
	Source string
	On     bool
	Action string
	At     time.Time
}

// Recorder stores events and lists the latest ones.
type Recorder interface {
	Record(ctx context.Context, e Event) error
	Recent(ctx context.Context, limit int) ([]Event, error)
}

var _ Recorder = (*Store)(nil)

// Store is a Recorder backed by database/sql.
type Store struct {
	db *sql.DB
}

// New wraps an open database. Call Migrate before use.
func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// Open opens (creating if needed) the sqlite database at path and migrates it.
func Open(ctx context.Context, path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open event log: %w", err)
	}
	s := New(db)
	if err := s.Migrate(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Migrate creates the events table.
func (s *Store) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `create table if not exists toggle_events (
	id integer primary key autoincrement,
	source text not null,
	on_state integer not null,
	action text not null,
	at integer not null
)`)
	if err != nil {
		return fmt.Errorf("migrate event log: %w", err)
	}
	return nil
}

// Record appends e. A zero At is stamped with the current time.
func (s *Store) Record(ctx context.Context, e Event) error {
	if e.At.IsZero() {
		e.At = time.Now()
	}
	_, err := s.db.ExecContext(ctx,
		`insert into toggle_events (source, on_state, action, at) values (?, ?, ?, ?)`,
		e.Source, e.On, e.Action, e.At.UnixMilli())
	if err != nil {
		return fmt.Errorf("record event: %w", err)
	}
	return nil
}

// Recent returns up to limit events, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]Event, error) {
	rows, err := s.db.QueryContext(ctx,
		`select source, on_state, action, at from toggle_events order by id desc limit ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query events: %w", err)
	}
	defer rows.Close()

	var events []Event
	for rows.Next() {
		var e Event
		var at int64
		if err := rows.Scan(&e.Source, &e.On, &e.Action, &at); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		e.At = time.UnixMilli(at)
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("query events: %w", err)
	}
	return events, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}
