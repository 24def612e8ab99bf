// Package indexdb keeps a queryable SQLite index of played matches. It is a
// read model only; nothing in a running match depends on it.
package indexdb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/beka-birhanu/vinom-arena-server/service/i"
	_ "modernc.org/sqlite"
)

var ErrNotFound = errors.New("match not found")

var _ i.MatchIndex = (*SQLiteIndex)(nil)

type reqKind int

const (
	reqStart reqKind = iota + 1
	reqEnd
)

type req struct {
	kind reqKind
	row  i.MatchRecord
}

type SQLiteIndex struct {
	db *sql.DB

	ch     chan req
	wg     sync.WaitGroup
	once   sync.Once
	mu     sync.RWMutex // Guards closed against sends on a closed channel.
	closed bool

	dropped atomic.Uint64
	onError func(error)
}

// OpenSQLite opens (or creates) the index at path and starts its writer.
func OpenSQLite(path string, onError func(error)) (*SQLiteIndex, error) {
	if path == "" {
		return nil, fmt.Errorf("empty db path")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := initPragmas(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := initSchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}

	if onError == nil {
		onError = func(error) {}
	}
	s := &SQLiteIndex{
		db:      db,
		ch:      make(chan req, 4096),
		onError: onError,
	}
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.loop()
	}()
	return s, nil
}

func initPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA busy_timeout=5000;",
		"PRAGMA temp_store=MEMORY;",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return err
		}
	}
	return nil
}

func initSchema(db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS matches (
			id TEXT PRIMARY KEY,
			seed INTEGER NOT NULL,
			strategy TEXT NOT NULL,
			width INTEGER NOT NULL,
			height INTEGER NOT NULL,
			brick_density INTEGER NOT NULL,
			players INTEGER NOT NULL,
			started_at INTEGER NOT NULL,
			ended_at INTEGER,
			ticks INTEGER NOT NULL DEFAULT 0,
			events INTEGER NOT NULL DEFAULT 0
		);`,
		`CREATE INDEX IF NOT EXISTS matches_started_at ON matches(started_at);`,
	}
	for _, s := range stmts {
		if _, err := db.Exec(s); err != nil {
			return err
		}
	}
	return nil
}

// RecordStart queues the insert of a new match. It never blocks the caller;
// when the queue is full the row is dropped and counted.
func (s *SQLiteIndex) RecordStart(row i.MatchRecord) {
	s.enqueue(req{kind: reqStart, row: row})
}

// RecordEnd queues the final counters of a match.
func (s *SQLiteIndex) RecordEnd(id string, endedAt time.Time, ticks, events uint64) {
	s.enqueue(req{kind: reqEnd, row: i.MatchRecord{ID: id, EndedAt: endedAt, Ticks: ticks, Events: events}})
}

// Dropped is the number of writes lost to a full queue.
func (s *SQLiteIndex) Dropped() uint64 { return s.dropped.Load() }

func (s *SQLiteIndex) enqueue(r req) {
	if s == nil {
		return
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return
	}
	select {
	case s.ch <- r:
	default:
		s.dropped.Add(1)
	}
}

func (s *SQLiteIndex) loop() {
	for r := range s.ch {
		var err error
		switch r.kind {
		case reqStart:
			err = s.insert(r.row)
		case reqEnd:
			err = s.finish(r.row)
		}
		if err != nil {
			s.onError(err)
		}
	}
}

func (s *SQLiteIndex) insert(r i.MatchRecord) error {
	_, err := s.db.Exec(
		`INSERT OR REPLACE INTO matches
			(id, seed, strategy, width, height, brick_density, players, started_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ID, r.Seed, r.Strategy, r.Width, r.Height, r.BrickDensityPercent, r.Players, r.StartedAt.UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("index match %s: %w", r.ID, err)
	}
	return nil
}

func (s *SQLiteIndex) finish(r i.MatchRecord) error {
	_, err := s.db.Exec(
		`UPDATE matches SET ended_at = ?, ticks = ?, events = ? WHERE id = ?`,
		r.EndedAt.UnixMilli(), int64(r.Ticks), int64(r.Events), r.ID,
	)
	if err != nil {
		return fmt.Errorf("finish match %s: %w", r.ID, err)
	}
	return nil
}

// Match looks up one match by id.
func (s *SQLiteIndex) Match(ctx context.Context, id string) (i.MatchRecord, error) {
	var (
		r         i.MatchRecord
		startedAt int64
		endedAt   sql.NullInt64
		ticks     int64
		events    int64
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT id, seed, strategy, width, height, brick_density, players, started_at, ended_at, ticks, events
		FROM matches WHERE id = ?`, id,
	).Scan(&r.ID, &r.Seed, &r.Strategy, &r.Width, &r.Height, &r.BrickDensityPercent, &r.Players, &startedAt, &endedAt, &ticks, &events)
	if errors.Is(err, sql.ErrNoRows) {
		return r, ErrNotFound
	}
	if err != nil {
		return r, err
	}
	r.StartedAt = time.UnixMilli(startedAt)
	if endedAt.Valid {
		r.EndedAt = time.UnixMilli(endedAt.Int64)
	}
	r.Ticks = uint64(ticks)
	r.Events = uint64(events)
	return r, nil
}

// Close drains pending writes and closes the database.
func (s *SQLiteIndex) Close() error {
	if s == nil {
		return nil
	}
	var err error
	s.once.Do(func() {
		s.mu.Lock()
		s.closed = true
		close(s.ch)
		s.mu.Unlock()
		s.wg.Wait()
		err = s.db.Close()
	})
	return err
}
