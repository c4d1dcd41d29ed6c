package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "github.com/lib/pq"
)

// Postgres stores progress in a single-row table.
type Postgres struct {
	db *sql.DB
}

var _ Store = (*Postgres)(nil)

const createProgressTable = `
CREATE TABLE IF NOT EXISTS stardrift_progress (
	id                INTEGER PRIMARY KEY CHECK (id = 1),
	high_score        INTEGER NOT NULL DEFAULT 0,
	infinite_unlocked BOOLEAN NOT NULL DEFAULT FALSE
)`

// ConnectPostgres opens the database at dsn, checks the connection and
// makes sure the progress table exists.
func ConnectPostgres(ctx context.Context, dsn string) (*Postgres, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	if _, err := db.ExecContext(ctx, createProgressTable); err != nil {
		db.Close()
		return nil, fmt.Errorf("create progress table: %w", err)
	}
	return &Postgres{db: db}, nil
}

// Close closes the underlying connection pool.
func (p *Postgres) Close() error {
	return p.db.Close()
}

func (p *Postgres) ReadHighScore(ctx context.Context) (int, error) {
	var score int
	err := p.db.QueryRowContext(ctx, `SELECT high_score FROM stardrift_progress WHERE id = 1`).Scan(&score)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("select high score: %w", err)
	}
	return score, nil
}

func (p *Postgres) WriteHighScore(ctx context.Context, score int) error {
	_, err := p.db.ExecContext(ctx, `
INSERT INTO stardrift_progress (id, high_score) VALUES (1, $1)
ON CONFLICT (id) DO UPDATE SET high_score = EXCLUDED.high_score`, score)
	if err != nil {
		return fmt.Errorf("upsert high score: %w", err)
	}
	return nil
}

func (p *Postgres) ReadInfiniteModeUnlocked(ctx context.Context) (bool, error) {
	var unlocked bool
	err := p.db.QueryRowContext(ctx, `SELECT infinite_unlocked FROM stardrift_progress WHERE id = 1`).Scan(&unlocked)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("select infinite mode flag: %w", err)
	}
	return unlocked, nil
}

func (p *Postgres) WriteInfiniteModeUnlocked(ctx context.Context, unlocked bool) error {
	_, err := p.db.ExecContext(ctx, `
INSERT INTO stardrift_progress (id, infinite_unlocked) VALUES (1, $1)
ON CONFLICT (id) DO UPDATE SET infinite_unlocked = EXCLUDED.infinite_unlocked`, unlocked)
	if err != nil {
		return fmt.Errorf("upsert infinite mode flag: %w", err)
	}
	return nil
}
