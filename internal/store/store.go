// Package store persists the high score and the infinite-mode unlock flag.
package store

import (
	"context"
	"fmt"
	"sync"
)

// Store is the persistence collaborator. Durable backends survive restarts.
type Store interface {
	ReadHighScore(ctx context.Context) (int, error)
	WriteHighScore(ctx context.Context, score int) error
	ReadInfiniteModeUnlocked(ctx context.Context) (bool, error)
	WriteInfiniteModeUnlocked(ctx context.Context, unlocked bool) error
}

// Progress is the full persisted record.
type Progress struct {
	HighScore        int  `msgpack:"high_score" json:"highScore"`
	InfiniteUnlocked bool `msgpack:"infinite_unlocked" json:"infiniteUnlocked"`
}

// Memory keeps progress in process memory. Safe for concurrent use.
type Memory struct {
	mu       sync.Mutex
	progress Progress
}

var _ Store = (*Memory)(nil)

// NewMemory creates an in-memory store seeded with progress.
func NewMemory(p Progress) *Memory {
	return &Memory{progress: p}
}

func (m *Memory) ReadHighScore(_ context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.progress.HighScore, nil
}

func (m *Memory) WriteHighScore(_ context.Context, score int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.progress.HighScore = score
	return nil
}

func (m *Memory) ReadInfiniteModeUnlocked(_ context.Context) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.progress.InfiniteUnlocked, nil
}

func (m *Memory) WriteInfiniteModeUnlocked(_ context.Context, unlocked bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.progress.InfiniteUnlocked = unlocked
	return nil
}

// Locked serialises access to a store shared by several game sessions and
// keeps high-score writes monotonic across them.
type Locked struct {
	mu    sync.Mutex
	inner Store
}

var _ Store = (*Locked)(nil)

// NewLocked wraps inner.
func NewLocked(inner Store) *Locked {
	return &Locked{inner: inner}
}

func (l *Locked) ReadHighScore(ctx context.Context) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.inner.ReadHighScore(ctx)
}

// WriteHighScore only writes when score beats the stored value, so a
// session with a stale cache cannot lower another session's record.
func (l *Locked) WriteHighScore(ctx context.Context, score int) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	current, err := l.inner.ReadHighScore(ctx)
	if err == nil && current >= score {
		return nil
	}
	return l.inner.WriteHighScore(ctx, score)
}

func (l *Locked) ReadInfiniteModeUnlocked(ctx context.Context) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.inner.ReadInfiniteModeUnlocked(ctx)
}

func (l *Locked) WriteInfiniteModeUnlocked(ctx context.Context, unlocked bool) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.inner.WriteInfiniteModeUnlocked(ctx, unlocked)
}

// Load reads the full progress record from s.
func Load(ctx context.Context, s Store) (Progress, error) {
	score, err := s.ReadHighScore(ctx)
	if err != nil {
		return Progress{}, fmt.Errorf("read high score: %w", err)
	}
	unlocked, err := s.ReadInfiniteModeUnlocked(ctx)
	if err != nil {
		return Progress{HighScore: score}, fmt.Errorf("read infinite mode flag: %w", err)
	}
	return Progress{HighScore: score, InfiniteUnlocked: unlocked}, nil
}
