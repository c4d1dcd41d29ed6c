package store

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/vmihailenco/msgpack/v5"
)

// File persists progress as a msgpack record on disk. A missing file is an
// empty record; a corrupt one reads as zero and is replaced on the next write.
type File struct {
	mu   sync.Mutex
	path string
}

var _ Store = (*File)(nil)

// NewFile creates a store backed by the file at path.
func NewFile(path string) *File {
	return &File{path: path}
}

func (f *File) ReadHighScore(_ context.Context) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, err := f.load()
	return p.HighScore, err
}

func (f *File) WriteHighScore(_ context.Context, score int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, _ := f.load()
	p.HighScore = score
	return f.save(p)
}

func (f *File) ReadInfiniteModeUnlocked(_ context.Context) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, err := f.load()
	return p.InfiniteUnlocked, err
}

func (f *File) WriteInfiniteModeUnlocked(_ context.Context, unlocked bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, _ := f.load()
	p.InfiniteUnlocked = unlocked
	return f.save(p)
}

// load returns the zero record alongside any decode error.
func (f *File) load() (Progress, error) {
	data, err := os.ReadFile(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		return Progress{}, nil
	}
	if err != nil {
		return Progress{}, fmt.Errorf("read %s: %w", f.path, err)
	}

	var p Progress
	if err := msgpack.Unmarshal(data, &p); err != nil {
		return Progress{}, fmt.Errorf("decode %s: %w", f.path, err)
	}
	if p.HighScore < 0 {
		return Progress{InfiniteUnlocked: p.InfiniteUnlocked}, fmt.Errorf("decode %s: negative high score %d", f.path, p.HighScore)
	}
	return p, nil
}

// save writes atomically via a temp file in the same directory.
func (f *File) save(p Progress) error {
	data, err := msgpack.Marshal(&p)
	if err != nil {
		return fmt.Errorf("encode progress: %w", err)
	}

	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create %s: %w", dir, err)
	}
	tmp, err := os.CreateTemp(dir, ".progress-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), f.path); err != nil {
		return fmt.Errorf("replace %s: %w", f.path, err)
	}
	return nil
}
