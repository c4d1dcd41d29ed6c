package store

import (
	"context"
	"fmt"
)

// Backend names accepted by Open.
const (
	BackendMemory   = "memory"
	BackendFile     = "file"
	BackendPostgres = "postgres"
)

// Options selects and configures a backend.
type Options struct {
	Backend string // memory, file or postgres
	Path    string // file backend location
	DSN     string // postgres connection string
}

// Open creates the configured store. The returned close function releases
// backend resources and is never nil.
func Open(ctx context.Context, opts Options) (Store, func() error, error) {
	noop := func() error { return nil }

	switch opts.Backend {
	case "", BackendMemory:
		return NewMemory(Progress{}), noop, nil
	case BackendFile:
		if opts.Path == "" {
			return nil, noop, fmt.Errorf("file store: empty path")
		}
		return NewFile(opts.Path), noop, nil
	case BackendPostgres:
		if opts.DSN == "" {
			return nil, noop, fmt.Errorf("postgres store: empty DSN")
		}
		pg, err := ConnectPostgres(ctx, opts.DSN)
		if err != nil {
			return nil, noop, err
		}
		return pg, pg.Close, nil
	default:
		return nil, noop, fmt.Errorf("unknown store backend %q", opts.Backend)
	}
}
