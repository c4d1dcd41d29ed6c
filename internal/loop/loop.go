// Package loop runs the game on a local terminal.
package loop

import (
	"bufio"
	"context"
	"fmt"
	"io"

	"github.com/charmbracelet/log"

	"github.com/tomz197/stardrift/internal/draw"
	"github.com/tomz197/stardrift/internal/loop/client"
	"github.com/tomz197/stardrift/internal/loop/server"
	"github.com/tomz197/stardrift/internal/store"
)

// Options configures a local game.
type Options struct {
	Username     string
	Store        store.Store // nil keeps progress in memory
	TermSizeFunc draw.TermSizeFunc
	Logger       *log.Logger
}

// Run plays one local session on r and w. A private hub is started so the
// local client goes through the same path as hosted sessions. Blocks until
// the player quits or ctx is cancelled.
func Run(ctx context.Context, r *bufio.Reader, w io.Writer, opts Options) error {
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	hub := server.NewServer(ctx, opts.Store, logger)
	go hub.Run(ctx)

	c := client.NewClient(ctx, hub, r, w, client.ClientOptions{
		TermSizeFunc: opts.TermSizeFunc,
		Username:     opts.Username,
		Logger:       logger,
	})

	go func() {
		<-ctx.Done()
		c.Stop()
	}()

	if err := c.Run(); err != nil {
		return fmt.Errorf("run client: %w", err)
	}
	return nil
}
