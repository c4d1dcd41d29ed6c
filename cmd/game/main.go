package main

import (
	"bufio"
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"
	"golang.org/x/term"

	"github.com/tomz197/stardrift/internal/config"
	"github.com/tomz197/stardrift/internal/loop"
	"github.com/tomz197/stardrift/internal/store"
)

func main() {
	if err := config.Load(); err != nil {
		log.Fatal("Failed to load .env", "err", err)
	}
	config.SetupLogging()

	// The game owns the terminal, so logs go to LOG_FILE or nowhere.
	logger := log.New(io.Discard)
	if path := config.GetEnv("LOG_FILE", ""); path != "" {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			log.Fatal("Failed to open log file", "path", path, "err", err)
		}
		defer f.Close()
		logger = log.NewWithOptions(f, log.Options{ReportTimestamp: true, Level: log.GetLevel()})
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	st, closeStore, err := store.Open(ctx, store.Options{
		Backend: config.GetEnv("STORE", store.BackendFile),
		Path:    config.GetEnv("STORE_PATH", "stardrift.save"),
		DSN:     config.GetEnv("DATABASE_URL", ""),
	})
	if err != nil {
		log.Fatal("Failed to open store", "err", err)
	}
	defer closeStore()

	fd := int(os.Stdin.Fd())
	oldState, err := term.MakeRaw(fd)
	if err != nil {
		log.Fatal("Failed to enable raw mode", "err", err)
	}
	defer func() {
		_ = term.Restore(fd, oldState)
	}()

	reader := bufio.NewReader(os.Stdin)
	err = loop.Run(ctx, reader, os.Stdout, loop.Options{
		Username: config.GetEnv("USER", "pilot"),
		Store:    st,
		Logger:   logger,
	})
	if err != nil {
		_ = term.Restore(fd, oldState)
		log.Error("Game error", "err", err)
		os.Exit(1)
	}
}
