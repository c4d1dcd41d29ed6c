package main

import (
	"context"
	_ "embed"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"

	"github.com/tomz197/stardrift/internal/config"
	loopconfig "github.com/tomz197/stardrift/internal/loop/config"
	"github.com/tomz197/stardrift/internal/loop/server"
	"github.com/tomz197/stardrift/internal/loop/web"
	"github.com/tomz197/stardrift/internal/store"
)

const (
	defaultHost = "0.0.0.0"
	defaultPort = "8080"
)

//go:embed index.html
var htmlPage []byte

func main() {
	if err := config.Load(); err != nil {
		log.Fatal("Failed to load .env", "err", err)
	}
	config.SetupLogging()

	host := config.GetEnv("WEB_HOST", defaultHost)
	port := config.GetEnv("WEB_PORT", defaultPort)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	st, closeStore, err := store.Open(ctx, store.Options{
		Backend: config.GetEnv("STORE", store.BackendMemory),
		Path:    config.GetEnv("STORE_PATH", "/app/data/stardrift.save"),
		DSN:     config.GetEnv("DATABASE_URL", ""),
	})
	if err != nil {
		log.Fatal("Failed to open store", "err", err)
	}
	defer closeStore()

	hub := server.NewServer(ctx, st, log.Default())
	go hub.Run(ctx)

	addr := net.JoinHostPort(host, port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           web.NewRouter(hub, loopconfig.LoadTuning(), htmlPage, log.Default()),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info("Starting web server", "url", "http://"+addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Server error", "err", err)
		}
	}()

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)
	<-done
	log.Info("Shutting down server...")

	hub.Shutdown(5 * time.Second)
	cancel()

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Shutdown error", "err", err)
	}
}
