package main

import (
	"context"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/elderflowhq/console/internal/stubserver"
)

func main() {
	_ = godotenv.Load()

	var (
		addr   = flag.String("addr", envOr("ELDERFLOW_STUB_ADDR", ":4000"), "listen address")
		dbPath = flag.String("db", envOr("ELDERFLOW_STUB_DB", "elderflow-stub.db"), "sqlite database path (:memory: for ephemeral)")
		secret = flag.String("secret", envOr("ELDERFLOW_STUB_SECRET", "stub-secret"), "token signing secret")
		seed   = flag.Bool("seed", true, "seed demo data when the database is empty")
	)
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: parseLogLevel(os.Getenv("ELDERFLOW_LOG_LEVEL")),
	}))

	if err := ensureDBDir(*dbPath); err != nil {
		logger.Error("failed to prepare database path", "error", err)
		os.Exit(1)
	}

	db, err := stubserver.NewDB(*dbPath)
	if err != nil {
		logger.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := db.RunMigrations(); err != nil {
		logger.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	srv := stubserver.NewServer(db, *secret, logger)
	if *seed {
		if err := srv.Seed(context.Background()); err != nil {
			logger.Error("failed to seed demo data", "error", err)
			os.Exit(1)
		}
	}

	httpServer := &http.Server{
		Addr:    *addr,
		Handler: srv.Handler(),
	}

	go func() {
		logger.Info("stub server listening", "addr", *addr, "db", *dbPath)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
		}
	}()

	waitForShutdown(logger, httpServer)
}

func waitForShutdown(logger *slog.Logger, server *http.Server) {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	logger.Info("shutting down")
	if err := server.Shutdown(ctx); err != nil {
		logger.Error("shutdown error", "error", err)
	}
}

func ensureDBDir(path string) error {
	if path == ":memory:" || path == "" {
		return nil
	}
	dir := filepath.Dir(path)
	if dir == "." {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
