// Command copilotd serves the chat loop over HTTP with persistent memory,
// for browser clients that keep their own history.
package main

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"pkt.systems/pslog"

	"pscopilot/config"
	"pscopilot/server"
	"pscopilot/storage"
)

func main() {
	logger := pslog.LoggerFromEnv(
		pslog.WithEnvWriter(os.Stderr),
		pslog.WithEnvOptions(pslog.Options{Mode: pslog.ModeStructured}),
	)
	ctx := pslog.ContextWithLogger(context.Background(), logger)
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	config.InitDebugLog(cfg.DataDir())

	apiKey, err := config.APIKey(cfg.Provider, cfg.DataDir())
	if err != nil {
		logger.Error("no API key available", "provider", cfg.Provider, "error", err)
		os.Exit(1)
	}

	dbPath := os.Getenv("PSCOPILOT_DB_PATH")
	if dbPath == "" {
		dbPath = filepath.Join(cfg.DataDir(), "memory.db")
	}

	store, err := storage.NewMemoryStore(dbPath)
	if err != nil {
		logger.Error("failed to open memory store", "path", dbPath, "error", err)
		os.Exit(1)
	}
	defer store.Close()

	addr := os.Getenv("PSCOPILOT_LISTEN_ADDR")
	if addr == "" {
		addr = ":8787"
	}

	srv := server.NewServer(server.Config{
		Provider: cfg.Provider,
		BaseURL:  cfg.BaseURL,
		Model:    cfg.Model,
		APIKey:   apiKey,
	}, store)

	logger.Info("copilotd listening", "addr", addr, "provider", cfg.Provider, "db", dbPath)
	if err := server.ListenAndServe(ctx, addr, srv.Handler()); err != nil {
		logger.Error("http server failed", "error", err)
		os.Exit(1)
	}
}
