package main

import (
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"time"

	"popcorn-quiz/internal/config"
	"popcorn-quiz/internal/httpapi"
	"popcorn-quiz/internal/quiz/sqlite"
	"popcorn-quiz/internal/ranking"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logger := config.NewLogger(os.Stderr, cfg.LogLevel)

	addr := flag.String("addr", cfg.BoardAddr, "HTTP listen address")
	flag.Parse()

	store, err := sqlite.NewSQLiteStore(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("open game history %s: %w", cfg.DBPath, err)
	}
	defer store.Close()

	enc, err := ranking.EncodingByName(cfg.Ranking.Encoding)
	if err != nil {
		return err
	}

	server := &http.Server{
		Addr:              *addr,
		Handler:           httpapi.NewRouter(store, ranking.NewFileStore(cfg.Ranking.Path, enc), logger),
		ReadHeaderTimeout: 5 * time.Second,
	}

	logger.Info("popcorn-board listening", "addr", *addr)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server failed: %w", err)
	}
	return nil
}
