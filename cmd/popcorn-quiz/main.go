package main

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"net/http"
	"os"
	"time"

	"popcorn-quiz/internal/cache"
	"popcorn-quiz/internal/cli"
	"popcorn-quiz/internal/config"
	"popcorn-quiz/internal/poster"
	"popcorn-quiz/internal/quiz"
	"popcorn-quiz/internal/quiz/sqlite"
	"popcorn-quiz/internal/ranking"
	"popcorn-quiz/internal/tmdb"
)

func main() {
	if err := run(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if err := cfg.RequireAPIKey(); err != nil {
		return err
	}
	logger := config.NewLogger(os.Stderr, cfg.LogLevel)

	store, err := sqlite.NewSQLiteStore(cfg.DBPath)
	if err != nil {
		return err
	}
	defer store.Close()

	enc, err := ranking.EncodingByName(cfg.Ranking.Encoding)
	if err != nil {
		return err
	}

	client := tmdb.NewClient(tmdb.Config{
		APIKey:       cfg.TMDB.APIKey,
		BaseURL:      cfg.TMDB.BaseURL,
		ImageBaseURL: cfg.TMDB.ImageBaseURL,
		ExportURL:    cfg.TMDB.ExportURL,
		Language:     cfg.TMDB.Language,
	}, &http.Client{Timeout: cfg.TMDB.Timeout}, logger)

	movies := quiz.NewCachedSource(client, movieCache(ctx, cfg, store, logger), logger)
	rng := rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), rand.Uint64()))

	viewer := poster.NewFileViewer("", cfg.PosterViewer, os.Stdout)
	defer viewer.Close()

	return cli.Run(ctx, os.Stdin, os.Stdout, cli.Config{
		LineWidth:   cfg.LineWidth,
		ClearScreen: true,
	}, cli.Deps{
		Catalog: quiz.NewCatalogBuilder(client, movies, rng, logger),
		Posters: client,
		Viewer:  viewer,
		Ranking: ranking.NewFileStore(cfg.Ranking.Path, enc),
		History: store,
		Rand:    rng,
		Logger:  logger,
	})
}

// movieCache prefers Redis when configured and reachable, and the SQLite
// store otherwise.
func movieCache(ctx context.Context, cfg config.Config, store *sqlite.SQLiteStore, logger *slog.Logger) quiz.MovieCache {
	if cfg.Redis.Enabled() {
		client, err := cache.NewRedisClient(ctx, cfg.Redis, logger)
		if err == nil {
			return cache.NewMovieCache(client, cfg.TMDB.Language, cfg.CacheTTL)
		}
		logger.Warn("redis unavailable, using sqlite movie cache", "error", err)
	}
	return store.MovieCache(cfg.TMDB.Language, cfg.CacheTTL)
}
