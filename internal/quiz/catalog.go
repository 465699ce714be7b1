package quiz

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"slices"
	"strconv"
)

const (
	CatalogSampleSize = 50
	domesticCountry   = "US"
)

// IndexEntry is one row of the bulk movie-ID export.
type IndexEntry struct {
	ID         int     `json:"id"`
	Popularity float64 `json:"popularity"`
}

type IndexSource interface {
	FetchIndex(ctx context.Context) ([]IndexEntry, error)
}

type MovieSource interface {
	Movie(ctx context.Context, id int) (Movie, error)
}

// CatalogBuilder assembles the per-session movie catalog.
type CatalogBuilder struct {
	index  IndexSource
	movies MovieSource
	rng    *rand.Rand
	logger *slog.Logger
}

func NewCatalogBuilder(index IndexSource, movies MovieSource, rng *rand.Rand, logger *slog.Logger) *CatalogBuilder {
	if logger == nil {
		logger = slog.Default()
	}
	return &CatalogBuilder{
		index:  index,
		movies: movies,
		rng:    rng,
		logger: logger,
	}
}

// Build samples CatalogSampleSize movies from the difficulty's popularity
// window and fetches their details in sample order. Lookup failures abort
// the build; records that fail ingestion are skipped.
func (b *CatalogBuilder) Build(ctx context.Context, d Difficulty) ([]Movie, error) {
	if !d.Valid() {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidDifficulty, int(d))
	}

	entries, err := b.index.FetchIndex(ctx)
	if err != nil {
		return nil, err
	}

	window, err := RankWindow(entries, d)
	if err != nil {
		return nil, err
	}
	sampled := b.sample(window, CatalogSampleSize)

	catalog := make([]Movie, 0, len(sampled))
	for _, entry := range sampled {
		movie, err := b.movies.Movie(ctx, entry.ID)
		if err != nil {
			if skippable(err) {
				b.logger.Warn("skipping movie", "movie_id", entry.ID, "error", err)
				continue
			}
			var fetchErr *FetchError
			if !errors.As(err, &fetchErr) {
				err = &FetchError{Source: "movie details", Key: strconv.Itoa(entry.ID), Err: err}
			}
			return nil, fmt.Errorf("build catalog: %w", err)
		}
		if d.USOnly() && movie.OriginCountry != domesticCountry {
			continue
		}
		catalog = append(catalog, movie)
	}

	b.logger.Debug("catalog built", "difficulty", int(d), "sampled", len(sampled), "kept", len(catalog))
	if len(catalog) < OptionCount {
		return nil, fmt.Errorf("%w: kept %d of %d sampled movies", ErrCatalogTooSmall, len(catalog), len(sampled))
	}
	return catalog, nil
}

// RankWindow sorts entries by popularity, most popular first, and returns the
// difficulty's rank slice. The window is clipped to the index length.
func RankWindow(entries []IndexEntry, d Difficulty) ([]IndexEntry, error) {
	if !d.Valid() {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidDifficulty, int(d))
	}

	ranked := slices.Clone(entries)
	slices.SortStableFunc(ranked, func(a, b IndexEntry) int {
		return cmp.Compare(b.Popularity, a.Popularity)
	})

	start, end := d.RankWindow()
	end = min(end, len(ranked))
	if end-start < CatalogSampleSize {
		return nil, fmt.Errorf("%w: %d entries, window [%d,%d) needs %d",
			ErrIndexTooSmall, len(ranked), start, end, CatalogSampleSize)
	}
	return ranked[start:end], nil
}

func (b *CatalogBuilder) sample(window []IndexEntry, n int) []IndexEntry {
	picked := make([]IndexEntry, 0, n)
	for _, idx := range b.rng.Perm(len(window))[:n] {
		picked = append(picked, window[idx])
	}
	return picked
}
