package quiz

import (
	"context"
	"log/slog"
)

type MovieCache interface {
	GetMovie(ctx context.Context, id int) (Movie, bool, error)
	PutMovie(ctx context.Context, movie Movie) error
}

// CachedSource is a read-through cache in front of a MovieSource. Cache
// failures are logged and never fail a lookup.
type CachedSource struct {
	source MovieSource
	cache  MovieCache
	logger *slog.Logger
}

func NewCachedSource(source MovieSource, cache MovieCache, logger *slog.Logger) *CachedSource {
	if logger == nil {
		logger = slog.Default()
	}
	return &CachedSource{
		source: source,
		cache:  cache,
		logger: logger,
	}
}

func (s *CachedSource) Movie(ctx context.Context, id int) (Movie, error) {
	if s.cache != nil {
		movie, ok, err := s.cache.GetMovie(ctx, id)
		if err != nil {
			s.logger.Warn("movie cache read failed", "movie_id", id, "error", err)
		} else if ok {
			return movie, nil
		}
	}

	movie, err := s.source.Movie(ctx, id)
	if err != nil {
		return Movie{}, err
	}

	if s.cache != nil {
		if err := s.cache.PutMovie(ctx, movie); err != nil {
			s.logger.Warn("movie cache write failed", "movie_id", id, "error", err)
		}
	}
	return movie, nil
}
