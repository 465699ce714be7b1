package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"popcorn-quiz/internal/quiz"
)

// MovieCache is a quiz.MovieCache view over the store for one metadata
// language. Entries older than ttl are treated as misses; ttl <= 0 keeps
// entries forever.
type MovieCache struct {
	store    *SQLiteStore
	language string
	ttl      time.Duration
	now      func() time.Time
}

func (s *SQLiteStore) MovieCache(language string, ttl time.Duration) *MovieCache {
	return &MovieCache{
		store:    s,
		language: language,
		ttl:      ttl,
		now:      time.Now,
	}
}

func (c *MovieCache) GetMovie(ctx context.Context, id int) (quiz.Movie, bool, error) {
	var (
		payload       string
		fetchedAtUnix int64
	)
	err := c.store.db.QueryRowContext(
		ctx,
		`SELECT payload_json, fetched_at_unix FROM movie_cache WHERE movie_id = ? AND language = ?`,
		id,
		c.language,
	).Scan(&payload, &fetchedAtUnix)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return quiz.Movie{}, false, nil
		}
		return quiz.Movie{}, false, err
	}

	if c.ttl > 0 && c.now().Sub(time.Unix(0, fetchedAtUnix)) > c.ttl {
		return quiz.Movie{}, false, nil
	}

	var movie quiz.Movie
	if err := json.Unmarshal([]byte(payload), &movie); err != nil {
		return quiz.Movie{}, false, err
	}
	return movie, true, nil
}

func (c *MovieCache) PutMovie(ctx context.Context, movie quiz.Movie) error {
	payload, err := json.Marshal(movie)
	if err != nil {
		return err
	}

	_, err = c.store.db.ExecContext(
		ctx,
		`INSERT INTO movie_cache (movie_id, language, payload_json, fetched_at_unix)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT(movie_id, language) DO UPDATE SET
			payload_json = excluded.payload_json,
			fetched_at_unix = excluded.fetched_at_unix`,
		movie.ID,
		c.language,
		string(payload),
		c.now().UTC().UnixNano(),
	)
	return err
}
