package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"popcorn-quiz/internal/config"
	"popcorn-quiz/internal/quiz"
)

const keyPrefix = "popcorn:movie:"

// NewRedisClient connects to Redis and pings it once.
func NewRedisClient(ctx context.Context, cfg config.RedisConfig, logger *slog.Logger) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	logger.Info("connected to Redis", "addr", cfg.Addr)
	return client, nil
}

// MovieCache stores movie records as JSON strings that expire after ttl.
type MovieCache struct {
	client   *redis.Client
	language string
	ttl      time.Duration
}

func NewMovieCache(client *redis.Client, language string, ttl time.Duration) *MovieCache {
	return &MovieCache{
		client:   client,
		language: language,
		ttl:      ttl,
	}
}

func MovieKey(language string, id int) string {
	return keyPrefix + language + ":" + strconv.Itoa(id)
}

func (c *MovieCache) GetMovie(ctx context.Context, id int) (quiz.Movie, bool, error) {
	cached, err := c.client.Get(ctx, MovieKey(c.language, id)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return quiz.Movie{}, false, nil
		}
		return quiz.Movie{}, false, err
	}

	var movie quiz.Movie
	if err := json.Unmarshal([]byte(cached), &movie); err != nil {
		return quiz.Movie{}, false, err
	}
	return movie, true, nil
}

func (c *MovieCache) PutMovie(ctx context.Context, movie quiz.Movie) error {
	data, err := json.Marshal(movie)
	if err != nil {
		return err
	}
	// A zero ttl stores the key without expiry.
	return c.client.Set(ctx, MovieKey(c.language, movie.ID), data, c.ttl).Err()
}
