package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds everything the game and the board read from the environment.
type Config struct {
	TMDB    TMDBConfig
	Redis   RedisConfig
	Ranking RankingConfig

	DBPath       string
	CacheTTL     time.Duration
	LineWidth    int
	PosterViewer string
	BoardAddr    string
	LogLevel     string
}

type TMDBConfig struct {
	APIKey       string
	BaseURL      string
	ImageBaseURL string
	ExportURL    string
	Language     string
	Timeout      time.Duration
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// Enabled reports whether a Redis address was configured.
func (r RedisConfig) Enabled() bool {
	return r.Addr != ""
}

type RankingConfig struct {
	Path     string
	Encoding string
}

// Load reads configuration from environment variables. A .env file in the
// working directory is loaded first when present.
func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		TMDB: TMDBConfig{
			APIKey:       os.Getenv("TMDB_API_KEY"),
			BaseURL:      getEnv("TMDB_BASE_URL", "https://api.themoviedb.org/3"),
			ImageBaseURL: getEnv("TMDB_IMAGE_BASE_URL", "https://image.tmdb.org/t/p/original"),
			ExportURL:    getEnv("TMDB_EXPORT_URL", "http://files.tmdb.org/p/exports/movie_ids_05_15_2024.json.gz"),
			Language:     getEnv("TMDB_LANGUAGE", "en-US"),
		},
		Redis: RedisConfig{
			Addr:     os.Getenv("REDIS_ADDR"),
			Password: os.Getenv("REDIS_PASSWORD"),
		},
		Ranking: RankingConfig{
			Path:     getEnv("RANKING_PATH", "./Ranking.txt"),
			Encoding: rankingEncoding(getEnv("RANKING_ENCODING", "utf-8")),
		},
		DBPath:       getEnv("DB_PATH", "popcorn.db"),
		PosterViewer: os.Getenv("POSTER_VIEWER"),
		BoardAddr:    getEnv("BOARD_ADDR", ":8080"),
		LogLevel:     strings.ToLower(getEnv("LOG_LEVEL", "warn")),
	}

	var err error
	if cfg.TMDB.Timeout, err = getEnvSeconds("TMDB_TIMEOUT_SECS", 15); err != nil {
		return Config{}, err
	}
	if cfg.Redis.DB, err = getEnvInt("REDIS_DB", 0); err != nil {
		return Config{}, err
	}
	if cfg.LineWidth, err = getEnvInt("LINE_WIDTH", 80); err != nil {
		return Config{}, err
	}
	if cfg.CacheTTL, err = getEnvDuration("CACHE_TTL", 7*24*time.Hour); err != nil {
		return Config{}, err
	}

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	if c.TMDB.Timeout <= 0 {
		return fmt.Errorf("TMDB_TIMEOUT_SECS must be positive")
	}
	if c.LineWidth < 20 {
		return fmt.Errorf("LINE_WIDTH must be at least 20")
	}
	if c.Redis.DB < 0 {
		return fmt.Errorf("REDIS_DB must be non-negative")
	}
	if c.CacheTTL < 0 {
		return fmt.Errorf("CACHE_TTL must be non-negative")
	}
	switch c.Ranking.Encoding {
	case "utf-8", "windows-1252":
	default:
		return fmt.Errorf("RANKING_ENCODING must be utf-8 or windows-1252, got %q", c.Ranking.Encoding)
	}
	if _, ok := logLevels[c.LogLevel]; !ok {
		return fmt.Errorf("LOG_LEVEL must be one of debug, info, warn, error; got %q", c.LogLevel)
	}
	return nil
}

// RequireAPIKey fails when no TMDB credential was supplied; only the game
// needs one.
func (c Config) RequireAPIKey() error {
	if strings.TrimSpace(c.TMDB.APIKey) == "" {
		return fmt.Errorf("TMDB_API_KEY is required")
	}
	return nil
}

// rankingEncoding folds the accepted aliases into utf-8 or windows-1252.
// Unknown names pass through for validate to reject.
func rankingEncoding(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	switch name {
	case "utf8":
		return "utf-8"
	case "cp1252", "ansi":
		return "windows-1252"
	}
	return name
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) (int, error) {
	val := os.Getenv(key)
	if val == "" {
		return fallback, nil
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer, got %q", key, val)
	}
	return parsed, nil
}

func getEnvSeconds(key string, fallback int) (time.Duration, error) {
	secs, err := getEnvInt(key, fallback)
	if err != nil {
		return 0, err
	}
	return time.Duration(secs) * time.Second, nil
}

func getEnvDuration(key string, fallback time.Duration) (time.Duration, error) {
	val := os.Getenv(key)
	if val == "" {
		return fallback, nil
	}
	parsed, err := time.ParseDuration(val)
	if err != nil {
		return 0, fmt.Errorf("%s must be a duration, got %q", key, val)
	}
	return parsed, nil
}
