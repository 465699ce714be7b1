package tmdb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"popcorn-quiz/internal/quiz"
)

const (
	DefaultBaseURL      = "https://api.themoviedb.org/3"
	DefaultImageBaseURL = "https://image.tmdb.org/t/p/original"
	DefaultExportURL    = "http://files.tmdb.org/p/exports/movie_ids_05_15_2024.json.gz"
	DefaultLanguage     = "en-US"

	releaseDateLayout = "2006-01-02"
)

type Config struct {
	APIKey       string
	BaseURL      string
	ImageBaseURL string
	ExportURL    string
	Language     string
}

// Client talks to the TMDB API, its daily export bucket and its image CDN.
type Client struct {
	httpClient *http.Client
	cfg        Config
	logger     *slog.Logger
}

func NewClient(cfg Config, httpClient *http.Client, logger *slog.Logger) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.ImageBaseURL == "" {
		cfg.ImageBaseURL = DefaultImageBaseURL
	}
	if cfg.ExportURL == "" {
		cfg.ExportURL = DefaultExportURL
	}
	if cfg.Language == "" {
		cfg.Language = DefaultLanguage
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	cfg.ImageBaseURL = strings.TrimRight(cfg.ImageBaseURL, "/")

	return &Client{
		httpClient: httpClient,
		cfg:        cfg,
		logger:     logger,
	}
}

type genre struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// movieDetail mirrors the subset of GET /movie/{id} the game uses.
type movieDetail struct {
	ID            int      `json:"id"`
	Title         string   `json:"title"`
	Genres        []genre  `json:"genres"`
	OriginCountry []string `json:"origin_country"`
	Overview      string   `json:"overview"`
	ReleaseDate   string   `json:"release_date"`
	Budget        int64    `json:"budget"`
	Revenue       int64    `json:"revenue"`
	Runtime       int      `json:"runtime"`
	PosterPath    string   `json:"poster_path"`
}

// Movie fetches and validates the details of one movie.
func (c *Client) Movie(ctx context.Context, id int) (quiz.Movie, error) {
	key := strconv.Itoa(id)
	reqURL := c.cfg.BaseURL + "/movie/" + key + "?" + url.Values{"language": {c.cfg.Language}}.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return quiz.Movie{}, err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)

	c.logger.Debug("fetching tmdb movie detail", "movie_id", id)
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return quiz.Movie{}, &quiz.FetchError{Source: "tmdb movie details", Key: key, Err: err}
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		return quiz.Movie{}, fmt.Errorf("tmdb movie %d: %w", id, quiz.ErrMovieUnavailable)
	default:
		return quiz.Movie{}, &quiz.FetchError{Source: "tmdb movie details", Key: key, Err: statusError(resp)}
	}

	var payload movieDetail
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return quiz.Movie{}, &quiz.FetchError{Source: "tmdb movie details", Key: key, Err: fmt.Errorf("decode response: %w", err)}
	}
	if payload.ID == 0 {
		payload.ID = id
	}
	return c.toMovie(payload)
}

func (c *Client) toMovie(detail movieDetail) (quiz.Movie, error) {
	title := strings.TrimSpace(detail.Title)
	if title == "" {
		return quiz.Movie{}, &quiz.MissingFieldError{MovieID: detail.ID, Field: "title"}
	}

	genres := make([]string, 0, len(detail.Genres))
	for _, item := range detail.Genres {
		if name := strings.TrimSpace(item.Name); name != "" {
			genres = append(genres, name)
		}
	}

	movie := quiz.Movie{
		ID:          detail.ID,
		Title:       title,
		Genres:      genres,
		Overview:    detail.Overview,
		ReleaseYear: parseReleaseYear(detail.ReleaseDate),
		Budget:      max(detail.Budget, 0),
		Revenue:     max(detail.Revenue, 0),
		Runtime:     max(detail.Runtime, 0),
	}
	if len(detail.OriginCountry) > 0 {
		movie.OriginCountry = detail.OriginCountry[0]
	}
	if detail.PosterPath != "" {
		movie.PosterURL = c.cfg.ImageBaseURL + detail.PosterPath
	}
	return movie, nil
}

func parseReleaseYear(value string) *int {
	released, err := time.Parse(releaseDateLayout, strings.TrimSpace(value))
	if err != nil {
		return nil
	}
	return quiz.Year(released.Year())
}

// FetchPoster downloads the raw bytes of a poster image.
func (c *Client) FetchPoster(ctx context.Context, posterURL string) ([]byte, error) {
	if posterURL == "" {
		return nil, &quiz.FetchError{Source: "poster image", Key: "(empty url)", Err: errors.New("movie has no poster")}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, posterURL, nil)
	if err != nil {
		return nil, err
	}

	c.logger.Debug("fetching poster", "url", posterURL)
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &quiz.FetchError{Source: "poster image", Key: posterURL, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &quiz.FetchError{Source: "poster image", Key: posterURL, Err: statusError(resp)}
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &quiz.FetchError{Source: "poster image", Key: posterURL, Err: err}
	}
	return data, nil
}

func statusError(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
	return fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
}
