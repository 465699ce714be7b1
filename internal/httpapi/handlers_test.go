package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"popcorn-quiz/internal/quiz"
	"popcorn-quiz/internal/ranking"
)

type fakeGames struct {
	games     []quiz.GameRecord
	err       error
	lastLimit int
}

func (f *fakeGames) GetGame(_ context.Context, gameID string) (quiz.GameRecord, error) {
	if f.err != nil {
		return quiz.GameRecord{}, f.err
	}
	for _, game := range f.games {
		if game.GameID == gameID {
			return game, nil
		}
	}
	return quiz.GameRecord{}, quiz.ErrGameNotFound
}

func (f *fakeGames) ListGames(_ context.Context, limit int) ([]quiz.GameRecord, error) {
	f.lastLimit = limit
	if f.err != nil {
		return nil, f.err
	}
	if limit < len(f.games) {
		return f.games[:limit], nil
	}
	return f.games, nil
}

type fakeRanking struct {
	ranking quiz.Ranking
	err     error
}

func (f fakeRanking) Load() (quiz.Ranking, error) {
	return f.ranking, f.err
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func sampleGames() []quiz.GameRecord {
	return []quiz.GameRecord{
		{
			GameID:       "g2",
			Player:       "Ana",
			Difficulty:   quiz.DifficultyPulpFiction,
			CorrectCount: 4,
			Score:        quiz.Score(quiz.DifficultyPulpFiction, 4),
			PlayedAt:     time.Unix(1700000100, 0).UTC(),
			Answers: []quiz.AnswerRecord{
				{Round: 1, Kind: quiz.KindReleaseYear, MovieTitle: "Alien", CorrectAnswer: "1979", ChosenAnswer: "1979", Correct: true},
			},
		},
		{
			GameID:       "g1",
			Player:       "Luis",
			Difficulty:   quiz.DifficultyAmericanPie,
			CorrectCount: 3,
			Score:        quiz.Score(quiz.DifficultyAmericanPie, 3),
			PlayedAt:     time.Unix(1700000000, 0).UTC(),
		},
	}
}

func serve(t *testing.T, handler http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	if err := json.NewDecoder(rec.Body).Decode(&out); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return out
}

func TestParseIntParam(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/games", nil)
	if got, err := parseIntParam(req, "limit", 10); err != nil || got != 10 {
		t.Fatalf("default parseIntParam = (%d, %v), want (10, nil)", got, err)
	}

	req = httptest.NewRequest(http.MethodGet, "/games?limit=25", nil)
	if got, err := parseIntParam(req, "limit", 10); err != nil || got != 25 {
		t.Fatalf("valid parseIntParam = (%d, %v), want (25, nil)", got, err)
	}

	req = httptest.NewRequest(http.MethodGet, "/games?limit=0", nil)
	if _, err := parseIntParam(req, "limit", 10); err == nil {
		t.Fatalf("expected error for non-positive limit")
	}
}

func TestHandleHealth(t *testing.T) {
	rec := serve(t, NewRouter(&fakeGames{}, fakeRanking{}, discardLogger()), "/healthz")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if got := decodeBody[healthResponse](t, rec); got.Status != "ok" {
		t.Fatalf("unexpected body: %+v", got)
	}
}

func TestHandleRanking(t *testing.T) {
	r := ranking.Default()
	r[0] = quiz.RankingEntry{Player: "Ana", Difficulty: "4 - Pulp Fiction", Score: decimal.RequireFromString("8")}

	rec := serve(t, NewRouter(&fakeGames{}, fakeRanking{ranking: r}, discardLogger()), "/ranking")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Fatalf("content type = %q", ct)
	}

	got := decodeBody[rankingResponse](t, rec)
	if len(got.Ranking) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(got.Ranking))
	}
	first := got.Ranking[0]
	if first.Position != 1 || first.Player != "Ana" || first.Score != "8.00" {
		t.Fatalf("unexpected first entry: %+v", first)
	}
	if got.Ranking[2].Player != "-" || got.Ranking[2].Score != "0.00" {
		t.Fatalf("unexpected empty slot: %+v", got.Ranking[2])
	}
}

func TestHandleRankingMalformed(t *testing.T) {
	loader := fakeRanking{err: errors.Join(ranking.ErrMalformedRanking, errors.New("2 rows"))}
	rec := serve(t, NewRouter(&fakeGames{}, loader, discardLogger()), "/ranking")
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
	if got := decodeBody[errorResponse](t, rec); got.Error != "ranking file is malformed" {
		t.Fatalf("unexpected error body: %+v", got)
	}
}

func TestHandleListGames(t *testing.T) {
	games := &fakeGames{games: sampleGames()}
	router := NewRouter(games, fakeRanking{}, discardLogger())

	rec := serve(t, router, "/games")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if games.lastLimit != defaultListLimit {
		t.Fatalf("expected default limit %d, got %d", defaultListLimit, games.lastLimit)
	}
	got := decodeBody[gamesResponse](t, rec)
	if len(got.Games) != 2 || got.Games[0].GameID != "g2" {
		t.Fatalf("unexpected games: %+v", got.Games)
	}
	if got.Games[0].Score != "8.00" || got.Games[0].Difficulty != "4 - Pulp Fiction" {
		t.Fatalf("unexpected game fields: %+v", got.Games[0])
	}

	rec = serve(t, router, "/games?limit=1")
	if got := decodeBody[gamesResponse](t, rec); len(got.Games) != 1 || games.lastLimit != 1 {
		t.Fatalf("expected limited listing, got %d games (limit %d)", len(got.Games), games.lastLimit)
	}

	rec = serve(t, router, "/games?limit=abc")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestHandleGetGame(t *testing.T) {
	router := NewRouter(&fakeGames{games: sampleGames()}, fakeRanking{}, discardLogger())

	rec := serve(t, router, "/games/g2")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	got := decodeBody[gameResponse](t, rec)
	if got.Player != "Ana" || len(got.Answers) != 1 || got.Answers[0].Kind != "release_year" {
		t.Fatalf("unexpected game: %+v", got)
	}

	rec = serve(t, router, "/games/missing")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func TestHandleGamesStoreFailure(t *testing.T) {
	rec := serve(t, NewRouter(&fakeGames{err: errors.New("disk I/O error")}, fakeRanking{}, discardLogger()), "/games")
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
	if got := decodeBody[errorResponse](t, rec); got.Error != "request failed" {
		t.Fatalf("unexpected error body: %+v", got)
	}
}

func TestRouterRejectsOtherMethods(t *testing.T) {
	rec := httptest.NewRecorder()
	NewRouter(&fakeGames{}, fakeRanking{}, discardLogger()).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/ranking", nil))
	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("status = %d, want 405", rec.Code)
	}
}

func TestRouterLogsRequestsThroughSlog(t *testing.T) {
	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelInfo}))

	serve(t, NewRouter(&fakeGames{games: sampleGames()}, fakeRanking{}, logger), "/games/missing")

	line := logs.String()
	for _, want := range []string{"msg=request", "method=GET", "path=/games/missing", "status=404", "request_id="} {
		if !strings.Contains(line, want) {
			t.Fatalf("expected %q in request log, got %q", want, line)
		}
	}
	if strings.Contains(line, "request_id= ") {
		t.Fatalf("expected a request id, got %q", line)
	}
}

func TestRouterRequestLogHonoursLevel(t *testing.T) {
	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelWarn}))

	serve(t, NewRouter(&fakeGames{}, fakeRanking{}, logger), "/healthz")
	if logs.Len() != 0 {
		t.Fatalf("expected info request log to be filtered at warn, got %q", logs.String())
	}

	serve(t, NewRouter(&fakeGames{err: errors.New("disk I/O error")}, fakeRanking{}, logger), "/games")
	if !strings.Contains(logs.String(), "level=ERROR") || !strings.Contains(logs.String(), "status=500") {
		t.Fatalf("expected server errors to be logged at error level, got %q", logs.String())
	}
}
