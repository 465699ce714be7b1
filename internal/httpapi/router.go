package httpapi

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func NewRouter(games GameLister, ranking RankingLoader, logger *slog.Logger) http.Handler {
	if logger == nil {
		logger = slog.Default()
	}
	api := NewAPI(games, ranking)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(logger))
	r.Use(middleware.Recoverer)

	r.Get("/healthz", api.HandleHealth)
	r.Get("/ranking", api.HandleRanking)
	r.Route("/games", func(r chi.Router) {
		r.Get("/", api.HandleListGames)
		r.Get("/{gameID}", api.HandleGetGame)
	})

	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusMethodNotAllowed, errorResponse{Error: "method not allowed"})
	})
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "not found"})
	})

	return r
}
