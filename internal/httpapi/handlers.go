package httpapi

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
)

const defaultListLimit = 10

func (a *API) HandleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{Status: "ok"})
}

func (a *API) HandleRanking(w http.ResponseWriter, r *http.Request) {
	if a.ranking == nil {
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "ranking unavailable"})
		return
	}

	ranking, err := a.ranking.Load()
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, rankingResponse{Ranking: toRankingResponses(ranking)})
}

func (a *API) HandleListGames(w http.ResponseWriter, r *http.Request) {
	if a.games == nil {
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "game history unavailable"})
		return
	}

	limit, err := parseIntParam(r, "limit", defaultListLimit)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	games, err := a.games.ListGames(r.Context(), limit)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	response := gamesResponse{Games: make([]gameResponse, 0, len(games))}
	for _, game := range games {
		response.Games = append(response.Games, toGameResponse(game))
	}
	writeJSON(w, http.StatusOK, response)
}

func (a *API) HandleGetGame(w http.ResponseWriter, r *http.Request) {
	if a.games == nil {
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "game history unavailable"})
		return
	}

	gameID := strings.TrimSpace(chi.URLParam(r, "gameID"))
	game, err := a.games.GetGame(r.Context(), gameID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toGameResponse(game))
}
