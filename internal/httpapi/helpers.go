package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"popcorn-quiz/internal/quiz"
	"popcorn-quiz/internal/ranking"
)

func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, quiz.ErrGameNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "game not found"})
	case errors.Is(err, ranking.ErrMalformedRanking):
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "ranking file is malformed"})
	default:
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "request failed"})
	}
}

func toRankingResponses(r quiz.Ranking) []rankingEntryResponse {
	entries := make([]rankingEntryResponse, 0, len(r))
	for idx, entry := range r {
		entries = append(entries, rankingEntryResponse{
			Position:   idx + 1,
			Player:     entry.Player,
			Difficulty: entry.Difficulty,
			Score:      entry.Score.StringFixed(2),
		})
	}
	return entries
}

func toGameResponse(game quiz.GameRecord) gameResponse {
	response := gameResponse{
		GameID:       game.GameID,
		Player:       game.Player,
		Difficulty:   game.Difficulty.Label(),
		CorrectCount: game.CorrectCount,
		Score:        game.Score.StringFixed(2),
		PlayedAt:     game.PlayedAt,
	}
	for _, answer := range game.Answers {
		response.Answers = append(response.Answers, answerResponse{
			Round:         answer.Round,
			Kind:          string(answer.Kind),
			MovieTitle:    answer.MovieTitle,
			CorrectAnswer: answer.CorrectAnswer,
			ChosenAnswer:  answer.ChosenAnswer,
			Correct:       answer.Correct,
		})
	}
	return response
}

func parseIntParam(r *http.Request, key string, defaultValue int) (int, error) {
	value := strings.TrimSpace(r.URL.Query().Get(key))
	if value == "" {
		return defaultValue, nil
	}

	parsed, err := strconv.Atoi(value)
	if err != nil || parsed <= 0 {
		return 0, errors.New(key + " must be a positive integer")
	}
	return parsed, nil
}

func writeJSON(w http.ResponseWriter, statusCode int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(payload)
}
