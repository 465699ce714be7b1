package httpapi

import (
	"time"
)

type healthResponse struct {
	Status string `json:"status"`
}

type rankingEntryResponse struct {
	Position   int    `json:"position"`
	Player     string `json:"player"`
	Difficulty string `json:"difficulty"`
	// Score keeps the two fixed decimals of the ranking file.
	Score string `json:"score"`
}

type rankingResponse struct {
	Ranking []rankingEntryResponse `json:"ranking"`
}

type answerResponse struct {
	Round         int    `json:"round"`
	Kind          string `json:"kind"`
	MovieTitle    string `json:"movie_title"`
	CorrectAnswer string `json:"correct_answer"`
	ChosenAnswer  string `json:"chosen_answer"`
	Correct       bool   `json:"correct"`
}

type gameResponse struct {
	GameID       string           `json:"game_id"`
	Player       string           `json:"player"`
	Difficulty   string           `json:"difficulty"`
	CorrectCount int              `json:"correct_count"`
	Score        string           `json:"score"`
	PlayedAt     time.Time        `json:"played_at"`
	Answers      []answerResponse `json:"answers,omitempty"`
}

type gamesResponse struct {
	Games []gameResponse `json:"games"`
}

type errorResponse struct {
	Error string `json:"error"`
}
