package quiz

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// AnswerRecord is one resolved round of a finished game.
type AnswerRecord struct {
	Round         int
	Kind          Kind
	MovieTitle    string
	CorrectAnswer string
	ChosenAnswer  string
	Correct       bool
}

type GameRecord struct {
	GameID       string
	Player       string
	Difficulty   Difficulty
	CorrectCount int
	Score        decimal.Decimal
	PlayedAt     time.Time
	Answers      []AnswerRecord
}

type GameRepository interface {
	SaveGame(ctx context.Context, game GameRecord) error
	GetGame(ctx context.Context, gameID string) (GameRecord, error)
	ListGames(ctx context.Context, limit int) ([]GameRecord, error)
}
