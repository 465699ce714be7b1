package httpapi

import (
	"context"

	"popcorn-quiz/internal/quiz"
)

type RankingLoader interface {
	Load() (quiz.Ranking, error)
}

// GameLister is the read side of quiz.GameRepository.
type GameLister interface {
	GetGame(ctx context.Context, gameID string) (quiz.GameRecord, error)
	ListGames(ctx context.Context, limit int) ([]quiz.GameRecord, error)
}

type API struct {
	games   GameLister
	ranking RankingLoader
}

func NewAPI(games GameLister, ranking RankingLoader) *API {
	return &API{
		games:   games,
		ranking: ranking,
	}
}
