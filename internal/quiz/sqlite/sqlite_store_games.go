package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"popcorn-quiz/internal/quiz"
)

// SaveGame stores a finished game and its answers in one transaction.
func (s *SQLiteStore) SaveGame(ctx context.Context, game quiz.GameRecord) error {
	if game.GameID == "" {
		return errors.New("game id is required")
	}
	if game.PlayedAt.IsZero() {
		game.PlayedAt = time.Now().UTC()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(
		ctx,
		`INSERT INTO games (game_id, player, difficulty, correct_count, score, played_at_unix)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		game.GameID,
		game.Player,
		int(game.Difficulty),
		game.CorrectCount,
		game.Score.StringFixed(2),
		game.PlayedAt.UTC().UnixNano(),
	)
	if err != nil {
		return err
	}

	for _, answer := range game.Answers {
		if _, err := tx.ExecContext(
			ctx,
			`INSERT INTO game_answers (game_id, round, kind, movie_title, correct_answer, chosen_answer, correct)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`,
			game.GameID,
			answer.Round,
			string(answer.Kind),
			answer.MovieTitle,
			answer.CorrectAnswer,
			answer.ChosenAnswer,
			answer.Correct,
		); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (s *SQLiteStore) GetGame(ctx context.Context, gameID string) (quiz.GameRecord, error) {
	game, err := scanGame(s.db.QueryRowContext(
		ctx,
		`SELECT game_id, player, difficulty, correct_count, score, played_at_unix
		 FROM games WHERE game_id = ?`,
		gameID,
	))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return quiz.GameRecord{}, quiz.ErrGameNotFound
		}
		return quiz.GameRecord{}, err
	}

	rows, err := s.db.QueryContext(
		ctx,
		`SELECT round, kind, movie_title, correct_answer, chosen_answer, correct
		 FROM game_answers
		 WHERE game_id = ?
		 ORDER BY round ASC`,
		gameID,
	)
	if err != nil {
		return quiz.GameRecord{}, err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			answer quiz.AnswerRecord
			kind   string
		)
		if err := rows.Scan(&answer.Round, &kind, &answer.MovieTitle, &answer.CorrectAnswer, &answer.ChosenAnswer, &answer.Correct); err != nil {
			return quiz.GameRecord{}, err
		}
		answer.Kind = quiz.Kind(kind)
		game.Answers = append(game.Answers, answer)
	}

	return game, rows.Err()
}

// ListGames returns the most recent games first, without answers.
func (s *SQLiteStore) ListGames(ctx context.Context, limit int) ([]quiz.GameRecord, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := s.db.QueryContext(
		ctx,
		`SELECT game_id, player, difficulty, correct_count, score, played_at_unix
		 FROM games
		 ORDER BY played_at_unix DESC, game_id ASC
		 LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	games := make([]quiz.GameRecord, 0)
	for rows.Next() {
		game, err := scanGame(rows)
		if err != nil {
			return nil, err
		}
		games = append(games, game)
	}

	return games, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanGame(row rowScanner) (quiz.GameRecord, error) {
	var (
		game         quiz.GameRecord
		difficulty   int
		score        string
		playedAtUnix int64
	)
	if err := row.Scan(&game.GameID, &game.Player, &difficulty, &game.CorrectCount, &score, &playedAtUnix); err != nil {
		return quiz.GameRecord{}, err
	}

	parsed, err := decimal.NewFromString(score)
	if err != nil {
		return quiz.GameRecord{}, err
	}
	game.Score = parsed
	game.Difficulty = quiz.Difficulty(difficulty)
	game.PlayedAt = time.Unix(0, playedAtUnix).UTC()
	return game, nil
}
