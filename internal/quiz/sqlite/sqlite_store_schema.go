package sqlite

import (
	"context"
)

func (s *SQLiteStore) initSchema(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS games (
			game_id TEXT PRIMARY KEY,
			player TEXT NOT NULL,
			difficulty INTEGER NOT NULL,
			correct_count INTEGER NOT NULL,
			-- decimal text keeps the two-digit score exact.
			score TEXT NOT NULL,
			played_at_unix INTEGER NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS game_answers (
			game_id TEXT NOT NULL REFERENCES games(game_id) ON DELETE CASCADE,
			round INTEGER NOT NULL,
			kind TEXT NOT NULL,
			movie_title TEXT NOT NULL,
			correct_answer TEXT NOT NULL,
			chosen_answer TEXT NOT NULL,
			correct INTEGER NOT NULL,
			PRIMARY KEY (game_id, round)
		);`,
		`CREATE TABLE IF NOT EXISTS movie_cache (
			movie_id INTEGER NOT NULL,
			language TEXT NOT NULL,
			payload_json TEXT NOT NULL,
			fetched_at_unix INTEGER NOT NULL,
			PRIMARY KEY (movie_id, language)
		);`,
		`CREATE INDEX IF NOT EXISTS idx_games_played_at ON games(played_at_unix DESC);`,
	}

	for _, stmt := range statements {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}
