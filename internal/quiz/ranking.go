package quiz

import "github.com/shopspring/decimal"

const RankingSize = 3

type RankingEntry struct {
	Player     string          `json:"player"`
	Difficulty string          `json:"difficulty"`
	Score      decimal.Decimal `json:"score"`
}

// Ranking is the persisted top-3 table, ordered best to worst.
type Ranking [RankingSize]RankingEntry

func (r Ranking) Qualifies(score decimal.Decimal) bool {
	return score.GreaterThanOrEqual(r[RankingSize-1].Score)
}

// Update places entry into the first slot whose score it meets or beats and
// returns the new table with that slot index. Only that slot changes: entries
// above it stay put and entries below it are not shifted. A score below the
// last slot returns the ranking unchanged with slot -1.
func (r Ranking) Update(entry RankingEntry) (Ranking, int) {
	if !r.Qualifies(entry.Score) {
		return r, -1
	}
	for idx := range r {
		if entry.Score.GreaterThanOrEqual(r[idx].Score) {
			r[idx] = entry
			return r, idx
		}
	}
	return r, -1
}
