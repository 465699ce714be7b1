package quiz

import "github.com/shopspring/decimal"

const QuestionsPerGame = 4

// Score returns correct × weight rounded to two decimals. The product is
// computed as correct·(d+2)/3 so no intermediate rounding leaks in.
func Score(d Difficulty, correct int) decimal.Decimal {
	numerator := decimal.NewFromInt(int64(correct) * (int64(d) + 2))
	return numerator.DivRound(decimal.NewFromInt(3), 2)
}
