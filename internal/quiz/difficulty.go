package quiz

import (
	"fmt"

	"github.com/shopspring/decimal"
)

type Difficulty int

const (
	DifficultyAmericanPie Difficulty = iota + 1
	DifficultyTotoro
	DifficultyAvengers
	DifficultyPulpFiction
)

var difficultyNames = map[Difficulty]string{
	DifficultyAmericanPie: "American Pie",
	DifficultyTotoro:      "My Neighbor Totoro",
	DifficultyAvengers:    "The Avengers",
	DifficultyPulpFiction: "Pulp Fiction",
}

// Popularity-rank windows, half-open.
var rankWindows = map[Difficulty][2]int{
	DifficultyAmericanPie: {0, 250},
	DifficultyTotoro:      {1000, 2000},
	DifficultyAvengers:    {4000, 6000},
	DifficultyPulpFiction: {8000, 10000},
}

const vowelGroupCount = 5

func Difficulties() []Difficulty {
	return []Difficulty{DifficultyAmericanPie, DifficultyTotoro, DifficultyAvengers, DifficultyPulpFiction}
}

func ParseDifficulty(value int) (Difficulty, error) {
	d := Difficulty(value)
	if !d.Valid() {
		return 0, fmt.Errorf("%w: got %d", ErrInvalidDifficulty, value)
	}
	return d, nil
}

func (d Difficulty) Valid() bool {
	return d >= DifficultyAmericanPie && d <= DifficultyPulpFiction
}

// Label is the display form persisted in the ranking file, e.g. "1 - American Pie".
func (d Difficulty) Label() string {
	return fmt.Sprintf("%d - %s", int(d), difficultyNames[d])
}

func (d Difficulty) RankWindow() (start, end int) {
	window := rankWindows[d]
	return window[0], window[1]
}

// YearSpread is the distance from the correct year covered by distractors.
func (d Difficulty) YearSpread() int {
	return 64 / (int(d) * int(d))
}

func (d Difficulty) MaskedVowelGroups() int {
	return min(int(d)+1, vowelGroupCount)
}

func (d Difficulty) CropFraction() float64 {
	return 0.3 / float64(d)
}

// USOnly reports whether the catalog is restricted to US productions.
func (d Difficulty) USOnly() bool {
	return d < DifficultyPulpFiction
}

// Weight is the per-question score multiplier 1 + (d-1)/3.
func (d Difficulty) Weight() decimal.Decimal {
	return decimal.NewFromInt(int64(d) + 2).Div(decimal.NewFromInt(3))
}
