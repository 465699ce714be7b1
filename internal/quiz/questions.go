package quiz

import (
	"fmt"
	"math/rand/v2"
	"slices"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const (
	OptionCount      = 4
	distractorCount  = OptionCount - 1
	defaultLineWidth = 80
)

type Kind string

const (
	KindReleaseYear Kind = "release_year"
	KindOverview    Kind = "overview"
	KindDetails     Kind = "details"
	KindPoster      Kind = "poster"
)

// Question is one multiple-choice round. Options holds exactly OptionCount
// distinct entries and CorrectIndex points at the one matching Movie.
type Question struct {
	Kind         Kind
	Heading      string
	Prompt       string
	Options      []string
	CorrectIndex int
	Movie        Movie
	// Reveal is the unobscured text shown once the round resolves.
	Reveal string
}

// IsCorrect reports whether the 1-based choice names the correct option.
func (q Question) IsCorrect(choice int) bool {
	idx := choice - 1
	if idx < 0 || idx >= len(q.Options) {
		return false
	}
	return q.Options[idx] == q.CorrectAnswer()
}

func (q Question) CorrectAnswer() string {
	if q.CorrectIndex < 0 || q.CorrectIndex >= len(q.Options) {
		return ""
	}
	return q.Options[q.CorrectIndex]
}

func (q Question) OptionText(choice int) string {
	idx := choice - 1
	if idx < 0 || idx >= len(q.Options) {
		return ""
	}
	return q.Options[idx]
}

type GeneratorConfig struct {
	LineWidth int
	// MaxDetailDraws caps resampling for the details and poster rounds.
	// Zero means unbounded.
	MaxDetailDraws int
	Now            func() time.Time
}

// Generator turns a catalog into questions. All randomness comes from rng, so
// a seeded source yields a reproducible game.
type Generator struct {
	rng            *rand.Rand
	lineWidth      int
	maxDetailDraws int
	now            func() time.Time
	money          *message.Printer
}

func NewGenerator(rng *rand.Rand, cfg GeneratorConfig) *Generator {
	if cfg.LineWidth <= 0 {
		cfg.LineWidth = defaultLineWidth
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &Generator{
		rng:            rng,
		lineWidth:      cfg.LineWidth,
		maxDetailDraws: cfg.MaxDetailDraws,
		now:            cfg.Now,
		money:          message.NewPrinter(language.English),
	}
}

func (g *Generator) ReleaseYear(catalog []Movie, d Difficulty) (Question, error) {
	if !d.Valid() {
		return Question{}, fmt.Errorf("%w: got %d", ErrInvalidDifficulty, int(d))
	}

	dated := make([]Movie, 0, len(catalog))
	for _, movie := range catalog {
		if movie.HasReleaseYear() {
			dated = append(dated, movie)
		}
	}
	if len(dated) == 0 {
		return Question{}, fmt.Errorf("%w: none has a release year", ErrNoUsableMovie)
	}

	correct := dated[g.rng.IntN(len(dated))]
	correctYear := *correct.ReleaseYear

	distractors, err := g.sampleDistractorYears(correctYear, d.YearSpread())
	if err != nil {
		return Question{}, err
	}

	years := append(distractors, correctYear)
	g.rng.Shuffle(len(years), func(i, j int) {
		years[i], years[j] = years[j], years[i]
	})

	options := make([]string, len(years))
	correctIndex := -1
	for idx, year := range years {
		options[idx] = strconv.Itoa(year)
		if year == correctYear {
			correctIndex = idx
		}
	}

	return Question{
		Kind:         KindReleaseYear,
		Heading:      "THE OFFICIAL RELEASE",
		Prompt:       fmt.Sprintf("In which year was '%s' released?", correct.Title),
		Options:      options,
		CorrectIndex: correctIndex,
		Movie:        correct,
	}, nil
}

// DistractorYears lists every candidate wrong year within spread of correct,
// dropping correct itself and anything after the current year.
func DistractorYears(correct, spread, currentYear int) []int {
	pool := make([]int, 0, 2*spread)
	for year := correct - spread; year <= correct+spread; year++ {
		if year == correct || year > currentYear {
			continue
		}
		pool = append(pool, year)
	}
	return pool
}

func (g *Generator) sampleDistractorYears(correct, spread int) ([]int, error) {
	pool := DistractorYears(correct, spread, g.now().Year())
	if len(pool) < distractorCount {
		return nil, fmt.Errorf("%w: %d candidate years around %d, need %d",
			ErrPoolTooSmall, len(pool), correct, distractorCount)
	}

	picked := make([]int, 0, distractorCount)
	for _, idx := range g.rng.Perm(len(pool))[:distractorCount] {
		picked = append(picked, pool[idx])
	}
	return picked, nil
}

func (g *Generator) Overview(catalog []Movie, d Difficulty) (Question, error) {
	if !d.Valid() {
		return Question{}, fmt.Errorf("%w: got %d", ErrInvalidDifficulty, int(d))
	}

	options, err := g.sampleTitles(catalog)
	if err != nil {
		return Question{}, err
	}
	correctIndex := g.rng.IntN(len(options))
	correct := options[correctIndex]
	masked := MaskVowels(correct.Overview, d.MaskedVowelGroups())

	return Question{
		Kind:    KindOverview,
		Heading: "THE MASKED SYNOPSIS",
		Prompt: "Which of the following 4 movies does this incomplete synopsis belong to?\n\n" +
			Wrap(masked, g.lineWidth),
		Options:      titles(options),
		CorrectIndex: correctIndex,
		Movie:        correct,
		Reveal:       Wrap(correct.Overview, g.lineWidth),
	}, nil
}

func (g *Generator) Details(catalog []Movie) (Question, error) {
	options, correctIndex, err := g.drawUntil(catalog, Movie.HasProductionDetails)
	if err != nil {
		return Question{}, err
	}
	correct := options[correctIndex]

	return Question{
		Kind:         KindDetails,
		Heading:      "PRODUCTION DETAILS",
		Prompt:       Wrap(g.detailsClue(correct), g.lineWidth),
		Options:      titles(options),
		CorrectIndex: correctIndex,
		Movie:        correct,
	}, nil
}

func (g *Generator) Poster(catalog []Movie) (Question, error) {
	options, correctIndex, err := g.drawUntil(catalog, Movie.HasPoster)
	if err != nil {
		return Question{}, err
	}

	return Question{
		Kind:         KindPoster,
		Heading:      "THE TORN POSTER",
		Prompt:       "Which of the following 4 movies does this piece of poster belong to?",
		Options:      titles(options),
		CorrectIndex: correctIndex,
		Movie:        options[correctIndex],
	}, nil
}

func (g *Generator) detailsClue(movie Movie) string {
	var clue strings.Builder
	clue.WriteString("Which of the following 4 movies")
	if movie.ReleaseYear != nil {
		fmt.Fprintf(&clue, " was released in %d,", *movie.ReleaseYear)
	}
	if movie.Budget > 0 && movie.Revenue > 0 {
		clue.WriteString(g.money.Sprintf(" had a budget of $%d and a box office of $%d,", movie.Budget, movie.Revenue))
	}
	fmt.Fprintf(&clue, " could be classed as %s,", movie.GenreList())
	fmt.Fprintf(&clue, " and runs for %d min?", movie.Runtime)
	return clue.String()
}

// drawUntil resamples option sets until the randomly chosen answer satisfies
// usable. Distractors are not checked.
func (g *Generator) drawUntil(catalog []Movie, usable func(Movie) bool) ([]Movie, int, error) {
	if !slices.ContainsFunc(catalog, usable) {
		return nil, 0, ErrNoUsableMovie
	}

	for draw := 0; g.maxDetailDraws <= 0 || draw < g.maxDetailDraws; draw++ {
		options, err := g.sampleTitles(catalog)
		if err != nil {
			return nil, 0, err
		}
		correctIndex := g.rng.IntN(len(options))
		if usable(options[correctIndex]) {
			return options, correctIndex, nil
		}
	}
	return nil, 0, fmt.Errorf("%w: gave up after %d draws", ErrNoUsableMovie, g.maxDetailDraws)
}

// sampleTitles draws OptionCount movies with pairwise distinct titles, without
// replacement and in random order.
func (g *Generator) sampleTitles(catalog []Movie) ([]Movie, error) {
	picked := make([]Movie, 0, OptionCount)
	seen := make(map[string]struct{}, OptionCount)
	for _, idx := range g.rng.Perm(len(catalog)) {
		movie := catalog[idx]
		if _, dup := seen[movie.Title]; dup {
			continue
		}
		seen[movie.Title] = struct{}{}
		picked = append(picked, movie)
		if len(picked) == OptionCount {
			return picked, nil
		}
	}
	return nil, fmt.Errorf("%w: %d distinct titles, need %d", ErrCatalogTooSmall, len(seen), OptionCount)
}

func titles(movies []Movie) []string {
	out := make([]string, len(movies))
	for idx, movie := range movies {
		out[idx] = movie.Title
	}
	return out
}
