package quiz

import (
	"errors"
	"math/rand/v2"
	"slices"
	"strconv"
	"strings"
	"testing"
	"time"
)

func newTestRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

func fixedNow() time.Time {
	return time.Date(2024, time.June, 1, 12, 0, 0, 0, time.UTC)
}

func newTestGenerator(seed uint64) *Generator {
	return NewGenerator(newTestRand(seed), GeneratorConfig{
		LineWidth:      1000,
		MaxDetailDraws: 500,
		Now:            fixedNow,
	})
}

func completeMovie(id int, title string, year int) Movie {
	return Movie{
		ID:            id,
		Title:         title,
		Genres:        []string{"Drama"},
		OriginCountry: "US",
		Overview:      "A story about " + title + ".",
		ReleaseYear:   Year(year),
		Budget:        1_000_000,
		Revenue:       5_000_000,
		Runtime:       100,
		PosterURL:     "https://image.example/" + strconv.Itoa(id) + ".jpg",
	}
}

func sampleCatalog() []Movie {
	return []Movie{
		completeMovie(1, "Pulp Fiction", 1994),
		completeMovie(2, "Heat", 1995),
		completeMovie(3, "Alien", 1979),
		completeMovie(4, "Jaws", 1975),
		completeMovie(5, "Up", 2009),
		completeMovie(6, "Her", 2013),
	}
}

func assertDistinctOptions(t *testing.T, q Question) {
	t.Helper()
	if len(q.Options) != OptionCount {
		t.Fatalf("expected %d options, got %d: %v", OptionCount, len(q.Options), q.Options)
	}
	seen := make(map[string]bool, len(q.Options))
	for _, option := range q.Options {
		if seen[option] {
			t.Fatalf("duplicate option %q in %v", option, q.Options)
		}
		seen[option] = true
	}
	if q.CorrectIndex < 0 || q.CorrectIndex >= len(q.Options) {
		t.Fatalf("correct index out of range: %d", q.CorrectIndex)
	}
}

func TestDistractorYearsWindow(t *testing.T) {
	pool := DistractorYears(1994, DifficultyTotoro.YearSpread(), 2026)
	if len(pool) != 32 {
		t.Fatalf("expected 32 candidate years, got %d", len(pool))
	}
	if pool[0] != 1978 || pool[len(pool)-1] != 2010 {
		t.Fatalf("unexpected window bounds: first=%d last=%d", pool[0], pool[len(pool)-1])
	}
	if slices.Contains(pool, 1994) {
		t.Fatalf("pool must not contain the correct year")
	}

	pool = DistractorYears(2022, 4, 2024)
	want := []int{2018, 2019, 2020, 2021, 2023, 2024}
	if !slices.Equal(pool, want) {
		t.Fatalf("DistractorYears near current year = %v, want %v", pool, want)
	}
}

func TestReleaseYearOptions(t *testing.T) {
	for _, d := range Difficulties() {
		for seed := uint64(0); seed < 50; seed++ {
			q, err := newTestGenerator(seed).ReleaseYear(sampleCatalog(), d)
			if err != nil {
				t.Fatalf("difficulty %d seed %d: %v", d, seed, err)
			}
			assertDistinctOptions(t, q)

			correctYear := *q.Movie.ReleaseYear
			matches := 0
			for _, option := range q.Options {
				year, err := strconv.Atoi(option)
				if err != nil {
					t.Fatalf("option %q is not a year", option)
				}
				if year == correctYear {
					matches++
					continue
				}
				if year < correctYear-d.YearSpread() || year > correctYear+d.YearSpread() {
					t.Fatalf("distractor %d outside spread %d of %d", year, d.YearSpread(), correctYear)
				}
				if year > fixedNow().Year() {
					t.Fatalf("distractor %d is in the future", year)
				}
			}
			if matches != 1 {
				t.Fatalf("expected exactly one correct option, got %d in %v", matches, q.Options)
			}
			if !q.IsCorrect(q.CorrectIndex + 1) {
				t.Fatalf("IsCorrect rejected the correct choice")
			}
		}
	}
}

func TestReleaseYearPoolTooSmall(t *testing.T) {
	catalog := []Movie{completeMovie(1, "Future Film", 2030)}

	_, err := newTestGenerator(1).ReleaseYear(catalog, DifficultyPulpFiction)
	if !errors.Is(err, ErrPoolTooSmall) {
		t.Fatalf("expected ErrPoolTooSmall, got %v", err)
	}
}

func TestReleaseYearSkipsUndatedMovies(t *testing.T) {
	catalog := sampleCatalog()
	for idx := range catalog {
		catalog[idx].ReleaseYear = nil
	}
	catalog[3].ReleaseYear = Year(1975)

	for seed := uint64(0); seed < 20; seed++ {
		q, err := newTestGenerator(seed).ReleaseYear(catalog, DifficultyAmericanPie)
		if err != nil {
			t.Fatalf("ReleaseYear returned error: %v", err)
		}
		if q.Movie.Title != "Jaws" {
			t.Fatalf("expected the only dated movie, got %q", q.Movie.Title)
		}
	}

	catalog[3].ReleaseYear = nil
	if _, err := newTestGenerator(1).ReleaseYear(catalog, DifficultyAmericanPie); !errors.Is(err, ErrNoUsableMovie) {
		t.Fatalf("expected ErrNoUsableMovie, got %v", err)
	}
}

func TestOverviewMasksCorrectSynopsis(t *testing.T) {
	catalog := sampleCatalog()
	for idx := range catalog {
		catalog[idx].Overview = "The cat sat on a mat in " + catalog[idx].Title + "."
	}

	q, err := newTestGenerator(3).Overview(catalog, DifficultyAmericanPie)
	if err != nil {
		t.Fatalf("Overview returned error: %v", err)
	}
	assertDistinctOptions(t, q)

	if q.Options[q.CorrectIndex] != q.Movie.Title {
		t.Fatalf("correct option %q does not match movie %q", q.Options[q.CorrectIndex], q.Movie.Title)
	}
	if !strings.Contains(q.Prompt, "Thx cxt sxt on x mxt in") {
		t.Fatalf("prompt does not contain masked synopsis: %q", q.Prompt)
	}
	if q.Reveal != q.Movie.Overview {
		t.Fatalf("reveal = %q, want original %q", q.Reveal, q.Movie.Overview)
	}
}

func TestOverviewRejectsInvalidDifficulty(t *testing.T) {
	if _, err := newTestGenerator(1).Overview(sampleCatalog(), 7); !errors.Is(err, ErrInvalidDifficulty) {
		t.Fatalf("expected ErrInvalidDifficulty, got %v", err)
	}
}

func TestDetailsOnlyAnswersWithCompleteMovies(t *testing.T) {
	catalog := sampleCatalog()
	for idx := range catalog {
		if idx != 2 {
			catalog[idx].Budget = 0
		}
	}

	for seed := uint64(0); seed < 30; seed++ {
		q, err := newTestGenerator(seed).Details(catalog)
		if err != nil {
			t.Fatalf("seed %d: Details returned error: %v", seed, err)
		}
		assertDistinctOptions(t, q)
		if q.Movie.Title != "Alien" {
			t.Fatalf("seed %d: expected Alien as answer, got %q", seed, q.Movie.Title)
		}
	}
}

func TestDetailsWithoutUsableMovie(t *testing.T) {
	catalog := sampleCatalog()
	for idx := range catalog {
		catalog[idx].Runtime = 0
	}

	if _, err := newTestGenerator(1).Details(catalog); !errors.Is(err, ErrNoUsableMovie) {
		t.Fatalf("expected ErrNoUsableMovie, got %v", err)
	}
}

func TestDetailsClue(t *testing.T) {
	movie := Movie{
		Title:       "Pulp Fiction",
		Genres:      []string{"Thriller", "Crime"},
		ReleaseYear: Year(1994),
		Budget:      8_000_000,
		Revenue:     213_928_762,
		Runtime:     154,
	}

	got := newTestGenerator(1).detailsClue(movie)
	want := "Which of the following 4 movies was released in 1994, had a budget of $8,000,000 " +
		"and a box office of $213,928,762, could be classed as Thriller, Crime, and runs for 154 min?"
	if got != want {
		t.Fatalf("detailsClue =\n%q\nwant\n%q", got, want)
	}

	movie.Revenue = 0
	movie.ReleaseYear = nil
	got = newTestGenerator(1).detailsClue(movie)
	if strings.Contains(got, "budget") || strings.Contains(got, "released") {
		t.Fatalf("clue should omit money and year: %q", got)
	}
}

func TestPosterRequiresPosterURL(t *testing.T) {
	catalog := sampleCatalog()
	for idx := range catalog {
		if idx != 4 {
			catalog[idx].PosterURL = ""
		}
	}

	q, err := newTestGenerator(9).Poster(catalog)
	if err != nil {
		t.Fatalf("Poster returned error: %v", err)
	}
	assertDistinctOptions(t, q)
	if q.Movie.Title != "Up" {
		t.Fatalf("expected the only movie with a poster, got %q", q.Movie.Title)
	}
}

func TestSampleTitlesDeduplicatesTitles(t *testing.T) {
	catalog := []Movie{
		completeMovie(1, "Solaris", 1972),
		completeMovie(2, "Solaris", 2002),
		completeMovie(3, "Heat", 1995),
		completeMovie(4, "Jaws", 1975),
	}

	_, err := newTestGenerator(1).sampleTitles(catalog)
	if !errors.Is(err, ErrCatalogTooSmall) {
		t.Fatalf("expected ErrCatalogTooSmall with 3 distinct titles, got %v", err)
	}

	catalog = append(catalog, completeMovie(5, "Alien", 1979))
	for seed := uint64(0); seed < 20; seed++ {
		picked, err := newTestGenerator(seed).sampleTitles(catalog)
		if err != nil {
			t.Fatalf("sampleTitles returned error: %v", err)
		}
		if len(picked) != OptionCount {
			t.Fatalf("expected %d movies, got %d", OptionCount, len(picked))
		}
	}
}

func TestQuestionIsCorrect(t *testing.T) {
	q := Question{Options: []string{"1990", "1991", "1992", "1993"}, CorrectIndex: 2}

	tests := []struct {
		choice int
		want   bool
	}{
		{choice: 1, want: false},
		{choice: 3, want: true},
		{choice: 0, want: false},
		{choice: 5, want: false},
	}
	for _, tc := range tests {
		if got := q.IsCorrect(tc.choice); got != tc.want {
			t.Fatalf("IsCorrect(%d) = %t, want %t", tc.choice, got, tc.want)
		}
	}
	if q.OptionText(4) != "1993" || q.CorrectAnswer() != "1992" {
		t.Fatalf("unexpected option lookup: %q %q", q.OptionText(4), q.CorrectAnswer())
	}
}

func TestGeneratorIsDeterministicForSeed(t *testing.T) {
	first, err := newTestGenerator(42).Overview(sampleCatalog(), DifficultyAvengers)
	if err != nil {
		t.Fatalf("Overview returned error: %v", err)
	}
	second, err := newTestGenerator(42).Overview(sampleCatalog(), DifficultyAvengers)
	if err != nil {
		t.Fatalf("Overview returned error: %v", err)
	}
	if !slices.Equal(first.Options, second.Options) || first.CorrectIndex != second.CorrectIndex {
		t.Fatalf("same seed produced different questions: %v vs %v", first.Options, second.Options)
	}
}
