package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"log/slog"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"popcorn-quiz/internal/poster"
	"popcorn-quiz/internal/quiz"
)

// ErrInputClosed is returned when the player's input ends mid-session.
var ErrInputClosed = errors.New("input closed")

const clearSequence = "\033[H\033[2J"

type CatalogBuilder interface {
	Build(ctx context.Context, d quiz.Difficulty) ([]quiz.Movie, error)
}

type PosterSource interface {
	FetchPoster(ctx context.Context, posterURL string) ([]byte, error)
}

type RankingStore interface {
	Load() (quiz.Ranking, error)
	Save(ranking quiz.Ranking) error
}

type Config struct {
	LineWidth int
	// MaxInvalidAnswers bounds re-prompting per question. Zero is unbounded.
	MaxInvalidAnswers int
	MaxDetailDraws    int
	ClearScreen       bool
}

// Deps are the session's collaborators. History is optional.
type Deps struct {
	Catalog CatalogBuilder
	Posters PosterSource
	Viewer  poster.Viewer
	Ranking RankingStore
	History quiz.GameRepository
	Rand    *rand.Rand
	Now     func() time.Time
	Logger  *slog.Logger
}

type session struct {
	ctx       context.Context
	reader    *bufio.Reader
	out       io.Writer
	cfg       Config
	deps      Deps
	generator *quiz.Generator

	player     string
	difficulty quiz.Difficulty
	answers    []quiz.AnswerRecord
}

// Run plays one full game against the player on in/out.
func Run(ctx context.Context, in io.Reader, out io.Writer, cfg Config, deps Deps) error {
	if deps.Now == nil {
		deps.Now = time.Now
	}
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	if deps.Rand == nil {
		deps.Rand = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}

	s := &session{
		ctx:    ctx,
		reader: bufio.NewReader(in),
		out:    out,
		cfg:    cfg,
		deps:   deps,
		generator: quiz.NewGenerator(deps.Rand, quiz.GeneratorConfig{
			LineWidth:      cfg.LineWidth,
			MaxDetailDraws: cfg.MaxDetailDraws,
			Now:            deps.Now,
		}),
	}
	return s.play()
}

func (s *session) play() error {
	s.clear()
	if err := s.collectName(); err != nil {
		return err
	}
	if err := s.collectDifficulty(); err != nil {
		return err
	}

	ranking, err := s.deps.Ranking.Load()
	if err != nil {
		return err
	}

	fmt.Fprintf(s.out, "\nPerfect, you chose difficulty level %s. Give me a moment while I set everything up...\n", s.difficulty.Label())
	catalog, err := s.deps.Catalog.Build(s.ctx, s.difficulty)
	if err != nil {
		return err
	}

	fmt.Fprint(s.out, "\nAll set! Press 'Enter' whenever you want to start!")
	s.waitForEnter()
	s.clear()

	rounds := []func([]quiz.Movie) (bool, error){
		s.releaseYearRound,
		s.overviewRound,
		s.detailsRound,
		s.posterRound,
	}
	correct := 0
	for _, round := range rounds {
		ok, err := round(catalog)
		if err != nil {
			return err
		}
		if ok {
			correct++
		}
		fmt.Fprint(s.out, "Press 'Enter' to continue\n")
		s.waitForEnter()
		s.clear()
	}

	score := quiz.Score(s.difficulty, correct)
	s.printScore(correct, score)

	if err := s.updateRanking(ranking, score); err != nil {
		return err
	}
	s.saveHistory(correct, score)

	fmt.Fprintf(s.out, "\nIt was a pleasure playing Popcorn Quiz with you, %s! Come back whenever you like! :)\n\n\n", s.player)
	return nil
}

func (s *session) collectName() error {
	fmt.Fprint(s.out, "\nHi! What's your name?\n\n> ")
	line, err := s.reader.ReadString('\n')
	if err != nil && (!errors.Is(err, io.EOF) || line == "") {
		return ErrInputClosed
	}
	s.player = strings.TrimSpace(line)

	fmt.Fprintf(s.out, "\nHi, %s!\n\nWelcome to Popcorn Quiz, the movie trivia game!\n\n", s.player)
	fmt.Fprint(s.out, "To play Popcorn Quiz you will answer a total of 4 questions:\n"+
		"1. Guess the release year of a movie.\n"+
		"2. Guess which movie a masked synopsis belongs to.\n"+
		"3. Guess which movie some production details belong to.\n"+
		"4. Guess which movie a piece of poster belongs to.\n\n"+
		"You can play on four difficulty levels. Each level uses more or less\n"+
		"popular movies, and each question gets its own twists to make the game\n"+
		"easier or harder.\n\n"+
		"Which level would you like to play? 1 is the easiest and 4 the hardest.\n\n"+
		"Remember you get bonus points at the end depending on the difficulty :)\n\n")
	return nil
}

func (s *session) collectDifficulty() error {
	for _, d := range quiz.Difficulties() {
		fmt.Fprintln(s.out, d.Label())
	}

	choice, err := s.readChoice()
	if err != nil {
		return err
	}
	d, err := quiz.ParseDifficulty(choice)
	if err != nil {
		return err
	}
	s.difficulty = d
	return nil
}

func (s *session) releaseYearRound(catalog []quiz.Movie) (bool, error) {
	question, err := s.generator.ReleaseYear(catalog, s.difficulty)
	if err != nil {
		return false, err
	}

	choice, err := s.ask(question)
	if err != nil {
		return false, err
	}

	year := *question.Movie.ReleaseYear
	ok := s.record(question, choice)
	if ok {
		fmt.Fprintf(s.out, "\nCORRECT!!! Indeed, '%s' was released in %d.\n\n", question.Movie.Title, year)
	} else {
		fmt.Fprintf(s.out, "\nWrong... '%s' was not released in %s, but in %d.\n\n", question.Movie.Title, question.OptionText(choice), year)
	}
	return ok, nil
}

func (s *session) overviewRound(catalog []quiz.Movie) (bool, error) {
	question, err := s.generator.Overview(catalog, s.difficulty)
	if err != nil {
		return false, err
	}

	choice, err := s.ask(question)
	if err != nil {
		return false, err
	}

	ok := s.record(question, choice)
	if ok {
		fmt.Fprintf(s.out, "\nCORRECT!!! Indeed, this is the synopsis of '%s'.\n\n", question.Movie.Title)
	} else {
		fmt.Fprintf(s.out, "\nWrong... This is the synopsis of '%s'.\n\n", question.Movie.Title)
	}
	fmt.Fprintf(s.out, "Here is the full synopsis:\n\n%s\n\n", question.Reveal)
	return ok, nil
}

func (s *session) detailsRound(catalog []quiz.Movie) (bool, error) {
	question, err := s.generator.Details(catalog)
	if err != nil {
		return false, err
	}

	choice, err := s.ask(question)
	if err != nil {
		return false, err
	}

	ok := s.record(question, choice)
	if ok {
		fmt.Fprintf(s.out, "\nCORRECT!!! Indeed, it is '%s'.\n\n", question.Movie.Title)
	} else {
		fmt.Fprintf(s.out, "\nWrong... It is '%s'.\n\n", question.Movie.Title)
	}
	return ok, nil
}

func (s *session) posterRound(catalog []quiz.Movie) (bool, error) {
	question, err := s.generator.Poster(catalog)
	if err != nil {
		return false, err
	}

	data, err := s.deps.Posters.FetchPoster(s.ctx, question.Movie.PosterURL)
	if err != nil {
		return false, err
	}
	full, err := poster.Decode(data)
	if err != nil {
		return false, &quiz.FetchError{Source: "poster image", Key: question.Movie.PosterURL, Err: err}
	}

	s.show("poster-piece", poster.Crop(full, s.difficulty.CropFraction()))
	choice, err := s.ask(question)
	if err != nil {
		return false, err
	}

	ok := s.record(question, choice)
	if ok {
		fmt.Fprintf(s.out, "\nCORRECT!!! Indeed, this is the poster of '%s'.\n\n", question.Movie.Title)
	} else {
		fmt.Fprintf(s.out, "\nWrong... This is the poster of '%s'.\n\n", question.Movie.Title)
	}
	s.show("poster", full)
	return ok, nil
}

// show hands img to the viewer. A viewer failure costs the player a picture,
// not the game.
func (s *session) show(name string, img image.Image) {
	if err := s.deps.Viewer.Show(s.ctx, name, img); err != nil {
		s.deps.Logger.Warn("could not display poster", "name", name, "error", err)
	}
}

func (s *session) ask(question quiz.Question) (int, error) {
	fmt.Fprintf(s.out, "\n%s\n\n", question.Heading)
	fmt.Fprintln(s.out, question.Prompt)
	for idx, option := range question.Options {
		fmt.Fprintf(s.out, "%d. %s\n", idx+1, option)
	}
	return s.readChoice()
}

func (s *session) record(question quiz.Question, choice int) bool {
	ok := question.IsCorrect(choice)
	s.answers = append(s.answers, quiz.AnswerRecord{
		Round:         len(s.answers) + 1,
		Kind:          question.Kind,
		MovieTitle:    question.Movie.Title,
		CorrectAnswer: question.CorrectAnswer(),
		ChosenAnswer:  question.OptionText(choice),
		Correct:       ok,
	})
	return ok
}

// readChoice prompts until the player types a single digit from 1 to
// OptionCount. Only the line ending is stripped before checking.
func (s *session) readChoice() (int, error) {
	for attempt := 1; s.cfg.MaxInvalidAnswers <= 0 || attempt <= s.cfg.MaxInvalidAnswers; attempt++ {
		fmt.Fprintf(s.out, "\nEnter a number from 1 to %d for your answer: ", quiz.OptionCount)
		line, err := s.reader.ReadString('\n')
		if err != nil && (!errors.Is(err, io.EOF) || line == "") {
			return 0, ErrInputClosed
		}

		answer := strings.TrimRight(line, "\r\n")
		if len(answer) == 1 && answer[0] >= '1' && answer[0] <= byte('0'+quiz.OptionCount) {
			return int(answer[0] - '0'), nil
		}
		fmt.Fprintf(s.out, "\n%q is not a number from 1 to %d!\n", answer, quiz.OptionCount)

		if errors.Is(err, io.EOF) {
			return 0, ErrInputClosed
		}
	}
	return 0, fmt.Errorf("no valid answer after %d attempts", s.cfg.MaxInvalidAnswers)
}

func (s *session) waitForEnter() {
	// End of input just means there is nobody left to acknowledge.
	_, _ = s.reader.ReadString('\n')
}

func (s *session) clear() {
	if s.cfg.ClearScreen {
		fmt.Fprint(s.out, clearSequence)
	}
}

func (s *session) printScore(correct int, score decimal.Decimal) {
	fmt.Fprintf(s.out, "\nYou got %d out of %d questions right on difficulty level %d.\n\n", correct, quiz.QuestionsPerGame, int(s.difficulty))
	fmt.Fprintf(s.out, "On this difficulty level each question is worth %s points, so...\n\n", s.difficulty.Weight().StringFixed(2))
	fmt.Fprintf(s.out, "That makes a total of %s points!\n\n", score.StringFixed(2))
}

func (s *session) updateRanking(ranking quiz.Ranking, score decimal.Decimal) error {
	updated, slot := ranking.Update(quiz.RankingEntry{
		Player:     s.player,
		Difficulty: s.difficulty.Label(),
		Score:      score,
	})
	if slot < 0 {
		fmt.Fprintln(s.out, "You didn't make the ranking this time, but next time you surely will!")
		return nil
	}

	if err := s.deps.Ranking.Save(updated); err != nil {
		return err
	}
	fmt.Fprint(s.out, "Wow, you made it into the top 3 Popcorn Quiz players! Take a look:\n\n")
	printRanking(s.out, updated)
	return nil
}

func printRanking(out io.Writer, ranking quiz.Ranking) {
	for idx, entry := range ranking {
		fmt.Fprintf(out, "%d. %-20s %-24s %s\n", idx+1, entry.Player, entry.Difficulty, entry.Score.StringFixed(2))
	}
}

func (s *session) saveHistory(correct int, score decimal.Decimal) {
	if s.deps.History == nil {
		return
	}

	game := quiz.GameRecord{
		GameID:       uuid.NewString(),
		Player:       s.player,
		Difficulty:   s.difficulty,
		CorrectCount: correct,
		Score:        score,
		PlayedAt:     s.deps.Now().UTC(),
		Answers:      s.answers,
	}
	if err := s.deps.History.SaveGame(s.ctx, game); err != nil {
		s.deps.Logger.Warn("failed to save game history", "game_id", game.GameID, "error", err)
		return
	}
	s.deps.Logger.Info("game saved", "game_id", game.GameID)
}
