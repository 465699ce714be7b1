package quiz

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidDifficulty = errors.New("difficulty must be a number between 1 and 4")
	ErrIndexTooSmall     = errors.New("movie index too small for difficulty window")
	ErrCatalogTooSmall   = errors.New("catalog has too few movies to build a question")
	ErrPoolTooSmall      = errors.New("distractor pool too small")
	ErrNoUsableMovie     = errors.New("no catalog movie can answer this question")
	ErrMovieUnavailable  = errors.New("movie unavailable")
	ErrGameNotFound      = errors.New("game not found")
)

// MissingFieldError marks a metadata record that lacks a required field.
type MissingFieldError struct {
	MovieID int
	Field   string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("movie %d: missing required field %q", e.MovieID, e.Field)
}

// FetchError names the external collaborator and key of a failed lookup.
type FetchError struct {
	Source string
	Key    string
	Err    error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("%s fetch failed for %s: %v", e.Source, e.Key, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// skippable reports whether a detail lookup failure only disqualifies the
// single movie rather than the whole catalog.
func skippable(err error) bool {
	var missing *MissingFieldError
	return errors.As(err, &missing) || errors.Is(err, ErrMovieUnavailable)
}
