package quiz

import "strings"

// Movie is one catalog entry as ingested from the metadata service.
type Movie struct {
	ID            int      `json:"id"`
	Title         string   `json:"title"`
	Genres        []string `json:"genres"`
	OriginCountry string   `json:"origin_country"`
	Overview      string   `json:"overview"`
	ReleaseYear   *int     `json:"release_year,omitempty"`
	Budget        int64    `json:"budget"`
	Revenue       int64    `json:"revenue"`
	Runtime       int      `json:"runtime"`
	PosterURL     string   `json:"poster_url"`
}

func (m Movie) GenreList() string {
	return strings.Join(m.Genres, ", ")
}

// HasProductionDetails reports whether the movie carries every field the
// production-details clue needs.
func (m Movie) HasProductionDetails() bool {
	return len(m.Genres) > 0 && m.Budget > 0 && m.Revenue > 0 && m.Runtime > 0
}

func (m Movie) HasPoster() bool {
	return m.PosterURL != ""
}

func (m Movie) HasReleaseYear() bool {
	return m.ReleaseYear != nil
}

func Year(year int) *int {
	return &year
}
