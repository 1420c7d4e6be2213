package models

import (
	"strconv"
	"strings"
	"time"
)

// Media represents a media item from the primary catalog (movie or TV show).
// Identity fields are set once at creation; IMDBId and TotalSeasons are
// filled in later from detail fetches.
type Media struct {
	ID          int       `json:"id"`
	MediaType   MediaType `json:"media_type"`
	Title       string    `json:"title"`
	Overview    string    `json:"overview"`
	ReleaseDate string    `json:"release_date,omitempty"`

	PosterPath   string  `json:"poster_path,omitempty"`
	BackdropPath string  `json:"backdrop_path,omitempty"`
	VoteAverage  float64 `json:"vote_average,omitempty"`

	// Cross-source linking. Empty IMDBId means the linking id is unknown;
	// zero TotalSeasons means the count is unknown.
	IMDBId       string `json:"imdb_id,omitempty"`
	TotalSeasons int    `json:"total_seasons,omitempty"`
}

// Rating is a single rating from the secondary source, raw display value kept as-is
type Rating struct {
	Source string `json:"source"`
	Value  string `json:"value"`
}

// Normalized converts the raw display value to a [0,1] scale by sniffing the
// format: "96%", "8.9/10" or "87/100". The first matching suffix wins.
// Unrecognized formats return ok=false with the raw value untouched.
func (r Rating) Normalized() (float64, bool) {
	v := strings.TrimSpace(r.Value)
	switch {
	case strings.HasSuffix(v, "%"):
		n, err := strconv.ParseFloat(strings.TrimSuffix(v, "%"), 64)
		if err != nil {
			return 0, false
		}
		return n / 100, true
	case strings.HasSuffix(v, "/10"):
		n, err := strconv.ParseFloat(strings.TrimSuffix(v, "/10"), 64)
		if err != nil {
			return 0, false
		}
		return n / 10, true
	case strings.HasSuffix(v, "/100"):
		n, err := strconv.ParseFloat(strings.TrimSuffix(v, "/100"), 64)
		if err != nil {
			return 0, false
		}
		return n / 100, true
	}
	return 0, false
}

// Episode is a single episode from the secondary source
type Episode struct {
	Season  int    `json:"season"`
	Episode int    `json:"episode"`
	Title   string `json:"title"`
	Rating  string `json:"rating"`
}

// HasValidRating reports whether the episode rating parses to a positive
// number. The source uses "N/A" for unrated episodes.
func (e Episode) HasValidRating() bool {
	if e.Rating == "" || e.Rating == RatingNotAvailable {
		return false
	}
	n, err := strconv.ParseFloat(e.Rating, 64)
	if err != nil {
		return false
	}
	return n > 0
}

// SeasonResult is the outcome of one season's episode fetch inside a fan-out.
// A failed fetch is recorded here as an absence, never as an error escaping
// the fan-out.
type SeasonResult struct {
	Season   int       `json:"season"`
	Episodes []Episode `json:"episodes,omitempty"`
	Failed   bool      `json:"failed,omitempty"`

	// Truncated flags episode lists that hit the source's per-request page
	// ceiling, so the count is the page limit rather than the season length.
	Truncated bool `json:"truncated,omitempty"`
}

// DailyPick is the persisted daily recommendation
type DailyPick struct {
	MediaID      int       `json:"media_id"`
	MediaType    MediaType `json:"media_type"`
	Title        string    `json:"title"`
	PosterPath   string    `json:"poster_path,omitempty"`
	FromFavorite int       `json:"from_favorite"`
	CreatedAt    time.Time `json:"created_at"`
}

// SameDay reports whether the pick was created on the same calendar day as t
func (p *DailyPick) SameDay(t time.Time) bool {
	y1, m1, d1 := p.CreatedAt.Date()
	y2, m2, d2 := t.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}
