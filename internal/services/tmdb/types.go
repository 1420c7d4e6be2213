package tmdb

import "github.com/amaumene/gocinarr/internal/fetch"

// Response shapes for the primary catalog API. Field naming upstream is
// snake_case throughout.

// statusBody is embedded in every response to surface in-band failures:
// the API reports errors in the payload as well as via HTTP status.
type statusBody struct {
	Success       *bool  `json:"success,omitempty"`
	StatusMessage string `json:"status_message,omitempty"`
}

func (s *statusBody) inBandError() error {
	if s.Success != nil && !*s.Success {
		return &fetch.UpstreamError{Message: s.StatusMessage}
	}
	return nil
}

type listResponse struct {
	statusBody
	Page         int        `json:"page"`
	Results      []listItem `json:"results"`
	TotalPages   int        `json:"total_pages"`
	TotalResults int        `json:"total_results"`
}

type listItem struct {
	ID           int     `json:"id"`
	MediaType    string  `json:"media_type,omitempty"` // only present in multi search and trending
	Title        string  `json:"title,omitempty"`      // movies
	Name         string  `json:"name,omitempty"`       // tv shows
	Overview     string  `json:"overview"`
	ReleaseDate  string  `json:"release_date,omitempty"`
	FirstAirDate string  `json:"first_air_date,omitempty"`
	PosterPath   string  `json:"poster_path,omitempty"`
	BackdropPath string  `json:"backdrop_path,omitempty"`
	VoteAverage  float64 `json:"vote_average"`
}

type externalIDs struct {
	IMDBId string `json:"imdb_id,omitempty"`
}

type detailResponse struct {
	statusBody
	listItem
	IMDBId          string         `json:"imdb_id,omitempty"` // movies carry it inline
	NumberOfSeasons int            `json:"number_of_seasons,omitempty"`
	ExternalIDs     *externalIDs   `json:"external_ids,omitempty"` // tv shows carry it here
	Collection      *collectionRef `json:"belongs_to_collection,omitempty"`
}

type collectionRef struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

type creditsResponse struct {
	statusBody
	Cast []CastMember `json:"cast"`
}

// CastMember is one credited cast entry
type CastMember struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Character   string `json:"character,omitempty"`
	ProfilePath string `json:"profile_path,omitempty"`
	Order       int    `json:"order"`
}

type collectionResponse struct {
	statusBody
	ID    int        `json:"id"`
	Name  string     `json:"name"`
	Parts []listItem `json:"parts"`
}

type personCreditsResponse struct {
	statusBody
	Cast []listItem `json:"cast"`
}
