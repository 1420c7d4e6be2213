package omdb

// Response shapes for the secondary ratings API. Field naming upstream is
// PascalCase with a few explicit aliases (imdbRating, totalSeasons), so every
// field carries its exact wire name; this schema is independent of the
// primary source's snake_case one.

type responseBody struct {
	Response string `json:"Response"` // "True" or "False", the in-band success flag
	Error    string `json:"Error,omitempty"`
}

func (r responseBody) failed() bool {
	return r.Response == "False"
}

type ratingEntry struct {
	Source string `json:"Source"`
	Value  string `json:"Value"`
}

type detailResponse struct {
	responseBody
	Title        string        `json:"Title"`
	Year         string        `json:"Year"`
	Awards       string        `json:"Awards"`
	IMDBRating   string        `json:"imdbRating"`
	TotalSeasons string        `json:"totalSeasons"` // numeric string or "N/A"
	Ratings      []ratingEntry `json:"Ratings"`
}

type episodeEntry struct {
	Title      string `json:"Title"`
	Episode    string `json:"Episode"`
	IMDBRating string `json:"imdbRating"`
}

type seasonResponse struct {
	responseBody
	Season   string         `json:"Season"`
	Episodes []episodeEntry `json:"Episodes"`
}
