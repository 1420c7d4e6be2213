package models

// MediaType represents the type of media (movie or tv show)
type MediaType string

const (
	MediaTypeMovie MediaType = "movie"
	MediaTypeTV    MediaType = "tv"
)

// Category represents a catalog listing category
type Category string

const (
	CategoryTrending Category = "trending"
	CategoryPopular  Category = "popular"
	CategoryTopRated Category = "top_rated"
)

// RatingNotAvailable is the sentinel the ratings source uses for missing values
const RatingNotAvailable = "N/A"
