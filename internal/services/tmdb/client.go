package tmdb

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/amaumene/gocinarr/internal/config"
	"github.com/amaumene/gocinarr/internal/fetch"
	"github.com/amaumene/gocinarr/internal/models"
	"github.com/sirupsen/logrus"
)

const imageBaseURL = "https://image.tmdb.org/t/p"

// Client wraps the primary catalog API. Each operation is a pure
// request/response mapping; caching is layered on top by the controllers.
type Client struct {
	baseURL string
	apiKey  string
	fetcher *fetch.Client
	logger  *logrus.Logger
}

// NewClient creates a new catalog client
func NewClient(cfg *config.Config, fetcher *fetch.Client, logger *logrus.Logger) (*Client, error) {
	if cfg.TMDBAPIKey == "" {
		return nil, fmt.Errorf("TMDB API key is required")
	}
	return &Client{
		baseURL: cfg.TMDBBaseURL,
		apiKey:  cfg.TMDBAPIKey,
		fetcher: fetcher,
		logger:  logger,
	}, nil
}

// Detail carries the full detail payload for one record, including the
// linking id understood by the secondary ratings source.
type Detail struct {
	Media          models.Media
	IMDBId         string
	TotalSeasons   int
	CollectionID   int
	CollectionName string
}

// List fetches one page of a catalog category listing
func (c *Client) List(ctx context.Context, mediaType models.MediaType, category models.Category, page int) ([]models.Media, error) {
	var path string
	switch category {
	case models.CategoryTrending:
		path = fmt.Sprintf("/trending/%s/week", mediaType)
	case models.CategoryPopular:
		path = fmt.Sprintf("/%s/popular", mediaType)
	case models.CategoryTopRated:
		path = fmt.Sprintf("/%s/top_rated", mediaType)
	default:
		return nil, fmt.Errorf("unknown category %q", category)
	}

	var resp listResponse
	if err := c.get(ctx, path, url.Values{"page": {strconv.Itoa(page)}}, &resp); err != nil {
		return nil, err
	}

	c.logger.WithFields(logrus.Fields{
		"category": category,
		"type":     mediaType,
		"count":    len(resp.Results),
	}).Debug("Catalog listing fetched")

	return convertItems(resp.Results, mediaType), nil
}

// Detail fetches the detail payload for one record. External ids are appended
// so TV shows carry their IMDb linking id in the same response.
func (c *Client) Detail(ctx context.Context, mediaType models.MediaType, id int) (*Detail, error) {
	var resp detailResponse
	path := fmt.Sprintf("/%s/%d", mediaType, id)
	if err := c.get(ctx, path, url.Values{"append_to_response": {"external_ids"}}, &resp); err != nil {
		return nil, err
	}

	detail := &Detail{
		Media:        convertItem(resp.listItem, mediaType),
		IMDBId:       resp.IMDBId,
		TotalSeasons: resp.NumberOfSeasons,
	}
	if detail.IMDBId == "" && resp.ExternalIDs != nil {
		detail.IMDBId = resp.ExternalIDs.IMDBId
	}
	if resp.Collection != nil {
		detail.CollectionID = resp.Collection.ID
		detail.CollectionName = resp.Collection.Name
	}
	detail.Media.ID = id
	detail.Media.IMDBId = detail.IMDBId
	detail.Media.TotalSeasons = detail.TotalSeasons
	return detail, nil
}

// Search performs a free-text multi-type search. Results that are neither
// movies nor tv shows (people, collections) are dropped.
func (c *Client) Search(ctx context.Context, query string, page int) ([]models.Media, error) {
	var resp listResponse
	params := url.Values{
		"query": {query},
		"page":  {strconv.Itoa(page)},
	}
	if err := c.get(ctx, "/search/multi", params, &resp); err != nil {
		return nil, err
	}

	var results []models.Media
	for _, item := range resp.Results {
		switch models.MediaType(item.MediaType) {
		case models.MediaTypeMovie, models.MediaTypeTV:
			results = append(results, convertItem(item, models.MediaType(item.MediaType)))
		}
	}
	return results, nil
}

// Similar fetches recommendation candidates for one record
func (c *Client) Similar(ctx context.Context, mediaType models.MediaType, id int) ([]models.Media, error) {
	var resp listResponse
	path := fmt.Sprintf("/%s/%d/recommendations", mediaType, id)
	if err := c.get(ctx, path, nil, &resp); err != nil {
		return nil, err
	}
	return convertItems(resp.Results, mediaType), nil
}

// Credits fetches the cast list for one record
func (c *Client) Credits(ctx context.Context, mediaType models.MediaType, id int) ([]CastMember, error) {
	var resp creditsResponse
	path := fmt.Sprintf("/%s/%d/credits", mediaType, id)
	if err := c.get(ctx, path, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Cast, nil
}

// Collection fetches a franchise grouping and its member records
func (c *Client) Collection(ctx context.Context, id int) (string, []models.Media, error) {
	var resp collectionResponse
	if err := c.get(ctx, fmt.Sprintf("/collection/%d", id), nil, &resp); err != nil {
		return "", nil, err
	}
	return resp.Name, convertItems(resp.Parts, models.MediaTypeMovie), nil
}

// PersonCredits fetches a person's combined filmography
func (c *Client) PersonCredits(ctx context.Context, personID int) ([]models.Media, error) {
	var resp personCreditsResponse
	path := fmt.Sprintf("/person/%d/combined_credits", personID)
	if err := c.get(ctx, path, nil, &resp); err != nil {
		return nil, err
	}

	var results []models.Media
	for _, item := range resp.Cast {
		switch models.MediaType(item.MediaType) {
		case models.MediaTypeMovie, models.MediaTypeTV:
			results = append(results, convertItem(item, models.MediaType(item.MediaType)))
		}
	}
	return results, nil
}

// ImageURL builds the full URL for an image path at the given size (e.g. "w500")
func ImageURL(path, size string) string {
	if path == "" {
		return ""
	}
	return imageBaseURL + "/" + size + path
}

func (c *Client) get(ctx context.Context, path string, params url.Values, out interface{ inBandError() error }) error {
	if params == nil {
		params = url.Values{}
	}
	params.Set("api_key", c.apiKey)

	if err := c.fetcher.GetJSON(ctx, c.baseURL+path+"?"+params.Encode(), out); err != nil {
		return err
	}
	return out.inBandError()
}

func convertItems(items []listItem, mediaType models.MediaType) []models.Media {
	results := make([]models.Media, 0, len(items))
	for _, item := range items {
		mt := mediaType
		if item.MediaType != "" {
			mt = models.MediaType(item.MediaType)
		}
		results = append(results, convertItem(item, mt))
	}
	return results
}

func convertItem(item listItem, mediaType models.MediaType) models.Media {
	title := item.Title
	date := item.ReleaseDate
	if mediaType == models.MediaTypeTV {
		title = item.Name
		date = item.FirstAirDate
	}
	return models.Media{
		ID:           item.ID,
		MediaType:    mediaType,
		Title:        title,
		Overview:     item.Overview,
		ReleaseDate:  date,
		PosterPath:   item.PosterPath,
		BackdropPath: item.BackdropPath,
		VoteAverage:  item.VoteAverage,
	}
}
