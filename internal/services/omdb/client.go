package omdb

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/amaumene/gocinarr/internal/config"
	"github.com/amaumene/gocinarr/internal/fetch"
	"github.com/amaumene/gocinarr/internal/models"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

// Client wraps the secondary ratings API, addressed by IMDb id. The source is
// rate-limited, so every request waits on a client-side token bucket; callers
// are expected to layer a deduplicating cache on top since the same id is
// queried repeatedly within a session.
type Client struct {
	baseURL string
	apiKey  string
	fetcher *fetch.Client
	limiter *rate.Limiter
	logger  *logrus.Logger
}

// NewClient creates a new ratings client
func NewClient(cfg *config.Config, fetcher *fetch.Client, logger *logrus.Logger) (*Client, error) {
	if cfg.OMDBAPIKey == "" {
		return nil, fmt.Errorf("OMDb API key is required")
	}
	return &Client{
		baseURL: cfg.OMDBBaseURL,
		apiKey:  cfg.OMDBAPIKey,
		fetcher: fetcher,
		limiter: rate.NewLimiter(rate.Limit(cfg.OMDBRequestsPerSecond), cfg.OMDBBurst),
		logger:  logger,
	}, nil
}

// Detail is the ratings snapshot for one linking id
type Detail struct {
	Title        string
	Awards       string
	Ratings      []models.Rating
	TotalSeasons int // 0 when the source does not report a count
}

// Detail fetches the ratings snapshot for an IMDb id. The payload also
// carries the source's own season count, which the enrichment orchestrator
// treats as authoritative over the primary catalog's count.
func (c *Client) Detail(ctx context.Context, imdbID string) (*Detail, error) {
	var resp detailResponse
	if err := c.get(ctx, url.Values{"i": {imdbID}}, &resp); err != nil {
		return nil, err
	}
	if resp.failed() {
		return nil, &fetch.UpstreamError{Message: resp.Error}
	}

	detail := &Detail{
		Title:  resp.Title,
		Awards: resp.Awards,
	}
	if n, err := strconv.Atoi(resp.TotalSeasons); err == nil {
		detail.TotalSeasons = n
	}
	for _, r := range resp.Ratings {
		detail.Ratings = append(detail.Ratings, models.Rating{Source: r.Source, Value: r.Value})
	}

	c.logger.WithFields(logrus.Fields{
		"imdb_id": imdbID,
		"ratings": len(detail.Ratings),
		"seasons": detail.TotalSeasons,
	}).Debug("Ratings snapshot fetched")

	return detail, nil
}

// Season fetches the episode list for one season of a series
func (c *Client) Season(ctx context.Context, imdbID string, season int) ([]models.Episode, error) {
	var resp seasonResponse
	params := url.Values{
		"i":      {imdbID},
		"Season": {strconv.Itoa(season)},
	}
	if err := c.get(ctx, params, &resp); err != nil {
		return nil, err
	}
	if resp.failed() {
		return nil, &fetch.UpstreamError{Message: resp.Error}
	}

	episodes := make([]models.Episode, 0, len(resp.Episodes))
	for _, e := range resp.Episodes {
		num, err := strconv.Atoi(e.Episode)
		if err != nil {
			continue
		}
		episodes = append(episodes, models.Episode{
			Season:  season,
			Episode: num,
			Title:   e.Title,
			Rating:  e.IMDBRating,
		})
	}
	return episodes, nil
}

func (c *Client) get(ctx context.Context, params url.Values, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}
	params.Set("apikey", c.apiKey)
	return c.fetcher.GetJSON(ctx, c.baseURL+"/?"+params.Encode(), out)
}
