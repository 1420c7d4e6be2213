package controllers

import (
	"context"
	"fmt"
	"sync"

	"github.com/amaumene/gocinarr/internal/cache"
	"github.com/amaumene/gocinarr/internal/models"
	"github.com/amaumene/gocinarr/internal/services/omdb"
	"github.com/amaumene/gocinarr/internal/services/tmdb"
	"github.com/sirupsen/logrus"
	"github.com/sourcegraph/conc/pool"
)

// catalogDetailer is the slice of the catalog client the orchestrator needs
type catalogDetailer interface {
	Detail(ctx context.Context, mediaType models.MediaType, id int) (*tmdb.Detail, error)
}

// ratingsSource is the slice of the ratings client the orchestrator needs
type ratingsSource interface {
	Detail(ctx context.Context, imdbID string) (*omdb.Detail, error)
	Season(ctx context.Context, imdbID string, season int) ([]models.Episode, error)
}

// seasonKey addresses one season of one series in the season cache
type seasonKey struct {
	IMDBId string
	Season int
}

// EnrichResult carries per-field enrichment state. Enrich never fails as a
// whole; each field records its own outcome and the caller inspects them
// individually.
type EnrichResult struct {
	Media *models.Media

	// NoIMDBID is set when no linking id could be resolved. All ratings and
	// episode state stays empty; this is a domain condition, not an error.
	NoIMDBID bool

	Ratings    []models.Rating
	Awards     string
	RatingsErr error

	TotalSeasons int
	Seasons      map[int]models.SeasonResult
}

// EnrichController produces fully enriched media records by chaining the
// primary catalog and secondary ratings sources. Ratings snapshots and
// episode lists go through deduplicating caches, so concurrent enrichments
// of the same record share upstream requests.
type EnrichController struct {
	catalog catalogDetailer
	ratings ratingsSource

	ratingsCache *cache.Keyed[string, *omdb.Detail]
	seasonCache  *cache.Keyed[seasonKey, []models.Episode]

	suspectThreshold int
	logger           *logrus.Logger
}

// NewEnrichController creates a new enrichment controller
func NewEnrichController(catalog catalogDetailer, ratings ratingsSource, suspectThreshold int, logger *logrus.Logger) *EnrichController {
	return &EnrichController{
		catalog:          catalog,
		ratings:          ratings,
		ratingsCache:     cache.NewKeyed[string, *omdb.Detail](),
		seasonCache:      cache.NewKeyed[seasonKey, []models.Episode](),
		suspectThreshold: suspectThreshold,
		logger:           logger,
	}
}

// Enrich fills in cross-source enrichment state for media. Every sub-fetch
// is absorbed individually; the result's per-field state tells the caller
// what loaded and what did not.
func (c *EnrichController) Enrich(ctx context.Context, media *models.Media) *EnrichResult {
	result := &EnrichResult{
		Media:   media,
		Seasons: make(map[int]models.SeasonResult),
	}

	if media.IMDBId == "" {
		detail, err := c.catalog.Detail(ctx, media.MediaType, media.ID)
		if err != nil {
			c.logger.WithError(err).WithFields(logrus.Fields{
				"media_id": media.ID,
				"type":     media.MediaType,
			}).Warn("Failed to fetch catalog detail")
		} else {
			patchFromDetail(media, detail)
		}
	}

	if media.IMDBId == "" {
		c.logger.WithField("media_id", media.ID).Info("No linking id, skipping cross-source enrichment")
		result.NoIMDBID = true
		return result
	}

	tasks := pool.New()
	tasks.Go(func() {
		detail, err := c.ratingsDetail(ctx, media.IMDBId)
		if err != nil {
			c.logger.WithError(err).WithField("imdb_id", media.IMDBId).Warn("Failed to fetch ratings snapshot")
			result.RatingsErr = err
			return
		}
		result.Ratings = detail.Ratings
		result.Awards = detail.Awards
	})
	if media.MediaType == models.MediaTypeTV {
		tasks.Go(func() {
			c.enrichSeasons(ctx, media, result)
		})
	}
	tasks.Wait()

	return result
}

// enrichSeasons reconciles the season count between the two sources, then
// fans out one episode fetch per season. The ratings source's own count wins
// when the sources disagree; the catalog count is the fallback when the
// ratings source has no count.
func (c *EnrichController) enrichSeasons(ctx context.Context, media *models.Media, result *EnrichResult) {
	total := media.TotalSeasons

	detail, err := c.ratingsDetail(ctx, media.IMDBId)
	switch {
	case err != nil:
		c.logger.WithError(err).WithField("imdb_id", media.IMDBId).Warn("Season count query failed, using catalog count")
	case detail.TotalSeasons > 0:
		if total > 0 && detail.TotalSeasons != total {
			c.logger.WithFields(logrus.Fields{
				"imdb_id": media.IMDBId,
				"catalog": total,
				"ratings": detail.TotalSeasons,
			}).Debug("Season counts disagree, ratings source wins")
		}
		total = detail.TotalSeasons
	}

	result.TotalSeasons = total
	media.TotalSeasons = total
	if total <= 0 {
		return
	}

	var mu sync.Mutex
	seasons := pool.New()
	for season := 1; season <= total; season++ {
		season := season
		seasons.Go(func() {
			sr := c.fetchSeason(ctx, media.IMDBId, season)
			mu.Lock()
			result.Seasons[season] = sr
			mu.Unlock()
		})
	}
	seasons.Wait()
}

// Season refreshes episode data for a single season, independent of any
// wider enrichment. Racing callers for the same season share one fetch.
// A failed fetch is reported through the result's Failed marker.
func (c *EnrichController) Season(ctx context.Context, imdbID string, season int) (models.SeasonResult, error) {
	if imdbID == "" {
		return models.SeasonResult{}, fmt.Errorf("imdb id is required")
	}
	if season < 1 {
		return models.SeasonResult{}, fmt.Errorf("season must be positive, got %d", season)
	}
	return c.fetchSeason(ctx, imdbID, season), nil
}

func (c *EnrichController) fetchSeason(ctx context.Context, imdbID string, season int) models.SeasonResult {
	sr := models.SeasonResult{Season: season}

	episodes, err := c.seasonCache.GetOrLoad(ctx, seasonKey{IMDBId: imdbID, Season: season}, func(ctx context.Context, key seasonKey) ([]models.Episode, error) {
		return c.ratings.Season(ctx, key.IMDBId, key.Season)
	})
	if err != nil {
		c.logger.WithError(err).WithFields(logrus.Fields{
			"imdb_id": imdbID,
			"season":  season,
		}).Warn("Season fetch failed")
		sr.Failed = true
		return sr
	}

	sr.Episodes = episodes
	if c.suspectThreshold > 0 && len(episodes) >= c.suspectThreshold {
		// The ratings source silently caps each season response at a fixed
		// page size. Hitting it means the list is probably cut short.
		sr.Truncated = true
	}
	return sr
}

func (c *EnrichController) ratingsDetail(ctx context.Context, imdbID string) (*omdb.Detail, error) {
	return c.ratingsCache.GetOrLoad(ctx, imdbID, func(ctx context.Context, key string) (*omdb.Detail, error) {
		return c.ratings.Detail(ctx, key)
	})
}

// ClearCaches drops all cached ratings snapshots and episode lists
func (c *EnrichController) ClearCaches() {
	c.ratingsCache.Clear()
	c.seasonCache.Clear()
}

// CacheStats reports the number of cached ratings snapshots and season lists
func (c *EnrichController) CacheStats() (ratings, seasons int) {
	return c.ratingsCache.Len(), c.seasonCache.Len()
}

// patchFromDetail merges a catalog detail payload into the caller's record.
// The linking id and season total always refresh from the latest detail;
// everything else fills in only when the caller's copy is missing it.
func patchFromDetail(media *models.Media, detail *tmdb.Detail) {
	media.IMDBId = detail.IMDBId
	media.TotalSeasons = detail.TotalSeasons

	if media.Title == "" {
		media.Title = detail.Media.Title
	}
	if media.Overview == "" {
		media.Overview = detail.Media.Overview
	}
	if media.ReleaseDate == "" {
		media.ReleaseDate = detail.Media.ReleaseDate
	}
	if media.PosterPath == "" {
		media.PosterPath = detail.Media.PosterPath
	}
	if media.BackdropPath == "" {
		media.BackdropPath = detail.Media.BackdropPath
	}
	if media.VoteAverage == 0 {
		media.VoteAverage = detail.Media.VoteAverage
	}
}
