package controllers

import (
	"context"
	"errors"
	"math/rand"
	"sync"
	"time"

	"github.com/amaumene/gocinarr/internal/models"
	"github.com/sirupsen/logrus"
)

// maxPickAttempts bounds how many favorites are tried before giving up
const maxPickAttempts = 5

// ErrNoRecommendation reports that no attempted favorite yielded a usable
// candidate. This is a domain condition, not a failure.
var ErrNoRecommendation = errors.New("no recommendation found")

// similarSource is the slice of the catalog client the selector needs
type similarSource interface {
	Similar(ctx context.Context, mediaType models.MediaType, id int) ([]models.Media, error)
}

// pickStore persists the single daily pick record
type pickStore interface {
	GetDailyPick() (*models.DailyPick, error)
	SaveDailyPick(pick *models.DailyPick) error
}

// RecommendController produces one recommended record per calendar day,
// derived from a caller-supplied favorites collection. The pick is persisted
// so a same-day request involves no network activity at all.
type RecommendController struct {
	db      pickStore
	catalog similarSource
	logger  *logrus.Logger

	// injectable for tests
	now func() time.Time

	// rand.Rand is not safe for concurrent use and pick requests can
	// arrive in parallel, so every rng call goes through rngMu.
	rngMu sync.Mutex
	rng   *rand.Rand
}

// NewRecommendController creates a new recommendation controller
func NewRecommendController(db pickStore, catalog similarSource, logger *logrus.Logger) *RecommendController {
	return &RecommendController{
		db:      db,
		catalog: catalog,
		logger:  logger,
		now:     time.Now,
		rng:     rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// DailyPick returns the pick for today, generating and persisting a new one
// when none exists for the current calendar day. A forced refresh regenerates
// immediately and additionally excludes the previously shown pick.
func (c *RecommendController) DailyPick(ctx context.Context, favorites []*models.Media, refresh bool) (*models.DailyPick, error) {
	if len(favorites) == 0 {
		return nil, ErrNoRecommendation
	}

	stored, err := c.db.GetDailyPick()
	if err != nil {
		c.logger.WithError(err).Warn("Failed to load stored daily pick")
	}

	if !refresh && stored != nil && stored.SameDay(c.now()) {
		c.logger.WithField("media_id", stored.MediaID).Debug("Returning cached daily pick")
		return stored, nil
	}

	excluded := make(map[int]bool, len(favorites)+1)
	for _, fav := range favorites {
		excluded[fav.ID] = true
	}
	if refresh && stored != nil {
		excluded[stored.MediaID] = true
	}

	shuffled := make([]*models.Media, len(favorites))
	copy(shuffled, favorites)
	c.rngMu.Lock()
	c.rng.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})
	c.rngMu.Unlock()

	attempts := maxPickAttempts
	if len(shuffled) < attempts {
		attempts = len(shuffled)
	}

	for _, fav := range shuffled[:attempts] {
		candidates, err := c.catalog.Similar(ctx, fav.MediaType, fav.ID)
		if err != nil {
			c.logger.WithError(err).WithField("favorite_id", fav.ID).Warn("Similar lookup failed")
			continue
		}

		var usable []models.Media
		for _, cand := range candidates {
			if !excluded[cand.ID] {
				usable = append(usable, cand)
			}
		}
		if len(usable) == 0 {
			continue
		}

		c.rngMu.Lock()
		chosen := usable[c.rng.Intn(len(usable))]
		c.rngMu.Unlock()
		pick := &models.DailyPick{
			MediaID:      chosen.ID,
			MediaType:    chosen.MediaType,
			Title:        chosen.Title,
			PosterPath:   chosen.PosterPath,
			FromFavorite: fav.ID,
			CreatedAt:    c.now(),
		}
		if err := c.db.SaveDailyPick(pick); err != nil {
			c.logger.WithError(err).Warn("Failed to persist daily pick")
		}

		c.logger.WithFields(logrus.Fields{
			"media_id":      pick.MediaID,
			"title":         pick.Title,
			"from_favorite": pick.FromFavorite,
		}).Info("Generated daily pick")
		return pick, nil
	}

	return nil, ErrNoRecommendation
}
