package models

import (
	"fmt"
	"time"

	"github.com/timshannon/bolthold"
	"go.etcd.io/bbolt"
)

// dailyPickKey is the application-scoped key for the single persisted pick
const dailyPickKey = "daily_pick"

// Database wraps the bolthold store
type Database struct {
	store *bolthold.Store
}

// NewDatabase creates a new database connection
func NewDatabase(path string) (*Database, error) {
	store, err := bolthold.Open(path, 0600, &bolthold.Options{
		Options: &bbolt.Options{
			Timeout: 1 * time.Second,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	return &Database{store: store}, nil
}

// Close closes the database connection
func (db *Database) Close() error {
	return db.store.Close()
}

// SaveDailyPick persists the daily pick, replacing any previous one
func (db *Database) SaveDailyPick(pick *DailyPick) error {
	return db.store.Upsert(dailyPickKey, pick)
}

// GetDailyPick retrieves the stored daily pick, or nil if none exists
func (db *Database) GetDailyPick() (*DailyPick, error) {
	var pick DailyPick
	err := db.store.Get(dailyPickKey, &pick)
	if err == bolthold.ErrNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &pick, nil
}

// DeleteDailyPick removes the stored daily pick if present
func (db *Database) DeleteDailyPick() error {
	err := db.store.Delete(dailyPickKey, &DailyPick{})
	if err == bolthold.ErrNotFound {
		return nil
	}
	return err
}
