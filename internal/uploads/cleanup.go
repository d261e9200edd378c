package uploads

import (
	"context"
	"log/slog"
	"time"

	"github.com/straytracker/stray-tracker-backend/internal/storage"
)

// Cleaner reclaims staged uploads that were never finalized. It reads the
// upload timestamp embedded in each staged key; keys without one are treated
// as expired. Every deletion is best effort, a single bad object never fails
// the run.
type Cleaner struct {
	store  storage.ObjectStore
	maxAge time.Duration
}

func NewCleaner(store storage.ObjectStore, maxAge time.Duration) *Cleaner {
	return &Cleaner{store: store, maxAge: maxAge}
}

// Run deletes staged objects older than maxAge (the configured default when
// maxAge is zero) and returns how many were removed.
func (c *Cleaner) Run(ctx context.Context, maxAge time.Duration) (int, error) {
	if maxAge <= 0 {
		maxAge = c.maxAge
	}
	cutoff := time.Now().Add(-maxAge)

	objects, err := c.store.List(ctx, StagingPrefix)
	if err != nil {
		return 0, err
	}

	deleted := 0
	for _, obj := range objects {
		uploaded, ok := StagedTime(obj.Key)
		if ok && !uploaded.Before(cutoff) {
			continue
		}
		if err := c.store.Delete(ctx, obj.Key); err != nil {
			slog.Error("staged object delete failed", "key", obj.Key, "error", err)
			continue
		}
		deleted++
	}
	return deleted, nil
}

// Start runs the cleaner on a periodic ticker until done is closed.
func (c *Cleaner) Start(interval time.Duration, done chan struct{}) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
				count, err := c.Run(ctx, 0)
				cancel()
				if err != nil {
					slog.Error("staging cleanup failed", "error", err)
				} else if count > 0 {
					slog.Info("staging cleanup completed", "deleted", count)
				}
			case <-done:
				return
			}
		}
	}()
}
