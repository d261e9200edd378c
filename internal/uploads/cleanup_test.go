package uploads

import (
	"context"
	"testing"
	"time"
)

func TestCleanerDeletesOnlyExpiredObjects(t *testing.T) {
	store := newMemStore()
	now := time.Now()

	oldKey := StagedKey("sess-a", "old.jpg", now.Add(-48*time.Hour))
	oldThumb := ThumbKey(oldKey)
	freshKey := StagedKey("sess-a", "fresh.jpg", now.Add(-time.Hour))
	store.objects[oldKey] = []byte("x")
	store.objects[oldThumb] = []byte("x")
	store.objects[freshKey] = []byte("x")
	// Finalized photos live outside the staging prefix and are never touched.
	store.objects["photos/1/kept.jpg"] = []byte("x")

	cleaner := NewCleaner(store, 24*time.Hour)
	deleted, err := cleaner.Run(context.Background(), 0)
	if err != nil {
		t.Fatalf("cleanup run failed: %v", err)
	}
	if deleted != 2 {
		t.Errorf("deleted = %d, want 2", deleted)
	}
	if _, ok := store.objects[oldKey]; ok {
		t.Error("expired object survived cleanup")
	}
	if _, ok := store.objects[oldThumb]; ok {
		t.Error("expired thumbnail survived cleanup")
	}
	if _, ok := store.objects[freshKey]; !ok {
		t.Error("fresh object was deleted")
	}
	if _, ok := store.objects["photos/1/kept.jpg"]; !ok {
		t.Error("finalized photo was deleted")
	}

	// A second run over the same store finds nothing left to reclaim.
	deleted, err = cleaner.Run(context.Background(), 0)
	if err != nil {
		t.Fatalf("second cleanup run failed: %v", err)
	}
	if deleted != 0 {
		t.Errorf("second run deleted %d objects, want 0", deleted)
	}
}

func TestCleanerTreatsUnparseableKeysAsExpired(t *testing.T) {
	store := newMemStore()
	store.objects["staging/sess-b/noprefix.jpg"] = []byte("x")

	cleaner := NewCleaner(store, 24*time.Hour)
	deleted, err := cleaner.Run(context.Background(), 0)
	if err != nil {
		t.Fatalf("cleanup run failed: %v", err)
	}
	if deleted != 1 {
		t.Errorf("deleted = %d, want 1", deleted)
	}
}

func TestCleanerHonorsRequestOverride(t *testing.T) {
	store := newMemStore()
	key := StagedKey("sess-c", "recent.jpg", time.Now().Add(-2*time.Hour))
	store.objects[key] = []byte("x")

	cleaner := NewCleaner(store, 24*time.Hour)

	deleted, err := cleaner.Run(context.Background(), time.Hour)
	if err != nil {
		t.Fatalf("cleanup run failed: %v", err)
	}
	if deleted != 1 {
		t.Errorf("override run deleted %d objects, want 1", deleted)
	}
}
