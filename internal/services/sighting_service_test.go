package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/straytracker/stray-tracker-backend/internal/dto"
	"github.com/straytracker/stray-tracker-backend/internal/storage"
)

// fakeStore is an in-memory ObjectStore for exercising photo finalization
// without minio.
type fakeStore struct {
	objects map[string][]byte
	failOn  map[string]bool
}

func newFakeStore() *fakeStore {
	return &fakeStore{objects: map[string][]byte{}, failOn: map[string]bool{}}
}

func (f *fakeStore) Put(_ context.Context, key string, data []byte, _ string) error {
	f.objects[key] = data
	return nil
}

func (f *fakeStore) Get(_ context.Context, key string) ([]byte, error) {
	data, ok := f.objects[key]
	if !ok {
		return nil, storage.ErrObjectNotFound
	}
	return data, nil
}

func (f *fakeStore) Stat(_ context.Context, key string) (storage.ObjectInfo, error) {
	if f.failOn[key] {
		return storage.ObjectInfo{}, errors.New("store unavailable")
	}
	data, ok := f.objects[key]
	if !ok {
		return storage.ObjectInfo{}, storage.ErrObjectNotFound
	}
	return storage.ObjectInfo{Key: key, Size: int64(len(data)), ContentType: "image/jpeg"}, nil
}

func (f *fakeStore) Copy(_ context.Context, srcKey, dstKey string) error {
	data, ok := f.objects[srcKey]
	if !ok {
		return storage.ErrObjectNotFound
	}
	f.objects[dstKey] = data
	return nil
}

func (f *fakeStore) Delete(_ context.Context, key string) error {
	delete(f.objects, key)
	return nil
}

func (f *fakeStore) List(_ context.Context, prefix string) ([]storage.ObjectInfo, error) {
	var infos []storage.ObjectInfo
	for key, data := range f.objects {
		if strings.HasPrefix(key, prefix) {
			infos = append(infos, storage.ObjectInfo{Key: key, Size: int64(len(data))})
		}
	}
	return infos, nil
}

func validRequest() *dto.CreateSightingRequest {
	return &dto.CreateSightingRequest{
		Species:    "cat",
		AnimalSize: "small",
		Lat:        3.1072,
		Lng:        101.6791,
	}
}

func TestValidateCreateAcceptsValidInput(t *testing.T) {
	if err := validateCreate(validRequest(), time.Now()); err != nil {
		t.Fatalf("valid request rejected: %v", err)
	}
}

func TestValidateCreateRejectsOutOfRangeCoordinates(t *testing.T) {
	cases := []struct {
		name     string
		lat, lng float64
	}{
		{"lat too high", 90.5, 0},
		{"lat too low", -91, 0},
		{"lng too high", 0, 180.5},
		{"lng too low", 0, -181},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			req := validRequest()
			req.Lat = c.lat
			req.Lng = c.lng
			err := validateCreate(req, time.Now())
			if !errors.Is(err, ErrValidation) {
				t.Errorf("want ErrValidation, got %v", err)
			}
		})
	}
}

func TestValidateCreateRejectsFutureSightingTime(t *testing.T) {
	now := time.Now()
	future := now.Add(time.Hour)
	req := validRequest()
	req.SightingTime = &future
	if err := validateCreate(req, now); !errors.Is(err, ErrValidation) {
		t.Errorf("future sighting time: want ErrValidation, got %v", err)
	}

	// Backdating is allowed.
	past := now.Add(-24 * time.Hour)
	req.SightingTime = &past
	if err := validateCreate(req, now); err != nil {
		t.Errorf("backdated sighting rejected: %v", err)
	}
}

func TestValidateCreateRequiresSpeciesAndSizeForNewStray(t *testing.T) {
	req := validRequest()
	req.Species = ""
	if err := validateCreate(req, time.Now()); !errors.Is(err, ErrValidation) {
		t.Errorf("missing species: want ErrValidation, got %v", err)
	}

	req = validRequest()
	req.AnimalSize = ""
	if err := validateCreate(req, time.Now()); !errors.Is(err, ErrValidation) {
		t.Errorf("missing size: want ErrValidation, got %v", err)
	}

	// A referenced stray needs neither.
	req = validRequest()
	req.StrayID = 7
	req.Species = ""
	req.AnimalSize = ""
	if err := validateCreate(req, time.Now()); err != nil {
		t.Errorf("existing stray reference rejected: %v", err)
	}
}

func TestResolveStagedPhotosSkipsMissingKeys(t *testing.T) {
	store := newFakeStore()
	store.objects["staging/sess/1000_a.jpg"] = []byte("aaa")
	store.objects["staging/sess/2000_b.jpg"] = []byte("bbbb")
	// third key never uploaded

	keys := []string{
		"staging/sess/1000_a.jpg",
		"staging/sess/2000_b.jpg",
		"staging/sess/3000_c.jpg",
	}
	photos, outcomes := resolveStagedPhotos(context.Background(), store, "http://cdn", 42, uuid.New(), keys)

	if len(photos) != 2 {
		t.Fatalf("got %d photos, want 2", len(photos))
	}
	if len(outcomes) != 3 {
		t.Fatalf("got %d outcomes, want 3", len(outcomes))
	}
	if outcomes[0].Status != PhotoAttached || outcomes[1].Status != PhotoAttached {
		t.Errorf("existing keys not attached: %+v", outcomes)
	}
	if outcomes[2].Status != PhotoSkipped {
		t.Errorf("missing key outcome = %q, want skipped", outcomes[2].Status)
	}

	if photos[0].Filename != "a.jpg" {
		t.Errorf("filename = %q, want a.jpg", photos[0].Filename)
	}
	if photos[0].Key != "photos/42/a.jpg" {
		t.Errorf("permanent key = %q", photos[0].Key)
	}
	if photos[0].URL != "http://cdn/photos/42/a.jpg" {
		t.Errorf("url = %q", photos[0].URL)
	}
	if photos[1].Size != 4 {
		t.Errorf("size = %d, want 4", photos[1].Size)
	}

	// Finalized copies must live outside the staging prefix.
	if _, ok := store.objects["photos/42/a.jpg"]; !ok {
		t.Error("finalized object not copied to permanent key")
	}
}

func TestResolveStagedPhotosMarksProbeFailures(t *testing.T) {
	store := newFakeStore()
	store.objects["staging/sess/1000_a.jpg"] = []byte("aaa")
	store.failOn["staging/sess/2000_b.jpg"] = true

	keys := []string{"staging/sess/1000_a.jpg", "staging/sess/2000_b.jpg"}
	photos, outcomes := resolveStagedPhotos(context.Background(), store, "http://cdn", 1, uuid.New(), keys)

	if len(photos) != 1 {
		t.Fatalf("got %d photos, want 1", len(photos))
	}
	if outcomes[1].Status != PhotoFailed {
		t.Errorf("probe failure outcome = %q, want failed", outcomes[1].Status)
	}
	if outcomes[1].Reason == "" {
		t.Error("failed outcome should carry a reason")
	}
}

func TestResolveStagedPhotosAttachesThumbnails(t *testing.T) {
	store := newFakeStore()
	store.objects["staging/sess/1000_a.jpg"] = []byte("full")
	store.objects["staging/sess/1000_a.jpg.thumb"] = []byte("th")

	photos, _ := resolveStagedPhotos(context.Background(), store, "http://cdn", 9, uuid.New(), []string{"staging/sess/1000_a.jpg"})

	if len(photos) != 1 {
		t.Fatalf("got %d photos, want 1", len(photos))
	}
	if photos[0].ThumbKey != "photos/9/a.jpg.thumb" {
		t.Errorf("thumb key = %q", photos[0].ThumbKey)
	}
	if _, ok := store.objects["photos/9/a.jpg.thumb"]; !ok {
		t.Error("thumbnail not copied to permanent key")
	}
}
