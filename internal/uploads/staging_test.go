package uploads

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	_ "image/jpeg"
	"image/png"
	"io"
	"strings"
	"testing"

	"github.com/straytracker/stray-tracker-backend/internal/storage"
)

type memStore struct {
	objects map[string][]byte
}

func newMemStore() *memStore {
	return &memStore{objects: map[string][]byte{}}
}

func (m *memStore) Put(_ context.Context, key string, data []byte, _ string) error {
	m.objects[key] = data
	return nil
}

func (m *memStore) Get(_ context.Context, key string) ([]byte, error) {
	data, ok := m.objects[key]
	if !ok {
		return nil, storage.ErrObjectNotFound
	}
	return data, nil
}

func (m *memStore) Stat(_ context.Context, key string) (storage.ObjectInfo, error) {
	data, ok := m.objects[key]
	if !ok {
		return storage.ObjectInfo{}, storage.ErrObjectNotFound
	}
	return storage.ObjectInfo{Key: key, Size: int64(len(data))}, nil
}

func (m *memStore) Copy(_ context.Context, srcKey, dstKey string) error {
	data, ok := m.objects[srcKey]
	if !ok {
		return storage.ErrObjectNotFound
	}
	m.objects[dstKey] = data
	return nil
}

func (m *memStore) Delete(_ context.Context, key string) error {
	delete(m.objects, key)
	return nil
}

func (m *memStore) List(_ context.Context, prefix string) ([]storage.ObjectInfo, error) {
	var infos []storage.ObjectInfo
	for key, data := range m.objects {
		if strings.HasPrefix(key, prefix) {
			infos = append(infos, storage.ObjectInfo{Key: key, Size: int64(len(data))})
		}
	}
	return infos, nil
}

// testImage renders a PNG with some pixel variation so JPEG encoding has
// real work to do.
func testImage(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x * 7), G: uint8(y * 13), B: uint8((x + y) * 3), A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode test image: %v", err)
	}
	return buf.Bytes()
}

func TestStageStoresBothVariants(t *testing.T) {
	store := newMemStore()
	p := NewPipeline(store)

	var progress []float64
	key, err := p.Stage(context.Background(), "sess-1", "cat.png", bytes.NewReader(testImage(t, 640, 480)), func(pct float64) {
		progress = append(progress, pct)
	})
	if err != nil {
		t.Fatalf("stage failed: %v", err)
	}

	if !strings.HasPrefix(key, "staging/sess-1/") {
		t.Errorf("key %q outside session staging prefix", key)
	}
	if !strings.HasSuffix(key, "_cat.jpg") {
		t.Errorf("key %q not normalized to jpg", key)
	}

	full, ok := store.objects[key]
	if !ok {
		t.Fatal("full variant not stored")
	}
	thumb, ok := store.objects[ThumbKey(key)]
	if !ok {
		t.Fatal("thumbnail variant not stored")
	}
	if len(full) > fullMaxBytes {
		t.Errorf("full variant %d bytes exceeds cap %d", len(full), fullMaxBytes)
	}
	if len(thumb) > thumbMaxBytes {
		t.Errorf("thumbnail %d bytes exceeds cap %d", len(thumb), thumbMaxBytes)
	}

	if len(progress) == 0 {
		t.Fatal("no progress reported")
	}
	if last := progress[len(progress)-1]; last != 100 {
		t.Errorf("final progress = %v, want 100", last)
	}
	for i := 1; i < len(progress); i++ {
		if progress[i] < progress[i-1] {
			t.Errorf("progress regressed: %v then %v", progress[i-1], progress[i])
		}
	}
}

func TestStageShrinksOversizedImages(t *testing.T) {
	store := newMemStore()
	p := NewPipeline(store)

	key, err := p.Stage(context.Background(), "sess-2", "big.png", bytes.NewReader(testImage(t, 2400, 1200)), nil)
	if err != nil {
		t.Fatalf("stage failed: %v", err)
	}

	cfg, err := decodeStored(store.objects[key])
	if err != nil {
		t.Fatalf("decode stored full variant: %v", err)
	}
	if cfg.Width > fullMaxDim || cfg.Height > fullMaxDim {
		t.Errorf("full variant %dx%d exceeds %d", cfg.Width, cfg.Height, fullMaxDim)
	}

	tcfg, err := decodeStored(store.objects[ThumbKey(key)])
	if err != nil {
		t.Fatalf("decode stored thumbnail: %v", err)
	}
	if tcfg.Width > thumbMaxDim || tcfg.Height > thumbMaxDim {
		t.Errorf("thumbnail %dx%d exceeds %d", tcfg.Width, tcfg.Height, thumbMaxDim)
	}
}

func decodeStored(data []byte) (image.Config, error) {
	if data == nil {
		return image.Config{}, errors.New("object missing")
	}
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	return cfg, err
}

func TestStageRejectsGarbageInput(t *testing.T) {
	store := newMemStore()
	p := NewPipeline(store)

	var progress []float64
	_, err := p.Stage(context.Background(), "sess-3", "junk.jpg", strings.NewReader("not an image"), func(pct float64) {
		progress = append(progress, pct)
	})
	if err == nil {
		t.Fatal("garbage input staged without error")
	}
	if len(progress) == 0 || progress[len(progress)-1] != ProgressFailed {
		t.Errorf("progress = %v, want trailing %v", progress, ProgressFailed)
	}
	if len(store.objects) != 0 {
		t.Errorf("garbage input left %d objects in store", len(store.objects))
	}
}

func TestStageBatchIsolatesFailures(t *testing.T) {
	store := newMemStore()
	p := NewPipeline(store)

	files := map[string]io.Reader{
		"good.png": bytes.NewReader(testImage(t, 100, 100)),
		"bad.png":  strings.NewReader("nope"),
	}
	results := p.StageBatch(context.Background(), "sess-4", files, nil)

	if len(results) != 2 {
		t.Fatalf("got %d results, want 2", len(results))
	}
	byName := map[string]StageResult{}
	for _, r := range results {
		byName[r.Filename] = r
	}
	if byName["good.png"].Err != nil {
		t.Errorf("good image failed: %v", byName["good.png"].Err)
	}
	if byName["good.png"].Key == "" {
		t.Error("good image has no key")
	}
	if byName["bad.png"].Err == nil {
		t.Error("bad image staged without error")
	}
}
