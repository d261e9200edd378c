// Package uploads implements the photo staging pipeline: images are
// re-encoded into a full-size and a thumbnail variant and parked under a
// session-scoped staging prefix in the object store until a sighting report
// finalizes them. Staged objects that are never finalized age out via the
// cleanup job.
package uploads

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"io"
	"time"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
	"github.com/straytracker/stray-tracker-backend/internal/storage"
)

const (
	fullMaxDim    = 1920
	fullMaxBytes  = 1 << 20 // 1 MB
	thumbMaxDim   = 300
	thumbMaxBytes = 100 << 10 // 100 KB

	startQuality = 85
	minQuality   = 30
	qualityStep  = 10
)

// ProgressFailed is the sentinel progress value signalling that compression
// of an image failed. Other images in the batch are unaffected.
const ProgressFailed = -1

// ProgressFunc receives a 0-100 progress value for one image: 0-50 spans the
// full-size encode, 50-100 the thumbnail. May be nil.
type ProgressFunc func(percent float64)

type Pipeline struct {
	store storage.ObjectStore
}

func NewPipeline(store storage.ObjectStore) *Pipeline {
	return &Pipeline{store: store}
}

// NewSession issues a fresh opaque session identifier. The first image of an
// authoring session mints one; every later image reuses it.
func (p *Pipeline) NewSession() string {
	return uuid.New().String()
}

// Stage re-encodes one image into both variants and uploads them under the
// session's staging prefix. Returns the full-size variant's key, the caller's
// durable reference for the eventual sighting report.
func (p *Pipeline) Stage(ctx context.Context, sessionID, filename string, r io.Reader, progress ProgressFunc) (string, error) {
	report := func(pct float64) {
		if progress != nil {
			progress(pct)
		}
	}

	src, err := imaging.Decode(r, imaging.AutoOrientation(true))
	if err != nil {
		report(ProgressFailed)
		return "", fmt.Errorf("decode image %s: %w", filename, err)
	}
	report(5)

	full, err := encodeVariant(src, fullMaxDim, fullMaxBytes, func(pct float64) {
		report(5 + pct*0.45)
	})
	if err != nil {
		report(ProgressFailed)
		return "", fmt.Errorf("encode full image %s: %w", filename, err)
	}
	report(50)

	thumb, err := encodeVariant(src, thumbMaxDim, thumbMaxBytes, func(pct float64) {
		report(50 + pct*0.45)
	})
	if err != nil {
		report(ProgressFailed)
		return "", fmt.Errorf("encode thumbnail %s: %w", filename, err)
	}
	report(95)

	key := StagedKey(sessionID, jpegName(filename), time.Now())
	if err := p.store.Put(ctx, key, full, "image/jpeg"); err != nil {
		report(ProgressFailed)
		return "", fmt.Errorf("upload staged image: %w", err)
	}
	if err := p.store.Put(ctx, ThumbKey(key), thumb, "image/jpeg"); err != nil {
		report(ProgressFailed)
		return "", fmt.Errorf("upload staged thumbnail: %w", err)
	}

	report(100)
	return key, nil
}

// StageResult is the per-image outcome of a batch.
type StageResult struct {
	Filename string
	Key      string
	Err      error
}

// StageBatch processes images strictly one at a time. The serial loop bounds
// re-encoding memory, and one bad image never stops the rest.
func (p *Pipeline) StageBatch(ctx context.Context, sessionID string, files map[string]io.Reader, progress func(filename string, percent float64)) []StageResult {
	results := make([]StageResult, 0, len(files))
	for name, r := range files {
		var per ProgressFunc
		if progress != nil {
			n := name
			per = func(pct float64) { progress(n, pct) }
		}
		key, err := p.Stage(ctx, sessionID, name, r, per)
		results = append(results, StageResult{Filename: name, Key: key, Err: err})
	}
	return results
}

// encodeVariant shrinks the image to fit maxDim and re-encodes as JPEG,
// stepping quality down until the target size is met or quality bottoms out.
func encodeVariant(src image.Image, maxDim, maxBytes int, report ProgressFunc) ([]byte, error) {
	resized := src
	bounds := src.Bounds()
	if bounds.Dx() > maxDim || bounds.Dy() > maxDim {
		resized = imaging.Fit(src, maxDim, maxDim, imaging.Lanczos)
	}

	steps := (startQuality-minQuality)/qualityStep + 1
	for i, quality := 0, startQuality; quality >= minQuality; i, quality = i+1, quality-qualityStep {
		var buf bytes.Buffer
		if err := imaging.Encode(&buf, resized, imaging.JPEG, imaging.JPEGQuality(quality)); err != nil {
			return nil, err
		}
		if report != nil {
			report(float64(i+1) / float64(steps) * 100)
		}
		if buf.Len() <= maxBytes || quality-qualityStep < minQuality {
			return buf.Bytes(), nil
		}
	}
	return nil, fmt.Errorf("could not reach %d bytes", maxBytes)
}

func jpegName(filename string) string {
	if i := lastDot(filename); i > 0 {
		return filename[:i] + ".jpg"
	}
	return filename + ".jpg"
}

func lastDot(s string) int {
	for i := len(s) - 1; i >= 0; i-- {
		if s[i] == '.' {
			return i
		}
		if s[i] == '/' {
			return -1
		}
	}
	return -1
}
