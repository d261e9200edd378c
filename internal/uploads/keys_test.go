package uploads

import (
	"testing"
	"time"
)

func TestStagedKeyRoundTrip(t *testing.T) {
	now := time.UnixMilli(1724900000000)
	key := StagedKey("3f2c1d9a", "cat.jpg", now)

	if key != "staging/3f2c1d9a/1724900000000_cat.jpg" {
		t.Fatalf("staged key = %q", key)
	}

	ts, ok := StagedTime(key)
	if !ok {
		t.Fatal("staged time not parseable")
	}
	if !ts.Equal(now) {
		t.Errorf("staged time = %v, want %v", ts, now)
	}
	if got := StagedFilename(key); got != "cat.jpg" {
		t.Errorf("filename = %q, want cat.jpg", got)
	}
}

func TestStagedFilenameKeepsUnderscores(t *testing.T) {
	key := StagedKey("sess", "my_cat_photo.jpg", time.UnixMilli(1000))
	if got := StagedFilename(key); got != "my_cat_photo.jpg" {
		t.Errorf("filename = %q, want my_cat_photo.jpg", got)
	}
}

func TestStagedTimeRejectsMalformedKeys(t *testing.T) {
	for _, key := range []string{
		"staging/sess/nodigits_cat.jpg",
		"staging/sess/cat.jpg",
		"staging/sess/_cat.jpg",
		"staging/sess/1234_",
		"staging/sess/-5_cat.jpg",
		"",
	} {
		if _, ok := StagedTime(key); ok {
			t.Errorf("StagedTime(%q) parsed, want failure", key)
		}
	}
}

func TestThumbKey(t *testing.T) {
	key := "staging/sess/1000_cat.jpg"
	thumb := ThumbKey(key)
	if thumb != "staging/sess/1000_cat.jpg.thumb" {
		t.Fatalf("thumb key = %q", thumb)
	}
	if !IsThumb(thumb) {
		t.Error("thumb key not recognized as thumb")
	}
	if IsThumb(key) {
		t.Error("full key recognized as thumb")
	}
	if got := StagedFilename(thumb); got != "cat.jpg" {
		t.Errorf("thumb filename = %q, want cat.jpg", got)
	}
}

func TestPermanentKey(t *testing.T) {
	if got := PermanentKey(42, "cat.jpg"); got != "photos/42/cat.jpg" {
		t.Errorf("permanent key = %q", got)
	}
}
