package uploads

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// StagingPrefix is the object-store namespace for not-yet-finalized uploads.
// Everything under it is subject to age-based cleanup.
const StagingPrefix = "staging/"

// ThumbSuffix marks the thumbnail variant of an image key.
const ThumbSuffix = ".thumb"

// StagedKey builds the temporary key for an upload:
// staging/<session-id>/<unix-millis>_<filename>. The millisecond timestamp is
// what the cleanup job reads back to age the object.
func StagedKey(sessionID, filename string, now time.Time) string {
	return fmt.Sprintf("%s%s/%d_%s", StagingPrefix, sessionID, now.UnixMilli(), filename)
}

// ThumbKey returns the thumbnail variant key for a full-size key.
func ThumbKey(key string) string {
	return key + ThumbSuffix
}

// IsThumb reports whether key names a thumbnail variant.
func IsThumb(key string) bool {
	return strings.HasSuffix(key, ThumbSuffix)
}

// StagedTime extracts the upload timestamp embedded in a staged key. The
// second return is false when the key does not carry a parseable timestamp;
// the cleanup job treats such keys as expired.
func StagedTime(key string) (time.Time, bool) {
	base := key[strings.LastIndex(key, "/")+1:]
	millis, rest, found := strings.Cut(base, "_")
	if !found || rest == "" {
		return time.Time{}, false
	}
	ms, err := strconv.ParseInt(millis, 10, 64)
	if err != nil || ms <= 0 {
		return time.Time{}, false
	}
	return time.UnixMilli(ms), true
}

// StagedFilename recovers the original filename from a staged key.
func StagedFilename(key string) string {
	base := key[strings.LastIndex(key, "/")+1:]
	base = strings.TrimSuffix(base, ThumbSuffix)
	if _, rest, found := strings.Cut(base, "_"); found && rest != "" {
		return rest
	}
	return base
}

// PermanentKey is where a finalized photo lives: photos/<sighting-id>/<filename>.
func PermanentKey(sightingID uint, filename string) string {
	return fmt.Sprintf("photos/%d/%s", sightingID, filename)
}
