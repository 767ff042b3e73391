package aws

import (
	"fmt"
	"path"
	"strings"
	"time"

	"launchpad/pitch-api/util"
)

// Asset categories used for key partitioning
const (
	CategoryVideos = "videos"
	CategoryPhotos = "photos"
)

// BuildKey constructs the storage key for a pitch asset. Keys are
// partitioned by owner and category, and carry a timestamp plus a
// random suffix so repeated uploads of the same file never collide
func BuildKey(userID, category, filename string) string {
	return fmt.Sprintf("pitches/%s/%s/%d_%s_%s",
		userID, category, time.Now().UnixMilli(), util.RandStr(6), sanitizeFilename(filename))
}

func sanitizeFilename(name string) string {
	name = path.Base(strings.ReplaceAll(name, "\\", "/"))
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == '.' || r == '-' || r == '_':
			return r
		default:
			return '_'
		}
	}, name)
}
