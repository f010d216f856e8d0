package dagsrulle

import (
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// Kind classifies a media file.
type Kind string

const (
	KindImage Kind = "image"
	KindVideo Kind = "video"
)

var (
	imageExts = map[string]bool{".jpg": true, ".jpeg": true, ".png": true}
	videoExts = map[string]bool{".mp4": true, ".mov": true, ".mkv": true}
)

// MediaItem represents one captured asset with its metadata.
type MediaItem struct {
	Path    string
	Kind    Kind
	ModTime time.Time

	// Taken is the capture time: embedded metadata when available,
	// file modification time otherwise. Never zero.
	Taken time.Time

	// Duration in seconds; videos only.
	Duration float64

	// Location is a "lat, lon" decimal string; images only, best-effort.
	Location string
}

// kindForPath classifies a path by extension.
func kindForPath(path string) (Kind, bool) {
	ext := strings.ToLower(filepath.Ext(path))
	switch {
	case imageExts[ext]:
		return KindImage, true
	case videoExts[ext]:
		return KindVideo, true
	}
	return "", false
}

// sortMedia orders items by capture time ascending. The sort is stable so
// that ties keep the locator's enumeration order across runs.
func sortMedia(items []*MediaItem) {
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Taken.Before(items[j].Taken)
	})
}
