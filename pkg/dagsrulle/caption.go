package dagsrulle

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"k8s.io/klog/v2"
)

var imagePrompt = "Describe this photo in one short, vivid sentence. " +
	"Focus on the key subject and mood. No camera jargon."

// Captioner attaches one short caption to each media item, delegating image
// descriptions to an external vision service and writing through a
// persistent cache.
type Captioner struct {
	Vision Vision
	Cache  *CaptionCache
}

// CaptionAll returns one caption per item, in item order. Cached captions
// are reused without an external call; a failed vision call degrades to an
// empty caption and is not cached.
func (cp *Captioner) CaptionAll(ctx context.Context, items []*MediaItem) []string {
	captions := make([]string, 0, len(items))

	for _, i := range items {
		key := cacheKey(i.Path)

		if c, ok := cp.Cache.Get(key); ok {
			klog.V(1).Infof("cached caption for %s", i.Path)
			captions = append(captions, c)
			continue
		}

		caption, cacheable := cp.caption(ctx, i)
		if cacheable {
			cp.Cache.Put(key, caption)
		}
		captions = append(captions, caption)
	}

	return captions
}

// caption produces a fresh caption. The second return reports whether the
// result may be cached (failed vision attempts may not).
func (cp *Captioner) caption(ctx context.Context, i *MediaItem) (string, bool) {
	if i.Kind != KindImage {
		return fmt.Sprintf("Short video clip from %s", filepath.Base(i.Path)), true
	}

	bs, err := os.ReadFile(i.Path)
	if err != nil {
		klog.Warningf("read %s: %v -- using empty caption", i.Path, err)
		return "", false
	}

	klog.Infof("captioning %s ...", i.Path)
	caption, err := cp.Vision.DescribeImage(ctx, bs, imagePrompt)
	if err != nil {
		klog.Warningf("caption %s: %v -- using empty caption", i.Path, err)
		return "", false
	}

	return caption, true
}

// contextCaption enriches a caption with time-of-day and location, for the
// poem prompt only: "07:34 in the morning at 53.3400, -6.2600: ..."
func contextCaption(caption string, i *MediaItem) string {
	prefix := fmt.Sprintf("%s in the %s", i.Taken.Format("15:04"), timeOfDay(i.Taken))
	if i.Location != "" {
		prefix += " at " + i.Location
	}
	if caption == "" {
		return prefix
	}
	return prefix + ": " + caption
}

func timeOfDay(t time.Time) string {
	switch h := t.Hour(); {
	case h >= 5 && h < 12:
		return "morning"
	case h >= 12 && h < 17:
		return "afternoon"
	case h >= 17 && h < 21:
		return "evening"
	default:
		return "night"
	}
}
