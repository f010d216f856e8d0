package dagsrulle

import (
	"context"
	"fmt"

	"k8s.io/klog/v2"
)

// Wrapup runs the end-to-end daily pipeline: locate media, extract
// metadata, caption, synthesize the narrative, build the storyboard, and
// render. One Wrapup serves many days; clients are injected at construction.
type Wrapup struct {
	Config *Config
	Vision Vision
	Text   TextGen
}

// Run builds the wrap-up video for one day key and returns its path. An
// empty return path with a nil error means no media was found for the day.
// Errors name the stage that failed, so the operator knows whether a re-run
// is cache-assisted.
func (w *Wrapup) Run(ctx context.Context, day string) (string, error) {
	dayDir := w.Config.DayDir(day)
	klog.Infof("loading media from %s", dayDir)

	media, err := Load(dayDir)
	if err != nil {
		return "", fmt.Errorf("load media: %w", err)
	}
	if len(media) == 0 {
		klog.Infof("no media found for %s", day)
		return "", nil
	}
	klog.Infof("found %d items for %s", len(media), day)

	cache := LoadCaptionCache(w.Config.CachePath)
	cp := &Captioner{Vision: w.Vision, Cache: cache}
	captions := cp.CaptionAll(ctx, media)
	if err := cache.Save(); err != nil {
		klog.Warningf("caption cache save: %v", err)
	}

	enriched := make([]string, len(captions))
	for i, c := range captions {
		enriched[i] = contextCaption(c, media[i])
	}

	story, err := BuildStory(ctx, w.Text, captions, enriched, w.Config.Settings)
	if err != nil {
		return "", fmt.Errorf("narrative: %w", err)
	}

	script := BuildTrailerScript(media, story.Title, story.Poem, w.Config.Settings)
	klog.Infof("storyboard: %d shots, %.1fs total", len(script.Shots), script.TotalDuration())

	out := w.Config.OutputPath(day)
	r := &Renderer{Settings: w.Config.Settings}
	if err := r.Render(ctx, script, out); err != nil {
		return "", fmt.Errorf("render: %w", err)
	}

	if err := WritePoster(media, w.Config.PosterPath(day)); err != nil {
		klog.Warningf("poster: %v", err)
	}

	klog.Infof("wrap-up done -> %s", out)
	return out, nil
}
