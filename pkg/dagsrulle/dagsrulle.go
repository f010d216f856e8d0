// Package dagsrulle builds a single vertical highlight video from one day's
// worth of captured photos and videos.
package dagsrulle

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config holds configuration for dagsrulle.
type Config struct {
	// MediaRoot contains one directory per calendar day (YYYY-MM-DD).
	MediaRoot string
	// OutDir receives the rendered wrap-up artifacts.
	OutDir string
	// CachePath is the persistent caption cache file.
	CachePath string
	// OutPrefix names output files: <prefix>_<day>.mp4
	OutPrefix string

	Settings Settings
}

// Settings are render and storyboard tunables, optionally loaded from YAML.
type Settings struct {
	CanvasWidth  int     `yaml:"canvas_width"`
	CanvasHeight int     `yaml:"canvas_height"`
	FPS          int     `yaml:"fps"`
	ImageSec     float64 `yaml:"image_sec"`
	MaxVideoSec  float64 `yaml:"max_video_sec"`
	TitleSec     float64 `yaml:"title_sec"`
	MinPoemSec   float64 `yaml:"min_poem_sec"`
	PoemLineSec  float64 `yaml:"poem_line_sec"`
	CrossfadeSec float64 `yaml:"crossfade_sec"`
	MaxCaptions  int     `yaml:"max_captions"`
	MaxKeywords  int     `yaml:"max_keywords"`
}

// DefaultSettings returns settings suited for short-form vertical video.
func DefaultSettings() Settings {
	return Settings{
		CanvasWidth:  1080,
		CanvasHeight: 1920,
		FPS:          24,
		ImageSec:     1.0,
		MaxVideoSec:  4.0,
		TitleSec:     3.0,
		MinPoemSec:   7.0,
		PoemLineSec:  1.2,
		CrossfadeSec: 0.3,
		MaxCaptions:  60,
		MaxKeywords:  10,
	}
}

// LoadSettings reads a YAML settings file, filling unset fields with defaults.
func LoadSettings(path string) (Settings, error) {
	s := DefaultSettings()
	bs, err := os.ReadFile(path)
	if err != nil {
		return s, fmt.Errorf("read settings: %w", err)
	}
	if err := yaml.Unmarshal(bs, &s); err != nil {
		return s, fmt.Errorf("parse settings: %w", err)
	}
	return s, nil
}

// DayDir returns the media directory for a day key.
func (c *Config) DayDir(day string) string {
	return filepath.Join(c.MediaRoot, day)
}

// OutputPath returns the deterministic video path for a day key.
func (c *Config) OutputPath(day string) string {
	return filepath.Join(c.OutDir, fmt.Sprintf("%s_%s.mp4", c.prefix(), day))
}

// PosterPath returns the poster image path for a day key.
func (c *Config) PosterPath(day string) string {
	return filepath.Join(c.OutDir, fmt.Sprintf("%s_%s.jpg", c.prefix(), day))
}

func (c *Config) prefix() string {
	if c.OutPrefix == "" {
		return "wrapup"
	}
	return c.OutPrefix
}

// RemoveOutputs deletes the rendered artifacts for a day key, if present.
func (c *Config) RemoveOutputs(day string) error {
	for _, p := range []string{c.OutputPath(day), c.PosterPath(day)} {
		if err := os.Remove(p); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("remove %s: %w", p, err)
		}
	}
	return nil
}
