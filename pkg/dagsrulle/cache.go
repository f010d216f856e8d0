package dagsrulle

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"k8s.io/klog/v2"
)

// CaptionCache is a persistent map from canonical absolute paths to captions.
// It guarantees at most one external captioning call per unique file across
// runs. Failed captioning attempts are never stored.
type CaptionCache struct {
	path    string
	entries map[string]string
	dirty   bool
}

// LoadCaptionCache reads the cache file at path. A missing, unreadable, or
// corrupt file degrades to an empty cache.
func LoadCaptionCache(path string) *CaptionCache {
	c := &CaptionCache{path: path, entries: map[string]string{}}

	bs, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			klog.Warningf("caption cache unreadable, starting empty: %v", err)
		}
		return c
	}

	if err := json.Unmarshal(bs, &c.entries); err != nil {
		klog.Warningf("caption cache corrupt, starting empty: %v", err)
		c.entries = map[string]string{}
	}

	return c
}

// Get returns the cached caption for a key.
func (c *CaptionCache) Get(key string) (string, bool) {
	v, ok := c.entries[key]
	return v, ok
}

// Put stores a caption and marks the cache dirty.
func (c *CaptionCache) Put(key, caption string) {
	c.entries[key] = caption
	c.dirty = true
}

// Len returns the number of cached entries.
func (c *CaptionCache) Len() int {
	return len(c.entries)
}

// Save persists the cache, but only if entries were added this run.
func (c *CaptionCache) Save() error {
	if !c.dirty {
		return nil
	}

	bs, err := json.MarshalIndent(c.entries, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal cache: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(c.path), 0o755); err != nil {
		return fmt.Errorf("mkdir: %w", err)
	}

	if err := os.WriteFile(c.path, bs, 0o644); err != nil {
		return fmt.Errorf("write cache: %w", err)
	}

	klog.Infof("saved %d caption cache entries to %s", len(c.entries), c.path)
	c.dirty = false
	return nil
}

// cacheKey canonicalizes a media path into a cache key.
func cacheKey(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		return filepath.Clean(path)
	}
	return abs
}
