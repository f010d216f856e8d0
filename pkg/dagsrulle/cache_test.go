package dagsrulle

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadCaptionCacheMissing(t *testing.T) {
	c := LoadCaptionCache(filepath.Join(t.TempDir(), "nope.json"))
	assert.Equal(t, 0, c.Len())
}

func TestLoadCaptionCacheCorrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	c := LoadCaptionCache(path)
	assert.Equal(t, 0, c.Len())
}

func TestCaptionCacheRoundtrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.json")

	c := LoadCaptionCache(path)
	c.Put("/photos/a.jpg", "a warm mug of coffee")
	require.NoError(t, c.Save())

	c2 := LoadCaptionCache(path)
	got, ok := c2.Get("/photos/a.jpg")
	require.True(t, ok)
	assert.Equal(t, "a warm mug of coffee", got)
}

func TestCaptionCacheSaveOnlyWhenDirty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.json")

	c := LoadCaptionCache(path)
	require.NoError(t, c.Save())
	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err), "clean cache must not be written")

	c.Put("/photos/a.jpg", "caption")
	require.NoError(t, c.Save())
	_, err = os.Stat(path)
	require.NoError(t, err)

	// a second Save without new entries leaves the file untouched
	st1, err := os.Stat(path)
	require.NoError(t, err)
	require.NoError(t, c.Save())
	st2, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, st1.ModTime(), st2.ModTime())
}

func TestCacheKeyCanonical(t *testing.T) {
	wd, err := os.Getwd()
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(wd, "a.jpg"), cacheKey("./x/../a.jpg"))
	assert.Equal(t, "/photos/a.jpg", cacheKey("/photos//a.jpg"))
}
