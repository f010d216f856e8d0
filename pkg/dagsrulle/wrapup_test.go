package dagsrulle

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunEmptyDay(t *testing.T) {
	root := t.TempDir()
	c := &Config{
		MediaRoot: filepath.Join(root, "day_media"),
		OutDir:    filepath.Join(root, "out"),
		CachePath: filepath.Join(root, "cache.json"),
		Settings:  DefaultSettings(),
	}
	require.NoError(t, os.MkdirAll(c.DayDir("2026-08-30"), 0o755))

	// clients stay nil: an empty day must terminate before any external call
	w := &Wrapup{Config: c}
	out, err := w.Run(context.Background(), "2026-08-30")
	require.NoError(t, err)
	assert.Empty(t, out, "empty day signals no media, not an error")

	_, err = os.Stat(c.OutputPath("2026-08-30"))
	assert.True(t, os.IsNotExist(err), "no output file may be created")
}

func TestRunMissingDayDir(t *testing.T) {
	root := t.TempDir()
	c := &Config{
		MediaRoot: filepath.Join(root, "day_media"),
		OutDir:    filepath.Join(root, "out"),
		CachePath: filepath.Join(root, "cache.json"),
		Settings:  DefaultSettings(),
	}

	w := &Wrapup{Config: c}
	out, err := w.Run(context.Background(), "2026-01-01")
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestLocateMediaFiltersAndOrders(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b.jpg", "a.png", "c.mp4", "notes.txt", ".hidden.jpg"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644))
	}
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "nested"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "nested", "d.mov"), []byte("x"), 0o644))

	got, err := locateMedia(dir)
	require.NoError(t, err)

	want := []string{
		filepath.Join(dir, "a.png"),
		filepath.Join(dir, "b.jpg"),
		filepath.Join(dir, "c.mp4"),
		filepath.Join(dir, "nested", "d.mov"),
	}
	assert.Equal(t, want, got, "stable order, media-only, dotfiles skipped")

	// re-running on unchanged input yields the same order
	again, err := locateMedia(dir)
	require.NoError(t, err)
	assert.Equal(t, got, again)
}

func TestConfigPaths(t *testing.T) {
	c := &Config{MediaRoot: "/m", OutDir: "/o"}

	assert.Equal(t, filepath.Join("/m", "2026-08-30"), c.DayDir("2026-08-30"))
	assert.Equal(t, filepath.Join("/o", "wrapup_2026-08-30.mp4"), c.OutputPath("2026-08-30"))
	assert.Equal(t, filepath.Join("/o", "wrapup_2026-08-30.jpg"), c.PosterPath("2026-08-30"))

	c.OutPrefix = "timecapsule"
	assert.Equal(t, filepath.Join("/o", "timecapsule_2026-08-30.mp4"), c.OutputPath("2026-08-30"))
}

func TestRemoveOutputs(t *testing.T) {
	root := t.TempDir()
	c := &Config{OutDir: root}

	require.NoError(t, os.WriteFile(c.OutputPath("2026-08-30"), []byte("v"), 0o644))
	require.NoError(t, os.WriteFile(c.PosterPath("2026-08-30"), []byte("p"), 0o644))

	require.NoError(t, c.RemoveOutputs("2026-08-30"))
	_, err := os.Stat(c.OutputPath("2026-08-30"))
	assert.True(t, os.IsNotExist(err))

	// deleting a day with no artifacts is fine
	require.NoError(t, c.RemoveOutputs("2026-08-31"))
}
