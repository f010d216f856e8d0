package manage

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tstromberg/dagsrulle/pkg/dagsrulle"
)

func testServer(t *testing.T) (*Server, *dagsrulle.Config) {
	t.Helper()
	root := t.TempDir()
	c := &dagsrulle.Config{
		MediaRoot: filepath.Join(root, "day_media"),
		OutDir:    filepath.Join(root, "out"),
		CachePath: filepath.Join(root, "cache.json"),
		Settings:  dagsrulle.DefaultSettings(),
	}
	require.NoError(t, os.MkdirAll(c.OutDir, 0o755))
	return New(&dagsrulle.Wrapup{Config: c}), c
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestWrapupHandlerNoMedia(t *testing.T) {
	s, c := testServer(t)
	require.NoError(t, os.MkdirAll(c.DayDir("2026-08-30"), 0o755))

	req := httptest.NewRequest(http.MethodPost, "/wrapup?day=2026-08-30", nil)
	rec := httptest.NewRecorder()
	s.WrapupHandler()(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "no_media", decode(t, rec)["status"])
}

func TestWrapupHandlerSkipsExisting(t *testing.T) {
	s, c := testServer(t)
	out := c.OutputPath("2026-08-30")
	require.NoError(t, os.WriteFile(out, []byte("video"), 0o644))

	req := httptest.NewRequest(http.MethodPost, "/wrapup?day=2026-08-30", nil)
	rec := httptest.NewRecorder()
	s.WrapupHandler()(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, out, body["video"])
}

func TestDeleteHandler(t *testing.T) {
	s, c := testServer(t)
	require.NoError(t, os.WriteFile(c.OutputPath("2026-08-30"), []byte("video"), 0o644))

	req := httptest.NewRequest(http.MethodPost, "/wrapup/delete?day=2026-08-30", nil)
	rec := httptest.NewRecorder()
	s.DeleteHandler()(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "deleted", decode(t, rec)["status"])

	_, err := os.Stat(c.OutputPath("2026-08-30"))
	assert.True(t, os.IsNotExist(err))
}

func TestStatsHandler(t *testing.T) {
	s, c := testServer(t)
	day := c.DayDir("2026-08-30")
	require.NoError(t, os.MkdirAll(day, 0o755))
	for _, name := range []string{"a.jpg", "b.png", "c.mp4", "notes.txt"} {
		require.NoError(t, os.WriteFile(filepath.Join(day, name), []byte("x"), 0o644))
	}

	req := httptest.NewRequest(http.MethodGet, "/stats?day=2026-08-30", nil)
	rec := httptest.NewRecorder()
	s.StatsHandler()(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, "2026-08-30", body["date"])
	assert.Equal(t, float64(2), body["photos"])
	assert.Equal(t, float64(1), body["videos"])
}

func TestStatsHandlerMissingDay(t *testing.T) {
	s, _ := testServer(t)

	req := httptest.NewRequest(http.MethodGet, "/stats?day=2000-01-01", nil)
	rec := httptest.NewRecorder()
	s.StatsHandler()(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, float64(0), body["photos"])
	assert.Equal(t, float64(0), body["videos"])
}
