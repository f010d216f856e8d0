// Package manage provides HTTP handlers for managing daily wrap-ups.
package manage

import (
	"encoding/json"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/tstromberg/dagsrulle/pkg/dagsrulle"
	"k8s.io/klog/v2"
)

// Server triggers and manages wrap-up generation. Wrap-up runs are
// serialized: the cache file and output path have no concurrent-writer
// protocol, so one run at a time is the contract.
type Server struct {
	w  *dagsrulle.Wrapup
	mu sync.Mutex
}

// New creates a new server.
func New(w *dagsrulle.Wrapup) *Server {
	return &Server{w: w}
}

// Register attaches the management handlers to a mux.
func (s *Server) Register(mux *http.ServeMux) {
	mux.HandleFunc("/wrapup", s.WrapupHandler())
	mux.HandleFunc("/wrapup/delete", s.DeleteHandler())
	mux.HandleFunc("/stats", s.StatsHandler())
}

// WrapupHandler generates the wrap-up for a day (default today). With
// force=true an existing video is regenerated; captioning is cache-assisted
// either way.
func (s *Server) WrapupHandler() http.HandlerFunc {
	return func(rw http.ResponseWriter, req *http.Request) {
		day := dayParam(req)
		force := req.URL.Query().Get("force") == "true"

		out := s.w.Config.OutputPath(day)
		if !force {
			if _, err := os.Stat(out); err == nil {
				klog.Infof("wrap-up for %s exists, skipping (force=false)", day)
				writeJSON(rw, map[string]string{"status": "ok", "video": out})
				return
			}
		}

		s.mu.Lock()
		defer s.mu.Unlock()

		path, err := s.w.Run(req.Context(), day)
		if err != nil {
			klog.Errorf("wrap-up for %s: %v", day, err)
			rw.WriteHeader(http.StatusInternalServerError)
			writeJSON(rw, map[string]string{"status": "error", "error": err.Error()})
			return
		}
		if path == "" {
			writeJSON(rw, map[string]string{"status": "no_media"})
			return
		}

		writeJSON(rw, map[string]string{"status": "ok", "video": path})
	}
}

// DeleteHandler removes a day's rendered artifacts.
func (s *Server) DeleteHandler() http.HandlerFunc {
	return func(rw http.ResponseWriter, req *http.Request) {
		day := dayParam(req)

		s.mu.Lock()
		defer s.mu.Unlock()

		if err := s.w.Config.RemoveOutputs(day); err != nil {
			rw.WriteHeader(http.StatusInternalServerError)
			writeJSON(rw, map[string]string{"status": "error", "error": err.Error()})
			return
		}
		writeJSON(rw, map[string]string{"status": "deleted"})
	}
}

// StatsHandler counts a day's photos and videos.
func (s *Server) StatsHandler() http.HandlerFunc {
	return func(rw http.ResponseWriter, req *http.Request) {
		day := dayParam(req)

		photos, videos := 0, 0
		entries, err := os.ReadDir(s.w.Config.DayDir(day))
		if err != nil && !os.IsNotExist(err) {
			klog.Warningf("stats for %s: %v", day, err)
		}
		for _, e := range entries {
			if e.IsDir() {
				continue
			}
			switch strings.ToLower(filepath.Ext(e.Name())) {
			case ".jpg", ".jpeg", ".png":
				photos++
			case ".mp4", ".mov", ".mkv":
				videos++
			}
		}

		writeJSON(rw, map[string]any{"date": day, "photos": photos, "videos": videos})
	}
}

func dayParam(req *http.Request) string {
	if day := req.URL.Query().Get("day"); day != "" {
		return day
	}
	return time.Now().Format("2006-01-02")
}

func writeJSON(rw http.ResponseWriter, v any) {
	rw.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(rw).Encode(v); err != nil {
		klog.Errorf("encode response: %v", err)
	}
}
