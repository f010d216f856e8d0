// dagsrulle builds a daily wrap-up video from a folder of captured media.
package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"sync"
	"time"

	_ "image/jpeg"
	_ "image/png"

	"k8s.io/klog/v2"

	"github.com/fsnotify/fsnotify"
	"github.com/joho/godotenv"
	"github.com/tstromberg/dagsrulle/pkg/dagsrulle"
	"github.com/tstromberg/dagsrulle/pkg/manage"
)

var (
	mediaDir   = flag.String("media", "day_media", "root directory holding one folder per day")
	outDir     = flag.String("out", "static", "output directory for rendered wrap-ups")
	cachePath  = flag.String("cache", "caption_cache.json", "caption cache file")
	day        = flag.String("day", "", "day key (YYYY-MM-DD), defaults to today")
	model      = flag.String("model", "gemini-2.5-flash", "Gemini model for captions and the poem")
	configPath = flag.String("config", "", "optional YAML settings file")
	force      = flag.Bool("force", false, "regenerate even if the output video exists")
	listen     = flag.Bool("listen", false, "serve output and management endpoints via HTTP")
	addr       = flag.String("addr", "localhost:12801", "host:port to bind to in listen mode")
	watchFlag  = flag.Bool("watch", false, "watch the day folder and regenerate on changes")
)

func main() {
	klog.InitFlags(nil)
	flag.Parse()

	// local dev convenience; deployments set the environment directly
	_ = godotenv.Load()

	settings := dagsrulle.DefaultSettings()
	if *configPath != "" {
		var err error
		settings, err = dagsrulle.LoadSettings(*configPath)
		if err != nil {
			klog.Exitf("settings: %v", err)
		}
	}

	c := &dagsrulle.Config{
		MediaRoot: *mediaDir,
		OutDir:    *outDir,
		CachePath: *cachePath,
		Settings:  settings,
	}

	ctx := context.Background()
	client, err := dagsrulle.NewGemini(ctx, os.Getenv("GOOGLE_API_KEY"), *model)
	if err != nil {
		klog.Exitf("gemini client: %v", err)
	}

	w := &dagsrulle.Wrapup{Config: c, Vision: client, Text: client}

	dayKey := *day
	if dayKey == "" {
		dayKey = time.Now().Format("2006-01-02")
	}

	if _, err := os.Stat(c.OutputPath(dayKey)); err == nil && !*force {
		klog.Infof("wrap-up for %s already exists, use --force to regenerate", dayKey)
	} else {
		out, err := w.Run(ctx, dayKey)
		if err != nil {
			klog.Exitf("wrap-up failed: %v", err)
		}
		if out == "" {
			klog.Infof("no media for %s, nothing to do", dayKey)
		}
	}

	var wg sync.WaitGroup
	if *watchFlag {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := watch(ctx, w, dayKey); err != nil {
				klog.Errorf("watch failed: %v", err)
			}
		}()
	}

	if *listen {
		wg.Add(1)
		go func() {
			defer wg.Done()
			serve(w, *outDir, *addr)
		}()
	}

	wg.Wait()
}

// serve exposes the output directory and the management endpoints via HTTP.
func serve(w *dagsrulle.Wrapup, path string, addr string) {
	mux := http.NewServeMux()
	manage.New(w).Register(mux)
	mux.Handle("/", http.FileServer(http.Dir(path)))

	klog.Infof("Listening on %s...", addr)
	if err := http.ListenAndServe(addr, mux); err != nil {
		klog.Exitf("listen failed: %v", err)
	}
}

// watch regenerates the day's wrap-up whenever its media folder changes.
func watch(ctx context.Context, w *dagsrulle.Wrapup, dayKey string) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer fw.Close()

	dayDir := w.Config.DayDir(dayKey)
	if err := os.MkdirAll(dayDir, 0o755); err != nil {
		return err
	}
	if err := fw.Add(dayDir); err != nil {
		return err
	}

	klog.Infof("watching %s ...", dayDir)
	for {
		select {
		case event, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename) || event.Has(fsnotify.Remove) {
				klog.Infof("change detected: %s", event)
				if _, err := w.Run(ctx, dayKey); err != nil {
					klog.Errorf("wrap-up failed: %v", err)
				}
			}
		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			klog.Errorf("watch error: %v", err)
		}
	}
}
