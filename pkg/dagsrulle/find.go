package dagsrulle

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/barasher/go-exiftool"
	"github.com/karrick/godirwalk"
	"k8s.io/klog/v2"
)

var exifDate = "2006:01:02 15:04:05"

// locateMedia walks root and returns supported media files in a stable
// (lexical) order. Non-media files are skipped silently; an empty result is
// valid and means "no media this day".
func locateMedia(root string) ([]string, error) {
	if _, err := os.Stat(root); os.IsNotExist(err) {
		return nil, nil
	}

	found := []string{}
	err := godirwalk.Walk(root, &godirwalk.Options{
		Callback: func(path string, de *godirwalk.Dirent) error {
			if filepath.Base(path)[0] == '.' {
				return godirwalk.SkipThis
			}

			if de.IsDir() {
				return nil
			}

			if _, ok := kindForPath(path); ok {
				klog.V(1).Infof("found %s", path)
				found = append(found, path)
			}

			return nil
		},
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", root, err)
	}

	sort.Strings(found)
	return found, nil
}

// Load locates and extracts metadata for all media under root, sorted by
// capture time ascending (ties keep enumeration order).
func Load(root string) ([]*MediaItem, error) {
	paths, err := locateMedia(root)
	if err != nil {
		return nil, err
	}
	return extract(paths)
}

// extract builds fully-populated MediaItems for the given paths. Image
// metadata failures degrade to filesystem defaults; a video whose duration
// cannot be read is an error, since the storyboard's trimming math needs it.
func extract(paths []string) ([]*MediaItem, error) {
	if len(paths) == 0 {
		return nil, nil
	}

	et, err := exiftool.NewExiftool()
	if err != nil {
		return nil, fmt.Errorf("exiftool: %w", err)
	}
	defer et.Close()

	items := []*MediaItem{}
	for _, path := range paths {
		kind, ok := kindForPath(path)
		if !ok {
			continue
		}

		st, err := os.Stat(path)
		if err != nil {
			klog.Errorf("stat %s: %v -- skipping", path, err)
			continue
		}

		i := &MediaItem{Path: path, Kind: kind, ModTime: st.ModTime(), Taken: st.ModTime()}

		switch kind {
		case KindImage:
			readImageMeta(i, et)
		case KindVideo:
			d, err := videoDuration(path)
			if err != nil {
				return nil, fmt.Errorf("video duration for %s: %w", path, err)
			}
			i.Duration = d
		}

		items = append(items, i)
	}

	sortMedia(items)
	return items, nil
}

// readImageMeta fills capture time and location from embedded metadata.
// Everything here is best-effort: on failure the item keeps its filesystem
// defaults and location stays empty.
func readImageMeta(i *MediaItem, et *exiftool.Exiftool) {
	fis := et.ExtractMetadata(i.Path)
	if len(fis) == 0 {
		return
	}
	fi := fis[0]
	if fi.Err != nil {
		klog.Warningf("extract fail for %q: %v", i.Path, fi.Err)
		return
	}

	for k, v := range fi.Fields {
		klog.V(2).Infof("%q=%v", k, v)
	}

	applyImageMeta(i, fi)
}

// applyImageMeta copies capture time and location out of extracted fields.
// DateTimeOriginal wins; ModifyDate is the key exiftool reports for images
// that only carry the plain EXIF DateTime tag.
func applyImageMeta(i *MediaItem, fi exiftool.FileMetadata) {
	ds, err := fi.GetString("DateTimeOriginal")
	if err != nil {
		ds, err = fi.GetString("ModifyDate")
	}
	if err != nil {
		klog.V(1).Infof("no capture time for %s, using mtime: %v", i.Path, err)
	} else if taken, perr := time.Parse(exifDate, ds); perr != nil {
		klog.Warningf("parse time %q for %s: %v", ds, i.Path, perr)
	} else {
		i.Taken = taken
	}

	i.Location = gpsLocation(fi)
}
