package dagsrulle

import (
	"fmt"

	"github.com/anthonynsimon/bild/imgio"
	"github.com/anthonynsimon/bild/transform"
	"k8s.io/klog/v2"
)

var posterHeight = 640

// WritePoster saves a preview JPEG for the day next to the video: the first
// image item, scaled down preserving aspect ratio. A day with no images has
// no poster.
func WritePoster(media []*MediaItem, path string) error {
	var src string
	for _, m := range media {
		if m.Kind == KindImage {
			src = m.Path
			break
		}
	}
	if src == "" {
		klog.V(1).Infof("no images, skipping poster")
		return nil
	}

	img, err := imgio.Open(src)
	if err != nil {
		return fmt.Errorf("open %s: %w", src, err)
	}

	if img.Bounds().Dy() == 0 {
		return fmt.Errorf("no Y for %s", src)
	}

	scale := float64(img.Bounds().Dy()) / float64(posterHeight)
	x := int(float64(img.Bounds().Dx()) / scale)

	rimg := transform.Resize(img, x, posterHeight, transform.Lanczos)
	if err := imgio.Save(path, rimg, imgio.JPEGEncoder(85)); err != nil {
		return fmt.Errorf("save poster: %w", err)
	}

	klog.Infof("wrote poster %s", path)
	return nil
}
