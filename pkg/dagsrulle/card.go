package dagsrulle

import (
	"fmt"
	"image"
	"image/color"
	"strings"

	"github.com/anthonynsimon/bild/imgio"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
	"k8s.io/klog/v2"
)

const (
	cardMargin  = 80
	cardLineGap = 10
)

// gradient is a vertical two-stop color ramp for card backgrounds.
type gradient struct {
	top    color.RGBA
	bottom color.RGBA
}

var (
	titleGradient = gradient{color.RGBA{10, 20, 80, 255}, color.RGBA{120, 0, 140, 255}}
	poemGradient  = gradient{color.RGBA{160, 80, 0, 255}, color.RGBA{40, 0, 70, 255}}
)

// cardFrame synthesizes one canvas-sized frame: gradient background with the
// text word-wrapped and vertically centered.
func cardFrame(text string, w, h int, fontSize float64, grad gradient) (*image.RGBA, error) {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	fillGradient(img, grad)

	face, err := cardFace(fontSize)
	if err != nil {
		return nil, fmt.Errorf("font: %w", err)
	}
	defer face.Close()

	lines := wrapText(text, face, w-2*cardMargin)
	if len(lines) == 0 {
		return img, nil
	}

	m := face.Metrics()
	lineHeight := (m.Ascent + m.Descent).Ceil()
	total := len(lines)*lineHeight + (len(lines)-1)*cardLineGap
	y := (h - total) / 2

	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(color.White),
		Face: face,
	}
	for _, line := range lines {
		width := d.MeasureString(line).Ceil()
		d.Dot = fixed.P((w-width)/2, y+m.Ascent.Ceil())
		d.DrawString(line)
		y += lineHeight + cardLineGap
	}

	return img, nil
}

// wrapText greedily packs words into lines no wider than maxWidth as
// measured by the face. Newlines in the input are treated as spaces.
func wrapText(text string, face font.Face, maxWidth int) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}

	d := &font.Drawer{Face: face}
	lines := []string{}
	current := words[0]

	for _, word := range words[1:] {
		test := current + " " + word
		if d.MeasureString(test).Ceil() > maxWidth {
			lines = append(lines, current)
			current = word
			continue
		}
		current = test
	}

	return append(lines, current)
}

func cardFace(size float64) (font.Face, error) {
	f, err := opentype.Parse(goregular.TTF)
	if err != nil {
		return nil, err
	}
	return opentype.NewFace(f, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
}

func fillGradient(img *image.RGBA, g gradient) {
	b := img.Bounds()
	h := b.Dy()
	for y := 0; y < h; y++ {
		t := float64(y) / float64(max(h-1, 1))
		c := color.RGBA{
			R: lerp(g.top.R, g.bottom.R, t),
			G: lerp(g.top.G, g.bottom.G, t),
			B: lerp(g.top.B, g.bottom.B, t),
			A: 255,
		}
		for x := 0; x < b.Dx(); x++ {
			img.SetRGBA(x, y, c)
		}
	}
}

func lerp(a, b uint8, t float64) uint8 {
	return uint8(float64(a) + (float64(b)-float64(a))*t)
}

// writeCard renders a card frame and saves it as PNG.
func writeCard(path string, text string, w, h int, fontSize float64, grad gradient) error {
	img, err := cardFrame(text, w, h, fontSize, grad)
	if err != nil {
		return err
	}

	klog.V(1).Infof("writing %dx%d card to %s", w, h, path)
	if err := imgio.Save(path, img, imgio.PNGEncoder()); err != nil {
		return fmt.Errorf("save card: %w", err)
	}
	return nil
}
