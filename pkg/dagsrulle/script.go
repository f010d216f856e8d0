package dagsrulle

import "strings"

// ShotKind identifies one segment type in the rendered output.
type ShotKind string

const (
	ShotTitleCard ShotKind = "title_card"
	ShotImage     ShotKind = "image"
	ShotVideoClip ShotKind = "video_clip"
	ShotPoemCard  ShotKind = "poem_card"
)

// Shot is one timed segment of the output. Card kinds carry Text and no
// Path; media kinds carry Path and no Text. Immutable once built.
type Shot struct {
	Kind     ShotKind
	Path     string
	Duration float64
	Text     string
}

// TrailerScript is the ordered shot list for one render.
type TrailerScript struct {
	Shots []Shot
}

// TotalDuration is the sum of all shot durations, in seconds.
func (t *TrailerScript) TotalDuration() float64 {
	var d float64
	for _, s := range t.Shots {
		d += s.Duration
	}
	return d
}

// BuildTrailerScript deterministically arranges the day into shots:
//
//  1. title card
//  2. one shot per image, chronological
//  3. one trimmed clip per video, chronological
//  4. poem card
//
// Shots group by kind rather than interleaving by time, trading strict
// chronology for visual pacing.
func BuildTrailerScript(media []*MediaItem, title string, poem string, s Settings) *TrailerScript {
	shots := []Shot{{Kind: ShotTitleCard, Duration: s.TitleSec, Text: title}}

	for _, m := range media {
		if m.Kind == KindImage {
			shots = append(shots, Shot{Kind: ShotImage, Path: m.Path, Duration: s.ImageSec})
		}
	}

	for _, m := range media {
		// a zero-duration clip would produce a degenerate render segment
		if m.Kind == KindVideo && m.Duration > 0 {
			shots = append(shots, Shot{
				Kind:     ShotVideoClip,
				Path:     m.Path,
				Duration: min(s.MaxVideoSec, m.Duration),
			})
		}
	}

	poem = strings.TrimSpace(poem)
	lines := len(strings.Split(poem, "\n"))
	shots = append(shots, Shot{
		Kind:     ShotPoemCard,
		Duration: max(s.MinPoemSec, s.PoemLineSec*float64(lines)),
		Text:     poem,
	})

	return &TrailerScript{Shots: shots}
}
