package dagsrulle

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildTrailerScriptShape(t *testing.T) {
	base := time.Date(2026, 8, 30, 8, 0, 0, 0, time.UTC)
	media := []*MediaItem{
		{Path: "a.jpg", Kind: KindImage, Taken: base},
		{Path: "clip1.mp4", Kind: KindVideo, Taken: base.Add(time.Hour), Duration: 10},
		{Path: "b.jpg", Kind: KindImage, Taken: base.Add(2 * time.Hour)},
		{Path: "clip2.mp4", Kind: KindVideo, Taken: base.Add(3 * time.Hour), Duration: 2},
		{Path: "c.jpg", Kind: KindImage, Taken: base.Add(4 * time.Hour)},
	}

	s := DefaultSettings()
	script := BuildTrailerScript(media, "A Day of Moments", "line one\nline two\nline three", s)

	require.Len(t, script.Shots, 7)

	assert.Equal(t, ShotTitleCard, script.Shots[0].Kind)
	assert.Equal(t, 3.0, script.Shots[0].Duration)
	assert.Equal(t, "A Day of Moments", script.Shots[0].Text)

	for i, want := range []string{"a.jpg", "b.jpg", "c.jpg"} {
		shot := script.Shots[1+i]
		assert.Equal(t, ShotImage, shot.Kind)
		assert.Equal(t, want, shot.Path)
		assert.Equal(t, 1.0, shot.Duration)
	}

	assert.Equal(t, ShotVideoClip, script.Shots[4].Kind)
	assert.Equal(t, 4.0, script.Shots[4].Duration, "10s clip trimmed to max segment")
	assert.Equal(t, ShotVideoClip, script.Shots[5].Kind)
	assert.Equal(t, 2.0, script.Shots[5].Duration, "short clip keeps its own duration")

	last := script.Shots[6]
	assert.Equal(t, ShotPoemCard, last.Kind)
	assert.GreaterOrEqual(t, last.Duration, 7.0)

	want := 3.0 + 3*1.0 + 4.0 + 2.0 + last.Duration
	assert.InDelta(t, want, script.TotalDuration(), 0.0001)
}

func TestBuildTrailerScriptSkipsZeroDurationVideos(t *testing.T) {
	media := []*MediaItem{
		{Path: "broken.mp4", Kind: KindVideo, Duration: 0},
		{Path: "negative.mp4", Kind: KindVideo, Duration: -1},
	}

	script := BuildTrailerScript(media, "t", "p", DefaultSettings())

	require.Len(t, script.Shots, 2, "only title and poem cards remain")
	assert.Equal(t, ShotTitleCard, script.Shots[0].Kind)
	assert.Equal(t, ShotPoemCard, script.Shots[1].Kind)
}

func TestBuildTrailerScriptPoemDuration(t *testing.T) {
	tests := []struct {
		name string
		poem string
		want float64
	}{
		{"short poem gets readable time", "one line", 7.0},
		{"long poem scales per line", "1\n2\n3\n4\n5\n6\n7\n8", 9.6},
		{"empty poem", "", 7.0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			script := BuildTrailerScript(nil, "t", tc.poem, DefaultSettings())
			last := script.Shots[len(script.Shots)-1]
			assert.InDelta(t, tc.want, last.Duration, 0.0001)
		})
	}
}

func TestBuildTrailerScriptTitleDurationConfigurable(t *testing.T) {
	s := DefaultSettings()
	s.TitleSec = 5.0

	script := BuildTrailerScript(nil, "t", "p", s)
	assert.Equal(t, 5.0, script.Shots[0].Duration)
}
