package dagsrulle

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/otiai10/copy"
	"k8s.io/klog/v2"
)

// Renderer turns a trailer script into one encoded video file. Rendering is
// allowed to be fatal for the run; there is no meaningful partial video.
type Renderer struct {
	Settings Settings
}

// Render builds every shot as an intermediate clip, concatenates them with
// crossfades, and publishes the result to outputPath. All intermediates live
// in a per-run work directory; outputPath is only written on full success.
func (r *Renderer) Render(ctx context.Context, script *TrailerScript, outputPath string) error {
	if len(script.Shots) == 0 {
		return fmt.Errorf("empty script")
	}

	w, h := evenCanvas(r.Settings.CanvasWidth, r.Settings.CanvasHeight)
	if w != r.Settings.CanvasWidth || h != r.Settings.CanvasHeight {
		klog.Infof("adjusting canvas from %dx%d to %dx%d for encoder compatibility",
			r.Settings.CanvasWidth, r.Settings.CanvasHeight, w, h)
	}

	workDir := filepath.Join(os.TempDir(), "dagsrulle-"+uuid.NewString()[:8])
	if err := os.MkdirAll(workDir, 0o755); err != nil {
		return fmt.Errorf("mkdir workdir: %w", err)
	}
	defer os.RemoveAll(workDir)

	clips := make([]string, 0, len(script.Shots))
	durations := make([]float64, 0, len(script.Shots))
	for n, shot := range script.Shots {
		clip, err := r.buildClip(ctx, shot, n, w, h, workDir)
		if err != nil {
			return fmt.Errorf("shot %d (%s): %w", n, shot.Kind, err)
		}
		clips = append(clips, clip)
		durations = append(durations, shot.Duration)
	}

	final := filepath.Join(workDir, "final.mp4")
	if err := r.concatClips(ctx, clips, durations, final); err != nil {
		return fmt.Errorf("concat: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return fmt.Errorf("mkdir: %w", err)
	}
	if err := copy.Copy(final, outputPath); err != nil {
		return fmt.Errorf("publish: %w", err)
	}

	klog.Infof("rendered %.1fs of video to %s", script.TotalDuration(), outputPath)
	return nil
}

// buildClip normalizes one shot to a canvas-sized silent clip.
func (r *Renderer) buildClip(ctx context.Context, shot Shot, n int, w, h int, workDir string) (string, error) {
	out := filepath.Join(workDir, fmt.Sprintf("clip_%03d.mp4", n))

	var args []string
	switch shot.Kind {
	case ShotTitleCard, ShotPoemCard:
		card := filepath.Join(workDir, fmt.Sprintf("card_%03d.png", n))
		fontSize, grad := 48.0, poemGradient
		if shot.Kind == ShotTitleCard {
			fontSize, grad = 72.0, titleGradient
		}
		if err := writeCard(card, shot.Text, w, h, fontSize, grad); err != nil {
			return "", err
		}
		args = []string{"-loop", "1", "-i", card, "-t", secs(shot.Duration), "-vf", "setsar=1"}

	case ShotImage:
		args = []string{"-loop", "1", "-i", shot.Path, "-t", secs(shot.Duration), "-vf", imageFilter(w, h)}

	case ShotVideoClip:
		args = []string{"-i", shot.Path, "-t", secs(shot.Duration), "-vf", videoFilter(w, h)}

	default:
		return "", fmt.Errorf("unknown shot kind %q", shot.Kind)
	}

	full := append([]string{"-y"}, args...)
	full = append(full,
		"-r", fmt.Sprintf("%d", r.Settings.FPS),
		"-c:v", "libx264",
		"-preset", "superfast",
		"-pix_fmt", "yuv420p",
		"-an",
		out,
	)

	if err := runFFmpeg(ctx, full); err != nil {
		return "", err
	}
	return out, nil
}

// imageFilter scales to fill canvas width preserving aspect ratio, crops any
// vertical overflow, and pads the remaining height with black.
func imageFilter(w, h int) string {
	return fmt.Sprintf("scale=%d:-2,crop=%d:'min(ih,%d)',pad=%d:%d:(ow-iw)/2:(oh-ih)/2,setsar=1", w, w, h, w, h)
}

// videoFilter scales to fill canvas height preserving aspect ratio, crops
// any horizontal overflow, and pads the remaining width with black.
func videoFilter(w, h int) string {
	return fmt.Sprintf("scale=-2:%d,crop='min(iw,%d)':%d,pad=%d:%d:(ow-iw)/2:(oh-ih)/2,setsar=1", h, w, h, w, h)
}

// concatClips joins normalized clips into one timeline, crossfading each
// clip in against the previous one, and encodes with a broadly compatible
// low-latency preset.
func (r *Renderer) concatClips(ctx context.Context, clips []string, durations []float64, out string) error {
	args := []string{"-y"}
	for _, c := range clips {
		args = append(args, "-i", c)
	}

	encode := []string{
		"-c:v", "libx264",
		"-preset", "superfast",
		"-profile:v", "baseline",
		"-level", "3.0",
		"-pix_fmt", "yuv420p",
		"-r", fmt.Sprintf("%d", r.Settings.FPS),
		"-movflags", "+faststart",
		"-an",
		out,
	}

	if len(clips) == 1 {
		args = append(args, encode...)
		return runFFmpeg(ctx, args)
	}

	fades, offsets := xfadeJoins(durations, r.Settings.CrossfadeSec)

	var filters []string
	prev := "[0:v]"
	for i := 1; i < len(clips); i++ {
		label := fmt.Sprintf("[v%d]", i)
		filters = append(filters, fmt.Sprintf(
			"%s[%d:v]xfade=transition=fade:duration=%s:offset=%s%s",
			prev, i, secs(fades[i-1]), secs(offsets[i-1]), label))
		prev = label
	}

	args = append(args, "-filter_complex", strings.Join(filters, ";"), "-map", prev)
	args = append(args, encode...)
	return runFFmpeg(ctx, args)
}

// xfadeJoins computes each crossfade's length and start offset. A join's
// fade never exceeds either neighboring clip, so a clip shorter than the
// configured crossfade still joins cleanly instead of yielding a negative
// offset. Offsets are the cumulative timeline length so far, minus the
// overlap consumed by each join.
func xfadeJoins(durations []float64, fade float64) (fades, offsets []float64) {
	elapsed := 0.0
	for i := 0; i < len(durations)-1; i++ {
		f := min(fade, durations[i], durations[i+1])
		elapsed += durations[i] - f
		fades = append(fades, f)
		offsets = append(offsets, elapsed)
	}
	return fades, offsets
}

// evenCanvas shrinks an odd dimension by one pixel; many encoders require
// even width and height.
func evenCanvas(w, h int) (int, int) {
	return w - w%2, h - h%2
}

// videoDuration reads a container's duration in seconds via ffprobe.
// Malformed files surface as errors; a missing duration breaks the
// storyboard's trimming math downstream.
func videoDuration(path string) (float64, error) {
	out, err := exec.Command("ffprobe",
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1",
		path,
	).Output()
	if err != nil {
		return 0, fmt.Errorf("ffprobe %s: %w", path, err)
	}

	var dur float64
	if _, err := fmt.Sscanf(strings.TrimSpace(string(out)), "%f", &dur); err != nil {
		return 0, fmt.Errorf("parse duration %q: %w", strings.TrimSpace(string(out)), err)
	}
	return dur, nil
}

func secs(d float64) string {
	return fmt.Sprintf("%.3f", d)
}

func runFFmpeg(ctx context.Context, args []string) error {
	klog.V(1).Infof("ffmpeg %s", strings.Join(args, " "))

	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, "ffmpeg", args...)
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("ffmpeg: %w: %s", err, lastLine(stderr.String()))
	}
	return nil
}

func lastLine(s string) string {
	lines := strings.Split(strings.TrimSpace(s), "\n")
	return lines[len(lines)-1]
}
