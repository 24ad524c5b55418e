package ffmpeg

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"github.com/ddrozdov/mkshort/internal/domain/geometry"
	"github.com/ddrozdov/mkshort/internal/ports"
)

type probeOutput struct {
	Streams []probeStream `json:"streams"`
	Format  probeFormat   `json:"format"`
}

type probeStream struct {
	CodecType  string `json:"codec_type"`
	Width      int    `json:"width"`
	Height     int    `json:"height"`
	RFrameRate string `json:"r_frame_rate"`
	Duration   string `json:"duration"`
}

type probeFormat struct {
	Duration string `json:"duration"`
}

// Probe inspects a video file: dimensions and frame rate of the first video
// stream, container duration, and whether any audio stream exists.
func (a *Adapter) Probe(ctx context.Context, path string) (ports.SourceInfo, error) {
	cmd := exec.CommandContext(ctx, a.ffprobe,
		"-v", "error",
		"-print_format", "json",
		"-show_streams",
		"-show_format",
		path,
	)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return ports.SourceInfo{}, fmt.Errorf("ffprobe cancelled: %w", ctx.Err())
		}
		return ports.SourceInfo{}, fmt.Errorf("ffprobe %s: %w\n%s", path, err, stderr.String())
	}

	info, err := parseProbe(stdout.Bytes())
	if err != nil {
		return ports.SourceInfo{}, fmt.Errorf("probe %s: %w", path, err)
	}
	return info, nil
}

func parseProbe(data []byte) (ports.SourceInfo, error) {
	var out probeOutput
	if err := json.Unmarshal(data, &out); err != nil {
		return ports.SourceInfo{}, fmt.Errorf("parse ffprobe output: %w", err)
	}

	var info ports.SourceInfo
	var video *probeStream
	for i := range out.Streams {
		switch out.Streams[i].CodecType {
		case "video":
			if video == nil {
				video = &out.Streams[i]
			}
		case "audio":
			info.HasAudio = true
		}
	}
	if video == nil {
		return ports.SourceInfo{}, fmt.Errorf("no video stream")
	}
	if video.Width <= 0 || video.Height <= 0 {
		return ports.SourceInfo{}, fmt.Errorf("video stream has no dimensions")
	}

	info.Size = geometry.Size{W: video.Width, H: video.Height}
	info.FrameRate = video.RFrameRate
	info.FPS = parseRational(video.RFrameRate)

	// Container duration is the norm; some containers only report it on the
	// stream.
	dur := out.Format.Duration
	if dur == "" {
		dur = video.Duration
	}
	if dur != "" {
		sec, err := strconv.ParseFloat(dur, 64)
		if err != nil {
			return ports.SourceInfo{}, fmt.Errorf("parse duration %q: %w", dur, err)
		}
		info.Duration = time.Duration(sec * float64(time.Second))
	}
	return info, nil
}

// parseRational reads an ffprobe rational like "30000/1001" or "25/1".
// Unparseable input yields 0.
func parseRational(s string) float64 {
	num, den, ok := strings.Cut(strings.TrimSpace(s), "/")
	if !ok {
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0
		}
		return f
	}
	n, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return 0
	}
	d, err := strconv.ParseFloat(den, 64)
	if err != nil || d == 0 {
		return 0
	}
	return n / d
}
