package ports

import (
	"context"
	"time"

	"github.com/ddrozdov/mkshort/internal/domain/geometry"
)

// SourceInfo is what probing a video reveals.
type SourceInfo struct {
	Duration  time.Duration
	Size      geometry.Size
	FrameRate string // ffmpeg rational, e.g. "30000/1001"
	FPS       float64
	HasAudio  bool
}

// SegmentSpec renders one source time range into a reframed, sped-up clip.
// A zero Crop or Scale skips that step.
type SegmentSpec struct {
	Start     time.Duration
	End       time.Duration
	Speed     float64
	Crop      geometry.Rect
	Scale     geometry.Size
	Trim      time.Duration // cap on the sped-up clip; zero means none
	FrameRate string
	HasAudio  bool
}

// SlideSpec renders a still image into a short video part. WithAudio adds a
// silent track so the part concatenates cleanly with clips that carry audio.
type SlideSpec struct {
	Crop      geometry.Rect
	Duration  time.Duration
	FadeIn    time.Duration
	FadeOut   time.Duration
	FrameRate string
	WithAudio bool
}

// FinalSpec reframes the concatenated video into the delivered short.
// A zero Crop or Scale skips that step.
type FinalSpec struct {
	Crop      geometry.Rect
	Scale     geometry.Size
	FrameRate string
}

// PreparedImage is an orientation-corrected, pre-scaled slide source.
type PreparedImage struct {
	Path   string
	Layout geometry.SlideLayout
}

type VideoEditor interface {
	Probe(ctx context.Context, path string) (SourceInfo, error)
	ExtractSegment(ctx context.Context, src string, spec SegmentSpec, dst string) error
	RenderSlide(ctx context.Context, image string, spec SlideSpec, dst string) error
	Concat(ctx context.Context, parts []string, dst string) error
	Finalize(ctx context.Context, src string, spec FinalSpec, dst string) error
}

type ImageTool interface {
	Prepare(ctx context.Context, path string, out geometry.Size, dir string) (PreparedImage, error)
}
