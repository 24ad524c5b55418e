package usecase

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/ddrozdov/mkshort/internal/domain/geometry"
	"github.com/ddrozdov/mkshort/internal/domain/timeline"
	"github.com/ddrozdov/mkshort/internal/ports"
	"github.com/ddrozdov/mkshort/internal/types"
)

// ErrNoClips is returned when no segments survive the duration budget and no
// slides are produced: there is nothing to assemble.
var ErrNoClips = errors.New("no clips were produced")

type Deps struct {
	Video ports.VideoEditor
	Image ports.ImageTool
}

type Usecase struct{ d Deps }

func New(d Deps) Usecase { return Usecase{d: d} }

type Input struct {
	Input       string
	Output      string
	Segments    []types.Segment
	FocalPoints []geometry.FocalPoint
	Speed       float64
	Aspect      geometry.AspectRatio
	MaxDuration time.Duration
	Resolution  geometry.Size
	ImagePath   string

	SlideParts    int
	SlideDuration time.Duration
	SlideFade     time.Duration

	// WorkDir holds intermediate parts; the caller owns its lifecycle.
	WorkDir string
	Logf    func(format string, args ...any)
}

type Result struct {
	Manifest types.Manifest
}

// Run builds one short: cut and reframe the requested segments, append
// panning slides from the image when one is given, concatenate, and write
// the final video.
func (u Usecase) Run(ctx context.Context, in Input) (Result, error) {
	logf := in.Logf
	if logf == nil {
		logf = func(string, ...any) {}
	}

	info, err := u.d.Video.Probe(ctx, in.Input)
	if err != nil {
		return Result{}, fmt.Errorf("load source video: %w", err)
	}
	logf("source %s: %.2fs %s at %.2f fps", in.Input, info.Duration.Seconds(), info.Size, info.FPS)

	speed := in.Speed
	if speed <= 0 {
		speed = 1
	}

	var (
		parts []types.ManifestPart
		files []string
	)

	acc := timeline.NewAccumulator(in.MaxDuration)
	for i, seg := range in.Segments {
		if acc.Exhausted() {
			logf("max duration reached, dropping %d remaining segments", len(in.Segments)-i)
			break
		}

		fp := focalFor(in.FocalPoints, i)
		crop := geometry.CropBox(info.Size, in.Aspect, fp)
		sped := time.Duration(float64(seg.Duration()) / speed)

		fit := acc.Fit(sped)
		if fit.Skip {
			logf("segment %d is empty after speedup, skipping", i+1)
			continue
		}

		spec := ports.SegmentSpec{
			Start:     seg.Start,
			End:       seg.End,
			Speed:     speed,
			FrameRate: info.FrameRate,
			HasAudio:  info.HasAudio,
		}
		if !crop.Covers(info.Size) {
			spec.Crop = crop
		}
		if crop.Size() != in.Resolution {
			spec.Scale = in.Resolution
		}
		if fit.Truncated {
			spec.Trim = fit.Keep
			logf("truncating segment %d to %.2fs to fit the maximum duration", i+1, fit.Keep.Seconds())
		}

		name := fmt.Sprintf("part-%03d.mp4", len(files)+1)
		out := filepath.Join(in.WorkDir, name)
		logf("segment %d: %.2f-%.2fs, focal (%.2f, %.2f), crop %dx%d at (%d, %d)",
			i+1, seg.Start.Seconds(), seg.End.Seconds(), fp.X, fp.Y, crop.W, crop.H, crop.X, crop.Y)
		if err := u.d.Video.ExtractSegment(ctx, in.Input, spec, out); err != nil {
			return Result{}, fmt.Errorf("render segment %d: %w", i+1, err)
		}

		acc.Add(fit.Keep)
		files = append(files, out)
		parts = append(parts, types.ManifestPart{
			Kind:        types.PartSegment,
			File:        name,
			StartSec:    seg.Start.Seconds(),
			EndSec:      seg.End.Seconds(),
			FocalX:      fp.X,
			FocalY:      fp.Y,
			DurationSec: fit.Keep.Seconds(),
			Truncated:   fit.Truncated,
		})
		logf("segment %d kept %.2fs, total %.2fs", i+1, fit.Keep.Seconds(), acc.Total().Seconds())
	}

	if in.ImagePath != "" {
		if _, err := os.Stat(in.ImagePath); err != nil {
			logf("image %s not found, skipping slides", in.ImagePath)
		} else {
			// Slides need a silent track only when they sit next to parts
			// that carry audio.
			withAudio := info.HasAudio && len(files) > 0
			slideParts, slideFiles, err := u.renderSlides(ctx, in, info.FrameRate, withAudio, logf)
			if err != nil {
				return Result{}, err
			}
			parts = append(parts, slideParts...)
			files = append(files, slideFiles...)
		}
	}

	if len(files) == 0 {
		return Result{}, ErrNoClips
	}

	concatPath := filepath.Join(in.WorkDir, "concat.mp4")
	logf("concatenating %d parts", len(files))
	if err := u.d.Video.Concat(ctx, files, concatPath); err != nil {
		return Result{}, fmt.Errorf("concatenate parts: %w", err)
	}

	assembled, err := u.d.Video.Probe(ctx, concatPath)
	if err != nil {
		return Result{}, fmt.Errorf("probe assembled video: %w", err)
	}

	// The delivery pass reframes around the first focal point. Parts are
	// already at the output resolution, so this normally degenerates to a
	// plain re-encode.
	fp := focalFor(in.FocalPoints, 0)
	crop := geometry.CropBox(assembled.Size, in.Aspect, fp)
	final := ports.FinalSpec{FrameRate: info.FrameRate}
	if !crop.Covers(assembled.Size) {
		final.Crop = crop
	}
	if crop.Size() != in.Resolution {
		final.Scale = in.Resolution
	}
	if err := u.d.Video.Finalize(ctx, concatPath, final, in.Output); err != nil {
		return Result{}, fmt.Errorf("write output: %w", err)
	}

	delivered, err := u.d.Video.Probe(ctx, in.Output)
	if err != nil {
		return Result{}, fmt.Errorf("probe output: %w", err)
	}
	logf("short ready: %.2fs %s -> %s", delivered.Duration.Seconds(), delivered.Size, in.Output)

	return Result{Manifest: types.Manifest{
		Input:       in.Input,
		Output:      in.Output,
		Width:       delivered.Size.W,
		Height:      delivered.Size.H,
		FrameRate:   info.FrameRate,
		DurationSec: delivered.Duration.Seconds(),
		Parts:       parts,
	}}, nil
}

func (u Usecase) renderSlides(
	ctx context.Context,
	in Input,
	frameRate string,
	withAudio bool,
	logf func(format string, args ...any),
) ([]types.ManifestPart, []string, error) {
	prepared, err := u.d.Image.Prepare(ctx, in.ImagePath, in.Resolution, in.WorkDir)
	if err != nil {
		return nil, nil, fmt.Errorf("prepare slide image: %w", err)
	}
	logf("slide image scaled to %s, panning %s over %dpx",
		prepared.Layout.Scaled, prepared.Layout.Axis, prepared.Layout.MaxOffset)

	var (
		parts []types.ManifestPart
		files []string
	)
	offsets := geometry.PanOffsets(in.SlideParts, prepared.Layout.MaxOffset)
	for i, off := range offsets {
		spec := ports.SlideSpec{
			Crop:      prepared.Layout.CropAt(off, in.Resolution),
			Duration:  in.SlideDuration,
			FadeIn:    in.SlideFade,
			FadeOut:   in.SlideFade,
			FrameRate: frameRate,
			WithAudio: withAudio,
		}
		name := fmt.Sprintf("slide-%03d.mp4", i+1)
		out := filepath.Join(in.WorkDir, name)
		if err := u.d.Video.RenderSlide(ctx, prepared.Path, spec, out); err != nil {
			return nil, nil, fmt.Errorf("render slide %d: %w", i+1, err)
		}

		files = append(files, out)
		parts = append(parts, types.ManifestPart{
			Kind:        types.PartSlide,
			File:        name,
			OffsetPx:    off,
			DurationSec: in.SlideDuration.Seconds(),
		})
		logf("slide %d/%d at offset %dpx", i+1, len(offsets), off)
	}
	return parts, files, nil
}

func focalFor(points []geometry.FocalPoint, i int) geometry.FocalPoint {
	if i < len(points) {
		return points[i]
	}
	return geometry.Center()
}
