package usecase

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/ddrozdov/mkshort/internal/domain/geometry"
	"github.com/ddrozdov/mkshort/internal/ports"
	"github.com/ddrozdov/mkshort/internal/types"
)

type fakeVideo struct {
	srcPath string
	srcInfo ports.SourceInfo
	outInfo ports.SourceInfo

	probed   []string
	segments []ports.SegmentSpec
	slides   []ports.SlideSpec
	concats  [][]string
	finals   []ports.FinalSpec

	probeErr error
}

func (f *fakeVideo) Probe(_ context.Context, path string) (ports.SourceInfo, error) {
	if f.probeErr != nil {
		return ports.SourceInfo{}, f.probeErr
	}
	f.probed = append(f.probed, path)
	if path == f.srcPath {
		return f.srcInfo, nil
	}
	return f.outInfo, nil
}

func (f *fakeVideo) ExtractSegment(_ context.Context, _ string, spec ports.SegmentSpec, _ string) error {
	f.segments = append(f.segments, spec)
	return nil
}

func (f *fakeVideo) RenderSlide(_ context.Context, _ string, spec ports.SlideSpec, _ string) error {
	f.slides = append(f.slides, spec)
	return nil
}

func (f *fakeVideo) Concat(_ context.Context, parts []string, _ string) error {
	f.concats = append(f.concats, parts)
	return nil
}

func (f *fakeVideo) Finalize(_ context.Context, _ string, spec ports.FinalSpec, _ string) error {
	f.finals = append(f.finals, spec)
	return nil
}

type fakeImage struct {
	layout geometry.SlideLayout
	calls  int
	err    error
}

func (f *fakeImage) Prepare(_ context.Context, _ string, _ geometry.Size, dir string) (ports.PreparedImage, error) {
	f.calls++
	if f.err != nil {
		return ports.PreparedImage{}, f.err
	}
	return ports.PreparedImage{Path: filepath.Join(dir, "slide-oriented.jpg"), Layout: f.layout}, nil
}

func newFakeVideo(tmp string) *fakeVideo {
	return &fakeVideo{
		srcPath: filepath.Join(tmp, "in.mp4"),
		srcInfo: ports.SourceInfo{
			Duration:  100 * time.Second,
			Size:      geometry.Size{W: 1920, H: 1080},
			FrameRate: "30/1",
			FPS:       30,
			HasAudio:  true,
		},
		outInfo: ports.SourceInfo{
			Duration:  25 * time.Second,
			Size:      geometry.Size{W: 1080, H: 1920},
			FrameRate: "30/1",
			FPS:       30,
			HasAudio:  true,
		},
	}
}

func baseInput(tmp string) Input {
	return Input{
		Input:         filepath.Join(tmp, "in.mp4"),
		Output:        filepath.Join(tmp, "short.mp4"),
		Speed:         2,
		Aspect:        geometry.AspectRatio{W: 9, H: 16},
		MaxDuration:   25 * time.Second,
		Resolution:    geometry.Size{W: 1080, H: 1920},
		SlideParts:    4,
		SlideDuration: 1500 * time.Millisecond,
		SlideFade:     200 * time.Millisecond,
		WorkDir:       tmp,
	}
}

func seg(start, end time.Duration) types.Segment { return types.Segment{Start: start, End: end} }

func TestRun_BudgetTruncatesAndDrops(t *testing.T) {
	t.Parallel()

	tmp := t.TempDir()
	video := newFakeVideo(tmp)
	uc := New(Deps{Video: video, Image: &fakeImage{}})

	in := baseInput(tmp)
	in.Segments = []types.Segment{
		seg(0, 30*time.Second),
		seg(40*time.Second, 70*time.Second),
		seg(80*time.Second, 100*time.Second),
	}

	res, err := uc.Run(context.Background(), in)
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	// At double speed the clips last 15s, 15s, 10s: the second is cut to
	// 10s and the third never renders.
	if len(video.segments) != 2 {
		t.Fatalf("expected 2 rendered segments, got %d", len(video.segments))
	}
	if video.segments[0].Trim != 0 {
		t.Fatalf("first segment should not be trimmed, got %v", video.segments[0].Trim)
	}
	if video.segments[1].Trim != 10*time.Second {
		t.Fatalf("second segment trim = %v, want 10s", video.segments[1].Trim)
	}

	parts := res.Manifest.Parts
	if len(parts) != 2 {
		t.Fatalf("expected 2 manifest parts, got %d", len(parts))
	}
	if parts[0].Truncated || !parts[1].Truncated {
		t.Fatalf("truncation flags: %+v", parts)
	}
	var total float64
	for _, p := range parts {
		total += p.DurationSec
	}
	if total != 25 {
		t.Fatalf("kept duration = %.2fs, want exactly 25s", total)
	}
}

func TestRun_SpeedScalesDuration(t *testing.T) {
	t.Parallel()

	tmp := t.TempDir()
	video := newFakeVideo(tmp)
	uc := New(Deps{Video: video, Image: &fakeImage{}})

	in := baseInput(tmp)
	in.MaxDuration = 59 * time.Second
	in.Segments = []types.Segment{seg(10*time.Second, 20*time.Second)}

	res, err := uc.Run(context.Background(), in)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if got := video.segments[0].Speed; got != 2 {
		t.Fatalf("speed = %v", got)
	}
	if video.segments[0].Trim != 0 {
		t.Fatalf("no trim expected, got %v", video.segments[0].Trim)
	}
	if got := res.Manifest.Parts[0].DurationSec; got != 5 {
		t.Fatalf("kept duration = %.2fs, want 5s", got)
	}
}

func TestRun_FocalPerSegmentWithCenterFallback(t *testing.T) {
	t.Parallel()

	tmp := t.TempDir()
	video := newFakeVideo(tmp)
	uc := New(Deps{Video: video, Image: &fakeImage{}})

	in := baseInput(tmp)
	in.MaxDuration = 0
	in.Segments = []types.Segment{seg(0, 10*time.Second), seg(20*time.Second, 30*time.Second)}
	in.FocalPoints = []geometry.FocalPoint{{X: 0.2, Y: 0.5}}

	if _, err := uc.Run(context.Background(), in); err != nil {
		t.Fatalf("run: %v", err)
	}

	if got := video.segments[0].Crop; got.X != 80 {
		t.Fatalf("first segment crop = %+v, want x=80", got)
	}
	// No focal point for the second segment: it centers.
	if got := video.segments[1].Crop; got.X != 656 {
		t.Fatalf("second segment crop = %+v, want x=656", got)
	}
}

func TestRun_CropElidedWhenSourceMatchesOutput(t *testing.T) {
	t.Parallel()

	tmp := t.TempDir()
	video := newFakeVideo(tmp)
	video.srcInfo.Size = geometry.Size{W: 1080, H: 1920}
	uc := New(Deps{Video: video, Image: &fakeImage{}})

	in := baseInput(tmp)
	in.Segments = []types.Segment{seg(0, 10*time.Second)}

	if _, err := uc.Run(context.Background(), in); err != nil {
		t.Fatalf("run: %v", err)
	}
	spec := video.segments[0]
	if spec.Crop.W != 0 || spec.Scale.W != 0 {
		t.Fatalf("already-framed source should skip crop and scale, got %+v", spec)
	}
}

func TestRun_MissingImageSkipsSlides(t *testing.T) {
	t.Parallel()

	tmp := t.TempDir()
	video := newFakeVideo(tmp)
	img := &fakeImage{}
	uc := New(Deps{Video: video, Image: img})

	in := baseInput(tmp)
	in.Segments = []types.Segment{seg(0, 10*time.Second)}
	in.ImagePath = filepath.Join(tmp, "missing.jpg")

	res, err := uc.Run(context.Background(), in)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if img.calls != 0 {
		t.Fatalf("image should never be prepared")
	}
	if len(video.slides) != 0 {
		t.Fatalf("no slides expected, got %d", len(video.slides))
	}
	for _, p := range res.Manifest.Parts {
		if p.Kind != types.PartSegment {
			t.Fatalf("unexpected part kind %q", p.Kind)
		}
	}
}

func TestRun_SlidesPanAcrossImage(t *testing.T) {
	t.Parallel()

	tmp := t.TempDir()
	imagePath := filepath.Join(tmp, "cover.jpg")
	if err := os.WriteFile(imagePath, []byte("jpeg bytes"), 0o644); err != nil {
		t.Fatal(err)
	}

	video := newFakeVideo(tmp)
	img := &fakeImage{layout: geometry.SlideLayout{
		Scaled:    geometry.Size{W: 1380, H: 1920},
		Axis:      geometry.Horizontal,
		MaxOffset: 300,
	}}
	uc := New(Deps{Video: video, Image: img})

	in := baseInput(tmp)
	in.Segments = []types.Segment{seg(0, 10*time.Second)}
	in.ImagePath = imagePath

	res, err := uc.Run(context.Background(), in)
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	if len(video.slides) != 4 {
		t.Fatalf("expected 4 slides, got %d", len(video.slides))
	}
	wantX := []int{0, 100, 200, 300}
	for i, s := range video.slides {
		if s.Crop.X != wantX[i] || s.Crop.Y != 0 {
			t.Fatalf("slide %d crop = %+v, want x=%d", i+1, s.Crop, wantX[i])
		}
		if !s.WithAudio {
			t.Fatalf("slides next to audio segments need a silent track")
		}
		if s.Duration != 1500*time.Millisecond || s.FadeIn != 200*time.Millisecond {
			t.Fatalf("slide %d timing = %+v", i+1, s)
		}
	}

	if len(video.concats) != 1 {
		t.Fatalf("expected one concat, got %d", len(video.concats))
	}
	order := video.concats[0]
	if len(order) != 5 {
		t.Fatalf("expected 5 parts in concat, got %v", order)
	}
	if !strings.HasSuffix(order[0], "part-001.mp4") || !strings.HasSuffix(order[4], "slide-004.mp4") {
		t.Fatalf("segments must precede slides: %v", order)
	}

	kinds := make([]types.PartKind, 0, len(res.Manifest.Parts))
	for _, p := range res.Manifest.Parts {
		kinds = append(kinds, p.Kind)
	}
	want := []types.PartKind{types.PartSegment, types.PartSlide, types.PartSlide, types.PartSlide, types.PartSlide}
	for i := range want {
		if kinds[i] != want[i] {
			t.Fatalf("part kinds = %v", kinds)
		}
	}
}

func TestRun_SlidesOnlyShortStaysSilent(t *testing.T) {
	t.Parallel()

	tmp := t.TempDir()
	imagePath := filepath.Join(tmp, "cover.jpg")
	if err := os.WriteFile(imagePath, []byte("jpeg bytes"), 0o644); err != nil {
		t.Fatal(err)
	}

	video := newFakeVideo(tmp)
	img := &fakeImage{layout: geometry.SlideLayout{
		Scaled:    geometry.Size{W: 1080, H: 2400},
		Axis:      geometry.Vertical,
		MaxOffset: 480,
	}}
	uc := New(Deps{Video: video, Image: img})

	in := baseInput(tmp)
	in.ImagePath = imagePath

	res, err := uc.Run(context.Background(), in)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(video.slides) != 4 {
		t.Fatalf("expected 4 slides, got %d", len(video.slides))
	}
	for i, s := range video.slides {
		if s.WithAudio {
			t.Fatalf("slide %d should have no audio track without segments", i+1)
		}
		if s.Crop.X != 0 {
			t.Fatalf("vertical pan keeps x at 0, got %+v", s.Crop)
		}
	}
	wantY := []int{0, 160, 320, 480}
	for i, s := range video.slides {
		if s.Crop.Y != wantY[i] {
			t.Fatalf("slide %d crop y = %d, want %d", i+1, s.Crop.Y, wantY[i])
		}
	}
	if len(res.Manifest.Parts) != 4 {
		t.Fatalf("manifest parts = %d", len(res.Manifest.Parts))
	}
}

func TestRun_NoClips(t *testing.T) {
	t.Parallel()

	tmp := t.TempDir()
	video := newFakeVideo(tmp)
	uc := New(Deps{Video: video, Image: &fakeImage{}})

	_, err := uc.Run(context.Background(), baseInput(tmp))
	if !errors.Is(err, ErrNoClips) {
		t.Fatalf("want ErrNoClips, got %v", err)
	}
	if len(video.concats) != 0 {
		t.Fatalf("nothing should be concatenated")
	}
}

func TestRun_SourceProbeFailure(t *testing.T) {
	t.Parallel()

	tmp := t.TempDir()
	video := newFakeVideo(tmp)
	video.probeErr = errors.New("boom")
	uc := New(Deps{Video: video, Image: &fakeImage{}})

	in := baseInput(tmp)
	in.Segments = []types.Segment{seg(0, 10*time.Second)}

	_, err := uc.Run(context.Background(), in)
	if err == nil || !strings.Contains(err.Error(), "load source video") {
		t.Fatalf("want load error, got %v", err)
	}
	if len(video.segments) != 0 {
		t.Fatalf("nothing should render after a probe failure")
	}
}

func TestRun_FinalReframesWhenAssembledDiffers(t *testing.T) {
	t.Parallel()

	tmp := t.TempDir()
	video := newFakeVideo(tmp)
	// Pretend concatenation produced a landscape file.
	video.outInfo.Size = geometry.Size{W: 1920, H: 1080}
	uc := New(Deps{Video: video, Image: &fakeImage{}})

	in := baseInput(tmp)
	in.Segments = []types.Segment{seg(0, 10*time.Second)}
	in.FocalPoints = []geometry.FocalPoint{{X: 0.2, Y: 0.5}}

	if _, err := uc.Run(context.Background(), in); err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(video.finals) != 1 {
		t.Fatalf("expected one finalize call")
	}
	final := video.finals[0]
	if final.Crop.X != 80 || final.Crop.W != 607 {
		t.Fatalf("final crop = %+v, want the first focal point's box", final.Crop)
	}
	if final.Scale != (geometry.Size{W: 1080, H: 1920}) {
		t.Fatalf("final scale = %+v", final.Scale)
	}
}

func TestRun_FinalPassThroughWhenAssembledMatches(t *testing.T) {
	t.Parallel()

	tmp := t.TempDir()
	video := newFakeVideo(tmp)
	uc := New(Deps{Video: video, Image: &fakeImage{}})

	in := baseInput(tmp)
	in.Segments = []types.Segment{seg(0, 10*time.Second)}

	if _, err := uc.Run(context.Background(), in); err != nil {
		t.Fatalf("run: %v", err)
	}
	final := video.finals[0]
	if final.Crop.W != 0 || final.Scale.W != 0 {
		t.Fatalf("matching assembly should pass through, got %+v", final)
	}
	if final.FrameRate != "30/1" {
		t.Fatalf("final frame rate = %q", final.FrameRate)
	}
}
