package ffmpeg

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ddrozdov/mkshort/internal/ports"
)

// ExtractSegment cuts [Start, End) out of src, speeds it up, reframes it,
// and re-encodes it as one uniform part.
func (a *Adapter) ExtractSegment(ctx context.Context, src string, spec ports.SegmentSpec, dst string) error {
	return a.run(ctx, segmentArgs(src, spec, dst))
}

func segmentArgs(src string, spec ports.SegmentSpec, dst string) []string {
	args := []string{
		"-y",
		"-ss", fmtSeconds(spec.Start),
		"-to", fmtSeconds(spec.End),
		"-i", src,
	}

	speedup := spec.Speed > 0 && spec.Speed != 1

	var vf []string
	if speedup {
		vf = append(vf, setptsFilter(spec.Speed))
	}
	if spec.Crop.W > 0 {
		vf = append(vf, cropFilter(spec.Crop))
	}
	if spec.Scale.W > 0 {
		vf = append(vf, scaleFilter(spec.Scale))
	}
	if len(vf) > 0 {
		args = append(args, "-vf", strings.Join(vf, ","))
	}
	if spec.HasAudio && speedup {
		args = append(args, "-af", atempoChain(spec.Speed))
	}
	if spec.Trim > 0 {
		args = append(args, "-t", fmtSeconds(spec.Trim))
	}
	if spec.FrameRate != "" {
		args = append(args, "-r", spec.FrameRate)
	}

	args = append(args,
		"-c:v", "libx264",
		"-preset", "veryfast",
		"-crf", "18",
		"-pix_fmt", "yuv420p",
	)
	if spec.HasAudio {
		args = append(args, "-c:a", "aac", "-b:a", "192k")
	} else {
		args = append(args, "-an")
	}
	return append(args, dst)
}

// RenderSlide turns a prepared still image into a faded video part. When
// spec.WithAudio is set a silent stereo track is muxed in so the part
// concatenates with clips that carry audio.
func (a *Adapter) RenderSlide(ctx context.Context, image string, spec ports.SlideSpec, dst string) error {
	return a.run(ctx, slideArgs(image, spec, dst))
}

func slideArgs(image string, spec ports.SlideSpec, dst string) []string {
	args := []string{
		"-y",
		"-loop", "1",
		"-i", image,
	}
	if spec.WithAudio {
		args = append(args, "-f", "lavfi", "-i", "anullsrc=r=44100:cl=stereo")
	}

	vf := []string{cropFilter(spec.Crop)}
	vf = append(vf, fadeFilters(spec.Duration, spec.FadeIn, spec.FadeOut)...)
	args = append(args,
		"-vf", strings.Join(vf, ","),
		"-t", fmtSeconds(spec.Duration),
	)
	if spec.FrameRate != "" {
		args = append(args, "-r", spec.FrameRate)
	}

	args = append(args,
		"-c:v", "libx264",
		"-preset", "veryfast",
		"-crf", "18",
		"-pix_fmt", "yuv420p",
	)
	if spec.WithAudio {
		args = append(args, "-c:a", "aac", "-b:a", "192k")
	}
	return append(args, dst)
}

// Concat joins parts in order. It tries a stream copy first and falls back
// to re-encoding when the parts disagree on layout.
func (a *Adapter) Concat(ctx context.Context, parts []string, dst string) error {
	if len(parts) == 0 {
		return ErrNoParts
	}
	if len(parts) == 1 {
		return copyFile(parts[0], dst)
	}

	list, err := writeConcatList(filepath.Dir(dst), parts)
	if err != nil {
		return err
	}
	defer func() { _ = os.Remove(list) }()

	if err := a.run(ctx, concatArgs(list, dst, false)); err == nil {
		return nil
	}
	return a.run(ctx, concatArgs(list, dst, true))
}

func concatArgs(list, dst string, reencode bool) []string {
	args := []string{
		"-y",
		"-f", "concat",
		"-safe", "0",
		"-i", list,
	}
	if reencode {
		args = append(args,
			"-c:v", "libx264",
			"-preset", "veryfast",
			"-crf", "18",
			"-c:a", "aac",
			"-b:a", "192k",
		)
	} else {
		args = append(args, "-c", "copy")
	}
	return append(args, dst)
}

// writeConcatList writes a concat-demuxer file list next to the output.
func writeConcatList(dir string, parts []string) (string, error) {
	f, err := os.CreateTemp(dir, "concat-*.txt")
	if err != nil {
		return "", fmt.Errorf("create concat list: %w", err)
	}
	defer func() { _ = f.Close() }()

	for _, p := range parts {
		abs, err := filepath.Abs(p)
		if err != nil {
			return "", fmt.Errorf("resolve %s: %w", p, err)
		}
		escaped := strings.ReplaceAll(abs, "'", `'\''`)
		if _, err := fmt.Fprintf(f, "file '%s'\n", escaped); err != nil {
			return "", fmt.Errorf("write concat list: %w", err)
		}
	}
	return f.Name(), nil
}

// Finalize reframes the assembled video and writes the delivered file.
func (a *Adapter) Finalize(ctx context.Context, src string, spec ports.FinalSpec, dst string) error {
	return a.run(ctx, finalizeArgs(src, spec, dst))
}

func finalizeArgs(src string, spec ports.FinalSpec, dst string) []string {
	args := []string{
		"-y",
		"-i", src,
	}
	var vf []string
	if spec.Crop.W > 0 {
		vf = append(vf, cropFilter(spec.Crop))
	}
	if spec.Scale.W > 0 {
		vf = append(vf, scaleFilter(spec.Scale))
	}
	if len(vf) > 0 {
		args = append(args, "-vf", strings.Join(vf, ","))
	}
	if spec.FrameRate != "" {
		args = append(args, "-r", spec.FrameRate)
	}
	return append(args,
		"-c:v", "libx264",
		"-preset", "veryfast",
		"-crf", "18",
		"-pix_fmt", "yuv420p",
		"-c:a", "aac",
		"-b:a", "192k",
		dst,
	)
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("open %s: %w", src, err)
	}
	defer func() { _ = in.Close() }()

	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("create %s: %w", dst, err)
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return fmt.Errorf("copy to %s: %w", dst, err)
	}
	return out.Close()
}
