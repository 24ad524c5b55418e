package pipeline

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode"

	"github.com/ddrozdov/mkshort/internal/plan"
	"github.com/ddrozdov/mkshort/internal/ports"
	"github.com/ddrozdov/mkshort/internal/ports/adapters/ffmpeg"
	"github.com/ddrozdov/mkshort/internal/ports/adapters/stills"
	"github.com/ddrozdov/mkshort/internal/storage"
	"github.com/ddrozdov/mkshort/internal/usecase"
)

type Config struct {
	Input  string
	Output string
	Plan   plan.Plan

	// PublishTarget is an optional destination for the finished short:
	// a directory path or an s3://bucket/prefix URL.
	PublishTarget string

	FFmpegPath  string
	FFprobePath string

	// WorkDir is the base for the per-run scratch directory. If empty,
	// os.MkdirTemp falls back to the system temp dir.
	WorkDir  string
	KeepWork bool

	S3 storage.S3Options

	Logf func(format string, args ...any)
}

func (c Config) Validate() error {
	if c.Input == "" {
		return errors.New("input is empty")
	}
	if _, err := os.Stat(c.Input); err != nil {
		return fmt.Errorf("stat input: %w", err)
	}
	if c.Output == "" {
		return errors.New("output is empty")
	}
	if err := c.Plan.Validate(); err != nil {
		return err
	}
	if c.PublishTarget != "" {
		if _, err := storage.ParseTarget(c.PublishTarget); err != nil {
			return err
		}
	}
	return nil
}

func Run(ctx context.Context, cfg Config) error {
	logf := cfg.Logf
	if logf == nil {
		logf = func(string, ...any) {}
	}

	// adapters
	v := ffmpeg.New(cfg.FFmpegPath, cfg.FFprobePath)
	img := stills.New()

	uc := usecase.New(usecase.Deps{Video: v, Image: img})

	logf("preparing workspace")
	workDir, err := os.MkdirTemp(cfg.WorkDir, "mkshort-*")
	if err != nil {
		return fmt.Errorf("create work dir: %w", err)
	}
	if cfg.KeepWork {
		logf("work dir kept at %s", workDir)
	} else {
		defer os.RemoveAll(workDir)
	}

	p := cfg.Plan
	aspect, err := p.Aspect()
	if err != nil {
		return err
	}
	size, err := p.OutputSize()
	if err != nil {
		return err
	}
	slideDur, slideFade := p.SlideDurations()

	if dir := filepath.Dir(cfg.Output); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
	}

	res, err := uc.Run(ctx, usecase.Input{
		Input:         cfg.Input,
		Output:        cfg.Output,
		Segments:      p.SegmentList(),
		FocalPoints:   p.FocalList(),
		Speed:         p.Speed,
		Aspect:        aspect,
		MaxDuration:   p.Max(),
		Resolution:    size,
		ImagePath:     p.Image,
		SlideParts:    p.Slides.Parts,
		SlideDuration: slideDur,
		SlideFade:     slideFade,
		WorkDir:       workDir,
		Logf:          logf,
	})
	if err != nil {
		return err
	}

	m := res.Manifest
	m.RunID = runID(cfg.Input, time.Now().UTC())

	if cfg.PublishTarget != "" {
		loc, err := publish(ctx, cfg, m.Output)
		if err != nil {
			return fmt.Errorf("publish: %w", err)
		}
		m.Published = loc
		logf("published: %s", loc)
	}

	b, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal manifest: %w", err)
	}
	manifestPath := manifestPathFor(cfg.Output)
	if err := os.WriteFile(manifestPath, b, 0o644); err != nil {
		return err
	}
	logf("manifest written (%d parts): %s", len(m.Parts), manifestPath)
	return nil
}

func publish(ctx context.Context, cfg Config, videoPath string) (string, error) {
	t, err := storage.ParseTarget(cfg.PublishTarget)
	if err != nil {
		return "", err
	}
	var pub storage.Publisher
	if t.Scheme == "s3" {
		opts := cfg.S3
		opts.Bucket = t.Bucket
		opts.Prefix = t.Prefix
		pub, err = storage.NewS3(ctx, opts)
		if err != nil {
			return "", err
		}
	} else {
		pub = storage.NewDir(t.Path)
	}
	return pub.Publish(ctx, videoPath, filepath.Base(videoPath))
}

// DefaultOutputName derives the output file name from the input, e.g.
// "My Trip.MOV" becomes "my-trip-short.mp4".
func DefaultOutputName(input string) string {
	name := normalizePathSegment(strings.TrimSuffix(filepath.Base(input), filepath.Ext(input)))
	if name == "" {
		return "short.mp4"
	}
	return name + "-short.mp4"
}

func manifestPathFor(output string) string {
	return strings.TrimSuffix(output, filepath.Ext(output)) + ".manifest.json"
}

func runID(input string, now time.Time) string {
	return hash(fmt.Sprintf("%s|%d", input, now.UTC().UnixNano()))
}

func normalizePathSegment(s string) string {
	var b strings.Builder
	prevDash := false
	for _, r := range strings.ToLower(strings.TrimSpace(s)) {
		switch {
		case unicode.IsLetter(r), unicode.IsDigit(r):
			b.WriteRune(r)
			prevDash = false
		default:
			if !prevDash {
				b.WriteByte('-')
				prevDash = true
			}
		}
	}
	return strings.Trim(b.String(), "-")
}

func hash(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])[:12]
}

// ensure adapters implement ports
var _ ports.VideoEditor = (*ffmpeg.Adapter)(nil)
var _ ports.ImageTool = (*stills.Tool)(nil)
