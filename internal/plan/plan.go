// Package plan defines the edit plan for one short: which source segments to
// use, how fast to play them, and how to frame the result. Plans load from
// YAML over built-in defaults; CLI flags override individual fields.
package plan

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/ddrozdov/mkshort/internal/domain/geometry"
	"github.com/ddrozdov/mkshort/internal/types"
)

// Span is one source time range, in seconds.
type Span struct {
	Start float64 `yaml:"start" validate:"gte=0"`
	End   float64 `yaml:"end" validate:"gtfield=Start"`
}

// Focal is a fractional crop center for the segment at the same index.
// Values outside [0,1] are allowed and produce edge-pinned crops.
type Focal struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
}

// Slides configures the trailing image pan.
type Slides struct {
	Parts        int     `yaml:"parts" validate:"min=1"`
	PartDuration float64 `yaml:"part_duration" validate:"gt=0"` // seconds per part
	Fade         float64 `yaml:"fade" validate:"gte=0"`         // fade in/out, seconds
}

// Plan is everything mkshort needs to build one short.
type Plan struct {
	Segments    []Span  `yaml:"segments" validate:"dive"`
	FocalPoints []Focal `yaml:"focal_points"`
	Speed       float64 `yaml:"speed" validate:"gt=0"`
	AspectRatio string  `yaml:"aspect_ratio"`
	MaxDuration float64 `yaml:"max_duration" validate:"gte=0"` // seconds; 0 disables the cap
	Resolution  string  `yaml:"resolution"`
	Image       string  `yaml:"image"`
	Slides      Slides  `yaml:"slides"`
}

// Default is the built-in plan: double speed, vertical 9:16 at 1080x1920,
// capped at 59 seconds, four 1.5s slides with 0.2s fades.
func Default() Plan {
	return Plan{
		Speed:       2,
		AspectRatio: "9:16",
		MaxDuration: 59,
		Resolution:  "1080x1920",
		Slides:      Slides{Parts: 4, PartDuration: 1.5, Fade: 0.2},
	}
}

// Load reads a YAML plan over the defaults, so a file only needs the fields
// it changes.
func Load(path string) (Plan, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Plan{}, fmt.Errorf("read plan: %w", err)
	}
	p := Default()
	if err := yaml.Unmarshal(data, &p); err != nil {
		return Plan{}, fmt.Errorf("parse plan %s: %w", path, err)
	}
	return p, nil
}

var validate = validator.New()

// Validate checks the plan before any rendering starts.
func (p Plan) Validate() error {
	if len(p.Segments) == 0 && p.Image == "" {
		return errors.New("plan needs at least one segment or an image")
	}
	if _, err := p.Aspect(); err != nil {
		return err
	}
	if _, err := p.OutputSize(); err != nil {
		return err
	}
	if err := validate.Struct(p); err != nil {
		return fmt.Errorf("invalid plan: %w", err)
	}
	return nil
}

func (p Plan) Aspect() (geometry.AspectRatio, error) {
	return ParseAspect(p.AspectRatio)
}

func (p Plan) OutputSize() (geometry.Size, error) {
	return ParseResolution(p.Resolution)
}

func (p Plan) Max() time.Duration { return dur(p.MaxDuration) }

func (p Plan) SegmentList() []types.Segment {
	out := make([]types.Segment, 0, len(p.Segments))
	for _, s := range p.Segments {
		out = append(out, types.Segment{Start: dur(s.Start), End: dur(s.End)})
	}
	return out
}

func (p Plan) FocalList() []geometry.FocalPoint {
	out := make([]geometry.FocalPoint, 0, len(p.FocalPoints))
	for _, f := range p.FocalPoints {
		out = append(out, geometry.FocalPoint{X: f.X, Y: f.Y})
	}
	return out
}

func (p Plan) SlideDurations() (part, fade time.Duration) {
	return dur(p.Slides.PartDuration), dur(p.Slides.Fade)
}

func dur(sec float64) time.Duration { return time.Duration(sec * float64(time.Second)) }
