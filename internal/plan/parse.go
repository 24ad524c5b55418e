package plan

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ddrozdov/mkshort/internal/domain/geometry"
)

// ParseSpan reads a "start-end" pair of seconds, e.g. "157-162" or
// "12.5-31.25".
func ParseSpan(s string) (Span, error) {
	from, to, ok := strings.Cut(s, "-")
	if !ok {
		return Span{}, fmt.Errorf("invalid segment %q, want start-end seconds", s)
	}
	start, err := strconv.ParseFloat(strings.TrimSpace(from), 64)
	if err != nil {
		return Span{}, fmt.Errorf("invalid segment start in %q: %w", s, err)
	}
	end, err := strconv.ParseFloat(strings.TrimSpace(to), 64)
	if err != nil {
		return Span{}, fmt.Errorf("invalid segment end in %q: %w", s, err)
	}
	if end <= start {
		return Span{}, fmt.Errorf("segment %q must end after it starts", s)
	}
	return Span{Start: start, End: end}, nil
}

// ParseFocal reads an "x,y" pair of frame-size fractions, e.g. "0.3,0.5".
func ParseFocal(s string) (Focal, error) {
	xs, ys, ok := strings.Cut(s, ",")
	if !ok {
		return Focal{}, fmt.Errorf("invalid focal point %q, want x,y", s)
	}
	x, err := strconv.ParseFloat(strings.TrimSpace(xs), 64)
	if err != nil {
		return Focal{}, fmt.Errorf("invalid focal x in %q: %w", s, err)
	}
	y, err := strconv.ParseFloat(strings.TrimSpace(ys), 64)
	if err != nil {
		return Focal{}, fmt.Errorf("invalid focal y in %q: %w", s, err)
	}
	return Focal{X: x, Y: y}, nil
}

// ParseAspect reads a "w:h" ratio, e.g. "9:16".
func ParseAspect(s string) (geometry.AspectRatio, error) {
	ws, hs, ok := strings.Cut(s, ":")
	if !ok {
		return geometry.AspectRatio{}, fmt.Errorf("invalid aspect ratio %q, want w:h", s)
	}
	w, err := strconv.Atoi(strings.TrimSpace(ws))
	if err != nil {
		return geometry.AspectRatio{}, fmt.Errorf("invalid aspect ratio %q: %w", s, err)
	}
	h, err := strconv.Atoi(strings.TrimSpace(hs))
	if err != nil {
		return geometry.AspectRatio{}, fmt.Errorf("invalid aspect ratio %q: %w", s, err)
	}
	if w <= 0 || h <= 0 {
		return geometry.AspectRatio{}, fmt.Errorf("aspect ratio %q must be positive", s)
	}
	return geometry.AspectRatio{W: w, H: h}, nil
}

// ParseResolution reads a "WxH" size, e.g. "1080x1920". Dimensions must be
// even: libx264 with yuv420p refuses odd sizes.
func ParseResolution(s string) (geometry.Size, error) {
	ws, hs, ok := strings.Cut(s, "x")
	if !ok {
		return geometry.Size{}, fmt.Errorf("invalid resolution %q, want WxH", s)
	}
	w, err := strconv.Atoi(strings.TrimSpace(ws))
	if err != nil {
		return geometry.Size{}, fmt.Errorf("invalid resolution %q: %w", s, err)
	}
	h, err := strconv.Atoi(strings.TrimSpace(hs))
	if err != nil {
		return geometry.Size{}, fmt.Errorf("invalid resolution %q: %w", s, err)
	}
	if w <= 0 || h <= 0 {
		return geometry.Size{}, fmt.Errorf("resolution %q must be positive", s)
	}
	if w%2 != 0 || h%2 != 0 {
		return geometry.Size{}, fmt.Errorf("resolution %q must have even dimensions", s)
	}
	return geometry.Size{W: w, H: h}, nil
}
