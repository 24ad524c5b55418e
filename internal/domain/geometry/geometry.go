// Package geometry holds the crop arithmetic for reframing video to a target
// aspect ratio around a focal point, and the pan layout for image slides.
// Everything here is pure pixel math; rendering happens elsewhere.
package geometry

import "fmt"

// Size is a frame size in pixels.
type Size struct {
	W int
	H int
}

func (s Size) String() string { return fmt.Sprintf("%dx%d", s.W, s.H) }

func (s Size) IsZero() bool { return s.W == 0 && s.H == 0 }

// AspectRatio is a width:height ratio, e.g. 9:16 for vertical video.
type AspectRatio struct {
	W int
	H int
}

func (r AspectRatio) String() string { return fmt.Sprintf("%d:%d", r.W, r.H) }

// FocalPoint marks the desired crop center as fractions of the frame size.
// Values are nominally in [0,1] but are not rejected: out-of-range points
// produce a crop pinned to the nearest frame edge.
type FocalPoint struct {
	X float64
	Y float64
}

// Center is the focal point used when none is supplied.
func Center() FocalPoint { return FocalPoint{X: 0.5, Y: 0.5} }

// Rect is a crop box: top-left corner plus size, in pixels.
type Rect struct {
	X int
	Y int
	W int
	H int
}

func (r Rect) Size() Size { return Size{W: r.W, H: r.H} }

// Covers reports whether the box spans the whole frame, making a crop to it
// a no-op.
func (r Rect) Covers(frame Size) bool {
	return r.X == 0 && r.Y == 0 && r.W == frame.W && r.H == frame.H
}

// CropBox computes the largest crop of frame with exactly the ratio ar,
// centered on fp and translated, never shrunk, to stay inside the frame.
//
// The box first takes the full frame height and derives its width from the
// ratio; when that width does not fit, it takes the full width and derives
// the height instead. The center lands on (fp.X*W, fp.Y*H) and the corner is
// then clamped so the whole box lies within the frame, which pins off-center
// crops to the nearest edge.
func CropBox(frame Size, ar AspectRatio, fp FocalPoint) Rect {
	if ar.W <= 0 || ar.H <= 0 {
		// Degenerate ratio, keep the full frame.
		return Rect{W: frame.W, H: frame.H}
	}

	w := int(float64(frame.H) * float64(ar.W) / float64(ar.H))
	h := frame.H
	if w > frame.W {
		w = frame.W
		h = int(float64(frame.W) * float64(ar.H) / float64(ar.W))
	}

	x := int(fp.X*float64(frame.W) - float64(w)/2)
	y := int(fp.Y*float64(frame.H) - float64(h)/2)
	x = max(0, x)
	y = max(0, y)
	if x+w > frame.W {
		x = frame.W - w
	}
	if y+h > frame.H {
		y = frame.H - h
	}
	x = max(0, x)
	y = max(0, y)

	return Rect{X: x, Y: y, W: w, H: h}
}
