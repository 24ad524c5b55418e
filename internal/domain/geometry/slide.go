package geometry

// Axis is the direction an image slide pans in.
type Axis int

const (
	Horizontal Axis = iota
	Vertical
)

func (a Axis) String() string {
	if a == Horizontal {
		return "horizontal"
	}
	return "vertical"
}

// SlideLayout describes how a still image is scaled for panning: the scaled
// size covers the output frame on both axes, and the slack on the pan axis
// is the room the crop window sweeps through.
type SlideLayout struct {
	Scaled    Size
	Axis      Axis
	MaxOffset int
}

// NewSlideLayout scales img to cover out. Landscape images match the output
// height and pan horizontally; portrait and square images match the output
// width and pan vertically. When that fit leaves the other axis short of the
// output, the fit flips so the frame stays covered, and the pan axis follows
// wherever the slack ends up.
func NewSlideLayout(img, out Size) SlideLayout {
	scaled := fitHeight(img, out)
	if img.W <= img.H {
		scaled = fitWidth(img, out)
	}
	if scaled.W < out.W {
		scaled = fitWidth(img, out)
	} else if scaled.H < out.H {
		scaled = fitHeight(img, out)
	}

	l := SlideLayout{Scaled: scaled, Axis: Vertical}
	if scaled.W > out.W {
		l.Axis = Horizontal
		l.MaxOffset = scaled.W - out.W
	} else {
		l.MaxOffset = max(0, scaled.H-out.H)
	}
	return l
}

func fitHeight(img, out Size) Size {
	return Size{W: int(float64(img.W) * float64(out.H) / float64(img.H)), H: out.H}
}

func fitWidth(img, out Size) Size {
	return Size{W: out.W, H: int(float64(img.H) * float64(out.W) / float64(img.W))}
}

// CropAt places an out-sized crop window at offset along the pan axis.
func (l SlideLayout) CropAt(offset int, out Size) Rect {
	if l.Axis == Horizontal {
		return Rect{X: offset, Y: 0, W: out.W, H: out.H}
	}
	return Rect{X: 0, Y: offset, W: out.W, H: out.H}
}

// PanOffsets returns n crop offsets sweeping linearly from 0 to maxOffset.
// A single part sits at the midpoint.
func PanOffsets(n, maxOffset int) []int {
	if n <= 0 {
		return nil
	}
	if n == 1 {
		return []int{maxOffset / 2}
	}
	out := make([]int, n)
	for i := range out {
		out[i] = i * maxOffset / (n - 1)
	}
	return out
}
