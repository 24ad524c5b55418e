// Package stills prepares photographs for the slide renderer: EXIF
// orientation is applied, then the image is scaled to cover the output frame
// so the crop window can pan across it.
package stills

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"

	xdraw "golang.org/x/image/draw"

	"github.com/ddrozdov/mkshort/internal/domain/geometry"
	"github.com/ddrozdov/mkshort/internal/ports"
)

const orientedName = "slide-oriented.jpg"

type Tool struct{}

func New() *Tool { return &Tool{} }

// Prepare reads the image at path, corrects its orientation, scales it per
// the slide layout, and writes the result into dir as a JPEG the renderer
// can crop without further scaling.
func (t *Tool) Prepare(ctx context.Context, path string, out geometry.Size, dir string) (ports.PreparedImage, error) {
	select {
	case <-ctx.Done():
		return ports.PreparedImage{}, ctx.Err()
	default:
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return ports.PreparedImage{}, fmt.Errorf("read image: %w", err)
	}
	img, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return ports.PreparedImage{}, fmt.Errorf("decode image %s: %w", path, err)
	}
	img = autoOrient(img, raw)

	b := img.Bounds()
	layout := geometry.NewSlideLayout(geometry.Size{W: b.Dx(), H: b.Dy()}, out)

	scaled := image.NewRGBA(image.Rect(0, 0, layout.Scaled.W, layout.Scaled.H))
	xdraw.CatmullRom.Scale(scaled, scaled.Bounds(), img, b, xdraw.Src, nil)

	dst := filepath.Join(dir, orientedName)
	f, err := os.Create(dst)
	if err != nil {
		return ports.PreparedImage{}, fmt.Errorf("create %s: %w", dst, err)
	}
	if err := jpeg.Encode(f, scaled, &jpeg.Options{Quality: 92}); err != nil {
		_ = f.Close()
		return ports.PreparedImage{}, fmt.Errorf("encode oriented image: %w", err)
	}
	if err := f.Close(); err != nil {
		return ports.PreparedImage{}, fmt.Errorf("close %s: %w", dst, err)
	}

	return ports.PreparedImage{Path: dst, Layout: layout}, nil
}
