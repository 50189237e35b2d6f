// Package export writes a committed board raster to its destinations:
// a PNG file, a PDF page, or the system clipboard. Every destination
// accepts the same Options so a framed variant stays one switch away.
package export

import (
	"errors"
	"fmt"
	"image"
	"image/png"
	"os"
	"time"

	"github.com/example/inkboard/internal/clipboard"
	"github.com/example/inkboard/internal/render"
)

var errNilImage = errors.New("nil image")

// Options selects the presentation applied before encoding.
type Options struct {
	// Frame mounts the raster on a matte with a drop shadow.
	Frame bool
	// Matte configures the frame. The zero value means
	// render.DefaultMatteOptions.
	Matte render.MatteOptions
}

func (o Options) apply(img *image.RGBA) *image.RGBA {
	if !o.Frame {
		return img
	}
	m := o.Matte
	if m == (render.MatteOptions{}) {
		m = render.DefaultMatteOptions()
	}
	return render.Matte(img, m)
}

// PNG encodes img to path, creating or truncating the file.
func PNG(path string, img *image.RGBA, o Options) error {
	if img == nil {
		return fmt.Errorf("export png: %w", errNilImage)
	}
	img = o.apply(img)
	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("export png: %w", err)
	}
	if err := png.Encode(out, img); err != nil {
		out.Close()
		return fmt.Errorf("export png: %w", err)
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("export png: closing %s: %w", path, err)
	}
	return nil
}

// Clipboard places img on the system clipboard as a PNG.
func Clipboard(img *image.RGBA, o Options) error {
	if img == nil {
		return fmt.Errorf("export clipboard: %w", errNilImage)
	}
	if err := clipboard.WriteImage(o.apply(img)); err != nil {
		return fmt.Errorf("export clipboard: %w", err)
	}
	return nil
}

// DefaultName returns a timestamped file name with the given extension,
// e.g. "board_20060102_150405.png". Used when the caller has no
// configured output path.
func DefaultName(ext string) string {
	return fmt.Sprintf("board_%s.%s", time.Now().Format("20060102_150405"), ext)
}
