package raster

import (
	"fmt"
	"image"
	"image/color"
	"math"
	"slices"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

var textSizes = []float64{12, 16, 20, 24, 32}

// loadFont parses the embedded typeface once, on first use.
var loadFont = sync.OnceValues(func() (*opentype.Font, error) {
	return opentype.Parse(goregular.TTF)
})

var faceCache sync.Map // map[float64]font.Face

// TextSizes returns the available point sizes for text annotations.
func TextSizes() []float64 { return slices.Clone(textSizes) }

// DefaultTextSize returns the default point size for text annotations.
func DefaultTextSize() float64 { return textSizes[1] }

// Face returns a cached font face for the requested point size.
func Face(size float64) (font.Face, error) {
	if size <= 0 {
		size = DefaultTextSize()
	}
	key := math.Round(size*100) / 100
	if face, ok := faceCache.Load(key); ok {
		return face.(font.Face), nil
	}
	f, err := loadFont()
	if err != nil {
		return nil, fmt.Errorf("load text font: %w", err)
	}
	face, err := opentype.NewFace(f, &opentype.FaceOptions{Size: size, DPI: 72, Hinting: font.HintingFull})
	if err != nil {
		return nil, err
	}
	faceCache.Store(key, face)
	return face, nil
}

// MeasureText returns the bounding box of text rendered at the given size.
// baseline is the offset from the top of the box to the text baseline.
func MeasureText(text string, size float64) (width, height, baseline int, err error) {
	face, err := Face(size)
	if err != nil {
		return 0, 0, 0, err
	}
	m := face.Metrics()
	baseline = m.Ascent.Ceil()
	height = baseline + m.Descent.Ceil()
	width = (&font.Drawer{Face: face}).MeasureString(text).Ceil()
	return width, height, baseline, nil
}

// Text renders a string with its baseline starting at (x, y).
func Text(img *image.RGBA, x, y int, text string, col color.Color, size float64) error {
	face, err := Face(size)
	if err != nil {
		return err
	}
	d := &font.Drawer{Dst: img, Src: image.NewUniform(col), Face: face, Dot: fixed.P(x, y)}
	d.DrawString(text)
	return nil
}
