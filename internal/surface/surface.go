// Package surface owns the board's pixel buffer and the mapping between
// device and logical coordinates under zoom and pan. It also hosts the
// snapshot store used by shape and text previews.
package surface

import (
	"errors"
	"fmt"
	"image"
	"math"
)

const (
	defaultMinZoom = 0.25
	defaultMaxZoom = 4.0
)

// ErrDegenerateResize is returned when a resize to zero or negative
// dimensions is requested. The surface is left untouched.
var ErrDegenerateResize = errors.New("degenerate resize dimensions")

// Point is a position in logical (board) coordinates.
type Point struct {
	X, Y float64
}

// Pt is shorthand for Point{X: x, Y: y}.
func Pt(x, y float64) Point { return Point{X: x, Y: y} }

// ImagePoint rounds p to the nearest raster pixel.
func (p Point) ImagePoint() image.Point {
	return image.Pt(int(math.Round(p.X)), int(math.Round(p.Y)))
}

// Surface is the single mutable raster everything draws into. All drawing
// happens in logical coordinates; zoom and pan only affect how device input
// maps onto the raster and how the raster is presented.
type Surface struct {
	buf          *image.RGBA
	logicalW     int
	logicalH     int
	viewW, viewH int
	zoom         float64
	panX, panY   float64
	density      float64
	minZoom      float64
	maxZoom      float64

	snap *snapshot
}

// Option modifies a Surface during creation.
type Option func(*Surface)

// WithDensity sets the device-pixel density scale applied on resize.
func WithDensity(d float64) Option {
	return func(s *Surface) {
		if d > 0 {
			s.density = d
		}
	}
}

// WithZoomRange sets the clamp range applied by SetZoom.
func WithZoomRange(min, max float64) Option {
	return func(s *Surface) {
		if min > 0 && max >= min {
			s.minZoom = min
			s.maxZoom = max
		}
	}
}

// WithZoom sets the initial zoom factor.
func WithZoom(z float64) Option {
	return func(s *Surface) {
		if z > 0 {
			s.zoom = z
		}
	}
}

// New creates a surface sized for a deviceW x deviceH viewport.
func New(deviceW, deviceH int, opts ...Option) (*Surface, error) {
	s := &Surface{
		zoom:    1,
		density: 1,
		minZoom: defaultMinZoom,
		maxZoom: defaultMaxZoom,
	}
	for _, o := range opts {
		o(s)
	}
	if s.zoom < s.minZoom {
		s.zoom = s.minZoom
	}
	if s.zoom > s.maxZoom {
		s.zoom = s.maxZoom
	}
	if err := s.Resize(deviceW, deviceH); err != nil {
		return nil, err
	}
	return s, nil
}

// Image returns the live raster. Callers that need the committed state must
// use Committed instead; the live buffer may hold preview pixels.
func (s *Surface) Image() *image.RGBA { return s.buf }

// Bounds returns the logical raster bounds.
func (s *Surface) Bounds() image.Rectangle { return s.buf.Bounds() }

// Size returns the logical raster dimensions.
func (s *Surface) Size() (int, int) { return s.logicalW, s.logicalH }

// ViewSize returns the device viewport dimensions from the last resize.
func (s *Surface) ViewSize() (int, int) { return s.viewW, s.viewH }

// Zoom returns the current zoom factor.
func (s *Surface) Zoom() float64 { return s.zoom }

// Pan returns the current pan offset in device pixels.
func (s *Surface) Pan() (float64, float64) { return s.panX, s.panY }

// SetPan replaces the pan offset.
func (s *Surface) SetPan(x, y float64) {
	s.panX = x
	s.panY = y
}

// PanBy shifts the pan offset by a device-pixel delta.
func (s *Surface) PanBy(dx, dy float64) {
	s.panX += dx
	s.panY += dy
}

// ToLogical converts a device position to logical coordinates.
func (s *Surface) ToLogical(dx, dy float64) Point {
	return Point{
		X: (dx - s.panX) / s.zoom,
		Y: (dy - s.panY) / s.zoom,
	}
}

// ToDevice converts a logical point to device coordinates. It is the exact
// inverse of ToLogical: device = logical*zoom + pan.
func (s *Surface) ToDevice(p Point) (float64, float64) {
	return p.X*s.zoom + s.panX, p.Y*s.zoom + s.panY
}

// SetZoom clamps factor to the configured range and pivots the zoom around
// the viewport centre so the board does not drift toward the origin.
func (s *Surface) SetZoom(factor float64) {
	if factor < s.minZoom {
		factor = s.minZoom
	}
	if factor > s.maxZoom {
		factor = s.maxZoom
	}
	if factor == s.zoom {
		return
	}
	cx := float64(s.viewW) / 2
	cy := float64(s.viewH) / 2
	centre := s.ToLogical(cx, cy)
	s.zoom = factor
	s.panX = cx - centre.X*factor
	s.panY = cy - centre.Y*factor
}

// ZoomRange returns the clamp range applied by SetZoom.
func (s *Surface) ZoomRange() (min, max float64) { return s.minZoom, s.maxZoom }

// Resize reallocates the raster for a new device viewport, scaled by the
// density factor. Content is not preserved; callers re-render the current
// background afterwards. Zoom and pan are untouched. Any outstanding
// snapshot is dropped because its dimensions no longer match, so an active
// gesture must be cancelled before resizing.
func (s *Surface) Resize(deviceW, deviceH int) error {
	if deviceW <= 0 || deviceH <= 0 {
		return fmt.Errorf("resize %dx%d: %w", deviceW, deviceH, ErrDegenerateResize)
	}
	w := int(math.Round(float64(deviceW) * s.density))
	h := int(math.Round(float64(deviceH) * s.density))
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	s.viewW = deviceW
	s.viewH = deviceH
	s.logicalW = w
	s.logicalH = h
	s.buf = image.NewRGBA(image.Rect(0, 0, w, h))
	s.snap = nil
	return nil
}

// Committed returns a copy of the last committed raster state. While a
// preview snapshot is outstanding the copy is taken from the snapshot, so a
// mid-preview frame can never leak to exporters.
func (s *Surface) Committed() *image.RGBA {
	out := image.NewRGBA(s.buf.Bounds())
	if s.snap != nil {
		copy(out.Pix, s.snap.pix)
	} else {
		copy(out.Pix, s.buf.Pix)
	}
	return out
}
