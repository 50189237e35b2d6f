// Package template paints static background layouts onto a surface. A
// template render replaces everything on the board and becomes the new
// committed baseline; there is no layering.
package template

import (
	"fmt"
	"image"
	"image/draw"

	xdraw "golang.org/x/image/draw"

	"github.com/example/inkboard/internal/raster"
	"github.com/example/inkboard/internal/surface"
	"github.com/example/inkboard/internal/theme"
)

// UnknownTemplateError reports a template id missing from the registry.
type UnknownTemplateError struct {
	ID string
}

func (e UnknownTemplateError) Error() string {
	return fmt.Sprintf("unknown template %q", e.ID)
}

// Template is one background layout.
type Template struct {
	ID          string
	Description string

	paint func(img *image.RGBA, th *theme.Theme)
}

// Layout spacing in logical pixels.
const (
	gridStep  = 32
	ruledStep = 28
	ruledTop  = 40
	marginX   = 48
	dotStep   = 24
	staffGap  = 8
	staffStep = 56
)

// Registry holds the template catalog and the theme its layouts ink with.
type Registry struct {
	th    *theme.Theme
	order []string
	byID  map[string]Template
}

// NewRegistry builds a catalog with all built-in layouts. A nil theme
// falls back to the default palette.
func NewRegistry(th *theme.Theme) *Registry {
	if th == nil {
		th = theme.Default()
	}
	r := &Registry{th: th, byID: make(map[string]Template)}
	for _, t := range []Template{
		{ID: "blank", Description: "plain paper", paint: paintBlank},
		{ID: "grid", Description: "square grid", paint: paintGrid},
		{ID: "ruled", Description: "ruled lines with margin", paint: paintRuled},
		{ID: "dots", Description: "dot lattice", paint: paintDots},
		{ID: "axes", Description: "coordinate axes over a fine grid", paint: paintAxes},
		{ID: "storyboard", Description: "2x3 storyboard frames", paint: paintStoryboard},
		{ID: "music", Description: "music staves", paint: paintMusic},
	} {
		r.Register(t)
	}
	return r
}

// Register adds a template, replacing any existing one with the same id.
func (r *Registry) Register(t Template) {
	if _, ok := r.byID[t.ID]; !ok {
		r.order = append(r.order, t.ID)
	}
	r.byID[t.ID] = t
}

// IDs returns the catalog ids in registration order.
func (r *Registry) IDs() []string {
	return append([]string(nil), r.order...)
}

// All returns the catalog in registration order.
func (r *Registry) All() []Template {
	out := make([]Template, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.byID[id])
	}
	return out
}

// Next returns the id after the given one, wrapping around. Unknown ids
// land on the first template.
func (r *Registry) Next(id string) string {
	for i, cur := range r.order {
		if cur == id {
			return r.order[(i+1)%len(r.order)]
		}
	}
	return r.order[0]
}

// Render clears the surface and paints the named layout. The surface must
// be between gestures; a held preview snapshot blocks the render so a
// template swap cannot interleave with a half-drawn shape.
func (r *Registry) Render(id string, s *surface.Surface) error {
	t, ok := r.byID[id]
	if !ok {
		return UnknownTemplateError{ID: id}
	}
	if s.SnapshotHeld() {
		return fmt.Errorf("render %s: %w", id, surface.ErrConcurrentSnapshot)
	}
	img := s.Image()
	raster.Clear(img)
	t.paint(img, r.th)
	return nil
}

// FromImage wraps a source image as a template that paints it scaled to
// the full surface. Used to seed the board from a file or a screen grab.
func FromImage(id string, src image.Image) Template {
	return Template{
		ID:          id,
		Description: "background image",
		paint: func(img *image.RGBA, th *theme.Theme) {
			xdraw.NearestNeighbor.Scale(img, img.Bounds(), src, src.Bounds(), draw.Src, nil)
		},
	}
}

func paintBlank(img *image.RGBA, th *theme.Theme) {
	raster.Fill(img, th.Paper)
}

func paintGrid(img *image.RGBA, th *theme.Theme) {
	raster.Fill(img, th.Paper)
	b := img.Bounds()
	for x := gridStep; x < b.Dx(); x += gridStep {
		raster.Line(img, x, 0, x, b.Dy()-1, th.GridInk, 1)
	}
	for y := gridStep; y < b.Dy(); y += gridStep {
		raster.Line(img, 0, y, b.Dx()-1, y, th.GridInk, 1)
	}
}

func paintRuled(img *image.RGBA, th *theme.Theme) {
	raster.Fill(img, th.Paper)
	b := img.Bounds()
	for y := ruledTop; y < b.Dy(); y += ruledStep {
		raster.Line(img, 0, y, b.Dx()-1, y, th.GridInk, 1)
	}
	if b.Dx() > marginX {
		raster.Line(img, marginX, 0, marginX, b.Dy()-1, th.AccentInk, 1)
	}
}

func paintDots(img *image.RGBA, th *theme.Theme) {
	raster.Fill(img, th.Paper)
	b := img.Bounds()
	for y := dotStep; y < b.Dy(); y += dotStep {
		for x := dotStep; x < b.Dx(); x += dotStep {
			raster.Dot(img, x, y, 2, th.GridInk)
		}
	}
}

func paintAxes(img *image.RGBA, th *theme.Theme) {
	paintGrid(img, th)
	b := img.Bounds()
	cx := b.Dx() / 2
	cy := b.Dy() / 2
	raster.Arrow(img, 8, cy, b.Dx()-9, cy, th.AccentInk, 1)
	raster.Arrow(img, cx, b.Dy()-9, cx, 8, th.AccentInk, 1)
	raster.FillCircle(img, cx, cy, 3, th.AccentInk)
}

func paintStoryboard(img *image.RGBA, th *theme.Theme) {
	raster.Fill(img, th.Paper)
	b := img.Bounds()
	const cols, rows = 3, 2
	const pad = 16
	const caption = 18
	cellW := (b.Dx() - pad*(cols+1)) / cols
	cellH := (b.Dy() - pad*(rows+1)) / rows
	if cellW < 20 || cellH < caption+20 {
		return
	}
	for row := 0; row < rows; row++ {
		for col := 0; col < cols; col++ {
			x := pad + col*(cellW+pad)
			y := pad + row*(cellH+pad)
			frame := image.Rect(x, y, x+cellW, y+cellH-caption)
			raster.Rect(img, frame, th.AccentInk, 2)
			raster.Line(img, x, y+cellH-4, x+cellW-1, y+cellH-4, th.GridInk, 1)
		}
	}
}

func paintMusic(img *image.RGBA, th *theme.Theme) {
	raster.Fill(img, th.Paper)
	b := img.Bounds()
	const margin = 32
	if b.Dx() <= 2*margin {
		return
	}
	for top := margin; top+4*staffGap < b.Dy()-margin; top += staffStep {
		for i := 0; i < 5; i++ {
			y := top + i*staffGap
			raster.Line(img, margin, y, b.Dx()-margin-1, y, th.AccentInk, 1)
		}
	}
}
