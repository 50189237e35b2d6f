package tool

import (
	"image"
	"image/color"
	"log"

	"github.com/example/inkboard/internal/raster"
	"github.com/example/inkboard/internal/surface"
)

// strategy is the per-tool gesture contract. One strategy value is selected
// at tool-switch time; session state it needs lives on the Session.
type strategy interface {
	begin(s *Session, p surface.Point) error
	move(s *Session, p surface.Point) error
	end(s *Session, p surface.Point) error
	cancel(s *Session) error
}

func strategyFor(k Kind) strategy {
	switch k {
	case Eraser:
		return &strokeStrategy{erase: true}
	case Rect, Circle, Line:
		return &shapeStrategy{kind: k}
	case Text:
		return textStrategy{}
	default:
		return &strokeStrategy{}
	}
}

// strokeStrategy paints freehand strokes segment by segment. Segments are
// committed the moment they are drawn, so there is nothing to undo on
// cancel.
type strokeStrategy struct {
	erase bool
	last  image.Point
}

func (st *strokeStrategy) color(s *Session) color.Color {
	if st.erase {
		return raster.Transparent
	}
	return s.style.Color
}

func (st *strokeStrategy) begin(s *Session, p surface.Point) error {
	st.last = p.ImagePoint()
	raster.Line(s.surf.Image(), st.last.X, st.last.Y, st.last.X, st.last.Y, st.color(s), s.style.Width)
	return nil
}

func (st *strokeStrategy) move(s *Session, p surface.Point) error {
	cur := p.ImagePoint()
	raster.Line(s.surf.Image(), st.last.X, st.last.Y, cur.X, cur.Y, st.color(s), s.style.Width)
	st.last = cur
	return nil
}

func (st *strokeStrategy) end(s *Session, p surface.Point) error {
	cur := p.ImagePoint()
	raster.Line(s.surf.Image(), st.last.X, st.last.Y, cur.X, cur.Y, st.color(s), s.style.Width)
	return nil
}

func (st *strokeStrategy) cancel(s *Session) error { return nil }

// shapeStrategy drives the non-destructive preview for rectangles, circles
// and lines: restore the snapshot, draw the shape for the current pointer
// position, repeat until the gesture ends.
type shapeStrategy struct {
	kind Kind
	pv   *preview
}

func (st *shapeStrategy) begin(s *Session, p surface.Point) error {
	pv, err := acquirePreview(s.surf)
	if err != nil {
		return err
	}
	st.pv = pv
	return nil
}

func (st *shapeStrategy) move(s *Session, p surface.Point) error {
	if st.pv == nil {
		return nil
	}
	origin := s.g.Origin
	style := s.style
	return st.pv.replay(func(img *image.RGBA) {
		drawShape(img, st.kind, origin, p, style)
	})
}

func (st *shapeStrategy) end(s *Session, p surface.Point) error {
	if st.pv == nil {
		return nil
	}
	pv := st.pv
	st.pv = nil
	origin := s.g.Origin
	style := s.style
	return pv.commit(func(img *image.RGBA) {
		drawShape(img, st.kind, origin, p, style)
	})
}

func (st *shapeStrategy) cancel(s *Session) error {
	if st.pv == nil {
		return nil
	}
	pv := st.pv
	st.pv = nil
	return pv.cancel()
}

// drawShape rasterizes one shape spanning origin to current. A zero-size
// shape still commits a degenerate mark instead of disappearing.
func drawShape(img *image.RGBA, kind Kind, origin, current surface.Point, style Style) {
	a := origin.ImagePoint()
	b := current.ImagePoint()
	switch kind {
	case Rect:
		if a == b {
			raster.Dot(img, a.X, a.Y, style.Width, style.Color)
			return
		}
		r := image.Rect(a.X, a.Y, b.X, b.Y)
		// Include both gesture corners; image.Rect treats Max as exclusive.
		r.Max = r.Max.Add(image.Pt(1, 1))
		raster.Rect(img, r, style.Color, style.Width)
	case Circle:
		rx := abs(b.X - a.X)
		ry := abs(b.Y - a.Y)
		raster.Ellipse(img, a.X, a.Y, rx, ry, style.Color, style.Width)
	case Line:
		raster.Line(img, a.X, a.Y, b.X, b.Y, style.Color, style.Width)
	}
}

// textStrategy opens an editable overlay on gesture begin. The overlay is
// re-rendered through the preview snapshot on every edit and rasterized
// exactly once when editing ends.
type textStrategy struct{}

func (textStrategy) begin(s *Session, p surface.Point) error {
	pv, err := acquirePreview(s.surf)
	if err != nil {
		return err
	}
	s.overlay = &textOverlay{pv: pv, anchor: p.ImagePoint()}
	return s.redrawOverlay()
}

func (textStrategy) move(s *Session, p surface.Point) error {
	if s.overlay == nil {
		return nil
	}
	// Dragging before release repositions the anchor.
	s.overlay.anchor = p.ImagePoint()
	return s.redrawOverlay()
}

func (textStrategy) end(s *Session, p surface.Point) error {
	// Editing continues after the press. Commitment happens in ConfirmText
	// or when the next gesture forcibly finalizes the overlay.
	return nil
}

func (textStrategy) cancel(s *Session) error {
	return s.CancelText()
}

type textOverlay struct {
	pv      *preview
	anchor  image.Point
	content []rune
}

func drawOverlayText(img *image.RGBA, ov *textOverlay, style Style, caret bool) {
	text := string(ov.content)
	if caret {
		text += "|"
	}
	if text == "" {
		return
	}
	if err := raster.Text(img, ov.anchor.X, ov.anchor.Y, text, style.Color, style.FontSize); err != nil {
		log.Printf("text overlay: %v", err)
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
