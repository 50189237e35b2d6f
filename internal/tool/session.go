package tool

import (
	"image"

	"github.com/example/inkboard/internal/surface"
)

// Gesture is the transient state of one pointer interaction.
type Gesture struct {
	Kind    Kind
	Origin  surface.Point
	Current surface.Point
	Pointer int64
}

// Session owns the active tool, the in-flight gesture, the pen style and
// any open text overlay. It is the single place the rest of the program
// talks to, which keeps the one-outstanding-snapshot rule checkable.
type Session struct {
	surf    *surface.Surface
	kind    Kind
	strat   strategy
	g       *Gesture
	style   Style
	overlay *textOverlay
}

// NewSession creates a session drawing onto surf with the freehand tool
// selected.
func NewSession(surf *surface.Surface) *Session {
	return &Session{
		surf:  surf,
		kind:  Freehand,
		strat: &strokeStrategy{},
		style: DefaultStyle(),
	}
}

// Surface returns the surface this session draws onto.
func (s *Session) Surface() *surface.Surface { return s.surf }

// ActiveTool returns the selected tool kind.
func (s *Session) ActiveTool() Kind { return s.kind }

// Style returns the current pen style.
func (s *Session) Style() Style { return s.style }

// SetStyle replaces the pen style.
func (s *Session) SetStyle(st Style) { s.style = st }

// Gesture returns a copy of the active gesture, if any.
func (s *Session) Gesture() (Gesture, bool) {
	if s.g == nil {
		return Gesture{}, false
	}
	return *s.g, true
}

// SelectTool switches the active tool. An in-flight gesture is cancelled
// and an open text overlay is finalized first, so no snapshot can leak
// across the switch.
func (s *Session) SelectTool(k Kind) error {
	err := s.CancelGesture()
	if ferr := s.ConfirmText(); err == nil {
		err = ferr
	}
	s.kind = k
	s.strat = strategyFor(k)
	return err
}

// BeginGesture starts a new gesture at the logical point p. Any open text
// overlay is forcibly finalized and any stale gesture cancelled before the
// new one begins.
func (s *Session) BeginGesture(p surface.Point, pointer int64) error {
	err := s.ConfirmText()
	if cerr := s.CancelGesture(); err == nil {
		err = cerr
	}
	s.g = &Gesture{Kind: s.kind, Origin: p, Current: p, Pointer: pointer}
	if berr := s.strat.begin(s, p); berr != nil {
		s.g = nil
		if err == nil {
			err = berr
		}
	}
	return err
}

// MoveGesture advances the active gesture. Calls with no active gesture are
// dropped.
func (s *Session) MoveGesture(p surface.Point) error {
	if s.g == nil {
		return nil
	}
	s.g.Current = p
	return s.strat.move(s, p)
}

// EndGesture finishes the active gesture, committing its result.
func (s *Session) EndGesture(p surface.Point) error {
	if s.g == nil {
		return nil
	}
	s.g.Current = p
	err := s.strat.end(s, p)
	s.g = nil
	return err
}

// CancelGesture abandons the active gesture. Shape previews are rolled back
// to the committed baseline; freehand segments stay committed.
func (s *Session) CancelGesture() error {
	if s.g == nil {
		return nil
	}
	err := s.strat.cancel(s)
	s.g = nil
	return err
}

// Interrupt cancels any in-flight gesture and discards any open text
// overlay. It runs before operations that invalidate the raster, such as a
// resize or a template change.
func (s *Session) Interrupt() error {
	err := s.CancelGesture()
	if cerr := s.CancelText(); err == nil {
		err = cerr
	}
	return err
}

// TextActive reports whether a text overlay is open for editing.
func (s *Session) TextActive() bool { return s.overlay != nil }

// TextContent returns the overlay content being edited.
func (s *Session) TextContent() string {
	if s.overlay == nil {
		return ""
	}
	return string(s.overlay.content)
}

// TextAnchor returns the overlay anchor in raster coordinates.
func (s *Session) TextAnchor() (image.Point, bool) {
	if s.overlay == nil {
		return image.Point{}, false
	}
	return s.overlay.anchor, true
}

// TypeRune appends a rune to the overlay being edited.
func (s *Session) TypeRune(r rune) error {
	if s.overlay == nil {
		return nil
	}
	s.overlay.content = append(s.overlay.content, r)
	return s.redrawOverlay()
}

// Backspace removes the last rune from the overlay being edited.
func (s *Session) Backspace() error {
	if s.overlay == nil || len(s.overlay.content) == 0 {
		return nil
	}
	s.overlay.content = s.overlay.content[:len(s.overlay.content)-1]
	return s.redrawOverlay()
}

func (s *Session) redrawOverlay() error {
	ov := s.overlay
	style := s.style
	return ov.pv.replay(func(img *image.RGBA) {
		drawOverlayText(img, ov, style, true)
	})
}

// ConfirmText rasterizes the overlay content once onto the surface and
// closes the editor. Empty content is discarded without committing
// anything. With no overlay open it is a no-op.
func (s *Session) ConfirmText() error {
	ov := s.overlay
	if ov == nil {
		return nil
	}
	s.overlay = nil
	if len(ov.content) == 0 {
		return ov.pv.cancel()
	}
	style := s.style
	return ov.pv.commit(func(img *image.RGBA) {
		drawOverlayText(img, ov, style, false)
	})
}

// CancelText discards the overlay and its content without committing.
func (s *Session) CancelText() error {
	ov := s.overlay
	if ov == nil {
		return nil
	}
	s.overlay = nil
	return ov.pv.cancel()
}
