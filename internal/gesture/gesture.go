// Package gesture folds mouse and touch input into one ordered stream of
// begin/move/end/cancel events and hands them to the active tool in logical
// coordinates. Only one gesture runs at a time; extra pointers and stray
// motion are dropped here so tools never have to reason about them.
package gesture

import (
	"golang.org/x/mobile/event/mouse"
	"golang.org/x/mobile/event/touch"

	"github.com/example/inkboard/internal/surface"
)

// mousePointer identifies the mouse in the pointer space otherwise
// occupied by touch sequence numbers, which start at zero.
const mousePointer int64 = -1

// Sink consumes normalized gesture events. Points are logical coordinates.
type Sink interface {
	BeginGesture(p surface.Point, pointer int64) error
	MoveGesture(p surface.Point) error
	EndGesture(p surface.Point) error
	CancelGesture() error
}

// Router tracks the active gesture and converts device coordinates to
// logical space once, before dispatch.
type Router struct {
	surf    *surface.Surface
	sink    Sink
	active  bool
	pointer int64
}

func NewRouter(surf *surface.Surface, sink Sink) *Router {
	return &Router{surf: surf, sink: sink}
}

// Active reports whether a gesture is in progress.
func (r *Router) Active() bool { return r.active }

// Down starts a gesture for the given pointer. While a gesture is in
// progress all other pointers are ignored.
func (r *Router) Down(x, y float32, pointer int64) error {
	if r.active {
		return nil
	}
	p := r.surf.ToLogical(float64(x), float64(y))
	if err := r.sink.BeginGesture(p, pointer); err != nil {
		return err
	}
	r.active = true
	r.pointer = pointer
	return nil
}

// Move forwards motion for the pointer driving the active gesture. Motion
// from any other pointer, and hover with no gesture at all, is dropped.
func (r *Router) Move(x, y float32, pointer int64) error {
	if !r.active || r.pointer != pointer {
		return nil
	}
	return r.sink.MoveGesture(r.surf.ToLogical(float64(x), float64(y)))
}

// Up finishes the active gesture. The router goes idle before the sink
// runs so a failed commit cannot wedge input.
func (r *Router) Up(x, y float32, pointer int64) error {
	if !r.active || r.pointer != pointer {
		return nil
	}
	r.active = false
	return r.sink.EndGesture(r.surf.ToLogical(float64(x), float64(y)))
}

// Cancel aborts the active gesture, if any. Callers must cancel before
// resizing the surface or handing focus away.
func (r *Router) Cancel() error {
	if !r.active {
		return nil
	}
	r.active = false
	return r.sink.CancelGesture()
}

// Mouse routes a shiny mouse event. Only the left button draws; wheel and
// secondary buttons are the caller's business.
func (r *Router) Mouse(e mouse.Event) error {
	switch e.Direction {
	case mouse.DirPress:
		if e.Button != mouse.ButtonLeft {
			return nil
		}
		return r.Down(e.X, e.Y, mousePointer)
	case mouse.DirRelease:
		if e.Button != mouse.ButtonLeft {
			return nil
		}
		return r.Up(e.X, e.Y, mousePointer)
	case mouse.DirNone:
		return r.Move(e.X, e.Y, mousePointer)
	}
	return nil
}

// Touch routes a touch event. The first sequence to begin owns the
// gesture until it ends; concurrent touches are ignored.
func (r *Router) Touch(e touch.Event) error {
	switch e.Type {
	case touch.TypeBegin:
		return r.Down(e.X, e.Y, int64(e.Sequence))
	case touch.TypeMove:
		return r.Move(e.X, e.Y, int64(e.Sequence))
	case touch.TypeEnd:
		return r.Up(e.X, e.Y, int64(e.Sequence))
	}
	return nil
}
