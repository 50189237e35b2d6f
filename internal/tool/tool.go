// Package tool implements the drawing tools and the session state machine
// that drives them. Freehand and eraser strokes paint incrementally; shape
// and text tools preview through the surface snapshot store and commit once
// on gesture end.
package tool

import (
	"fmt"
	"image/color"
	"strings"

	"github.com/example/inkboard/internal/raster"
)

// Kind identifies one of the closed set of drawing tools.
type Kind int

const (
	Freehand Kind = iota
	Eraser
	Rect
	Circle
	Line
	Text
)

// Kinds returns every tool kind in display order.
func Kinds() []Kind {
	return []Kind{Freehand, Eraser, Rect, Circle, Line, Text}
}

func (k Kind) String() string {
	switch k {
	case Freehand:
		return "freehand"
	case Eraser:
		return "eraser"
	case Rect:
		return "rect"
	case Circle:
		return "circle"
	case Line:
		return "line"
	case Text:
		return "text"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// ParseKind maps a tool name from the CLI or config file to its Kind.
func ParseKind(name string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "freehand", "pen", "draw":
		return Freehand, nil
	case "eraser", "erase":
		return Eraser, nil
	case "rect", "rectangle":
		return Rect, nil
	case "circle", "ellipse":
		return Circle, nil
	case "line":
		return Line, nil
	case "text":
		return Text, nil
	}
	return 0, fmt.Errorf("unknown tool %q", name)
}

// Style carries the pen settings shared by all tools.
type Style struct {
	Color    color.RGBA
	Width    int
	FontSize float64
}

// DefaultStyle returns the style used before any selection is made.
func DefaultStyle() Style {
	return Style{
		Color:    color.RGBA{A: 255},
		Width:    2,
		FontSize: raster.DefaultTextSize(),
	}
}
