package tool

import (
	"bytes"
	"image"
	"image/color"
	"testing"

	"github.com/example/inkboard/internal/surface"
)

func countPainted(img *image.RGBA, r image.Rectangle) int {
	n := 0
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			if img.RGBAAt(x, y).A != 0 {
				n++
			}
		}
	}
	return n
}

func TestRectangleGestureCommitsExactOutline(t *testing.T) {
	s := newTestSession(t, 100, 80)
	if err := s.SelectTool(Rect); err != nil {
		t.Fatalf("select: %v", err)
	}
	red := color.RGBA{200, 0, 0, 255}
	s.SetStyle(Style{Color: red, Width: 1, FontSize: 16})

	if err := s.BeginGesture(surface.Pt(10, 10), 1); err != nil {
		t.Fatalf("begin: %v", err)
	}
	moves := []surface.Point{
		surface.Pt(90, 70), surface.Pt(15, 12), surface.Pt(60, 55),
		surface.Pt(11, 70), surface.Pt(50, 40),
	}
	for _, p := range moves {
		if err := s.MoveGesture(p); err != nil {
			t.Fatalf("move: %v", err)
		}
	}
	if err := s.EndGesture(surface.Pt(50, 40)); err != nil {
		t.Fatalf("end: %v", err)
	}

	img := s.Surface().Image()
	for _, c := range []image.Point{{10, 10}, {50, 10}, {10, 40}, {50, 40}} {
		if got := img.RGBAAt(c.X, c.Y); got != red {
			t.Errorf("corner %v = %v, want %v", c, got, red)
		}
	}
	if got := img.RGBAAt(30, 25); got.A != 0 {
		t.Errorf("interior painted: outline rectangles must stay hollow")
	}
	// 41x31 outline at width 1: no stray preview pixels may remain.
	want := 2*41 + 2*31 - 4
	if got := countPainted(img, img.Bounds()); got != want {
		t.Errorf("painted pixel count = %d, want %d", got, want)
	}
}

func TestMixedShapeSequenceAllCommitted(t *testing.T) {
	s := newTestSession(t, 100, 80)
	blue := color.RGBA{0, 0, 200, 255}
	green := color.RGBA{0, 150, 0, 255}
	black := color.RGBA{0, 0, 0, 255}

	drag := func(kind Kind, col color.RGBA, from, to surface.Point) {
		t.Helper()
		if err := s.SelectTool(kind); err != nil {
			t.Fatalf("select %s: %v", kind, err)
		}
		s.SetStyle(Style{Color: col, Width: 1, FontSize: 16})
		if err := s.BeginGesture(from, 1); err != nil {
			t.Fatalf("begin %s: %v", kind, err)
		}
		mid := surface.Pt((from.X+to.X)/2, (from.Y+to.Y)/2)
		if err := s.MoveGesture(mid); err != nil {
			t.Fatalf("move %s: %v", kind, err)
		}
		if err := s.EndGesture(to); err != nil {
			t.Fatalf("end %s: %v", kind, err)
		}
	}

	drag(Rect, blue, surface.Pt(5, 5), surface.Pt(25, 20))
	drag(Circle, green, surface.Pt(40, 40), surface.Pt(50, 46))
	drag(Line, black, surface.Pt(5, 60), surface.Pt(60, 63))

	img := s.Surface().Image()
	checks := []struct {
		name string
		at   image.Point
		want color.RGBA
	}{
		{"rect corner", image.Pt(5, 5), blue},
		{"rect far corner", image.Pt(25, 20), blue},
		{"circle right extreme", image.Pt(50, 40), green},
		{"circle left extreme", image.Pt(30, 40), green},
		{"line start", image.Pt(5, 60), black},
		{"line end", image.Pt(60, 63), black},
	}
	for _, c := range checks {
		if got := img.RGBAAt(c.at.X, c.at.Y); got != c.want {
			t.Errorf("%s at %v = %v, want %v", c.name, c.at, got, c.want)
		}
	}
	if s.Surface().SnapshotHeld() {
		t.Errorf("snapshot still held after all gestures finished")
	}
}

func TestTextOverlayTypeAndConfirm(t *testing.T) {
	s := newTestSession(t, 120, 80)
	if err := s.SelectTool(Text); err != nil {
		t.Fatalf("select: %v", err)
	}
	if err := s.BeginGesture(surface.Pt(30, 40), 1); err != nil {
		t.Fatalf("begin: %v", err)
	}
	if err := s.EndGesture(surface.Pt(30, 40)); err != nil {
		t.Fatalf("end: %v", err)
	}
	if !s.TextActive() {
		t.Fatalf("overlay not active after placement")
	}
	if !s.Surface().SnapshotHeld() {
		t.Fatalf("overlay editing must hold the preview snapshot")
	}
	for _, r := range "Hi" {
		if err := s.TypeRune(r); err != nil {
			t.Fatalf("type %q: %v", r, err)
		}
	}
	if got := s.TextContent(); got != "Hi" {
		t.Fatalf("content = %q, want %q", got, "Hi")
	}
	if err := s.ConfirmText(); err != nil {
		t.Fatalf("confirm: %v", err)
	}
	if s.TextActive() || s.Surface().SnapshotHeld() {
		t.Fatalf("confirm left overlay or snapshot behind")
	}
	img := s.Surface().Image()
	if got := countPainted(img, image.Rect(25, 20, 90, 50)); got == 0 {
		t.Errorf("no glyph pixels committed near the anchor")
	}
}

func TestEmptyTextDiscardedOnConfirm(t *testing.T) {
	s := newTestSession(t, 120, 80)
	paintBaseline(s)
	if err := s.SelectTool(Text); err != nil {
		t.Fatalf("select: %v", err)
	}
	before := append([]uint8(nil), s.Surface().Image().Pix...)
	if err := s.BeginGesture(surface.Pt(30, 40), 1); err != nil {
		t.Fatalf("begin: %v", err)
	}
	if err := s.EndGesture(surface.Pt(30, 40)); err != nil {
		t.Fatalf("end: %v", err)
	}
	if err := s.ConfirmText(); err != nil {
		t.Fatalf("confirm: %v", err)
	}
	if !bytes.Equal(before, s.Surface().Image().Pix) {
		t.Fatalf("confirming an empty overlay changed the raster")
	}
	if s.Surface().SnapshotHeld() {
		t.Errorf("empty confirm leaked the snapshot")
	}
}

func TestCancelTextRestoresRaster(t *testing.T) {
	s := newTestSession(t, 120, 80)
	paintBaseline(s)
	if err := s.SelectTool(Text); err != nil {
		t.Fatalf("select: %v", err)
	}
	before := append([]uint8(nil), s.Surface().Image().Pix...)
	if err := s.BeginGesture(surface.Pt(40, 30), 1); err != nil {
		t.Fatalf("begin: %v", err)
	}
	if err := s.EndGesture(surface.Pt(40, 30)); err != nil {
		t.Fatalf("end: %v", err)
	}
	for _, r := range "scrap" {
		if err := s.TypeRune(r); err != nil {
			t.Fatalf("type: %v", err)
		}
	}
	if err := s.CancelText(); err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if !bytes.Equal(before, s.Surface().Image().Pix) {
		t.Fatalf("cancelled text left pixels behind")
	}
	if s.TextActive() {
		t.Errorf("overlay still active after cancel")
	}
}

func TestBackspaceEditsOverlayContent(t *testing.T) {
	s := newTestSession(t, 120, 80)
	if err := s.SelectTool(Text); err != nil {
		t.Fatalf("select: %v", err)
	}
	if err := s.BeginGesture(surface.Pt(20, 30), 1); err != nil {
		t.Fatalf("begin: %v", err)
	}
	if err := s.EndGesture(surface.Pt(20, 30)); err != nil {
		t.Fatalf("end: %v", err)
	}
	for _, r := range "AB" {
		if err := s.TypeRune(r); err != nil {
			t.Fatalf("type: %v", err)
		}
	}
	if err := s.Backspace(); err != nil {
		t.Fatalf("backspace: %v", err)
	}
	if got := s.TextContent(); got != "A" {
		t.Errorf("content = %q, want %q", got, "A")
	}
	if err := s.Backspace(); err != nil {
		t.Fatalf("backspace to empty: %v", err)
	}
	if err := s.Backspace(); err != nil {
		t.Fatalf("backspace on empty overlay: %v", err)
	}
	if got := s.TextContent(); got != "" {
		t.Errorf("content = %q, want empty", got)
	}
	if err := s.CancelText(); err != nil {
		t.Fatalf("cleanup: %v", err)
	}
}

func TestNewPlacementFinalizesOpenOverlay(t *testing.T) {
	s := newTestSession(t, 160, 80)
	if err := s.SelectTool(Text); err != nil {
		t.Fatalf("select: %v", err)
	}
	if err := s.BeginGesture(surface.Pt(20, 40), 1); err != nil {
		t.Fatalf("begin: %v", err)
	}
	if err := s.EndGesture(surface.Pt(20, 40)); err != nil {
		t.Fatalf("end: %v", err)
	}
	if err := s.TypeRune('A'); err != nil {
		t.Fatalf("type: %v", err)
	}

	if err := s.BeginGesture(surface.Pt(100, 40), 1); err != nil {
		t.Fatalf("second begin: %v", err)
	}
	if err := s.EndGesture(surface.Pt(100, 40)); err != nil {
		t.Fatalf("second end: %v", err)
	}
	if got := s.TextContent(); got != "" {
		t.Errorf("fresh overlay content = %q, want empty", got)
	}
	anchor, ok := s.TextAnchor()
	if !ok || anchor != image.Pt(100, 40) {
		t.Errorf("anchor = %v, %v; want (100,40), true", anchor, ok)
	}
	// The first overlay's rune must be committed, not discarded.
	if got := countPainted(s.Surface().Image(), image.Rect(15, 20, 60, 50)); got == 0 {
		t.Errorf("first overlay was not committed before the new placement")
	}
	if err := s.CancelText(); err != nil {
		t.Fatalf("cleanup: %v", err)
	}
}

func TestSelectToolFinalizesOverlay(t *testing.T) {
	s := newTestSession(t, 120, 80)
	if err := s.SelectTool(Text); err != nil {
		t.Fatalf("select: %v", err)
	}
	if err := s.BeginGesture(surface.Pt(30, 40), 1); err != nil {
		t.Fatalf("begin: %v", err)
	}
	if err := s.EndGesture(surface.Pt(30, 40)); err != nil {
		t.Fatalf("end: %v", err)
	}
	if err := s.TypeRune('Z'); err != nil {
		t.Fatalf("type: %v", err)
	}
	if err := s.SelectTool(Freehand); err != nil {
		t.Fatalf("switch: %v", err)
	}
	if s.TextActive() {
		t.Fatalf("overlay survived a tool switch")
	}
	if got := countPainted(s.Surface().Image(), image.Rect(25, 20, 70, 50)); got == 0 {
		t.Errorf("overlay content lost on tool switch, want it committed")
	}
}

func TestOverlayAnchorFollowsDrag(t *testing.T) {
	s := newTestSession(t, 120, 80)
	if err := s.SelectTool(Text); err != nil {
		t.Fatalf("select: %v", err)
	}
	if err := s.BeginGesture(surface.Pt(10, 10), 1); err != nil {
		t.Fatalf("begin: %v", err)
	}
	if err := s.MoveGesture(surface.Pt(55, 35)); err != nil {
		t.Fatalf("move: %v", err)
	}
	if err := s.EndGesture(surface.Pt(55, 35)); err != nil {
		t.Fatalf("end: %v", err)
	}
	anchor, ok := s.TextAnchor()
	if !ok || anchor != image.Pt(55, 35) {
		t.Errorf("anchor = %v, %v; want (55,35), true", anchor, ok)
	}
	if err := s.CancelText(); err != nil {
		t.Fatalf("cleanup: %v", err)
	}
}

func TestParseKindAliases(t *testing.T) {
	cases := []struct {
		in   string
		want Kind
	}{
		{"freehand", Freehand},
		{"pen", Freehand},
		{"draw", Freehand},
		{"eraser", Eraser},
		{"erase", Eraser},
		{"rect", Rect},
		{"rectangle", Rect},
		{"circle", Circle},
		{"ellipse", Circle},
		{"line", Line},
		{"text", Text},
	}
	for _, c := range cases {
		got, err := ParseKind(c.in)
		if err != nil {
			t.Errorf("ParseKind(%q): %v", c.in, err)
			continue
		}
		if got != c.want {
			t.Errorf("ParseKind(%q) = %v, want %v", c.in, got, c.want)
		}
	}
	if _, err := ParseKind("lasso"); err == nil {
		t.Errorf("ParseKind accepted an unknown tool name")
	}
}
