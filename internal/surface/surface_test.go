package surface

import (
	"errors"
	"image/color"
	"math"
	"testing"
)

func TestRoundTripConversion(t *testing.T) {
	cases := []struct {
		name string
		zoom float64
		panX float64
		panY float64
	}{
		{name: "identity", zoom: 1, panX: 0, panY: 0},
		{name: "zoomed", zoom: 2.5, panX: 0, panY: 0},
		{name: "panned", zoom: 1, panX: -33.5, panY: 12.25},
		{name: "zoomed and panned", zoom: 0.4, panX: 101.5, panY: -7},
	}
	points := []Point{{0, 0}, {10, 10}, {123.4, 56.7}, {-5.5, 300.9}}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s, err := New(640, 480, WithZoomRange(0.1, 8))
			if err != nil {
				t.Fatalf("new surface: %v", err)
			}
			s.SetZoom(tc.zoom)
			s.SetPan(tc.panX, tc.panY)
			for _, p := range points {
				dx, dy := s.ToDevice(p)
				rx, ry := s.ToDevice(s.ToLogical(dx, dy))
				if math.Abs(rx-dx) > 1e-9 || math.Abs(ry-dy) > 1e-9 {
					t.Errorf("round trip of %v: got (%g,%g), want (%g,%g)", p, rx, ry, dx, dy)
				}
			}
		})
	}
}

func TestToLogicalInvertsToDevice(t *testing.T) {
	s, err := New(800, 600)
	if err != nil {
		t.Fatalf("new surface: %v", err)
	}
	s.SetZoom(2)
	s.SetPan(40, -16)
	p := Pt(37.5, 91.25)
	dx, dy := s.ToDevice(p)
	back := s.ToLogical(dx, dy)
	if math.Abs(back.X-p.X) > 1e-9 || math.Abs(back.Y-p.Y) > 1e-9 {
		t.Fatalf("inverse mismatch: got %v, want %v", back, p)
	}
}

func TestSetZoomClamps(t *testing.T) {
	s, err := New(400, 300)
	if err != nil {
		t.Fatalf("new surface: %v", err)
	}
	s.SetZoom(100)
	if got := s.Zoom(); got != defaultMaxZoom {
		t.Errorf("zoom after overscale = %g, want %g", got, defaultMaxZoom)
	}
	s.SetZoom(0.001)
	if got := s.Zoom(); got != defaultMinZoom {
		t.Errorf("zoom after underscale = %g, want %g", got, defaultMinZoom)
	}
}

func TestSetZoomPivotsViewportCentre(t *testing.T) {
	s, err := New(400, 300)
	if err != nil {
		t.Fatalf("new surface: %v", err)
	}
	s.SetPan(25, -10)
	before := s.ToLogical(200, 150)
	s.SetZoom(2)
	after := s.ToLogical(200, 150)
	if math.Abs(before.X-after.X) > 1e-9 || math.Abs(before.Y-after.Y) > 1e-9 {
		t.Fatalf("viewport centre moved: before %v, after %v", before, after)
	}
}

func TestResizeRejectsDegenerateDimensions(t *testing.T) {
	s, err := New(100, 100)
	if err != nil {
		t.Fatalf("new surface: %v", err)
	}
	s.Image().SetRGBA(5, 5, color.RGBA{255, 0, 0, 255})
	for _, dims := range [][2]int{{0, 50}, {50, 0}, {-1, 50}, {50, -20}, {0, 0}} {
		if err := s.Resize(dims[0], dims[1]); !errors.Is(err, ErrDegenerateResize) {
			t.Errorf("resize %v: err = %v, want ErrDegenerateResize", dims, err)
		}
	}
	if w, h := s.Size(); w != 100 || h != 100 {
		t.Errorf("dimensions changed by rejected resize: %dx%d", w, h)
	}
	if got := s.Image().RGBAAt(5, 5); got != (color.RGBA{255, 0, 0, 255}) {
		t.Errorf("raster changed by rejected resize: %v", got)
	}
}

func TestResizePreservesZoomAndClearsContent(t *testing.T) {
	s, err := New(100, 100)
	if err != nil {
		t.Fatalf("new surface: %v", err)
	}
	s.SetZoom(2)
	s.SetPan(7, 9)
	s.Image().SetRGBA(10, 10, color.RGBA{0, 0, 255, 255})
	if err := s.Resize(200, 150); err != nil {
		t.Fatalf("resize: %v", err)
	}
	if w, h := s.Size(); w != 200 || h != 150 {
		t.Errorf("size after resize = %dx%d, want 200x150", w, h)
	}
	if got := s.Zoom(); got != 2 {
		t.Errorf("zoom after resize = %g, want 2", got)
	}
	if px, py := s.Pan(); px != 7 || py != 9 {
		t.Errorf("pan after resize = (%g,%g), want (7,9)", px, py)
	}
	if got := s.Image().RGBAAt(10, 10); got != (color.RGBA{}) {
		t.Errorf("content survived resize: %v", got)
	}
}

func TestResizeAppliesDensity(t *testing.T) {
	s, err := New(100, 50, WithDensity(2))
	if err != nil {
		t.Fatalf("new surface: %v", err)
	}
	if w, h := s.Size(); w != 200 || h != 100 {
		t.Errorf("size = %dx%d, want 200x100", w, h)
	}
	if vw, vh := s.ViewSize(); vw != 100 || vh != 50 {
		t.Errorf("view size = %dx%d, want 100x50", vw, vh)
	}
}

func TestCommittedReturnsCopy(t *testing.T) {
	s, err := New(20, 20)
	if err != nil {
		t.Fatalf("new surface: %v", err)
	}
	s.Image().SetRGBA(3, 3, color.RGBA{0, 255, 0, 255})
	got := s.Committed()
	if got.RGBAAt(3, 3) != (color.RGBA{0, 255, 0, 255}) {
		t.Fatalf("committed copy missing pixel")
	}
	got.SetRGBA(4, 4, color.RGBA{255, 0, 0, 255})
	if s.Image().RGBAAt(4, 4) != (color.RGBA{}) {
		t.Errorf("mutating the copy leaked into the live raster")
	}
}
