package main

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/example/inkboard/internal/theme"
)

func decodeBoard(t *testing.T, path string) image.Image {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open %s: %v", path, err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatalf("decode %s: %v", path, err)
	}
	return img
}

func rgbaAt(img image.Image, x, y int) color.RGBA {
	return color.RGBAModel.Convert(img.At(x, y)).(color.RGBA)
}

func containsColor(img image.Image, want color.RGBA) bool {
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if rgbaAt(img, x, y) == want {
				return true
			}
		}
	}
	return false
}

func TestDrawLineOnFreshBoard(t *testing.T) {
	out := filepath.Join(t.TempDir(), "board.png")
	cmd, err := parseDrawCmd([]string{
		"-template", "blank", "-size", "64x48", "-output", out,
		"-color", "red", "-width", "3",
		"line", "4", "24", "60", "24",
	}, nil)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if err := cmd.Run(); err != nil {
		t.Fatalf("run: %v", err)
	}
	img := decodeBoard(t, out)
	if got := img.Bounds().Size(); got != image.Pt(64, 48) {
		t.Fatalf("unexpected size %v", got)
	}
	if got := rgbaAt(img, 32, 24); got != (color.RGBA{255, 0, 0, 255}) {
		t.Fatalf("expected red stroke at (32,24), got %v", got)
	}
	if got := rgbaAt(img, 32, 4); got != theme.Default().Paper {
		t.Fatalf("expected clean paper at (32,4), got %v", got)
	}
}

func TestDrawEraseCutsHole(t *testing.T) {
	out := filepath.Join(t.TempDir(), "board.png")
	cmd, err := parseDrawCmd([]string{
		"-template", "blank", "-size", "64x48", "-output", out,
		"-width", "5",
		"erase", "0", "24", "63", "24",
	}, nil)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if err := cmd.Run(); err != nil {
		t.Fatalf("run: %v", err)
	}
	img := decodeBoard(t, out)
	if _, _, _, a := img.At(32, 24).RGBA(); a != 0 {
		t.Fatalf("expected erased pixel to be transparent, got alpha %d", a)
	}
	if got := rgbaAt(img, 32, 4); got != theme.Default().Paper {
		t.Fatalf("expected clean paper at (32,4), got %v", got)
	}
}

func TestDrawTextCommitsInk(t *testing.T) {
	out := filepath.Join(t.TempDir(), "board.png")
	cmd, err := parseDrawCmd([]string{
		"-template", "blank", "-size", "200x80", "-output", out,
		"-color", "navy",
		"text", "12", "16", "Hi",
	}, nil)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if err := cmd.Run(); err != nil {
		t.Fatalf("run: %v", err)
	}
	img := decodeBoard(t, out)
	if !containsColor(img, color.RGBA{0, 0, 128, 255}) {
		t.Fatalf("expected navy text ink on the board")
	}
}

func TestDrawRectOnExistingFile(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in.png")
	rc, err := parseRenderCmd([]string{"-size", "80x60", "-output", in, "blank"}, testRoot())
	if err != nil {
		t.Fatalf("parse render: %v", err)
	}
	if err := rc.Run(); err != nil {
		t.Fatalf("render: %v", err)
	}

	out := filepath.Join(dir, "out.png")
	cmd, err := parseDrawCmd([]string{
		"-file", in, "-output", out, "-color", "black", "-width", "1",
		"rect", "10", "10", "70", "50",
	}, nil)
	if err != nil {
		t.Fatalf("parse draw: %v", err)
	}
	if err := cmd.Run(); err != nil {
		t.Fatalf("draw: %v", err)
	}
	img := decodeBoard(t, out)
	if got := rgbaAt(img, 10, 30); got != (color.RGBA{0, 0, 0, 255}) {
		t.Fatalf("expected rect edge at (10,30), got %v", got)
	}
	if got := rgbaAt(img, 40, 30); got != theme.Default().Paper {
		t.Fatalf("expected paper inside the rect, got %v", got)
	}
}

func TestRenderGridUsesGridInk(t *testing.T) {
	out := filepath.Join(t.TempDir(), "grid.png")
	cmd, err := parseRenderCmd([]string{"-size", "96x64", "-output", out, "grid"}, testRoot())
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if err := cmd.Run(); err != nil {
		t.Fatalf("run: %v", err)
	}
	img := decodeBoard(t, out)
	if got := img.Bounds().Size(); got != image.Pt(96, 64) {
		t.Fatalf("unexpected size %v", got)
	}
	if !containsColor(img, theme.Default().GridInk) {
		t.Fatalf("expected grid ink in the render")
	}
}
