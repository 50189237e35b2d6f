package render

import (
	"image"
	"image/color"
	"image/draw"
	"testing"
)

func opaqueBoard(w, h int, c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), image.NewUniform(c), image.Point{}, draw.Src)
	return img
}

func TestMatteExpandsByMargin(t *testing.T) {
	white := color.RGBA{0xff, 0xff, 0xff, 0xff}
	backdrop := color.RGBA{200, 200, 200, 0xff}
	out := Matte(opaqueBoard(10, 10, white), MatteOptions{
		Margin:   20,
		Backdrop: backdrop,
	})
	if got := out.Bounds(); got.Dx() != 50 || got.Dy() != 50 {
		t.Fatalf("matte bounds = %v, want 50x50", got)
	}
	if got := out.RGBAAt(20, 20); got != white {
		t.Errorf("board origin pixel = %v, want %v", got, white)
	}
	if got := out.RGBAAt(25, 25); got != white {
		t.Errorf("board interior pixel = %v, want %v", got, white)
	}
	if got := out.RGBAAt(5, 5); got != backdrop {
		t.Errorf("margin pixel = %v, want backdrop %v", got, backdrop)
	}
}

func TestMatteWithoutShadowLeavesBackdropClean(t *testing.T) {
	backdrop := color.RGBA{210, 210, 214, 0xff}
	ink := color.RGBA{10, 20, 30, 0xff}
	out := Matte(opaqueBoard(8, 8, ink), MatteOptions{
		Margin:   12,
		Backdrop: backdrop,
	})
	board := image.Rect(12, 12, 20, 20)
	for y := 0; y < out.Bounds().Dy(); y++ {
		for x := 0; x < out.Bounds().Dx(); x++ {
			got := out.RGBAAt(x, y)
			if image.Pt(x, y).In(board) {
				if got != ink {
					t.Fatalf("board pixel (%d,%d) = %v, want %v", x, y, got, ink)
				}
			} else if got != backdrop {
				t.Fatalf("backdrop pixel (%d,%d) = %v, want %v", x, y, got, backdrop)
			}
		}
	}
}

func TestMatteShadowDarkensBackdrop(t *testing.T) {
	backdrop := color.RGBA{200, 200, 200, 0xff}
	out := Matte(opaqueBoard(20, 20, color.RGBA{0xff, 0xff, 0xff, 0xff}), MatteOptions{
		Margin:   30,
		Backdrop: backdrop,
		Shadow: ShadowOptions{
			Radius:  4,
			Offset:  image.Pt(8, 8),
			Opacity: 1,
		},
	})
	// Board occupies [30,50); with the offset the shadow reaches past its
	// bottom-right corner.
	if got := out.RGBAAt(55, 55); got.R >= backdrop.R {
		t.Errorf("shadowed pixel = %v, want darker than backdrop %v", got, backdrop)
	}
	// Top-left margin stays out of the shadow's reach.
	if got := out.RGBAAt(10, 10); got != backdrop {
		t.Errorf("far margin pixel = %v, want clean backdrop %v", got, backdrop)
	}
}

func TestTransparentBoardCastsNoShadow(t *testing.T) {
	backdrop := color.RGBA{220, 220, 220, 0xff}
	out := Matte(image.NewRGBA(image.Rect(0, 0, 16, 16)), MatteOptions{
		Margin:   10,
		Backdrop: backdrop,
		Shadow: ShadowOptions{
			Radius:  3,
			Offset:  image.Pt(5, 5),
			Opacity: 1,
		},
	})
	for y := 0; y < out.Bounds().Dy(); y++ {
		for x := 0; x < out.Bounds().Dx(); x++ {
			if got := out.RGBAAt(x, y); got != backdrop {
				t.Fatalf("pixel (%d,%d) = %v, want %v", x, y, got, backdrop)
			}
		}
	}
}

func TestMatteNegativeMarginClamped(t *testing.T) {
	ink := color.RGBA{1, 2, 3, 0xff}
	out := Matte(opaqueBoard(6, 4, ink), MatteOptions{Margin: -5})
	if got := out.Bounds(); got.Dx() != 6 || got.Dy() != 4 {
		t.Fatalf("matte bounds = %v, want 6x4", got)
	}
	if got := out.RGBAAt(0, 0); got != ink {
		t.Errorf("pixel (0,0) = %v, want %v", got, ink)
	}
}

func TestMatteNilSource(t *testing.T) {
	if out := Matte(nil, DefaultMatteOptions()); out != nil {
		t.Fatalf("Matte(nil) = %v, want nil", out)
	}
}

func TestBlurGraySpreadsMass(t *testing.T) {
	src := image.NewGray(image.Rect(0, 0, 9, 9))
	src.SetGray(4, 4, color.Gray{Y: 255})
	out := blurGray(src, 2)

	if got := out.GrayAt(4, 4).Y; got == 0 {
		t.Errorf("center lost all mass")
	}
	if got := out.GrayAt(6, 6).Y; got == 0 {
		t.Errorf("pixel inside the blur window stayed empty")
	}
	if got := out.GrayAt(7, 4).Y; got != 0 {
		t.Errorf("pixel outside the blur window = %d, want 0", got)
	}
}

func TestBlurGrayZeroRadiusIsIdentity(t *testing.T) {
	src := image.NewGray(image.Rect(0, 0, 5, 5))
	src.SetGray(2, 2, color.Gray{Y: 200})
	if out := blurGray(src, 0); out != src {
		t.Fatalf("zero radius should return the source unchanged")
	}
}
