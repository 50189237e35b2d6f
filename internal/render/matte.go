// Package render composites board rasters for presentation, most notably
// the matte frame used by framed exports. The board is placed on a larger
// backdrop with an even margin and a soft drop shadow so the result reads
// as a mounted sheet rather than a bare bitmap.
package render

import (
	"image"
	"image/color"
	"image/draw"
)

// MatteOptions configures the framed presentation of a board export.
type MatteOptions struct {
	// Margin is the backdrop border, in pixels, added on every side.
	Margin int
	// Backdrop fills the area around and behind the board.
	Backdrop color.RGBA
	Shadow   ShadowOptions
}

// ShadowOptions shapes the drop shadow painted beneath the board.
type ShadowOptions struct {
	Radius  int
	Offset  image.Point
	Opacity float64
}

// DefaultMatteOptions returns the frame used when the caller has no
// preference: a light neutral mount with a soft shadow down-right.
func DefaultMatteOptions() MatteOptions {
	return MatteOptions{
		Margin:   48,
		Backdrop: color.RGBA{R: 233, G: 233, B: 237, A: 0xff},
		Shadow: ShadowOptions{
			Radius:  16,
			Offset:  image.Pt(8, 10),
			Opacity: 0.45,
		},
	}
}

// Matte returns a new image holding img centered on a backdrop with
// MatteOptions applied. The board content starts at (Margin, Margin) in
// the result. The source image is not modified. A nil source returns nil.
func Matte(img *image.RGBA, opts MatteOptions) *image.RGBA {
	if img == nil {
		return nil
	}
	margin := opts.Margin
	if margin < 0 {
		margin = 0
	}
	sb := img.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, sb.Dx()+2*margin, sb.Dy()+2*margin))
	draw.Draw(dst, dst.Bounds(), image.NewUniform(opts.Backdrop), image.Point{}, draw.Src)

	if op := opts.Shadow.Opacity; op > 0 {
		if op > 1 {
			op = 1
		}
		radius := opts.Shadow.Radius
		if radius < 0 {
			radius = 0
		}
		mask := alphaMask(img, radius)
		mask = blurGray(mask, radius)
		ink := color.RGBA{A: uint8(op*255 + 0.5)}
		// The mask carries a radius-wide apron so the blur can spill
		// past the board edge; shift the anchor back by that much.
		anchor := image.Pt(margin-radius, margin-radius).Add(opts.Shadow.Offset)
		draw.DrawMask(dst, mask.Bounds().Add(anchor),
			image.NewUniform(ink), image.Point{},
			mask, mask.Bounds().Min, draw.Over)
	}

	board := image.Rect(margin, margin, margin+sb.Dx(), margin+sb.Dy())
	draw.Draw(dst, board, img, sb.Min, draw.Over)
	return dst
}

// alphaMask extracts the alpha channel of img into a grayscale image
// padded by apron pixels on every side. Erased regions of the board stay
// transparent, so they cast no shadow and the backdrop shows through.
func alphaMask(img *image.RGBA, apron int) *image.Gray {
	sb := img.Bounds()
	mask := image.NewGray(image.Rect(0, 0, sb.Dx()+2*apron, sb.Dy()+2*apron))
	for y := sb.Min.Y; y < sb.Max.Y; y++ {
		for x := sb.Min.X; x < sb.Max.X; x++ {
			a := img.RGBAAt(x, y).A
			if a == 0 {
				continue
			}
			mask.SetGray(x-sb.Min.X+apron, y-sb.Min.Y+apron, color.Gray{Y: a})
		}
	}
	return mask
}

// blurGray applies a two-pass box blur of the given radius using running
// prefix sums, which keeps the cost linear in the pixel count.
func blurGray(src *image.Gray, radius int) *image.Gray {
	if radius <= 0 {
		return src
	}
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	if w == 0 || h == 0 {
		return src
	}

	tmp := image.NewGray(b)
	window := 2*radius + 1

	// Horizontal pass.
	for y := 0; y < h; y++ {
		row := src.Pix[y*src.Stride : y*src.Stride+w]
		sum := 0
		for x := -radius; x <= radius; x++ {
			sum += int(row[clampIndex(x, w)])
		}
		out := tmp.Pix[y*tmp.Stride:]
		for x := 0; x < w; x++ {
			out[x] = uint8(sum / window)
			sum += int(row[clampIndex(x+radius+1, w)])
			sum -= int(row[clampIndex(x-radius, w)])
		}
	}

	// Vertical pass.
	dst := image.NewGray(b)
	for x := 0; x < w; x++ {
		sum := 0
		for y := -radius; y <= radius; y++ {
			sum += int(tmp.Pix[clampIndex(y, h)*tmp.Stride+x])
		}
		for y := 0; y < h; y++ {
			dst.Pix[y*dst.Stride+x] = uint8(sum / window)
			sum += int(tmp.Pix[clampIndex(y+radius+1, h)*tmp.Stride+x])
			sum -= int(tmp.Pix[clampIndex(y-radius, h)*tmp.Stride+x])
		}
	}
	return dst
}

func clampIndex(i, n int) int {
	if i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}
