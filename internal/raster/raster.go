// Package raster provides the pixel-level drawing primitives the board
// paints with. Every primitive clips to the destination bounds and writes
// pixel values directly, so painting with a zero-alpha colour erases to
// transparency.
package raster

import (
	"image"
	"image/color"
	"image/draw"
	"math"
)

// Transparent is the colour the eraser paints with.
var Transparent = color.RGBA{}

// set writes one pixel when it lies inside dst.
func set(dst *image.RGBA, x, y int, col color.Color) {
	if image.Pt(x, y).In(dst.Bounds()) {
		dst.Set(x, y, col)
	}
}

func iabs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// Dot stamps a thick pixel centred on (x, y).
func Dot(img *image.RGBA, x, y, thick int, col color.Color) {
	r := thick / 2
	if r < 0 {
		return
	}
	span := image.Rect(x-r, y-r, x+r+1, y+r+1).Intersect(img.Bounds())
	for py := span.Min.Y; py < span.Max.Y; py++ {
		for px := span.Min.X; px < span.Max.X; px++ {
			img.Set(px, py, col)
		}
	}
}

// Line draws a thick line between (x0, y0) and (x1, y1). Both endpoints are
// painted; a zero-length line degenerates to a single dot.
func Line(img *image.RGBA, x0, y0, x1, y1 int, col color.Color, thick int) {
	dx, dy := iabs(x1-x0), iabs(y1-y0)
	sx, sy := 1, 1
	if x1 < x0 {
		sx = -1
	}
	if y1 < y0 {
		sy = -1
	}
	diff := dx - dy
	for {
		Dot(img, x0, y0, thick, col)
		if x0 == x1 && y0 == y1 {
			return
		}
		step := 2 * diff
		if step > -dy {
			diff -= dy
			x0 += sx
		}
		if step < dx {
			diff += dx
			y0 += sy
		}
	}
}

// circleRing walks one octant of the midpoint circle and mirrors each
// step into the other seven.
func circleRing(img *image.RGBA, cx, cy, r int, col color.Color) {
	x, y := r, 0
	diff := 1 - r
	for x >= y {
		set(img, cx+x, cy+y, col)
		set(img, cx+y, cy+x, col)
		set(img, cx-y, cy+x, col)
		set(img, cx-x, cy+y, col)
		set(img, cx-x, cy-y, col)
		set(img, cx-y, cy-x, col)
		set(img, cx+y, cy-x, col)
		set(img, cx+x, cy-y, col)
		y++
		if diff < 0 {
			diff += 2*y + 1
		} else {
			x--
			diff += 2 * (y - x + 1)
		}
	}
}

// Circle draws a circle outline of the given radius. Thickness grows the
// ring inward and outward equally.
func Circle(img *image.RGBA, cx, cy, r int, col color.Color, thick int) {
	if thick <= 0 {
		circleRing(img, cx, cy, r, col)
		return
	}
	inner := r - thick/2
	for rr := inner; rr < inner+thick; rr++ {
		if rr >= 0 {
			circleRing(img, cx, cy, rr, col)
		}
	}
}

// Ellipse draws an ellipse outline centred on (cx, cy) with radii rx and ry.
// Zero radii degenerate to a dot.
func Ellipse(img *image.RGBA, cx, cy, rx, ry int, col color.Color, thick int) {
	// Equal radii take the exact midpoint walk.
	if rx == ry {
		Circle(img, cx, cy, rx, col, thick)
		return
	}
	steps := int(math.Ceil(2 * math.Pi * math.Sqrt(float64(rx*rx+ry*ry))))
	if steps < 8 {
		steps = 8
	}
	at := func(i int) (int, int) {
		a := 2 * math.Pi * float64(i) / float64(steps)
		return cx + int(math.Cos(a)*float64(rx)), cy + int(math.Sin(a)*float64(ry))
	}
	px, py := at(0)
	Dot(img, px, py, thick, col)
	for i := 1; i <= steps; i++ {
		x, y := at(i)
		Line(img, px, py, x, y, col, thick)
		px, py = x, y
	}
}

// Rect draws a rectangle outline. The rectangle's Max is exclusive, matching
// image.Rectangle.
func Rect(img *image.RGBA, rect image.Rectangle, col color.Color, thick int) {
	Line(img, rect.Min.X, rect.Min.Y, rect.Max.X-1, rect.Min.Y, col, thick)
	Line(img, rect.Max.X-1, rect.Min.Y, rect.Max.X-1, rect.Max.Y-1, col, thick)
	Line(img, rect.Max.X-1, rect.Max.Y-1, rect.Min.X, rect.Max.Y-1, col, thick)
	Line(img, rect.Min.X, rect.Max.Y-1, rect.Min.X, rect.Min.Y, col, thick)
}

// Arrow draws a line with an arrowhead at (x1, y1).
func Arrow(img *image.RGBA, x0, y0, x1, y1 int, col color.Color, thick int) {
	Line(img, x0, y0, x1, y1, col, thick)
	heading := math.Atan2(float64(y1-y0), float64(x1-x0))
	barb := float64(6 + thick*2)
	for _, a := range [2]float64{heading + math.Pi/6, heading - math.Pi/6} {
		bx := x1 - int(math.Cos(a)*barb)
		by := y1 - int(math.Sin(a)*barb)
		Line(img, x1, y1, bx, by, col, thick)
	}
}

// FillCircle draws a filled disc.
func FillCircle(img *image.RGBA, cx, cy, r int, col color.Color) {
	for dy := -r; dy <= r; dy++ {
		half := int(math.Sqrt(float64(r*r - dy*dy)))
		for dx := -half; dx <= half; dx++ {
			set(img, cx+dx, cy+dy, col)
		}
	}
}

// DashedLine draws an axis-aligned line alternating between c1 and c2
// every dash pixels. Thickness extends below a horizontal line and right
// of a vertical one.
func DashedLine(img *image.RGBA, x0, y0, x1, y1, dash, thickness int, c1, c2 color.Color) {
	if dash < 1 {
		dash = 1
	}
	var stepX, stepY, length int
	if y0 == y1 {
		length = iabs(x1 - x0)
		stepX = 1
		if x1 < x0 {
			stepX = -1
		}
	} else {
		length = iabs(y1 - y0)
		stepY = 1
		if y1 < y0 {
			stepY = -1
		}
	}
	for i := 0; i <= length; i++ {
		col := c1
		if (i/dash)%2 == 1 {
			col = c2
		}
		x, y := x0+i*stepX, y0+i*stepY
		for t := 0; t < thickness; t++ {
			if stepY == 0 {
				set(img, x, y+t, col)
			} else {
				set(img, x+t, y, col)
			}
		}
	}
}

// DashedRect draws a dashed rectangle outline. Max is exclusive, matching
// image.Rectangle.
func DashedRect(img *image.RGBA, rect image.Rectangle, dash, thickness int, c1, c2 color.Color) {
	DashedLine(img, rect.Min.X, rect.Min.Y, rect.Max.X-1, rect.Min.Y, dash, thickness, c1, c2)
	DashedLine(img, rect.Min.X, rect.Max.Y-1, rect.Max.X-1, rect.Max.Y-1, dash, thickness, c1, c2)
	DashedLine(img, rect.Min.X, rect.Min.Y, rect.Min.X, rect.Max.Y-1, dash, thickness, c1, c2)
	DashedLine(img, rect.Max.X-1, rect.Min.Y, rect.Max.X-1, rect.Max.Y-1, dash, thickness, c1, c2)
}

// Fill paints the whole raster with a uniform colour.
func Fill(img *image.RGBA, col color.Color) {
	draw.Draw(img, img.Bounds(), image.NewUniform(col), image.Point{}, draw.Src)
}

// Clear resets the whole raster to transparency.
func Clear(img *image.RGBA) {
	draw.Draw(img, img.Bounds(), image.Transparent, image.Point{}, draw.Src)
}

// Checkerboard fills rect with an alternating pattern of the given colours.
// size controls the checker square size.
func Checkerboard(dst *image.RGBA, rect image.Rectangle, size int, light, dark color.Color) {
	for y := rect.Min.Y; y < rect.Max.Y; y++ {
		for x := rect.Min.X; x < rect.Max.X; x++ {
			if ((x/size)+(y/size))%2 == 0 {
				dst.Set(x, y, light)
			} else {
				dst.Set(x, y, dark)
			}
		}
	}
}
