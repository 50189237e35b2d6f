package export

import (
	"bytes"
	"fmt"
	"image"
	"image/png"

	"github.com/jung-kurt/gofpdf"
)

// pdfMargin is the page border, in millimeters, kept clear around the board.
const pdfMargin = 10.0

// PDF writes img as a single A4 page, scaled to fit inside the page
// margins without distortion. Landscape pages are used for boards wider
// than tall, portrait otherwise.
func PDF(path string, img *image.RGBA, o Options) error {
	if img == nil {
		return fmt.Errorf("export pdf: %w", errNilImage)
	}
	img = o.apply(img)

	iw := float64(img.Bounds().Dx())
	ih := float64(img.Bounds().Dy())
	if iw == 0 || ih == 0 {
		return fmt.Errorf("export pdf: empty image")
	}

	orientation := "L"
	if ih > iw {
		orientation = "P"
	}
	doc := gofpdf.New(orientation, "mm", "A4", "")
	doc.AddPage()

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return fmt.Errorf("export pdf: %w", err)
	}
	opt := gofpdf.ImageOptions{ImageType: "PNG"}
	doc.RegisterImageOptionsReader("board", opt, &buf)

	pw, ph := doc.GetPageSize()
	availW := pw - 2*pdfMargin
	availH := ph - 2*pdfMargin
	w := availW
	h := availW * ih / iw
	if h > availH {
		h = availH
		w = availH * iw / ih
	}
	x := pdfMargin + (availW-w)/2
	y := pdfMargin + (availH-h)/2
	doc.ImageOptions("board", x, y, w, h, false, opt, 0, "")

	if err := doc.OutputFileAndClose(path); err != nil {
		return fmt.Errorf("export pdf: %w", err)
	}
	return nil
}
