// Package clipboard moves board rasters and text between inkboard and
// the system clipboard. Unix-like systems get one of two backends: the
// golang.design bindings when cgo is available, or a pure Go X11
// selection owner otherwise. Other platforms report clipboard
// operations as unsupported.
package clipboard

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/png"
	"os"
)

var errNoDisplay = errors.New("clipboard initialization requires DISPLAY or WAYLAND_DISPLAY")

// displayGuard fails fast on headless sessions so the first clipboard
// call returns a clear error instead of blocking inside a backend.
func displayGuard() error {
	if os.Getenv("DISPLAY") == "" && os.Getenv("WAYLAND_DISPLAY") == "" {
		return errNoDisplay
	}
	return nil
}

func encodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode clipboard png: %w", err)
	}
	return buf.Bytes(), nil
}

func decodePNG(data []byte) (image.Image, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("clipboard does not contain image data")
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode clipboard png: %w", err)
	}
	return img, nil
}
