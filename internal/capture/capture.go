// Package capture grabs the desktop so a board can be seeded from
// whatever is currently on screen.
package capture

import (
	"fmt"
	"image"
)

// Options controls how the desktop is captured.
type Options struct {
	// IncludeCursor asks the compositor to embed the pointer. Only the
	// portal path honors it; a direct X grab never sees the cursor.
	IncludeCursor bool
}

// Function seams so tests can exercise the fallback chain without a
// display server.
var (
	x11ScreenFn        = x11Screen
	portalScreenshotFn = portalScreenshot
)

// Screen captures the full desktop. A direct X11 grab is attempted first;
// compositors that refuse it (Wayland) are served through the screenshot
// portal instead.
func Screen(opts Options) (*image.RGBA, error) {
	img, directErr := x11ScreenFn(opts)
	if directErr == nil {
		return img, nil
	}
	img, portalErr := portalScreenshotFn(false, opts)
	if portalErr != nil {
		return nil, fmt.Errorf("x11 capture: %v; portal fallback: %w", directErr, portalErr)
	}
	return img, nil
}
