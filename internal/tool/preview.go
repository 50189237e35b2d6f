package tool

import (
	"image"

	"github.com/example/inkboard/internal/surface"
)

// preview wraps one capture/restore/release cycle. All snapshot traffic in
// this package goes through it, so every gesture path, including
// cancellation, releases the snapshot it acquired.
type preview struct {
	surf *surface.Surface
	h    surface.Handle
	held bool
}

func acquirePreview(surf *surface.Surface) (*preview, error) {
	h, err := surf.Capture()
	if err != nil {
		return nil, err
	}
	return &preview{surf: surf, h: h, held: true}, nil
}

// replay restores the committed baseline and redraws transient content on
// top. It runs once per input event while the preview is live; restoring
// before every redraw is what keeps stale frames from accumulating.
func (p *preview) replay(fn func(img *image.RGBA)) error {
	if !p.held {
		return surface.ErrInvalidSnapshotHandle
	}
	if err := p.surf.Restore(p.h); err != nil {
		p.held = false
		return err
	}
	fn(p.surf.Image())
	return nil
}

// commit restores the baseline, draws the final content once and releases.
func (p *preview) commit(fn func(img *image.RGBA)) error {
	if !p.held {
		return surface.ErrInvalidSnapshotHandle
	}
	p.held = false
	if err := p.surf.Restore(p.h); err != nil {
		_ = p.surf.Release(p.h)
		return err
	}
	fn(p.surf.Image())
	return p.surf.Release(p.h)
}

// cancel restores the baseline and releases without drawing anything.
func (p *preview) cancel() error {
	if !p.held {
		return surface.ErrInvalidSnapshotHandle
	}
	p.held = false
	if err := p.surf.Restore(p.h); err != nil {
		_ = p.surf.Release(p.h)
		return err
	}
	return p.surf.Release(p.h)
}
