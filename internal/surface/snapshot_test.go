package surface

import (
	"bytes"
	"errors"
	"image/color"
	"testing"
)

func TestCaptureWhileOutstandingFails(t *testing.T) {
	s, err := New(30, 30)
	if err != nil {
		t.Fatalf("new surface: %v", err)
	}
	h, err := s.Capture()
	if err != nil {
		t.Fatalf("capture: %v", err)
	}
	if _, err := s.Capture(); !errors.Is(err, ErrConcurrentSnapshot) {
		t.Fatalf("second capture err = %v, want ErrConcurrentSnapshot", err)
	}
	if err := s.Release(h); err != nil {
		t.Fatalf("release: %v", err)
	}
	if _, err := s.Capture(); err != nil {
		t.Fatalf("capture after release: %v", err)
	}
}

func TestRestoreIsIdempotent(t *testing.T) {
	s, err := New(30, 30)
	if err != nil {
		t.Fatalf("new surface: %v", err)
	}
	s.Image().SetRGBA(1, 1, color.RGBA{10, 20, 30, 255})
	h, err := s.Capture()
	if err != nil {
		t.Fatalf("capture: %v", err)
	}
	s.Image().SetRGBA(1, 1, color.RGBA{200, 0, 0, 255})
	s.Image().SetRGBA(2, 2, color.RGBA{200, 0, 0, 255})
	if err := s.Restore(h); err != nil {
		t.Fatalf("restore: %v", err)
	}
	first := append([]uint8(nil), s.Image().Pix...)
	if err := s.Restore(h); err != nil {
		t.Fatalf("second restore: %v", err)
	}
	if !bytes.Equal(first, s.Image().Pix) {
		t.Fatalf("repeated restore changed pixels")
	}
	if got := s.Image().RGBAAt(1, 1); got != (color.RGBA{10, 20, 30, 255}) {
		t.Errorf("restored pixel = %v", got)
	}
	if got := s.Image().RGBAAt(2, 2); got != (color.RGBA{}) {
		t.Errorf("preview pixel survived restore: %v", got)
	}
}

func TestStaleHandleFailsLoudly(t *testing.T) {
	s, err := New(30, 30)
	if err != nil {
		t.Fatalf("new surface: %v", err)
	}
	h, err := s.Capture()
	if err != nil {
		t.Fatalf("capture: %v", err)
	}
	if err := s.Release(h); err != nil {
		t.Fatalf("release: %v", err)
	}
	if err := s.Restore(h); !errors.Is(err, ErrInvalidSnapshotHandle) {
		t.Errorf("restore after release err = %v, want ErrInvalidSnapshotHandle", err)
	}
	if err := s.Release(h); !errors.Is(err, ErrInvalidSnapshotHandle) {
		t.Errorf("double release err = %v, want ErrInvalidSnapshotHandle", err)
	}
	if err := s.Restore(Handle{}); !errors.Is(err, ErrInvalidSnapshotHandle) {
		t.Errorf("zero handle restore err = %v, want ErrInvalidSnapshotHandle", err)
	}
}

func TestHandleFromEarlierCaptureDoesNotMatchLater(t *testing.T) {
	s, err := New(30, 30)
	if err != nil {
		t.Fatalf("new surface: %v", err)
	}
	old, err := s.Capture()
	if err != nil {
		t.Fatalf("capture: %v", err)
	}
	if err := s.Release(old); err != nil {
		t.Fatalf("release: %v", err)
	}
	fresh, err := s.Capture()
	if err != nil {
		t.Fatalf("second capture: %v", err)
	}
	if err := s.Restore(old); !errors.Is(err, ErrInvalidSnapshotHandle) {
		t.Errorf("old handle restore err = %v, want ErrInvalidSnapshotHandle", err)
	}
	if err := s.Release(fresh); err != nil {
		t.Errorf("fresh release: %v", err)
	}
}

func TestResizeInvalidatesSnapshot(t *testing.T) {
	s, err := New(30, 30)
	if err != nil {
		t.Fatalf("new surface: %v", err)
	}
	h, err := s.Capture()
	if err != nil {
		t.Fatalf("capture: %v", err)
	}
	if err := s.Resize(60, 60); err != nil {
		t.Fatalf("resize: %v", err)
	}
	if s.SnapshotHeld() {
		t.Errorf("snapshot survived resize")
	}
	if err := s.Restore(h); !errors.Is(err, ErrInvalidSnapshotHandle) {
		t.Errorf("restore after resize err = %v, want ErrInvalidSnapshotHandle", err)
	}
}

func TestCommittedServesSnapshotDuringPreview(t *testing.T) {
	s, err := New(30, 30)
	if err != nil {
		t.Fatalf("new surface: %v", err)
	}
	s.Image().SetRGBA(5, 5, color.RGBA{1, 2, 3, 255})
	h, err := s.Capture()
	if err != nil {
		t.Fatalf("capture: %v", err)
	}
	s.Image().SetRGBA(5, 5, color.RGBA{250, 250, 250, 255})
	s.Image().SetRGBA(6, 6, color.RGBA{250, 250, 250, 255})
	got := s.Committed()
	if got.RGBAAt(5, 5) != (color.RGBA{1, 2, 3, 255}) {
		t.Errorf("committed copy shows preview pixel at (5,5): %v", got.RGBAAt(5, 5))
	}
	if got.RGBAAt(6, 6) != (color.RGBA{}) {
		t.Errorf("committed copy shows preview pixel at (6,6): %v", got.RGBAAt(6, 6))
	}
	if err := s.Release(h); err != nil {
		t.Fatalf("release: %v", err)
	}
}
