package surface

import (
	"errors"
	"image"

	"github.com/google/uuid"
)

// ErrConcurrentSnapshot is returned by Capture while another snapshot is
// outstanding. At most one preview transaction may be open at a time.
var ErrConcurrentSnapshot = errors.New("snapshot already outstanding")

// ErrInvalidSnapshotHandle is returned when Restore or Release is called
// with a handle that was already released, belongs to another capture, or
// was invalidated by a resize.
var ErrInvalidSnapshotHandle = errors.New("invalid snapshot handle")

// Handle identifies one capture. The zero Handle never matches a live
// snapshot.
type Handle struct {
	id uuid.UUID
}

type snapshot struct {
	id   uuid.UUID
	rect image.Rectangle
	pix  []uint8
}

// Capture copies the current raster and returns a handle for restoring it.
// It fails with ErrConcurrentSnapshot if a snapshot is already outstanding;
// that rule is what keeps two preview transactions from interleaving.
func (s *Surface) Capture() (Handle, error) {
	if s.snap != nil {
		return Handle{}, ErrConcurrentSnapshot
	}
	pix := make([]uint8, len(s.buf.Pix))
	copy(pix, s.buf.Pix)
	s.snap = &snapshot{id: uuid.New(), rect: s.buf.Bounds(), pix: pix}
	return Handle{id: s.snap.id}, nil
}

// Restore overwrites the raster with the captured content. Restoring the
// same handle repeatedly yields the same pixels each time.
func (s *Surface) Restore(h Handle) error {
	if s.snap == nil || h.id != s.snap.id {
		return ErrInvalidSnapshotHandle
	}
	copy(s.buf.Pix, s.snap.pix)
	return nil
}

// Release discards the snapshot. The handle is dead afterwards; further
// Restore or Release calls on it fail with ErrInvalidSnapshotHandle.
func (s *Surface) Release(h Handle) error {
	if s.snap == nil || h.id != s.snap.id {
		return ErrInvalidSnapshotHandle
	}
	s.snap = nil
	return nil
}

// SnapshotHeld reports whether a snapshot is outstanding.
func (s *Surface) SnapshotHeld() bool { return s.snap != nil }
