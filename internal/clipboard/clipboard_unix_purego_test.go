//go:build (linux || freebsd || openbsd || netbsd || dragonfly) && !cgo

package clipboard

import (
	"errors"
	"sync"
	"testing"

	"github.com/jezek/xgb"
	"github.com/jezek/xgb/xproto"
)

func TestHostInitWithoutDisplay(t *testing.T) {
	t.Setenv("DISPLAY", "")
	t.Setenv("WAYLAND_DISPLAY", "")

	initHost = sync.OnceValues(connectHost)

	if err := WriteText("scratch board"); !errors.Is(err, errNoDisplay) {
		t.Fatalf("expected errNoDisplay, got %v", err)
	}
	if _, err := ReadImage(); !errors.Is(err, errNoDisplay) {
		t.Fatalf("expected errNoDisplay from ReadImage, got %v", err)
	}
}

func testHost() *selectionHost {
	return &selectionHost{atoms: selAtoms{
		clipboard: 100, targets: 101, incr: 102,
		utf8: 103, textPlain: 104, png: 105, transfer: 106,
	}}
}

func TestConvertOffersHeldTargetsOnly(t *testing.T) {
	h := testHost()

	typ, format, data, ok := h.convert(held{kind: holdsText, data: []byte("hi")}, h.atoms.targets)
	if !ok || typ != xproto.AtomAtom || format != 32 {
		t.Fatalf("targets reply = type %d format %d ok %v", typ, format, ok)
	}
	if len(data)/4 != 4 {
		t.Fatalf("text offer lists %d atoms, want 4", len(data)/4)
	}

	_, _, data, ok = h.convert(held{kind: holdsImage, data: []byte{1}}, h.atoms.targets)
	if !ok || len(data)/4 != 2 {
		t.Fatalf("image offer lists %d atoms, want 2", len(data)/4)
	}
}

func TestConvertRefusesMismatchedTarget(t *testing.T) {
	h := testHost()
	if _, _, _, ok := h.convert(held{kind: holdsText, data: []byte("hi")}, h.atoms.png); ok {
		t.Fatal("png target served from a text payload")
	}
	if _, _, _, ok := h.convert(held{}, h.atoms.utf8); ok {
		t.Fatal("utf8 target served from an empty payload")
	}
	if _, _, _, ok := h.convert(held{kind: holdsImage, data: []byte{1}}, 999); ok {
		t.Fatal("unknown target served")
	}
}

func TestConvertServesTextAliases(t *testing.T) {
	h := testHost()
	for _, target := range []xproto.Atom{h.atoms.utf8, h.atoms.textPlain, xproto.AtomString} {
		typ, format, data, ok := h.convert(held{kind: holdsText, data: []byte("board")}, target)
		if !ok || typ != h.atoms.utf8 || format != 8 || string(data) != "board" {
			t.Fatalf("target %d: type %d format %d data %q ok %v", target, typ, format, data, ok)
		}
	}
}

func TestEncodeAtoms(t *testing.T) {
	buf := encodeAtoms([]xproto.Atom{1, 0x01020304})
	if len(buf) != 8 {
		t.Fatalf("len = %d, want 8", len(buf))
	}
	if got := xgb.Get32(buf[4:]); got != 0x01020304 {
		t.Fatalf("second atom = %#x", got)
	}
}
