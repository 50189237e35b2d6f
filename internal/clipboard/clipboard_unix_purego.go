//go:build (linux || freebsd || openbsd || netbsd || dragonfly) && !cgo

package clipboard

import (
	"fmt"
	"image"
	"sync"

	"github.com/jezek/xgb"
	"github.com/jezek/xgb/xproto"
)

// connectHost starts the selection host at most once per process via
// initHost; the host window and its serve goroutine live until exit.
func connectHost() (*selectionHost, error) {
	if err := displayGuard(); err != nil {
		return nil, err
	}
	return newSelectionHost()
}

var initHost = sync.OnceValues(connectHost)

// WriteImage publishes img on the CLIPBOARD selection as image/png.
func WriteImage(img image.Image) error {
	h, err := initHost()
	if err != nil {
		return err
	}
	data, err := encodePNG(img)
	if err != nil {
		return err
	}
	return h.publish(holdsImage, data)
}

// ReadImage fetches image/png data from the current clipboard owner.
func ReadImage() (image.Image, error) {
	h, err := initHost()
	if err != nil {
		return nil, err
	}
	data, err := h.fetch(h.atoms.png)
	if err != nil {
		return nil, err
	}
	return decodePNG(data)
}

// WriteText publishes text on the CLIPBOARD selection.
func WriteText(text string) error {
	h, err := initHost()
	if err != nil {
		return err
	}
	return h.publish(holdsText, []byte(text))
}

// ReadText fetches text from the current clipboard owner, preferring
// UTF8_STRING and falling back to the legacy STRING target.
func ReadText() (string, error) {
	h, err := initHost()
	if err != nil {
		return "", err
	}
	data, err := h.fetch(h.atoms.utf8)
	if err != nil {
		data, err = h.fetch(xproto.AtomString)
		if err != nil {
			return "", err
		}
	}
	if len(data) == 0 {
		return "", fmt.Errorf("clipboard does not contain text data")
	}
	// Some owners null-terminate STRING data.
	if data[len(data)-1] == 0 {
		data = data[:len(data)-1]
	}
	return string(data), nil
}

// held is what the selection host currently offers to other clients.
// Owning CLIPBOARD means answering conversion requests for as long as
// the process lives, and the host holds exactly one payload at a time.
type held struct {
	kind heldKind
	data []byte
}

type heldKind int

const (
	holdsNothing heldKind = iota
	holdsText
	holdsImage
)

// selectionHost owns the CLIPBOARD selection through a hidden window
// and serves conversion requests from a background goroutine.
type selectionHost struct {
	conn   *xgb.Conn
	window xproto.Window
	atoms  selAtoms

	mu      sync.RWMutex
	payload held
}

type selAtoms struct {
	clipboard xproto.Atom
	targets   xproto.Atom
	incr      xproto.Atom
	utf8      xproto.Atom
	textPlain xproto.Atom
	png       xproto.Atom
	// transfer is the property our own fetches ask owners to fill.
	transfer xproto.Atom
}

func newSelectionHost() (*selectionHost, error) {
	conn, err := xgb.NewConn()
	if err != nil {
		return nil, err
	}
	screen := xproto.Setup(conn).DefaultScreen(conn)
	win, err := xproto.NewWindowId(conn)
	if err != nil {
		conn.Close()
		return nil, err
	}
	// SelectionRequest and SelectionClear are unmaskable, so the host
	// window needs no event mask of its own.
	err = xproto.CreateWindowChecked(conn, screen.RootDepth, win, screen.Root,
		0, 0, 1, 1, 0, xproto.WindowClassInputOutput, screen.RootVisual,
		0, nil).Check()
	if err != nil {
		conn.Close()
		return nil, err
	}
	atoms, err := internSelAtoms(conn)
	if err != nil {
		xproto.DestroyWindow(conn, win)
		conn.Close()
		return nil, err
	}
	h := &selectionHost{conn: conn, window: win, atoms: atoms}
	go h.serve()
	return h, nil
}

func internSelAtoms(conn *xgb.Conn) (selAtoms, error) {
	names := []string{
		"CLIPBOARD", "TARGETS", "INCR",
		"UTF8_STRING", "text/plain;charset=utf-8", "image/png",
		"INKBOARD_SELECTION",
	}
	got := make([]xproto.Atom, len(names))
	for i, name := range names {
		reply, err := xproto.InternAtom(conn, false, uint16(len(name)), name).Reply()
		if err != nil {
			return selAtoms{}, fmt.Errorf("intern atom %s: %w", name, err)
		}
		got[i] = reply.Atom
	}
	return selAtoms{
		clipboard: got[0],
		targets:   got[1],
		incr:      got[2],
		utf8:      got[3],
		textPlain: got[4],
		png:       got[5],
		transfer:  got[6],
	}, nil
}

func (h *selectionHost) publish(kind heldKind, data []byte) error {
	h.mu.Lock()
	h.payload = held{kind: kind, data: append([]byte(nil), data...)}
	h.mu.Unlock()
	err := xproto.SetSelectionOwnerChecked(h.conn, h.window, h.atoms.clipboard, xproto.TimeCurrentTime).Check()
	if err != nil {
		return fmt.Errorf("own CLIPBOARD selection: %w", err)
	}
	return nil
}

func (h *selectionHost) serve() {
	for {
		ev, err := h.conn.WaitForEvent()
		if err != nil {
			return
		}
		switch e := ev.(type) {
		case xproto.SelectionRequestEvent:
			h.answer(e)
		case xproto.SelectionClearEvent:
			// Another client took the selection; our payload is dead.
			h.mu.Lock()
			h.payload = held{}
			h.mu.Unlock()
		}
	}
}

// answer serves one conversion request. Targets the current payload
// cannot satisfy are refused with a None property, per ICCCM.
func (h *selectionHost) answer(e xproto.SelectionRequestEvent) {
	h.mu.RLock()
	payload := h.payload
	h.mu.RUnlock()

	prop := e.Property
	if prop == xproto.AtomNone {
		prop = e.Target
	}

	typ, format, data, ok := h.convert(payload, e.Target)
	if ok {
		units := uint32(len(data))
		if format == 32 {
			units /= 4
		}
		xproto.ChangeProperty(h.conn, xproto.PropModeReplace, e.Requestor, prop, typ, format, units, data)
	} else {
		prop = xproto.AtomNone
	}

	done := xproto.SelectionNotifyEvent{
		Time:      e.Time,
		Requestor: e.Requestor,
		Selection: e.Selection,
		Target:    e.Target,
		Property:  prop,
	}
	xproto.SendEvent(h.conn, false, e.Requestor, 0, string(done.Bytes()))
}

// convert maps a requested target onto the held payload.
func (h *selectionHost) convert(p held, target xproto.Atom) (typ xproto.Atom, format byte, data []byte, ok bool) {
	switch target {
	case h.atoms.targets:
		offer := []xproto.Atom{h.atoms.targets}
		switch p.kind {
		case holdsText:
			offer = append(offer, h.atoms.utf8, xproto.AtomString, h.atoms.textPlain)
		case holdsImage:
			offer = append(offer, h.atoms.png)
		}
		return xproto.AtomAtom, 32, encodeAtoms(offer), true
	case h.atoms.utf8, h.atoms.textPlain, xproto.AtomString:
		if p.kind != holdsText {
			return 0, 0, nil, false
		}
		return h.atoms.utf8, 8, p.data, true
	case h.atoms.png:
		if p.kind != holdsImage {
			return 0, 0, nil, false
		}
		return h.atoms.png, 8, p.data, true
	}
	return 0, 0, nil, false
}

func encodeAtoms(atoms []xproto.Atom) []byte {
	buf := make([]byte, len(atoms)*4)
	for i, a := range atoms {
		xgb.Put32(buf[i*4:], uint32(a))
	}
	return buf
}

// maxPropertyUnits bounds a single GetProperty read. The length field
// counts 32-bit units, so this allows 64 MiB per read.
const maxPropertyUnits = 1 << 24

// fetch asks the current CLIPBOARD owner to convert its contents to
// target. Owners hand large payloads over via the INCR protocol; both
// the one-shot and the chunked path are handled. A fresh connection is
// used so a fetch never interferes with the host serving its own
// requests.
func (h *selectionHost) fetch(target xproto.Atom) ([]byte, error) {
	conn, err := xgb.NewConn()
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	screen := xproto.Setup(conn).DefaultScreen(conn)
	win, err := xproto.NewWindowId(conn)
	if err != nil {
		return nil, err
	}
	err = xproto.CreateWindowChecked(conn, 0, win, screen.Root, 0, 0, 1, 1, 0,
		xproto.WindowClassInputOnly, 0,
		xproto.CwEventMask, []uint32{xproto.EventMaskPropertyChange}).Check()
	if err != nil {
		return nil, err
	}
	defer xproto.DestroyWindow(conn, win)

	prop := h.atoms.transfer
	if err := xproto.DeletePropertyChecked(conn, win, prop).Check(); err != nil {
		return nil, err
	}
	if err := xproto.ConvertSelectionChecked(conn, win, h.atoms.clipboard, target, prop, xproto.TimeCurrentTime).Check(); err != nil {
		return nil, err
	}

	for {
		ev, werr := conn.WaitForEvent()
		if werr != nil {
			return nil, werr
		}
		sel, ok := ev.(xproto.SelectionNotifyEvent)
		if !ok {
			continue
		}
		if sel.Property == xproto.AtomNone {
			return nil, fmt.Errorf("clipboard owner cannot provide the requested format")
		}
		if sel.Property != prop {
			continue
		}
		// Deleting the property here also tells an INCR owner to start
		// sending chunks.
		reply, err := xproto.GetProperty(conn, true, win, prop, xproto.GetPropertyTypeAny, 0, maxPropertyUnits).Reply()
		if err != nil {
			return nil, err
		}
		if reply.Type == h.atoms.incr {
			return fetchChunks(conn, win, prop)
		}
		return append([]byte(nil), reply.Value...), nil
	}
}

// fetchChunks drains an INCR transfer: each PropertyNewValue carries
// one chunk and an empty chunk ends the transfer.
func fetchChunks(conn *xgb.Conn, win xproto.Window, prop xproto.Atom) ([]byte, error) {
	var out []byte
	for {
		ev, werr := conn.WaitForEvent()
		if werr != nil {
			return nil, werr
		}
		pn, ok := ev.(xproto.PropertyNotifyEvent)
		if !ok || pn.Window != win || pn.Atom != prop || pn.State != xproto.PropertyNewValue {
			continue
		}
		reply, err := xproto.GetProperty(conn, true, win, prop, xproto.GetPropertyTypeAny, 0, maxPropertyUnits).Reply()
		if err != nil {
			return nil, err
		}
		if len(reply.Value) == 0 {
			return out, nil
		}
		out = append(out, reply.Value...)
	}
}
