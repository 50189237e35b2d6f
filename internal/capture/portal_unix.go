//go:build linux || freebsd || openbsd || netbsd || dragonfly

package capture

import (
	"errors"
	"fmt"
	"image"
	"image/draw"
	"image/png"
	"os"
	"strings"
	"sync/atomic"
	"time"

	"github.com/godbus/dbus/v5"
)

const (
	portalDest       = "org.freedesktop.portal.Desktop"
	portalObjectPath = "/org/freedesktop/portal/desktop"
	screenshotMethod = "org.freedesktop.portal.Screenshot.Screenshot"
	responseSignal   = "org.freedesktop.portal.Request.Response"

	// portalWait bounds how long a screenshot request may sit
	// unanswered, so a seeding capture cannot hang the command forever.
	portalWait = 30 * time.Second
)

var tokenSeq atomic.Uint64

// newPortalHandleToken returns a token unique within this session, as the
// portal requires to route the Response signal back to the request.
func newPortalHandleToken() string {
	return fmt.Sprintf("inkboard_%d_%d", os.Getpid(), tokenSeq.Add(1))
}

// portalScreenshot captures the desktop through the XDG screenshot
// portal. The portal answers with a Response signal naming a PNG file,
// which is loaded and removed.
func portalScreenshot(interactive bool, captureOpts Options) (*image.RGBA, error) {
	conn, err := dbus.ConnectSessionBus()
	if err != nil {
		return nil, fmt.Errorf("dbus connect: %w", err)
	}
	defer func() {
		if cerr := conn.Close(); cerr != nil {
			fmt.Fprintf(os.Stderr, "dbus close: %v\n", cerr)
		}
	}()

	cursorMode := "hidden"
	if captureOpts.IncludeCursor {
		cursorMode = "embedded"
	}
	reqOpts := map[string]dbus.Variant{
		"handle_token": dbus.MakeVariant(newPortalHandleToken()),
		"interactive":  dbus.MakeVariant(interactive),
		"modal":        dbus.MakeVariant(interactive),
		"cursor_mode":  dbus.MakeVariant(cursorMode),
	}

	var handle dbus.ObjectPath
	call := conn.Object(portalDest, portalObjectPath).Call(screenshotMethod, 0, "", reqOpts)
	if call.Err != nil {
		return nil, fmt.Errorf("portal screenshot call: %w", call.Err)
	}
	if err := call.Store(&handle); err != nil {
		return nil, fmt.Errorf("portal screenshot response: %w", err)
	}

	results, err := awaitPortalResponse(conn, handle)
	if err != nil {
		return nil, err
	}
	uriVar, ok := results["uri"]
	if !ok {
		return nil, errors.New("portal screenshot: response carries no uri")
	}
	uri, _ := uriVar.Value().(string)
	return consumePNG(strings.TrimPrefix(uri, "file://"))
}

// awaitPortalResponse waits for the Request.Response signal belonging
// to handle and returns its results map. Response code 1 is a user
// cancellation, any other non-zero code a portal failure.
func awaitPortalResponse(conn *dbus.Conn, handle dbus.ObjectPath) (map[string]dbus.Variant, error) {
	rule := fmt.Sprintf("type='signal',interface='org.freedesktop.portal.Request',member='Response',path='%s'", handle)
	if err := conn.BusObject().Call("org.freedesktop.DBus.AddMatch", 0, rule).Err; err != nil {
		return nil, fmt.Errorf("portal screenshot subscribe: %w", err)
	}
	defer conn.BusObject().Call("org.freedesktop.DBus.RemoveMatch", 0, rule)

	sigc := make(chan *dbus.Signal, 4)
	conn.Signal(sigc)
	defer conn.RemoveSignal(sigc)

	deadline := time.NewTimer(portalWait)
	defer deadline.Stop()

	for {
		select {
		case sig, open := <-sigc:
			if !open {
				return nil, errors.New("portal screenshot: bus connection lost")
			}
			if sig == nil || sig.Path != handle || sig.Name != responseSignal || len(sig.Body) < 2 {
				continue
			}
			code, _ := sig.Body[0].(uint32)
			switch code {
			case 0:
			case 1:
				return nil, errors.New("portal screenshot: cancelled")
			default:
				return nil, fmt.Errorf("portal screenshot: failed with code %d", code)
			}
			results, _ := sig.Body[1].(map[string]dbus.Variant)
			if results == nil {
				return nil, errors.New("portal screenshot: malformed response")
			}
			return results, nil
		case <-deadline.C:
			return nil, errors.New("portal screenshot: timed out waiting for the portal")
		}
	}
}

// consumePNG decodes path into RGBA and removes the file. The portal
// hands over a temp file that is ours to clean up.
func consumePNG(path string) (*image.RGBA, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil {
			fmt.Fprintf(os.Stderr, "close %s: %v\n", path, cerr)
		}
		if rerr := os.Remove(path); rerr != nil && !errors.Is(rerr, os.ErrNotExist) {
			fmt.Fprintf(os.Stderr, "remove %s: %v\n", path, rerr)
		}
	}()

	img, err := png.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	rgba := image.NewRGBA(img.Bounds())
	draw.Draw(rgba, rgba.Bounds(), img, image.Point{}, draw.Src)
	return rgba, nil
}
