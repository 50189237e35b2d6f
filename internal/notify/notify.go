// Package notify raises desktop notifications for board milestones: a
// save landing on disk, a copy reaching the clipboard, an export
// finishing. Every event starts disabled, and a nil Notifier swallows
// all calls so callers can wire one unconditionally.
package notify

import (
	"fmt"
	"image"
	"image/png"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/example/inkboard/internal/platform"
)

// Event identifies a notification trigger.
type Event string

const (
	EventSave   Event = "save"
	EventCopy   Event = "copy"
	EventExport Event = "export"
)

// Preferences carries the notification title and one printf-style
// message per event; %s receives the event detail, usually a path.
type Preferences struct {
	Title    string
	Messages map[Event]string
}

// DefaultPreferences returns the stock title and message texts.
func DefaultPreferences() Preferences {
	return Preferences{
		Title: "Inkboard",
		Messages: map[Event]string{
			EventSave:   "Saved %s",
			EventCopy:   "Copied %s to clipboard",
			EventExport: "Exported %s",
		},
	}
}

// messageEnv maps each event to the variable overriding its text.
var messageEnv = map[Event]string{
	EventSave:   "INKBOARD_NOTIFY_SAVE_TEXT",
	EventCopy:   "INKBOARD_NOTIFY_COPY_TEXT",
	EventExport: "INKBOARD_NOTIFY_EXPORT_TEXT",
}

// LoadPreferences layers INKBOARD_NOTIFY_* environment overrides on the
// defaults. Blank values keep the default text.
func LoadPreferences() Preferences {
	prefs := DefaultPreferences()
	if v := strings.TrimSpace(os.Getenv("INKBOARD_NOTIFY_TITLE")); v != "" {
		prefs.Title = v
	}
	for event, key := range messageEnv {
		if v := strings.TrimSpace(os.Getenv(key)); v != "" {
			prefs.Messages[event] = v
		}
	}
	return prefs
}

// Notifier dispatches enabled events through the platform layer.
type Notifier struct {
	title    string
	messages map[Event]string
	enabled  map[Event]bool
}

// New copies prefs into a Notifier with every event disabled.
func New(prefs Preferences) *Notifier {
	n := &Notifier{
		title:    prefs.Title,
		messages: make(map[Event]string, len(prefs.Messages)),
		enabled:  make(map[Event]bool),
	}
	for event, msg := range prefs.Messages {
		n.messages[event] = msg
	}
	return n
}

// Enable switches one event on or off.
func (n *Notifier) Enable(event Event, on bool) {
	if n == nil {
		return
	}
	if n.enabled == nil {
		n.enabled = make(map[Event]bool)
	}
	n.enabled[event] = on
}

func (n *Notifier) enabledFor(event Event) bool {
	return n != nil && n.enabled[event]
}

// Save announces a board written to path.
func (n *Notifier) Save(path string) {
	if !n.enabledFor(EventSave) {
		return
	}
	detail, icon := fileDetail(path)
	n.send(EventSave, detail, icon)
}

// Copy announces a clipboard copy.
func (n *Notifier) Copy(detail string) {
	if !n.enabledFor(EventCopy) {
		return
	}
	if strings.TrimSpace(detail) == "" {
		detail = "board"
	}
	n.send(EventCopy, detail, "")
}

// Export announces a finished export. Formats the notification center
// cannot preview directly (PDF) may supply the board raster instead;
// it is written to a temporary PNG to serve as the icon.
func (n *Notifier) Export(path string, preview image.Image) {
	if !n.enabledFor(EventExport) {
		return
	}
	detail, icon := fileDetail(path)
	if icon == "" && preview != nil {
		tmp, discard, err := tempPreview(preview)
		if err != nil {
			log.Printf("notification preview: %v", err)
		} else {
			defer discard()
			icon = tmp
		}
	}
	n.send(EventExport, detail, icon)
}

func (n *Notifier) send(event Event, detail, icon string) {
	msg := strings.TrimSpace(n.messages[event])
	if msg == "" {
		return
	}
	body := strings.TrimSpace(fmt.Sprintf(msg, strings.TrimSpace(detail)))
	if body == "" {
		return
	}
	err := platform.Notify(n.title, body, platform.Options{IconPath: icon})
	if err != nil {
		log.Printf("notification %s: %v", event, err)
	}
}

// fileDetail resolves path for display and picks an icon the
// notification center can render directly.
func fileDetail(path string) (detail, icon string) {
	detail = strings.TrimSpace(path)
	abs, err := filepath.Abs(path)
	if err != nil {
		return detail, ""
	}
	return abs, iconFor(abs)
}

// iconFor returns abs itself when it is an existing PNG, else empty.
func iconFor(abs string) string {
	if !strings.EqualFold(filepath.Ext(abs), ".png") {
		return ""
	}
	if _, err := os.Stat(abs); err != nil {
		return ""
	}
	return abs
}

func tempPreview(img image.Image) (string, func(), error) {
	f, err := os.CreateTemp("", "inkboard-preview-*.png")
	if err != nil {
		return "", nil, err
	}
	path := f.Name()
	discard := func() {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			log.Printf("remove preview: %v", err)
		}
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		discard()
		return "", nil, err
	}
	if err := f.Close(); err != nil {
		discard()
		return "", nil, err
	}
	return path, discard, nil
}
