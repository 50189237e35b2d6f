// Package board runs the interactive editor window: a shiny event loop
// that feeds pointer input through the gesture router into the tool
// session, draws the chrome around the canvas, and wires the save, copy
// and export actions.
package board

import (
	"fmt"
	"image"
	"log"
	"path/filepath"
	"strings"
	"sync"
	"time"
	"unicode"

	"golang.org/x/exp/shiny/driver"
	"golang.org/x/exp/shiny/screen"
	"golang.org/x/mobile/event/key"
	"golang.org/x/mobile/event/lifecycle"
	"golang.org/x/mobile/event/mouse"
	"golang.org/x/mobile/event/paint"
	"golang.org/x/mobile/event/size"
	"golang.org/x/mobile/event/touch"

	"github.com/example/inkboard/internal/clipboard"
	"github.com/example/inkboard/internal/export"
	"github.com/example/inkboard/internal/gesture"
	"github.com/example/inkboard/internal/notify"
	"github.com/example/inkboard/internal/raster"
	"github.com/example/inkboard/internal/surface"
	"github.com/example/inkboard/internal/template"
	"github.com/example/inkboard/internal/theme"
	"github.com/example/inkboard/internal/tool"
)

const (
	defaultViewW = 960
	defaultViewH = 600

	zoomStep = 1.25
	panStep  = 24

	messageDuration = 2 * time.Second
)

// frameDropThreshold limits how many consecutive frames may be canceled
// before one is allowed to complete, so a stream of input cannot starve
// the painter.
const frameDropThreshold = 10

// Board holds the editor configuration and the channels that connect it
// to the window once Run starts.
type Board struct {
	Session    *tool.Session
	Registry   *template.Registry
	Theme      *theme.Theme
	Notifier   *notify.Notifier
	Output     string
	SaveDir    string
	TemplateID string
	ColorIdx   int
	WidthIdx   int
	Framed     bool

	updateCh chan struct{} // repaint kicks from outside the loop

	// settingsMu guards ColorIdx, WidthIdx and the listener once the
	// window loop is running.
	settingsMu sync.Mutex
	settingsFn func(colorIdx, widthIdx int)

	onClose   func()
	closeOnce sync.Once
}

// Option modifies a Board during creation.
type Option func(*Board)

// WithSession sets the tool session the editor drives.
func WithSession(s *tool.Session) Option { return func(b *Board) { b.Session = s } }

// WithTheme sets the chrome palette.
func WithTheme(th *theme.Theme) Option { return func(b *Board) { b.Theme = th } }

// WithRegistry sets the background template catalog.
func WithRegistry(r *template.Registry) Option { return func(b *Board) { b.Registry = r } }

// WithTemplate selects the template rendered behind the board.
func WithTemplate(id string) Option { return func(b *Board) { b.TemplateID = id } }

// WithNotifier enables desktop notifications for save, copy and export.
func WithNotifier(n *notify.Notifier) Option { return func(b *Board) { b.Notifier = n } }

// WithOutput fixes the PNG save path instead of timestamped names.
func WithOutput(path string) Option { return func(b *Board) { b.Output = path } }

// WithSaveDir sets the directory timestamped exports land in.
func WithSaveDir(dir string) Option { return func(b *Board) { b.SaveDir = dir } }

// WithColorIndex sets the initial palette index.
func WithColorIndex(idx int) Option { return func(b *Board) { b.ColorIdx = idx } }

// WithWidthIndex sets the initial stroke width index.
func WithWidthIndex(idx int) Option { return func(b *Board) { b.WidthIdx = idx } }

// WithFramedExport mounts exports on a matte with a drop shadow.
func WithFramedExport(framed bool) Option { return func(b *Board) { b.Framed = framed } }

// WithSettingsListener registers a callback for when pen settings change.
func WithSettingsListener(fn func(colorIdx, widthIdx int)) Option {
	return func(b *Board) { b.settingsFn = fn }
}

// WithOnClose registers a callback invoked when the window closes.
func WithOnClose(fn func()) Option { return func(b *Board) { b.onClose = fn } }

// New creates a Board with the provided options.
func New(opts ...Option) *Board {
	b := &Board{
		ColorIdx:   defaultColorIndex,
		WidthIdx:   defaultWidthIndex,
		TemplateID: "blank",
		updateCh:   make(chan struct{}, 1),
	}
	for _, o := range opts {
		o(b)
	}
	b.ColorIdx = clampColorIndex(b.ColorIdx)
	b.WidthIdx = clampWidthIndex(b.WidthIdx)
	if b.Theme == nil {
		b.Theme = theme.Default()
	}
	if b.Registry == nil {
		b.Registry = template.NewRegistry(b.Theme)
	}
	return b
}

// KeyShortcut describes a keyboard combination that triggers an action.
type KeyShortcut struct {
	Rune      rune
	Code      key.Code
	Modifiers key.Modifiers
}

// RequestRepaint asks the window to redraw after a mutation that did not
// pass through the event loop, for example from a timer.
func (b *Board) RequestRepaint() {
	if b.updateCh == nil {
		return
	}
	select {
	case b.updateCh <- struct{}{}:
	default:
	}
}

// storeSettings clamps and records the pen settings, returning the
// listener so it can run outside the lock.
func (b *Board) storeSettings(colorIdx, widthIdx int) (listener func(int, int), ci, wi int) {
	ci = clampColorIndex(colorIdx)
	wi = clampWidthIndex(widthIdx)
	b.settingsMu.Lock()
	defer b.settingsMu.Unlock()
	b.ColorIdx, b.WidthIdx = ci, wi
	return b.settingsFn, ci, wi
}

// applySettings records a pen settings change made in the window loop
// and tells the listener.
func (b *Board) applySettings(colorIdx, widthIdx int) {
	fn, ci, wi := b.storeSettings(colorIdx, widthIdx)
	if fn != nil {
		fn(ci, wi)
	}
}

func (b *Board) notifyClose() {
	b.closeOnce.Do(func() {
		if b.onClose != nil {
			b.onClose()
		}
	})
}

func (b *Board) savePath() string {
	if b.Output != "" {
		return b.Output
	}
	return filepath.Join(b.SaveDir, export.DefaultName("png"))
}

func (b *Board) pdfPath() string {
	if b.Output != "" {
		return strings.TrimSuffix(b.Output, filepath.Ext(b.Output)) + ".pdf"
	}
	return filepath.Join(b.SaveDir, export.DefaultName("pdf"))
}

func (b *Board) exportOptions() export.Options {
	return export.Options{Frame: b.Framed}
}

// dragReadout renders the size of an in-flight shape drag for the status
// bar. Freehand, eraser and text gestures have no meaningful extent.
func dragReadout(g tool.Gesture, active bool) string {
	if !active {
		return ""
	}
	a := g.Origin.ImagePoint()
	c := g.Current.ImagePoint()
	w, h := c.X-a.X, c.Y-a.Y
	if w < 0 {
		w = -w
	}
	if h < 0 {
		h = -h
	}
	switch g.Kind {
	case tool.Rect:
		// Rect commits include both gesture corners.
		return fmt.Sprintf("rect %dx%d", w+1, h+1)
	case tool.Circle:
		return fmt.Sprintf("circle %dx%d", w, h)
	case tool.Line:
		return fmt.Sprintf("line %dx%d", w, h)
	}
	return ""
}

// Run executes the editor loop on shiny's driver.
func (b *Board) Run() { driver.Main(b.Main) }

func (b *Board) Main(s screen.Screen) {
	if b.Session == nil {
		surf, err := surface.New(defaultViewW, defaultViewH)
		if err != nil {
			log.Fatalf("create surface: %v", err)
		}
		b.Session = tool.NewSession(surf)
		if err := b.Registry.Render(b.TemplateID, surf); err != nil {
			log.Printf("template %s: %v", b.TemplateID, err)
		}
	}
	sess := b.Session
	surf := sess.Surface()
	ui := newChrome(b.Theme)
	router := gesture.NewRouter(surf, sess)

	colorIdx := clampColorIndex(b.ColorIdx)
	widthIdx := clampWidthIndex(b.WidthIdx)
	textSizeIdx := clampTextSizeIndex(defaultTextSizeIndex)
	for i, sz := range raster.TextSizes() {
		if sz == sess.Style().FontSize {
			textSizeIdx = i
		}
	}
	applyStyle := func() {
		st := sess.Style()
		st.Color = colorAt(colorIdx)
		st.Width = widthAt(widthIdx)
		st.FontSize = textSizeAt(textSizeIdx)
		sess.SetStyle(st)
	}
	applyStyle()

	vw, vh := surf.ViewSize()
	width := vw + ui.toolbarWidth
	height := vh + headerHeight + statusHeight
	w, err := s.NewWindow(&screen.NewWindowOptions{Width: width, Height: height, Title: "Inkboard"})
	if err != nil {
		log.Fatalf("new window: %v", err)
	}
	defer w.Release()
	defer b.notifyClose()

	if b.updateCh != nil {
		done := make(chan struct{})
		go func() {
			for {
				select {
				case <-b.updateCh:
					w.Send(paint.Event{})
				case <-done:
					return
				}
			}
		}()
		defer close(done)
	}

	var paintMu sync.Mutex
	var paintCancel func()
	var dropCount int
	paintCh := make(chan paintState, 1)
	go painter(s, w, paintCh, &paintMu, &paintCancel, &dropCount)

	var message string
	var messageUntil time.Time
	note := func(msg string) {
		message = msg
		log.Print(msg)
		messageUntil = time.Now().Add(messageDuration)
		// One more paint after expiry so an idle window drops the text.
		time.AfterFunc(messageDuration+50*time.Millisecond, b.RequestRepaint)
	}

	cancelGesture := func() {
		if err := router.Cancel(); err != nil {
			log.Printf("cancel gesture: %v", err)
		}
	}
	selectTool := func(k tool.Kind) {
		cancelGesture()
		if err := sess.SelectTool(k); err != nil {
			log.Printf("select tool: %v", err)
		}
	}
	for _, tb := range ui.tools {
		k := tb.kind
		tb.onSelect = func() { selectTool(k) }
	}

	actions := map[string]func(){}
	keyAction := map[KeyShortcut]string{}
	register := func(name string, keys []KeyShortcut, fn func()) {
		actions[name] = fn
		for _, sc := range keys {
			keyAction[sc] = name
		}
	}

	register("save", []KeyShortcut{{Rune: 's', Modifiers: key.ModControl}}, func() {
		path := b.savePath()
		if err := export.PNG(path, surf.Committed(), b.exportOptions()); err != nil {
			log.Printf("save: %v", err)
			note("save failed")
			return
		}
		b.Notifier.Save(path)
		note("saved " + path)
	})

	register("copy", []KeyShortcut{{Rune: 'c', Modifiers: key.ModControl}}, func() {
		if err := export.Clipboard(surf.Committed(), b.exportOptions()); err != nil {
			log.Printf("copy: %v", err)
			note("copy failed")
			return
		}
		b.Notifier.Copy("board")
		note("board copied to clipboard")
	})

	register("export", []KeyShortcut{{Rune: 'e', Modifiers: key.ModControl}}, func() {
		path := b.pdfPath()
		committed := surf.Committed()
		if err := export.PDF(path, committed, b.exportOptions()); err != nil {
			log.Printf("export: %v", err)
			note("export failed")
			return
		}
		b.Notifier.Export(path, committed)
		note("exported " + path)
	})

	register("template", []KeyShortcut{{Rune: 'g'}}, func() {
		cancelGesture()
		if err := sess.Interrupt(); err != nil {
			log.Printf("interrupt: %v", err)
		}
		next := b.Registry.Next(b.TemplateID)
		if err := b.Registry.Render(next, surf); err != nil {
			log.Printf("template %s: %v", next, err)
			return
		}
		b.TemplateID = next
		note("template: " + next)
	})

	register("zoomreset", []KeyShortcut{{Rune: '0'}}, func() {
		surf.SetZoom(1)
		surf.SetPan(0, 0)
	})

	register("textdone", nil, func() {
		if err := sess.ConfirmText(); err != nil {
			log.Printf("text: %v", err)
		}
	})

	register("textcancel", nil, func() {
		if err := sess.CancelText(); err != nil {
			log.Printf("text: %v", err)
		}
	})

	handleShortcut := func(action string) {
		if fn, ok := actions[action]; ok {
			fn()
		}
		w.Send(paint.Event{})
	}

	for {
		switch e := w.NextEvent().(type) {
		case lifecycle.Event:
			if e.To == lifecycle.StageDead {
				paintMu.Lock()
				if paintCancel != nil {
					paintCancel()
				}
				paintMu.Unlock()
				return
			}
			if e.Crosses(lifecycle.StageFocused) == lifecycle.CrossOff {
				cancelGesture()
				w.Send(paint.Event{})
			}

		case size.Event:
			width = e.WidthPx
			height = e.HeightPx
			canvas := ui.canvas(width, height)
			if vw, vh := surf.ViewSize(); vw != canvas.Dx() || vh != canvas.Dy() {
				cancelGesture()
				if err := sess.Interrupt(); err != nil {
					log.Printf("interrupt: %v", err)
				}
				if err := surf.Resize(canvas.Dx(), canvas.Dy()); err != nil {
					log.Printf("resize: %v", err)
				} else if err := b.Registry.Render(b.TemplateID, surf); err != nil {
					log.Printf("template %s: %v", b.TemplateID, err)
				}
			}
			w.Send(paint.Event{})

		case paint.Event:
			paintMu.Lock()
			if paintCancel != nil && dropCount < frameDropThreshold {
				paintCancel()
				dropCount++
			}
			paintMu.Unlock()
			st := paintState{
				width:          width,
				height:         height,
				ui:             ui,
				img:            surf.Image(),
				zoom:           surf.Zoom(),
				tool:           sess.ActiveTool(),
				colorIdx:       colorIdx,
				widthIdx:       widthIdx,
				textSizeIdx:    textSizeIdx,
				templateID:     b.TemplateID,
				dragLabel:      dragReadout(sess.Gesture()),
				textActive:     sess.TextActive(),
				textContent:    sess.TextContent(),
				fontSize:       sess.Style().FontSize,
				penColor:       sess.Style().Color,
				message:        message,
				messageUntil:   messageUntil,
				handleShortcut: handleShortcut,
			}
			st.panX, st.panY = surf.Pan()
			st.boardW, st.boardH = surf.Size()
			st.textAnchor, _ = sess.TextAnchor()
			select {
			case paintCh <- st:
			default:
				<-paintCh
				paintCh <- st
			}

		case mouse.Event:
			if message != "" && time.Now().Before(messageUntil) && e.Direction == mouse.DirPress {
				messageUntil = time.Time{}
				w.Send(paint.Event{})
				continue
			}
			switch e.Button {
			case mouse.ButtonWheelUp:
				if e.Direction == mouse.DirPress {
					surf.SetZoom(surf.Zoom() * zoomStep)
					w.Send(paint.Event{})
				}
				continue
			case mouse.ButtonWheelDown:
				if e.Direction == mouse.DirPress {
					surf.SetZoom(surf.Zoom() / zoomStep)
					w.Send(paint.Event{})
				}
				continue
			}

			p := image.Pt(int(e.X), int(e.Y))
			canvas := ui.canvas(width, height)

			// A gesture in flight owns the pointer even over the chrome.
			if router.Active() {
				me := e
				me.X -= float32(canvas.Min.X)
				me.Y -= float32(canvas.Min.Y)
				if err := router.Mouse(me); err != nil {
					log.Printf("gesture: %v", err)
				}
				w.Send(paint.Event{})
				continue
			}

			if p.Y >= height-statusHeight {
				ui.hoverShortcut = ui.shortcutHit(p)
				if ui.hoverShortcut >= 0 && e.Button == mouse.ButtonLeft && e.Direction == mouse.DirPress {
					ui.shortcuts[ui.hoverShortcut].activate()
				}
				if e.Direction == mouse.DirNone {
					w.Send(paint.Event{})
				}
				continue
			}

			if p.Y < headerHeight {
				ui.hoverTemplate = p.In(ui.templateRect)
				if ui.hoverTemplate && e.Button == mouse.ButtonLeft && e.Direction == mouse.DirPress {
					handleShortcut("template")
				}
				if e.Direction == mouse.DirNone {
					w.Send(paint.Event{})
				}
				continue
			}

			if p.X < ui.toolbarWidth {
				ui.resetHover()
				if i := ui.toolHit(p); i >= 0 {
					ui.hoverTool = i
					if e.Button == mouse.ButtonLeft && e.Direction == mouse.DirPress {
						ui.tools[i].activate()
						w.Send(paint.Event{})
					}
				} else if i := ui.paletteHit(p); i >= 0 {
					ui.hoverPalette = i
					if e.Button == mouse.ButtonLeft && e.Direction == mouse.DirPress {
						colorIdx = i
						applyStyle()
						b.applySettings(colorIdx, widthIdx)
						w.Send(paint.Event{})
					}
				} else if i := ui.widthHit(p); i >= 0 {
					ui.hoverWidth = i
					if e.Button == mouse.ButtonLeft && e.Direction == mouse.DirPress {
						widthIdx = i
						applyStyle()
						b.applySettings(colorIdx, widthIdx)
						w.Send(paint.Event{})
					}
				} else if i := ui.textSizeHit(p); i >= 0 {
					ui.hoverTextSize = i
					if e.Button == mouse.ButtonLeft && e.Direction == mouse.DirPress {
						textSizeIdx = i
						applyStyle()
						w.Send(paint.Event{})
					}
				}
				if e.Direction == mouse.DirNone {
					w.Send(paint.Event{})
				}
				continue
			}

			if p.In(canvas) {
				ui.resetHover()
				me := e
				me.X -= float32(canvas.Min.X)
				me.Y -= float32(canvas.Min.Y)
				if err := router.Mouse(me); err != nil {
					log.Printf("gesture: %v", err)
				}
				if e.Direction != mouse.DirNone || router.Active() {
					w.Send(paint.Event{})
				}
			}

		case touch.Event:
			canvas := ui.canvas(width, height)
			if router.Active() || image.Pt(int(e.X), int(e.Y)).In(canvas) {
				te := e
				te.X -= float32(canvas.Min.X)
				te.Y -= float32(canvas.Min.Y)
				if err := router.Touch(te); err != nil {
					log.Printf("gesture: %v", err)
				}
				w.Send(paint.Event{})
			}

		case key.Event:
			if e.Direction != key.DirPress {
				continue
			}
			if sess.TextActive() {
				switch e.Code {
				case key.CodeReturnEnter:
					if err := sess.ConfirmText(); err != nil {
						log.Printf("text: %v", err)
					}
					w.Send(paint.Event{})
					continue
				case key.CodeEscape:
					if err := sess.CancelText(); err != nil {
						log.Printf("text: %v", err)
					}
					w.Send(paint.Event{})
					continue
				case key.CodeDeleteBackspace:
					if err := sess.Backspace(); err != nil {
						log.Printf("text: %v", err)
					}
					w.Send(paint.Event{})
					continue
				}
				if e.Rune == 'v' && e.Modifiers&key.ModControl != 0 {
					txt, err := clipboard.ReadText()
					if err != nil {
						log.Printf("paste: %v", err)
					} else {
						for _, r := range txt {
							if r == '\n' || r == '\r' {
								continue
							}
							if err := sess.TypeRune(r); err != nil {
								log.Printf("text: %v", err)
								break
							}
						}
					}
					w.Send(paint.Event{})
					continue
				}
				if e.Rune == 'c' && e.Modifiers&key.ModControl != 0 {
					// With an overlay open, copy grabs its text, not the board.
					if txt := sess.TextContent(); txt != "" {
						if err := clipboard.WriteText(txt); err != nil {
							log.Printf("copy text: %v", err)
						}
					}
					continue
				}
				if e.Rune > 0 {
					if err := sess.TypeRune(e.Rune); err != nil {
						log.Printf("text: %v", err)
					}
					w.Send(paint.Event{})
				}
				continue
			}

			ks := KeyShortcut{Rune: unicode.ToLower(e.Rune), Code: e.Code, Modifiers: e.Modifiers}
			if action, ok := keyAction[ks]; ok {
				handleShortcut(action)
				continue
			}
			switch e.Rune {
			case 'p', 'P':
				selectTool(tool.Freehand)
				w.Send(paint.Event{})
			case 'e', 'E':
				selectTool(tool.Eraser)
				w.Send(paint.Event{})
			case 'x', 'X':
				selectTool(tool.Rect)
				w.Send(paint.Event{})
			case 'o', 'O':
				selectTool(tool.Circle)
				w.Send(paint.Event{})
			case 'l', 'L':
				selectTool(tool.Line)
				w.Send(paint.Event{})
			case 't', 'T':
				selectTool(tool.Text)
				w.Send(paint.Event{})
			case '[':
				colorIdx = (colorIdx - 1 + paletteLen()) % paletteLen()
				applyStyle()
				b.applySettings(colorIdx, widthIdx)
				w.Send(paint.Event{})
			case ']':
				colorIdx = (colorIdx + 1) % paletteLen()
				applyStyle()
				b.applySettings(colorIdx, widthIdx)
				w.Send(paint.Event{})
			case '{':
				widthIdx = (widthIdx - 1 + widthsLen()) % widthsLen()
				applyStyle()
				b.applySettings(colorIdx, widthIdx)
				w.Send(paint.Event{})
			case '}':
				widthIdx = (widthIdx + 1) % widthsLen()
				applyStyle()
				b.applySettings(colorIdx, widthIdx)
				w.Send(paint.Event{})
			case '+', '=':
				surf.SetZoom(surf.Zoom() * zoomStep)
				w.Send(paint.Event{})
			case '-':
				surf.SetZoom(surf.Zoom() / zoomStep)
				w.Send(paint.Event{})
			case 'q', 'Q':
				paintMu.Lock()
				if paintCancel != nil {
					paintCancel()
				}
				paintMu.Unlock()
				return
			case -1:
				switch e.Code {
				case key.CodeLeftArrow:
					surf.PanBy(-panStep, 0)
					w.Send(paint.Event{})
				case key.CodeRightArrow:
					surf.PanBy(panStep, 0)
					w.Send(paint.Event{})
				case key.CodeUpArrow:
					surf.PanBy(0, -panStep)
					w.Send(paint.Event{})
				case key.CodeDownArrow:
					surf.PanBy(0, panStep)
					w.Send(paint.Event{})
				}
			}
		}
	}
}
