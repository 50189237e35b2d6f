package board

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"sort"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/example/inkboard/internal/raster"
	"github.com/example/inkboard/internal/theme"
	"github.com/example/inkboard/internal/tool"
)

const (
	headerHeight     = 24
	statusHeight     = 24
	toolButtonHeight = 24
	paletteCell      = 16
	paletteStep      = 18
	widthRowHeight   = 16
	textRowHeight    = 24
	checkerSize      = 8
)

const (
	defaultColorIndex    = 0
	defaultWidthIndex    = 1
	defaultTextSizeIndex = 1
)

// PaletteColor is a pen color annotated with its display name.
type PaletteColor struct {
	Name  string
	Color color.RGBA
}

// The palette and width lists are shared by every open board window and
// the CLI listings, so access goes through the accessors below.
var (
	paletteMu sync.RWMutex
	palette   = []PaletteColor{
		{"Black", color.RGBA{0, 0, 0, 255}},
		{"White", color.RGBA{255, 255, 255, 255}},
		{"Red", color.RGBA{255, 0, 0, 255}},
		{"Lime", color.RGBA{0, 255, 0, 255}},
		{"Blue", color.RGBA{0, 0, 255, 255}},
		{"Yellow", color.RGBA{255, 255, 0, 255}},
		{"Cyan", color.RGBA{0, 255, 255, 255}},
		{"Magenta", color.RGBA{255, 0, 255, 255}},
		{"Maroon", color.RGBA{128, 0, 0, 255}},
		{"Green", color.RGBA{0, 128, 0, 255}},
		{"Navy", color.RGBA{0, 0, 128, 255}},
		{"Olive", color.RGBA{128, 128, 0, 255}},
		{"Teal", color.RGBA{0, 128, 128, 255}},
		{"Purple", color.RGBA{128, 0, 128, 255}},
		{"Silver", color.RGBA{192, 192, 192, 255}},
		{"Gray", color.RGBA{128, 128, 128, 255}},
	}
)

var (
	widthsMu sync.RWMutex
	widths   = []int{1, 2, 4, 6, 8} // kept sorted by EnsureWidth
)

// DefaultColorIndex returns the palette index selected at start up.
func DefaultColorIndex() int { return defaultColorIndex }

// DefaultWidthIndex returns the stroke width index selected at start up.
func DefaultWidthIndex() int { return defaultWidthIndex }

// Palette returns a copy of the available pen colors.
func Palette() []color.RGBA {
	paletteMu.RLock()
	defer paletteMu.RUnlock()
	out := make([]color.RGBA, len(palette))
	for i, e := range palette {
		out[i] = e.Color
	}
	return out
}

// PaletteColors returns palette entries annotated with their display names.
func PaletteColors() []PaletteColor {
	paletteMu.RLock()
	defer paletteMu.RUnlock()
	return append([]PaletteColor(nil), palette...)
}

// EnsurePaletteColor makes sure col is present in the palette and returns
// its index, appending it when a flag or config file names a color the
// default palette lacks.
func EnsurePaletteColor(col color.RGBA, name string) int {
	paletteMu.Lock()
	defer paletteMu.Unlock()
	for idx := range palette {
		if palette[idx].Color != col {
			continue
		}
		if name != "" && palette[idx].Name == "" {
			palette[idx].Name = name
		}
		return idx
	}
	if name == "" {
		name = fmt.Sprintf("#%02X%02X%02X", col.R, col.G, col.B)
	}
	palette = append(palette, PaletteColor{Name: name, Color: col})
	return len(palette) - 1
}

// WidthOptions returns a copy of the available stroke widths.
func WidthOptions() []int {
	widthsMu.RLock()
	defer widthsMu.RUnlock()
	return append([]int(nil), widths...)
}

// EnsureWidth makes sure width is one of the options and returns its
// index, inserting it in sorted position when new.
func EnsureWidth(width int) int {
	if width < 1 {
		width = 1
	}
	widthsMu.Lock()
	defer widthsMu.Unlock()
	pos := sort.SearchInts(widths, width)
	if pos < len(widths) && widths[pos] == width {
		return pos
	}
	widths = append(widths, 0)
	copy(widths[pos+1:], widths[pos:])
	widths[pos] = width
	return pos
}

func paletteLen() int {
	paletteMu.RLock()
	defer paletteMu.RUnlock()
	return len(palette)
}

func widthsLen() int {
	widthsMu.RLock()
	defer widthsMu.RUnlock()
	return len(widths)
}

// clampTo bounds idx into [0, n). Callers handle n == 0 themselves when a
// fallback value is needed.
func clampTo(idx, n int) int {
	if n == 0 || idx < 0 {
		return 0
	}
	if idx >= n {
		return n - 1
	}
	return idx
}

func colorAt(idx int) color.RGBA {
	paletteMu.RLock()
	defer paletteMu.RUnlock()
	if len(palette) == 0 {
		return color.RGBA{}
	}
	return palette[clampTo(idx, len(palette))].Color
}

func colorNameAt(idx int) string {
	paletteMu.RLock()
	defer paletteMu.RUnlock()
	if idx < 0 || idx >= len(palette) {
		return ""
	}
	return palette[idx].Name
}

func clampColorIndex(idx int) int { return clampTo(idx, paletteLen()) }

func widthAt(idx int) int {
	widthsMu.RLock()
	defer widthsMu.RUnlock()
	if len(widths) == 0 {
		return 1
	}
	return widths[clampTo(idx, len(widths))]
}

func clampWidthIndex(idx int) int { return clampTo(idx, widthsLen()) }

func textSizeAt(idx int) float64 {
	sizes := raster.TextSizes()
	if len(sizes) == 0 {
		return raster.DefaultTextSize()
	}
	return sizes[clampTo(idx, len(sizes))]
}

func clampTextSizeIndex(idx int) int { return clampTo(idx, len(raster.TextSizes())) }

// buttonState describes the visual state of a clickable chrome element.
type buttonState int

const (
	stateDefault buttonState = iota
	stateHover
	statePressed
)

// toolButton is one toolbar row. Rendered states are cached per rect so
// steady-state repaints blit instead of re-rasterizing the label.
type toolButton struct {
	label    string
	kind     tool.Kind
	onSelect func()
	rect     image.Rectangle
	states   [3]*image.RGBA
}

func (tb *toolButton) moveTo(r image.Rectangle) {
	if r == tb.rect {
		return
	}
	tb.rect = r
	tb.states = [3]*image.RGBA{}
}

func (tb *toolButton) activate() {
	if tb.onSelect != nil {
		tb.onSelect()
	}
}

// statusChip is a labelled action target in the header or status bar.
// Chips are rebuilt on every paint, so nothing is cached.
type statusChip struct {
	label  string
	action func()
	rect   image.Rectangle
}

func (sc *statusChip) activate() {
	if sc.action != nil {
		sc.action()
	}
}

func toolLabel(k tool.Kind) string {
	switch k {
	case tool.Freehand:
		return "P:Pen"
	case tool.Eraser:
		return "E:Erase"
	case tool.Rect:
		return "X:Rect"
	case tool.Circle:
		return "O:Circle"
	case tool.Line:
		return "L:Line"
	case tool.Text:
		return "T:Text"
	}
	return k.String()
}

// chrome owns the window furniture around the canvas: header, toolbar,
// status bar, and the hover bookkeeping that drives their highlights.
type chrome struct {
	th           *theme.Theme
	toolbarWidth int

	tools         []*toolButton
	templateRect  image.Rectangle
	paletteRects  []image.Rectangle
	widthRects    []image.Rectangle
	textSizeRects []image.Rectangle
	shortcuts     []statusChip

	hoverTool     int
	hoverTemplate bool
	hoverPalette  int
	hoverWidth    int
	hoverTextSize int
	hoverShortcut int

	backdrop *image.RGBA
}

func newChrome(th *theme.Theme) *chrome {
	c := &chrome{th: th}
	c.resetHover()

	// Size the toolbar so the title and every tool label fit unclipped.
	d := &font.Drawer{Face: basicfont.Face7x13}
	max := d.MeasureString("Inkboard").Ceil() + 8
	for _, k := range tool.Kinds() {
		if w := d.MeasureString(toolLabel(k)).Ceil() + 8; w > max {
			max = w
		}
	}
	c.toolbarWidth = max

	for _, k := range tool.Kinds() {
		c.tools = append(c.tools, &toolButton{label: toolLabel(k), kind: k})
	}
	return c
}

// chipFill picks a chip background for the given interaction state.
func (c *chrome) chipFill(state buttonState) color.RGBA {
	switch state {
	case stateHover:
		return c.th.ButtonBackgroundHover
	case statePressed:
		return c.th.ButtonBackgroundPress
	}
	return c.th.ButtonBackground
}

// paintChip fills r with bg, outlines it, and writes label with its
// baseline origin at dot.
func (c *chrome) paintChip(dst *image.RGBA, label string, r image.Rectangle, bg color.RGBA, dot image.Point) {
	draw.Draw(dst, r, &image.Uniform{bg}, image.Point{}, draw.Src)
	raster.Rect(dst, r, c.th.ButtonBorder, 1)
	d := &font.Drawer{Dst: dst, Src: image.NewUniform(c.th.ButtonText), Face: basicfont.Face7x13,
		Dot: fixed.P(dot.X, dot.Y)}
	d.DrawString(label)
}

// paintTool blits the cached render for state, building it on first use.
func (c *chrome) paintTool(dst *image.RGBA, tb *toolButton, state buttonState) {
	if tb.states[state] == nil {
		bg := c.th.ButtonBackground
		switch state {
		case stateHover:
			bg = c.th.ButtonBackgroundHover
		case statePressed:
			bg = c.th.ButtonActive
		}
		img := image.NewRGBA(tb.rect)
		c.paintChip(img, tb.label, tb.rect, bg, tb.rect.Min.Add(image.Pt(4, 16)))
		tb.states[state] = img
	}
	draw.Draw(dst, tb.rect, tb.states[state], tb.rect.Min, draw.Src)
}

func (c *chrome) resetHover() {
	c.hoverTool = -1
	c.hoverTemplate = false
	c.hoverPalette = -1
	c.hoverWidth = -1
	c.hoverTextSize = -1
	c.hoverShortcut = -1
}

func canvasRect(width, height, toolbarWidth int) image.Rectangle {
	return image.Rect(toolbarWidth, headerHeight, width, height-statusHeight)
}

func (c *chrome) canvas(width, height int) image.Rectangle {
	return canvasRect(width, height, c.toolbarWidth)
}

// drawBackdrop fills dst with a cached checkerboard so erased regions of
// the board read as transparent.
func (c *chrome) drawBackdrop(dst *image.RGBA) {
	b := dst.Bounds()
	if c.backdrop == nil || c.backdrop.Bounds() != b {
		c.backdrop = image.NewRGBA(b)
		raster.Checkerboard(c.backdrop, b, checkerSize, c.th.CheckerLight, c.th.CheckerDark)
	}
	draw.Draw(dst, b, c.backdrop, image.Point{}, draw.Src)
}

func (c *chrome) drawHeader(dst *image.RGBA, width int, templateID string, boardW, boardH int) {
	bar := image.Rect(0, 0, width, headerHeight)
	draw.Draw(dst, bar, &image.Uniform{c.th.ToolbarBackground}, image.Point{}, draw.Src)

	d := &font.Drawer{Dst: dst, Src: image.NewUniform(c.th.StatusText), Face: basicfont.Face7x13,
		Dot: fixed.P(4, 16)}
	d.DrawString("Inkboard")

	label := "G:" + templateID
	meas := &font.Drawer{Face: basicfont.Face7x13}
	w := meas.MeasureString(label).Ceil()
	x := c.toolbarWidth + 4
	c.templateRect = image.Rect(x-2, 3, x+w+2, headerHeight-3)
	state := stateDefault
	if c.hoverTemplate {
		state = stateHover
	}
	c.paintChip(dst, label, c.templateRect, c.chipFill(state), image.Pt(x, 17))

	size := fmt.Sprintf("%dx%d", boardW, boardH)
	sw := meas.MeasureString(size).Ceil()
	d.Dot = fixed.P(width-sw-4, 16)
	d.DrawString(size)
}

func showsWidths(k tool.Kind) bool {
	switch k {
	case tool.Freehand, tool.Eraser, tool.Rect, tool.Circle, tool.Line:
		return true
	}
	return false
}

func (c *chrome) drawToolbar(dst *image.RGBA, height int, active tool.Kind, colorIdx, widthIdx, textSizeIdx int) {
	col := image.Rect(0, headerHeight, c.toolbarWidth, height-statusHeight)
	draw.Draw(dst, col, &image.Uniform{c.th.ToolbarBackground}, image.Point{}, draw.Src)

	y := headerHeight
	for i, tb := range c.tools {
		tb.moveTo(image.Rect(0, y, c.toolbarWidth, y+toolButtonHeight))
		state := stateDefault
		switch {
		case tb.kind == active:
			state = statePressed
		case i == c.hoverTool:
			state = stateHover
		}
		c.paintTool(dst, tb, state)
		y += toolButtonHeight
	}

	y += 4
	x := 4
	c.paletteRects = c.paletteRects[:0]
	for i, p := range Palette() {
		rect := image.Rect(x, y, x+paletteCell, y+paletteCell)
		draw.Draw(dst, rect, &image.Uniform{p}, image.Point{}, draw.Src)
		if i == c.hoverPalette {
			draw.Draw(dst, rect, &image.Uniform{color.RGBA{255, 255, 255, 80}}, image.Point{}, draw.Over)
		}
		if i == colorIdx {
			raster.Rect(dst, rect, color.White, 1)
		}
		c.paletteRects = append(c.paletteRects, rect)
		x += paletteStep
		if x+paletteCell > c.toolbarWidth {
			x = 4
			y += paletteStep
		}
	}
	if x != 4 {
		y += paletteStep
	}

	// Stale rects must not keep answering hits for a hidden section.
	c.widthRects = c.widthRects[:0]
	c.textSizeRects = c.textSizeRects[:0]

	pen := colorAt(colorIdx)
	if showsWidths(active) {
		y += 4
		for i, w := range WidthOptions() {
			rect := image.Rect(0, y, c.toolbarWidth, y+widthRowHeight)
			bg := c.th.ButtonBackground
			if i == widthIdx {
				bg = c.th.ButtonActive
			} else if i == c.hoverWidth {
				bg = c.th.ButtonBackgroundHover
			}
			draw.Draw(dst, rect, &image.Uniform{bg}, image.Point{}, draw.Src)
			d := &font.Drawer{Dst: dst, Src: image.NewUniform(c.th.ButtonText), Face: basicfont.Face7x13,
				Dot: fixed.P(4, y+12)}
			d.DrawString(fmt.Sprintf("%d", w))
			lineY := y + widthRowHeight/2
			raster.Line(dst, 30, lineY, c.toolbarWidth-4, lineY, pen, w)
			c.widthRects = append(c.widthRects, rect)
			y += widthRowHeight
		}
	}

	if active == tool.Text {
		y += 4
		for i, sz := range raster.TextSizes() {
			rect := image.Rect(0, y, c.toolbarWidth, y+textRowHeight)
			bg := c.th.ButtonBackground
			if i == textSizeIdx {
				bg = c.th.ButtonActive
			} else if i == c.hoverTextSize {
				bg = c.th.ButtonBackgroundHover
			}
			draw.Draw(dst, rect, &image.Uniform{bg}, image.Point{}, draw.Src)
			if face, err := raster.Face(sz); err == nil {
				d := &font.Drawer{Dst: dst, Src: image.NewUniform(pen), Face: face}
				d.Dot = fixed.P(4, y+face.Metrics().Ascent.Ceil())
				d.DrawString("Ab3")
			}
			c.textSizeRects = append(c.textSizeRects, rect)
			y += textRowHeight
		}
	}
}

func (c *chrome) drawStatus(dst *image.RGBA, width, height int, zoom float64, active tool.Kind, textMode bool, readout string, trigger func(string)) {
	bar := image.Rect(0, height-statusHeight, width, height)
	draw.Draw(dst, bar, &image.Uniform{c.th.StatusBackground}, image.Point{}, draw.Src)

	chip := func(label, action string) statusChip {
		return statusChip{label: label, action: func() { trigger(action) }}
	}
	var chips []statusChip
	if textMode {
		chips = []statusChip{chip("Enter:place", "textdone"), chip("Esc:cancel", "textcancel")}
	} else {
		chips = []statusChip{
			chip("^S:save", "save"),
			chip("^C:copy", "copy"),
			chip("^E:pdf", "export"),
			chip("G:template", "template"),
			chip(fmt.Sprintf("+/-:zoom (%.0f%%)", zoom*100), "zoomreset"),
		}
	}

	c.shortcuts = c.shortcuts[:0]
	meas := &font.Drawer{Face: basicfont.Face7x13}
	x := c.toolbarWidth + 4
	baseline := height - statusHeight + 16
	for i, sc := range chips {
		w := meas.MeasureString(sc.label).Ceil()
		sc.rect = image.Rect(x-2, baseline-14, x+w+2, baseline+4)
		fill := c.chipFill(stateDefault)
		if i == c.hoverShortcut {
			fill = c.chipFill(stateHover)
		}
		c.paintChip(dst, sc.label, sc.rect, fill, image.Pt(x, baseline))
		c.shortcuts = append(c.shortcuts, sc)
		x = sc.rect.Max.X + 8
	}

	// The right edge shows the most specific live detail: an in-flight
	// drag's dimensions, else a hovered swatch's name, else the tool.
	label := "tool: " + active.String()
	if name := colorNameAt(c.hoverPalette); name != "" {
		label = name
	}
	if readout != "" {
		label = readout
	}
	lw := meas.MeasureString(label).Ceil()
	d := &font.Drawer{Dst: dst, Src: image.NewUniform(c.th.StatusText), Face: basicfont.Face7x13,
		Dot: fixed.P(width-lw-4, baseline)}
	d.DrawString(label)
}

func (c *chrome) toolHit(p image.Point) int {
	for i, tb := range c.tools {
		if p.In(tb.rect) {
			return i
		}
	}
	return -1
}

func rectHit(rects []image.Rectangle, p image.Point) int {
	for i, r := range rects {
		if p.In(r) {
			return i
		}
	}
	return -1
}

func (c *chrome) paletteHit(p image.Point) int  { return rectHit(c.paletteRects, p) }
func (c *chrome) widthHit(p image.Point) int    { return rectHit(c.widthRects, p) }
func (c *chrome) textSizeHit(p image.Point) int { return rectHit(c.textSizeRects, p) }

func (c *chrome) shortcutHit(p image.Point) int {
	for i := range c.shortcuts {
		if p.In(c.shortcuts[i].rect) {
			return i
		}
	}
	return -1
}
