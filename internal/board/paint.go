package board

import (
	"context"
	"image"
	"image/color"
	"image/draw"
	"log"
	"sync"
	"time"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"

	"golang.org/x/exp/shiny/screen"

	"github.com/example/inkboard/internal/raster"
	"github.com/example/inkboard/internal/tool"
)

const messageTextSize = 32

// paintState is the immutable-enough snapshot of everything one frame
// needs. The raster pointer stays live; a frame raced by fresh strokes
// is canceled and redrawn rather than locked against.
type paintState struct {
	width, height int
	ui            *chrome

	img        *image.RGBA
	zoom       float64
	panX, panY float64

	boardW, boardH int
	tool           tool.Kind
	colorIdx       int
	widthIdx       int
	textSizeIdx    int
	templateID     string
	dragLabel      string

	textActive  bool
	textContent string
	textAnchor  image.Point
	fontSize    float64
	penColor    color.RGBA

	message      string
	messageUntil time.Time

	handleShortcut func(string)
}

// painter consumes frame requests one at a time. The event loop cancels
// the in-flight frame when a newer request arrives, up to
// frameDropThreshold in a row.
func painter(s screen.Screen, w screen.Window, ch <-chan paintState, mu *sync.Mutex, cancel *func(), dropCount *int) {
	for st := range ch {
		ctx, cancelFn := context.WithCancel(context.Background())
		mu.Lock()
		*cancel = cancelFn
		mu.Unlock()
		drawFrame(ctx, s, w, st)
		mu.Lock()
		*cancel = nil
		if ctx.Err() == nil {
			*dropCount = 0
		}
		mu.Unlock()
	}
}

func drawFrame(ctx context.Context, s screen.Screen, w screen.Window, st paintState) {
	b, err := s.NewBuffer(image.Point{X: st.width, Y: st.height})
	if err != nil {
		log.Printf("new buffer: %v", err)
		return
	}
	defer b.Release()

	st.ui.drawBackdrop(b.RGBA())
	if ctx.Err() != nil {
		return
	}

	canvas := st.ui.canvas(st.width, st.height)
	sb := st.img.Bounds()
	dst := image.Rect(
		canvas.Min.X+int(st.panX),
		canvas.Min.Y+int(st.panY),
		canvas.Min.X+int(st.panX)+int(float64(sb.Dx())*st.zoom),
		canvas.Min.Y+int(st.panY)+int(float64(sb.Dy())*st.zoom),
	)
	xdraw.NearestNeighbor.Scale(b.RGBA(), dst, st.img, sb, draw.Over, nil)
	if ctx.Err() != nil {
		return
	}

	st.ui.drawHeader(b.RGBA(), st.width, st.templateID, st.boardW, st.boardH)
	st.ui.drawToolbar(b.RGBA(), st.height, st.tool, st.colorIdx, st.widthIdx, st.textSizeIdx)
	st.ui.drawStatus(b.RGBA(), st.width, st.height, st.zoom, st.tool, st.textActive, st.dragLabel, st.handleShortcut)
	if ctx.Err() != nil {
		return
	}

	if st.textActive {
		drawTextOverlay(b.RGBA(), canvas, st)
	}
	if ctx.Err() != nil {
		return
	}

	if st.message != "" && time.Now().Before(st.messageUntil) {
		drawMessage(b.RGBA(), st)
	}
	if ctx.Err() != nil {
		return
	}

	w.Upload(image.Point{}, b, b.Bounds())
	w.Publish()
}

// drawTextOverlay outlines the pending text's footprint with a dashed
// box and marks the insertion point, in device coordinates.
func drawTextOverlay(dst *image.RGBA, canvas image.Rectangle, st paintState) {
	wpx, hpx, baseline, err := raster.MeasureText(st.textContent, st.fontSize)
	if err != nil {
		return
	}
	toDevice := func(bx, by float64) (int, int) {
		return int(float64(canvas.Min.X) + st.panX + bx*st.zoom),
			int(float64(canvas.Min.Y) + st.panY + by*st.zoom)
	}
	left := float64(st.textAnchor.X)
	top := float64(st.textAnchor.Y - baseline)
	x0, y0 := toDevice(left, top)
	x1, y1 := toDevice(left+float64(wpx), top+float64(hpx))
	if x1 > x0 {
		box := image.Rect(x0-2, y0-2, x1+3, y1+3)
		raster.DashedRect(dst, box, 4, 1, st.penColor, st.ui.th.Paper)
	}
	raster.Line(dst, x1, y0, x1, y1, st.penColor, 1)
}

func drawMessage(dst *image.RGBA, st paintState) {
	face, err := raster.Face(messageTextSize)
	if err != nil {
		return
	}
	th := st.ui.th
	d := &font.Drawer{Dst: dst, Src: image.NewUniform(th.Foreground), Face: face}
	wmsg := d.MeasureString(st.message).Ceil()
	ascent := face.Metrics().Ascent.Ceil()
	descent := face.Metrics().Descent.Ceil()
	px := (st.width - wmsg) / 2
	py := (st.height-ascent-descent)/2 + ascent
	rect := image.Rect(px-8, py-ascent-8, px+wmsg+8, py+descent+8)
	draw.Draw(dst, rect, &image.Uniform{th.ButtonBackground}, image.Point{}, draw.Src)
	raster.Rect(dst, rect, th.ButtonBorder, 2)
	d.Dot = fixed.P(px, py)
	d.DrawString(st.message)
}
