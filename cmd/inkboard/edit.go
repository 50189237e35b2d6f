package main

import (
	"flag"
	"fmt"
	"image"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/example/inkboard/internal/board"
	"github.com/example/inkboard/internal/capture"
	"github.com/example/inkboard/internal/config"
	"github.com/example/inkboard/internal/notify"
	"github.com/example/inkboard/internal/surface"
	"github.com/example/inkboard/internal/template"
	"github.com/example/inkboard/internal/tool"
)

const (
	defaultBoardW = 960
	defaultBoardH = 600
)

// editCmd opens the drawing window.
type editCmd struct {
	templateID string
	openFile   string
	fromScreen bool
	withCursor bool
	output     string
	saveDir    string
	framed     bool
	colorSpec  string
	width      int
	toolSpec   string
	sizeSpec   string
	zoom       float64
	*root
	fs *flag.FlagSet
}

func (e *editCmd) FlagSet() *flag.FlagSet {
	return e.fs
}

func parseEditCmd(args []string, r *root) (*editCmd, error) {
	fs := flag.NewFlagSet("edit", flag.ExitOnError)
	e := &editCmd{root: r, fs: fs}
	fs.Usage = usageFunc(e)

	defTemplate := "blank"
	defSaveDir := ""
	defColor := "black"
	defWidth := 2
	defTool := "pen"
	if r != nil && r.config != nil {
		if r.config.Template != "" {
			defTemplate = r.config.Template
		}
		defSaveDir = r.config.SaveDir
		if r.config.Color != "" {
			defColor = r.config.Color
		}
		if r.config.Width > 0 {
			defWidth = r.config.Width
		}
		if r.config.Tool != "" {
			defTool = r.config.Tool
		}
	}

	fs.StringVar(&e.templateID, "template", defTemplate, "board template to start from")
	fs.StringVar(&e.openFile, "open", "", "seed the board from a PNG file")
	fs.BoolVar(&e.fromScreen, "from-screen", false, "seed the board from a screen capture")
	fs.BoolVar(&e.withCursor, "cursor", false, "include the pointer in the screen capture (portal captures only)")
	fs.StringVar(&e.output, "output", "", "fixed path for saves instead of timestamped files")
	fs.StringVar(&e.saveDir, "save-dir", defSaveDir, "directory for timestamped saves")
	fs.BoolVar(&e.framed, "framed", false, "matte saved and exported boards on a shadowed backdrop")
	fs.StringVar(&e.colorSpec, "color", defColor, "initial pen color name or hex value")
	fs.IntVar(&e.width, "width", defWidth, "initial stroke width in pixels")
	fs.StringVar(&e.toolSpec, "tool", defTool, "initial tool (pen, eraser, rect, circle, line, text)")
	fs.StringVar(&e.sizeSpec, "size", "", "board size as WxH (defaults to 960x600 or the seed image size)")
	fs.Float64Var(&e.zoom, "zoom", 0, "initial zoom factor (0 keeps 1:1)")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() != 0 {
		return nil, &UsageError{of: e}
	}
	if e.openFile != "" && e.fromScreen {
		return nil, fmt.Errorf("-open and -from-screen cannot be combined")
	}
	if e.withCursor && !e.fromScreen {
		return nil, fmt.Errorf("-cursor requires -from-screen")
	}
	return e, nil
}

func (e *editCmd) Run() error {
	th := e.theme()
	reg := template.NewRegistry(th)

	seed, seedID, err := e.seedImage()
	if err != nil {
		return err
	}

	vw, vh := defaultBoardW, defaultBoardH
	if seed != nil {
		b := seed.Bounds()
		vw, vh = b.Dx(), b.Dy()
	}
	if e.sizeSpec != "" {
		vw, vh, err = parseSize(e.sizeSpec)
		if err != nil {
			return err
		}
	}

	var surfOpts []surface.Option
	if e.root != nil && e.root.config != nil && e.root.config.ZoomMin > 0 && e.root.config.ZoomMax > 0 {
		surfOpts = append(surfOpts, surface.WithZoomRange(e.root.config.ZoomMin, e.root.config.ZoomMax))
	}
	if e.zoom > 0 {
		surfOpts = append(surfOpts, surface.WithZoom(e.zoom))
	}
	surf, err := surface.New(vw, vh, surfOpts...)
	if err != nil {
		return err
	}
	if e.zoom > 0 {
		if lo, hi := surf.ZoomRange(); e.zoom < lo || e.zoom > hi {
			return fmt.Errorf("zoom %g is outside the range %g to %g", e.zoom, lo, hi)
		}
	}
	sess := tool.NewSession(surf)

	startID := e.templateID
	if seed != nil {
		reg.Register(template.FromImage(seedID, seed))
		startID = seedID
	}
	if err := renderTemplate(reg, startID, surf); err != nil {
		return err
	}

	col, err := parseColor(e.colorSpec)
	if err != nil {
		return err
	}
	colorName := ""
	if !strings.HasPrefix(e.colorSpec, "#") {
		colorName = e.colorSpec
	}
	colorIdx := board.EnsurePaletteColor(col, colorName)
	widthIdx := board.EnsureWidth(e.width)

	kind, err := tool.ParseKind(e.toolSpec)
	if err != nil {
		return err
	}
	if err := sess.SelectTool(kind); err != nil {
		return err
	}
	if e.root != nil && e.root.config != nil && e.root.config.FontSize > 0 {
		st := sess.Style()
		st.FontSize = e.root.config.FontSize
		sess.SetStyle(st)
	}

	var notifier *notify.Notifier
	if e.root != nil {
		notifier = e.root.notifier
	}
	opts := []board.Option{
		board.WithSession(sess),
		board.WithRegistry(reg),
		board.WithTemplate(startID),
		board.WithTheme(th),
		board.WithNotifier(notifier),
		board.WithOutput(e.output),
		board.WithSaveDir(e.saveDir),
		board.WithColorIndex(colorIdx),
		board.WithWidthIndex(widthIdx),
		board.WithFramedExport(e.framed),
	}
	// Write pen settings back only for users who already keep a config file.
	if e.root != nil && e.root.config != nil {
		path := config.NewLoader(version, configPathOverride).GetConfigPath()
		if _, err := os.Stat(path); err == nil {
			record, flush := rememberPenSettings(e.root.config, path)
			opts = append(opts, board.WithSettingsListener(record), board.WithOnClose(flush))
		}
	}
	b := board.New(opts...)
	b.Run()
	return nil
}

// rememberPenSettings tracks the pen color and width picked during a
// session and writes them back to the config file on close. Nothing is
// written when the settings never changed.
func rememberPenSettings(cfg *config.Config, path string) (record func(colorIdx, widthIdx int), flush func()) {
	lastColor, lastWidth := -1, -1
	record = func(colorIdx, widthIdx int) {
		lastColor, lastWidth = colorIdx, widthIdx
	}
	flush = func() {
		if lastColor < 0 && lastWidth < 0 {
			return
		}
		if entries := board.PaletteColors(); lastColor >= 0 && lastColor < len(entries) {
			if name := entries[lastColor].Name; name != "" {
				cfg.Color = strings.ToLower(name)
			}
		}
		if widths := board.WidthOptions(); lastWidth >= 0 && lastWidth < len(widths) {
			cfg.Width = widths[lastWidth]
		}
		if err := os.WriteFile(path, []byte(cfg.String()), 0o644); err != nil {
			log.Printf("save pen settings: %v", err)
		}
	}
	return record, flush
}

func (e *editCmd) seedImage() (image.Image, string, error) {
	if e.fromScreen {
		img, err := capture.Screen(capture.Options{IncludeCursor: e.withCursor})
		if err != nil {
			return nil, "", fmt.Errorf("capture screen: %w", err)
		}
		return img, "screen", nil
	}
	if e.openFile == "" {
		return nil, "", nil
	}
	img, err := readPNG(e.openFile)
	if err != nil {
		return nil, "", err
	}
	return img, filepath.Base(e.openFile), nil
}
