package main

import (
	"encoding/hex"
	"flag"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/example/inkboard/internal/board"
	"github.com/example/inkboard/internal/clipboard"
	"github.com/example/inkboard/internal/export"
	"github.com/example/inkboard/internal/raster"
	"github.com/example/inkboard/internal/surface"
	"github.com/example/inkboard/internal/template"
	"github.com/example/inkboard/internal/tool"
	"golang.org/x/image/colornames"
)

// drawCmd applies one scripted drawing operation to a board without
// opening a window.
type drawCmd struct {
	// source and destination
	file          string
	output        string
	templateID    string
	sizeSpec      string
	fromClipboard bool
	toClipboard   bool
	framed        bool

	// stroke style
	colorSpec string
	color     color.RGBA
	width     int
	textSize  float64

	// parsed operation
	shape  string
	coords []int
	text   string

	*root
	fs *flag.FlagSet
}

func (d *drawCmd) FlagSet() *flag.FlagSet {
	return d.fs
}

// parseColor resolves a board palette name, an SVG 1.1 color name, or a
// #RRGGBB / #RRGGBBAA hex value. Palette entries are checked before the
// SVG table so a configured palette may redefine a standard name.
func parseColor(s string) (color.RGBA, error) {
	spec := strings.ToLower(strings.TrimSpace(s))
	if spec == "" {
		return color.RGBA{}, fmt.Errorf("color cannot be empty")
	}
	if digits, ok := strings.CutPrefix(spec, "#"); ok {
		return hexColor(digits, s)
	}
	for _, entry := range board.PaletteColors() {
		if strings.EqualFold(entry.Name, spec) {
			return entry.Color, nil
		}
	}
	if c, ok := colornames.Map[spec]; ok {
		return c, nil
	}
	return color.RGBA{}, fmt.Errorf("invalid color %q", s)
}

func hexColor(digits, orig string) (color.RGBA, error) {
	raw, err := hex.DecodeString(digits)
	if err == nil {
		switch len(raw) {
		case 3:
			return color.RGBA{raw[0], raw[1], raw[2], 0xFF}, nil
		case 4:
			return color.RGBA{raw[0], raw[1], raw[2], raw[3]}, nil
		}
	}
	return color.RGBA{}, fmt.Errorf("invalid color %q", orig)
}

func parseSize(spec string) (int, int, error) {
	parts := strings.SplitN(strings.ToLower(strings.TrimSpace(spec)), "x", 2)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("invalid size %q, want WxH", spec)
	}
	w, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, fmt.Errorf("invalid size %q, want WxH", spec)
	}
	h, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, 0, fmt.Errorf("invalid size %q, want WxH", spec)
	}
	if w <= 0 || h <= 0 {
		return 0, 0, fmt.Errorf("size must be positive, got %q", spec)
	}
	return w, h, nil
}

func parseDrawCmd(args []string, r *root) (*drawCmd, error) {
	fs := flag.NewFlagSet("draw", flag.ExitOnError)
	d := &drawCmd{root: r, fs: fs}
	fs.Usage = usageFunc(d)
	fs.StringVar(&d.file, "file", "", "input board file")
	fs.StringVar(&d.output, "output", "", "output file path (defaults to the input file)")
	fs.BoolVar(&d.fromClipboard, "from-clipboard", false, "read the input board from the clipboard")
	fs.BoolVar(&d.fromClipboard, "from-clip", false, "read the input board from the clipboard (alias)")
	fs.BoolVar(&d.toClipboard, "to-clipboard", false, "also place the result on the clipboard")
	fs.BoolVar(&d.toClipboard, "to-clip", false, "also place the result on the clipboard (alias)")
	fs.StringVar(&d.templateID, "template", "", "start from a fresh template instead of an input file")
	fs.StringVar(&d.sizeSpec, "size", "960x600", "fresh board size as WxH")
	fs.StringVar(&d.colorSpec, "color", "black", "stroke or text color name or hex value")
	fs.IntVar(&d.width, "width", 2, "pen stroke width in pixels")
	fs.Float64Var(&d.textSize, "text-size", raster.DefaultTextSize(), "text size in points")
	fs.BoolVar(&d.framed, "framed", false, "matte the result on a shadowed backdrop")

	flagArgs, positionals, err := splitArgs(fs, args)
	if err != nil {
		return nil, err
	}
	if err := fs.Parse(flagArgs); err != nil {
		return nil, err
	}
	if len(positionals) == 0 {
		return nil, &UsageError{of: d}
	}
	d.shape = strings.ToLower(positionals[0])
	if err := d.parseShape(positionals[1:]); err != nil {
		return nil, err
	}
	if d.color, err = parseColor(d.colorSpec); err != nil {
		return nil, err
	}
	if d.templateID != "" && d.fromClipboard {
		return nil, fmt.Errorf("-template and -from-clipboard cannot be combined")
	}
	if err := d.resolveOutput(); err != nil {
		return nil, err
	}
	d.width = max(d.width, 1)
	if d.textSize <= 0 {
		d.textSize = raster.DefaultTextSize()
	}
	return d, nil
}

// parseShape fills coords and text from the positionals following the
// shape word.
func (d *drawCmd) parseShape(rest []string) (err error) {
	switch d.shape {
	case "line", "rect":
		d.coords, err = intArgs(d.shape, rest, 4)
	case "circle":
		d.coords, err = intArgs(d.shape, rest, 3)
		if err == nil && d.coords[2] <= 0 {
			err = fmt.Errorf("circle radius must be positive")
		}
	case "free", "erase":
		if len(rest) < 4 || len(rest)%2 != 0 {
			return fmt.Errorf("%s requires an even number of at least 4 integer arguments", d.shape)
		}
		d.coords, err = intArgs(d.shape, rest, len(rest))
	case "text":
		if len(rest) < 3 {
			return fmt.Errorf("text takes x y and the text content")
		}
		if d.coords, err = intArgs(d.shape, rest[:2], 2); err != nil {
			return err
		}
		d.text = strings.Join(rest[2:], " ")
		if strings.TrimSpace(d.text) == "" {
			return fmt.Errorf("text content is empty")
		}
	default:
		err = fmt.Errorf("unsupported shape %q", d.shape)
	}
	return err
}

// resolveOutput picks the destination path. Fresh-board and clipboard
// sources have no input file to default to, so one must be named.
func (d *drawCmd) resolveOutput() error {
	if d.templateID == "" && !d.fromClipboard && d.file == "" {
		return fmt.Errorf("input file is required")
	}
	if d.output == "" {
		d.output = d.file
	}
	if d.output == "" {
		if d.templateID != "" {
			return fmt.Errorf("output file is required when starting from a template")
		}
		return fmt.Errorf("output file is required when reading from the clipboard")
	}
	return nil
}

func (d *drawCmd) Run() error {
	surf, sess, err := d.board()
	if err != nil {
		return err
	}
	sess.SetStyle(tool.Style{Color: d.color, Width: d.width, FontSize: d.textSize})
	if err := d.applyShape(sess); err != nil {
		return err
	}
	opts := export.Options{Frame: d.framed}
	if err := export.PNG(d.output, surf.Committed(), opts); err != nil {
		return err
	}
	saved := absOrSame(d.output)
	fmt.Fprintf(os.Stderr, "saved %s\n", saved)
	d.notifySave(saved)
	if d.toClipboard {
		if err := export.Clipboard(surf.Committed(), opts); err != nil {
			return fmt.Errorf("copy board to clipboard: %w", err)
		}
		detail := filepath.Base(d.output)
		fmt.Fprintf(os.Stderr, "copied %s to clipboard\n", detail)
		d.notifyCopy(detail)
	}
	return nil
}

// board builds the surface and session the operation runs against. The
// surface is sized to the source so board pixels line up one to one.
func (d *drawCmd) board() (*surface.Surface, *tool.Session, error) {
	reg := template.NewRegistry(d.theme())
	if d.templateID != "" {
		w, h, err := parseSize(d.sizeSpec)
		if err != nil {
			return nil, nil, err
		}
		surf, err := surface.New(w, h)
		if err != nil {
			return nil, nil, err
		}
		if err := renderTemplate(reg, d.templateID, surf); err != nil {
			return nil, nil, err
		}
		return surf, tool.NewSession(surf), nil
	}
	src, err := d.loadSource()
	if err != nil {
		return nil, nil, err
	}
	b := src.Bounds()
	surf, err := surface.New(b.Dx(), b.Dy())
	if err != nil {
		return nil, nil, err
	}
	reg.Register(template.FromImage("source", src))
	if err := reg.Render("source", surf); err != nil {
		return nil, nil, err
	}
	return surf, tool.NewSession(surf), nil
}

func (d *drawCmd) loadSource() (image.Image, error) {
	if !d.fromClipboard {
		return readPNG(d.file)
	}
	img, err := clipboard.ReadImage()
	if err != nil {
		return nil, fmt.Errorf("read clipboard image: %w", err)
	}
	return img, nil
}

func readPNG(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := f.Close(); err != nil {
			log.Printf("close %s: %v", path, err)
		}
	}()
	return png.Decode(f)
}

// absOrSame resolves path for display, keeping the raw value when Abs
// fails.
func absOrSame(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return path
}

// intArgs converts exactly want arguments to integers.
func intArgs(shape string, args []string, want int) ([]int, error) {
	if len(args) != want {
		return nil, fmt.Errorf("%s takes %d integer arguments, got %d", shape, want, len(args))
	}
	vals := make([]int, 0, want)
	for _, raw := range args {
		v, err := strconv.Atoi(raw)
		if err != nil {
			return nil, fmt.Errorf("%s: %q is not an integer", shape, raw)
		}
		vals = append(vals, v)
	}
	return vals, nil
}

func (d *drawCmd) applyShape(sess *tool.Session) error {
	switch d.shape {
	case "line":
		return dragShape(sess, tool.Line, d.coords[0], d.coords[1], d.coords[2], d.coords[3])
	case "rect":
		return dragShape(sess, tool.Rect, d.coords[0], d.coords[1], d.coords[2], d.coords[3])
	case "circle":
		// The circle gesture anchors on the center and drags outward.
		cx, cy, radius := d.coords[0], d.coords[1], d.coords[2]
		return dragShape(sess, tool.Circle, cx, cy, cx+radius, cy+radius)
	case "free":
		return stroke(sess, tool.Freehand, d.coords)
	case "erase":
		return stroke(sess, tool.Eraser, d.coords)
	case "text":
		return d.placeText(sess)
	}
	return fmt.Errorf("unhandled shape %q", d.shape)
}

func dragShape(sess *tool.Session, k tool.Kind, x0, y0, x1, y1 int) error {
	if err := sess.SelectTool(k); err != nil {
		return err
	}
	if err := sess.BeginGesture(surface.Pt(float64(x0), float64(y0)), 1); err != nil {
		return err
	}
	end := surface.Pt(float64(x1), float64(y1))
	if err := sess.MoveGesture(end); err != nil {
		return err
	}
	return sess.EndGesture(end)
}

func stroke(sess *tool.Session, k tool.Kind, pts []int) error {
	if err := sess.SelectTool(k); err != nil {
		return err
	}
	if err := sess.BeginGesture(surface.Pt(float64(pts[0]), float64(pts[1])), 1); err != nil {
		return err
	}
	for i := 2; i < len(pts)-2; i += 2 {
		if err := sess.MoveGesture(surface.Pt(float64(pts[i]), float64(pts[i+1]))); err != nil {
			return err
		}
	}
	return sess.EndGesture(surface.Pt(float64(pts[len(pts)-2]), float64(pts[len(pts)-1])))
}

func (d *drawCmd) placeText(sess *tool.Session) error {
	if err := sess.SelectTool(tool.Text); err != nil {
		return err
	}
	anchor := surface.Pt(float64(d.coords[0]), float64(d.coords[1]))
	if err := sess.BeginGesture(anchor, 1); err != nil {
		return err
	}
	if err := sess.EndGesture(anchor); err != nil {
		return err
	}
	for _, r := range d.text {
		if err := sess.TypeRune(r); err != nil {
			return err
		}
	}
	return sess.ConfirmText()
}

// splitArgs partitions args into flag tokens and positionals so the
// shape word may come before, between, or after flags. Flag names and
// arity come from the set's registrations, and everything following
// "--" is positional.
func splitArgs(fs *flag.FlagSet, args []string) (flags, positionals []string, err error) {
	for len(args) > 0 {
		arg := args[0]
		args = args[1:]
		if arg == "--" {
			return flags, append(positionals, args...), nil
		}
		base, value, hasValue := flagParts(arg)
		def := fs.Lookup(base)
		if def == nil {
			positionals = append(positionals, arg)
			continue
		}
		switch {
		case hasValue:
			flags = append(flags, "-"+base+"="+value)
		case takesNoValue(def):
			flags = append(flags, "-"+base)
		case len(args) > 0:
			flags = append(flags, "-"+base, args[0])
			args = args[1:]
		default:
			return nil, nil, fmt.Errorf("missing value for flag %s", arg)
		}
	}
	return flags, positionals, nil
}

func takesNoValue(f *flag.Flag) bool {
	b, ok := f.Value.(interface{ IsBoolFlag() bool })
	return ok && b.IsBoolFlag()
}

// flagParts splits "-name=value" into its pieces. Words without a dash
// prefix, and bare dash runs, report an empty name so the caller treats
// them as positional.
func flagParts(arg string) (name, value string, hasValue bool) {
	if !strings.HasPrefix(arg, "-") || arg == "-" {
		return "", "", false
	}
	trimmed := strings.TrimLeft(arg, "-")
	if trimmed == "" {
		return "", "", false
	}
	name, value, hasValue = strings.Cut(trimmed, "=")
	return strings.ToLower(name), value, hasValue
}
