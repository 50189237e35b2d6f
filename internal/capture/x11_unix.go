//go:build linux || freebsd || openbsd || netbsd || dragonfly

package capture

import (
	"fmt"
	"image"

	"github.com/jezek/xgb"
	"github.com/jezek/xgb/xproto"
)

func x11Screen(_ Options) (*image.RGBA, error) {
	conn, err := xgb.NewConn()
	if err != nil {
		return nil, fmt.Errorf("connect X server: %w", err)
	}
	defer conn.Close()

	setup := xproto.Setup(conn)
	if setup == nil {
		return nil, fmt.Errorf("xproto setup unavailable")
	}
	screen := setup.DefaultScreen(conn)
	if screen == nil {
		return nil, fmt.Errorf("xproto screen unavailable")
	}

	reply, err := xproto.GetImage(conn, xproto.ImageFormatZPixmap, xproto.Drawable(screen.Root),
		0, 0, screen.WidthInPixels, screen.HeightInPixels, ^uint32(0)).Reply()
	if err != nil {
		return nil, fmt.Errorf("screen pixels: %w", err)
	}

	return imageFromReply(setup, reply, int(screen.WidthInPixels), int(screen.HeightInPixels))
}

// pixelSize looks up the server's bytes-per-pixel for a pixmap depth.
func pixelSize(setup *xproto.SetupInfo, depth byte) (int, error) {
	for _, f := range setup.PixmapFormats {
		if f.Depth != depth {
			continue
		}
		if bpp := int(f.BitsPerPixel) / 8; bpp >= 3 {
			return bpp, nil
		}
		return 0, fmt.Errorf("unsupported screen pixel format %d bpp", f.BitsPerPixel)
	}
	return 0, fmt.Errorf("unsupported screen depth %d", depth)
}

// imageFromReply converts an X ZPixmap reply (BGRx rows) to RGBA. Only a
// depth 32 visual carries alpha in the fourth byte; at depth 24 that byte
// is padding, typically zero, and must not be read as transparency.
func imageFromReply(setup *xproto.SetupInfo, reply *xproto.GetImageReply, width, height int) (*image.RGBA, error) {
	if setup == nil {
		return nil, fmt.Errorf("xproto setup unavailable")
	}
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("screen has empty geometry")
	}
	if reply == nil || len(reply.Data) == 0 {
		return nil, fmt.Errorf("screen pixels: empty image data")
	}
	bpp, err := pixelSize(setup, reply.Depth)
	if err != nil {
		return nil, err
	}
	stride := len(reply.Data) / height
	if stride*height != len(reply.Data) {
		return nil, fmt.Errorf("screen pixels: unexpected stride")
	}

	hasAlpha := reply.Depth == 32
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		src := reply.Data[y*stride : (y+1)*stride]
		dst := img.Pix[y*img.Stride : y*img.Stride+width*4]
		for x := 0; x < width; x++ {
			off := x * bpp
			if off+3 > len(src) {
				break
			}
			d := dst[x*4 : x*4+4 : x*4+4]
			d[0], d[1], d[2], d[3] = src[off+2], src[off+1], src[off], 0xFF
			if hasAlpha && off+3 < len(src) {
				d[3] = src[off+3]
			}
		}
	}
	return img, nil
}
