package qrcode

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"math"

	"golang.org/x/image/bmp"
)

// QuietZone is the standard border width in modules.
const QuietZone = 4

// Palette indexes of rasterized images.
const (
	BackgroundIndex = 0
	ForegroundIndex = 1
)

// checkBorder validates border against the symbol and returns the side
// length in modules, border included.
func checkBorder(qr *QRCode, border int) (int, error) {
	if qr == nil {
		return 0, fmt.Errorf("%w: nil symbol", ErrInvalidArgument)
	}
	if border < 0 {
		return 0, fmt.Errorf("%w: border %d is negative", ErrInvalidArgument, border)
	}
	if border > (math.MaxInt32-qr.size)/2 {
		return 0, fmt.Errorf("%w: border %d", ErrDimensionOverflow, border)
	}
	return qr.size + 2*border, nil
}

// checkSide validates a pixel side length: positive, within int32, and with
// a pixel count that fits int32 as well.
func checkSide(side int) error {
	if side <= 0 {
		return fmt.Errorf("%w: side %d", ErrInvalidArgument, side)
	}
	if side > math.MaxInt32/side {
		return fmt.Errorf("%w: %dx%d pixels", ErrDimensionOverflow, side, side)
	}
	return nil
}

// rasterSide returns (size + 2*border) * scale after checking every step
// for overflow.
func rasterSide(qr *QRCode, border, scale int) (int, error) {
	modules, err := checkBorder(qr, border)
	if err != nil {
		return 0, err
	}
	if scale <= 0 {
		return 0, fmt.Errorf("%w: scale %d must be positive", ErrInvalidArgument, scale)
	}
	if modules > math.MaxInt32/scale {
		return 0, fmt.Errorf("%w: %d modules at scale %d", ErrDimensionOverflow, modules, scale)
	}
	side := modules * scale
	if err := checkSide(side); err != nil {
		return 0, err
	}
	return side, nil
}

// Rasterize draws the symbol black on white with a border of light modules.
// Each module becomes a scale x scale block.
func Rasterize(qr *QRCode, border, scale int) (*image.Paletted, error) {
	return RasterizeColors(qr, border, scale, color.Black, color.White)
}

// RasterizeColors is Rasterize with explicit colors. The palette is
// {bg, fg}, so BackgroundIndex and ForegroundIndex address the pixels.
func RasterizeColors(qr *QRCode, border, scale int, fg, bg color.Color) (*image.Paletted, error) {
	side, err := rasterSide(qr, border, scale)
	if err != nil {
		return nil, err
	}

	img := image.NewPaletted(image.Rect(0, 0, side, side), color.Palette{bg, fg})
	// Pix starts zeroed, which is BackgroundIndex.

	for y := -border; y < qr.size+border; y++ {
		for x := -border; x < qr.size+border; x++ {
			if !qr.Module(x, y) {
				continue
			}
			startX := (x + border) * scale
			startY := (y + border) * scale
			for dy := 0; dy < scale; dy++ {
				off := (startY+dy)*img.Stride + startX
				row := img.Pix[off : off+scale]
				for i := range row {
					row[i] = ForegroundIndex
				}
			}
		}
	}
	return img, nil
}

// WritePNG writes the symbol as a PNG with the standard quiet zone.
// scale is the number of pixels per module.
func (qr *QRCode) WritePNG(w io.Writer, scale int) error {
	img, err := Rasterize(qr, QuietZone, scale)
	if err != nil {
		return err
	}
	return png.Encode(w, img)
}

// WriteBMP writes the symbol as a BMP with the standard quiet zone.
func (qr *QRCode) WriteBMP(w io.Writer, scale int) error {
	img, err := Rasterize(qr, QuietZone, scale)
	if err != nil {
		return err
	}
	return bmp.Encode(w, img)
}

// RenderMode selects the output representation of Render.
type RenderMode int

const (
	// RenderRaster draws modules directly into a paletted image.
	RenderRaster RenderMode = iota

	// RenderVector builds the SVG path and rasterizes it to Side pixels.
	RenderVector
)

func (m RenderMode) String() string {
	switch m {
	case RenderRaster:
		return "raster"
	case RenderVector:
		return "vector"
	}
	return fmt.Sprintf("RenderMode(%d)", int(m))
}

// ParseRenderMode parses "raster" or "vector" ("svg" is accepted too).
func ParseRenderMode(s string) (RenderMode, error) {
	switch s {
	case "raster":
		return RenderRaster, nil
	case "vector", "svg":
		return RenderVector, nil
	}
	return 0, fmt.Errorf("%w: unknown render mode %q", ErrInvalidArgument, s)
}

// RenderOptions configures Render.
type RenderOptions struct {
	Mode   RenderMode
	Border int

	// Scale is the pixels per module. Raster mode requires it; vector mode
	// uses it only when Side is zero.
	Scale int

	// Side is the vector output size in pixels.
	Side int
}

// Render produces an image of the symbol in the selected representation.
// Both modes share the module pattern and the border convention.
func Render(qr *QRCode, opts RenderOptions) (image.Image, error) {
	switch opts.Mode {
	case RenderRaster:
		return Rasterize(qr, opts.Border, opts.Scale)
	case RenderVector:
		p, err := Vectorize(qr, opts.Border)
		if err != nil {
			return nil, err
		}
		side := opts.Side
		if side == 0 {
			if side, err = rasterSide(qr, opts.Border, opts.Scale); err != nil {
				return nil, err
			}
		}
		return p.Rasterize(side)
	}
	return nil, fmt.Errorf("%w: render mode %d", ErrInvalidArgument, int(opts.Mode))
}
