package qrcode

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"math"
	"testing"
)

func mustEncode(t *testing.T, text string, level Level) *QRCode {
	t.Helper()
	qr, err := Encode(text, level)
	if err != nil {
		t.Fatalf("Failed to create QR: %v", err)
	}
	return qr
}

func TestRasterizeDimensions(t *testing.T) {
	qr := mustEncode(t, "Hello World", LevelL)
	if qr.Version() != 1 {
		t.Fatalf("Expected version 1, got %d", qr.Version())
	}

	img, err := Rasterize(qr, 4, 20)
	if err != nil {
		t.Fatal(err)
	}
	if b := img.Bounds(); b.Dx() != 580 || b.Dy() != 580 {
		t.Fatalf("Expected 580x580, got %dx%d", b.Dx(), b.Dy())
	}
	for _, p := range []image.Point{{0, 0}, {579, 0}, {0, 579}, {579, 579}, {79, 290}} {
		if img.ColorIndexAt(p.X, p.Y) != BackgroundIndex {
			t.Errorf("Pixel %v is not background", p)
		}
	}
}

func TestRasterizeMatchesModules(t *testing.T) {
	for _, border := range []int{0, 1, 4} {
		qr := mustEncode(t, "https://example.com/frames?id=42", LevelQ)
		const scale = 3
		img, err := Rasterize(qr, border, scale)
		if err != nil {
			t.Fatal(err)
		}
		for y := -border; y < qr.Size()+border; y++ {
			for x := -border; x < qr.Size()+border; x++ {
				for _, d := range []image.Point{{0, 0}, {scale - 1, scale - 1}} {
					px := (x+border)*scale + d.X
					py := (y+border)*scale + d.Y
					dark := img.ColorIndexAt(px, py) == ForegroundIndex
					if dark != qr.Module(x, y) {
						t.Fatalf("border %d: pixel (%d,%d) disagrees with module (%d,%d)", border, px, py, x, y)
					}
				}
			}
		}
	}
}

func TestRasterizeDeterministic(t *testing.T) {
	qr := mustEncode(t, "QR Code: 2024-01-01 00:00:00.000 - Frame 1", LevelL)
	a, err := Rasterize(qr, 4, 5)
	if err != nil {
		t.Fatal(err)
	}
	b, err := Rasterize(qr, 4, 5)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(a.Pix, b.Pix) {
		t.Error("Repeated rasterization differs")
	}
}

func TestRasterizeErrors(t *testing.T) {
	qr := mustEncode(t, "x", LevelL)
	tests := []struct {
		name          string
		border, scale int
		want          error
	}{
		{"negative border", -1, 1, ErrInvalidArgument},
		{"zero scale", 4, 0, ErrInvalidArgument},
		{"negative scale", 4, -3, ErrInvalidArgument},
		{"huge border", math.MaxInt32, 1, ErrDimensionOverflow},
		{"huge scale", 4, math.MaxInt32, ErrDimensionOverflow},
		// 29 * 2_000_000 fits int32 but the pixel count does not.
		{"huge area", 4, 2_000_000, ErrDimensionOverflow},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Rasterize(qr, tt.border, tt.scale); !errors.Is(err, tt.want) {
				t.Errorf("Expected %v, got %v", tt.want, err)
			}
		})
	}

	if _, err := Rasterize(nil, 4, 1); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("nil symbol: got %v", err)
	}
}

func TestRasterizeColors(t *testing.T) {
	qr := mustEncode(t, "colors", LevelM)
	fg := color.RGBA{0x20, 0x40, 0x80, 0xff}
	bg := color.RGBA{0xff, 0xee, 0xdd, 0xff}

	img, err := RasterizeColors(qr, 2, 2, fg, bg)
	if err != nil {
		t.Fatal(err)
	}
	if img.Palette[BackgroundIndex] != color.Color(bg) || img.Palette[ForegroundIndex] != color.Color(fg) {
		t.Fatalf("Unexpected palette %v", img.Palette)
	}
	// Top-left finder corner is dark.
	if got := img.At(4, 4); got != color.Color(fg) {
		t.Errorf("Expected foreground at finder corner, got %v", got)
	}
	if got := img.At(0, 0); got != color.Color(bg) {
		t.Errorf("Expected background in border, got %v", got)
	}
}

func TestRenderModes(t *testing.T) {
	qr := mustEncode(t, "render modes", LevelM)

	raster, err := Render(qr, RenderOptions{Mode: RenderRaster, Border: 4, Scale: 10})
	if err != nil {
		t.Fatal(err)
	}
	want := (qr.Size() + 8) * 10
	if raster.Bounds().Dx() != want {
		t.Errorf("raster: expected %d px, got %d", want, raster.Bounds().Dx())
	}

	vector, err := Render(qr, RenderOptions{Mode: RenderVector, Border: 4, Side: 300})
	if err != nil {
		t.Fatal(err)
	}
	if vector.Bounds().Dx() != 300 {
		t.Errorf("vector: expected 300 px, got %d", vector.Bounds().Dx())
	}

	// Without Side, vector output uses the raster size.
	vector, err = Render(qr, RenderOptions{Mode: RenderVector, Border: 4, Scale: 10})
	if err != nil {
		t.Fatal(err)
	}
	if vector.Bounds().Dx() != want {
		t.Errorf("vector: expected %d px, got %d", want, vector.Bounds().Dx())
	}

	if _, err := Render(qr, RenderOptions{Mode: RenderMode(9), Scale: 1}); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("unknown mode: got %v", err)
	}
	if _, err := Render(qr, RenderOptions{Mode: RenderVector, Border: -1, Side: 100}); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("negative border: got %v", err)
	}
}

func TestParseRenderMode(t *testing.T) {
	for s, want := range map[string]RenderMode{"raster": RenderRaster, "vector": RenderVector, "svg": RenderVector} {
		got, err := ParseRenderMode(s)
		if err != nil || got != want {
			t.Errorf("ParseRenderMode(%q) = %v, %v", s, got, err)
		}
	}
	if _, err := ParseRenderMode("jpeg"); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("Expected ErrInvalidArgument, got %v", err)
	}
	if RenderVector.String() != "vector" {
		t.Errorf("Unexpected name %q", RenderVector.String())
	}
}
