package display

import (
	"bytes"
	"context"
	"fmt"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/bmp"

	"github.com/ashokshau/qrframe/internal/frame"
	"github.com/ashokshau/qrframe/qrcode"
)

// File writes the latest frame to a file, replacing it atomically. The
// format follows the extension: .png and .bmp store the rendered image,
// .svg stores the vector path.
type File struct {
	path   string
	format string
	border int
}

// NewFile returns a File display for path.
func NewFile(path string, border int) (*File, error) {
	format := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	switch format {
	case "png", "bmp", "svg":
	default:
		return nil, fmt.Errorf("unsupported output format %q", filepath.Ext(path))
	}
	return &File{path: path, format: format, border: border}, nil
}

// Path returns the output path.
func (f *File) Path() string {
	return f.path
}

// Show writes fr to the output file.
func (f *File) Show(_ context.Context, fr frame.Frame) error {
	var buf bytes.Buffer
	switch f.format {
	case "png":
		if fr.Image == nil {
			return fmt.Errorf("frame %d has no image", fr.Number)
		}
		if err := png.Encode(&buf, fr.Image); err != nil {
			return err
		}
	case "bmp":
		if fr.Image == nil {
			return fmt.Errorf("frame %d has no image", fr.Number)
		}
		if err := bmp.Encode(&buf, fr.Image); err != nil {
			return err
		}
	case "svg":
		p, err := qrcode.Vectorize(fr.Symbol, f.border)
		if err != nil {
			return err
		}
		if err := p.WriteSVG(&buf); err != nil {
			return err
		}
	}

	if dir := filepath.Dir(f.path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, buf.Bytes(), 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, f.path)
}
