package main

import (
	"bytes"
	"fmt"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/image/bmp"

	"github.com/ashokshau/qrframe/internal/config"
	"github.com/ashokshau/qrframe/qrcode"
)

var (
	labelColor = color.New(color.FgYellow)
	valueColor = color.New(color.FgWhite)
)

type encodeOptions struct {
	level      string
	render     string
	border     int
	scale      int
	side       int
	mask       int
	minVersion int
	maxVersion int
	boost      bool
	output     string
}

func newEncodeCmd() *cobra.Command {
	o := encodeOptions{}

	cmd := &cobra.Command{
		Use:   "encode <text>",
		Short: "Encode text into a single QR code",
		Long: `Encode text into a single QR code. Without --output the symbol is
printed to the terminal; otherwise the file extension picks the format
(.png, .bmp or .svg).`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := o.checkSize(); err != nil {
				return err
			}
			level, err := qrcode.ParseLevel(o.level)
			if err != nil {
				return err
			}
			opts := []qrcode.Option{
				qrcode.WithVersionRange(o.minVersion, o.maxVersion),
				qrcode.WithMask(o.mask),
			}
			if o.boost {
				opts = append(opts, qrcode.WithBoostLevel())
			}
			qr, err := qrcode.EncodeWith(args[0], level, opts...)
			if err != nil {
				return fmt.Errorf("encode: %w", err)
			}

			out := cmd.OutOrStdout()
			if o.output == "" || o.output == "-" {
				text, err := qr.HalfBlocks(o.border)
				if err != nil {
					return err
				}
				fmt.Fprint(out, text)
			} else if err := o.write(qr); err != nil {
				return err
			}

			labelColor.Fprint(out, "version ")
			valueColor.Fprintf(out, "%d", qr.Version())
			labelColor.Fprint(out, "  level ")
			valueColor.Fprint(out, qr.Level())
			labelColor.Fprint(out, "  mask ")
			valueColor.Fprintf(out, "%d", qr.Mask())
			labelColor.Fprint(out, "  size ")
			valueColor.Fprintf(out, "%d\n", qr.Size())
			return nil
		},
	}

	fs := cmd.Flags()
	fs.StringVar(&o.level, "level", "medium", "error correction level: low, medium, quartile, high")
	fs.StringVar(&o.render, "render", "raster", "render mode for .png and .bmp: raster or vector")
	fs.IntVar(&o.border, "border", qrcode.QuietZone, "quiet zone in modules")
	fs.IntVar(&o.scale, "scale", 10, "pixels per module")
	fs.IntVar(&o.side, "side", 0, "image size in pixels in vector mode (0 = border and scale decide)")
	fs.IntVar(&o.mask, "mask", qrcode.MaskAuto, "mask pattern 0-7 (-1 = lowest penalty)")
	fs.IntVar(&o.minVersion, "min-version", qrcode.MinVersion, "smallest version to use")
	fs.IntVar(&o.maxVersion, "max-version", qrcode.MaxVersion, "largest version to use")
	fs.BoolVar(&o.boost, "boost", false, "raise the error correction level when it fits the same version")
	fs.StringVarP(&o.output, "output", "o", "", "output file (.png, .bmp or .svg)")
	return cmd
}

// checkSize applies the frame loop's image size limits.
func (o encodeOptions) checkSize() error {
	switch {
	case o.border > config.MaxBorder:
		return fmt.Errorf("%w: border %d exceeds %d", qrcode.ErrInvalidArgument, o.border, config.MaxBorder)
	case o.scale > config.MaxScale:
		return fmt.Errorf("%w: scale %d exceeds %d", qrcode.ErrInvalidArgument, o.scale, config.MaxScale)
	case o.side > config.MaxSide:
		return fmt.Errorf("%w: side %d exceeds %d", qrcode.ErrInvalidArgument, o.side, config.MaxSide)
	}
	return nil
}

func (o encodeOptions) write(qr *qrcode.QRCode) error {
	var buf bytes.Buffer
	switch ext := strings.ToLower(filepath.Ext(o.output)); ext {
	case ".svg":
		p, err := qrcode.Vectorize(qr, o.border)
		if err != nil {
			return err
		}
		if err := p.WriteSVG(&buf); err != nil {
			return err
		}
	case ".png", ".bmp":
		mode, err := qrcode.ParseRenderMode(o.render)
		if err != nil {
			return err
		}
		img, err := qrcode.Render(qr, qrcode.RenderOptions{Mode: mode, Border: o.border, Scale: o.scale, Side: o.side})
		if err != nil {
			return err
		}
		if ext == ".bmp" {
			err = bmp.Encode(&buf, img)
		} else {
			err = png.Encode(&buf, img)
		}
		if err != nil {
			return err
		}
	default:
		return fmt.Errorf("unsupported output format %q", filepath.Ext(o.output))
	}
	return os.WriteFile(o.output, buf.Bytes(), 0o644)
}
