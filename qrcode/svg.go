package qrcode

import (
	"bytes"
	"fmt"
	"image"
	"io"
	"strconv"
	"strings"

	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
)

// Path is the vector form of a symbol: one unit square per dark module on a
// Side x Side canvas whose quiet zone is already applied.
type Path struct {
	Side    int
	Squares []image.Point // top-left corners, row-major
}

// Vectorize builds the vector path of qr with the given border.
func Vectorize(qr *QRCode, border int) (*Path, error) {
	side, err := checkBorder(qr, border)
	if err != nil {
		return nil, err
	}
	p := &Path{Side: side}
	for y := 0; y < qr.size; y++ {
		for x := 0; x < qr.size; x++ {
			if qr.modules[y][x] {
				p.Squares = append(p.Squares, image.Pt(x+border, y+border))
			}
		}
	}
	return p, nil
}

// PathData returns the SVG path data, "M x,y h1v1h-1z" per square.
func (p *Path) PathData() string {
	var sb strings.Builder
	for i, sq := range p.Squares {
		if i > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteByte('M')
		sb.WriteString(strconv.Itoa(sq.X))
		sb.WriteByte(',')
		sb.WriteString(strconv.Itoa(sq.Y))
		sb.WriteString("h1v1h-1z")
	}
	return sb.String()
}

// SVG returns a standalone SVG document, black modules on a white square.
func (p *Path) SVG() string {
	var sb strings.Builder
	sb.WriteString("<?xml version=\"1.0\" encoding=\"UTF-8\"?>\n")
	fmt.Fprintf(&sb, "<svg xmlns=\"http://www.w3.org/2000/svg\" version=\"1.1\" viewBox=\"0 0 %d %d\" stroke=\"none\">\n", p.Side, p.Side)
	fmt.Fprintf(&sb, "\t<rect width=\"%d\" height=\"%d\" fill=\"#FFFFFF\"/>\n", p.Side, p.Side)
	sb.WriteString("\t<path d=\"")
	sb.WriteString(p.PathData())
	sb.WriteString("\" fill=\"#000000\"/>\n")
	sb.WriteString("</svg>\n")
	return sb.String()
}

// WriteSVG writes the SVG document to w.
func (p *Path) WriteSVG(w io.Writer) error {
	_, err := io.WriteString(w, p.SVG())
	return err
}

// Rasterize renders the SVG document into a side x side RGBA image.
func (p *Path) Rasterize(side int) (*image.RGBA, error) {
	if err := checkSide(side); err != nil {
		return nil, err
	}
	icon, err := oksvg.ReadIconStream(bytes.NewReader([]byte(p.SVG())))
	if err != nil {
		return nil, fmt.Errorf("parse svg: %w", err)
	}
	icon.SetTarget(0, 0, float64(side), float64(side))

	img := image.NewRGBA(image.Rect(0, 0, side, side))
	scanner := rasterx.NewScannerGV(side, side, img, img.Bounds())
	icon.Draw(rasterx.NewDasher(side, side, scanner), 1)
	return img, nil
}

// WriteSVG writes the symbol as SVG with the standard quiet zone.
func (qr *QRCode) WriteSVG(w io.Writer) error {
	p, err := Vectorize(qr, QuietZone)
	if err != nil {
		return err
	}
	return p.WriteSVG(w)
}
