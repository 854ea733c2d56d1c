// Package server serves frames and one-off QR codes over HTTP.
package server

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"golang.org/x/image/bmp"

	"github.com/ashokshau/qrframe/internal/framelog"
	"github.com/ashokshau/qrframe/qrcode"
)

// Limits of /api/qr. maxTextLen is above the largest symbol's capacity;
// the others bound the image to maxSide pixels square.
const (
	maxTextLen = 8192
	maxBorder  = 64
	maxScale   = 64
	maxSide    = 4096
)

// Handler holds the dependencies of the HTTP handlers.
type Handler struct {
	latest  *Latest
	logPath string
	border  int
}

// New returns a Handler serving frames from latest and records from the
// frame log at logPath.
func New(latest *Latest, logPath string, border int) *Handler {
	return &Handler{latest: latest, logPath: logPath, border: border}
}

// QRCodeHandler encodes the text query parameter and returns the symbol as
// png (default), svg or bmp.
func (h *Handler) QRCodeHandler(c *gin.Context) {
	text := c.Query("text")
	if text == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "text parameter is required"})
		return
	}
	if len(text) > maxTextLen {
		c.JSON(http.StatusBadRequest, gin.H{"error": "text is too long"})
		return
	}

	level, err := qrcode.ParseLevel(c.DefaultQuery("level", "m"))
	if err != nil {
		writeError(c, err)
		return
	}
	border, err := intQuery(c, "border", qrcode.QuietZone)
	if err != nil {
		writeError(c, err)
		return
	}
	scale, err := intQuery(c, "scale", 10)
	if err != nil {
		writeError(c, err)
		return
	}

	if border > maxBorder || scale > maxScale {
		writeError(c, fmt.Errorf("%w: border must be at most %d and scale at most %d", qrcode.ErrInvalidArgument, maxBorder, maxScale))
		return
	}

	qr, err := qrcode.Encode(text, level)
	if err != nil {
		writeError(c, err)
		return
	}

	switch format := strings.ToLower(c.DefaultQuery("format", "png")); format {
	case "svg":
		p, err := qrcode.Vectorize(qr, border)
		if err != nil {
			writeError(c, err)
			return
		}
		c.Data(http.StatusOK, "image/svg+xml", []byte(p.SVG()))
	case "png", "bmp":
		if side := (qr.Size() + 2*border) * scale; side > maxSide {
			writeError(c, fmt.Errorf("%w: image side %d exceeds %d pixels", qrcode.ErrInvalidArgument, side, maxSide))
			return
		}
		fg := parseColorParam(c.Query("fg"), color.RGBA{0, 0, 0, 255})
		bg := parseColorParam(c.Query("bg"), color.RGBA{255, 255, 255, 255})
		img, err := qrcode.RasterizeColors(qr, border, scale, fg, bg)
		if err != nil {
			writeError(c, err)
			return
		}
		writeImage(c, format, img)
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "format must be png, svg or bmp"})
	}
}

// FrameHandler returns the latest frame as PNG.
func (h *Handler) FrameHandler(c *gin.Context) {
	f, ok := h.latest.Get()
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "no frame yet"})
		return
	}
	writeImage(c, "png", f.Image)
}

// FrameSVGHandler returns the latest frame as SVG.
func (h *Handler) FrameSVGHandler(c *gin.Context) {
	f, ok := h.latest.Get()
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "no frame yet"})
		return
	}
	p, err := qrcode.Vectorize(f.Symbol, h.border)
	if err != nil {
		writeError(c, err)
		return
	}
	c.Data(http.StatusOK, "image/svg+xml", []byte(p.SVG()))
}

// FrameMetaHandler describes the latest frame.
func (h *Handler) FrameMetaHandler(c *gin.Context) {
	f, ok := h.latest.Get()
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "no frame yet"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"frame_number": f.Number,
		"timestamp":    f.Timestamp,
		"qr_data":      f.Text,
		"version":      f.Symbol.Version(),
		"level":        f.Symbol.Level().String(),
		"mask":         f.Symbol.Mask(),
		"size":         f.Symbol.Size(),
	})
}

// FramesHandler returns the frame log, or its last limit records.
func (h *Handler) FramesHandler(c *gin.Context) {
	recs, err := framelog.ReadAll(h.logPath)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	limit, err := intQuery(c, "limit", 0)
	if err != nil {
		writeError(c, err)
		return
	}
	if limit > 0 && limit < len(recs) {
		recs = recs[len(recs)-limit:]
	}
	if recs == nil {
		recs = []framelog.Record{}
	}
	c.JSON(http.StatusOK, recs)
}

// Healthz reports that the server is up.
func (h *Handler) Healthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func writeImage(c *gin.Context, format string, img image.Image) {
	var buf bytes.Buffer
	var err error
	contentType := "image/png"
	if format == "bmp" {
		contentType = "image/bmp"
		err = bmp.Encode(&buf, img)
	} else {
		err = png.Encode(&buf, img)
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Data(http.StatusOK, contentType, buf.Bytes())
}

// writeError maps encoder errors to 400 and anything else to 500.
func writeError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	if errors.Is(err, qrcode.ErrInvalidArgument) ||
		errors.Is(err, qrcode.ErrDataTooLong) ||
		errors.Is(err, qrcode.ErrDimensionOverflow) {
		status = http.StatusBadRequest
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

func intQuery(c *gin.Context, name string, def int) (int, error) {
	v := c.Query(name)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, errors.Join(qrcode.ErrInvalidArgument, err)
	}
	return n, nil
}

// parseColorParam parses a 6-digit hex color, with or without '#'.
func parseColorParam(param string, defaultColor color.RGBA) color.RGBA {
	param = strings.TrimPrefix(param, "#")
	if len(param) != 6 {
		return defaultColor
	}
	rgb, err := strconv.ParseUint(param, 16, 32)
	if err != nil {
		return defaultColor
	}
	return color.RGBA{uint8(rgb >> 16), uint8(rgb >> 8), uint8(rgb), 255}
}
