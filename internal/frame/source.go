// Package frame drives the periodic frame loop: it asks a Source for the
// next text, encodes and renders it, shows it and records it.
package frame

import (
	"image"
	"strconv"
	"time"

	"github.com/ashokshau/qrframe/qrcode"
)

// Defaults of TimestampSource.
const (
	DefaultPrefix = "QR Code: "
	DefaultLayout = "2006-01-02 15:04:05.000"
)

// Message is the text of one frame and the timestamp it was built from.
type Message struct {
	Text      string
	Timestamp string
}

// Source produces the message for a frame.
type Source interface {
	Next(number int, now time.Time) Message
}

// SourceFunc adapts a function to Source.
type SourceFunc func(number int, now time.Time) Message

// Next calls f.
func (f SourceFunc) Next(number int, now time.Time) Message { return f(number, now) }

// TimestampSource formats now with Layout and appends the frame number,
// e.g. "QR Code: 2024-05-01 12:30:45.123" followed by "17".
type TimestampSource struct {
	Prefix string
	Layout string
}

// Next builds Prefix + timestamp + number.
func (s TimestampSource) Next(number int, now time.Time) Message {
	layout := s.Layout
	if layout == "" {
		layout = DefaultLayout
	}
	ts := now.Format(layout)
	return Message{Text: s.Prefix + ts + strconv.Itoa(number), Timestamp: ts}
}

// StaticSource returns the same text for every frame.
type StaticSource struct {
	Text   string
	Layout string
}

// Next returns the fixed text with the current timestamp.
func (s StaticSource) Next(_ int, now time.Time) Message {
	layout := s.Layout
	if layout == "" {
		layout = DefaultLayout
	}
	return Message{Text: s.Text, Timestamp: now.Format(layout)}
}

// Frame is one generated frame.
type Frame struct {
	Number    int
	Time      time.Time
	Timestamp string
	Text      string
	Symbol    *qrcode.QRCode
	Image     image.Image
}
