// Package display holds the surfaces frames are shown on.
package display

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/fatih/color"

	"github.com/ashokshau/qrframe/internal/frame"
)

const clearScreen = "\033[H\033[2J"

// Terminal prints frames as half-block text, dark on a light background so
// the symbol scans on dark terminals too.
type Terminal struct {
	out    io.Writer
	border int
	clear  bool

	symbolColor *color.Color
	statusColor *color.Color

	mu sync.Mutex
}

// TerminalOption configures a Terminal.
type TerminalOption func(*Terminal)

// WithBorder sets the quiet zone in modules. The default is 2.
func WithBorder(border int) TerminalOption {
	return func(t *Terminal) { t.border = border }
}

// WithClear clears the screen before each frame.
func WithClear() TerminalOption {
	return func(t *Terminal) { t.clear = true }
}

// WithNoColor prints plain text.
func WithNoColor() TerminalOption {
	return func(t *Terminal) {
		t.symbolColor.DisableColor()
		t.statusColor.DisableColor()
	}
}

// NewTerminal returns a Terminal writing to w.
func NewTerminal(w io.Writer, opts ...TerminalOption) *Terminal {
	t := &Terminal{
		out:         w,
		border:      2,
		symbolColor: color.New(color.FgBlack, color.BgWhite),
		statusColor: color.New(color.FgCyan),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Show prints f.
func (t *Terminal) Show(_ context.Context, f frame.Frame) error {
	if f.Symbol == nil {
		return fmt.Errorf("frame %d has no symbol", f.Number)
	}
	text, err := f.Symbol.HalfBlocks(t.border)
	if err != nil {
		return err
	}

	var sb strings.Builder
	if t.clear {
		sb.WriteString(clearScreen)
	}
	for _, line := range strings.SplitAfter(text, "\n") {
		if line == "" {
			continue
		}
		sb.WriteString(t.symbolColor.Sprint(strings.TrimSuffix(line, "\n")))
		sb.WriteByte('\n')
	}
	sb.WriteString(t.statusColor.Sprintf("frame %d  %s  %d-%s mask %d",
		f.Number, f.Timestamp, f.Symbol.Version(), f.Symbol.Level(), f.Symbol.Mask()))
	sb.WriteByte('\n')

	t.mu.Lock()
	defer t.mu.Unlock()
	_, err = io.WriteString(t.out, sb.String())
	return err
}
