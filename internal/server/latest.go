package server

import (
	"context"
	"sync"

	"github.com/ashokshau/qrframe/internal/frame"
)

// Latest holds the most recent frame for the HTTP handlers. It is a
// frame.Display, so the runner feeds it like any other surface.
type Latest struct {
	mu    sync.RWMutex
	frame frame.Frame
	ok    bool
}

// Show stores f as the latest frame.
func (l *Latest) Show(_ context.Context, f frame.Frame) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.frame = f
	l.ok = true
	return nil
}

// Get returns the latest frame and whether there is one.
func (l *Latest) Get() (frame.Frame, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.frame, l.ok
}
