package framelog

import (
	"context"
	"sync"
)

// Buffered collects records in memory and hands them to the next Appender
// in batches of every records, and on Flush.
type Buffered struct {
	next  Appender
	every int

	mu      sync.Mutex
	pending []Record
}

// NewBuffered returns a Buffered in front of next. every < 1 is treated
// as 1, which makes every append go straight through.
func NewBuffered(next Appender, every int) *Buffered {
	if every < 1 {
		every = 1
	}
	return &Buffered{next: next, every: every}
}

// Append buffers recs and flushes once the buffer holds at least every
// records.
func (b *Buffered) Append(ctx context.Context, recs ...Record) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.pending = append(b.pending, recs...)
	if len(b.pending) < b.every {
		return nil
	}
	return b.flushLocked(ctx)
}

// Flush writes out every buffered record.
func (b *Buffered) Flush(ctx context.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.flushLocked(ctx)
}

// Pending returns the number of buffered records.
func (b *Buffered) Pending() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.pending)
}

func (b *Buffered) flushLocked(ctx context.Context) error {
	if len(b.pending) == 0 {
		return nil
	}
	// Records stay buffered when the write fails, so the next flush retries.
	if err := b.next.Append(ctx, b.pending...); err != nil {
		return err
	}
	b.pending = b.pending[:0]
	return nil
}
