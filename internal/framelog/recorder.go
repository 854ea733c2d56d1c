package framelog

import (
	"context"

	"github.com/google/uuid"

	"github.com/ashokshau/qrframe/internal/frame"
)

// Recorder turns frames into records tagged with the id of the current run.
type Recorder struct {
	log   Appender
	runID string
}

// NewRecorder returns a Recorder appending to log under a fresh run id.
func NewRecorder(log Appender) *Recorder {
	return &Recorder{log: log, runID: uuid.NewString()}
}

// RunID returns the id written to every record of this run.
func (r *Recorder) RunID() string {
	return r.runID
}

// Record appends f to the log.
func (r *Recorder) Record(ctx context.Context, f frame.Frame) error {
	return r.log.Append(ctx, Record{
		QRData:      f.Text,
		Timestamp:   f.Timestamp,
		FrameNumber: f.Number,
		RunID:       r.runID,
	})
}

// Flush flushes the underlying log when it buffers.
func (r *Recorder) Flush(ctx context.Context) error {
	if fl, ok := r.log.(interface{ Flush(context.Context) error }); ok {
		return fl.Flush(ctx)
	}
	return nil
}
