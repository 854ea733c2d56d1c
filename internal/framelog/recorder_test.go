package framelog

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ashokshau/qrframe/internal/frame"
)

func TestRecorderBuffered(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "qr_data.json")
	rec := NewRecorder(NewBuffered(NewFileLog(path), 2))
	_, err := uuid.Parse(rec.RunID())
	require.NoError(t, err)

	ctx := context.Background()
	for i := 1; i <= 3; i++ {
		require.NoError(t, rec.Record(ctx, frame.Frame{
			Number:    i,
			Time:      time.Now(),
			Timestamp: "2024-05-01 12:30:45.123",
			Text:      "QR Code: 2024-05-01 12:30:45.123" + string(rune('0'+i)),
		}))
	}

	recs, err := ReadAll(path)
	require.NoError(t, err)
	require.Len(t, recs, 2, "third record is still buffered")

	require.NoError(t, rec.Flush(ctx))
	recs, err = ReadAll(path)
	require.NoError(t, err)
	require.Len(t, recs, 3)
	assert.Equal(t, "QR Code: 2024-05-01 12:30:45.1233", recs[2].QRData)
	assert.Equal(t, 3, recs[2].FrameNumber)
	for _, r := range recs {
		assert.Equal(t, rec.RunID(), r.RunID)
	}
}

func TestRecorderPerFrame(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "qr_data.json")
	rec := NewRecorder(NewFileLog(path))
	ctx := context.Background()

	require.NoError(t, rec.Record(ctx, frame.Frame{Number: 1, Text: "a", Timestamp: "t"}))
	require.NoError(t, rec.Flush(ctx))

	recs, err := ReadAll(path)
	require.NoError(t, err)
	require.Len(t, recs, 1)

	var _ frame.Recorder = rec
	var _ frame.Flusher = rec
}
