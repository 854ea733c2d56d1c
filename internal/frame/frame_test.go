package frame

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ashokshau/qrframe/qrcode"
)

var fixed = time.Date(2024, 5, 1, 12, 30, 45, 123_000_000, time.UTC)

func fixedClock() time.Time { return fixed }

func TestTimestampSource(t *testing.T) {
	t.Parallel()

	msg := TimestampSource{Prefix: DefaultPrefix}.Next(17, fixed)
	assert.Equal(t, "2024-05-01 12:30:45.123", msg.Timestamp)
	assert.Equal(t, "QR Code: 2024-05-01 12:30:45.12317", msg.Text)

	msg = TimestampSource{Prefix: "#", Layout: time.RFC3339}.Next(1, fixed)
	assert.Equal(t, "#2024-05-01T12:30:45Z1", msg.Text)
}

func TestStaticAndFuncSource(t *testing.T) {
	t.Parallel()

	msg := StaticSource{Text: "hello"}.Next(3, fixed)
	assert.Equal(t, "hello", msg.Text)
	assert.Equal(t, "2024-05-01 12:30:45.123", msg.Timestamp)

	src := SourceFunc(func(n int, _ time.Time) Message {
		return Message{Text: strings.Repeat("x", n)}
	})
	assert.Equal(t, "xxx", src.Next(3, fixed).Text)
}

type recordingDisplay struct {
	mu     sync.Mutex
	frames []Frame
	err    error
}

func (d *recordingDisplay) Show(_ context.Context, f Frame) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.frames = append(d.frames, f)
	return d.err
}

func (d *recordingDisplay) count() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.frames)
}

type flushRecorder struct {
	recordingDisplay
	flushed int
}

func (r *flushRecorder) Record(ctx context.Context, f Frame) error { return r.Show(ctx, f) }

func (r *flushRecorder) Flush(context.Context) error {
	r.flushed++
	return nil
}

func TestStepNumbering(t *testing.T) {
	t.Parallel()

	disp := &recordingDisplay{}
	r := NewRunner(TimestampSource{Prefix: DefaultPrefix}, WithDisplay(disp), WithClock(fixedClock))

	for want := 1; want <= 3; want++ {
		f, err := r.Step(context.Background())
		require.NoError(t, err)
		assert.Equal(t, want, f.Number)
		assert.Equal(t, fixed, f.Time)
		assert.True(t, strings.HasSuffix(f.Text, "123"+string(rune('0'+want))))
		require.NotNil(t, f.Symbol)
		assert.Equal(t, qrcode.LevelL, f.Symbol.Level())
		assert.Equal(t, 600, f.Image.Bounds().Dx())
	}
	assert.Equal(t, 3, disp.count())
	assert.Equal(t, 4, r.NextNumber())
}

func TestStepDecodes(t *testing.T) {
	t.Parallel()

	r := NewRunner(TimestampSource{Prefix: DefaultPrefix}, WithClock(fixedClock),
		WithSettings(Settings{
			Level:    qrcode.LevelM,
			Render:   qrcode.RenderOptions{Mode: qrcode.RenderRaster, Border: 4, Scale: 8},
			Interval: 100 * time.Millisecond,
		}))

	f, err := r.Step(context.Background())
	require.NoError(t, err)
	text, err := qrcode.DecodeImage(f.Image)
	require.NoError(t, err)
	assert.Equal(t, f.Text, text)
}

func TestStepEncodeErrorKeepsNumber(t *testing.T) {
	t.Parallel()

	long := strings.Repeat("a", 3000)
	calls := 0
	src := SourceFunc(func(n int, _ time.Time) Message {
		calls++
		if calls == 1 {
			return Message{Text: long}
		}
		return Message{Text: "ok"}
	})
	disp := &recordingDisplay{}
	r := NewRunner(src, WithDisplay(disp))

	_, err := r.Step(context.Background())
	require.ErrorIs(t, err, qrcode.ErrDataTooLong)
	assert.Equal(t, 1, r.NextNumber())
	assert.Zero(t, disp.count())

	f, err := r.Step(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, f.Number)
}

func TestStepDisplayErrorStillCounts(t *testing.T) {
	t.Parallel()

	disp := &recordingDisplay{err: errors.New("screen gone")}
	rec := &flushRecorder{}
	r := NewRunner(StaticSource{Text: "x"}, WithDisplay(disp), WithRecorder(rec))

	f, err := r.Step(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "screen gone")
	assert.Equal(t, 1, f.Number)
	assert.Equal(t, 1, rec.count(), "record still runs after a display error")
	assert.Equal(t, 2, r.NextNumber())
}

func TestRunMaxFrames(t *testing.T) {
	t.Parallel()

	rec := &flushRecorder{}
	r := NewRunner(TimestampSource{Prefix: DefaultPrefix},
		WithRecorder(rec),
		WithMaxFrames(5),
		WithSettings(Settings{
			Level:    qrcode.LevelM,
			Render:   qrcode.RenderOptions{Mode: qrcode.RenderRaster, Border: 4, Scale: 1},
			Interval: time.Millisecond,
		}))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	require.NoError(t, r.Run(ctx))

	assert.Equal(t, 5, rec.count())
	assert.Equal(t, 1, rec.flushed)
	for i, f := range rec.frames {
		assert.Equal(t, i+1, f.Number)
	}
}

func TestRunStopsOnCancel(t *testing.T) {
	t.Parallel()

	rec := &flushRecorder{}
	r := NewRunner(StaticSource{Text: "x"},
		WithRecorder(rec),
		WithStartDelay(time.Hour))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- r.Run(ctx) }()
	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not stop")
	}
	assert.Zero(t, rec.count())
	assert.Equal(t, 1, rec.flushed)
}

func TestUpdate(t *testing.T) {
	t.Parallel()

	r := NewRunner(StaticSource{Text: "update"})
	s := Settings{
		Level:    qrcode.LevelH,
		Render:   qrcode.RenderOptions{Mode: qrcode.RenderRaster, Border: 2, Scale: 3},
		Interval: 100 * time.Millisecond,
	}
	r.Update(s)
	assert.Equal(t, s, r.Settings())

	f, err := r.Step(context.Background())
	require.NoError(t, err)
	assert.Equal(t, qrcode.LevelH, f.Symbol.Level())
	assert.Equal(t, (f.Symbol.Size()+4)*3, f.Image.Bounds().Dx())
}

func TestUpdateConcurrentNeverBlocks(t *testing.T) {
	t.Parallel()

	// No Run drains the interval channel here.
	r := NewRunner(StaticSource{Text: "update"})
	var wg sync.WaitGroup
	for i := 1; i <= 8; i++ {
		i := i
		wg.Add(1)
		go func() {
			defer wg.Done()
			s := DefaultSettings
			s.Interval = time.Duration(i) * time.Second
			r.Update(s)
		}()
	}

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("concurrent Update calls blocked")
	}
	assert.Len(t, r.interval, 1)
}

func TestStepBoost(t *testing.T) {
	t.Parallel()

	s := DefaultSettings
	r := NewRunner(StaticSource{Text: "HELLO"}, WithSettings(s))
	f, err := r.Step(context.Background())
	require.NoError(t, err)
	assert.Equal(t, qrcode.LevelL, f.Symbol.Level())

	s.Boost = true
	r.Update(s)
	f, err = r.Step(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, f.Symbol.Version())
	assert.Equal(t, qrcode.LevelH, f.Symbol.Level())
}
