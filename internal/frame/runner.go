package frame

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/ashokshau/qrframe/qrcode"
)

// Display shows a frame.
type Display interface {
	Show(ctx context.Context, f Frame) error
}

// Recorder stores a frame.
type Recorder interface {
	Record(ctx context.Context, f Frame) error
}

// Flusher is implemented by recorders that buffer.
type Flusher interface {
	Flush(ctx context.Context) error
}

// Settings are the parts of a Runner that can change while it runs.
type Settings struct {
	Level    qrcode.Level
	// Boost raises the level above Level while the symbol keeps its version.
	Boost    bool
	Render   qrcode.RenderOptions
	Interval time.Duration
}

// DefaultSettings are the settings of a new Runner: low error correction,
// vector rendering at 600 pixels and a 16ms interval.
var DefaultSettings = Settings{
	Level: qrcode.LevelL,
	Render: qrcode.RenderOptions{
		Mode:   qrcode.RenderVector,
		Border: qrcode.QuietZone,
		Side:   600,
	},
	Interval: 16 * time.Millisecond,
}

const flushTimeout = 5 * time.Second

// Option configures a Runner.
type Option func(*Runner)

// WithSettings replaces the level, render options and interval.
func WithSettings(s Settings) Option {
	return func(r *Runner) { r.settings = s }
}

// WithDisplay sets where frames are shown.
func WithDisplay(d Display) Option {
	return func(r *Runner) { r.display = d }
}

// WithRecorder sets where frames are recorded.
func WithRecorder(rec Recorder) Option {
	return func(r *Runner) { r.recorder = rec }
}

// WithStartDelay delays the first frame of Run.
func WithStartDelay(d time.Duration) Option {
	return func(r *Runner) { r.startDelay = d }
}

// WithMaxFrames stops Run after n frames. Zero means no limit.
func WithMaxFrames(n int) Option {
	return func(r *Runner) { r.maxFrames = n }
}

// WithClock sets the time source of frame timestamps.
func WithClock(now func() time.Time) Option {
	return func(r *Runner) { r.now = now }
}

// WithLogger sets the runner's logger.
func WithLogger(l zerolog.Logger) Option {
	return func(r *Runner) { r.logger = l }
}

// Runner produces frames from a Source on a fixed interval.
type Runner struct {
	src        Source
	display    Display
	recorder   Recorder
	startDelay time.Duration
	maxFrames  int
	now        func() time.Time
	logger     zerolog.Logger

	mu       sync.Mutex
	settings Settings
	next     int

	interval chan time.Duration
}

// NewRunner returns a Runner reading from src. Frame numbers start at 1.
func NewRunner(src Source, opts ...Option) *Runner {
	r := &Runner{
		src:      src,
		now:      time.Now,
		logger:   zerolog.Nop(),
		settings: DefaultSettings,
		next:     1,
		interval: make(chan time.Duration, 1),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Settings returns the current settings.
func (r *Runner) Settings() Settings {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.settings
}

// Update applies s from the next frame on. A running loop picks up a new
// interval without restarting.
func (r *Runner) Update(s Settings) {
	r.mu.Lock()
	defer r.mu.Unlock()
	old := r.settings.Interval
	r.settings = s

	if s.Interval == old || s.Interval <= 0 {
		return
	}
	// Replace a pending interval nobody has read yet. Never blocks.
	select {
	case <-r.interval:
	default:
	}
	select {
	case r.interval <- s.Interval:
	default:
	}
	r.logger.Info().Dur("interval", s.Interval).Msg("frame interval changed")
}

// NextNumber returns the number the next frame will carry.
func (r *Runner) NextNumber() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.next
}

// Step produces one frame. An encode or render error means no frame was
// produced and the number is not used. Display and record errors are
// returned together with the frame, which still counts.
func (r *Runner) Step(ctx context.Context) (Frame, error) {
	r.mu.Lock()
	s := r.settings
	n := r.next
	r.mu.Unlock()

	now := r.now()
	msg := r.src.Next(n, now)

	var opts []qrcode.Option
	if s.Boost {
		opts = append(opts, qrcode.WithBoostLevel())
	}
	qr, err := qrcode.EncodeWith(msg.Text, s.Level, opts...)
	if err != nil {
		return Frame{}, fmt.Errorf("encode frame %d: %w", n, err)
	}
	img, err := qrcode.Render(qr, s.Render)
	if err != nil {
		return Frame{}, fmt.Errorf("render frame %d: %w", n, err)
	}

	f := Frame{
		Number:    n,
		Time:      now,
		Timestamp: msg.Timestamp,
		Text:      msg.Text,
		Symbol:    qr,
		Image:     img,
	}

	r.mu.Lock()
	r.next = n + 1
	r.mu.Unlock()

	var errs []error
	if r.display != nil {
		if err := r.display.Show(ctx, f); err != nil {
			errs = append(errs, fmt.Errorf("show frame %d: %w", n, err))
		}
	}
	if r.recorder != nil {
		if err := r.recorder.Record(ctx, f); err != nil {
			errs = append(errs, fmt.Errorf("record frame %d: %w", n, err))
		}
	}
	return f, errors.Join(errs...)
}

// Run waits the start delay, then produces a frame every interval until ctx
// is done or the frame limit is reached. Buffered records are flushed
// before it returns. Stopping through ctx is not an error; the returned
// error is the final flush error, if any.
func (r *Runner) Run(ctx context.Context) error {
	defer r.logger.Info().Msg("frame loop stopped")

	if r.startDelay > 0 {
		r.logger.Info().Dur("delay", r.startDelay).Msg("waiting before first frame")
		timer := time.NewTimer(r.startDelay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return r.flush(ctx)
		case <-timer.C:
		}
	}

	s := r.Settings()
	r.logger.Info().
		Str("level", s.Level.String()).
		Str("render", s.Render.Mode.String()).
		Dur("interval", s.Interval).
		Msg("frame loop started")

	interval := s.Interval
	if interval <= 0 {
		interval = DefaultSettings.Interval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	produced := 0
	for {
		if r.tick(ctx) {
			produced++
			if r.maxFrames > 0 && produced >= r.maxFrames {
				return r.flush(ctx)
			}
		}

		select {
		case <-ctx.Done():
			return r.flush(ctx)
		case d := <-r.interval:
			ticker.Reset(d)
		case <-ticker.C:
		}
	}
}

// tick runs one Step and logs its errors. It reports whether a frame was
// produced.
func (r *Runner) tick(ctx context.Context) bool {
	f, err := r.Step(ctx)
	if f.Symbol == nil {
		r.logger.Error().Err(err).Msg("frame skipped")
		return false
	}
	if err != nil {
		r.logger.Warn().Err(err).Int("frame", f.Number).Msg("frame produced with errors")
	}
	r.logger.Debug().
		Int("frame", f.Number).
		Int("version", f.Symbol.Version()).
		Int("mask", f.Symbol.Mask()).
		Str("text", f.Text).
		Msg("frame")
	return true
}

func (r *Runner) flush(ctx context.Context) error {
	fl, ok := r.recorder.(Flusher)
	if !ok {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), flushTimeout)
	defer cancel()
	if err := fl.Flush(ctx); err != nil {
		return fmt.Errorf("flush frame log: %w", err)
	}
	return nil
}
