// Package framelog keeps the JSON log of generated frames.
//
// The log file holds one JSON array of records. Every append rewrites the
// whole array through a temp file and a rename, so readers never see a
// half-written file.
package framelog

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/rs/zerolog"
)

// Record is one generated frame as stored in the log.
type Record struct {
	QRData      string `json:"qr_data"`
	Timestamp   string `json:"timestamp"`
	FrameNumber int    `json:"frame_number"`
	RunID       string `json:"run_id,omitempty"`
}

// Appender appends records to a log.
type Appender interface {
	Append(ctx context.Context, recs ...Record) error
}

// Option configures a FileLog.
type Option func(*FileLog)

// WithLogger sets the logger used for warnings about unreadable log content.
func WithLogger(l zerolog.Logger) Option {
	return func(f *FileLog) { f.logger = l }
}

// FileLog is an Appender backed by a JSON file.
type FileLog struct {
	path   string
	logger zerolog.Logger

	mu sync.Mutex
}

// NewFileLog returns a FileLog writing to path. The file and its directory
// are created on the first append.
func NewFileLog(path string, opts ...Option) *FileLog {
	f := &FileLog{path: path, logger: zerolog.Nop()}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Path returns the log file path.
func (f *FileLog) Path() string {
	return f.path
}

// Append adds recs to the end of the log. Existing content that is missing,
// empty or not a JSON array of records is replaced by a fresh array.
func (f *FileLog) Append(ctx context.Context, recs ...Record) error {
	if len(recs) == 0 {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	existing, err := ReadAll(f.path)
	if err != nil {
		if !errors.Is(err, ErrCorrupt) {
			return err
		}
		f.logger.Warn().Err(err).Str("path", f.path).Msg("frame log unreadable, starting a new array")
		existing = nil
	}

	return f.write(append(existing, recs...))
}

func (f *FileLog) write(recs []Record) error {
	if dir := filepath.Dir(f.path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create log directory: %w", err)
		}
	}

	if recs == nil {
		recs = []Record{}
	}
	data, err := json.MarshalIndent(recs, "", "    ")
	if err != nil {
		return err
	}
	data = append(data, '\n')

	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write frame log: %w", err)
	}
	if err := os.Rename(tmp, f.path); err != nil {
		return fmt.Errorf("replace frame log: %w", err)
	}
	return nil
}

// ErrCorrupt is returned by ReadAll when the file exists but does not hold
// a JSON array of records.
var ErrCorrupt = errors.New("frame log is not a JSON array")

// ReadAll returns every record in the log at path. A missing or empty file
// holds no records.
func ReadAll(path string) ([]Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil
	}

	var recs []Record
	if err := json.Unmarshal(data, &recs); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	return recs, nil
}
