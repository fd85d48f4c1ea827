// Package logging provides leveled logging and sample recording for paramtree.
// It offers two complementary outputs:
//   - A leveled slog.Logger for stderr (operational output)
//   - A SampleRecorder for structured JSONL sample traces (samples.jsonl)
package logging

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/lmittmann/tint"
)

// LevelTrace is a custom slog level below Debug for full content logging.
// At this level, every drawn sample is logged as well as recorded.
const LevelTrace = slog.LevelDebug - 4

// SampleFile is the name of the JSONL file written by a SampleRecorder.
const SampleFile = "samples.jsonl"

// ParseLevel maps a string level name to a slog.Level.
// Supported values: "info", "debug", "trace" (case-insensitive).
// Unknown values default to info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "trace":
		return LevelTrace
	default:
		return slog.LevelInfo
	}
}

// labelTrace names the custom trace level in handler output.
func labelTrace(groups []string, a slog.Attr) slog.Attr {
	if a.Key == slog.LevelKey {
		if lvl, ok := a.Value.Any().(slog.Level); ok && lvl == LevelTrace {
			a.Value = slog.StringValue("TRACE")
		}
	}
	return a
}

// NewLogger creates a leveled slog.Logger writing to w.
// Format is "text" (default), "json", or "pretty" for colorized console output.
func NewLogger(level, format string, w io.Writer) *slog.Logger {
	lvl := ParseLevel(level)

	switch strings.ToLower(format) {
	case "json":
		return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: lvl, ReplaceAttr: labelTrace}))
	case "pretty":
		return slog.New(tint.NewHandler(w, &tint.Options{
			Level:       lvl,
			TimeFormat:  "15:04:05",
			ReplaceAttr: labelTrace,
			NoColor:     !isTerminal(w),
		}))
	default:
		return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: lvl, ReplaceAttr: labelTrace}))
	}
}

// isTerminal reports whether w is a character device.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeCharDevice != 0
}

// SampleRecorder writes structured sample events to a JSONL file.
// It is safe for concurrent use. A nil SampleRecorder is safe to use;
// all methods are no-ops on nil receiver.
type SampleRecorder struct {
	mu   sync.Mutex
	file *os.File
}

// NewSampleRecorder creates a recorder writing to dir/samples.jsonl.
// At "info" level (the default), returns nil and no file is created.
// At "debug" or "trace" level, the file is opened for append.
// Returns nil if the file cannot be opened. All methods are nil-safe.
func NewSampleRecorder(dir string, level string) *SampleRecorder {
	if ParseLevel(level) == slog.LevelInfo {
		return nil
	}
	r, err := OpenSampleRecorder(dir)
	if err != nil {
		return nil
	}
	return r
}

// OpenSampleRecorder opens dir/samples.jsonl for append regardless of level.
func OpenSampleRecorder(dir string) (*SampleRecorder, error) {
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("creating sample dir: %w", err)
	}

	path := filepath.Join(dir, SampleFile)
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600)
	if err != nil {
		return nil, fmt.Errorf("opening sample file: %w", err)
	}

	return &SampleRecorder{file: f}, nil
}

// Record writes a sample event as a single JSONL line.
// A "time" field is added automatically. The caller's map is not mutated.
// Safe to call on nil receiver.
func (r *SampleRecorder) Record(event map[string]any) {
	if r == nil || r.file == nil {
		return
	}

	entry := make(map[string]any, len(event)+1)
	for k, v := range event {
		entry[k] = v
	}
	entry["time"] = time.Now().UTC().Format(time.RFC3339Nano)

	r.mu.Lock()
	defer r.mu.Unlock()

	data, err := json.Marshal(entry)
	if err != nil {
		return
	}
	data = append(data, '\n')
	_, _ = r.file.Write(data)
}

// Close closes the underlying file. Safe to call on nil receiver.
func (r *SampleRecorder) Close() {
	if r == nil || r.file == nil {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.file.Close()
	r.file = nil
}
