package testutil

import (
	"context"
	"log/slog"
	"sync"
)

// CapturedRecord is one log line seen by a CaptureHandler.
type CapturedRecord struct {
	Level   slog.Level
	Message string
	Attrs   map[string]string
}

// CaptureHandler is an slog.Handler that keeps every record in memory.
//
// Example usage:
//
//	handler := testutil.NewCaptureHandler()
//	svc := testutil.NewTestReportService(t, db, slog.New(handler))
//	warnings := handler.Records(slog.LevelWarn)
type CaptureHandler struct {
	mu      *sync.Mutex
	records *[]CapturedRecord
	attrs   []slog.Attr
}

// NewCaptureHandler creates an empty CaptureHandler that accepts every level.
func NewCaptureHandler() *CaptureHandler {
	return &CaptureHandler{mu: &sync.Mutex{}, records: &[]CapturedRecord{}}
}

func (h *CaptureHandler) Enabled(context.Context, slog.Level) bool { return true }

func (h *CaptureHandler) Handle(_ context.Context, r slog.Record) error {
	rec := CapturedRecord{Level: r.Level, Message: r.Message, Attrs: map[string]string{}}
	for _, a := range h.attrs {
		rec.Attrs[a.Key] = a.Value.String()
	}
	r.Attrs(func(a slog.Attr) bool {
		rec.Attrs[a.Key] = a.Value.String()
		return true
	})

	h.mu.Lock()
	defer h.mu.Unlock()
	*h.records = append(*h.records, rec)
	return nil
}

func (h *CaptureHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &CaptureHandler{mu: h.mu, records: h.records, attrs: append(append([]slog.Attr{}, h.attrs...), attrs...)}
}

// WithGroup is not needed by the code under test; groups are flattened.
func (h *CaptureHandler) WithGroup(string) slog.Handler { return h }

// Records returns the captured records at exactly the given level.
func (h *CaptureHandler) Records(level slog.Level) []CapturedRecord {
	h.mu.Lock()
	defer h.mu.Unlock()

	var out []CapturedRecord
	for _, r := range *h.records {
		if r.Level == level {
			out = append(out, r)
		}
	}
	return out
}
