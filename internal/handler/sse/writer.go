package sse

import (
	"fmt"
	"net/http"
	"strings"
	"sync"
)

// Writer serializes events and keep-alive comments onto one response.
// Event and keep-alive writes share a mutex so lines never interleave.
type Writer struct {
	mu       sync.Mutex
	w        http.ResponseWriter
	rc       *http.ResponseController
	streamID string
	withIDs  bool
	seq      int
}

// NewWriter sets the event-stream headers and sends the 200 status.
// streamID prefixes event ids when withIDs is set.
func NewWriter(w http.ResponseWriter, streamID string, withIDs bool) *Writer {
	h := w.Header()
	h.Set("Content-Type", "text/event-stream")
	h.Set("Cache-Control", "no-cache")
	h.Set("Connection", "keep-alive")
	h.Set("X-Accel-Buffering", "no") // Disable nginx buffering
	w.WriteHeader(http.StatusOK)

	return &Writer{
		w:        w,
		rc:       http.NewResponseController(w),
		streamID: streamID,
		withIDs:  withIDs,
	}
}

// WriteEvent writes one "data:" event and flushes it.
// Multi-line text is split into one data line per line.
func (s *Writer) WriteEvent(text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var b strings.Builder
	if s.withIDs {
		s.seq++
		fmt.Fprintf(&b, "id: %s-%d\n", s.streamID, s.seq)
	}
	for _, line := range strings.Split(text, "\n") {
		b.WriteString("data: ")
		b.WriteString(line)
		b.WriteByte('\n')
	}
	b.WriteByte('\n')

	if _, err := s.w.Write([]byte(b.String())); err != nil {
		return fmt.Errorf("write event: %w", err)
	}
	return s.flush()
}

// WriteKeepAlive writes an SSE comment line and flushes
func (s *Writer) WriteKeepAlive() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.w.Write([]byte(": keepalive\n\n")); err != nil {
		return fmt.Errorf("write keepalive: %w", err)
	}
	return s.flush()
}

func (s *Writer) flush() error {
	if err := s.rc.Flush(); err != nil {
		return fmt.Errorf("flush: %w", err)
	}
	return nil
}
