package sensitivedata

import (
	"io"
	"sync"
)

// Scrubber removes sensitive material from a string.
type Scrubber interface {
	ScrubString(input string) string
}

// Writer wraps an io.Writer and redacts all data before writing.
// Thread-safe: can be used concurrently by multiple goroutines.
type Writer struct {
	underlying io.Writer
	scrubber   Scrubber
	mu         sync.Mutex // Protects writes to underlying writer
}

// NewWriter creates a redacting writer that scrubs sensitive patterns.
func NewWriter(w io.Writer, s Scrubber) *Writer {
	return &Writer{
		underlying: w,
		scrubber:   s,
	}
}

// Write implements io.Writer, redacting data before passing to underlying writer.
func (w *Writer) Write(p []byte) (n int, err error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.scrubber == nil {
		return w.underlying.Write(p)
	}

	redacted := []byte(w.scrubber.ScrubString(string(p)))
	n, err = w.underlying.Write(redacted)

	// Return original length to satisfy the io.Writer contract: the redacted
	// payload may be shorter than p, which would otherwise look like a short
	// write to the caller.
	if err == nil {
		n = len(p)
	}

	return n, err
}
