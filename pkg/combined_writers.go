package pkg

import (
	"io"

	"go.uber.org/multierr"
)

// CombinedWriter writes every chunk to all of its writers. Unlike io.MultiWriter
// a failing writer does not stop the rest: log lines still reach stdout when
// the log file cannot be written.
type CombinedWriter struct {
	writers []io.Writer
}

func NewCombinedWriter(writers ...io.Writer) *CombinedWriter {
	return &CombinedWriter{writers: writers}
}

func (cw *CombinedWriter) Len() int {
	return len(cw.writers)
}

// Write reports len(p) when every writer took the whole chunk. Otherwise it
// returns the smallest count written together with all writer errors.
func (cw *CombinedWriter) Write(p []byte) (int, error) {
	n := len(p)
	var errs error
	for _, w := range cw.writers {
		written, err := w.Write(p)
		if err == nil && written < len(p) {
			err = io.ErrShortWrite
		}
		if err != nil {
			errs = multierr.Append(errs, err)
			n = min(n, written)
		}
	}
	return n, errs
}
