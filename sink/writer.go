package sink

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/trickstertwo/xnotify"
)

// Options shared by the sinks in this package.
type Options struct {
	OnFailure    FailurePolicy    // default FailPanic
	ErrorHandler ErrorHandler     // used by FailLog; default writes to stderr
	Metrics      MetricsCollector // default NopMetrics
}

func (o Options) withDefaults() Options {
	if o.OnFailure == 0 {
		o.OnFailure = FailPanic
	}
	if o.ErrorHandler == nil {
		o.ErrorHandler = defaultErrorHandler
	}
	if o.Metrics == nil {
		o.Metrics = NopMetrics{}
	}
	return o
}

// Writer appends every report, followed by a newline, to an io.Writer.
// Writes are serialized; the writer is safe for concurrent use.
type Writer struct {
	mu     sync.Mutex
	w      io.Writer
	closer io.Closer
	opts   Options
}

func NewWriter(w io.Writer, opts Options) *Writer {
	if w == nil {
		w = os.Stderr
	}
	return &Writer{w: w, opts: opts.withDefaults()}
}

// OpenFile appends reports to the file at path, creating it if needed.
func OpenFile(path string, opts Options) (*Writer, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("xnotify/sink: open %s: %w", path, err)
	}
	w := NewWriter(f, opts)
	w.closer = f
	return w, nil
}

// Send writes one report and returns the write error, if any.
func (w *Writer) Send(report string) error {
	start := time.Now()
	w.mu.Lock()
	_, err := io.WriteString(w.w, report+"\n")
	w.mu.Unlock()
	if err != nil {
		err = fmt.Errorf("xnotify/sink: write report: %w", err)
	}
	w.opts.Metrics.Delivered("writer", time.Since(start), err)
	return err
}

// Close closes the underlying file when the Writer was built by OpenFile.
func (w *Writer) Close() error {
	if w.closer == nil {
		return nil
	}
	return w.closer.Close()
}

// Layer builds a notification Layer delivering through w.
func (w *Writer) Layer(levels ...xnotify.Level) *xnotify.Layer[*Writer] {
	return xnotify.NewLayer(levels, w, xnotify.DispatchFunc[*Writer](DispatchWriter))
}

// DispatchWriter is the dispatch function for Writer: Send, then apply the
// failure policy.
func DispatchWriter(w *Writer, report string) {
	w.opts.OnFailure.Handle(w.Send(report), w.opts.ErrorHandler)
}
