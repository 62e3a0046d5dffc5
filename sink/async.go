package sink

import (
	"sync"

	"github.com/trickstertwo/xnotify"
)

// Async runs every dispatch of the wrapped Dispatcher on its own goroutine, so
// the logging goroutine never waits on delivery. There is no queue: each
// report is handed off immediately.
//
// A FailPanic sink wrapped in Async panics on its own goroutine and therefore
// takes the process down.
type Async[C any] struct {
	next xnotify.Dispatcher[C]
	wg   sync.WaitGroup
}

func NewAsync[C any](next xnotify.Dispatcher[C]) *Async[C] {
	return &Async[C]{next: next}
}

func (a *Async[C]) Dispatch(config C, report string) {
	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		a.next.Dispatch(config, report)
	}()
}

// Wait blocks until every dispatch started so far has returned.
func (a *Async[C]) Wait() { a.wg.Wait() }

// Nop discards every report.
type Nop[C any] struct{}

func (Nop[C]) Dispatch(C, string) {}
