// Package progress reports how far a long-running crawl has come.
package progress

import (
	"io"
	"sync"

	"github.com/cheggaaa/pb/v3"
)

// Tracker receives progress updates. Increment may be called from several
// goroutines at once.
type Tracker interface {
	// Start announces the number of steps.
	Start(total int)
	// Increment marks one step as done.
	Increment()
	// Finish marks the work as done.
	Finish()
}

// Nop is a Tracker that does nothing.
type Nop struct{}

// Start implements Tracker.
func (Nop) Start(int) {}

// Increment implements Tracker.
func (Nop) Increment() {}

// Finish implements Tracker.
func (Nop) Finish() {}

// Bar is a Tracker drawing a terminal progress bar.
type Bar struct {
	w      io.Writer
	prefix string

	mu  sync.Mutex
	bar *pb.ProgressBar
}

// NewBar creates a progress bar that writes to w, labelled with prefix.
func NewBar(w io.Writer, prefix string) *Bar {
	return &Bar{w: w, prefix: prefix}
}

// Start implements Tracker. Calling Start again restarts the bar.
func (b *Bar) Start(total int) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.bar != nil {
		b.bar.Finish()
	}
	b.bar = pb.New(total).
		SetWriter(b.w).
		Set("prefix", b.prefix+" ")
	b.bar.Start()
}

// Increment implements Tracker.
func (b *Bar) Increment() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.bar != nil {
		b.bar.Increment()
	}
}

// Finish implements Tracker.
func (b *Bar) Finish() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.bar != nil {
		b.bar.Finish()
		b.bar = nil
	}
}

// OrNop returns t, or Nop when t is nil.
func OrNop(t Tracker) Tracker {
	if t == nil {
		return Nop{}
	}
	return t
}
