package remote

import (
	"context"
	"sync"
	"time"

	"taskdeck/internal/service"
)

// Debouncer coalesces rapid filter changes into a single FetchAll.
// Each Request cancels the pending timer and schedules a new one, so only the
// last filter of a burst is fetched.
type Debouncer struct {
	ctx    context.Context
	syncer *Syncer
	delay  time.Duration

	mu      sync.Mutex
	gen     uint64
	timer   *time.Timer
	pending *service.FetchFilter
	wg      sync.WaitGroup
}

// NewDebouncer creates a Debouncer that fetches through s after delay.
// ctx bounds the fetches it starts.
func NewDebouncer(ctx context.Context, s *Syncer, delay time.Duration) *Debouncer {
	return &Debouncer{ctx: ctx, syncer: s, delay: delay}
}

// Request schedules a fetch with filter, replacing any pending one.
func (d *Debouncer) Request(filter service.FetchFilter) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
	}
	d.gen++
	gen := d.gen
	d.pending = &filter
	d.timer = time.AfterFunc(d.delay, func() { d.fire(gen) })
}

// Flush runs the pending fetch now, if any, and waits for it.
// It reports whether a fetch was run.
func (d *Debouncer) Flush() bool {
	filter, ok := d.take(0)
	if !ok {
		return false
	}
	defer d.wg.Done()
	d.syncer.FetchAll(d.ctx, filter)
	return true
}

// Stop drops the pending fetch. Fetches already started are not affected.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.gen++
	d.pending = nil
}

// Wait blocks until every started fetch has finished.
func (d *Debouncer) Wait() {
	d.wg.Wait()
}

func (d *Debouncer) fire(gen uint64) {
	filter, ok := d.take(gen)
	if !ok {
		return
	}
	defer d.wg.Done()
	d.syncer.FetchAll(d.ctx, filter)
}

// take claims the pending filter. A non-zero gen must match the latest
// Request, which makes superseded timers no-ops.
func (d *Debouncer) take(gen uint64) (service.FetchFilter, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.pending == nil || (gen != 0 && gen != d.gen) {
		return service.FetchFilter{}, false
	}
	filter := *d.pending
	d.pending = nil
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.gen++
	d.wg.Add(1)
	return filter, true
}
