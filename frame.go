package velvet

import (
	"math"
	"sync"
	"time"
)

// FrameFunc is a native per-frame callback facility: it arranges for cb to be
// called once on the next display refresh with that frame's timestamp in
// milliseconds.
type FrameFunc func(cb func(timestamp float64))

// Clock is the time source behind the fallback frame timer.
type Clock interface {
	Now() time.Time
	// AfterFunc calls f once, d after now, on the goroutine that runs velvet.
	AfterFunc(d time.Duration, f func())
}

// frameInterval is the fallback tick period in milliseconds.
const frameInterval = 1000.0 / 60

// Frames batches per-frame callbacks. Callbacks scheduled between two ticks
// run together on the next tick, in scheduling order, all receiving the same
// timestamp. There is no cancellation: a consumer stops by not scheduling
// itself again.
type Frames struct {
	native FrameFunc
	clock  Clock

	queue []func(timestamp float64)
	armed bool
	last  float64 // ms timestamp the previous tick was paced to
}

// NewFrames creates a scheduler. When native is non-nil every callback is
// handed to it directly; otherwise ticks are paced at 60 Hz on clock. A nil
// clock uses DefaultLoop.
func NewFrames(native FrameFunc, clock Clock) *Frames {
	if native == nil && clock == nil {
		clock = DefaultLoop()
	}
	return &Frames{native: native, clock: clock}
}

var (
	sharedFramesOnce sync.Once
	sharedFrames     *Frames
)

// DefaultFrames returns the process-wide scheduler, creating it on first use.
// It runs on DefaultLoop's timer.
func DefaultFrames() *Frames {
	sharedFramesOnce.Do(func() {
		sharedFrames = NewFrames(nil, DefaultLoop())
	})
	return sharedFrames
}

// Schedule registers cb for the next tick.
func (f *Frames) Schedule(cb func(timestamp float64)) {
	if f.native != nil {
		f.native(cb)
		return
	}
	f.queue = append(f.queue, cb)
	if !f.armed {
		f.arm()
	}
}

// arm starts the fallback timer. The delay shrinks by however late the
// previous tick ran, so the effective rate stays at 60 Hz.
func (f *Frames) arm() {
	now := millis(f.clock.Now())
	delay := math.Max(frameInterval-(now-f.last), 0)
	f.last = now + delay
	f.armed = true

	timestamp := now + delay
	f.clock.AfterFunc(fromMillis(delay), func() {
		f.tick(timestamp)
	})
}

func (f *Frames) tick(timestamp float64) {
	count := len(f.queue)
	if count == 0 {
		f.armed = false
		return
	}
	batch := f.queue[:count:count]
	for _, cb := range batch {
		cb(timestamp)
	}
	// Callbacks registered during the tick wait for the next one.
	f.queue = append([]func(float64){}, f.queue[count:]...)
	if len(f.queue) == 0 {
		f.armed = false
		return
	}
	f.arm()
}

// millis converts t to a millisecond timestamp.
func millis(t time.Time) float64 {
	return float64(t.UnixNano()) / float64(time.Millisecond)
}

// fromMillis converts a millisecond span to a time.Duration.
func fromMillis(ms float64) time.Duration {
	return time.Duration(ms * float64(time.Millisecond))
}

// toMillis converts d to milliseconds.
func toMillis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
