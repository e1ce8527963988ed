package velvet

import (
	"math"
	"strconv"
	"testing"
	"time"
)

// ---- Manual clock ----------------------------------------------------------

type manualTimer struct {
	at time.Time
	f  func()
}

// manualClock is a Clock whose time only moves on Advance. lag delays every
// timer firing past its deadline to simulate a busy loop.
type manualClock struct {
	now    time.Time
	timers []manualTimer
	lag    time.Duration
}

func newManualClock() *manualClock {
	return &manualClock{now: time.UnixMilli(1_000_000)}
}

func (c *manualClock) Now() time.Time { return c.now }

func (c *manualClock) AfterFunc(d time.Duration, f func()) {
	c.timers = append(c.timers, manualTimer{at: c.now.Add(d), f: f})
}

// Advance moves the clock forward by d, firing due timers in deadline order.
func (c *manualClock) Advance(d time.Duration) {
	end := c.now.Add(d)
	for {
		idx := -1
		for i, t := range c.timers {
			if t.at.After(end) {
				continue
			}
			if idx < 0 || t.at.Before(c.timers[idx].at) {
				idx = i
			}
		}
		if idx < 0 {
			break
		}
		t := c.timers[idx]
		c.timers = append(c.timers[:idx], c.timers[idx+1:]...)
		if fire := t.at.Add(c.lag); fire.After(c.now) {
			c.now = fire
		}
		t.f()
	}
	if end.After(c.now) {
		c.now = end
	}
}

// ---- Manual frames ---------------------------------------------------------

// frameQueue is a native FrameFunc that only ticks on flush.
type frameQueue struct {
	pending []func(float64)
}

func (q *frameQueue) request(cb func(float64)) {
	q.pending = append(q.pending, cb)
}

// flush runs the callbacks queued before the call with timestamp ts.
func (q *frameQueue) flush(ts float64) {
	pending := q.pending
	q.pending = nil
	for _, cb := range pending {
		cb(ts)
	}
}

func newQueuedFrames() (*Frames, *frameQueue) {
	q := &frameQueue{}
	return NewFrames(q.request, nil), q
}

// ---- Recording sink --------------------------------------------------------

// recordingSink remembers the last value written per element and property.
type recordingSink struct {
	styles map[Element]map[string]string
	writes int
}

func newRecordingSink() *recordingSink {
	return &recordingSink{styles: map[Element]map[string]string{}}
}

func (s *recordingSink) SetStyle(el Element, property, value string) {
	m, ok := s.styles[el]
	if !ok {
		m = map[string]string{}
		s.styles[el] = m
	}
	m[property] = value
	s.writes++
}

func (s *recordingSink) get(el Element, property string) string {
	return s.styles[el][property]
}

// opacity parses the recorded opacity of el.
func (s *recordingSink) opacity(t *testing.T, el Element) float64 {
	t.Helper()
	raw := s.get(el, "opacity")
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		t.Fatalf("opacity of %v = %q, not a number", el, raw)
	}
	return v
}

// transform parses the recorded transform of el into component values.
func (s *recordingSink) transform(t *testing.T, el Element) map[string]float64 {
	t.Helper()
	out, err := ParseTransform(s.get(el, "transform"))
	if err != nil {
		t.Fatalf("transform of %v: %v", el, err)
	}
	return out
}

func approx(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}
