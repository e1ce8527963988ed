package velvet

import (
	"time"

	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// TweenAnimator is a native Animator built on gween tweens. It plays the role
// a browser's animation engine plays for web pages: the host advances it with
// Update once per frame and it writes each element's interpolated style
// through its sink.
//
// There is no global animation clock. The host calls Update itself (Stage
// does this for Ebitengine games).
type TweenAnimator struct {
	sink   StyleSink
	active []*tweenAnimation
}

// NewTweenAnimator creates an animator writing through sink.
func NewTweenAnimator(sink StyleSink) *TweenAnimator {
	if sink == nil {
		sink = discardSink{}
	}
	return &TweenAnimator{sink: sink}
}

// Animate starts playing kf on el. Like a fallback Animation, the effect
// anchors on the next Update and moves from the one after.
func (a *TweenAnimator) Animate(el Element, kf Keyframes, timing Timing) NativeAnimation {
	delay := max(toMillis(timing.Delay), 0)
	duration := max(toMillis(timing.Duration), 0)
	t := &tweenAnimation{
		owner:    a,
		el:       el,
		kf:       kf,
		easing:   resolveEasing(timing.Easing),
		span:     gween.New(0, float32(delay+duration), float32(delay+duration), ease.Linear),
		delay:    delay,
		duration: duration,
		total:    delay + duration,
		state:    Running,
		rate:     1,
	}
	a.track(t)
	return t
}

// Update advances every running animation by dt.
func (a *TweenAnimator) Update(dt time.Duration) {
	ms := toMillis(dt)
	// Callbacks may start, stop or restart animations while we iterate.
	snapshot := append([]*tweenAnimation(nil), a.active...)
	for _, t := range snapshot {
		t.advance(ms)
	}
	live := a.active[:0]
	for _, t := range a.active {
		if t.state == Running {
			live = append(live, t)
		} else {
			t.tracked = false
		}
	}
	clear(a.active[len(live):])
	a.active = live
}

// Len returns the number of animations Update is advancing.
func (a *TweenAnimator) Len() int {
	return len(a.active)
}

func (a *TweenAnimator) track(t *tweenAnimation) {
	if t.tracked {
		return
	}
	t.tracked = true
	a.active = append(a.active, t)
}

// tweenAnimation is one element's effect, mirroring a web animation with
// fill: forwards. A gween tween over the whole span (delay included) is the
// playhead: its Overflow turns non-zero once playback runs past either end.
// The eased progress is computed in float64 from the same elapsed time the
// fallback engine uses, so both engines write identical values.
type tweenAnimation struct {
	owner  *TweenAnimator
	el     Element
	kf     Keyframes
	easing Easing
	span   *gween.Tween

	delay, duration, total float64 // ms

	state    PlayState
	rate     float64
	current  float64 // ms into the span, delay included
	progress float64
	// anchored is false until the first Update after a start, restart or
	// reverse; that Update holds the playhead where it is.
	anchored bool
	tracked  bool
	onFinish func()
}

func (t *tweenAnimation) advance(ms float64) {
	if t.state != Running {
		return
	}
	if t.anchored {
		t.current += t.rate * ms
	} else {
		t.anchored = true
	}

	t.span.Set(float32(t.current))
	if t.span.Overflow != 0 {
		t.current = min(max(t.current, 0), t.total)
		t.state = Finished
		t.snap()
		if t.onFinish != nil {
			t.onFinish()
		}
		return
	}
	if t.current > t.delay && t.current < t.total {
		t.sample()
	}
}

// sample eases the elapsed time inside the active interval and renders it.
func (t *tweenAnimation) sample() {
	t.progress = t.easing((t.current - t.delay) / t.duration)
	t.render()
}

// snap renders the end playback is heading for.
func (t *tweenAnimation) snap() {
	if t.rate > 0 {
		t.progress = 1
	} else {
		t.progress = 0
	}
	t.render()
}

func (t *tweenAnimation) render() {
	for _, d := range t.kf.At(t.progress) {
		t.owner.sink.SetStyle(t.el, d.Property, d.Value)
	}
}

func (t *tweenAnimation) rewind() {
	if t.rate > 0 {
		t.current = 0
	} else {
		t.current = t.total
	}
	t.span.Set(float32(t.current))
}

func (t *tweenAnimation) Play() {
	if t.state == Running {
		return
	}
	if t.state == Idle || t.state == Finished {
		t.rewind()
	}
	t.state = Running
	t.anchored = false
	t.owner.track(t)
}

func (t *tweenAnimation) Pause() {
	if t.state == Running {
		t.state = Paused
	}
}

// Cancel drops the effect; the element shows the start keyframe again.
func (t *tweenAnimation) Cancel() {
	t.state = Idle
	t.current = 0
	t.progress = 0
	t.span.Reset()
	t.render()
}

func (t *tweenAnimation) Finish() {
	if t.rate > 0 {
		t.current = t.total
	} else {
		t.current = 0
	}
	t.state = Finished
	t.snap()
}

func (t *tweenAnimation) Reverse() {
	t.rate = -t.rate
	t.anchored = false
	if t.state == Running {
		return
	}
	if t.state == Idle || t.state == Finished {
		t.rewind()
	}
	t.state = Running
	t.owner.track(t)
}

func (t *tweenAnimation) PlaybackRate() float64 {
	return t.rate
}

func (t *tweenAnimation) Progress() float64 {
	return t.progress
}

func (t *tweenAnimation) OnFinish(fn func()) {
	t.onFinish = fn
}
