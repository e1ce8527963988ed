package velvet

import "time"

// Animation is the fallback timeline: a hand-driven interpolation that
// re-registers itself on a Frames scheduler every tick while running.
// Progress is eased through the curve only strictly inside
// (delay, delay+duration); the endpoints are delivered snapped by Finish,
// Cancel or completion.
type Animation struct {
	frames *Frames
	easing Easing

	delay    float64 // ms
	duration float64 // ms, used as the progress divisor (never 0)
	total    float64 // delay + requested duration, ms

	state       PlayState
	rate        float64
	currentTime float64
	startTime   float64
	offset      float64
	progress    float64

	// reanchor moves startTime to the next tick's timestamp after a reverse
	// while running, so the value does not jump.
	reanchor bool
	// gen tags the current tick chain; older chains stop on their next tick.
	gen uint64

	onValue func(progress float64)
	onDone  func()
}

// newAnimation creates a running Animation and schedules its first tick.
// onValue receives every eased progress; onDone runs when playback reaches
// either end of the span on its own.
func newAnimation(frames *Frames, delay, duration float64, easing Easing, onValue func(float64), onDone func()) *Animation {
	delay = max(delay, 0)
	duration = max(duration, 0)
	divisor := duration
	if divisor == 0 {
		divisor = 1
	}
	if onValue == nil {
		onValue = func(float64) {}
	}
	if onDone == nil {
		onDone = func() {}
	}
	a := &Animation{
		frames:   frames,
		easing:   easing,
		delay:    delay,
		duration: divisor,
		total:    delay + duration,
		state:    Running,
		rate:     1,
		onValue:  onValue,
		onDone:   onDone,
	}
	a.run()
	return a
}

// run starts a new tick chain anchored at the next tick's timestamp.
func (a *Animation) run() {
	a.gen++
	gen := a.gen
	a.frames.Schedule(func(timestamp float64) {
		if gen != a.gen {
			return
		}
		a.startTime = timestamp
		a.tick(gen, timestamp)
	})
}

func (a *Animation) tick(gen uint64, timestamp float64) {
	if gen != a.gen {
		return
	}
	if a.reanchor {
		a.reanchor = false
		a.startTime = timestamp
	}
	if a.state != Running {
		return
	}

	p := a.offset + a.rate*(timestamp-a.startTime)
	a.currentTime = min(max(p, 0), a.total)

	if p > a.delay && p < a.total {
		a.progress = a.easing((p - a.delay) / a.duration)
		a.onValue(a.progress)
	}
	if p >= 0 && p <= a.total {
		a.frames.Schedule(func(ts float64) {
			a.tick(gen, ts)
		})
		return
	}

	a.state = Finished
	a.settle()
	a.onDone()
}

// settle snaps progress to the end playback is heading for.
func (a *Animation) settle() {
	a.offset = a.currentTime
	if a.rate > 0 {
		a.progress = 1
	} else {
		a.progress = 0
	}
	a.onValue(a.progress)
}

// rewind moves the offset to the start of the span for the current direction.
func (a *Animation) rewind() {
	if a.rate > 0 {
		a.offset = 0
	} else {
		a.offset = a.total
	}
}

// Play resumes a paused animation, or restarts an idle or finished one from
// the start of its span (the end, when playing backwards).
func (a *Animation) Play() {
	if a.state == Running {
		return
	}
	if a.state == Idle || a.state == Finished {
		a.rewind()
	}
	a.state = Running
	a.run()
}

// Pause freezes a running animation at its current time.
func (a *Animation) Pause() {
	if a.state != Running {
		return
	}
	a.offset = a.currentTime
	a.state = Paused
}

// Cancel stops playback and resets the value to the start. The reset does
// not depend on the playback direction.
func (a *Animation) Cancel() {
	a.currentTime = 0
	a.state = Idle
	a.offset = a.currentTime
	a.progress = 0
	a.onValue(a.progress)
}

// Finish jumps to the end of the span in the current direction.
func (a *Animation) Finish() {
	if a.rate > 0 {
		a.currentTime = a.total
	} else {
		a.currentTime = 0
	}
	a.state = Finished
	a.settle()
}

// Reverse flips the playback direction. A running animation turns around in
// place on its next tick; otherwise playback (re)starts in the new direction.
func (a *Animation) Reverse() {
	a.rate = -a.rate
	if a.state == Running {
		a.offset = a.currentTime
		a.reanchor = true
		return
	}
	if a.state == Idle || a.state == Finished {
		a.rewind()
	}
	a.state = Running
	a.run()
}

// PlaybackRate returns 1 when playing forwards and -1 when reversed.
func (a *Animation) PlaybackRate() float64 {
	return a.rate
}

// Progress returns the last eased progress pushed to the value callback.
func (a *Animation) Progress() float64 {
	return a.progress
}

// PlayState returns the animation's state.
func (a *Animation) PlayState() PlayState {
	return a.state
}

// CurrentTime returns the elapsed time within the span, delay included.
func (a *Animation) CurrentTime() time.Duration {
	return fromMillis(a.currentTime)
}
