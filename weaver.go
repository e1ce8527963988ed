package velvet

// Timeline is one concrete running interpolation, native or fallback.
type Timeline interface {
	Play()
	Pause()
	Cancel()
	Finish()
	Reverse()
	// PlaybackRate is 1 forwards and -1 in reverse.
	PlaybackRate() float64
}

// weaverIDCounter is a plain counter; velvet is single-threaded.
var weaverIDCounter uint32

// Weaver is the playback handle returned by a weave. It drives one or more
// timelines with a single VCR-style contract. Once its controller pins it the
// weaver becomes Invalid and every method turns into a no-op.
type Weaver struct {
	id        uint32
	timelines []Timeline
	state     PlayState
	frames    *Frames
	progress  func() float64
	onCancel  func(*Weaver)
	onFinish  func(*Weaver)
}

func newWeaver(timelines []Timeline, frames *Frames, progress func() float64, opts Options) *Weaver {
	weaverIDCounter++
	w := &Weaver{
		id:        weaverIDCounter,
		timelines: timelines,
		state:     Running,
		frames:    frames,
		progress:  progress,
		onCancel:  opts.OnCancel,
		onFinish:  opts.OnFinish,
	}
	if w.onCancel == nil {
		w.onCancel = func(*Weaver) {}
	}
	if w.onFinish == nil {
		w.onFinish = func(*Weaver) {}
	}
	return w
}

// newInvalidWeaver returns an inert weaver, handed out when nothing can be
// animated.
func newInvalidWeaver() *Weaver {
	weaverIDCounter++
	return &Weaver{id: weaverIDCounter, state: Invalid}
}

// PlayState returns the aggregate state of the weaver.
func (w *Weaver) PlayState() PlayState {
	return w.state
}

// Play resumes or restarts playback. No-op while running.
func (w *Weaver) Play() *Weaver {
	debugInvalid(w, "play")
	if w.state != Running && w.state != Invalid {
		for _, t := range w.timelines {
			t.Play()
		}
		w.state = Running
	}
	return w
}

// Pause freezes playback. Only a running weaver pauses.
func (w *Weaver) Pause() *Weaver {
	debugInvalid(w, "pause")
	if w.state == Running {
		for _, t := range w.timelines {
			t.Pause()
		}
		w.state = Paused
	}
	return w
}

// Cancel resets playback to the start and fires OnCancel. Cancelling a
// finished weaver resets it without firing the hook.
func (w *Weaver) Cancel() *Weaver {
	debugInvalid(w, "cancel")
	prev := w.state
	if prev == Invalid {
		return w
	}
	w.reset()
	if prev != Finished {
		w.onCancel(w)
	}
	return w
}

// Finish jumps to the end. OnFinish fires on the next frame tick, unless the
// weaver was idle.
func (w *Weaver) Finish() *Weaver {
	debugInvalid(w, "finish")
	prev := w.state
	if prev == Finished || prev == Invalid {
		return w
	}
	for _, t := range w.timelines {
		t.Finish()
	}
	w.state = Finished
	if prev != Idle {
		w.frames.Schedule(func(float64) {
			w.onFinish(w)
		})
	}
	return w
}

// Reverse flips the playback direction and leaves the weaver running.
func (w *Weaver) Reverse() *Weaver {
	debugInvalid(w, "reverse")
	if w.state != Invalid {
		for _, t := range w.timelines {
			t.Reverse()
		}
		w.state = Running
	}
	return w
}

// Direction returns 1 when playing forwards, -1 in reverse and 0 when the
// weaver has no timelines.
func (w *Weaver) Direction() int {
	if w.state == Invalid || len(w.timelines) == 0 {
		return 0
	}
	switch rate := w.timelines[0].PlaybackRate(); {
	case rate > 0:
		return 1
	case rate < 0:
		return -1
	}
	return 0
}

// Progress returns the eased playback progress in [0, 1] (beyond it for
// overshooting curves). An invalid weaver reports 0.
func (w *Weaver) Progress() float64 {
	if w.state == Invalid || w.progress == nil {
		return 0
	}
	return w.progress()
}

// reset cancels every timeline and marks the weaver idle, without hooks.
func (w *Weaver) reset() {
	if w.state == Idle || w.state == Invalid {
		return
	}
	for _, t := range w.timelines {
		t.Cancel()
	}
	w.state = Idle
}

// unravel releases the timelines; the weaver is inert afterwards.
func (w *Weaver) unravel() {
	w.timelines = nil
	w.progress = nil
	w.state = Invalid
}
