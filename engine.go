package velvet

import "time"

// Timing configures one native animation.
type Timing struct {
	Delay    time.Duration
	Duration time.Duration
	// Easing is one of the preset names; empty means linear.
	Easing string
}

// NativeAnimation is a timeline produced by a native Animator.
type NativeAnimation interface {
	Timeline
	// Progress is the eased progress of the effect, 0 before it starts.
	Progress() float64
	// OnFinish registers fn to run when playback reaches an end on its own.
	// Explicit Finish calls do not trigger it.
	OnFinish(fn func())
}

// Animator is a native animation facility: it animates one element through
// a two-keyframe effect with fill-forwards semantics.
type Animator interface {
	Animate(el Element, kf Keyframes, timing Timing) NativeAnimation
}

// engine is the execution strategy a Velvet picks once at construction.
type engine interface {
	weave(v *Velvet, kf Keyframes, opts Options) *Weaver
	// pin pushes the frozen values of w to the elements.
	pin(v *Velvet, w *Weaver, values []float64)
	// hinted reports whether the engine manages the will-change hint.
	hinted() bool
}

// fallbackEngine interpolates on the frame scheduler and writes every
// intermediate value through the sink.
type fallbackEngine struct {
	seq        *Sequencer
	willChange bool
}

func (e fallbackEngine) weave(v *Velvet, kf Keyframes, opts Options) *Weaver {
	cb := func([]float64) {}
	if len(kf.layout.transformKeys) > 0 || len(kf.layout.opacityKeys) > 0 {
		cb = func(values []float64) {
			v.apply(kf.layout.declarations(values))
		}
	}
	return e.seq.Weave(kf.From, kf.To, opts, cb)
}

// pin re-applies values. The paused animation already shows them, so the
// timeline is left alone; cancelling it would snap back to the start.
func (e fallbackEngine) pin(v *Velvet, _ *Weaver, values []float64) {
	v.apply(v.layout.declarations(values))
}

func (e fallbackEngine) hinted() bool {
	return e.willChange
}

// nativeEngine hands one animation per element to the platform Animator and
// groups them under one weaver.
type nativeEngine struct {
	animator Animator
	frames   *Frames
}

func (e nativeEngine) weave(v *Velvet, kf Keyframes, opts Options) *Weaver {
	if len(v.elements) == 0 {
		return newInvalidWeaver()
	}
	timing := Timing{
		Delay:    max(opts.Delay, 0),
		Duration: max(opts.Duration, 0),
		Easing:   opts.Easing,
	}
	if _, ok := EasingByName(timing.Easing); !ok {
		if timing.Easing != "" {
			debugf("unknown easing %q, using linear", timing.Easing)
		}
		timing.Easing = LinearName
	}

	timelines := make([]Timeline, len(v.elements))
	var last NativeAnimation
	for i, el := range v.elements {
		last = e.animator.Animate(el, kf, timing)
		timelines[i] = last
	}

	w := newWeaver(timelines, e.frames, last.Progress, opts)
	// The last element's animation speaks for the group.
	last.OnFinish(func() {
		if w.state != Finished {
			w.Finish()
		}
	})
	return w
}

// pin cancels the native effects and writes the frozen values in their place.
func (e nativeEngine) pin(v *Velvet, w *Weaver, values []float64) {
	w.reset()
	v.apply(v.layout.declarations(values))
}

func (e nativeEngine) hinted() bool {
	return false
}
