package velvet

import "sync"

// Sequencer tweens plain number vectors on the fallback engine. It holds no
// per-target state, so one instance serves any number of weaves.
type Sequencer struct {
	frames *Frames
}

// NewSequencer creates a sequencer ticking on frames, or on DefaultFrames
// when frames is nil.
func NewSequencer(frames *Frames) *Sequencer {
	if frames == nil {
		frames = DefaultFrames()
	}
	return &Sequencer{frames: frames}
}

var (
	sharedSequencerOnce sync.Once
	sharedSequencer     *Sequencer
)

// Shared returns the process-wide sequencer on DefaultFrames.
func Shared() *Sequencer {
	sharedSequencerOnce.Do(func() {
		sharedSequencer = NewSequencer(nil)
	})
	return sharedSequencer
}

// Weave animates from toward to, calling cb with the interpolated vector on
// every frame while the value changes and once more at each settle point
// (finish, cancel). The slice passed to cb is reused between calls. Playback
// starts on the next frame.
func (s *Sequencer) Weave(from, to []float64, opts Options, cb func(values []float64)) *Weaver {
	n := min(len(from), len(to))
	from = from[:n]
	diff := make([]float64, n)
	for i := range diff {
		diff[i] = to[i] - from[i]
	}
	vals := make([]float64, n)
	if cb == nil {
		cb = func([]float64) {}
	}

	var w *Weaver
	anim := newAnimation(s.frames, toMillis(opts.Delay), toMillis(opts.Duration), resolveEasing(opts.Easing),
		func(progress float64) {
			for i, d := range diff {
				vals[i] = from[i] + d*progress
			}
			cb(vals)
		},
		func() {
			w.Finish()
		},
	)
	w = newWeaver([]Timeline{anim}, s.frames, anim.Progress, opts)
	return w
}
