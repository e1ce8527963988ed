package velvet

import (
	"testing"
	"time"
)

type animationProbe struct {
	values []float64
	done   int
}

func (p *animationProbe) value(v float64) { p.values = append(p.values, v) }
func (p *animationProbe) finish()         { p.done++ }

func (p *animationProbe) last() float64 {
	if len(p.values) == 0 {
		return -1
	}
	return p.values[len(p.values)-1]
}

func newProbedAnimation(delay, duration float64, easing Easing) (*Animation, *animationProbe, *frameQueue) {
	frames, q := newQueuedFrames()
	p := &animationProbe{}
	if easing == nil {
		easing = resolveEasing(LinearName)
	}
	a := newAnimation(frames, delay, duration, easing, p.value, p.finish)
	return a, p, q
}

func TestAnimationLinearMidpoint(t *testing.T) {
	a, p, q := newProbedAnimation(0, 1000, nil)
	if a.PlayState() != Running {
		t.Fatalf("state = %v, want running", a.PlayState())
	}
	q.flush(0)
	if len(p.values) != 0 {
		t.Errorf("first tick sampled %v, want nothing at p=0", p.values)
	}
	q.flush(500)
	if !approx(p.last(), 0.5, 1e-9) {
		t.Errorf("progress at 500ms = %f, want 0.5", p.last())
	}
	if a.CurrentTime() != 500*time.Millisecond {
		t.Errorf("CurrentTime = %v, want 500ms", a.CurrentTime())
	}
}

func TestAnimationEasesProgress(t *testing.T) {
	easeIn := resolveEasing(EaseInName)
	a, _, q := newProbedAnimation(0, 1000, easeIn)
	q.flush(0)
	q.flush(500)
	if !approx(a.Progress(), easeIn(0.5), 1e-9) {
		t.Errorf("Progress = %f, want %f", a.Progress(), easeIn(0.5))
	}
}

func TestAnimationHoldsDuringDelay(t *testing.T) {
	a, p, q := newProbedAnimation(200, 1000, nil)
	q.flush(0)
	q.flush(100)
	if len(p.values) != 0 || a.Progress() != 0 {
		t.Errorf("sampled %v during the delay", p.values)
	}
	q.flush(700)
	if !approx(a.Progress(), 0.5, 1e-9) {
		t.Errorf("Progress at 700ms = %f, want 0.5", a.Progress())
	}
}

func TestAnimationCompletes(t *testing.T) {
	a, p, q := newProbedAnimation(0, 1000, nil)
	q.flush(0)
	q.flush(1000)
	if a.PlayState() != Running || p.done != 0 {
		t.Fatal("should still run at exactly the end of the span")
	}
	q.flush(1016)
	if a.PlayState() != Finished {
		t.Errorf("state = %v, want finished", a.PlayState())
	}
	if p.done != 1 {
		t.Errorf("onDone called %d times, want 1", p.done)
	}
	if p.last() != 1 {
		t.Errorf("settled progress = %f, want 1", p.last())
	}
	if a.CurrentTime() != time.Second {
		t.Errorf("CurrentTime = %v, want clamped to 1s", a.CurrentTime())
	}
	if len(q.pending) != 0 {
		t.Errorf("%d ticks still queued after finishing", len(q.pending))
	}
}

func TestAnimationZeroDurationNeverSamples(t *testing.T) {
	samples := 0
	counting := func(x float64) float64 {
		samples++
		return x
	}
	a, p, q := newProbedAnimation(0, 0, counting)
	q.flush(0)
	if a.PlayState() != Running {
		t.Fatal("zero-length animation finished on its first tick")
	}
	q.flush(16)
	if a.PlayState() != Finished || p.done != 1 {
		t.Fatalf("state = %v, done = %d; want finished once", a.PlayState(), p.done)
	}
	if samples != 0 {
		t.Errorf("easing sampled %d times, want 0", samples)
	}
	if len(p.values) != 1 || p.values[0] != 1 {
		t.Errorf("values = %v, want [1]", p.values)
	}
}

func TestAnimationPauseAndPlay(t *testing.T) {
	a, _, q := newProbedAnimation(0, 1000, nil)
	q.flush(0)
	q.flush(300)
	a.Pause()
	if a.PlayState() != Paused {
		t.Fatalf("state = %v, want paused", a.PlayState())
	}
	q.flush(800)
	if !approx(a.Progress(), 0.3, 1e-9) {
		t.Errorf("paused progress = %f, want 0.3", a.Progress())
	}
	if len(q.pending) != 0 {
		t.Errorf("paused animation kept ticking")
	}

	a.Play()
	q.flush(1000) // re-anchors
	if !approx(a.Progress(), 0.3, 1e-9) {
		t.Errorf("progress after resume = %f, want 0.3", a.Progress())
	}
	q.flush(1200)
	if !approx(a.Progress(), 0.5, 1e-9) {
		t.Errorf("progress 200ms after resume = %f, want 0.5", a.Progress())
	}
}

func TestAnimationReplayKillsStaleChain(t *testing.T) {
	a, _, q := newProbedAnimation(0, 1000, nil)
	q.flush(0)
	a.Pause()
	a.Play()
	if len(q.pending) != 2 {
		t.Fatalf("pending = %d, want the old tick and the new start", len(q.pending))
	}
	q.flush(100)
	if len(q.pending) != 1 {
		t.Errorf("pending = %d after flush, want 1 live chain", len(q.pending))
	}
}

func TestAnimationReverseWhileRunningDoesNotJump(t *testing.T) {
	a, p, q := newProbedAnimation(0, 1000, nil)
	q.flush(0)
	q.flush(400)
	a.Reverse()
	if a.PlaybackRate() != -1 {
		t.Fatalf("rate = %v, want -1", a.PlaybackRate())
	}
	q.flush(500)
	if !approx(a.Progress(), 0.4, 1e-9) {
		t.Errorf("progress right after reverse = %f, want 0.4", a.Progress())
	}
	q.flush(600)
	if !approx(a.Progress(), 0.3, 1e-9) {
		t.Errorf("progress 100ms into reverse = %f, want 0.3", a.Progress())
	}
	q.flush(1100)
	if a.PlayState() != Finished || p.done != 1 {
		t.Fatalf("state = %v, done = %d; want finished at the start", a.PlayState(), p.done)
	}
	if p.last() != 0 {
		t.Errorf("settled progress = %f, want 0", p.last())
	}
}

func TestAnimationFinishAndReverse(t *testing.T) {
	a, p, q := newProbedAnimation(0, 1000, nil)
	q.flush(0)
	a.Finish()
	if a.PlayState() != Finished || a.Progress() != 1 {
		t.Fatalf("state = %v, progress = %f", a.PlayState(), a.Progress())
	}
	if p.done != 0 {
		t.Error("explicit Finish should not call onDone")
	}
	q.flush(16)
	if a.PlayState() != Finished {
		t.Error("a stale tick revived a finished animation")
	}

	a.Reverse()
	if a.PlayState() != Running {
		t.Fatalf("state after reverse = %v, want running", a.PlayState())
	}
	q.flush(2000)
	q.flush(2250)
	if !approx(a.Progress(), 0.75, 1e-9) {
		t.Errorf("progress 250ms into reverse = %f, want 0.75", a.Progress())
	}
}

func TestAnimationCancel(t *testing.T) {
	a, p, q := newProbedAnimation(0, 1000, nil)
	q.flush(0)
	q.flush(600)
	a.Reverse()
	a.Cancel()
	if a.PlayState() != Idle {
		t.Errorf("state = %v, want idle", a.PlayState())
	}
	if p.last() != 0 || a.Progress() != 0 {
		t.Errorf("cancel pushed %f, want 0 regardless of direction", p.last())
	}
	q.flush(700)
	if len(q.pending) != 0 {
		t.Error("cancelled animation kept ticking")
	}

	a.Play()
	q.flush(1000)
	q.flush(1100)
	if a.PlayState() != Running {
		t.Fatalf("state = %v, want running", a.PlayState())
	}
}

func TestPlayStateString(t *testing.T) {
	names := map[PlayState]string{
		Idle: "idle", Running: "running", Paused: "paused",
		Finished: "finished", Invalid: "invalid", PlayState(42): "unknown",
	}
	for s, want := range names {
		if got := s.String(); got != want {
			t.Errorf("PlayState(%d).String() = %q, want %q", s, got, want)
		}
	}
}

func TestAnimationReverseTwiceRestoresRate(t *testing.T) {
	a, _, q := newProbedAnimation(0, 1000, nil)
	q.flush(0)
	a.Reverse()
	a.Reverse()
	if a.PlaybackRate() != 1 {
		t.Errorf("rate = %v, want 1", a.PlaybackRate())
	}
	q.flush(100)
	q.flush(300)
	if !approx(a.Progress(), 0.2, 1e-9) {
		t.Errorf("Progress = %f, want 0.2", a.Progress())
	}
}
