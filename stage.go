package velvet

import (
	"time"

	"github.com/hajimehoshi/ebiten/v2"
)

// Stage hosts velvet inside an Ebitengine game. It is both halves of a
// native platform: a per-frame callback facility and a TweenAnimator, and
// both advance when the game calls Update.
//
//	type Game struct{ stage *velvet.Stage }
//
//	func (g *Game) Update() error { return g.stage.Update() }
//
// Everything runs on the game goroutine, so velvet needs no locking.
type Stage struct {
	animator *TweenAnimator
	frames   *Frames
	sink     StyleSink
	runner   *ScriptRunner

	pending []func(timestamp float64)
	now     float64 // ms since the stage was created
}

// NewStage creates a stage whose animations write through sink.
func NewStage(sink StyleSink) *Stage {
	if sink == nil {
		sink = discardSink{}
	}
	s := &Stage{
		animator: NewTweenAnimator(sink),
		sink:     sink,
	}
	s.frames = NewFrames(s.RequestFrame, nil)
	return s
}

// Platform returns a native platform backed by the stage. Clear
// NativeAnimations on the result to run the frame-driven fallback engine on
// the same clock instead.
func (s *Stage) Platform() Platform {
	return Platform{
		NativeAnimations: true,
		Transform3D:      true,
		Sink:             s.sink,
		Animator:         s.animator,
		Frames:           s.frames,
	}
}

// Frames returns the scheduler ticking on the stage.
func (s *Stage) Frames() *Frames {
	return s.frames
}

// Animator returns the stage's native animator.
func (s *Stage) Animator() *TweenAnimator {
	return s.animator
}

// RequestFrame queues cb for the next Update. It is the stage's FrameFunc.
func (s *Stage) RequestFrame(cb func(timestamp float64)) {
	s.pending = append(s.pending, cb)
}

// SetScriptRunner attaches a runner whose Step is called at the start of
// every Update.
func (s *Stage) SetScriptRunner(runner *ScriptRunner) {
	s.runner = runner
}

// Elapsed returns the stage time accumulated by Update and Step.
func (s *Stage) Elapsed() time.Duration {
	return fromMillis(s.now)
}

// Update advances the stage by one Ebitengine tick. Call it from
// ebiten.Game.Update.
func (s *Stage) Update() error {
	tps := ebiten.TPS()
	if tps <= 0 {
		tps = ebiten.DefaultTPS
	}
	s.Step(time.Second / time.Duration(tps))
	return nil
}

// Step advances the stage by dt: the script runner steps, native animations
// advance, then the frame callbacks queued before the animations advanced run
// with the new timestamp. Callbacks requested during the step, including the
// finish hooks of native animations that completed in it, wait for the next
// step, as they do on the fallback engine.
func (s *Stage) Step(dt time.Duration) {
	if s.runner != nil {
		s.runner.Step()
	}
	s.now += toMillis(dt)

	pending := s.pending
	s.pending = nil
	s.animator.Update(dt)
	for _, cb := range pending {
		cb(s.now)
	}
}
