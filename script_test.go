package velvet

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func TestLoadScript(t *testing.T) {
	data := []byte(`
steps:
  - {action: style, styles: {opacity: 0.5, color: red}}
  - {action: weave, styles: {translateX: 100}, delay: 50, duration: 400, easing: ease-out}
  - {action: wait, frames: 3}
  - {action: reverse}
`)

	script, err := LoadScript(data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(script.Steps) != 4 {
		t.Fatalf("expected 4 steps, got %d", len(script.Steps))
	}
	if st := script.Steps[0]; st.Action != "style" || st.Styles["color"] != "red" {
		t.Errorf("step 0 mismatch: %+v", st)
	}
	if st := script.Steps[1]; st.Action != "weave" || st.Delay != 50 || st.Duration != 400 || st.Easing != "ease-out" {
		t.Errorf("step 1 mismatch: %+v", st)
	}
	if st := script.Steps[2]; st.Action != "wait" || st.Frames != 3 {
		t.Errorf("step 2 mismatch: %+v", st)
	}
}

func TestLoadScript_JSON(t *testing.T) {
	script, err := LoadScript([]byte(`{"steps": [{"action": "weave", "styles": {"scale": 2}, "duration": 100}]}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if script.Steps[0].Styles["scale"] != 2 {
		t.Errorf("styles = %v", script.Steps[0].Styles)
	}
}

func TestLoadScript_Invalid(t *testing.T) {
	if _, err := LoadScript([]byte("steps: [")); err == nil {
		t.Error("expected error for malformed YAML")
	}
}

func TestLoadScript_Empty(t *testing.T) {
	_, err := LoadScript([]byte(`steps: []`))
	if !errors.Is(err, ErrEmptyScript) {
		t.Errorf("err = %v, want ErrEmptyScript", err)
	}
}

func TestLoadScript_UnknownAction(t *testing.T) {
	_, err := LoadScript([]byte(`steps: [{action: weave}, {action: jump}]`))
	if err == nil || !strings.Contains(err.Error(), `step 1: unknown action "jump"`) {
		t.Errorf("err = %v, want unknown action at step 1", err)
	}
}

func TestScriptRunnerWait(t *testing.T) {
	script, err := LoadScript([]byte(`steps: [{action: wait, frames: 3}, {action: style, styles: {opacity: 0}}]`))
	if err != nil {
		t.Fatal(err)
	}
	frames, _ := newQueuedFrames()
	sink := newRecordingSink()
	runner := NewScriptRunner(script, New(Platform{Sink: sink, Frames: frames}, "box"))

	for i := 0; i < 3; i++ {
		runner.Step()
		if sink.writes != 0 {
			t.Fatalf("style applied during wait frame %d", i)
		}
	}
	runner.Step()
	if got := sink.get("box", "opacity"); got != "0" {
		t.Errorf("opacity = %q, want 0", got)
	}
	if !runner.Done() {
		t.Error("runner should be done after the last step")
	}
	runner.Step()
}

func TestScriptRunnerPlayback(t *testing.T) {
	script, err := LoadScript([]byte(`
steps:
  - {action: pause}
  - {action: weave, styles: {translateX: 100}, duration: 1000}
  - {action: pause}
  - {action: play}
  - {action: reverse}
  - {action: finish}
  - {action: cancel}
  - {action: unravel}
`))
	if err != nil {
		t.Fatal(err)
	}
	frames, _ := newQueuedFrames()
	sink := newRecordingSink()
	var cancelled int
	v := New(Platform{Sink: sink, Frames: frames}, "box")
	runner := NewScriptRunner(script, v)

	runner.Step() // pause before any weave is ignored
	if runner.Weaver() != nil {
		t.Fatal("weaver before the weave step")
	}
	runner.Step()
	w := runner.Weaver()
	w.onCancel = func(*Weaver) { cancelled++ }

	runner.Step()
	if w.PlayState() != Paused {
		t.Errorf("state = %v, want paused", w.PlayState())
	}
	runner.Step()
	runner.Step()
	if w.Direction() != -1 {
		t.Errorf("Direction = %d, want -1", w.Direction())
	}
	runner.Step()
	if w.PlayState() != Finished {
		t.Errorf("state = %v, want finished", w.PlayState())
	}
	// Reversed, so finishing lands on the start.
	if got := sink.transform(t, "box")["translateX"]; got != 0 {
		t.Errorf("translateX = %f, want 0", got)
	}
	runner.Step()
	if cancelled != 0 {
		t.Error("cancel after finish fired OnCancel")
	}
	runner.Step()
	if !runner.Done() {
		t.Error("runner should be done")
	}
	if w.PlayState() != Invalid {
		t.Errorf("state after unravel = %v, want invalid", w.PlayState())
	}
	if after := v.Weave(Styles{"opacity": 0}, Options{Duration: time.Second}); after.PlayState() != Invalid {
		t.Error("velvet still usable after the unravel step")
	}
}
