package velvet

import (
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"
)

// ErrEmptyScript is returned by LoadScript for a script without steps.
var ErrEmptyScript = errors.New("no steps")

// scriptStep is a single action in a playback script. Times are in
// milliseconds.
type scriptStep struct {
	Action   string         `yaml:"action"`
	Styles   map[string]any `yaml:"styles,omitempty"`
	Delay    float64        `yaml:"delay,omitempty"`
	Duration float64        `yaml:"duration,omitempty"`
	Easing   string         `yaml:"easing,omitempty"`
	Frames   int            `yaml:"frames,omitempty"`
}

// Script is a parsed playback script.
type Script struct {
	Steps []scriptStep `yaml:"steps"`
}

var scriptActions = map[string]bool{
	"weave": true, "style": true, "wait": true, "unravel": true,
	"play": true, "pause": true, "cancel": true, "finish": true, "reverse": true,
}

// LoadScript parses a YAML (or JSON) playback script:
//
//	steps:
//	  - {action: weave, styles: {translateX: 200}, duration: 1000, easing: ease-out}
//	  - {action: wait, frames: 30}
//	  - {action: reverse}
func LoadScript(data []byte) (*Script, error) {
	var script Script
	if err := yaml.Unmarshal(data, &script); err != nil {
		return nil, fmt.Errorf("parse script: %w", err)
	}
	if len(script.Steps) == 0 {
		return nil, fmt.Errorf("parse script: %w", ErrEmptyScript)
	}
	for i, st := range script.Steps {
		if !scriptActions[st.Action] {
			return nil, fmt.Errorf("parse script: step %d: unknown action %q", i, st.Action)
		}
	}
	return &script, nil
}

// ScriptRunner replays a Script against a Velvet, one step per frame.
// Attach it to a Stage with SetScriptRunner or call Step yourself.
type ScriptRunner struct {
	steps     []scriptStep
	target    *Velvet
	weaver    *Weaver
	cursor    int
	waitCount int
	done      bool
}

// NewScriptRunner creates a runner for script driving target.
func NewScriptRunner(script *Script, target *Velvet) *ScriptRunner {
	return &ScriptRunner{steps: script.Steps, target: target}
}

// Done reports whether all steps have been executed.
func (r *ScriptRunner) Done() bool {
	return r.done
}

// Weaver returns the weaver of the most recent weave step, or nil.
func (r *ScriptRunner) Weaver() *Weaver {
	return r.weaver
}

// Step executes the next step, or counts down a pending wait.
func (r *ScriptRunner) Step() {
	if r.done {
		return
	}
	if r.waitCount > 0 {
		r.waitCount--
		return
	}
	if r.cursor >= len(r.steps) {
		r.done = true
		return
	}

	st := r.steps[r.cursor]
	r.cursor++

	switch st.Action {
	case "weave":
		r.weaver = r.target.Weave(Styles(st.Styles), Options{
			Delay:    fromMillis(st.Delay),
			Duration: fromMillis(st.Duration),
			Easing:   st.Easing,
		})
	case "style":
		r.target.Style(Styles(st.Styles))
	case "unravel":
		r.target.Unravel()
	case "wait":
		if st.Frames > 0 {
			r.waitCount = st.Frames - 1 // this frame counts as one
		}
	default:
		r.playback(st.Action)
	}

	if r.cursor >= len(r.steps) && r.waitCount == 0 {
		r.done = true
	}
}

func (r *ScriptRunner) playback(action string) {
	if r.weaver == nil {
		debugf("warning: %s before any weave", action)
		return
	}
	switch action {
	case "play":
		r.weaver.Play()
	case "pause":
		r.weaver.Pause()
	case "cancel":
		r.weaver.Cancel()
	case "finish":
		r.weaver.Finish()
	case "reverse":
		r.weaver.Reverse()
	}
}
