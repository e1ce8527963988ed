package velvet

import (
	"slices"
	"sort"
	"time"
)

// PlayState is the playback state of a Weaver or a timeline.
type PlayState uint8

const (
	Idle     PlayState = iota // cancelled, or reset by a pin
	Running                   // advancing every frame
	Paused                    // frozen until Play
	Finished                  // resting at an end of the span
	Invalid                   // unravelled weaver; every operation is a no-op
)

// String returns the lower-case state name.
func (s PlayState) String() string {
	switch s {
	case Idle:
		return "idle"
	case Running:
		return "running"
	case Paused:
		return "paused"
	case Finished:
		return "finished"
	case Invalid:
		return "invalid"
	}
	return "unknown"
}

// Options configures a weave. The zero value is a zero-length linear
// transition with no hooks.
type Options struct {
	Delay    time.Duration
	Duration time.Duration
	// Easing is one of "ease", "linear", "ease-in", "ease-out" and
	// "ease-in-out". Empty or unknown names mean linear.
	Easing string

	// OnCancel runs when the weaver is cancelled before finishing.
	OnCancel func(w *Weaver)
	// OnFinish runs one frame after the weaver finishes.
	OnFinish func(w *Weaver)
}

// Velvet animates the transform and opacity of a group of elements. It
// remembers the last settled values so each weave starts where the previous
// one stopped, pinning a running weave in place when interrupted.
type Velvet struct {
	elements []Element
	platform Platform
	engine   engine
	weaver   *Weaver

	// Target state: last settled values and the key order they were woven in.
	transformKeys []string
	transforms    map[string]float64
	opacityKeys   []string
	opacity       map[string]float64

	// layout and values describe the current weave's from/to vectors.
	layout styleLayout
	values [2][]float64

	unravelled bool
}

// New creates a controller for elements on the given platform. The engine is
// chosen once: the platform Animator when native animations are available,
// the frame-driven fallback otherwise.
func New(p Platform, elements ...Element) *Velvet {
	p = p.withDefaults()
	v := &Velvet{
		elements:   slices.Clone(elements),
		platform:   p,
		transforms: map[string]float64{},
		opacity:    map[string]float64{},
	}
	if p.NativeAnimations {
		v.engine = nativeEngine{animator: p.Animator, frames: p.Frames}
	} else {
		v.engine = fallbackEngine{seq: NewSequencer(p.Frames), willChange: p.WillChange}
	}
	return v
}

// Weave starts a transition of the given transform components and opacity.
// Other keys are ignored. Any running weave is pinned first, and the new one
// starts from the pinned values. The returned weaver is the only handle on
// the transition.
func (v *Velvet) Weave(styles Styles, opts Options) *Weaver {
	if v.unravelled {
		debugf("warning: weave on unravelled velvet")
		return newInvalidWeaver()
	}
	v.pin()

	if v.engine.hinted() {
		v.setAll("will-change", v.platform.TransformProperty+", opacity")
	}

	transforms, opacity, _ := classify(styles, false)
	v.mergeKeys(transforms, opacity)
	from, to := v.generateValues(transforms, opacity)

	kf := Keyframes{From: from, To: to, layout: v.layout}
	v.weaver = v.engine.weave(v, kf, opts)
	return v.weaver
}

// Style applies styles immediately. Transform components and opacity are
// merged with the settled state; any other key is written through verbatim.
// Any running weave is pinned first.
func (v *Velvet) Style(styles Styles) *Velvet {
	if v.unravelled {
		debugf("warning: style on unravelled velvet")
		return v
	}
	v.pin()

	transforms, opacity, css := classify(styles, true)
	v.mergeKeys(transforms, opacity)
	_, to := v.generateValues(transforms, opacity)

	transformValue := formatTransform(v.transformKeys, to, v.layout.gpu)
	opacityValue := formatOpacity(v.opacityKeys, to)

	keys := make([]string, 0, len(css))
	for key := range css {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, el := range v.elements {
		for _, key := range keys {
			v.platform.Sink.SetStyle(el, key, css[key])
		}
		v.platform.Sink.SetStyle(el, v.platform.TransformProperty, transformValue)
		v.platform.Sink.SetStyle(el, opacityKey, opacityValue)
	}

	v.settle(to)
	return v
}

// Unravel pins any running weave and releases the elements. The controller
// must not be used afterwards; further calls are no-ops.
func (v *Velvet) Unravel() {
	if v.unravelled {
		return
	}
	v.pin()
	if v.engine.hinted() {
		v.setAll("will-change", "")
	}
	v.elements = nil
	v.transformKeys = nil
	v.transforms = map[string]float64{}
	v.opacityKeys = nil
	v.opacity = map[string]float64{}
	v.layout = styleLayout{}
	v.values = [2][]float64{}
	v.unravelled = true
}

// pin freezes the current weave at its instantaneous value, records that
// value as the settled state, shows it, and retires the weaver.
func (v *Velvet) pin() {
	w := v.weaver
	if w == nil {
		return
	}
	if w.state != Idle && w.state != Invalid {
		if w.state == Running {
			w.Pause()
		}
		progress := w.Progress()
		values := lerp(v.values[0], v.values[1], progress, nil)
		v.settle(values)
		v.engine.pin(v, w, values)
		debugf("pinned weaver %d at progress %g", w.id, progress)
	}
	w.unravel()
	v.weaver = nil
}

// mergeKeys folds the incoming keys into the key order and rebuilds the
// layout.
func (v *Velvet) mergeKeys(transforms, opacity map[string]float64) {
	v.transformKeys = mergeKeys(v.transformKeys, orderedKeys(transforms))
	v.opacityKeys = mergeKeys(v.opacityKeys, orderedKeys(opacity))
	v.layout = styleLayout{
		transformKeys:     v.transformKeys,
		opacityKeys:       v.opacityKeys,
		transformProperty: v.platform.TransformProperty,
		gpu:               v.platform.useGPUHint(),
	}
}

// generateValues builds the from vector out of the settled state (identity
// for keys never set) and the to vector out of the request, falling back to
// from for keys the request leaves alone.
func (v *Velvet) generateValues(transforms, opacity map[string]float64) (from, to []float64) {
	from = append(
		vectorize(v.transformKeys, v.transforms, transformDefaults),
		vectorize(v.opacityKeys, v.opacity, opacityDefaults)...,
	)
	settled := make(map[string]float64, len(from))
	for i, key := range v.transformKeys {
		settled[key] = from[i]
	}
	if len(v.opacityKeys) > 0 {
		settled[opacityKey] = from[len(from)-1]
	}
	to = append(
		vectorize(v.transformKeys, transforms, settled),
		vectorize(v.opacityKeys, opacity, settled)...,
	)
	v.values = [2][]float64{from, to}
	return from, to
}

// settle records values (laid out by the current keys) as the target state.
func (v *Velvet) settle(values []float64) {
	transforms := make(map[string]float64, len(v.transformKeys))
	for i, key := range v.transformKeys {
		transforms[key] = values[i]
	}
	v.transforms = cacheStyle(v.transformKeys, transforms, v.transforms)

	opacity := map[string]float64{}
	if len(v.opacityKeys) > 0 {
		opacity[opacityKey] = values[len(values)-1]
	}
	v.opacity = cacheStyle(v.opacityKeys, opacity, v.opacity)
}

// apply writes decls to every element.
func (v *Velvet) apply(decls []Declaration) {
	for _, el := range v.elements {
		for _, d := range decls {
			v.platform.Sink.SetStyle(el, d.Property, d.Value)
		}
	}
}

func (v *Velvet) setAll(property, value string) {
	for _, el := range v.elements {
		v.platform.Sink.SetStyle(el, property, value)
	}
}
