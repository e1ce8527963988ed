// Package velvet is a tweening engine for element transforms and opacity.
//
// Given target style values and timing (duration, delay, easing) it drives an
// element's style from its current state to the target over time, and hands
// back a [Weaver] with VCR-style controls: play, pause, cancel, finish and
// reverse.
//
// # Quick start
//
// Describe the host with a [Platform] and bind a controller to one or more
// elements:
//
//	v := velvet.New(platform, button)
//	w := v.Weave(velvet.Styles{"translateX": 200, "opacity": 0.5}, velvet.Options{
//		Duration: 400 * time.Millisecond,
//		Easing:   "ease-out",
//		OnFinish: func(w *velvet.Weaver) { w.Reverse() },
//	})
//
// Weaving again while w is running pins the element where it is and starts
// the new transition from there. [Velvet.Style] applies values immediately.
//
// # Engines
//
// Two engines share one playback contract. When the platform reports native
// animations, each element is handed to the platform's [Animator] (one
// timeline per element, grouped under one weaver). Otherwise a fallback
// [Animation] interpolates the values itself on a [Frames] scheduler and
// writes every frame through the platform's [StyleSink]. The engine is picked
// once, when the controller is created.
//
// # Hosts
//
// [Stage] hosts velvet inside an [Ebitengine] game: call [Stage.Update] from
// the game's Update and use [Stage.Platform]. Its native animator is
// [TweenAnimator], built on [gween]. Outside a game loop, [DefaultFrames]
// paces itself at 60 Hz on [DefaultLoop], whose Run method must own the
// goroutine that uses velvet.
//
// # Easing
//
// Easing curves are CSS cubic-bezier functions; see [CubicBezier] and the
// presets "ease", "linear", "ease-in", "ease-out" and "ease-in-out".
//
// [Ebitengine]: https://ebitengine.org
// [gween]: https://github.com/tanema/gween
package velvet
