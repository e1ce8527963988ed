package velvet

import "strings"

// Element is an opaque handle to a styled target. velvet never inspects it;
// it only passes it back to the StyleSink and the Animator.
type Element any

// StyleSink applies style writes to elements. An empty value clears the
// property.
type StyleSink interface {
	SetStyle(el Element, property, value string)
}

// StyleSinkFunc adapts a function to StyleSink.
type StyleSinkFunc func(el Element, property, value string)

// SetStyle calls f(el, property, value).
func (f StyleSinkFunc) SetStyle(el Element, property, value string) {
	f(el, property, value)
}

type discardSink struct{}

func (discardSink) SetStyle(Element, string, string) {}

// Platform describes the host environment: what it supports and the
// collaborators velvet writes through.
type Platform struct {
	// NativeAnimations reports a native animation facility. It only takes
	// effect when Animator is set.
	NativeAnimations bool
	// Transform3D reports support for 3-D transform functions.
	Transform3D bool
	// WillChange reports support for the will-change compositing hint.
	WillChange bool

	// TransformProperty is the (possibly vendor-prefixed) name of the
	// transform property. Defaults to "transform".
	TransformProperty string

	Sink     StyleSink
	Animator Animator
	// Frames schedules the fallback engine. Defaults to DefaultFrames.
	Frames *Frames
}

// withDefaults returns a copy of p with empty fields filled in.
func (p Platform) withDefaults() Platform {
	if p.TransformProperty == "" {
		p.TransformProperty = "transform"
	}
	if p.Sink == nil {
		p.Sink = discardSink{}
	}
	if p.Frames == nil {
		p.Frames = DefaultFrames()
	}
	if p.NativeAnimations && p.Animator == nil {
		debugf("warning: native animations reported without an Animator, using the fallback engine")
		p.NativeAnimations = false
	}
	return p
}

// useGPUHint reports whether transform strings get a no-op translateZ(0) to
// force compositing.
func (p Platform) useGPUHint() bool {
	return !p.NativeAnimations && !p.WillChange && p.Transform3D
}

var vendorPrefixes = [...]string{"webkit", "moz", "ms", "o"}

// ResolvePrefix returns the first of name, webkitName, mozName, msName and
// oName that has reports as present, or "" when none is.
func ResolvePrefix(has func(name string) bool, name string) string {
	if name == "" {
		return ""
	}
	if has(name) {
		return name
	}
	capitalized := strings.ToUpper(name[:1]) + name[1:]
	for _, prefix := range vendorPrefixes {
		if candidate := prefix + capitalized; has(candidate) {
			return candidate
		}
	}
	return ""
}

// LookupFrameFunc resolves the host's per-frame facility, trying
// requestAnimationFrame and then its vendor-prefixed names. It returns nil
// when the host has none, which makes NewFrames fall back to its timer.
func LookupFrameFunc(lookup func(name string) (FrameFunc, bool)) FrameFunc {
	name := ResolvePrefix(func(n string) bool {
		_, ok := lookup(n)
		return ok
	}, "requestAnimationFrame")
	if name == "" {
		return nil
	}
	fn, _ := lookup(name)
	return fn
}
