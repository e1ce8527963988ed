package velvet

import (
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// Styles maps style names to values. Transform component names and
// "opacity" take numbers (any numeric kind, or a numeric string); other names
// are passed through verbatim by Velvet.Style and ignored by Velvet.Weave.
type Styles map[string]any

// Declaration is a single property/value style write.
type Declaration struct {
	Property string
	Value    string
}

// Transform component names in canonical order.
var transformKeys = [...]string{
	"translateX", "translateY", "translateZ",
	"scale", "scaleX", "scaleY", "scaleZ",
	"rotate", "rotateX", "rotateY", "rotateZ",
	"skewX", "skewY",
	"perspective",
}

var transformUnits = [...]string{
	"px", "px", "px",
	"", "", "", "",
	"deg", "deg", "deg", "deg",
	"deg", "deg",
	"px",
}

// transformIdentity holds the identity value of each component.
var transformIdentity = [...]float64{0, 0, 0, 1, 1, 1, 1, 0, 0, 0, 0, 0, 0, 0}

const opacityKey = "opacity"

var (
	transformIndex    = map[string]int{}
	transformDefaults = map[string]float64{}
	opacityDefaults   = map[string]float64{opacityKey: 1}
)

func init() {
	for i, key := range transformKeys {
		transformIndex[key] = i
		transformDefaults[key] = transformIdentity[i]
	}
}

// IsTransformKey reports whether name is an animatable transform component.
func IsTransformKey(name string) bool {
	_, ok := transformIndex[name]
	return ok
}

// classify splits styles into transform components, opacity and, when
// passthrough is set, everything else rendered as strings. Animated keys with
// non-numeric values are dropped.
func classify(styles Styles, passthrough bool) (transforms, opacity map[string]float64, css map[string]string) {
	transforms = map[string]float64{}
	opacity = map[string]float64{}
	if passthrough {
		css = map[string]string{}
	}
	for key, raw := range styles {
		switch {
		case IsTransformKey(key):
			if v, ok := number(raw); ok {
				transforms[key] = v
			} else {
				debugf("warning: dropping non-numeric %s value %v", key, raw)
			}
		case key == opacityKey:
			if v, ok := number(raw); ok {
				opacity[key] = v
			} else {
				debugf("warning: dropping non-numeric opacity value %v", raw)
			}
		case passthrough:
			css[key] = fmt.Sprint(raw)
		}
	}
	return transforms, opacity, css
}

// number converts a style value to float64.
func number(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		return f, err == nil
	}
	return 0, false
}

// orderedKeys lists the keys of m in canonical order: transform components
// in table order, then opacity.
func orderedKeys(m map[string]float64) []string {
	keys := make([]string, 0, len(m))
	for _, key := range transformKeys {
		if _, ok := m[key]; ok {
			keys = append(keys, key)
		}
	}
	if _, ok := m[opacityKey]; ok {
		keys = append(keys, opacityKey)
	}
	return keys
}

// mergeKeys returns cached followed by the keys of incoming not already in
// cached, in incoming's order.
func mergeKeys(cached, incoming []string) []string {
	keys := make([]string, len(cached), len(cached)+len(incoming))
	copy(keys, cached)
	for _, key := range incoming {
		if !slices.Contains(keys, key) {
			keys = append(keys, key)
		}
	}
	return keys
}

// vectorize reads keys from source, falling back to fallback for keys source
// lacks.
func vectorize(keys []string, source, fallback map[string]float64) []float64 {
	values := make([]float64, len(keys))
	for i, key := range keys {
		if v, ok := source[key]; ok {
			values[i] = v
		} else {
			values[i] = fallback[key]
		}
	}
	return values
}

// lerp interpolates from toward to by progress element-wise, writing into dst
// when it has room.
func lerp(from, to []float64, progress float64, dst []float64) []float64 {
	if cap(dst) < len(from) {
		dst = make([]float64, len(from))
	}
	dst = dst[:len(from)]
	for i, v := range from {
		dst[i] = v + (to[i]-v)*progress
	}
	return dst
}

// cacheStyle snapshots keys, taking each value from primary when present and
// from secondary otherwise.
func cacheStyle(keys []string, primary, secondary map[string]float64) map[string]float64 {
	cache := make(map[string]float64, len(keys))
	for _, key := range keys {
		if v, ok := primary[key]; ok {
			cache[key] = v
		} else if v, ok := secondary[key]; ok {
			cache[key] = v
		}
	}
	return cache
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// formatTransform renders the leading len(keys) values as a transform
// function list, e.g. "translateX(10px) rotate(45deg)". With gpu set a
// non-empty list gets a trailing translateZ(0).
func formatTransform(keys []string, values []float64, gpu bool) string {
	if len(keys) == 0 {
		return ""
	}
	var b strings.Builder
	for i, key := range keys {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(key)
		b.WriteByte('(')
		b.WriteString(formatNumber(values[i]))
		b.WriteString(transformUnits[transformIndex[key]])
		b.WriteByte(')')
	}
	if gpu {
		b.WriteString(" translateZ(0)")
	}
	return b.String()
}

// formatOpacity renders the opacity carried in the last value, or "" when
// opacity is not part of the vector.
func formatOpacity(keys []string, values []float64) string {
	if len(keys) == 0 || len(values) == 0 {
		return ""
	}
	return formatNumber(values[len(values)-1])
}

// ErrTransformSyntax is returned by ParseTransform for a malformed function.
var ErrTransformSyntax = errors.New("malformed transform function")

// ParseTransform decodes a transform list written by velvet, such as
// "translateX(10px) rotate(45deg)", into component values with units
// dropped. Hosts without a style engine use it in their StyleSink. An empty
// value yields an empty map.
func ParseTransform(value string) (map[string]float64, error) {
	out := map[string]float64{}
	for _, fn := range strings.Fields(value) {
		open := strings.IndexByte(fn, '(')
		if open <= 0 || !strings.HasSuffix(fn, ")") {
			return nil, fmt.Errorf("parse transform %q: %w", fn, ErrTransformSyntax)
		}
		arg := fn[open+1 : len(fn)-1]
		arg = strings.TrimSuffix(strings.TrimSuffix(arg, "px"), "deg")
		v, err := strconv.ParseFloat(arg, 64)
		if err != nil {
			return nil, fmt.Errorf("parse transform %q: %w", fn, ErrTransformSyntax)
		}
		out[fn[:open]] = v
	}
	return out, nil
}

// styleLayout maps a value vector (transform components, then opacity) onto
// style declarations.
type styleLayout struct {
	transformKeys     []string
	opacityKeys       []string
	transformProperty string
	gpu               bool
}

// declarations renders values, skipping families absent from the layout.
func (l styleLayout) declarations(values []float64) []Declaration {
	decls := make([]Declaration, 0, 2)
	if len(l.transformKeys) > 0 {
		decls = append(decls, Declaration{l.transformProperty, formatTransform(l.transformKeys, values, l.gpu)})
	}
	if len(l.opacityKeys) > 0 {
		decls = append(decls, Declaration{opacityKey, formatOpacity(l.opacityKeys, values)})
	}
	return decls
}

// Keyframes is a two-keyframe effect over a value vector.
type Keyframes struct {
	From, To []float64
	layout   styleLayout
}

// At renders the declarations for the given progress; At(0) and At(1) are
// the start and end keyframes.
func (k Keyframes) At(progress float64) []Declaration {
	return k.layout.declarations(lerp(k.From, k.To, progress, nil))
}
