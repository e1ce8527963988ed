package velvet

import (
	"errors"
	"fmt"
	"math"

	"github.com/tanema/gween/ease"
)

// ErrControlPoint is returned by CubicBezier when an x control point lies
// outside [0, 1].
var ErrControlPoint = errors.New("bezier x values must be in [0, 1] range")

// Easing maps a linear time fraction in [0, 1] to an eased progress fraction.
// Curves with y control points outside [0, 1] overshoot.
type Easing func(t float64) float64

// Solver tuning: precision against speed.
const (
	newtonIterations         = 4
	newtonMinSlope           = 0.001
	subdivisionPrecision     = 0.0000001
	subdivisionMaxIterations = 10

	splineTableSize = 11
	sampleStepSize  = 1.0 / (splineTableSize - 1.0)
)

// bezierCurve is a CSS cubic-bezier timing function with a precomputed
// sample table of x(t).
type bezierCurve struct {
	x1, y1, x2, y2 float64
	samples        [splineTableSize]float64
}

func coefA(a1, a2 float64) float64 { return 1.0 - 3.0*a2 + 3.0*a1 }
func coefB(a1, a2 float64) float64 { return 3.0*a2 - 6.0*a1 }
func coefC(a1 float64) float64     { return 3.0 * a1 }

// calcBezier returns x(t) given x1 and x2, or y(t) given y1 and y2.
func calcBezier(t, a1, a2 float64) float64 {
	return ((coefA(a1, a2)*t+coefB(a1, a2))*t + coefC(a1)) * t
}

// slope returns dx/dt given x1 and x2, or dy/dt given y1 and y2.
func slope(t, a1, a2 float64) float64 {
	return 3.0*coefA(a1, a2)*t*t + 2.0*coefB(a1, a2)*t + coefC(a1)
}

func (c *bezierCurve) binarySubdivide(x, a, b float64) float64 {
	var currentX, currentT float64
	for i := 0; ; {
		currentT = a + (b-a)*0.5
		currentX = calcBezier(currentT, c.x1, c.x2) - x
		if currentX > 0.0 {
			b = currentT
		} else {
			a = currentT
		}
		i++
		if math.Abs(currentX) <= subdivisionPrecision || i >= subdivisionMaxIterations {
			return currentT
		}
	}
}

func (c *bezierCurve) newtonRaphson(x, guess float64) float64 {
	for i := 0; i < newtonIterations; i++ {
		s := slope(guess, c.x1, c.x2)
		if s == 0.0 {
			return guess
		}
		guess -= (calcBezier(guess, c.x1, c.x2) - x) / s
	}
	return guess
}

// tForX inverts x(t) for the given x.
func (c *bezierCurve) tForX(x float64) float64 {
	intervalStart := 0.0
	current := 1
	last := splineTableSize - 1

	for ; current != last && c.samples[current] <= x; current++ {
		intervalStart += sampleStepSize
	}
	current--

	// Linear interpolation between the bracketing samples gives the initial guess.
	dist := (x - c.samples[current]) / (c.samples[current+1] - c.samples[current])
	guess := intervalStart + dist*sampleStepSize

	initialSlope := slope(guess, c.x1, c.x2)
	switch {
	case initialSlope >= newtonMinSlope:
		return c.newtonRaphson(x, guess)
	case initialSlope == 0.0:
		return guess
	}
	return c.binarySubdivide(x, intervalStart, intervalStart+sampleStepSize)
}

func (c *bezierCurve) ease(x float64) float64 {
	// The endpoints are exact regardless of rounding inside the solver.
	if x == 0 {
		return 0
	}
	if x == 1 {
		return 1
	}
	return calcBezier(c.tForX(x), c.y1, c.y2)
}

// CubicBezier builds the easing function for the cubic-bezier curve with
// control points (x1, y1) and (x2, y2). It returns an error wrapping
// ErrControlPoint if x1 or x2 is outside [0, 1].
func CubicBezier(x1, y1, x2, y2 float64) (Easing, error) {
	if !(x1 >= 0 && x1 <= 1 && x2 >= 0 && x2 <= 1) {
		return nil, fmt.Errorf("cubic-bezier(%g, %g, %g, %g): %w", x1, y1, x2, y2, ErrControlPoint)
	}
	if x1 == y1 && x2 == y2 {
		return func(t float64) float64 { return t }, nil
	}
	c := &bezierCurve{x1: x1, y1: y1, x2: x2, y2: y2}
	for i := range c.samples {
		c.samples[i] = calcBezier(float64(i)*sampleStepSize, x1, x2)
	}
	return c.ease, nil
}

// MustCubicBezier is like CubicBezier but panics on invalid control points.
func MustCubicBezier(x1, y1, x2, y2 float64) Easing {
	e, err := CubicBezier(x1, y1, x2, y2)
	if err != nil {
		panic(err)
	}
	return e
}

// Named easing presets matching the CSS keywords.
const (
	EaseName      = "ease"
	LinearName    = "linear"
	EaseInName    = "ease-in"
	EaseOutName   = "ease-out"
	EaseInOutName = "ease-in-out"
)

var presets = map[string]Easing{
	EaseName:      MustCubicBezier(0.25, 0.1, 0.25, 1),
	LinearName:    MustCubicBezier(0, 0, 1, 1),
	EaseInName:    MustCubicBezier(0.42, 0, 1, 1),
	EaseOutName:   MustCubicBezier(0, 0, 0.58, 1),
	EaseInOutName: MustCubicBezier(0.42, 0, 0.58, 1),
}

// EasingByName returns the preset easing registered under name.
func EasingByName(name string) (Easing, bool) {
	e, ok := presets[name]
	return e, ok
}

// resolveEasing returns the named preset, defaulting to linear for an empty
// or unknown name.
func resolveEasing(name string) Easing {
	if name == "" {
		return presets[LinearName]
	}
	e, ok := presets[name]
	if !ok {
		debugf("unknown easing %q, using linear", name)
		return presets[LinearName]
	}
	return e
}

// TweenFunc adapts e to gween's easing signature, where t runs over [0, d]
// and the result spans b to b+c.
func (e Easing) TweenFunc() ease.TweenFunc {
	return func(t, b, c, d float32) float32 {
		if d <= 0 {
			return b + c
		}
		return b + c*float32(e(float64(t/d)))
	}
}
