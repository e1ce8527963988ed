package velvet

import (
	"fmt"
	"os"
)

// debugMode gates the diagnostics below. velvet is single-threaded, so a
// plain bool is enough.
var debugMode bool

// SetDebugMode enables or disables debug mode. When enabled, misuse that
// velvet otherwise absorbs silently (playback calls on an unravelled weaver,
// weaves on an unravelled controller, unknown easing names) and pin results
// are reported on stderr.
func SetDebugMode(enabled bool) {
	debugMode = enabled
}

// debugf prints a diagnostic line to stderr when debug mode is on.
func debugf(format string, args ...any) {
	if !debugMode {
		return
	}
	_, _ = fmt.Fprintf(os.Stderr, "[velvet] "+format+"\n", args...)
}

// debugInvalid reports a playback operation on an invalid weaver.
func debugInvalid(w *Weaver, op string) {
	if w.state == Invalid {
		debugf("warning: %s on unravelled weaver %d", op, w.id)
	}
}
