package fieldfx

import (
	"fmt"
	"os"
	"time"
)

// stepStats holds per-step timing and population metrics.
// Only populated when Host.debug is true.
type stepStats struct {
	timerTime     time.Duration
	frameTime     time.Duration
	tweenTime     time.Duration
	timersFired   int
	framesFired   int
	liveParticles int
}

// debugLog prints timing and population stats to stderr.
func (h *Host) debugLog(stats stepStats) {
	if !h.debug {
		return
	}
	total := stats.timerTime + stats.frameTime + stats.tweenTime
	_, _ = fmt.Fprintf(os.Stderr,
		"[fieldfx] timers: %v (%d) | frames: %v (%d) | tweens: %v | total: %v\n",
		stats.timerTime, stats.timersFired, stats.frameTime, stats.framesFired, stats.tweenTime, total)
	_, _ = fmt.Fprintf(os.Stderr, "[fieldfx] live celebration nodes: %d\n", stats.liveParticles)
}

// debugf prints a prefixed diagnostic line when debug mode is on.
func (h *Host) debugf(format string, args ...any) {
	if h == nil || !h.debug {
		return
	}
	_, _ = fmt.Fprintf(os.Stderr, "[fieldfx] "+format+"\n", args...)
}

// globalDebug mirrors the most recently set Host debug flag so that node
// operations (which lack a Host pointer) can check it cheaply.
var globalDebug bool

// debugCheckDisposed panics with a descriptive message when a disposed node is
// used in a tree operation. In release mode callers skip this entirely.
func debugCheckDisposed(n *Node, op string) {
	if n.disposed {
		panic(fmt.Sprintf("fieldfx debug: %s on disposed node %q", op, n.Name))
	}
}
