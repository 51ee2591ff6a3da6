package fault

import (
	"sync/atomic"

	"go.uber.org/zap"
)

var std atomic.Pointer[Reporter]

func init() {
	std.Store(New())
}

// Default returns the process-wide reporter used by decoders created without
// one.
func Default() *Reporter { return std.Load() }

// SetDefault replaces the process-wide reporter. A nil r restores a fresh one.
func SetDefault(r *Reporter) {
	if r == nil {
		r = New()
	}
	std.Store(r)
}

// SetCallback registers cb on the process-wide reporter.
func SetCallback(cb Callback) { Default().SetCallback(cb) }

// ResetCallback clears the process-wide reporter's callback.
func ResetCallback() { Default().ResetCallback() }

// Or returns r, or the process-wide reporter when r is nil.
func Or(r *Reporter) *Reporter {
	if r != nil {
		return r
	}
	return Default()
}

// Decode contexts attached to failures by TagCallback.
const (
	ContextLeafSegment = "leaf segment"
	ContextSysTables   = "system tables"
)

// TagCallback returns a callback that records which stage failed.
func TagCallback(log *zap.Logger, context string) Callback {
	if log == nil {
		log = zap.NewNop()
	}
	return func() {
		log.Error("failed to parse "+context, zap.String("context", context))
	}
}
