// Package fault reports failed consistency checks.
//
// Every check performed while decoding pages and records goes through a
// Reporter. A failure flushes the logger, runs the registered callback (used
// to tag what was being decoded) and then either panics (programming errors),
// returns a CorruptionError, or terminates the process, depending on the kind
// of failure and the reporter's policy.
package fault

import (
	"fmt"
	"os"
	"runtime"
	"sync/atomic"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// ErrCorrupt matches every CorruptionError.
var ErrCorrupt = errors.New("corrupt page")

// Callback runs after a failed check and before the failure is surfaced.
// It cannot change the outcome.
type Callback func()

// Policy selects what happens after a data corruption check fails.
type Policy int

const (
	// PolicyReturn surfaces corruption as a *CorruptionError.
	PolicyReturn Policy = iota
	// PolicyAbort terminates the process, like a failed assertion.
	PolicyAbort
)

// AbortExitCode is the status used when a reporter terminates the process.
const AbortExitCode = 134

func ParsePolicy(s string) (Policy, error) {
	switch s {
	case "", "error", "return":
		return PolicyReturn, nil
	case "abort":
		return PolicyAbort, nil
	}
	return PolicyReturn, errors.Errorf("unknown corruption policy %q", s)
}

func (p Policy) String() string {
	if p == PolicyAbort {
		return "abort"
	}
	return "error"
}

// CorruptionError describes page bytes that violate a structural invariant.
type CorruptionError struct {
	Msg string
}

func (e *CorruptionError) Error() string { return "corrupt page: " + e.Msg }

func (e *CorruptionError) Is(target error) bool { return target == ErrCorrupt }

// AssertionError is the panic value for a violated precondition.
type AssertionError struct {
	Expr string
	File string
	Line int
}

func (e *AssertionError) Error() string {
	return fmt.Sprintf("assertion failed: %s at %s:%d", e.Expr, e.File, e.Line)
}

type Reporter struct {
	cb     atomic.Pointer[Callback]
	log    *zap.Logger
	policy Policy
	exit   func(int)
}

type Option func(*Reporter)

func WithLogger(l *zap.Logger) Option {
	return func(r *Reporter) {
		if l != nil {
			r.log = l
		}
	}
}

func WithPolicy(p Policy) Option {
	return func(r *Reporter) { r.policy = p }
}

// WithExit replaces os.Exit for PolicyAbort.
func WithExit(exit func(int)) Option {
	return func(r *Reporter) {
		if exit != nil {
			r.exit = exit
		}
	}
}

func WithCallback(cb Callback) Option {
	return func(r *Reporter) { r.SetCallback(cb) }
}

func New(opts ...Option) *Reporter {
	r := &Reporter{log: zap.NewNop(), exit: os.Exit}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// SetCallback registers cb, replacing any previous callback. A nil cb clears it.
func (r *Reporter) SetCallback(cb Callback) {
	if cb == nil {
		r.cb.Store(nil)
		return
	}
	r.cb.Store(&cb)
}

func (r *Reporter) ResetCallback() { r.cb.Store(nil) }

// Callback returns the registered callback or nil.
func (r *Reporter) Callback() Callback {
	if p := r.cb.Load(); p != nil {
		return *p
	}
	return nil
}

func (r *Reporter) Logger() *zap.Logger { return r.log }

func (r *Reporter) Policy() Policy { return r.policy }

// Assert fails fast when cond is false. expr names the violated condition.
func (r *Reporter) Assert(cond bool, expr string) {
	if cond {
		return
	}
	r.fail(expr, 2)
}

// Fail reports an unconditional programming error.
func (r *Reporter) Fail(expr string) {
	r.fail(expr, 2)
}

func (r *Reporter) fail(expr string, skip int) {
	_, file, line, _ := runtime.Caller(skip)
	ae := &AssertionError{Expr: expr, File: file, Line: line}
	r.log.Error("assertion failed",
		zap.String("expr", expr),
		zap.String("file", file),
		zap.Int("line", line))
	r.notify()
	panic(ae)
}

// Corruptf reports page bytes that violate an invariant. Under PolicyReturn
// the returned error is a *CorruptionError; under PolicyAbort it does not
// return.
func (r *Reporter) Corruptf(format string, args ...interface{}) error {
	msg := fmt.Sprintf(format, args...)
	r.log.Error("page corruption detected", zap.String("check", msg))
	r.notify()
	if r.policy == PolicyAbort {
		r.exit(AbortExitCode)
	}
	return errors.WithStack(&CorruptionError{Msg: msg})
}

func (r *Reporter) notify() {
	_ = r.log.Sync()
	_ = os.Stderr.Sync()
	_ = os.Stdout.Sync()
	cb := r.Callback()
	if cb == nil {
		return
	}
	defer func() {
		if v := recover(); v != nil {
			r.log.Warn("fault callback panicked", zap.Any("value", v))
		}
	}()
	cb()
}
