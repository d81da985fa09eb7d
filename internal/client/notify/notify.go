// Package notify is the transient-notification sink: the Go stand-in
// for one-line toast messages. Failures are reported here once and
// never propagate past the calling page.
package notify

import (
	"sync"

	"go.uber.org/zap"
)

// Notifier receives one-line user-visible messages.
type Notifier interface {
	Success(msg string)
	Error(msg string)
}

// Zap logs notifications through a structured logger.
type Zap struct {
	Log *zap.Logger
}

// NewZap wraps log in a Notifier.
func NewZap(log *zap.Logger) *Zap {
	return &Zap{Log: log}
}

func (z *Zap) Success(msg string) {
	z.Log.Info("notification", zap.String("kind", "success"), zap.String("message", msg))
}

func (z *Zap) Error(msg string) {
	z.Log.Warn("notification", zap.String("kind", "error"), zap.String("message", msg))
}

// Recorder collects notifications for assertions in tests.
type Recorder struct {
	mu        sync.Mutex
	Successes []string
	Errors    []string
}

func (r *Recorder) Success(msg string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Successes = append(r.Successes, msg)
}

func (r *Recorder) Error(msg string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Errors = append(r.Errors, msg)
}
