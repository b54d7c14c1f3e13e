package lifecycle

import (
	"context"
	"sync"
	"time"
)

// Orchestrator drives the boot and shutdown of registered services. It
// boots services in registration order and shuts them down in the exact
// reverse of their boot-completion order. Boot and Shutdown each execute
// at most once per instance; a fresh instance is required to boot again.
type Orchestrator struct {
	// BootTimeout is the global deadline for the entire boot pass
	BootTimeout time.Duration

	// ShutdownTimeout is the global deadline for the entire shutdown pass
	ShutdownTimeout time.Duration

	mu       sync.Mutex
	staged   []ServiceRegistration // registration order
	active   []ServiceRegistration // boot-completion order
	results  map[string]any
	handlers [eventKindCount]Handler
	booted   bool
	bootErr  error
	stopErr  error

	// cancelCtx is the one-shot cancellation signal, cancelled when
	// shutdown begins
	cancelCtx context.Context
	cancel    context.CancelFunc

	bootOnce     sync.Once
	bootRunning  bool          // set before the boot pass goroutine starts
	bootLoopDone chan struct{} // closed when the boot pass loop has finished
	bootDone     chan struct{} // closed when Boot (incl. auto shutdown) settles

	stopOnce sync.Once
	stopDone chan struct{} // closed when Shutdown settles
}

// Option configures an Orchestrator
type Option func(*Orchestrator)

// WithBootTimeout sets the global deadline for the entire boot pass
func WithBootTimeout(d time.Duration) Option {
	return func(o *Orchestrator) {
		o.BootTimeout = d
	}
}

// WithShutdownTimeout sets the global deadline for the entire shutdown pass
func WithShutdownTimeout(d time.Duration) Option {
	return func(o *Orchestrator) {
		o.ShutdownTimeout = d
	}
}

// New creates an Orchestrator with default timeouts and applies any
// provided options.
func New(opts ...Option) *Orchestrator {
	o := &Orchestrator{
		BootTimeout:     DefaultBootTimeout,
		ShutdownTimeout: DefaultShutdownTimeout,
		results:         make(map[string]any),
		bootLoopDone:    make(chan struct{}),
		bootDone:        make(chan struct{}),
		stopDone:        make(chan struct{}),
	}
	o.cancelCtx, o.cancel = context.WithCancel(context.Background())

	for _, opt := range opts {
		opt(o)
	}

	if o.BootTimeout <= 0 {
		o.BootTimeout = DefaultBootTimeout
	}
	if o.ShutdownTimeout <= 0 {
		o.ShutdownTimeout = DefaultShutdownTimeout
	}

	return o
}

// RegisterService stages a service for the boot pass. The registration's
// timeout is normalized to DefaultServiceTimeout if absent. Once shutdown
// has begun the registration is silently dropped.
func (o *Orchestrator) RegisterService(reg ServiceRegistration) {
	if o.Cancelled() {
		return
	}
	o.mu.Lock()
	defer o.mu.Unlock()
	o.staged = append(o.staged, reg.normalize())
}

// GetService returns the stored boot result for name. The second return is
// false if the service has not (yet) booted or has already been shut down.
func (o *Orchestrator) GetService(name string) (any, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	result, ok := o.results[name]
	return result, ok
}

// Booted reports whether the most recent completed pass left every service
// running: true after a fully successful boot, false before boot, after any
// boot failure, and after shutdown.
func (o *Orchestrator) Booted() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.booted
}

// Stopping returns a channel that is closed when shutdown begins. In-flight
// boot logic may watch it to abort its own work early.
func (o *Orchestrator) Stopping() <-chan struct{} {
	return o.cancelCtx.Done()
}

// Cancelled reports whether shutdown has begun
func (o *Orchestrator) Cancelled() bool {
	select {
	case <-o.cancelCtx.Done():
		return true
	default:
		return false
	}
}

// BootErr returns the aggregate error from the boot pass, or nil if boot
// has not finished or every step succeeded.
func (o *Orchestrator) BootErr() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.bootErr
}

// ShutdownErr returns the aggregate error from the shutdown pass, or nil if
// shutdown has not finished or every step succeeded.
func (o *Orchestrator) ShutdownErr() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.stopErr
}

// Boot runs the boot pass over the staged registrations. It blocks until
// the pass - and, after a boot failure, the automatically triggered
// shutdown - fully settles, or until ctx is cancelled.
//
// Lifecycle failures never propagate through the return value: the only
// possible error is ctx.Err() when the caller stopped waiting, in which
// case the pass keeps running in the background. Concurrent callers share
// the single in-flight execution; a second call never starts a second pass.
func (o *Orchestrator) Boot(ctx context.Context) error {
	o.bootOnce.Do(func() {
		o.mu.Lock()
		o.bootRunning = true
		o.mu.Unlock()
		go func() {
			defer close(o.bootDone)
			o.runBoot()
		}()
	})

	select {
	case <-o.bootDone:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Shutdown runs the shutdown pass over the active services in reverse
// boot-completion order. It blocks until the pass fully settles, or until
// ctx is cancelled.
//
// As with Boot, lifecycle failures never propagate through the return
// value; the only possible error is ctx.Err() when the caller stopped
// waiting. Concurrent callers share the single in-flight execution.
func (o *Orchestrator) Shutdown(ctx context.Context) error {
	o.startShutdown()

	select {
	case <-o.stopDone:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// startShutdown launches the shutdown pass exactly once
func (o *Orchestrator) startShutdown() {
	o.stopOnce.Do(func() {
		go func() {
			defer close(o.stopDone)
			o.runShutdown()
		}()
	})
}
