package lifecycle

import (
	"context"
	"time"
)

// BootFunc starts a service and returns the value its ShutdownFunc will
// later receive. The context is the orchestrator's cancellation signal: it
// is cancelled when shutdown begins, and a slow boot may watch it to abort
// its own work. The orchestrator is passed so a service can look up the
// boot results of services registered before it.
type BootFunc func(ctx context.Context, o *Orchestrator) (any, error)

// ShutdownFunc stops a service. The result argument is the value returned
// by the service's BootFunc. The context carries the global shutdown
// deadline.
type ShutdownFunc func(ctx context.Context, result any) error

// ServiceRegistration describes one named unit of work managed by the
// orchestrator. Registrations are immutable once staged.
type ServiceRegistration struct {
	// Name identifies the service; it must be unique within one boot cycle
	Name string

	// Boot starts the service. A nil Boot succeeds immediately with a nil result.
	Boot BootFunc

	// Shutdown stops the service. A nil Shutdown succeeds immediately.
	Shutdown ShutdownFunc

	// Timeout bounds each of the service's boot and shutdown steps.
	// Zero or negative means DefaultServiceTimeout.
	Timeout time.Duration
}

// normalize fills in defaults so the runner never has to nil-check
func (r ServiceRegistration) normalize() ServiceRegistration {
	if r.Timeout <= 0 {
		r.Timeout = DefaultServiceTimeout
	}
	if r.Boot == nil {
		r.Boot = func(context.Context, *Orchestrator) (any, error) { return nil, nil }
	}
	if r.Shutdown == nil {
		r.Shutdown = func(context.Context, any) error { return nil }
	}
	return r
}
