// Package lifecycle orchestrates the boot and shutdown of a registered
// collection of named, independent services with deterministic ordering,
// per-service and global timeouts, and aggregated error reporting.
//
// The core type is the Orchestrator. Services are registered before boot,
// booted in registration order, and shut down in the exact reverse of their
// boot-completion order:
//
//	o := lifecycle.New()
//
//	o.RegisterService(lifecycle.ServiceRegistration{
//	    Name: "db",
//	    Boot: func(ctx context.Context, o *lifecycle.Orchestrator) (any, error) {
//	        return openDatabase(ctx)
//	    },
//	    Shutdown: func(ctx context.Context, result any) error {
//	        return result.(*sql.DB).Close()
//	    },
//	})
//
//	o.Boot(context.Background())
//	// ... serve ...
//	o.Shutdown(context.Background())
//
// # Failure Handling
//
// Boot and Shutdown never report lifecycle failures through their return
// value. Every failed step is wrapped in a *ServiceError, delivered through
// the event stream, and collected into the *AggregateError attached to the
// pass-end event. A failed boot automatically triggers a full shutdown of
// the services that had already booted, so a failed boot never leaves
// partially-booted services running unmanaged.
//
// # Events
//
// The orchestrator emits a fixed set of events (see EventKind). At most one
// handler is registered per event kind; registering again replaces the
// previous handler. Handler panics are swallowed so observability can never
// destabilize the lifecycle. The Observe helper composes multiple EventSink
// consumers on top of the single-handler contract; LogSink, MetricsSink and
// ReadyFile are ready-made sinks.
//
// # Cancellation
//
// Starting a shutdown cancels the orchestrator's context exactly once.
// Boot callables receive that context and may watch it to abort their own
// work early; the orchestrator never forcibly stops a slow callable - on
// timeout it stops waiting and proceeds, and a late result is discarded.
//
// # Triggers
//
// The signal and control-file triggers (ShutdownOnSignal, ShutdownOnFile)
// are included because most deployments wire shutdown to a signal or a
// supervisor-touched file, and having a tested implementation prevents
// users from reimplementing the same patterns. They remain optional - the
// Orchestrator is fully usable without them.
package lifecycle
