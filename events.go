package lifecycle

// EventKind identifies one of the fixed lifecycle events
type EventKind int

const (
	// EventBootStarted is emitted once when the boot pass begins
	EventBootStarted EventKind = iota
	// EventBootServiceStarted is emitted before each service's boot step
	EventBootServiceStarted
	// EventBootServiceEnded is emitted after each service's boot step,
	// carrying the wrapped error if the step failed
	EventBootServiceEnded
	// EventBootEnded is emitted once when the boot pass ends, carrying the
	// aggregate error if any step failed
	EventBootEnded
	// EventShutdownStarted is emitted once when the shutdown pass begins
	EventShutdownStarted
	// EventShutdownServiceStarted is emitted before each service's shutdown step
	EventShutdownServiceStarted
	// EventShutdownServiceEnded is emitted after each service's shutdown step
	EventShutdownServiceEnded
	// EventShutdownEnded is emitted once when the shutdown pass ends
	EventShutdownEnded

	// eventKindCount is a sentinel bounding the handler table
	eventKindCount
)

// Event name string constants
const (
	eventBootStartedStr            = "bootStarted"
	eventBootServiceStartedStr     = "bootServiceStarted"
	eventBootServiceEndedStr       = "bootServiceEnded"
	eventBootEndedStr              = "bootEnded"
	eventShutdownStartedStr        = "shutdownStarted"
	eventShutdownServiceStartedStr = "shutdownServiceStarted"
	eventShutdownServiceEndedStr   = "shutdownServiceEnded"
	eventShutdownEndedStr          = "shutdownEnded"
)

// String returns the canonical event name
func (k EventKind) String() string {
	switch k {
	case EventBootStarted:
		return eventBootStartedStr
	case EventBootServiceStarted:
		return eventBootServiceStartedStr
	case EventBootServiceEnded:
		return eventBootServiceEndedStr
	case EventBootEnded:
		return eventBootEndedStr
	case EventShutdownStarted:
		return eventShutdownStartedStr
	case EventShutdownServiceStarted:
		return eventShutdownServiceStartedStr
	case EventShutdownServiceEnded:
		return eventShutdownServiceEndedStr
	case EventShutdownEnded:
		return eventShutdownEndedStr
	default:
		return "unknown"
	}
}

// eventStarted returns the pass-start event kind for a mode
func eventStarted(m Mode) EventKind {
	if m == ModeShutdown {
		return EventShutdownStarted
	}
	return EventBootStarted
}

// eventServiceStarted returns the step-start event kind for a mode
func eventServiceStarted(m Mode) EventKind {
	if m == ModeShutdown {
		return EventShutdownServiceStarted
	}
	return EventBootServiceStarted
}

// eventServiceEnded returns the step-end event kind for a mode
func eventServiceEnded(m Mode) EventKind {
	if m == ModeShutdown {
		return EventShutdownServiceEnded
	}
	return EventBootServiceEnded
}

// eventEnded returns the pass-end event kind for a mode
func eventEnded(m Mode) EventKind {
	if m == ModeShutdown {
		return EventShutdownEnded
	}
	return EventBootEnded
}

// Event carries the payload delivered to the handler registered for its kind
type Event struct {
	// Kind identifies which lifecycle event this is
	Kind EventKind
	// Mode is the pass the event belongs to
	Mode Mode
	// Service is the service name for per-service events, empty otherwise
	Service string
	// Err is the *ServiceError for a failed step event, or the
	// *AggregateError for a pass-end event with failures
	Err error
}

// Handler consumes a single lifecycle event. Handlers run synchronously;
// the runner does not proceed until the handler returns. A panicking
// handler is swallowed.
type Handler func(Event)

// On registers handler for the given event kind, replacing any previous
// handler for that kind. Each kind holds at most one handler; there is no
// fan-out. Passing a nil handler removes the registration. Unknown kinds
// are ignored.
func (o *Orchestrator) On(kind EventKind, handler Handler) {
	if kind < 0 || kind >= eventKindCount {
		return
	}
	o.mu.Lock()
	defer o.mu.Unlock()
	o.handlers[kind] = handler
}

// emit delivers ev to the registered handler, if any. Handler panics are
// swallowed so observability can never destabilize the lifecycle.
func (o *Orchestrator) emit(ev Event) {
	o.mu.Lock()
	handler := o.handlers[ev.Kind]
	o.mu.Unlock()

	if handler == nil {
		return
	}

	defer func() {
		_ = recover()
	}()
	handler(ev)
}
