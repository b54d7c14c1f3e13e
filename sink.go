package lifecycle

// EventSink consumes the full lifecycle event stream. Implementations must
// not block for long: the runner waits for event delivery before moving on
// to the next step.
type EventSink interface {
	LifecycleEvent(Event)
}

// Observe installs one handler per event kind that forwards every event to
// the given sinks in order. It replaces every previously registered
// handler: the orchestrator itself keeps its single-handler-per-event
// contract, and fan-out happens here on the caller's side.
func Observe(o *Orchestrator, sinks ...EventSink) {
	forward := func(ev Event) {
		for _, sink := range sinks {
			sink.LifecycleEvent(ev)
		}
	}
	for kind := EventKind(0); kind < eventKindCount; kind++ {
		o.On(kind, forward)
	}
}
