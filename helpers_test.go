package lifecycle

import (
	"context"
	"sync"
	"time"
)

// eventRecorder captures the full event stream for assertions
type eventRecorder struct {
	mu     sync.Mutex
	events []Event
}

// install registers the recorder for every event kind
func (r *eventRecorder) install(o *Orchestrator) {
	for kind := EventKind(0); kind < eventKindCount; kind++ {
		o.On(kind, r.record)
	}
}

func (r *eventRecorder) record(ev Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
}

func (r *eventRecorder) all() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Event, len(r.events))
	copy(out, r.events)
	return out
}

// count returns how many recorded events have the given kind
func (r *eventRecorder) count(kind EventKind) int {
	n := 0
	for _, ev := range r.all() {
		if ev.Kind == kind {
			n++
		}
	}
	return n
}

// find returns the first recorded event of the given kind
func (r *eventRecorder) find(kind EventKind) (Event, bool) {
	for _, ev := range r.all() {
		if ev.Kind == kind {
			return ev, true
		}
	}
	return Event{}, false
}

// instantService registers a service whose boot and shutdown succeed
// immediately, appending to the shared order slices.
func instantService(o *Orchestrator, name string, bootOrder, stopOrder *[]string, mu *sync.Mutex) {
	o.RegisterService(ServiceRegistration{
		Name: name,
		Boot: func(context.Context, *Orchestrator) (any, error) {
			mu.Lock()
			defer mu.Unlock()
			*bootOrder = append(*bootOrder, name)
			return "result-" + name, nil
		},
		Shutdown: func(_ context.Context, result any) error {
			mu.Lock()
			defer mu.Unlock()
			*stopOrder = append(*stopOrder, name)
			return nil
		},
	})
}

// blockingBoot returns a BootFunc that never settles until the
// cancellation signal fires, so timers always win the race
func blockingBoot() BootFunc {
	return func(ctx context.Context, _ *Orchestrator) (any, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	}
}

// waitClosed fails the test path if ch does not close within d
func waitClosed(ch <-chan struct{}, d time.Duration) bool {
	select {
	case <-ch:
		return true
	case <-time.After(d):
		return false
	}
}
