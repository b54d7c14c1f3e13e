package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// stepResult is the settled outcome of one service callable
type stepResult struct {
	value any
	err   error
}

// runBoot executes the boot pass and, if it aborted, the automatically
// triggered shutdown. It returns only once everything has settled.
func (o *Orchestrator) runBoot() {
	// Shutdown won the race to start: the staged registrations were
	// consumed by nothing and the instance is already terminal.
	if o.Cancelled() {
		close(o.bootLoopDone)
		return
	}

	o.mu.Lock()
	regs := make([]ServiceRegistration, len(o.staged))
	copy(regs, o.staged)
	o.mu.Unlock()

	aborted := o.runPass(ModeBoot, regs, o.BootTimeout)

	o.mu.Lock()
	o.staged = nil
	o.mu.Unlock()

	// Signal loop completion before waiting on shutdown, which itself
	// waits for the boot loop.
	close(o.bootLoopDone)

	if aborted {
		o.startShutdown()
		<-o.stopDone
	}
}

// runShutdown executes the shutdown pass. The cancellation signal fires
// here, exactly once, before anything else.
func (o *Orchestrator) runShutdown() {
	o.cancel()

	// Never run two passes over the shared registries at once: if a boot
	// pass is in flight, let its loop finish first. The boot pass is
	// bounded by its own global deadline.
	o.mu.Lock()
	bootRunning := o.bootRunning
	o.mu.Unlock()
	if bootRunning {
		<-o.bootLoopDone
	}

	o.mu.Lock()
	regs := make([]ServiceRegistration, 0, len(o.active))
	for i := len(o.active) - 1; i >= 0; i-- {
		regs = append(regs, o.active[i])
	}
	o.mu.Unlock()

	o.runPass(ModeShutdown, regs, o.ShutdownTimeout)
	o.teardown()
}

// runPass executes one lifecycle pass over regs, racing every step against
// its per-service timeout and the shared global deadline. It reports
// whether the pass aborted before processing every registration.
func (o *Orchestrator) runPass(mode Mode, regs []ServiceRegistration, globalTimeout time.Duration) bool {
	o.emit(Event{Kind: eventStarted(mode), Mode: mode})

	gctx, gcancel := context.WithTimeout(context.Background(), globalTimeout)
	defer gcancel()

	agg := &AggregateError{Mode: mode}
	aborted := false

	for _, reg := range regs {
		o.emit(Event{Kind: eventServiceStarted(mode), Mode: mode, Service: reg.Name})

		cause := o.runStep(gctx, mode, reg)
		if cause == nil {
			o.emit(Event{Kind: eventServiceEnded(mode), Mode: mode, Service: reg.Name})
			continue
		}

		wrapped := &ServiceError{Service: reg.Name, Mode: mode, Err: cause}
		agg.Add(wrapped)
		o.emit(Event{Kind: eventServiceEnded(mode), Mode: mode, Service: reg.Name, Err: wrapped})

		// A boot failure always stops the pass. A shutdown failure stops
		// it only when the global deadline expired; otherwise the caller
		// must still be allowed to stop the remaining services.
		if mode == ModeBoot || errors.Is(cause, ErrGlobalTimeout) {
			aborted = true
			break
		}
	}

	o.mu.Lock()
	o.booted = mode == ModeBoot && !aborted
	if mode == ModeBoot {
		o.bootErr = agg.Err()
	} else {
		o.stopErr = agg.Err()
	}
	o.mu.Unlock()

	o.emit(Event{Kind: eventEnded(mode), Mode: mode, Err: agg.Err()})
	return aborted
}

// runStep invokes one service callable and races its completion against the
// per-service timer and the global deadline. It returns nil on success, or
// the failure's originating condition. A callable that outlives its race is
// abandoned, not cancelled; its late result is discarded.
func (o *Orchestrator) runStep(gctx context.Context, mode Mode, reg ServiceRegistration) error {
	// Buffered so an abandoned callable can still deliver and exit
	done := make(chan stepResult, 1)

	switch mode {
	case ModeBoot:
		go func() {
			var res stepResult
			defer func() {
				if r := recover(); r != nil {
					res = stepResult{err: fmt.Errorf("lifecycle: %s %q: panic: %v", mode, reg.Name, r)}
				}
				done <- res
			}()
			res.value, res.err = reg.Boot(o.cancelCtx, o)
		}()

	case ModeShutdown:
		result, _ := o.GetService(reg.Name)
		go func() {
			var res stepResult
			defer func() {
				if r := recover(); r != nil {
					res = stepResult{err: fmt.Errorf("lifecycle: %s %q: panic: %v", mode, reg.Name, r)}
				}
				done <- res
			}()
			res.err = reg.Shutdown(gctx, result)
		}()
	}

	timer := time.NewTimer(reg.Timeout)
	defer timer.Stop()

	select {
	case res := <-done:
		if res.err != nil {
			return res.err
		}
		o.recordSuccess(mode, reg, res.value)
		return nil

	case <-timer.C:
		// The global deadline is the harder one; it wins when both have
		// elapsed by the time the race settles.
		select {
		case <-gctx.Done():
			return ErrGlobalTimeout
		default:
		}
		return &ServiceTimeoutError{Service: reg.Name, Mode: mode, Timeout: reg.Timeout}

	case <-gctx.Done():
		return ErrGlobalTimeout
	}
}

// recordSuccess updates the active registry and results map after a step
// completed without error.
func (o *Orchestrator) recordSuccess(mode Mode, reg ServiceRegistration, value any) {
	o.mu.Lock()
	defer o.mu.Unlock()

	switch mode {
	case ModeBoot:
		o.active = append(o.active, reg)
		o.results[reg.Name] = value

	case ModeShutdown:
		delete(o.results, reg.Name)
		for i, a := range o.active {
			if a.Name == reg.Name {
				o.active = append(o.active[:i], o.active[i+1:]...)
				break
			}
		}
	}
}

// teardown clears all mutable state after the shutdown pass: the instance
// is terminal from here on.
func (o *Orchestrator) teardown() {
	o.mu.Lock()
	defer o.mu.Unlock()

	o.staged = nil
	o.active = nil
	o.results = make(map[string]any)
	for i := range o.handlers {
		o.handlers[i] = nil
	}
}
