package lifecycle

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"vawter.tech/stopper"
)

// ShutdownOnSignal arranges for o.Shutdown to be triggered by the first
// matching process signal. With no signals given it defaults to SIGINT and
// SIGTERM. The handler ends after the first trigger, when ctx is cancelled,
// or when the returned CleanupFunc is called.
func ShutdownOnSignal(ctx context.Context, o *Orchestrator, sigs ...os.Signal) CleanupFunc {
	if len(sigs) == 0 {
		sigs = []os.Signal{syscall.SIGINT, syscall.SIGTERM}
	}

	ch := make(chan os.Signal, 1)
	signal.Notify(ch, sigs...)

	sctx := stopper.WithContext(ctx)
	sctx.Defer(func() {
		signal.Stop(ch)
	})

	sctx.Go(func(sctx *stopper.Context) error {
		select {
		case <-sctx.Stopping():
			return nil
		case <-ch:
			o.startShutdown()
			return nil
		}
	})

	return func() error {
		sctx.Stop(triggerStopGrace)
		return sctx.Wait()
	}
}
