package lifecycle

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"vawter.tech/stopper"
)

// CleanupFunc releases the resources behind a trigger. It blocks until the
// trigger's goroutines have exited and is safe to call more than once.
type CleanupFunc func() error

// triggerStopGrace is the grace period given to trigger goroutines on cleanup
const triggerStopGrace = 100 * time.Millisecond

// ShutdownOnFile arranges for the orchestrator's shutdown to be triggered
// when the file at path is created, written, or removed - a control-file
// protocol in the style of runit's supervise directory. The file's parent
// directory must exist; the file itself need not.
//
// The watch ends after the first trigger, when ctx is cancelled, or when
// the returned CleanupFunc is called.
func ShutdownOnFile(ctx context.Context, o *Orchestrator, path string) (CleanupFunc, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("lifecycle: resolving trigger path: %w", err)
	}
	dir := filepath.Dir(abs)
	base := filepath.Base(abs)

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("lifecycle: watch %q: %w", dir, err)
	}
	if err := watcher.Add(dir); err != nil {
		_ = watcher.Close()
		return nil, fmt.Errorf("lifecycle: watch %q: %w", dir, err)
	}

	// Stopper context manages the watcher goroutine lifecycle
	sctx := stopper.WithContext(ctx)
	sctx.Defer(func() {
		_ = watcher.Close()
	})

	cleanup := func() error {
		sctx.Stop(triggerStopGrace)
		return sctx.Wait()
	}

	sctx.Go(func(sctx *stopper.Context) error {
		for {
			select {
			case <-sctx.Stopping():
				return nil

			case event, ok := <-watcher.Events:
				if !ok {
					return nil
				}
				if filepath.Base(event.Name) != base {
					continue
				}
				if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove) != 0 {
					o.startShutdown()
					return nil
				}

			case _, ok := <-watcher.Errors:
				if !ok {
					return nil
				}
				// Transient; keep watching
			}
		}
	})

	return cleanup, nil
}
