package lifecycle

import (
	"os"
	"time"

	"github.com/google/renameio/v2"
)

// ReadyFile is an EventSink that maintains a readiness marker file: it is
// written atomically when a boot pass completes without error and removed
// when boot fails or shutdown ends. Supervisors can watch the file to learn
// when the process is serving.
//
// The marker records the boot completion time in RFC 3339 form. Write and
// remove errors are swallowed; readiness reporting must never destabilize
// the lifecycle.
type ReadyFile struct {
	// Path is the location of the marker file
	Path string
}

// LifecycleEvent implements EventSink
func (r *ReadyFile) LifecycleEvent(ev Event) {
	switch ev.Kind {
	case EventBootEnded:
		if ev.Err != nil {
			_ = os.Remove(r.Path)
			return
		}
		data := []byte(time.Now().UTC().Format(time.RFC3339) + "\n")
		_ = renameio.WriteFile(r.Path, data, FileMode)

	case EventShutdownEnded:
		_ = os.Remove(r.Path)
	}
}

// File modes
const (
	// FileMode is the mode for the readiness marker file
	FileMode = 0o644
)
