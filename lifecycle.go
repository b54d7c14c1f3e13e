package lifecycle

import "time"

// Default timeouts
const (
	// DefaultServiceTimeout bounds a single service's boot or shutdown step
	DefaultServiceTimeout = 5 * time.Second

	// DefaultBootTimeout is the global deadline for an entire boot pass
	DefaultBootTimeout = 15 * time.Second

	// DefaultShutdownTimeout is the global deadline for an entire shutdown pass
	DefaultShutdownTimeout = 15 * time.Second
)

// Mode identifies the direction of a lifecycle pass
type Mode int

const (
	// ModeBoot is the forward pass that starts services in registration order
	ModeBoot Mode = iota
	// ModeShutdown is the reverse pass that stops services in reverse
	// boot-completion order
	ModeShutdown
)

// Mode string constants
const (
	modeBootStr     = "boot"
	modeShutdownStr = "shutdown"
)

// String returns the lowercase name of the mode
func (m Mode) String() string {
	switch m {
	case ModeBoot:
		return modeBootStr
	case ModeShutdown:
		return modeShutdownStr
	default:
		return "unknown"
	}
}
