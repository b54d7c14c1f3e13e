package lifecycle

import (
	"errors"
	"fmt"
	"time"
)

// Common errors returned by lifecycle operations
var (
	// ErrGlobalTimeout indicates an entire boot or shutdown pass exceeded
	// its global deadline
	ErrGlobalTimeout = errors.New("lifecycle: global timeout exceeded")
)

// ServiceTimeoutError indicates a single service exceeded its own deadline
type ServiceTimeoutError struct {
	// Service is the name of the service that timed out
	Service string
	// Mode is the pass during which the timeout occurred
	Mode Mode
	// Timeout is the per-service deadline that was exceeded
	Timeout time.Duration
}

// Error returns a formatted error message
func (e *ServiceTimeoutError) Error() string {
	return fmt.Sprintf("lifecycle: %s %q: timed out after %s", e.Mode, e.Service, e.Timeout)
}

// ServiceError wraps the cause of one failed lifecycle step. It is what
// reaches the event stream for every failed step, whether the cause is the
// service's own error, a per-service timeout, or the global deadline.
type ServiceError struct {
	// Service is the name of the service whose step failed
	Service string
	// Mode is the pass during which the step failed
	Mode Mode
	// Err is the originating condition
	Err error
}

// Error returns a formatted error message
func (e *ServiceError) Error() string {
	return fmt.Sprintf("lifecycle: %s %q: %v", e.Mode, e.Service, e.Err)
}

// Unwrap returns the underlying error for error chain inspection
func (e *ServiceError) Unwrap() error {
	return e.Err
}

// AggregateError collects every ServiceError from one lifecycle pass
type AggregateError struct {
	// Mode is the pass the errors were collected from
	Mode Mode
	// Errors contains all accumulated step failures
	Errors []error
}

// Error returns a summary of the accumulated errors
func (a *AggregateError) Error() string {
	switch len(a.Errors) {
	case 0:
		return fmt.Sprintf("lifecycle: %s: no errors", a.Mode)
	case 1:
		return a.Errors[0].Error()
	default:
		return fmt.Sprintf("lifecycle: %s: %d services failed", a.Mode, len(a.Errors))
	}
}

// Unwrap returns the collected errors for errors.Is / errors.As traversal
func (a *AggregateError) Unwrap() []error {
	return a.Errors
}

// Add appends an error to the collection if it's not nil
func (a *AggregateError) Add(err error) {
	if err != nil {
		a.Errors = append(a.Errors, err)
	}
}

// Err returns nil if no errors occurred, otherwise the AggregateError itself
func (a *AggregateError) Err() error {
	if len(a.Errors) == 0 {
		return nil
	}
	return a
}
