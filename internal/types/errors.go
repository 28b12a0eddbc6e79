package types

import "errors"

// Engine error taxonomy. Packages wrap these with fmt.Errorf("...: %w", ...)
// so callers can classify failures with errors.Is or KindOf.
var (
	// ErrNotFound is returned for unknown topic, goal, or strategy root ids.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput is returned for malformed identifiers, negative time
	// budgets, and out-of-range parameters.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnsatisfiable is returned when no path or strategy exists.
	ErrUnsatisfiable = errors.New("unsatisfiable")

	// ErrCycleDetected is returned when a prerequisite cycle is reachable from
	// the requested goal or root.
	ErrCycleDetected = errors.New("cycle detected")
)

// ErrorKind is a stable, caller-facing label for an engine error.
type ErrorKind string

const (
	KindNone          ErrorKind = ""
	KindNotFound      ErrorKind = "not_found"
	KindInvalidInput  ErrorKind = "invalid_input"
	KindUnsatisfiable ErrorKind = "unsatisfiable"
	KindCycleDetected ErrorKind = "cycle_detected"
	KindInternal      ErrorKind = "internal"
)

// KindOf classifies err. A nil error has KindNone; anything outside the
// taxonomy is KindInternal.
func KindOf(err error) ErrorKind {
	switch {
	case err == nil:
		return KindNone
	case errors.Is(err, ErrNotFound):
		return KindNotFound
	case errors.Is(err, ErrInvalidInput):
		return KindInvalidInput
	case errors.Is(err, ErrUnsatisfiable):
		return KindUnsatisfiable
	case errors.Is(err, ErrCycleDetected):
		return KindCycleDetected
	default:
		return KindInternal
	}
}

// Corrective reports whether the caller should ask the user to fix their
// input (not found / invalid) rather than try a different request.
func (k ErrorKind) Corrective() bool {
	return k == KindNotFound || k == KindInvalidInput
}
