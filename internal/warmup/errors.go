package warmup

import (
	"errors"
	"fmt"
)

// Sentinel errors for misuse of the trace life cycle.
var (
	// ErrOutsideTrace is returned when a functional call runs on a scope
	// that is neither tracing nor warmed.
	ErrOutsideTrace = errors.New("functional call outside WarmUp or Apply")

	// ErrTraceInProgress is returned when WarmUp re-enters a scope that
	// is already tracing.
	ErrTraceInProgress = errors.New("warm-up already in progress")

	// ErrNotWarmed is returned by Apply before a successful warm-up.
	ErrNotWarmed = errors.New("container has not been warmed up")
)

// AlreadyWarmedError reports a second warm-up of an already-warmed
// container. Warm-up is a once-per-container operation; a repeat run with
// a different input spec would silently disagree with the materialized
// shapes, so it is rejected rather than ignored.
type AlreadyWarmedError struct {
	Modules int // number of modules materialized by the first warm-up
}

// Error implements the error interface.
func (e *AlreadyWarmedError) Error() string {
	return fmt.Sprintf("container already warmed up (%d materialized modules)", e.Modules)
}

// InvalidInputSpecError reports a malformed warm-up input specification.
type InvalidInputSpecError struct {
	Index  int // position in the input spec list
	Reason string
}

// Error implements the error interface.
func (e *InvalidInputSpecError) Error() string {
	return fmt.Sprintf("invalid input spec at index %d: %s", e.Index, e.Reason)
}

// NameCollisionError reports two distinct call sites resolving to the
// same full name within one container.
type NameCollisionError struct {
	Name string
	Kind string // operation kind of the later claimant
}

// Error implements the error interface.
func (e *NameCollisionError) Error() string {
	if e.Kind != "" {
		return fmt.Sprintf("module name %q already used by another call site (claimed again by %s)", e.Name, e.Kind)
	}
	return fmt.Sprintf("module name %q already used by another call site", e.Name)
}

// UnsupportedArgumentError reports a configuration option the target
// operation rejects: an unknown passdown key, a value of the wrong type,
// or an unknown initializer/activation name.
type UnsupportedArgumentError struct {
	Site   string // full call-site name when known
	Key    string
	Reason string
}

// Error implements the error interface.
func (e *UnsupportedArgumentError) Error() string {
	if e.Site != "" {
		return fmt.Sprintf("%s: unsupported argument %q: %s", e.Site, e.Key, e.Reason)
	}
	return fmt.Sprintf("unsupported argument %q: %s", e.Key, e.Reason)
}

// UnsupportedRankError reports an operation family with no variant for
// the observed tensor rank.
type UnsupportedRankError struct {
	Family string
	Rank   int
}

// Error implements the error interface.
func (e *UnsupportedRankError) Error() string {
	return fmt.Sprintf("operation family %q has no variant for rank-%d input", e.Family, e.Rank)
}

// ShapeInferenceError reports a call site whose required shape
// information could not be derived during tracing, or a backend failure
// attributed to a call site.
type ShapeInferenceError struct {
	Site string // full call-site name, or base name when unresolved
	Err  error
}

// Error implements the error interface.
func (e *ShapeInferenceError) Error() string {
	return fmt.Sprintf("shape inference failed at %q: %v", e.Site, e.Err)
}

// Unwrap returns the underlying cause.
func (e *ShapeInferenceError) Unwrap() error {
	return e.Err
}
