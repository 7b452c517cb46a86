// Package assignment implements the automatic stand assignment
// engine: eligibility selection, request ordering, compatibility
// scoring, greedy matching, conflict detection and the run
// coordinator that ties them together inside one unit of work.
package assignment

import (
	"errors"
	"fmt"
)

// Kind classifies engine errors into a small closed set so callers
// can branch on the category instead of matching message text.
type Kind string

const (
	// KindNotFound marks a missing event, company or stand.  Fatal
	// for the operation that needed the entity.
	KindNotFound Kind = "not_found"
	// KindValidation marks a malformed configuration value, e.g. an
	// unknown algorithm name.  Rejected before any work begins.
	KindValidation Kind = "validation"
	// KindPersistence marks a failed write for a single assignment
	// or conflict.  The item is logged and skipped; the run goes on.
	KindPersistence Kind = "persistence"
	// KindRun marks anything unexpected during a run.  The whole
	// run aborts and the unit of work rolls back.
	KindRun Kind = "run_failure"
)

// Error carries a kind plus structured context about the entity
// involved.  It wraps the underlying cause when there is one.
type Error struct {
	Kind   Kind
	Entity string
	ID     uint64
	Msg    string
	Err    error
}

func (e *Error) Error() string {
	switch {
	case e.Entity != "" && e.ID != 0:
		return fmt.Sprintf("%s: %s %d: %s", e.Kind, e.Entity, e.ID, e.message())
	case e.Entity != "":
		return fmt.Sprintf("%s: %s: %s", e.Kind, e.Entity, e.message())
	default:
		return fmt.Sprintf("%s: %s", e.Kind, e.message())
	}
}

func (e *Error) message() string {
	if e.Msg != "" {
		return e.Msg
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return string(e.Kind)
}

// Unwrap exposes the wrapped cause to errors.Is / errors.As chains.
func (e *Error) Unwrap() error { return e.Err }

// NotFoundError reports a missing entity of the given kind and id.
func NotFoundError(entity string, id uint64) *Error {
	return &Error{Kind: KindNotFound, Entity: entity, ID: id, Msg: "not found"}
}

// ValidationError reports a rejected configuration or input value.
func ValidationError(format string, args ...any) *Error {
	return &Error{Kind: KindValidation, Msg: fmt.Sprintf(format, args...)}
}

// PersistenceError wraps a failed write for one item.
func PersistenceError(entity string, id uint64, err error) *Error {
	return &Error{Kind: KindPersistence, Entity: entity, ID: id, Err: err}
}

// RunError wraps an unexpected failure that aborts a whole run.
func RunError(msg string, err error) *Error {
	return &Error{Kind: KindRun, Msg: msg, Err: err}
}

// IsKind reports whether err (or anything it wraps) is an engine
// Error of the given kind.
func IsKind(err error, kind Kind) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == kind
}
