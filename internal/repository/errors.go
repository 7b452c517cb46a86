// Package repository defines error values that are reused across
// multiple repositories.  These sentinel values allow higher layers
// such as handlers and the assignment store to distinguish failure
// scenarios.  For example, ErrStandTaken signals that a concurrent
// run already reserved a stand, which the engine treats as a
// skippable per-item persistence failure rather than a fatal error.
package repository

import "errors"

// ErrStandTaken is returned when reserving a stand's per-event
// availability affects no rows, i.e. the row was no longer in the
// available state.  This is the mutual exclusion point between
// concurrent assignment runs on the same event.
var ErrStandTaken = errors.New("stand already reserved")

// ErrRequestAssigned is returned when marking a request as assigned
// affects no rows because another writer assigned it first.
var ErrRequestAssigned = errors.New("request already assigned")
