package kernel

import "errors"

// Sentinel errors corresponding to the recoverable error kinds in the
// external-interface design: the allocation, wait, kill and control calls
// report their recoverable failures with one of these (wrapped with context
// via fmt.Errorf's %w), never a bare -1 with no explanation attached.
// GrowProc's negative-size error is a plain error outside this set.
var (
	// ErrExhausted is returned when the process table has no free slot.
	ErrExhausted = errors.New("kernel: process table exhausted")
	// ErrNotFound is returned when a pid does not match any slot.
	ErrNotFound = errors.New("kernel: no such pid")
	// ErrPrecondition is returned when a control call's queue predicate
	// fails, e.g. setLotteryTicket on a slot not in queue 1.
	ErrPrecondition = errors.New("kernel: precondition failed")
	// ErrNoChildren is returned by Wait when the caller has no children.
	ErrNoChildren = errors.New("kernel: no children")
	// ErrKilled is returned when Wait aborts because the caller observed
	// its own killed flag.
	ErrKilled = errors.New("kernel: killed")
)
