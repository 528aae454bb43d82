package kernel

import "time"

// State is the lifecycle state of a process slot.
type State int

const (
	// StateUnused marks a free slot. pid == 0 iff State == StateUnused.
	StateUnused State = iota
	// StateEmbryo marks a slot mid-creation, before it is published as
	// RUNNABLE.
	StateEmbryo
	// StateSleeping marks a slot blocked on Chan.
	StateSleeping
	// StateRunnable marks a slot eligible for dispatch.
	StateRunnable
	// StateRunning marks a slot currently dispatched onto a CPU.
	StateRunning
	// StateZombie marks a slot that has exited but not yet been reaped by
	// Wait.
	StateZombie
)

// tag is the uppercase spelling printInfo uses for each state.
func (s State) tag() string {
	switch s {
	case StateUnused:
		return "UNUSED"
	case StateEmbryo:
		return "EMBRYO"
	case StateSleeping:
		return "SLEEPING"
	case StateRunnable:
		return "RUNNABLE"
	case StateRunning:
		return "RUNNING"
	case StateZombie:
		return "ZOMBIE"
	default:
		return "UNKNOWN"
	}
}

func (s State) String() string { return s.tag() }

// MLFQ holds the scheduling attributes of a process slot, kept as its own
// struct the way the original's struct proc nests an mlfq sub-struct.
type MLFQ struct {
	// QueueNumber is 1 (lottery), 2 (HRRN), or 3 (SRPF).
	QueueNumber int
	// ArrivalTime is stamped at allocation and never changes afterward.
	ArrivalTime time.Time
	// ExecutedCycleNumber increments by 1 on every dispatch; it starts at
	// 1, never 0, per spec.md's invariant.
	ExecutedCycleNumber int
	// LotteryTicket is only meaningful while QueueNumber == 1.
	LotteryTicket int
	// RemainedPriority is only meaningful while QueueNumber == 3; it
	// decays by 0.1 (clamped to zero) on every SRPF dispatch.
	RemainedPriority Decimal
}

// addressSpace, trapFrame, and fileTable are opaque stand-ins for the
// out-of-scope collaborators named in spec.md §1 (virtual memory, trap
// frames, the file/inode layer). They exist only so Proc's shape matches
// the data model and so Fork/Exit have something concrete to duplicate and
// release; none of their fields carry real behavior.
type addressSpace struct {
	size int
}

type trapFrame struct {
	returnValue int
}

type fileHandle struct {
	refs int
}

// NOFILE bounds the number of open file handles per slot, matching the
// original's ofile[NOFILE] array.
const NOFILE = 16

// Proc is one process-table slot.
type Proc struct {
	// PID is strictly positive for any non-UNUSED slot and zero
	// otherwise.
	PID int
	// Name is a short, human-readable label (the original's char
	// name[16]).
	Name string
	// Parent is a back-reference, never an owning pointer; it is nil
	// only for the init process.
	Parent *Proc

	State  State
	Killed bool
	// Chan is the opaque wakeup key; meaningful only while Sleeping.
	Chan any

	MLFQ MLFQ

	kstack []byte
	tf     *trapFrame
	pgdir  *addressSpace
	ofile  [NOFILE]*fileHandle
	cwd    *fileHandle

	// exitCode is recorded by Exit. Wait clears it when it reaps the slot
	// and does not return it; Wait reports only the child's pid.
	exitCode int
}

// KStackSize is the simulated kernel-stack buffer size; it is never
// interpreted, only allocated and freed, standing in for the original's
// single physical page.
const KStackSize = 4096

func newEmptyProc() *Proc {
	return &Proc{kstack: make([]byte, KStackSize), tf: &trapFrame{}, pgdir: &addressSpace{}}
}

// reset zeroes a slot's identity and scheduling state and marks it UNUSED,
// matching wait()'s cleanup of a reaped zombie.
func (p *Proc) reset() {
	p.PID = 0
	p.Name = ""
	p.Parent = nil
	p.State = StateUnused
	p.Killed = false
	p.Chan = nil
	p.MLFQ = MLFQ{}
	p.kstack = nil
	p.tf = nil
	p.pgdir = nil
	p.ofile = [NOFILE]*fileHandle{}
	p.cwd = nil
	p.exitCode = 0
}
