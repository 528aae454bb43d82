package kernel

import (
	"fmt"
	"sync"
	"time"
)

// NPROC bounds the number of simultaneously live process slots, matching
// the original's fixed-size ptable.
const NPROC = 64

// Table is the process table: a fixed array of slots guarded by a single
// lock, plus the bookkeeping (pid counter, LCG state, tick counter, init
// slot, registered CPUs) that every lifecycle and scheduling operation
// touches under that lock.
//
// The lock is intentionally coarse: every state mutation, every wakeup
// scan, and every policy selector runs with it held, exactly as spec.md
// §4.1 describes. Go has no interrupt-enable primitive to disable on
// acquire, so that half of the original's "acquire with interrupts
// disabled" contract is a no-op here.
type Table struct {
	mu   sync.Mutex
	cond *sync.Cond

	slots   [NPROC]*Proc
	nextPID int
	init    *Proc
	cpus    []*CPU

	// rngState is the shared LCG's mutable state. spec.md §9 flags the
	// original as racy here; protecting it with the table lock (already
	// held at every selector call site) is the fix it recommends.
	rngState uint32

	tickMu sync.Mutex
	tickC  *sync.Cond
	ticks  uint64
}

// NewTable allocates a table with ncpu registered CPUs and seeds the
// shared LCG.
func NewTable(ncpu int, seed uint32) *Table {
	t := &Table{rngState: seed}
	t.cond = sync.NewCond(&t.mu)
	t.tickC = sync.NewCond(&t.tickMu)
	for i := 0; i < NPROC; i++ {
		t.slots[i] = &Proc{}
	}
	for i := 0; i < ncpu; i++ {
		t.cpus = append(t.cpus, &CPU{ID: i})
	}
	return t
}

// CPUs returns the table's registered CPUs.
func (t *Table) CPUs() []*CPU { return t.cpus }

// Allocate implements spec.md §4.2: scan for the first UNUSED slot,
// publish it as EMBRYO with a fresh pid and default MLFQ fields. Returns
// ErrExhausted if the table is full.
func (t *Table) Allocate() (*Proc, error) {
	t.mu.Lock()
	var p *Proc
	for _, s := range t.slots {
		if s.State == StateUnused {
			p = s
			break
		}
	}
	if p == nil {
		t.mu.Unlock()
		return nil, ErrExhausted
	}
	t.nextPID++
	pid := t.nextPID

	// state and pid are published before the lock is released, matching
	// the original allocproc, which sets p->state = EMBRYO and p->pid
	// under ptable.lock before anything else touches the slot. Releasing
	// the lock first would let a second concurrent Allocate see the same
	// slot as still UNUSED and claim it too.
	*p = Proc{
		PID:   pid,
		State: StateEmbryo,
		MLFQ: MLFQ{
			QueueNumber:         1,
			ArrivalTime:         time.Now(),
			ExecutedCycleNumber: 1,
			LotteryTicket:       10,
			RemainedPriority:    NewDecimal(1, 0),
		},
	}
	t.mu.Unlock()

	// Kernel-stack/trap-frame/address-space setup happens outside the
	// lock, matching allocproc's kalloc/kstack layout, which runs after
	// the EMBRYO publish and needs no concurrency protection since no
	// other Allocate call can see this slot as UNUSED anymore.
	p.kstack = make([]byte, KStackSize)
	p.tf = &trapFrame{}
	p.pgdir = &addressSpace{}

	Logger.Debug().Int("pid", pid).Msg("allocated process slot")
	return p, nil
}

// Bootstrap creates the very first process, analogous to the original's
// userinit(): it allocates a slot, names it, and publishes it RUNNABLE
// directly rather than via Fork. Exiting this process is fatal (see
// Exit).
func (t *Table) Bootstrap(name string) (*Proc, error) {
	p, err := t.Allocate()
	if err != nil {
		return nil, fmt.Errorf("kernel: bootstrap: %w", err)
	}
	t.mu.Lock()
	p.Name = name
	p.cwd = &fileHandle{refs: 1}
	p.State = StateRunnable
	t.init = p
	t.mu.Unlock()
	Logger.Info().Int("pid", p.PID).Str("name", name).Msg("bootstrapped init process")
	return p, nil
}

// byPID returns the slot with the given pid, or nil. Must be called with
// the lock held.
func (t *Table) byPID(pid int) *Proc {
	for _, s := range t.slots {
		if s.State != StateUnused && s.PID == pid {
			return s
		}
	}
	return nil
}

// Lookup returns the slot with the given pid, or ErrNotFound.
func (t *Table) Lookup(pid int) (*Proc, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	p := t.byPID(pid)
	if p == nil {
		return nil, ErrNotFound
	}
	return p, nil
}

// ProcSnapshot is a point-in-time, lock-free copy of one slot's display
// fields, returned by Snapshot for rendering (format.go, ui/) without
// holding the table lock while formatting.
type ProcSnapshot struct {
	PID       int
	ParentPID int
	Name      string
	State     State
	RemainedPriority    Decimal
	LotteryTicket       int
	QueueNumber         int
	ExecutedCycleNumber int
	HRRN                Decimal
	ArrivalTime         time.Time
}

// Snapshot copies every non-UNUSED slot's display-relevant fields under
// the lock, for safe use by formatters and the dashboard.
func (t *Table) Snapshot() []ProcSnapshot {
	t.mu.Lock()
	defer t.mu.Unlock()
	now := time.Now()
	out := make([]ProcSnapshot, 0, NPROC)
	for _, s := range t.slots {
		if s.State == StateUnused {
			continue
		}
		parentPID := 0
		if s.Parent != nil {
			parentPID = s.Parent.PID
		}
		out = append(out, ProcSnapshot{
			PID:                 s.PID,
			ParentPID:           parentPID,
			Name:                s.Name,
			State:               s.State,
			RemainedPriority:    s.MLFQ.RemainedPriority,
			LotteryTicket:       s.MLFQ.LotteryTicket,
			QueueNumber:         s.MLFQ.QueueNumber,
			ExecutedCycleNumber: s.MLFQ.ExecutedCycleNumber,
			HRRN:                hrrn(s, now),
			ArrivalTime:         s.MLFQ.ArrivalTime,
		})
	}
	return out
}
