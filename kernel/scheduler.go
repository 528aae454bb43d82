package kernel

import (
	"context"
	"time"
)

// idleBackoff is how long RunLoop pauses between iterations that found
// nothing to dispatch, so an idle CPU doesn't spin a host core at 100%.
// The original's loop can busy-spin because it's the only thing running
// on that physical core; a goroutine sharing a real OS thread with
// everything else in this process does not have that luxury.
const idleBackoff = time.Millisecond

// DispatchResult describes one successful dispatch, returned by
// DispatchOnce for logging and tests.
type DispatchResult struct {
	PID      int
	Queue    int
	ViaSRPF  bool
	Fallback bool
}

// DispatchOnce performs one iteration of spec.md §4.9's scheduler loop
// body on the given CPU: if the CPU is still hosting a RUNNING process,
// it refuses to dispatch (preserving "mutual exclusion of RUNNING per
// CPU" without a literal context-switch primitive — see DESIGN.md).
// Otherwise it runs the policy cascade, applies dispatch accounting, and
// publishes the chosen slot as RUNNING on this CPU.
func (t *Table) DispatchOnce(cpu *CPU) (DispatchResult, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if cpu.Current != nil {
		if cpu.Current.State == StateRunning {
			return DispatchResult{}, false
		}
		cpu.Current = nil
	}

	cpu.intena = false
	defer func() { cpu.intena = true }()

	var chosen *Proc
	queue := 0
	fallback := false
	if s, ok := t.selectLottery(); ok {
		chosen, queue = s, 1
	} else if s, ok := t.selectHRRN(); ok {
		chosen, queue = s, 2
	} else if s, ok := t.selectSRPF(); ok {
		chosen, queue = s, 3
	} else if s, ok := t.selectFallback(); ok {
		chosen, queue, fallback = s, s.MLFQ.QueueNumber, true
	}

	if chosen == nil {
		return DispatchResult{}, false
	}

	chosen.MLFQ.ExecutedCycleNumber++
	if queue == 3 {
		chosen.MLFQ.RemainedPriority = chosen.MLFQ.RemainedPriority.Sub(NewDecimal(0, 100)).ClampNonNegative()
	}
	chosen.State = StateRunning
	cpu.Current = chosen

	Logger.Debug().Int("cpu", cpu.ID).Int("pid", chosen.PID).Int("queue", queue).Msg("dispatched")
	return DispatchResult{PID: chosen.PID, Queue: queue, ViaSRPF: queue == 3, Fallback: fallback}, true
}

// RunLoop runs cpu's scheduler loop until ctx is cancelled, matching
// spec.md §4.9's "each CPU, after its own bring-up, enters an infinite
// loop". Callers typically run one RunLoop per registered CPU in its own
// goroutine.
func (t *Table) RunLoop(ctx context.Context, cpu *CPU) {
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}
		if _, ok := t.DispatchOnce(cpu); !ok {
			select {
			case <-ctx.Done():
				return
			case <-time.After(idleBackoff):
			}
		}
	}
}
