package kernel

import "fmt"

// ChangeQueue implements spec.md §4.11's changeQueue, resolving Open
// Question 1 (see DESIGN.md) in favor of the spec's own recommendation:
// q outside {1,2,3} is rejected with ErrPrecondition rather than accepted
// unchecked as the original does.
func (t *Table) ChangeQueue(pid, q int) error {
	if q < 1 || q > 3 {
		return fmt.Errorf("kernel: changeQueue: %w: q=%d", ErrPrecondition, q)
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	p := t.byPID(pid)
	if p == nil {
		return ErrNotFound
	}
	p.MLFQ.QueueNumber = q
	return nil
}

// SetLotteryTicket implements spec.md §4.11: sets lotteryTicket iff the
// slot is currently in queue 1.
func (t *Table) SetLotteryTicket(pid, n int) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	p := t.byPID(pid)
	if p == nil {
		return ErrNotFound
	}
	if p.MLFQ.QueueNumber != 1 {
		return fmt.Errorf("kernel: setLotteryTicket: %w: pid %d not in queue 1", ErrPrecondition, pid)
	}
	p.MLFQ.LotteryTicket = n
	return nil
}

// SetOwnTicket implements the supplemented sys_setTicket syscall
// (SPEC_FULL.md §4): a process may set its own lottery ticket
// unconditionally, unlike SetLotteryTicket, which any caller may apply to
// any queue-1 pid but only a queue-1 one. original_source/sysproc.c's
// sys_setTicket writes myproc()->mlfq.lotteryTicket directly with no
// queue check, and this mirrors that.
func (t *Table) SetOwnTicket(p *Proc, n int) {
	t.mu.Lock()
	p.MLFQ.LotteryTicket = n
	t.mu.Unlock()
}

// SetSRPFPriority implements spec.md §4.11: parses s per §6's permissive
// decimal grammar and sets remainedPriority iff the slot is currently in
// queue 3. Input with no digit after the optional leading '-' is
// rejected with ErrPrecondition before parsing.
func (t *Table) SetSRPFPriority(pid int, s string) error {
	if !looksNumeric(s) {
		return fmt.Errorf("kernel: setSRPFPriority: %w: %q is not numeric", ErrPrecondition, s)
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	p := t.byPID(pid)
	if p == nil {
		return ErrNotFound
	}
	if p.MLFQ.QueueNumber != 3 {
		return fmt.Errorf("kernel: setSRPFPriority: %w: pid %d not in queue 3", ErrPrecondition, pid)
	}
	p.MLFQ.RemainedPriority = ParseDecimal(s)
	return nil
}
