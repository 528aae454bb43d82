package kernel

import "time"

// nextRand advances the shared LCG and returns its new state. Must be
// called with the table lock held — every call site in this file already
// holds it, which is how spec.md §9 says to close the original's race on
// this generator without introducing a second lock.
func (t *Table) nextRand() uint32 {
	t.rngState = t.rngState*1664525 + 1013904223
	return t.rngState
}

// selectLottery implements spec.md §4.10's queue-1 policy. Must be called
// with the table lock held.
func (t *Table) selectLottery() (*Proc, bool) {
	var total int
	for _, s := range t.slots {
		if s.State == StateRunnable && s.MLFQ.QueueNumber == 1 {
			total += s.MLFQ.LotteryTicket
		}
	}
	if total == 0 {
		return nil, false
	}
	r := int(t.nextRand() % uint32(total))
	for _, s := range t.slots {
		if s.State != StateRunnable || s.MLFQ.QueueNumber != 1 {
			continue
		}
		if r < s.MLFQ.LotteryTicket {
			return s, true
		}
		r -= s.MLFQ.LotteryTicket
	}
	return nil, false
}

// hrrn computes a slot's response ratio at the given clock reading:
// waiting time in seconds divided by executed-cycle count.
func hrrn(s *Proc, now time.Time) Decimal {
	waiting := now.Sub(s.MLFQ.ArrivalTime).Seconds()
	cycles := s.MLFQ.ExecutedCycleNumber
	if cycles < 1 {
		cycles = 1
	}
	return NewDecimal(0, int64(waiting/float64(cycles)*DecimalScale))
}

// selectHRRN implements spec.md §4.10's queue-2 policy. Must be called
// with the table lock held.
func (t *Table) selectHRRN() (*Proc, bool) {
	now := time.Now()
	var best *Proc
	var bestRatio Decimal
	for _, s := range t.slots {
		if s.State != StateRunnable || s.MLFQ.QueueNumber != 2 {
			continue
		}
		ratio := hrrn(s, now)
		if best == nil || ratio.Cmp(bestRatio) > 0 {
			best = s
			bestRatio = ratio
		}
	}
	return best, best != nil
}

// selectSRPF implements spec.md §4.10's queue-3 policy, including the
// randomized tie-break: find the minimum remainedPriority, and if more
// than one slot ties at it, draw a uniform index over the tied slots.
// Must be called with the table lock held.
func (t *Table) selectSRPF() (*Proc, bool) {
	var min Decimal
	haveMin := false
	ties := 0
	for _, s := range t.slots {
		if s.State != StateRunnable || s.MLFQ.QueueNumber != 3 {
			continue
		}
		switch {
		case !haveMin || s.MLFQ.RemainedPriority.Cmp(min) < 0:
			min = s.MLFQ.RemainedPriority
			haveMin = true
			ties = 1
		case s.MLFQ.RemainedPriority.Cmp(min) == 0:
			ties++
		}
	}
	if !haveMin {
		return nil, false
	}
	if ties == 1 {
		for _, s := range t.slots {
			if s.State == StateRunnable && s.MLFQ.QueueNumber == 3 && s.MLFQ.RemainedPriority.Cmp(min) == 0 {
				return s, true
			}
		}
		return nil, false
	}
	j := int(t.nextRand()%uint32(ties)) + 1
	count := 0
	for _, s := range t.slots {
		if s.State != StateRunnable || s.MLFQ.QueueNumber != 3 || s.MLFQ.RemainedPriority.Cmp(min) != 0 {
			continue
		}
		count++
		if count == j {
			return s, true
		}
	}
	return nil, false
}

// selectFallback is the round-robin safety net: the first RUNNABLE slot
// in table order, regardless of queue. It is reached when the three
// selectors above all return nothing while a slot is RUNNABLE, which
// happens when every RUNNABLE queue-1 slot holds zero lottery tickets
// (see DESIGN.md Open Question 3); it is kept because the original keeps
// it.
func (t *Table) selectFallback() (*Proc, bool) {
	for _, s := range t.slots {
		if s.State == StateRunnable {
			return s, true
		}
	}
	return nil, false
}
