package kernel

import (
	"math"
	"testing"
	"time"
)

func makeRunnable(table *Table, queue int) *Proc {
	p, _ := table.Allocate()
	p.State = StateRunnable
	p.MLFQ.QueueNumber = queue
	return p
}

func TestSelectLotteryDistribution(t *testing.T) {
	table := NewTable(1, 42)
	a := makeRunnable(table, 1)
	b := makeRunnable(table, 1)
	c := makeRunnable(table, 1)
	a.MLFQ.LotteryTicket = 1
	b.MLFQ.LotteryTicket = 2
	c.MLFQ.LotteryTicket = 7

	const n = 10000
	counts := map[int]int{}
	table.mu.Lock()
	for i := 0; i < n; i++ {
		s, ok := table.selectLottery()
		if !ok {
			t.Logf("expected a winner on every draw")
			t.Fail()
		}
		counts[s.PID]++
	}
	table.mu.Unlock()

	expect := map[int]float64{a.PID: 0.1, b.PID: 0.2, c.PID: 0.7}
	for pid, frac := range expect {
		got := float64(counts[pid]) / n
		if math.Abs(got-frac) > 0.03 {
			t.Logf("pid %d: expected frequency near %.2f, got %.3f (counts=%v)", pid, frac, got, counts)
			t.Fail()
		}
	}
}

func TestSelectLotteryNoTicketsNoWinner(t *testing.T) {
	table := NewTable(1, 7)
	makeRunnable(table, 1).MLFQ.LotteryTicket = 0

	table.mu.Lock()
	_, ok := table.selectLottery()
	table.mu.Unlock()
	if ok {
		t.Logf("expected no winner when the ticket sum is zero")
		t.Fail()
	}
}

func TestSelectHRRNPicksMaximum(t *testing.T) {
	table := NewTable(1, 1)
	stale := makeRunnable(table, 2)
	stale.MLFQ.ArrivalTime = time.Now().Add(-100 * time.Second)
	stale.MLFQ.ExecutedCycleNumber = 5
	fresh := makeRunnable(table, 2)
	fresh.MLFQ.ArrivalTime = time.Now()
	fresh.MLFQ.ExecutedCycleNumber = 1

	table.mu.Lock()
	winner, ok := table.selectHRRN()
	table.mu.Unlock()
	if !ok {
		t.Logf("expected a queue-2 winner")
		t.Fail()
	}
	if winner.PID != stale.PID {
		t.Logf("expected the process waiting longest per cycle to win, got pid %d", winner.PID)
		t.Fail()
	}
}

func TestSelectSRPFPicksMinimum(t *testing.T) {
	table := NewTable(1, 1)
	low := makeRunnable(table, 3)
	low.MLFQ.RemainedPriority = NewDecimal(0, 100)
	high := makeRunnable(table, 3)
	high.MLFQ.RemainedPriority = NewDecimal(0, 900)

	table.mu.Lock()
	winner, ok := table.selectSRPF()
	table.mu.Unlock()
	if !ok {
		t.Logf("expected a queue-3 winner")
		t.Fail()
	}
	if winner.PID != low.PID {
		t.Logf("expected the minimum-priority slot to win, got pid %d", winner.PID)
		t.Fail()
	}
}

func TestSelectSRPFTieBreakIsRoughlyUniform(t *testing.T) {
	table := NewTable(1, 99)
	a := makeRunnable(table, 3)
	b := makeRunnable(table, 3)
	a.MLFQ.RemainedPriority = NewDecimal(0, 300)
	b.MLFQ.RemainedPriority = NewDecimal(0, 300)

	const n = 10000
	counts := map[int]int{}
	table.mu.Lock()
	for i := 0; i < n; i++ {
		s, ok := table.selectSRPF()
		if !ok {
			t.Logf("expected a winner on every tied draw")
			t.Fail()
		}
		counts[s.PID]++
	}
	table.mu.Unlock()

	for _, pid := range []int{a.PID, b.PID} {
		frac := float64(counts[pid]) / n
		if math.Abs(frac-0.5) > 0.03 {
			t.Logf("pid %d: expected roughly half the draws, got %.3f", pid, frac)
			t.Fail()
		}
	}
}

func TestPolicyPriorityCascade(t *testing.T) {
	table := NewTable(2, 1)
	q3 := makeRunnable(table, 3)
	q3.MLFQ.RemainedPriority = NewDecimal(0, 0)
	q1 := makeRunnable(table, 1)
	q1.MLFQ.LotteryTicket = 1

	cpu := table.CPUs()[0]
	result, ok := table.DispatchOnce(cpu)
	if !ok {
		t.Logf("expected a dispatch")
		t.Fail()
	}
	if result.PID != q1.PID {
		t.Logf("expected queue-1 to dominate queue-3, dispatched pid %d instead", result.PID)
		t.Fail()
	}
}

func TestSRPFDecayClampsAtZero(t *testing.T) {
	table := NewTable(1, 1)
	p := makeRunnable(table, 3)
	p.MLFQ.RemainedPriority = NewDecimal(0, 50)

	cpu := table.CPUs()[0]
	if _, ok := table.DispatchOnce(cpu); !ok {
		t.Logf("expected a dispatch")
		t.Fail()
	}
	if p.MLFQ.RemainedPriority != 0 {
		t.Logf("expected remainedPriority to clamp at zero, got %s", p.MLFQ.RemainedPriority)
		t.Fail()
	}
}

func TestDispatchIncrementsExecutedCycleNumber(t *testing.T) {
	table := NewTable(1, 1)
	p := makeRunnable(table, 1)
	p.MLFQ.LotteryTicket = 1

	cpu := table.CPUs()[0]
	if _, ok := table.DispatchOnce(cpu); !ok {
		t.Logf("expected a dispatch")
		t.Fail()
	}
	if p.MLFQ.ExecutedCycleNumber != 2 {
		t.Logf("expected executedCycleNumber to become 2 after its first dispatch, got %d", p.MLFQ.ExecutedCycleNumber)
		t.Fail()
	}
}
