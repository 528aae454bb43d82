package kernel

import "testing"

func TestChangeQueueRejectsOutOfRange(t *testing.T) {
	table := NewTable(1, 1)
	p, _ := table.Allocate()
	if err := table.ChangeQueue(p.PID, 4); err == nil {
		t.Logf("expected an error for q=4")
		t.Fail()
	}
	if err := table.ChangeQueue(p.PID, 0); err == nil {
		t.Logf("expected an error for q=0")
		t.Fail()
	}
	if err := table.ChangeQueue(p.PID, 2); err != nil {
		t.Logf("unexpected error for a valid queue: %s", err)
		t.Fail()
	}
	if p.MLFQ.QueueNumber != 2 {
		t.Logf("expected queue number to be updated to 2, got %d", p.MLFQ.QueueNumber)
		t.Fail()
	}
}

func TestSetLotteryTicketRequiresQueue1(t *testing.T) {
	table := NewTable(1, 1)
	p, _ := table.Allocate()
	p.MLFQ.QueueNumber = 2
	if err := table.SetLotteryTicket(p.PID, 5); err == nil {
		t.Logf("expected setLotteryTicket to fail outside queue 1")
		t.Fail()
	}
	p.MLFQ.QueueNumber = 1
	if err := table.SetLotteryTicket(p.PID, 5); err != nil {
		t.Logf("unexpected error inside queue 1: %s", err)
		t.Fail()
	}
	if p.MLFQ.LotteryTicket != 5 {
		t.Logf("expected ticket to be set to 5, got %d", p.MLFQ.LotteryTicket)
		t.Fail()
	}
}

func TestSetSRPFPriorityRequiresQueue3(t *testing.T) {
	table := NewTable(1, 1)
	p, _ := table.Allocate()
	p.MLFQ.QueueNumber = 1
	if err := table.SetSRPFPriority(p.PID, "0.4"); err == nil {
		t.Logf("expected setSRPFPriority to fail outside queue 3")
		t.Fail()
	}
	p.MLFQ.QueueNumber = 3
	if err := table.SetSRPFPriority(p.PID, "0.4"); err != nil {
		t.Logf("unexpected error inside queue 3: %s", err)
		t.Fail()
	}
	if p.MLFQ.RemainedPriority != NewDecimal(0, 400) {
		t.Logf("expected remainedPriority 0.400, got %s", p.MLFQ.RemainedPriority)
		t.Fail()
	}
}

func TestSetOwnTicketHasNoQueuePrecondition(t *testing.T) {
	table := NewTable(1, 1)
	p, _ := table.Allocate()
	p.MLFQ.QueueNumber = 3
	table.SetOwnTicket(p, 42)
	if p.MLFQ.LotteryTicket != 42 {
		t.Logf("expected self-ticket to be set regardless of queue, got %d", p.MLFQ.LotteryTicket)
		t.Fail()
	}
}
