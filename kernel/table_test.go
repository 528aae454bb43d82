package kernel

import "testing"

func TestAllocateAssignsIncreasingPIDs(t *testing.T) {
	table := NewTable(1, 1)
	p1, err := table.Allocate()
	if err != nil {
		t.Logf("unexpected error allocating first slot: %s", err)
		t.Fail()
	}
	p2, err := table.Allocate()
	if err != nil {
		t.Logf("unexpected error allocating second slot: %s", err)
		t.Fail()
	}
	if p2.PID <= p1.PID {
		t.Logf("expected pids to strictly increase, got %d then %d", p1.PID, p2.PID)
		t.Fail()
	}
	if p1.State != StateEmbryo || p2.State != StateEmbryo {
		t.Logf("expected freshly allocated slots to be EMBRYO, got %s and %s", p1.State, p2.State)
		t.Fail()
	}
	if p1.MLFQ.QueueNumber != 1 || p1.MLFQ.ExecutedCycleNumber != 1 || p1.MLFQ.LotteryTicket != 10 {
		t.Logf("unexpected default MLFQ fields: %+v", p1.MLFQ)
		t.Fail()
	}
}

func TestAllocateExhaustion(t *testing.T) {
	table := NewTable(1, 1)
	for i := 0; i < NPROC; i++ {
		if _, err := table.Allocate(); err != nil {
			t.Logf("unexpected error on allocation %d: %s", i, err)
			t.Fail()
		}
	}
	if _, err := table.Allocate(); err == nil {
		t.Logf("expected ErrExhausted once the table is full")
		t.Fail()
	}
}

func TestBootstrapPublishesRunnableInit(t *testing.T) {
	table := NewTable(1, 1)
	init, err := table.Bootstrap("init")
	if err != nil {
		t.Logf("unexpected error bootstrapping: %s", err)
		t.Fail()
	}
	if init.State != StateRunnable {
		t.Logf("expected init to be RUNNABLE after bootstrap, got %s", init.State)
		t.Fail()
	}
	if init.Name != "init" {
		t.Logf("expected init name to be set, got %q", init.Name)
		t.Fail()
	}
}

func TestLookupNotFound(t *testing.T) {
	table := NewTable(1, 1)
	if _, err := table.Lookup(999); err == nil {
		t.Logf("expected ErrNotFound for an unallocated pid")
		t.Fail()
	}
}

func TestSnapshotExcludesUnused(t *testing.T) {
	table := NewTable(1, 1)
	if _, err := table.Allocate(); err != nil {
		t.Logf("unexpected allocation error: %s", err)
		t.Fail()
	}
	snap := table.Snapshot()
	if len(snap) != 1 {
		t.Logf("expected exactly 1 non-UNUSED slot in snapshot, got %d", len(snap))
		t.Fail()
	}
}
