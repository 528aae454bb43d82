package kernel

import (
	"testing"
	"time"
)

func TestForkExitWaitReapsChild(t *testing.T) {
	table := NewTable(1, 1)
	parent, err := table.Bootstrap("parent")
	if err != nil {
		t.Logf("unexpected bootstrap error: %s", err)
		t.Fail()
	}

	child, err := table.Fork(parent)
	if err != nil {
		t.Logf("unexpected fork error: %s", err)
		t.Fail()
	}
	if child.Parent != parent {
		t.Logf("expected child's parent to be set")
		t.Fail()
	}
	if child.State != StateRunnable {
		t.Logf("expected forked child to be RUNNABLE, got %s", child.State)
		t.Fail()
	}

	table.Exit(child, 0)
	if child.State != StateZombie {
		t.Logf("expected exited child to be ZOMBIE, got %s", child.State)
		t.Fail()
	}

	pid, err := table.Wait(parent)
	if err != nil {
		t.Logf("unexpected wait error: %s", err)
		t.Fail()
	}
	if pid != child.PID {
		t.Logf("expected wait to return child pid %d, got %d", child.PID, pid)
		t.Fail()
	}
	if child.State != StateUnused {
		t.Logf("expected reaped slot to be UNUSED, got %s", child.State)
		t.Fail()
	}
}

func TestWaitNoChildrenReturnsError(t *testing.T) {
	table := NewTable(1, 1)
	parent, _ := table.Bootstrap("parent")
	if _, err := table.Wait(parent); err == nil {
		t.Logf("expected ErrNoChildren when the caller has no children")
		t.Fail()
	}
}

func TestExitReparentsChildrenToInit(t *testing.T) {
	table := NewTable(1, 1)
	init, _ := table.Bootstrap("init")
	mid, err := table.Fork(init)
	if err != nil {
		t.Logf("unexpected fork error: %s", err)
		t.Fail()
	}
	grandchild, err := table.Fork(mid)
	if err != nil {
		t.Logf("unexpected fork error: %s", err)
		t.Fail()
	}

	table.Exit(mid, 0)
	// mid is a zombie with no waiting parent calling Wait yet; exiting it
	// should already have reparented grandchild to init.
	if grandchild.Parent != init {
		t.Logf("expected grandchild to be reparented to init, got pid %v", grandchild.Parent)
		t.Fail()
	}
}

func TestKillWakesSleeper(t *testing.T) {
	table := NewTable(1, 1)
	a, err := table.Allocate()
	if err != nil {
		t.Logf("unexpected allocate error: %s", err)
		t.Fail()
	}

	done := make(chan struct{})
	go func() {
		table.Sleep(a, "chan-x", nil)
		close(done)
	}()

	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		p, _ := table.Lookup(a.PID)
		if p.State == StateSleeping {
			break
		}
		time.Sleep(time.Millisecond)
	}

	if err := table.Kill(a.PID); err != nil {
		t.Logf("unexpected kill error: %s", err)
		t.Fail()
	}

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Logf("timed out waiting for killed sleeper to wake")
		t.Fail()
	}

	if !a.Killed {
		t.Logf("expected killed flag to be set")
		t.Fail()
	}
	if a.State != StateRunnable {
		t.Logf("expected killed sleeper to become RUNNABLE, got %s", a.State)
		t.Fail()
	}
}

func TestWakeupOnlyWakesMatchingChannel(t *testing.T) {
	table := NewTable(1, 1)
	a, _ := table.Allocate()
	b, _ := table.Allocate()

	doneA := make(chan struct{})
	doneB := make(chan struct{})
	go func() { table.Sleep(a, "chan-a", nil); close(doneA) }()
	go func() { table.Sleep(b, "chan-b", nil); close(doneB) }()

	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		pa, _ := table.Lookup(a.PID)
		pb, _ := table.Lookup(b.PID)
		if pa.State == StateSleeping && pb.State == StateSleeping {
			break
		}
		time.Sleep(time.Millisecond)
	}

	table.Wakeup("chan-a")

	select {
	case <-doneA:
	case <-time.After(time.Second):
		t.Logf("expected sleeper on chan-a to wake")
		t.Fail()
	}

	select {
	case <-doneB:
		t.Logf("sleeper on chan-b woke from an unrelated wakeup")
		t.Fail()
	case <-time.After(20 * time.Millisecond):
	}

	table.Wakeup("chan-b")
	select {
	case <-doneB:
	case <-time.After(time.Second):
		t.Logf("expected sleeper on chan-b to wake")
		t.Fail()
	}
}

func TestYieldRequiresRunning(t *testing.T) {
	table := NewTable(1, 1)
	p, _ := table.Allocate()
	p.State = StateRunnable

	defer func() {
		if r := recover(); r == nil {
			t.Logf("expected yield on a non-RUNNING process to panic")
			t.Fail()
		}
	}()
	table.Yield(p)
}
