package trace

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/arctir/schedsim/kernel"
)

func TestParseSkipsBlankAndCommentLines(t *testing.T) {
	sc, err := Parse("t", strings.NewReader("# a comment\n\nbootstrap init\n"))
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if len(sc.Steps) != 1 {
		t.Fatalf("expected 1 step, got %d", len(sc.Steps))
	}
}

func TestParseRejectsEmptyScenario(t *testing.T) {
	_, err := Parse("t", strings.NewReader("# nothing but comments\n"))
	if err == nil {
		t.Log("expected an error for a scenario with no steps")
		t.Fail()
	}
}

func TestReplayForkExitWaitSequence(t *testing.T) {
	script := strings.Join([]string{
		"bootstrap init",
		"fork init shell",
		"exit shell 0",
		"wait init",
	}, "\n")
	sc, err := Parse("fork-exit-wait", strings.NewReader(script))
	if err != nil {
		t.Fatalf("unexpected parse error: %s", err)
	}

	table := kernel.NewTable(1, 1)
	reg, err := Replay(table, sc)
	if err != nil {
		t.Fatalf("unexpected replay error: %s", err)
	}
	if _, ok := reg["shell"]; !ok {
		t.Fatal("expected the shell process to be registered")
	}
}

func TestReplayUnknownProcessNameFails(t *testing.T) {
	sc, err := Parse("bad", strings.NewReader("kill ghost"))
	if err != nil {
		t.Fatalf("unexpected parse error: %s", err)
	}
	table := kernel.NewTable(1, 1)
	if _, err := Replay(table, sc); err == nil {
		t.Log("expected replay to fail referencing an unregistered process name")
		t.Fail()
	}
}

func TestReplaySleepWakeupRoundTrip(t *testing.T) {
	// "sleep" blocks the replaying goroutine until something else wakes
	// the channel, so a script cannot wake its own sleeper inline; the
	// wakeup has to come from a concurrent caller, exactly as it would
	// from another simulated actor.
	script := strings.Join([]string{
		"bootstrap init",
		"fork init worker",
		"sleep worker io",
	}, "\n")
	sc, err := Parse("sleep-wakeup", strings.NewReader(script))
	if err != nil {
		t.Fatalf("unexpected parse error: %s", err)
	}
	table := kernel.NewTable(1, 1)
	done := make(chan error, 1)
	go func() {
		_, err := Replay(table, sc)
		done <- err
	}()

	worker, err := waitForName(table, "io")
	if err != nil {
		t.Fatalf("worker never reached sleep: %s", err)
	}
	_ = worker
	table.Wakeup("io")

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("unexpected replay error: %s", err)
		}
	case <-time.After(time.Second):
		t.Fatal("replay did not complete after wakeup")
	}
}

// waitForName polls the table until some slot is SLEEPING, returning its
// PID. chanKey is not checked: Snapshot does not carry a slot's channel.
func waitForName(table *kernel.Table, chanKey string) (int, error) {
	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		for _, row := range table.Snapshot() {
			if row.State == kernel.StateSleeping {
				return row.PID, nil
			}
		}
		time.Sleep(time.Millisecond)
	}
	return 0, errNoSleeper
}

var errNoSleeper = fmt.Errorf("trace: no process reached SLEEPING state in time")
