// Package trace loads and replays scheduling scenarios: scripted sequences
// of fork/sleep/wakeup/kill/changeQueue calls against a kernel.Table. A
// scenario is a plain line-oriented text file, one step per line, the same
// "simple text, no exotic parser" posture the teacher took for its own
// metadata formats.
package trace

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/arctir/schedsim/kernel"
)

// Op names one scenario step's kernel operation.
type Op string

const (
	OpBootstrap    Op = "bootstrap"
	OpFork         Op = "fork"
	OpExit         Op = "exit"
	OpWait         Op = "wait"
	OpSleep        Op = "sleep"
	OpWakeup       Op = "wakeup"
	OpKill         Op = "kill"
	OpYield        Op = "yield"
	OpChangeQueue  Op = "changequeue"
	OpSetTicket    Op = "setticket"
	OpSetSRPF      Op = "setsrpf"
)

// Step is one line of a scenario: an operation plus its positional
// arguments.
type Step struct {
	Op   Op
	Args []string
}

// Scenario is a named, ordered list of steps.
type Scenario struct {
	Name  string
	Steps []Step
}

// Parse reads a scenario from r. Blank lines and lines starting with '#'
// are ignored. Every other line is "op arg1 arg2 ...", whitespace
// separated.
func Parse(name string, r io.Reader) (*Scenario, error) {
	sc := &Scenario{Name: name}
	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		sc.Steps = append(sc.Steps, Step{Op: Op(fields[0]), Args: fields[1:]})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("trace: parsing scenario %q: %w", name, err)
	}
	if len(sc.Steps) == 0 {
		return nil, fmt.Errorf("trace: scenario %q has no steps", name)
	}
	return sc, nil
}

// registry maps a scenario's process names to the table slots Replay
// allocated for them.
type registry map[string]*kernel.Proc

func (r registry) lookup(name string) (*kernel.Proc, error) {
	p, ok := r[name]
	if !ok {
		return nil, fmt.Errorf("trace: unknown process name %q", name)
	}
	return p, nil
}

// Replay executes every step of sc against t in order, returning the
// name->process registry built along the way. It stops at the first
// failing step.
func Replay(t *kernel.Table, sc *Scenario) (map[string]*kernel.Proc, error) {
	reg := registry{}
	for i, step := range sc.Steps {
		if err := applyStep(t, reg, step); err != nil {
			return nil, fmt.Errorf("trace: scenario %q step %d (%s): %w", sc.Name, i+1, step.Op, err)
		}
	}
	return reg, nil
}

func applyStep(t *kernel.Table, reg registry, step Step) error {
	switch step.Op {
	case OpBootstrap:
		if len(step.Args) != 1 {
			return fmt.Errorf("want 1 arg (name), got %d", len(step.Args))
		}
		p, err := t.Bootstrap(step.Args[0])
		if err != nil {
			return err
		}
		reg[step.Args[0]] = p
		return nil

	case OpFork:
		if len(step.Args) != 2 {
			return fmt.Errorf("want 2 args (parent, child), got %d", len(step.Args))
		}
		parent, err := reg.lookup(step.Args[0])
		if err != nil {
			return err
		}
		child, err := t.Fork(parent)
		if err != nil {
			return err
		}
		reg[step.Args[1]] = child
		return nil

	case OpExit:
		if len(step.Args) != 2 {
			return fmt.Errorf("want 2 args (name, code), got %d", len(step.Args))
		}
		p, err := reg.lookup(step.Args[0])
		if err != nil {
			return err
		}
		code, err := strconv.Atoi(step.Args[1])
		if err != nil {
			return fmt.Errorf("invalid exit code %q: %w", step.Args[1], err)
		}
		t.Exit(p, code)
		return nil

	case OpWait:
		if len(step.Args) != 1 {
			return fmt.Errorf("want 1 arg (name), got %d", len(step.Args))
		}
		p, err := reg.lookup(step.Args[0])
		if err != nil {
			return err
		}
		_, err = t.Wait(p)
		return err

	case OpSleep:
		// Blocks this replay until another concurrent caller wakes
		// step.Args[1] (another Replay, or the caller directly). A
		// scenario that sleeps and expects to wake itself on a later
		// line deadlocks: the wakeup must come from elsewhere.
		if len(step.Args) != 2 {
			return fmt.Errorf("want 2 args (name, chan), got %d", len(step.Args))
		}
		p, err := reg.lookup(step.Args[0])
		if err != nil {
			return err
		}
		t.Sleep(p, step.Args[1], nil)
		return nil

	case OpWakeup:
		if len(step.Args) != 1 {
			return fmt.Errorf("want 1 arg (chan), got %d", len(step.Args))
		}
		t.Wakeup(step.Args[0])
		return nil

	case OpKill:
		if len(step.Args) != 1 {
			return fmt.Errorf("want 1 arg (name), got %d", len(step.Args))
		}
		p, err := reg.lookup(step.Args[0])
		if err != nil {
			return err
		}
		return t.Kill(p.PID)

	case OpYield:
		if len(step.Args) != 1 {
			return fmt.Errorf("want 1 arg (name), got %d", len(step.Args))
		}
		p, err := reg.lookup(step.Args[0])
		if err != nil {
			return err
		}
		t.Yield(p)
		return nil

	case OpChangeQueue:
		if len(step.Args) != 2 {
			return fmt.Errorf("want 2 args (name, queue), got %d", len(step.Args))
		}
		p, err := reg.lookup(step.Args[0])
		if err != nil {
			return err
		}
		q, err := strconv.Atoi(step.Args[1])
		if err != nil {
			return fmt.Errorf("invalid queue %q: %w", step.Args[1], err)
		}
		return t.ChangeQueue(p.PID, q)

	case OpSetTicket:
		if len(step.Args) != 2 {
			return fmt.Errorf("want 2 args (name, ticket), got %d", len(step.Args))
		}
		p, err := reg.lookup(step.Args[0])
		if err != nil {
			return err
		}
		n, err := strconv.Atoi(step.Args[1])
		if err != nil {
			return fmt.Errorf("invalid ticket %q: %w", step.Args[1], err)
		}
		return t.SetLotteryTicket(p.PID, n)

	case OpSetSRPF:
		if len(step.Args) != 2 {
			return fmt.Errorf("want 2 args (name, priority), got %d", len(step.Args))
		}
		p, err := reg.lookup(step.Args[0])
		if err != nil {
			return err
		}
		return t.SetSRPFPriority(p.PID, step.Args[1])

	default:
		return fmt.Errorf("unknown op %q", step.Op)
	}
}
