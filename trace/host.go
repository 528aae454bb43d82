package trace

import (
	"fmt"
	"sort"

	"github.com/arctir/schedsim/kernel"
	"github.com/arctir/schedsim/plib"
)

// SeedFromHost turns a real host's process tree into a synthetic
// scenario: it bootstraps the table's init process from the host's pid 1
// and forks one simulated process per live host process in parent-first
// order, reproducing the host's fork tree instead of a scripted one.
// Returns the inspected host pid -> simulated process mapping.
func SeedFromHost(t *kernel.Table, insp plib.Inspector) (map[int]*kernel.Proc, error) {
	procs, err := insp.ListProcesses()
	if err != nil {
		return nil, fmt.Errorf("trace: listing host processes: %w", err)
	}
	if len(procs) == 0 {
		return nil, fmt.Errorf("trace: host reported no processes")
	}

	byHostPID := make(map[int]plib.Process, len(procs))
	for _, p := range procs {
		byHostPID[p.ID] = p
	}

	root := findRoot(procs)
	sim := make(map[int]*kernel.Proc, len(procs))

	initProc, err := t.Bootstrap(root.CommandName)
	if err != nil {
		return nil, fmt.Errorf("trace: bootstrapping host-seeded init: %w", err)
	}
	sim[root.ID] = initProc

	// Fork children in repeated passes over the remaining processes in pid
	// order: each pass forks every process whose parent has already been
	// forked, so every parent is forked before its children.
	remaining := make([]plib.Process, 0, len(procs))
	for _, p := range procs {
		if p.ID != root.ID {
			remaining = append(remaining, p)
		}
	}
	sort.Slice(remaining, func(i, j int) bool { return remaining[i].ID < remaining[j].ID })

	for progress := true; progress && len(remaining) > 0; {
		progress = false
		next := remaining[:0:0]
		for _, p := range remaining {
			parent, ok := sim[p.ParentProcess]
			if !ok {
				next = append(next, p)
				continue
			}
			child, err := t.Fork(parent)
			if err != nil {
				return nil, fmt.Errorf("trace: forking host pid %d (%s): %w", p.ID, p.CommandName, err)
			}
			child.Name = p.CommandName
			sim[p.ID] = child
			progress = true
		}
		remaining = next
	}

	if len(remaining) > 0 {
		kernel.Logger.Warn().Int("unreachable", len(remaining)).Msg("host processes with no resolvable parent in the simulated table were skipped")
	}

	return sim, nil
}

// findRoot picks pid 1 if present, otherwise the lowest-pid process, as
// the simulated init's template.
func findRoot(procs []plib.Process) plib.Process {
	root := procs[0]
	for _, p := range procs {
		if p.ID == 1 {
			return p
		}
		if p.ID < root.ID {
			root = p
		}
	}
	return root
}
