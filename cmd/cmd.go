// Package cmd wires the schedsim command-line interface: the thin,
// out-of-scope "user-space CLI utilities and syscall dispatch shim" that
// spec.md §1 deliberately excludes from the core, but which still has to
// exist as the ambient entry point driving kernel, host, trace, and ui.
// Modeled one-for-one on proctor/cmd's command tree and options pattern.
package cmd

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/arctir/schedsim/host"
	"github.com/arctir/schedsim/kernel"
	"github.com/arctir/schedsim/plib"
	"github.com/arctir/schedsim/trace"
	"github.com/arctir/schedsim/trace/github"
	"github.com/arctir/schedsim/ui"
	"github.com/spf13/cobra"
)

func runRoot(cmd *cobra.Command, args []string) {
	if len(args) == 0 {
		cmd.Help()
		os.Exit(0)
	}
}

func runScenario(cmd *cobra.Command, args []string) {
	if len(args) == 0 {
		cmd.Help()
		os.Exit(0)
	}
}

// buildTable constructs a table sized for opts.cpus CPUs (defaulting to
// the host's detected CPU count via host.LinuxReader, the same
// host-detection path proctor's CLI used for its own introspection) and,
// if opts.scenario is set, replays it.
func buildTable(opts runOpts) (*kernel.Table, map[string]*kernel.Proc, error) {
	cpus := opts.cpus
	if cpus <= 0 {
		cpus = defaultCPUCount()
	}
	t := kernel.NewTable(cpus, opts.seed)

	var reg map[string]*kernel.Proc
	if opts.scenario != "" {
		sc, err := loadScenario(opts.scenario)
		if err != nil {
			return nil, nil, err
		}
		reg, err = trace.Replay(t, sc)
		if err != nil {
			return nil, nil, fmt.Errorf("replaying scenario: %w", err)
		}
	}
	return t, reg, nil
}

func loadScenario(path string) (*trace.Scenario, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening scenario %q: %w", path, err)
	}
	defer f.Close()
	return trace.Parse(path, f)
}

// defaultCPUCount reuses the teacher's own host-detection path
// (host.LinuxReader.GetHardware) instead of reinventing one; Hardware's
// own SimulatedCPUCount clamps a detection failure (e.g. non-Linux,
// sandboxed /proc) to 1 CPU.
func defaultCPUCount() int {
	lr := host.NewLinuxReader(host.LinuxReaderConfig{})
	hw, err := lr.GetHardware()
	if err != nil {
		return 1
	}
	return hw.SimulatedCPUCount()
}

// runHost implements `schedsim host`: print the detected host's OS,
// kernel, hardware, and machine-id details, exercising every method of
// host.HostReader rather than just the CPU-count path buildTable uses.
func runHost(cmd *cobra.Command, args []string) {
	lr := host.NewLinuxReader(host.LinuxReaderConfig{})

	if osInfo, err := lr.GetOS(); err != nil {
		fmt.Fprintf(os.Stderr, "os: unavailable (%s)\n", err)
	} else {
		fmt.Printf("os: %s %s\n", osInfo.Name, osInfo.Version)
	}

	if k, err := lr.GetKernel(); err != nil {
		fmt.Fprintf(os.Stderr, "kernel: unavailable (%s)\n", err)
	} else {
		fmt.Printf("kernel: %s %s\n", k.Type, strings.TrimSpace(k.Version))
	}

	hw, err := lr.GetHardware()
	if err != nil {
		fmt.Fprintf(os.Stderr, "hardware: unavailable (%s)\n", err)
	} else {
		fmt.Printf("hardware: %d cpu(s), %s (simulated cpus: %d)\n",
			hw.CPU.CPUCount, hw.Architecture, hw.SimulatedCPUCount())
	}

	if id, err := lr.GetHostID(); err != nil {
		fmt.Fprintf(os.Stderr, "host id: unavailable (%s)\n", err)
	} else {
		fmt.Printf("host id: %s\n", strings.TrimSpace(id))
	}
}

// runRun implements `schedsim run`: replay a scenario, then drive every
// registered CPU's scheduler loop for opts.ticks rounds before printing
// the final table.
func runRun(cmd *cobra.Command, args []string) {
	opts := newRunOpts(cmd.Flags())
	t, _, err := buildTable(opts)
	if err != nil {
		outputErrorAndFail(err.Error())
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		for round := 0; round < opts.ticks; round++ {
			for _, cpu := range t.CPUs() {
				t.DispatchOnce(cpu)
			}
			t.Tick()
		}
	}()
	select {
	case <-done:
	case <-time.After(30 * time.Second):
	}

	output(t.FormatTable())
	if opts.debug {
		for _, row := range t.Snapshot() {
			p, err := t.Lookup(row.PID)
			if err == nil {
				fmt.Fprintln(os.Stderr, kernel.DumpProc(p))
			}
		}
	}
}

// runPs implements `schedsim ps`: replay a scenario (if any) and print
// the resulting table with no dispatching, the direct equivalent of
// proctor's `process ls`.
func runPs(cmd *cobra.Command, args []string) {
	opts := newRunOpts(cmd.Flags())
	t, _, err := buildTable(opts)
	if err != nil {
		outputErrorAndFail(err.Error())
	}
	output(t.FormatTable())
	if opts.debug {
		for _, row := range t.Snapshot() {
			p, err := t.Lookup(row.PID)
			if err == nil {
				fmt.Fprintln(os.Stderr, kernel.DumpProc(p))
			}
		}
	}
}

// runGet implements `schedsim get`, the equivalent of proctor's
// `process get --name/--id`: resolve a single process by pid or name
// after replaying a scenario.
func runGet(cmd *cobra.Command, args []string) {
	if len(args) == 0 {
		cmd.Help()
		os.Exit(0)
	}
	opts := newRunOpts(cmd.Flags())
	t, _, err := buildTable(opts)
	if err != nil {
		outputErrorAndFail(err.Error())
	}

	rows := t.Snapshot()
	if pid, perr := strconv.Atoi(args[0]); perr == nil {
		for _, r := range rows {
			if r.PID == pid {
				printRow(r)
				maybeDebug(t, opts, r.PID)
				return
			}
		}
		outputErrorAndFail(fmt.Sprintf("no process with pid %d", pid))
	}
	for _, r := range rows {
		if r.Name == args[0] {
			printRow(r)
			maybeDebug(t, opts, r.PID)
			return
		}
	}
	outputErrorAndFail(fmt.Sprintf("no process named %q", args[0]))
}

func maybeDebug(t *kernel.Table, opts runOpts, pid int) {
	if !opts.debug {
		return
	}
	if p, err := t.Lookup(pid); err == nil {
		fmt.Fprintln(os.Stderr, kernel.DumpProc(p))
	}
}

func printRow(r kernel.ProcSnapshot) {
	fmt.Printf("pid=%d name=%s state=%s queue=%d priority=%s ticket=%d cycle=%d hrrn=%s arrival=%s\n",
		r.PID, r.Name, r.State, r.QueueNumber, r.RemainedPriority.StringPlaces(1),
		r.LotteryTicket, r.ExecutedCycleNumber, r.HRRN.StringPlaces(3), r.ArrivalTime.Format("15:04:05"))
}

// runTree implements `schedsim tree`, the equivalent of proctor's
// `process tree [pid]`: walk the parent chain up to the init process.
func runTree(cmd *cobra.Command, args []string) {
	pid, err := parsePID(args)
	if err != nil {
		outputErrorAndFail(err.Error())
	}
	opts := newRunOpts(cmd.Flags())
	t, _, err := buildTable(opts)
	if err != nil {
		outputErrorAndFail(err.Error())
	}

	byPID := map[int]kernel.ProcSnapshot{}
	for _, r := range t.Snapshot() {
		byPID[r.PID] = r
	}
	cur, ok := byPID[pid]
	if !ok {
		outputErrorAndFail(fmt.Sprintf("no process with pid %d", pid))
	}
	for {
		printRow(cur)
		if cur.ParentPID == 0 {
			break
		}
		next, ok := byPID[cur.ParentPID]
		if !ok {
			break
		}
		cur = next
	}
}

// runKill implements `schedsim kill`: mark a pid killed after replaying a
// scenario, then print the resulting table so the caller can observe the
// SLEEPING->RUNNABLE promotion spec.md §4.7 describes.
func runKill(cmd *cobra.Command, args []string) {
	pid, err := parsePID(args)
	if err != nil {
		outputErrorAndFail(err.Error())
	}
	opts := newRunOpts(cmd.Flags())
	t, _, err := buildTable(opts)
	if err != nil {
		outputErrorAndFail(err.Error())
	}
	if err := t.Kill(pid); err != nil {
		outputErrorAndFail(fmt.Sprintf("kill failed: %s", err))
	}
	output(t.FormatTable())
}

// runUI implements `schedsim ui`: replay a scenario, start every CPU's
// scheduler loop in the background, and serve the live dashboard until
// interrupted.
func runUI(cmd *cobra.Command, args []string) {
	opts := newRunOpts(cmd.Flags())
	t, _, err := buildTable(opts)
	if err != nil {
		outputErrorAndFail(err.Error())
	}
	serveUI(t, opts.addr)
}

// runSeedHost implements `schedsim seed-host`: turn this machine's real
// process tree into a fork-storm scenario via trace.SeedFromHost, then
// serve the dashboard over it.
func runSeedHost(cmd *cobra.Command, args []string) {
	cpus, _ := cmd.Flags().GetInt(cpusFlag)
	addr, _ := cmd.Flags().GetString(addrFlag)
	if cpus <= 0 {
		cpus = defaultCPUCount()
	}

	insp, err := plib.NewInspector()
	if err != nil {
		outputErrorAndFail(fmt.Sprintf("building host inspector: %s", err))
	}
	t := kernel.NewTable(cpus, 1)
	if _, err := trace.SeedFromHost(t, insp); err != nil {
		outputErrorAndFail(fmt.Sprintf("seeding from host: %s", err))
	}
	serveUI(t, addr)
}

func serveUI(t *kernel.Table, addr string) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	for _, cpu := range t.CPUs() {
		go t.RunLoop(ctx, cpu)
	}

	dash := ui.New(t, addr)
	if err := dash.RunUI(); err != nil {
		outputErrorAndFail(fmt.Sprintf("dashboard failed: %s", err))
	}
}

// runScenarioChanges implements `schedsim scenario changes`, the
// equivalent of proctor's `source changes`: walk a scenario repo's commit
// history and print one line per commit's scenario.
func runScenarioChanges(cmd *cobra.Command, args []string) {
	if len(args) == 0 {
		cmd.Help()
		os.Exit(0)
	}
	repo, err := trace.ResolveScenarioRepo(args[0])
	if err != nil {
		outputErrorAndFail(fmt.Sprintf("failed resolving scenario repo, underlying error: %s", err))
	}
	commits, err := repo.Scenarios()
	if err != nil {
		outputErrorAndFail(fmt.Sprintf("failed resolving scenario history, underlying error: %s", err))
	}
	for _, c := range commits {
		fmt.Printf("%s %s: %s (%d steps)\n", c.Hash[:min(8, len(c.Hash))], c.Author, c.Scenario.Name, len(c.Scenario.Steps))
	}
}

// runScenarioBundles implements `schedsim scenario bundles`: list
// scenario bundles published as GitHub release artifacts. Releases with no
// scenario bundles (or still in draft) are already excluded by
// GetScenarioBundles.
func runScenarioBundles(cmd *cobra.Command, args []string) {
	if len(args) == 0 {
		cmd.Help()
		os.Exit(0)
	}
	token, _ := cmd.Flags().GetString(tokenFlag)
	mgr := github.NewBundleManager(github.BundleManagerConfig{GHToken: token})
	releases, err := mgr.GetScenarioBundles(args[0])
	if err != nil {
		outputErrorAndFail(fmt.Sprintf("failed resolving scenario bundles, underlying error: %s", err))
	}
	for _, r := range releases {
		fmt.Printf("%s (%s): %d scenario bundle(s)\n", r.Name, r.Tag, len(r.Artifacts))
		for _, a := range r.Artifacts {
			fmt.Printf("  %s\n", a.Name)
		}
	}
}

func parsePID(args []string) (int, error) {
	if len(args) < 1 {
		return 0, fmt.Errorf("please provide a pid (int)")
	}
	return strconv.Atoi(args[0])
}

func output(out []byte) {
	fmt.Printf("%s", out)
}

func outputErrorAndFail(msg string) {
	fmt.Println(msg)
	os.Exit(1)
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
