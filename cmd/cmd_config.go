package cmd

import "github.com/spf13/pflag"

const (
	cpusFlag     = "cpus"
	nprocFlag    = "seed"
	scenarioFlag = "scenario"
	ticksFlag    = "ticks"
	addrFlag     = "addr"
	debugFlag    = "debug"
	tokenFlag    = "token"
)

// runOpts collects the flags shared by run, ps, get, tree, and ui — the
// same "one typed options struct per command family" shape
// proctor/cmd/cmd_config.go used for its own flag set.
type runOpts struct {
	cpus     int
	seed     uint32
	scenario string
	ticks    int
	addr     string
	debug    bool
}

func newRunOpts(fs *pflag.FlagSet) runOpts {
	cpus, _ := fs.GetInt(cpusFlag)
	seed, _ := fs.GetInt(nprocFlag)
	scenario, _ := fs.GetString(scenarioFlag)
	ticks, _ := fs.GetInt(ticksFlag)
	addr, _ := fs.GetString(addrFlag)
	debug, _ := fs.GetBool(debugFlag)

	return runOpts{
		cpus:     cpus,
		seed:     uint32(seed),
		scenario: scenario,
		ticks:    ticks,
		addr:     addr,
		debug:    debug,
	}
}

// CLI flags to initialize, following proctor/cmd's init()-time flag
// registration pattern.
func init() {
	runCmd.Flags().Int(cpusFlag, 0, "Number of simulated CPUs to run. Defaults to the host's detected CPU count.")
	runCmd.Flags().Int(nprocFlag, 1, "Seed for the shared lottery/SRPF LCG.")
	runCmd.Flags().StringP(scenarioFlag, "f", "", "Path to a scenario file to replay before dispatching.")
	runCmd.Flags().Int(ticksFlag, 1000, "Number of scheduler rounds to dispatch before stopping.")
	runCmd.Flags().Bool(debugFlag, false, "Dump full process-slot detail (go-spew) alongside the table.")

	psCmd.Flags().StringP(scenarioFlag, "f", "", "Path to a scenario file to replay before listing.")
	psCmd.Flags().Bool(debugFlag, false, "Dump full process-slot detail (go-spew) alongside the table.")

	getCmd.Flags().StringP(scenarioFlag, "f", "", "Path to a scenario file to replay before lookup.")
	getCmd.Flags().Bool(debugFlag, false, "Dump full process-slot detail (go-spew) for the matched process.")

	treeCmd.Flags().StringP(scenarioFlag, "f", "", "Path to a scenario file to replay before walking ancestors.")

	uiCmd.Flags().StringP(scenarioFlag, "f", "", "Path to a scenario file to replay before serving.")
	uiCmd.Flags().String(addrFlag, "", "Address to serve the dashboard on (default :8080).")
	uiCmd.Flags().Int(cpusFlag, 0, "Number of simulated CPUs to run alongside the dashboard.")

	seedHostCmd.Flags().Int(cpusFlag, 0, "Number of simulated CPUs to run alongside the dashboard.")
	seedHostCmd.Flags().String(addrFlag, "", "Address to serve the dashboard on (default :8080).")

	scenarioBundlesCmd.Flags().String(tokenFlag, "", "GitHub token to authenticate against private scenario repos.")
}
