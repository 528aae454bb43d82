package cmd

import "github.com/spf13/cobra"

var schedsimCmd = &cobra.Command{
	Use:   "schedsim",
	Short: "A command-line simulator for a multi-level feedback queue kernel scheduler.",
	CompletionOptions: cobra.CompletionOptions{
		DisableDefaultCmd: true,
	},
	Run: runRoot,
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Replay a scenario and dispatch it across simulated CPUs for a number of rounds.",
	Run:   runRun,
}

var psCmd = &cobra.Command{
	Use:     "ps",
	Aliases: []string{"list"},
	Short:   "Replay a scenario and print the resulting process table.",
	Run:     runPs,
}

var getCmd = &cobra.Command{
	Use:   "get [pid or name]",
	Short: "Replay a scenario and print details of a single process.",
	Run:   runGet,
}

var treeCmd = &cobra.Command{
	Use:   "tree [pid]",
	Short: "Replay a scenario and print a process and all its ancestors.",
	Run:   runTree,
}

var killCmd = &cobra.Command{
	Use:   "kill [pid]",
	Short: "Replay a scenario, mark a pid killed, then print the resulting table.",
	Run:   runKill,
}

var uiCmd = &cobra.Command{
	Use:   "ui",
	Short: "Replay a scenario and serve a live dashboard of the table.",
	Run:   runUI,
}

var seedHostCmd = &cobra.Command{
	Use:   "seed-host",
	Short: "Seed the table from this machine's real process tree, then serve the dashboard.",
	Run:   runSeedHost,
}

var hostCmd = &cobra.Command{
	Use:   "host",
	Short: "Print the detected host's OS, kernel, hardware, and machine-id details.",
	Run:   runHost,
}

var scenarioCmd = &cobra.Command{
	Use:     "scenario",
	Aliases: []string{"trace"},
	Short:   "Inspect scenario sources.",
	Run:     runScenario,
}

var scenarioChangesCmd = &cobra.Command{
	Use:     "changes [repo-url]",
	Aliases: []string{"c"},
	Short:   "List every scenario committed to a scenario repository's history.",
	Run:     runScenarioChanges,
}

var scenarioBundlesCmd = &cobra.Command{
	Use:   "bundles [repo-url]",
	Short: "List scenario bundles published as GitHub release artifacts.",
	Run:   runScenarioBundles,
}

// SetupCommands wires the full schedsim command tree, modeled on
// proctor/cmd's SetupCLI, and returns the root command for main to
// execute.
func SetupCommands() *cobra.Command {
	schedsimCmd.AddCommand(runCmd)
	schedsimCmd.AddCommand(psCmd)
	schedsimCmd.AddCommand(getCmd)
	schedsimCmd.AddCommand(treeCmd)
	schedsimCmd.AddCommand(killCmd)
	schedsimCmd.AddCommand(uiCmd)
	schedsimCmd.AddCommand(seedHostCmd)
	schedsimCmd.AddCommand(hostCmd)
	schedsimCmd.AddCommand(scenarioCmd)
	scenarioCmd.AddCommand(scenarioChangesCmd)
	scenarioCmd.AddCommand(scenarioBundlesCmd)

	return schedsimCmd
}
