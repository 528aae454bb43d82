package main

import (
	"fmt"
	"os"

	"github.com/arctir/schedsim/cmd"
)

func main() {
	schedsimCmd := cmd.SetupCommands()
	if err := schedsimCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
