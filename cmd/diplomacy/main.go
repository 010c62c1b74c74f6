package main

import (
	"fmt"
	"os"

	"github.com/platinummonkey/diplomacy/pkg/cli"
)

var version = "dev"

func main() {
	cli.Version = version

	// Create root command
	rootCmd := cli.NewRootCommand()

	// Execute command
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
