package cmd

import (
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"wr-cli/internal/console"
)

// out is the styled output sink shared by every subcommand. It writes
// through color.Output so colors degrade cleanly on Windows consoles and
// non-terminal output.
var out = console.New(color.Output)

// rootCmd is the base command for the CLI tool `wr`.
// It sets up the root-level CLI structure; all behavior lives in the
// `setup` and `run` subcommands.
var rootCmd = &cobra.Command{
	Use:   "wr",
	Short: "Bootstrap Waterloo Rocketry development environments",
}

// Execute registers subcommands and starts command execution.
// It's the entry point for the CLI when invoked by the user.
func Execute() {
	rootCmd.AddCommand(setupCmd)
	rootCmd.AddCommand(runCmd)

	// Errors are ignored here with `_ =` since Cobra prints them itself;
	// the subcommands exit non-zero on their own failures.
	_ = rootCmd.Execute()
}
