package cmd

import (
	"errors"
	"os"

	"github.com/spf13/cobra"

	"wr-cli/internal/commands"
	"wr-cli/internal/config"
)

// runConfigPath is the path to the wr.yml config file for `run`.
var runConfigPath string

// runCmd executes a named shell command defined under `commands:` in wr.yml.
// A failing command makes the CLI exit with that command's own exit code.
var runCmd = &cobra.Command{
	Use:   "run <command-name>",
	Short: "Run a command defined in wr.yml",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if _, err := os.Stat(runConfigPath); err != nil {
			out.Errorf("Error: Config file '%s' not found.\n", runConfigPath)
			os.Exit(1)
		}

		cfg, err := config.Load(runConfigPath)
		if err != nil {
			out.Errorf("Error running command: %v\n", err)
			os.Exit(1)
		}

		if err := commands.Run(args[0], cfg, out); err != nil {
			var exitErr *commands.ExitError
			if errors.As(err, &exitErr) {
				os.Exit(exitErr.Code)
			}
			out.Errorf("Error running command: %v\n", err)
			os.Exit(1)
		}
	},
}

// init sets up the flags for the run command.
func init() {
	runCmd.Flags().StringVarP(&runConfigPath, "config", "c", "wr.yml", "Path to wr.yml config file")
}
