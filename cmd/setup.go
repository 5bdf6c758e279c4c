package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"wr-cli/internal/config"
	"wr-cli/internal/setup"
)

// force bypasses completion checks so every step's body runs again.
var force bool

// verbose enables detailed per-step output.
var verbose bool

// setupConfigPath is the path to the wr.yml config file for `setup`.
var setupConfigPath string

// setupCmd brings the developer machine to a working state by running the
// ordered setup step pipeline for the configured project.
var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Set up the development environment",
	Run: func(cmd *cobra.Command, args []string) {
		if _, err := os.Stat(setupConfigPath); err != nil {
			out.Errorf("Error: Config file '%s' not found.\n", setupConfigPath)
			os.Exit(1)
		}

		cfg, err := config.Load(setupConfigPath)
		if err != nil {
			out.Errorf("Error loading config: %v\n", err)
			os.Exit(1)
		}

		projectName := cfg.ProjectName
		if projectName == "" {
			projectName = "unknown-project"
		}

		out.Boldf("WR CLI Setup\n")
		out.Printf("Setting up %s development environment...\n\n", projectName)

		runner := setup.NewRunner(out, verbose, force, projectName)
		if !runner.RunSetup() {
			out.Errorf("\n✗ Setup failed! Check the output above for details.\n")
			os.Exit(1)
		}
		out.Successf("\n✓ Setup completed successfully!\n")
	},
}

// init sets up the flags for the setup command.
func init() {
	setupCmd.Flags().BoolVarP(&force, "force", "f", false, "Force re-run setup steps even if already completed")
	setupCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	setupCmd.Flags().StringVarP(&setupConfigPath, "config", "c", "wr.yml", "Path to wr.yml config file")
}
