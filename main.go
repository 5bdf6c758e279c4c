package main

import (
	"wr-cli/cmd" // Import the cmd package which contains the CLI commands and execution logic
)

// main is the program entry point.
// It delegates to cmd.Execute() which handles command line argument parsing and execution.
//
// This design cleanly separates the CLI interface (cmd package) from main,
// allowing easier testing, extension, and reuse of the CLI commands.
//
// The wr-cli project is a development environment bootstrapper that:
//   - Reads a wr.yml configuration file describing the project name and named shell commands
//   - Runs named shell commands from the config via the `run` subcommand
//   - Brings a developer machine to a working state via the `setup` subcommand,
//     which drives an ordered sequence of idempotent setup steps (Node.js check,
//     Python check, uv install, ghstack install/configure, Python version pinning,
//     dependency sync, local editable package install) selected per project
//   - Re-derives "already done" for every step from observable host state
//     (command lookups, file existence, modification times) rather than from any
//     saved state, so re-running setup is always safe
//
// Error handling strategy:
//   - Every setup step contains its own failures: a failed or panicking step is
//     converted into a printed diagnostic plus a boolean at the step boundary,
//     and the pipeline continues to the next step
//   - The runner aggregates failed step names and reports them once at the end;
//     overall failure causes the program to exit with a non-zero status
//
// Integration points:
//   - Shells out to host tools (node, python, uv, ghstack) in two disciplines:
//     captured execution for read-only probes, interactive execution for
//     installers that may prompt the user or show live progress
//   - Writes the per-user ghstack configuration file with owner-only permissions
//     when the tool cannot configure itself
//
// The step engine is strictly sequential: later steps assume earlier steps'
// side effects (the package manager must exist before it installs tools), so
// order is fixed per project profile and failures never skip later steps.
func main() {
	cmd.Execute()
}
