package setup

import (
	"strings"

	"wr-cli/internal/console"
)

// Runner orchestrates the execution of setup steps for one `setup`
// invocation. The step list is resolved once at construction from the
// project name and never changes afterward; the runner owns its steps
// exclusively.
type Runner struct {
	console     *console.Console
	verbose     bool
	force       bool
	projectName string
	steps       []Step
}

// NewRunner builds a runner for the named project. Profile selection is
// total: "omnibus" and "wr-cli" get their dedicated step lists, every other
// name (including empty) gets the default profile.
func NewRunner(c *console.Console, verbose, force bool, projectName string) *Runner {
	r := &Runner{
		console:     c,
		verbose:     verbose,
		force:       force,
		projectName: projectName,
	}

	switch projectName {
	case "omnibus":
		r.steps = r.omnibusSteps()
	case "wr-cli":
		r.steps = r.wrCLISteps()
	default:
		r.steps = r.defaultSteps()
	}
	return r
}

// defaultSteps is the profile for generic projects.
func (r *Runner) defaultSteps() []Step {
	return []Step{
		NewCheckNodeStep(r.console, r.verbose),
		NewCheckPythonStep(r.console, r.verbose),
		NewInstallUvStep(r.console, r.verbose),
		NewLockPythonVersionStep(r.console, r.verbose),
	}
}

// wrCLISteps is the profile for the WR CLI project itself.
func (r *Runner) wrCLISteps() []Step {
	return []Step{
		NewCheckNodeStep(r.console, r.verbose),
		NewCheckPythonStep(r.console, r.verbose),
		NewInstallUvStep(r.console, r.verbose),
		NewInstallGhstackStep(r.console, r.verbose),
		NewSetupGhstackStep(r.console, r.verbose),
		NewLockPythonVersionStep(r.console, r.verbose),
	}
}

// omnibusSteps is the profile for the Omnibus project.
func (r *Runner) omnibusSteps() []Step {
	return []Step{
		NewCheckNodeStep(r.console, r.verbose),
		NewCheckPythonStep(r.console, r.verbose),
		NewInstallUvStep(r.console, r.verbose),
		NewLockPythonVersionStep(r.console, r.verbose),
		NewSyncDependenciesStep(r.console, r.verbose),
		NewInstallLocalPackagesStep(r.console, r.verbose, nil),
	}
}

// Steps returns the resolved step list, in execution order.
func (r *Runner) Steps() []Step { return r.steps }

// RunSetup drives every step in order, exactly once each. Steps are never
// skipped because an earlier one failed: later steps report their own
// precondition failures, and the user gets a complete picture in one run.
// Failures are aggregated by step name and reported once at the end.
func (r *Runner) RunSetup() bool {
	r.console.Infof("Running %d setup steps...\n", len(r.steps))
	r.console.Printf("\n")

	var failed []string
	for i, step := range r.steps {
		r.console.Dimf("(%d/%d) ", i+1, len(r.steps))
		if !RunStep(step, r.force) {
			failed = append(failed, step.Name())
		}
	}

	if len(failed) > 0 {
		r.console.Errorf("\nFailed steps: %s\n", strings.Join(failed, ", "))
		return false
	}
	r.console.Successf("\nAll setup steps completed successfully!\n")
	return true
}
