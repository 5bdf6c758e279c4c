package setup

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
)

// Result is the uniform outcome of every subprocess invocation.
// Stdout and Stderr are always present as (possibly empty) strings, never
// absent, so callers can test non-emptiness directly. A Result is never
// mutated after it is returned.
type Result struct {
	Success bool   // true iff the process exited with status zero
	Stdout  string // trimmed captured stdout; always "" for interactive runs
	Stderr  string // trimmed captured stderr, or a fixed diagnostic; "" for interactive runs
}

// RunOptions controls captured execution.
type RunOptions struct {
	// Dir is the working directory for the command. Empty means inherit.
	Dir string
	// Interactive attaches the child to this process's own stdio instead of
	// capturing. Output fields come back empty and only the exit status matters.
	Interactive bool
}

// Run executes a command given as an argument vector and captures its output.
//
// Outcomes are normalized rather than raised:
//   - exit status zero         -> {true, stdout, stderr}
//   - non-zero exit            -> {false, stdout, stderr} with whatever the process wrote
//   - executable not found     -> {false, "", "Command not found: <argv0>"}
//   - any other launch failure -> {false, "", <error text>}
//
// Captured text has surrounding whitespace trimmed. With opts.Interactive set,
// nothing is captured and both text fields are empty on every path.
func Run(command []string, opts RunOptions) Result {
	cmd := exec.Command(command[0], command[1:]...)
	cmd.Dir = opts.Dir

	if opts.Interactive {
		cmd.Stdin = os.Stdin
		cmd.Stdout = os.Stdout
		cmd.Stderr = os.Stderr
		err := cmd.Run()
		if err != nil && notFound(err) {
			return Result{Success: false, Stdout: "", Stderr: "Command not found: " + command[0]}
		}
		return Result{Success: err == nil, Stdout: "", Stderr: ""}
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	out := strings.TrimSpace(stdout.String())
	errOut := strings.TrimSpace(stderr.String())

	if err == nil {
		return Result{Success: true, Stdout: out, Stderr: errOut}
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		// The process ran and exited non-zero; report its own output.
		return Result{Success: false, Stdout: out, Stderr: errOut}
	}
	if notFound(err) {
		return Result{Success: false, Stdout: "", Stderr: "Command not found: " + command[0]}
	}
	return Result{Success: false, Stdout: "", Stderr: err.Error()}
}

// InteractiveOptions controls interactive execution.
type InteractiveOptions struct {
	// Dir is the working directory for the command. Empty means inherit.
	Dir string
	// ShowCommand prints the command line before running it.
	ShowCommand bool
}

// RunInteractive executes a command with the child's stdin, stdout, and stderr
// connected directly to the controlling terminal, so installers can prompt the
// user and show live progress. Nothing is captured: both text fields are empty
// on success and failure alike, and only the boolean reflects the exit status.
// A failure to launch at all is converted into a failure Result whose Stderr
// explains the cause; it never propagates.
func RunInteractive(command []string, opts InteractiveOptions) Result {
	if opts.ShowCommand {
		fmt.Printf("$ %s\n", strings.Join(command, " "))
	}

	cmd := exec.Command(command[0], command[1:]...)
	cmd.Dir = opts.Dir
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Start(); err != nil {
		return Result{Success: false, Stdout: "", Stderr: fmt.Sprintf("Error running command: %v", err)}
	}
	err := cmd.Wait()
	return Result{Success: err == nil, Stdout: "", Stderr: ""}
}

// notFound reports whether err means the executable could not be located,
// as opposed to the process running and failing.
func notFound(err error) bool {
	return errors.Is(err, exec.ErrNotFound) || errors.Is(err, os.ErrNotExist)
}
