package commands

import (
	"bytes"
	"errors"
	"fmt"
	"os/exec"
	"sort"
	"strings"

	"wr-cli/internal/config"
	"wr-cli/internal/console"
)

// ExitError reports that a configured command ran but exited non-zero.
// The CLI layer uses Code to pass the command's own exit status through.
type ExitError struct {
	Name string
	Code int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("command '%s' failed with exit code %d", e.Name, e.Code)
}

// Run executes a shell command line defined under `commands:` in wr.yml.
// The command runs through the shell with its output captured and relayed to
// the console afterward. An unknown name returns an error listing what is
// available; a non-zero exit returns an *ExitError carrying the exit code.
func Run(name string, cfg config.Config, c *console.Console) error {
	command, ok := cfg.Commands[name]
	if !ok {
		available := make([]string, 0, len(cfg.Commands))
		for n := range cfg.Commands {
			available = append(available, n)
		}
		sort.Strings(available)
		return fmt.Errorf("command '%s' not found. Available commands: %s",
			name, strings.Join(available, ", "))
	}

	c.Infof("Running: ")
	c.Printf("%s\n", command)

	cmd := exec.Command("sh", "-c", command)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	if err == nil {
		if stdout.Len() > 0 {
			c.Printf("%s", stdout.String())
		}
		c.Successf("✓ Command '%s' completed successfully\n", name)
		return nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		c.Errorf("✗ Command '%s' failed with exit code %d\n", name, exitErr.ExitCode())
		if stdout.Len() > 0 {
			c.Warnf("stdout:\n")
			c.Printf("%s", stdout.String())
		}
		if stderr.Len() > 0 {
			c.Errorf("stderr:\n")
			c.Printf("%s", stderr.String())
		}
		return &ExitError{Name: name, Code: exitErr.ExitCode()}
	}
	return fmt.Errorf("failed to run command '%s': %w", name, err)
}
