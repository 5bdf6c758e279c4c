package setup

import (
	"fmt"
	"runtime/debug"

	"wr-cli/internal/console"
)

// Step is one idempotent unit of environment setup: a named, described action
// with a completion check and an execution body.
//
// The interface is sealed to this package (it carries unexported methods), so
// the set of step variants is closed and profile selection can map project
// names to concrete instances directly.
//
// Contract:
//   - Name must be unique within one runner's step list; it doubles as the
//     key in the failure summary.
//   - IsCompleted must re-derive completion from observable host state
//     (command lookups, files, modification times) on every call, never from
//     cached in-memory history. Unless a step overrides it, a step is never
//     considered completed.
//   - Execute returns (false, nil) for a plain failure and a non-nil error
//     for a failure with detail. It must only be invoked through RunStep.
type Step interface {
	Name() string
	Description() string
	IsCompleted() bool
	Execute() (bool, error)

	sink() *console.Console
	isVerbose() bool
}

// baseStep carries the shared output sink and verbosity flag, and supplies
// the default completion predicate: never completed unless overridden.
type baseStep struct {
	console *console.Console
	verbose bool
}

func (b *baseStep) IsCompleted() bool      { return false }
func (b *baseStep) sink() *console.Console { return b.console }
func (b *baseStep) isVerbose() bool        { return b.verbose }

// RunStep is the only entry point for driving a step, and the single boundary
// where every failure signal is resolved into a boolean plus printed
// diagnostics. No error or panic escapes it.
//
// The state machine is one hop: skip when already completed (unless forced),
// otherwise execute once and report completed or failed. No retries.
func RunStep(s Step, force bool) bool {
	c := s.sink()

	if !force && s.IsCompleted() {
		c.Successf("✓ %s (already completed)\n", s.Name())
		return true
	}

	c.Infof("→ %s", s.Name())
	c.Printf(" - %s\n", s.Description())

	success, err, stack := execute(s)
	if err != nil {
		c.Errorf("✗ %s failed: %v\n", s.Name(), err)
		if s.isVerbose() && stack != nil {
			c.Errorf("%s\n", stack)
		}
		return false
	}
	if success {
		c.Successf("✓ %s completed\n", s.Name())
		return true
	}
	c.Errorf("✗ %s failed\n", s.Name())
	return false
}

// execute invokes the step body, converting a panic into an error plus the
// captured stack so RunStep can report it like any other failure.
func execute(s Step) (success bool, err error, stack []byte) {
	defer func() {
		if r := recover(); r != nil {
			success = false
			err = fmt.Errorf("%v", r)
			stack = debug.Stack()
		}
	}()
	success, err = s.Execute()
	return success, err, nil
}
