package console

import (
	"fmt"
	"io"

	"github.com/fatih/color" // Colored console output via FprintfFunc printers
)

// Console is the styled output sink shared by every component of the CLI.
// It wraps a set of fatih/color FprintfFunc printers bound to a single
// io.Writer, so the whole program writes through one place and tests can
// substitute a buffer to capture output.
//
// Styling is carried by the method chosen, not by markup in the text:
// Successf prints green, Infof blue, Warnf yellow, Errorf red, Dimf faint,
// Boldf bold. Printf prints unstyled. None of the methods append a newline;
// callers put "\n" in the format string. Leaving it out is how the setup
// runner writes its "(i/total) " counter prefix inline before a step's own
// first line.
type Console struct {
	out io.Writer

	success func(w io.Writer, format string, a ...any)
	info    func(w io.Writer, format string, a ...any)
	warn    func(w io.Writer, format string, a ...any)
	err     func(w io.Writer, format string, a ...any)
	dim     func(w io.Writer, format string, a ...any)
	bold    func(w io.Writer, format string, a ...any)
	plain   func(w io.Writer, format string, a ...any)
}

// New returns a Console writing to the given writer.
// Pass color.Output for a real terminal (it handles Windows consoles),
// or any buffer in tests.
func New(out io.Writer) *Console {
	return &Console{
		out:     out,
		success: color.New(color.FgGreen).FprintfFunc(),
		info:    color.New(color.FgBlue).FprintfFunc(),
		warn:    color.New(color.FgYellow).FprintfFunc(),
		err:     color.New(color.FgRed).FprintfFunc(),
		dim:     color.New(color.Faint).FprintfFunc(),
		bold:    color.New(color.Bold).FprintfFunc(),
		plain:   func(w io.Writer, format string, a ...any) { _, _ = fmt.Fprintf(w, format, a...) },
	}
}

// Printf writes unstyled text.
func (c *Console) Printf(format string, a ...any) {
	c.plain(c.out, format, a...)
}

// Successf writes green text, used for completed steps and overall success.
func (c *Console) Successf(format string, a ...any) {
	c.success(c.out, format, a...)
}

// Infof writes blue text, used for progress and headings.
func (c *Console) Infof(format string, a ...any) {
	c.info(c.out, format, a...)
}

// Warnf writes yellow text, used for install hints and recoverable conditions.
func (c *Console) Warnf(format string, a ...any) {
	c.warn(c.out, format, a...)
}

// Errorf writes red text, used for failures.
func (c *Console) Errorf(format string, a ...any) {
	c.err(c.out, format, a...)
}

// Dimf writes faint text, used for the step counter prefix.
func (c *Console) Dimf(format string, a ...any) {
	c.dim(c.out, format, a...)
}

// Boldf writes bold text, used for banners.
func (c *Console) Boldf(format string, a ...any) {
	c.bold(c.out, format, a...)
}
