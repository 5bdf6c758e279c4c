package setup

import (
	"os/exec"
	"runtime"
	"strings"
)

// pythonCandidates is the priority-ordered list of interpreter command names
// tried when resolving a usable Python. The first one whose --version output
// reports a 3.1x line wins.
var pythonCandidates = []string{"python3.11", "python3", "python"}

// CommandExists reports whether the named command resolves on the search path.
func CommandExists(name string) bool {
	_, err := exec.LookPath(name)
	return err == nil
}

// NodeVersion returns the installed Node.js version string (e.g. "v20.11.1"),
// or "" if Node.js is not installed or the version query fails.
func NodeVersion() string {
	if !CommandExists("node") {
		return ""
	}
	res := Run([]string{"node", "--version"}, RunOptions{})
	if !res.Success {
		return ""
	}
	return res.Stdout
}

// PythonExecutable resolves a Python 3.11+ interpreter by trying a fixed
// priority list of command names and verifying each one's reported version.
// It returns the first accepted command name (not a path, so later steps
// invoke it by name again), or "" if no candidate qualifies.
func PythonExecutable() string {
	for _, candidate := range pythonCandidates {
		if !CommandExists(candidate) {
			continue
		}
		res := Run([]string{candidate, "--version"}, RunOptions{})
		if res.Success && strings.Contains(res.Stdout, "Python 3.1") {
			return candidate
		}
	}
	return ""
}

// SystemInfo describes the host this process is running on.
type SystemInfo struct {
	Platform     string // OS family, e.g. "darwin", "linux", "windows"
	Architecture string // CPU architecture, e.g. "arm64", "amd64"
	GoVersion    string // version of the Go runtime this binary was built with
}

// HostInfo returns the identity of the current host.
func HostInfo() SystemInfo {
	return SystemInfo{
		Platform:     runtime.GOOS,
		Architecture: runtime.GOARCH,
		GoVersion:    runtime.Version(),
	}
}
