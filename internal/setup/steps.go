package setup

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"golang.org/x/term"

	"wr-cli/internal/console"
)

// Indirections over the executor, probes, and host introspection.
// Step bodies go through these so tests can substitute fakes without
// touching the real machine.
var (
	commandExists    = CommandExists
	nodeVersion      = NodeVersion
	pythonExecutable = PythonExecutable
	runCommand       = Run
	runInteractive   = RunInteractive
	userHomeDir      = os.UserHomeDir
	hostOS           = runtime.GOOS

	// readSecret prompts for a secret without echoing it.
	readSecret = func(prompt string) (string, error) {
		fmt.Print(prompt)
		raw, err := term.ReadPassword(int(os.Stdin.Fd()))
		fmt.Println()
		return string(raw), err
	}

	// readLine prompts for a plain line of input.
	readLine = func(prompt string) (string, error) {
		fmt.Print(prompt)
		line, err := bufio.NewReader(os.Stdin).ReadString('\n')
		if err != nil && line == "" {
			return "", err
		}
		return strings.TrimRight(line, "\r\n"), nil
	}
)

// CheckNodeStep ensures Node.js is installed.
type CheckNodeStep struct{ baseStep }

// NewCheckNodeStep returns the Node.js presence check.
func NewCheckNodeStep(c *console.Console, verbose bool) *CheckNodeStep {
	return &CheckNodeStep{baseStep{console: c, verbose: verbose}}
}

func (s *CheckNodeStep) Name() string        { return "Check Node.js" }
func (s *CheckNodeStep) Description() string { return "Verify Node.js is installed" }
func (s *CheckNodeStep) IsCompleted() bool   { return commandExists("node") }

func (s *CheckNodeStep) Execute() (bool, error) {
	if s.IsCompleted() {
		if s.verbose {
			s.console.Printf("  Found Node.js %s\n", nodeVersion())
		}
		return true, nil
	}

	switch hostOS {
	case "darwin":
		s.console.Warnf("Node.js not found. Install with: brew install node\n")
	case "linux":
		s.console.Warnf("Node.js not found. Install with: sudo apt-get install nodejs npm\n")
	case "windows":
		s.console.Warnf("Node.js not found. Download from https://nodejs.org/\n")
	default:
		s.console.Warnf("Node.js not found. Please install Node.js from https://nodejs.org/\n")
	}
	return false, nil
}

// CheckPythonStep ensures a Python 3.11+ interpreter is installed.
type CheckPythonStep struct{ baseStep }

// NewCheckPythonStep returns the Python presence check.
func NewCheckPythonStep(c *console.Console, verbose bool) *CheckPythonStep {
	return &CheckPythonStep{baseStep{console: c, verbose: verbose}}
}

func (s *CheckPythonStep) Name() string        { return "Check Python" }
func (s *CheckPythonStep) Description() string { return "Verify Python 3.11+ is installed" }
func (s *CheckPythonStep) IsCompleted() bool   { return pythonExecutable() != "" }

func (s *CheckPythonStep) Execute() (bool, error) {
	if python := pythonExecutable(); python != "" {
		res := runCommand([]string{python, "--version"}, RunOptions{})
		if res.Success && s.verbose {
			s.console.Printf("  Found %s\n", res.Stdout)
		}
		return true, nil
	}

	switch hostOS {
	case "darwin":
		s.console.Warnf("Python 3.11+ not found. Install with: brew install python@3.11\n")
	case "linux":
		s.console.Warnf("Python 3.11+ not found. Install with: sudo apt-get install python3.11\n")
	case "windows":
		s.console.Warnf("Python 3.11+ not found. Download from https://python.org/\n")
	default:
		s.console.Warnf("Python 3.11+ not found. Please install Python 3.11+\n")
	}
	return false, nil
}

// InstallUvStep installs the uv package manager via its official install
// script. The script runs interactively so the user sees live progress.
type InstallUvStep struct{ baseStep }

// NewInstallUvStep returns the uv installer step.
func NewInstallUvStep(c *console.Console, verbose bool) *InstallUvStep {
	return &InstallUvStep{baseStep{console: c, verbose: verbose}}
}

func (s *InstallUvStep) Name() string        { return "Install uv" }
func (s *InstallUvStep) Description() string { return "Install uv package manager" }
func (s *InstallUvStep) IsCompleted() bool   { return commandExists("uv") }

func (s *InstallUvStep) Execute() (bool, error) {
	if s.IsCompleted() {
		return true, nil
	}

	var res Result
	if hostOS == "windows" {
		res = runInteractive([]string{
			"powershell", "-c", "irm https://astral.sh/uv/install.ps1 | iex",
		}, InteractiveOptions{ShowCommand: true})
	} else {
		res = runInteractive([]string{
			"sh", "-c", "curl -LsSf https://astral.sh/uv/install.sh | sh",
		}, InteractiveOptions{ShowCommand: true})
	}

	if !res.Success {
		s.console.Errorf("Failed to install uv\n")
		if res.Stderr != "" && s.verbose {
			s.console.Printf("  Error: %s\n", res.Stderr)
		}
		return false, nil
	}

	// The install script may have succeeded without landing on PATH.
	return commandExists("uv"), nil
}

// InstallGhstackStep installs ghstack as a uv tool.
type InstallGhstackStep struct{ baseStep }

// NewInstallGhstackStep returns the ghstack installer step.
func NewInstallGhstackStep(c *console.Console, verbose bool) *InstallGhstackStep {
	return &InstallGhstackStep{baseStep{console: c, verbose: verbose}}
}

func (s *InstallGhstackStep) Name() string        { return "Install ghstack" }
func (s *InstallGhstackStep) Description() string { return "Install ghstack for GitHub workflow" }
func (s *InstallGhstackStep) IsCompleted() bool   { return commandExists("ghstack") }

func (s *InstallGhstackStep) Execute() (bool, error) {
	if s.IsCompleted() {
		return true, nil
	}
	if !commandExists("uv") {
		s.console.Errorf("uv not installed, cannot install ghstack\n")
		return false, nil
	}

	res := runInteractive([]string{"uv", "tool", "install", "ghstack"}, InteractiveOptions{ShowCommand: true})
	if res.Success {
		return true, nil
	}
	s.console.Errorf("Failed to install ghstack: %s\n", res.Stderr)
	return false, nil
}

// SetupGhstackStep configures ghstack with GitHub authentication.
// It first lets ghstack configure itself interactively; if that leaves no
// config file behind, it prompts for a token and username and writes
// ~/.ghstackrc itself with owner-only permissions.
type SetupGhstackStep struct{ baseStep }

// NewSetupGhstackStep returns the ghstack configuration step.
func NewSetupGhstackStep(c *console.Console, verbose bool) *SetupGhstackStep {
	return &SetupGhstackStep{baseStep{console: c, verbose: verbose}}
}

func (s *SetupGhstackStep) Name() string        { return "Setup ghstack" }
func (s *SetupGhstackStep) Description() string { return "Configure ghstack with GitHub authentication" }

func (s *SetupGhstackStep) configPath() string {
	home, err := userHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".ghstackrc")
}

func (s *SetupGhstackStep) IsCompleted() bool {
	path := s.configPath()
	if path == "" {
		return false
	}
	_, err := os.Stat(path)
	return err == nil
}

func (s *SetupGhstackStep) Execute() (bool, error) {
	if !commandExists("ghstack") {
		s.console.Errorf("ghstack not installed\n")
		return false, nil
	}

	path := s.configPath()
	if path == "" {
		return false, fmt.Errorf("cannot resolve home directory")
	}

	// Running ghstack with no arguments lets it write its own config.
	_ = runInteractive([]string{"ghstack"}, InteractiveOptions{ShowCommand: true})
	if _, err := os.Stat(path); err == nil {
		return true, nil
	}

	s.console.Warnf("GitHub Personal Access Token required for ghstack\n")
	s.console.Warnf("Please create a token at: https://github.com/settings/tokens\n")
	s.console.Warnf("Required permissions: repo (full control)\n")

	token, err := readSecret("Enter your GitHub Personal Access Token: ")
	if err != nil {
		return false, err
	}
	if token = strings.TrimSpace(token); token == "" {
		s.console.Errorf("No token provided, skipping ghstack setup\n")
		return false, nil
	}

	username, err := readLine("Enter your GitHub username: ")
	if err != nil {
		return false, err
	}
	if username = strings.TrimSpace(username); username == "" {
		s.console.Errorf("No username provided, skipping ghstack setup\n")
		return false, nil
	}

	content := fmt.Sprintf("[ghstack]\ngithub_url = github.com\ngithub_oauth = %s\ngithub_username = %s\n", token, username)

	// Owner read/write only: the file holds a credential.
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		s.console.Errorf("Failed to create .ghstackrc: %v\n", err)
		return false, nil
	}
	if s.verbose {
		s.console.Printf("  Created %s\n", path)
	}
	return true, nil
}

// defaultPythonVersion is pinned when no .python-version file exists.
const defaultPythonVersion = "3.11"

// LockPythonVersionStep installs and pins the Python version named by the
// project's .python-version file via uv.
type LockPythonVersionStep struct{ baseStep }

// NewLockPythonVersionStep returns the version pinning step.
func NewLockPythonVersionStep(c *console.Console, verbose bool) *LockPythonVersionStep {
	return &LockPythonVersionStep{baseStep{console: c, verbose: verbose}}
}

func (s *LockPythonVersionStep) Name() string { return "Lock Python version" }
func (s *LockPythonVersionStep) Description() string {
	return "Install and pin Python version from .python-version file"
}

// targetVersion reads the pin file, falling back to the default when absent.
func (s *LockPythonVersionStep) targetVersion() string {
	raw, err := os.ReadFile(".python-version")
	if err != nil {
		return defaultPythonVersion
	}
	return strings.TrimSpace(string(raw))
}

// currentVersion asks uv for the active Python version, e.g. "3.11.13"
// extracted from output like "Python 3.11.13".
func (s *LockPythonVersionStep) currentVersion() string {
	res := runCommand([]string{"uv", "python", "--version"}, RunOptions{})
	if !res.Success || res.Stdout == "" {
		return ""
	}
	parts := strings.Fields(res.Stdout)
	if len(parts) >= 2 {
		return parts[1]
	}
	return ""
}

func (s *LockPythonVersionStep) IsCompleted() bool {
	current := s.currentVersion()
	if current == "" {
		return false
	}
	return versionMatches(s.targetVersion(), current)
}

// versionMatches compares an installed version against a pin target.
// A target with a patch component ("3.11.13") must match exactly; a
// minor-only target ("3.11") matches any patch level of that minor line.
func versionMatches(target, current string) bool {
	if strings.Count(target, ".") >= 2 {
		return current == target
	}
	return strings.HasPrefix(current, target+".")
}

func (s *LockPythonVersionStep) Execute() (bool, error) {
	if !commandExists("uv") {
		s.console.Errorf("uv not installed\n")
		return false, nil
	}

	target := s.targetVersion()

	// Install the target version first; an "already installed" complaint is
	// not a failure.
	res := runInteractive([]string{"uv", "python", "install", target}, InteractiveOptions{})
	if !res.Success && !strings.Contains(strings.ToLower(res.Stderr), "already installed") {
		s.console.Errorf("Failed to install Python %s: %s\n", target, res.Stderr)
		return false, nil
	}

	res = runInteractive([]string{"uv", "python", "pin", target}, InteractiveOptions{})
	if res.Success {
		if s.verbose {
			s.console.Printf("  Pinned Python version to %s\n", target)
		}
		return true, nil
	}
	s.console.Errorf("Failed to pin Python version: %s\n", res.Stderr)
	return false, nil
}

// SyncDependenciesStep installs and syncs project dependencies with uv.
type SyncDependenciesStep struct{ baseStep }

// NewSyncDependenciesStep returns the dependency sync step.
func NewSyncDependenciesStep(c *console.Console, verbose bool) *SyncDependenciesStep {
	return &SyncDependenciesStep{baseStep{console: c, verbose: verbose}}
}

func (s *SyncDependenciesStep) Name() string        { return "Sync dependencies" }
func (s *SyncDependenciesStep) Description() string { return "Install and sync project dependencies" }

// IsCompleted treats the sync as done when the lockfile exists and is at
// least as new as the manifest.
func (s *SyncDependenciesStep) IsCompleted() bool {
	lock, err := os.Stat("uv.lock")
	if err != nil {
		return false
	}
	manifest, err := os.Stat("pyproject.toml")
	if err != nil {
		return false
	}
	return !lock.ModTime().Before(manifest.ModTime())
}

func (s *SyncDependenciesStep) Execute() (bool, error) {
	if !commandExists("uv") {
		s.console.Errorf("uv not installed\n")
		return false, nil
	}

	res := runInteractive([]string{"uv", "sync"}, InteractiveOptions{})
	if res.Success {
		return true, nil
	}
	s.console.Errorf("Failed to sync dependencies: %s\n", res.Stderr)
	return false, nil
}

// defaultLocalPackages are the sibling directories installed as editable
// dependencies when the step is constructed without an explicit list.
var defaultLocalPackages = []string{"omnibus", "parsley"}

// InstallLocalPackagesStep adds local package directories as editable
// dependencies. It always re-runs: local checkouts change underneath us, so
// there is no meaningful completion state to probe.
type InstallLocalPackagesStep struct {
	baseStep
	packages []string
}

// NewInstallLocalPackagesStep returns the local package install step.
// A nil package list selects the defaults.
func NewInstallLocalPackagesStep(c *console.Console, verbose bool, packages []string) *InstallLocalPackagesStep {
	if packages == nil {
		packages = defaultLocalPackages
	}
	return &InstallLocalPackagesStep{
		baseStep: baseStep{console: c, verbose: verbose},
		packages: packages,
	}
}

func (s *InstallLocalPackagesStep) Name() string { return "Install local packages" }
func (s *InstallLocalPackagesStep) Description() string {
	return fmt.Sprintf("Install %s from local directories", strings.Join(s.packages, ", "))
}

// Execute attempts every named package. A package whose directory is absent
// is skipped silently; one whose directory lacks pyproject.toml is skipped
// but still counts against success. The step succeeds when at least one
// package installed, or when every target directory was absent.
func (s *InstallLocalPackagesStep) Execute() (bool, error) {
	if !commandExists("uv") {
		s.console.Errorf("uv not installed\n")
		return false, nil
	}

	installed := 0
	for _, pkg := range s.packages {
		if _, err := os.Stat(pkg); err != nil {
			if s.verbose {
				s.console.Printf("  %s/ directory not found, skipping\n", pkg)
			}
			continue
		}
		if _, err := os.Stat(filepath.Join(pkg, "pyproject.toml")); err != nil {
			if s.verbose {
				s.console.Printf("  %s/ has no pyproject.toml, skipping\n", pkg)
			}
			continue
		}

		res := runInteractive([]string{"uv", "add", "--editable", "./" + pkg}, InteractiveOptions{})
		if res.Success {
			installed++
			if s.verbose {
				s.console.Printf("  Added %s as editable dependency\n", pkg)
			}
		} else {
			s.console.Errorf("Failed to add %s: %s\n", pkg, res.Stderr)
		}
	}

	if installed > 0 {
		return true, nil
	}
	for _, pkg := range s.packages {
		if _, err := os.Stat(pkg); err == nil {
			return false, nil
		}
	}
	// Every target directory was absent; nothing to do is success.
	return true, nil
}
