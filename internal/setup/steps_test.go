package setup

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// chdir switches into dir for one test, restoring the original working
// directory on cleanup (stand-in for t.Chdir, which needs Go 1.24+).
func chdir(t *testing.T, dir string) {
	t.Helper()
	orig, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { require.NoError(t, os.Chdir(orig)) })
}

// stubExists replaces the command-existence probe for one test.
func stubExists(t *testing.T, fn func(string) bool) {
	t.Helper()
	orig := commandExists
	commandExists = fn
	t.Cleanup(func() { commandExists = orig })
}

// stubInteractive replaces interactive execution, recording every argv.
func stubInteractive(t *testing.T, result Result) *[][]string {
	t.Helper()
	var calls [][]string
	orig := runInteractive
	runInteractive = func(command []string, opts InteractiveOptions) Result {
		calls = append(calls, command)
		return result
	}
	t.Cleanup(func() { runInteractive = orig })
	return &calls
}

// stubCaptured replaces captured execution with a fixed result.
func stubCaptured(t *testing.T, result Result) {
	t.Helper()
	orig := runCommand
	runCommand = func(command []string, opts RunOptions) Result { return result }
	t.Cleanup(func() { runCommand = orig })
}

func stubHostOS(t *testing.T, goos string) {
	t.Helper()
	orig := hostOS
	hostOS = goos
	t.Cleanup(func() { hostOS = orig })
}

func TestCheckNodeStepMissingPrintsLinuxHint(t *testing.T) {
	c, buf := newTestConsole()
	stubExists(t, func(string) bool { return false })
	stubHostOS(t, "linux")

	step := NewCheckNodeStep(c, false)
	ok, err := step.Execute()

	require.NoError(t, err)
	assert.False(t, ok)
	assert.Contains(t, buf.String(), "sudo apt-get install nodejs npm")
}

func TestCheckNodeStepMissingGenericFallback(t *testing.T) {
	c, buf := newTestConsole()
	stubExists(t, func(string) bool { return false })
	stubHostOS(t, "plan9")

	step := NewCheckNodeStep(c, false)
	ok, err := step.Execute()

	require.NoError(t, err)
	assert.False(t, ok)
	assert.Contains(t, buf.String(), "Please install Node.js from https://nodejs.org/")
}

func TestCheckNodeStepPresentVerbose(t *testing.T) {
	c, buf := newTestConsole()
	stubExists(t, func(name string) bool { return name == "node" })
	origVersion := nodeVersion
	nodeVersion = func() string { return "v20.11.1" }
	t.Cleanup(func() { nodeVersion = origVersion })

	step := NewCheckNodeStep(c, true)
	ok, err := step.Execute()

	require.NoError(t, err)
	assert.True(t, ok)
	assert.True(t, step.IsCompleted())
	assert.Contains(t, buf.String(), "Found Node.js v20.11.1")
}

func TestCheckPythonStepMissingPrintsDarwinHint(t *testing.T) {
	c, buf := newTestConsole()
	orig := pythonExecutable
	pythonExecutable = func() string { return "" }
	t.Cleanup(func() { pythonExecutable = orig })
	stubHostOS(t, "darwin")

	step := NewCheckPythonStep(c, false)
	ok, err := step.Execute()

	require.NoError(t, err)
	assert.False(t, ok)
	assert.False(t, step.IsCompleted())
	assert.Contains(t, buf.String(), "brew install python@3.11")
}

func TestCheckPythonStepPresent(t *testing.T) {
	c, buf := newTestConsole()
	orig := pythonExecutable
	pythonExecutable = func() string { return "python3" }
	t.Cleanup(func() { pythonExecutable = orig })
	stubCaptured(t, Result{Success: true, Stdout: "Python 3.11.7"})

	step := NewCheckPythonStep(c, true)
	ok, err := step.Execute()

	require.NoError(t, err)
	assert.True(t, ok)
	assert.Contains(t, buf.String(), "Found Python 3.11.7")
}

func TestInstallUvStepAlreadyInstalled(t *testing.T) {
	c, _ := newTestConsole()
	stubExists(t, func(name string) bool { return name == "uv" })
	calls := stubInteractive(t, Result{Success: true})

	step := NewInstallUvStep(c, false)
	ok, err := step.Execute()

	require.NoError(t, err)
	assert.True(t, ok)
	assert.Empty(t, *calls, "no installer runs when uv already exists")
}

func TestInstallUvStepRunsInstallScript(t *testing.T) {
	c, _ := newTestConsole()
	// uv appears on PATH only after the install script has run.
	installed := false
	stubExists(t, func(name string) bool { return installed })
	stubHostOS(t, "linux")
	orig := runInteractive
	runInteractive = func(command []string, opts InteractiveOptions) Result {
		installed = true
		return Result{Success: true}
	}
	t.Cleanup(func() { runInteractive = orig })

	step := NewInstallUvStep(c, false)
	ok, err := step.Execute()

	require.NoError(t, err)
	assert.True(t, ok)
}

func TestInstallUvStepInstallFails(t *testing.T) {
	c, buf := newTestConsole()
	stubExists(t, func(string) bool { return false })
	stubHostOS(t, "linux")
	stubInteractive(t, Result{Success: false})

	step := NewInstallUvStep(c, false)
	ok, err := step.Execute()

	require.NoError(t, err)
	assert.False(t, ok)
	assert.Contains(t, buf.String(), "Failed to install uv")
}

func TestInstallGhstackStepRequiresUv(t *testing.T) {
	c, buf := newTestConsole()
	stubExists(t, func(string) bool { return false })
	calls := stubInteractive(t, Result{Success: true})

	step := NewInstallGhstackStep(c, false)
	ok, err := step.Execute()

	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, *calls, "precondition failure must happen before any subprocess")
	assert.Contains(t, buf.String(), "uv not installed, cannot install ghstack")
}

func TestInstallGhstackStepInstallsViaUv(t *testing.T) {
	c, _ := newTestConsole()
	stubExists(t, func(name string) bool { return name == "uv" })
	calls := stubInteractive(t, Result{Success: true})

	step := NewInstallGhstackStep(c, false)
	ok, err := step.Execute()

	require.NoError(t, err)
	assert.True(t, ok)
	require.Len(t, *calls, 1)
	assert.Equal(t, []string{"uv", "tool", "install", "ghstack"}, (*calls)[0])
}

func stubHome(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	orig := userHomeDir
	userHomeDir = func() (string, error) { return home, nil }
	t.Cleanup(func() { userHomeDir = orig })
	return home
}

func TestSetupGhstackStepCompletedWhenConfigExists(t *testing.T) {
	c, _ := newTestConsole()
	home := stubHome(t)
	require.NoError(t, os.WriteFile(filepath.Join(home, ".ghstackrc"), []byte("[ghstack]\n"), 0o600))

	step := NewSetupGhstackStep(c, false)
	assert.True(t, step.IsCompleted())
}

func TestSetupGhstackStepEmptyTokenFails(t *testing.T) {
	c, buf := newTestConsole()
	home := stubHome(t)
	stubExists(t, func(name string) bool { return name == "ghstack" })
	stubInteractive(t, Result{Success: false})

	origSecret := readSecret
	readSecret = func(prompt string) (string, error) { return "   ", nil }
	t.Cleanup(func() { readSecret = origSecret })

	step := NewSetupGhstackStep(c, false)
	ok, err := step.Execute()

	require.NoError(t, err)
	assert.False(t, ok)
	assert.Contains(t, buf.String(), "No token provided, skipping ghstack setup")
	assert.NoFileExists(t, filepath.Join(home, ".ghstackrc"), "no config may be written on abandoned prompt")
}

func TestSetupGhstackStepWritesConfig(t *testing.T) {
	c, _ := newTestConsole()
	home := stubHome(t)
	stubExists(t, func(name string) bool { return name == "ghstack" })
	stubInteractive(t, Result{Success: false})

	origSecret, origLine := readSecret, readLine
	readSecret = func(prompt string) (string, error) { return "ghp_token123", nil }
	readLine = func(prompt string) (string, error) { return "octocat", nil }
	t.Cleanup(func() { readSecret, readLine = origSecret, origLine })

	step := NewSetupGhstackStep(c, false)
	ok, err := step.Execute()

	require.NoError(t, err)
	assert.True(t, ok)

	path := filepath.Join(home, ".ghstackrc")
	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "github_oauth = ghp_token123")
	assert.Contains(t, string(raw), "github_username = octocat")

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm(), "credential file must be owner-only")
}

func TestVersionMatches(t *testing.T) {
	cases := []struct {
		target  string
		current string
		want    bool
	}{
		{"3.11.13", "3.11.13", true},
		{"3.11.13", "3.11.14", false},
		{"3.11", "3.11.7", true},
		{"3.11", "3.12.0", false},
		{"3.11", "3.11", false}, // minor pin requires an installed patch line
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, versionMatches(tc.target, tc.current),
			"target %q vs current %q", tc.target, tc.current)
	}
}

func TestLockPythonVersionTargetDefaults(t *testing.T) {
	c, _ := newTestConsole()
	chdir(t, t.TempDir())

	step := NewLockPythonVersionStep(c, false)
	assert.Equal(t, "3.11", step.targetVersion())
}

func TestLockPythonVersionTargetFromPinFile(t *testing.T) {
	c, _ := newTestConsole()
	chdir(t, t.TempDir())
	require.NoError(t, os.WriteFile(".python-version", []byte("3.11.13\n"), 0o644))

	step := NewLockPythonVersionStep(c, false)
	assert.Equal(t, "3.11.13", step.targetVersion())
}

func TestLockPythonVersionCompletion(t *testing.T) {
	c, _ := newTestConsole()
	chdir(t, t.TempDir())
	require.NoError(t, os.WriteFile(".python-version", []byte("3.11.13"), 0o644))
	stubCaptured(t, Result{Success: true, Stdout: "Python 3.11.13"})

	step := NewLockPythonVersionStep(c, false)
	assert.True(t, step.IsCompleted())
}

func TestLockPythonVersionIncompleteWithoutCurrent(t *testing.T) {
	c, _ := newTestConsole()
	chdir(t, t.TempDir())
	stubCaptured(t, Result{Success: false})

	step := NewLockPythonVersionStep(c, false)
	assert.False(t, step.IsCompleted())
}

func TestLockPythonVersionExecutePinsTarget(t *testing.T) {
	c, _ := newTestConsole()
	chdir(t, t.TempDir())
	stubExists(t, func(name string) bool { return name == "uv" })
	calls := stubInteractive(t, Result{Success: true})

	step := NewLockPythonVersionStep(c, false)
	ok, err := step.Execute()

	require.NoError(t, err)
	assert.True(t, ok)
	require.Len(t, *calls, 2)
	assert.Equal(t, []string{"uv", "python", "install", "3.11"}, (*calls)[0])
	assert.Equal(t, []string{"uv", "python", "pin", "3.11"}, (*calls)[1])
}

func TestSyncDependenciesCompletion(t *testing.T) {
	c, _ := newTestConsole()
	chdir(t, t.TempDir())
	step := NewSyncDependenciesStep(c, false)

	// Nothing on disk: not completed.
	assert.False(t, step.IsCompleted())

	require.NoError(t, os.WriteFile("pyproject.toml", []byte("[project]\n"), 0o644))
	require.NoError(t, os.WriteFile("uv.lock", []byte("version = 1\n"), 0o644))
	now := time.Now()
	require.NoError(t, os.Chtimes("pyproject.toml", now.Add(-time.Hour), now.Add(-time.Hour)))
	require.NoError(t, os.Chtimes("uv.lock", now, now))
	assert.True(t, step.IsCompleted(), "fresh lockfile means dependencies are synced")

	// Manifest edited after the last sync: stale again.
	require.NoError(t, os.Chtimes("pyproject.toml", now.Add(time.Hour), now.Add(time.Hour)))
	assert.False(t, step.IsCompleted())
}

func TestSyncDependenciesExecute(t *testing.T) {
	c, buf := newTestConsole()
	stubExists(t, func(name string) bool { return name == "uv" })
	calls := stubInteractive(t, Result{Success: false})

	step := NewSyncDependenciesStep(c, false)
	ok, err := step.Execute()

	require.NoError(t, err)
	assert.False(t, ok)
	require.Len(t, *calls, 1)
	assert.Equal(t, []string{"uv", "sync"}, (*calls)[0])
	assert.Contains(t, buf.String(), "Failed to sync dependencies")
}

func TestInstallLocalPackagesAllDirectoriesAbsent(t *testing.T) {
	c, _ := newTestConsole()
	chdir(t, t.TempDir())
	stubExists(t, func(name string) bool { return name == "uv" })
	calls := stubInteractive(t, Result{Success: true})

	step := NewInstallLocalPackagesStep(c, false, []string{"omnibus", "parsley"})
	ok, err := step.Execute()

	require.NoError(t, err)
	assert.True(t, ok, "no target directories at all is vacuous success")
	assert.Empty(t, *calls)
}

func TestInstallLocalPackagesMissingManifestDoesNotCount(t *testing.T) {
	c, _ := newTestConsole()
	chdir(t, t.TempDir())
	stubExists(t, func(name string) bool { return name == "uv" })
	calls := stubInteractive(t, Result{Success: true})

	// Directory exists but has no pyproject.toml: skipped, and the skip does
	// not count as success because the directory was present.
	require.NoError(t, os.Mkdir("omnibus", 0o755))

	step := NewInstallLocalPackagesStep(c, false, []string{"omnibus"})
	ok, err := step.Execute()

	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, *calls)
}

func TestInstallLocalPackagesOneInstalledOneSkipped(t *testing.T) {
	c, _ := newTestConsole()
	chdir(t, t.TempDir())
	stubExists(t, func(name string) bool { return name == "uv" })
	calls := stubInteractive(t, Result{Success: true})

	require.NoError(t, os.Mkdir("omnibus", 0o755))
	require.NoError(t, os.WriteFile(filepath.Join("omnibus", "pyproject.toml"), []byte("[project]\n"), 0o644))
	require.NoError(t, os.Mkdir("parsley", 0o755)) // no manifest

	step := NewInstallLocalPackagesStep(c, false, []string{"omnibus", "parsley"})
	ok, err := step.Execute()

	require.NoError(t, err)
	assert.True(t, ok, "one successful install carries the step")
	require.Len(t, *calls, 1)
	assert.Equal(t, []string{"uv", "add", "--editable", "./omnibus"}, (*calls)[0])
}

func TestInstallLocalPackagesInstallFailure(t *testing.T) {
	c, buf := newTestConsole()
	chdir(t, t.TempDir())
	stubExists(t, func(name string) bool { return name == "uv" })
	stubInteractive(t, Result{Success: false})

	require.NoError(t, os.Mkdir("omnibus", 0o755))
	require.NoError(t, os.WriteFile(filepath.Join("omnibus", "pyproject.toml"), []byte("[project]\n"), 0o644))

	step := NewInstallLocalPackagesStep(c, false, []string{"omnibus"})
	ok, err := step.Execute()

	require.NoError(t, err)
	assert.False(t, ok)
	assert.Contains(t, buf.String(), "Failed to add omnibus")
}

func TestInstallLocalPackagesDefaults(t *testing.T) {
	c, _ := newTestConsole()
	step := NewInstallLocalPackagesStep(c, false, nil)
	assert.Equal(t, "Install omnibus, parsley from local directories", step.Description())
	assert.False(t, step.IsCompleted(), "local package install always re-runs")
}
