package setup

import (
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCommandExists(t *testing.T) {
	assert.True(t, CommandExists("sh"), "sh is always on the search path")
	assert.False(t, CommandExists("definitely-not-a-real-command-xyz"))
}

func TestNodeVersionAbsentWithoutNode(t *testing.T) {
	if CommandExists("node") {
		t.Skip("node is installed on this host")
	}
	assert.Equal(t, "", NodeVersion())
}

func TestHostInfoShape(t *testing.T) {
	info := HostInfo()
	assert.Equal(t, runtime.GOOS, info.Platform)
	assert.Equal(t, runtime.GOARCH, info.Architecture)
	assert.Equal(t, runtime.Version(), info.GoVersion)
}

func TestPythonCandidateOrder(t *testing.T) {
	// The resolution order is part of the contract: most specific first.
	assert.Equal(t, []string{"python3.11", "python3", "python"}, pythonCandidates)
}
