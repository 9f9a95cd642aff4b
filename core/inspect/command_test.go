package inspect

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeRunner stands in for the external tool. Results are returned in order,
// one per invocation; the last invocation's arguments are recorded.
type fakeRunner struct {
	results  []*ExecutionResult
	err      error
	calls    int
	lastName string
	lastArgs []string
}

func (f *fakeRunner) run(name string, args ...string) (*ExecutionResult, error) {
	f.calls++
	f.lastName = name
	f.lastArgs = args
	if f.err != nil {
		return nil, f.err
	}
	result := f.results[0]
	if len(f.results) > 1 {
		f.results = f.results[1:]
	}
	return result, nil
}

func okResult(stdout string) *ExecutionResult {
	return &ExecutionResult{Stdout: []byte(stdout)}
}

func TestNewCommandManagerRunsProbe(t *testing.T) {
	runner := &fakeRunner{results: []*ExecutionResult{okResult("MediaInfo v23.10")}}

	mgr, err := newCommandManager("mediainfo", []string{"--version"}, runner)
	require.NoError(t, err)

	assert.Equal(t, "mediainfo", mgr.Command())
	assert.Equal(t, 1, runner.calls)
	assert.Equal(t, "mediainfo", runner.lastName)
	assert.Equal(t, []string{"--version"}, runner.lastArgs)
}

func TestNewCommandManagerProbeExitFailure(t *testing.T) {
	runner := &fakeRunner{results: []*ExecutionResult{{ExitCode: 127}}}

	mgr, err := newCommandManager("mediainfo", []string{"--version"}, runner)
	assert.Nil(t, mgr)
	assert.ErrorContains(t, err, "probe exited with status 127")
}

func TestNewCommandManagerProbeSpawnFailure(t *testing.T) {
	runner := &fakeRunner{err: errors.New("executable file not found in $PATH")}

	mgr, err := newCommandManager("mediainfo", []string{"--version"}, runner)
	assert.Nil(t, mgr)
	assert.ErrorContains(t, err, `could not load command "mediainfo"`)
}

func TestExecuteWithArgsPassesBoundCommand(t *testing.T) {
	runner := &fakeRunner{results: []*ExecutionResult{okResult("ok")}}
	mgr := &CommandManager{command: "mediainfo", runner: runner}

	result, err := mgr.ExecuteWithArgs([]string{"--output=JSON", "clip.mp4"})
	require.NoError(t, err)

	assert.True(t, result.Success())
	assert.Equal(t, "mediainfo", runner.lastName)
	assert.Equal(t, []string{"--output=JSON", "clip.mp4"}, runner.lastArgs)
}

func TestExecutionResultSuccess(t *testing.T) {
	assert.True(t, (&ExecutionResult{ExitCode: 0}).Success())
	assert.False(t, (&ExecutionResult{ExitCode: 1}).Success())
}
