package inspect

import (
	"bytes"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"mediascope/logger"
)

// ExecutionResult captures one finished run of the external tool.
type ExecutionResult struct {
	Stdout   []byte
	Stderr   []byte
	ExitCode int
}

// Success reports whether the tool exited with status zero.
func (r *ExecutionResult) Success() bool {
	return r.ExitCode == 0
}

// runner lets tests stub the external tool invocation.
type runner interface {
	run(name string, args ...string) (*ExecutionResult, error)
}

type execRunner struct{}

func (execRunner) run(name string, args ...string) (*ExecutionResult, error) {
	cmd := exec.Command(name, args...)
	var out, errb bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &errb

	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			// The tool ran but reported failure; the caller decides what
			// to do with the captured output.
			return &ExecutionResult{
				Stdout:   out.Bytes(),
				Stderr:   errb.Bytes(),
				ExitCode: exitErr.ExitCode(),
			}, nil
		}
		return nil, fmt.Errorf("failed to spawn %s: %w", name, err)
	}

	return &ExecutionResult{Stdout: out.Bytes(), Stderr: errb.Bytes()}, nil
}

// CommandManager binds a verified external command. Construction runs a
// one-time probe so that a missing or broken tool fails fast instead of
// surfacing on the first extraction.
type CommandManager struct {
	command string
	runner  runner
}

// NewCommandManager verifies that command can be executed with verifyArgs
// (typically a --version probe) and returns a manager bound to it.
func NewCommandManager(command string, verifyArgs []string) (*CommandManager, error) {
	return newCommandManager(command, verifyArgs, execRunner{})
}

func newCommandManager(command string, verifyArgs []string, r runner) (*CommandManager, error) {
	result, err := r.run(command, verifyArgs...)
	if err != nil {
		return nil, fmt.Errorf("could not load command %q: %w", command, err)
	}
	if !result.Success() {
		return nil, fmt.Errorf("command %q probe exited with status %d", command, result.ExitCode)
	}

	logger.Debug("external command verified",
		logger.String("command", command),
		logger.String("probe", strings.Join(verifyArgs, " ")))

	return &CommandManager{command: command, runner: r}, nil
}

// Command returns the bound executable path.
func (m *CommandManager) Command() string {
	return m.command
}

// ExecuteWithArgs runs the bound command with the given arguments, capturing
// stdout, stderr and the exit status. The returned error is non-nil only when
// the process could not be spawned at all.
func (m *CommandManager) ExecuteWithArgs(args []string) (*ExecutionResult, error) {
	logger.Debug("executing command",
		logger.String("command", m.command),
		logger.String("args", strings.Join(args, " ")))

	return m.runner.run(m.command, args...)
}
