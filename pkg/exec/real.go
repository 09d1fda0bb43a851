package exec

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
)

// ExecError wraps an execution error with the command output
type ExecError struct {
	Err    error
	Output string
}

func (e *ExecError) Error() string {
	return fmt.Sprintf("%v: %s", e.Err, e.Output)
}

// RealCommandExecutor implements CommandExecutor using the actual os/exec package.
// This is the production implementation that executes real system commands.
type RealCommandExecutor struct{}

// LookPath searches for an executable named file in the directories
// named by the PATH environment variable.
func (e *RealCommandExecutor) LookPath(file string) (string, error) {
	return exec.LookPath(file)
}

// Execute runs the command with the given name and arguments.
// It waits for the command to complete and returns any error.
func (e *RealCommandExecutor) Execute(name string, arg ...string) error {
	return e.ExecuteContext(context.Background(), name, arg...)
}

// ExecuteContext runs the command, killing it if ctx is cancelled.
// Cancellation is not reported as an error: a deliberately stopped
// command is a normal outcome for playback.
func (e *RealCommandExecutor) ExecuteContext(ctx context.Context, name string, arg ...string) error {
	cmd := exec.CommandContext(ctx, name, arg...)
	// Capture stderr to include in error messages
	output, err := cmd.CombinedOutput()
	if err != nil {
		if errors.Is(ctx.Err(), context.Canceled) {
			return nil
		}
		// Include the output in the error so we can check for specific error messages
		return &ExecError{
			Err:    err,
			Output: string(output),
		}
	}
	return nil
}
