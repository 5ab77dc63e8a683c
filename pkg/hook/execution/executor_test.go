package execution

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/nrook/prek/pkg/config"
)

// Helper function to create an ExitError with exit code 1
func createExitErrorWithCode1() *exec.ExitError {
	// Run a command that exits with code 1 to get a real ExitError
	cmd := exec.Command("false")
	err := cmd.Run()
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr
	}
	// Fallback: this should work on most systems
	return &exec.ExitError{ProcessState: &os.ProcessState{}}
}

func TestNewExecutor(t *testing.T) {
	ctx := &Context{
		Timeout: 30 * time.Second,
	}

	executor := NewExecutor(ctx)
	assert.NotNil(t, executor)
	assert.Equal(t, ctx, executor.ctx)
}

func TestExecutor_ExecuteWithTimeout(t *testing.T) {
	tests := []struct {
		name        string
		command     string
		timeout     time.Duration
		expectError bool
	}{
		{
			name:        "no timeout",
			command:     "echo",
			timeout:     0,
			expectError: false,
		},
		{
			name:        "with timeout - success",
			command:     "echo",
			timeout:     5 * time.Second,
			expectError: false,
		},
		{
			name:        "with timeout - timeout exceeded",
			command:     "sleep",
			timeout:     100 * time.Millisecond,
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := &Context{
				Timeout: tt.timeout,
			}
			executor := NewExecutor(ctx)

			var cmd *exec.Cmd
			switch tt.command {
			case "echo":
				cmd = exec.Command("echo", "test")
			case "sleep":
				cmd = exec.Command("sleep", "1")
			}

			output, err := executor.ExecuteWithTimeout(context.Background(), cmd)

			if tt.expectError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
				if tt.command == "echo" {
					assert.Contains(t, string(output), "test")
				}
			}
		})
	}
}

func TestExecutor_ProcessExecutionResult(t *testing.T) {
	tests := []struct {
		name          string
		output        []byte
		execErr       error
		hook          config.Hook
		modifiedFiles []string
		expectResult  Result
	}{
		{
			name:    "successful execution",
			output:  []byte("success output"),
			execErr: nil,
			hook: config.Hook{
				ID:   "test-hook",
				Name: "Test Hook",
			},
			expectResult: Result{
				Output:  "success output",
				Error:   "",
				Success: true,
			},
		},
		{
			name:    "failed execution with exit code",
			output:  []byte("failure output"),
			execErr: &exec.ExitError{},
			hook: config.Hook{
				ID:   "test-hook",
				Name: "Test Hook",
			},
			expectResult: Result{
				Output:   "failure output",
				Success:  false,
				ExitCode: -1, // ExitError returns -1 for ProcessState
				Error:    "", // Should be empty since we have useful output
			},
		},
		{
			name:    "failed execution with no output",
			output:  []byte(""),
			execErr: &exec.ExitError{},
			hook: config.Hook{
				ID:   "test-hook",
				Name: "Test Hook",
			},
			expectResult: Result{
				Output:   "",
				Success:  false,
				ExitCode: -1,                                 // ExitError returns -1 for ProcessState
				Error:    "Command failed with exit code -1", // Should show generic error since no useful output
			},
		},
		{
			name:          "successful execution but files were modified",
			output:        []byte("reformatted main.py"),
			execErr:       nil,
			modifiedFiles: []string{"main.py"},
			hook: config.Hook{
				ID:   "black",
				Name: "black",
			},
			expectResult: Result{
				Success: false,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := &Context{
				Timeout: 30 * time.Second,
			}
			executor := NewExecutor(ctx)

			result := &Result{}
			start := time.Now()

			executor.ProcessExecutionResult(result, tt.output, tt.execErr, tt.hook, start, tt.modifiedFiles)

			assert.Equal(t, tt.expectResult.Success, result.Success)
			if tt.expectResult.Error != "" {
				assert.Equal(t, tt.expectResult.Error, result.Error)
			}
			assert.GreaterOrEqual(t, result.Duration, time.Duration(0))
		})
	}
}

func TestExecutor_processExitCode(t *testing.T) {
	ctx := &Context{}
	executor := NewExecutor(ctx)

	tests := []struct {
		err          error
		name         string
		expectedCode int
	}{
		{
			name:         "exit error",
			err:          &exec.ExitError{},
			expectedCode: -1, // ExitError returns -1 for ProcessState
		},
		{
			name:         "other error",
			err:          exec.ErrNotFound,
			expectedCode: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := &Result{}
			executor.processExitCode(result, tt.err)
			assert.Equal(t, tt.expectedCode, result.ExitCode)
		})
	}
}

func TestExecutor_handleTimeoutError(t *testing.T) {
	ctx := &Context{
		Timeout: 1 * time.Second,
	}
	executor := NewExecutor(ctx)

	tests := []struct {
		err            error
		name           string
		expectedResult bool
	}{
		{
			name:           "timeout error",
			err:            context.DeadlineExceeded,
			expectedResult: true,
		},
		{
			name:           "other error",
			err:            exec.ErrNotFound,
			expectedResult: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := &Result{}
			isTimeout := executor.handleTimeoutError(result, tt.err)
			assert.Equal(t, tt.expectedResult, isTimeout)

			if tt.expectedResult {
				assert.Contains(t, result.Error, "timed out")
			}
		})
	}
}

func TestExecutor_handleExecutionError(t *testing.T) {
	ctx := &Context{}
	executor := NewExecutor(ctx)

	tests := []struct {
		name          string
		err           error
		output        string
		expectedError string
	}{
		{
			name:          "executable not found",
			err:           exec.ErrNotFound,
			output:        "",
			expectedError: "Executable not found",
		},
		{
			name:          "exit error with no output",
			err:           &exec.ExitError{},
			output:        "",
			expectedError: "Command failed with exit code",
		},
		{
			name:          "exit error with output",
			err:           &exec.ExitError{},
			output:        "some useful output from linter",
			expectedError: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := &Result{Output: tt.output}
			executor.handleExecutionError(result, tt.err)
			if tt.expectedError == "" {
				assert.Empty(t, result.Error)
			} else {
				assert.Contains(t, result.Error, tt.expectedError)
			}
		})
	}
}

func TestExecutor_isExecutableNotFoundError(t *testing.T) {
	ctx := &Context{}
	executor := NewExecutor(ctx)

	tests := []struct {
		err      error
		name     string
		expected bool
	}{
		{
			name:     "nil error",
			err:      nil,
			expected: false,
		},
		{
			name:     "not found error",
			err:      exec.ErrNotFound,
			expected: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := executor.isExecutableNotFoundError(tt.err)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestExecutor_determineHookSuccess(t *testing.T) {
	ctx := &Context{}
	executor := NewExecutor(ctx)

	tests := []struct {
		name            string
		execErr         error
		result          Result
		modifiedFiles   []string
		expectedSuccess bool
	}{
		{
			name:            "no error, no modifications",
			execErr:         nil,
			result:          Result{},
			expectedSuccess: true,
		},
		{
			name:            "no error but files modified",
			execErr:         nil,
			result:          Result{},
			modifiedFiles:   []string{"main.py"},
			expectedSuccess: false,
		},
		{
			name:    "timeout error",
			execErr: context.DeadlineExceeded,
			result: Result{
				Timeout: true,
			},
			expectedSuccess: false,
		},
		{
			name:    "executable not found",
			execErr: exec.ErrNotFound,
			result: Result{
				ExitCode: 1,
			},
			expectedSuccess: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := tt.result
			executor.determineHookSuccess(&result, tt.execErr, tt.modifiedFiles)
			assert.Equal(t, tt.expectedSuccess, result.Success)
		})
	}
}

func TestExecutor_addFilesModifiedMessage(t *testing.T) {
	ctx := &Context{Timeout: 30 * time.Second}
	executor := NewExecutor(ctx)

	t.Run("empty output, no files listed", func(t *testing.T) {
		result := &Result{Output: ""}
		executor.addFilesModifiedMessage(result, nil)
		assert.Equal(t, "- files were modified by this hook", result.Output)
	})

	t.Run("existing output gets message inserted", func(t *testing.T) {
		result := &Result{Output: "Hook execution details\n\nSome output here"}
		executor.addFilesModifiedMessage(result, nil)
		assert.Equal(t,
			"Hook execution details\n- files were modified by this hook\n\nSome output here",
			result.Output)
	})

	t.Run("modified file list appended to message", func(t *testing.T) {
		result := &Result{Output: ""}
		executor.addFilesModifiedMessage(result, []string{"main.py", "util.py"})
		assert.Contains(t, result.Output, "files were modified by this hook")
		assert.Contains(t, result.Output, "main.py")
		assert.Contains(t, result.Output, "util.py")
	})
}

func TestExecutor_handleExecutionError_EdgeCases(t *testing.T) {
	ctx := &Context{Timeout: 30 * time.Second}
	executor := NewExecutor(ctx)

	tests := []struct {
		name          string
		result        *Result
		err           error
		expectedError string
	}{
		{
			name: "exit error with output",
			result: &Result{
				Output: "Some linting errors found",
			},
			err:           createExitErrorWithCode1(),
			expectedError: "", // Should clear error when there's useful output
		},
		{
			name: "exit error without output",
			result: &Result{
				Output: "",
			},
			err:           createExitErrorWithCode1(),
			expectedError: "Command failed with exit code 1",
		},
		{
			name: "executable not found error",
			result: &Result{
				Output: "",
			},
			err:           os.ErrNotExist,
			expectedError: "Executable not found: file does not exist",
		},
		{
			name: "generic execution error",
			result: &Result{
				Output: "",
			},
			err:           fmt.Errorf("generic error"),
			expectedError: "Execution error: generic error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			executor.handleExecutionError(tt.result, tt.err)
			assert.Equal(t, tt.expectedError, tt.result.Error)
		})
	}
}

func TestExecutor_determineHookSuccess_EdgeCases(t *testing.T) {
	ctx := &Context{Timeout: 30 * time.Second}
	executor := NewExecutor(ctx)

	tests := []struct {
		execErr       error
		result        *Result
		name          string
		modifiedFiles []string
		expectPass    bool
	}{
		{
			name: "successful execution",
			result: &Result{
				ExitCode: 0,
				Output:   "All checks passed",
			},
			execErr:    nil,
			expectPass: true,
		},
		{
			name: "execution error - general failure",
			result: &Result{
				ExitCode: 1,
				Output:   "Test failure",
			},
			execErr:    &exec.ExitError{},
			expectPass: false,
		},
		{
			name: "timeout error",
			result: &Result{
				Timeout:  true,
				ExitCode: 124,
				Output:   "Command timed out",
			},
			execErr:    context.DeadlineExceeded,
			expectPass: false,
		},
		{
			name: "formatter rewrote files in place with exit 0",
			result: &Result{
				ExitCode: 0,
				Output:   "reformatted main.py",
			},
			modifiedFiles: []string{"main.py"},
			execErr:       nil,
			expectPass:    false, // files changed on disk should block the commit
		},
		{
			name: "formatter left files untouched",
			result: &Result{
				ExitCode: 0,
				Output:   "would reformat 0 files",
			},
			execErr:    nil,
			expectPass: true,
		},
		{
			name: "non-formatter with exit code 1",
			result: &Result{
				ExitCode: 1,
				Output:   "Linting errors found",
			},
			execErr:    &exec.ExitError{},
			expectPass: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Create a copy of the result to avoid side effects
			result := &Result{
				ExitCode: tt.result.ExitCode,
				Output:   tt.result.Output,
				Timeout:  tt.result.Timeout,
			}

			executor.determineHookSuccess(result, tt.execErr, tt.modifiedFiles)
			assert.Equal(t, tt.expectPass, result.Success)
		})
	}
}
