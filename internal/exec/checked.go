package exec

import (
	"context"
	stderrors "errors"
	"strconv"
	"strings"

	"github.com/NielsdaWheelz/uvstart/internal/core"
	"github.com/NielsdaWheelz/uvstart/internal/errors"
)

// RunChecked runs a command and converts every failure into an AppError.
//
//   - ctx canceled => E_CANCELED
//   - timeout, binary missing, io failure => E_COMMAND_FAILED wrapping the cause
//   - non-zero exit => E_COMMAND_FAILED
//
// E_COMMAND_FAILED carries details "command" (shell-quoted argv), "stderr"
// and "exit_code". Nothing is retried.
func RunChecked(ctx context.Context, cr CommandRunner, name string, args []string, opts RunOpts) (CmdResult, error) {
	result, err := cr.Run(ctx, name, args, opts)
	if err != nil {
		return result, RunError(err, name, args, result)
	}

	if result.ExitCode != 0 {
		cmdline := core.FormatCommand(name, args)
		return result, errors.NewWithDetails(errors.ECommandFailed, "Command failed: "+cmdline, map[string]string{
			"command":   cmdline,
			"stderr":    strings.TrimSpace(result.Stderr),
			"exit_code": strconv.Itoa(result.ExitCode),
		})
	}

	return result, nil
}

// RunError converts an execution failure returned by CommandRunner.Run
// (not a non-zero exit) into an AppError. The cause stays reachable through
// errors.Is, so callers can still test for exec.ErrNotFound.
func RunError(err error, name string, args []string, result CmdResult) error {
	cmdline := core.FormatCommand(name, args)
	if stderrors.Is(err, context.Canceled) {
		return errors.WrapWithDetails(errors.ECanceled, "canceled: "+cmdline, err,
			map[string]string{"command": cmdline})
	}
	msg := "Command failed: " + cmdline
	if stderrors.Is(err, context.DeadlineExceeded) {
		msg = "Command timed out: " + cmdline
	}
	return errors.WrapWithDetails(errors.ECommandFailed, msg, err, map[string]string{
		"command": cmdline,
		"stderr":  strings.TrimSpace(result.Stderr),
	})
}
