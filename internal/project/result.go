package project

import (
	"fmt"

	"github.com/NielsdaWheelz/uvstart/internal/errors"
)

// BuildResult is the one-shot outcome of a build.
// Message is always set. On failure, Err carries the typed cause and any
// cleanup has already been performed.
type BuildResult struct {
	Success bool
	Message string
	Err     error

	// CleanupErr is set when rollback itself failed. It never replaces Err.
	CleanupErr error
}

// Kind classifies the failure; KindNone on success.
func (r BuildResult) Kind() errors.Kind {
	return errors.KindOf(r.Err)
}

// Succeeded builds a success result for path.
func Succeeded(path string) BuildResult {
	return BuildResult{
		Success: true,
		Message: fmt.Sprintf("Project Created Successfully! Built at: %s", path),
	}
}

// Failed builds a failure result whose message depends on the error kind.
func Failed(err error) BuildResult {
	return BuildResult{Success: false, Message: FailureMessage(err), Err: err}
}

// FailureMessage renders err for the user.
//   - validation, identity, canceled: the error's own message
//   - subprocess: "Command failed: <cmd>" plus captured stderr
//   - filesystem: "Could not create project files: <err>"
//   - anything else: "An unexpected error occurred: <cause>"
func FailureMessage(err error) string {
	ae, isApp := errors.AsAppError(err)

	switch errors.KindOf(err) {
	case errors.KindValidation, errors.KindIdentity, errors.KindCanceled, errors.KindUsage:
		if isApp {
			return ae.Msg
		}
	case errors.KindSubprocess:
		if isApp {
			msg := ae.Msg
			if stderr := ae.Details["stderr"]; stderr != "" {
				msg += "\n\nError output:\n" + stderr
			}
			return msg
		}
	case errors.KindFilesystem:
		if isApp && ae.Cause != nil {
			return fmt.Sprintf("Could not create project files: %v", ae.Cause)
		}
		if isApp {
			return fmt.Sprintf("Could not create project files: %s", ae.Msg)
		}
		return fmt.Sprintf("Could not create project files: %v", err)
	}
	if isApp && ae.Cause != nil {
		return fmt.Sprintf("An unexpected error occurred: %v", ae.Cause)
	}
	return fmt.Sprintf("An unexpected error occurred: %v", err)
}
