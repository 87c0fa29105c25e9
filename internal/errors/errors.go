// Package errors defines the stable error code system for uvstart.
package errors

import (
	"errors"
	"fmt"
	"io"
	iofs "io/fs"
	"os"
	"syscall"
)

// Code is a stable error code string.
type Code string

// Error codes. Stable public contract.
const (
	EUsage Code = "E_USAGE"

	// Validation: raised before any side effect.
	EInvalidName        Code = "E_INVALID_NAME"
	EInvalidPath        Code = "E_INVALID_PATH"
	EProjectExists      Code = "E_PROJECT_EXISTS"
	EBaseDir            Code = "E_BASE_DIR"
	EUnknownFramework   Code = "E_UNKNOWN_FRAMEWORK"
	EUnknownProjectType Code = "E_UNKNOWN_PROJECT_TYPE"
	EInvalidConfig      Code = "E_INVALID_CONFIG"
	ETemplateInvalid    Code = "E_TEMPLATE_INVALID"
	EConfigExists       Code = "E_CONFIG_EXISTS"
	EBuildLocked        Code = "E_BUILD_LOCKED"

	// Tooling / subprocess
	ECommandFailed   Code = "E_COMMAND_FAILED"
	EUvNotFound      Code = "E_UV_NOT_FOUND"
	EGitNotInstalled Code = "E_GIT_NOT_INSTALLED"
	EGitIdentity     Code = "E_GIT_IDENTITY"

	// Filesystem
	EFilesystem Code = "E_FILESYSTEM"
	EManifest   Code = "E_MANIFEST"

	ECanceled Code = "E_CANCELED"
	EInternal Code = "E_INTERNAL"
)

// Kind groups codes into the failure classes a caller reacts to.
type Kind string

const (
	KindNone       Kind = ""
	KindUsage      Kind = "usage"
	KindValidation Kind = "validation"
	KindSubprocess Kind = "subprocess"
	KindFilesystem Kind = "filesystem"
	KindIdentity   Kind = "identity"
	KindCanceled   Kind = "canceled"
	KindUnexpected Kind = "unexpected"
)

var codeKinds = map[Code]Kind{
	EUsage:              KindUsage,
	EInvalidName:        KindValidation,
	EInvalidPath:        KindValidation,
	EProjectExists:      KindValidation,
	EBaseDir:            KindValidation,
	EUnknownFramework:   KindValidation,
	EUnknownProjectType: KindValidation,
	EInvalidConfig:      KindValidation,
	ETemplateInvalid:    KindValidation,
	EConfigExists:       KindValidation,
	EBuildLocked:        KindValidation,
	ECommandFailed:      KindSubprocess,
	EUvNotFound:         KindSubprocess,
	EGitNotInstalled:    KindSubprocess,
	EGitIdentity:        KindIdentity,
	EFilesystem:         KindFilesystem,
	EManifest:           KindFilesystem,
	ECanceled:           KindCanceled,
	EInternal:           KindUnexpected,
}

// AppError is the standard error type for uvstart errors.
type AppError struct {
	Code    Code
	Msg     string
	Cause   error
	Details map[string]string // optional structured context
}

// Error returns the stable error format: "CODE: message".
func (e *AppError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Msg)
}

// Unwrap returns the underlying cause for errors.Is/As compatibility.
func (e *AppError) Unwrap() error {
	return e.Cause
}

// New creates a new AppError with the given code and message.
func New(code Code, msg string) error {
	return &AppError{Code: code, Msg: msg}
}

// NewWithDetails creates a new AppError with code, message, and details.
// Details map is copied (nil if empty).
func NewWithDetails(code Code, msg string, details map[string]string) error {
	return &AppError{Code: code, Msg: msg, Details: copyDetails(details)}
}

// Wrap creates a new AppError wrapping an underlying error.
func Wrap(code Code, msg string, err error) error {
	return &AppError{Code: code, Msg: msg, Cause: err}
}

// WrapWithDetails creates a new AppError wrapping an underlying error with details.
// Details map is copied (nil if empty).
func WrapWithDetails(code Code, msg string, err error, details map[string]string) error {
	return &AppError{Code: code, Msg: msg, Cause: err, Details: copyDetails(details)}
}

// GetCode extracts the error code from an error, or empty string if not an AppError.
func GetCode(err error) Code {
	var ae *AppError
	if errors.As(err, &ae) {
		return ae.Code
	}
	return ""
}

// AsAppError returns (*AppError, true) if err is or wraps an AppError.
func AsAppError(err error) (*AppError, bool) {
	var ae *AppError
	if errors.As(err, &ae) {
		return ae, true
	}
	return nil, false
}

// IsFilesystem reports whether err is a raw I/O error from the os layer.
func IsFilesystem(err error) bool {
	var pathErr *iofs.PathError
	var linkErr *os.LinkError
	var errno syscall.Errno
	return errors.As(err, &pathErr) || errors.As(err, &linkErr) || errors.As(err, &errno)
}

// KindOf classifies err. AppErrors map through their code; raw os errors are
// filesystem failures; anything else is unexpected.
func KindOf(err error) Kind {
	if err == nil {
		return KindNone
	}
	if code := GetCode(err); code != "" {
		if k, ok := codeKinds[code]; ok {
			return k
		}
		return KindUnexpected
	}
	if IsFilesystem(err) {
		return KindFilesystem
	}
	return KindUnexpected
}

// copyDetails returns a copy of the details map, or nil if empty/nil.
func copyDetails(details map[string]string) map[string]string {
	if len(details) == 0 {
		return nil
	}
	cp := make(map[string]string, len(details))
	for k, v := range details {
		cp[k] = v
	}
	return cp
}

// ExitCode returns the appropriate exit code for an error.
// Returns 0 if err is nil, 2 for E_USAGE, 1 for all other errors.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	if GetCode(err) == EUsage {
		return 2
	}
	return 1
}

// Print writes the error to w in the stable stderr format:
//
//	error_code: <CODE>
//	<message>
//
// Command failures additionally print the captured stderr.
func Print(w io.Writer, err error) {
	if err == nil {
		return
	}
	var ae *AppError
	if errors.As(err, &ae) {
		fmt.Fprintf(w, "error_code: %s\n", ae.Code)
		fmt.Fprintln(w, ae.Msg)
		if stderr := ae.Details["stderr"]; stderr != "" {
			fmt.Fprintf(w, "\nerror output:\n%s\n", stderr)
		}
	} else {
		fmt.Fprintln(w, err.Error())
	}
}
