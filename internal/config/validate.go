package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/NielsdaWheelz/uvstart/internal/catalog"
	"github.com/NielsdaWheelz/uvstart/internal/errors"
)

// ValidationError represents a single validation error with field context.
type ValidationError struct {
	Field string
	Msg   string
}

func (v *ValidationError) Error() string {
	if v.Field != "" {
		return v.Field + ": " + v.Msg
	}
	return v.Msg
}

// Validate checks field values and resolves the derived fields.
// Returns E_INVALID_CONFIG, with the field path in the message, on the first
// invalid field.
func Validate(s Settings) (Settings, error) {
	if s.Version != 1 {
		return s, invalid("version", "must be 1")
	}

	if strings.TrimSpace(s.Defaults.PythonVersion) == "" {
		return s, invalid("defaults.python_version", "must be a non-empty string")
	}
	if fw := s.Defaults.Framework; fw != "" {
		canonical, ok := catalog.LookupFramework(fw)
		if !ok {
			return s, invalid("defaults.framework", fmt.Sprintf("unknown framework %q", fw))
		}
		s.Defaults.Framework = canonical
	}
	if pt := s.Defaults.ProjectType; pt != "" && !catalog.IsProjectType(pt) {
		return s, invalid("defaults.project_type", fmt.Sprintf("unknown project type %q", pt))
	}

	if lic := s.Metadata.License; lic != "" && !catalog.IsLicense(lic) {
		return s, invalid("metadata.license", fmt.Sprintf("unsupported license %q (one of %s)", lic, strings.Join(catalog.Licenses, ", ")))
	}

	s.ResolvedTimeout = 0
	if raw := s.Tools.CommandTimeout; raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil {
			return s, invalid("tools.command_timeout", fmt.Sprintf("invalid duration %q", raw))
		}
		if d < 0 {
			return s, invalid("tools.command_timeout", "must not be negative")
		}
		s.ResolvedTimeout = d
	}

	level := s.LogLevel
	if level == "" {
		level = "warn"
	}
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		return s, invalid("log_level", fmt.Sprintf("unknown level %q", s.LogLevel))
	}
	s.ResolvedLogLevel = lvl

	return s, nil
}

func invalid(field, msg string) error {
	ve := &ValidationError{Field: field, Msg: msg}
	return errors.Wrap(errors.EInvalidConfig, "invalid config: "+ve.Error(), ve)
}

// FirstValidationError extracts a stable, human-readable message from an error.
// If the error wraps a ValidationError, returns "field: msg".
// Otherwise returns the AppError message or the error string.
func FirstValidationError(err error) string {
	if err == nil {
		return ""
	}
	for e := err; e != nil; {
		if ve, ok := e.(*ValidationError); ok {
			return ve.Error()
		}
		u, ok := e.(interface{ Unwrap() error })
		if !ok {
			break
		}
		e = u.Unwrap()
	}
	if ae, ok := errors.AsAppError(err); ok {
		return ae.Msg
	}
	return err.Error()
}
