package commands

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/NielsdaWheelz/uvstart/internal/errors"
	"github.com/NielsdaWheelz/uvstart/internal/fs"
	"github.com/NielsdaWheelz/uvstart/internal/paths"
	"github.com/NielsdaWheelz/uvstart/internal/scaffold"
)

// InitOpts holds options for the init command.
type InitOpts struct {
	Force bool
}

// InitResult holds the result of the init command for output formatting.
type InitResult struct {
	SettingsFile  string
	SettingsState string // "created" or "overwritten"
}

// Init implements the `uvstart init` command.
// Writes the commented settings template to the config directory.
func Init(fsys fs.FS, opts InitOpts, stdout io.Writer) error {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return errors.Wrap(errors.EInternal, "failed to get home directory", err)
	}
	configDir := paths.ResolveConfigDir(paths.OSEnv{}, homeDir)
	settingsPath := filepath.Join(configDir, paths.SettingsFileName)

	exists, err := fs.Exists(fsys, settingsPath)
	if err != nil {
		return errors.Wrap(errors.EFilesystem, "failed to check "+settingsPath, err)
	}
	if exists && !opts.Force {
		return errors.NewWithDetails(errors.EConfigExists,
			settingsPath+" already exists; use --force to overwrite",
			map[string]string{"path": settingsPath})
	}

	state := "created"
	if exists {
		state = "overwritten"
	}

	if err := fsys.MkdirAll(configDir, 0o755); err != nil {
		return errors.Wrap(errors.EFilesystem, "failed to create "+configDir, err)
	}
	if err := fs.WriteFileAtomic(fsys, settingsPath, []byte(scaffold.SettingsTemplate), 0o644); err != nil {
		return errors.Wrap(errors.EFilesystem, "failed to write "+settingsPath, err)
	}

	writeInitOutput(stdout, InitResult{SettingsFile: settingsPath, SettingsState: state})
	return nil
}

// writeInitOutput writes the stable key: value output for init.
func writeInitOutput(w io.Writer, r InitResult) {
	fmt.Fprintf(w, "settings_file: %s\n", r.SettingsFile)
	fmt.Fprintf(w, "settings: %s\n", r.SettingsState)
}
