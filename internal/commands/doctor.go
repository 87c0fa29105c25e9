package commands

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog"

	"github.com/NielsdaWheelz/uvstart/internal/errors"
	"github.com/NielsdaWheelz/uvstart/internal/exec"
	"github.com/NielsdaWheelz/uvstart/internal/fs"
	"github.com/NielsdaWheelz/uvstart/internal/git"
	"github.com/NielsdaWheelz/uvstart/internal/uv"
)

// DoctorReport holds all the data for doctor output.
type DoctorReport struct {
	// Directories
	ConfigDir       string
	SettingsFile    string
	SettingsPresent bool
	ProjectsDir     string
	HubRoot         string
	TemplatesDir    string // "embedded" when no override is configured

	// Tooling
	UVPath     string
	UVVersion  string
	GitVersion string
	GitUser    string
	GitEmail   string

	// Defaults
	PythonVersion  string
	CommandTimeout string
}

// Doctor implements the `uvstart doctor` command.
// Verifies uv, git and the git identity, and prints resolved paths.
func Doctor(ctx context.Context, cr exec.CommandRunner, fsys fs.FS, cwd string, stdout, stderr io.Writer) error {
	env, err := loadEnvironment(fsys)
	if err != nil {
		return err
	}
	timeout := env.Settings.ResolvedTimeout

	uvPath, err := locateUV(env.Settings.Tools.UV)
	if err != nil {
		return err
	}
	uvVersion, err := uv.NewClient(cr, uvPath, timeout, zerolog.Nop()).Version(ctx)
	if err != nil {
		return err
	}

	gitVersion, err := checkGit(ctx, cr)
	if err != nil {
		return err
	}

	if err := git.NewClient(cr, fsys, timeout, zerolog.Nop()).CheckIdentity(ctx, cwd); err != nil {
		return err
	}
	gitUser := gitConfig(ctx, cr, cwd, "user.name")
	gitEmail := gitConfig(ctx, cr, cwd, "user.email")

	settingsPresent, _ := fs.Exists(fsys, env.Dirs.SettingsFile())
	templatesDir := env.TemplatesDir
	if templatesDir == "" {
		templatesDir = "embedded"
	}
	commandTimeout := "none"
	if timeout > 0 {
		commandTimeout = timeout.String()
	}

	report := DoctorReport{
		ConfigDir:       env.Dirs.ConfigDir,
		SettingsFile:    env.Dirs.SettingsFile(),
		SettingsPresent: settingsPresent,
		ProjectsDir:     env.Dirs.ProjectsDir,
		HubRoot:         env.Dirs.HubRoot,
		TemplatesDir:    templatesDir,
		UVPath:          uvPath,
		UVVersion:       uvVersion,
		GitVersion:      gitVersion,
		GitUser:         gitUser,
		GitEmail:        gitEmail,
		PythonVersion:   env.Settings.Defaults.PythonVersion,
		CommandTimeout:  commandTimeout,
	}

	writeDoctorOutput(stdout, report)
	return nil
}

// checkGit verifies git is installed and returns its version.
func checkGit(ctx context.Context, cr exec.CommandRunner) (string, error) {
	result, err := cr.Run(ctx, git.Binary, []string{"--version"}, exec.RunOpts{})
	if err != nil {
		return "", errors.New(errors.EGitNotInstalled, "git is not installed or not on PATH")
	}
	if result.ExitCode != 0 {
		return "", errors.New(errors.EGitNotInstalled, "git --version failed")
	}
	return strings.TrimSpace(result.Stdout), nil
}

// gitConfig reads a git config value for display; failures read as "".
func gitConfig(ctx context.Context, cr exec.CommandRunner, dir, key string) string {
	result, err := cr.Run(ctx, git.Binary, []string{"config", key}, exec.RunOpts{Dir: dir})
	if err != nil || result.ExitCode != 0 {
		return ""
	}
	return strings.TrimSpace(result.Stdout)
}

// writeDoctorOutput writes the stable key: value output.
func writeDoctorOutput(w io.Writer, r DoctorReport) {
	// Directories
	fmt.Fprintf(w, "config_dir: %s\n", r.ConfigDir)
	fmt.Fprintf(w, "settings_file: %s\n", r.SettingsFile)
	fmt.Fprintf(w, "settings_present: %s\n", boolStr(r.SettingsPresent))
	fmt.Fprintf(w, "projects_dir: %s\n", r.ProjectsDir)
	fmt.Fprintf(w, "hub_root: %s\n", r.HubRoot)
	fmt.Fprintf(w, "templates_dir: %s\n", r.TemplatesDir)

	// Tooling
	fmt.Fprintf(w, "uv_path: %s\n", r.UVPath)
	fmt.Fprintf(w, "uv_version: %s\n", r.UVVersion)
	fmt.Fprintf(w, "git_version: %s\n", r.GitVersion)
	fmt.Fprintf(w, "git_user: %s\n", r.GitUser)
	fmt.Fprintf(w, "git_email: %s\n", r.GitEmail)

	// Defaults
	fmt.Fprintf(w, "python_version: %s\n", r.PythonVersion)
	fmt.Fprintf(w, "command_timeout: %s\n", r.CommandTimeout)

	fmt.Fprintln(w, "status: ok")
}

func boolStr(b bool) string {
	if b {
		return "true"
	}
	return "false"
}
