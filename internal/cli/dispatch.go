// Package cli handles command-line parsing and dispatch for uvstart.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/pflag"

	"github.com/NielsdaWheelz/uvstart/internal/commands"
	"github.com/NielsdaWheelz/uvstart/internal/errors"
	"github.com/NielsdaWheelz/uvstart/internal/exec"
	"github.com/NielsdaWheelz/uvstart/internal/fs"
	"github.com/NielsdaWheelz/uvstart/internal/version"
)

const usageText = `uvstart - scaffold uv-managed Python projects

usage: uvstart <command> [options]

commands:
  new         create a project: uv init, folders, starter files, venv, packages, git
  plan        show what new would create, without touching disk
  doctor      check uv, git and git identity, and show resolved paths
  list        list frameworks and project types with their packages
  init        write a settings file with the built-in defaults

options:
  -h, --help      show this help
  -v, --version   show version

run 'uvstart <command> --help' for command-specific help.
`

const buildFlagsText = `options:
  -d, --dir <path>            parent directory (default: settings defaults.base_dir)
      --python <version>      python version (default: settings defaults.python_version)
  -f, --framework <name>      UI framework, e.g. flet, PyQt6, streamlit
  -t, --type <name>           project type, e.g. fastapi, cli_typer, data_analysis
  -p, --package <pkg>         package to install; replaces framework/type packages (repeatable)
      --dev-package <pkg>     dev dependency (repeatable)
      --no-git                skip git repository and hub setup
      --no-starter-files      create listed files empty
      --folders <file>        folder layout file (.jsonc, .json, .yaml)
      --author <name>         author name for pyproject.toml
      --email <email>         author email for pyproject.toml
      --description <text>    project description for pyproject.toml
      --license <id>          license identifier, e.g. MIT
      --verbose               debug logging on stderr
  -h, --help                  show this help
`

const newUsageText = `usage: uvstart new <name> [options]

create a uv project at <dir>/<name>. with git enabled, a bare hub repository
is created at <hub_root>/<name>.git and the initial commit is pushed to it.
on any failure everything this command created is removed.

` + buildFlagsText + `
examples:
  uvstart new my_app --framework flet
  uvstart new api --type fastapi --dev-package pytest
  uvstart new tool --type cli_typer --no-git --dir ~/scratch
`

const planUsageText = `usage: uvstart plan <name> [options]

resolve and validate a build and print it: paths, packages, entry point and
the folder tree. nothing is created.

` + buildFlagsText

const doctorUsageText = `usage: uvstart doctor

check prerequisites and show resolved paths.
verifies uv, git, and that git user.name and user.email are set.

options:
  -h, --help    show this help
`

const listUsageText = `usage: uvstart list

list frameworks and project types with their packages and entry points.

options:
  -h, --help    show this help
`

const initUsageText = `usage: uvstart init [options]

write the settings file (config.yaml) with the built-in defaults.

options:
  --force       overwrite an existing settings file
  -h, --help    show this help
`

// Run parses arguments and dispatches to the appropriate subcommand.
// Returns an error if the command fails; the caller should print the error and exit.
func Run(args []string, stdout, stderr io.Writer) error {
	if len(args) == 0 {
		fmt.Fprint(stdout, usageText)
		return errors.New(errors.EUsage, "no command specified")
	}

	cmd := args[0]
	cmdArgs := args[1:]

	// Handle global flags
	if cmd == "-h" || cmd == "--help" {
		fmt.Fprint(stdout, usageText)
		return nil
	}
	if cmd == "-v" || cmd == "--version" {
		fmt.Fprintf(stdout, "uvstart %s\n", version.Version)
		return nil
	}

	switch cmd {
	case "new":
		return runNew(cmdArgs, stdout, stderr)
	case "plan":
		return runPlan(cmdArgs, stdout, stderr)
	case "doctor":
		return runDoctor(cmdArgs, stdout, stderr)
	case "list":
		return runList(cmdArgs, stdout, stderr)
	case "init":
		return runInit(cmdArgs, stdout, stderr)
	default:
		fmt.Fprint(stdout, usageText)
		return errors.New(errors.EUsage, fmt.Sprintf("unknown command: %s", cmd))
	}
}

// wantsHelp reports whether args ask for help. Help is handled before
// parsing so it returns nil (exit 0).
func wantsHelp(args []string) bool {
	for _, arg := range args {
		if arg == "-h" || arg == "--help" {
			return true
		}
	}
	return false
}

func newFlagSet(name string) *pflag.FlagSet {
	flagSet := pflag.NewFlagSet(name, pflag.ContinueOnError)
	flagSet.SetOutput(io.Discard)
	return flagSet
}

// bindBuildFlags registers the flags shared by new and plan.
func bindBuildFlags(flagSet *pflag.FlagSet, opts *commands.BuildOpts) {
	flagSet.StringVarP(&opts.Dir, "dir", "d", "", "parent directory")
	flagSet.StringVar(&opts.Python, "python", "", "python version")
	flagSet.StringVarP(&opts.Framework, "framework", "f", "", "UI framework")
	flagSet.StringVarP(&opts.ProjectType, "type", "t", "", "project type")
	flagSet.StringArrayVarP(&opts.Packages, "package", "p", nil, "package to install (repeatable)")
	flagSet.StringArrayVar(&opts.DevPackages, "dev-package", nil, "dev dependency (repeatable)")
	flagSet.BoolVar(&opts.NoGit, "no-git", false, "skip git setup")
	flagSet.BoolVar(&opts.NoStarterFiles, "no-starter-files", false, "create listed files empty")
	flagSet.StringVar(&opts.FoldersFile, "folders", "", "folder layout file")
	flagSet.StringVar(&opts.Author, "author", "", "author name")
	flagSet.StringVar(&opts.Email, "email", "", "author email")
	flagSet.StringVar(&opts.Description, "description", "", "project description")
	flagSet.StringVar(&opts.License, "license", "", "license identifier")
	flagSet.BoolVar(&opts.Verbose, "verbose", false, "debug logging")
}

// parseBuildArgs parses new/plan arguments: exactly one positional name.
func parseBuildArgs(name string, args []string, usage string, stderr io.Writer) (commands.BuildOpts, error) {
	var opts commands.BuildOpts
	flagSet := newFlagSet(name)
	bindBuildFlags(flagSet, &opts)

	if err := flagSet.Parse(args); err != nil {
		return opts, errors.Wrap(errors.EUsage, "invalid flags: "+err.Error(), err)
	}

	positional := flagSet.Args()
	switch {
	case len(positional) == 0:
		fmt.Fprint(stderr, usage)
		return opts, errors.New(errors.EUsage, "project name is required")
	case len(positional) > 1:
		return opts, errors.New(errors.EUsage, fmt.Sprintf("unexpected arguments: %v", positional[1:]))
	}
	opts.Name = positional[0]
	return opts, nil
}

func runNew(args []string, stdout, stderr io.Writer) error {
	if wantsHelp(args) {
		fmt.Fprint(stdout, newUsageText)
		return nil
	}

	opts, err := parseBuildArgs("new", args, newUsageText, stderr)
	if err != nil {
		return err
	}

	cwd, err := os.Getwd()
	if err != nil {
		return errors.Wrap(errors.EInternal, "failed to get working directory", err)
	}

	// Cancellation rolls the build back before returning.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Create real implementations
	cr := exec.NewRealRunner()
	fsys := fs.NewRealFS()

	return commands.New(ctx, cr, fsys, cwd, opts, newLogger(stderr), stdout, stderr)
}

func runPlan(args []string, stdout, stderr io.Writer) error {
	if wantsHelp(args) {
		fmt.Fprint(stdout, planUsageText)
		return nil
	}

	opts, err := parseBuildArgs("plan", args, planUsageText, stderr)
	if err != nil {
		return err
	}

	cwd, err := os.Getwd()
	if err != nil {
		return errors.Wrap(errors.EInternal, "failed to get working directory", err)
	}

	return commands.Plan(fs.NewRealFS(), cwd, opts, stdout)
}

func runDoctor(args []string, stdout, stderr io.Writer) error {
	if wantsHelp(args) {
		fmt.Fprint(stdout, doctorUsageText)
		return nil
	}

	flagSet := newFlagSet("doctor")
	if err := flagSet.Parse(args); err != nil {
		return errors.Wrap(errors.EUsage, "invalid flags: "+err.Error(), err)
	}
	if flagSet.NArg() > 0 {
		return errors.New(errors.EUsage, fmt.Sprintf("unexpected arguments: %v", flagSet.Args()))
	}

	cwd, err := os.Getwd()
	if err != nil {
		return errors.Wrap(errors.EInternal, "failed to get working directory", err)
	}

	return commands.Doctor(context.Background(), exec.NewRealRunner(), fs.NewRealFS(), cwd, stdout, stderr)
}

func runList(args []string, stdout, stderr io.Writer) error {
	if wantsHelp(args) {
		fmt.Fprint(stdout, listUsageText)
		return nil
	}

	flagSet := newFlagSet("list")
	if err := flagSet.Parse(args); err != nil {
		return errors.Wrap(errors.EUsage, "invalid flags: "+err.Error(), err)
	}
	if flagSet.NArg() > 0 {
		return errors.New(errors.EUsage, fmt.Sprintf("unexpected arguments: %v", flagSet.Args()))
	}

	return commands.List(stdout)
}

func runInit(args []string, stdout, stderr io.Writer) error {
	if wantsHelp(args) {
		fmt.Fprint(stdout, initUsageText)
		return nil
	}

	flagSet := newFlagSet("init")
	force := flagSet.Bool("force", false, "overwrite an existing settings file")
	if err := flagSet.Parse(args); err != nil {
		return errors.Wrap(errors.EUsage, "invalid flags: "+err.Error(), err)
	}
	if flagSet.NArg() > 0 {
		return errors.New(errors.EUsage, fmt.Sprintf("unexpected arguments: %v", flagSet.Args()))
	}

	return commands.Init(fs.NewRealFS(), commands.InitOpts{Force: *force}, stdout)
}

// newLogger writes human-readable logs to stderr. The level is applied by
// the command once settings are loaded.
func newLogger(stderr io.Writer) zerolog.Logger {
	return zerolog.New(zerolog.ConsoleWriter{Out: stderr, TimeFormat: time.Kitchen}).
		With().Timestamp().Logger()
}
