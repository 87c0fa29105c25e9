// Package uv drives the uv package manager: project init, virtual
// environment creation and batch dependency installation.
package uv

import (
	"context"
	"os"
	osexec "os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/NielsdaWheelz/uvstart/internal/errors"
	"github.com/NielsdaWheelz/uvstart/internal/exec"
)

// locator holds the environment Locate depends on.
type locator struct {
	lookPath func(string) (string, error)
	homeDir  func() (string, error)
	isFile   func(string) bool
	goos     string
}

var defaultLocator = locator{
	lookPath: osexec.LookPath,
	homeDir:  os.UserHomeDir,
	isFile: func(p string) bool {
		info, err := os.Stat(p)
		return err == nil && info.Mode().IsRegular()
	},
	goos: runtime.GOOS,
}

// Locate finds the uv executable.
//
// An explicit path is used as-is if it is a file, and resolved through PATH
// otherwise. Without one, PATH is searched, then ~/.local/bin, ~/.cargo/bin
// and (outside Windows) /usr/local/bin.
// Returns E_UV_NOT_FOUND when nothing matches.
func Locate(explicit string) (string, error) {
	return defaultLocator.locate(explicit)
}

func (l locator) locate(explicit string) (string, error) {
	if explicit != "" {
		if l.isFile(explicit) {
			return explicit, nil
		}
		if p, err := l.lookPath(explicit); err == nil {
			return p, nil
		}
		return "", errors.NewWithDetails(errors.EUvNotFound,
			"configured uv executable not found: "+explicit,
			map[string]string{"path": explicit})
	}

	if p, err := l.lookPath("uv"); err == nil {
		return p, nil
	}

	for _, candidate := range l.candidates() {
		if l.isFile(candidate) {
			return candidate, nil
		}
	}

	return "", errors.New(errors.EUvNotFound, "Could not find 'uv' executable. Please ensure uv is installed.")
}

// candidates lists well-known install locations in search order.
func (l locator) candidates() []string {
	name := "uv"
	if l.goos == "windows" {
		name = "uv.exe"
	}

	var out []string
	if home, err := l.homeDir(); err == nil && home != "" {
		out = append(out,
			filepath.Join(home, ".local", "bin", name),
			filepath.Join(home, ".cargo", "bin", name),
		)
	}
	if l.goos != "windows" {
		out = append(out, "/usr/local/bin/uv")
	}
	return out
}

// Client runs uv commands in a project directory.
type Client struct {
	runner  exec.CommandRunner
	path    string
	timeout time.Duration
	log     zerolog.Logger
}

// NewClient creates a Client for the uv executable at path. timeout applies
// to each invocation; zero means none.
func NewClient(cr exec.CommandRunner, path string, timeout time.Duration, log zerolog.Logger) *Client {
	return &Client{runner: cr, path: path, timeout: timeout, log: log}
}

// Path returns the uv executable in use.
func (c *Client) Path() string {
	return c.path
}

// Init runs `uv init --python <version> .` in projectPath.
func (c *Client) Init(ctx context.Context, projectPath, pythonVersion string) error {
	return c.run(ctx, projectPath, "init", "--python", pythonVersion, ".")
}

// CreateVenv runs `uv venv --python <version>` then `uv sync`.
func (c *Client) CreateVenv(ctx context.Context, projectPath, pythonVersion string) error {
	if err := c.run(ctx, projectPath, "venv", "--python", pythonVersion); err != nil {
		return err
	}
	return c.run(ctx, projectPath, "sync")
}

// Add installs packages with one `uv add [--dev] <pkg>...` invocation.
// No packages means no invocation.
func (c *Client) Add(ctx context.Context, projectPath string, packages []string, dev bool) error {
	if len(packages) == 0 {
		return nil
	}
	args := []string{"add"}
	if dev {
		args = append(args, "--dev")
	}
	args = append(args, packages...)
	return c.run(ctx, projectPath, args...)
}

// Version returns the output of `uv --version`.
func (c *Client) Version(ctx context.Context) (string, error) {
	result, err := exec.RunChecked(ctx, c.runner, c.path, []string{"--version"}, c.opts(""))
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(result.Stdout), nil
}

func (c *Client) run(ctx context.Context, dir string, args ...string) error {
	c.log.Debug().Str("dir", dir).Strs("args", args).Msg("uv")
	_, err := exec.RunChecked(ctx, c.runner, c.path, args, c.opts(dir))
	return err
}

// opts drops VIRTUAL_ENV; uv targets the project's .venv, not an
// environment active in the calling shell.
func (c *Client) opts(dir string) exec.RunOpts {
	return exec.RunOpts{Dir: dir, Unset: []string{"VIRTUAL_ENV"}, Timeout: c.timeout}
}
