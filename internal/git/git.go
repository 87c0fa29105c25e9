// Package git drives the git binary through exec.CommandRunner to set up a
// generated project: a local repository, a bare hub repository acting as
// origin, and the initial commit.
package git

import (
	"context"
	stderrors "errors"
	osexec "os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/NielsdaWheelz/uvstart/internal/errors"
	"github.com/NielsdaWheelz/uvstart/internal/exec"
	"github.com/NielsdaWheelz/uvstart/internal/fs"
)

const (
	// Binary is the git executable name.
	Binary = "git"
	// Remote is the name of the hub remote.
	Remote = "origin"
	// Branch is the initial branch of new repositories.
	Branch = "main"
	// CommitMessage is used for the initial commit.
	CommitMessage = "Initial commit: Full project structure"
)

// IdentityHelp is appended to E_GIT_IDENTITY errors.
const IdentityHelp = "Run these commands to fix it:\n" +
	"  git config --global user.name \"Your Name\"\n" +
	"  git config --global user.email \"you@example.com\""

// HubPath returns hubRoot/<basename(projectPath)>.git.
func HubPath(hubRoot, projectPath string) string {
	return filepath.Join(hubRoot, filepath.Base(filepath.Clean(projectPath))+".git")
}

// Client runs git for one build.
type Client struct {
	runner  exec.CommandRunner
	fsys    fs.FS
	timeout time.Duration
	log     zerolog.Logger
}

// NewClient creates a Client. timeout applies to each git invocation; zero
// means none.
func NewClient(cr exec.CommandRunner, fsys fs.FS, timeout time.Duration, log zerolog.Logger) *Client {
	return &Client{runner: cr, fsys: fsys, timeout: timeout, log: log}
}

// FinalizeResult reports what Finalize did.
type FinalizeResult struct {
	Committed bool
	Pushed    bool
}

// Bootstrap prepares version control for projectPath.
//
// Disabled: any .git directory already in projectPath (uv init creates one)
// is removed.
//
// Enabled, each step skipped when already done:
//   - git init --initial-branch=main in projectPath, unless .git exists
//   - git init --bare in hubPath, unless hubPath/HEAD exists
//   - origin pointed at hubPath: added when missing, set-url when different
//
// Calling Bootstrap again on the same paths changes nothing.
func (c *Client) Bootstrap(ctx context.Context, projectPath, hubPath string, enabled bool) error {
	gitDir := filepath.Join(projectPath, ".git")

	if !enabled {
		if fs.IsDir(c.fsys, gitDir) {
			c.log.Debug().Str("path", gitDir).Msg("removing .git (git disabled)")
			if err := c.fsys.RemoveAll(gitDir); err != nil {
				return errors.Wrap(errors.EFilesystem, "failed to remove "+gitDir, err)
			}
		}
		return nil
	}

	if fs.IsDir(c.fsys, gitDir) {
		c.log.Debug().Str("path", projectPath).Msg("local repository exists, skipping init")
	} else {
		if _, err := c.run(ctx, projectPath, "init", "--initial-branch="+Branch); err != nil {
			return err
		}
	}

	if err := c.fsys.MkdirAll(hubPath, 0o755); err != nil {
		return errors.Wrap(errors.EFilesystem, "failed to create hub directory "+hubPath, err)
	}
	if fs.IsRegular(c.fsys, filepath.Join(hubPath, "HEAD")) {
		c.log.Debug().Str("hub", hubPath).Msg("hub repository exists, skipping bare init")
	} else {
		if _, err := c.run(ctx, hubPath, "init", "--bare"); err != nil {
			return err
		}
	}

	return c.attachRemote(ctx, projectPath, hubPath)
}

// attachRemote points origin at hubPath.
func (c *Client) attachRemote(ctx context.Context, projectPath, hubPath string) error {
	current, present, err := c.OriginURL(ctx, projectPath)
	if err != nil {
		return err
	}

	switch {
	case !present:
		_, err = c.run(ctx, projectPath, "remote", "add", Remote, hubPath)
	case current != hubPath:
		c.log.Debug().Str("from", current).Str("to", hubPath).Msg("updating origin url")
		_, err = c.run(ctx, projectPath, "remote", "set-url", Remote, hubPath)
	default:
		c.log.Debug().Str("url", current).Msg("origin already attached")
	}
	return err
}

// OriginURL returns the URL of origin. present is false when the remote
// does not exist.
func (c *Client) OriginURL(ctx context.Context, repoPath string) (url string, present bool, err error) {
	result, err := c.runner.Run(ctx, Binary, []string{"remote", "get-url", Remote},
		c.opts(repoPath))
	if err != nil {
		return "", false, c.wrapRunErr(err, []string{"remote", "get-url", Remote}, result)
	}
	if result.ExitCode != 0 {
		return "", false, nil
	}
	url = strings.TrimSpace(result.Stdout)
	return url, url != "", nil
}

// Finalize stages everything in projectPath, commits and pushes to origin
// with upstream tracking. No-op when disabled.
//
// An empty `git status --porcelain` after staging means there is nothing to
// commit; that is not an error. A status that fails to run cleanly is
// treated the same way.
//
// Returns E_GIT_IDENTITY, before committing, when user.name or user.email
// is not configured.
func (c *Client) Finalize(ctx context.Context, projectPath string, enabled bool) (FinalizeResult, error) {
	var res FinalizeResult
	if !enabled {
		return res, nil
	}

	if _, err := c.run(ctx, projectPath, "add", "."); err != nil {
		return res, err
	}

	status, err := c.runner.Run(ctx, Binary, []string{"status", "--porcelain"},
		c.opts(projectPath))
	if err != nil {
		return res, c.wrapRunErr(err, []string{"status", "--porcelain"}, status)
	}
	if status.ExitCode != 0 || strings.TrimSpace(status.Stdout) == "" {
		c.log.Warn().Str("path", projectPath).Msg("no files to commit")
		return res, nil
	}

	if err := c.CheckIdentity(ctx, projectPath); err != nil {
		return res, err
	}

	if _, err := c.run(ctx, projectPath, "commit", "-m", CommitMessage); err != nil {
		return res, err
	}
	res.Committed = true

	if _, err := c.run(ctx, projectPath, "push", "-u", Remote, "HEAD"); err != nil {
		return res, err
	}
	res.Pushed = true

	c.log.Debug().Str("path", projectPath).Msg("initial commit pushed to hub")
	return res, nil
}

// CheckIdentity returns E_GIT_IDENTITY unless both user.name and user.email
// resolve to non-empty values in dir.
func (c *Client) CheckIdentity(ctx context.Context, dir string) error {
	var missing []string
	for _, key := range []string{"user.name", "user.email"} {
		value, err := c.configValue(ctx, dir, key)
		if err != nil {
			return err
		}
		if value == "" {
			missing = append(missing, key)
		}
	}
	if len(missing) == 0 {
		return nil
	}
	return errors.NewWithDetails(errors.EGitIdentity,
		"Git identity not configured, commit would fail.\n"+IdentityHelp,
		map[string]string{"missing": strings.Join(missing, ",")})
}

// configValue reads a git config key. A missing key yields "".
func (c *Client) configValue(ctx context.Context, dir, key string) (string, error) {
	args := []string{"config", key}
	result, err := c.runner.Run(ctx, Binary, args, c.opts(dir))
	if err != nil {
		return "", c.wrapRunErr(err, args, result)
	}
	if result.ExitCode != 0 {
		return "", nil
	}
	return strings.TrimSpace(result.Stdout), nil
}

// run executes git with args in dir; any failure becomes an AppError.
func (c *Client) run(ctx context.Context, dir string, args ...string) (exec.CmdResult, error) {
	c.log.Debug().Str("dir", dir).Strs("args", args).Msg("git")
	result, err := exec.RunChecked(ctx, c.runner, Binary, args, c.opts(dir))
	if err != nil && stderrors.Is(err, osexec.ErrNotFound) {
		return result, errors.Wrap(errors.EGitNotInstalled, "git is not installed or not on PATH", err)
	}
	return result, err
}

// opts sets GIT_TERMINAL_PROMPT=0: git fails instead of prompting.
func (c *Client) opts(dir string) exec.RunOpts {
	return exec.RunOpts{Dir: dir, Env: map[string]string{"GIT_TERMINAL_PROMPT": "0"}, Timeout: c.timeout}
}

// wrapRunErr converts an execution failure of a read-only git call.
func (c *Client) wrapRunErr(err error, args []string, result exec.CmdResult) error {
	if stderrors.Is(err, osexec.ErrNotFound) {
		return errors.Wrap(errors.EGitNotInstalled, "git is not installed or not on PATH", err)
	}
	return exec.RunError(err, Binary, args, result)
}
