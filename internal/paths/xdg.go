// Package paths provides directory resolution for uvstart following XDG conventions.
package paths

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

// SettingsFileName is the settings file inside the config directory.
const SettingsFileName = "config.yaml"

// Dirs holds the resolved directory paths uvstart works with.
type Dirs struct {
	ConfigDir   string
	ProjectsDir string // default base directory for new projects
	HubRoot     string // parent of the bare hub repositories
}

// SettingsFile returns the path of the user settings file.
func (d Dirs) SettingsFile() string {
	return filepath.Join(d.ConfigDir, SettingsFileName)
}

// Env is the interface for environment variable lookups.
// Implementations must return "" for unset variables.
type Env interface {
	Get(key string) string
}

// OSEnv implements Env using os.Getenv.
type OSEnv struct{}

func (OSEnv) Get(key string) string {
	return os.Getenv(key)
}

// Overrides carries directory values from the settings file.
// Empty fields are unset. A leading ~ is expanded against the home directory.
type Overrides struct {
	ProjectsDir string
	HubRoot     string
}

// ResolveDirs computes the config, projects and hub directories based on
// environment variables, settings overrides and platform defaults.
//
// Resolution order for config directory:
//  1. UVSTART_CONFIG_DIR env var (if set)
//  2. macOS: ~/Library/Preferences/uvstart
//  3. XDG_CONFIG_HOME/uvstart (if set)
//  4. ~/.config/uvstart
//
// Resolution order for projects directory:
//  1. UVSTART_PROJECTS_DIR env var (if set)
//  2. settings defaults.base_dir
//  3. ~/Projects
//
// Resolution order for hub root:
//  1. UVSTART_HUB_ROOT env var (if set)
//  2. settings paths.hub_root
//  3. ~/Projects/git-repos
//
// The homeDir parameter must be an absolute path to the user's home directory.
// This function does not touch the filesystem (no mkdir).
// ~ inside env vars is treated as literal (not expanded).
func ResolveDirs(env Env, homeDir string, o Overrides) Dirs {
	return ResolveDirsWithOS(env, homeDir, o, IsDarwin())
}

// IsDarwin returns true if the current OS is macOS.
// Exported for testing purposes.
func IsDarwin() bool {
	return runtime.GOOS == "darwin"
}

// ResolveDirsWithOS is like ResolveDirs but accepts an explicit OS flag for testing.
func ResolveDirsWithOS(env Env, homeDir string, o Overrides, isDarwin bool) Dirs {
	return Dirs{
		ConfigDir:   ResolveConfigDirWithOS(env, homeDir, isDarwin),
		ProjectsDir: firstSet(env.Get("UVSTART_PROJECTS_DIR"), ExpandHome(o.ProjectsDir, homeDir), filepath.Join(homeDir, "Projects")),
		HubRoot:     firstSet(env.Get("UVSTART_HUB_ROOT"), ExpandHome(o.HubRoot, homeDir), filepath.Join(homeDir, "Projects", "git-repos")),
	}
}

// ResolveConfigDir returns the config directory alone; the settings file must
// be located before overrides are known.
func ResolveConfigDir(env Env, homeDir string) string {
	return ResolveConfigDirWithOS(env, homeDir, IsDarwin())
}

func ResolveConfigDirWithOS(env Env, homeDir string, isDarwin bool) string {
	// 1. UVSTART_CONFIG_DIR override
	if v := env.Get("UVSTART_CONFIG_DIR"); v != "" {
		return v
	}
	// 2. macOS default
	if isDarwin {
		return filepath.Join(homeDir, "Library", "Preferences", "uvstart")
	}
	// 3. XDG_CONFIG_HOME fallback
	if v := env.Get("XDG_CONFIG_HOME"); v != "" {
		return filepath.Join(v, "uvstart")
	}
	// 4. Default fallback
	return filepath.Join(homeDir, ".config", "uvstart")
}

// ExpandHome replaces a leading "~" or "~/" in path with homeDir.
// "~user" forms are returned unchanged.
func ExpandHome(path, homeDir string) string {
	if path == "~" {
		return homeDir
	}
	if strings.HasPrefix(path, "~/") || strings.HasPrefix(path, `~\`) {
		return filepath.Join(homeDir, path[2:])
	}
	return path
}

func firstSet(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
