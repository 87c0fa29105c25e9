// Package commands implements uvstart CLI commands.
package commands

import (
	iofs "io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/NielsdaWheelz/uvstart/internal/config"
	"github.com/NielsdaWheelz/uvstart/internal/errors"
	"github.com/NielsdaWheelz/uvstart/internal/folder"
	"github.com/NielsdaWheelz/uvstart/internal/fs"
	"github.com/NielsdaWheelz/uvstart/internal/paths"
	"github.com/NielsdaWheelz/uvstart/internal/project"
	"github.com/NielsdaWheelz/uvstart/internal/templates"
)

// BuildOpts holds the options shared by the new and plan commands.
// Empty values fall back to the settings file.
type BuildOpts struct {
	Name           string
	Dir            string
	Python         string
	Framework      string
	ProjectType    string
	Packages       []string
	DevPackages    []string
	NoGit          bool
	NoStarterFiles bool
	FoldersFile    string

	Author      string
	Email       string
	Description string
	License     string

	// Verbose forces debug logging over settings.log_level.
	Verbose bool
}

// environment is the resolved user environment: settings, directories and
// the template tree.
type environment struct {
	HomeDir  string
	Settings config.Settings
	Dirs     paths.Dirs
	Loader   *templates.Loader
	// TemplatesDir is the on-disk template tree, or "" for the embedded one.
	TemplatesDir string
}

// loadEnvironment resolves the config directory, loads and validates the
// settings file, and resolves the remaining directories.
func loadEnvironment(fsys fs.FS) (environment, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return environment{}, errors.Wrap(errors.EInternal, "failed to get home directory", err)
	}

	env := paths.OSEnv{}
	settingsPath := filepath.Join(paths.ResolveConfigDir(env, homeDir), paths.SettingsFileName)
	settings, err := config.LoadAndValidate(fsys, settingsPath)
	if err != nil {
		return environment{}, err
	}

	dirs := paths.ResolveDirs(env, homeDir, paths.Overrides{
		ProjectsDir: settings.Defaults.BaseDir,
		HubRoot:     settings.Paths.HubRoot,
	})

	var tree iofs.FS
	templatesDir := ""
	if settings.Paths.TemplatesDir != "" {
		templatesDir = paths.ExpandHome(settings.Paths.TemplatesDir, homeDir)
		if !fs.IsDir(fsys, templatesDir) {
			return environment{}, errors.NewWithDetails(errors.EInvalidConfig,
				"invalid config: paths.templates_dir: not a directory: "+templatesDir,
				map[string]string{"path": templatesDir})
		}
		tree = os.DirFS(templatesDir)
	}

	return environment{
		HomeDir:      homeDir,
		Settings:     settings,
		Dirs:         dirs,
		Loader:       templates.NewLoader(tree),
		TemplatesDir: templatesDir,
	}, nil
}

// resolveConfig merges opts over the settings defaults into a build Config.
// The folder layout comes from --folders when given, otherwise from the
// templates for the selected framework and project type.
func resolveConfig(fsys fs.FS, env environment, cwd string, opts BuildOpts) (project.Config, error) {
	s := env.Settings

	cfg := project.Config{
		Name:          strings.TrimSpace(opts.Name),
		BaseDir:       env.Dirs.ProjectsDir,
		PythonVersion: firstNonEmpty(opts.Python, s.Defaults.PythonVersion),
		GitEnabled:    s.Defaults.Git && !opts.NoGit,
		StarterFiles:  s.Defaults.StarterFiles && !opts.NoStarterFiles,
		Framework:     firstNonEmpty(opts.Framework, s.Defaults.Framework),
		ProjectType:   firstNonEmpty(opts.ProjectType, s.Defaults.ProjectType),
		Packages:      opts.Packages,
		DevPackages:   opts.DevPackages,
		Metadata: project.Metadata{
			Description: opts.Description,
			AuthorName:  firstNonEmpty(opts.Author, s.Metadata.AuthorName),
			AuthorEmail: firstNonEmpty(opts.Email, s.Metadata.AuthorEmail),
			License:     firstNonEmpty(opts.License, s.Metadata.License),
		},
		HubRoot: env.Dirs.HubRoot,
	}
	if opts.Dir != "" {
		cfg.BaseDir = absFrom(cwd, paths.ExpandHome(opts.Dir, env.HomeDir))
	}

	if opts.FoldersFile != "" {
		raws, err := readFoldersFile(fsys, absFrom(cwd, opts.FoldersFile))
		if err != nil {
			return project.Config{}, err
		}
		cfg.Folders = raws
		return cfg, nil
	}

	if err := validateSelectors(cfg); err != nil {
		return project.Config{}, err
	}
	nodes, err := env.Loader.Resolve(cfg.CanonicalFramework(), cfg.ProjectType)
	if err != nil {
		return project.Config{}, err
	}
	cfg.Folders = make([]folder.Raw, 0, len(nodes))
	for _, n := range nodes {
		cfg.Folders = append(cfg.Folders, n)
	}
	return cfg, nil
}

// validateSelectors rejects unknown framework and project type names before
// template lookup, which would otherwise fall back to the default layout.
func validateSelectors(cfg project.Config) error {
	probe := cfg
	probe.Folders = nil
	if err := probe.Validate(); err != nil {
		code := errors.GetCode(err)
		if code == errors.EUnknownFramework || code == errors.EUnknownProjectType {
			return err
		}
	}
	return nil
}

func readFoldersFile(fsys fs.FS, path string) ([]folder.Raw, error) {
	data, err := fsys.ReadFile(path)
	if err != nil {
		return nil, errors.WrapWithDetails(errors.EInvalidPath,
			"Could not read folders file: "+path, err,
			map[string]string{"path": path})
	}
	return templates.ParseFolders(path, data)
}

func absFrom(cwd, p string) string {
	if filepath.IsAbs(p) {
		return filepath.Clean(p)
	}
	return filepath.Join(cwd, p)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
