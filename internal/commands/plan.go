package commands

import (
	"fmt"
	"io"

	"github.com/NielsdaWheelz/uvstart/internal/errors"
	"github.com/NielsdaWheelz/uvstart/internal/fs"
	"github.com/NielsdaWheelz/uvstart/internal/render"
)

// Plan implements the `uvstart plan` command: it resolves and validates
// everything `new` would, then prints the plan without touching disk.
func Plan(fsys fs.FS, cwd string, opts BuildOpts, stdout io.Writer) error {
	env, err := loadEnvironment(fsys)
	if err != nil {
		return err
	}

	cfg, err := resolveConfig(fsys, env, cwd, opts)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	projectPath := cfg.FullPath()
	exists, err := fs.Exists(fsys, projectPath)
	if err != nil {
		return errors.Wrap(errors.EInvalidPath, "Could not check project path: "+err.Error(), err)
	}
	if exists {
		return errors.NewWithDetails(errors.EProjectExists,
			fmt.Sprintf("The folder '%s' already exists in this location.", cfg.Name),
			map[string]string{"path": projectPath})
	}

	hubPath := ""
	if cfg.GitEnabled {
		hubPath = cfg.HubPath()
	}

	render.WritePlan(stdout, render.Plan{
		Name:          cfg.Name,
		ProjectPath:   projectPath,
		HubPath:       hubPath,
		PythonVersion: cfg.PythonVersion,
		Framework:     cfg.CanonicalFramework(),
		ProjectType:   cfg.ProjectType,
		Packages:      cfg.RuntimePackages(),
		DevPackages:   cfg.ResolveDevPackages(),
		EntryPoint:    cfg.EntryPoint(),
		Git:           cfg.GitEnabled,
		StarterFiles:  cfg.StarterFiles,
		Nodes:         cfg.Nodes(),
	})
	return nil
}
