package commands

import (
	"context"
	stderrors "errors"
	"io"

	"github.com/rs/zerolog"

	"github.com/NielsdaWheelz/uvstart/internal/buildservice"
	"github.com/NielsdaWheelz/uvstart/internal/errors"
	"github.com/NielsdaWheelz/uvstart/internal/exec"
	"github.com/NielsdaWheelz/uvstart/internal/fs"
	"github.com/NielsdaWheelz/uvstart/internal/lock"
	"github.com/NielsdaWheelz/uvstart/internal/pipeline"
	"github.com/NielsdaWheelz/uvstart/internal/render"
	"github.com/NielsdaWheelz/uvstart/internal/uv"
)

// locateUV is replaced in tests.
var locateUV = uv.Locate

// lockHub holds the hub repository for the duration of a build, so that
// same-named projects from different base directories never share a hub
// mid-build.
func lockHub(hubPath, projectPath string) (func() error, error) {
	unlock, err := lock.NewBuildLock().Lock(hubPath, projectPath)
	if err != nil {
		var locked *lock.ErrLocked
		if stderrors.As(err, &locked) {
			return nil, errors.WrapWithDetails(errors.EBuildLocked, locked.Error(), err,
				map[string]string{"lock_file": locked.Path})
		}
		return nil, errors.Wrap(errors.EFilesystem, "Could not lock hub repository: "+err.Error(), err)
	}
	return unlock, nil
}

// New implements the `uvstart new` command.
// Resolves the build from flags and settings, runs the build pipeline and
// prints progress followed by the stable key: value summary.
// On failure everything the build created has been removed; the returned
// error carries the failure code.
func New(ctx context.Context, cr exec.CommandRunner, fsys fs.FS, cwd string, opts BuildOpts, log zerolog.Logger, stdout, stderr io.Writer) error {
	env, err := loadEnvironment(fsys)
	if err != nil {
		return err
	}

	level := env.Settings.ResolvedLogLevel
	if opts.Verbose {
		level = zerolog.DebugLevel
	}
	log = log.Level(level)

	cfg, err := resolveConfig(fsys, env, cwd, opts)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	log.Debug().Str("path", cfg.FullPath()).Str("framework", cfg.CanonicalFramework()).
		Str("project_type", cfg.ProjectType).Bool("git", cfg.GitEnabled).Msg("resolved build")

	uvPath, err := locateUV(env.Settings.Tools.UV)
	if err != nil {
		return err
	}

	if cfg.GitEnabled {
		unlock, err := lockHub(cfg.HubPath(), cfg.FullPath())
		if err != nil {
			return err
		}
		defer func() {
			if err := unlock(); err != nil {
				log.Warn().Err(err).Str("hub", cfg.HubPath()).Msg("failed to release hub lock")
			}
		}()
	}

	svc := buildservice.New(buildservice.Deps{
		Runner:      cr,
		FS:          fsys,
		UVPath:      uvPath,
		Boilerplate: env.Loader.Boilerplate(),
		Timeout:     env.Settings.ResolvedTimeout,
		Logger:      log,
	})

	// progress is closed by the pipeline goroutine; the buffer holds every
	// message of one build.
	progress := make(chan string, 16)
	p := pipeline.NewPipeline(svc, fsys, pipeline.Options{
		Progress: func(msg string) { progress <- msg },
		Logger:   log,
	})

	reports := make(chan pipeline.Report, 1)
	go func() {
		defer close(progress)
		reports <- p.Run(ctx, cfg)
	}()

	out := render.NewProgress(stdout)
	for msg := range progress {
		out.Step(msg)
	}
	report := <-reports

	res := report.Result
	out.Done(res.Success, res.Message)

	if !res.Success {
		if res.CleanupErr != nil {
			render.Warning(stderr, "rollback_incomplete", res.CleanupErr.Error())
		}
		return res.Err
	}

	for _, w := range report.State.Warnings {
		render.Warning(stdout, w.Code, w.Message)
	}

	render.WriteBuildSummary(stdout, render.BuildSummary{
		ProjectPath: report.State.ProjectPath,
		HubPath:     report.State.HubPath,
		Packages:    report.State.Packages,
		DevPackages: report.State.DevPackages,
		EntryPoint:  report.State.EntryPoint,
		Pushed:      report.State.Pushed,
	})
	return nil
}
