// Package pipeline provides the build orchestrator for uvstart.
// The pipeline executes steps in a fixed order, short-circuits on first error,
// preserves AppError codes, and rolls back everything the build created when
// any step after directory creation fails.
package pipeline

import (
	"context"
	stderrors "errors"
	"fmt"
	"os"

	"github.com/rs/zerolog"

	"github.com/NielsdaWheelz/uvstart/internal/errors"
	"github.com/NielsdaWheelz/uvstart/internal/folder"
	"github.com/NielsdaWheelz/uvstart/internal/fs"
	"github.com/NielsdaWheelz/uvstart/internal/project"
)

// Stage is a state of the build state machine.
type Stage string

// Stages, in order. RolledBack is the single terminal failure state.
const (
	StageValidating        Stage = "Validating"
	StageDirectoryCreation Stage = "DirectoryCreation"
	StageScaffolding       Stage = "Scaffolding"
	StageDependencyInstall Stage = "DependencyInstall"
	StageFinalizing        Stage = "Finalizing"
	StageDone              Stage = "Done"
	StageRolledBack        Stage = "RolledBack"
)

// Step name constants.
const (
	StepInitPackageManager  = "InitPackageManager"
	StepBootstrapVCS        = "BootstrapVCS"
	StepMaterializeTree     = "MaterializeTree"
	StepWriteManifest       = "WriteManifest"
	StepCreateVirtualEnv    = "CreateVirtualEnv"
	StepInstallDependencies = "InstallDependencies"
	StepFinalizeVCS         = "FinalizeVCS"
)

// BuildState accumulates state during pipeline execution.
// Fields are populated by the pipeline before the first service step;
// services may add to the outputs section.
type BuildState struct {
	// From config (copied at start)
	Config project.Config

	// Resolved during validation
	ProjectPath string
	HubPath     string // empty when git is disabled
	Nodes       []folder.Node
	Packages    []string
	DevPackages []string
	EntryPoint  string // "" means no [project.scripts] entry

	// Populated during directory creation
	HubExisted bool

	// Outputs
	Committed bool
	Pushed    bool
	Warnings  []Warning
}

// Warning represents a non-fatal warning emitted during pipeline execution.
type Warning struct {
	// Code is a stable warning identifier.
	Code string

	// Message is a human-readable description.
	Message string
}

// BuildService defines the step implementations for the build pipeline.
// Each method corresponds to a pipeline step executed in order.
// Implementations are injected to allow testing without real uv/git.
type BuildService interface {
	// InitPackageManager runs `uv init` in the project directory.
	InitPackageManager(ctx context.Context, st *BuildState) error

	// BootstrapVCS sets up (or, when disabled, removes) the local repository,
	// the bare hub and the origin remote.
	BootstrapVCS(ctx context.Context, st *BuildState) error

	// MaterializeTree creates the folder tree and starter files.
	MaterializeTree(ctx context.Context, st *BuildState) error

	// WriteManifest configures pyproject.toml.
	WriteManifest(ctx context.Context, st *BuildState) error

	// CreateVirtualEnv creates the virtual environment and syncs it.
	CreateVirtualEnv(ctx context.Context, st *BuildState) error

	// InstallDependencies installs st.Packages and st.DevPackages.
	InstallDependencies(ctx context.Context, st *BuildState) error

	// FinalizeVCS stages, commits and pushes. Only called when git is enabled.
	FinalizeVCS(ctx context.Context, st *BuildState) error
}

// Options configures a Pipeline.
type Options struct {
	// Progress receives short status strings before each major step.
	// It must not block.
	Progress func(msg string)

	// Logger receives stage transitions and rollback actions.
	Logger zerolog.Logger
}

// Report is the outcome of Run.
type Report struct {
	Result project.BuildResult
	Stage  Stage       // StageDone or StageRolledBack
	Failed Stage       // stage the failure happened in; empty on success
	State  *BuildState // never nil
}

// Pipeline orchestrates the execution of build steps in a fixed order.
type Pipeline struct {
	svc      BuildService
	fsys     fs.FS
	progress func(string)
	log      zerolog.Logger
}

// NewPipeline creates a pipeline with the given service implementation.
// fsys is used for the existence check, directory creation and rollback.
func NewPipeline(svc BuildService, fsys fs.FS, opts Options) *Pipeline {
	progress := opts.Progress
	if progress == nil {
		progress = func(string) {}
	}
	return &Pipeline{
		svc:      svc,
		fsys:     fsys,
		progress: progress,
		log:      opts.Logger,
	}
}

// Run executes the build:
//
//	Validating → DirectoryCreation → Scaffolding → DependencyInstall → Finalizing → Done
//
// Behavior:
//   - Validation and base directory failures return with no side effects
//   - A failure at or after creating the project directory removes the
//     project directory and, when git is enabled, the hub repository if this
//     build created it
//   - Rollback failures are logged and reported in Result.CleanupErr; they
//     never replace the original error
//   - Non-AppError step errors are wrapped: raw I/O errors as E_FILESYSTEM,
//     anything else as E_INTERNAL, with the step name in details
//   - The context is checked before every stage; a canceled build is rolled
//     back and reported as E_CANCELED
//   - A panic in any stage is recovered as E_INTERNAL and rolled back like
//     any other failure
//
// Run always returns a Report.
func (p *Pipeline) Run(ctx context.Context, cfg project.Config) (rep Report) {
	st := &BuildState{Config: cfg}
	r := &run{p: p, st: st}

	defer func() {
		if v := recover(); v != nil {
			details := map[string]string{"stage": string(r.stage)}
			if r.stepName != "" {
				details["step"] = r.stepName
			}
			p.log.Error().Interface("panic", v).Str("stage", string(r.stage)).Msg("build panicked")
			err := errors.NewWithDetails(errors.EInternal, fmt.Sprintf("internal error: %v", v), details)
			rep = r.fail(r.stage, err, r.created)
		}
	}()

	if err := r.validate(ctx); err != nil {
		return r.fail(StageValidating, err, false)
	}

	created, err := r.createDirectory(ctx)
	r.created = created
	if err != nil {
		return r.fail(StageDirectoryCreation, err, created)
	}

	if err := r.scaffold(ctx); err != nil {
		return r.fail(StageScaffolding, err, true)
	}

	if err := r.installDependencies(ctx); err != nil {
		return r.fail(StageDependencyInstall, err, true)
	}

	if err := r.finalize(ctx); err != nil {
		return r.fail(StageFinalizing, err, true)
	}

	r.enter(StageDone)
	return Report{
		Result: project.Succeeded(st.ProjectPath),
		Stage:  StageDone,
		State:  st,
	}
}

// run holds the per-invocation state of Run.
type run struct {
	p          *Pipeline
	st         *BuildState
	stage      Stage
	stepName   string // step currently running, "" between steps
	created    bool   // the project directory belongs to this build
	scaffolded bool   // scaffolding began; the hub may exist now
}

func (r *run) enter(s Stage) {
	r.stage = s
	r.p.log.Debug().Str("stage", string(s)).Str("project", r.st.ProjectPath).Msg("stage")
}

func (r *run) validate(ctx context.Context) error {
	r.enter(StageValidating)
	r.p.progress("Validating project...")

	if err := checkContext(ctx); err != nil {
		return err
	}

	cfg := r.st.Config
	if err := cfg.Validate(); err != nil {
		return err
	}

	r.st.ProjectPath = cfg.FullPath()
	if cfg.GitEnabled {
		r.st.HubPath = cfg.HubPath()
	}
	r.st.Nodes = cfg.Nodes()
	r.st.DevPackages = cfg.ResolveDevPackages()
	r.st.Packages = cfg.RuntimePackages()
	r.st.EntryPoint = cfg.EntryPoint()

	exists, err := fs.Exists(r.p.fsys, r.st.ProjectPath)
	if err != nil {
		return errors.Wrap(errors.EInvalidPath, "Could not check project path: "+err.Error(), err)
	}
	if exists {
		return errors.NewWithDetails(errors.EProjectExists,
			fmt.Sprintf("The folder '%s' already exists in this location.", cfg.Name),
			map[string]string{"path": r.st.ProjectPath})
	}
	return nil
}

// createDirectory ensures the base directory and creates the project
// directory. created reports whether the project directory now belongs to
// this build.
func (r *run) createDirectory(ctx context.Context) (created bool, err error) {
	r.enter(StageDirectoryCreation)
	r.p.progress("Creating project directory...")

	if err := checkContext(ctx); err != nil {
		return false, err
	}

	if err := r.p.fsys.MkdirAll(r.st.Config.BaseDir, 0o755); err != nil {
		return false, errors.Wrap(errors.EBaseDir, "Could not create base directory: "+err.Error(), err)
	}

	if r.st.HubPath != "" {
		existed, err := fs.Exists(r.p.fsys, r.st.HubPath)
		if err != nil {
			return false, errors.Wrap(errors.EFilesystem, "failed to check hub repository", err)
		}
		r.st.HubExisted = existed
	}

	if err := r.p.fsys.Mkdir(r.st.ProjectPath, 0o755); err != nil {
		if stderrors.Is(err, os.ErrExist) {
			return false, errors.NewWithDetails(errors.EProjectExists,
				fmt.Sprintf("The folder '%s' already exists in this location.", r.st.Config.Name),
				map[string]string{"path": r.st.ProjectPath})
		}
		return false, errors.Wrap(errors.EFilesystem, "failed to create project directory", err)
	}
	return true, nil
}

func (r *run) scaffold(ctx context.Context) error {
	r.enter(StageScaffolding)
	r.scaffolded = true

	steps := []struct {
		name     string
		progress string
		fn       func(context.Context, *BuildState) error
	}{
		{StepInitPackageManager, "Initializing uv project...", r.p.svc.InitPackageManager},
		{StepBootstrapVCS, "Setting up git repository...", r.p.svc.BootstrapVCS},
		{StepMaterializeTree, "Creating folder structure...", r.p.svc.MaterializeTree},
		{StepWriteManifest, "Configuring pyproject.toml...", r.p.svc.WriteManifest},
	}
	for _, s := range steps {
		if s.name == StepBootstrapVCS && !r.st.Config.GitEnabled {
			// Still runs: uv init may have created a repository to remove.
			s.progress = ""
		}
		if err := r.step(ctx, s.name, s.progress, s.fn); err != nil {
			return err
		}
	}
	return nil
}

func (r *run) installDependencies(ctx context.Context) error {
	r.enter(StageDependencyInstall)

	if err := r.step(ctx, StepCreateVirtualEnv, "Creating virtual environment...", r.p.svc.CreateVirtualEnv); err != nil {
		return err
	}

	total := len(r.st.Packages) + len(r.st.DevPackages)
	msg := ""
	if total > 0 {
		msg = fmt.Sprintf("Installing %d %s...", total, plural(total, "package", "packages"))
	}
	return r.step(ctx, StepInstallDependencies, msg, r.p.svc.InstallDependencies)
}

func (r *run) finalize(ctx context.Context) error {
	r.enter(StageFinalizing)
	if !r.st.Config.GitEnabled {
		return checkContext(ctx)
	}
	return r.step(ctx, StepFinalizeVCS, "Finalizing git repository...", r.p.svc.FinalizeVCS)
}

// step checks the context, reports progress (if msg is set) and runs fn.
func (r *run) step(ctx context.Context, name, msg string, fn func(context.Context, *BuildState) error) error {
	if err := checkContext(ctx); err != nil {
		return err
	}
	if msg != "" {
		r.p.progress(msg)
	}
	r.p.log.Debug().Str("step", name).Msg("running step")
	r.stepName = name
	err := fn(ctx, r.st)
	r.stepName = ""
	if err != nil {
		return wrapStepError(err, name)
	}
	return nil
}

// fail rolls back (when anything was created) and builds the failure report.
func (r *run) fail(stage Stage, err error, projectCreated bool) Report {
	log := r.p.log.With().Str("stage", string(stage)).Logger()
	log.Debug().Err(err).Msg("build failed")

	var cleanupErr error
	if projectCreated || r.hubOwned() {
		r.p.progress("Rolling back...")
		cleanupErr = r.rollback(log, projectCreated)
	}

	result := project.Failed(err)
	result.CleanupErr = cleanupErr

	return Report{Result: result, Stage: StageRolledBack, Failed: stage, State: r.st}
}

// hubOwned reports whether this build may have created the hub repository.
// Only BootstrapVCS creates it, so nothing before scaffolding counts.
func (r *run) hubOwned() bool {
	return r.scaffolded && r.st.HubPath != "" && !r.st.HubExisted
}

// rollback removes what this build created. Errors are logged and joined.
func (r *run) rollback(log zerolog.Logger, projectCreated bool) error {
	var errs []error

	if projectCreated {
		log.Info().Str("path", r.st.ProjectPath).Msg("removing project directory")
		if err := r.p.fsys.RemoveAll(r.st.ProjectPath); err != nil {
			log.Error().Err(err).Str("path", r.st.ProjectPath).Msg("rollback: failed to remove project directory")
			errs = append(errs, err)
		}
	}

	if r.hubOwned() {
		log.Info().Str("path", r.st.HubPath).Msg("removing hub repository")
		if err := r.p.fsys.RemoveAll(r.st.HubPath); err != nil {
			log.Error().Err(err).Str("path", r.st.HubPath).Msg("rollback: failed to remove hub repository")
			errs = append(errs, err)
		}
	}

	return stderrors.Join(errs...)
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}

func checkContext(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return errors.Wrap(errors.ECanceled, "Build canceled.", err)
	}
	return nil
}

// wrapStepError ensures the error is an *AppError.
// If already *AppError, returns it unchanged.
// Raw I/O errors become E_FILESYSTEM, anything else E_INTERNAL; both carry the
// step name in details.
func wrapStepError(err error, stepName string) error {
	if err == nil {
		return nil
	}

	if _, ok := errors.AsAppError(err); ok {
		return err
	}

	details := map[string]string{"step": stepName}
	if errors.IsFilesystem(err) {
		return errors.WrapWithDetails(errors.EFilesystem, err.Error(), err, details)
	}
	if stderrors.Is(err, context.Canceled) || stderrors.Is(err, context.DeadlineExceeded) {
		return errors.WrapWithDetails(errors.ECanceled, "Build canceled.", err, details)
	}
	return errors.WrapWithDetails(errors.EInternal, "internal error", err, details)
}
