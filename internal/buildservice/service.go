// Package buildservice provides the concrete implementation of
// pipeline.BuildService. It wires uv, git, the boilerplate resolver, the
// materializer and the manifest editor into the build steps.
package buildservice

import (
	"context"
	iofs "io/fs"
	"time"

	"github.com/rs/zerolog"

	"github.com/NielsdaWheelz/uvstart/internal/boilerplate"
	"github.com/NielsdaWheelz/uvstart/internal/exec"
	"github.com/NielsdaWheelz/uvstart/internal/fs"
	"github.com/NielsdaWheelz/uvstart/internal/git"
	"github.com/NielsdaWheelz/uvstart/internal/layout"
	"github.com/NielsdaWheelz/uvstart/internal/manifest"
	"github.com/NielsdaWheelz/uvstart/internal/pipeline"
	"github.com/NielsdaWheelz/uvstart/internal/scaffold"
	"github.com/NielsdaWheelz/uvstart/internal/uv"
)

// Warning codes added to the build state.
const (
	WarnNothingToCommit = "nothing_to_commit"
	WarnGitignore       = "gitignore_not_updated"
)

// Deps are the collaborators of a Service.
type Deps struct {
	Runner exec.CommandRunner
	FS     fs.FS

	// UVPath is the located uv executable.
	UVPath string

	// Boilerplate is the starter-file tree (ui_frameworks/, project_types/,
	// common/). Nil disables starter content.
	Boilerplate iofs.FS

	// Timeout applies to every subprocess; zero means none.
	Timeout time.Duration

	Logger zerolog.Logger
}

// Service is the production implementation of pipeline.BuildService.
type Service struct {
	fsys        fs.FS
	uv          *uv.Client
	git         *git.Client
	boilerplate iofs.FS
	log         zerolog.Logger
}

// Verify Service implements pipeline.BuildService (compile-time check)
var _ pipeline.BuildService = (*Service)(nil)

// New creates a Service from its dependencies.
func New(d Deps) *Service {
	return &Service{
		fsys:        d.FS,
		uv:          uv.NewClient(d.Runner, d.UVPath, d.Timeout, d.Logger),
		git:         git.NewClient(d.Runner, d.FS, d.Timeout, d.Logger),
		boilerplate: d.Boilerplate,
		log:         d.Logger,
	}
}

// InitPackageManager runs `uv init` with the configured Python version.
func (s *Service) InitPackageManager(ctx context.Context, st *pipeline.BuildState) error {
	return s.uv.Init(ctx, st.ProjectPath, st.Config.PythonVersion)
}

// BootstrapVCS runs the first git phase. With git disabled it removes the
// repository uv init may have created.
func (s *Service) BootstrapVCS(ctx context.Context, st *pipeline.BuildState) error {
	return s.git.Bootstrap(ctx, st.ProjectPath, st.HubPath, st.Config.GitEnabled)
}

// MaterializeTree creates the folder tree, starter files and .gitignore
// entries. Filesystem errors are returned unchanged.
func (s *Service) MaterializeTree(ctx context.Context, st *pipeline.BuildState) error {
	cfg := st.Config

	opts := layout.Options{SkipFileContent: !cfg.StarterFiles}
	if cfg.StarterFiles && s.boilerplate != nil {
		r, err := boilerplate.New(s.boilerplate, cfg.Name, cfg.CanonicalFramework(), cfg.ProjectType)
		if err != nil {
			return err
		}
		opts.Resolver = r
	}

	res, err := layout.Materialize(s.fsys, st.ProjectPath, st.Nodes, opts)
	if err != nil {
		return err
	}
	s.log.Debug().
		Int("dirs", res.Dirs).
		Int("files", res.Files).
		Bool("moved_entry_point", res.MovedEntryPoint).
		Msg("folder structure created")

	gi, err := scaffold.EnsureGitignore(s.fsys, st.ProjectPath)
	if err != nil {
		s.log.Warn().Err(err).Msg("could not update .gitignore")
		st.Warnings = append(st.Warnings, pipeline.Warning{
			Code:    WarnGitignore,
			Message: "could not update .gitignore: " + err.Error(),
		})
		return nil
	}
	s.log.Debug().Str("gitignore", string(gi)).Msg("gitignore checked")
	return nil
}

// WriteManifest registers the package and entry point in pyproject.toml and
// patches the optional metadata.
func (s *Service) WriteManifest(ctx context.Context, st *pipeline.BuildState) error {
	cfg := st.Config
	if err := manifest.Configure(s.fsys, st.ProjectPath, cfg.Name, layout.PackageDir, st.EntryPoint); err != nil {
		return err
	}
	return manifest.PatchMetadata(s.fsys, st.ProjectPath, cfg.Metadata)
}

// CreateVirtualEnv creates and syncs the virtual environment.
func (s *Service) CreateVirtualEnv(ctx context.Context, st *pipeline.BuildState) error {
	return s.uv.CreateVenv(ctx, st.ProjectPath, st.Config.PythonVersion)
}

// InstallDependencies adds runtime packages, then dev packages, one uv call
// per non-empty batch.
func (s *Service) InstallDependencies(ctx context.Context, st *pipeline.BuildState) error {
	if err := s.uv.Add(ctx, st.ProjectPath, st.Packages, false); err != nil {
		return err
	}
	return s.uv.Add(ctx, st.ProjectPath, st.DevPackages, true)
}

// FinalizeVCS commits and pushes the project to its hub.
func (s *Service) FinalizeVCS(ctx context.Context, st *pipeline.BuildState) error {
	res, err := s.git.Finalize(ctx, st.ProjectPath, st.Config.GitEnabled)
	st.Committed = res.Committed
	st.Pushed = res.Pushed
	if err != nil {
		return err
	}
	if st.Config.GitEnabled && !res.Committed {
		st.Warnings = append(st.Warnings, pipeline.Warning{
			Code:    WarnNothingToCommit,
			Message: "no files to commit; repository left without an initial commit",
		})
	}
	return nil
}
