package buildservice

import (
	"context"
	"os"
	osexec "os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NielsdaWheelz/uvstart/internal/errors"
	"github.com/NielsdaWheelz/uvstart/internal/exec"
	"github.com/NielsdaWheelz/uvstart/internal/folder"
	"github.com/NielsdaWheelz/uvstart/internal/fs"
	"github.com/NielsdaWheelz/uvstart/internal/pipeline"
	"github.com/NielsdaWheelz/uvstart/internal/project"
	"github.com/NielsdaWheelz/uvstart/internal/templates"
)

const fakeUV = "/opt/uv/bin/uv"

// fakeRunner plays uv by writing what `uv init` and `uv venv` would write.
// Every other command goes to next.
type fakeRunner struct {
	next exec.CommandRunner

	// failOn makes the uv call whose joined args equal it exit 2.
	failOn string

	// gitDir makes `uv init` leave a .git directory behind, as uv does
	// when git is available.
	gitDir bool

	uvCalls []string
}

func (f *fakeRunner) Run(ctx context.Context, name string, args []string, opts exec.RunOpts) (exec.CmdResult, error) {
	if name != fakeUV {
		return f.next.Run(ctx, name, args, opts)
	}

	joined := strings.Join(args, " ")
	f.uvCalls = append(f.uvCalls, joined)
	if joined == f.failOn {
		return exec.CmdResult{ExitCode: 2, Stderr: "error: No solution found when resolving dependencies\n"}, nil
	}

	switch args[0] {
	case "init":
		name := filepath.Base(opts.Dir)
		files := map[string]string{
			"pyproject.toml": "[project]\nname = \"" + strings.ReplaceAll(name, "_", "-") + "\"\nversion = \"0.1.0\"\n" +
				"description = \"Add your description here\"\nreadme = \"README.md\"\nrequires-python = \">=" + args[2] + "\"\ndependencies = []\n",
			"main.py":         "def main():\n    print(\"Hello from " + name + "!\")\n",
			"README.md":       "",
			".python-version": args[2] + "\n",
			".gitignore":      "# Python-generated files\n__pycache__/\n*.py[oc]\n\n# Virtual environments\n.venv\n",
		}
		for file, content := range files {
			if err := os.WriteFile(filepath.Join(opts.Dir, file), []byte(content), 0o644); err != nil {
				return exec.CmdResult{}, err
			}
		}
		if f.gitDir {
			if err := os.MkdirAll(filepath.Join(opts.Dir, ".git"), 0o755); err != nil {
				return exec.CmdResult{}, err
			}
		}
	case "venv":
		if err := os.MkdirAll(filepath.Join(opts.Dir, ".venv"), 0o755); err != nil {
			return exec.CmdResult{}, err
		}
	}
	return exec.CmdResult{}, nil
}

// noGit fails the test on any git call.
type noGit struct{ t *testing.T }

func (n noGit) Run(_ context.Context, name string, args []string, _ exec.RunOpts) (exec.CmdResult, error) {
	n.t.Errorf("unexpected command: %s %v", name, args)
	return exec.CmdResult{ExitCode: 127}, nil
}

func newTestService(t *testing.T, runner exec.CommandRunner) *Service {
	t.Helper()
	return New(Deps{
		Runner:      runner,
		FS:          fs.NewRealFS(),
		UVPath:      fakeUV,
		Boilerplate: templates.NewLoader(nil).Boilerplate(),
		Logger:      zerolog.Nop(),
	})
}

// newState returns a state for a project directory that already exists.
func newState(t *testing.T, cfg project.Config) *pipeline.BuildState {
	t.Helper()
	if cfg.Name == "" {
		cfg.Name = "my_app"
	}
	if cfg.BaseDir == "" {
		cfg.BaseDir = t.TempDir()
	}
	if cfg.PythonVersion == "" {
		cfg.PythonVersion = "3.14"
	}
	st := &pipeline.BuildState{
		Config:      cfg,
		ProjectPath: cfg.FullPath(),
		Nodes:       cfg.Nodes(),
		Packages:    cfg.ResolvePackages(),
		DevPackages: cfg.ResolveDevPackages(),
		EntryPoint:  cfg.EntryPoint(),
	}
	require.NoError(t, os.Mkdir(st.ProjectPath, 0o755))
	return st
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func TestInitPackageManager(t *testing.T) {
	runner := &fakeRunner{next: noGit{t}}
	svc := newTestService(t, runner)
	st := newState(t, project.Config{PythonVersion: "3.12"})

	require.NoError(t, svc.InitPackageManager(context.Background(), st))

	assert.Equal(t, []string{"init --python 3.12 ."}, runner.uvCalls)
	assert.FileExists(t, filepath.Join(st.ProjectPath, "pyproject.toml"))
}

func TestInitPackageManager_Failure(t *testing.T) {
	runner := &fakeRunner{next: noGit{t}, failOn: "init --python 3.14 ."}
	svc := newTestService(t, runner)
	st := newState(t, project.Config{})

	err := svc.InitPackageManager(context.Background(), st)

	ae, ok := errors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, errors.ECommandFailed, ae.Code)
	assert.Equal(t, "Command failed: /opt/uv/bin/uv init --python 3.14 .", ae.Msg)
	assert.Equal(t, "error: No solution found when resolving dependencies", ae.Details["stderr"])
}

func TestBootstrapVCS_DisabledRemovesRepository(t *testing.T) {
	runner := &fakeRunner{next: noGit{t}, gitDir: true}
	svc := newTestService(t, runner)
	st := newState(t, project.Config{GitEnabled: false})
	require.NoError(t, svc.InitPackageManager(context.Background(), st))
	require.DirExists(t, filepath.Join(st.ProjectPath, ".git"))

	require.NoError(t, svc.BootstrapVCS(context.Background(), st))

	assert.NoDirExists(t, filepath.Join(st.ProjectPath, ".git"))
}

func TestMaterializeTree_StarterFiles(t *testing.T) {
	runner := &fakeRunner{next: noGit{t}}
	svc := newTestService(t, runner)

	nodes, err := templates.NewLoader(nil).Resolve("flet", "")
	require.NoError(t, err)
	raws := make([]folder.Raw, len(nodes))
	for i, n := range nodes {
		raws[i] = n
	}
	st := newState(t, project.Config{Framework: "flet", StarterFiles: true, Folders: raws})
	require.NoError(t, svc.InitPackageManager(context.Background(), st))

	require.NoError(t, svc.MaterializeTree(context.Background(), st))

	root := st.ProjectPath
	assert.NoFileExists(t, filepath.Join(root, "main.py"), "uv's main.py moves into the package")
	assert.FileExists(t, filepath.Join(root, "app", "__init__.py"))
	assert.FileExists(t, filepath.Join(root, "app", "ui", "__init__.py"))
	assert.FileExists(t, filepath.Join(root, "app", "ui", "views", "__init__.py"))
	assert.NoFileExists(t, filepath.Join(root, "app", "assets", "__init__.py"))
	assert.DirExists(t, filepath.Join(root, "tests"))

	main := readFile(t, filepath.Join(root, "app", "main.py"))
	assert.Contains(t, main, "import flet as ft")
	assert.Contains(t, main, `page.title = "My App"`)
	assert.NotContains(t, main, "{{")

	assert.Contains(t, readFile(t, filepath.Join(root, "app", "ui", "components.py")), "Reusable Flet controls for My App")
	assert.True(t, strings.HasPrefix(readFile(t, filepath.Join(root, "README.md")), "# My App\n"))
	assert.Contains(t, readFile(t, filepath.Join(root, "README.md")), "uv run my_app")

	gitignore := readFile(t, filepath.Join(root, ".gitignore"))
	assert.Contains(t, gitignore, "# Virtual environments\n.venv\n")
	assert.Equal(t, 1, strings.Count(gitignore, "__pycache__/"))
	assert.Contains(t, gitignore, "*.pyc\n")
	assert.Empty(t, st.Warnings)
}

func TestMaterializeTree_NoStarterFiles(t *testing.T) {
	runner := &fakeRunner{next: noGit{t}}
	svc := newTestService(t, runner)
	raws := []folder.Raw{folder.Record{"name": "ui", "files": []any{"components.py"}}}
	st := newState(t, project.Config{Framework: "flet", StarterFiles: false, Folders: raws})
	require.NoError(t, svc.InitPackageManager(context.Background(), st))

	require.NoError(t, svc.MaterializeTree(context.Background(), st))

	root := st.ProjectPath
	assert.Empty(t, readFile(t, filepath.Join(root, "app", "ui", "components.py")), "files are still created, empty")
	assert.Equal(t, "def main():\n    print(\"Hello from my_app!\")\n", readFile(t, filepath.Join(root, "app", "main.py")),
		"tool default entry point is kept")
	assert.Empty(t, readFile(t, filepath.Join(root, "README.md")))
}

func TestWriteManifest(t *testing.T) {
	runner := &fakeRunner{next: noGit{t}}
	svc := newTestService(t, runner)
	st := newState(t, project.Config{
		ProjectType: "cli_typer",
		Metadata:    project.Metadata{Description: "A CLI", AuthorName: "Ada", AuthorEmail: "ada@example.com", License: "MIT"},
	})
	require.NoError(t, svc.InitPackageManager(context.Background(), st))

	require.NoError(t, svc.WriteManifest(context.Background(), st))

	got := readFile(t, filepath.Join(st.ProjectPath, "pyproject.toml"))
	assert.Contains(t, got, "description = \"A CLI\"\n")
	assert.Contains(t, got, "authors = [{ name = \"Ada\", email = \"ada@example.com\" }]\n")
	assert.Contains(t, got, "license = { text = \"MIT\" }\n")
	assert.Contains(t, got, "\n[tool.hatch.build.targets.wheel]\npackages = [\"app\"]\n")
	assert.Contains(t, got, "\n[project.scripts]\nmy_app = \"app.main:app\"\n")
}

func TestWriteManifest_NoEntryPoint(t *testing.T) {
	runner := &fakeRunner{next: noGit{t}}
	svc := newTestService(t, runner)
	st := newState(t, project.Config{ProjectType: "django"})
	require.NoError(t, svc.InitPackageManager(context.Background(), st))

	require.NoError(t, svc.WriteManifest(context.Background(), st))

	got := readFile(t, filepath.Join(st.ProjectPath, "pyproject.toml"))
	assert.NotContains(t, got, "[project.scripts]")
	assert.Contains(t, got, "Add your description here", "metadata untouched when none given")
}

func TestWriteManifest_MissingManifest(t *testing.T) {
	svc := newTestService(t, &fakeRunner{next: noGit{t}})
	st := newState(t, project.Config{})

	err := svc.WriteManifest(context.Background(), st)
	assert.Equal(t, errors.EManifest, errors.GetCode(err))
}

func TestCreateVirtualEnvAndInstall(t *testing.T) {
	runner := &fakeRunner{next: noGit{t}}
	svc := newTestService(t, runner)
	st := newState(t, project.Config{ProjectType: "cli_typer", DevPackages: []string{"pytest"}})

	require.NoError(t, svc.CreateVirtualEnv(context.Background(), st))
	require.NoError(t, svc.InstallDependencies(context.Background(), st))

	assert.Equal(t, []string{
		"venv --python 3.14",
		"sync",
		"add typer[all]",
		"add --dev pytest",
	}, runner.uvCalls)
}

func TestInstallDependencies_NothingToInstall(t *testing.T) {
	runner := &fakeRunner{next: noGit{t}}
	svc := newTestService(t, runner)
	st := newState(t, project.Config{})

	require.NoError(t, svc.InstallDependencies(context.Background(), st))
	assert.Empty(t, runner.uvCalls)
}

func TestFinalizeVCS_Disabled(t *testing.T) {
	svc := newTestService(t, &fakeRunner{next: noGit{t}})
	st := newState(t, project.Config{GitEnabled: false})

	require.NoError(t, svc.FinalizeVCS(context.Background(), st))
	assert.False(t, st.Committed)
	assert.Empty(t, st.Warnings)
}

// isolateGitConfig points git at a global config holding only identity.
func isolateGitConfig(t *testing.T, withIdentity bool) {
	t.Helper()
	if _, err := osexec.LookPath("git"); err != nil {
		t.Skip("git not installed")
	}
	home := t.TempDir()
	cfgPath := filepath.Join(home, ".gitconfig")
	content := ""
	if withIdentity {
		content = "[user]\n\tname = Test User\n\temail = test@example.com\n"
	}
	require.NoError(t, os.WriteFile(cfgPath, []byte(content), 0o644))
	t.Setenv("HOME", home)
	t.Setenv("XDG_CONFIG_HOME", home)
	t.Setenv("GIT_CONFIG_GLOBAL", cfgPath)
	t.Setenv("GIT_CONFIG_NOSYSTEM", "1")
}

func gitOutput(t *testing.T, args ...string) string {
	t.Helper()
	out, err := osexec.Command("git", args...).CombinedOutput()
	require.NoError(t, err, "git %v: %s", args, out)
	return strings.TrimSpace(string(out))
}

// The full build against real git: project, package root, repository and a
// hub holding exactly one commit.
func TestBuild_EndToEnd(t *testing.T) {
	isolateGitConfig(t, true)
	root := t.TempDir()
	cfg := project.Config{
		Name:          "my_app",
		BaseDir:       filepath.Join(root, "x"),
		PythonVersion: "3.14",
		GitEnabled:    true,
		StarterFiles:  true,
		HubRoot:       filepath.Join(root, "hub"),
	}
	require.NoError(t, os.MkdirAll(cfg.BaseDir, 0o755))
	runner := &fakeRunner{next: exec.NewRealRunner()}

	p := pipeline.NewPipeline(newTestService(t, runner), fs.NewRealFS(), pipeline.Options{})
	report := p.Run(context.Background(), cfg)

	require.True(t, report.Result.Success, report.Result.Message)
	assert.FileExists(t, filepath.Join(cfg.FullPath(), "app", "__init__.py"))
	assert.DirExists(t, filepath.Join(cfg.FullPath(), ".git"))
	assert.True(t, report.State.Committed)
	assert.True(t, report.State.Pushed)
	assert.Equal(t, "1", gitOutput(t, "--git-dir", cfg.HubPath(), "rev-list", "--count", "main"))
	assert.Equal(t, "origin/main", gitOutput(t, "-C", cfg.FullPath(), "rev-parse", "--abbrev-ref", "main@{upstream}"))
}

func TestBuild_EndToEndRollback(t *testing.T) {
	isolateGitConfig(t, true)
	root := t.TempDir()
	cfg := project.Config{
		Name:          "my_app",
		BaseDir:       filepath.Join(root, "x"),
		PythonVersion: "3.14",
		GitEnabled:    true,
		Packages:      []string{"doesnotexist-pkg"},
		HubRoot:       filepath.Join(root, "hub"),
	}
	runner := &fakeRunner{next: exec.NewRealRunner(), failOn: "add doesnotexist-pkg"}

	p := pipeline.NewPipeline(newTestService(t, runner), fs.NewRealFS(), pipeline.Options{})
	report := p.Run(context.Background(), cfg)

	assert.False(t, report.Result.Success)
	assert.Equal(t, errors.KindSubprocess, report.Result.Kind())
	assert.Equal(t, "Command failed: /opt/uv/bin/uv add doesnotexist-pkg\n\nError output:\nerror: No solution found when resolving dependencies",
		report.Result.Message)
	assert.NoDirExists(t, cfg.FullPath())
	assert.NoDirExists(t, cfg.HubPath())
	assert.DirExists(t, cfg.BaseDir)
}

func TestBuild_EndToEndMissingIdentity(t *testing.T) {
	isolateGitConfig(t, false)
	root := t.TempDir()
	cfg := project.Config{
		Name:          "my_app",
		BaseDir:       filepath.Join(root, "x"),
		PythonVersion: "3.14",
		GitEnabled:    true,
		HubRoot:       filepath.Join(root, "hub"),
	}

	p := pipeline.NewPipeline(newTestService(t, &fakeRunner{next: exec.NewRealRunner()}), fs.NewRealFS(), pipeline.Options{})
	report := p.Run(context.Background(), cfg)

	assert.False(t, report.Result.Success)
	assert.Equal(t, errors.EGitIdentity, errors.GetCode(report.Result.Err))
	assert.Equal(t, pipeline.StageFinalizing, report.Failed)
	assert.NoDirExists(t, cfg.FullPath())
	assert.NoDirExists(t, cfg.HubPath())
}
