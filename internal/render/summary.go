package render

import (
	"fmt"
	"io"

	"github.com/NielsdaWheelz/uvstart/internal/folder"
)

// Plan is a fully resolved build that has not run.
type Plan struct {
	Name          string
	ProjectPath   string
	HubPath       string // empty when git is disabled
	PythonVersion string
	Framework     string
	ProjectType   string
	Packages      []string
	DevPackages   []string
	EntryPoint    string
	Git           bool
	StarterFiles  bool
	Nodes         []folder.Node
}

// WritePlan writes the stable key: value plan output followed by the tree.
func WritePlan(w io.Writer, p Plan) {
	dirs, files := folder.Count(p.Nodes)

	fmt.Fprintf(w, "project_path: %s\n", p.ProjectPath)
	fmt.Fprintf(w, "hub_path: %s\n", orNone(p.HubPath))
	fmt.Fprintf(w, "python_version: %s\n", p.PythonVersion)
	fmt.Fprintf(w, "framework: %s\n", orNone(p.Framework))
	fmt.Fprintf(w, "project_type: %s\n", orNone(p.ProjectType))
	fmt.Fprintf(w, "packages: %s\n", joinOrNone(p.Packages))
	fmt.Fprintf(w, "dev_packages: %s\n", joinOrNone(p.DevPackages))
	fmt.Fprintf(w, "entry_point: %s\n", orNone(p.EntryPoint))
	fmt.Fprintf(w, "git: %s\n", boolStr(p.Git))
	fmt.Fprintf(w, "starter_files: %s\n", boolStr(p.StarterFiles))
	fmt.Fprintf(w, "folders: %d\n", dirs)
	fmt.Fprintf(w, "files: %d\n", files)
	fmt.Fprintln(w)
	WriteTree(w, p.Name, p.Nodes)
}

// BuildSummary is the outcome of a successful build.
type BuildSummary struct {
	ProjectPath string
	HubPath     string // empty when git is disabled
	Packages    []string
	DevPackages []string
	EntryPoint  string
	Pushed      bool
}

// WriteBuildSummary writes the stable key: value output for a finished build.
func WriteBuildSummary(w io.Writer, s BuildSummary) {
	fmt.Fprintf(w, "project_path: %s\n", s.ProjectPath)
	if s.HubPath != "" {
		fmt.Fprintf(w, "hub_path: %s\n", s.HubPath)
		fmt.Fprintf(w, "pushed: %s\n", boolStr(s.Pushed))
	}
	fmt.Fprintf(w, "packages: %s\n", joinOrNone(s.Packages))
	fmt.Fprintf(w, "dev_packages: %s\n", joinOrNone(s.DevPackages))
	fmt.Fprintf(w, "entry_point: %s\n", orNone(s.EntryPoint))
}
