// Package project defines the build input (Config), its validation, and the
// build outcome (BuildResult).
package project

import (
	"path/filepath"

	"github.com/NielsdaWheelz/uvstart/internal/catalog"
	"github.com/NielsdaWheelz/uvstart/internal/folder"
)

// Metadata holds optional [project] fields patched into pyproject.toml.
// Empty fields are left alone.
type Metadata struct {
	Description string
	AuthorName  string
	AuthorEmail string
	License     string
}

// IsZero reports whether no metadata field is set.
func (m Metadata) IsZero() bool {
	return m == Metadata{}
}

// Config is the fully resolved input of one build. It is treated as
// read-only once handed to the pipeline.
type Config struct {
	Name          string
	BaseDir       string
	PythonVersion string
	GitEnabled    bool
	StarterFiles  bool

	// Framework names an entry of catalog.Frameworks, by display or
	// normalized name; ProjectType a key of catalog.ProjectTypes. Either may
	// be empty.
	Framework   string
	ProjectType string

	// Packages overrides the framework/type packages when non-empty.
	Packages    []string
	DevPackages []string

	// Folders is the raw layout. Empty means "use the default folders".
	Folders []folder.Raw

	Metadata Metadata

	// HubRoot is the directory holding bare hub repositories.
	HubRoot string
}

// FullPath returns BaseDir/Name.
func (c Config) FullPath() string {
	return filepath.Join(c.BaseDir, c.Name)
}

// HubPath returns the bare hub repository path for this project:
// HubRoot/<basename(FullPath)>.git.
func (c Config) HubPath() string {
	return filepath.Join(c.HubRoot, filepath.Base(c.FullPath())+".git")
}

// Nodes normalizes Folders, falling back to catalog.DefaultFolders when no
// folders were given.
func (c Config) Nodes() []folder.Node {
	if len(c.Folders) == 0 {
		return folder.NormalizeList(folder.Names(catalog.DefaultFolders...), true)
	}
	return folder.NormalizeList(c.Folders, true)
}

// ResolvePackages returns the packages to install. An explicit Packages list
// wins; otherwise the framework package (if any) followed by the project
// type packages, without duplicates.
func (c Config) ResolvePackages() []string {
	if len(c.Packages) > 0 {
		return dedupe(c.Packages)
	}

	var pkgs []string
	if fw := c.CanonicalFramework(); fw != "" {
		if pkg, ok := catalog.FrameworkPackage(fw); ok {
			pkgs = append(pkgs, pkg)
		}
	}
	if c.ProjectType != "" {
		pkgs = append(pkgs, catalog.ProjectTypePackages(c.ProjectType)...)
	}
	return dedupe(pkgs)
}

// ResolveDevPackages returns DevPackages without duplicates.
func (c Config) ResolveDevPackages() []string {
	return dedupe(c.DevPackages)
}

// RuntimePackages returns ResolvePackages minus anything also listed as a
// dev package; such packages are installed once, as dev dependencies.
func (c Config) RuntimePackages() []string {
	dev := c.ResolveDevPackages()
	if len(dev) == 0 {
		return c.ResolvePackages()
	}
	skip := make(map[string]bool, len(dev))
	for _, d := range dev {
		skip[d] = true
	}
	var out []string
	for _, p := range c.ResolvePackages() {
		if !skip[p] {
			out = append(out, p)
		}
	}
	return out
}

// EntryPoint returns the [project.scripts] target, or "" for none.
func (c Config) EntryPoint() string {
	return catalog.EntryPoint(c.CanonicalFramework(), c.ProjectType)
}

// CanonicalFramework returns the catalog display name for Framework. Unknown
// names are returned unchanged.
func (c Config) CanonicalFramework() string {
	if fw, ok := catalog.LookupFramework(c.Framework); ok {
		return fw
	}
	return c.Framework
}

func dedupe(in []string) []string {
	seen := make(map[string]bool, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s == "" || seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	return out
}
