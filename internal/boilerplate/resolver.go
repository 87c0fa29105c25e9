// Package boilerplate finds starter content for generated files.
package boilerplate

import (
	iofs "io/fs"
	"path"
	"strings"

	"github.com/NielsdaWheelz/uvstart/internal/core"
	"github.com/NielsdaWheelz/uvstart/internal/errors"
)

// Placeholders substituted in boilerplate content.
const (
	PlaceholderName  = "{{project_name}}"  // literal project name
	PlaceholderTitle = "{{project_title}}" // core.DisplayName(project name)
)

// Resolver looks a file name up in an ordered list of directories:
// ui_frameworks/<framework>, project_types/<type>, common. The order is
// fixed; directories for unset selectors are skipped.
type Resolver struct {
	fsys       iofs.FS
	searchDirs []string
	replacer   *strings.Replacer
}

// New builds a Resolver over a boilerplate tree. framework may be a display
// name; it is normalized for the lookup.
func New(fsys iofs.FS, projectName, framework, projectType string) (*Resolver, error) {
	if projectName == "" {
		return nil, errors.New(errors.EInvalidName, "boilerplate resolver needs a project name")
	}

	var dirs []string
	if framework != "" {
		dirs = append(dirs, path.Join("ui_frameworks", core.NormalizeFrameworkName(framework)))
	}
	if projectType != "" {
		dirs = append(dirs, path.Join("project_types", projectType))
	}
	dirs = append(dirs, "common")

	return &Resolver{
		fsys:       fsys,
		searchDirs: dirs,
		replacer: strings.NewReplacer(
			PlaceholderName, projectName,
			PlaceholderTitle, core.DisplayName(projectName),
		),
	}, nil
}

// SearchDirs returns the lookup order.
func (r *Resolver) SearchDirs() []string {
	out := make([]string, len(r.searchDirs))
	copy(out, r.searchDirs)
	return out
}

// Resolve returns the content for fileName with placeholders substituted.
// The first directory holding a regular file of that name wins. ok is false
// when no directory has one; that is not an error.
func (r *Resolver) Resolve(fileName string) (content string, ok bool) {
	if fileName == "" || strings.ContainsAny(fileName, `/\`) {
		return "", false
	}
	for _, dir := range r.searchDirs {
		candidate := path.Join(dir, fileName)
		info, err := iofs.Stat(r.fsys, candidate)
		if err != nil || !info.Mode().IsRegular() {
			continue
		}
		data, err := iofs.ReadFile(r.fsys, candidate)
		if err != nil {
			continue
		}
		return r.replacer.Replace(string(data)), true
	}
	return "", false
}
