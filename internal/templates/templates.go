// Package templates loads folder layout templates and exposes the boilerplate
// tree. Both ship embedded in the binary and can be replaced by a directory
// on disk.
//
// Layout of the tree:
//
//	default.jsonc
//	ui_frameworks/<normalized framework>.jsonc
//	project_types/<project type>.jsonc
//	boilerplate/{ui_frameworks/<fw>,project_types/<type>,common}/...
//
// A template file holds {"folders": [...]}, each entry a folder name or an
// object with name, create_init, root_level, subfolders and files. Templates
// are JSONC (comments and trailing commas allowed); .json, .yaml and .yml
// files are accepted too.
package templates

import (
	"embed"
	"encoding/json"
	stderrors "errors"
	"fmt"
	iofs "io/fs"
	"path"
	"strings"

	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"

	"github.com/NielsdaWheelz/uvstart/internal/catalog"
	"github.com/NielsdaWheelz/uvstart/internal/core"
	"github.com/NielsdaWheelz/uvstart/internal/errors"
	"github.com/NielsdaWheelz/uvstart/internal/folder"
)

//go:embed assets
var assets embed.FS

// extensions are tried in order when looking up a template by name.
var extensions = []string{".jsonc", ".json", ".yaml", ".yml"}

// Embedded returns the built-in template tree.
func Embedded() iofs.FS {
	sub, err := iofs.Sub(assets, "assets")
	if err != nil {
		panic(err) // the directory is compiled in
	}
	return sub
}

// Loader reads templates from a tree laid out as described in the package doc.
type Loader struct {
	fsys iofs.FS
}

// NewLoader creates a Loader over fsys. A nil fsys means the embedded tree.
func NewLoader(fsys iofs.FS) *Loader {
	if fsys == nil {
		fsys = Embedded()
	}
	return &Loader{fsys: fsys}
}

// Boilerplate returns the boilerplate subtree.
func (l *Loader) Boilerplate() iofs.FS {
	sub, err := iofs.Sub(l.fsys, "boilerplate")
	if err != nil {
		return emptyFS{}
	}
	return sub
}

// Resolve returns the folder tree for a framework/project type selection.
//
//   - both set: merge(framework template, project type template)
//   - one set: that template, normalized
//   - none: the default template
//
// A selected side without a template file falls back to the default
// template; without a default file, catalog.DefaultFolders is used.
func (l *Loader) Resolve(framework, projectType string) ([]folder.Node, error) {
	switch {
	case framework != "" && projectType != "":
		primary, err := l.frameworkFolders(framework)
		if err != nil {
			return nil, err
		}
		secondary, err := l.projectTypeFolders(projectType)
		if err != nil {
			return nil, err
		}
		return folder.Merge(primary, secondary), nil

	case framework != "":
		raws, err := l.frameworkFolders(framework)
		if err != nil {
			return nil, err
		}
		return folder.NormalizeList(raws, true), nil

	case projectType != "":
		raws, err := l.projectTypeFolders(projectType)
		if err != nil {
			return nil, err
		}
		return folder.NormalizeList(raws, true), nil
	}

	raws, err := l.defaultFolders()
	if err != nil {
		return nil, err
	}
	return folder.NormalizeList(raws, true), nil
}

// Available lists the template names present under dir ("ui_frameworks" or
// "project_types"), without extension.
func (l *Loader) Available(dir string) []string {
	entries, err := iofs.ReadDir(l.fsys, dir)
	if err != nil {
		return nil
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		ext := path.Ext(e.Name())
		if !isTemplateExt(ext) {
			continue
		}
		names = append(names, strings.TrimSuffix(e.Name(), ext))
	}
	return names
}

func (l *Loader) frameworkFolders(framework string) ([]folder.Raw, error) {
	return l.loadOrDefault(path.Join("ui_frameworks", core.NormalizeFrameworkName(framework)))
}

func (l *Loader) projectTypeFolders(projectType string) ([]folder.Raw, error) {
	return l.loadOrDefault(path.Join("project_types", projectType))
}

func (l *Loader) loadOrDefault(name string) ([]folder.Raw, error) {
	raws, found, err := l.load(name)
	if err != nil || found {
		return raws, err
	}
	return l.defaultFolders()
}

func (l *Loader) defaultFolders() ([]folder.Raw, error) {
	raws, found, err := l.load("default")
	if err != nil || found {
		return raws, err
	}
	return folder.Names(catalog.DefaultFolders...), nil
}

// load reads name + the first existing extension.
// found is false when no file exists.
func (l *Loader) load(name string) ([]folder.Raw, bool, error) {
	for _, ext := range extensions {
		file := name + ext
		data, err := iofs.ReadFile(l.fsys, file)
		if err != nil {
			if stderrors.Is(err, iofs.ErrNotExist) {
				continue
			}
			return nil, false, errors.Wrap(errors.ETemplateInvalid, fmt.Sprintf("reading template %s", file), err)
		}
		raws, err := ParseFolders(file, data)
		if err != nil {
			return nil, false, err
		}
		return raws, true, nil
	}
	return nil, false, nil
}

// templateFile is the on-disk template shape. A missing "folders" key means
// the default folders.
type templateFile struct {
	Folders *[]any `json:"folders" yaml:"folders"`
}

// ParseFolders decodes a template file. The format is chosen by the
// extension of name: .yaml/.yml as YAML, anything else as JSONC.
// Returns E_TEMPLATE_INVALID on malformed input.
func ParseFolders(name string, data []byte) ([]folder.Raw, error) {
	var tf templateFile

	switch path.Ext(name) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &tf); err != nil {
			return nil, errors.Wrap(errors.ETemplateInvalid, fmt.Sprintf("parsing template %s", name), err)
		}
	default:
		if err := json.Unmarshal(jsonc.ToJSON(data), &tf); err != nil {
			return nil, errors.Wrap(errors.ETemplateInvalid, fmt.Sprintf("parsing template %s", name), err)
		}
	}

	if tf.Folders == nil {
		return folder.Names(catalog.DefaultFolders...), nil
	}
	return folder.FromAnyList(*tf.Folders), nil
}

func isTemplateExt(ext string) bool {
	for _, e := range extensions {
		if e == ext {
			return true
		}
	}
	return false
}

// emptyFS has no files.
type emptyFS struct{}

func (emptyFS) Open(name string) (iofs.File, error) {
	return nil, &iofs.PathError{Op: "open", Path: name, Err: iofs.ErrNotExist}
}
