// Package layout materializes a folder tree inside a project directory.
package layout

import (
	"path/filepath"

	"github.com/NielsdaWheelz/uvstart/internal/folder"
	"github.com/NielsdaWheelz/uvstart/internal/fs"
)

const (
	// PackageDir is the package root created under the project root.
	PackageDir = "app"
	// MarkerFile marks a directory as an importable package.
	MarkerFile = "__init__.py"
	// EntryPointFile is the module uv init writes at the project root.
	EntryPointFile = "main.py"
	// ReadmeFile is replaced by boilerplate when available.
	ReadmeFile = "README.md"
)

// ContentResolver supplies starter content by file name.
type ContentResolver interface {
	Resolve(fileName string) (string, bool)
}

// Options controls file content.
type Options struct {
	// Resolver supplies file content. Nil means every file is created empty.
	Resolver ContentResolver
	// SkipFileContent creates every listed file empty and disables the
	// boilerplate override of main.py and README.md.
	SkipFileContent bool
}

// Result summarizes what was written.
type Result struct {
	Dirs            int
	Files           int  // listed files, markers excluded
	MovedEntryPoint bool // root main.py moved into the package
}

// Materialize creates root/app with its marker, then every node: root-level
// nodes directly under root, the rest under root/app.
//
// Afterwards a main.py left at the root by uv init is moved into app/, and,
// when content is enabled, boilerplate main.py and README.md replace the
// tool defaults.
//
// Filesystem errors are returned as-is; nothing is cleaned up here.
func Materialize(fsys fs.FS, root string, nodes []folder.Node, opts Options) (Result, error) {
	var res Result
	pkg := filepath.Join(root, PackageDir)

	if err := fsys.MkdirAll(pkg, 0o755); err != nil {
		return res, err
	}
	if err := fs.Touch(fsys, filepath.Join(pkg, MarkerFile)); err != nil {
		return res, err
	}

	var rootNodes, pkgNodes []folder.Node
	for _, n := range nodes {
		if n.RootLevel {
			rootNodes = append(rootNodes, n)
		} else {
			pkgNodes = append(pkgNodes, n)
		}
	}

	w := writer{fsys: fsys, opts: opts, res: &res}
	if err := w.createAll(root, rootNodes); err != nil {
		return res, err
	}
	if err := w.createAll(pkg, pkgNodes); err != nil {
		return res, err
	}

	moved, err := moveEntryPoint(fsys, root, pkg)
	if err != nil {
		return res, err
	}
	res.MovedEntryPoint = moved

	if opts.Resolver != nil && !opts.SkipFileContent {
		if err := w.override(filepath.Join(pkg, EntryPointFile), EntryPointFile); err != nil {
			return res, err
		}
		if err := w.override(filepath.Join(root, ReadmeFile), ReadmeFile); err != nil {
			return res, err
		}
	}

	return res, nil
}

type writer struct {
	fsys fs.FS
	opts Options
	res  *Result
}

func (w writer) createAll(parent string, nodes []folder.Node) error {
	for _, n := range nodes {
		if err := w.create(parent, n); err != nil {
			return err
		}
	}
	return nil
}

func (w writer) create(parent string, n folder.Node) error {
	dir := filepath.Join(parent, n.Name)
	if err := w.fsys.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	w.res.Dirs++

	if n.CreateMarker {
		if err := fs.Touch(w.fsys, filepath.Join(dir, MarkerFile)); err != nil {
			return err
		}
	}

	for _, name := range n.Files {
		if err := w.writeFile(filepath.Join(dir, name), name); err != nil {
			return err
		}
		w.res.Files++
	}

	return w.createAll(dir, n.Children)
}

// writeFile writes resolved content, or an empty file when there is none.
func (w writer) writeFile(path, name string) error {
	if w.opts.SkipFileContent || w.opts.Resolver == nil {
		return fs.Touch(w.fsys, path)
	}
	content, ok := w.opts.Resolver.Resolve(name)
	if !ok {
		return fs.Touch(w.fsys, path)
	}
	return w.fsys.WriteFile(path, []byte(content), 0o644)
}

// override replaces path with boilerplate for name, if any exists.
func (w writer) override(path, name string) error {
	content, ok := w.opts.Resolver.Resolve(name)
	if !ok {
		return nil
	}
	return w.fsys.WriteFile(path, []byte(content), 0o644)
}

func moveEntryPoint(fsys fs.FS, root, pkg string) (bool, error) {
	src := filepath.Join(root, EntryPointFile)
	exists, err := fs.Exists(fsys, src)
	if err != nil || !exists {
		return false, err
	}
	if err := fsys.Rename(src, filepath.Join(pkg, EntryPointFile)); err != nil {
		return false, err
	}
	return true, nil
}
