// Package manifest edits the pyproject.toml written by `uv init`.
//
// Edits are line-based so formatting and comments written by uv survive:
// sections are appended, keys are replaced in place or inserted after the
// last key of their section. The result is parsed back with go-toml to make
// sure the file is still valid and carries the intended values.
package manifest

import (
	"bytes"
	stderrors "errors"
	"fmt"
	iofs "io/fs"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/NielsdaWheelz/uvstart/internal/errors"
	"github.com/NielsdaWheelz/uvstart/internal/fs"
	"github.com/NielsdaWheelz/uvstart/internal/project"
)

// FileName is the manifest file name.
const FileName = "pyproject.toml"

const (
	wheelSection   = "tool.hatch.build.targets.wheel"
	scriptsSection = "project.scripts"
	projectSection = "project"
)

// document is the subset of pyproject.toml that is verified after editing.
type document struct {
	Project struct {
		Description string            `toml:"description"`
		Authors     []author          `toml:"authors"`
		License     any               `toml:"license"`
		Scripts     map[string]string `toml:"scripts"`
	} `toml:"project"`
	Tool struct {
		Hatch struct {
			Build struct {
				Targets struct {
					Wheel struct {
						Packages []string `toml:"packages"`
					} `toml:"wheel"`
				} `toml:"targets"`
			} `toml:"build"`
		} `toml:"hatch"`
	} `toml:"tool"`
}

type author struct {
	Name  string `toml:"name"`
	Email string `toml:"email"`
}

// Configure registers the package directory with hatch and, when entryPoint
// is non-empty, adds `<projectName> = "<entryPoint>"` under [project.scripts].
//
// Missing sections are appended in the form uv users expect:
//
//	[tool.hatch.build.targets.wheel]
//	packages = ["app"]
//
//	[project.scripts]
//	my_app = "app.main:main"
//
// A section that already exists is edited in place.
func Configure(fsys fs.FS, projectPath, projectName, packageDir, entryPoint string) error {
	path := filepath.Join(projectPath, FileName)
	f, err := load(fsys, path)
	if err != nil {
		return err
	}

	f.set(wheelSection, "packages", fmt.Sprintf("[%s]", quote(packageDir)))
	if entryPoint != "" {
		f.set(scriptsSection, projectName, quote(entryPoint))
	}

	return f.save(fsys, path, func(doc document) error {
		if !contains(doc.Tool.Hatch.Build.Targets.Wheel.Packages, packageDir) {
			return fmt.Errorf("wheel packages do not list %q", packageDir)
		}
		if entryPoint != "" && doc.Project.Scripts[projectName] != entryPoint {
			return fmt.Errorf("script %q not registered", projectName)
		}
		return nil
	})
}

// PatchMetadata sets description, authors and license in [project]. Empty
// fields are left untouched; a zero Metadata is a no-op.
//
//	description = "..."
//	authors = [{ name = "...", email = "..." }]
//	license = { text = "..." }
func PatchMetadata(fsys fs.FS, projectPath string, md project.Metadata) error {
	if md.IsZero() {
		return nil
	}

	path := filepath.Join(projectPath, FileName)
	f, err := load(fsys, path)
	if err != nil {
		return err
	}

	if md.Description != "" {
		f.set(projectSection, "description", quote(md.Description))
	}
	if md.AuthorName != "" || md.AuthorEmail != "" {
		var parts []string
		if md.AuthorName != "" {
			parts = append(parts, "name = "+quote(md.AuthorName))
		}
		if md.AuthorEmail != "" {
			parts = append(parts, "email = "+quote(md.AuthorEmail))
		}
		f.set(projectSection, "authors", "[{ "+strings.Join(parts, ", ")+" }]")
	}
	if md.License != "" {
		f.set(projectSection, "license", "{ text = "+quote(md.License)+" }")
	}

	return f.save(fsys, path, func(doc document) error {
		p := doc.Project
		if md.Description != "" && p.Description != md.Description {
			return fmt.Errorf("description = %q", p.Description)
		}
		if md.AuthorName != "" || md.AuthorEmail != "" {
			if len(p.Authors) != 1 || p.Authors[0].Name != md.AuthorName || p.Authors[0].Email != md.AuthorEmail {
				return fmt.Errorf("authors = %v", p.Authors)
			}
		}
		if md.License != "" {
			lic, _ := p.License.(map[string]any)
			if lic["text"] != md.License {
				return fmt.Errorf("license = %v", p.License)
			}
		}
		return nil
	})
}

func load(fsys fs.FS, path string) (*file, error) {
	data, err := fsys.ReadFile(path)
	if err != nil {
		if stderrors.Is(err, iofs.ErrNotExist) {
			return nil, errors.Wrap(errors.EManifest, path+" not found (uv init should have created it)", err)
		}
		return nil, errors.Wrap(errors.EManifest, "failed to read "+path, err)
	}
	var doc document
	if err := toml.Unmarshal(data, &doc); err != nil {
		return nil, errors.Wrap(errors.EManifest, "invalid "+path, err)
	}
	return parse(data), nil
}

func (f *file) save(fsys fs.FS, path string, verify func(document) error) error {
	data := f.bytes()

	var doc document
	if err := toml.Unmarshal(data, &doc); err != nil {
		return errors.Wrap(errors.EManifest, "edited "+FileName+" is not valid TOML", err)
	}
	if err := verify(doc); err != nil {
		return errors.Wrap(errors.EManifest, "edited "+FileName+" failed verification", err)
	}

	if err := fs.WriteFileAtomic(fsys, path, data, 0o644); err != nil {
		return errors.Wrap(errors.EFilesystem, "failed to write "+path, err)
	}
	return nil
}

// quote renders s as a TOML basic string.
func quote(s string) string {
	var b bytes.Buffer
	b.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		default:
			if r < 0x20 || r == 0x7f {
				fmt.Fprintf(&b, `\u%04X`, r)
				continue
			}
			b.WriteRune(r)
		}
	}
	b.WriteByte('"')
	return b.String()
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
