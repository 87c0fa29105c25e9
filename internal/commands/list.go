package commands

import (
	"fmt"
	"io"
	"strings"

	"github.com/NielsdaWheelz/uvstart/internal/catalog"
	"github.com/NielsdaWheelz/uvstart/internal/render"
)

// List implements the `uvstart list` command: frameworks and project types
// with their packages and entry points, then the selectable Python versions
// and licenses.
func List(stdout io.Writer) error {
	rows := make([]render.CatalogRow, 0, len(catalog.Frameworks)+len(catalog.ProjectTypes))

	for _, fw := range catalog.Frameworks {
		pkg, ok := catalog.FrameworkPackage(fw)
		if !ok {
			pkg = "built-in"
		}
		rows = append(rows, render.CatalogRow{
			Name:       fw,
			Kind:       "framework",
			Packages:   pkg,
			EntryPoint: entryPointOrNone(catalog.EntryPoint(fw, "")),
		})
	}

	for _, pt := range catalog.ProjectTypes {
		pkgs := catalog.ProjectTypePackages(pt)
		packages := "none"
		if len(pkgs) > 0 {
			packages = strings.Join(pkgs, " ")
		}
		rows = append(rows, render.CatalogRow{
			Name:       pt,
			Kind:       "type",
			Packages:   packages,
			EntryPoint: entryPointOrNone(catalog.EntryPoint("", pt)),
		})
	}

	if err := render.WriteCatalog(stdout, rows); err != nil {
		return err
	}

	fmt.Fprintln(stdout)
	fmt.Fprintf(stdout, "python_versions: %s\n", strings.Join(catalog.PythonVersions, ", "))
	fmt.Fprintf(stdout, "default_python_version: %s\n", catalog.DefaultPythonVersion)
	fmt.Fprintf(stdout, "licenses: %s\n", strings.Join(catalog.Licenses, ", "))
	return nil
}

func entryPointOrNone(ep string) string {
	if ep == "" {
		return "none"
	}
	return ep
}
