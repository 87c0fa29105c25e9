package render

import (
	"fmt"
	"io"
)

// CatalogRow holds the fields for a single catalog listing row.
type CatalogRow struct {
	Name       string
	Kind       string // "framework" or "type"
	Packages   string
	EntryPoint string
}

// WriteCatalog writes catalog rows in whitespace-aligned columns.
func WriteCatalog(w io.Writer, rows []CatalogRow) error {
	if len(rows) == 0 {
		return nil
	}

	widths := columnWidths(rows)

	header := formatRow(
		"NAME", widths.name,
		"KIND", widths.kind,
		"PACKAGES", widths.packages,
		"ENTRY_POINT",
	)
	if _, err := fmt.Fprintln(w, header); err != nil {
		return err
	}

	for _, row := range rows {
		line := formatRow(
			row.Name, widths.name,
			row.Kind, widths.kind,
			row.Packages, widths.packages,
			row.EntryPoint,
		)
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

type colWidths struct {
	name     int
	kind     int
	packages int
}

func columnWidths(rows []CatalogRow) colWidths {
	widths := colWidths{
		name:     len("NAME"),
		kind:     len("KIND"),
		packages: len("PACKAGES"),
	}
	for _, row := range rows {
		if len(row.Name) > widths.name {
			widths.name = len(row.Name)
		}
		if len(row.Kind) > widths.kind {
			widths.kind = len(row.Kind)
		}
		if len(row.Packages) > widths.packages {
			widths.packages = len(row.Packages)
		}
	}
	return widths
}

// formatRow pads every column but the last.
func formatRow(name string, nameW int, kind string, kindW int, packages string, packagesW int, entryPoint string) string {
	return fmt.Sprintf("%-*s  %-*s  %-*s  %s",
		nameW, name,
		kindW, kind,
		packagesW, packages,
		entryPoint,
	)
}
