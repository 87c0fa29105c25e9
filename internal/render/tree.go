package render

import (
	"fmt"
	"io"

	"github.com/NielsdaWheelz/uvstart/internal/folder"
	"github.com/NielsdaWheelz/uvstart/internal/layout"
)

const (
	branchMid  = "├── "
	branchLast = "└── "
	indentMid  = "│   "
	indentLast = "    "
)

// entry is one line of the rendered tree.
type entry struct {
	name     string
	dir      bool
	children []entry
}

// WriteTree writes the directory tree Materialize would create for nodes
// under a project named rootName. Root-level nodes sit beside the package
// directory; all others are nested in it.
func WriteTree(w io.Writer, rootName string, nodes []folder.Node) {
	var rootLevel, pkgLevel []folder.Node
	for _, n := range nodes {
		if n.RootLevel {
			rootLevel = append(rootLevel, n)
		} else {
			pkgLevel = append(pkgLevel, n)
		}
	}

	pkg := entry{name: layout.PackageDir, dir: true}
	pkg.children = append(pkg.children, entry{name: layout.MarkerFile})
	pkg.children = append(pkg.children, toEntries(pkgLevel)...)

	top := append([]entry{pkg}, toEntries(rootLevel)...)

	fmt.Fprintln(w, rootName+"/")
	writeEntries(w, top, "")
}

func toEntries(nodes []folder.Node) []entry {
	out := make([]entry, 0, len(nodes))
	for _, n := range nodes {
		e := entry{name: n.Name, dir: true}
		if n.CreateMarker {
			e.children = append(e.children, entry{name: layout.MarkerFile})
		}
		for _, f := range n.Files {
			e.children = append(e.children, entry{name: f})
		}
		e.children = append(e.children, toEntries(n.Children)...)
		out = append(out, e)
	}
	return out
}

func writeEntries(w io.Writer, entries []entry, prefix string) {
	for i, e := range entries {
		last := i == len(entries)-1
		branch, indent := branchMid, indentMid
		if last {
			branch, indent = branchLast, indentLast
		}
		name := e.name
		if e.dir {
			name += "/"
		}
		fmt.Fprintln(w, prefix+branch+name)
		writeEntries(w, e.children, prefix+indent)
	}
}
