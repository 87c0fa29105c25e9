// Package folder defines the canonical folder tree used by project layouts,
// the normalizer for raw template entries, and the template merger.
package folder

// Node is a canonical folder entry. Only Normalize produces Nodes from raw input.
type Node struct {
	Name         string
	CreateMarker bool // create __init__.py in this directory
	RootLevel    bool // materialize under the project root, not the package root
	Children     []Node
	Files        []string
}

// Raw is a folder entry as accepted at the ingestion boundary. It is one of
// Name, Record or Node.
type Raw interface {
	isRaw()
}

// Name is a bare folder name.
type Name string

// Record is a loosely typed folder record, as decoded from a template file.
// Recognized keys: name, create_init, root_level, subfolders, files.
type Record map[string]any

func (Name) isRaw()   {}
func (Record) isRaw() {}
func (Node) isRaw()   {}

// Names builds a raw list of bare names.
func Names(names ...string) []Raw {
	out := make([]Raw, 0, len(names))
	for _, n := range names {
		out = append(out, Name(n))
	}
	return out
}

// FromAny converts a decoded JSON/YAML value into a Raw entry. Strings become
// Names, objects become Records; anything else is rejected.
func FromAny(v any) (Raw, bool) {
	switch t := v.(type) {
	case string:
		return Name(t), true
	case map[string]any:
		return Record(t), true
	case Raw:
		return t, true
	}
	return nil, false
}

// FromAnyList converts a decoded list, skipping entries that are neither
// strings nor objects.
func FromAnyList(items []any) []Raw {
	out := make([]Raw, 0, len(items))
	for _, item := range items {
		if r, ok := FromAny(item); ok {
			out = append(out, r)
		}
	}
	return out
}

// Count returns the number of directories and files described by nodes.
// Marker files are not counted.
func Count(nodes []Node) (dirs, files int) {
	for _, n := range nodes {
		dirs++
		files += len(n.Files)
		d, f := Count(n.Children)
		dirs += d
		files += f
	}
	return dirs, files
}

// NodeNames returns the top-level names of nodes in order.
func NodeNames(nodes []Node) []string {
	out := make([]string, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, n.Name)
	}
	return out
}
