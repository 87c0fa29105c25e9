package folder

// Normalize converts raw into a canonical Node.
//
// A bare Name inherits parentCreateMarker. A Record defaults create_init to
// true regardless of the parent; its string subfolders then inherit the
// record's own value. A Node is copied with its children normalized.
//
// Normalize never fails: wrong-typed fields fall back to their defaults.
// The second return value is false when the entry has no name and must be
// dropped.
func Normalize(raw Raw, parentCreateMarker bool) (Node, bool) {
	switch r := raw.(type) {
	case Name:
		if r == "" {
			return Node{}, false
		}
		return Node{
			Name:         string(r),
			CreateMarker: parentCreateMarker,
			Children:     []Node{},
			Files:        []string{},
		}, true

	case Record:
		return normalizeRecord(r)

	case Node:
		if r.Name == "" {
			return Node{}, false
		}
		children := make([]Node, 0, len(r.Children))
		for _, c := range r.Children {
			if n, ok := Normalize(c, r.CreateMarker); ok {
				children = append(children, n)
			}
		}
		return Node{
			Name:         r.Name,
			CreateMarker: r.CreateMarker,
			RootLevel:    r.RootLevel,
			Children:     children,
			Files:        cleanFiles(r.Files),
		}, true
	}
	return Node{}, false
}

// NormalizeList normalizes each entry with parentCreateMarker, dropping
// entries without a name.
func NormalizeList(raws []Raw, parentCreateMarker bool) []Node {
	out := make([]Node, 0, len(raws))
	for _, r := range raws {
		if n, ok := Normalize(r, parentCreateMarker); ok {
			out = append(out, n)
		}
	}
	return out
}

func normalizeRecord(r Record) (Node, bool) {
	name, _ := r["name"].(string)
	if name == "" {
		return Node{}, false
	}

	node := Node{
		Name:         name,
		CreateMarker: boolField(r, "create_init", true),
		RootLevel:    boolField(r, "root_level", false),
		Children:     []Node{},
		Files:        []string{},
	}

	if subs, ok := r["subfolders"].([]any); ok {
		node.Children = NormalizeList(FromAnyList(subs), node.CreateMarker)
	}

	if files, ok := r["files"].([]any); ok {
		for _, f := range files {
			if s, ok := f.(string); ok && s != "" {
				node.Files = append(node.Files, s)
			}
		}
	}

	return node, true
}

func boolField(r Record, key string, def bool) bool {
	if v, ok := r[key].(bool); ok {
		return v
	}
	return def
}

func cleanFiles(files []string) []string {
	out := make([]string, 0, len(files))
	for _, f := range files {
		if f != "" {
			out = append(out, f)
		}
	}
	return out
}
