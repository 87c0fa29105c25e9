package folder

// Merge combines two raw folder lists into one canonical tree.
//
// Both lists are normalized with a parent marker of true. The result holds
// the primary entries in order, each merged with the same-named secondary
// entry if there is one, followed by the secondary entries no primary entry
// matched, in their original order.
//
// Same-named entries merge as: name from primary, CreateMarker and RootLevel
// OR-ed, primary files kept as-is followed by secondary files not already
// present, children merged recursively.
//
// Duplicate names within one list are not rejected. When the secondary list
// repeats a name, only its last entry is used for matching; if nothing in
// primary matches that name, every duplicate is appended. Callers should not
// rely on either behavior.
func Merge(primary, secondary []Raw) []Node {
	return mergeNodes(NormalizeList(primary, true), NormalizeList(secondary, true))
}

func mergeNodes(primary, secondary []Node) []Node {
	lookup := make(map[string]Node, len(secondary))
	for _, s := range secondary {
		lookup[s.Name] = s
	}

	used := make(map[string]bool)
	result := make([]Node, 0, len(primary)+len(secondary))

	for _, p := range primary {
		if s, ok := lookup[p.Name]; ok {
			result = append(result, mergePair(p, s))
			used[p.Name] = true
			continue
		}
		result = append(result, p)
	}

	for _, s := range secondary {
		if !used[s.Name] {
			result = append(result, s)
		}
	}

	return result
}

func mergePair(p, s Node) Node {
	return Node{
		Name:         p.Name,
		CreateMarker: p.CreateMarker || s.CreateMarker,
		RootLevel:    p.RootLevel || s.RootLevel,
		Children:     mergeNodes(p.Children, s.Children),
		Files:        unionFiles(p.Files, s.Files),
	}
}

// unionFiles keeps primary as-is and appends secondary files not yet present.
func unionFiles(primary, secondary []string) []string {
	seen := make(map[string]bool, len(primary)+len(secondary))
	out := make([]string, 0, len(primary)+len(secondary))
	for _, f := range primary {
		seen[f] = true
		out = append(out, f)
	}
	for _, f := range secondary {
		if seen[f] {
			continue
		}
		seen[f] = true
		out = append(out, f)
	}
	return out
}
