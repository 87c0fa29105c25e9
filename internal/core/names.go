package core

import (
	"strings"
	"unicode"
)

// DisplayName turns a dash/underscore separated project name into a
// title-cased phrase.
// - dashes and underscores => spaces
// - each run of letters starts upper-case, the rest lower-case
// - digits and other chars end a run
// example: "create-a-project" -> "Create A Project"
// example: "my_app" -> "My App"
func DisplayName(name string) string {
	if name == "" {
		return ""
	}
	spaced := strings.NewReplacer("-", " ", "_", " ").Replace(name)

	var b strings.Builder
	prevLetter := false
	for _, r := range spaced {
		if unicode.IsLetter(r) {
			if prevLetter {
				b.WriteRune(unicode.ToLower(r))
			} else {
				b.WriteRune(unicode.ToUpper(r))
			}
			prevLetter = true
			continue
		}
		b.WriteRune(r)
		prevLetter = false
	}
	return b.String()
}

// NormalizeFrameworkName converts a framework display name into the name
// used for template files and boilerplate directories.
// example: "PyQt6" -> "pyqt6"
// example: "tkinter (built-in)" -> "tkinter"
func NormalizeFrameworkName(framework string) string {
	name := strings.ToLower(framework)
	name = strings.ReplaceAll(name, " (built-in)", "")
	name = strings.ReplaceAll(name, " ", "_")
	return name
}
