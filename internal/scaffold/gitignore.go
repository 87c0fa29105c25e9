package scaffold

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/NielsdaWheelz/uvstart/internal/fs"
)

// GitignoreFile is the ignore file name at the project root.
const GitignoreFile = ".gitignore"

// IgnoreEntries are the entries every generated project ignores.
var IgnoreEntries = []string{".venv/", "__pycache__/", "*.pyc"}

// GitignoreResult indicates what happened to .gitignore.
type GitignoreResult string

const (
	GitignoreCreated   GitignoreResult = "created"
	GitignoreUpdated   GitignoreResult = "updated"
	GitignoreUnchanged GitignoreResult = "unchanged"
)

// EnsureGitignore ensures IgnoreEntries are listed in <projectPath>/.gitignore.
// Creates the file if missing. Does not add duplicate entries.
// Ensures file ends with newline.
func EnsureGitignore(fsys fs.FS, projectPath string) (GitignoreResult, error) {
	path := filepath.Join(projectPath, GitignoreFile)

	content, err := fsys.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return "", err
		}
		newContent := strings.Join(IgnoreEntries, "\n") + "\n"
		if err := fsys.WriteFile(path, []byte(newContent), 0644); err != nil {
			return "", err
		}
		return GitignoreCreated, nil
	}

	existing := string(content)
	missing := missingEntries(existing)
	if len(missing) == 0 && (existing == "" || strings.HasSuffix(existing, "\n")) {
		return GitignoreUnchanged, nil
	}

	newContent := existing
	if newContent != "" && !strings.HasSuffix(newContent, "\n") {
		newContent += "\n"
	}
	for _, e := range missing {
		newContent += e + "\n"
	}

	if err := fsys.WriteFile(path, []byte(newContent), 0644); err != nil {
		return "", err
	}
	return GitignoreUpdated, nil
}

// missingEntries returns the IgnoreEntries not present in content.
// ".venv" and ".venv/" are equivalent.
func missingEntries(content string) []string {
	present := make(map[string]bool)
	for _, line := range strings.Split(content, "\n") {
		present[strings.TrimSuffix(strings.TrimSpace(line), "/")] = true
	}
	var missing []string
	for _, e := range IgnoreEntries {
		if !present[strings.TrimSuffix(e, "/")] {
			missing = append(missing, e)
		}
	}
	return missing
}
