package fs

import (
	"os"
	"path/filepath"
)

// tempPattern names the sibling temp file used while replacing path, so a
// leftover from a killed process is recognizable next to its target.
func tempPattern(path string) string {
	return "." + filepath.Base(path) + ".tmp-*"
}

// WriteFileAtomic replaces path with data through a sibling temp file and a
// rename; readers see either the old content or the new, never a mix.
// A file that already exists keeps its permission bits and perm applies only
// to new files. On failure the original file is left unchanged.
// The parent directory must exist.
func WriteFileAtomic(fsys FS, path string, data []byte, perm os.FileMode) error {
	if info, err := fsys.Stat(path); err == nil && info.Mode().IsRegular() {
		perm = info.Mode().Perm()
	}

	tmpPath, w, err := fsys.CreateTemp(filepath.Dir(path), tempPattern(path))
	if err != nil {
		return err
	}

	committed := false
	defer func() {
		if !committed {
			_ = fsys.Remove(tmpPath)
		}
	}()

	if _, err := w.Write(data); err != nil {
		_ = w.Close()
		return err
	}
	if err := w.Close(); err != nil {
		return err
	}
	if err := fsys.Chmod(tmpPath, perm); err != nil {
		return err
	}
	if err := fsys.Rename(tmpPath, path); err != nil {
		return err
	}

	committed = true
	return nil
}
