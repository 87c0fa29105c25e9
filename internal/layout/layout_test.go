package layout

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NielsdaWheelz/uvstart/internal/folder"
	"github.com/NielsdaWheelz/uvstart/internal/fs"
)

type mapResolver map[string]string

func (m mapResolver) Resolve(name string) (string, bool) {
	c, ok := m[name]
	return c, ok
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func sampleNodes() []folder.Node {
	return folder.NormalizeList([]folder.Raw{
		folder.Name("core"),
		folder.Record{
			"name":        "assets",
			"create_init": false,
			"subfolders":  []any{"images"},
		},
		folder.Record{
			"name":       "ui",
			"files":      []any{"view.py", "state.py"},
			"subfolders": []any{map[string]any{"name": "widgets", "files": []any{"button.py"}}},
		},
		folder.Record{
			"name":       "tests",
			"root_level": true,
			"files":      []any{"test_app.py"},
		},
	}, true)
}

func TestMaterialize_Structure(t *testing.T) {
	root := t.TempDir()

	res, err := Materialize(fs.NewRealFS(), root, sampleNodes(), Options{})
	require.NoError(t, err)

	assert.FileExists(t, filepath.Join(root, "app", "__init__.py"))
	assert.FileExists(t, filepath.Join(root, "app", "core", "__init__.py"))
	assert.DirExists(t, filepath.Join(root, "app", "assets", "images"))
	assert.NoFileExists(t, filepath.Join(root, "app", "assets", "__init__.py"))
	assert.NoFileExists(t, filepath.Join(root, "app", "assets", "images", "__init__.py"),
		"string child inherits the parent's false marker")
	assert.FileExists(t, filepath.Join(root, "app", "ui", "widgets", "__init__.py"))
	assert.FileExists(t, filepath.Join(root, "app", "ui", "widgets", "button.py"))

	assert.FileExists(t, filepath.Join(root, "tests", "test_app.py"))
	assert.NoDirExists(t, filepath.Join(root, "app", "tests"))

	assert.Equal(t, 6, res.Dirs)
	assert.Equal(t, 4, res.Files)
	assert.False(t, res.MovedEntryPoint)
}

func TestMaterialize_ResolvedContent(t *testing.T) {
	root := t.TempDir()
	r := mapResolver{"view.py": "# view\n"}

	_, err := Materialize(fs.NewRealFS(), root, sampleNodes(), Options{Resolver: r})
	require.NoError(t, err)

	assert.Equal(t, "# view\n", readFile(t, filepath.Join(root, "app", "ui", "view.py")))
	assert.Equal(t, "", readFile(t, filepath.Join(root, "app", "ui", "state.py")), "unresolved file is empty")
}

func TestMaterialize_SkipFileContentCreatesEmptyFiles(t *testing.T) {
	root := t.TempDir()
	r := mapResolver{"view.py": "# view\n", "main.py": "# boilerplate main\n", "README.md": "# readme\n"}
	require.NoError(t, os.WriteFile(filepath.Join(root, "main.py"), []byte("# uv main\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "README.md"), []byte(""), 0o644))

	_, err := Materialize(fs.NewRealFS(), root, sampleNodes(), Options{Resolver: r, SkipFileContent: true})
	require.NoError(t, err)

	assert.Equal(t, "", readFile(t, filepath.Join(root, "app", "ui", "view.py")))
	assert.Equal(t, "# uv main\n", readFile(t, filepath.Join(root, "app", "main.py")), "tool default kept")
	assert.Equal(t, "", readFile(t, filepath.Join(root, "README.md")))
}

func TestMaterialize_MovesEntryPointAndAppliesBoilerplate(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "main.py"), []byte("# uv main\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "README.md"), []byte(""), 0o644))
	r := mapResolver{"main.py": "# boilerplate main\n", "README.md": "# My App\n"}

	res, err := Materialize(fs.NewRealFS(), root, nil, Options{Resolver: r})
	require.NoError(t, err)

	assert.True(t, res.MovedEntryPoint)
	assert.NoFileExists(t, filepath.Join(root, "main.py"))
	assert.Equal(t, "# boilerplate main\n", readFile(t, filepath.Join(root, "app", "main.py")))
	assert.Equal(t, "# My App\n", readFile(t, filepath.Join(root, "README.md")))
}

func TestMaterialize_MoveWithoutBoilerplate(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "main.py"), []byte("# uv main\n"), 0o644))

	res, err := Materialize(fs.NewRealFS(), root, nil, Options{Resolver: mapResolver{}})
	require.NoError(t, err)

	assert.True(t, res.MovedEntryPoint)
	assert.Equal(t, "# uv main\n", readFile(t, filepath.Join(root, "app", "main.py")))
}

func TestMaterialize_KeepsExistingMarkerContent(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "app"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "app", "__init__.py"), []byte("__version__ = '0.1.0'\n"), 0o644))

	_, err := Materialize(fs.NewRealFS(), root, nil, Options{})
	require.NoError(t, err)

	assert.Equal(t, "__version__ = '0.1.0'\n", readFile(t, filepath.Join(root, "app", "__init__.py")))
}

// failingMkdirFS fails MkdirAll for one path.
type failingMkdirFS struct {
	fs.FS
	failOn string
}

func (f failingMkdirFS) MkdirAll(path string, perm os.FileMode) error {
	if path == f.failOn {
		return &os.PathError{Op: "mkdir", Path: path, Err: os.ErrPermission}
	}
	return f.FS.MkdirAll(path, perm)
}

func TestMaterialize_PropagatesIOErrors(t *testing.T) {
	root := t.TempDir()
	fsys := failingMkdirFS{FS: fs.NewRealFS(), failOn: filepath.Join(root, "app", "ui")}

	_, err := Materialize(fsys, root, sampleNodes(), Options{})

	var pathErr *os.PathError
	require.ErrorAs(t, err, &pathErr)
	assert.ErrorIs(t, err, os.ErrPermission)
}
