package templates

import (
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NielsdaWheelz/uvstart/internal/errors"
	"github.com/NielsdaWheelz/uvstart/internal/folder"
)

func TestParseFolders_JSONC(t *testing.T) {
	data := []byte(`{
		// comment
		"folders": [
			"core",
			{"name": "ui", "files": ["view.py"], "subfolders": ["widgets",],},
		],
	}`)

	raws, err := ParseFolders("x.jsonc", data)
	require.NoError(t, err)

	nodes := folder.NormalizeList(raws, true)
	require.Len(t, nodes, 2)
	assert.Equal(t, "core", nodes[0].Name)
	assert.Equal(t, []string{"view.py"}, nodes[1].Files)
	assert.Equal(t, []string{"widgets"}, folder.NodeNames(nodes[1].Children))
}

func TestParseFolders_YAML(t *testing.T) {
	data := []byte(`
folders:
  - core
  - name: data
    root_level: true
    create_init: false
    subfolders: [raw]
`)

	raws, err := ParseFolders("layout.yaml", data)
	require.NoError(t, err)

	nodes := folder.NormalizeList(raws, true)
	require.Len(t, nodes, 2)
	assert.True(t, nodes[1].RootLevel)
	assert.False(t, nodes[1].CreateMarker)
	assert.False(t, nodes[1].Children[0].CreateMarker)
}

func TestParseFolders_MissingKeyUsesDefaults(t *testing.T) {
	raws, err := ParseFolders("x.json", []byte(`{}`))
	require.NoError(t, err)
	assert.Equal(t, []string{"core", "ui", "utils", "assets"}, folder.NodeNames(folder.NormalizeList(raws, true)))
}

func TestParseFolders_Malformed(t *testing.T) {
	_, err := ParseFolders("x.jsonc", []byte(`{"folders": [`))
	assert.Equal(t, errors.ETemplateInvalid, errors.GetCode(err))

	_, err = ParseFolders("x.yaml", []byte("folders: [\n"))
	assert.Equal(t, errors.ETemplateInvalid, errors.GetCode(err))

	_, err = ParseFolders("x.json", []byte(`{"folders": "core"}`))
	assert.Equal(t, errors.ETemplateInvalid, errors.GetCode(err))
}

func testTree() fstest.MapFS {
	return fstest.MapFS{
		"default.jsonc":                {Data: []byte(`{"folders": ["core", "utils"]}`)},
		"ui_frameworks/pyqt6.jsonc":    {Data: []byte(`{"folders": [{"name": "ui", "files": ["view.py"]}]}`)},
		"project_types/fastapi.json":   {Data: []byte(`{"folders": [{"name": "ui", "files": ["model.py"]}, {"name": "api"}]}`)},
		"project_types/broken.jsonc":   {Data: []byte(`{`)},
		"boilerplate/common/README.md": {Data: []byte("# {{project_title}}\n")},
	}
}

func TestLoader_Resolve(t *testing.T) {
	l := NewLoader(testTree())

	tests := []struct {
		name        string
		framework   string
		projectType string
		want        []string
	}{
		{"none", "", "", []string{"core", "utils"}},
		{"framework display name", "PyQt6", "", []string{"ui"}},
		{"type", "", "fastapi", []string{"ui", "api"}},
		{"both merged", "PyQt6", "fastapi", []string{"ui", "api"}},
		{"missing framework falls back to default", "flet", "", []string{"core", "utils"}},
		{"missing side merges with default", "flet", "fastapi", []string{"core", "utils", "ui", "api"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			nodes, err := l.Resolve(tt.framework, tt.projectType)
			require.NoError(t, err)
			assert.Equal(t, tt.want, folder.NodeNames(nodes))
		})
	}
}

func TestLoader_ResolveMergesFiles(t *testing.T) {
	nodes, err := NewLoader(testTree()).Resolve("pyqt6", "fastapi")
	require.NoError(t, err)
	assert.Equal(t, []string{"view.py", "model.py"}, nodes[0].Files)
}

func TestLoader_NoDefaultFile(t *testing.T) {
	nodes, err := NewLoader(fstest.MapFS{}).Resolve("", "")
	require.NoError(t, err)
	assert.Equal(t, []string{"core", "ui", "utils", "assets"}, folder.NodeNames(nodes))
}

func TestLoader_BrokenTemplate(t *testing.T) {
	_, err := NewLoader(testTree()).Resolve("", "broken")
	assert.Equal(t, errors.ETemplateInvalid, errors.GetCode(err))
}

func TestLoader_Available(t *testing.T) {
	l := NewLoader(testTree())
	assert.Equal(t, []string{"broken", "fastapi"}, l.Available("project_types"))
	assert.Nil(t, l.Available("nope"))
}

func TestEmbedded_TemplatesParse(t *testing.T) {
	l := NewLoader(nil)

	for _, fw := range l.Available("ui_frameworks") {
		nodes, err := l.Resolve(fw, "")
		require.NoError(t, err, fw)
		assert.NotEmpty(t, nodes, fw)
	}
	for _, pt := range l.Available("project_types") {
		nodes, err := l.Resolve("", pt)
		require.NoError(t, err, pt)
		assert.NotEmpty(t, nodes, pt)
	}

	nodes, err := l.Resolve("", "")
	require.NoError(t, err)
	assert.Contains(t, folder.NodeNames(nodes), "tests")
}

func TestEmbedded_Boilerplate(t *testing.T) {
	bp := NewLoader(nil).Boilerplate()

	for _, name := range []string{
		"common/README.md",
		"common/test_app.py",
		"ui_frameworks/flet/main.py",
		"project_types/cli_typer/main.py",
	} {
		f, err := bp.Open(name)
		require.NoError(t, err, name)
		f.Close()
	}
}
