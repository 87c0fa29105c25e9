package folder

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMerge_FrameworkAndArchetype(t *testing.T) {
	framework := []Raw{Record{"name": "ui", "files": []any{"view.py"}}}
	archetype := []Raw{
		Record{"name": "ui", "files": []any{"model.py"}},
		Record{"name": "api"},
	}

	got := Merge(framework, archetype)

	require.Len(t, got, 2)
	assert.Equal(t, "ui", got[0].Name)
	assert.Equal(t, []string{"view.py", "model.py"}, got[0].Files)
	assert.Equal(t, "api", got[1].Name)
	assert.Empty(t, got[1].Files)
}

func TestMerge_OrderPrimaryThenSecondaryOnly(t *testing.T) {
	a := Names("core", "ui", "utils")
	b := Names("tests", "utils", "docs", "core")

	got := Merge(a, b)

	assert.Equal(t, []string{"core", "ui", "utils", "tests", "docs"}, NodeNames(got))
}

func TestMerge_EmptySideEqualsNormalize(t *testing.T) {
	a := []Raw{
		Name("core"),
		Record{"name": "assets", "create_init": false, "subfolders": []any{"images"}},
	}

	assert.Equal(t, NormalizeList(a, true), Merge(a, nil))
	assert.Equal(t, NormalizeList(a, true), Merge(nil, a))
}

func TestMerge_IdenticalInputHasNoDuplicates(t *testing.T) {
	a := []Raw{
		Record{"name": "ui", "files": []any{"app.py", "view.py"}, "subfolders": []any{"widgets"}},
		Name("core"),
	}

	got := Merge(a, a)

	assert.Equal(t, NodeNames(NormalizeList(a, true)), NodeNames(got))
	assert.Equal(t, []string{"app.py", "view.py"}, got[0].Files)
	assert.Equal(t, []string{"widgets"}, NodeNames(got[0].Children))
}

func TestMerge_BooleanOr(t *testing.T) {
	off := Record{"name": "assets", "create_init": false, "root_level": false}
	on := Record{"name": "assets", "create_init": true, "root_level": true}

	for _, pair := range [][2]Raw{{off, on}, {on, off}} {
		got := Merge([]Raw{pair[0]}, []Raw{pair[1]})
		require.Len(t, got, 1)
		assert.True(t, got[0].CreateMarker)
		assert.True(t, got[0].RootLevel)
	}

	got := Merge([]Raw{off}, []Raw{off})
	assert.False(t, got[0].CreateMarker)
	assert.False(t, got[0].RootLevel)
}

func TestMerge_FileUnion(t *testing.T) {
	p := []Raw{Record{"name": "core", "files": []any{"b.py", "a.py"}}}
	s := []Raw{Record{"name": "core", "files": []any{"c.py", "a.py", "d.py"}}}

	got := Merge(p, s)

	assert.Equal(t, []string{"b.py", "a.py", "c.py", "d.py"}, got[0].Files)
}

func TestMerge_PrimaryFilesKeptVerbatim(t *testing.T) {
	p := []Raw{Record{"name": "core", "files": []any{"a.py", "a.py"}}}
	s := []Raw{Record{"name": "core", "files": []any{"b.py", "a.py", "b.py"}}}

	got := Merge(p, s)

	assert.Equal(t, []string{"a.py", "a.py", "b.py"}, got[0].Files)
	assert.Equal(t, NormalizeList(p, true)[0].Files, Merge(p, []Raw{Record{"name": "core"}})[0].Files)
}

func TestMerge_RecursiveChildren(t *testing.T) {
	p := []Raw{Record{
		"name": "app",
		"subfolders": []any{
			map[string]any{"name": "routes", "files": []any{"users.py"}},
		},
	}}
	s := []Raw{Record{
		"name": "app",
		"subfolders": []any{
			map[string]any{"name": "models", "files": []any{"user.py"}},
			map[string]any{"name": "routes", "files": []any{"items.py"}},
		},
	}}

	got := Merge(p, s)

	require.Len(t, got, 1)
	children := got[0].Children
	assert.Equal(t, []string{"routes", "models"}, NodeNames(children))
	assert.Equal(t, []string{"users.py", "items.py"}, children[0].Files)
}

func TestMerge_SecondaryDuplicatesLastWins(t *testing.T) {
	p := []Raw{Name("ui")}
	s := []Raw{
		Record{"name": "ui", "files": []any{"first.py"}},
		Record{"name": "ui", "files": []any{"last.py"}},
	}

	got := Merge(p, s)

	require.Len(t, got, 1)
	assert.Equal(t, []string{"last.py"}, got[0].Files)
}

func TestMerge_DropsEmptyNames(t *testing.T) {
	got := Merge([]Raw{Name(""), Name("core")}, []Raw{Record{"files": []any{"x.py"}}})
	assert.Equal(t, []string{"core"}, NodeNames(got))
}

func TestMerge_DoesNotMutateInputs(t *testing.T) {
	p := []Raw{Node{Name: "ui", Files: []string{"view.py"}}}
	s := []Raw{Node{Name: "ui", Files: []string{"model.py"}}}

	_ = Merge(p, s)

	assert.Equal(t, []string{"view.py"}, p[0].(Node).Files)
	assert.Equal(t, []string{"model.py"}, s[0].(Node).Files)
}
