package loader

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nathoo/overworld/engine/dialogue"
)

func quiet() Option { return WithLogger(log.New(io.Discard)) }

func TestLoad_Meadow(t *testing.T) {
	defs, err := Load("testdata/meadow", quiet())
	require.NoError(t, err)

	g := defs.Game
	assert.Equal(t, "Meadow Test", g.Title)
	assert.Equal(t, "Tester", g.Author)
	assert.Equal(t, "0.1.0", g.Version)
	assert.Equal(t, "meadow", g.StartScene)
	assert.Equal(t, "Intro", g.StartDialogue)
	assert.Equal(t, 10.0, g.WalkSpeed)
	assert.Equal(t, 20.0, g.RunSpeed)
	assert.Equal(t, 1.0, g.CharWidth)
	assert.Equal(t, 1.0, g.CharHeight)

	require.Len(t, defs.Scenes, 2)
	meadow := defs.Scenes["meadow"]
	require.Len(t, meadow.Objects, 7)
	assert.Equal(t, "wall", meadow.Objects[0].Name)
	assert.True(t, meadow.Objects[0].Shape)
	assert.False(t, meadow.Objects[4].Visible, "hidden gem should not be visible")
	assert.Equal(t, "Elder", meadow.Objects[1].Props["dialogue"])

	cave := defs.Scenes["cave"]
	assert.Equal(t, 1.0, cave.SpawnX, "cave spawn comes from the spawn object")
	assert.Equal(t, 2.0, cave.SpawnY)
	assert.Equal(t, DefaultObjectSize, cave.Objects[0].W)

	require.Len(t, defs.Dialogues, 2)
	assert.Equal(t, "elder", defs.Dialogues[0].Name)
	assert.Equal(t, "intro", defs.Dialogues[1].Name)
	_, ok := FindDialogue(defs, "intro")
	assert.True(t, ok, "intro dialogue should be found by its file name")
}

func TestLoad_BrokenCollectsEveryProblem(t *testing.T) {
	_, err := Load("testdata/broken", quiet())
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assertContains(t, ve.Errors, "start scene")
	assertContains(t, ve.Errors, "start dialogue")
	assertContains(t, ve.Errors, `undefined node "Nowhere"`)
	assertContains(t, ve.Warnings, "duplicate node name")
	assertContains(t, ve.Warnings, `undefined scene "void"`)
}

func TestLoad_MissingDirectory(t *testing.T) {
	_, err := Load("testdata/does-not-exist", quiet())
	assert.Error(t, err)
}

func TestLoad_NoLuaFiles(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.dialogue.yaml", "nodes: []\n")
	_, err := Load(dir, quiet())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no .lua files")
}

func TestLoad_SandboxBlocksDofile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "game.lua", `dofile("other.lua")`)
	_, err := Load(dir, quiet())
	assert.Error(t, err, "dofile should not be available to content")
}

func TestLoad_MissingGame(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "scenes.lua", `Scene "a" { objects = {} }`)
	_, err := Load(dir, quiet())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Game{}")
}

func TestLoad_DuplicateScene(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "game.lua", `
Game { title = "T", start_scene = "a" }
Scene "a" {}
Scene "a" {}
`)
	_, err := Load(dir, quiet())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "more than once")
}

func TestParseDialogue_Bodies(t *testing.T) {
	data := []byte(`
name: all
nodes:
  - name: A
    text: hi
    next: C
  - goto: A
  - end: true
  - script: play_sound("x")
  - branch:
      - text: one
        next: A
`)
	a, err := ParseDialogue("fallback", data)
	require.NoError(t, err)
	assert.Equal(t, "all", a.Name)

	want := []string{"text", "goto", "end", "script", "branch"}
	require.Len(t, a.Nodes, len(want))
	for i, n := range a.Nodes {
		assert.Equal(t, want[i], n.Body.Kind(), "node %d", i)
	}
	assert.Equal(t, "C", a.Nodes[0].Next)

	br, ok := a.Nodes[4].Body.(dialogue.Branch)
	require.True(t, ok)
	require.Len(t, br.Choices, 1)
	assert.Equal(t, "A", br.Choices[0].Next)
}

func TestParseDialogue_Errors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want string
	}{
		{"no body", "nodes:\n  - name: X\n", "no body"},
		{"two bodies", "nodes:\n  - text: a\n    goto: b\n", "2 bodies"},
		{"bad yaml", "nodes: [", "decoding yaml"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseDialogue("x", []byte(tt.yaml))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func assertContains(t *testing.T, list []string, substr string) {
	t.Helper()
	for _, s := range list {
		if strings.Contains(s, substr) {
			return
		}
	}
	t.Errorf("expected an entry containing %q in %v", substr, list)
}
