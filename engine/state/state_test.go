package state

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/nathoo/overworld/types"
)

func testDefs() *Defs {
	return &Defs{
		Game: types.GameDef{Title: "Test", StartScene: "meadow"},
		Scenes: map[string]types.SceneDef{
			"meadow": {ID: "meadow"},
			"cave":   {ID: "cave"},
		},
	}
}

func TestNewWorld(t *testing.T) {
	w := NewWorld(testDefs())
	assert.Equal(t, "meadow", w.Scene)
	assert.Empty(t, w.Inventory)
	assert.False(t, w.StartShown)
}

func TestVisible_OverrideWins(t *testing.T) {
	w := NewWorld(testDefs())
	gem := types.ObjectDef{Name: "gem", Visible: false}
	assert.False(t, w.Visible(gem))

	w.Visibility["gem"] = true
	assert.True(t, w.Visible(gem))

	w.Visibility["gem"] = false
	assert.False(t, w.Visible(types.ObjectDef{Name: "gem", Visible: true}))
}

func TestTake_CountsByName(t *testing.T) {
	w := NewWorld(testDefs())
	assert.Equal(t, 1, w.Take(ObjectKey("meadow", 0), "gem"))
	assert.Equal(t, 2, w.Take(ObjectKey("meadow", 3), "gem"))
	assert.Equal(t, 1, w.Take(ObjectKey("cave", 0), "biggem"))

	assert.Equal(t, 2, w.Count("gem"))
	assert.True(t, w.Taken["meadow#3"])
	assert.Equal(t, []string{"biggem", "gem"}, w.InventoryNames())
}

func TestDefs_SceneLookup(t *testing.T) {
	d := testDefs()
	_, ok := d.Scene("cave")
	assert.True(t, ok)
	_, ok = d.Scene("Cave")
	assert.False(t, ok)
	assert.Equal(t, []string{"cave", "meadow"}, d.SceneIDs())
}
