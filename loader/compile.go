// Package loader loads Lua scene content and YAML dialogue assets into Go
// structs at startup. The content Lua VM is discarded after loading; the
// only Lua left at runtime is dialogue and object script code.
package loader

import (
	"fmt"
	"sort"

	lua "github.com/yuin/gopher-lua"

	"github.com/nathoo/overworld/engine/state"
	"github.com/nathoo/overworld/types"
)

// DefaultObjectSize is the collider size for objects authored without one.
const DefaultObjectSize = 40.0

// rawScene holds a scene table before compilation.
type rawScene struct {
	id    string
	table *lua.LTable
	order int
}

// getString returns a string field from a Lua table, or "" if missing.
func getString(tbl *lua.LTable, key string) string {
	if s, ok := tbl.RawGetString(key).(lua.LString); ok {
		return string(s)
	}
	return ""
}

// getBool returns a bool field from a Lua table, or the default if missing.
func getBool(tbl *lua.LTable, key string, def bool) bool {
	if b, ok := tbl.RawGetString(key).(lua.LBool); ok {
		return bool(b)
	}
	return def
}

// getNumber returns a numeric field from a Lua table, or 0 if missing.
func getNumber(tbl *lua.LTable, key string) float64 {
	if n, ok := tbl.RawGetString(key).(lua.LNumber); ok {
		return float64(n)
	}
	return 0
}

// getTable returns a table field from a Lua table, or nil if missing.
func getTable(tbl *lua.LTable, key string) *lua.LTable {
	if t, ok := tbl.RawGetString(key).(*lua.LTable); ok {
		return t
	}
	return nil
}

// toGoValue converts a Lua value to a Go value recursively.
func toGoValue(v lua.LValue) any {
	switch val := v.(type) {
	case lua.LBool:
		return bool(val)
	case lua.LNumber:
		f := float64(val)
		if f == float64(int(f)) {
			return int(f)
		}
		return f
	case lua.LString:
		return string(val)
	case *lua.LTable:
		if maxN := val.MaxN(); maxN > 0 {
			arr := make([]any, 0, maxN)
			for i := 1; i <= maxN; i++ {
				arr = append(arr, toGoValue(val.RawGetInt(i)))
			}
			return arr
		}
		return tableToAnyMap(val)
	default:
		return nil
	}
}

// tableToAnyMap converts a Lua table to a map[string]any.
func tableToAnyMap(tbl *lua.LTable) map[string]any {
	if tbl == nil {
		return nil
	}
	m := map[string]any{}
	tbl.ForEach(func(k, v lua.LValue) {
		if ks, ok := k.(lua.LString); ok {
			m[string(ks)] = toGoValue(v)
		}
	})
	return m
}

// compile converts the collected Lua data into Defs. Dialogue assets are
// attached by the caller.
func compile(coll *collector) (*state.Defs, error) {
	if coll.game == nil {
		return nil, fmt.Errorf("no Game{} definition found")
	}
	defs := &state.Defs{
		Game:   compileGame(coll.game),
		Scenes: map[string]types.SceneDef{},
	}

	sort.SliceStable(coll.scenes, func(i, j int) bool { return coll.scenes[i].order < coll.scenes[j].order })
	for _, raw := range coll.scenes {
		if _, dup := defs.Scenes[raw.id]; dup {
			return nil, fmt.Errorf("scene %q defined more than once", raw.id)
		}
		scene, err := compileScene(raw)
		if err != nil {
			return nil, fmt.Errorf("compiling scene %s: %w", raw.id, err)
		}
		defs.Scenes[scene.ID] = scene
	}
	return defs, nil
}

func compileGame(tbl *lua.LTable) types.GameDef {
	return types.GameDef{
		Title:         getString(tbl, "title"),
		Author:        getString(tbl, "author"),
		Version:       getString(tbl, "version"),
		StartScene:    getString(tbl, "start_scene"),
		StartDialogue: getString(tbl, "start_dialogue"),
		WalkSpeed:     getNumber(tbl, "walk_speed"),
		RunSpeed:      getNumber(tbl, "run_speed"),
		CharWidth:     getNumber(tbl, "char_width"),
		CharHeight:    getNumber(tbl, "char_height"),
	}
}

// compileScene compiles a raw scene. Without an explicit spawn table the
// player starts at the object named "spawn", if any.
func compileScene(raw rawScene) (types.SceneDef, error) {
	scene := types.SceneDef{ID: raw.id}

	if objs := getTable(raw.table, "objects"); objs != nil {
		for i := 1; i <= objs.Len(); i++ {
			tbl, ok := objs.RawGetInt(i).(*lua.LTable)
			if !ok {
				return types.SceneDef{}, fmt.Errorf("object %d is not a table", i)
			}
			obj, err := compileObject(tbl)
			if err != nil {
				return types.SceneDef{}, fmt.Errorf("object %d: %w", i, err)
			}
			scene.Objects = append(scene.Objects, obj)
		}
	}

	if spawn := getTable(raw.table, "spawn"); spawn != nil {
		scene.SpawnX, scene.SpawnY = getNumber(spawn, "x"), getNumber(spawn, "y")
	} else {
		for _, o := range scene.Objects {
			if o.Name == "spawn" {
				scene.SpawnX, scene.SpawnY = o.X, o.Y
				break
			}
		}
	}
	return scene, nil
}

func compileObject(tbl *lua.LTable) (types.ObjectDef, error) {
	obj := types.ObjectDef{
		Name:        getString(tbl, "name"),
		X:           getNumber(tbl, "x"),
		Y:           getNumber(tbl, "y"),
		W:           getNumber(tbl, "w"),
		H:           getNumber(tbl, "h"),
		Visible:     getBool(tbl, "visible", true),
		Shape:       getBool(tbl, "shape", false),
		HasChildren: getBool(tbl, "children", false),
		Props:       tableToAnyMap(getTable(tbl, "props")),
	}
	if obj.Name == "" {
		return types.ObjectDef{}, fmt.Errorf("missing name")
	}
	if obj.W <= 0 || obj.H <= 0 {
		obj.W, obj.H = DefaultObjectSize, DefaultObjectSize
	}
	if obj.Props == nil {
		obj.Props = map[string]any{}
	}
	return obj, nil
}
