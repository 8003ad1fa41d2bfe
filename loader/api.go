package loader

import (
	lua "github.com/yuin/gopher-lua"
)

// registerAPI registers the content constructors as globals.
func registerAPI(L *lua.LState, coll *collector) {
	// Game { title = "...", start_scene = "...", ... }
	L.SetGlobal("Game", L.NewFunction(func(L *lua.LState) int {
		tbl := L.CheckTable(1)
		if coll.game != nil {
			L.RaiseError("Game{} defined more than once")
		}
		coll.game = tbl
		return 0
	}))

	// Scene "id" { spawn = {...}, objects = {...} } is curried: Scene("id")
	// returns a function that takes a table.
	L.SetGlobal("Scene", L.NewFunction(func(L *lua.LState) int {
		id := L.CheckString(1)
		L.Push(L.NewFunction(func(L *lua.LState) int {
			tbl := L.CheckTable(1)
			coll.scenes = append(coll.scenes, rawScene{id: id, table: tbl, order: coll.nextSourceOrder()})
			return 0
		}))
		return 1
	}))

	// Object { name = "...", x = 0, y = 0, ... } returns its table, so scene
	// files can build object lists with helpers.
	L.SetGlobal("Object", L.NewFunction(func(L *lua.LState) int {
		tbl := L.CheckTable(1)
		if getString(tbl, "name") == "" {
			L.ArgError(1, "object needs a name")
		}
		L.Push(tbl)
		return 1
	}))
}
