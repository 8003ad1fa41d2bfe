package script

import lua "github.com/yuin/gopher-lua"

// OpenSafeLibs opens base, table, string and math only.
func OpenSafeLibs(L *lua.LState) {
	lua.OpenBase(L)
	lua.OpenTable(L)
	lua.OpenString(L)
	lua.OpenMath(L)
}

// Sandbox removes globals that load code from disk or reach into the VM.
func Sandbox(L *lua.LState) {
	for _, name := range []string{
		"dofile", "loadfile", "load", "loadstring",
		"rawset", "rawget", "rawequal",
		"collectgarbage",
	} {
		L.SetGlobal(name, lua.LNil)
	}
}
