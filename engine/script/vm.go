package script

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
	lua "github.com/yuin/gopher-lua"
)

// VM is one Lua state. Every call goes through Eval, which holds the lock
// for the whole evaluation.
type VM struct {
	mu     sync.Mutex
	L      *lua.LState
	queue  *Queue
	name   string
	logger *log.Logger
}

// Option configures a VM.
type Option func(*VM)

// WithName labels the VM in errors and log lines.
func WithName(name string) Option {
	return func(vm *VM) { vm.name = name }
}

// WithLogger routes Lua print output and diagnostics.
func WithLogger(l *log.Logger) Option {
	return func(vm *VM) { vm.logger = l }
}

// NewVM creates a sandboxed VM whose natives push to q.
func NewVM(q *Queue, opts ...Option) *VM {
	vm := &VM{
		L:      lua.NewState(lua.Options{SkipOpenLibs: true}),
		queue:  q,
		name:   "script",
		logger: log.Default(),
	}
	for _, o := range opts {
		o(vm)
	}
	OpenSafeLibs(vm.L)
	Sandbox(vm.L)
	vm.registerNatives()
	return vm
}

func (vm *VM) registerNatives() {
	L := vm.L

	// set_visible("name", true)
	L.SetGlobal("set_visible", L.NewFunction(func(L *lua.LState) int {
		vm.queue.Push(SetVisible{Object: L.CheckString(1), Visible: L.CheckBool(2)})
		return 0
	}))

	// set_collectable("name", true)
	L.SetGlobal("set_collectable", L.NewFunction(func(L *lua.LState) int {
		vm.queue.Push(SetCollectable{Object: L.CheckString(1), Collectable: L.CheckBool(2)})
		return 0
	}))

	// start_dialogue("Node")
	L.SetGlobal("start_dialogue", L.NewFunction(func(L *lua.LState) int {
		vm.queue.Push(StartDialogue{Node: L.CheckString(1)})
		return 0
	}))

	// play_sound("sfx/chime.ogg")
	L.SetGlobal("play_sound", L.NewFunction(func(L *lua.LState) int {
		vm.queue.Push(PlaySound{Path: L.CheckString(1)})
		return 0
	}))

	L.SetGlobal("print", L.NewFunction(func(L *lua.LState) int {
		parts := make([]string, L.GetTop())
		for i := range parts {
			parts[i] = L.ToStringMeta(L.Get(i + 1)).String()
		}
		vm.logger.Info(strings.Join(parts, "\t"), "vm", vm.name)
		return 0
	}))
}

// Eval runs code to completion.
func (vm *VM) Eval(code string) error {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	if vm.L == nil {
		return fmt.Errorf("%s: vm closed", vm.name)
	}
	if err := vm.L.DoString(code); err != nil {
		return fmt.Errorf("%s: %w\n%s", vm.name, err, excerpt(code, failedLine(err)))
	}
	return nil
}

// Close releases the Lua state. Eval fails afterwards.
func (vm *VM) Close() {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	if vm.L != nil {
		vm.L.Close()
		vm.L = nil
	}
}

const excerptRadius = 1

// errorLine matches the chunk line in runtime ("<string>:5:") and syntax
// ("line:5(column:3)") errors.
var errorLine = regexp.MustCompile(`<string>:(\d+):|line:(\d+)`)

// failedLine returns the 1-based source line an error points at, or 0.
func failedLine(err error) int {
	msg := err.Error()
	var apiErr *lua.ApiError
	if errors.As(err, &apiErr) && apiErr.Object != nil {
		msg = apiErr.Object.String()
	}
	m := errorLine.FindStringSubmatch(msg)
	if m == nil {
		return 0
	}
	n, _ := strconv.Atoi(m[1] + m[2])
	return n
}

// excerpt returns the numbered source lines around line, with the failing
// line marked. Without a line it shows the start of the chunk.
func excerpt(code string, line int) string {
	lines := strings.Split(strings.TrimRight(code, "\n"), "\n")
	known := line >= 1 && line <= len(lines)
	if !known {
		line = 1
	}
	from := max(line-excerptRadius, 1)
	to := min(line+excerptRadius, len(lines))

	var b strings.Builder
	if from > 1 {
		fmt.Fprintf(&b, "   | ... (%d before)\n", from-1)
	}
	for n := from; n <= to; n++ {
		mark := "  "
		if known && n == line {
			mark = "> "
		}
		fmt.Fprintf(&b, "%s%3d| %s\n", mark, n, lines[n-1])
	}
	if to < len(lines) {
		fmt.Fprintf(&b, "   | ... (%d more)\n", len(lines)-to)
	}
	return strings.TrimRight(b.String(), "\n")
}
