package loader

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/charmbracelet/log"
	lua "github.com/yuin/gopher-lua"

	"github.com/nathoo/overworld/engine/dialogue"
	"github.com/nathoo/overworld/engine/script"
	"github.com/nathoo/overworld/engine/state"
)

// DialogueSuffix marks dialogue asset files.
const DialogueSuffix = ".dialogue.yaml"

// collector accumulates Lua definitions during file execution.
type collector struct {
	game   *lua.LTable
	scenes []rawScene
	order  int
}

func (c *collector) nextSourceOrder() int {
	c.order++
	return c.order
}

type options struct {
	logger *log.Logger
}

// Option configures Load.
type Option func(*options)

// WithLogger sets where validation warnings go.
func WithLogger(l *log.Logger) Option {
	return func(o *options) { o.logger = l }
}

// Load reads every .lua file and every dialogue asset in dir, compiles them
// into definitions, validates references, and returns the immutable Defs.
// The Lua VM used for content is discarded after loading.
func Load(dir string, opts ...Option) (*state.Defs, error) {
	o := options{logger: log.Default()}
	for _, opt := range opts {
		opt(&o)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading content directory %s: %w", dir, err)
	}

	var luaFiles, dialogueFiles []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		switch name := e.Name(); {
		case strings.HasSuffix(name, ".lua"):
			luaFiles = append(luaFiles, name)
		case strings.HasSuffix(name, DialogueSuffix):
			dialogueFiles = append(dialogueFiles, name)
		}
	}
	if len(luaFiles) == 0 {
		return nil, fmt.Errorf("no .lua files found in %s", dir)
	}

	// game.lua first, rest alphabetical.
	luaFiles = sortedLuaFiles(luaFiles)
	sort.Strings(dialogueFiles)

	L := lua.NewState(lua.Options{SkipOpenLibs: true})
	defer L.Close()
	script.OpenSafeLibs(L)
	script.Sandbox(L)

	coll := &collector{}
	registerAPI(L, coll)

	for _, f := range luaFiles {
		if err := L.DoFile(filepath.Join(dir, f)); err != nil {
			return nil, fmt.Errorf("executing %s: %w", f, err)
		}
	}

	defs, err := compile(coll)
	if err != nil {
		return nil, fmt.Errorf("compiling content: %w", err)
	}

	for _, f := range dialogueFiles {
		data, err := os.ReadFile(filepath.Join(dir, f))
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", f, err)
		}
		asset, err := ParseDialogue(strings.TrimSuffix(f, DialogueSuffix), data)
		if err != nil {
			return nil, fmt.Errorf("parsing %s: %w", f, err)
		}
		defs.Dialogues = append(defs.Dialogues, asset)
	}

	if err := validate(defs, o.logger); err != nil {
		return nil, err
	}
	return defs, nil
}

// FindDialogue returns the asset with the given name.
func FindDialogue(defs *state.Defs, name string) (*dialogue.Asset, bool) {
	for _, a := range defs.Dialogues {
		if a.Name == name {
			return a, true
		}
	}
	return nil, false
}

// sortedLuaFiles puts game.lua first, the rest alphabetically.
func sortedLuaFiles(files []string) []string {
	var rest []string
	hasGame := false
	for _, f := range files {
		if f == "game.lua" {
			hasGame = true
			continue
		}
		rest = append(rest, f)
	}
	sort.Strings(rest)
	if hasGame {
		return append([]string{"game.lua"}, rest...)
	}
	return rest
}
