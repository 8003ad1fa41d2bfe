package loader

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/log"
	lua "github.com/yuin/gopher-lua"

	"github.com/nathoo/overworld/engine/dialogue"
	"github.com/nathoo/overworld/engine/state"
)

// ValidationError collects all validation errors and warnings.
type ValidationError struct {
	Errors   []string
	Warnings []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed with %d error(s):\n  %s",
		len(e.Errors), strings.Join(e.Errors, "\n  "))
}

// validate checks the compiled defs for referential integrity. Warnings are
// logged; errors are returned as a *ValidationError.
func validate(defs *state.Defs, logger *log.Logger) error {
	ve := check(defs)
	for _, w := range ve.Warnings {
		logger.Warn(w)
	}
	if len(ve.Errors) > 0 {
		return ve
	}
	return nil
}

func check(defs *state.Defs) *ValidationError {
	ve := &ValidationError{}

	if defs.Game.Title == "" {
		ve.Errors = append(ve.Errors, "Game.title is required")
	}
	if defs.Game.StartScene == "" {
		ve.Errors = append(ve.Errors, "Game.start_scene is required")
	} else if _, ok := defs.Scenes[defs.Game.StartScene]; !ok {
		ve.Errors = append(ve.Errors, fmt.Sprintf(
			"start scene %q not found in defined scenes", defs.Game.StartScene))
	}
	if name := defs.Game.StartDialogue; name != "" && !anyHasNode(defs, name) {
		ve.Errors = append(ve.Errors, fmt.Sprintf(
			"start dialogue node %q not found in any dialogue", name))
	}

	seen := map[string]bool{}
	for _, a := range defs.Dialogues {
		if seen[a.Name] {
			ve.Errors = append(ve.Errors, fmt.Sprintf("dialogue %q defined more than once", a.Name))
		}
		seen[a.Name] = true
		checkDialogue(a, ve)
	}

	for _, id := range defs.SceneIDs() {
		checkScene(defs, id, ve)
	}
	return ve
}

func checkDialogue(a *dialogue.Asset, ve *ValidationError) {
	for _, dup := range a.Duplicates {
		ve.Warnings = append(ve.Warnings, fmt.Sprintf(
			"dialogue %q: duplicate node name %q, the first one wins", a.Name, dup))
	}

	ref := func(i int, what, target string) {
		if !a.Has(target) {
			ve.Errors = append(ve.Errors, fmt.Sprintf(
				"dialogue %q node %d: %s points to undefined node %q", a.Name, i, what, target))
		}
	}
	for i, n := range a.Nodes {
		if n.Next != "" {
			ref(i, "next", n.Next)
		}
		switch b := n.Body.(type) {
		case dialogue.GoTo:
			ref(i, "goto", b.Target)
		case dialogue.Branch:
			if len(b.Choices) == 0 {
				ve.Errors = append(ve.Errors, fmt.Sprintf(
					"dialogue %q node %d: branch has no choices", a.Name, i))
			}
			for _, c := range b.Choices {
				ref(i, "choice "+fmt.Sprintf("%q", c.Text), c.Next)
			}
		case dialogue.Script:
			if err := compileCheck(b.Code); err != nil {
				ve.Warnings = append(ve.Warnings, fmt.Sprintf(
					"dialogue %q node %d: script does not compile: %v", a.Name, i, err))
			}
		}
	}
}

func checkScene(defs *state.Defs, id string, ve *ValidationError) {
	scene := defs.Scenes[id]
	for _, obj := range scene.Objects {
		_, warnings := BehaviorsFor(obj, true)
		for _, w := range warnings {
			ve.Warnings = append(ve.Warnings, fmt.Sprintf("scene %q: %s", id, w))
		}
		if node, ok := dialogueNode(obj.Props); ok && !anyHasNode(defs, node) {
			ve.Warnings = append(ve.Warnings, fmt.Sprintf(
				"scene %q object %q: dialogue node %q not found in any dialogue", id, obj.Name, node))
		}
		if strings.HasPrefix(obj.Name, LoadPrefix) {
			target := strings.TrimPrefix(obj.Name, LoadPrefix)
			if _, ok := defs.Scenes[target]; !ok {
				ve.Warnings = append(ve.Warnings, fmt.Sprintf(
					"scene %q: %q loads undefined scene %q", id, obj.Name, target))
			}
		}
		if code, ok := obj.Props["script"].(string); ok {
			if err := compileCheck(code); err != nil {
				ve.Warnings = append(ve.Warnings, fmt.Sprintf(
					"scene %q object %q: script does not compile: %v", id, obj.Name, err))
			}
		}
	}
}

func dialogueNode(props map[string]any) (string, bool) {
	for _, k := range []string{"notice", "dialogue"} {
		if s, ok := props[k].(string); ok {
			return s, true
		}
	}
	return "", false
}

func anyHasNode(defs *state.Defs, name string) bool {
	for _, a := range defs.Dialogues {
		if a.Has(name) {
			return true
		}
	}
	return false
}

// compileCheck parses code without running it.
func compileCheck(code string) error {
	L := lua.NewState(lua.Options{SkipOpenLibs: true})
	defer L.Close()
	_, err := L.LoadString(code)
	return err
}
