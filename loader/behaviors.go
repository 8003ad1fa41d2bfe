package loader

import (
	"fmt"
	"strings"

	"github.com/nathoo/overworld/engine/collider"
	"github.com/nathoo/overworld/types"
)

// LoadPrefix marks objects whose name is a scene path to load.
const LoadPrefix = "load:"

// BehaviorsFor derives an object's collider tags from its properties and
// name. visible is the object's effective visibility. Warnings describe
// properties that were ignored.
func BehaviorsFor(obj types.ObjectDef, visible bool) (collider.BehaviorSet, []string) {
	var bs collider.BehaviorSet
	var warnings []string

	var spec types.DialogueSpec
	hasDialogue := false
	if node, ok := obj.Props["dialogue"].(string); ok {
		spec = types.DialogueSpec{NodeName: node, UI: types.UIMovementDisabled}
		hasDialogue = true
	}
	if node, ok := obj.Props["notice"].(string); ok {
		spec = types.DialogueSpec{NodeName: node, UI: types.UINotice, AutoDisplay: true}
		hasDialogue = true
	}
	if auto, ok := obj.Props["autodisplay"].(bool); ok && hasDialogue {
		if spec.UI == types.UINotice {
			spec.AutoDisplay = auto
		} else {
			warnings = append(warnings, fmt.Sprintf("object %q: autodisplay is only supported for notices", obj.Name))
		}
	}
	if hasDialogue {
		bs.Add(collider.Dialogue{Spec: spec})
	}

	if code, ok := obj.Props["script"].(string); ok && strings.TrimSpace(code) != "" {
		bs.Add(collider.Script{Code: code})
	}

	switch {
	case obj.Name == "spawn" || obj.Name == "trigger":
	case obj.Name == "gem" || obj.Name == "biggem":
		if visible {
			bs.Add(collider.Collect{})
		}
	case strings.HasPrefix(obj.Name, LoadPrefix):
		if visible {
			bs.Add(collider.Load{Path: strings.TrimPrefix(obj.Name, LoadPrefix)})
		}
	case obj.Shape || !obj.HasChildren:
		bs.Add(collider.Obstruct{})
	}
	return bs, warnings
}
