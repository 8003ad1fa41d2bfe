package loader

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/nathoo/overworld/engine/dialogue"
)

type yamlAsset struct {
	Name  string     `yaml:"name"`
	Nodes []yamlNode `yaml:"nodes"`
}

type yamlNode struct {
	Name   string       `yaml:"name"`
	Text   *string      `yaml:"text"`
	GoTo   *string      `yaml:"goto"`
	End    bool         `yaml:"end"`
	Script *string      `yaml:"script"`
	Branch []yamlChoice `yaml:"branch"`
	Next   string       `yaml:"next"`
}

type yamlChoice struct {
	Text string `yaml:"text"`
	Next string `yaml:"next"`
}

// ParseDialogue decodes one YAML dialogue asset. fallbackName is used when
// the document has no top-level name.
func ParseDialogue(fallbackName string, data []byte) (*dialogue.Asset, error) {
	var raw yamlAsset
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decoding yaml: %w", err)
	}
	name := raw.Name
	if name == "" {
		name = fallbackName
	}

	nodes := make([]dialogue.Node, 0, len(raw.Nodes))
	for i, n := range raw.Nodes {
		body, err := n.body()
		if err != nil {
			label := n.Name
			if label == "" {
				label = fmt.Sprintf("#%d", i)
			}
			return nil, fmt.Errorf("dialogue %s node %s: %w", name, label, err)
		}
		nodes = append(nodes, dialogue.Node{Name: n.Name, Body: body, Next: n.Next})
	}
	return dialogue.NewAsset(name, nodes), nil
}

// body picks the node's single body key.
func (n yamlNode) body() (dialogue.Body, error) {
	var bodies []dialogue.Body
	if n.Text != nil {
		bodies = append(bodies, dialogue.Text{Text: *n.Text})
	}
	if n.GoTo != nil {
		bodies = append(bodies, dialogue.GoTo{Target: *n.GoTo})
	}
	if n.End {
		bodies = append(bodies, dialogue.End{})
	}
	if n.Script != nil {
		bodies = append(bodies, dialogue.Script{Code: *n.Script})
	}
	if n.Branch != nil {
		choices := make([]dialogue.Choice, len(n.Branch))
		for i, c := range n.Branch {
			choices[i] = dialogue.Choice{Text: c.Text, Next: c.Next}
		}
		bodies = append(bodies, dialogue.Branch{Choices: choices})
	}

	switch len(bodies) {
	case 1:
		return bodies[0], nil
	case 0:
		return nil, fmt.Errorf("no body (want one of text, goto, end, script, branch)")
	default:
		return nil, fmt.Errorf("%d bodies, want exactly one", len(bodies))
	}
}
