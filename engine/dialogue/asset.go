// Package dialogue implements the node-graph narrative state machine.
// Each running Instance is bound to its own script interpreter.
package dialogue

// Body is the content of a dialogue node: Text, GoTo, End, Script or Branch.
type Body interface {
	Kind() string
	body()
}

// Text shows a line and waits for the player to advance.
type Text struct {
	Text string
}

// GoTo jumps to a named node without pausing.
type GoTo struct {
	Target string
}

// End finishes the dialogue.
type End struct{}

// Script evaluates code against the bound interpreter and continues.
type Script struct {
	Code string
}

// Branch offers the player a choice.
type Branch struct {
	Choices []Choice
}

// Choice is one option of a Branch.
type Choice struct {
	Text string
	Next string
}

func (Text) body()   {}
func (GoTo) body()   {}
func (End) body()    {}
func (Script) body() {}
func (Branch) body() {}

func (Text) Kind() string   { return "text" }
func (GoTo) Kind() string   { return "goto" }
func (End) Kind() string    { return "end" }
func (Script) Kind() string { return "script" }
func (Branch) Kind() string { return "branch" }

// Node is one step of a dialogue. Name and Next are optional.
type Node struct {
	Name string
	Body Body
	Next string
}

// Asset is an immutable sequence of nodes with a name index.
type Asset struct {
	Name  string
	Nodes []Node

	byName map[string]int
	// Duplicates lists names registered more than once. The first node
	// with a given name wins.
	Duplicates []string
}

// NewAsset builds an asset and its name index.
func NewAsset(name string, nodes []Node) *Asset {
	a := &Asset{
		Name:   name,
		Nodes:  nodes,
		byName: make(map[string]int, len(nodes)),
	}
	for i, n := range nodes {
		if n.Name == "" {
			continue
		}
		if _, dup := a.byName[n.Name]; dup {
			a.Duplicates = append(a.Duplicates, n.Name)
			continue
		}
		a.byName[n.Name] = i
	}
	return a
}

// Index returns the node index for an exact, case-sensitive name.
func (a *Asset) Index(name string) (int, bool) {
	i, ok := a.byName[name]
	return i, ok
}

// Has reports whether a node with the given name exists.
func (a *Asset) Has(name string) bool {
	_, ok := a.byName[name]
	return ok
}

// Len returns the number of nodes.
func (a *Asset) Len() int { return len(a.Nodes) }
