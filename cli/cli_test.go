package cli

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nathoo/overworld/engine"
	"github.com/nathoo/overworld/engine/dialogue"
	"github.com/nathoo/overworld/engine/state"
	"github.com/nathoo/overworld/types"
)

// testDefs returns a small meadow: the elder to the east, a gem to the west
// and a door to the cave to the north. One unit per frame at dt 0.1.
func testDefs() *state.Defs {
	door := types.ObjectDef{Name: "load:cave", X: 0, Y: 1.5, W: 1, H: 1, Visible: true, Shape: true}
	return &state.Defs{
		Game: types.GameDef{
			Title:         "Test Game",
			StartScene:    "meadow",
			StartDialogue: "Intro",
			WalkSpeed:     10,
			RunSpeed:      20,
			CharWidth:     1,
			CharHeight:    1,
		},
		Scenes: map[string]types.SceneDef{
			"meadow": {
				ID: "meadow",
				Objects: []types.ObjectDef{
					{Name: "elder", X: 1.5, Y: 0, W: 1, H: 1, Visible: true, Props: map[string]any{"dialogue": "Elder"}},
					{Name: "gem", X: -1.5, Y: 0, W: 1, H: 1, Visible: true},
					door,
				},
			},
			"cave": {ID: "cave", SpawnX: 7, SpawnY: 7},
		},
		Dialogues: []*dialogue.Asset{
			dialogue.NewAsset("intro", []dialogue.Node{
				{Name: "Intro", Body: dialogue.Text{Text: "Welcome to the test."}},
				{Body: dialogue.End{}},
			}),
			dialogue.NewAsset("elder", []dialogue.Node{
				{Name: "Elder", Body: dialogue.Text{Text: "Care to help?"}},
				{Body: dialogue.Branch{Choices: []dialogue.Choice{{Text: "Yes", Next: "Yes"}, {Text: "No", Next: "No"}}}},
				{Name: "Yes", Body: dialogue.Text{Text: "Thanks!"}},
				{Body: dialogue.End{}},
				{Name: "No", Body: dialogue.Text{Text: "Pity."}},
				{Body: dialogue.End{}},
			}),
		},
	}
}

func newTestCLI(t *testing.T, input string, mutate func(*state.Defs)) (*CLI, *bytes.Buffer) {
	t.Helper()
	defs := testDefs()
	if mutate != nil {
		mutate(defs)
	}
	eng, err := engine.New(defs, engine.WithLogger(log.New(io.Discard)))
	require.NoError(t, err)
	t.Cleanup(eng.Close)
	var out bytes.Buffer
	c := &CLI{
		Engine: eng,
		In:     strings.NewReader(input),
		Out:    &out,
		DT:     0.1,
	}
	return c, &out
}

func run(t *testing.T, c *CLI) string {
	t.Helper()
	require.NoError(t, c.Run())
	return c.Out.(*bytes.Buffer).String()
}

func TestCLI_TitleAndStartDialogue(t *testing.T) {
	c, _ := newTestCLI(t, "/quit\n", nil)
	output := run(t, c)

	assert.Contains(t, output, "Test Game")
	assert.Contains(t, output, "Welcome to the test.")
	assert.Contains(t, output, "[Goodbye.]")
}

func TestCLI_TalkAndChoose(t *testing.T) {
	c, _ := newTestCLI(t, "a\ne\ntalk\na\n1\n/quit\n", nil)
	output := run(t, c)

	for _, want := range []string{"Care to help?", "  1. Yes", "  2. No", "Thanks!"} {
		assert.Contains(t, output, want)
	}
	assert.NotContains(t, output, "Pity.", "picked the wrong branch")
}

func TestCLI_MovementBlockedWhileDialogueOpen(t *testing.T) {
	c, _ := newTestCLI(t, "w 3\n/state\n/quit\n", nil)
	output := run(t, c)

	assert.NotContains(t, output, "Collected", "player walked while the start dialogue was open")
	assert.Contains(t, output, "Player: (0.0, 0.0)")
}

func TestCLI_CollectAndSceneChange(t *testing.T) {
	c, _ := newTestCLI(t, "a\nw\ne\nn 5\n/state\n/quit\n", nil)
	output := run(t, c)

	assert.Contains(t, output, "[Collected gem (1).]")
	assert.Contains(t, output, "-- cave --")
	assert.Contains(t, output, "Scene: cave")
	assert.Contains(t, output, "Inventory: gem x1")
}

func TestCLI_HelpCommand(t *testing.T) {
	c, _ := newTestCLI(t, "/help\n/quit\n", nil)
	output := run(t, c)

	for _, want := range []string{"/quit", "/state", "/trace", "interact"} {
		assert.Contains(t, output, want)
	}
}

func TestCLI_UnknownMetaCommand(t *testing.T) {
	c, _ := newTestCLI(t, "/bogus\n/quit\n", nil)
	assert.Contains(t, run(t, c), "Unknown command")
}

func TestCLI_UnknownVerb(t *testing.T) {
	c, _ := newTestCLI(t, "dance\n/quit\n", nil)
	assert.Contains(t, run(t, c), `I don't know how to "dance".`)
}

func TestCLI_TraceToggle(t *testing.T) {
	c, _ := newTestCLI(t, "/trace\na\ne\n/trace\n/quit\n", nil)
	output := run(t, c)

	assert.Contains(t, output, "Trace output enabled")
	assert.Contains(t, output, "interaction elder")
	assert.Contains(t, output, "Trace output disabled")
}

func TestCLI_EchoAndComments(t *testing.T) {
	c, _ := newTestCLI(t, "# a comment\na\n/quit\n", nil)
	c.EchoInput = true
	output := run(t, c)

	assert.NotContains(t, output, "a comment", "comment lines should be skipped")
	assert.Contains(t, output, "> a\n")
}

func TestCLI_Again_RepeatsLastCommand(t *testing.T) {
	c, _ := newTestCLI(t, "a\nwait\nagain\n/quit\n", nil)
	frames := 0
	c.Observe = func(*engine.Engine, engine.Frame) { frames++ }
	output := run(t, c)

	assert.Equal(t, 4, frames, "start + accept + wait + again")
	assert.NotContains(t, output, "Nothing to repeat")
}

func TestCLI_Again_NothingToRepeat(t *testing.T) {
	c, _ := newTestCLI(t, "again\n/quit\n", nil)
	assert.Contains(t, run(t, c), "Nothing to repeat")
}

func TestCLI_MissingStartDialogueIsFatal(t *testing.T) {
	c, _ := newTestCLI(t, "/quit\n", func(d *state.Defs) { d.Game.StartDialogue = "Nope" })
	assert.ErrorIs(t, c.Run(), dialogue.ErrNodeNotFound)
}
