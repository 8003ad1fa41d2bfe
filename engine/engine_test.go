package engine

import (
	"io"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nathoo/overworld/engine/collider"
	"github.com/nathoo/overworld/engine/dialogue"
	"github.com/nathoo/overworld/engine/events"
	"github.com/nathoo/overworld/engine/geom"
	"github.com/nathoo/overworld/engine/motion"
	"github.com/nathoo/overworld/engine/state"
	"github.com/nathoo/overworld/loader"
	"github.com/nathoo/overworld/types"
)

const dt = 0.1 // one unit per frame at walk speed 10

func obj(name string, x, y float64, props map[string]any) types.ObjectDef {
	return types.ObjectDef{Name: name, X: x, Y: y, W: 1, H: 1, Visible: true, Props: props}
}

func testDefs() *state.Defs {
	sign := obj("sign", 0, -1.5, map[string]any{"notice": "Sign"})
	sign.HasChildren = true
	door := obj("load:cave", 0, 1.5, nil)
	door.Shape = true
	hidden := obj("gem", 10, 10, nil)
	hidden.Visible = false
	nowhere := obj("load:nowhere", -5, 5, nil)
	nowhere.Shape = true
	trigger := obj("trigger", 5, 5, map[string]any{"script": "play_sound('wind')"})

	return &state.Defs{
		Game: types.GameDef{
			Title:      "Test",
			StartScene: "meadow",
			WalkSpeed:  10,
			RunSpeed:   20,
			CharWidth:  1,
			CharHeight: 1,
		},
		Scenes: map[string]types.SceneDef{
			"meadow": {
				ID: "meadow",
				Objects: []types.ObjectDef{
					obj("elder", 1.5, 0, map[string]any{"dialogue": "Elder"}),
					obj("gem", -1.5, 0, nil),
					door, sign, hidden, trigger, nowhere,
				},
			},
			"cave": {ID: "cave", SpawnX: 7, SpawnY: 7},
		},
		Dialogues: []*dialogue.Asset{
			dialogue.NewAsset("intro", []dialogue.Node{
				{Name: "Intro", Body: dialogue.GoTo{Target: "Greet"}},
				{Name: "Greet", Body: dialogue.Text{Text: "Hello"}},
				{Body: dialogue.End{}},
				{Name: "Sign", Body: dialogue.Text{Text: "North"}},
				{Body: dialogue.End{}},
			}),
			dialogue.NewAsset("elder", []dialogue.Node{
				{Name: "Elder", Body: dialogue.Text{Text: "Welcome"}},
				{Body: dialogue.Branch{Choices: []dialogue.Choice{{Text: "Yes", Next: "Yes"}, {Text: "No", Next: "No"}}}},
				{Name: "Yes", Body: dialogue.Script{Code: `set_visible("gem", true)`}, Next: "Thanks"},
				{Name: "No", Body: dialogue.Text{Text: "Pity"}},
				{Body: dialogue.End{}},
				{Name: "Thanks", Body: dialogue.Text{Text: "Thanks"}},
				{Body: dialogue.End{}},
			}),
		},
	}
}

func newEngine(t *testing.T, mutate func(*state.Defs)) *Engine {
	t.Helper()
	defs := testDefs()
	if mutate != nil {
		mutate(defs)
	}
	e, err := New(defs, WithLogger(log.New(io.Discard)))
	require.NoError(t, err)
	t.Cleanup(e.Close)
	return e
}

func step(t *testing.T, e *Engine, in types.Intent) Frame {
	t.Helper()
	f, err := e.Step(in, dt)
	require.NoError(t, err)
	return f
}

func texts(f Frame) []string {
	var out []string
	for _, ev := range events.Filter(f.Events, events.Text) {
		out = append(out, ev.Text)
	}
	return out
}

func TestNew_MissingStartScene(t *testing.T) {
	defs := testDefs()
	defs.Game.StartScene = "nowhere"
	_, err := New(defs, WithLogger(log.New(io.Discard)))
	assert.Error(t, err)
}

func TestStep_StartDialogueShownOnceAndGatesMovement(t *testing.T) {
	e := newEngine(t, func(d *state.Defs) { d.Game.StartDialogue = "Intro" })

	f := step(t, e, types.Intent{})
	assert.Equal(t, []string{"Hello"}, texts(f))
	assert.True(t, f.Modal)

	f = step(t, e, types.Intent{Down: true})
	assert.Empty(t, texts(f), "start dialogue is not shown twice")
	assert.False(t, f.Moved, "movement disabled while the dialogue is open")

	f = step(t, e, types.Intent{Accept: true})
	assert.True(t, events.Has(f.Events, events.End))
	assert.False(t, f.Modal)

	f = step(t, e, types.Intent{Left: true})
	assert.True(t, f.Moved)
}

func TestStep_MissingStartDialogueIsFatal(t *testing.T) {
	e := newEngine(t, func(d *state.Defs) { d.Game.StartDialogue = "Nope" })
	_, err := e.Step(types.Intent{}, dt)
	assert.ErrorIs(t, err, dialogue.ErrNodeNotFound)
}

func TestStep_CollectGemOnce(t *testing.T) {
	e := newEngine(t, nil)
	gemID := e.Registry.ByName("gem")[0]

	f := step(t, e, types.Intent{Left: true})
	assert.True(t, f.Moved, "gems do not obstruct")
	collected := events.Filter(f.Events, events.Collected)
	require.Len(t, collected, 1)
	assert.Equal(t, "gem", collected[0].Object)
	assert.Equal(t, 1, e.World.Count("gem"))

	_, ok := e.Registry.Get(gemID)
	assert.False(t, ok, "collected object is removed")

	f = step(t, e, types.Intent{Left: true})
	assert.False(t, events.Has(f.Events, events.Collected))
	assert.Equal(t, 1, e.World.Count("gem"))
}

func TestStep_ObstructBlocksAndOffersDialogue(t *testing.T) {
	e := newEngine(t, nil)

	f := step(t, e, types.Intent{Right: true})
	assert.False(t, f.Moved)
	assert.Equal(t, geom.V(0, 0), e.Player.Position)
	require.Len(t, events.Filter(f.Events, events.Interaction), 1)
	assert.Empty(t, texts(f), "manual dialogue waits for interact")
	assert.Equal(t, []types.DialogueSpec{{NodeName: "Elder", UI: types.UIMovementDisabled}}, e.Player.Available)

	f = step(t, e, types.Intent{Interact: true})
	assert.Equal(t, []string{"Welcome"}, texts(f))
	assert.True(t, f.Modal)
}

func TestStep_BranchChoiceRunsScriptAndAppliesCommands(t *testing.T) {
	e := newEngine(t, nil)
	hidden := e.Registry.ByName("gem")[1]
	require.False(t, e.Registry.HasBehavior(hidden, collider.Collect{}))

	step(t, e, types.Intent{Right: true})
	step(t, e, types.Intent{Interact: true})

	f := step(t, e, types.Intent{Accept: true})
	choices := events.Filter(f.Events, events.Choices)
	require.Len(t, choices, 1)
	assert.Equal(t, []string{"Yes", "No"}, choices[0].Choices)

	f = step(t, e, types.Intent{Choose: 9})
	assert.Empty(t, texts(f), "out of range choice is ignored")

	f = step(t, e, types.Intent{Choose: 1})
	assert.Equal(t, []string{"Thanks"}, texts(f))
	cmds := events.Filter(f.Events, events.Command)
	require.Len(t, cmds, 1)
	assert.Equal(t, `set_visible("gem", true)`, cmds[0].Text)
	assert.True(t, e.Registry.HasBehavior(hidden, collider.Collect{}), "revealed gem is collectable")
	assert.True(t, e.World.Visibility["gem"])
}

func TestStep_NoticeAutoDisplaysWithoutGating(t *testing.T) {
	e := newEngine(t, nil)

	f := step(t, e, types.Intent{Down: true})
	assert.Equal(t, []string{"North"}, texts(f))
	assert.True(t, f.Moved)
	assert.False(t, f.Modal, "notices do not disable movement")

	f = step(t, e, types.Intent{Down: true})
	assert.Empty(t, texts(f), "an open notice is not restarted")
}

func endedDialogues(f Frame) []string {
	var out []string
	for _, ev := range events.Filter(f.Events, events.End) {
		out = append(out, ev.Dialogue)
	}
	return out
}

// openNoticeThenTalk leaves the sign notice showing and starts the elder.
func openNoticeThenTalk(t *testing.T, e *Engine) Frame {
	t.Helper()
	f := step(t, e, types.Intent{Down: true})
	require.Equal(t, []string{"North"}, texts(f))
	step(t, e, types.Intent{Up: true})
	step(t, e, types.Intent{Right: true})
	require.Len(t, e.Player.Available, 1)
	return step(t, e, types.Intent{Interact: true})
}

func TestStep_InteractWhileNoticeIsShowing(t *testing.T) {
	e := newEngine(t, nil)

	f := openNoticeThenTalk(t, e)
	assert.Equal(t, []string{"Welcome"}, texts(f))
	assert.True(t, f.Modal)
}

func TestStep_AcceptAdvancesModalDialogueBeforeNotice(t *testing.T) {
	e := newEngine(t, nil)
	openNoticeThenTalk(t, e)

	f := step(t, e, types.Intent{Accept: true})
	assert.True(t, events.Has(f.Events, events.Choices))
	assert.Empty(t, endedDialogues(f), "the notice waits while the elder talks")

	f = step(t, e, types.Intent{Choose: 2})
	assert.Equal(t, []string{"Pity"}, texts(f))

	f = step(t, e, types.Intent{Accept: true})
	assert.Equal(t, []string{"elder"}, endedDialogues(f))
	assert.False(t, f.Modal)

	f = step(t, e, types.Intent{Accept: true})
	assert.Equal(t, []string{"intro"}, endedDialogues(f))
}

func TestStep_LoadScene(t *testing.T) {
	e := newEngine(t, nil)

	f := step(t, e, types.Intent{Up: true})
	loaded := events.Filter(f.Events, events.SceneLoaded)
	require.Len(t, loaded, 1)
	assert.Equal(t, "cave", f.Scene)
	assert.Equal(t, geom.V(7, 7), e.Player.Position)
	assert.Empty(t, e.Registry.ByName("elder"), "old scene objects are gone")
}

func TestStep_MissingSceneIsNoOp(t *testing.T) {
	e := newEngine(t, nil)
	motion.Teleport(e.Registry, e.Player, geom.V(-5, 3.5))

	f := step(t, e, types.Intent{Up: true})
	assert.True(t, f.Moved)
	assert.Equal(t, "meadow", f.Scene)
	assert.False(t, events.Has(f.Events, events.SceneLoaded))
}

func TestStep_ObjectScriptCommandsDrainSameFrame(t *testing.T) {
	e := newEngine(t, nil)
	motion.Teleport(e.Registry, e.Player, geom.V(5, 3.5))

	f := step(t, e, types.Intent{Up: true})
	sounds := events.Filter(f.Events, events.Sound)
	require.Len(t, sounds, 1)
	assert.Equal(t, "wind", sounds[0].Path)
	assert.Equal(t, 0, e.Queue().Len())
}

func TestStep_CollectedStaysCollectedAcrossScenes(t *testing.T) {
	e := newEngine(t, nil)
	step(t, e, types.Intent{Left: true})
	require.Equal(t, 1, e.World.Count("gem"))

	require.NoError(t, e.LoadScene("cave"))
	require.NoError(t, e.LoadScene("meadow"))
	assert.Len(t, e.Registry.ByName("gem"), 1, "only the hidden gem comes back")
}

func TestStep_FrameNumbersIncrease(t *testing.T) {
	e := newEngine(t, nil)
	a := step(t, e, types.Intent{})
	b := step(t, e, types.Intent{})
	assert.Equal(t, a.Number+1, b.Number)
}

func TestSnapshot(t *testing.T) {
	e := newEngine(t, nil)
	step(t, e, types.Intent{Left: true})

	s := e.Snapshot()
	assert.Equal(t, "meadow", s.Scene)
	assert.Equal(t, 1, s.Inventory["gem"])
	assert.Equal(t, "west", s.Player.Facing)
	assert.Equal(t, "walking", s.Player.State)
	assert.Len(t, s.Dialogues, 2)
	assert.Len(t, s.Objects, 6)

	s.Inventory["gem"] = 99
	assert.Equal(t, 1, e.World.Count("gem"), "snapshot shares nothing")
}

func TestEngine_LoadsContentFromDisk(t *testing.T) {
	defs, err := loader.Load("../loader/testdata/meadow", loader.WithLogger(log.New(io.Discard)))
	require.NoError(t, err)
	e, err := New(defs, WithLogger(log.New(io.Discard)))
	require.NoError(t, err)
	defer e.Close()

	f, err := e.Step(types.Intent{}, dt)
	require.NoError(t, err)
	assert.Equal(t, []string{"Hello"}, texts(f))
}
