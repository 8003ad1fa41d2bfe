package script

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueue_DrainReturnsAllInOrderOnce(t *testing.T) {
	q := NewQueue()
	for i := 0; i < 5; i++ {
		q.Push(PlaySound{Path: string(rune('a' + i))})
	}
	assert.Equal(t, 5, q.Len())

	got := q.Drain()
	require.Len(t, got, 5)
	for i, c := range got {
		assert.Equal(t, PlaySound{Path: string(rune('a' + i))}, c)
	}
	assert.Empty(t, q.Drain(), "second drain is empty")
	assert.Equal(t, 0, q.Len())
}

func TestQueue_ConcurrentPushers(t *testing.T) {
	q := NewQueue()
	var wg sync.WaitGroup
	const workers, each = 8, 100
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < each; i++ {
				q.Push(StartDialogue{Node: "N"})
			}
		}()
	}

	var drained int
	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()
	for {
		select {
		case <-done:
			drained += len(q.Drain())
			assert.Equal(t, workers*each, drained, "no command lost or duplicated")
			return
		default:
			drained += len(q.Drain())
		}
	}
}

func TestVM_NativesPushCommands(t *testing.T) {
	q := NewQueue()
	vm := NewVM(q, WithName("test"))
	defer vm.Close()

	err := vm.Eval(`
		set_visible("gem", false)
		set_collectable("gem", true)
		start_dialogue("Thanks")
		play_sound("sfx/chime.ogg")
	`)
	require.NoError(t, err)
	assert.Equal(t, []Command{
		SetVisible{Object: "gem", Visible: false},
		SetCollectable{Object: "gem", Collectable: true},
		StartDialogue{Node: "Thanks"},
		PlaySound{Path: "sfx/chime.ogg"},
	}, q.Drain())
}

func TestVM_ErrorIncludesExcerpt(t *testing.T) {
	q := NewQueue()
	vm := NewVM(q, WithName("sign"))
	defer vm.Close()

	err := vm.Eval("set_visible(\"a\", true)\nnot_a_function()")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sign:")
	assert.Contains(t, err.Error(), "2| not_a_function()")
	// Commands pushed before the failure stay queued.
	assert.Len(t, q.Drain(), 1)
}

func TestVM_BadArgumentsRejected(t *testing.T) {
	q := NewQueue()
	vm := NewVM(q)
	defer vm.Close()

	assert.Error(t, vm.Eval(`set_visible("gem")`))
	assert.Equal(t, 0, q.Len())
}

func TestVM_SandboxRemovesLoaders(t *testing.T) {
	vm := NewVM(NewQueue())
	defer vm.Close()

	assert.Error(t, vm.Eval(`dofile("x.lua")`))
	assert.Error(t, vm.Eval(`os.exit(1)`), "os is not opened")
}

func TestVM_StatePersistsAcrossEvals(t *testing.T) {
	q := NewQueue()
	vm := NewVM(q)
	defer vm.Close()

	require.NoError(t, vm.Eval(`opened = true`))
	require.NoError(t, vm.Eval(`if opened then play_sound("door") end`))
	assert.Equal(t, []Command{PlaySound{Path: "door"}}, q.Drain())
}

func TestVM_ClosedFails(t *testing.T) {
	vm := NewVM(NewQueue())
	vm.Close()
	assert.Error(t, vm.Eval(`x = 1`))
}

func TestVM_ErrorExcerptCentersOnFailingLine(t *testing.T) {
	vm := NewVM(NewQueue(), WithName("elder"))
	defer vm.Close()

	code := "a = 1\nb = 2\nc = 3\nd = 4\nbroken()\ne = 5\nf = 6\n"
	err := vm.Eval(code)
	require.Error(t, err)
	assert.Contains(t, err.Error(), ">   5| broken()")
	assert.Contains(t, err.Error(), "  4| d = 4")
	assert.Contains(t, err.Error(), "  6| e = 5")
	assert.NotContains(t, err.Error(), "1| a = 1")
	assert.Equal(t, 5, failedLine(err))
}

func TestVM_SyntaxErrorLine(t *testing.T) {
	vm := NewVM(NewQueue())
	defer vm.Close()

	err := vm.Eval("x = 1\ny = = 2\n")
	require.Error(t, err)
	assert.Equal(t, 2, failedLine(err))
	assert.Contains(t, err.Error(), ">   2| y = = 2")
}

func TestExcerpt(t *testing.T) {
	code := "one\ntwo\nthree\nfour\nfive"
	tests := []struct {
		name string
		line int
		want string
	}{
		{"first line", 1, ">   1| one\n    2| two\n   | ... (3 more)"},
		{"middle", 3, "   | ... (1 before)\n    2| two\n>   3| three\n    4| four\n   | ... (1 more)"},
		{"last line", 5, "   | ... (3 before)\n    4| four\n>   5| five"},
		{"unknown line", 0, "    1| one\n    2| two\n   | ... (3 more)"},
		{"past the end", 9, "    1| one\n    2| two\n   | ... (3 more)"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, excerpt(code, tt.line))
		})
	}
}
