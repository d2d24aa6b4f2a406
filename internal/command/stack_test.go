package command

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/zjrosen/orchard/internal/scheme"
)

func TestStack_PushUndoRedo(t *testing.T) {
	s, reg := newScheme(t)
	root := s.Root()
	st := NewStack()
	require.True(t, st.IsClean())

	one := newNode(t, reg, "orchard.math.One")
	add := newNode(t, reg, "orchard.math.Add")
	require.NoError(t, st.Push(NewAddNode(root, one)))
	require.NoError(t, st.Push(NewAddNode(root, add)))
	before := take(root, st)

	link := resolve(t, one, "value", add, "left")
	require.NoError(t, st.Push(NewAddLink(root, link)))
	after := take(root, st)
	require.False(t, st.IsClean())
	require.Equal(t, "Add link", st.UndoText())

	require.NoError(t, st.Undo())
	requireElems(t, before.links, root.Links())
	require.Equal(t, "Add link", st.RedoText())

	require.NoError(t, st.Redo())
	requireElems(t, after.links, root.Links())
	require.Same(t, link, root.Links()[0])

	require.NoError(t, st.Undo())
	require.NoError(t, st.Undo())
	require.NoError(t, st.Undo())
	require.Empty(t, root.Nodes())
	require.ErrorIs(t, st.Undo(), ErrNothingToUndo)
	require.True(t, st.IsClean())
	require.Equal(t, "", st.UndoText())

	require.NoError(t, st.Redo())
	require.NoError(t, st.Redo())
	require.NoError(t, st.Redo())
	require.ErrorIs(t, st.Redo(), ErrNothingToRedo)
	requireElems(t, after.nodes, root.Nodes())
}

func TestStack_InvalidCommandsAreNotRecorded(t *testing.T) {
	s, reg := newScheme(t)
	root := s.Root()
	st := NewStack()
	one := newNode(t, reg, "orchard.math.One")
	add := newNode(t, reg, "orchard.math.Add")
	require.NoError(t, st.Push(NewAddNode(root, one)))
	require.NoError(t, st.Push(NewAddNode(root, add)))

	tests := []struct {
		name    string
		cmd     Command
		wantErr error
	}{
		{"already in graph", NewAddNode(root, one), scheme.ErrAlreadyInGraph},
		{"self loop", NewAddLink(root, resolve(t, add, "result", add, "right")), scheme.ErrTopology},
		{"remove detached", NewRemoveNode(root, newNode(t, reg, "orchard.math.One")), scheme.ErrNotInGraph},
		{"empty title", NewRenameNode(one, ""), ErrInvalidCommand},
		{"simple without undo", NewSimple("x", func() error { return nil }, nil), ErrInvalidCommand},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.ErrorIs(t, st.Push(tt.cmd), tt.wantErr)
			require.Equal(t, 2, st.Count())
			require.Equal(t, 2, st.Index())
		})
	}

	boom := errors.New("boom")
	require.ErrorIs(t, st.Push(NewSimple("fails", func() error { return boom }, func() error { return nil })), boom)
	require.Equal(t, 2, st.Count(), "failed apply is not recorded")
}

func TestStack_PushDropsRedoTailAndCleanMarker(t *testing.T) {
	s, _ := newScheme(t)
	st := NewStack()

	require.NoError(t, st.Push(NewSetTitle(s, "a")))
	require.NoError(t, st.Push(NewSetTitle(s, "b")))
	st.SetClean()
	require.Equal(t, 2, st.CleanIndex())

	require.NoError(t, st.Undo())
	require.False(t, st.IsClean())
	require.NoError(t, st.Redo())
	require.True(t, st.IsClean())

	require.NoError(t, st.Undo())
	require.NoError(t, st.Push(NewSetTitle(s, "c")))
	require.Equal(t, 2, st.Count())
	require.False(t, st.CanRedo())
	require.Equal(t, -1, st.CleanIndex(), "saved state dropped with the redo tail")
	require.False(t, st.IsClean())

	require.NoError(t, st.Undo())
	require.NoError(t, st.Undo())
	require.False(t, st.IsClean(), "no position is clean any more")
	require.Equal(t, "", s.Title())
}

func TestStack_CleanMarkerBelowIndexSurvivesPush(t *testing.T) {
	s, _ := newScheme(t)
	st := NewStack()
	require.NoError(t, st.Push(NewSetTitle(s, "a")))
	st.SetClean()
	require.NoError(t, st.Push(NewSetTitle(s, "b")))
	require.NoError(t, st.Push(NewSetTitle(s, "c")))
	require.NoError(t, st.Undo())
	require.NoError(t, st.Push(NewSetTitle(s, "d")))

	require.Equal(t, 1, st.CleanIndex())
	require.NoError(t, st.Undo())
	require.NoError(t, st.Undo())
	require.True(t, st.IsClean())
	require.Equal(t, "a", s.Title())
}

func TestStack_Macro(t *testing.T) {
	s, reg := newScheme(t)
	root := s.Root()
	st := NewStack()

	st.BeginMacro("Build")
	one := newNode(t, reg, "orchard.math.One")
	add := newNode(t, reg, "orchard.math.Add")
	require.NoError(t, st.Push(NewAddNode(root, one)))
	require.NoError(t, st.Push(NewAddNode(root, add)))
	st.BeginMacro("Wire")
	require.NoError(t, st.Push(NewAddLink(root, resolve(t, one, "value", add, "left"))))
	_, err := st.EndMacro()
	require.NoError(t, err)
	require.ErrorIs(t, st.Undo(), ErrMacroOpen)
	m, err := st.EndMacro()
	require.NoError(t, err)
	require.Equal(t, 3, m.Len())

	require.Equal(t, 1, st.Count())
	require.Equal(t, "Build", st.UndoText())
	require.Len(t, root.Links(), 1)

	require.NoError(t, st.Undo())
	require.Empty(t, root.Nodes())
	require.Empty(t, root.Links())

	require.NoError(t, st.Redo())
	require.Equal(t, []*scheme.Node{one, add}, root.Nodes())
	require.Len(t, root.Links(), 1)

	_, err = st.EndMacro()
	require.ErrorIs(t, err, ErrNoMacro)

	st.BeginMacro("Empty")
	_, err = st.EndMacro()
	require.NoError(t, err)
	require.Equal(t, 1, st.Count(), "empty macro is discarded")
}

func TestStack_AbortMacro(t *testing.T) {
	s, reg := newScheme(t)
	root := s.Root()
	st := NewStack()

	st.BeginMacro("Drop")
	require.NoError(t, st.Push(NewAddNode(root, newNode(t, reg, "orchard.math.One"))))
	require.NoError(t, st.Push(NewSetTitle(s, "changed")))
	require.NoError(t, st.AbortMacro())

	require.Empty(t, root.Nodes())
	require.Equal(t, "", s.Title())
	require.Zero(t, st.Count())
	require.False(t, st.InMacro())
	require.ErrorIs(t, st.AbortMacro(), ErrNoMacro)
}

func TestStack_MacroRollsBackOnFailure(t *testing.T) {
	s, reg := newScheme(t)
	root := s.Root()
	st := NewStack()
	one := newNode(t, reg, "orchard.math.One")
	add := newNode(t, reg, "orchard.math.Add")

	m := NewMacro("Broken",
		NewAddNode(root, one),
		NewAddNode(root, add),
		NewAddLink(root, resolve(t, add, "result", add, "left")),
	)
	require.ErrorIs(t, st.Push(m), scheme.ErrTopology)
	require.Empty(t, root.Nodes())
	require.Zero(t, st.Count())
}

func TestStack_Events(t *testing.T) {
	s, _ := newScheme(t)
	st := NewStack()
	var got []StackEvent
	unsubscribe := st.Subscribe(func(ev StackEvent) { got = append(got, ev) })

	require.NoError(t, st.Push(NewSetTitle(s, "a")))
	st.SetClean()
	st.SetClean()
	require.NoError(t, st.Undo())
	require.NoError(t, st.Redo())
	st.Clear()
	require.Equal(t, "a", s.Title(), "clear keeps the model")
	unsubscribe()
	require.NoError(t, st.Push(NewSetTitle(s, "b")))

	kinds := make([]StackEventKind, len(got))
	for i, ev := range got {
		kinds[i] = ev.Kind
	}
	require.Equal(t, []StackEventKind{StackPushed, StackCleanChanged, StackUndone, StackRedone, StackCleared}, kinds)
	require.True(t, got[1].Clean)
	require.False(t, got[2].Clean)
	require.Equal(t, 0, got[2].Index)
	require.True(t, got[4].Clean)
	require.Equal(t, "b", s.Title())
}

func TestStack_SetDirty(t *testing.T) {
	st := NewStack()
	require.True(t, st.IsClean())
	st.SetDirty()
	require.False(t, st.IsClean())
	st.SetClean()
	require.True(t, st.IsClean())
}
