package costsat

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gitrdm/scp-heuristic/task"
)

func TestNoveltyTrackerFactMode(t *testing.T) {
	nt := NewNoveltyTracker([]int{2, 2}, NoveltyFact)
	nt.NotifyInitialState([]int{0, 0})
	require.False(t, nt.IsNovel([]int{0, 0}))

	op := task.Operator{Name: "set-a", Effects: []task.Fact{{Var: 0, Value: 1}}}
	nt.NotifyStateTransition(op, []int{1, 0})
	require.True(t, nt.IsNovel([]int{1, 0}), "a=1 is a new fact")

	backOp := task.Operator{Name: "unset-a", Effects: []task.Fact{{Var: 0, Value: 0}}}
	nt.NotifyStateTransition(backOp, []int{0, 0})
	require.False(t, nt.IsNovel([]int{0, 0}), "(0,0) already notified as the initial state")
}

func TestNoveltyTrackerFactPairMode(t *testing.T) {
	nt := NewNoveltyTracker([]int{2, 2}, NoveltyFactPair)
	nt.NotifyInitialState([]int{0, 0})

	op := task.Operator{Name: "set-a", Effects: []task.Fact{{Var: 0, Value: 1}}}
	nt.NotifyStateTransition(op, []int{1, 0})
	require.True(t, nt.IsNovel([]int{1, 0}), "(a=1,b=0) pair is new")

	nt.NotifyStateTransition(op, []int{1, 0})
	require.True(t, nt.IsNovel([]int{1, 0}), "memoised verdict for an already-seen state is returned unchanged")
}

func TestNoveltyTrackerRelease(t *testing.T) {
	nt := NewNoveltyTracker([]int{2}, NoveltyFact)
	nt.NotifyInitialState([]int{0})
	nt.Release()
	require.Nil(t, nt.seenFacts)
	require.Nil(t, nt.novelCache)
}
