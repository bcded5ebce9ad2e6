package costsat

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gitrdm/scp-heuristic/cost"
)

func TestUnsolvabilityHeuristicIsUnsolvable(t *testing.T) {
	abstractions := []Abstraction{
		&fakeAbstraction{h: []int{0, cost.Infinite}},
		&fakeAbstraction{h: []int{0, 1}},
	}
	u := NewUnsolvabilityHeuristic(abstractions, UnitCosts(1))

	require.False(t, u.IsUnsolvable([]int{0, 0}))
	require.True(t, u.IsUnsolvable([]int{1, 0}))
}

func TestUnsolvabilityHeuristicMarkUsefulAbstractionsOnlyMarksDeadEndWitnesses(t *testing.T) {
	abstractions := []Abstraction{
		&fakeAbstraction{h: []int{0, cost.Infinite}},
		&fakeAbstraction{h: []int{0, 1}},
	}
	u := NewUnsolvabilityHeuristic(abstractions, UnitCosts(1))

	useful := make([]bool, len(abstractions))
	u.MarkUsefulAbstractions(useful)

	require.True(t, useful[0], "abstraction 0 witnessed a dead end and must be marked useful")
	require.False(t, useful[1], "abstraction 1 never witnessed a dead end and must not be marked useful")
}

func TestUnsolvabilityHeuristicMarkUsefulAbstractionsNoDeadEnds(t *testing.T) {
	abstractions := []Abstraction{
		&fakeAbstraction{h: []int{0, 1}},
		&fakeAbstraction{h: []int{2, 3}},
	}
	u := NewUnsolvabilityHeuristic(abstractions, UnitCosts(1))

	useful := make([]bool, len(abstractions))
	u.MarkUsefulAbstractions(useful)

	require.False(t, useful[0])
	require.False(t, useful[1])
}
