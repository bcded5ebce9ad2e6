package costsat

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// fakeAbstraction is a minimal Abstraction stand-in for exercising
// OrderGenerator without building a real Projection.
type fakeAbstraction struct {
	h   []int
	sat []int
}

func (f *fakeAbstraction) GetAbstractStateID(state []int) int { return 0 }
func (f *fakeAbstraction) ComputeHValues(costs []int) []int   { return f.h }
func (f *fakeAbstraction) ComputeSaturatedCosts(h []int, numOperators int) []int {
	return f.sat
}
func (f *fakeAbstraction) OperatorIsActive(opID int) bool         { return true }
func (f *fakeAbstraction) OperatorInducesSelfLoop(opID int) bool  { return false }
func (f *fakeAbstraction) NumStates() int                         { return len(f.h) }
func (f *fakeAbstraction) GoalStates() []int                      { return nil }

func TestOrderGeneratorInitialQueryIsBaseline(t *testing.T) {
	og := NewOrderGenerator(MaxHeuristic, 2)
	abstractions := []Abstraction{
		&fakeAbstraction{h: []int{5, 0}, sat: []int{1, 0}},
		&fakeAbstraction{h: []int{3, 0}, sat: []int{0, 1}},
	}
	order := og.ComputeOrderForState(abstractions, []int{1, 1}, []int{0, 0}, true)
	require.Equal(t, Order{0, 1}, order)
}

func TestOrderGeneratorMaxHeuristicPicksLargerH(t *testing.T) {
	og := NewOrderGenerator(MaxHeuristic, 2)
	abstractions := []Abstraction{
		&fakeAbstraction{h: []int{3, 0}, sat: []int{1, 0}},
		&fakeAbstraction{h: []int{7, 0}, sat: []int{0, 1}},
	}
	order := og.ComputeOrderForState(abstractions, []int{1, 1}, []int{0, 0}, false)
	require.Equal(t, Order{1, 0}, order, "abstraction 1 has the larger h at the evaluated state")
}

func TestOrderGeneratorMinStolenCostsPicksCheaper(t *testing.T) {
	og := NewOrderGenerator(MinStolenCosts, 2)
	abstractions := []Abstraction{
		&fakeAbstraction{h: []int{1, 0}, sat: []int{5, 5}},
		&fakeAbstraction{h: []int{1, 0}, sat: []int{1, 1}},
	}
	order := og.ComputeOrderForState(abstractions, []int{10, 10}, []int{0, 0}, false)
	require.Equal(t, Order{1, 0}, order, "abstraction 1 steals less")
}

func TestOrderGeneratorTieBreakByAscendingIndex(t *testing.T) {
	og := NewOrderGenerator(MaxHeuristic, 2)
	abstractions := []Abstraction{
		&fakeAbstraction{h: []int{4, 0}, sat: []int{1, 0}},
		&fakeAbstraction{h: []int{4, 0}, sat: []int{0, 1}},
	}
	order := og.ComputeOrderForState(abstractions, []int{1, 1}, []int{0, 0}, false)
	require.Equal(t, Order{0, 1}, order)
}
