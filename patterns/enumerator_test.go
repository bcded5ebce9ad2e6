package patterns

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/gitrdm/scp-heuristic/config"
	"github.com/gitrdm/scp-heuristic/task"
)

// threeVarFullyConnectedTask gives every pair of its three binary variables
// a causal-graph edge via a single operator touching all three, with one
// goal variable.
func threeVarFullyConnectedTask() *task.Task {
	return &task.Task{
		DomainSizes: []int{2, 2, 2},
		Operators: []task.Operator{
			{
				Name:          "op",
				Cost:          1,
				Preconditions: []task.Fact{{Var: 0, Value: 0}, {Var: 1, Value: 0}},
				Effects:       []task.Fact{{Var: 0, Value: 1}, {Var: 1, Value: 1}, {Var: 2, Value: 1}},
			},
		},
		Goal:         []task.Fact{{Var: 2, Value: 1}},
		InitialState: []int{0, 0, 0},
	}
}

func TestSystematicPatternEnumeratorSizeOneAndTwo(t *testing.T) {
	tk := threeVarFullyConnectedTask()
	opts := config.DefaultOptions()
	opts.MaxPatternSize = 2
	opts.MaxPDBSize = 100
	opts.DeadEnds = config.DeadEndIgnore

	e := NewSystematicPatternEnumerator(tk, opts)
	coll := e.Run([]int{1}, time.Time{})

	require.NotEmpty(t, coll.Projections, "goal-touching size-1/2 patterns should be admitted")
	for _, pr := range coll.Projections {
		require.LessOrEqual(t, len(pr.Pattern()), 2)
	}
}

func TestSystematicPatternEnumeratorOnlySGAFiltersNonGoalPatterns(t *testing.T) {
	tk := threeVarFullyConnectedTask()
	opts := config.DefaultOptions()
	opts.MaxPatternSize = 1
	opts.MaxPDBSize = 100
	opts.OnlySGAPatterns = true
	opts.DeadEnds = config.DeadEndIgnore

	e := NewSystematicPatternEnumerator(tk, opts)
	patterns := e.patternsOfSize(1)

	for _, p := range patterns {
		require.True(t, IsStronglyGoalRelevant(p, e.sgaReachable))
	}
}

func TestSystematicPatternEnumeratorRespectsMaxPatterns(t *testing.T) {
	tk := threeVarFullyConnectedTask()
	opts := config.DefaultOptions()
	opts.MaxPatternSize = 2
	opts.MaxPDBSize = 100
	opts.MaxPatterns = 1
	opts.DeadEnds = config.DeadEndIgnore

	e := NewSystematicPatternEnumerator(tk, opts)
	coll := e.Run([]int{1}, time.Time{})

	require.LessOrEqual(t, len(coll.Projections), 1)
}
