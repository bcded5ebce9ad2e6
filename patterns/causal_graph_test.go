package patterns

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gitrdm/scp-heuristic/task"
)

func threeChainTask() *task.Task {
	// v0 -> v1 -> v2 via an operator with precondition v0, effect v1, and a
	// second operator with precondition v1, effect v2.
	return &task.Task{
		DomainSizes: []int{2, 2, 2},
		Operators: []task.Operator{
			{Name: "op01", Preconditions: []task.Fact{{Var: 0, Value: 1}}, Effects: []task.Fact{{Var: 1, Value: 1}}},
			{Name: "op12", Preconditions: []task.Fact{{Var: 1, Value: 1}}, Effects: []task.Fact{{Var: 2, Value: 1}}},
		},
		Goal:         []task.Fact{{Var: 2, Value: 1}},
		InitialState: []int{0, 0, 0},
	}
}

func TestCausalGraphIsConnected(t *testing.T) {
	cg := BuildCausalGraph(threeChainTask())

	require.True(t, cg.IsConnected([]int{0, 1, 2}))
	require.True(t, cg.IsConnected([]int{0, 1}))
	require.False(t, cg.IsConnected([]int{0, 2}), "v0 and v2 are not directly or transitively linked without v1")
}

func TestTouchesGoalVariable(t *testing.T) {
	tk := threeChainTask()
	require.True(t, TouchesGoalVariable([]int{0, 2}, tk))
	require.False(t, TouchesGoalVariable([]int{0, 1}, tk))
}

func TestBackwardReachableFromGoal(t *testing.T) {
	cg := BuildCausalGraph(threeChainTask())
	tk := threeChainTask()
	reachable := cg.BackwardReachableFromGoal(tk)

	require.True(t, reachable[2])
	require.True(t, reachable[1])
	require.True(t, reachable[0])
}

func TestIsStronglyGoalRelevant(t *testing.T) {
	reachable := map[int]bool{0: true, 1: true, 2: true}
	require.True(t, IsStronglyGoalRelevant([]int{0, 1}, reachable))
	require.False(t, IsStronglyGoalRelevant([]int{0, 3}, reachable))
}
