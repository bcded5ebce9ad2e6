package task

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func twoVarTask() *Task {
	return &Task{
		DomainSizes:  []int{2, 2},
		InitialState: []int{0, 0},
		Goal:         []Fact{{Var: 0, Value: 1}, {Var: 1, Value: 1}},
		Operators: []Operator{
			{Name: "set_a", Cost: 1, Effects: []Fact{{Var: 0, Value: 1}}},
			{Name: "set_b", Cost: 1, Effects: []Fact{{Var: 1, Value: 1}}},
			{Name: "set_both", Cost: 2, Effects: []Fact{{Var: 0, Value: 1}, {Var: 1, Value: 1}}},
		},
	}
}

func TestRelevantOperators(t *testing.T) {
	info := NewInfo(twoVarTask())
	assert.Equal(t, []int{0, 2}, info.RelevantOperators(0))
	assert.Equal(t, []int{1, 2}, info.RelevantOperators(1))
}

func TestRelevantOperatorsForPattern(t *testing.T) {
	info := NewInfo(twoVarTask())
	assert.Equal(t, []int{0, 1, 2}, info.RelevantOperatorsForPattern([]int{0, 1}))
	assert.Equal(t, []int{0, 2}, info.RelevantOperatorsForPattern([]int{0}))
}
