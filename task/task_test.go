package task

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOperatorPreconditionEffect(t *testing.T) {
	op := Operator{
		Preconditions: []Fact{{Var: 0, Value: 1}},
		Effects:       []Fact{{Var: 1, Value: 2}},
	}
	assert.Equal(t, 1, op.Precondition(0))
	assert.Equal(t, -1, op.Precondition(1))
	assert.Equal(t, 2, op.Effect(1))
	assert.Equal(t, -1, op.Effect(0))
}

func TestValidateRejectsAxioms(t *testing.T) {
	tk := &Task{DomainSizes: []int{2}, InitialState: []int{0}, HasAxioms: true}
	err := tk.Validate()
	assert.Error(t, err)
	var unsupported *ErrUnsupportedTask
	assert.ErrorAs(t, err, &unsupported)
}

func TestValidateRejectsConditionalEffects(t *testing.T) {
	tk := &Task{
		DomainSizes:  []int{2},
		InitialState: []int{0},
		Operators:    []Operator{{Name: "op", ConditionalEffects: true}},
	}
	err := tk.Validate()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "op")
}

func TestValidateRejectsShortInitialState(t *testing.T) {
	tk := &Task{DomainSizes: []int{2, 2}, InitialState: []int{0}}
	assert.Error(t, tk.Validate())
}

func TestValidateAccepts(t *testing.T) {
	tk := &Task{DomainSizes: []int{2}, InitialState: []int{0}}
	assert.NoError(t, tk.Validate())
}

func TestGoalValue(t *testing.T) {
	tk := &Task{Goal: []Fact{{Var: 2, Value: 1}}}
	assert.Equal(t, 1, tk.GoalValue(2))
	assert.Equal(t, -1, tk.GoalValue(0))
}
