// Package task models the external, already-parsed planning task: finite
// domain variables, operators with preconditions/effects, a goal, and an
// initial state. Loading such a task from a SAS+-like input file is out of
// scope; this package only defines the shape the rest of the module
// consumes.
package task

import "github.com/pkg/errors"

// Fact is a (variable, value) pair.
type Fact struct {
	Var   int `json:"var"`
	Value int `json:"value"`
}

// Operator is a concrete, ground operator. Cost may be cost.Infinite.
type Operator struct {
	Name          string `json:"name"`
	Cost          int    `json:"cost"`
	Preconditions []Fact `json:"preconditions,omitempty"`
	Effects       []Fact `json:"effects"`
	// ConditionalEffects reports whether any effect of this operator is
	// conditional on the state. Such operators cannot be represented by a
	// Projection and must be rejected at task-load time, not silently
	// mishandled.
	ConditionalEffects bool `json:"conditional_effects,omitempty"`
}

// Precondition returns the precondition value of op on var, or -1 if op has
// no precondition on var.
func (op Operator) Precondition(v int) int {
	for _, f := range op.Preconditions {
		if f.Var == v {
			return f.Value
		}
	}
	return -1
}

// Effect returns the effect value of op on var, or -1 if op has no effect on
// var.
func (op Operator) Effect(v int) int {
	for _, f := range op.Effects {
		if f.Var == v {
			return f.Value
		}
	}
	return -1
}

// Task is a finite-domain planning task.
type Task struct {
	// DomainSizes[v] is the number of values variable v can take, i.e. the
	// domain of v is [0, DomainSizes[v]).
	DomainSizes  []int      `json:"domain_sizes"`
	Operators    []Operator `json:"operators"`
	Goal         []Fact     `json:"goal"`
	InitialState []int      `json:"initial_state"`
	// HasAxioms reports whether the task defines derived/axiom variables.
	// Axioms are unsupported.
	HasAxioms bool `json:"has_axioms,omitempty"`
}

// NumVariables returns the number of variables in the task.
func (t *Task) NumVariables() int {
	return len(t.DomainSizes)
}

// GoalValue returns the goal value of variable v, or -1 if v is unconstrained
// by the goal.
func (t *Task) GoalValue(v int) int {
	for _, f := range t.Goal {
		if f.Var == v {
			return f.Value
		}
	}
	return -1
}

// ErrUnsupportedTask is the error kind returned by Validate for tasks the
// projection builder cannot represent.
type ErrUnsupportedTask struct {
	Reason string
}

func (e *ErrUnsupportedTask) Error() string {
	return "unsupported task: " + e.Reason
}

// Validate rejects tasks outside this module's scope: axioms and conditional
// effects. It is the single place that turns the "unsupported task" error
// kind into a concrete, checkable error.
func (t *Task) Validate() error {
	if t.HasAxioms {
		return errors.WithStack(&ErrUnsupportedTask{Reason: "task defines axioms"})
	}
	for _, op := range t.Operators {
		if op.ConditionalEffects {
			return errors.WithStack(&ErrUnsupportedTask{
				Reason: "operator " + op.Name + " has conditional effects",
			})
		}
	}
	if len(t.InitialState) != len(t.DomainSizes) {
		return errors.WithStack(&ErrUnsupportedTask{
			Reason: "initial state does not assign every variable",
		})
	}
	return nil
}
