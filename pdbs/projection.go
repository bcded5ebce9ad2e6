package pdbs

import (
	"container/heap"
	"fmt"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/gitrdm/scp-heuristic/cost"
	"github.com/gitrdm/scp-heuristic/task"
)

// transition is a materialised forward abstract transition: applying
// ConcreteOp from abstract state Src yields Target.
type transition struct {
	Src, Target, ConcreteOp int
}

type revEdge struct {
	To         int
	ConcreteOp int
}

// ErrPatternTooLarge is returned by Build when the pattern's abstract state
// space exceeds the caller's size bound.
var ErrPatternTooLarge = errors.New("pattern exceeds maximum PDB size")

// Projection is a single pattern-database abstraction. It owns its abstract
// operators, match tree, and transition system until
// ReleaseTransitionSystemMemory is called.
type Projection struct {
	pattern     Pattern
	domainSizes []int
	multipliers []int
	numStates   int

	abstractOperators []AbstractOperator
	matchTree         *MatchTree

	transitions []transition
	reverseAdj  [][]revEdge

	goalStates []int

	activeOperators   map[int]bool
	loopingOperators  map[int]bool

	hasTransitionSystem bool
}

// Build constructs a Projection for pattern p over the task described by
// info. maxPDBSize bounds |P|'s abstract state space; exceeding it returns
// ErrPatternTooLarge so callers can skip the pattern.
func Build(info *task.Info, p Pattern, maxPDBSize int) (*Projection, error) {
	t := info.Task()
	if err := p.Validate(t.NumVariables()); err != nil {
		return nil, errors.Wrap(err, "invalid pattern")
	}

	multipliers, numStates, ok := hashMultipliers(p, t.DomainSizes, maxPDBSize)
	if !ok {
		return nil, ErrPatternTooLarge
	}

	pr := &Projection{
		pattern:           append(Pattern(nil), p...),
		domainSizes:       t.DomainSizes,
		multipliers:       multipliers,
		numStates:         numStates,
		activeOperators:   map[int]bool{},
		loopingOperators:  map[int]bool{},
		hasTransitionSystem: true,
	}

	var abstractOperators []AbstractOperator
	for _, opID := range relevantOperators(info, p) {
		ops := buildAbstractOperators(t.Operators[opID], opID, p, t.DomainSizes, multipliers)
		for _, ao := range ops {
			if ao.isActive() {
				pr.activeOperators[ao.ConcreteOp] = true
			} else {
				pr.loopingOperators[ao.ConcreteOp] = true
			}
		}
		abstractOperators = append(abstractOperators, ops...)
	}
	pr.abstractOperators = abstractOperators
	pr.matchTree = buildMatchTree(len(p), abstractOperators)

	pr.buildTransitions()
	pr.goalStates = pr.computeGoalStates(t)

	log.WithFields(log.Fields{
		"pattern":    p.String(),
		"num_states": numStates,
		"operators":  len(abstractOperators),
	}).Debug("built projection")

	return pr, nil
}

// buildTransitions materialises every forward abstract transition by
// enumerating every abstract state and querying the match tree for
// applicable operators, then inverts them into a reverse adjacency list for
// ComputeHValues' backward Dijkstra.
func (pr *Projection) buildTransitions() {
	pr.transitions = nil
	values := make([]int, len(pr.pattern))
	for s := 0; s < pr.numStates; s++ {
		pr.decodeInto(s, values)
		for _, opIdx := range pr.matchTree.ApplicableOperators(values) {
			ao := pr.abstractOperators[opIdx]
			if ao.Delta == 0 {
				continue // self-loop: never a useful transition edge
			}
			pr.transitions = append(pr.transitions, transition{
				Src:        s,
				Target:     s + ao.Delta,
				ConcreteOp: ao.ConcreteOp,
			})
		}
	}

	pr.reverseAdj = make([][]revEdge, pr.numStates)
	for _, tr := range pr.transitions {
		pr.reverseAdj[tr.Target] = append(pr.reverseAdj[tr.Target], revEdge{To: tr.Src, ConcreteOp: tr.ConcreteOp})
	}
}

func (pr *Projection) decodeInto(index int, out []int) {
	for i := len(pr.pattern) - 1; i >= 0; i-- {
		d := pr.domainSizes[pr.pattern[i]]
		out[i] = (index / pr.multipliers[i]) % d
	}
}

func (pr *Projection) computeGoalStates(t *task.Task) []int {
	goalValues := make([]int, len(pr.pattern))
	for i, v := range pr.pattern {
		goalValues[i] = t.GoalValue(v)
	}
	var goals []int
	values := make([]int, len(pr.pattern))
	for s := 0; s < pr.numStates; s++ {
		pr.decodeInto(s, values)
		match := true
		for i, gv := range goalValues {
			if gv != -1 && values[i] != gv {
				match = false
				break
			}
		}
		if match {
			goals = append(goals, s)
		}
	}
	return goals
}

// DecodeState returns the pattern-position values the abstract state stateID
// decodes to, the inverse of GetAbstractStateID restricted to this
// pattern's positions. Used by PatternEvaluator to key its dead-end cache by
// partial assignment rather than by opaque abstract-state id.
func (pr *Projection) DecodeState(stateID int) []int {
	values := make([]int, len(pr.pattern))
	pr.decodeInto(stateID, values)
	return values
}

// GetAbstractStateID computes the perfect-hash index of concreteState.
// concreteState must be indexed by task variable.
func (pr *Projection) GetAbstractStateID(concreteState []int) int {
	id := 0
	for i, v := range pr.pattern {
		id += concreteState[v] * pr.multipliers[i]
	}
	return id
}

// NumStates returns the size of the abstract state space.
func (pr *Projection) NumStates() int {
	return pr.numStates
}

// GoalStates returns the abstract-state indices satisfying the projected
// goal.
func (pr *Projection) GoalStates() []int {
	return pr.goalStates
}

// Pattern returns the pattern this projection was built from.
func (pr *Projection) Pattern() Pattern {
	return pr.pattern
}

// OperatorIsActive reports whether opID induced a state-changing
// transition in this abstraction.
func (pr *Projection) OperatorIsActive(opID int) bool {
	return pr.activeOperators[opID]
}

// OperatorInducesSelfLoop reports whether opID induced a self-loop in this
// abstraction. An operator may be both active and looping.
func (pr *Projection) OperatorInducesSelfLoop(opID int) bool {
	return pr.loopingOperators[opID]
}

// ActiveOperators returns the concrete operator ids with a state-changing
// transition in this abstraction.
func (pr *Projection) ActiveOperators() []int {
	out := make([]int, 0, len(pr.activeOperators))
	for id := range pr.activeOperators {
		out = append(out, id)
	}
	return out
}

type pqItem struct {
	state int
	dist  int
}

type priorityQueue []pqItem

func (pq priorityQueue) Len() int            { return len(pq) }
func (pq priorityQueue) Less(i, j int) bool  { return pq[i].dist < pq[j].dist }
func (pq priorityQueue) Swap(i, j int)       { pq[i], pq[j] = pq[j], pq[i] }
func (pq *priorityQueue) Push(x interface{}) { *pq = append(*pq, x.(pqItem)) }
func (pq *priorityQueue) Pop() interface{} {
	old := *pq
	n := len(old)
	item := old[n-1]
	*pq = old[:n-1]
	return item
}

// ComputeHValues runs a regressed (backward) uniform-cost shortest-path
// search from GoalStates over the reverse transition graph, with edge costs
// drawn from costs (indexed by concrete operator id). Returns an array of
// length NumStates; unreachable states are cost.Infinite.
func (pr *Projection) ComputeHValues(costs []int) []int {
	if !pr.hasTransitionSystem {
		panic("pdbs: ComputeHValues called after ReleaseTransitionSystemMemory")
	}
	return pr.dijkstraFrom(pr.goalStates, costs)
}

// ComputeDistancesToState returns, for every abstract state s, the shortest
// forward-transition distance from s to target under costs. It is the
// perimeter-direction counterpart to ComputeHValues (goal-directed),
// reusing the same reverse-adjacency structure with a single-state seed.
// Only the perimeter saturator calls this; it is deliberately not part of
// the Abstraction capability interface since every other caller only ever
// needs goal-directed h-values.
func (pr *Projection) ComputeDistancesToState(costs []int, target int) []int {
	if !pr.hasTransitionSystem {
		panic("pdbs: ComputeDistancesToState called after ReleaseTransitionSystemMemory")
	}
	return pr.dijkstraFrom([]int{target}, costs)
}

// dijkstraFrom runs a multi-source Dijkstra over the reverse transition
// graph seeded at seeds.
func (pr *Projection) dijkstraFrom(seeds []int, costs []int) []int {
	h := make([]int, pr.numStates)
	for i := range h {
		h[i] = cost.Infinite
	}
	pq := &priorityQueue{}
	heap.Init(pq)
	for _, g := range seeds {
		if h[g] != 0 {
			h[g] = 0
			heap.Push(pq, pqItem{state: g, dist: 0})
		}
	}
	for pq.Len() > 0 {
		item := heap.Pop(pq).(pqItem)
		if item.dist > h[item.state] {
			continue // stale queue entry
		}
		for _, e := range pr.reverseAdj[item.state] {
			c := costs[e.ConcreteOp]
			nd := cost.Add(item.dist, c)
			if nd < h[e.To] {
				h[e.To] = nd
				heap.Push(pq, pqItem{state: e.To, dist: nd})
			}
		}
	}
	return h
}

// ComputeSaturatedCosts returns, for every concrete operator id in
// [0, numOperators), the minimal cost that preserves every h-value in
// hValues. Operators irrelevant to this pattern (no transitions) keep their
// implicit saturated cost of 0.
func (pr *Projection) ComputeSaturatedCosts(hValues []int, numOperators int) []int {
	saturated := make([]int, numOperators)
	for _, tr := range pr.transitions {
		hs, ht := hValues[tr.Src], hValues[tr.Target]
		var contribution int
		switch {
		case cost.IsInfinite(hs) && cost.IsInfinite(ht):
			continue // both unreachable: no finite cost increase can matter here
		case cost.IsInfinite(hs):
			contribution = cost.Infinite
		case cost.IsInfinite(ht):
			contribution = hs
		default:
			contribution = hs - ht
			if contribution < 0 {
				contribution = 0
			}
		}
		if contribution > saturated[tr.ConcreteOp] {
			saturated[tr.ConcreteOp] = contribution
		}
	}
	return saturated
}

// ReleaseTransitionSystemMemory drops the abstract operators, match tree,
// transitions, and goal states, retaining only the hash function (pattern +
// multipliers) needed for GetAbstractStateID.
func (pr *Projection) ReleaseTransitionSystemMemory() {
	pr.abstractOperators = nil
	pr.matchTree = nil
	pr.transitions = nil
	pr.reverseAdj = nil
	pr.goalStates = nil
	pr.activeOperators = nil
	pr.loopingOperators = nil
	pr.hasTransitionSystem = false
}

// HasTransitionSystem reports whether the full transition system is still
// resident (false after ReleaseTransitionSystemMemory).
func (pr *Projection) HasTransitionSystem() bool {
	return pr.hasTransitionSystem
}

// AbstractionFunction is the lightweight concrete-to-abstract hash mapper
// retained for a Projection after the search process no longer needs its
// full transition system: just enough to compute abstract-state ids
type AbstractionFunction struct {
	pattern     Pattern
	domainSizes []int
	multipliers []int
}

// ExtractAbstractionFunction returns the hash-only projection of pr,
// independent of whether pr's transition system has been released.
func (pr *Projection) ExtractAbstractionFunction() *AbstractionFunction {
	return &AbstractionFunction{
		pattern:     append(Pattern(nil), pr.pattern...),
		domainSizes: pr.domainSizes,
		multipliers: append([]int(nil), pr.multipliers...),
	}
}

// GetAbstractStateID computes the perfect-hash index of concreteState.
func (af *AbstractionFunction) GetAbstractStateID(concreteState []int) int {
	id := 0
	for i, v := range af.pattern {
		id += concreteState[v] * af.multipliers[i]
	}
	return id
}

// Pattern returns the underlying pattern.
func (af *AbstractionFunction) Pattern() Pattern {
	return af.pattern
}

// String renders a short debug summary.
func (pr *Projection) String() string {
	return fmt.Sprintf("Projection{pattern=%s, num_states=%d}", pr.pattern, pr.numStates)
}

// LogFields returns structured fields for logrus calls that want to report
// on this projection.
func (pr *Projection) LogFields() log.Fields {
	return log.Fields{
		"pattern":    pr.pattern.String(),
		"num_states": pr.numStates,
	}
}
