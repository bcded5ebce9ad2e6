// Package patterns implements pattern selection: a usefulness oracle
// (PatternEvaluator) that scans a projection's full h-value array from
// Projection.ComputeHValues, with no early exit, and the size-bounded
// systematic enumerator that drives it (SystematicPatternEnumerator).
package patterns

import "github.com/gitrdm/scp-heuristic/task"

// CausalGraph is the directed, weighted graph over task variables: an edge
// v1 -> v2 exists whenever some operator mentions v1 (in a precondition or
// an effect) and has an effect on v2, weighted by the number of operators
// inducing it. It is the classical causal graph used to decide whether a
// pattern is "interesting" and which variables are backward-reachable from
// the goal.
type CausalGraph struct {
	numVars int
	weight  map[[2]int]int
}

// BuildCausalGraph derives the causal graph of t.
func BuildCausalGraph(t *task.Task) *CausalGraph {
	cg := &CausalGraph{numVars: t.NumVariables(), weight: map[[2]int]int{}}
	for _, op := range t.Operators {
		mentioned := map[int]bool{}
		for _, f := range op.Preconditions {
			mentioned[f.Var] = true
		}
		for _, f := range op.Effects {
			mentioned[f.Var] = true
		}
		for _, eff := range op.Effects {
			for v1 := range mentioned {
				if v1 == eff.Var {
					continue
				}
				key := [2]int{v1, eff.Var}
				cg.weight[key]++
			}
		}
	}
	return cg
}

// EdgeWeight returns the number of operators inducing the edge v1 -> v2, or
// 0 if no such edge exists.
func (cg *CausalGraph) EdgeWeight(v1, v2 int) int {
	return cg.weight[[2]int{v1, v2}]
}

// neighborsUndirected returns every variable connected to v by an edge in
// either direction, used for the connectedness test: a pattern's
// "interestingness" only cares whether variables interact, not which way.
func (cg *CausalGraph) neighborsUndirected(v int) []int {
	var out []int
	for k := range cg.weight {
		if k[0] == v {
			out = append(out, k[1])
		} else if k[1] == v {
			out = append(out, k[0])
		}
	}
	return out
}

// IsConnected reports whether pattern induces a connected subgraph of cg,
// treating edges as undirected.
func (cg *CausalGraph) IsConnected(pattern []int) bool {
	if len(pattern) <= 1 {
		return true
	}
	inPattern := make(map[int]bool, len(pattern))
	for _, v := range pattern {
		inPattern[v] = true
	}

	visited := map[int]bool{pattern[0]: true}
	stack := []int{pattern[0]}
	for len(stack) > 0 {
		v := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, n := range cg.neighborsUndirected(v) {
			if !inPattern[n] || visited[n] {
				continue
			}
			visited[n] = true
			stack = append(stack, n)
		}
	}
	return len(visited) == len(pattern)
}

// TouchesGoalVariable reports whether any variable of pattern is
// goal-constrained.
func TouchesGoalVariable(pattern []int, t *task.Task) bool {
	for _, v := range pattern {
		if t.GoalValue(v) != -1 {
			return true
		}
	}
	return false
}

// BackwardReachableFromGoal returns the set of variables transitively
// reachable by following causal-graph edges backward (target -> source)
// from every goal variable, the basis of the "strongly goal-relevant"
// (SGA) pattern filter.
func (cg *CausalGraph) BackwardReachableFromGoal(t *task.Task) map[int]bool {
	reachable := map[int]bool{}
	var stack []int
	for _, f := range t.Goal {
		if !reachable[f.Var] {
			reachable[f.Var] = true
			stack = append(stack, f.Var)
		}
	}
	for len(stack) > 0 {
		v := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for k := range cg.weight {
			if k[1] == v && !reachable[k[0]] {
				reachable[k[0]] = true
				stack = append(stack, k[0])
			}
		}
	}
	return reachable
}

// IsStronglyGoalRelevant reports whether every variable of pattern is
// backward-reachable from the goal (the "only_sga_patterns" filter).
func IsStronglyGoalRelevant(pattern []int, reachable map[int]bool) bool {
	for _, v := range pattern {
		if !reachable[v] {
			return false
		}
	}
	return true
}
