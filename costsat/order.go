package costsat

import (
	"math"

	"github.com/gitrdm/scp-heuristic/cost"
)

// ScoringFunction selects how OrderGenerator scores an unordered abstraction
// at each greedy step.
type ScoringFunction int

const (
	MaxHeuristicPerStolenCosts ScoringFunction = iota
	MinStolenCosts
	MaxHeuristic
)

// OrderGenerator produces an Order for a given state by greedily picking,
// at each step, the unordered abstraction that scores best, then charging
// the shared residual cost pool for what that abstraction saturates.
type OrderGenerator struct {
	scoring      ScoringFunction
	numOperators int
}

// NewOrderGenerator constructs an OrderGenerator using the given scoring
// function over a task with numOperators concrete operators.
func NewOrderGenerator(scoring ScoringFunction, numOperators int) *OrderGenerator {
	return &OrderGenerator{scoring: scoring, numOperators: numOperators}
}

// ComputeOrderForState returns a total order over abstractions for the
// given state under costs. On the very first query (isInitialQuery), it
// returns the deterministic baseline order by abstraction id, since there
// is no prior evaluation history to score against yet.
func (og *OrderGenerator) ComputeOrderForState(abstractions []Abstraction, costs []int, stateIDs []int, isInitialQuery bool) Order {
	n := len(abstractions)
	order := make(Order, 0, n)

	if isInitialQuery {
		for i := 0; i < n; i++ {
			order = append(order, i)
		}
		return order
	}

	used := make([]bool, n)
	residual := append([]int(nil), costs...)

	for len(order) < n {
		bestIdx := -1
		var bestScore float64
		var bestSat []int

		for idx := 0; idx < n; idx++ {
			if used[idx] {
				continue
			}
			a := abstractions[idx]
			h := a.ComputeHValues(residual)
			sat := a.ComputeSaturatedCosts(h, og.numOperators)
			stolen := sumStolenCosts(sat)
			score := og.score(h[stateIDs[idx]], stolen)

			if bestIdx == -1 || score > bestScore {
				bestIdx, bestScore, bestSat = idx, score, sat
			}
		}

		order = append(order, bestIdx)
		used[bestIdx] = true
		for op := range residual {
			residual[op] = cost.ResidualSubSat(residual[op], bestSat[op])
		}
	}

	return order
}

func (og *OrderGenerator) score(hAtState, stolen int) float64 {
	switch og.scoring {
	case MinStolenCosts:
		// "Max score wins" throughout; minimizing stolen cost means
		// maximizing its negation.
		if cost.IsInfinite(stolen) {
			return math.Inf(-1)
		}
		return -float64(stolen)
	case MaxHeuristic:
		return toFloat(hAtState)
	default: // MaxHeuristicPerStolenCosts
		h := toFloat(hAtState)
		if stolen == 0 {
			if h > 0 {
				return math.Inf(1)
			}
			return 0
		}
		if cost.IsInfinite(stolen) {
			return 0
		}
		return h / float64(stolen)
	}
}

func toFloat(v int) float64 {
	if cost.IsInfinite(v) {
		return math.Inf(1)
	}
	return float64(v)
}

func sumStolenCosts(sat []int) int {
	total := 0
	for _, v := range sat {
		total = cost.Add(total, v)
	}
	return total
}
