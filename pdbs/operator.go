package pdbs

import "github.com/gitrdm/scp-heuristic/task"

// AbstractOperator is one of possibly several abstract operators induced by
// a single concrete operator in a Projection.
type AbstractOperator struct {
	// ConcreteOp is the index of the originating concrete operator in the
	// task's operator list. Several AbstractOperators may share a
	// ConcreteOp (one per unspecified-precondition multiplication).
	ConcreteOp int
	Cost       int
	// Delta is the signed hash delta: applying this operator to a source
	// state index s (that satisfies Precondition) yields s+Delta.
	Delta int
	// Precondition[i] is the required value of pattern position i, or -1 if
	// this operator does not constrain pattern position i ("don't care").
	Precondition []int
}

// buildAbstractOperators enumerates every abstract operator induced by op
// under pattern p:
//   - an effect on v with no precondition on v is multiplied out over every
//     source value in [0, domain(v));
//   - an effect on v with a precondition p_v on v contributes a fixed delta
//     term (e_v - p_v) * M[i];
//   - a precondition-only (no effect) pattern variable contributes a fixed,
//     non-delta-affecting constraint;
//   - a pattern variable touched by neither precondition nor effect is left
//     unconstrained ("don't care").
//
// buildAbstractOperators returns nil if op has no effect on any variable in
// p (such operators induce pure self-loops and are dropped).
func buildAbstractOperators(op task.Operator, opID int, p Pattern, domainSizes []int, multipliers []int) []AbstractOperator {
	touchesPattern := false
	for _, v := range p {
		if op.Effect(v) != -1 {
			touchesPattern = true
			break
		}
	}
	if !touchesPattern {
		return nil
	}

	basePrecondition := make([]int, len(p))
	for i := range basePrecondition {
		basePrecondition[i] = -1
	}

	// toMultiplyOut holds, for each pattern position with an effect but
	// no precondition, the set of source values to enumerate.
	type multiplyVar struct {
		patternIndex int
		domain       int
		effectValue  int
	}
	var toMultiplyOut []multiplyVar
	baseDelta := 0

	for i, v := range p {
		effectVal := op.Effect(v)
		preVal := op.Precondition(v)
		switch {
		case effectVal != -1 && preVal != -1:
			basePrecondition[i] = preVal
			baseDelta += (effectVal - preVal) * multipliers[i]
		case effectVal != -1 && preVal == -1:
			toMultiplyOut = append(toMultiplyOut, multiplyVar{
				patternIndex: i,
				domain:       domainSizes[v],
				effectValue:  effectVal,
			})
		case effectVal == -1 && preVal != -1:
			basePrecondition[i] = preVal
			// no delta contribution: v is unaffected by this operator.
		default:
			// neither precondition nor effect on v: leave as "don't care".
		}
	}

	if len(toMultiplyOut) == 0 {
		pre := make([]int, len(basePrecondition))
		copy(pre, basePrecondition)
		return []AbstractOperator{{
			ConcreteOp:   opID,
			Cost:         op.Cost,
			Delta:        baseDelta,
			Precondition: pre,
		}}
	}

	var result []AbstractOperator
	var recurse func(idx int, delta int, precondition []int)
	recurse = func(idx int, delta int, precondition []int) {
		if idx == len(toMultiplyOut) {
			pre := make([]int, len(precondition))
			copy(pre, precondition)
			result = append(result, AbstractOperator{
				ConcreteOp:   opID,
				Cost:         op.Cost,
				Delta:        delta,
				Precondition: pre,
			})
			return
		}
		mv := toMultiplyOut[idx]
		m := multipliers[mv.patternIndex]
		for srcVal := 0; srcVal < mv.domain; srcVal++ {
			precondition[mv.patternIndex] = srcVal
			recurse(idx+1, delta+(mv.effectValue-srcVal)*m, precondition)
		}
		precondition[mv.patternIndex] = -1
	}
	recurse(0, baseDelta, append([]int(nil), basePrecondition...))
	return result
}

// isActive reports whether ao induces a state-changing transition.
func (ao AbstractOperator) isActive() bool {
	return ao.Delta != 0
}
