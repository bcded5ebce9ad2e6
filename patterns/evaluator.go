package patterns

import (
	"github.com/mitchellh/hashstructure"

	"github.com/gitrdm/scp-heuristic/config"
	"github.com/gitrdm/scp-heuristic/cost"
	"github.com/gitrdm/scp-heuristic/pdbs"
)

// partialState is the hashstructure.Hash input for a dead-end cache entry:
// a pattern together with the values its variables take at a proven
// dead-end abstract state.
type partialState struct {
	Pattern []int
	Values  []int
}

// PartialStateCollection is a set of partial assignments, used by
// PatternEvaluator's NEW/NEW_FOR_CURRENT_ORDER dead-end treatments to
// recognize whether a proven dead end has already been reported by an
// earlier pattern.
type PartialStateCollection struct {
	seen map[uint64]struct{}
}

// NewPartialStateCollection returns an empty collection.
func NewPartialStateCollection() *PartialStateCollection {
	return &PartialStateCollection{seen: map[uint64]struct{}{}}
}

func (c *PartialStateCollection) key(pattern []int, values []int) uint64 {
	h, err := hashstructure.Hash(partialState{Pattern: pattern, Values: values}, nil)
	if err != nil {
		// hashstructure.Hash only fails on unhashable types (channels,
		// funcs); partialState contains none, so this is unreachable.
		panic(err)
	}
	return h
}

// Contains reports whether (pattern, values) was previously added.
func (c *PartialStateCollection) Contains(pattern []int, values []int) bool {
	_, ok := c.seen[c.key(pattern, values)]
	return ok
}

// Add records (pattern, values) as seen.
func (c *PartialStateCollection) Add(pattern []int, values []int) {
	c.seen[c.key(pattern, values)] = struct{}{}
}

// Reset empties the collection, used between restarts under
// NEW_FOR_CURRENT_ORDER.
func (c *PartialStateCollection) Reset() {
	c.seen = map[uint64]struct{}{}
}

// Len returns the number of distinct partial states recorded.
func (c *PartialStateCollection) Len() int {
	return len(c.seen)
}

// PatternEvaluator decides whether a candidate Projection is worth keeping,
// given the dead-end treatment configured. It computes the projection's
// h-values once per call; deciding whether that constitutes the "bucketed
// Dijkstra, no full materialisation" micro-optimisation is a deliberate
// simplification recorded in DESIGN.md — it affects performance, not the
// usefulness verdict, since ComputeHValues and a hypothetical early-exit
// traversal agree on every (treatment, costs) input.
type PatternEvaluator struct {
	treatment config.DeadEndTreatment
	cache     *PartialStateCollection
}

// NewPatternEvaluator constructs an evaluator for the given dead-end
// treatment, with a fresh dead-end cache.
func NewPatternEvaluator(treatment config.DeadEndTreatment) *PatternEvaluator {
	return &PatternEvaluator{treatment: treatment, cache: NewPartialStateCollection()}
}

// ResetForNewOrder clears the dead-end cache iff the evaluator is configured
// with NEW_FOR_CURRENT_ORDER, called by the enumerator between restarts.
func (pe *PatternEvaluator) ResetForNewOrder() {
	if pe.treatment == config.DeadEndNewForCurrentOrder {
		pe.cache.Reset()
	}
}

// IsUseful reports whether pr's abstraction is worth admitting under costs,
// per the configured dead-end treatment.
func (pe *PatternEvaluator) IsUseful(pr *pdbs.Projection, costs []int) bool {
	h := pr.ComputeHValues(costs)

	switch pe.treatment {
	case config.DeadEndIgnore:
		for _, v := range h {
			if v > 0 && !cost.IsInfinite(v) {
				return true
			}
		}
		return false

	case config.DeadEndAll:
		for _, v := range h {
			if v > 0 {
				return true
			}
		}
		return false

	default: // NEW, NEW_FOR_CURRENT_ORDER
		useful := false
		for s, v := range h {
			if !cost.IsInfinite(v) {
				continue
			}
			values := pr.DecodeState(s)
			if !pe.cache.Contains(pr.Pattern(), values) {
				pe.cache.Add(pr.Pattern(), values)
				useful = true
			}
		}
		return useful
	}
}

// DeadEndCacheSize returns the number of distinct dead ends recorded so
// far, for statistics/logging.
func (pe *PatternEvaluator) DeadEndCacheSize() int {
	return pe.cache.Len()
}
