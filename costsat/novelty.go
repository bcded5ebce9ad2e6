package costsat

import (
	"strconv"
	"strings"

	"github.com/gitrdm/scp-heuristic/task"
)

// NoveltyMode selects how NoveltyTracker judges a transition novel.
type NoveltyMode int

const (
	// NoveltyFact treats a transition as novel iff it introduces an effect
	// fact (var,val) never seen before.
	NoveltyFact NoveltyMode = -1
	// NoveltyFactPair treats a transition as novel iff it introduces an
	// (effect fact, state fact) pair never seen before.
	NoveltyFactPair NoveltyMode = -2
)

// NoveltyTracker throttles SCP computation in the online driver by tracking
// which facts (or fact pairs) have been seen so far, keyed off an explicit
// per-state memoized verdict rather than an out-of-band sentinel value
// threaded through an unrelated cache.
type NoveltyTracker struct {
	mode NoveltyMode

	factIDOffsets []int
	numFacts      int

	seenFacts     []bool
	seenFactPairs [][]bool

	// novelCache remembers the novelty verdict for a state already visited,
	// so it is computed exactly once per newly-seen state.
	novelCache map[string]bool
}

// NewNoveltyTracker builds a tracker over a task with the given per-variable
// domain sizes.
func NewNoveltyTracker(domainSizes []int, mode NoveltyMode) *NoveltyTracker {
	t := &NoveltyTracker{mode: mode, novelCache: map[string]bool{}}
	t.factIDOffsets = make([]int, len(domainSizes))
	numFacts := 0
	for v, d := range domainSizes {
		t.factIDOffsets[v] = numFacts
		numFacts += d
	}
	t.numFacts = numFacts

	switch mode {
	case NoveltyFact:
		t.seenFacts = make([]bool, numFacts)
	case NoveltyFactPair:
		t.seenFactPairs = make([][]bool, numFacts)
		for i := range t.seenFactPairs {
			t.seenFactPairs[i] = make([]bool, numFacts)
		}
	}
	return t
}

func (t *NoveltyTracker) factID(v, value int) int {
	return t.factIDOffsets[v] + value
}

// NotifyInitialState seeds the tracker with every fact (and, in
// fact-pair mode, every fact pair) of the initial state.
func (t *NoveltyTracker) NotifyInitialState(state []int) {
	switch t.mode {
	case NoveltyFact:
		for v, val := range state {
			t.seenFacts[t.factID(v, val)] = true
		}
	case NoveltyFactPair:
		for v1, val1 := range state {
			id1 := t.factID(v1, val1)
			for v2 := v1 + 1; v2 < len(state); v2++ {
				id2 := t.factID(v2, state[v2])
				t.visitFactPair(id1, id2)
			}
		}
	}
	t.novelCache[stateKey(state)] = false
}

// NotifyStateTransition records the novelty verdict for child, computed
// from op's effects and child's state, the first time child is seen.
func (t *NoveltyTracker) NotifyStateTransition(op task.Operator, child []int) {
	key := stateKey(child)
	if _, ok := t.novelCache[key]; ok {
		return
	}
	t.novelCache[key] = t.isNovel(op, child)
}

// IsNovel reports the memoised novelty verdict for state, previously
// recorded by NotifyInitialState or NotifyStateTransition. An unseen state
// (never notified) is conservatively treated as not novel.
func (t *NoveltyTracker) IsNovel(state []int) bool {
	return t.novelCache[stateKey(state)]
}

func (t *NoveltyTracker) isNovel(op task.Operator, state []int) bool {
	novel := false
	switch t.mode {
	case NoveltyFact:
		for _, eff := range op.Effects {
			id := t.factID(eff.Var, eff.Value)
			if !t.seenFacts[id] {
				t.seenFacts[id] = true
				novel = true
			}
		}
	case NoveltyFactPair:
		for _, eff := range op.Effects {
			id1 := t.factID(eff.Var, eff.Value)
			for v2 := 0; v2 < len(state); v2++ {
				if v2 == eff.Var {
					continue
				}
				id2 := t.factID(v2, state[v2])
				if t.visitFactPair(id1, id2) {
					novel = true
				}
			}
		}
	}
	return novel
}

func (t *NoveltyTracker) visitFactPair(id1, id2 int) (novel bool) {
	if id1 > id2 {
		id1, id2 = id2, id1
	}
	novel = !t.seenFactPairs[id1][id2]
	t.seenFactPairs[id1][id2] = true
	return novel
}

// Release drops the novelty bitsets and cache, matching the freeze
// transition's memory release.
func (t *NoveltyTracker) Release() {
	t.seenFacts = nil
	t.seenFactPairs = nil
	t.novelCache = nil
	t.factIDOffsets = nil
}

func stateKey(state []int) string {
	var b strings.Builder
	for i, v := range state {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.Itoa(v))
	}
	return b.String()
}
