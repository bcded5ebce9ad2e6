package patterns

import (
	"math/rand"
	"sort"
	"time"

	"github.com/mitchellh/hashstructure"
	"github.com/sirupsen/logrus"

	"github.com/gitrdm/scp-heuristic/config"
	"github.com/gitrdm/scp-heuristic/cost"
	"github.com/gitrdm/scp-heuristic/pdbs"
	"github.com/gitrdm/scp-heuristic/task"
)

// Collection is the output of a SystematicPatternEnumerator run: every
// admitted Projection, plus the residual cost vector. When opts.Saturate is
// set, each admission reduces that vector by its saturated costs; otherwise
// it stays equal to the initial costs.
type Collection struct {
	Projections []*pdbs.Projection
	Costs       []int
}

// SystematicPatternEnumerator enumerates patterns of increasing size,
// filters them for structural "interestingness", orders each size's buffer
// per the configured OrderType, and admits a pattern iff its PatternEvaluator
// judges it useful under the residual costs.
type SystematicPatternEnumerator struct {
	task *task.Task
	info *task.Info
	cg   *CausalGraph
	opts config.Options
	rng  *rand.Rand
	log  *logrus.Entry

	evaluator *PatternEvaluator

	sgaReachable map[int]bool

	usedVarPairs map[[2]int]bool

	// buffers[size] is the array-pool of interesting patterns of that size,
	// populated lazily the first time that size is visited.
	buffers map[int][]pdbs.Pattern

	// storedOrders holds the last computed permutation per size, populated
	// only when opts.StoreOrders is set, so a later order generator that
	// wants the enumerator's orders can take this value directly rather
	// than reading a process-global.
	storedOrders map[int][]pdbs.Pattern
}

// NewSystematicPatternEnumerator constructs an enumerator over t using opts.
func NewSystematicPatternEnumerator(t *task.Task, opts config.Options) *SystematicPatternEnumerator {
	info := task.NewInfo(t)
	cg := BuildCausalGraph(t)
	e := &SystematicPatternEnumerator{
		task:         t,
		info:         info,
		cg:           cg,
		opts:         opts,
		rng:          rand.New(rand.NewSource(opts.RNGSeed)),
		log:          logrus.NewEntry(logrus.StandardLogger()),
		evaluator:    NewPatternEvaluator(opts.DeadEnds),
		usedVarPairs: map[[2]int]bool{},
		buffers:      map[int][]pdbs.Pattern{},
		storedOrders: map[int][]pdbs.Pattern{},
	}
	if opts.OnlySGAPatterns {
		e.sgaReachable = cg.BackwardReachableFromGoal(t)
	}
	return e
}

// Run enumerates and admits patterns until a termination condition is
// reached: deadline elapsed, opts.MaxPatterns patterns considered,
// opts.MaxCollectionSize projections admitted, or a full restart that added
// nothing.
func (e *SystematicPatternEnumerator) Run(initialCosts []int, deadline time.Time) *Collection {
	residual := append([]int(nil), initialCosts...)
	coll := &Collection{Costs: residual}

	numPatternsConsidered := 0
	altToggle := 0
	// admitted holds the hash of every pattern already in coll, so a pattern
	// enumerated again on a later restart is skipped as a duplicate.
	admitted := map[uint64]bool{}

	for restart := 0; ; restart++ {
		if !deadline.IsZero() && time.Now().After(deadline) {
			e.log.Debug("systematic pattern enumeration: time budget exhausted")
			break
		}
		if e.opts.MaxPatterns > 0 && numPatternsConsidered >= e.opts.MaxPatterns {
			break
		}
		if e.opts.MaxCollectionSize > 0 && len(coll.Projections) >= e.opts.MaxCollectionSize {
			break
		}

		e.evaluator.ResetForNewOrder()
		addedThisRestart := 0

		for size := 1; size <= e.opts.MaxPatternSize; size++ {
			patterns := e.orderedPatternsOfSize(size, coll.Costs, altToggle)
			altToggle++

			for _, p := range patterns {
				if !deadline.IsZero() && time.Now().After(deadline) {
					goto done
				}
				if e.opts.MaxPatterns > 0 && numPatternsConsidered >= e.opts.MaxPatterns {
					goto done
				}
				if e.opts.MaxCollectionSize > 0 && len(coll.Projections) >= e.opts.MaxCollectionSize {
					goto done
				}
				numPatternsConsidered++

				key, err := hashstructure.Hash([]int(p), nil)
				if err != nil {
					panic(err) // []int is always hashable
				}
				if admitted[key] || e.alreadyFullyUsed(p) {
					continue
				}
				if e.opts.IgnoreUselessPatterns && e.onlyFreeOperators(p, coll.Costs) {
					continue
				}

				pr, err := pdbs.Build(e.info, p, e.opts.MaxPDBSize)
				if err != nil {
					e.log.WithError(err).WithField("pattern", p.String()).Debug("skipping pattern")
					continue
				}

				if !e.evaluator.IsUseful(pr, coll.Costs) {
					continue
				}

				if e.opts.Saturate {
					h := pr.ComputeHValues(coll.Costs)
					sat := pr.ComputeSaturatedCosts(h, len(coll.Costs))
					for op := range coll.Costs {
						coll.Costs[op] = cost.ResidualSubSat(coll.Costs[op], sat[op])
					}
				}

				coll.Projections = append(coll.Projections, pr)
				admitted[key] = true
				e.markVarPairsUsed(p)
				addedThisRestart++

				e.log.WithFields(logrus.Fields{"pattern": p.String(), "collection_size": len(coll.Projections)}).Debug("admitted pattern")
			}
		}

		if addedThisRestart == 0 {
			break
		}
	}
done:
	return coll
}

func (e *SystematicPatternEnumerator) markVarPairsUsed(p pdbs.Pattern) {
	for i := 0; i < len(p); i++ {
		for j := i + 1; j < len(p); j++ {
			e.usedVarPairs[[2]int{p[i], p[j]}] = true
		}
	}
}

func (e *SystematicPatternEnumerator) alreadyFullyUsed(p pdbs.Pattern) bool {
	if len(p) < 2 {
		return false
	}
	for i := 0; i < len(p); i++ {
		for j := i + 1; j < len(p); j++ {
			if !e.usedVarPairs[[2]int{p[i], p[j]}] {
				return false
			}
		}
	}
	return true
}

// onlyFreeOperators reports whether every operator relevant to p has
// residual cost 0 or infinite under costs — such a pattern can never
// saturate anything new.
func (e *SystematicPatternEnumerator) onlyFreeOperators(p pdbs.Pattern, costs []int) bool {
	ops := e.info.RelevantOperatorsForPattern(p)
	if len(ops) == 0 {
		return true
	}
	for _, opID := range ops {
		c := costs[opID]
		if c != 0 && !cost.IsInfinite(c) {
			return false
		}
	}
	return true
}

// patternsOfSize lazily populates and returns the interesting-pattern
// buffer for size, filtered by connectedness, goal relevance, and
// (optionally) strong goal relevance.
func (e *SystematicPatternEnumerator) patternsOfSize(size int) []pdbs.Pattern {
	if buf, ok := e.buffers[size]; ok {
		return buf
	}
	var buf []pdbs.Pattern
	combo := make([]int, size)
	n := e.task.NumVariables()
	var generate func(start, depth int)
	generate = func(start, depth int) {
		if depth == size {
			p := pdbs.Pattern(append([]int(nil), combo...))
			if !e.cg.IsConnected(p) || !TouchesGoalVariable(p, e.task) {
				return
			}
			if e.opts.OnlySGAPatterns && !IsStronglyGoalRelevant(p, e.sgaReachable) {
				return
			}
			buf = append(buf, p)
			return
		}
		for v := start; v < n; v++ {
			combo[depth] = v
			generate(v+1, depth+1)
		}
	}
	generate(0, 0)
	e.buffers[size] = buf
	return buf
}

// orderedPatternsOfSize returns patternsOfSize(size) permuted per
// e.opts.Order. NEW_VAR_PAIRS_* and ACTIVE_OPS_* scores depend on
// usedVarPairs/costs, which change across restarts, so the permutation is
// recomputed every call rather than cached.
func (e *SystematicPatternEnumerator) orderedPatternsOfSize(size int, costs []int, altToggle int) []pdbs.Pattern {
	base := e.patternsOfSize(size)
	ordered := append([]pdbs.Pattern(nil), base...)

	order := e.opts.Order
	if order == config.OrderAltTwo {
		if altToggle%2 == 0 {
			order = config.OrderOriginal
		} else {
			order = config.OrderReverse
		}
	}

	switch order {
	case config.OrderOriginal:
		// already in enumeration order
	case config.OrderReverse:
		reverseInPlace(ordered)
	case config.OrderRandom:
		e.rng.Shuffle(len(ordered), func(i, j int) { ordered[i], ordered[j] = ordered[j], ordered[i] })
	case config.OrderPDBSizeUp:
		sortBy(ordered, func(p pdbs.Pattern) float64 { return float64(e.pdbSize(p)) }, true)
	case config.OrderPDBSizeDown:
		sortBy(ordered, func(p pdbs.Pattern) float64 { return float64(e.pdbSize(p)) }, false)
	case config.OrderCGSumUp:
		sortBy(ordered, e.cgSum, true)
	case config.OrderCGSumDown:
		sortBy(ordered, e.cgSum, false)
	case config.OrderCGMinUp:
		sortBy(ordered, e.cgMin, true)
	case config.OrderCGMinDown:
		sortBy(ordered, e.cgMin, false)
	case config.OrderCGMaxUp:
		sortBy(ordered, e.cgMax, true)
	case config.OrderCGMaxDown:
		sortBy(ordered, e.cgMax, false)
	case config.OrderNewVarPairsUp:
		sortBy(ordered, e.newVarPairs, true)
	case config.OrderNewVarPairsDown:
		sortBy(ordered, e.newVarPairs, false)
	case config.OrderActiveOpsUp:
		sortBy(ordered, func(p pdbs.Pattern) float64 { return e.activeOps(p, costs) }, true)
	case config.OrderActiveOpsDown:
		sortBy(ordered, func(p pdbs.Pattern) float64 { return e.activeOps(p, costs) }, false)
	case config.OrderActiveOpsUpCGMinDown:
		sortLex(ordered,
			keyFunc{f: func(p pdbs.Pattern) float64 { return e.activeOps(p, costs) }, ascending: true},
			keyFunc{f: e.cgMin, ascending: false},
		)
	case config.OrderCGMinDownActiveOpsUp:
		sortLex(ordered,
			keyFunc{f: e.cgMin, ascending: false},
			keyFunc{f: func(p pdbs.Pattern) float64 { return e.activeOps(p, costs) }, ascending: true},
		)
	}
	if e.opts.StoreOrders {
		e.storedOrders[size] = append([]pdbs.Pattern(nil), ordered...)
	}
	return ordered
}

// Orders returns the last computed per-size permutation, populated only
// when the enumerator was configured with StoreOrders.
func (e *SystematicPatternEnumerator) Orders() map[int][]pdbs.Pattern {
	return e.storedOrders
}

func reverseInPlace(p []pdbs.Pattern) {
	for i, j := 0, len(p)-1; i < j; i, j = i+1, j-1 {
		p[i], p[j] = p[j], p[i]
	}
}

func sortBy(patterns []pdbs.Pattern, score func(pdbs.Pattern) float64, ascending bool) {
	sort.SliceStable(patterns, func(i, j int) bool {
		si, sj := score(patterns[i]), score(patterns[j])
		if ascending {
			return si < sj
		}
		return si > sj
	})
}

type keyFunc struct {
	f         func(pdbs.Pattern) float64
	ascending bool
}

func sortLex(patterns []pdbs.Pattern, keys ...keyFunc) {
	sort.SliceStable(patterns, func(i, j int) bool {
		for _, k := range keys {
			si, sj := k.f(patterns[i]), k.f(patterns[j])
			if si == sj {
				continue
			}
			if k.ascending {
				return si < sj
			}
			return si > sj
		}
		return false
	})
}

func (e *SystematicPatternEnumerator) pdbSize(p pdbs.Pattern) int {
	size := 1
	for _, v := range p {
		size *= e.task.DomainSizes[v]
	}
	return size
}

func (e *SystematicPatternEnumerator) pairEdgeWeights(p pdbs.Pattern) []int {
	var ws []int
	for i := 0; i < len(p); i++ {
		for j := i + 1; j < len(p); j++ {
			w := e.cg.EdgeWeight(p[i], p[j]) + e.cg.EdgeWeight(p[j], p[i])
			ws = append(ws, w)
		}
	}
	if len(ws) == 0 {
		ws = []int{0}
	}
	return ws
}

func (e *SystematicPatternEnumerator) cgSum(p pdbs.Pattern) float64 {
	sum := 0
	for _, w := range e.pairEdgeWeights(p) {
		sum += w
	}
	return float64(sum)
}

func (e *SystematicPatternEnumerator) cgMin(p pdbs.Pattern) float64 {
	ws := e.pairEdgeWeights(p)
	min := ws[0]
	for _, w := range ws[1:] {
		if w < min {
			min = w
		}
	}
	return float64(min)
}

func (e *SystematicPatternEnumerator) cgMax(p pdbs.Pattern) float64 {
	ws := e.pairEdgeWeights(p)
	max := ws[0]
	for _, w := range ws[1:] {
		if w > max {
			max = w
		}
	}
	return float64(max)
}

func (e *SystematicPatternEnumerator) newVarPairs(p pdbs.Pattern) float64 {
	count := 0
	for i := 0; i < len(p); i++ {
		for j := i + 1; j < len(p); j++ {
			if !e.usedVarPairs[[2]int{p[i], p[j]}] {
				count++
			}
		}
	}
	return float64(count)
}

func (e *SystematicPatternEnumerator) activeOps(p pdbs.Pattern, costs []int) float64 {
	count := 0
	for _, opID := range e.info.RelevantOperatorsForPattern(p) {
		c := costs[opID]
		if c != 0 && !cost.IsInfinite(c) {
			count++
		}
	}
	return float64(count)
}
