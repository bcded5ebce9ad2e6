package costsat

import (
	"time"

	"github.com/sirupsen/logrus"

	"github.com/gitrdm/scp-heuristic/pdbs"
	"github.com/gitrdm/scp-heuristic/task"
)

// DeadEnd is the sentinel ComputeHeuristic returns for a state classified
// unsolvable by UnsolvabilityHeuristic.
const DeadEnd = -1

// DriverMetrics is the subset of the metrics registry the driver touches;
// satisfied by *metrics.Registry, kept as an interface here so costsat never
// imports the metrics package (library code stays decoupled from its
// instrumentation sink).
type DriverMetrics interface {
	IncSCPComputed()
	IncSCPStored()
	SetPortfolioSizeKB(kb float64)
	IncEvaluatedStates()
	IncDeadEnds()
}

type noopMetrics struct{}

func (noopMetrics) IncSCPComputed()            {}
func (noopMetrics) IncSCPStored()              {}
func (noopMetrics) SetPortfolioSizeKB(float64) {}
func (noopMetrics) IncEvaluatedStates()        {}
func (noopMetrics) IncDeadEnds()               {}

// DriverStats is a snapshot a caller can log or export at freeze or process
// exit.
type DriverStats struct {
	Improving          bool
	NumEvaluatedStates int
	NumSCPsComputed    int
	NumSCPsStored      int
	PortfolioSize      int
	SizeKB             float64
	ElapsedImprove     time.Duration
	// ActiveOperators and LoopingOperators are diagnostic totals, summed
	// over every abstraction retained at freeze, of how many operators
	// induced a state-changing transition vs. a self-loop in that
	// abstraction. Zero before freeze.
	ActiveOperators  int
	LoopingOperators int
}

// OnlineHeuristicDriver is the per-state evaluation loop that grows a
// portfolio of CostPartitioningHeuristics while "improving", then freezes it
// once a time or size budget is exhausted.
type OnlineHeuristicDriver struct {
	task *task.Task

	orderGen    *OrderGenerator
	saturator   Saturator
	interval    int
	sampleBased bool
	maxTime     time.Duration
	maxSizeKB   float64

	costs []int

	improveHeuristic bool
	portfolio        []CostPartitioningHeuristic
	abstractions     []Abstraction
	abstractionFuncs []AbstractionFunction

	unsolvability *UnsolvabilityHeuristic
	novelty       *NoveltyTracker

	sizeKB             float64
	numEvaluatedStates int
	numSCPsComputed    int
	startedImprove     time.Time
	elapsedImprove     time.Duration

	numActiveOperators  int
	numLoopingOperators int

	metrics DriverMetrics
	log     *logrus.Entry
}

// OnlineHeuristicDriverConfig collects the construction-time configuration
type OnlineHeuristicDriverConfig struct {
	Task               *task.Task
	Abstractions       []Abstraction
	Costs              []int
	OrderGenerator     *OrderGenerator
	Saturator          Saturator
	Interval           int
	UseSampleBased     bool
	MaxTime            time.Duration
	MaxSizeKB          float64
	UnsolvabilityCosts []int // nil disables unsolvability checking

	Metrics DriverMetrics
	Logger  *logrus.Entry
}

// NewOnlineHeuristicDriver constructs a driver in the improve phase, with
// novelty tracking enabled iff cfg.Interval is -1 or -2.
func NewOnlineHeuristicDriver(cfg OnlineHeuristicDriverConfig) *OnlineHeuristicDriver {
	d := &OnlineHeuristicDriver{
		task:             cfg.Task,
		orderGen:         cfg.OrderGenerator,
		saturator:        cfg.Saturator,
		interval:         cfg.Interval,
		sampleBased:      cfg.UseSampleBased,
		maxTime:          cfg.MaxTime,
		maxSizeKB:        cfg.MaxSizeKB,
		costs:            append([]int(nil), cfg.Costs...),
		improveHeuristic: true,
		abstractions:     cfg.Abstractions,
		metrics:          cfg.Metrics,
		log:              cfg.Logger,
	}
	if d.metrics == nil {
		d.metrics = noopMetrics{}
	}
	if d.log == nil {
		d.log = logrus.NewEntry(logrus.StandardLogger())
	}

	if cfg.UnsolvabilityCosts != nil {
		d.unsolvability = NewUnsolvabilityHeuristic(cfg.Abstractions, cfg.UnsolvabilityCosts)
	}

	switch cfg.Interval {
	case -1:
		d.novelty = NewNoveltyTracker(cfg.Task.DomainSizes, NoveltyFact)
	case -2:
		d.novelty = NewNoveltyTracker(cfg.Task.DomainSizes, NoveltyFactPair)
	}

	return d
}

// Start begins the improve-phase timer and seeds novelty tracking from
// initialState.
func (d *OnlineHeuristicDriver) Start(initialState []int) {
	d.startedImprove = time.Now()
	if d.novelty != nil {
		d.novelty.NotifyInitialState(initialState)
	}
}

// NotifyStateTransition updates novelty indices for child, a no-op once the
// driver has frozen.
func (d *OnlineHeuristicDriver) NotifyStateTransition(op task.Operator, child []int) {
	if !d.improveHeuristic || d.novelty == nil {
		return
	}
	d.novelty.NotifyStateTransition(op, child)
}

// ComputeHeuristic runs the per-state evaluation loop: check unsolvability,
// take the max over the current portfolio, freeze if the improve-phase
// budget is exhausted, and optionally grow the portfolio for this state. It
// returns a non-negative lower bound, or DeadEnd.
func (d *OnlineHeuristicDriver) ComputeHeuristic(state []int) int {
	d.numEvaluatedStates++
	d.metrics.IncEvaluatedStates()

	ids := d.abstractStateIDs(state)

	if d.unsolvability != nil && d.unsolvability.IsUnsolvable(ids) {
		d.metrics.IncDeadEnds()
		return DeadEnd
	}

	maxH, _ := d.maxOverPortfolio(ids)

	if d.improveHeuristic {
		d.elapsedImprove = time.Since(d.startedImprove)
		if d.elapsedImprove >= d.maxTime || d.sizeKB >= d.maxSizeKB {
			d.freeze()
		}
	}

	if d.improveHeuristic && d.shouldComputeSCP(state) {
		maxH = d.improveOnce(state, ids, maxH)
	}

	return maxH
}

// abstractStateIDs dispatches on phase: full abstractions while improving,
// lightweight abstraction functions after freeze.
func (d *OnlineHeuristicDriver) abstractStateIDs(state []int) []int {
	if d.improveHeuristic {
		return GetAbstractStateIDs(d.abstractions, state)
	}
	return GetAbstractStateIDsFromFunctions(d.abstractionFuncs, state)
}

func (d *OnlineHeuristicDriver) maxOverPortfolio(ids []int) (maxH int, argmax int) {
	maxH = 0
	argmax = -1
	for i := range d.portfolio {
		h := d.portfolio[i].ComputeHeuristic(ids)
		if argmax == -1 || h > maxH {
			maxH, argmax = h, i
		}
	}
	return maxH, argmax
}

// shouldComputeSCP implements the interval/novelty gate that decides
// whether this state should trigger another cost-partitioning computation.
func (d *OnlineHeuristicDriver) shouldComputeSCP(state []int) bool {
	switch {
	case d.interval >= 1:
		return d.numEvaluatedStates%d.interval == 0
	case d.novelty != nil:
		return d.novelty.IsNovel(state)
	default:
		return false
	}
}

// improveOnce computes one new CostPartitioningHeuristic for state under the
// configured saturator, admits it per the sample-based rule, and returns the
// resulting (possibly unchanged) max h.
func (d *OnlineHeuristicDriver) improveOnce(state []int, ids []int, maxH int) int {
	order := d.orderGen.ComputeOrderForState(d.abstractions, d.costs, ids, d.numSCPsComputed == 0)

	var cp CostPartitioningHeuristic
	switch d.saturator {
	case SaturatorPerimstar:
		remaining := append([]int(nil), d.costs...)
		cp = ComputePerimSaturatedCostPartitioningChangeCosts(d.abstractions, order, remaining, ids, len(d.costs))
		h := cp.ComputeHeuristic(ids)
		if h > maxH {
			second := ComputeSaturatedCostPartitioning(d.abstractions, order, remaining, len(d.costs))
			cp.Add(second)
		}
	default:
		cp = ComputeSaturatedCostPartitioning(d.abstractions, order, d.costs, len(d.costs))
	}
	d.numSCPsComputed++
	d.metrics.IncSCPComputed()

	h := cp.ComputeHeuristic(ids)

	admit := true
	if d.sampleBased {
		admit = h > maxH
	}
	if !admit {
		d.log.WithFields(logrus.Fields{"h": h, "max_h": maxH}).Debug("discarding non-improving cost partitioning")
		return maxH
	}

	d.portfolio = append(d.portfolio, cp)
	d.sizeKB += cp.EstimateSizeInKB()
	d.metrics.IncSCPStored()
	d.metrics.SetPortfolioSizeKB(d.sizeKB)
	if h > maxH {
		maxH = h
	}
	return maxH
}

// freeze is the irreversible improve->frozen transition: extract lightweight
// abstraction functions for every abstraction still referenced by the
// portfolio (unioned with the UnsolvabilityHeuristic's own usefulness
// bitset), drop the rest, and release the novelty indices and full
// Projections.
func (d *OnlineHeuristicDriver) freeze() {
	useful := make([]bool, len(d.abstractions))
	for _, cp := range d.portfolio {
		cp.MarkUsefulAbstractions(useful)
	}
	if d.unsolvability != nil {
		d.unsolvability.MarkUsefulAbstractions(useful)
	}

	funcs := make([]AbstractionFunction, len(d.abstractions))
	numOperators := len(d.costs)
	for i, keep := range useful {
		if !keep {
			continue
		}
		a := d.abstractions[i]
		for op := 0; op < numOperators; op++ {
			if a.OperatorIsActive(op) {
				d.numActiveOperators++
			}
			if a.OperatorInducesSelfLoop(op) {
				d.numLoopingOperators++
			}
		}
		if p, ok := a.(*pdbs.Projection); ok {
			funcs[i] = p.ExtractAbstractionFunction()
		}
	}

	d.abstractionFuncs = funcs
	d.abstractions = nil
	if d.novelty != nil {
		d.novelty.Release()
		d.novelty = nil
	}
	d.improveHeuristic = false
	d.elapsedImprove = time.Since(d.startedImprove)

	d.log.WithFields(logrus.Fields{
		"num_scps_computed": d.numSCPsComputed,
		"portfolio_size":    len(d.portfolio),
		"size_kb":           d.sizeKB,
		"active_operators":  d.numActiveOperators,
		"looping_operators": d.numLoopingOperators,
	}).Info("freezing cost partitioning portfolio")
}

// Stats returns a snapshot for logging or export.
func (d *OnlineHeuristicDriver) Stats() DriverStats {
	elapsed := d.elapsedImprove
	if d.improveHeuristic {
		elapsed = time.Since(d.startedImprove)
	}
	return DriverStats{
		Improving:          d.improveHeuristic,
		NumEvaluatedStates: d.numEvaluatedStates,
		NumSCPsComputed:    d.numSCPsComputed,
		NumSCPsStored:      len(d.portfolio),
		PortfolioSize:      len(d.portfolio),
		SizeKB:             d.sizeKB,
		ElapsedImprove:     elapsed,
		ActiveOperators:    d.numActiveOperators,
		LoopingOperators:   d.numLoopingOperators,
	}
}

// IsImproving reports whether the driver is still in the improve phase.
func (d *OnlineHeuristicDriver) IsImproving() bool {
	return d.improveHeuristic
}
