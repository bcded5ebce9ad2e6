// Package metrics wraps the Prometheus collectors OnlineHeuristicDriver
// reports through: named counters and gauges constructed once and
// registered against an explicit registry, never a package-global
// MustRegister.
package metrics

import "github.com/prometheus/client_golang/prometheus"

// Registry bundles the counters and gauges a single OnlineHeuristicDriver
// instance reports through. Library code (costsat) only depends on the
// narrower costsat.DriverMetrics interface; Registry is wired in by the
// owning binary (cmd/scpctl).
type Registry struct {
	scpComputedTotal   prometheus.Counter
	scpStoredTotal     prometheus.Counter
	scpPortfolioSizeKB prometheus.Gauge
	scpEvaluatedStates prometheus.Counter
	scpDeadEndsTotal   prometheus.Counter
}

// NewRegistry constructs the collector set and registers it against reg.
func NewRegistry(reg prometheus.Registerer) *Registry {
	r := &Registry{
		scpComputedTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "scp_computed_total",
			Help: "Number of CostPartitioningHeuristic computations performed by the online driver.",
		}),
		scpStoredTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "scp_stored_total",
			Help: "Number of CostPartitioningHeuristics admitted into the portfolio.",
		}),
		scpPortfolioSizeKB: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "scp_portfolio_size_kb",
			Help: "Cumulative estimated size of the stored portfolio, in KiB.",
		}),
		scpEvaluatedStates: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "scp_evaluated_states_total",
			Help: "Number of states passed to OnlineHeuristicDriver.ComputeHeuristic.",
		}),
		scpDeadEndsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "scp_dead_ends_total",
			Help: "Number of states classified unsolvable by UnsolvabilityHeuristic.",
		}),
	}
	reg.MustRegister(
		r.scpComputedTotal,
		r.scpStoredTotal,
		r.scpPortfolioSizeKB,
		r.scpEvaluatedStates,
		r.scpDeadEndsTotal,
	)
	return r
}

func (r *Registry) IncSCPComputed()               { r.scpComputedTotal.Inc() }
func (r *Registry) IncSCPStored()                 { r.scpStoredTotal.Inc() }
func (r *Registry) SetPortfolioSizeKB(kb float64) { r.scpPortfolioSizeKB.Set(kb) }
func (r *Registry) IncEvaluatedStates()           { r.scpEvaluatedStates.Inc() }
func (r *Registry) IncDeadEnds()                  { r.scpDeadEndsTotal.Inc() }
