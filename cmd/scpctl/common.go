package main

import (
	"time"

	"github.com/pkg/errors"

	"github.com/gitrdm/scp-heuristic/config"
	"github.com/gitrdm/scp-heuristic/costsat"
	"github.com/gitrdm/scp-heuristic/patterns"
	"github.com/gitrdm/scp-heuristic/pdbs"
	"github.com/gitrdm/scp-heuristic/task"
)

// operatorCosts returns t's operator costs indexed by operator id, the
// vector every cost-partitioning call treats as the initial residual.
func operatorCosts(t *task.Task) []int {
	costs := make([]int, len(t.Operators))
	for i, op := range t.Operators {
		costs[i] = op.Cost
	}
	return costs
}

// buildAbstractions constructs the pattern-database abstractions to
// partition costs over: the patterns named in opts.Abstractions if any are
// given, otherwise a freshly enumerated collection from
// patterns.SystematicPatternEnumerator.
func buildAbstractions(t *task.Task, opts config.Options) ([]*pdbs.Projection, error) {
	info := task.NewInfo(t)

	explicit, err := explicitPatterns(opts)
	if err != nil {
		return nil, err
	}
	if len(explicit) > 0 {
		projections := make([]*pdbs.Projection, 0, len(explicit))
		for _, p := range explicit {
			pr, err := pdbs.Build(info, p, opts.MaxPDBSize)
			if err != nil {
				return nil, errors.Wrapf(err, "building pattern %s", p.String())
			}
			projections = append(projections, pr)
		}
		return projections, nil
	}

	enumerator := patterns.NewSystematicPatternEnumerator(t, opts)
	deadline := time.Time{}
	if opts.MaxTimeSeconds > 0 {
		deadline = time.Now().Add(time.Duration(opts.MaxTimeSeconds) * time.Second)
	}
	coll := enumerator.Run(operatorCosts(t), deadline)
	return coll.Projections, nil
}

// scoringFunction maps the config-level, costsat-independent
// ScoringFunctionName onto the concrete costsat.ScoringFunction the order
// generator scores with.
func scoringFunction(name config.ScoringFunctionName) costsat.ScoringFunction {
	switch name {
	case config.ScoringMinStolenCosts:
		return costsat.MinStolenCosts
	case config.ScoringMaxHeuristic:
		return costsat.MaxHeuristic
	default:
		return costsat.MaxHeuristicPerStolenCosts
	}
}

func toAbstractionSlice(projections []*pdbs.Projection) []costsat.Abstraction {
	out := make([]costsat.Abstraction, len(projections))
	for i, pr := range projections {
		out[i] = pr
	}
	return out
}
