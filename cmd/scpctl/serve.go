package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/gitrdm/scp-heuristic/config"
	"github.com/gitrdm/scp-heuristic/costsat"
	"github.com/gitrdm/scp-heuristic/metrics"
	"github.com/gitrdm/scp-heuristic/task"
)

// traceStep is one step of a scripted state sequence: the name of the
// operator applied to reach state. Every step must name an operator of the
// task; the initial state is evaluated before the trace and is not part of it.
type traceStep struct {
	Operator string `json:"operator"`
	State    []int  `json:"state"`
}

func newServeCmd() *cobra.Command {
	var optionsPath string

	cmd := &cobra.Command{
		Use:   "serve <task.json> <trace.json>",
		Short: "drive the online diversifying heuristic over a scripted sequence of states",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := loadTask(args[0])
			if err != nil {
				return err
			}
			trace, err := loadTrace(args[1])
			if err != nil {
				return err
			}
			opts, err := loadOptions(optionsPath)
			if err != nil {
				return err
			}

			projections, err := buildAbstractions(t, opts)
			if err != nil {
				return errors.Wrap(err, "building abstractions")
			}
			abstractions := toAbstractionSlice(projections)

			reg := metrics.NewRegistry(prometheus.NewRegistry())

			var unsolvabilityCosts []int
			if opts.DeadEnds != config.DeadEndIgnore {
				unsolvabilityCosts = costsat.UnitCosts(len(t.Operators))
			}

			driver := costsat.NewOnlineHeuristicDriver(costsat.OnlineHeuristicDriverConfig{
				Task:               t,
				Abstractions:       abstractions,
				Costs:              operatorCosts(t),
				OrderGenerator:     costsat.NewOrderGenerator(scoringFunction(opts.Orders), len(t.Operators)),
				Saturator:          toDriverSaturator(opts.Saturator),
				Interval:           opts.Interval,
				UseSampleBased:     opts.UseEvaluatedStateAsSample,
				MaxTime:            maxTimeOrForever(opts.MaxTimeSeconds),
				MaxSizeKB:          maxSizeOrUnbounded(opts.MaxSizeKB),
				UnsolvabilityCosts: unsolvabilityCosts,
				Metrics:            reg,
			})
			driver.Start(t.InitialState)

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "h(initial) = %d\n", driver.ComputeHeuristic(t.InitialState))

			wasImproving := driver.IsImproving()
			for _, step := range trace {
				op, err := findOperator(t, step.Operator)
				if err != nil {
					return err
				}
				driver.NotifyStateTransition(op, step.State)
				h := driver.ComputeHeuristic(step.State)
				fmt.Fprintf(out, "applied %s -> state %v: h = %d (improving=%v)\n", step.Operator, step.State, h, driver.IsImproving())

				if wasImproving && !driver.IsImproving() {
					log.WithField("stats", driver.Stats()).Info("portfolio frozen")
				}
				wasImproving = driver.IsImproving()
			}

			stats := driver.Stats()
			log.WithField("stats", stats).Info("driver stopped")
			fmt.Fprintf(out, "final stats: %+v\n", stats)
			return nil
		},
	}

	cmd.Flags().StringVar(&optionsPath, "options", "", "path to a JSON options file (see config.Options)")
	return cmd
}

func loadTrace(path string) ([]traceStep, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "reading trace file %s", path)
	}
	var steps []traceStep
	if err := json.Unmarshal(data, &steps); err != nil {
		return nil, errors.Wrapf(err, "decoding trace file %s", path)
	}
	return steps, nil
}

func findOperator(t *task.Task, name string) (task.Operator, error) {
	for _, op := range t.Operators {
		if op.Name == name {
			return op, nil
		}
	}
	return task.Operator{}, errors.Errorf("no operator named %q in task", name)
}

func toDriverSaturator(s config.Saturator) costsat.Saturator {
	if s == config.SaturatorPerimstar {
		return costsat.SaturatorPerimstar
	}
	return costsat.SaturatorAll
}

func maxTimeOrForever(seconds int) time.Duration {
	if seconds <= 0 {
		return 365 * 24 * time.Hour
	}
	return time.Duration(seconds) * time.Second
}

func maxSizeOrUnbounded(kb float64) float64 {
	if kb <= 0 {
		return 1 << 30
	}
	return kb
}
