package main

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/gitrdm/scp-heuristic/config"
	"github.com/gitrdm/scp-heuristic/costsat"
)

func newSolveCmd() *cobra.Command {
	var optionsPath string

	cmd := &cobra.Command{
		Use:   "solve <task.json>",
		Short: "compute the offline saturated cost partitioning heuristic for a task's initial state",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := loadTask(args[0])
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
			if len(projections) == 0 {
				return errors.New("no abstractions admitted; task may be trivially solved or options too restrictive")
			}
			abstractions := toAbstractionSlice(projections)

			costs := operatorCosts(t)
			ids := costsat.GetAbstractStateIDs(abstractions, t.InitialState)

			orderGen := costsat.NewOrderGenerator(scoringFunction(opts.Orders), len(t.Operators))
			order := orderGen.ComputeOrderForState(abstractions, costs, ids, true)

			var cp costsat.CostPartitioningHeuristic
			if opts.Saturator == config.SaturatorPerimstar {
				remaining := append([]int(nil), costs...)
				cp = costsat.ComputePerimSaturatedCostPartitioningChangeCosts(abstractions, order, remaining, ids, len(t.Operators))
				if cp.ComputeHeuristic(ids) > 0 {
					second := costsat.ComputeSaturatedCostPartitioning(abstractions, order, remaining, len(t.Operators))
					cp.Add(second)
				}
			} else {
				cp = costsat.ComputeSaturatedCostPartitioning(abstractions, order, costs, len(t.Operators))
			}

			fmt.Fprintf(cmd.OutOrStdout(), "h(initial) = %d (over %d abstractions)\n", cp.ComputeHeuristic(ids), len(abstractions))
			return nil
		},
	}

	cmd.Flags().StringVar(&optionsPath, "options", "", "path to a JSON options file (see config.Options)")
	return cmd
}
