package costsat_test

import (
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/gitrdm/scp-heuristic/config"
	"github.com/gitrdm/scp-heuristic/costsat"
	"github.com/gitrdm/scp-heuristic/patterns"
	"github.com/gitrdm/scp-heuristic/pdbs"
	"github.com/gitrdm/scp-heuristic/task"
)

func TestCostsatScenarios(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "cost-saturation scenarios")
}

var _ = Describe("single binary variable, one operator", func() {
	It("reports h(v=0)=3 and saturates flip's cost to 3", func() {
		tk := &task.Task{
			DomainSizes:  []int{2},
			Operators:    []task.Operator{{Name: "flip", Cost: 3, Effects: []task.Fact{{Var: 0, Value: 1}}}},
			Goal:         []task.Fact{{Var: 0, Value: 1}},
			InitialState: []int{0},
		}
		Expect(tk.Validate()).To(Succeed())
		info := task.NewInfo(tk)
		pr, err := pdbs.Build(info, pdbs.Pattern{0}, 10)
		Expect(err).NotTo(HaveOccurred())

		h := pr.ComputeHValues([]int{3})
		Expect(h[pr.GetAbstractStateID([]int{0})]).To(Equal(3))
		Expect(h[pr.GetAbstractStateID([]int{1})]).To(Equal(0))

		sat := pr.ComputeSaturatedCosts(h, 1)
		Expect(sat[0]).To(Equal(3))
	})
})

var _ = Describe("two independent unit-cost binary variables", func() {
	It("sums to h*=2", func() {
		tk := &task.Task{
			DomainSizes: []int{2, 2},
			Operators: []task.Operator{
				{Name: "set_a", Cost: 1, Effects: []task.Fact{{Var: 0, Value: 1}}},
				{Name: "set_b", Cost: 1, Effects: []task.Fact{{Var: 1, Value: 1}}},
			},
			Goal:         []task.Fact{{Var: 0, Value: 1}, {Var: 1, Value: 1}},
			InitialState: []int{0, 0},
		}
		Expect(tk.Validate()).To(Succeed())
		info := task.NewInfo(tk)
		pa, err := pdbs.Build(info, pdbs.Pattern{0}, 10)
		Expect(err).NotTo(HaveOccurred())
		pb, err := pdbs.Build(info, pdbs.Pattern{1}, 10)
		Expect(err).NotTo(HaveOccurred())

		order := costsat.Order{0, 1}
		cp := costsat.ComputeSaturatedCostPartitioning([]costsat.Abstraction{pa, pb}, order, []int{1, 1}, 2)
		Expect(cp.ComputeHeuristic([]int{0, 0})).To(Equal(2))
	})
})

var _ = Describe("two variables sharing an operator", func() {
	It("both orders agree on h=2", func() {
		tk := &task.Task{
			DomainSizes: []int{2, 2},
			Operators: []task.Operator{
				{Name: "set_both", Cost: 2, Effects: []task.Fact{{Var: 0, Value: 1}, {Var: 1, Value: 1}}},
			},
			Goal:         []task.Fact{{Var: 0, Value: 1}, {Var: 1, Value: 1}},
			InitialState: []int{0, 0},
		}
		Expect(tk.Validate()).To(Succeed())
		info := task.NewInfo(tk)
		pa, err := pdbs.Build(info, pdbs.Pattern{0}, 10)
		Expect(err).NotTo(HaveOccurred())
		pb, err := pdbs.Build(info, pdbs.Pattern{1}, 10)
		Expect(err).NotTo(HaveOccurred())

		forward := costsat.ComputeSaturatedCostPartitioning([]costsat.Abstraction{pa, pb}, costsat.Order{0, 1}, []int{2}, 1)
		backward := costsat.ComputeSaturatedCostPartitioning([]costsat.Abstraction{pb, pa}, costsat.Order{0, 1}, []int{2}, 1)

		Expect(forward.ComputeHeuristic([]int{0, 0})).To(Equal(2))
		Expect(backward.ComputeHeuristic([]int{0, 0})).To(Equal(2))
	})
})

var _ = Describe("dead-end detection", func() {
	It("classifies the state that cannot reach the goal as unsolvable", func() {
		tk := &task.Task{
			DomainSizes:  []int{2},
			Goal:         []task.Fact{{Var: 0, Value: 1}},
			InitialState: []int{0},
		}
		Expect(tk.Validate()).To(Succeed())
		info := task.NewInfo(tk)
		pr, err := pdbs.Build(info, pdbs.Pattern{0}, 10)
		Expect(err).NotTo(HaveOccurred())

		u := costsat.NewUnsolvabilityHeuristic([]costsat.Abstraction{pr}, costsat.UnitCosts(0))
		ids := costsat.GetAbstractStateIDs([]costsat.Abstraction{pr}, tk.InitialState)
		Expect(u.IsUnsolvable(ids)).To(BeTrue())
	})
})

var _ = Describe("fact novelty", func() {
	It("only triggers SCP on novel transitions", func() {
		tk := &task.Task{
			DomainSizes: []int{2, 2},
			Operators: []task.Operator{
				{Name: "set_a", Cost: 1, Effects: []task.Fact{{Var: 0, Value: 1}}},
				{Name: "unset_a", Cost: 1, Effects: []task.Fact{{Var: 0, Value: 0}}},
			},
			Goal:         []task.Fact{{Var: 0, Value: 1}, {Var: 1, Value: 1}},
			InitialState: []int{0, 0},
		}
		Expect(tk.Validate()).To(Succeed())
		info := task.NewInfo(tk)
		pa, err := pdbs.Build(info, pdbs.Pattern{0}, 10)
		Expect(err).NotTo(HaveOccurred())
		pb, err := pdbs.Build(info, pdbs.Pattern{1}, 10)
		Expect(err).NotTo(HaveOccurred())

		driver := costsat.NewOnlineHeuristicDriver(costsat.OnlineHeuristicDriverConfig{
			Task:           tk,
			Abstractions:   []costsat.Abstraction{pa, pb},
			Costs:          []int{1, 1},
			OrderGenerator: costsat.NewOrderGenerator(costsat.MaxHeuristic, 2),
			Saturator:      costsat.SaturatorAll,
			Interval:       -1,
			MaxTime:        time.Hour,
			MaxSizeKB:      1 << 20,
		})
		driver.Start(tk.InitialState)
		driver.ComputeHeuristic(tk.InitialState)

		driver.NotifyStateTransition(tk.Operators[0], []int{1, 0})
		statsBeforeNovel := driver.Stats().NumSCPsComputed
		driver.ComputeHeuristic([]int{1, 0})
		Expect(driver.Stats().NumSCPsComputed).To(BeNumerically(">", statsBeforeNovel), "a=1 is a new fact")

		driver.NotifyStateTransition(tk.Operators[1], []int{0, 0})
		statsBeforeRepeat := driver.Stats().NumSCPsComputed
		driver.ComputeHeuristic([]int{0, 0})
		Expect(driver.Stats().NumSCPsComputed).To(Equal(statsBeforeRepeat), "(0,0) was already seen as the initial state")
	})
})

var _ = Describe("systematic enumeration cap", func() {
	It("admits only patterns bounded by max_pattern_size", func() {
		tk := &task.Task{
			DomainSizes: []int{2, 2, 2},
			Operators: []task.Operator{
				{
					Name:          "op",
					Cost:          1,
					Preconditions: []task.Fact{{Var: 0, Value: 0}, {Var: 1, Value: 0}},
					Effects:       []task.Fact{{Var: 0, Value: 1}, {Var: 1, Value: 1}, {Var: 2, Value: 1}},
				},
			},
			Goal:         []task.Fact{{Var: 2, Value: 1}},
			InitialState: []int{0, 0, 0},
		}
		opts := config.DefaultOptions()
		opts.MaxPatternSize = 2
		opts.MaxPDBSize = 100
		opts.DeadEnds = config.DeadEndIgnore

		e := patterns.NewSystematicPatternEnumerator(tk, opts)
		size1 := e.Orders()
		_ = size1 // populated only when StoreOrders is set; exercised for API shape here.

		coll := e.Run([]int{1}, time.Time{})
		for _, pr := range coll.Projections {
			Expect(len(pr.Pattern())).To(BeNumerically("<=", 2))
		}
	})
})
