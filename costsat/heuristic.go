package costsat

import "github.com/gitrdm/scp-heuristic/cost"

// bytesPerInt is the accounting unit for EstimateSizeInKB: h-values are
// stored as native ints.
const bytesPerInt = 8

// lookupTable is one (abstraction_id, h_values) pair.
type lookupTable struct {
	AbstractionID int
	HValues       []int
}

// CostPartitioningHeuristic is a compact lookup table: per-abstraction
// h-value arrays keyed by abstract-state id.
type CostPartitioningHeuristic struct {
	tables []lookupTable
}

// AddHValues stores hValues for abstractionID by move: the caller must not
// retain a reference to hValues afterward.
func (cp *CostPartitioningHeuristic) AddHValues(abstractionID int, hValues []int) {
	cp.tables = append(cp.tables, lookupTable{AbstractionID: abstractionID, HValues: hValues})
}

// Add merges other's tables into cp, by move.
func (cp *CostPartitioningHeuristic) Add(other CostPartitioningHeuristic) {
	cp.tables = append(cp.tables, other.tables...)
}

// ComputeHeuristic returns Σ h_values_i[abstractStateIDs[abstraction_id_i]]
// with saturating semantics: +∞ in any referenced table yields +∞.
func (cp *CostPartitioningHeuristic) ComputeHeuristic(abstractStateIDs []int) int {
	sum := 0
	for _, t := range cp.tables {
		sum = cost.Add(sum, t.HValues[abstractStateIDs[t.AbstractionID]])
		if cost.IsInfinite(sum) {
			return cost.Infinite
		}
	}
	return sum
}

// MarkUsefulAbstractions sets useful[abstraction_id] = true for every
// abstraction referenced by cp.
func (cp *CostPartitioningHeuristic) MarkUsefulAbstractions(useful []bool) {
	for _, t := range cp.tables {
		useful[t.AbstractionID] = true
	}
}

// EstimateSizeInKB returns bytes_per_int * total entries / 1024.
func (cp *CostPartitioningHeuristic) EstimateSizeInKB() float64 {
	total := 0
	for _, t := range cp.tables {
		total += len(t.HValues)
	}
	return float64(total*bytesPerInt) / 1024.0
}

// NumLookupTables returns the number of (abstraction_id, h_values) pairs
// stored.
func (cp *CostPartitioningHeuristic) NumLookupTables() int {
	return len(cp.tables)
}

// NumHeuristicValues returns the total number of stored h-value entries.
func (cp *CostPartitioningHeuristic) NumHeuristicValues() int {
	total := 0
	for _, t := range cp.tables {
		total += len(t.HValues)
	}
	return total
}
