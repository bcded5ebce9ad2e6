package pdbs

// MatchTree indexes abstract operators by their pattern-relative
// preconditions so that, given an abstract state's per-position values, the
// set of applicable abstract operators can be retrieved without scanning
// every operator.
//
// It is a trie over pattern positions 0..patternSize-1: each node branches
// either on a required value at that position or follows a "wildcard" child
// shared by every operator that does not constrain that position. Nodes are
// arena-allocated in a slice and referenced by integer index rather than
// through pointers, so the whole tree can be built and walked without
// separate heap allocations per node.
type MatchTree struct {
	patternSize int
	nodes       []matchTreeNode
}

const noChild = -1

type matchTreeNode struct {
	// terminal holds operator indices that are fully matched once depth
	// reaches patternSize.
	terminal []int
	// children[value] is the node index to follow when the state's value at
	// this node's depth equals value; absent values have no children entry.
	children map[int]int
	wildcard int
}

// buildMatchTree constructs a MatchTree over ops, indexed by position.
func buildMatchTree(patternSize int, ops []AbstractOperator) *MatchTree {
	t := &MatchTree{patternSize: patternSize}
	all := make([]int, len(ops))
	for i := range ops {
		all[i] = i
	}
	t.build(0, all, ops)
	return t
}

// build inserts the node for depth given the operator indices still live at
// this point in the trie, and returns its arena index.
func (t *MatchTree) build(depth int, opIdxs []int, ops []AbstractOperator) int {
	node := matchTreeNode{children: map[int]int{}, wildcard: noChild}
	idx := len(t.nodes)
	t.nodes = append(t.nodes, node)

	if depth == t.patternSize {
		t.nodes[idx].terminal = opIdxs
		return idx
	}

	groups := map[int][]int{}
	var wildcardOps []int
	for _, opIdx := range opIdxs {
		v := ops[opIdx].Precondition[depth]
		if v == -1 {
			wildcardOps = append(wildcardOps, opIdx)
		} else {
			groups[v] = append(groups[v], opIdx)
		}
	}

	children := map[int]int{}
	for v, idxs := range groups {
		children[v] = t.build(depth+1, idxs, ops)
	}
	wildcard := noChild
	if len(wildcardOps) > 0 {
		wildcard = t.build(depth+1, wildcardOps, ops)
	}
	t.nodes[idx].children = children
	t.nodes[idx].wildcard = wildcard
	return idx
}

// ApplicableOperators returns the indices (into the ops slice buildMatchTree
// was constructed with) of every abstract operator whose precondition is
// satisfied by values, a per-pattern-position assignment.
func (t *MatchTree) ApplicableOperators(values []int) []int {
	if len(t.nodes) == 0 {
		return nil
	}
	var out []int
	t.collect(0, 0, values, &out)
	return out
}

func (t *MatchTree) collect(nodeIdx, depth int, values []int, out *[]int) {
	if nodeIdx == noChild {
		return
	}
	node := &t.nodes[nodeIdx]
	if depth == t.patternSize {
		*out = append(*out, node.terminal...)
		return
	}
	if child, ok := node.children[values[depth]]; ok {
		t.collect(child, depth+1, values, out)
	}
	t.collect(node.wildcard, depth+1, values, out)
}
