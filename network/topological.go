package network

// Visitation states of the three-colour DFS.
const (
	white = iota // not visited yet
	gray         // on the recursion stack
	black        // fully explored
)

// topoSorter holds the state of one topological sort over index adjacency.
type topoSorter struct {
	succ  [][]Link // outgoing arcs child→parent
	state []int    // white/gray/black per stage
	order []int    // post-order sequence
}

// topologicalOrder returns the stages ordered so that every arc child→parent
// has the child first. Roots are visited in ascending index order, so the
// result is deterministic for a given input table.
//
// Complexity: O(V + A) time, O(V) memory.
func topologicalOrder(succ [][]Link) ([]int, error) {
	t := &topoSorter{
		succ:  succ,
		state: make([]int, len(succ)),
		order: make([]int, 0, len(succ)),
	}
	for v := range succ {
		if t.state[v] == white {
			if err := t.visit(v); err != nil {
				return nil, err
			}
		}
	}
	// reverse post-order
	for i, j := 0, len(t.order)-1; i < j; i, j = i+1, j-1 {
		t.order[i], t.order[j] = t.order[j], t.order[i]
	}

	return t.order, nil
}

// visit explores v depth-first; a gray neighbour is a back-edge.
func (t *topoSorter) visit(v int) error {
	if t.state[v] == gray {
		return ErrCycleDetected
	}
	if t.state[v] == black {
		return nil
	}
	t.state[v] = gray
	for _, l := range t.succ[v] {
		if err := t.visit(l.Stage); err != nil {
			return err
		}
	}
	t.state[v] = black
	t.order = append(t.order, v)

	return nil
}
