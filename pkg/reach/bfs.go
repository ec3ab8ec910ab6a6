package reach

import "github.com/matzehuels/corridor/pkg/landscape"

// Backward marks, indexed by node id, every node of v from which t can be
// reached through arcs accepted by keep. t itself is marked.
func Backward(v landscape.View, t landscape.Node, keep func(landscape.Arc) bool) []bool {
	return sweep(landscape.Reverse(v), []landscape.Node{t}, keep)
}

// Forward marks, indexed by node id, every node of v reachable from one of
// the sources through arcs accepted by keep. Sources are marked.
func Forward(v landscape.View, sources []landscape.Node, keep func(landscape.Arc) bool) []bool {
	return sweep(v, sources, keep)
}

func sweep(v landscape.View, sources []landscape.Node, keep func(landscape.Arc) bool) []bool {
	seen := make([]bool, v.NodeBound())
	queue := make([]landscape.Node, 0, len(sources))
	for _, s := range sources {
		if !seen[s] {
			seen[s] = true
			queue = append(queue, s)
		}
	}
	for len(queue) > 0 {
		u := queue[0]
		queue = queue[1:]
		for _, a := range v.OutArcs(u) {
			if keep != nil && !keep(a) {
				continue
			}
			if w := v.Target(a); !seen[w] {
				seen[w] = true
				queue = append(queue, w)
			}
		}
	}
	return seen
}
