package contract

import (
	"slices"

	"github.com/matzehuels/corridor/pkg/landscape"
	"github.com/matzehuels/corridor/pkg/plan"
	"github.com/matzehuels/corridor/pkg/reach"
)

// RemoveZeroProbabilityArcs removes every arc whose probability cannot
// exceed epsilon under any activation of p, together with its plan entries.
// It returns the number of arcs removed.
func RemoveZeroProbabilityArcs(l *landscape.Landscape, p *plan.Plan, epsilon float64) int {
	upper := p.UpperProbabilities(l)
	removed := 0
	for _, a := range l.Arcs() {
		if upper[a] > epsilon {
			continue
		}
		removeArc(l, p, a)
		removed++
	}
	return removed
}

// RemoveNoFlowNodes removes every node that no node of positive potential
// quality can reach. The potential quality of a node is its quality plus
// every gain p offers it. Nodes in keep are never removed and act as extra
// roots. It returns the number of nodes removed.
func RemoveNoFlowNodes(l *landscape.Landscape, p *plan.Plan, epsilon float64, keep ...landscape.Node) int {
	roots := slices.Clone(keep)
	for _, u := range l.Nodes() {
		q := l.Quality(u)
		for _, e := range p.NodeEffects(u) {
			q += e.QualityGain
		}
		if q > epsilon {
			roots = append(roots, u)
		}
	}
	return removeUnmarked(l, p, reach.Forward(l, roots, nil))
}

// RemoveUnreachable removes every node that cannot reach t through arcs of
// positive probability under some activation. It returns the number of
// nodes removed.
func RemoveUnreachable(l *landscape.Landscape, p *plan.Plan, t landscape.Node) int {
	upper := p.UpperProbabilities(l)
	seen := reach.Backward(l, t, func(a landscape.Arc) bool { return upper[a] > 0 })
	return removeUnmarked(l, p, seen)
}

// MergeParallelArcs keeps, among option-free arcs sharing both endpoints,
// only the one of highest probability. Arcs some option acts on are left
// alone. It returns the number of arcs removed.
func MergeParallelArcs(l *landscape.Landscape, p *plan.Plan) int {
	best := make(map[landscape.Node]landscape.Arc)
	removed := 0
	for _, u := range l.Nodes() {
		clear(best)
		for _, a := range slices.Clone(l.OutArcs(u)) {
			if p.ContainsArc(a) {
				continue
			}
			v := l.Target(a)
			b, ok := best[v]
			if !ok {
				best[v] = a
				continue
			}
			if l.Probability(a) > l.Probability(b) {
				best[v] = a
				a, b = b, a
			}
			l.RemoveArc(a)
			removed++
		}
	}
	return removed
}

func removeUnmarked(l *landscape.Landscape, p *plan.Plan, marked []bool) int {
	removed := 0
	for _, u := range l.Nodes() {
		if marked[u] {
			continue
		}
		removeNode(l, p, u)
		removed++
	}
	return removed
}

// removeNode removes u, its incident arcs and every plan entry on them.
func removeNode(l *landscape.Landscape, p *plan.Plan, u landscape.Node) {
	for _, a := range l.OutArcs(u) {
		p.RemoveArc(a)
	}
	for _, a := range l.InArcs(u) {
		p.RemoveArc(a)
	}
	p.RemoveNode(u)
	l.RemoveNode(u)
}

func removeArc(l *landscape.Landscape, p *plan.Plan, a landscape.Arc) {
	p.RemoveArc(a)
	l.RemoveArc(a)
}
