package eca

import (
	"math"

	"github.com/matzehuels/corridor/pkg/landscape"
	"github.com/matzehuels/corridor/pkg/plan"
	"github.com/matzehuels/corridor/pkg/reach"
)

// Eval returns the ECA of v:
//
//	sqrt( Σ_s Σ_t q(s)·q(t)·P(s→t) )
//
// where P(s→t) is the best-path probability from s to t and P(s→s) = 1.
// Sources of zero quality contribute nothing and are skipped.
func Eval(v landscape.View) float64 {
	return EvalFiltered(v, nil)
}

// EvalFiltered is [Eval] restricted to the nodes accepted by keep, both as
// sources and as targets. Paths may still cross rejected nodes. A nil keep
// accepts every node.
func EvalFiltered(v landscape.View, keep func(landscape.Node) bool) float64 {
	s := reach.New(v, nil)
	var sum float64
	for _, src := range v.Nodes() {
		if keep != nil && !keep(src) {
			continue
		}
		sum += sourceTerm(s, v, src, keep)
	}
	return math.Sqrt(sum)
}

// EvalSolution returns the ECA of v with act applied through p.
func EvalSolution(v landscape.View, p *plan.Plan, act plan.Activation) float64 {
	return Eval(p.Decorate(v, act))
}

// FlowInto returns Σ_s q(s)·P(s→t), the expected quality flowing into t,
// including t's own quality. It runs a single search on the reversed view.
func FlowInto(v landscape.View, t landscape.Node) float64 {
	s := reach.New(landscape.Reverse(v), nil)
	var sum float64
	for u, p := range s.All(t) {
		sum += v.Quality(u) * p
	}
	return sum
}

// FlowIntoSolution returns the flow into t with act applied through p.
func FlowIntoSolution(v landscape.View, p *plan.Plan, act plan.Activation, t landscape.Node) float64 {
	return FlowInto(p.Decorate(v, act), t)
}

// MaxFlowInto returns the flow into t with every option of p fully applied.
// It is an upper bound on the flow into t under any activation.
func MaxFlowInto(v landscape.View, p *plan.Plan, t landscape.Node) float64 {
	return FlowInto(p.Decorate(v, plan.Full(p)), t)
}

// ProbabilityMatrix returns P(s→t) for every pair of nodes, indexed by node
// id. Rows of removed nodes are nil.
func ProbabilityMatrix(v landscape.View) [][]float64 {
	n := v.NodeBound()
	m := make([][]float64, n)
	s := reach.New(v, nil)
	for _, src := range v.Nodes() {
		row := make([]float64, n)
		for t, p := range s.All(src) {
			row[t] = p
		}
		m[src] = row
	}
	return m
}

// Probability converts a dispersal distance into a crossing probability
// with the usual exponential kernel exp(-d/alpha).
func Probability(distance, alpha float64) float64 {
	return math.Exp(-distance / alpha)
}

// Distance is the inverse of [Probability].
func Distance(probability, alpha float64) float64 {
	return -alpha * math.Log(probability)
}

func sourceTerm(s *reach.Search, v landscape.View, src landscape.Node, keep func(landscape.Node) bool) float64 {
	qs := v.Quality(src)
	if qs <= 0 {
		return 0
	}
	var sum float64
	for t, p := range s.All(src) {
		if keep != nil && !keep(t) {
			continue
		}
		sum += qs * v.Quality(t) * p
	}
	return sum
}
