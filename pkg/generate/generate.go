// Package generate builds random landscapes and restoration plans.
//
// Instances are fully determined by their seed, which makes them suitable
// for property tests and benchmarks:
//
//	l, err := generate.Landscape(42, 30, 60, true)
//	p, err := generate.Plan(43, l, 10, true)
package generate

import (
	"errors"
	"fmt"
	"math"
	"math/rand/v2"

	"github.com/matzehuels/corridor/pkg/landscape"
	"github.com/matzehuels/corridor/pkg/plan"
)

var (
	// ErrTooManyArcs is returned when more distinct node pairs are requested
	// than the landscape has.
	ErrTooManyArcs = errors.New("not enough distinct node pairs")

	// ErrEmpty is returned when a landscape without nodes is requested, or a
	// plan is requested for one.
	ErrEmpty = errors.New("landscape has no nodes")
)

// Config describes a random instance for [Instance].
type Config struct {
	Seed         uint64
	Nodes        int
	Arcs         int
	Options      int
	Symmetric    bool
	RestoreNodes bool
}

// Instance generates a landscape and a plan for it. The plan uses Seed+1 so
// that changing the option count does not change the landscape.
func Instance(cfg Config) (*landscape.Landscape, *plan.Plan, error) {
	l, err := Landscape(cfg.Seed, cfg.Nodes, cfg.Arcs, cfg.Symmetric)
	if err != nil {
		return nil, nil, err
	}
	p, err := Plan(cfg.Seed+1, l, cfg.Options, cfg.RestoreNodes)
	if err != nil {
		return nil, nil, err
	}
	return l, p, nil
}

// Landscape generates nodes nodes with quality uniform in [1, 10], placed on
// the unit circle, and arcs arcs between distinct random node pairs with
// probability uniform in [0, 1). With symmetric set, each picked pair is an
// unordered pair and gets an arc in both directions, each with its own
// probability, so the landscape has 2·arcs arcs.
func Landscape(seed uint64, nodes, arcs int, symmetric bool) (*landscape.Landscape, error) {
	if nodes <= 0 {
		return nil, ErrEmpty
	}
	pairs := nodes * (nodes - 1)
	if symmetric {
		pairs /= 2
	}
	if arcs > pairs {
		return nil, fmt.Errorf("%w: want %d, have %d", ErrTooManyArcs, arcs, pairs)
	}

	r := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	l := landscape.New()
	angle := 2 * math.Pi / float64(nodes)
	for i := range nodes {
		l.AddNode(1+9*r.Float64(), landscape.Point{
			X: math.Sin(float64(i) * angle),
			Y: math.Cos(float64(i) * angle),
		})
	}

	for _, idx := range sample(r, pairs, arcs) {
		var u, v landscape.Node
		if symmetric {
			u, v = unorderedPair(nodes, idx)
		} else {
			u, v = orderedPair(nodes, idx)
		}
		l.AddArc(u, v, r.Float64())
		if symmetric {
			l.AddArc(v, u, r.Float64())
		}
	}
	return l, nil
}

// Plan generates options options of cost 1 for l. Without restoreNodes each
// option restores one distinct random arc to a probability uniform in
// (p, 1]. With restoreNodes, half of the options (rounded down) restore arcs
// and the others add to one random node a quality gain uniform in
// (0, mean quality].
func Plan(seed uint64, l *landscape.Landscape, options int, restoreNodes bool) (*plan.Plan, error) {
	nodes := l.Nodes()
	if len(nodes) == 0 {
		return nil, ErrEmpty
	}
	arcOptions := options
	if restoreNodes {
		arcOptions = options / 2
	}
	arcs := l.Arcs()
	if arcOptions > len(arcs) {
		return nil, fmt.Errorf("%w: want %d restorable arcs, have %d", ErrTooManyArcs, arcOptions, len(arcs))
	}

	r := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	p := plan.New()
	for _, i := range sample(r, len(arcs), arcOptions) {
		a := arcs[i]
		base := l.Probability(a)
		o := p.AddOption(1)
		p.AddArc(o, a, base+(1-base)*(1-r.Float64()))
	}
	if !restoreNodes {
		return p, nil
	}

	var mean float64
	for _, u := range nodes {
		mean += l.Quality(u)
	}
	mean /= float64(len(nodes))
	for range options - arcOptions {
		u := nodes[r.IntN(len(nodes))]
		o := p.AddOption(1)
		p.AddNode(o, u, mean*(1-r.Float64()))
	}
	return p, nil
}

// sample returns k distinct integers from [0, n) in random order, using a
// sparse partial Fisher–Yates shuffle.
func sample(r *rand.Rand, n, k int) []int {
	swapped := make(map[int]int, k)
	at := func(i int) int {
		if v, ok := swapped[i]; ok {
			return v
		}
		return i
	}
	out := make([]int, k)
	for i := range k {
		j := i + r.IntN(n-i)
		out[i] = at(j)
		swapped[j] = at(i)
	}
	return out
}

func orderedPair(n, idx int) (landscape.Node, landscape.Node) {
	u := idx / (n - 1)
	v := idx % (n - 1)
	if v >= u {
		v++
	}
	return landscape.Node(u), landscape.Node(v)
}

func unorderedPair(n, idx int) (landscape.Node, landscape.Node) {
	u := 0
	for row := n - 1; idx >= row; row-- {
		idx -= row
		u++
	}
	return landscape.Node(u), landscape.Node(u + 1 + idx)
}
