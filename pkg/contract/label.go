package contract

import (
	"context"
	"runtime"
	"slices"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/corridor/pkg/landscape"
)

// Labels holds, per target node, the arcs that are safe to contract (Strong)
// and safe to delete (Useless) when only the flow into that target matters.
// Both are indexed by node id of the labeled view; lists are sorted by arc id.
type Labels struct {
	Strong  [][]landscape.Arc
	Useless [][]landscape.Arc
}

// bucket is an append-only arc list guarded by its own lock.
type bucket struct {
	mu   sync.Mutex
	arcs []landscape.Arc
}

func (b *bucket) add(a landscape.Arc) {
	b.mu.Lock()
	b.arcs = append(b.arcs, a)
	b.mu.Unlock()
}

// Label runs both identifiers on every arc of v and transposes the per-arc
// node sets into per-node arc sets.
//
// lower and upper are the per-arc probability bounds. Only nodes in targets
// are collected; a nil targets collects every node. Arcs are claimed from a
// shared counter by up to workers goroutines (GOMAXPROCS when workers <= 0),
// and the resulting lists are sorted, so the output does not depend on the
// number of workers or on scheduling. v must not be mutated while Label runs.
//
// Label returns ctx.Err() if ctx is cancelled before every arc is labeled.
func Label(ctx context.Context, v landscape.View, lower, upper []float64, targets []landscape.Node, workers int) (*Labels, error) {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	bound := v.NodeBound()
	wanted := make([]bool, bound)
	if targets == nil {
		for _, u := range v.Nodes() {
			wanted[u] = true
		}
	} else {
		for _, t := range targets {
			wanted[t] = true
		}
	}

	strong := make([]bucket, bound)
	useless := make([]bucket, bound)
	arcs := v.Arcs()
	var next atomic.Int64

	g, ctx := errgroup.WithContext(ctx)
	for range min(workers, max(len(arcs), 1)) {
		g.Go(func() error {
			si := NewStrongIdentifier(v, lower, upper)
			ui := NewUselessIdentifier(v, lower, upper)
			var nodes []landscape.Node
			for {
				i := int(next.Add(1) - 1)
				if i >= len(arcs) {
					return nil
				}
				if err := ctx.Err(); err != nil {
					return err
				}
				a := arcs[i]
				nodes = si.Run(a, nodes[:0])
				for _, w := range nodes {
					if wanted[w] {
						strong[w].add(a)
					}
				}
				nodes = ui.Run(a, nodes[:0])
				for _, w := range nodes {
					if wanted[w] {
						useless[w].add(a)
					}
				}
			}
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	labels := &Labels{
		Strong:  make([][]landscape.Arc, bound),
		Useless: make([][]landscape.Arc, bound),
	}
	for u := range bound {
		labels.Strong[u] = sorted(strong[u].arcs)
		labels.Useless[u] = sorted(useless[u].arcs)
	}
	return labels, nil
}

func sorted(arcs []landscape.Arc) []landscape.Arc {
	slices.Sort(arcs)
	return arcs
}
