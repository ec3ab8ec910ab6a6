package eca

import (
	"context"
	"math"
	"runtime"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/corridor/pkg/landscape"
	"github.com/matzehuels/corridor/pkg/reach"
)

// EvalParallel computes [Eval] with up to workers goroutines, each owning
// its own search state. workers <= 0 uses GOMAXPROCS. Per-source terms are
// summed in node order, so the result does not depend on scheduling.
//
// It returns ctx.Err() if ctx is cancelled before every source is processed.
func EvalParallel(ctx context.Context, v landscape.View, workers int) (float64, error) {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	nodes := v.Nodes()
	terms := make([]float64, len(nodes))
	var next atomic.Int64

	g, ctx := errgroup.WithContext(ctx)
	for range min(workers, max(len(nodes), 1)) {
		g.Go(func() error {
			s := reach.New(v, nil)
			for {
				i := int(next.Add(1) - 1)
				if i >= len(nodes) {
					return nil
				}
				if err := ctx.Err(); err != nil {
					return err
				}
				terms[i] = sourceTerm(s, v, nodes[i], nil)
			}
		})
	}
	if err := g.Wait(); err != nil {
		return 0, err
	}

	var sum float64
	for _, t := range terms {
		sum += t
	}
	return math.Sqrt(sum), nil
}
