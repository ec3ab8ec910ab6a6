package pipeline

import (
	"context"
	"maps"
	"math"
	"math/rand/v2"
	"runtime"
	"slices"

	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/corridor/pkg/eca"
	"github.com/matzehuels/corridor/pkg/errors"
	instio "github.com/matzehuels/corridor/pkg/io"
	"github.com/matzehuels/corridor/pkg/landscape"
	"github.com/matzehuels/corridor/pkg/observability"
	"github.com/matzehuels/corridor/pkg/plan"
)

// Verify checks that every reduction in rs preserves the flow into its
// target. It compares the zero and full activations plus opts.Verify random
// ones, drawn from opts.Seed, against the original instance.
//
// A relative difference above opts.Tolerance is reported as an ErrCodeInternal error
// together with the verification summary.
func (r *Runner) Verify(ctx context.Context, in *instio.Instance, rs *instio.Results, opts Options) (*Verification, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	acts := Activations(in.Plan, opts.Verify, opts.Seed)
	targets := slices.Sorted(maps.Keys(rs.Targets))
	errs := make([]float64, len(targets))

	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, t := range targets {
		g.Go(func() error {
			res := rs.Targets[t]
			for _, act := range acts {
				if err := gctx.Err(); err != nil {
					return err
				}
				want := eca.FlowIntoSolution(in.Landscape, in.Plan, act, t)
				got := eca.FlowIntoSolution(res.Landscape, res.Plan, act, res.Target)
				errs[i] = max(errs[i], RelativeError(want, got))
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	v := &Verification{Checks: len(targets) * len(acts), Worst: landscape.InvalidNode}
	for i, e := range errs {
		if v.Worst == landscape.InvalidNode || e > v.MaxError {
			v.MaxError, v.Worst = e, targets[i]
		}
	}
	observability.Pipeline().OnVerify(ctx, v.Checks, v.MaxError)

	if v.MaxError > opts.Tolerance {
		return v, errors.New(errors.ErrCodeInternal,
			"flow into node %d differs by %g after reduction (tolerance %g)",
			in.NodeID(v.Worst), v.MaxError, opts.Tolerance)
	}
	return v, nil
}

// RelativeError is |want-got| scaled by want, with flows below 1 compared
// absolutely.
func RelativeError(want, got float64) float64 {
	return math.Abs(want-got) / math.Max(1, math.Abs(want))
}

// Activations returns the zero and full activations of p followed by n
// activations with coefficients drawn uniformly from [0, 1). The same seed
// always yields the same activations.
func Activations(p *plan.Plan, n int, seed uint64) []plan.Activation {
	acts := []plan.Activation{plan.Zero(p), plan.Full(p)}
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	for range n {
		act := plan.Zero(p)
		for i := range act {
			act[i] = rng.Float64()
		}
		acts = append(acts, act)
	}
	return acts
}
