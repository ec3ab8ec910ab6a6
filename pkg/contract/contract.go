package contract

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"slices"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/corridor/pkg/landscape"
	"github.com/matzehuels/corridor/pkg/plan"
)

// ErrUnknownTarget is returned by [Precompute] when a requested target is
// not a node of the landscape.
var ErrUnknownTarget = errors.New("unknown target node")

// Options configures [Precompute].
//
// The zero value contracts for every node using GOMAXPROCS workers.
type Options struct {
	// Targets restricts the nodes a result is computed for. Nil means every
	// node. Duplicates are ignored.
	Targets []landscape.Node

	// Workers bounds the goroutines used by both the labeling and the
	// per-target phase. Values <= 0 use GOMAXPROCS.
	Workers int

	// OnResult, when set, is called once per finished target. Calls may come
	// from several goroutines at once.
	OnResult func(t landscape.Node, r *Result)
}

// Precompute computes, for each target t, a reduced landscape and plan that
// preserve the flow into t for every activation of p.
//
// The labeling phase runs once over l and is shared by all targets; each
// target is then reduced independently on a private copy. Neither l nor p
// is modified, and both must stay unmodified until Precompute returns.
//
// Precompute returns ctx.Err() if ctx is cancelled between units of work,
// and [ErrUnknownTarget] if a target is not a node of l.
func Precompute(ctx context.Context, l *landscape.Landscape, p *plan.Plan, opts Options) (map[landscape.Node]*Result, error) {
	targets := opts.Targets
	if targets == nil {
		targets = l.Nodes()
	} else {
		targets = slices.Compact(slices.Sorted(slices.Values(targets)))
		for _, t := range targets {
			if !l.ValidNode(t) {
				return nil, fmt.Errorf("%w: %d", ErrUnknownTarget, t)
			}
		}
	}
	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	labels, err := Label(ctx, l, plan.LowerProbabilities(l), p.UpperProbabilities(l), targets, workers)
	if err != nil {
		return nil, err
	}

	var mu sync.Mutex
	results := make(map[landscape.Node]*Result, len(targets))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for _, t := range targets {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			r := Contract(l, p, t, labels.Strong[t], labels.Useless[t])
			if opts.OnResult != nil {
				opts.OnResult(t, r)
			}
			mu.Lock()
			results[t] = r
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// Contract reduces (l, p) for target t given the arcs labeled strong and
// useless for t, as computed by [Label] on l. Neither l nor p is modified.
//
// The reduction runs these passes on a private copy, in order:
//
//  1. remove arcs that have probability 0 under every activation
//  2. remove nodes that cannot reach t
//  3. remove useless arcs
//  4. move quality gains onto pendant nodes
//  5. contract strong arcs that no option acts on, except arcs leaving t,
//     each only if its label still holds on the landscape reduced so far
//  6. move pendant qualities back into the plan as gains
//  7. merge option-free parallel arcs
//  8. remove nodes that cannot reach t or that no quality can flow from
//
// and freezes the outcome. All options are kept so activations of p apply
// unchanged to the result.
func Contract(l *landscape.Landscape, p *plan.Plan, t landscape.Node, strong, useless []landscape.Arc) *Result {
	work, refs := l.Copy()
	wp := p.Copy(refs)
	wt := refs.Node(t)
	st := Stats{NodesBefore: l.NodeCount(), ArcsBefore: l.ArcCount()}

	st.ZeroArcsRemoved = RemoveZeroProbabilityArcs(work, wp, 0)
	st.UnreachableRemoved = RemoveUnreachable(work, wp, wt)

	for _, a := range useless {
		if b := refs.Arc(a); b != landscape.InvalidArc && work.ValidArc(b) {
			removeArc(work, wp, b)
			st.UselessArcsRemoved++
		}
	}

	pendants := remodelGains(work, wp)
	lower := plan.LowerProbabilities(work)
	upper := wp.UpperProbabilities(work)
	check := NewStrongIdentifier(work, lower, upper)
	for _, a := range strong {
		b := refs.Arc(a)
		if b == landscape.InvalidArc || !work.ValidArc(b) || wp.ContainsArc(b) {
			continue
		}
		if u, v := work.Source(b), work.Target(b); u == wt || u == v {
			continue
		}
		// Labels come from the input landscape; a tie they relied on may
		// have been merged away since.
		if !check.Holds(b, wt) {
			st.StrongRejected++
			continue
		}
		pb := work.Probability(b)
		for _, c := range contractArc(work, wp, b) {
			lower[c] *= pb
			upper[c] *= pb
		}
		st.ArcsContracted++
	}
	restoreGains(work, wp, pendants)

	st.ParallelArcsMerged = MergeParallelArcs(work, wp)
	st.NoFlowNodesRemoved = RemoveUnreachable(work, wp, wt) + RemoveNoFlowNodes(work, wp, 0, wt)

	frozen, frefs := landscape.Build(work)
	st.NodesAfter = frozen.NodeCount()
	st.ArcsAfter = frozen.ArcCount()
	return &Result{
		Landscape: frozen,
		Plan:      wp.Copy(frefs),
		Target:    frefs.Node(wt),
		Stats:     st,
	}
}

// contractArc merges the source u of a into its target v.
//
// Every other arc entering u is redirected into v and its probability, as
// well as every restored probability of it, is multiplied by p(a). Arcs
// from v into u would become loops and are dropped. v gains p(a)·q(u), and
// u is removed with its remaining out-arcs. The redirected arcs are
// returned.
func contractArc(l *landscape.Landscape, p *plan.Plan, a landscape.Arc) []landscape.Arc {
	u, v := l.Source(a), l.Target(a)
	pa := l.Probability(a)
	var moved []landscape.Arc
	for _, b := range slices.Clone(l.InArcs(u)) {
		if l.Source(b) == v {
			removeArc(l, p, b)
			continue
		}
		l.ChangeTarget(b, v)
		l.SetProbability(b, l.Probability(b)*pa)
		p.ScaleArc(b, pa)
		moved = append(moved, b)
	}
	l.SetQuality(v, l.Quality(v)+pa*l.Quality(u))
	removeNode(l, p, u)
	return moved
}
