package contract

import (
	"context"
	"slices"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/matzehuels/corridor/pkg/generate"
	"github.com/matzehuels/corridor/pkg/landscape"
	"github.com/matzehuels/corridor/pkg/plan"
)

func bounds(l *landscape.Landscape, p *plan.Plan) ([]float64, []float64) {
	return plan.LowerProbabilities(l), p.UpperProbabilities(l)
}

func TestStrongIdentifier_Chain(t *testing.T) {
	l, p, n := scenario()
	lower, upper := bounds(l, p)
	si := NewStrongIdentifier(l, lower, upper)

	// A→B is the only way out of A.
	got := si.Run(0, nil)
	slices.Sort(got)
	require.Equal(t, []landscape.Node{n[1], n[2]}, got)

	// B→A competes with the restorable B→C for nothing but A.
	got = si.Run(1, got[:0])
	require.Equal(t, []landscape.Node{n[0]}, got)
}

func TestStrongIdentifier_RestorableAlternative(t *testing.T) {
	// u→v (0.6) then v→w (1); u→w (0.5) can be restored to 0.7.
	l := landscape.New()
	u := l.AddNode(1, landscape.Point{})
	v := l.AddNode(1, landscape.Point{})
	w := l.AddNode(1, landscape.Point{})
	uv := l.AddArc(u, v, 0.6)
	l.AddArc(v, w, 1)
	uw := l.AddArc(u, w, 0.5)
	p := plan.New()
	p.AddArc(p.AddOption(1), uw, 0.7)
	lower, upper := bounds(l, p)

	got := NewStrongIdentifier(l, lower, upper).Run(uv, nil)

	require.Equal(t, []landscape.Node{v}, got, "w is reached better through the restored arc")
}

func TestUselessIdentifier_Dominated(t *testing.T) {
	// u→w (0.2) is beaten by u→v→w (0.9·0.9) whatever happens.
	l := landscape.New()
	u := l.AddNode(1, landscape.Point{})
	v := l.AddNode(1, landscape.Point{})
	w := l.AddNode(1, landscape.Point{})
	x := l.AddNode(1, landscape.Point{})
	l.AddArc(u, v, 0.9)
	l.AddArc(v, w, 0.9)
	uw := l.AddArc(u, w, 0.2)
	p := plan.New()
	p.AddArc(p.AddOption(1), uw, 0.5)
	lower, upper := bounds(l, p)

	got := NewUselessIdentifier(l, lower, upper).Run(uw, nil)
	slices.Sort(got)

	require.Equal(t, []landscape.Node{u, v, w, x}, got)
}

func TestUselessIdentifier_Useful(t *testing.T) {
	l := landscape.New()
	u := l.AddNode(1, landscape.Point{})
	v := l.AddNode(1, landscape.Point{})
	w := l.AddNode(1, landscape.Point{})
	l.AddArc(u, v, 0.5)
	l.AddArc(v, w, 0.5)
	uw := l.AddArc(u, w, 0.2)
	p := plan.New()
	p.AddArc(p.AddOption(1), uw, 0.5)
	lower, upper := bounds(l, p)

	got := NewUselessIdentifier(l, lower, upper).Run(uw, nil)
	slices.Sort(got)

	// restored, u→w beats 0.25; v is only reached through u→v
	require.Equal(t, []landscape.Node{u, v}, got)
}

func TestLabel_WorkerCountIndependent(t *testing.T) {
	for seed := range uint64(3) {
		l, p, err := generate.Instance(generate.Config{
			Seed: 40 + seed, Nodes: 25, Arcs: 60, Options: 10, RestoreNodes: true,
		})
		require.NoError(t, err)
		lower, upper := bounds(l, p)

		one, err := Label(context.Background(), l, lower, upper, nil, 1)
		require.NoError(t, err)
		many, err := Label(context.Background(), l, lower, upper, nil, 8)
		require.NoError(t, err)

		require.Equal(t, one, many)
	}
}

func TestLabel_TargetsFilter(t *testing.T) {
	l, p, n := scenario()
	lower, upper := bounds(l, p)

	labels, err := Label(context.Background(), l, lower, upper, []landscape.Node{n[2]}, 2)
	require.NoError(t, err)

	require.Empty(t, labels.Strong[n[0]])
	require.Empty(t, labels.Useless[n[0]])
	require.Equal(t, []landscape.Arc{0, 2}, labels.Strong[n[2]])
	require.Equal(t, []landscape.Arc{1, 3}, labels.Useless[n[2]])
}

func TestReformulate(t *testing.T) {
	l := landscape.New()
	a := l.AddNode(0, landscape.Point{})
	b := l.AddNode(3, landscape.Point{})
	c := l.AddNode(0, landscape.Point{})
	dead := l.AddArc(a, b, 0)
	l.AddArc(b, c, 0.2)
	keep := l.AddArc(b, c, 0.6)
	restorable := l.AddArc(b, c, 0.1)
	p := plan.New()
	p.AddArc(p.AddOption(1), restorable, 0.3)

	require.Equal(t, 1, RemoveZeroProbabilityArcs(l, p, 0))
	require.False(t, l.ValidArc(dead))

	require.Equal(t, 1, MergeParallelArcs(l, p))
	require.True(t, l.ValidArc(keep))
	require.True(t, l.ValidArc(restorable))

	require.Equal(t, 1, RemoveNoFlowNodes(l, p, 0))
	require.False(t, l.ValidNode(a))

	require.Equal(t, 0, RemoveUnreachable(l, p, c))
	require.Equal(t, 1, RemoveUnreachable(l, p, b))
	require.False(t, l.ValidNode(c))
	require.False(t, p.ContainsArc(restorable))
}

func TestStrongIdentifier_Holds(t *testing.T) {
	l, p, n := scenario()
	lower, upper := bounds(l, p)
	si := NewStrongIdentifier(l, lower, upper)

	require.True(t, si.Holds(0, n[2]), "A→B for C")
	require.True(t, si.Holds(1, n[0]), "B→A for A")
	require.False(t, si.Holds(1, n[2]), "B→A for C")

	// Holds agrees with Run after an earlier early stop.
	for _, a := range l.Arcs() {
		strong := si.Run(a, nil)
		for _, w := range l.Nodes() {
			require.Equal(t, slices.Contains(strong, w), si.Holds(a, w), "arc %d, node %d", a, w)
		}
	}
}

func TestStrongIdentifier_HoldsAfterMerge(t *testing.T) {
	// x → y → z → x at 1, with x and y reaching t at 1 and z at 0.25.
	l := landscape.New()
	target := l.AddNode(0, landscape.Point{})
	x := l.AddNode(1, landscape.Point{})
	y := l.AddNode(1, landscape.Point{})
	z := l.AddNode(1, landscape.Point{})
	xy := l.AddArc(x, y, 1)
	yz := l.AddArc(y, z, 1)
	l.AddArc(z, x, 1)
	l.AddArc(x, target, 1)
	l.AddArc(y, target, 1)
	l.AddArc(z, target, 0.25)
	p := plan.New()
	lower, upper := bounds(l, p)
	si := NewStrongIdentifier(l, lower, upper)

	require.True(t, si.Holds(xy, target))
	require.True(t, si.Holds(yz, target), "tied with z → x → t")

	contractArc(l, p, xy)
	require.False(t, si.Holds(yz, target), "the tie went away with x")
}
