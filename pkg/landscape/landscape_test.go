package landscape

import (
	"errors"
	"math"
	"slices"
	"testing"
)

func triangle() (*Landscape, []Node, []Arc) {
	l := New()
	a := l.AddNode(10, Point{X: 0, Y: 0})
	b := l.AddNode(5, Point{X: 1, Y: 0})
	c := l.AddNode(20, Point{X: 0, Y: 1})
	ab := l.AddArc(a, b, 0.5)
	bc := l.AddArc(b, c, 0.5)
	ac := l.AddArc(a, c, 0.1)
	return l, []Node{a, b, c}, []Arc{ab, bc, ac}
}

func TestLandscape_AddAndQuery(t *testing.T) {
	l, n, arcs := triangle()

	if l.NodeCount() != 3 {
		t.Errorf("NodeCount() = %d, want 3", l.NodeCount())
	}
	if l.ArcCount() != 3 {
		t.Errorf("ArcCount() = %d, want 3", l.ArcCount())
	}
	if got := l.Source(arcs[1]); got != n[1] {
		t.Errorf("Source() = %d, want %d", got, n[1])
	}
	if got := l.Target(arcs[1]); got != n[2] {
		t.Errorf("Target() = %d, want %d", got, n[2])
	}
	if got := l.OutArcs(n[0]); !slices.Equal(got, []Arc{arcs[0], arcs[2]}) {
		t.Errorf("OutArcs(a) = %v, want %v", got, []Arc{arcs[0], arcs[2]})
	}
	if got := l.InArcs(n[2]); !slices.Equal(got, []Arc{arcs[1], arcs[2]}) {
		t.Errorf("InArcs(c) = %v, want %v", got, []Arc{arcs[1], arcs[2]})
	}
	if got := l.Coords(n[2]); got != (Point{X: 0, Y: 1}) {
		t.Errorf("Coords(c) = %v, want {0 1}", got)
	}
}

func TestLandscape_RemoveNodeDropsIncidentArcs(t *testing.T) {
	l, n, arcs := triangle()

	l.RemoveNode(n[1])

	if l.ValidNode(n[1]) {
		t.Error("ValidNode(b) = true after removal")
	}
	if l.ValidArc(arcs[0]) || l.ValidArc(arcs[1]) {
		t.Error("arcs incident to b survived its removal")
	}
	if !l.ValidArc(arcs[2]) {
		t.Error("unrelated arc a→c was removed")
	}
	if l.NodeCount() != 2 || l.ArcCount() != 1 {
		t.Errorf("counts = (%d, %d), want (2, 1)", l.NodeCount(), l.ArcCount())
	}
	if got := l.Nodes(); !slices.Equal(got, []Node{n[0], n[2]}) {
		t.Errorf("Nodes() = %v, want %v", got, []Node{n[0], n[2]})
	}
}

func TestLandscape_IdsNotReused(t *testing.T) {
	l, n, _ := triangle()
	l.RemoveNode(n[2])

	d := l.AddNode(1, Point{})
	if d == n[2] {
		t.Errorf("AddNode() reused removed id %d", d)
	}
	if l.NodeBound() != 4 {
		t.Errorf("NodeBound() = %d, want 4", l.NodeBound())
	}
}

func TestLandscape_SelfLoopRemoval(t *testing.T) {
	l := New()
	a := l.AddNode(1, Point{})
	l.AddArc(a, a, 0.3)

	l.RemoveNode(a)

	if l.ArcCount() != 0 {
		t.Errorf("ArcCount() = %d, want 0", l.ArcCount())
	}
}

func TestLandscape_ChangeTarget(t *testing.T) {
	l, n, arcs := triangle()

	l.ChangeTarget(arcs[0], n[2])

	if got := l.Target(arcs[0]); got != n[2] {
		t.Errorf("Target() = %d, want %d", got, n[2])
	}
	if got := l.InArcs(n[1]); len(got) != 0 {
		t.Errorf("InArcs(b) = %v, want empty", got)
	}
	if got := l.InArcs(n[2]); len(got) != 3 {
		t.Errorf("len(InArcs(c)) = %d, want 3", len(got))
	}
}

func TestLandscape_ChangeSource(t *testing.T) {
	l, n, arcs := triangle()

	l.ChangeSource(arcs[1], n[0])

	if got := l.Source(arcs[1]); got != n[0] {
		t.Errorf("Source() = %d, want %d", got, n[0])
	}
	if got := l.OutArcs(n[1]); len(got) != 0 {
		t.Errorf("OutArcs(b) = %v, want empty", got)
	}
}

func TestLandscape_PanicsOnRemovedArc(t *testing.T) {
	l, _, arcs := triangle()
	l.RemoveArc(arcs[0])

	defer func() {
		if recover() == nil {
			t.Error("Probability() on removed arc did not panic")
		}
	}()
	l.Probability(arcs[0])
}

func TestLandscape_Copy(t *testing.T) {
	l, n, arcs := triangle()
	l.RemoveNode(n[0])

	c, refs := l.Copy()

	if refs.Node(n[0]) != InvalidNode {
		t.Errorf("refs.Node(removed) = %d, want InvalidNode", refs.Node(n[0]))
	}
	if refs.Arc(arcs[0]) != InvalidArc {
		t.Errorf("refs.Arc(removed) = %d, want InvalidArc", refs.Arc(arcs[0]))
	}
	bc := refs.Arc(arcs[1])
	if c.Source(bc) != refs.Node(n[1]) || c.Target(bc) != refs.Node(n[2]) {
		t.Error("copied arc has wrong endpoints")
	}
	if c.Quality(refs.Node(n[2])) != 20 {
		t.Errorf("Quality() = %v, want 20", c.Quality(refs.Node(n[2])))
	}

	c.SetQuality(refs.Node(n[2]), 1)
	if l.Quality(n[2]) != 20 {
		t.Error("editing the copy changed the original")
	}
}

func TestLandscape_Validate(t *testing.T) {
	tests := []struct {
		name  string
		build func() *Landscape
		want  error
	}{
		{
			name:  "Valid",
			build: func() *Landscape { l, _, _ := triangle(); return l },
		},
		{
			name: "NegativeQuality",
			build: func() *Landscape {
				l := New()
				l.AddNode(-1, Point{})
				return l
			},
			want: ErrNegativeQuality,
		},
		{
			name: "NaNQuality",
			build: func() *Landscape {
				l := New()
				l.AddNode(math.NaN(), Point{})
				return l
			},
			want: ErrNegativeQuality,
		},
		{
			name: "ProbabilityAboveOne",
			build: func() *Landscape {
				l := New()
				a := l.AddNode(1, Point{})
				l.AddArc(a, a, 1.5)
				return l
			},
			want: ErrInvalidProbability,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.build().Validate()
			if !errors.Is(err, tt.want) {
				t.Errorf("Validate() = %v, want %v", err, tt.want)
			}
		})
	}
}
