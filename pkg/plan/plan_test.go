package plan

import (
	"errors"
	"math"
	"slices"
	"testing"

	"github.com/matzehuels/corridor/pkg/landscape"
)

func sample() (*landscape.Landscape, *Plan, []landscape.Node, []landscape.Arc) {
	l := landscape.New()
	a := l.AddNode(10, landscape.Point{})
	b := l.AddNode(5, landscape.Point{})
	c := l.AddNode(20, landscape.Point{})
	ab := l.AddArc(a, b, 0.5)
	bc := l.AddArc(b, c, 0.5)

	p := New()
	o1 := p.AddOption(3)
	p.AddArc(o1, ab, 0.9)
	o2 := p.AddOption(7)
	p.AddArc(o2, ab, 0.7)
	p.AddNode(o2, b, 4)
	return l, p, []landscape.Node{a, b, c}, []landscape.Arc{ab, bc}
}

func TestPlan_Index(t *testing.T) {
	_, p, n, arcs := sample()

	if !p.ContainsArc(arcs[0]) || p.ContainsArc(arcs[1]) {
		t.Error("ContainsArc() does not match the plan")
	}
	if !p.ContainsNode(n[1]) || p.ContainsNode(n[0]) {
		t.Error("ContainsNode() does not match the plan")
	}
	if r, ok := p.RestoredProbability(0, arcs[0]); !ok || r != 0.9 {
		t.Errorf("RestoredProbability(0, ab) = (%v, %v), want (0.9, true)", r, ok)
	}
	if g, ok := p.QualityGain(1, n[1]); !ok || g != 4 {
		t.Errorf("QualityGain(1, b) = (%v, %v), want (4, true)", g, ok)
	}
	if got := len(p.ArcEffects(arcs[0])); got != 2 {
		t.Errorf("len(ArcEffects(ab)) = %d, want 2", got)
	}
	if got := p.OptionArcs(1); !slices.Equal(got, []landscape.Arc{arcs[0]}) {
		t.Errorf("OptionArcs(1) = %v, want %v", got, []landscape.Arc{arcs[0]})
	}
}

func TestPlan_RemoveArc(t *testing.T) {
	_, p, _, arcs := sample()

	p.RemoveArc(arcs[0])

	if p.ContainsArc(arcs[0]) {
		t.Error("ContainsArc(ab) = true after RemoveArc")
	}
	if !p.Degenerate(0) {
		t.Error("Degenerate(0) = false, want true")
	}
	if p.Degenerate(1) {
		t.Error("Degenerate(1) = true, option still acts on b")
	}
	if got := p.DegenerateOptions(); !slices.Equal(got, []Option{0}) {
		t.Errorf("DegenerateOptions() = %v, want [0]", got)
	}
	if p.NumOptions() != 2 {
		t.Errorf("NumOptions() = %d, want 2", p.NumOptions())
	}
}

func TestPlan_RemoveNodeEffect(t *testing.T) {
	_, p, n, _ := sample()

	p.RemoveNodeEffect(1, n[1])

	if p.ContainsNode(n[1]) {
		t.Error("ContainsNode(b) = true after removing its only effect")
	}
	if _, ok := p.QualityGain(1, n[1]); ok {
		t.Error("QualityGain(1, b) still present")
	}
}

func TestPlan_ScaleArc(t *testing.T) {
	_, p, _, arcs := sample()

	p.ScaleArc(arcs[0], 0.5)

	if r, _ := p.RestoredProbability(0, arcs[0]); r != 0.45 {
		t.Errorf("RestoredProbability(0, ab) = %v, want 0.45", r)
	}
	for _, e := range p.ArcEffects(arcs[0]) {
		want, _ := p.RestoredProbability(e.Option, arcs[0])
		if e.RestoredProbability != want {
			t.Errorf("index disagrees for option %d: %v != %v", e.Option, e.RestoredProbability, want)
		}
	}
}

func TestPlan_AddReplaces(t *testing.T) {
	_, p, _, arcs := sample()

	p.AddArc(0, arcs[0], 0.8)

	if got := len(p.ArcEffects(arcs[0])); got != 2 {
		t.Errorf("len(ArcEffects(ab)) = %d, want 2", got)
	}
	if r, _ := p.RestoredProbability(0, arcs[0]); r != 0.8 {
		t.Errorf("RestoredProbability(0, ab) = %v, want 0.8", r)
	}
}

func TestPlan_Copy(t *testing.T) {
	l, p, n, _ := sample()
	l.RemoveNode(n[0])
	c, refs := l.Copy()

	pc := p.Copy(refs)

	if pc.NumOptions() != 2 {
		t.Fatalf("NumOptions() = %d, want 2", pc.NumOptions())
	}
	if pc.Cost(1) != 7 {
		t.Errorf("Cost(1) = %v, want 7", pc.Cost(1))
	}
	if len(pc.Arcs()) != 0 {
		t.Errorf("Arcs() = %v, want none (ab was removed)", pc.Arcs())
	}
	if g, ok := pc.QualityGain(1, refs.Node(n[1])); !ok || g != 4 {
		t.Errorf("QualityGain(1, b') = (%v, %v), want (4, true)", g, ok)
	}
	if err := pc.Validate(c); err != nil {
		t.Errorf("Validate() = %v", err)
	}
}

func TestPlan_Validate(t *testing.T) {
	tests := []struct {
		name  string
		build func(l *landscape.Landscape, arcs []landscape.Arc) *Plan
		want  error
	}{
		{
			name: "NotAnImprovement",
			build: func(l *landscape.Landscape, arcs []landscape.Arc) *Plan {
				p := New()
				p.AddArc(p.AddOption(1), arcs[1], 0.5)
				return p
			},
			want: ErrInvalidRestoration,
		},
		{
			name: "AboveOne",
			build: func(l *landscape.Landscape, arcs []landscape.Arc) *Plan {
				p := New()
				p.AddArc(p.AddOption(1), arcs[1], 1.5)
				return p
			},
			want: ErrInvalidRestoration,
		},
		{
			name: "ZeroGain",
			build: func(l *landscape.Landscape, arcs []landscape.Arc) *Plan {
				p := New()
				p.AddNode(p.AddOption(1), 0, 0)
				return p
			},
			want: ErrNonPositiveGain,
		},
		{
			name: "DanglingArc",
			build: func(l *landscape.Landscape, arcs []landscape.Arc) *Plan {
				p := New()
				p.AddArc(p.AddOption(1), 42, 0.9)
				return p
			},
			want: ErrDanglingArc,
		},
		{
			name: "NegativeCost",
			build: func(l *landscape.Landscape, arcs []landscape.Arc) *Plan {
				p := New()
				p.AddOption(-1)
				return p
			},
			want: ErrNegativeCost,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, _, _, arcs := sample()
			err := tt.build(l, arcs).Validate(l)
			if !errors.Is(err, tt.want) {
				t.Errorf("Validate() = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestDecorate(t *testing.T) {
	l, p, n, arcs := sample()

	d := p.Decorate(l, Activation{0.5, 1})

	// option 0 at 0.5: 0.5 + 0.5*0.4 = 0.7; option 1 at 1: 0.7
	if got := d.Probability(arcs[0]); math.Abs(got-0.7) > 1e-12 {
		t.Errorf("Probability(ab) = %v, want 0.7", got)
	}
	if got := d.Quality(n[1]); got != 9 {
		t.Errorf("Quality(b) = %v, want 9", got)
	}
	if got := d.Probability(arcs[1]); got != 0.5 {
		t.Errorf("Probability(bc) = %v, want 0.5", got)
	}
	if l.Probability(arcs[0]) != 0.5 {
		t.Error("Decorate() modified the landscape")
	}
}

func TestDecorate_Zero(t *testing.T) {
	l, p, n, arcs := sample()

	d := p.Decorate(l, Zero(p))

	if d.Probability(arcs[0]) != 0.5 || d.Quality(n[1]) != 5 {
		t.Error("zero activation changed values")
	}
}

func TestUpperProbabilities(t *testing.T) {
	l, p, _, arcs := sample()

	upper := p.UpperProbabilities(l)

	if upper[arcs[0]] != 0.9 {
		t.Errorf("upper[ab] = %v, want 0.9", upper[arcs[0]])
	}
	if upper[arcs[1]] != 0.5 {
		t.Errorf("upper[bc] = %v, want 0.5", upper[arcs[1]])
	}
}

func TestActivation_Validate(t *testing.T) {
	_, p, _, _ := sample()

	if err := (Activation{1}).Validate(p); !errors.Is(err, ErrActivationLength) {
		t.Errorf("Validate(short) = %v, want %v", err, ErrActivationLength)
	}
	if err := (Activation{0, 2}).Validate(p); !errors.Is(err, ErrActivationRange) {
		t.Errorf("Validate(out of range) = %v, want %v", err, ErrActivationRange)
	}
	if err := Full(p).Validate(p); err != nil {
		t.Errorf("Validate(full) = %v", err)
	}
	if got := Full(p).Cost(p); got != 10 {
		t.Errorf("Cost() = %v, want 10", got)
	}
}
