package nodelink

import (
	"strings"
	"testing"

	"github.com/matzehuels/corridor/pkg/landscape"
	"github.com/matzehuels/corridor/pkg/plan"
)

func pair() (*landscape.Landscape, landscape.Node, landscape.Node, landscape.Arc) {
	l := landscape.New()
	a := l.AddNode(10, landscape.Point{X: 0, Y: 1})
	b := l.AddNode(5, landscape.Point{X: 2, Y: 0})
	arc := l.AddArc(a, b, 0.5)
	return l, a, b, arc
}

func TestToDOT_Basic(t *testing.T) {
	l, _, _, _ := pair()

	dot := ToDOT(l, Options{Target: landscape.InvalidNode})

	if !strings.Contains(dot, "digraph G") {
		t.Error("ToDOT() output missing digraph declaration")
	}
	if !strings.Contains(dot, `label="0\nq=10"`) {
		t.Errorf("ToDOT() output missing node 0 label:\n%s", dot)
	}
	if !strings.Contains(dot, `n0 -> n1 [label="0.5"]`) {
		t.Errorf("ToDOT() output missing arc:\n%s", dot)
	}
	if strings.Contains(dot, "gold") {
		t.Error("ToDOT() highlighted a node without target")
	}
}

func TestToDOT_PlanAndTarget(t *testing.T) {
	l, a, b, arc := pair()
	p := plan.New()
	o := p.AddOption(1)
	p.AddArc(o, arc, 0.9)
	p.AddNode(o, a, 2)

	dot := ToDOT(l, Options{Plan: p, Target: b})

	if !strings.Contains(dot, "style=dashed") {
		t.Error("ToDOT() output missing dashed restorable arc")
	}
	if !strings.Contains(dot, "0.5 → 0.9") {
		t.Errorf("ToDOT() output missing restored probability:\n%s", dot)
	}
	if !strings.Contains(dot, "peripheries=2") {
		t.Error("ToDOT() output missing gain marker")
	}
	if !strings.Contains(dot, "fillcolor=gold") {
		t.Error("ToDOT() output missing target highlight")
	}
}

func TestToDOT_Positions(t *testing.T) {
	l, _, _, _ := pair()

	dot := ToDOT(l, Options{Target: landscape.InvalidNode, Positions: true, Scale: 2})

	if !strings.Contains(dot, `pos="4,0!"`) {
		t.Errorf("ToDOT() output missing pinned position:\n%s", dot)
	}
}

func TestToDOT_NodeName(t *testing.T) {
	l, _, _, _ := pair()

	dot := ToDOT(l, Options{
		Target:   landscape.InvalidNode,
		NodeName: func(u landscape.Node) string { return "patch-" + string(rune('A'+int(u))) },
	})

	if !strings.Contains(dot, "patch-B") {
		t.Errorf("ToDOT() output missing custom name:\n%s", dot)
	}
}

func TestRenderSVG_UnknownEngine(t *testing.T) {
	if _, err := RenderSVG("digraph G {}", "circo-ish"); err == nil {
		t.Error("RenderSVG() with unknown engine should fail")
	}
}
