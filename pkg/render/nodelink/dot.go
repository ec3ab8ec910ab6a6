package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/corridor/pkg/landscape"
	"github.com/matzehuels/corridor/pkg/plan"
	"github.com/matzehuels/corridor/pkg/render"
)

// Engine selects the Graphviz layout engine.
type Engine string

const (
	// EngineDot lays the landscape out top to bottom.
	EngineDot Engine = "dot"
	// EngineNeato honors the pinned node positions written with
	// [Options.Positions].
	EngineNeato Engine = "neato"
)

// Options configures landscape diagram rendering.
type Options struct {
	// Plan marks the arcs and nodes some option acts on. May be nil.
	Plan *plan.Plan

	// Target is highlighted when it is a valid node of the view.
	Target landscape.Node

	// Positions pins nodes at their coordinates when the view implements
	// [landscape.Locator]. Render pinned diagrams with [EngineNeato].
	Positions bool

	// Scale multiplies coordinates before pinning. Zero means 1.
	Scale float64

	// NodeName maps a node to the name shown in its label. Nil shows the
	// internal id.
	NodeName func(landscape.Node) string
}

// ToDOT converts a landscape view to Graphviz DOT format.
// The resulting DOT string can be rendered using [RenderSVG], [RenderPDF], or [RenderPNG].
//
// Node labels show the name and quality; arc labels show the probability.
// Arcs a plan option can restore are drawn dashed with the best restored
// probability, and nodes with quality gains get a double outline.
func ToDOT(v landscape.View, opts Options) string {
	name := opts.NodeName
	if name == nil {
		name = func(u landscape.Node) string { return strconv.Itoa(int(u)) }
	}
	scale := opts.Scale
	if scale == 0 {
		scale = 1
	}
	loc, _ := v.(landscape.Locator)

	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=ellipse, style=filled, fillcolor=white, fontsize=14];\n")
	buf.WriteString("  edge [fontsize=10];\n")
	buf.WriteString("\n")

	for _, u := range v.Nodes() {
		attrs := []string{fmt.Sprintf("label=%q", fmt.Sprintf("%s\nq=%s", name(u), fmtValue(v.Quality(u))))}
		if u == opts.Target {
			attrs = append(attrs, "fillcolor=gold", "penwidth=2")
		}
		if opts.Plan != nil && opts.Plan.ContainsNode(u) {
			attrs = append(attrs, "peripheries=2")
		}
		if opts.Positions && loc != nil {
			c := loc.Coords(u)
			attrs = append(attrs, fmt.Sprintf("pos=\"%s,%s!\"", fmtValue(c.X*scale), fmtValue(c.Y*scale)))
		}
		fmt.Fprintf(&buf, "  n%d [%s];\n", u, strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	for _, a := range v.Arcs() {
		fmt.Fprintf(&buf, "  n%d -> n%d [%s];\n", v.Source(a), v.Target(a), strings.Join(arcAttrs(v, opts.Plan, a), ", "))
	}

	buf.WriteString("}\n")
	return buf.String()
}

func arcAttrs(v landscape.View, p *plan.Plan, a landscape.Arc) []string {
	label := fmtValue(v.Probability(a))
	if p == nil || !p.ContainsArc(a) {
		return []string{fmt.Sprintf("label=%q", label)}
	}
	best := v.Probability(a)
	for _, e := range p.ArcEffects(a) {
		best = max(best, e.RestoredProbability)
	}
	return []string{
		fmt.Sprintf("label=%q", label+" → "+fmtValue(best)),
		"style=dashed",
		"color=forestgreen",
	}
}

func fmtValue(x float64) string {
	return strconv.FormatFloat(x, 'g', 3, 64)
}

// RenderSVG renders a DOT graph to SVG using Graphviz with the given engine.
// Returns the SVG bytes ready for display or further conversion with [render.ToPDF] or [render.ToPNG].
func RenderSVG(dot string, engine Engine) ([]byte, error) {
	ctx := context.Background()
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	switch engine {
	case EngineNeato:
		gv.SetLayout(graphviz.NEATO)
	case EngineDot, "":
		gv.SetLayout(graphviz.DOT)
	default:
		return nil, fmt.Errorf("unknown layout engine %q", engine)
	}

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	newSvg := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	return svgTagRe.ReplaceAll(svg, []byte(newSvg))
}

// RenderPDF renders a DOT graph as PDF via SVG conversion.
//
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func RenderPDF(dot string, engine Engine) ([]byte, error) {
	svg, err := RenderSVG(dot, engine)
	if err != nil {
		return nil, err
	}
	return render.ToPDF(svg)
}

// RenderPNG renders a DOT graph as PNG via SVG conversion.
// A scale of 2.0 produces a 2x resolution image suitable for high-DPI displays.
//
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func RenderPNG(dot string, engine Engine, scale float64) ([]byte, error) {
	svg, err := RenderSVG(dot, engine)
	if err != nil {
		return nil, err
	}
	return render.ToPNG(svg, scale)
}
