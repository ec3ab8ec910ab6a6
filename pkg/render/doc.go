// Package render provides format conversion for rendered landscapes.
//
// The [ToPDF] and [ToPNG] functions convert any SVG to other formats using
// the external rsvg-convert tool (from librsvg). Diagrams themselves are
// produced by the [nodelink] subpackage:
//
//	dot := nodelink.ToDOT(l, nodelink.Options{})
//	svg, err := nodelink.RenderSVG(dot, nodelink.EngineDot)
//	pdf, err := render.ToPDF(svg)
//
// [nodelink]: github.com/matzehuels/corridor/pkg/render/nodelink
package render
