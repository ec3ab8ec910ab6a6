// Package nodelink renders landscapes as node-link diagrams.
//
// # Overview
//
// Patches appear as ellipses labelled with their quality and dispersal
// routes as arrows labelled with their probability. Restorable arcs are
// dashed and show the probability they can reach; the target of a reduced
// landscape is highlighted.
//
// # Usage
//
// Convert a landscape to DOT format, then render to SVG:
//
//	dot := nodelink.ToDOT(l, nodelink.Options{Plan: p, Target: t})
//	svg, err := nodelink.RenderSVG(dot, nodelink.EngineDot)
//
// With Positions set, nodes are pinned at their coordinates and the diagram
// must be laid out with [EngineNeato]:
//
//	dot := nodelink.ToDOT(l, nodelink.Options{Positions: true, Scale: 3})
//	svg, err := nodelink.RenderSVG(dot, nodelink.EngineNeato)
//
// For PDF or PNG output, use [RenderPDF] and [RenderPNG].
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering. PDF and PNG conversion requires librsvg (rsvg-convert).
package nodelink
