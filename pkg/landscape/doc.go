// Package landscape provides the directed habitat graph that every corridor
// algorithm operates on.
//
// # Overview
//
// A landscape is a set of habitat patches (nodes) connected by dispersal
// routes (arcs). Each node carries a non-negative quality and a pair of
// coordinates; each arc carries the probability that an individual leaving
// its source reaches its target. The probability of a path is the product of
// its arc probabilities, and the best path between two patches is the one
// maximizing that product.
//
// # Representations
//
// [Landscape] is the editable form. It stores nodes and arcs in arenas
// addressed by stable integer ids, so a restoration plan can refer to them
// while the graph is being rewritten:
//
//	l := landscape.New()
//	a := l.AddNode(10, landscape.Point{})
//	b := l.AddNode(5, landscape.Point{X: 1})
//	l.AddArc(a, b, 0.5)
//
// [Static] is the frozen form produced by [Build]. It stores adjacency in flat
// offset arrays and is what the contraction engine returns per target.
//
// Both implement [View], the read-only surface consumed by the search and
// metric packages. [Decorated] overlays a second set of values on any view,
// and [Reverse] flips every arc of a view without copying it.
//
// # Identity Across Copies
//
// [Landscape.Copy] and [Build] renumber elements. Both return [Refs], an
// explicit old→new map, so that anything keyed by ids (a plan, a target
// list) can be carried over to the new graph.
//
// # Concurrency
//
// A [Landscape] must not be mutated concurrently. A [Static] is immutable and
// may be shared freely between goroutines.
package landscape
