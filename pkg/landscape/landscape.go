package landscape

import (
	"errors"
	"fmt"
	"math"
	"slices"
)

var (
	// ErrNegativeQuality is returned by [Landscape.Validate] when a node carries
	// a negative or NaN quality.
	ErrNegativeQuality = errors.New("quality must be a non-negative number")

	// ErrInvalidProbability is returned by [Landscape.Validate] when an arc
	// probability is NaN or outside [0, 1].
	ErrInvalidProbability = errors.New("probability must be within [0, 1]")

	// ErrInvalidEndpoint is returned by [Landscape.Validate] when an arc
	// references a removed node. This indicates graph corruption.
	ErrInvalidEndpoint = errors.New("invalid arc endpoint")
)

// Node identifies a habitat patch. Ids are dense, stable for the lifetime of
// the landscape and never reused after removal.
type Node int

// Arc identifies a dispersal route between two patches.
type Arc int

const (
	// InvalidNode marks the absence of a node, e.g. in a [Refs] entry for an
	// element that was not copied.
	InvalidNode Node = -1
	// InvalidArc marks the absence of an arc.
	InvalidArc Arc = -1
)

// Point holds planar coordinates. They are carried for export and rendering
// only and never influence reachability.
type Point struct {
	X float64
	Y float64
}

type nodeSlot struct {
	quality float64
	coords  Point
	in      []Arc
	out     []Arc
	alive   bool
}

type arcSlot struct {
	source      Node
	target      Node
	probability float64
	alive       bool
}

// Landscape is an editable directed graph whose nodes carry a quality and
// whose arcs carry a crossing probability.
//
// Nodes and arcs live in arenas indexed by their ids. Removing an element
// tombstones its slot, so ids held by callers (and by a restoration plan)
// never silently point at a different element. Parallel arcs are allowed.
//
// Structural misuse, such as editing a removed arc, is a programming error
// and panics. The zero value is an empty landscape ready for use.
// Landscape is not safe for concurrent mutation; concurrent readers are fine.
type Landscape struct {
	nodes     []nodeSlot
	arcs      []arcSlot
	nodeCount int
	arcCount  int
}

// New creates an empty landscape.
func New() *Landscape {
	return &Landscape{}
}

// AddNode adds a patch with the given quality and coordinates and returns its id.
func (l *Landscape) AddNode(quality float64, coords Point) Node {
	l.nodes = append(l.nodes, nodeSlot{quality: quality, coords: coords, alive: true})
	l.nodeCount++
	return Node(len(l.nodes) - 1)
}

// AddArc adds an arc u→v with the given probability and returns its id.
func (l *Landscape) AddArc(u, v Node, probability float64) Arc {
	l.mustNode(u)
	l.mustNode(v)
	a := Arc(len(l.arcs))
	l.arcs = append(l.arcs, arcSlot{source: u, target: v, probability: probability, alive: true})
	l.nodes[u].out = append(l.nodes[u].out, a)
	l.nodes[v].in = append(l.nodes[v].in, a)
	l.arcCount++
	return a
}

// RemoveNode removes u together with every arc incident to it.
func (l *Landscape) RemoveNode(u Node) {
	l.mustNode(u)
	for _, a := range slices.Clone(l.nodes[u].out) {
		if l.arcs[a].alive {
			l.RemoveArc(a)
		}
	}
	for _, a := range slices.Clone(l.nodes[u].in) {
		if l.arcs[a].alive {
			l.RemoveArc(a)
		}
	}
	l.nodes[u] = nodeSlot{}
	l.nodeCount--
}

// RemoveArc removes a from the landscape.
func (l *Landscape) RemoveArc(a Arc) {
	l.mustArc(a)
	s := &l.arcs[a]
	l.nodes[s.source].out = deleteArc(l.nodes[s.source].out, a)
	l.nodes[s.target].in = deleteArc(l.nodes[s.target].in, a)
	*s = arcSlot{source: InvalidNode, target: InvalidNode}
	l.arcCount--
}

// ChangeSource redirects a so that it leaves u.
func (l *Landscape) ChangeSource(a Arc, u Node) {
	l.mustArc(a)
	l.mustNode(u)
	s := &l.arcs[a]
	l.nodes[s.source].out = deleteArc(l.nodes[s.source].out, a)
	s.source = u
	l.nodes[u].out = append(l.nodes[u].out, a)
}

// ChangeTarget redirects a so that it enters v.
func (l *Landscape) ChangeTarget(a Arc, v Node) {
	l.mustArc(a)
	l.mustNode(v)
	s := &l.arcs[a]
	l.nodes[s.target].in = deleteArc(l.nodes[s.target].in, a)
	s.target = v
	l.nodes[v].in = append(l.nodes[v].in, a)
}

func deleteArc(arcs []Arc, a Arc) []Arc {
	return slices.DeleteFunc(arcs, func(b Arc) bool { return b == a })
}

// Quality returns the quality of u.
func (l *Landscape) Quality(u Node) float64 { l.mustNode(u); return l.nodes[u].quality }

// SetQuality sets the quality of u.
func (l *Landscape) SetQuality(u Node, quality float64) { l.mustNode(u); l.nodes[u].quality = quality }

// Coords returns the coordinates of u.
func (l *Landscape) Coords(u Node) Point { l.mustNode(u); return l.nodes[u].coords }

// SetCoords sets the coordinates of u.
func (l *Landscape) SetCoords(u Node, p Point) { l.mustNode(u); l.nodes[u].coords = p }

// Probability returns the crossing probability of a.
func (l *Landscape) Probability(a Arc) float64 { l.mustArc(a); return l.arcs[a].probability }

// SetProbability sets the crossing probability of a.
func (l *Landscape) SetProbability(a Arc, p float64) { l.mustArc(a); l.arcs[a].probability = p }

// Source returns the node a leaves.
func (l *Landscape) Source(a Arc) Node { l.mustArc(a); return l.arcs[a].source }

// Target returns the node a enters.
func (l *Landscape) Target(a Arc) Node { l.mustArc(a); return l.arcs[a].target }

// OutArcs returns the arcs leaving u. The slice is owned by the landscape and
// must not be modified or retained across structural edits.
func (l *Landscape) OutArcs(u Node) []Arc { l.mustNode(u); return l.nodes[u].out }

// InArcs returns the arcs entering u, with the same ownership rules as OutArcs.
func (l *Landscape) InArcs(u Node) []Arc { l.mustNode(u); return l.nodes[u].in }

// Nodes returns the live nodes in ascending id order.
func (l *Landscape) Nodes() []Node {
	nodes := make([]Node, 0, l.nodeCount)
	for i := range l.nodes {
		if l.nodes[i].alive {
			nodes = append(nodes, Node(i))
		}
	}
	return nodes
}

// Arcs returns the live arcs in ascending id order.
func (l *Landscape) Arcs() []Arc {
	arcs := make([]Arc, 0, l.arcCount)
	for i := range l.arcs {
		if l.arcs[i].alive {
			arcs = append(arcs, Arc(i))
		}
	}
	return arcs
}

// NodeCount returns the number of live nodes.
func (l *Landscape) NodeCount() int { return l.nodeCount }

// ArcCount returns the number of live arcs.
func (l *Landscape) ArcCount() int { return l.arcCount }

// NodeBound returns an exclusive upper bound on node ids, suitable for sizing
// dense per-node slices.
func (l *Landscape) NodeBound() int { return len(l.nodes) }

// ArcBound returns an exclusive upper bound on arc ids.
func (l *Landscape) ArcBound() int { return len(l.arcs) }

// ValidNode reports whether u is a live node of the landscape.
func (l *Landscape) ValidNode(u Node) bool {
	return u >= 0 && int(u) < len(l.nodes) && l.nodes[u].alive
}

// ValidArc reports whether a is a live arc of the landscape.
func (l *Landscape) ValidArc(a Arc) bool {
	return a >= 0 && int(a) < len(l.arcs) && l.arcs[a].alive
}

func (l *Landscape) mustNode(u Node) {
	if !l.ValidNode(u) {
		panic(fmt.Sprintf("landscape: invalid node %d", u))
	}
}

func (l *Landscape) mustArc(a Arc) {
	if !l.ValidArc(a) {
		panic(fmt.Sprintf("landscape: invalid arc %d", a))
	}
}

// Refs maps the element ids of one landscape to the ids of another, typically
// the result of [Landscape.Copy] or [Build]. Entries for elements that have no
// counterpart hold [InvalidNode] or [InvalidArc].
type Refs struct {
	Nodes []Node
	Arcs  []Arc
}

// Node returns the counterpart of u, or InvalidNode.
func (r Refs) Node(u Node) Node {
	if u < 0 || int(u) >= len(r.Nodes) {
		return InvalidNode
	}
	return r.Nodes[u]
}

// Arc returns the counterpart of a, or InvalidArc.
func (r Refs) Arc(a Arc) Arc {
	if a < 0 || int(a) >= len(r.Arcs) {
		return InvalidArc
	}
	return r.Arcs[a]
}

// Copy returns a compacted deep copy of the landscape together with the
// old→new id maps. The copy shares no memory with l.
func (l *Landscape) Copy() (*Landscape, Refs) {
	c := &Landscape{
		nodes: make([]nodeSlot, 0, l.nodeCount),
		arcs:  make([]arcSlot, 0, l.arcCount),
	}
	refs := newRefs(len(l.nodes), len(l.arcs))
	for i, n := range l.nodes {
		if n.alive {
			refs.Nodes[i] = c.AddNode(n.quality, n.coords)
		}
	}
	for i, a := range l.arcs {
		if a.alive {
			refs.Arcs[i] = c.AddArc(refs.Nodes[a.source], refs.Nodes[a.target], a.probability)
		}
	}
	return c, refs
}

func newRefs(nodes, arcs int) Refs {
	refs := Refs{Nodes: make([]Node, nodes), Arcs: make([]Arc, arcs)}
	for i := range refs.Nodes {
		refs.Nodes[i] = InvalidNode
	}
	for i := range refs.Arcs {
		refs.Arcs[i] = InvalidArc
	}
	return refs
}

// Validate checks the value invariants of the landscape: qualities are
// non-negative and probabilities lie in [0, 1]. It returns the first
// violation found, wrapped with the offending element id.
func (l *Landscape) Validate() error {
	for _, u := range l.Nodes() {
		if q := l.nodes[u].quality; math.IsNaN(q) || math.IsInf(q, 0) || q < 0 {
			return fmt.Errorf("node %d: %w", u, ErrNegativeQuality)
		}
	}
	for _, a := range l.Arcs() {
		s := l.arcs[a]
		if !l.ValidNode(s.source) || !l.ValidNode(s.target) {
			return fmt.Errorf("arc %d: %w", a, ErrInvalidEndpoint)
		}
		if !IsProbability(s.probability) {
			return fmt.Errorf("arc %d: %w", a, ErrInvalidProbability)
		}
	}
	return nil
}

// IsProbability reports whether p is a finite number within [0, 1].
func IsProbability(p float64) bool {
	return !math.IsNaN(p) && p >= 0 && p <= 1
}
