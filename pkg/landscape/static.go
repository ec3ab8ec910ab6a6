package landscape

// Static is an immutable, read-optimized landscape.
//
// Arcs are renumbered so that the arcs leaving a node occupy a contiguous id
// range, and both adjacency directions are stored as flat offset arrays.
// Node ids are dense in [0, NodeCount). Static values are safe for concurrent
// readers and are what the contraction engine hands back per target.
type Static struct {
	quality     []float64
	coords      []Point
	source      []Node
	target      []Node
	probability []float64
	outStart    []int
	inStart     []int
	inArcs      []Arc
	ids         []Arc
	nodes       []Node
}

// Build freezes v into a [Static]. The returned refs map v's ids to the ids
// of the result. Coordinates are copied when v implements [Locator].
func Build(v View) (*Static, Refs) {
	refs := newRefs(v.NodeBound(), v.ArcBound())
	nodes := v.Nodes()
	s := &Static{
		quality:  make([]float64, len(nodes)),
		coords:   make([]Point, len(nodes)),
		outStart: make([]int, len(nodes)+1),
		inStart:  make([]int, len(nodes)+1),
		nodes:    make([]Node, len(nodes)),
	}
	loc, _ := v.(Locator)
	for i, u := range nodes {
		refs.Nodes[u] = Node(i)
		s.nodes[i] = Node(i)
		s.quality[i] = v.Quality(u)
		if loc != nil {
			s.coords[i] = loc.Coords(u)
		}
	}

	for _, u := range nodes {
		for _, a := range v.OutArcs(u) {
			nu := refs.Nodes[u]
			nv := refs.Nodes[v.Target(a)]
			refs.Arcs[a] = Arc(len(s.source))
			s.source = append(s.source, nu)
			s.target = append(s.target, nv)
			s.probability = append(s.probability, v.Probability(a))
			s.outStart[nu+1]++
			s.inStart[nv+1]++
		}
	}
	for i := range nodes {
		s.outStart[i+1] += s.outStart[i]
		s.inStart[i+1] += s.inStart[i]
	}

	s.ids = make([]Arc, len(s.source))
	s.inArcs = make([]Arc, len(s.source))
	fill := make([]int, len(nodes))
	copy(fill, s.inStart[:len(nodes)])
	for a := range s.source {
		s.ids[a] = Arc(a)
		t := s.target[a]
		s.inArcs[fill[t]] = Arc(a)
		fill[t]++
	}
	return s, refs
}

// NodeCount returns the number of nodes.
func (s *Static) NodeCount() int { return len(s.quality) }

// ArcCount returns the number of arcs.
func (s *Static) ArcCount() int { return len(s.source) }

func (s *Static) NodeBound() int { return len(s.quality) }
func (s *Static) ArcBound() int { return len(s.source) }

// Nodes returns all node ids. The slice is shared and must not be modified.
func (s *Static) Nodes() []Node { return s.nodes }

// Arcs returns all arc ids. The slice is shared and must not be modified.
func (s *Static) Arcs() []Arc { return s.ids }

func (s *Static) ValidNode(u Node) bool { return u >= 0 && int(u) < len(s.quality) }
func (s *Static) ValidArc(a Arc) bool { return a >= 0 && int(a) < len(s.source) }

func (s *Static) Source(a Arc) Node { return s.source[a] }
func (s *Static) Target(a Arc) Node { return s.target[a] }
func (s *Static) Quality(u Node) float64 { return s.quality[u] }
func (s *Static) Probability(a Arc) float64 { return s.probability[a] }
func (s *Static) Coords(u Node) Point { return s.coords[u] }
func (s *Static) OutArcs(u Node) []Arc { return s.ids[s.outStart[u]:s.outStart[u+1]] }
func (s *Static) InArcs(u Node) []Arc { return s.inArcs[s.inStart[u]:s.inStart[u+1]] }

// Thaw returns an editable copy of s. Ids are preserved.
func (s *Static) Thaw() *Landscape {
	l := New()
	for i := range s.quality {
		l.AddNode(s.quality[i], s.coords[i])
	}
	for a := range s.source {
		l.AddArc(s.source[a], s.target[a], s.probability[a])
	}
	return l
}
