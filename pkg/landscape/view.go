package landscape

// View is the read-only surface shared by [Landscape], [Static] and
// [Decorated]. Algorithms that only inspect a landscape accept a View.
//
// Nodes and Arcs return live ids in ascending order. NodeBound and ArcBound
// are exclusive bounds on ids, so per-element state can be kept in dense
// slices indexed by id.
type View interface {
	NodeBound() int
	ArcBound() int
	Nodes() []Node
	Arcs() []Arc
	ValidNode(u Node) bool
	ValidArc(a Arc) bool
	Source(a Arc) Node
	Target(a Arc) Node
	OutArcs(u Node) []Arc
	InArcs(u Node) []Arc
	Quality(u Node) float64
	Probability(a Arc) float64
}

// Locator is implemented by views that carry node coordinates.
type Locator interface {
	Coords(u Node) Point
}

var (
	_ View    = (*Landscape)(nil)
	_ View    = (*Static)(nil)
	_ View    = (*Decorated)(nil)
	_ Locator = (*Landscape)(nil)
	_ Locator = (*Static)(nil)
)

type reversed struct {
	View
}

// Reverse returns a view of v with every arc flipped. Arc ids are shared
// with v; only the roles of source and target are exchanged.
func Reverse(v View) View {
	if r, ok := v.(reversed); ok {
		return r.View
	}
	return reversed{v}
}

func (r reversed) Source(a Arc) Node { return r.View.Target(a) }
func (r reversed) Target(a Arc) Node { return r.View.Source(a) }
func (r reversed) OutArcs(u Node) []Arc { return r.View.InArcs(u) }
func (r reversed) InArcs(u Node) []Arc { return r.View.OutArcs(u) }

// Decorated overlays private quality and probability values on a base view.
// Structure is delegated to the base; values are read from the overlay.
// A Decorated is how a plan activation is applied without touching the
// landscape it was built from.
type Decorated struct {
	View
	quality     []float64
	probability []float64
}

// Decorate returns an overlay of v whose values start equal to v's.
func Decorate(v View) *Decorated {
	d := &Decorated{
		View:        v,
		quality:     make([]float64, v.NodeBound()),
		probability: make([]float64, v.ArcBound()),
	}
	for _, u := range v.Nodes() {
		d.quality[u] = v.Quality(u)
	}
	for _, a := range v.Arcs() {
		d.probability[a] = v.Probability(a)
	}
	return d
}

// Quality returns the overlaid quality of u.
func (d *Decorated) Quality(u Node) float64 { return d.quality[u] }

// Probability returns the overlaid probability of a.
func (d *Decorated) Probability(a Arc) float64 { return d.probability[a] }

// SetQuality overrides the quality of u.
func (d *Decorated) SetQuality(u Node, q float64) { d.quality[u] = q }

// SetProbability overrides the probability of a.
func (d *Decorated) SetProbability(a Arc, p float64) { d.probability[a] = p }

// Coords forwards to the base view when it carries coordinates.
func (d *Decorated) Coords(u Node) Point {
	if loc, ok := d.View.(Locator); ok {
		return loc.Coords(u)
	}
	return Point{}
}

// Qualities returns the overlaid qualities indexed by node id.
func (d *Decorated) Qualities() []float64 { return d.quality }

// Probabilities returns the overlaid probabilities indexed by arc id.
func (d *Decorated) Probabilities() []float64 { return d.probability }
