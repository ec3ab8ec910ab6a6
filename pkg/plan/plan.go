package plan

import (
	"errors"
	"fmt"
	"maps"
	"math"
	"slices"

	"github.com/matzehuels/corridor/pkg/landscape"
)

var (
	// ErrNegativeCost is returned by [Plan.Validate] for an option whose cost
	// is negative or NaN.
	ErrNegativeCost = errors.New("option cost must be non-negative")

	// ErrNonPositiveGain is returned by [Plan.Validate] for a node effect whose
	// quality gain is not strictly positive.
	ErrNonPositiveGain = errors.New("quality gain must be positive")

	// ErrInvalidRestoration is returned by [Plan.Validate] for an arc effect
	// whose restored probability is not a probability or does not improve on
	// the baseline.
	ErrInvalidRestoration = errors.New("restored probability must exceed the baseline and lie within [0, 1]")

	// ErrDanglingNode is returned by [Plan.Validate] when an effect targets a
	// node that is not part of the landscape.
	ErrDanglingNode = errors.New("effect references an unknown node")

	// ErrDanglingArc is returned by [Plan.Validate] when an effect targets an
	// arc that is not part of the landscape.
	ErrDanglingArc = errors.New("effect references an unknown arc")
)

// Option identifies a restoration option. Ids are dense and assigned in
// creation order starting at zero.
type Option int

// NodeEffect is the quality gain one option brings to a node.
type NodeEffect struct {
	Option      Option
	QualityGain float64
}

// ArcEffect is the probability an arc reaches when one option is fully applied.
type ArcEffect struct {
	Option              Option
	RestoredProbability float64
}

type option struct {
	cost  float64
	nodes map[landscape.Node]float64
	arcs  map[landscape.Arc]float64
}

// Plan is a list of restoration options with a two-way index between options
// and the landscape elements they improve.
//
// Effects are keyed by landscape ids, so a plan is only meaningful together
// with the landscape it was written for. Use [Plan.Copy] with the [landscape.Refs]
// of a landscape copy to carry a plan over. The zero value is an empty plan.
type Plan struct {
	options []option
	byNode  map[landscape.Node][]NodeEffect
	byArc   map[landscape.Arc][]ArcEffect
}

// New creates an empty plan.
func New() *Plan {
	return &Plan{}
}

// AddOption appends an option with the given cost and returns its id.
func (p *Plan) AddOption(cost float64) Option {
	p.options = append(p.options, option{
		cost:  cost,
		nodes: make(map[landscape.Node]float64),
		arcs:  make(map[landscape.Arc]float64),
	})
	return Option(len(p.options) - 1)
}

// NumOptions returns the number of options, including degenerate ones.
func (p *Plan) NumOptions() int { return len(p.options) }

// Options returns all option ids in ascending order.
func (p *Plan) Options() []Option {
	ids := make([]Option, len(p.options))
	for i := range ids {
		ids[i] = Option(i)
	}
	return ids
}

// Cost returns the cost of o.
func (p *Plan) Cost(o Option) float64 { return p.opt(o).cost }

// SetCost sets the cost of o.
func (p *Plan) SetCost(o Option, cost float64) { p.opt(o).cost = cost }

// AddNode records that o raises the quality of u by gain. A previous effect
// of o on u is replaced.
func (p *Plan) AddNode(o Option, u landscape.Node, gain float64) {
	opt := p.opt(o)
	if _, ok := opt.nodes[u]; ok {
		p.RemoveNodeEffect(o, u)
	}
	opt.nodes[u] = gain
	if p.byNode == nil {
		p.byNode = make(map[landscape.Node][]NodeEffect)
	}
	p.byNode[u] = append(p.byNode[u], NodeEffect{Option: o, QualityGain: gain})
}

// AddArc records that o restores a to the given probability. A previous
// effect of o on a is replaced.
func (p *Plan) AddArc(o Option, a landscape.Arc, restored float64) {
	opt := p.opt(o)
	if _, ok := opt.arcs[a]; ok {
		p.RemoveArcEffect(o, a)
	}
	opt.arcs[a] = restored
	if p.byArc == nil {
		p.byArc = make(map[landscape.Arc][]ArcEffect)
	}
	p.byArc[a] = append(p.byArc[a], ArcEffect{Option: o, RestoredProbability: restored})
}

// NodeEffects returns the options acting on u in insertion order.
// The slice is owned by the plan.
func (p *Plan) NodeEffects(u landscape.Node) []NodeEffect { return p.byNode[u] }

// ArcEffects returns the options acting on a in insertion order.
// The slice is owned by the plan.
func (p *Plan) ArcEffects(a landscape.Arc) []ArcEffect { return p.byArc[a] }

// ContainsNode reports whether any option acts on u.
func (p *Plan) ContainsNode(u landscape.Node) bool { return len(p.byNode[u]) > 0 }

// ContainsArc reports whether any option acts on a.
func (p *Plan) ContainsArc(a landscape.Arc) bool { return len(p.byArc[a]) > 0 }

// QualityGain returns the gain o brings to u, if any.
func (p *Plan) QualityGain(o Option, u landscape.Node) (float64, bool) {
	g, ok := p.opt(o).nodes[u]
	return g, ok
}

// RestoredProbability returns the probability o restores a to, if any.
func (p *Plan) RestoredProbability(o Option, a landscape.Arc) (float64, bool) {
	r, ok := p.opt(o).arcs[a]
	return r, ok
}

// OptionNodes returns the nodes o acts on in ascending id order.
func (p *Plan) OptionNodes(o Option) []landscape.Node {
	return slices.Sorted(maps.Keys(p.opt(o).nodes))
}

// OptionArcs returns the arcs o acts on in ascending id order.
func (p *Plan) OptionArcs(o Option) []landscape.Arc {
	return slices.Sorted(maps.Keys(p.opt(o).arcs))
}

// Nodes returns every node some option acts on, in ascending id order.
func (p *Plan) Nodes() []landscape.Node {
	return slices.Sorted(maps.Keys(p.byNode))
}

// Arcs returns every arc some option acts on, in ascending id order.
func (p *Plan) Arcs() []landscape.Arc {
	return slices.Sorted(maps.Keys(p.byArc))
}

// RemoveNodeEffect drops the effect of o on u, if present.
func (p *Plan) RemoveNodeEffect(o Option, u landscape.Node) {
	delete(p.opt(o).nodes, u)
	effects := slices.DeleteFunc(p.byNode[u], func(e NodeEffect) bool { return e.Option == o })
	if len(effects) == 0 {
		delete(p.byNode, u)
		return
	}
	p.byNode[u] = effects
}

// RemoveArcEffect drops the effect of o on a, if present.
func (p *Plan) RemoveArcEffect(o Option, a landscape.Arc) {
	delete(p.opt(o).arcs, a)
	effects := slices.DeleteFunc(p.byArc[a], func(e ArcEffect) bool { return e.Option == o })
	if len(effects) == 0 {
		delete(p.byArc, a)
		return
	}
	p.byArc[a] = effects
}

// RemoveNode drops every effect on u.
func (p *Plan) RemoveNode(u landscape.Node) {
	for _, e := range p.byNode[u] {
		delete(p.options[e.Option].nodes, u)
	}
	delete(p.byNode, u)
}

// RemoveArc drops every effect on a.
func (p *Plan) RemoveArc(a landscape.Arc) {
	for _, e := range p.byArc[a] {
		delete(p.options[e.Option].arcs, a)
	}
	delete(p.byArc, a)
}

// ScaleArc multiplies every restored probability of a by f. It is used when
// an arc is extended by a path of fixed probability f.
func (p *Plan) ScaleArc(a landscape.Arc, f float64) {
	effects := p.byArc[a]
	for i := range effects {
		effects[i].RestoredProbability *= f
		p.options[effects[i].Option].arcs[a] = effects[i].RestoredProbability
	}
}

// Degenerate reports whether o no longer acts on anything.
func (p *Plan) Degenerate(o Option) bool {
	opt := p.opt(o)
	return len(opt.nodes) == 0 && len(opt.arcs) == 0
}

// DegenerateOptions returns the options that act on nothing.
func (p *Plan) DegenerateOptions() []Option {
	var out []Option
	for i := range p.options {
		if p.Degenerate(Option(i)) {
			out = append(out, Option(i))
		}
	}
	return out
}

// Copy returns a plan with the same options and costs whose effects are
// re-keyed through refs. Effects on elements without a counterpart are
// dropped. Option ids are preserved, so activations stay aligned.
func (p *Plan) Copy(refs landscape.Refs) *Plan {
	c := New()
	for i, opt := range p.options {
		o := c.AddOption(opt.cost)
		for _, u := range slices.Sorted(maps.Keys(opt.nodes)) {
			if nu := refs.Node(u); nu != landscape.InvalidNode {
				c.AddNode(o, nu, p.options[i].nodes[u])
			}
		}
		for _, a := range slices.Sorted(maps.Keys(opt.arcs)) {
			if na := refs.Arc(a); na != landscape.InvalidArc {
				c.AddArc(o, na, p.options[i].arcs[a])
			}
		}
	}
	return c
}

// Clone returns a deep copy of p with unchanged ids.
func (p *Plan) Clone() *Plan {
	c := New()
	for _, opt := range p.options {
		o := c.AddOption(opt.cost)
		for _, u := range slices.Sorted(maps.Keys(opt.nodes)) {
			c.AddNode(o, u, opt.nodes[u])
		}
		for _, a := range slices.Sorted(maps.Keys(opt.arcs)) {
			c.AddArc(o, a, opt.arcs[a])
		}
	}
	return c
}

// Validate checks p against the landscape it refers to: costs are
// non-negative, gains positive, restored probabilities valid and strictly
// above the baseline, and every referenced element exists.
func (p *Plan) Validate(v landscape.View) error {
	for i, opt := range p.options {
		if math.IsNaN(opt.cost) || opt.cost < 0 {
			return fmt.Errorf("option %d: %w", i, ErrNegativeCost)
		}
		for _, u := range slices.Sorted(maps.Keys(opt.nodes)) {
			if !v.ValidNode(u) {
				return fmt.Errorf("option %d, node %d: %w", i, u, ErrDanglingNode)
			}
			if g := opt.nodes[u]; math.IsNaN(g) || g <= 0 {
				return fmt.Errorf("option %d, node %d: %w", i, u, ErrNonPositiveGain)
			}
		}
		for _, a := range slices.Sorted(maps.Keys(opt.arcs)) {
			if !v.ValidArc(a) {
				return fmt.Errorf("option %d, arc %d: %w", i, a, ErrDanglingArc)
			}
			r := opt.arcs[a]
			if !landscape.IsProbability(r) || r <= v.Probability(a) {
				return fmt.Errorf("option %d, arc %d: %w", i, a, ErrInvalidRestoration)
			}
		}
	}
	return nil
}

func (p *Plan) opt(o Option) *option {
	if o < 0 || int(o) >= len(p.options) {
		panic(fmt.Sprintf("plan: invalid option %d", o))
	}
	return &p.options[o]
}
