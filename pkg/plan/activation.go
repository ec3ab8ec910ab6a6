package plan

import (
	"errors"
	"fmt"
	"math"

	"github.com/matzehuels/corridor/pkg/landscape"
)

var (
	// ErrActivationLength is returned when an activation does not have one
	// coefficient per option.
	ErrActivationLength = errors.New("activation length does not match option count")

	// ErrActivationRange is returned when a coefficient lies outside [0, 1].
	ErrActivationRange = errors.New("activation coefficient must be within [0, 1]")
)

// Activation assigns each option a coefficient in [0, 1]: 0 leaves the
// landscape untouched, 1 applies the option fully, values in between
// interpolate linearly.
type Activation []float64

// Zero returns the activation with every option off.
func Zero(p *Plan) Activation {
	return make(Activation, p.NumOptions())
}

// Full returns the activation with every option fully on.
func Full(p *Plan) Activation {
	act := make(Activation, p.NumOptions())
	for i := range act {
		act[i] = 1
	}
	return act
}

// Validate checks that act fits p.
func (act Activation) Validate(p *Plan) error {
	if len(act) != p.NumOptions() {
		return fmt.Errorf("%w: got %d, want %d", ErrActivationLength, len(act), p.NumOptions())
	}
	for i, c := range act {
		if math.IsNaN(c) || c < 0 || c > 1 {
			return fmt.Errorf("option %d = %v: %w", i, c, ErrActivationRange)
		}
	}
	return nil
}

// Cost returns the total cost of act under p, each option contributing its
// cost scaled by its coefficient.
func (act Activation) Cost(p *Plan) float64 {
	var total float64
	for i, c := range act {
		total += c * p.Cost(Option(i))
	}
	return total
}

// Decorate applies act to v and returns the resulting view.
//
// A node gains the sum of coefficient-weighted gains of the options acting on
// it. An arc takes the best of its baseline probability and, per option, the
// baseline interpolated towards the restored probability by the option's
// coefficient. Effects on elements that v does not contain are ignored.
// Decorate panics if act does not have one coefficient per option.
func (p *Plan) Decorate(v landscape.View, act Activation) *landscape.Decorated {
	if len(act) != p.NumOptions() {
		panic(fmt.Sprintf("plan: activation has %d coefficients, plan has %d options", len(act), p.NumOptions()))
	}
	d := landscape.Decorate(v)
	for u, effects := range p.byNode {
		if !v.ValidNode(u) {
			continue
		}
		q := d.Quality(u)
		for _, e := range effects {
			q += act[e.Option] * e.QualityGain
		}
		d.SetQuality(u, q)
	}
	for a, effects := range p.byArc {
		if !v.ValidArc(a) {
			continue
		}
		base := v.Probability(a)
		best := base
		for _, e := range effects {
			best = max(best, base+act[e.Option]*(e.RestoredProbability-base))
		}
		d.SetProbability(a, best)
	}
	return d
}

// UpperProbabilities returns, indexed by arc id, the best probability each
// arc of v can reach under p. Arcs no option acts on keep their baseline.
func (p *Plan) UpperProbabilities(v landscape.View) []float64 {
	upper := make([]float64, v.ArcBound())
	for _, a := range v.Arcs() {
		upper[a] = v.Probability(a)
		for _, e := range p.byArc[a] {
			upper[a] = max(upper[a], e.RestoredProbability)
		}
	}
	return upper
}

// LowerProbabilities returns, indexed by arc id, the baseline probability of
// every arc of v.
func LowerProbabilities(v landscape.View) []float64 {
	lower := make([]float64, v.ArcBound())
	for _, a := range v.Arcs() {
		lower[a] = v.Probability(a)
	}
	return lower
}
