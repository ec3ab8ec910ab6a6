package contract

import (
	"github.com/matzehuels/corridor/pkg/landscape"
	"github.com/matzehuels/corridor/pkg/plan"
)

// pendant is an auxiliary arc standing in for one quality-gain effect.
type pendant struct {
	option plan.Option
	arc    landscape.Arc
}

// remodelGains replaces every quality-gain effect by a pendant node holding
// the gain as its quality, linked to the gaining node by an arc of
// probability 1. The effect is removed from the plan. Contraction then moves
// and scales the pendant arc like any other in-arc, so the gain follows the
// node it belongs to.
func remodelGains(l *landscape.Landscape, p *plan.Plan) []pendant {
	var pendants []pendant
	for _, o := range p.Options() {
		for _, u := range p.OptionNodes(o) {
			gain, _ := p.QualityGain(o, u)
			x := l.AddNode(gain, l.Coords(u))
			pendants = append(pendants, pendant{option: o, arc: l.AddArc(x, u, 1)})
			p.RemoveNodeEffect(o, u)
		}
	}
	return pendants
}

// restoreGains turns pendants back into quality-gain effects on whatever
// node their arc now enters, scaled by the arc's probability, and removes
// the pendant nodes. Gains of one option landing on the same node add up.
func restoreGains(l *landscape.Landscape, p *plan.Plan, pendants []pendant) {
	for _, pd := range pendants {
		x := l.Source(pd.arc)
		v := l.Target(pd.arc)
		gain := l.Probability(pd.arc) * l.Quality(x)
		if prev, ok := p.QualityGain(pd.option, v); ok {
			gain += prev
		}
		l.RemoveNode(x)
		if gain > 0 {
			p.AddNode(pd.option, v, gain)
		}
	}
}
