// Package plan models restoration plans: priced options that raise node
// qualities or arc probabilities of a landscape.
//
// A [Plan] is indexed both ways. Per option it keeps the nodes and arcs it
// improves, and per element it keeps the options acting on it, so the
// contraction engine can ask "is this arc restorable?" in constant time while
// rewriting the graph.
//
// An [Activation] picks a coefficient per option. [Plan.Decorate] turns a
// landscape and an activation into the improved view that metrics are
// evaluated on:
//
//	act := plan.Full(p)
//	improved := p.Decorate(l, act)
//	value := eca.Eval(improved)
package plan
