// Package contract precomputes, for each target node of a landscape, a
// smaller landscape and plan that are equivalent for that target.
//
// # Overview
//
// Many optimization models over a landscape only need, per target node t,
// the flow into t: the sum over every patch s of q(s) times the best-path
// probability from s to t. The flow depends on which restoration options are
// active, but large parts of the graph behave the same under every
// activation. [Precompute] exploits that and returns one [Result] per
// target such that, for every activation of the plan,
//
//	eca.FlowIntoSolution(r.Landscape, r.Plan, act, r.Target)
//
// equals the flow into t in the original instance.
//
// # Labeling
//
// Every arc u→v is examined once with two searches from u that compare the
// worst case through u→v against the best case of the alternatives and vice
// versa. [StrongIdentifier] reports the nodes whose best route from u always
// starts with u→v; [UselessIdentifier] reports those whose best route never
// does. [Label] runs both for every arc on a pool of workers and transposes
// the result into per-target arc lists.
//
// # Per-Target Reduction
//
// [Contract] then reduces a private copy for one target: useless arcs are
// deleted, strong arcs that no option acts on are contracted by merging
// their source into their target, and nodes that can no longer contribute
// are pruned. Quality-gain effects are temporarily modeled as pendant nodes
// so that merges carry them along. See [Contract] for the exact order of
// passes and [Stats] for what each one reports.
//
// # Concurrency
//
// Labeling and per-target reduction are both parallel. The input landscape
// and plan are only read and must not be modified during [Precompute].
// Identifiers keep search state and belong to a single goroutine.
package contract
