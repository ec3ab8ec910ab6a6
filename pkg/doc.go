// Package pkg provides the libraries behind corridor, a toolkit for habitat
// connectivity analysis.
//
// # Overview
//
// A landscape is a directed graph of habitat patches (nodes with a quality)
// and dispersal routes (arcs with a survival probability). Its equivalent
// connected area (ECA) sums, over all ordered patch pairs, the product of
// both qualities and the best-path probability between them. A restoration
// plan lists options that raise arc probabilities or patch qualities, and an
// activation says how much of each option is applied.
//
// Optimizers evaluate the flow into each patch for many activations. The
// contraction engine precomputes, once per target patch, a much smaller
// landscape and plan that give exactly the same flow for every activation.
//
// # Architecture
//
// The typical data flow:
//
//	instance file (JSON)
//	         ↓
//	    [io] package (read, validate, keep external ids)
//	         ↓
//	    [eca] package (evaluate)      [contract] package (precompute per target)
//	         ↓                                  ↓
//	    ECA value                      reduced landscapes → [cache], [render/nodelink]
//
// # Main Packages
//
// ## Core Domain Logic
//
// [landscape] - Arena-backed mutable landscape, the frozen [landscape.Static]
// form and read-only views (reversed, decorated).
//
// [plan] - Restoration options, their effects and activations.
//
// [reach] - Best-path probabilities by multiplicative Dijkstra search.
//
// [eca] - ECA, flow into a target and a parallel evaluator.
//
// [contract] - Strong and useless arc labeling, per-target reduction and
// the reformulation passes it is built from.
//
// ## Supporting Packages
//
// [io] - JSON instance and result files with full validation.
//
// [generate] - Seeded random instances for tests and benchmarks.
//
// [pipeline] - Load → evaluate → contract → verify with caching, used by the
// CLI.
//
// [cache] - File, Redis and null caches for precomputed results.
//
// [observability] - Hooks with a Prometheus implementation.
//
// [render/nodelink] - Graphviz diagrams of landscapes and reductions.
//
// [errors] - Coded errors and field validators.
//
// # Quick Start
//
//	in, _ := io.ImportInstance("landscape.json")
//	results, _ := contract.Precompute(ctx, in.Landscape, in.Plan, contract.Options{})
//	for t, r := range results {
//	    flow := eca.FlowIntoSolution(r.Landscape, r.Plan, plan.Full(in.Plan), r.Target)
//	    fmt.Println(in.NodeID(t), flow)
//	}
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...                    # All tests
//	go test -run Example ./pkg/...       # Examples only
//	go test -tags integration ./pkg/...  # Include Redis integration tests
package pkg
