package contract

import (
	"github.com/matzehuels/corridor/pkg/landscape"
	"github.com/matzehuels/corridor/pkg/plan"
)

// Result is the reduced instance for one target node.
//
// For every activation of the original plan (same option ids), the flow
// into Target in Landscape decorated by Plan equals the flow into the
// original target in the original landscape decorated by the original plan.
type Result struct {
	// Landscape is the reduced landscape. Ids are dense and unrelated to the
	// ids of the input landscape.
	Landscape *landscape.Static

	// Plan is the reduced plan. It has exactly as many options as the input
	// plan, some of which may have become degenerate.
	Plan *plan.Plan

	// Target is the id of the target node in Landscape.
	Target landscape.Node

	// Stats records what the reduction did.
	Stats Stats
}

// Stats contains metrics about the reductions applied for one target.
//
// It is useful for logging and for judging how much a target benefits from
// precomputation: the ratio of NodesAfter to NodesBefore bounds the speedup
// of any per-target evaluation.
type Stats struct {
	// NodesBefore and ArcsBefore describe the input landscape.
	NodesBefore int `json:"nodes_before"`
	ArcsBefore  int `json:"arcs_before"`

	// NodesAfter and ArcsAfter describe the reduced landscape.
	NodesAfter int `json:"nodes_after"`
	ArcsAfter  int `json:"arcs_after"`

	// ZeroArcsRemoved counts arcs whose probability stays 0 under every
	// activation.
	ZeroArcsRemoved int `json:"zero_arcs_removed"`

	// UnreachableRemoved counts nodes that had no path to the target.
	UnreachableRemoved int `json:"unreachable_removed"`

	// UselessArcsRemoved counts arcs that lie on no best path to the target
	// under any activation.
	UselessArcsRemoved int `json:"useless_arcs_removed"`

	// ArcsContracted counts arcs whose source was merged into their target.
	ArcsContracted int `json:"arcs_contracted"`

	// StrongRejected counts strong arcs left in place because an earlier
	// merge removed the route their label depended on.
	StrongRejected int `json:"strong_rejected,omitempty"`

	// ParallelArcsMerged counts option-free arcs dropped in favor of a
	// parallel arc with a higher probability.
	ParallelArcsMerged int `json:"parallel_arcs_merged"`

	// NoFlowNodesRemoved counts nodes removed by the final pruning pass.
	NoFlowNodesRemoved int `json:"no_flow_nodes_removed"`
}
