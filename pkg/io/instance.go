package io

import (
	"slices"

	"github.com/matzehuels/corridor/pkg/landscape"
	"github.com/matzehuels/corridor/pkg/plan"
)

// Instance is a landscape together with its restoration plan and the ids
// the elements carry in the file they were read from.
//
// NodeIDs, ArcIDs and OptionIDs are indexed by landscape and plan id. They
// let results on a modified or reduced copy be reported in the caller's ids.
type Instance struct {
	Landscape *landscape.Landscape
	Plan      *plan.Plan
	NodeIDs   []int
	ArcIDs    []int
	OptionIDs []int
}

// NewInstance wraps l and p, using the internal ids as external ids. A nil
// p is replaced by an empty plan.
func NewInstance(l *landscape.Landscape, p *plan.Plan) *Instance {
	if p == nil {
		p = plan.New()
	}
	in := &Instance{
		Landscape: l,
		Plan:      p,
		NodeIDs:   make([]int, l.NodeBound()),
		ArcIDs:    make([]int, l.ArcBound()),
		OptionIDs: make([]int, p.NumOptions()),
	}
	for i := range in.NodeIDs {
		in.NodeIDs[i] = i
	}
	for i := range in.ArcIDs {
		in.ArcIDs[i] = i
	}
	for i := range in.OptionIDs {
		in.OptionIDs[i] = i
	}
	return in
}

// Node returns the landscape node with external id id.
func (in *Instance) Node(id int) (landscape.Node, bool) {
	i := slices.Index(in.NodeIDs, id)
	if i < 0 || !in.Landscape.ValidNode(landscape.Node(i)) {
		return landscape.InvalidNode, false
	}
	return landscape.Node(i), true
}

// NodeID returns the external id of u.
func (in *Instance) NodeID(u landscape.Node) int { return lookup(in.NodeIDs, int(u)) }

// ArcID returns the external id of a.
func (in *Instance) ArcID(a landscape.Arc) int { return lookup(in.ArcIDs, int(a)) }

// OptionID returns the external id of o.
func (in *Instance) OptionID(o plan.Option) int { return lookup(in.OptionIDs, int(o)) }

// Elements added after the instance was read keep their internal id.
func lookup(ids []int, i int) int {
	if i >= 0 && i < len(ids) {
		return ids[i]
	}
	return i
}
