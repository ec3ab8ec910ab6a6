package contract

import (
	"github.com/matzehuels/corridor/pkg/landscape"
	"github.com/matzehuels/corridor/pkg/reach"
)

// labeled is a path value tagged with whether the path leaves the search
// source through the arc under test.
type labeled struct {
	value float64
	via   bool
}

// before orders labeled values for the heap: larger value first, and on an
// exact tie the path through the arc under test first.
func before(a, b labeled) bool {
	return a.value > b.value || (a.value == b.value && a.via && !b.via)
}

// labeler is the search state shared by both identifiers. pending counts the
// queued nodes whose current best path goes through the arc under test.
type labeler struct {
	view    landscape.View
	heap    *reach.Heap[labeled]
	pending int
}

func newLabeler(v landscape.View) labeler {
	return labeler{view: v, heap: reach.NewHeap(v.NodeBound(), before)}
}

func (s *labeler) relax(b landscape.Arc, value float64, weight []float64, via bool) {
	if weight[b] <= 0 {
		return
	}
	w := s.view.Target(b)
	next := labeled{value: value * weight[b], via: via}
	switch s.heap.State(w) {
	case reach.PreHeap:
		s.heap.Push(w, next)
		if via {
			s.pending++
		}
	case reach.InHeap:
		old := s.heap.Prio(w)
		if !before(next, old) {
			return
		}
		if via && !old.via {
			s.pending++
		} else if !via && old.via {
			s.pending--
		}
		s.heap.Update(w, next)
	}
}

// StrongIdentifier finds, for an arc u→v, the nodes w such that every best
// path from u to w starts with u→v whatever the activation.
//
// The search runs from u with two weight bounds. Paths through u→v are
// valued pessimistically with the lower bound, every other path
// optimistically with the upper bound. A node settled with a via-label is
// one whose worst route through u→v still beats the best alternative, so the
// arc can be contracted when that node is the target.
//
// An identifier owns its search state and is reused across arcs; it is not
// safe for concurrent use. Create one per worker.
type StrongIdentifier struct {
	labeler
	lower []float64
	upper []float64
}

// NewStrongIdentifier creates an identifier over v. lower and upper are the
// per-arc probability bounds, indexed by arc id.
func NewStrongIdentifier(v landscape.View, lower, upper []float64) *StrongIdentifier {
	return &StrongIdentifier{labeler: newLabeler(v), lower: lower, upper: upper}
}

// Run appends to dst the nodes for which a is strong and returns the
// extended slice. The source of a is never reported.
func (s *StrongIdentifier) Run(a landscape.Arc, dst []landscape.Node) []landscape.Node {
	s.search(a, func(w landscape.Node, via bool) bool {
		if via {
			dst = append(dst, w)
		}
		return true
	})
	return dst
}

// Holds reports whether a is strong for t. It stops as soon as t is
// settled. Contract uses it to recheck a label on the partly reduced
// landscape, where earlier merges may have removed the tied route the
// label relied on.
func (s *StrongIdentifier) Holds(a landscape.Arc, t landscape.Node) bool {
	strong := false
	s.search(a, func(w landscape.Node, via bool) bool {
		if w != t {
			return true
		}
		strong = via
		return false
	})
	return strong
}

// search runs the labeled search for a and calls visit for every node
// settled while a via-label is still queued. It stops when visit returns
// false.
func (s *StrongIdentifier) search(a landscape.Arc, visit func(w landscape.Node, via bool) bool) {
	s.heap.Reset()
	s.pending = 0

	u := s.view.Source(a)
	s.heap.Push(u, labeled{value: 1})
	_, start := s.heap.Pop()

	s.relax(a, start.value, s.lower, true)
	for _, b := range s.view.OutArcs(u) {
		if b != a {
			s.relax(b, start.value, s.upper, false)
		}
	}

	for s.pending > 0 {
		w, l := s.heap.Pop()
		weight := s.upper
		if l.via {
			s.pending--
			weight = s.lower
		}
		if !visit(w, l.via) {
			return
		}
		for _, b := range s.view.OutArcs(w) {
			s.relax(b, l.value, weight, l.via)
		}
	}
}

// UselessIdentifier finds, for an arc u→v, the nodes w such that no best
// path from u to w uses u→v whatever the activation.
//
// It mirrors [StrongIdentifier]: paths through u→v are valued
// optimistically with the upper bound and alternatives pessimistically with
// the lower bound. Nodes settled without a via-label, and nodes the search
// never settles, are useless for the arc. The source of the arc is always
// reported.
type UselessIdentifier struct {
	labeler
	lower []float64
	upper []float64
}

// NewUselessIdentifier creates an identifier over v with the given bounds.
func NewUselessIdentifier(v landscape.View, lower, upper []float64) *UselessIdentifier {
	return &UselessIdentifier{labeler: newLabeler(v), lower: lower, upper: upper}
}

// Run appends to dst the nodes for which a is useless and returns the
// extended slice.
func (s *UselessIdentifier) Run(a landscape.Arc, dst []landscape.Node) []landscape.Node {
	s.heap.Reset()
	s.pending = 0

	u := s.view.Source(a)
	s.heap.Push(u, labeled{value: 1})
	_, start := s.heap.Pop()
	dst = append(dst, u)

	s.relax(a, start.value, s.upper, true)
	for _, b := range s.view.OutArcs(u) {
		if b != a {
			s.relax(b, start.value, s.lower, false)
		}
	}

	for s.pending > 0 {
		w, l := s.heap.Pop()
		if l.via {
			s.pending--
			for _, b := range s.view.OutArcs(w) {
				s.relax(b, l.value, s.upper, true)
			}
			continue
		}
		dst = append(dst, w)
		for _, b := range s.view.OutArcs(w) {
			s.relax(b, l.value, s.lower, false)
		}
	}

	for _, w := range s.view.Nodes() {
		if s.heap.State(w) != reach.PostHeap {
			dst = append(dst, w)
		}
	}
	return dst
}
