package reach

import (
	"iter"

	"github.com/matzehuels/corridor/pkg/landscape"
)

// Search enumerates the nodes reachable from a set of sources in order of
// decreasing best-path probability.
//
// The value of a path is the product of its arc weights, so this is
// Dijkstra's algorithm over the (max, ×) semiring. Arcs of weight 0 are
// never relaxed. A Search holds per-node state sized by the view's node
// bound and is reusable: call [Search.Init] between runs.
//
//	s := reach.New(l, nil)
//	for u, p := range s.All(src) {
//		fmt.Println(u, p)
//	}
type Search struct {
	view   landscape.View
	weight []float64
	heap   *Heap[float64]
}

// New creates a search over v. weight, indexed by arc id, overrides the
// view's probabilities when non-nil.
func New(v landscape.View, weight []float64) *Search {
	return &Search{
		view:   v,
		weight: weight,
		heap:   NewHeap(v.NodeBound(), func(a, b float64) bool { return a > b }),
	}
}

// Init clears all state left by a previous run.
func (s *Search) Init() { s.heap.Reset() }

// AddSource seeds the search with u at the given value. Seeding an already
// queued node keeps the larger value.
func (s *Search) AddSource(u landscape.Node, value float64) {
	s.offer(u, value)
}

// Empty reports whether the search is exhausted.
func (s *Search) Empty() bool { return s.heap.Empty() }

// Next settles the best queued node, relaxes its out-arcs and returns it
// with its final value. Next must not be called on an empty search.
func (s *Search) Next() (landscape.Node, float64) {
	u, value := s.heap.Pop()
	for _, a := range s.view.OutArcs(u) {
		w := s.arcWeight(a)
		if w <= 0 {
			continue
		}
		s.offer(s.view.Target(a), value*w)
	}
	return u, value
}

// Peek returns the node Next would settle, without settling it.
func (s *Search) Peek() (landscape.Node, float64) { return s.heap.Top() }

// Reached reports whether u has been settled.
func (s *Search) Reached(u landscape.Node) bool { return s.heap.State(u) == PostHeap }

// Value returns the final value of a settled node, or the tentative value
// of a queued one. It returns 0 for nodes the search has not seen.
func (s *Search) Value(u landscape.Node) float64 {
	if s.heap.State(u) == PreHeap {
		return 0
	}
	return s.heap.Prio(u)
}

// All runs a fresh search from src and yields each reachable node with its
// best-path probability. Stopping the iteration stops the search.
func (s *Search) All(src landscape.Node) iter.Seq2[landscape.Node, float64] {
	return func(yield func(landscape.Node, float64) bool) {
		s.Init()
		s.AddSource(src, 1)
		for !s.Empty() {
			if !yield(s.Next()) {
				return
			}
		}
	}
}

func (s *Search) offer(v landscape.Node, value float64) {
	switch s.heap.State(v) {
	case PreHeap:
		s.heap.Push(v, value)
	case InHeap:
		if value > s.heap.Prio(v) {
			s.heap.Update(v, value)
		}
	}
}

func (s *Search) arcWeight(a landscape.Arc) float64 {
	if s.weight != nil {
		return s.weight[a]
	}
	return s.view.Probability(a)
}
