package reach

import (
	"container/heap"
	"fmt"

	"github.com/matzehuels/corridor/pkg/landscape"
)

// State tracks where a node is in its heap lifecycle.
type State uint8

const (
	// PreHeap nodes have never been pushed since the last reset.
	PreHeap State = iota
	// InHeap nodes are queued with a tentative priority.
	InHeap
	// PostHeap nodes have been popped; their priority is final.
	PostHeap
)

// Heap is an indexed binary heap over node ids with decrease-key.
//
// Priorities are ordered by the before function given to [NewHeap]: the node
// whose priority comes first is popped first. Per-node state is kept in dense
// slices sized by the node bound, and [Heap.Reset] only touches the nodes
// pushed since the previous reset, so a heap can be reused across many
// searches over the same graph.
type Heap[P any] struct {
	before  func(a, b P) bool
	items   []landscape.Node
	index   []int
	prio    []P
	state   []State
	touched []landscape.Node
}

// NewHeap creates a heap for node ids in [0, bound).
func NewHeap[P any](bound int, before func(a, b P) bool) *Heap[P] {
	h := &Heap[P]{
		before: before,
		index:  make([]int, bound),
		prio:   make([]P, bound),
		state:  make([]State, bound),
	}
	for i := range h.index {
		h.index[i] = -1
	}
	return h
}

// Len returns the number of queued nodes.
func (h *Heap[P]) Len() int { return len(h.items) }

// Empty reports whether no node is queued.
func (h *Heap[P]) Empty() bool { return len(h.items) == 0 }

// State returns the lifecycle state of u.
func (h *Heap[P]) State(u landscape.Node) State { return h.state[u] }

// Prio returns the current priority of u. It is only meaningful once u has
// been pushed.
func (h *Heap[P]) Prio(u landscape.Node) P { return h.prio[u] }

// Top returns the next node to be popped without removing it.
func (h *Heap[P]) Top() (landscape.Node, P) {
	u := h.items[0]
	return u, h.prio[u]
}

// Push queues u with priority p. u must be in [PreHeap] state.
func (h *Heap[P]) Push(u landscape.Node, p P) {
	if h.state[u] != PreHeap {
		panic(fmt.Sprintf("reach: push of node %d in state %d", u, h.state[u]))
	}
	h.prio[u] = p
	h.state[u] = InHeap
	h.touched = append(h.touched, u)
	heap.Push(queue[P]{h}, u)
}

// Pop removes and returns the first node. Its state becomes [PostHeap].
func (h *Heap[P]) Pop() (landscape.Node, P) {
	u := heap.Pop(queue[P]{h}).(landscape.Node)
	h.state[u] = PostHeap
	return u, h.prio[u]
}

// Update replaces the priority of a queued node and restores heap order.
func (h *Heap[P]) Update(u landscape.Node, p P) {
	if h.state[u] != InHeap {
		panic(fmt.Sprintf("reach: update of node %d in state %d", u, h.state[u]))
	}
	h.prio[u] = p
	heap.Fix(queue[P]{h}, h.index[u])
}

// Reset empties the heap and returns every touched node to [PreHeap].
func (h *Heap[P]) Reset() {
	for _, u := range h.touched {
		h.state[u] = PreHeap
		h.index[u] = -1
	}
	h.touched = h.touched[:0]
	h.items = h.items[:0]
}

// Touched returns the nodes pushed since the last reset, in push order.
// The slice is owned by the heap.
func (h *Heap[P]) Touched() []landscape.Node { return h.touched }

// queue adapts Heap to container/heap without exposing its methods.
type queue[P any] struct{ h *Heap[P] }

func (q queue[P]) Len() int { return len(q.h.items) }

func (q queue[P]) Less(i, j int) bool {
	return q.h.before(q.h.prio[q.h.items[i]], q.h.prio[q.h.items[j]])
}

func (q queue[P]) Swap(i, j int) {
	items := q.h.items
	items[i], items[j] = items[j], items[i]
	q.h.index[items[i]] = i
	q.h.index[items[j]] = j
}

func (q queue[P]) Push(x any) {
	u := x.(landscape.Node)
	q.h.index[u] = len(q.h.items)
	q.h.items = append(q.h.items, u)
}

func (q queue[P]) Pop() any {
	n := len(q.h.items) - 1
	u := q.h.items[n]
	q.h.items = q.h.items[:n]
	q.h.index[u] = -1
	return u
}
