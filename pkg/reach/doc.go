// Package reach provides the reachability primitives of corridor: an indexed
// heap with decrease-key, a best-path-probability search, and plain
// breadth-first sweeps.
//
// [Search] is the workhorse of the metric. Started at a node it yields every
// reachable node together with the largest product of arc probabilities over
// any path, largest first:
//
//	s := reach.New(l, nil)
//	for v, p := range s.All(src) {
//		if p < 0.01 {
//			break
//		}
//		total += l.Quality(v) * p
//	}
//
// The contraction engine runs its own labeled searches on top of [Heap], and
// uses [Forward] and [Backward] to prune nodes that can no longer contribute.
package reach
