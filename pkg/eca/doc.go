// Package eca computes the Equivalent Connected Area of a landscape and the
// related per-node flow quantities.
//
// ECA is the square root of the quality-weighted sum of best-path
// probabilities over all ordered pairs of patches, each patch paired with
// itself included. Every function accepts a [landscape.View], so it can be
// evaluated on an editable landscape, a frozen one, or a plan activation
// produced by [plan.Plan.Decorate].
//
// [FlowInto] is the per-target share of the metric: the quality expected to
// reach one patch. It is what the contraction engine preserves.
package eca
