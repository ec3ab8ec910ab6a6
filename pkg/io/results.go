package io

import (
	"encoding/json"
	"io"
	"maps"
	"slices"

	"github.com/matzehuels/corridor/pkg/contract"
	"github.com/matzehuels/corridor/pkg/errors"
	"github.com/matzehuels/corridor/pkg/landscape"
	"github.com/matzehuels/corridor/pkg/plan"
)

// Results is a set of contraction results for one instance, keyed by target
// node of that instance.
type Results struct {
	RunID   string
	Targets map[landscape.Node]*contract.Result
}

// WriteResults encodes rs as JSON. Targets are written with their external
// ids in in and in ascending order; each reduced instance is written in its
// own dense ids.
func WriteResults(in *Instance, rs *Results, w io.Writer) error {
	out := resultsDocument{RunID: rs.RunID, Results: []resultRecord{}}
	for _, t := range slices.Sorted(maps.Keys(rs.Targets)) {
		r := rs.Targets[t]
		out.Results = append(out.Results, resultRecord{
			Target:  in.NodeID(t),
			Reduced: encode(r.Landscape, r.Plan, identity[landscape.Node], identity[landscape.Arc], identity[plan.Option]),
			Node:    int(r.Target),
			Stats:   r.Stats,
		})
	}
	return writeJSON(w, out)
}

// ReadResults decodes results written by [WriteResults] for in. Targets
// that in does not know are reported with ErrCodeDanglingReference.
func ReadResults(in *Instance, r io.Reader) (*Results, error) {
	var doc resultsDocument
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode results")
	}

	rs := &Results{RunID: doc.RunID, Targets: make(map[landscape.Node]*contract.Result, len(doc.Results))}
	for _, rec := range doc.Results {
		t, ok := in.Node(rec.Target)
		if !ok {
			return nil, errors.New(errors.ErrCodeDanglingReference, "result for unknown target %d", rec.Target)
		}
		reduced, err := rec.Reduced.build()
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "result for target %d", rec.Target)
		}
		u, ok := reduced.Node(rec.Node)
		if !ok {
			return nil, errors.New(errors.ErrCodeDanglingReference, "result for target %d: unknown node %d", rec.Target, rec.Node)
		}
		s, refs := landscape.Build(reduced.Landscape)
		rs.Targets[t] = &contract.Result{
			Landscape: s,
			Plan:      reduced.Plan.Copy(refs),
			Target:    refs.Node(u),
			Stats:     rec.Stats,
		}
	}
	return rs, nil
}

func identity[T ~int](v T) int { return int(v) }
