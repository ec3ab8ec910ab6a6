package io

import (
	"encoding/json"
	"io"
	"os"

	"github.com/matzehuels/corridor/pkg/errors"
	"github.com/matzehuels/corridor/pkg/landscape"
	"github.com/matzehuels/corridor/pkg/plan"
)

// ReadInstance decodes a JSON instance from r.
//
// The document is checked as a whole before anything is returned: value
// ranges, duplicate ids, arcs or effects referring to unknown ids, and
// restored probabilities that do not improve on their arc are all
// reported, each as a coded *errors.Error. A single violation is returned
// as is; several are returned as an *errors.List.
//
// Node, arc and option ids may be arbitrary integers. Internal ids follow
// document order and the external ids are kept in the returned [Instance].
// ReadInstance does not close r.
func ReadInstance(r io.Reader) (*Instance, error) {
	var doc document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode instance")
	}
	return doc.build()
}

// ImportInstance reads the JSON instance file at path. A missing file is
// reported with ErrCodeFileNotFound.
func ImportInstance(path string) (*Instance, error) {
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "open %s", path)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "open %s", path)
	}
	defer f.Close()
	return ReadInstance(f)
}

func (d *document) build() (*Instance, error) {
	var errs errors.List
	checkStruct(d, &errs)
	if err := errs.Err(); err != nil {
		return nil, err
	}

	in := &Instance{Landscape: landscape.New(), Plan: plan.New()}
	l, p := in.Landscape, in.Plan

	nodes := make(map[int]landscape.Node, len(d.Nodes))
	for _, n := range d.Nodes {
		nodes[n.ID] = l.AddNode(n.Quality, landscape.Point{X: n.X, Y: n.Y})
		in.NodeIDs = append(in.NodeIDs, n.ID)
	}

	arcs := make(map[int]landscape.Arc, len(d.Arcs))
	for _, a := range d.Arcs {
		u, okFrom := nodes[a.From]
		v, okTo := nodes[a.To]
		if !okFrom || !okTo {
			errs.Add(errors.New(errors.ErrCodeDanglingReference, "arc %d: unknown node in %d -> %d", a.ID, a.From, a.To))
			continue
		}
		arcs[a.ID] = l.AddArc(u, v, a.Probability)
		in.ArcIDs = append(in.ArcIDs, a.ID)
	}

	for _, opt := range d.Options {
		o := p.AddOption(opt.Cost)
		in.OptionIDs = append(in.OptionIDs, opt.ID)
		for _, e := range opt.Nodes {
			u, ok := nodes[e.Node]
			if !ok {
				errs.Add(errors.New(errors.ErrCodeDanglingReference, "option %d: unknown node %d", opt.ID, e.Node))
				continue
			}
			p.AddNode(o, u, e.Gain)
		}
		for _, e := range opt.Arcs {
			a, ok := arcs[e.Arc]
			if !ok {
				errs.Add(errors.New(errors.ErrCodeDanglingReference, "option %d: unknown arc %d", opt.ID, e.Arc))
				continue
			}
			if err := errors.ValidateRestoration(opt.ID, e.Arc, l.Probability(a), e.Probability); err != nil {
				errs.Add(err)
				continue
			}
			p.AddArc(o, a, e.Probability)
		}
	}

	if err := errs.Err(); err != nil {
		return nil, err
	}
	return in, nil
}
