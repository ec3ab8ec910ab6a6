package io

import (
	"encoding/json"
	"io"
	"os"

	"github.com/matzehuels/corridor/pkg/errors"
	"github.com/matzehuels/corridor/pkg/landscape"
	"github.com/matzehuels/corridor/pkg/plan"
)

// WriteInstance encodes in as indented JSON and writes it to w. Removed
// elements are skipped and every element is written with its external id,
// so the output can be re-imported with [ReadInstance].
func WriteInstance(in *Instance, w io.Writer) error {
	doc := encode(in.Landscape, in.Plan, in.NodeID, in.ArcID, in.OptionID)
	return writeJSON(w, doc)
}

// ExportInstance writes in to a JSON file at path.
// This is a convenience wrapper around [WriteInstance] for file-based output.
func ExportInstance(in *Instance, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "create %s", path)
	}
	defer f.Close()
	return WriteInstance(in, f)
}

func encode(v landscape.View, p *plan.Plan, nodeID func(landscape.Node) int, arcID func(landscape.Arc) int, optionID func(plan.Option) int) document {
	var doc document
	loc, _ := v.(landscape.Locator)
	for _, u := range v.Nodes() {
		n := nodeRecord{ID: nodeID(u), Quality: v.Quality(u)}
		if loc != nil {
			c := loc.Coords(u)
			n.X, n.Y = c.X, c.Y
		}
		doc.Nodes = append(doc.Nodes, n)
	}
	for _, a := range v.Arcs() {
		doc.Arcs = append(doc.Arcs, arcRecord{
			ID:          arcID(a),
			From:        nodeID(v.Source(a)),
			To:          nodeID(v.Target(a)),
			Probability: v.Probability(a),
		})
	}
	for _, o := range p.Options() {
		opt := optionRecord{ID: optionID(o), Cost: p.Cost(o)}
		for _, u := range p.OptionNodes(o) {
			gain, _ := p.QualityGain(o, u)
			opt.Nodes = append(opt.Nodes, nodeEffectRecord{Node: nodeID(u), Gain: gain})
		}
		for _, a := range p.OptionArcs(o) {
			restored, _ := p.RestoredProbability(o, a)
			opt.Arcs = append(opt.Arcs, arcEffectRecord{Arc: arcID(a), Probability: restored})
		}
		doc.Options = append(doc.Options, opt)
	}
	if doc.Nodes == nil {
		doc.Nodes = []nodeRecord{}
	}
	if doc.Arcs == nil {
		doc.Arcs = []arcRecord{}
	}
	return doc
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "encode")
	}
	return nil
}
