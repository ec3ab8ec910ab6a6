package pipeline

import (
	"fmt"

	"github.com/matzehuels/corridor/pkg/contract"
	"github.com/matzehuels/corridor/pkg/errors"
	instio "github.com/matzehuels/corridor/pkg/io"
	"github.com/matzehuels/corridor/pkg/landscape"
	"github.com/matzehuels/corridor/pkg/render/nodelink"
)

// Render draws the full instance, or the reduction for opts.Target when it
// is set, in opts.Format. rs is only consulted when opts.Target is set.
func Render(in *instio.Instance, rs *instio.Results, opts Options) ([]byte, error) {
	if err := opts.ValidateForRender(); err != nil {
		return nil, err
	}
	if opts.Target == nil {
		dot := nodelink.ToDOT(in.Landscape, nodelink.Options{
			Plan:      in.Plan,
			Target:    landscape.InvalidNode,
			Positions: opts.Positions,
			NodeName:  func(u landscape.Node) string { return fmt.Sprint(in.NodeID(u)) },
		})
		return renderDOT(dot, opts)
	}

	t, ok := in.Node(*opts.Target)
	if !ok {
		return nil, errors.New(errors.ErrCodeNotFound, "target node %d does not exist", *opts.Target)
	}
	var res *contract.Result
	if rs != nil {
		res = rs.Targets[t]
	}
	if res == nil {
		return nil, errors.New(errors.ErrCodeNotFound, "no reduction for target node %d", *opts.Target)
	}
	return RenderResult(res, opts)
}

// RenderResult draws one reduced instance with its target highlighted.
// Reduced nodes are named by their dense ids.
func RenderResult(res *contract.Result, opts Options) ([]byte, error) {
	if err := opts.ValidateForRender(); err != nil {
		return nil, err
	}
	dot := nodelink.ToDOT(res.Landscape, nodelink.Options{
		Plan:      res.Plan,
		Target:    res.Target,
		Positions: opts.Positions,
	})
	return renderDOT(dot, opts)
}

func renderDOT(dot string, opts Options) ([]byte, error) {
	var data []byte
	var err error

	switch opts.Format {
	case FormatDOT:
		data = []byte(dot)
	case FormatSVG:
		data, err = nodelink.RenderSVG(dot, opts.Engine)
	case FormatPNG:
		data, err = nodelink.RenderPNG(dot, opts.Engine, 2.0)
	case FormatPDF:
		data, err = nodelink.RenderPDF(dot, opts.Engine)
	default:
		return nil, fmt.Errorf("unsupported format: %s", opts.Format)
	}

	if err != nil {
		return nil, fmt.Errorf("render %s: %w", opts.Format, err)
	}
	return data, nil
}
