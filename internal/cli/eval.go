package cli

import (
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/corridor/pkg/errors"
	"github.com/matzehuels/corridor/pkg/plan"
)

// evalCommand creates the eval command.
func (c *CLI) evalCommand() *cobra.Command {
	var (
		activation string
		workers    int
		noCache    bool
		refresh    bool
	)

	cmd := &cobra.Command{
		Use:   "eval FILE",
		Short: "Compute the ECA of a landscape",
		Long: `Compute the equivalent connected area of a landscape with the restoration
options applied as given by --activation:

  all          every option fully applied (default)
  none         the landscape as it is
  c1,c2,...    one coefficient in [0, 1] per option, in file order`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if refresh && noCache {
				printWarning("--refresh has no effect with --no-cache")
			}
			runner, err := c.newRunner(ctx, noCache)
			if err != nil {
				return err
			}
			defer runner.Close()

			opts := c.pipelineOptions(cmd, workers, 0)
			opts.Refresh = refresh

			in, hash, err := runner.Load(ctx, args[0])
			if err != nil {
				return err
			}
			act, err := parseActivation(activation, in.Plan)
			if err != nil {
				return err
			}

			prog := newProgress(c.Logger)
			value, cached, err := runner.EvaluateWithCacheInfo(ctx, in, hash, act, opts)
			if err != nil {
				return err
			}
			prog.done("Evaluated landscape", "nodes", in.Landscape.NodeCount(), "cached", cached)

			printKeyValue("ECA", StyleNumber.Render(strconv.FormatFloat(value, 'g', 10, 64)))
			printKeyValue("cost", strconv.FormatFloat(act.Cost(in.Plan), 'g', 6, 64))
			printStats(in.Landscape.NodeCount(), in.Landscape.ArcCount(), in.Plan.NumOptions(), cached)
			return nil
		},
	}

	cmd.Flags().StringVarP(&activation, "activation", "a", "all", "option activation: all, none, or comma-separated coefficients")
	cmd.Flags().IntVarP(&workers, "workers", "w", 0, "worker goroutines (0 = all CPUs)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "ignore cached values")

	return cmd
}

// parseActivation parses an --activation value for p.
func parseActivation(s string, p *plan.Plan) (plan.Activation, error) {
	switch strings.TrimSpace(s) {
	case "", "all":
		return plan.Full(p), nil
	case "none":
		return plan.Zero(p), nil
	}

	parts := strings.Split(s, ",")
	act := make(plan.Activation, len(parts))
	for i, part := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidActivation, err, "coefficient %d", i)
		}
		act[i] = v
	}
	if err := act.Validate(p); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidActivation, err, "activation %q", s)
	}
	return act, nil
}
