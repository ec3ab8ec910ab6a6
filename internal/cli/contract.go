package cli

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	instio "github.com/matzehuels/corridor/pkg/io"
)

// contractCommand creates the contract command.
func (c *CLI) contractCommand() *cobra.Command {
	var (
		targets   []int
		workers   int
		verify    int
		tolerance float64
		seed      uint64
		output    string
		noCache   bool
		refresh   bool
	)

	cmd := &cobra.Command{
		Use:   "contract FILE",
		Short: "Precompute reduced landscapes for each target",
		Long: `Precompute, for every target patch, a reduced landscape and plan that give
the same flow into the target as the full instance for any activation.

With --verify n, each reduction is checked against the full instance on the
zero and full activations plus n random ones.`,
		Example: `  corridor contract landscape.json
  corridor contract landscape.json --targets 3,7 --verify 20
  corridor contract landscape.json -o reductions.json`,
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

			opts := c.pipelineOptions(cmd, workers, tolerance)
			opts.Targets = targets
			opts.Verify = verify
			opts.Seed = seed
			opts.Refresh = refresh

			spinner := newSpinnerWithContext(ctx, "Contracting landscape...")
			opts.Progress = spinner.Progress
			spinner.Start()
			result, err := runner.Execute(ctx, args[0], opts)
			if err != nil {
				spinner.StopWithError("Contraction failed")
				return err
			}
			spinner.Stop()

			in := result.Instance
			printSuccess("Reduced %d targets", len(result.Targets))
			printStats(result.Stats.NodeCount, result.Stats.ArcCount, result.Stats.OptionCount, result.CacheInfo.ContractHit)
			printKeyValue("ECA", StyleNumber.Render(strconv.FormatFloat(result.ECA, 'g', 10, 64)))
			printKeyValue("run", StyleDim.Render(result.RunID))
			if v := result.Verification; v != nil {
				printKeyValue("verified", fmt.Sprintf("%d checks, max error %.3g", v.Checks, v.MaxError))
			}
			printNewline()
			fmt.Fprintln(stdout, renderReductionTable(in, result.Targets))

			if output != "" {
				if err := writeResults(output, in, &instio.Results{RunID: result.RunID, Targets: result.Targets}); err != nil {
					return err
				}
				printFile(output)
			}
			return nil
		},
	}

	cmd.Flags().IntSliceVarP(&targets, "targets", "t", nil, "target node ids (default: all nodes)")
	cmd.Flags().IntVarP(&workers, "workers", "w", 0, "worker goroutines (0 = all CPUs)")
	cmd.Flags().IntVar(&verify, "verify", 0, "random activations checked per target (0 = no check)")
	cmd.Flags().Float64Var(&tolerance, "tolerance", 0, "accepted relative flow difference during verification")
	cmd.Flags().Uint64Var(&seed, "seed", 0, "seed for verification activations")
	cmd.Flags().StringVarP(&output, "output", "o", "", "write reductions as JSON to this file")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "recompute even if cached")

	return cmd
}

func writeResults(path string, in *instio.Instance, rs *instio.Results) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := instio.WriteResults(in, rs, f); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}
