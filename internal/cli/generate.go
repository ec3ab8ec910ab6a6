package cli

import (

	"github.com/spf13/cobra"

	"github.com/matzehuels/corridor/pkg/generate"
	instio "github.com/matzehuels/corridor/pkg/io"
)

// generateCommand creates the generate command.
func (c *CLI) generateCommand() *cobra.Command {
	var (
		cfg    generate.Config
		output string
	)

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Write a random instance",
		Long: `Generate a random landscape with a restoration plan. Qualities are uniform
in [1, 10], probabilities uniform in [0, 1). The same seed always yields the
same instance.`,
		Example: `  corridor generate --nodes 50 --arcs 120 --options 10 -o landscape.json
  corridor generate --symmetric --restore-nodes | corridor validate /dev/stdin`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			l, p, err := generate.Instance(cfg)
			if err != nil {
				return err
			}
			in := instio.NewInstance(l, p)

			if output == "" {
				return instio.WriteInstance(in, stdout)
			}
			if err := instio.ExportInstance(in, output); err != nil {
				return err
			}
			printSuccess("Generated instance")
			printStats(l.NodeCount(), l.ArcCount(), p.NumOptions(), false)
			printFile(output)
			printNextStep("Precompute reductions", "corridor contract "+output)
			return nil
		},
	}

	cmd.Flags().IntVar(&cfg.Nodes, "nodes", 20, "number of nodes")
	cmd.Flags().IntVar(&cfg.Arcs, "arcs", 40, "number of arcs (pairs with --symmetric)")
	cmd.Flags().IntVar(&cfg.Options, "options", 5, "number of restoration options")
	cmd.Flags().Uint64Var(&cfg.Seed, "seed", 42, "random seed")
	cmd.Flags().BoolVar(&cfg.Symmetric, "symmetric", false, "add arcs in both directions")
	cmd.Flags().BoolVar(&cfg.RestoreNodes, "restore-nodes", false, "add quality gains to options")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: stdout)")

	return cmd
}
