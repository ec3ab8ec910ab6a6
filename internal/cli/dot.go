package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	instio "github.com/matzehuels/corridor/pkg/io"
	"github.com/matzehuels/corridor/pkg/pipeline"
	"github.com/matzehuels/corridor/pkg/render/nodelink"
)

// dotCommand creates the dot command.
func (c *CLI) dotCommand() *cobra.Command {
	var (
		target    int
		output    string
		engine    string
		positions bool
		noCache   bool
	)

	cmd := &cobra.Command{
		Use:   "dot FILE",
		Short: "Render a landscape as a diagram",
		Long: `Render a landscape as a node-link diagram. With --target, the reduced
landscape for that node is rendered instead, with the target highlighted.

The output format follows the extension of --output: .dot, .svg, .png or .pdf.
Without --output, DOT is written to stdout.`,
		Example: `  corridor dot landscape.json -o landscape.svg
  corridor dot landscape.json --target 4 -o reduced.svg
  corridor dot landscape.json --positions -o map.png`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			runner, err := c.newRunner(ctx, noCache)
			if err != nil {
				return err
			}
			defer runner.Close()

			opts := c.pipelineOptions(cmd, 0, 0)
			opts.Format = formatFromPath(output)
			opts.Engine = nodelink.Engine(engine)
			opts.Positions = positions
			if err := opts.ValidateForRender(); err != nil {
				return err
			}

			in, hash, err := runner.Load(ctx, args[0])
			if err != nil {
				return err
			}

			var rs *instio.Results
			if cmd.Flags().Changed("target") {
				opts.Target = &target
				opts.Targets = []int{target}
				if rs, err = runner.Contract(ctx, in, hash, opts); err != nil {
					return err
				}
			}

			data, err := pipeline.Render(in, rs, opts)
			if err != nil {
				return err
			}

			if output == "" {
				_, err := stdout.Write(data)
				return err
			}
			if err := os.WriteFile(output, data, 0644); err != nil {
				return fmt.Errorf("write %s: %w", output, err)
			}
			printSuccess("Rendered %s", strings.ToUpper(opts.Format))
			printFile(output)
			return nil
		},
	}

	cmd.Flags().IntVarP(&target, "target", "t", 0, "render the reduction for this node id")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file; format from extension (default: DOT to stdout)")
	cmd.Flags().StringVar(&engine, "engine", "", "layout engine: dot or neato (default: neato with --positions)")
	cmd.Flags().BoolVar(&positions, "positions", false, "pin nodes at their coordinates")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}

// formatFromPath maps an output path to a render format. No path means DOT.
func formatFromPath(path string) string {
	if path == "" {
		return pipeline.FormatDOT
	}
	return strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
}
