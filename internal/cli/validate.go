package cli

import (
	stderrors "errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/corridor/pkg/errors"
	instio "github.com/matzehuels/corridor/pkg/io"
)

// validateCommand creates the validate command.
func (c *CLI) validateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate FILE",
		Short: "Check an instance file",
		Long:  `Check an instance file and report every problem found, one per line.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in, err := instio.ImportInstance(args[0])
			if err == nil {
				err = instio.Validate(in)
			}
			if err != nil {
				return fmt.Errorf("%s: %d problem(s)", args[0], reportProblems(err))
			}
			printSuccess("%s is valid", args[0])
			printStats(in.Landscape.NodeCount(), in.Landscape.ArcCount(), in.Plan.NumOptions(), false)
			return nil
		},
	}
}

// reportProblems prints each collected error with its code and returns the count.
func reportProblems(err error) int {
	var list *errors.List
	if !stderrors.As(err, &list) {
		printError("%s %s", StyleDim.Render(string(errors.GetCode(err))), errors.UserMessage(err))
		return 1
	}
	for _, e := range list.Errors {
		printError("%s %s", StyleDim.Render(string(e.Code)), e.Message)
	}
	return len(list.Errors)
}
