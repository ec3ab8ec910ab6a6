package cli

import (
	"fmt"
	"maps"
	"slices"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/corridor/pkg/contract"
	instio "github.com/matzehuels/corridor/pkg/io"
	"github.com/matzehuels/corridor/pkg/landscape"
)

// maxTableRows bounds the rows printed for large precomputations.
const maxTableRows = 40

// reductionRows returns one row per target in ascending external id order.
func reductionRows(in *instio.Instance, targets map[landscape.Node]*contract.Result) [][]string {
	nodes := slices.SortedFunc(maps.Keys(targets), func(a, b landscape.Node) int {
		return in.NodeID(a) - in.NodeID(b)
	})
	rows := make([][]string, 0, len(nodes))
	for _, t := range nodes {
		s := targets[t].Stats
		rows = append(rows, []string{
			fmt.Sprint(in.NodeID(t)),
			fmt.Sprintf("%d → %d", s.NodesBefore, s.NodesAfter),
			fmt.Sprintf("%d → %d", s.ArcsBefore, s.ArcsAfter),
			fmt.Sprint(s.UselessArcsRemoved),
			fmt.Sprint(s.ArcsContracted),
			fmt.Sprint(s.ParallelArcsMerged),
			fmt.Sprint(s.UnreachableRemoved + s.NoFlowNodesRemoved),
		})
	}
	return rows
}

// renderReductionTable renders per-target reductions as a table. Rows past
// maxTableRows are summarized in a final row.
func renderReductionTable(in *instio.Instance, targets map[landscape.Node]*contract.Result) string {
	rows := reductionRows(in, targets)
	if len(rows) > maxTableRows {
		hidden := len(rows) - maxTableRows
		rows = append(rows[:maxTableRows], []string{"…", fmt.Sprintf("%d more", hidden), "", "", "", "", ""})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	cellStyle := lipgloss.NewStyle().Padding(0, 1)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Target", "Nodes", "Arcs", "Useless", "Contracted", "Merged", "Pruned").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle.Padding(0, 1)
			}
			if col == 0 {
				return cellStyle.Foreground(colorCyan)
			}
			return cellStyle.Foreground(colorWhite)
		})
	return t.Render()
}
