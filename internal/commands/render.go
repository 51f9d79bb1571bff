package commands

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/katalvlaran/pavecost/core"
	"github.com/katalvlaran/pavecost/cost"
	"github.com/katalvlaran/pavecost/matrix"
)

var (
	titleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("cyan")).Bold(true)
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	numberStyle = cellStyle.Align(lipgloss.Right)
	totalStyle  = numberStyle.Bold(true)
	warnStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("yellow"))
	borderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

// newTable returns a bordered table; columns from firstNumeric on are
// right-aligned.
func newTable(firstNumeric int, headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(borderStyle).
		Headers(headers...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case col >= firstNumeric:
				return numberStyle
			default:
				return cellStyle
			}
		})
}

func title(w io.Writer, s string) {
	fmt.Fprintln(w, titleStyle.Render(s))
}

func warnings(w io.Writer, errs []error) {
	for _, err := range errs {
		fmt.Fprintln(w, warnStyle.Render("! "+err.Error()))
	}
}

// money formats euros with thousands separators.
func money(v float64) string {
	neg := v < 0
	if neg {
		v = -v
	}
	s := strconv.FormatFloat(v, 'f', 0, 64)
	var b strings.Builder
	for i, r := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	if neg {
		return "-" + b.String()
	}

	return b.String()
}

func corr(v float64) string { return strconv.FormatFloat(v, 'f', 3, 64) }

func floats(xs []float64) string {
	parts := make([]string, len(xs))
	for i, x := range xs {
		parts[i] = strconv.FormatFloat(x, 'g', 6, 64)
	}

	return strings.Join(parts, ", ")
}

// renderSummary prints the element and aggregate summaries of one run.
func renderSummary(w io.Writer, res *cost.Result) {
	rows := res.Summaries()
	t := newTable(1, "Element", "Mean", "Std dev", "P5", "P50", "P95")
	totals := 0
	for _, r := range rows {
		t.Row(r.Name, money(r.Mean), money(r.StdDev), money(r.P5), money(r.P50), money(r.P95))
		if r.Name == cost.SimulationName || r.Name == cost.RoughEstimateName {
			totals++
		}
	}
	first := len(rows) - totals
	t.StyleFunc(func(row, col int) lipgloss.Style {
		switch {
		case row == table.HeaderRow:
			return headerStyle
		case col == 0:
			return cellStyle
		case row >= first:
			return totalStyle
		default:
			return numberStyle
		}
	})
	fmt.Fprintln(w, t.Render())
	fmt.Fprintf(w, "run %s, %d draws, correction factors runway %.3f taxiway %.3f apron %.3f airfield %.3f\n",
		res.RunID, res.N, res.Factors.Runway, res.Factors.Taxiway, res.Factors.Apron, res.Factors.Airfield)
}

func renderNodes(w io.Writer, nodes []core.Node) {
	t := newTable(6, "#", "Node", "Distribution", "Small", "Large", "Condition")
	for i, nd := range nodes {
		t.Row(strconv.Itoa(i), nd.Name, nd.Distribution.String(), floats(nd.ParamsSmall), floats(nd.ParamsLarge), nd.Condition)
	}
	fmt.Fprintln(w, t.Render())
}

func renderEdges(w io.Writer, rows []core.EdgeRow) {
	t := newTable(2, "#", "Edge", "Conditional", "Observed", "Low", "High")
	for _, r := range rows {
		t.Row(strconv.Itoa(r.Index), r.Label, corr(r.CondRankCorr), corr(r.RankCorr), corr(r.Low), corr(r.High))
	}
	fmt.Fprintln(w, t.Render())
}

func renderMatrix(w io.Writer, names []string, m *matrix.Dense) {
	if m == nil || m.IsEmpty() {
		fmt.Fprintln(w, "(empty network)")
		return
	}
	t := newTable(1, append([]string{""}, names...)...)
	for i, values := range m.RawRows() {
		row := []string{names[i]}
		for _, v := range values {
			row = append(row, corr(v))
		}
		t.Row(row...)
	}
	fmt.Fprintln(w, t.Render())
}
