package cost

import (
	"slices"

	"gonum.org/v1/gonum/stat"
)

// Summary condenses one sample into the figures shown to the user.
type Summary struct {
	N      int     `json:"n" yaml:"n"`
	Mean   float64 `json:"mean" yaml:"mean"`
	StdDev float64 `json:"std_dev" yaml:"std_dev"`
	P5     float64 `json:"p5" yaml:"p5"`
	P50    float64 `json:"p50" yaml:"p50"`
	P95    float64 `json:"p95" yaml:"p95"`
}

// Summarize returns the mean, standard deviation and empirical 5/50/95th
// percentiles of xs. An empty sample yields the zero Summary.
func Summarize(xs []float64) Summary {
	if len(xs) == 0 {
		return Summary{}
	}
	sorted := slices.Clone(xs)
	slices.Sort(sorted)
	mean, std := stat.MeanStdDev(sorted, nil)
	if len(sorted) == 1 {
		std = 0
	}

	return Summary{
		N:      len(sorted),
		Mean:   mean,
		StdDev: std,
		P5:     stat.Quantile(0.05, stat.Empirical, sorted, nil),
		P50:    stat.Quantile(0.50, stat.Empirical, sorted, nil),
		P95:    stat.Quantile(0.95, stat.Empirical, sorted, nil),
	}
}

// Row is a named summary.
type Row struct {
	Name string `json:"name" yaml:"name"`
	Summary
}

// Summaries lists every element followed by the two aggregates.
func (r *Result) Summaries() []Row {
	rows := make([]Row, 0, len(r.Elements)+2)
	for _, e := range Elements() {
		rows = append(rows, Row{Name: e.String(), Summary: Summarize(r.Elements[e])})
	}

	return append(rows,
		Row{Name: SimulationName, Summary: Summarize(r.Simulation)},
		Row{Name: RoughEstimateName, Summary: Summarize(r.RoughEstimate)},
	)
}
