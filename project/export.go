package project

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/golang/snappy"

	"github.com/katalvlaran/pavecost/core"
	"github.com/katalvlaran/pavecost/matrix"
)

// ErrMalformedArchive is returned when a sample archive cannot be read back.
var ErrMalformedArchive = errors.New("project: malformed sample archive")

func ftoa(v float64) string { return strconv.FormatFloat(v, 'g', -1, 64) }

func joinFloats(xs []float64) string {
	parts := make([]string, len(xs))
	for i, v := range xs {
		parts[i] = ftoa(v)
	}

	return strings.Join(parts, " ")
}

// WriteMatrixCSV writes a labelled square matrix: a header row of names and
// one row per name.
func WriteMatrixCSV(w io.Writer, names []string, m *matrix.Dense) error {
	if m == nil {
		return matrix.ErrNilMatrix
	}
	if m.Rows() != len(names) || m.Cols() != len(names) {
		return fmt.Errorf("project: %d names for a %dx%d matrix: %w", len(names), m.Rows(), m.Cols(), matrix.ErrDimensionMismatch)
	}
	cw := csv.NewWriter(w)
	if err := cw.Write(append([]string{""}, names...)); err != nil {
		return err
	}
	for i, values := range m.RawRows() {
		row := make([]string, 0, len(names)+1)
		row = append(row, names[i])
		for _, v := range values {
			row = append(row, ftoa(v))
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()

	return cw.Error()
}

// WriteNodesCSV writes one row per node. Parameter tuples are space separated.
func WriteNodesCSV(w io.Writer, nodes []core.Node) error {
	cw := csv.NewWriter(w)
	_ = cw.Write([]string{"name", "distribution", "params_small", "params_large", "condition", "x", "y"})
	for _, nd := range nodes {
		_ = cw.Write([]string{
			nd.Name, nd.Distribution.String(),
			joinFloats(nd.ParamsSmall), joinFloats(nd.ParamsLarge),
			nd.Condition, ftoa(nd.X), ftoa(nd.Y),
		})
	}
	cw.Flush()

	return cw.Error()
}

// WriteEdgesCSV writes the flattened edge overview.
func WriteEdgesCSV(w io.Writer, rows []core.EdgeRow) error {
	cw := csv.NewWriter(w)
	_ = cw.Write([]string{"index", "parent", "child", "parent_pos", "rank_corr", "cond_rank_corr", "low", "high"})
	for _, r := range rows {
		_ = cw.Write([]string{
			strconv.Itoa(r.Index), r.Parent, r.Child, strconv.Itoa(r.ParentPos),
			ftoa(r.RankCorr), ftoa(r.CondRankCorr), ftoa(r.Low), ftoa(r.High),
		})
	}
	cw.Flush()

	return cw.Error()
}

// WriteSampleArchive writes the columns as CSV, one sample per row, through
// a snappy stream. Columns must all have the same length.
func WriteSampleArchive(w io.Writer, columns []string, data map[string][]float64) error {
	n := -1
	for _, c := range columns {
		col, ok := data[c]
		if !ok {
			return fmt.Errorf("project: archive column %q missing", c)
		}
		if n >= 0 && len(col) != n {
			return fmt.Errorf("project: archive column %q has %d values, want %d", c, len(col), n)
		}
		n = len(col)
	}

	sw := snappy.NewBufferedWriter(w)
	cw := csv.NewWriter(sw)
	if err := cw.Write(columns); err != nil {
		return err
	}
	row := make([]string, len(columns))
	for i := 0; i < n; i++ {
		for j, c := range columns {
			row[j] = ftoa(data[c][i])
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return err
	}

	return sw.Close()
}

// ReadSampleArchive reads back an archive written by WriteSampleArchive.
func ReadSampleArchive(r io.Reader) ([]string, map[string][]float64, error) {
	cr := csv.NewReader(snappy.NewReader(r))
	records, err := cr.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrMalformedArchive, err)
	}
	if len(records) == 0 {
		return nil, nil, fmt.Errorf("%w: no header", ErrMalformedArchive)
	}
	columns := records[0]
	data := make(map[string][]float64, len(columns))
	for _, c := range columns {
		data[c] = make([]float64, 0, len(records)-1)
	}
	for line, rec := range records[1:] {
		for j, s := range rec {
			v, err := strconv.ParseFloat(s, 64)
			if err != nil {
				return nil, nil, fmt.Errorf("%w: row %d column %q: %v", ErrMalformedArchive, line+1, columns[j], err)
			}
			data[columns[j]] = append(data[columns[j]], v)
		}
	}

	return columns, data, nil
}
