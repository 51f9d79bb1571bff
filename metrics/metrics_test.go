package metrics

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRegistry(t *testing.T) {
	r := NewRegistry()
	require.NotNil(t, r.registry)
	assert.NotNil(t, r.GraphEditsTotal)
	assert.NotNil(t, r.StageDuration)
	assert.Same(t, r.registry, r.GetPrometheusRegistry())
}

func TestRecord(t *testing.T) {
	r := NewRegistry()

	r.RecordGraphEdit("edge_added", nil)
	r.RecordGraphEdit("edge_added", errors.New("cycle"))
	r.RecordGraphEdit("edge_added", nil)
	assert.Equal(t, 2.0, testutil.ToFloat64(r.GraphEditsTotal.WithLabelValues("edge_added", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.GraphEditsTotal.WithLabelValues("edge_added", "rejected")))

	r.SetGraphSize(5, 4)
	assert.Equal(t, 4.0, testutil.ToFloat64(r.GraphEdges))

	r.RecordRun("success", 1000)
	r.RecordRun("failure", 0)
	assert.Equal(t, 1000.0, testutil.ToFloat64(r.SampleSize))

	r.RecordWarnings("prices", 0)
	r.RecordWarnings("prices", 2)
	assert.Equal(t, 2.0, testutil.ToFloat64(r.WarningsTotal.WithLabelValues("prices")))

	r.RecordStage("sampling", 20*time.Millisecond)
	assert.Equal(t, 1, testutil.CollectAndCount(r.StageDuration))

	var buf bytes.Buffer
	require.NoError(t, r.WriteText(&buf))
	assert.Contains(t, buf.String(), `pavecost_runs_total{outcome="success"} 1`)
}
