package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func gather(t *testing.T, reg *prometheus.Registry, name string) []*dto.Metric {
	t.Helper()
	families, err := reg.Gather()
	require.NoError(t, err)
	for _, mf := range families {
		if mf.GetName() == name {
			return mf.GetMetric()
		}
	}
	return nil
}

func labelValue(m *dto.Metric, name string) string {
	for _, lp := range m.GetLabel() {
		if lp.GetName() == name {
			return lp.GetValue()
		}
	}
	return ""
}

func TestRecorderCounts(t *testing.T) {
	reg := prometheus.NewRegistry()
	r := NewWithRegistry(reg)

	r.RecordPrediction("mock", false)
	r.RecordPrediction("mock", false)
	r.RecordPrediction("mock", true)
	r.RecordCacheLookup(true)
	r.RecordCacheLookup(false)
	r.RecordCacheLookup(false)
	r.RecordModelLoadFailure()

	preds := gather(t, reg, "baseball_predictions_total")
	require.Len(t, preds, 2)
	for _, m := range preds {
		switch labelValue(m, "cached") {
		case "false":
			assert.Equal(t, 2.0, m.GetCounter().GetValue())
		case "true":
			assert.Equal(t, 1.0, m.GetCounter().GetValue())
		}
	}

	lookups := gather(t, reg, "baseball_cache_lookups_total")
	require.Len(t, lookups, 2)
	for _, m := range lookups {
		if labelValue(m, "result") == "miss" {
			assert.Equal(t, 2.0, m.GetCounter().GetValue())
		}
	}

	failures := gather(t, reg, "baseball_model_load_failures_total")
	require.Len(t, failures, 1)
	assert.Equal(t, 1.0, failures[0].GetCounter().GetValue())
}

func TestSetActiveVariantKeepsSingleSeries(t *testing.T) {
	reg := prometheus.NewRegistry()
	r := NewWithRegistry(reg)
	r.SetActiveVariant("model")
	r.SetActiveVariant("mock")

	series := gather(t, reg, "baseball_predictor_active")
	require.Len(t, series, 1)
	assert.Equal(t, "mock", labelValue(series[0], "variant"))
	assert.Equal(t, 1.0, series[0].GetGauge().GetValue())
}
