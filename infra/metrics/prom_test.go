package metrics

import (
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	coremetrics "github.com/kilianp07/failpredict/core/metrics"
)

func TestPromSink_RecordPredictionRun(t *testing.T) {
	reg := prometheus.NewRegistry()
	sink, err := NewPromSinkWithRegistry(reg)
	if err != nil {
		t.Fatalf("create sink: %v", err)
	}
	if err := sink.RecordPredictionRun(coremetrics.PredictionRun{
		Mode:     "precomputed",
		Line:     "LA01",
		Stations: 4,
		Failures: 1,
		Duration: 20 * time.Millisecond,
		Outcome:  coremetrics.OutcomeOK,
	}); err != nil {
		t.Fatalf("record error: %v", err)
	}

	expected := `
# HELP failpredict_runs_total Total number of prediction pipeline runs
# TYPE failpredict_runs_total counter
failpredict_runs_total{mode="precomputed",outcome="ok"} 1
`
	if err := testutil.CollectAndCompare(sink.runs, strings.NewReader(expected)); err != nil {
		t.Errorf("unexpected metrics: %v", err)
	}
	if v := testutil.ToFloat64(sink.failures.WithLabelValues("LA01")); v != 1 {
		t.Errorf("expected 1 failure got %v", v)
	}
	if v := testutil.ToFloat64(sink.stations.WithLabelValues("LA01")); v != 4 {
		t.Errorf("expected 4 stations got %v", v)
	}
	if c := testutil.CollectAndCount(sink.duration); c == 0 {
		t.Errorf("duration not recorded")
	}
}

func TestPromSink_RecordConversion(t *testing.T) {
	reg := prometheus.NewRegistry()
	sink, err := NewPromSinkWithRegistry(reg)
	if err != nil {
		t.Fatalf("create sink: %v", err)
	}
	_ = sink.RecordConversion(coremetrics.Conversion{Pairs: 3, Outcome: coremetrics.OutcomeOK})
	_ = sink.RecordConversion(coremetrics.Conversion{Outcome: coremetrics.OutcomeRejected})
	if v := testutil.ToFloat64(sink.conversions.WithLabelValues("rejected")); v != 1 {
		t.Errorf("expected 1 rejected conversion got %v", v)
	}
	if c := testutil.CollectAndCount(sink.pairs); c != 1 {
		t.Errorf("expected pairs histogram got %d", c)
	}
}

func TestPromSink_SharedRegistry(t *testing.T) {
	reg := prometheus.NewRegistry()
	s1, err := NewPromSinkWithRegistry(reg)
	if err != nil {
		t.Fatalf("first sink: %v", err)
	}
	s2, err := NewPromSinkWithRegistry(reg)
	if err != nil {
		t.Fatalf("second sink: %v", err)
	}
	_ = s1.RecordPredictionRun(coremetrics.PredictionRun{Mode: "upload", Outcome: coremetrics.OutcomeOK})
	_ = s2.RecordPredictionRun(coremetrics.PredictionRun{Mode: "upload", Outcome: coremetrics.OutcomeOK})
	if v := testutil.ToFloat64(s2.runs.WithLabelValues("upload", "ok")); v != 2 {
		t.Errorf("expected shared counter value 2 got %v", v)
	}
}
