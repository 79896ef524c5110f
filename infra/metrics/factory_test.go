package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/kilianp07/failpredict/core/factory"
	coremetrics "github.com/kilianp07/failpredict/core/metrics"
)

func TestBuiltinSinks(t *testing.T) {
	s, err := coremetrics.NewMetricsSink([]factory.ModuleConfig{{Type: "nop"}})
	if err != nil {
		t.Fatalf("nop sink: %v", err)
	}
	if _, ok := s.(coremetrics.NopSink); !ok {
		t.Fatalf("expected NopSink got %T", s)
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()
	s, err = coremetrics.NewMetricsSink([]factory.ModuleConfig{
		{Type: "prometheus"},
		{Type: "influx", Conf: map[string]any{"url": srv.URL, "org": "o", "bucket": "b"}},
	})
	if err != nil {
		t.Fatalf("multi sink: %v", err)
	}
	multi, ok := s.(*coremetrics.MultiSink)
	if !ok {
		t.Fatalf("expected MultiSink got %T", s)
	}
	if _, ok := multi.Sinks[0].(*PromSink); !ok {
		t.Fatalf("expected PromSink first got %T", multi.Sinks[0])
	}
	if _, ok := multi.Sinks[1].(coremetrics.NopSink); !ok {
		t.Fatalf("expected influx fallback to NopSink got %T", multi.Sinks[1])
	}
}
