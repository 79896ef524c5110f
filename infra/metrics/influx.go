package metrics

import (
	"context"
	"math"
	"net/http"
	"strings"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"
	"github.com/influxdata/influxdb-client-go/v2/api/write"

	coremetrics "github.com/kilianp07/failpredict/core/metrics"
	"github.com/kilianp07/failpredict/infra/logger"
)

// InfluxSink writes pipeline runs to an InfluxDB instance using the official client.
type InfluxSink struct {
	client   influxdb2.Client
	writeAPI api.WriteAPIBlocking
	log      logger.Logger
}

// InfluxConfig holds the connection settings of an InfluxSink.
type InfluxConfig struct {
	URL    string `json:"url"`
	Token  string `json:"token"`
	Org    string `json:"org"`
	Bucket string `json:"bucket"`
}

// NewInfluxSink creates a new sink configured for the given InfluxDB endpoint.
func NewInfluxSink(cfg InfluxConfig) *InfluxSink {
	base := strings.TrimSuffix(cfg.URL, "/api/v2/write")
	client := influxdb2.NewClientWithOptions(base, cfg.Token,
		influxdb2.DefaultOptions().SetHTTPClient(&http.Client{Timeout: 5 * time.Second}))
	return &InfluxSink{
		client:   client,
		writeAPI: client.WriteAPIBlocking(cfg.Org, cfg.Bucket),
		log:      logger.New("influx-sink"),
	}
}

// NewInfluxSinkWithFallback pings the InfluxDB instance and returns a
// NopSink if the health check fails.
func NewInfluxSinkWithFallback(cfg InfluxConfig) coremetrics.MetricsSink {
	sink := NewInfluxSink(cfg)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	health, err := sink.client.Health(ctx)
	if err != nil || health.Status != "pass" {
		if err != nil {
			sink.log.Errorf("influx health check error: %v", err)
		} else {
			sink.log.Errorf("influx health status: %s", health.Status)
		}
		sink.client.Close()
		return coremetrics.NopSink{}
	}
	return sink
}

// RecordPredictionRun writes the run as a prediction_run point.
func (s *InfluxSink) RecordPredictionRun(run coremetrics.PredictionRun) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	p := write.NewPointWithMeasurement("prediction_run").
		AddTag("mode", run.Mode).
		AddTag("outcome", run.Outcome).
		AddTag("component", "pipeline")
	if run.Line != "" {
		p = p.AddTag("line", run.Line)
	}
	if run.ModelVersion != "" {
		p = p.AddTag("model_version", run.ModelVersion)
	}
	p = p.AddField("stations", run.Stations).
		AddField("failures", run.Failures).
		AddField("duration_ms", round3(run.Duration.Seconds()*1000)).
		SetTime(run.Time)
	return s.writeAPI.WritePoint(ctx, p)
}

// RecordConversion writes an upload_conversion point.
func (s *InfluxSink) RecordConversion(c coremetrics.Conversion) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	p := write.NewPointWithMeasurement("upload_conversion").
		AddTag("outcome", c.Outcome).
		AddField("input_rows", c.InputRows).
		AddField("pairs", c.Pairs).
		SetTime(c.Time)
	return s.writeAPI.WritePoint(ctx, p)
}

// Close releases the underlying client.
func (s *InfluxSink) Close() { s.client.Close() }

func round3(v float64) float64 { return math.Round(v*1000) / 1000 }
