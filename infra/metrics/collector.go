package metrics

import (
	"context"
	"errors"
	"sync"

	"github.com/kilianp07/failpredict/core/events"
	"github.com/kilianp07/failpredict/core/lines"
	coremetrics "github.com/kilianp07/failpredict/core/metrics"
	"github.com/kilianp07/failpredict/core/upload"
	"github.com/kilianp07/failpredict/infra/logger"
	"github.com/kilianp07/failpredict/internal/eventbus"
)

// StartEventCollector subscribes to the run and conversion buses and records
// metrics for every event. It stops when the context is canceled or both
// buses are closed; the returned WaitGroup completes once it has stopped.
func StartEventCollector(ctx context.Context, runs *eventbus.Bus[events.RunEvent], convs *eventbus.Bus[events.ConversionEvent], sink coremetrics.MetricsSink) *sync.WaitGroup {
	var wg sync.WaitGroup
	if sink == nil {
		return &wg
	}
	log := logger.New("metrics-collector")
	if runs != nil {
		sub := runs.Subscribe()
		wg.Add(1)
		go func() {
			defer wg.Done()
			defer runs.Unsubscribe(sub)
			for {
				select {
				case <-ctx.Done():
					return
				case ev, ok := <-sub:
					if !ok {
						return
					}
					if err := sink.RecordPredictionRun(RunFromEvent(ev)); err != nil {
						log.Warnf("record run %s: %v", ev.RunID, err)
					}
				}
			}
		}()
	}
	if rec, ok := sink.(coremetrics.ConversionRecorder); ok && convs != nil {
		sub := convs.Subscribe()
		wg.Add(1)
		go func() {
			defer wg.Done()
			defer convs.Unsubscribe(sub)
			for {
				select {
				case <-ctx.Done():
					return
				case ev, ok := <-sub:
					if !ok {
						return
					}
					if err := rec.RecordConversion(ConversionFromEvent(ev)); err != nil {
						log.Warnf("record conversion %s: %v", ev.Filename, err)
					}
				}
			}
		}()
	}
	return &wg
}

// RunFromEvent maps a pipeline event to its metrics record.
func RunFromEvent(ev events.RunEvent) coremetrics.PredictionRun {
	outcome := coremetrics.OutcomeOK
	switch {
	case ev.Err == nil:
	case errors.Is(ev.Err, lines.ErrEmptyResultSet):
		outcome = coremetrics.OutcomeEmpty
	case upload.IsClientError(ev.Err):
		outcome = coremetrics.OutcomeRejected
	default:
		outcome = coremetrics.OutcomeError
	}
	return coremetrics.PredictionRun{
		Mode:         string(ev.Mode),
		Line:         ev.Line,
		Stations:     ev.Stations,
		Failures:     ev.Failures,
		ModelVersion: ev.ModelVersion,
		Duration:     ev.Duration,
		Outcome:      outcome,
		Time:         ev.Time,
	}
}

// ConversionFromEvent maps a conversion event to its metrics record.
func ConversionFromEvent(ev events.ConversionEvent) coremetrics.Conversion {
	outcome := coremetrics.OutcomeOK
	if ev.Err != nil {
		outcome = coremetrics.OutcomeError
		if upload.IsClientError(ev.Err) {
			outcome = coremetrics.OutcomeRejected
		}
	}
	return coremetrics.Conversion{InputRows: ev.InputRows, Pairs: ev.Pairs, Outcome: outcome, Time: ev.Time}
}
