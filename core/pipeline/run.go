package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"

	"github.com/kilianp07/failpredict/core/events"
	"github.com/kilianp07/failpredict/core/lines"
	"github.com/kilianp07/failpredict/core/model"
	"github.com/kilianp07/failpredict/core/prediction"
	"github.com/kilianp07/failpredict/core/runlog"
	"github.com/kilianp07/failpredict/core/upload"
)

// Result is the outcome of the pre-computed pipeline for one line.
type Result struct {
	RunID        string
	Line         string
	Date         time.Time
	Rows         []model.Row
	Summary      model.Summary
	ModelVersion string
	// Empty is set when no station of the line is dated for the target day.
	Empty bool
}

// UploadResult is the outcome of the upload pipeline.
type UploadResult struct {
	RunID        string
	Filename     string
	Date         time.Time
	Records      []model.StationRecord
	Rows         []model.Row
	Summary      model.Summary
	ModelVersion string
}

// Lines returns the distinct production lines of a fresh read of the
// station table.
func (c *Context) Lines(ctx context.Context) ([]string, error) {
	recs, err := c.Source.Load(ctx)
	if err != nil {
		c.monitor().CaptureException(err, map[string]string{"pipeline": "lines"})
		return nil, err
	}
	return lines.Distinct(recs), nil
}

// Precomputed reloads the station table, predicts every row, keeps the
// stations of line dated for the latest day in the table and publishes the
// outcome.
func (c *Context) Precomputed(ctx context.Context, line string) (Result, error) {
	start := c.now()
	res := Result{RunID: c.newID(), Line: line, ModelVersion: c.Model.Version()}
	rec := runlog.RunRecord{
		ID:           res.RunID,
		Timestamp:    start,
		Mode:         string(events.ModePrecomputed),
		Line:         line,
		Source:       c.Source.Describe(),
		ModelVersion: res.ModelVersion,
	}

	err := c.precomputed(ctx, line, &res)
	var evErr error
	switch {
	case errors.Is(err, lines.ErrEmptyResultSet):
		res.Empty = true
		res.Rows = []model.Row{}
		res.Summary = model.Summary{Line: line, Date: res.Date}
		evErr, err = err, nil
	case err != nil:
		evErr = err
	}
	rec.Date = res.Date
	rec.Stations = res.Summary.Stations
	rec.Failures = res.Summary.Failures
	rec.FailingStations = failing(res.Rows)
	c.finish(ctx, rec, res.Summary, res.Rows, evErr, start)
	if err != nil {
		return Result{}, err
	}
	return res, nil
}

func (c *Context) precomputed(ctx context.Context, line string, res *Result) error {
	if line == "" {
		return ErrLineRequired
	}
	recs, err := c.Source.Load(ctx)
	if err != nil {
		return fmt.Errorf("load station table: %w", err)
	}
	date, ok := lines.TargetDate(recs)
	if !ok {
		return lines.ErrEmptyResultSet
	}
	res.Date = date
	results, err := prediction.Predict(ctx, c.Model, recs)
	if err != nil {
		return err
	}
	rows, err := lines.Filter(results, line, date)
	if err != nil {
		return err
	}
	res.Rows = rows
	res.Summary = lines.Summarize(line, date, rows)
	return nil
}

// Upload parses a dispatch-history export, converts it to station records
// dated from filename and predicts every converted pair. Conversion failures
// satisfy upload.IsClientError.
func (c *Context) Upload(ctx context.Context, filename string, r io.Reader) (UploadResult, error) {
	start := c.now()
	res := UploadResult{RunID: c.newID(), Filename: filename, ModelVersion: c.Model.Version()}
	rec := runlog.RunRecord{
		ID:           res.RunID,
		Timestamp:    start,
		Mode:         string(events.ModeUpload),
		Source:       filename,
		ModelVersion: res.ModelVersion,
	}
	err := c.upload(ctx, filename, r, &res)
	rec.Date = res.Date
	rec.Stations = res.Summary.Stations
	rec.Failures = res.Summary.Failures
	rec.FailingStations = failing(res.Rows)
	c.finish(ctx, rec, res.Summary, res.Rows, err, start)
	if err != nil {
		return UploadResult{}, err
	}
	return res, nil
}

func (c *Context) upload(ctx context.Context, filename string, r io.Reader, res *UploadResult) error {
	conv := events.ConversionEvent{Filename: filename}
	defer func() {
		conv.Time = c.now()
		if c.ConvBus != nil {
			c.ConvBus.Publish(conv)
		}
	}()

	table, err := c.Parse(r)
	if err != nil {
		conv.Err = fmt.Errorf("%w: %v", upload.ErrMalformedFile, err)
		return conv.Err
	}
	conv.InputRows = table.Len()
	recs, err := upload.Convert(filename, table)
	if err != nil {
		conv.Err = err
		return err
	}
	conv.Pairs = len(recs)
	date, _ := upload.DateFromFilename(filename)
	res.Date = date
	res.Records = recs

	results, err := prediction.Predict(ctx, c.Model, recs)
	if err != nil {
		return err
	}
	res.Rows = make([]model.Row, len(results))
	for i, pr := range results {
		res.Rows[i] = model.Row{
			Seq:        i + 1,
			LineID:     pr.Record.LineID,
			StationID:  pr.Record.StationID,
			Prediction: pr.Display,
			Label:      pr.Label,
			Date:       pr.Record.Date,
		}
	}
	res.Summary = lines.Summarize("", date, res.Rows)
	return nil
}

// finish records the run in the run log, notifies subscribers of successful
// runs and publishes the run event. Failures of these side channels are
// logged and never change the pipeline outcome.
func (c *Context) finish(ctx context.Context, rec runlog.RunRecord, sum model.Summary, rows []model.Row, err error, start time.Time) {
	log := c.log()
	empty := errors.Is(err, lines.ErrEmptyResultSet)
	if err != nil && !empty {
		rec.Error = err.Error()
		tags := map[string]string{"pipeline": rec.Mode, "run_id": rec.ID}
		if rec.Line != "" {
			tags["line"] = rec.Line
		}
		if !upload.IsClientError(err) && !errors.Is(err, ErrLineRequired) {
			c.monitor().CaptureException(err, tags)
		}
		log.Warnf("%s run %s failed: %v", rec.Mode, rec.ID, err)
	} else {
		log.Infow("prediction run", map[string]any{
			"run_id":   rec.ID,
			"mode":     rec.Mode,
			"line":     rec.Line,
			"stations": rec.Stations,
			"failures": rec.Failures,
		})
	}
	if err == nil {
		if nerr := c.notifier().Notify(ctx, sum, rows); nerr != nil {
			log.Errorf("notify run %s: %v", rec.ID, nerr)
			c.monitor().CaptureException(nerr, map[string]string{"module": "notify", "run_id": rec.ID})
		}
	}
	if aerr := c.runs().Append(ctx, rec); aerr != nil {
		log.Errorf("append run %s: %v", rec.ID, aerr)
	}
	if c.RunBus != nil {
		end := c.now()
		c.RunBus.Publish(events.RunEvent{
			RunID:        rec.ID,
			Mode:         events.Mode(rec.Mode),
			Line:         rec.Line,
			Date:         rec.Date,
			Stations:     rec.Stations,
			Failures:     rec.Failures,
			ModelVersion: rec.ModelVersion,
			Duration:     end.Sub(start),
			Err:          err,
			Time:         end,
		})
	}
}

func (c *Context) newID() string {
	if c.NewID != nil {
		return c.NewID()
	}
	return uuid.NewString()
}

func failing(rows []model.Row) []string {
	var out []string
	for _, r := range rows {
		if r.Label == model.LabelFailure {
			out = append(out, r.StationID)
		}
	}
	return out
}
