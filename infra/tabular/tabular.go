// Package tabular reads delimited station tables and dispatch-history exports
// into explicit typed records using gota dataframes for parsing.
package tabular

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	"github.com/kilianp07/failpredict/core/dataset"
	"github.com/kilianp07/failpredict/core/model"
)

// Station table columns.
const (
	ColumnDate    = "data_dzienna"
	ColumnStation = "Stacja"
	ColumnLine    = "Linia"
	ColumnFailure = "awaria"
)

// NaNValues are the cell contents treated as missing.
var NaNValues = []string{"", "NA", "NaN", "nan", "null", "NULL", "<nil>"}

var dateLayouts = []string{
	model.DateLayout,
	"2006-01-02 15:04:05",
	time.RFC3339,
}

// Options controls parsing of delimited files.
type Options struct {
	// Delimiter defaults to ','.
	Delimiter rune
}

func (o Options) delimiter() rune {
	if o.Delimiter == 0 {
		return ','
	}
	return o.Delimiter
}

// ReadTable parses delimited text with a header row. Every column is read as
// a string; no type detection is applied.
//
// A file holding only a header row yields a table with those columns and no
// rows, so schema checks still apply to it.
func ReadTable(r io.Reader, opts Options) (*dataset.Table, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read table: %w", err)
	}
	df := dataframe.ReadCSV(bytes.NewReader(data),
		dataframe.HasHeader(true),
		dataframe.DetectTypes(false),
		dataframe.DefaultType(series.String),
		dataframe.NaNValues(NaNValues),
		dataframe.WithDelimiter(opts.delimiter()),
		dataframe.WithLazyQuotes(true),
	)
	if df.Err != nil {
		if header, ok := headerOnly(data, opts); ok {
			return &dataset.Table{Columns: header}, nil
		}
		return nil, fmt.Errorf("read table: %w", df.Err)
	}
	names := df.Names()
	nrow := df.Nrow()
	t := &dataset.Table{
		Columns: names,
		Rows:    make([][]string, nrow),
		Null:    make([][]bool, nrow),
	}
	for i := range t.Rows {
		t.Rows[i] = make([]string, len(names))
		t.Null[i] = make([]bool, len(names))
	}
	for j, name := range names {
		col := df.Col(name)
		recs := col.Records()
		nan := col.IsNaN()
		for i := 0; i < nrow; i++ {
			t.Rows[i][j] = recs[i]
			t.Null[i][j] = nan[i]
		}
	}
	return t, nil
}

// headerOnly reports whether data is a single header record followed by
// nothing but blank lines, and returns that header.
func headerOnly(data []byte, opts Options) ([]string, bool) {
	cr := csv.NewReader(bytes.NewReader(data))
	cr.Comma = opts.delimiter()
	cr.LazyQuotes = true
	cr.FieldsPerRecord = -1
	header, err := cr.Read()
	if err != nil || len(header) == 0 {
		return nil, false
	}
	if _, err := cr.Read(); !errors.Is(err, io.EOF) {
		return nil, false
	}
	return header, true
}

// ReadStations parses a station table. data_dzienna and Stacja are required;
// Linia is optional. Rows with a missing station or date are skipped.
func ReadStations(r io.Reader, opts Options) ([]model.StationRecord, error) {
	t, err := ReadTable(r, opts)
	if err != nil {
		return nil, err
	}
	di := t.Index(ColumnDate)
	if di < 0 {
		return nil, fmt.Errorf("station table: %w: %s", dataset.ErrMissingColumn, ColumnDate)
	}
	si := t.Index(ColumnStation)
	if si < 0 {
		return nil, fmt.Errorf("station table: %w: %s", dataset.ErrMissingColumn, ColumnStation)
	}
	li := t.Index(ColumnLine)

	out := make([]model.StationRecord, 0, t.Len())
	for i := 0; i < t.Len(); i++ {
		if t.IsNull(i, si) || t.IsNull(i, di) {
			continue
		}
		d, err := ParseDate(t.Value(i, di))
		if err != nil {
			return nil, fmt.Errorf("station table row %d: %w", i+1, err)
		}
		rec := model.StationRecord{Date: d, StationID: t.Value(i, si)}
		if li >= 0 && !t.IsNull(i, li) {
			rec.LineID = t.Value(i, li)
		}
		out = append(out, rec)
	}
	return out, nil
}

// ParseDate parses a day in one of the accepted layouts and truncates it to
// a UTC calendar day.
func ParseDate(s string) (time.Time, error) {
	var firstErr error
	for _, layout := range dateLayouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			return model.Day(t), nil
		}
		if firstErr == nil {
			firstErr = err
		}
	}
	return time.Time{}, fmt.Errorf("parse date %q: %w", s, firstErr)
}

// FileSource reads the station table from disk on every Load.
type FileSource struct {
	Path    string
	Options Options
}

// Load opens and parses the station table.
func (s FileSource) Load(ctx context.Context) ([]model.StationRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f, err := os.Open(s.Path)
	if err != nil {
		return nil, fmt.Errorf("open station table: %w", err)
	}
	defer func() { _ = f.Close() }()
	return ReadStations(f, s.Options)
}

// Describe returns the path for logs and run records.
func (s FileSource) Describe() string { return s.Path }

// WriteStations writes records as a station table with a header row, the
// shape ReadStations accepts.
func WriteStations(w io.Writer, recs []model.StationRecord) error {
	dates := make([]string, len(recs))
	stations := make([]string, len(recs))
	lineIDs := make([]string, len(recs))
	failures := make([]int, len(recs))
	for i, r := range recs {
		dates[i] = r.Date.Format(model.DateLayout)
		stations[i] = r.StationID
		lineIDs[i] = r.LineID
		if r.FailureOccurred {
			failures[i] = 1
		}
	}
	df := dataframe.New(
		series.New(dates, series.String, ColumnDate),
		series.New(stations, series.String, ColumnStation),
		series.New(lineIDs, series.String, ColumnLine),
		series.New(failures, series.Int, ColumnFailure),
	)
	if df.Err != nil {
		return df.Err
	}
	return df.WriteCSV(w)
}
