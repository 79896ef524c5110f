// Package lines narrows a predicted station table to one production line for
// the target day.
//
// A line is identified by the leading letters-then-digits prefix of its
// station codes. Selection and filtering both use the literal prefix, so a
// station only belongs to a line whose code is a textual prefix of its own.
package lines

import (
	"errors"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/kilianp07/failpredict/core/model"
)

// ErrEmptyResultSet is returned when no station matches the selected line on
// the target date. It is a displayable state, not a failure.
var ErrEmptyResultSet = errors.New("no stations for selected line and date")

// Pattern extracts a line code from a station identifier.
var Pattern = regexp.MustCompile(`^[A-Z]{2,}[0-9]{2,}`)

// LineOf returns the line code prefix of stationID.
func LineOf(stationID string) (string, bool) {
	m := Pattern.FindString(stationID)
	return m, m != ""
}

// Distinct returns the sorted distinct line codes derived from records.
func Distinct(records []model.StationRecord) []string {
	seen := map[string]struct{}{}
	for _, r := range records {
		if l, ok := LineOf(r.StationID); ok {
			seen[l] = struct{}{}
		}
	}
	out := make([]string, 0, len(seen))
	for l := range seen {
		out = append(out, l)
	}
	sort.Strings(out)
	return out
}

// TargetDate returns the latest date present in records. This is the
// operational "tomorrow": the newest day of the source data, not the wall
// clock.
func TargetDate(records []model.StationRecord) (time.Time, bool) {
	var max time.Time
	found := false
	for _, r := range records {
		if !found || r.Date.After(max) {
			max = r.Date
			found = true
		}
	}
	return max, found
}

// Filter keeps results dated date whose station starts with line, removes
// repeated stations keeping the first occurrence and numbers the rows from 1.
func Filter(results []model.PredictionResult, line string, date time.Time) ([]model.Row, error) {
	seen := map[string]struct{}{}
	var rows []model.Row
	for _, r := range results {
		rec := r.Record
		if !rec.Date.Equal(date) || !strings.HasPrefix(rec.StationID, line) {
			continue
		}
		if _, dup := seen[rec.StationID]; dup {
			continue
		}
		seen[rec.StationID] = struct{}{}
		rows = append(rows, model.Row{
			Seq:        len(rows) + 1,
			LineID:     line,
			StationID:  rec.StationID,
			Prediction: r.Display,
			Label:      r.Label,
			Date:       rec.Date,
		})
	}
	if len(rows) == 0 {
		return nil, ErrEmptyResultSet
	}
	return rows, nil
}

// Summarize counts the stations predicted to fail.
func Summarize(line string, date time.Time, rows []model.Row) model.Summary {
	s := model.Summary{Line: line, Date: date, Stations: len(rows)}
	for _, r := range rows {
		if r.Label == model.LabelFailure {
			s.Failures++
		}
	}
	return s
}
