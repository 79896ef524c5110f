// Package upload reshapes a dispatch-history export into station records the
// prediction step accepts.
//
// Conversion is all-or-nothing: a missing column or an undated filename
// aborts before any row is produced. Every converted row is tagged
// FailureOccurred because the export only lists dispatch events; the output
// therefore carries no negative examples and is fit for inference only.
package upload

import (
	"fmt"
	"path"
	"regexp"
	"strings"
	"time"

	"github.com/kilianp07/failpredict/core/dataset"
	"github.com/kilianp07/failpredict/core/model"
)

// Required dispatch-history columns.
const (
	ColumnMachine = "machinecode"
	ColumnLine    = "linecode"
)

var filenameDate = regexp.MustCompile(`DispatchHistory--(\d{4}-\d{2}-\d{2})`)

// DateFromFilename extracts the calendar day embedded in an upload name such
// as "DispatchHistory--2025-05-26.csv". Directory components are ignored.
func DateFromFilename(name string) (time.Time, error) {
	base := path.Base(strings.ReplaceAll(name, `\`, "/"))
	m := filenameDate.FindStringSubmatch(base)
	if m == nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrUnparseableFilename, base)
	}
	d, err := time.Parse(model.DateLayout, m[1])
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q: %v", ErrUnparseableFilename, base, err)
	}
	return d, nil
}

// Convert validates t, dates it from filename and returns one record per
// distinct (machinecode, linecode) pair in first-seen order.
func Convert(filename string, t *dataset.Table) ([]model.StationRecord, error) {
	mi := t.Index(ColumnMachine)
	if mi < 0 {
		return nil, &MissingColumnError{Name: ColumnMachine}
	}
	li := t.Index(ColumnLine)
	if li < 0 {
		return nil, &MissingColumnError{Name: ColumnLine}
	}
	date, err := DateFromFilename(filename)
	if err != nil {
		return nil, err
	}

	type pair struct{ station, line string }
	seen := map[pair]struct{}{}
	var out []model.StationRecord
	for i := 0; i < t.Len(); i++ {
		if t.IsNull(i, mi) || t.IsNull(i, li) {
			continue
		}
		p := pair{station: t.Value(i, mi), line: t.Value(i, li)}
		if _, dup := seen[p]; dup {
			continue
		}
		seen[p] = struct{}{}
		out = append(out, model.StationRecord{
			Date:            date,
			StationID:       p.station,
			LineID:          p.line,
			FailureOccurred: true,
		})
	}
	return out, nil
}
