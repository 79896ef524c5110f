package model

import "time"

// DateLayout is the calendar day layout used by source tables and filenames.
const DateLayout = "2006-01-02"

// StationRecord is one row of a station table.
type StationRecord struct {
	Date      time.Time `json:"date"`
	StationID string    `json:"station_id"`
	// LineID is empty when the source table does not carry it; it is then
	// derived from the station identifier prefix.
	LineID string `json:"line_id,omitempty"`
	// FailureOccurred is only set by upload conversion.
	FailureOccurred bool `json:"failure_occurred"`
}

// Day truncates t to a UTC calendar day.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// PredictionResult pairs a record with the label the model produced for it.
type PredictionResult struct {
	Record  StationRecord `json:"record"`
	Label   Label         `json:"label"`
	Display string        `json:"display"`
}

// Row is a presentation row of a filtered prediction table.
type Row struct {
	Seq        int       `json:"seq"`
	LineID     string    `json:"line"`
	StationID  string    `json:"station"`
	Prediction string    `json:"prediction"`
	Label      Label     `json:"label"`
	Date       time.Time `json:"date"`
}

// Summary aggregates a filtered table for display.
type Summary struct {
	Line     string    `json:"line"`
	Date     time.Time `json:"date"`
	Stations int       `json:"stations"`
	Failures int       `json:"failures"`
}
