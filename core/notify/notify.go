// Package notify publishes prediction summaries to downstream consumers
// such as maintenance dashboards.
package notify

import (
	"context"
	"errors"
	"time"

	"github.com/kilianp07/failpredict/core/model"
)

// Notifier delivers the outcome of a prediction run.
type Notifier interface {
	Notify(ctx context.Context, sum model.Summary, rows []model.Row) error
}

// Closer is implemented by notifiers holding a connection.
type Closer interface {
	Close() error
}

// Message is the payload published by every notifier backend.
type Message struct {
	Line      string      `json:"line"`
	Date      string      `json:"date"`
	Stations  int         `json:"stations"`
	Failures  int         `json:"failures"`
	Failing   []string    `json:"failing_stations"`
	Rows      []model.Row `json:"rows,omitempty"`
	Published time.Time   `json:"published_at"`
}

// NewMessage builds the payload for a run. Rows are embedded only when
// withRows is set.
func NewMessage(sum model.Summary, rows []model.Row, withRows bool, now time.Time) Message {
	msg := Message{
		Line:      sum.Line,
		Stations:  sum.Stations,
		Failures:  sum.Failures,
		Failing:   []string{},
		Published: now.UTC(),
	}
	if !sum.Date.IsZero() {
		msg.Date = sum.Date.Format(model.DateLayout)
	}
	for _, r := range rows {
		if r.Label == model.LabelFailure {
			msg.Failing = append(msg.Failing, r.StationID)
		}
	}
	if withRows {
		msg.Rows = rows
	}
	return msg
}

// NopNotifier drops every notification.
type NopNotifier struct{}

func (NopNotifier) Notify(context.Context, model.Summary, []model.Row) error { return nil }

// MultiNotifier fans a notification out to several notifiers.
type MultiNotifier struct {
	Notifiers []Notifier
}

// NewMultiNotifier combines the provided notifiers.
func NewMultiNotifier(n ...Notifier) *MultiNotifier {
	return &MultiNotifier{Notifiers: n}
}

// Notify calls every notifier and joins their errors.
func (m *MultiNotifier) Notify(ctx context.Context, sum model.Summary, rows []model.Row) error {
	var errs []error
	for _, n := range m.Notifiers {
		if err := n.Notify(ctx, sum, rows); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Close closes every notifier that holds a connection.
func (m *MultiNotifier) Close() error {
	var errs []error
	for _, n := range m.Notifiers {
		if c, ok := n.(Closer); ok {
			if err := c.Close(); err != nil {
				errs = append(errs, err)
			}
		}
	}
	return errors.Join(errs...)
}
