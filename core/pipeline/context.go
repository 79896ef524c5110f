package pipeline

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/kilianp07/failpredict/core/dataset"
	"github.com/kilianp07/failpredict/core/events"
	"github.com/kilianp07/failpredict/core/logger"
	"github.com/kilianp07/failpredict/core/model"
	"github.com/kilianp07/failpredict/core/monitoring"
	"github.com/kilianp07/failpredict/core/notify"
	"github.com/kilianp07/failpredict/core/prediction"
	"github.com/kilianp07/failpredict/core/runlog"
	"github.com/kilianp07/failpredict/internal/eventbus"
)

// ErrLineRequired is returned when no production line was selected.
var ErrLineRequired = errors.New("line is required")

// Source supplies the pre-computed station table. Load is called on every
// pipeline invocation so edits to the underlying file are picked up.
type Source interface {
	Load(ctx context.Context) ([]model.StationRecord, error)
	Describe() string
}

// TableParser parses an uploaded delimited file.
type TableParser func(r io.Reader) (*dataset.Table, error)

// Context is the application context shared by every invocation. It must not
// be modified once in use; its methods are safe for concurrent calls.
type Context struct {
	Model  prediction.Model
	Source Source
	Parse  TableParser

	// Optional collaborators; nil values are replaced by no-op
	// implementations.
	Runs     runlog.Store
	Notifier notify.Notifier
	RunBus   *eventbus.Bus[events.RunEvent]
	ConvBus  *eventbus.Bus[events.ConversionEvent]
	Logger   logger.Logger
	Monitor  monitoring.Monitor
	Now      func() time.Time
	// NewID generates run identifiers.
	NewID func() string
}

// Validate checks the mandatory collaborators.
func (c *Context) Validate() error {
	var errs []error
	if c.Model == nil {
		errs = append(errs, errors.New("pipeline: model is required"))
	}
	if c.Source == nil {
		errs = append(errs, errors.New("pipeline: source is required"))
	}
	if c.Parse == nil {
		errs = append(errs, errors.New("pipeline: table parser is required"))
	}
	return errors.Join(errs...)
}

func (c *Context) now() time.Time {
	if c.Now != nil {
		return c.Now()
	}
	return time.Now()
}

func (c *Context) log() logger.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return logger.Nop{}
}

func (c *Context) monitor() monitoring.Monitor {
	if c.Monitor != nil {
		return c.Monitor
	}
	return monitoring.NopMonitor{}
}

func (c *Context) runs() runlog.Store {
	if c.Runs != nil {
		return c.Runs
	}
	return runlog.NopStore{}
}

func (c *Context) notifier() notify.Notifier {
	if c.Notifier != nil {
		return c.Notifier
	}
	return notify.NopNotifier{}
}
