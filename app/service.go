package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/kilianp07/failpredict/api"
	"github.com/kilianp07/failpredict/api/predictions"
	"github.com/kilianp07/failpredict/api/runs"
	"github.com/kilianp07/failpredict/api/uploads"
	_ "github.com/kilianp07/failpredict/app/plugins"
	"github.com/kilianp07/failpredict/config"
	"github.com/kilianp07/failpredict/core/dataset"
	"github.com/kilianp07/failpredict/core/events"
	coremetrics "github.com/kilianp07/failpredict/core/metrics"
	coremon "github.com/kilianp07/failpredict/core/monitoring"
	"github.com/kilianp07/failpredict/core/notify"
	"github.com/kilianp07/failpredict/core/pipeline"
	"github.com/kilianp07/failpredict/core/prediction"
	corerunlog "github.com/kilianp07/failpredict/core/runlog"
	"github.com/kilianp07/failpredict/infra/logger"
	"github.com/kilianp07/failpredict/infra/metrics"
	"github.com/kilianp07/failpredict/infra/monitoring"
	"github.com/kilianp07/failpredict/infra/runlog"
	"github.com/kilianp07/failpredict/infra/tabular"
	"github.com/kilianp07/failpredict/internal/eventbus"
)

// Service owns the application context and the HTTP surface around it.
type Service struct {
	Pipeline *pipeline.Context

	cfg      *config.Config
	sink     coremetrics.MetricsSink
	runs     corerunlog.Store
	notifier notify.Notifier
	monitor  coremon.Monitor
	runBus   *eventbus.Bus[events.RunEvent]
	convBus  *eventbus.Bus[events.ConversionEvent]
	log      logger.Logger

	collector *sync.WaitGroup
	closeOnce sync.Once
}

// New builds every collaborator described by cfg. The model and the station
// table are loaded once so that configuration mistakes fail at start-up.
func New(ctx context.Context, cfg *config.Config) (*Service, error) {
	logg := logger.New("service")
	mon, err := monitoring.NewSentryMonitor(cfg.Sentry)
	if err != nil {
		return nil, fmt.Errorf("sentry: %w", err)
	}
	m, err := prediction.NewModel(cfg.Model)
	if err != nil {
		return nil, fmt.Errorf("model: %w", err)
	}
	opts := tabular.Options{Delimiter: cfg.Dataset.Rune()}
	src := tabular.FileSource{Path: cfg.Dataset.Path, Options: opts}
	if _, err := src.Load(ctx); err != nil {
		return nil, err
	}
	sink, err := coremetrics.NewMetricsSink(cfg.Metrics.Sinks)
	if err != nil {
		return nil, fmt.Errorf("metrics: %w", err)
	}
	store, err := runlog.Open(ctx, cfg.RunLog)
	if err != nil {
		return nil, fmt.Errorf("run log: %w", err)
	}
	notifier, err := notify.NewNotifier(cfg.Notify.Sinks)
	if err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("notify: %w", err)
	}

	s := &Service{
		cfg:      cfg,
		sink:     sink,
		runs:     store,
		notifier: notifier,
		monitor:  mon,
		runBus:   eventbus.New[events.RunEvent](),
		convBus:  eventbus.New[events.ConversionEvent](),
		log:      logg,
	}
	s.Pipeline = &pipeline.Context{
		Model:  m,
		Source: src,
		Parse: func(r io.Reader) (*dataset.Table, error) {
			return tabular.ReadTable(r, opts)
		},
		Runs:     store,
		Notifier: notifier,
		RunBus:   s.runBus,
		ConvBus:  s.convBus,
		Logger:   logger.New("pipeline"),
		Monitor:  mon,
	}
	if err := s.Pipeline.Validate(); err != nil {
		_ = s.Close()
		return nil, err
	}
	logg.Infow("service ready", map[string]any{
		"model":         m.Version(),
		"features":      len(m.FeatureNames()),
		"dataset":       cfg.Dataset.Path,
		"runlog":        cfg.RunLog.Backend,
		"metrics_sinks": len(cfg.Metrics.Sinks),
		"notifiers":     len(cfg.Notify.Sinks),
	})
	return s, nil
}

// StartCollector forwards pipeline events to the metrics sink until ctx is
// canceled or the service is closed.
func (s *Service) StartCollector(ctx context.Context) {
	if s.collector == nil {
		s.collector = metrics.StartEventCollector(ctx, s.runBus, s.convBus, s.sink)
	}
}

// Handler returns the HTTP API. /healthz is never authenticated.
func (s *Service) Handler() http.Handler {
	token := s.cfg.Server.Token
	mux := http.NewServeMux()
	mux.Handle("/healthz", api.Health())
	mux.Handle("/api/lines", api.RequireToken(token, predictions.NewLinesHandler(s.Pipeline)))
	mux.Handle("/api/predictions", api.RequireToken(token, predictions.NewPredictionsHandler(s.Pipeline)))
	mux.Handle("/api/predictions/export", api.RequireToken(token, predictions.NewExportHandler(s.Pipeline)))
	mux.Handle("/api/uploads", api.RequireToken(token, uploads.NewHandler(s.Pipeline, s.cfg.Server.MaxUploadBytes())))
	mux.Handle("/api/runs", runs.NewHandler(s.runs, token))
	return mux
}

// Run serves the API, and /metrics when configured, until ctx is canceled or
// one of the servers fails.
func (s *Service) Run(ctx context.Context) error {
	s.StartCollector(ctx)
	g, ctx := errgroup.WithContext(ctx)
	if addr := s.cfg.Metrics.PrometheusAddr; addr != "" {
		g.Go(func() error {
			if err := metrics.StartPromServer(ctx, addr); err != nil {
				return fmt.Errorf("prom server: %w", err)
			}
			return nil
		})
	}
	srv := &http.Server{
		Addr:              s.cfg.Server.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       s.cfg.Server.ReadTimeout,
		WriteTimeout:      s.cfg.Server.WriteTimeout,
	}
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	g.Go(func() error {
		s.log.Infof("listening on %s", s.cfg.Server.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	return g.Wait()
}

// Close releases resources held by the service.
func (s *Service) Close() error {
	var errs []error
	s.closeOnce.Do(func() {
		s.runBus.Close()
		s.convBus.Close()
		if s.collector != nil {
			s.collector.Wait()
		}
		if c, ok := s.notifier.(notify.Closer); ok {
			errs = append(errs, c.Close())
		}
		if c, ok := s.sink.(interface{ Close() }); ok {
			c.Close()
		}
		errs = append(errs, s.runs.Close())
		s.monitor.Flush(2 * time.Second)
	})
	return errors.Join(errs...)
}
