package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	availabilityapi "github.com/kilianp07/planavail/api/availability"
	"github.com/kilianp07/planavail/config"
	"github.com/kilianp07/planavail/core/audit"
	"github.com/kilianp07/planavail/core/availability"
	coremetrics "github.com/kilianp07/planavail/core/metrics"
	"github.com/kilianp07/planavail/core/model"
	coremon "github.com/kilianp07/planavail/core/monitoring"
	"github.com/kilianp07/planavail/infra/logger"
	"github.com/kilianp07/planavail/infra/metrics"
	"github.com/kilianp07/planavail/infra/mqtt"
	"github.com/kilianp07/planavail/internal/eventbus"
)

// Evaluation is published on the service bus after every successful evaluation.
type Evaluation struct {
	Request model.Request
	Result  availability.Result
}

// SlotPublisher forwards evaluations to downstream consumers.
type SlotPublisher interface {
	Publish(ctx context.Context, msg mqtt.Message) error
	Disconnect()
}

// Option customises a Service built by New.
type Option func(*options)

type options struct {
	clock     availability.Clock
	store     audit.Store
	publisher SlotPublisher
	sink      coremetrics.MetricsSink
}

// WithClock replaces the wall clock used by the evaluator.
func WithClock(c availability.Clock) Option { return func(o *options) { o.clock = c } }

// WithAuditStore replaces the store built from cfg.Audit.
func WithAuditStore(s audit.Store) Option { return func(o *options) { o.store = s } }

// WithPublisher replaces the MQTT publisher built from cfg.MQTT.
func WithPublisher(p SlotPublisher) Option { return func(o *options) { o.publisher = p } }

// WithMetricsSink replaces the sinks built from cfg.Metrics.
func WithMetricsSink(s coremetrics.MetricsSink) Option { return func(o *options) { o.sink = s } }

// Service wires the evaluator to its HTTP API, audit store and MQTT publisher.
type Service struct {
	Evaluator *availability.Evaluator

	cfg       *config.Config
	bus       *eventbus.TypedBus[Evaluation]
	store     audit.Store
	publisher SlotPublisher
	sink      coremetrics.MetricsSink
	log       logger.Logger
	consumers []<-chan struct{}
	started   bool
}

// New creates a Service from the configuration.
func New(cfg *config.Config, opts ...Option) (*Service, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	logg := logger.New("service")

	sink := o.sink
	if sink == nil {
		var err error
		if sink, err = newMetricsSink(cfg.Metrics); err != nil {
			return nil, err
		}
	}
	ev, err := availability.NewEvaluator(cfg.Calendar, o.clock, sink, logger.New("availability"))
	if err != nil {
		return nil, fmt.Errorf("evaluator: %w", err)
	}

	store := o.store
	if store == nil {
		if store, err = audit.Open(cfg.Audit.Options()); err != nil {
			return nil, fmt.Errorf("audit store: %w", err)
		}
	}

	pub := o.publisher
	if pub == nil && cfg.MQTT.Enabled() {
		p, err := mqtt.NewPublisher(cfg.MQTT, logger.New("mqtt_publisher"))
		if err != nil {
			_ = store.Close()
			return nil, fmt.Errorf("mqtt publisher: %w", err)
		}
		pub = p
	}

	return &Service{
		Evaluator: ev,
		cfg:       cfg,
		bus:       eventbus.NewTyped[Evaluation](),
		store:     store,
		publisher: pub,
		sink:      sink,
		log:       logg,
	}, nil
}

// newMetricsSink builds the Prometheus and InfluxDB sinks enabled in cfg.
func newMetricsSink(cfg coremetrics.Config) (coremetrics.MetricsSink, error) {
	var sinks []coremetrics.MetricsSink
	if cfg.PrometheusEnabled {
		prom, err := metrics.NewPromSink(cfg)
		if err != nil {
			return nil, fmt.Errorf("prom sink: %w", err)
		}
		sinks = append(sinks, prom)
	}
	if cfg.InfluxEnabled() {
		sinks = append(sinks, metrics.NewInfluxSinkWithFallback(cfg))
	}
	switch len(sinks) {
	case 0:
		return coremetrics.NopSink{}, nil
	case 1:
		return sinks[0], nil
	}
	return metrics.NewMultiSink(sinks...), nil
}

// Resolve evaluates req and hands the result to the background consumers.
func (s *Service) Resolve(ctx context.Context, req model.Request) ([]model.Slot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	res, err := s.Evaluator.Run(req)
	if err != nil {
		return nil, err
	}
	s.bus.Publish(Evaluation{Request: req, Result: res})
	return res.Slots, nil
}

// Handler returns the HTTP routes of the service.
func (s *Service) Handler() http.Handler {
	mux := http.NewServeMux()
	availabilityapi.Register(mux, s, s.store, s.cfg.HTTP.Token)
	return mux
}

// Start launches the audit and MQTT consumers. They stop when ctx is done or
// the service is closed.
func (s *Service) Start(ctx context.Context) {
	if s.started {
		return
	}
	s.started = true
	s.consumers = append(s.consumers, s.bus.Handle(ctx, s.appendAudit))
	if s.publisher != nil {
		s.consumers = append(s.consumers, s.bus.Handle(ctx, s.publish))
	}
}

func (s *Service) appendAudit(ctx context.Context, e Evaluation) {
	rec := audit.NewRecord(e.Result.ID, e.Result.Stats.Time, e.Request, e.Result.Stats.Plans, e.Result.Slots)
	if err := s.store.Append(ctx, rec); err != nil {
		s.log.Errorf("audit append %s: %v", e.Result.ID, err)
		coremon.CaptureException(err, map[string]string{
			"module":        "audit",
			"evaluation_id": e.Result.ID,
		})
	}
}

func (s *Service) publish(ctx context.Context, e Evaluation) {
	msg := mqtt.Message{
		EvaluationID: e.Result.ID,
		CategoryType: e.Request.CategoryType,
		GeneratedAt:  model.MillisOf(e.Result.Stats.Time),
		Slots:        e.Result.Slots,
	}
	if err := s.publisher.Publish(ctx, msg); err != nil {
		s.log.Errorf("publish evaluation %s: %v", e.Result.ID, err)
	}
}

// Run starts the service and blocks until the context is cancelled.
func (s *Service) Run(ctx context.Context) error {
	s.Start(ctx)
	if s.cfg.Metrics.PrometheusEnabled {
		coremon.Go(func() {
			if err := metrics.StartPromServer(ctx, s.cfg.Metrics.PrometheusPort, logger.New("metrics")); err != nil {
				s.log.Errorf("prom server: %v", err)
			}
		})
	}
	srv := &http.Server{
		Addr:              s.cfg.HTTP.Address,
		Handler:           s.Handler(),
		ReadHeaderTimeout: time.Duration(s.cfg.HTTP.ReadTimeoutSeconds) * time.Second,
		ReadTimeout:       time.Duration(s.cfg.HTTP.ReadTimeoutSeconds) * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.log.Warnf("http shutdown: %v", err)
		}
	}()
	s.log.Infof("availability API listening on %s", s.cfg.HTTP.Address)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Close stops the consumers and releases resources held by the service.
func (s *Service) Close() error {
	s.bus.Close()
	for _, done := range s.consumers {
		<-done
	}
	if s.publisher != nil {
		s.publisher.Disconnect()
	}
	if c, ok := s.sink.(io.Closer); ok {
		if err := c.Close(); err != nil {
			s.log.Warnf("close metrics sink: %v", err)
		}
	}
	coremon.Flush(2 * time.Second)
	return s.store.Close()
}
