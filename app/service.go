package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/kilianp07/skycloud/api/coverage"
	"github.com/kilianp07/skycloud/config"
	"github.com/kilianp07/skycloud/core/cloud"
	coremetrics "github.com/kilianp07/skycloud/core/metrics"
	"github.com/kilianp07/skycloud/core/monitoring"
	coremqtt "github.com/kilianp07/skycloud/core/mqtt"
	"github.com/kilianp07/skycloud/infra/logger"
	"github.com/kilianp07/skycloud/infra/metrics"
	inframon "github.com/kilianp07/skycloud/infra/monitoring"
	"github.com/kilianp07/skycloud/infra/mqtt"
)

// Service owns the loaded cloud resolver and the surfaces serving it.
type Service struct {
	Resolver  *cloud.Resolver
	Model     *cloud.Model
	cfg       *config.Config
	publisher coremqtt.Publisher
	source    cloud.Source
	recorder  coremetrics.Recorder
	log       logger.Logger
}

// New builds the resolver described by cfg and loads its series.
func New(ctx context.Context, cfg *config.Config) (*Service, error) {
	logg := logger.New("service")
	mon, err := inframon.NewSentryMonitor(cfg.Sentry)
	if err != nil {
		return nil, fmt.Errorf("sentry: %w", err)
	}
	monitoring.Init(mon)

	modelCfg, err := cfg.Cloud.Build()
	if err != nil {
		return nil, err
	}
	model, err := cloud.NewModel(modelCfg)
	if err != nil {
		return nil, err
	}
	rec, err := coremetrics.NewRecorder(cfg.Metrics.Sinks)
	if err != nil {
		return nil, fmt.Errorf("metrics: %w", err)
	}
	src, err := cloud.NewSource(cfg.Source)
	if err != nil {
		return nil, fmt.Errorf("cloud source: %w", err)
	}
	start, err := cfg.Epoch.StartTime()
	if err != nil {
		return nil, err
	}
	res := cloud.NewResolver(start, cfg.Epoch.OffsetYear, src,
		cloud.WithLogger(logger.New("resolver")),
		cloud.WithRecorder(rec),
	)
	svc := &Service{Resolver: res, Model: model, cfg: cfg, source: src, recorder: rec, log: logg}
	if err := res.Load(ctx); err != nil {
		_ = svc.Close()
		return nil, err
	}
	return svc, nil
}

// SetPublisher overrides the MQTT publisher used by Run.
func (s *Service) SetPublisher(p coremqtt.Publisher) { s.publisher = p }

// Run serves the HTTP API, the optional Prometheus endpoint and the optional
// MQTT broadcast until ctx is cancelled.
func (s *Service) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	var wg sync.WaitGroup
	errCh := make(chan error, 3)

	if s.cfg.Server.PrometheusAddress != "" {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := metrics.StartPromServer(ctx, s.cfg.Server.PrometheusAddress); err != nil {
				errCh <- fmt.Errorf("prom server: %w", err)
			}
		}()
	}
	if s.cfg.Publish.Enabled {
		if s.publisher == nil {
			pub, err := mqtt.NewPahoPublisher(s.cfg.MQTT)
			if err != nil {
				return fmt.Errorf("mqtt publisher: %w", err)
			}
			s.publisher = pub
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.publishLoop(ctx)
		}()
	}

	srv := &http.Server{
		Addr:              s.cfg.Server.Address,
		Handler:           coverage.NewHandler(s.Resolver, s.Model),
		ReadHeaderTimeout: 5 * time.Second,
	}
	wg.Add(1)
	go func() {
		defer wg.Done()
		s.log.Infof("cloud API listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("http server: %w", err)
		}
	}()

	var runErr error
	select {
	case <-ctx.Done():
	case runErr = <-errCh:
	}
	cancel()
	shutdownCtx, stop := context.WithTimeout(context.Background(), 5*time.Second)
	defer stop()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		s.log.Errorf("http shutdown: %v", err)
	}
	wg.Wait()
	return runErr
}

func (s *Service) publishLoop(ctx context.Context) {
	defer func() {
		if r := recover(); r != nil {
			monitoring.Recover(r)
			panic(r)
		}
	}()
	ticker := time.NewTicker(s.cfg.Publish.Interval())
	defer ticker.Stop()
	var elapsed int64
	for {
		if err := s.PublishOnce(elapsed); err != nil {
			s.log.Warnf("publish coverage at %d s: %v", elapsed, err)
		}
		elapsed += s.cfg.Publish.StepSeconds
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// PublishOnce resolves the coverage delta seconds into the simulation and
// publishes it on the configured topic.
func (s *Service) PublishOnce(delta int64) error {
	if s.publisher == nil {
		return coremqtt.ErrNotConnected
	}
	value, err := s.Resolver.Resolve(delta)
	if err != nil {
		return err
	}
	msg := coremqtt.CoverageMessage{Delta: delta, Coverage: value}
	if n := s.cfg.Publish.MapSize; n > 0 {
		msg.Map = cloud.Broadcast(value, n)
	}
	_, err = s.publisher.PublishCoverage(s.cfg.Publish.Topic, msg)
	return err
}

// Close releases resources held by the service.
func (s *Service) Close() error {
	if s.publisher != nil {
		s.publisher.Disconnect()
	}
	err := errors.Join(release(s.recorder), release(s.source))
	monitoring.Flush(2 * time.Second)
	return err
}

// release closes v when it holds a client, with or without an error result.
func release(v any) error {
	switch c := v.(type) {
	case io.Closer:
		return c.Close()
	case interface{ Close() }:
		c.Close()
	}
	return nil
}
