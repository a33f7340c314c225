// Package otel exports session and achievement metrics to an OTEL
// Collector when one is configured; everything degrades to a no-op
// otherwise.
package otel

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"focustrack/internal/domain"
)

const (
	serviceName    = "focustrack"
	serviceVersion = "1.0.0"
)

// Exporter exports timer metrics to an OTEL Collector.
type Exporter struct {
	provider      *sdkmetric.MeterProvider
	meter         metric.Meter
	sessionsTotal metric.Int64Counter
	minutesTotal  metric.Float64Counter
	focusHist     metric.Float64Histogram
	unlocksTotal  metric.Int64Counter
}

// NewExporter creates a new OTEL metrics exporter.
func NewExporter(ctx context.Context, cfg Config) (*Exporter, error) {
	if !cfg.Enabled || cfg.Endpoint == "" {
		return nil, fmt.Errorf("OTEL exporter is disabled or endpoint not configured")
	}

	opts := []otlpmetricgrpc.Option{
		otlpmetricgrpc.WithEndpoint(cfg.Endpoint),
	}
	if cfg.Insecure {
		opts = append(opts, otlpmetricgrpc.WithDialOption(grpc.WithTransportCredentials(insecure.NewCredentials())))
		opts = append(opts, otlpmetricgrpc.WithInsecure())
	}

	exp, err := otlpmetricgrpc.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating OTLP exporter: %w", err)
	}

	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceName(serviceName),
			semconv.ServiceVersion(serviceVersion),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("creating resource: %w", err)
	}

	provider := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exp)),
		sdkmetric.WithResource(res),
	)
	otel.SetMeterProvider(provider)

	meter := provider.Meter(serviceName)

	sessionsTotal, err := meter.Int64Counter(
		"focustrack_sessions_total",
		metric.WithDescription("Work sessions recorded"),
		metric.WithUnit("{session}"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating sessions counter: %w", err)
	}

	minutesTotal, err := meter.Float64Counter(
		"focustrack_focus_minutes_total",
		metric.WithDescription("Focused minutes recorded"),
		metric.WithUnit("min"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating minutes counter: %w", err)
	}

	focusHist, err := meter.Float64Histogram(
		"focustrack_focus_score",
		metric.WithDescription("Per-session focus score"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating focus histogram: %w", err)
	}

	unlocksTotal, err := meter.Int64Counter(
		"focustrack_achievement_unlocks_total",
		metric.WithDescription("Achievements unlocked"),
		metric.WithUnit("{achievement}"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating unlocks counter: %w", err)
	}

	return &Exporter{
		provider:      provider,
		meter:         meter,
		sessionsTotal: sessionsTotal,
		minutesTotal:  minutesTotal,
		focusHist:     focusHist,
		unlocksTotal:  unlocksTotal,
	}, nil
}

// ExportSession exports counters for a persisted session.
func (e *Exporter) ExportSession(ctx context.Context, session *domain.Session) error {
	attrs := metric.WithAttributes(
		attribute.String("task", session.TaskName),
		attribute.Bool("completed", session.Completed),
	)

	e.sessionsTotal.Add(ctx, 1, attrs)
	e.minutesTotal.Add(ctx, float64(session.Duration)/60, attrs)
	e.focusHist.Record(ctx, session.FocusScore, attrs)
	return nil
}

// ExportUnlock records an achievement unlock.
func (e *Exporter) ExportUnlock(ctx context.Context, achievement *domain.Achievement) error {
	e.unlocksTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("achievement", achievement.ID),
		attribute.String("rarity", string(achievement.Rarity)),
	))
	return nil
}

// Close shuts down the exporter and flushes pending metrics.
func (e *Exporter) Close(ctx context.Context) error {
	if e.provider != nil {
		return e.provider.Shutdown(ctx)
	}
	return nil
}
