package metrics

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Config configures the metrics provider.
type Config struct {
	Enabled          bool
	ExporterEndpoint string
	ExporterProtocol string
	ServiceName      string
	Environment      string
}

// Metrics exposes application-level instruments.
type Metrics struct {
	ratingRuns      metric.Int64Counter
	ratingDuration  metric.Float64Histogram
	lookupFallbacks metric.Int64Counter
}

// NewProvider configures and registers the meter provider.
func NewProvider(lc fx.Lifecycle, cfg Config, log *zap.Logger) (metric.MeterProvider, error) {
	if !cfg.Enabled {
		provider := noop.NewMeterProvider()
		otel.SetMeterProvider(provider)
		return provider, nil
	}

	exporter, err := newExporter(cfg.ExporterProtocol, cfg.ExporterEndpoint)
	if err != nil {
		return nil, err
	}

	reader := sdkmetric.NewPeriodicReader(exporter, sdkmetric.WithInterval(10*time.Second))
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	otel.SetMeterProvider(provider)

	if lc != nil {
		lc.Append(fx.Hook{
			OnStop: func(ctx context.Context) error {
				if log != nil {
					log.Info("shutting down meter provider")
				}
				return provider.Shutdown(ctx)
			},
		})
	}

	return provider, nil
}

// New configures the domain metrics instruments.
func New(cfg Config, provider metric.MeterProvider) (*Metrics, error) {
	name := strings.TrimSpace(cfg.ServiceName)
	if name == "" {
		name = "insureflow"
	}
	meter := provider.Meter(name)

	ratingRuns, err := meter.Int64Counter("insureflow_rating_runs_total")
	if err != nil {
		return nil, err
	}
	ratingDuration, err := meter.Float64Histogram("insureflow_rating_duration_ms")
	if err != nil {
		return nil, err
	}
	lookupFallbacks, err := meter.Int64Counter("insureflow_base_rate_fallbacks_total")
	if err != nil {
		return nil, err
	}

	return &Metrics{
		ratingRuns:      ratingRuns,
		ratingDuration:  ratingDuration,
		lookupFallbacks: lookupFallbacks,
	}, nil
}

// RecordRatingRun counts one rating invocation and its duration.
func (m *Metrics) RecordRatingRun(ctx context.Context, productType, status string, duration time.Duration) {
	if m == nil {
		return
	}
	attrs := []attribute.KeyValue{
		attribute.String("product_type", strings.TrimSpace(productType)),
		attribute.String("status", strings.TrimSpace(status)),
	}
	m.ratingRuns.Add(ctx, 1, metric.WithAttributes(attrs...))
	m.ratingDuration.Record(ctx, float64(duration.Milliseconds()), metric.WithAttributes(attrs...))
}

// RecordLookupFallback counts base-rate lookups that needed wildcard retries.
func (m *Metrics) RecordLookupFallback(ctx context.Context, productType string, depth int) {
	if m == nil || depth <= 0 {
		return
	}
	m.lookupFallbacks.Add(ctx, int64(depth), metric.WithAttributes(
		attribute.String("product_type", strings.TrimSpace(productType)),
	))
}

func newExporter(protocol, endpoint string) (sdkmetric.Exporter, error) {
	protocol = strings.ToLower(strings.TrimSpace(protocol))
	switch protocol {
	case "http", "http/protobuf":
		opts := []otlpmetrichttp.Option{}
		if endpoint != "" {
			opts = append(opts, otlpmetrichttp.WithEndpoint(endpoint))
		}
		return otlpmetrichttp.New(context.Background(), opts...)
	case "grpc", "grpc/protobuf", "":
		opts := []otlpmetricgrpc.Option{otlpmetricgrpc.WithInsecure()}
		if endpoint != "" {
			opts = append(opts, otlpmetricgrpc.WithEndpoint(endpoint))
		}
		return otlpmetricgrpc.New(context.Background(), opts...)
	default:
		return nil, fmt.Errorf("unsupported OTLP protocol %q", protocol)
	}
}
