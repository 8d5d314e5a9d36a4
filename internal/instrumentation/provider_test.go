package instrumentation

import (
	"context"
	"testing"
	"time"
)

func testProviderConfig(metrics, tracing string) Config {
	return Config{
		ServiceName:       "test-service",
		ServiceVersion:    "1.0.0",
		Enabled:           true,
		MetricsExporter:   metrics,
		TracingExporter:   tracing,
		TraceSamplingRate: 1,
	}
}

func TestNewProvider_Disabled(t *testing.T) {
	provider, err := NewProvider(context.Background(), Config{ServiceName: "test-service", Enabled: false})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if provider.Enabled() {
		t.Error("expected provider to be disabled")
	}
	if provider.Metrics() == nil {
		t.Error("expected metrics to be non-nil even when disabled")
	}
	if err := provider.Shutdown(context.Background()); err != nil {
		t.Errorf("expected no error on shutdown, got %v", err)
	}
}

func TestNewProvider_Exporters(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr bool
	}{
		{name: "prometheus", config: testProviderConfig(ExporterPrometheus, ExporterNone)},
		{name: "stdout", config: testProviderConfig(ExporterStdout, ExporterStdout)},
		{name: "invalid metrics exporter", config: testProviderConfig("invalid", ExporterNone), wantErr: true},
		{name: "invalid tracing exporter", config: testProviderConfig(ExporterPrometheus, "invalid"), wantErr: true},
		{name: "otlp tracing without endpoint", config: testProviderConfig(ExporterPrometheus, ExporterOTLP), wantErr: true},
		{name: "otlp metrics without endpoint", config: testProviderConfig(ExporterOTLP, ExporterNone), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			provider, err := NewProvider(ctx, tt.config)
			if tt.wantErr {
				if err == nil {
					t.Error("expected an error")
				}
				return
			}
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			defer func() { _ = provider.Shutdown(ctx) }()

			if !provider.Enabled() {
				t.Error("expected provider to be enabled")
			}
			if provider.Metrics() == nil {
				t.Error("expected metrics to be non-nil")
			}
		})
	}
}

func TestProvider_Shutdown(t *testing.T) {
	ctx := context.Background()
	provider, err := NewProvider(ctx, testProviderConfig(ExporterPrometheus, ExporterNone))
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if err := provider.Shutdown(ctx); err != nil {
		t.Errorf("expected no error on shutdown, got %v", err)
	}
}
