// Package instrumentation provides OpenTelemetry metrics, tracing and tool
// audit logging for the calendar-mcp server.
//
// # Metrics
//
//   - http_requests_total, http_request_duration_seconds: streamable HTTP transport
//   - google_api_operations_total, google_api_operation_duration_seconds: by service, operation, status
//   - oauth_token_refresh_total: refresh-token exchanges by result
//   - mcp_tool_invocations_total, mcp_tool_duration_seconds: by tool and status
//
// # Tracing
//
// Tool calls get a server span named tool.<name>. The Google call behind a
// tool gets a client span named google.<service>.<operation>.
//
// # Configuration
//
// DefaultConfig reads:
//   - INSTRUMENTATION_ENABLED (default: true)
//   - METRICS_EXPORTER: prometheus, otlp or stdout (default: prometheus)
//   - TRACING_EXPORTER: otlp, stdout or none (default: none)
//   - OTEL_EXPORTER_OTLP_ENDPOINT, OTEL_EXPORTER_OTLP_INSECURE
//   - OTEL_TRACES_SAMPLER_ARG (default: 0.1)
//   - OTEL_SERVICE_NAME (default: calendar-mcp)
//   - METRICS_DETAILED_LABELS, AUDIT_LOGGING_ENABLED, AUDIT_LOGGING_INCLUDE_TARGETS
//
// # Example Usage
//
//	provider, err := instrumentation.NewProvider(ctx, instrumentation.DefaultConfig())
//	if err != nil {
//		return err
//	}
//	defer provider.Shutdown(ctx)
//
//	metrics := provider.Metrics()
//	metrics.RecordToolInvocationWithTarget(ctx, "calendar_list_events", instrumentation.StatusSuccess, "primary", time.Since(start))
package instrumentation
