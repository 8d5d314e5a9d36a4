package instrumentation

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"
)

const (
	testCalendarID   = "jane@example.com"
	testToolCalendar = "calendar_create_event"
)

func decodeRecord(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var record map[string]any
	if err := json.Unmarshal(buf.Bytes(), &record); err != nil {
		t.Fatalf("failed to decode log record %q: %v", buf.String(), err)
	}
	return record
}

func TestToolInvocation_Complete(t *testing.T) {
	ti := NewToolInvocation(testToolCalendar)
	if ti.StartTime.IsZero() {
		t.Error("StartTime should not be zero")
	}

	ti.Complete(true, nil)
	if !ti.Success || ti.Status() != StatusSuccess {
		t.Error("expected a successful invocation")
	}
	if ti.Duration < 0 {
		t.Error("Duration should not be negative")
	}

	failed := NewToolInvocation(testToolCalendar).Complete(false, errors.New("permission denied"))
	if failed.Status() != StatusError || failed.Error != "permission denied" {
		t.Errorf("unexpected failed invocation %+v", failed)
	}
}

func TestToolInvocation_LogAttrs(t *testing.T) {
	ti := NewToolInvocation(testToolCalendar).
		WithService(ServiceCalendar, OperationCreate).
		WithTarget(testCalendarID)
	ti.TraceID = "abc123"
	ti.Complete(true, nil)

	keys := func(attrs []slog.Attr) map[string]string {
		m := make(map[string]string, len(attrs))
		for _, a := range attrs {
			m[a.Key] = a.Value.String()
		}
		return m
	}

	reduced := keys(ti.LogAttrs(false))
	if reduced["target"] != "example.com" {
		t.Errorf("target = %q, want example.com", reduced["target"])
	}
	if reduced["service"] != ServiceCalendar || reduced["operation"] != OperationCreate {
		t.Errorf("unexpected service/operation %q/%q", reduced["service"], reduced["operation"])
	}
	if reduced["trace_id"] != "abc123" {
		t.Errorf("trace_id = %q", reduced["trace_id"])
	}
	if _, ok := reduced["error"]; ok {
		t.Error("error should be omitted on success")
	}

	full := keys(ti.LogAttrs(true))
	if full["target"] != testCalendarID {
		t.Errorf("target = %q, want %q", full["target"], testCalendarID)
	}
}

func TestAuditLogger_LogToolInvocation(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	al := NewAuditLoggerWithConfig(logger, AuditLoggingConfig{Enabled: true})

	al.LogToolInvocation(NewToolInvocation(testToolCalendar).Complete(true, nil))
	record := decodeRecord(t, &buf)
	if record["msg"] != "tool_executed" || record["level"] != "INFO" {
		t.Errorf("unexpected record %v", record)
	}

	buf.Reset()
	al.LogToolInvocation(NewToolInvocation(testToolCalendar).Complete(false, errors.New("boom")))
	record = decodeRecord(t, &buf)
	if record["msg"] != "tool_failed" || record["level"] != "WARN" || record["error"] != "boom" {
		t.Errorf("unexpected record %v", record)
	}
}

func TestAuditLogger_Disabled(t *testing.T) {
	var buf bytes.Buffer
	al := NewAuditLoggerWithConfig(slog.New(slog.NewJSONHandler(&buf, nil)), AuditLoggingConfig{Enabled: false})

	al.LogToolInvocation(NewToolInvocation(testToolCalendar).Complete(true, nil))
	if buf.Len() != 0 {
		t.Errorf("expected no output, got %q", buf.String())
	}

	var nilLogger *AuditLogger
	nilLogger.LogToolInvocation(NewToolInvocation(testToolCalendar))
}
