package log

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"testing"
)

func TestLoggerTagsComponent(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Handler: slog.NewTextHandler(&buf, nil), Component: "engine"})

	logger.Info("hello", FieldTransactionID, "abc")
	out := buf.String()
	if !strings.Contains(out, "component=engine") {
		t.Fatalf("expected component tag, got %q", out)
	}
	if !strings.Contains(out, "transaction_id=abc") {
		t.Fatalf("expected transaction field, got %q", out)
	}
}

func TestWithComponent(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Handler: slog.NewTextHandler(&buf, nil), Component: "engine"})

	scoped := logger.WithComponent(ComponentLedger)
	if scoped.Component() != ComponentLedger {
		t.Fatalf("Component() = %q, want %q", scoped.Component(), ComponentLedger)
	}
	scoped.Error("boom")
	if !strings.Contains(buf.String(), "component=ledger") {
		t.Fatalf("expected scoped component, got %q", buf.String())
	}
}

func TestLogFieldsBuilder(t *testing.T) {
	fields := NewFields().
		WithComponent(ComponentProcessor).
		WithOperation(OpComplete).
		WithTransaction("id-1", "Rent").
		WithError(errors.New("nope"))

	if fields[FieldComponent] != ComponentProcessor {
		t.Errorf("component = %v", fields[FieldComponent])
	}
	if fields[FieldError] != "nope" {
		t.Errorf("error = %v", fields[FieldError])
	}
	if got := fields.ToSlice(); len(got) != len(fields)*2 {
		t.Errorf("ToSlice length = %d, want %d", len(got), len(fields)*2)
	}

	// nil errors add nothing
	clean := NewFields().WithError(nil)
	if _, ok := clean[FieldError]; ok {
		t.Errorf("nil error must not add a field")
	}
}
