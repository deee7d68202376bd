package logger

import (
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestCommonFields(t *testing.T) {
	fields := CommonFields("  http://api.test  ", "req-1")
	if len(fields) != 2 {
		t.Fatalf("expected 2 fields, got %d", len(fields))
	}

	if fields[0].Key != FieldService || fields[0].String != "http://api.test" {
		t.Fatalf("unexpected service field: %+v", fields[0])
	}

	if fields[1].Key != FieldRequestID || fields[1].String != "req-1" {
		t.Fatalf("unexpected request id field: %+v", fields[1])
	}

	only := CommonFields("http://api.test", "   ")
	if len(only) != 1 || only[0].Key != FieldService {
		t.Fatalf("expected only the service field, got %+v", only)
	}
}

func TestForCall(t *testing.T) {
	core, observed := observer.New(zapcore.DebugLevel)

	ForCall(zap.New(core), "http://api.test", "req-2").Debug("make request")
	ForCall(zap.New(core), "", "").Debug("bare")

	entries := observed.All()
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}

	ctx := entries[0].ContextMap()
	if ctx[FieldService] != "http://api.test" {
		t.Fatalf("expected service field, got %q", ctx[FieldService])
	}
	if ctx[FieldRequestID] != "req-2" {
		t.Fatalf("expected request id field, got %q", ctx[FieldRequestID])
	}

	if len(entries[1].Context) != 0 {
		t.Fatalf("expected no fields, got %+v", entries[1].Context)
	}

	// A nil logger falls back to a no-op one.
	ForCall(nil, "http://api.test", "req-3").Info("dropped")
}

func TestNew(t *testing.T) {
	for _, tc := range []struct {
		name  string
		json  bool
		debug bool
	}{
		{name: "console info", json: false, debug: false},
		{name: "json debug", json: true, debug: true},
	} {
		t.Run(tc.name, func(t *testing.T) {
			logger, err := New(tc.json, tc.debug)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if got := logger.Core().Enabled(zapcore.DebugLevel); got != tc.debug {
				t.Fatalf("expected debug enabled=%v, got %v", tc.debug, got)
			}
		})
	}
}
