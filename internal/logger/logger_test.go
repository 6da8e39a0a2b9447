package logger

import (
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestTruncateForLog(t *testing.T) {
	tests := []struct {
		in    string
		limit int
		want  string
	}{
		{"  short  ", 10, "short"},
		{"abcdef", 3, "abc..."},
		{"anything", 0, ""},
		{"héllo wörld", 5, "héllo..."},
	}
	for _, tt := range tests {
		if got := TruncateForLog(tt.in, tt.limit); got != tt.want {
			t.Errorf("TruncateForLog(%q, %d) = %q, want %q", tt.in, tt.limit, got, tt.want)
		}
	}
}

func TestCommonFields_SkipsEmpty(t *testing.T) {
	fields := CommonFields("anthropic", " ")
	if len(fields) != 1 {
		t.Fatalf("len = %d, want 1", len(fields))
	}
	if fields[0].Key != FieldProvider || fields[0].String != "anthropic" {
		t.Errorf("field = %+v", fields[0])
	}
}

func TestWithFields(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	l := WithFields(zap.New(core), SessionFields("s-1", "c-1")...)
	l.Info("hello")

	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("entries = %d, want 1", len(entries))
	}
	ctx := entries[0].ContextMap()
	if ctx[FieldSession] != "s-1" || ctx[FieldCandidate] != "c-1" {
		t.Errorf("context = %v", ctx)
	}

	if WithFields(nil) == nil {
		t.Error("WithFields(nil) returned nil logger")
	}
}

func TestNew(t *testing.T) {
	for _, json := range []bool{false, true} {
		l, err := New(json, true)
		if err != nil {
			t.Fatalf("New(%v, true): %v", json, err)
		}
		if !l.Core().Enabled(zapcore.DebugLevel) {
			t.Errorf("debug level not enabled for json=%v", json)
		}
	}
}
