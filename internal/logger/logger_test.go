package logger

import (
	"os"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestZapLoggerWritesObjectUnderKey(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	log := New(zap.New(core))

	log.InfoObj("feed relayed", "feed", map[string]any{"feed_id": "us-top", "published": 2})
	log.DebugObj("page loaded", "page", 3)

	entries := logs.All()
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].Message != "feed relayed" || entries[0].Level != zapcore.InfoLevel {
		t.Fatalf("unexpected first entry %+v", entries[0].Entry)
	}
	fields := entries[0].ContextMap()
	feed, ok := fields["feed"].(map[string]any)
	if !ok || feed["feed_id"] != "us-top" {
		t.Fatalf("unexpected fields %v", fields)
	}
}

func TestZapLoggerHonoursLevel(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	log := New(zap.New(core))

	log.InfoObj("skipped", "k", 1)
	log.WarnObj("kept", "k", 2)
	log.ErrorObj("kept too", "k", 3)

	if logs.Len() != 2 {
		t.Fatalf("expected 2 entries at warn and above, got %d", logs.Len())
	}
}

func TestNilLoggers(t *testing.T) {
	if _, ok := New(nil).(NopLogger); !ok {
		t.Fatalf("New(nil) should be a NopLogger")
	}
	if _, ok := Ensure(nil).(NopLogger); !ok {
		t.Fatalf("Ensure(nil) should be a NopLogger")
	}
	log := New(zap.NewNop())
	if Ensure(log) != log {
		t.Fatalf("Ensure should keep a non-nil logger")
	}
}

func TestParseLevel(t *testing.T) {
	tcs := map[string]zapcore.Level{
		"debug":   zapcore.DebugLevel,
		" WARN ":  zapcore.WarnLevel,
		"warning": zapcore.WarnLevel,
		"error":   zapcore.ErrorLevel,
		"":        zapcore.InfoLevel,
		"verbose": zapcore.InfoLevel,
	}
	for in, want := range tcs {
		if got := parseLevel(in); got != want {
			t.Fatalf("parseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestSink(t *testing.T) {
	if sink("stderr") != os.Stderr {
		t.Fatalf("stderr should map to os.Stderr")
	}
	if sink("stdout") != os.Stdout {
		t.Fatalf("stdout should map to os.Stdout")
	}
}
