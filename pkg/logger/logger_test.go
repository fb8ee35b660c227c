/*
Copyright © 2025 3 Leaps <info@3leaps.net>
*/
package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"log"
	"strings"
	"testing"
	"time"
)

func TestLevelString(t *testing.T) {
	tests := []struct {
		level    Level
		expected string
	}{
		{TraceLevel, "TRACE"},
		{DebugLevel, "DEBUG"},
		{InfoLevel, "INFO"},
		{WarnLevel, "WARN"},
		{ErrorLevel, "ERROR"},
		{Level(999), "UNKNOWN"},
	}

	for _, test := range tests {
		if result := test.level.String(); result != test.expected {
			t.Errorf("Level.String() = %v, expected %v", result, test.expected)
		}
	}
}

func TestParseLevel(t *testing.T) {
	tests := map[string]Level{
		"trace":   TraceLevel,
		"DEBUG":   DebugLevel,
		" info ":  InfoLevel,
		"warning": WarnLevel,
		"error":   ErrorLevel,
		"bogus":   InfoLevel,
		"":        InfoLevel,
	}
	for in, want := range tests {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestInitializeUsesConfiguredOutput(t *testing.T) {
	var buf bytes.Buffer
	if err := Initialize(Config{Level: InfoLevel, Component: "lineage", Output: &buf}); err != nil {
		t.Fatalf("Initialize() failed: %v", err)
	}
	t.Cleanup(func() { defaultLogger = nil })

	Info("Staged documents", Int("count", 5))
	Debug("hidden")

	out := buf.String()
	if !strings.Contains(out, "[INFO] lineage: Staged documents {count=5}") {
		t.Errorf("unexpected output %q", out)
	}
	if strings.Contains(out, "hidden") {
		t.Error("debug entry should be filtered at info level")
	}
}

func TestPrettyFormattingSortsFields(t *testing.T) {
	var buf bytes.Buffer
	l := &Logger{config: Config{Level: InfoLevel}, logger: log.New(&buf, "", 0)}

	entry := LogEntry{
		Time:      time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC),
		Level:     "WARN",
		Message:   "report skipped",
		Component: "lineage",
		Fields:    map[string]interface{}{"zeta": 1, "alpha": "a", "mid": true},
	}

	got := l.formatPretty(entry)
	want := "2025-01-01 12:00:00 [WARN] lineage: report skipped {alpha=a, mid=true, zeta=1}"
	if got != want {
		t.Errorf("formatPretty() = %q, want %q", got, want)
	}
}

func TestPrettyFormattingColor(t *testing.T) {
	l := &Logger{config: Config{UseColor: true}}
	got := l.formatPretty(LogEntry{Time: time.Now(), Level: "ERROR", Message: "boom"})
	if !strings.Contains(got, "\033[31mERROR\033[0m") {
		t.Errorf("expected colored level, got %q", got)
	}
}

func TestWithCarriesFields(t *testing.T) {
	var buf bytes.Buffer
	if err := Initialize(Config{Level: TraceLevel, JSON: true, Output: &buf}); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { defaultLogger = nil })

	run := With(String("run_id", "r-1"))
	run.Warn("moving", Strings("contacts", []string{"a", "b"}), Err(errors.New("nope")))

	var entry LogEntry
	if err := json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry); err != nil {
		t.Fatalf("output is not JSON: %v (%q)", err, buf.String())
	}
	if entry.Level != "WARN" || entry.Message != "moving" {
		t.Errorf("unexpected entry %+v", entry)
	}
	if entry.Fields["run_id"] != "r-1" || entry.Fields["error"] != "nope" {
		t.Errorf("missing fields in %+v", entry.Fields)
	}
}

func TestDebugAddsCaller(t *testing.T) {
	var buf bytes.Buffer
	if err := Initialize(Config{Level: TraceLevel, Output: &buf}); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { defaultLogger = nil })

	Debug("with caller")
	if !strings.Contains(buf.String(), "logger_test.go:") {
		t.Errorf("expected caller location in %q", buf.String())
	}
}

func TestNilLoggerIsSafe(t *testing.T) {
	defaultLogger = nil
	var l *Logger
	l.Info("ignored")
	l.With(String("k", "v")).Error("ignored")
	if With(String("k", "v")) != nil {
		t.Error("With() should return nil before Initialize")
	}
	Warn("ignored")
	Error("ignored")
	Trace("ignored")
	SetOutput(&bytes.Buffer{})
}

func TestDurationField(t *testing.T) {
	f := Duration("elapsed", 1500*time.Millisecond)
	if f.Value != "1.5s" {
		t.Errorf("Duration field = %v", f.Value)
	}
}
