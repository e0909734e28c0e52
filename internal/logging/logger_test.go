package logging

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected Level
	}{
		{"debug", LevelDebug},
		{"info", LevelInfo},
		{"warn", LevelWarn},
		{"WARNING", LevelWarn},
		{"error", LevelError},
		{"invalid", LevelInfo},
		{"", LevelInfo},
	}

	for _, tc := range tests {
		t.Run(tc.input, func(t *testing.T) {
			if got := ParseLevel(tc.input); got != tc.expected {
				t.Errorf("ParseLevel(%q) = %v, want %v", tc.input, got, tc.expected)
			}
		})
	}
}

func TestLevelString(t *testing.T) {
	if got := Level(99).String(); got != "unknown" {
		t.Errorf("Level(99).String() = %q, want unknown", got)
	}
	if got := LevelWarn.String(); got != "warn" {
		t.Errorf("LevelWarn.String() = %q, want warn", got)
	}
}

func TestParseFormat(t *testing.T) {
	if ParseFormat("text") != FormatText {
		t.Error("expected text format")
	}
	if ParseFormat("json") != FormatJSON {
		t.Error("expected json format")
	}
	if ParseFormat("yaml") != FormatJSON {
		t.Error("expected json as default format")
	}
}

func TestLoggerJSONOutput(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Level: LevelInfo, Format: FormatJSON, Output: &buf})

	l.Infof("function cleaned", map[string]any{"function": "fn", "deleted": 2})

	var entry Entry
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("failed to parse JSON log output: %v", err)
	}
	if entry.Message != "function cleaned" {
		t.Errorf("message = %q, want %q", entry.Message, "function cleaned")
	}
	if entry.Level != "info" {
		t.Errorf("level = %q, want info", entry.Level)
	}
	if entry.Timestamp.IsZero() {
		t.Error("timestamp should not be zero")
	}
	if entry.Fields["function"] != "fn" {
		t.Errorf("fields[function] = %v, want fn", entry.Fields["function"])
	}
	if entry.Fields["deleted"] != float64(2) {
		t.Errorf("fields[deleted] = %v, want 2", entry.Fields["deleted"])
	}
}

func TestLoggerLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Level: LevelWarn, Output: &buf})

	l.Debug("debug msg")
	l.Info("info msg")
	if buf.Len() > 0 {
		t.Error("debug/info should be filtered at warn level")
	}

	l.Warn("warn msg")
	if buf.Len() == 0 {
		t.Error("warn should be logged at warn level")
	}

	l.SetLevel(LevelError)
	buf.Reset()
	l.Warn("filtered")
	if buf.Len() > 0 {
		t.Error("warn should be filtered after SetLevel(Error)")
	}
	if l.GetLevel() != LevelError {
		t.Errorf("GetLevel() = %v, want error", l.GetLevel())
	}
}

func TestLoggerWithDoesNotMutateParent(t *testing.T) {
	var buf bytes.Buffer
	parent := New(Config{Level: LevelInfo, Output: &buf})
	child := parent.With(map[string]any{"function": "fn"})

	parent.Info("parent")
	var entry Entry
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("failed to parse JSON: %v", err)
	}
	if _, ok := entry.Fields["function"]; ok {
		t.Error("parent logger should not carry child fields")
	}

	buf.Reset()
	child.Info("child")
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("failed to parse JSON: %v", err)
	}
	if entry.Fields["function"] != "fn" {
		t.Errorf("fields[function] = %v, want fn", entry.Fields["function"])
	}
}

func TestLoggerWithInvocationID(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Level: LevelInfo, Output: &buf}).WithInvocationID("req-1")

	l.Info("run started")

	var entry Entry
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("failed to parse JSON: %v", err)
	}
	if entry.InvocationID != "req-1" {
		t.Errorf("invocationId = %q, want req-1", entry.InvocationID)
	}
}

func TestLoggerTextOutput(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Level: LevelDebug, Format: FormatText, Output: &buf}).WithInvocationID("req-2")

	l.Errorf("run failed", map[string]any{
		"function": "fn",
		"error":    errors.New("boom"),
		"pending":  3,
	})

	out := buf.String()
	for _, want := range []string{"[error] run failed", "invocationId=req-2", "function=fn", `error="boom"`, "pending=3"} {
		if !strings.Contains(out, want) {
			t.Errorf("text output %q missing %q", out, want)
		}
	}
	if strings.Index(out, "error=") > strings.Index(out, "function=") {
		t.Errorf("fields should be sorted by key: %q", out)
	}
}

func TestLoggerCaller(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Level: LevelInfo, Output: &buf, AddCaller: true})

	l.Info("with caller")

	var entry Entry
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("failed to parse JSON: %v", err)
	}
	if !strings.HasSuffix(entry.File, "logger_test.go") {
		t.Errorf("file = %q, want logger_test.go", entry.File)
	}
	if entry.Line == 0 {
		t.Error("line should be set")
	}
}

func TestDiscard(t *testing.T) {
	l := Discard()
	l.Error("dropped")
	if l.GetLevel() <= LevelError {
		t.Error("discard logger should filter every level")
	}
}
