package logging

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

func newTestConsoleLogger(buf *bytes.Buffer, level slog.Level) *slog.Logger {
	lvl := new(slog.LevelVar)
	lvl.Set(level)
	return slog.New(newConsoleHandler(buf, lvl))
}

func TestConsoleHandlerLiftsComponent(t *testing.T) {
	var buf bytes.Buffer
	logger := newTestConsoleLogger(&buf, slog.LevelInfo)

	logger.With(String(FieldComponent, "scanner")).Info("scan complete", Int("subjects", 3))

	line := buf.String()
	if !strings.Contains(line, "[scanner]") {
		t.Fatalf("missing component prefix: %q", line)
	}
	if !strings.Contains(line, "subjects=3") {
		t.Fatalf("missing attr: %q", line)
	}
	if strings.Contains(line, "component=") {
		t.Fatalf("component should not appear as key=value: %q", line)
	}
}

func TestConsoleHandlerQuotesSpacedValues(t *testing.T) {
	var buf bytes.Buffer
	logger := newTestConsoleLogger(&buf, slog.LevelInfo)

	logger.Warn("skipped rows", String("reason", "bad age cell"))

	if !strings.Contains(buf.String(), `reason="bad age cell"`) {
		t.Fatalf("expected quoted value: %q", buf.String())
	}
}

func TestConsoleHandlerRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := newTestConsoleLogger(&buf, slog.LevelWarn)

	logger.Info("should be dropped")
	logger.Warn("should appear")

	if strings.Contains(buf.String(), "dropped") {
		t.Fatalf("info record leaked through warn level: %q", buf.String())
	}
	if !strings.Contains(buf.String(), "should appear") {
		t.Fatalf("warn record missing: %q", buf.String())
	}
}

func TestNewRejectsUnknownFormat(t *testing.T) {
	if _, err := New(Options{Format: "yaml"}); err == nil {
		t.Fatal("expected error for unsupported format")
	}
}

func TestParseLevelDefaults(t *testing.T) {
	if got := parseLevel("debug"); got != slog.LevelDebug {
		t.Fatalf("parseLevel(debug) = %v", got)
	}
	if got := parseLevel(""); got != slog.LevelInfo {
		t.Fatalf("parseLevel(empty) = %v", got)
	}
	if got := parseLevel("bogus"); got != slog.LevelInfo {
		t.Fatalf("parseLevel(bogus) = %v", got)
	}
}
