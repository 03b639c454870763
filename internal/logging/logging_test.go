// ABOUTME: Tests for logger construction.
// ABOUTME: Checks level filtering and formatter selection.
package logging

import (
	"bytes"
	"strings"
	"testing"
)

func TestNewRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Options{Level: "warn", Writer: &buf})

	logger.Info("hidden")
	logger.Warn("shown", "key", "workouts")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("info message should be filtered at warn level: %q", out)
	}
	if !strings.Contains(out, "shown") || !strings.Contains(out, "workouts") {
		t.Errorf("expected warn message with key, got %q", out)
	}
}

func TestNewJSONFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Options{Level: "debug", Format: "json", Writer: &buf})

	logger.Debug("loaded", "count", 3)

	if !strings.HasPrefix(strings.TrimSpace(buf.String()), "{") {
		t.Errorf("expected JSON output, got %q", buf.String())
	}
}

func TestUnknownLevelDefaultsToInfo(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Options{Level: "loud", Writer: &buf})

	logger.Debug("quiet")
	logger.Info("normal")

	if strings.Contains(buf.String(), "quiet") {
		t.Error("debug should be filtered when level is unknown")
	}
	if !strings.Contains(buf.String(), "normal") {
		t.Error("info should pass when level is unknown")
	}
}

func TestDiscard(t *testing.T) {
	Discard().Error("nobody hears this")
}
