package log

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func TestZerologAdapter_EmitsFields(t *testing.T) {
	var buf bytes.Buffer
	adapter := NewZerologAdapterWithLogger(zerolog.New(&buf))

	adapter.Info("broker ready",
		String("topic", "documents"),
		Int("pending", 3),
		Int64("offset", 42),
		Bool("connected", true),
		Duration("delay", 5*time.Millisecond),
		Err(errors.New("boom")),
		Any("extra", []string{"a"}),
	)

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("unmarshal log line: %v", err)
	}

	if entry["message"] != "broker ready" {
		t.Errorf("message = %v", entry["message"])
	}
	if entry["topic"] != "documents" {
		t.Errorf("topic = %v", entry["topic"])
	}
	if entry["pending"] != float64(3) {
		t.Errorf("pending = %v", entry["pending"])
	}
	if entry["offset"] != float64(42) {
		t.Errorf("offset = %v", entry["offset"])
	}
	if entry["connected"] != true {
		t.Errorf("connected = %v", entry["connected"])
	}
	if entry["error"] != "boom" {
		t.Errorf("error = %v", entry["error"])
	}
	if entry["level"] != "info" {
		t.Errorf("level = %v", entry["level"])
	}
}

func TestZerologAdapter_Levels(t *testing.T) {
	var buf bytes.Buffer
	adapter := NewZerologAdapterWithLogger(zerolog.New(&buf).Level(zerolog.WarnLevel))

	adapter.Debug("hidden")
	adapter.Info("hidden")
	adapter.Warn("visible")
	adapter.Error("visible")

	lines := bytes.Count(buf.Bytes(), []byte("\n"))
	if lines != 2 {
		t.Errorf("got %d log lines, want 2", lines)
	}
}

func TestNoopLogger(t *testing.T) {
	var l Logger = NewNoopLogger()

	// Must be safe to call at every level with arbitrary fields.
	l.Debug("d", String("k", "v"))
	l.Info("i")
	l.Warn("w", Err(errors.New("x")))
	l.Error("e", Any("k", nil))
}
