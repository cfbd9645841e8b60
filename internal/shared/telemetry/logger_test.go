package telemetry

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func TestWriteJSONLine(t *testing.T) {
	var buf bytes.Buffer
	restore := SetOutput(&buf)
	defer restore()

	Info("analysis.status", map[string]any{"status": "completed", "msg": "overridden"})

	var payload map[string]any
	if err := json.Unmarshal([]byte(strings.TrimSpace(buf.String())), &payload); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if payload["level"] != "info" || payload["msg"] != "analysis.status" || payload["status"] != "completed" {
		t.Fatalf("unexpected payload %v", payload)
	}
	if _, ok := payload["ts"]; !ok {
		t.Fatalf("missing ts")
	}
}

func TestUnmarshalableFieldFallsBack(t *testing.T) {
	var buf bytes.Buffer
	restore := SetOutput(&buf)
	defer restore()

	Error("bad", map[string]any{"ch": make(chan int)})
	if !strings.Contains(buf.String(), "logger marshal failed") {
		t.Fatalf("expected fallback line, got %q", buf.String())
	}
}
