package mylogger

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func TestLoggerWritesStructuredJSON(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter(LevelDebug, &buf)

	log.Action("login").Info("session stored", "user", "awa@example.sn")

	var rec map[string]any
	if err := json.Unmarshal(buf.Bytes(), &rec); err != nil {
		t.Fatalf("decode record: %v (%s)", err, buf.String())
	}
	if rec["message"] != "session stored" {
		t.Errorf("message = %v", rec["message"])
	}
	if rec["action"] != "login" {
		t.Errorf("action = %v", rec["action"])
	}
	if _, ok := rec["timestamp"]; !ok {
		t.Error("missing timestamp")
	}
	if id, _ := rec["request_id"].(string); id == "" {
		t.Error("missing request_id")
	}
}

func TestLoggerLevelFilter(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter(LevelWarn, &buf)

	log.Info("hidden")
	log.Debug("hidden too")
	if buf.Len() != 0 {
		t.Fatalf("expected no output below WARN, got %q", buf.String())
	}

	log.Error("request failed", errors.New("boom"))
	if !strings.Contains(buf.String(), "boom") {
		t.Errorf("error record does not carry the cause: %q", buf.String())
	}
}

func TestParseLevelDefaultsToWarn(t *testing.T) {
	if got := parseLevel("nonsense").Level().String(); got != "WARN" {
		t.Errorf("default level = %s", got)
	}
	if got := parseLevel("debug").Level().String(); got != "DEBUG" {
		t.Errorf("lowercase debug = %s", got)
	}
}
