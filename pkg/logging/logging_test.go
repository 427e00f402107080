package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]zerolog.Level{
		"":      zerolog.WarnLevel,
		"debug": zerolog.DebugLevel,
		"INFO":  zerolog.InfoLevel,
		"bogus": zerolog.WarnLevel,
	}
	for in, want := range cases {
		if got := ParseLevel(in); got != want {
			t.Fatalf("ParseLevel(%q) = %s, want %s", in, got, want)
		}
	}
}

func TestNewJSONStampsService(t *testing.T) {
	var buf bytes.Buffer
	log := New(Options{Level: "info", JSON: true, Out: &buf})
	log.Debug().Msg("hidden")
	log.Info().Str("key", "taskflow_tasks_v1").Msg("saved")

	var line map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &line); err != nil {
		t.Fatalf("expected one JSON line, got %q: %v", buf.String(), err)
	}
	if line["service"] != Service || line["message"] != "saved" {
		t.Fatalf("unexpected event %v", line)
	}
}

func TestNewConsoleIsPlainForBuffers(t *testing.T) {
	var buf bytes.Buffer
	log := New(Options{Level: "warn", Out: &buf})
	log.Warn().Msg("bucket unreadable")
	if !bytes.Contains(buf.Bytes(), []byte("bucket unreadable")) {
		t.Fatalf("expected message in %q", buf.String())
	}
	if bytes.Contains(buf.Bytes(), []byte("\x1b[")) {
		t.Fatalf("expected no color codes for a buffer, got %q", buf.String())
	}
}
