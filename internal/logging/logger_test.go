package logging

import (
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func observe(t *testing.T, level zapcore.Level) *observer.ObservedLogs {
	t.Helper()
	core, logs := observer.New(level)
	prev := GetLogger()
	SetLogger(zap.New(core))
	t.Cleanup(func() { SetLogger(prev) })
	return logs
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    zapcore.Level
		wantErr bool
	}{
		{"debug", zapcore.DebugLevel, false},
		{" INFO ", zapcore.InfoLevel, false},
		{"warning", zapcore.WarnLevel, false},
		{"error", zapcore.ErrorLevel, false},
		{"loud", zapcore.InfoLevel, true},
	}
	for _, tt := range tests {
		got, err := ParseLevel(tt.in)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, %v", tt.in, got, err)
		}
	}
}

func TestInitialize_SilentByDefault(t *testing.T) {
	t.Setenv(LogLevelEnvVar, "")
	prev := GetLogger()
	t.Cleanup(func() { SetLogger(prev) })

	if err := Initialize(""); err != nil {
		t.Fatalf("Initialize() error = %v", err)
	}
	if GetLogger().Core().Enabled(zapcore.ErrorLevel) {
		t.Error("logger is enabled without a level")
	}

	t.Setenv(LogLevelEnvVar, "warn")
	if err := InitializeFromEnv(); err != nil {
		t.Fatalf("InitializeFromEnv() error = %v", err)
	}
	if !GetLogger().Core().Enabled(zapcore.WarnLevel) || GetLogger().Core().Enabled(zapcore.InfoLevel) {
		t.Error("AGAMA_LOG_LEVEL=warn did not set the warn level")
	}
}

func TestNamed(t *testing.T) {
	logs := observe(t, zapcore.InfoLevel)

	Named("network").Info("Connection stored", zap.String("id", "eth0"))
	Debug("hidden")

	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("got %d entries, want 1", len(entries))
	}
	if entries[0].LoggerName != "network" || entries[0].ContextMap()["id"] != "eth0" {
		t.Errorf("entry = %+v", entries[0])
	}
}

func TestLogHTTPResponse(t *testing.T) {
	logs := observe(t, zapcore.DebugLevel)
	l := GetLogger()

	LogHTTPResponse(l, "PUT", "http://x/api/network/connections/eth0", 422, []byte(strings.Repeat("e", 600)))
	LogHTTPResponse(l, "GET", "http://x/api/network/devices", 200, []byte("[]"))

	entries := logs.All()
	if len(entries) != 2 {
		t.Fatalf("got %d entries, want 2", len(entries))
	}
	body, ok := entries[0].ContextMap()["body"].(string)
	if !ok || len(body) != maxBodyLog+3 {
		t.Errorf("error body not truncated: %d chars", len(body))
	}
	if _, ok := entries[1].ContextMap()["body"]; ok {
		t.Error("success body was logged")
	}
}

func TestLogHTTPRequest_BodyOnlyAtDebug(t *testing.T) {
	logs := observe(t, zapcore.DebugLevel)
	LogHTTPRequest(GetLogger(), "POST", "http://x/api/network/connections", []byte(`{"id":"eth1"}`))

	if got := logs.FilterField(zap.String("body", `{"id":"eth1"}`)).Len(); got != 1 {
		t.Errorf("request body logged %d times, want 1", got)
	}
}

func TestLogEvent(t *testing.T) {
	logs := observe(t, zapcore.InfoLevel)
	LogEvent(GetLogger(), "published", "replaced", "network", "connections", "eth0")

	if logs.FilterMessage("Change event").FilterField(zap.String("resource_id", "eth0")).Len() != 1 {
		t.Errorf("entries = %+v", logs.All())
	}
}
