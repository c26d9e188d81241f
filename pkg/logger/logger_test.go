package logger

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/goccy/go-json"
)

func TestNewLogger(t *testing.T) {
	// Create a new logger without webhooks
	l := NewLogger("", "")
	if l == nil {
		t.Fatal("Expected logger to be created, got nil")
	}

	// Test that logger methods don't panic
	l.Info("Test info message", "TEST")
	l.Warn("Test warning message", "TEST")
	l.Debug("Test debug message", "TEST")
	l.System("Test system message", "TEST")
	l.Success("Test success message", "TEST")

	l.Close()
}

func TestLogLevelString(t *testing.T) {
	tests := []struct {
		level    LogLevel
		expected string
	}{
		{LevelCritical, "CRITICAL"},
		{LevelError, "ERROR"},
		{LevelWarn, "WARN"},
		{LevelSuccess, "SUCCESS"},
		{LevelInfo, "INFO"},
		{LevelDebug, "DEBUG"},
		{LevelSystem, "SYSTEM"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			if got := tt.level.String(); got != tt.expected {
				t.Errorf("LogLevel.String() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestLogLevelColor(t *testing.T) {
	levels := []LogLevel{
		LevelCritical,
		LevelError,
		LevelWarn,
		LevelSuccess,
		LevelInfo,
		LevelDebug,
		LevelSystem,
	}

	for _, level := range levels {
		t.Run(level.String(), func(t *testing.T) {
			color := level.Color()
			if color == "" {
				t.Error("Expected color to be non-empty")
			}
		})
	}
}

func TestLogLevelDiscordColor(t *testing.T) {
	tests := []struct {
		level LogLevel
		color int
	}{
		{LevelCritical, 0xFF0000},
		{LevelError, 0xFF0000},
		{LevelWarn, 0xFFFF00},
		{LevelSuccess, 0x00FF00},
		{LevelInfo, 0x0000FF},
		{LevelDebug, 0x800080},
		{LevelSystem, 0x808080},
	}

	for _, tt := range tests {
		t.Run(tt.level.String(), func(t *testing.T) {
			if got := tt.level.DiscordColor(); got != tt.color {
				t.Errorf("LogLevel.DiscordColor() = %v, want %v", got, tt.color)
			}
		})
	}
}

func TestLogFileCreation(t *testing.T) {
	logsDir := filepath.Join(t.TempDir(), "logs")

	l := New(Options{Dir: logsDir, Console: io.Discard})
	defer l.Close()

	// Check that logs directory was created
	if _, err := os.Stat(logsDir); os.IsNotExist(err) {
		t.Error("Expected logs directory to be created")
	}

	// Check that log files were created
	combinedLog := filepath.Join(logsDir, "combined.log")
	errorLog := filepath.Join(logsDir, "error.log")

	if _, err := os.Stat(combinedLog); os.IsNotExist(err) {
		t.Error("Expected combined.log to be created")
	}

	if _, err := os.Stat(errorLog); os.IsNotExist(err) {
		t.Error("Expected error.log to be created")
	}
}

func TestGlobalLoggerInit(t *testing.T) {
	// Reset the global logger for this test
	logger = nil
	once = sync.Once{}

	l := Init("", "")
	if l == nil {
		t.Fatal("Expected Init to return a logger")
	}

	// Calling Init again should return the same logger
	l2 := Init("different", "different")
	if l != l2 {
		t.Error("Expected Init to return the same logger on subsequent calls")
	}

	// Get should return the same logger
	l3 := Get()
	if l != l3 {
		t.Error("Expected Get to return the same logger")
	}

	l.Close()
}

func TestFileOutputSplitsErrors(t *testing.T) {
	dir := t.TempDir()
	var console bytes.Buffer

	l := New(Options{Dir: dir, Console: &console})
	l.Info("nivel alcanzado", "Levels")
	l.Critical("falló el guardado", "Storage")
	l.Close()

	combined, err := os.ReadFile(filepath.Join(dir, "combined.log"))
	if err != nil {
		t.Fatal(err)
	}
	errorsLog, err := os.ReadFile(filepath.Join(dir, "error.log"))
	if err != nil {
		t.Fatal(err)
	}

	if !strings.Contains(string(combined), "nivel alcanzado") || !strings.Contains(string(combined), "falló el guardado") {
		t.Errorf("combined.log missing lines:\n%s", combined)
	}
	if !strings.Contains(string(combined), "prefix=Levels") {
		t.Errorf("combined.log missing prefix field:\n%s", combined)
	}
	if strings.Contains(string(errorsLog), "nivel alcanzado") {
		t.Errorf("error.log should only hold errors:\n%s", errorsLog)
	}
	if !strings.Contains(string(errorsLog), "severity=CRITICAL") {
		t.Errorf("error.log missing critical line:\n%s", errorsLog)
	}
	if !strings.Contains(console.String(), "[Storage]: falló el guardado") {
		t.Errorf("console output = %q", console.String())
	}
}

func TestWebhookRouting(t *testing.T) {
	received := make(chan map[string]interface{}, 2)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]interface{}
		if err := json.NewDecoder(r.Body).Decode(&body); err == nil {
			body["path"] = r.URL.Path
			received <- body
		}
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	l := New(Options{
		Dir:             t.TempDir(),
		Console:         io.Discard,
		ErrorWebhookURL: srv.URL + "/errors",
		LogsWebhookURL:  srv.URL + "/logs",
	})
	defer l.Close()

	l.Error("boom", "TEST")

	select {
	case body := <-received:
		if body["path"] != "/errors" {
			t.Errorf("error sent to %v, want /errors", body["path"])
		}
		embeds, ok := body["embeds"].([]interface{})
		if !ok || len(embeds) != 1 {
			t.Fatalf("embeds = %v", body["embeds"])
		}
		embed := embeds[0].(map[string]interface{})
		if embed["title"] != "[ERROR] TEST" {
			t.Errorf("title = %v, want [ERROR] TEST", embed["title"])
		}
	case <-time.After(2 * time.Second):
		t.Fatal("webhook was not called")
	}
}
