package logging_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"mediasweep/internal/config"
	"mediasweep/internal/logging"
	"mediasweep/internal/services"
)

func decodeJSONLines(t *testing.T, data []byte) []map[string]any {
	t.Helper()
	var records []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(string(data)), "\n") {
		if line == "" {
			continue
		}
		var record map[string]any
		if err := json.Unmarshal([]byte(line), &record); err != nil {
			t.Fatalf("decode json log line %q: %v", line, err)
		}
		records = append(records, record)
	}
	return records
}

func TestNewFromConfigWritesJSONLogFile(t *testing.T) {
	cfg := config.Default()
	cfg.Paths.StateDir = t.TempDir()
	cfg.Logging.Level = "error"

	logger, err := logging.NewFromConfig(&cfg)
	if err != nil {
		t.Fatalf("NewFromConfig returned error: %v", err)
	}
	logger.Error("scan failed", logging.String("root", "/library"))
	logger.Info("filtered out")

	content, err := os.ReadFile(filepath.Join(cfg.LogDir(), logging.LogFileName))
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	records := decodeJSONLines(t, content)
	if len(records) != 1 {
		t.Fatalf("expected one record, got %d: %q", len(records), content)
	}
	if records[0]["msg"] != "scan failed" || records[0]["root"] != "/library" || records[0]["level"] != "error" {
		t.Fatalf("unexpected record %v", records[0])
	}
	if _, ok := records[0]["source"]; !ok {
		t.Fatalf("expected source in file records, got %v", records[0])
	}
}

func TestConsoleLoggerOmitsCallerForInfo(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.New(logging.Options{Format: "console", Level: "info", Console: &buf})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	logger.Info("message without caller")
	logger.Debug("hidden debug message")

	content := buf.String()
	if strings.Contains(content, ".go:") {
		t.Fatalf("expected no caller information in info logs, got %q", content)
	}
	if strings.Contains(content, "hidden debug message") {
		t.Fatalf("debug record leaked at info level: %q", content)
	}
}

func TestConsoleLoggerIncludesCallerForDebug(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.New(logging.Options{Format: "console", Level: "debug", Console: &buf})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	logger.Info("message with caller")

	if content := buf.String(); !strings.Contains(content, "logger_test.go:") {
		t.Fatalf("expected caller information in debug logs, got %q", content)
	}
}

func TestConsoleLoggerRendersComponentAndQuotes(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.New(logging.Options{Format: "console", Level: "info", Console: &buf})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	logging.NewComponentLogger(logger, "search").Info("candidate found",
		logging.String("path", "/lib/My Movie.avi"),
		logging.Group("probe", logging.Int("streams", 3)),
	)

	content := buf.String()
	if !strings.Contains(content, "INFO  search: candidate found") {
		t.Fatalf("expected component prefix, got %q", content)
	}
	if !strings.Contains(content, `path="/lib/My Movie.avi"`) {
		t.Fatalf("expected quoted path, got %q", content)
	}
	if !strings.Contains(content, "probe.streams=3") {
		t.Fatalf("expected flattened group, got %q", content)
	}
	if strings.Contains(content, "component=") {
		t.Fatalf("component should only appear in the prefix: %q", content)
	}
}

func TestConsoleLoggerShortensRunID(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.New(logging.Options{Format: "console", Level: "info", Console: &buf})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	ctx := services.WithRunID(context.Background(), "1a2b3c4d-0000-4000-8000-000000000000")
	logging.WithContext(ctx, logger).Info("run started")

	content := buf.String()
	if !strings.Contains(content, "[1a2b3c4d] run started") {
		t.Fatalf("expected short run id prefix, got %q", content)
	}
	if strings.Contains(content, "run_id=") {
		t.Fatalf("run id should only appear in the prefix: %q", content)
	}
}

func TestNewJSONLogger(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.New(logging.Options{Format: "json", Level: "debug", Console: &buf})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	logger.Info("json message", logging.String("k", "v"), logging.Error(errors.New("boom")))

	records := decodeJSONLines(t, buf.Bytes())
	if len(records) != 1 {
		t.Fatalf("expected one record, got %d", len(records))
	}
	record := records[0]
	if record["msg"] != "json message" || record["level"] != "info" || record["k"] != "v" {
		t.Fatalf("unexpected json record %v", record)
	}
	if _, ok := record["ts"]; !ok {
		t.Fatalf("expected ts key in %v", record)
	}
}

func TestNewRejectsUnknownFormat(t *testing.T) {
	if _, err := logging.New(logging.Options{Format: "xml"}); err == nil {
		t.Fatal("expected error for unsupported format")
	}
}

func TestConsoleAndFileBothReceiveRecords(t *testing.T) {
	var buf bytes.Buffer
	logPath := filepath.Join(t.TempDir(), "logs", "run.log")
	logger, err := logging.New(logging.Options{Format: "console", Level: "info", Console: &buf, FilePath: logPath})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	logger.With(logging.String("command", "import")).Info("replaced", logging.String("target", "/lib/a.mkv"))

	if !strings.Contains(buf.String(), "replaced") || !strings.Contains(buf.String(), "command=import") {
		t.Fatalf("unexpected console output %q", buf.String())
	}
	content, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	records := decodeJSONLines(t, content)
	if len(records) != 1 || records[0]["target"] != "/lib/a.mkv" || records[0]["command"] != "import" {
		t.Fatalf("unexpected file records %v", records)
	}
}

func TestWithContextAddsFields(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.New(logging.Options{Format: "json", Level: "info", Console: &buf})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	ctx := services.WithRunID(context.Background(), "run-42")
	ctx = services.WithCommand(ctx, "import")
	logging.WithContext(ctx, logger).Info("contextual log")

	records := decodeJSONLines(t, buf.Bytes())
	if len(records) != 1 || records[0]["run_id"] != "run-42" || records[0]["command"] != "import" {
		t.Fatalf("unexpected records %v", records)
	}
}

func TestWarnWithContextInjectsDefaults(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.New(logging.Options{Format: "console", Level: "info", Console: &buf})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	logging.WarnWithContext(logger, "history unavailable", "history_open_failed", logging.String(logging.FieldImpact, "run not recorded"))

	content := buf.String()
	if !strings.Contains(content, "event_type=history_open_failed") {
		t.Fatalf("expected event type, got %q", content)
	}
	if !strings.Contains(content, `impact="run not recorded"`) || strings.Contains(content, "run continues") {
		t.Fatalf("expected caller impact to win, got %q", content)
	}
}

func TestNopLoggerDiscards(t *testing.T) {
	logger := logging.NewNop()
	if logger.Enabled(context.Background(), 12) {
		t.Fatal("expected nop logger to be disabled")
	}
	logger.Error("nothing happens")
}
