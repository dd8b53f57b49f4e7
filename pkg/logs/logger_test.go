package logs

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		name    string
		want    slog.Level
		wantErr bool
	}{
		{"debug", slog.LevelDebug, false},
		{"INFO", slog.LevelInfo, false},
		{"", slog.LevelWarn, false},
		{"warn", slog.LevelWarn, false},
		{"error", slog.LevelError, false},
		{"trace", 0, true},
	}
	for _, tt := range tests {
		got, err := ParseLevel(tt.name)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseLevel(%q) error = %v", tt.name, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseLevel(%q) = %v; want %v", tt.name, got, tt.want)
		}
	}
}

func TestLoggerLevelFilter(t *testing.T) {
	var buf bytes.Buffer
	logger, closer, err := New(Options{Level: "info", Writer: &buf})
	if err != nil {
		t.Fatal(err)
	}
	defer closer.Close()

	logger.Debug("hidden")
	logger.Info("shown", "tokens", 3)

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("debug record leaked at info level:\n%s", out)
	}
	if !strings.Contains(out, "msg=shown tokens=3") {
		t.Errorf("info record missing:\n%s", out)
	}
}

func TestLoggerFanOutToFile(t *testing.T) {
	var buf bytes.Buffer
	path := filepath.Join(t.TempDir(), "exprcc.log")
	logger, closer, err := New(Options{Level: "debug", Writer: &buf, File: path})
	if err != nil {
		t.Fatal(err)
	}
	logger.Debug("parsed", "ast", "(1 PLUS 2)")
	if err := closer.Close(); err != nil {
		t.Fatal(err)
	}

	if !strings.Contains(buf.String(), "msg=parsed") {
		t.Errorf("terminal handler missed record:\n%s", buf.String())
	}

	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var record map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(content), &record); err != nil {
		t.Fatalf("log file is not a JSON record: %v\n%s", err, content)
	}
	if record["msg"] != "parsed" || record["ast"] != "(1 PLUS 2)" {
		t.Errorf("unexpected record %v", record)
	}
}

func TestLoggerErrors(t *testing.T) {
	if _, _, err := New(Options{Level: "loud"}); err == nil {
		t.Error("expected error for unknown level")
	}
	dir := t.TempDir()
	if _, _, err := New(Options{File: filepath.Join(dir, "missing", "x.log")}); err == nil {
		t.Error("expected error for unwritable log file")
	}
}

func TestToJournalKey(t *testing.T) {
	if got := toJournalKey("exit_status"); got != "EXIT_STATUS" {
		t.Errorf("got %q", got)
	}
	if got := toJournalKey("ast.node-1"); got != "AST_NODE_1" {
		t.Errorf("got %q", got)
	}
}
