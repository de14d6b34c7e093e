package logging

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"
)

func TestNew_AutoFormatIsJSONOffTerminal(t *testing.T) {
	var buf bytes.Buffer
	log, _, err := New(Options{Level: "info", Format: "auto", Writer: &buf})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	log.Debug("hidden")
	log.Warn("recording rejected", zap.String("recording", "7"), zap.Float64("value", 21))
	_ = log.Sync()

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("expected one entry, got %d: %q", len(lines), buf.String())
	}
	var entry map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &entry); err != nil {
		t.Fatalf("expected json entry: %v", err)
	}
	if entry["msg"] != "recording rejected" || entry["level"] != "warn" || entry["recording"] != "7" {
		t.Fatalf("unexpected entry %v", entry)
	}
}

func TestNew_ConsoleFormat(t *testing.T) {
	var buf bytes.Buffer
	log, _, err := New(Options{Level: "debug", Format: "console", Writer: &buf})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	log.Debug("decoding audio", zap.String("audio", "talk.mp3"))
	_ = log.Sync()
	out := buf.String()
	if !strings.Contains(out, "DEBUG") || !strings.Contains(out, "decoding audio") || !strings.Contains(out, "talk.mp3") {
		t.Fatalf("unexpected console output %q", out)
	}
}

func TestNew_FileReceivesDebug(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "asrprep.log")
	var buf bytes.Buffer
	log, closeLog, err := New(Options{Level: "warn", Format: "json", File: path, Writer: &buf})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	log.Debug("only in file")
	if err := closeLog(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if err := closeLog(); !errors.Is(err, os.ErrClosed) {
		t.Fatalf("expected log file closed, second close returned %v", err)
	}
	if buf.Len() != 0 {
		t.Fatalf("expected nothing on the console writer, got %q", buf.String())
	}
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if !strings.Contains(string(b), "only in file") {
		t.Fatalf("expected debug entry in file, got %q", string(b))
	}
}

func TestNew_RejectsBadOptions(t *testing.T) {
	if _, _, err := New(Options{Level: "loud"}); err == nil {
		t.Fatal("expected level error")
	}
	if _, _, err := New(Options{Format: "xml", Writer: &bytes.Buffer{}}); err == nil {
		t.Fatal("expected format error")
	}
}

func TestNew_CloseWithoutFile(t *testing.T) {
	_, closeLog, err := New(Options{Format: "json", Writer: &bytes.Buffer{}})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if err := closeLog(); err != nil {
		t.Fatalf("close: %v", err)
	}
}
