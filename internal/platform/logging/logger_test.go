package logging

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	sonic "github.com/bytedance/sonic"
)

func TestLogger_WritesKeyValueFields(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Options{Level: LevelInfo, Service: "match-history", Output: &buf})

	logger.WarnContext(context.Background(), "fetch failed", "match_id", "m1", "error", errors.New("timeout"))

	var line map[string]any
	if err := sonic.Unmarshal(bytes.TrimSpace(buf.Bytes()), &line); err != nil {
		t.Fatalf("decode log line %q: %v", buf.String(), err)
	}
	if line["msg"] != "fetch failed" {
		t.Fatalf("unexpected msg: %v", line["msg"])
	}
	if line["match_id"] != "m1" || line["error"] != "timeout" || line["service"] != "match-history" {
		t.Fatalf("unexpected fields: %v", line)
	}
}

func TestLogger_LevelFilters(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Options{Level: LevelWarn, Output: &buf})

	logger.Info("dropped")
	logger.Debug("dropped")
	if buf.Len() != 0 {
		t.Fatalf("expected nothing below warn, got %q", buf.String())
	}

	logger.With("component", "gate").Error("kept", "dangling")
	if !strings.Contains(buf.String(), `"component":"gate"`) || !strings.Contains(buf.String(), `"dangling":null`) {
		t.Fatalf("unexpected output %q", buf.String())
	}
}

func TestLogger_NilReceiverFallsBackToDefault(t *testing.T) {
	var l *Logger
	l.Info("no panic")
}

func TestLogger_MirrorSeesEnabledEntriesOnly(t *testing.T) {
	var got []string
	SetMirror(func(_ context.Context, level Level, msg string, _ ...any) {
		got = append(got, level.String()+":"+msg)
	})
	defer SetMirror(nil)

	logger := New(Options{Level: LevelInfo, Output: &bytes.Buffer{}})
	logger.Debug("skipped")
	logger.Warn("mirrored")

	if len(got) != 1 || got[0] != "warn:mirrored" {
		t.Fatalf("unexpected mirrored entries: %v", got)
	}
}
