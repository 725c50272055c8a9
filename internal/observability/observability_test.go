package observability

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/riskibarqy/match-history/internal/config"
	"github.com/riskibarqy/match-history/internal/platform/logging"
	otellog "go.opentelemetry.io/otel/log"
)

func TestInitUptrace_Disabled(t *testing.T) {
	cfg := config.Config{
		UptraceEnabled: false,
		ServiceName:    "match-history-api",
		ServiceVersion: "dev",
		AppEnv:         config.EnvDev,
	}

	shutdown, err := InitUptrace(cfg, logging.NewNop())
	if err != nil {
		t.Fatalf("init uptrace: %v", err)
	}
	if err := shutdown(context.Background()); err != nil {
		t.Fatalf("shutdown uptrace: %v", err)
	}
}

func TestIsQuietRequestLog(t *testing.T) {
	t.Parallel()

	if !isQuietRequestLog("http request", []any{"method", "GET", "path", "/healthz"}) {
		t.Fatalf("expected health check log to be skipped")
	}
	if isQuietRequestLog("http request", []any{"path", "/v1/users/striker/matches"}) {
		t.Fatalf("did not expect match list log to be skipped")
	}
	if isQuietRequestLog("qstash publish request", []any{"path", "/healthz"}) {
		t.Fatalf("did not expect non-request log to be skipped")
	}
}

func TestLogAttributes(t *testing.T) {
	t.Parallel()

	attrs := logAttributes([]any{"match_id", "m-01", "attempt", 2, "error", errors.New("timeout"), "dangling"})
	if len(attrs) != 4 {
		t.Fatalf("expected 4 attributes, got %d", len(attrs))
	}
	if attrs[0].Key != "match_id" || attrs[0].Value.AsString() != "m-01" {
		t.Fatalf("unexpected match_id attribute")
	}
	if attrs[1].Value.Kind() != otellog.KindInt64 || attrs[1].Value.AsInt64() != 2 {
		t.Fatalf("unexpected attempt attribute")
	}
	if attrs[2].Value.AsString() != "timeout" {
		t.Fatalf("unexpected error attribute")
	}
	if attrs[3].Key != "dangling" || attrs[3].Value.Kind() != otellog.KindEmpty {
		t.Fatalf("expected empty value for dangling key")
	}
}

func TestPprofMuxServesIndex(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	pprofMux().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/debug/pprof/", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if srv := StartPprofServer(config.Config{PprofEnabled: false}, logging.NewNop()); srv != nil {
		t.Fatalf("expected no server when disabled")
	}
}
