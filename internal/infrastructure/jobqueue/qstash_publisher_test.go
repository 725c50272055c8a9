package jobqueue

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/riskibarqy/match-history/internal/platform/logging"
	"github.com/riskibarqy/match-history/internal/platform/resilience"
)

func TestQStashPublisher_EnqueueSetsHeaders(t *testing.T) {
	t.Parallel()

	var gotPath, gotAuth, gotDedup, gotForward, gotBody string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		gotDedup = r.Header.Get("Upstash-Deduplication-Id")
		gotForward = r.Header.Get("Upstash-Forward-X-Internal-Job-Token")
		raw, _ := io.ReadAll(r.Body)
		gotBody = string(raw)
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	p := NewQStashPublisher(QStashPublisherConfig{
		BaseURL:          srv.URL,
		Token:            "qtoken",
		TargetBaseURL:    "https://api.example.com",
		InternalJobToken: "internal",
	}, logging.NewNop())

	err := p.Enqueue(context.Background(), "v1/internal/jobs/extract-match", map[string]any{"match_record_id": 12}, 0, "extract-12")
	if err != nil {
		t.Fatalf("enqueue: %v", err)
	}
	if !strings.HasSuffix(gotPath, "/v2/publish/https://api.example.com/v1/internal/jobs/extract-match") {
		t.Fatalf("unexpected publish path %q", gotPath)
	}
	if gotAuth != "Bearer qtoken" || gotDedup != "extract-12" || gotForward != "internal" {
		t.Fatalf("unexpected headers auth=%q dedup=%q forward=%q", gotAuth, gotDedup, gotForward)
	}
	if !strings.Contains(gotBody, `"match_record_id":12`) {
		t.Fatalf("unexpected body %s", gotBody)
	}
}

func TestQStashPublisher_TransientFailuresOpenCircuit(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	p := NewQStashPublisher(QStashPublisherConfig{
		BaseURL:       srv.URL,
		TargetBaseURL: "https://api.example.com",
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          true,
			FailureThreshold: 2,
			OpenTimeout:      time.Minute,
			HalfOpenMaxReq:   1,
		},
	}, logging.NewNop())

	for i := 0; i < 3; i++ {
		if err := p.Enqueue(context.Background(), "/jobs", nil, 0, ""); err == nil {
			t.Fatalf("expected error on attempt %d", i)
		}
	}
	if got := calls.Load(); got != 2 {
		t.Fatalf("expected circuit to short-circuit the third call, got %d upstream calls", got)
	}
}

func TestQStashPublisher_RejectsInvalidTarget(t *testing.T) {
	t.Parallel()

	p := NewQStashPublisher(QStashPublisherConfig{BaseURL: "https://qstash.example.com", TargetBaseURL: "ftp://x"}, logging.NewNop())
	if err := p.Enqueue(context.Background(), "/jobs", nil, 0, ""); err == nil {
		t.Fatalf("expected invalid target error")
	}
}

func TestBuildQStashCurlPreview_MasksSecrets(t *testing.T) {
	got := buildQStashCurlPreview("https://q/v2/publish/x", "/x", "5s", 3, "d1", `{"a":"it's"}`, true)
	if strings.Contains(got, "qtoken") || !strings.Contains(got, "Bearer ***") {
		t.Fatalf("expected masked authorization, got %s", got)
	}
	if !strings.Contains(got, "Upstash-Delay: 5s") || !strings.Contains(got, "Upstash-Retries: 3") {
		t.Fatalf("expected delay and retries headers, got %s", got)
	}
	if !strings.Contains(got, `'{"a":"it'"'"'s"}'`) {
		t.Fatalf("expected shell quoted body, got %s", got)
	}
}
