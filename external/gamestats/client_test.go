package gamestats

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/riskibarqy/match-history/internal/domain/match"
	"github.com/riskibarqy/match-history/internal/platform/logging"
	"github.com/riskibarqy/match-history/internal/platform/resilience"
	"github.com/riskibarqy/match-history/internal/usecase"
)

func newTestClient(t *testing.T, handler http.HandlerFunc, maxRetries int) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	return NewClient(ClientConfig{
		HTTPClient:      srv.Client(),
		BaseURL:         srv.URL,
		APIKey:          "secret",
		MaxRetries:      maxRetries,
		InitialInterval: time.Millisecond,
		MaxInterval:     2 * time.Millisecond,
		Logger:          logging.NewNop(),
		CircuitBreaker:  resilience.CircuitBreakerConfig{Enabled: false},
	})
}

func TestClient_ListMatchIDsSendsQuery(t *testing.T) {
	t.Parallel()

	var gotQuery, gotKey string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/user/match" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		gotQuery = r.URL.RawQuery
		gotKey = r.Header.Get(apiKeyHeader)
		_, _ = w.Write([]byte(`["m3","m2","m1"]`))
	}, 0)

	ids, err := client.ListMatchIDs(context.Background(), "ouid-1", match.CategoryClassic, 20, 3)
	if err != nil {
		t.Fatalf("list match ids: %v", err)
	}
	if len(ids) != 3 || ids[0] != "m3" {
		t.Fatalf("unexpected ids %v", ids)
	}
	if gotQuery != "limit=3&matchtype=40&offset=20&ouid=ouid-1" {
		t.Fatalf("unexpected query %q", gotQuery)
	}
	if gotKey != "secret" {
		t.Fatalf("expected api key header, got %q", gotKey)
	}
}

func TestClient_RetriesTransientStatus(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(`{"matchId":"m1"}`))
	}, 3)

	raw, err := client.GetMatchDetail(context.Background(), "m1")
	if err != nil {
		t.Fatalf("get match detail: %v", err)
	}
	if string(raw) != `{"matchId":"m1"}` {
		t.Fatalf("unexpected body %s", raw)
	}
	if got := calls.Load(); got != 3 {
		t.Fatalf("expected 3 attempts, got %d", got)
	}
}

func TestClient_HonoursRetryAfter(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		if calls.Add(1) == 1 {
			w.Header().Set("Retry-After", "0")
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		_, _ = w.Write([]byte(`[]`))
	}, 2)

	if _, err := client.ListMatchIDs(context.Background(), "o", match.CategoryOfficial, 0, 10); err != nil {
		t.Fatalf("expected success after rate limit, got %v", err)
	}
	if got := calls.Load(); got != 2 {
		t.Fatalf("expected 2 attempts, got %d", got)
	}
}

func TestClient_NotFoundIsNotRetried(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusNotFound)
	}, 5)

	_, err := client.GetMatchDetail(context.Background(), "gone")
	if !errors.Is(err, ErrEntityAbsent) || !errors.Is(err, usecase.ErrNotFound) {
		t.Fatalf("expected entity absent, got %v", err)
	}
	if got := calls.Load(); got != 1 {
		t.Fatalf("expected a single attempt, got %d", got)
	}
}

func TestClient_ExhaustedRetriesAreDependencyUnavailable(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadGateway)
	}, 2)

	_, err := client.GetMatchDetail(context.Background(), "m1")
	if !errors.Is(err, usecase.ErrDependencyUnavailable) {
		t.Fatalf("expected dependency unavailable, got %v", err)
	}
	if got := calls.Load(); got != 3 {
		t.Fatalf("expected 3 attempts, got %d", got)
	}
}

func TestClient_BadRequestIsPermanent(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadRequest)
	}, 3)

	_, err := client.GetMatchDetail(context.Background(), "m1")
	if err == nil || errors.Is(err, usecase.ErrDependencyUnavailable) {
		t.Fatalf("expected plain permanent error, got %v", err)
	}
	if got := calls.Load(); got != 1 {
		t.Fatalf("expected a single attempt, got %d", got)
	}
}

func TestClient_GetOUID(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("nickname") != "striker" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		_, _ = w.Write([]byte(`{"ouid":"abc123"}`))
	}, 0)

	ouid, err := client.GetOUID(context.Background(), " striker ")
	if err != nil || ouid != "abc123" {
		t.Fatalf("unexpected ouid=%q err=%v", ouid, err)
	}
	if _, err := client.GetOUID(context.Background(), "nobody"); !errors.Is(err, usecase.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestClient_CancelledCallerDoesNotFailCoalescedCaller(t *testing.T) {
	t.Parallel()

	release := make(chan struct{})
	var hits, aborted atomic.Int32
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		select {
		case <-release:
			_, _ = w.Write([]byte(`{"matchId":"m1"}`))
		case <-r.Context().Done():
			aborted.Add(1)
		}
	}, 0)

	firstCtx, cancel := context.WithCancel(context.Background())
	firstErr := make(chan error, 1)
	go func() {
		_, err := client.GetMatchDetail(firstCtx, "m1")
		firstErr <- err
	}()
	for hits.Load() == 0 {
		time.Sleep(time.Millisecond)
	}

	secondDone := make(chan error, 1)
	var second []byte
	go func() {
		var err error
		second, err = client.GetMatchDetail(context.Background(), "m1")
		secondDone <- err
	}()
	time.Sleep(20 * time.Millisecond)

	cancel()
	if err := <-firstErr; !errors.Is(err, context.Canceled) {
		t.Fatalf("expected the first caller to stop with context.Canceled, got %v", err)
	}

	close(release)
	if err := <-secondDone; err != nil {
		t.Fatalf("coalesced caller must not inherit the cancellation: %v", err)
	}
	if string(second) != `{"matchId":"m1"}` {
		t.Fatalf("unexpected body %s", second)
	}
	if aborted.Load() != 0 {
		t.Fatalf("the shared upstream request must not be aborted")
	}
}

func TestRetryAfterSeconds(t *testing.T) {
	if s, ok := retryAfterSeconds("7"); !ok || s != 7 {
		t.Fatalf("expected 7, got %d ok=%v", s, ok)
	}
	if _, ok := retryAfterSeconds(""); ok {
		t.Fatalf("expected missing header to be ignored")
	}
}
