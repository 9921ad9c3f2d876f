package metasearch

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"golang.org/x/time/rate"

	"github.com/Olamide1/leadengine/internal/lead"
	"github.com/Olamide1/leadengine/internal/provider"
)

func fastPool(instances ...string) *Pool {
	return &Pool{
		Instances: instances,
		Limiter:   rate.NewLimiter(rate.Inf, 1),
		JitterMax: time.Nanosecond,
	}
}

func jsonHandler(results ...map[string]any) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{"results": results})
	}
}

func TestFetch_ParsesResults(t *testing.T) {
	srv := httptest.NewServer(jsonHandler(
		map[string]any{"title": "Clinic", "url": "https://clinic.ng", "content": "snippet"},
		map[string]any{"title": "NoURL", "url": "", "content": "x"},
	))
	defer srv.Close()

	p := fastPool(srv.URL)
	got, err := p.Fetch(context.Background(), lead.Intent{RawQuery: "clinics"}, 5)
	if err != nil {
		t.Fatalf("fetch error: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 valid result, got %d", len(got))
	}
	if got[0].Link != "https://clinic.ng" || got[0].Source != "metasearch" {
		t.Fatalf("unexpected result: %+v", got[0])
	}
}

func TestFetch_SingleRateLimitedInstanceDoesNotAbort(t *testing.T) {
	blocked := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer blocked.Close()
	healthy := httptest.NewServer(jsonHandler(
		map[string]any{"title": "Clinic", "url": "https://clinic.ng", "content": "s"},
	))
	defer healthy.Close()

	// Whatever the shuffle order, the healthy instance must win.
	p := fastPool(blocked.URL, healthy.URL)
	got, err := p.Fetch(context.Background(), lead.Intent{RawQuery: "clinics"}, 5)
	if err != nil {
		t.Fatalf("one blocked mirror must not abort the provider: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 result, got %d", len(got))
	}
}

func TestFetch_AllInstancesRateLimited(t *testing.T) {
	h := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	})
	a := httptest.NewServer(h)
	defer a.Close()
	b := httptest.NewServer(h)
	defer b.Close()

	p := fastPool(a.URL, b.URL)
	_, err := p.Fetch(context.Background(), lead.Intent{RawQuery: "q"}, 5)
	if !provider.IsKind(err, provider.KindRateLimited) {
		t.Fatalf("expected RateLimited when every instance is limited, got %v", err)
	}
}

func TestFetch_NonJSONInstanceIsNotARateLimitVerdict(t *testing.T) {
	limited := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer limited.Close()
	blockedHTML := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte("<html>challenge</html>"))
	}))
	defer blockedHTML.Close()

	p := fastPool(limited.URL, blockedHTML.URL)
	_, err := p.Fetch(context.Background(), lead.Intent{RawQuery: "q"}, 5)
	if err == nil {
		t.Fatal("expected an error")
	}
	if provider.IsKind(err, provider.KindRateLimited) {
		t.Fatalf("a blocked non-JSON instance must not produce a pool-wide rate-limit verdict, got %v", err)
	}
}

func TestFetch_RateLimitedInstanceRemembered(t *testing.T) {
	calls := 0
	limited := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls++
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer limited.Close()

	p := fastPool(limited.URL)
	_, _ = p.Fetch(context.Background(), lead.Intent{RawQuery: "q"}, 5)
	_, err := p.Fetch(context.Background(), lead.Intent{RawQuery: "q"}, 5)
	if calls != 1 {
		t.Fatalf("rate-limited instance must be skipped on the next run, calls=%d", calls)
	}
	if !provider.IsKind(err, provider.KindRateLimited) {
		t.Fatalf("cooling-down pool should report rate limited, got %v", err)
	}
}

func TestFetch_NoInstancesIsFatal(t *testing.T) {
	p := &Pool{}
	_, err := p.Fetch(context.Background(), lead.Intent{RawQuery: "q"}, 5)
	if !provider.IsKind(err, provider.KindFatal) {
		t.Fatalf("expected fatal for empty pool, got %v", err)
	}
}
