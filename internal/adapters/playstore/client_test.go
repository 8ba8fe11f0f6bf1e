package playstore_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"store_reviews/internal/adapters/playstore"
	"store_reviews/internal/domain"
)

func newClient(t *testing.T, base string, style playstore.Style) *playstore.Client {
	t.Helper()
	cl, err := playstore.New(base, style, 2*time.Second, 100) // high RPS for tests
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	return cl
}

func wantKind(t *testing.T, err error, kind domain.Kind) {
	t.Helper()
	var fe *domain.FetchError
	if !errors.As(err, &fe) {
		t.Fatalf("expected *domain.FetchError, got %T (%v)", err, err)
	}
	if fe.Kind != kind {
		t.Fatalf("expected kind %s, got %s (%v)", kind, fe.Kind, err)
	}
}

func TestClient_Generic_RequestShape(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/v1/reviews" {
			t.Errorf("unexpected %s %s", r.Method, r.URL.Path)
		}
		if got := r.URL.Query().Get("source"); got != "com.example.app" {
			t.Errorf("source = %q", got)
		}
		if got := r.URL.Query().Get("maxResults"); got != "10" {
			t.Errorf("maxResults = %q", got)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer tok" {
			t.Errorf("Authorization = %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"reviews":[{"authorName":"Jane"},{"authorName":"Ravi","extra":true}]}`))
	}))
	defer ts.Close()

	cl := newClient(t, ts.URL+"/v1/", playstore.StyleGeneric)
	got, err := cl.FetchReviews(context.Background(), "tok", "com.example.app", 50)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(got) != 2 || got[0]["authorName"] != "Jane" {
		t.Fatalf("unexpected payload: %+v", got)
	}
}

func TestClient_Play_RequestShape(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet || r.URL.Path != "/applications/com.example.app/reviews" {
			t.Errorf("unexpected %s %s", r.Method, r.URL.Path)
		}
		if got := r.URL.Query().Get("maxResults"); got != "3" {
			t.Errorf("maxResults = %q", got)
		}
		_, _ = w.Write([]byte(`{"reviews":[{"reviewId":"1"}]}`))
	}))
	defer ts.Close()

	cl := newClient(t, ts.URL, playstore.StylePlay)
	if _, err := cl.FetchReviews(context.Background(), "tok", "com.example.app", 3); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
}

func TestClient_SingleAttempt(t *testing.T) {
	var hits int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.Header().Set("Retry-After", "30")
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer ts.Close()

	cl := newClient(t, ts.URL, playstore.StyleGeneric)
	_, err := cl.FetchReviews(context.Background(), "tok", "app", 10)
	wantKind(t, err, domain.KindResponse)
	if n := atomic.LoadInt32(&hits); n != 1 {
		t.Fatalf("expected exactly one call, got %d", n)
	}
}

func TestClient_ErrorKinds(t *testing.T) {
	cases := []struct {
		name   string
		status int
		body   string
		kind   domain.Kind
	}{
		{"unauthorized", http.StatusUnauthorized, `{}`, domain.KindCredential},
		{"forbidden", http.StatusForbidden, `{}`, domain.KindCredential},
		{"not found", http.StatusNotFound, `nope`, domain.KindResponse},
		{"malformed", http.StatusOK, `{"reviews":[`, domain.KindResponse},
		{"wrong shape", http.StatusOK, `{"reviews":"x"}`, domain.KindResponse},
		{"empty", http.StatusOK, `{"reviews":[]}`, domain.KindResponse},
		{"missing key", http.StatusOK, `{}`, domain.KindResponse},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				_, _ = w.Write([]byte(tc.body))
			}))
			defer ts.Close()

			_, err := newClient(t, ts.URL, playstore.StyleGeneric).FetchReviews(context.Background(), "tok", "app", 10)
			wantKind(t, err, tc.kind)
		})
	}
}

func TestClient_Timeout(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer ts.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := newClient(t, ts.URL, playstore.StyleGeneric).FetchReviews(ctx, "tok", "app", 10)
	wantKind(t, err, domain.KindTransport)
}

func TestNew_Validation(t *testing.T) {
	if _, err := playstore.New("", playstore.StyleGeneric, time.Second, 1); err == nil {
		t.Fatalf("expected error for empty base")
	}
	if _, err := playstore.New("http://x", playstore.Style("soap"), time.Second, 1); err == nil {
		t.Fatalf("expected error for unknown style")
	}
}
