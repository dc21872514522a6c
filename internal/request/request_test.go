package request

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

func TestGetSendsHeadersAndParams(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "secret" {
			t.Errorf("expected Authorization header %q, got %q", "secret", got)
		}
		if got := r.URL.Query().Get("lat"); got != "-33.5" {
			t.Errorf("expected lat=-33.5, got %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"hours":[]}`))
	}))
	defer srv.Close()

	c := New(Config{Name: "test", Timeout: time.Second})
	resp, err := c.Get(context.Background(), srv.URL, Options{
		Headers: map[string]string{"Authorization": "secret"},
		Params:  map[string]string{"lat": "-33.5"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Status != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, resp.Status)
	}

	var payload struct {
		Hours []any `json:"hours"`
	}
	if err := resp.Decode(&payload); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if payload.Hours == nil || len(payload.Hours) != 0 {
		t.Fatalf("expected empty hours, got %v", payload.Hours)
	}
}

func TestGetReturnsResponseErrorWithCompactBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte("{ \"errors\": [ \"Rate Limit reached\" ] }\n"))
	}))
	defer srv.Close()

	c := New(Config{Name: "test", Timeout: time.Second})
	_, err := c.Get(context.Background(), srv.URL, Options{})
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if !IsRequestError(err) {
		t.Fatalf("expected a request error, got %T: %v", err, err)
	}

	var respErr *ResponseError
	if !errors.As(err, &respErr) {
		t.Fatalf("expected *ResponseError, got %T", err)
	}
	if respErr.Status != http.StatusTooManyRequests {
		t.Errorf("expected status 429, got %d", respErr.Status)
	}
	if want := `{"errors":["Rate Limit reached"]}`; respErr.Body != want {
		t.Errorf("expected body %s, got %s", want, respErr.Body)
	}
}

func TestGetEncodesNonJSONErrorBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("bad gateway"))
	}))
	defer srv.Close()

	c := New(Config{Name: "test", Timeout: time.Second})
	_, err := c.Get(context.Background(), srv.URL, Options{})

	var respErr *ResponseError
	if !errors.As(err, &respErr) {
		t.Fatalf("expected *ResponseError, got %T: %v", err, err)
	}
	if want := `"bad gateway"`; respErr.Body != want {
		t.Errorf("expected body %s, got %s", want, respErr.Body)
	}
}

func TestGetTransportFailureIsNotRequestError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	c := New(Config{Name: "test", Timeout: time.Second})
	_, err := c.Get(context.Background(), url, Options{})
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if IsRequestError(err) {
		t.Fatalf("transport failure must not be a request error: %v", err)
	}
}

func TestCircuitOpensAfterConsecutiveFailures(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := New(Config{Name: "test", Timeout: time.Second, MaxFailures: 2, OpenTimeout: time.Minute})
	for i := 0; i < 2; i++ {
		if _, err := c.Get(context.Background(), srv.URL, Options{}); !IsRequestError(err) {
			t.Fatalf("attempt %d: expected request error, got %v", i, err)
		}
	}

	_, err := c.Get(context.Background(), srv.URL, Options{})
	if !errors.Is(err, ErrCircuitOpen) {
		t.Fatalf("expected ErrCircuitOpen, got %v", err)
	}
	if IsRequestError(err) {
		t.Fatal("open circuit must not be reported as a request error")
	}
	if got := atomic.LoadInt32(&hits); got != 2 {
		t.Fatalf("expected 2 requests to reach the server, got %d", got)
	}
}

func TestClientErrorsDoNotTripCircuit(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"errors":["bad lat"]}`))
	}))
	defer srv.Close()

	c := New(Config{Name: "test", Timeout: time.Second, MaxFailures: 1})
	for i := 0; i < 3; i++ {
		_, err := c.Get(context.Background(), srv.URL, Options{})
		if errors.Is(err, ErrCircuitOpen) {
			t.Fatalf("attempt %d: circuit should stay closed on 400 responses", i)
		}
	}
}

func TestCancelledCallsDoNotTripCircuit(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"hours":[]}`))
	}))
	defer srv.Close()

	c := New(Config{Name: "test", Timeout: time.Second, MaxFailures: 2, OpenTimeout: time.Minute})

	cancelled, cancel := context.WithCancel(context.Background())
	cancel()
	for i := 0; i < 3; i++ {
		if _, err := c.Get(cancelled, srv.URL, Options{}); !errors.Is(err, context.Canceled) {
			t.Fatalf("attempt %d: expected context.Canceled, got %v", i, err)
		}
	}

	resp, err := c.Get(context.Background(), srv.URL, Options{})
	if err != nil {
		t.Fatalf("expected healthy call after cancellations, got %v", err)
	}
	if resp.Status != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, resp.Status)
	}
}
