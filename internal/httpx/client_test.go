package httpx

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestGetJSON_OK(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("X-Key") != "secret" {
			t.Errorf("header not forwarded")
		}
		_, _ = w.Write([]byte(`{"value": 3}`))
	}))
	defer srv.Close()

	c := New("test", srv.Client())
	var out struct {
		Value int `json:"value"`
	}
	found, err := c.GetJSON(context.Background(), srv.URL, http.Header{"X-Key": []string{"secret"}}, &out)
	if err != nil || !found {
		t.Fatalf("want found, got found=%v err=%v", found, err)
	}
	if out.Value != 3 {
		t.Fatalf("want 3, got %d", out.Value)
	}
}

func TestGetJSON_NonSuccessIsAbsent(t *testing.T) {
	for _, code := range []int{http.StatusNotFound, http.StatusInternalServerError, http.StatusBadGateway} {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(code)
		}))
		c := New("test", srv.Client())
		var out map[string]any
		found, err := c.GetJSON(context.Background(), srv.URL, nil, &out)
		srv.Close()
		if err != nil || found {
			t.Fatalf("status %d: want absent, got found=%v err=%v", code, found, err)
		}
	}
}

func TestGetJSON_TimeoutIsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-time.After(time.Second):
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()

	client := srv.Client()
	client.Timeout = 50 * time.Millisecond
	c := New("test", client)
	var out map[string]any
	if _, err := c.GetJSON(context.Background(), srv.URL, nil, &out); err == nil {
		t.Fatalf("expected timeout error")
	}
}

func TestGetJSON_BadBodyIsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`<html>`))
	}))
	defer srv.Close()

	c := New("test", srv.Client())
	var out map[string]any
	if _, err := c.GetJSON(context.Background(), srv.URL, nil, &out); err == nil {
		t.Fatalf("expected decode error")
	}
}

func TestGetText(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("var x = 1;"))
	}))
	defer srv.Close()

	text, found, err := New("test", srv.Client()).GetText(context.Background(), srv.URL, nil)
	if err != nil || !found || text != "var x = 1;" {
		t.Fatalf("unexpected: %q %v %v", text, found, err)
	}
}

func TestBreakerOpensAfterRepeatedFailures(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls++
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	c := New("test", srv.Client())
	var out map[string]any
	for i := 0; i < 6; i++ {
		_, _ = c.GetJSON(context.Background(), srv.URL, nil, &out)
	}
	if _, err := c.GetJSON(context.Background(), srv.URL, nil, &out); err == nil {
		t.Fatalf("expected open breaker error")
	}
	if calls != 6 {
		t.Fatalf("open breaker must short-circuit: %d upstream calls", calls)
	}
}
