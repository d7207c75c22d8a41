package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/sirupsen/logrus"
)

// mockServer creates a test HTTP server for mocking API responses.
func mockServer(handler http.HandlerFunc) *httptest.Server {
	return httptest.NewServer(handler)
}

func newTestClient(baseURL, token string) *Client {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return NewClient(baseURL, token, log)
}

func TestNewClient(t *testing.T) {
	client := NewClient("", "test-token", nil)

	if client.Token() != "test-token" {
		t.Errorf("expected token %q, got %q", "test-token", client.Token())
	}
	if client.BaseURL() != BaseURL {
		t.Errorf("unexpected base URL: %s", client.BaseURL())
	}

	client = NewClient("http://example.test/api/", "", nil)
	if client.BaseURL() != "http://example.test/api" {
		t.Errorf("expected trailing slash trimmed, got %s", client.BaseURL())
	}
}

func TestIDUnmarshal(t *testing.T) {
	tests := []struct {
		in   string
		want ID
	}{
		{`42`, "42"},
		{`"42"`, "42"},
		{`"abc-1"`, "abc-1"},
		{`null`, ""},
	}

	for _, tt := range tests {
		var id ID
		if err := json.Unmarshal([]byte(tt.in), &id); err != nil {
			t.Fatalf("unmarshal %s: %v", tt.in, err)
		}
		if id != tt.want {
			t.Errorf("unmarshal %s: expected %q, got %q", tt.in, tt.want, id)
		}
	}
}

func TestIDMarshal(t *testing.T) {
	tests := []struct {
		id   ID
		want string
	}{
		{"42", `42`},
		{"abc", `"abc"`},
		{"", `null`},
	}

	for _, tt := range tests {
		b, err := json.Marshal(tt.id)
		if err != nil {
			t.Fatalf("marshal %q: %v", tt.id, err)
		}
		if string(b) != tt.want {
			t.Errorf("marshal %q: expected %s, got %s", tt.id, tt.want, b)
		}
	}
}

func TestRequestHeaders(t *testing.T) {
	server := mockServer(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer test-token" {
			t.Errorf("expected Bearer token, got %q", got)
		}
		if r.Header.Get("X-Request-ID") == "" {
			t.Error("expected X-Request-ID header")
		}
		if r.Header.Get("Accept") != "application/json" {
			t.Error("expected Accept: application/json")
		}
		w.Write([]byte(`[]`))
	})
	defer server.Close()

	client := newTestClient(server.URL, "test-token")
	if _, err := client.GetGroups(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestNoTokenNoAuthorizationHeader(t *testing.T) {
	server := mockServer(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "" {
			t.Errorf("expected no Authorization header, got %q", got)
		}
		w.Write([]byte(`[]`))
	})
	defer server.Close()

	client := newTestClient(server.URL, "")
	if _, err := client.GetUsers(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestAPIErrorClassification(t *testing.T) {
	tests := []struct {
		status   int
		auth     bool
		conflict bool
		notFound bool
	}{
		{http.StatusUnauthorized, true, false, false},
		{http.StatusForbidden, true, false, false},
		{http.StatusConflict, false, true, false},
		{http.StatusNotFound, false, false, true},
		{http.StatusBadRequest, false, false, false},
	}

	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			server := mockServer(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(`{"error":"nope"}`))
			})
			defer server.Close()

			client := newTestClient(server.URL, "t")
			err := client.DeleteGroup(context.Background(), "1")
			apiErr, ok := IsAPIError(err)
			if !ok {
				t.Fatalf("expected APIError, got %v", err)
			}
			if apiErr.StatusCode != tt.status {
				t.Errorf("expected status %d, got %d", tt.status, apiErr.StatusCode)
			}
			if IsAuthFailure(err) != tt.auth {
				t.Errorf("IsAuthFailure = %v, want %v", IsAuthFailure(err), tt.auth)
			}
			if apiErr.IsConflict() != tt.conflict {
				t.Errorf("IsConflict = %v, want %v", apiErr.IsConflict(), tt.conflict)
			}
			if apiErr.IsNotFound() != tt.notFound {
				t.Errorf("IsNotFound = %v, want %v", apiErr.IsNotFound(), tt.notFound)
			}
		})
	}
}

func TestBreakerTripsOnServerErrors(t *testing.T) {
	var hits int32
	server := mockServer(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.WriteHeader(http.StatusInternalServerError)
	})
	defer server.Close()

	client := newTestClient(server.URL, "t")
	ctx := context.Background()
	for i := 0; i < 4; i++ {
		if _, err := client.GetGroups(ctx); err == nil {
			t.Fatal("expected error from 500 response")
		}
	}

	_, err := client.GetGroups(ctx)
	if !errors.Is(err, ErrBreakerOpen) {
		t.Fatalf("expected ErrBreakerOpen, got %v", err)
	}
	if n := atomic.LoadInt32(&hits); n != 4 {
		t.Errorf("expected 4 requests to reach the server, got %d", n)
	}
}

func TestBreakerIgnoresClientErrors(t *testing.T) {
	var hits int32
	server := mockServer(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.WriteHeader(http.StatusNotFound)
	})
	defer server.Close()

	client := newTestClient(server.URL, "t")
	for i := 0; i < 8; i++ {
		err := client.DeleteTask(context.Background(), "9")
		if errors.Is(err, ErrBreakerOpen) {
			t.Fatalf("breaker opened on client errors after %d calls", i)
		}
	}
	if n := atomic.LoadInt32(&hits); n != 8 {
		t.Errorf("expected 8 requests, got %d", n)
	}
}
