package notify

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
)

func TestClient_Notify_Success(t *testing.T) {
	var path string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	u, _ := url.Parse(server.URL)
	client := NewClient(u.Hostname(), u.Port())

	if err := client.Notify(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if path != "/refresh" {
		t.Errorf("expected GET /refresh, got %q", path)
	}
}

func TestClient_Notify_AcceptsAny2xx(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusAccepted)
	}))
	defer server.Close()

	u, _ := url.Parse(server.URL)
	client := NewClient(u.Hostname(), u.Port())

	if err := client.Notify(context.Background()); err != nil {
		t.Fatalf("202 should count as success, got: %v", err)
	}
}

func TestClient_Notify_NonSuccessStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	u, _ := url.Parse(server.URL)
	client := NewClient(u.Hostname(), u.Port())

	err := client.Notify(context.Background())
	if err == nil {
		t.Fatal("expected error on 502")
	}
	if !strings.Contains(err.Error(), "502") {
		t.Errorf("error should name the status, got %q", err.Error())
	}
}

func TestClient_URL(t *testing.T) {
	client := NewClient("localhost", "8050")
	if got := client.URL(); got != "http://localhost:8050/refresh" {
		t.Errorf("unexpected URL %q", got)
	}
}

func TestClient_Notify_ConnectionRefused(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	u, _ := url.Parse(server.URL)
	server.Close()

	client := NewClient(u.Hostname(), u.Port())

	if err := client.Notify(context.Background()); err == nil {
		t.Fatal("expected error when the dashboard is unreachable")
	}
}
