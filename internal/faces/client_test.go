package faces

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestFetchSuccess(t *testing.T) {
	payload := []byte("fake-jpeg-bytes")
	var gotUA string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		w.WriteHeader(http.StatusOK)
		w.Write(payload)
	}))
	defer server.Close()

	client := NewClient(server.URL)
	data, err := client.Fetch(context.Background())
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}

	if !bytes.Equal(data, payload) {
		t.Errorf("expected %q, got %q", payload, data)
	}
	if gotUA == "" || gotUA == "Go-http-client/1.1" {
		t.Errorf("expected a browser-like User-Agent, got %q", gotUA)
	}
}

func TestFetchNonOKStatus(t *testing.T) {
	tests := []struct {
		name   string
		status int
	}{
		{"server error", http.StatusInternalServerError},
		{"rate limited", http.StatusTooManyRequests},
		{"not found", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
			}))
			defer server.Close()

			client := NewClient(server.URL)
			if _, err := client.Fetch(context.Background()); err == nil {
				t.Errorf("expected error for status %d", tt.status)
			}
		})
	}
}

func TestFetchHonorsContextCancellation(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(2 * time.Second)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := NewClient(server.URL)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	start := time.Now()
	if _, err := client.Fetch(ctx); err == nil {
		t.Fatal("expected timeout error")
	}
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Errorf("Fetch did not honor context deadline, took %s", elapsed)
	}
}

func TestNewClientDefaultsEndpoint(t *testing.T) {
	client := NewClient("")
	if client.endpoint == "" {
		t.Error("expected a default endpoint")
	}
}
