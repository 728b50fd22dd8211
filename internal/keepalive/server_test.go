package keepalive

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestHandleAlive(t *testing.T) {
	for _, path := range []string{"/", "/healthz"} {
		t.Run(path, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, path, nil)
			rec := httptest.NewRecorder()

			handleAlive(rec, req)

			if rec.Code != http.StatusOK {
				t.Errorf("expected 200, got %d", rec.Code)
			}

			body, _ := io.ReadAll(rec.Body)
			if string(body) != "Bot is alive!" {
				t.Errorf("unexpected body: %q", body)
			}
		})
	}
}

func TestServerRoutes(t *testing.T) {
	server := NewServer("0")
	ts := httptest.NewServer(server.httpServer.Handler)
	defer ts.Close()

	tests := []struct {
		path       string
		wantStatus int
	}{
		{"/", http.StatusOK},
		{"/healthz", http.StatusOK},
		{"/metrics", http.StatusOK},
	}

	for _, tt := range tests {
		resp, err := http.Get(ts.URL + tt.path)
		if err != nil {
			t.Fatalf("GET %s failed: %v", tt.path, err)
		}
		resp.Body.Close()
		if resp.StatusCode != tt.wantStatus {
			t.Errorf("GET %s = %d, want %d", tt.path, resp.StatusCode, tt.wantStatus)
		}
	}
}
