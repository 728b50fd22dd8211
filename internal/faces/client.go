package faces

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/faceforge/faceforge/internal/consts"
	"github.com/faceforge/faceforge/internal/logger"
)

// Client fetches AI-generated face images over HTTPS. The upstream service
// returns a fresh face on every GET; anything but a 200 is a failure and is
// never retried here.
type Client struct {
	endpoint   string
	httpClient *http.Client
}

// NewClient creates a face provider client for the given endpoint.
func NewClient(endpoint string) *Client {
	if endpoint == "" {
		endpoint = consts.DefaultFaceAPIURL
	}

	return &Client{
		endpoint: endpoint,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// Fetch downloads one face image and returns the raw bytes.
func (c *Client) Fetch(ctx context.Context) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build face request: %w", err)
	}
	// The upstream blocks default Go user agents
	req.Header.Set("User-Agent", consts.FaceUserAgent)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("face request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("face provider returned status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read face image: %w", err)
	}

	logger.Debug("Face image fetched", map[string]interface{}{
		"bytes":    len(data),
		"duration": time.Since(start).String(),
	})

	return data, nil
}
