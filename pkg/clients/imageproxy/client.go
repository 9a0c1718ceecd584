package imageproxy

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/ovotrace/ovotrace/internal/config"
)

// Client fetches stored inspection images for embedding into exports.
// Images live at images/{batchId}/{imageId} behind the file-storage proxy.
type Client interface {
	Fetch(ctx context.Context, batchID, imageID string) ([]byte, error)
}

// HTTPClient is a resty-backed implementation of Client.
type HTTPClient struct {
	httpClient *resty.Client
}

// NewClient builds an image proxy client using the provided configuration.
func NewClient(cfg config.ImageProxyConfig) *HTTPClient {
	restyClient := resty.New()
	restyClient.
		SetBaseURL(strings.TrimSuffix(cfg.BaseURL, "/")).
		SetTimeout(10 * time.Second)

	return &HTTPClient{httpClient: restyClient}
}

// Fetch downloads one image. Callers treat any error as per-record and
// degrade to a placeholder; nothing here retries.
func (c *HTTPClient) Fetch(ctx context.Context, batchID, imageID string) ([]byte, error) {
	if batchID == "" || imageID == "" {
		return nil, fmt.Errorf("batch and image ids are required")
	}

	resp, err := c.httpClient.R().
		SetContext(ctx).
		Get(fmt.Sprintf("/images/%s/%s", batchID, imageID))
	if err != nil {
		return nil, fmt.Errorf("fetch image %s/%s: %w", batchID, imageID, err)
	}

	if resp.StatusCode() >= http.StatusBadRequest {
		return nil, fmt.Errorf("image proxy returned status %d for %s/%s", resp.StatusCode(), batchID, imageID)
	}

	return resp.Body(), nil
}
