package commerce

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/pharmadash/backend/internal/domain/integration"
)

// maxResponseSize is the maximum allowed response size from the upstream API (10MB)
const maxResponseSize = 10 * 1024 * 1024

// Client implements the integration.CommercePlatform port against the
// upstream shop API over HTTP.
type Client struct {
	config     *Config
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient creates a new commerce API client. Configuration is validated
// eagerly so a misconfigured deployment fails at startup, not on the first
// scheduled run.
func NewClient(config *Config, logger *zap.Logger) (*Client, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &Client{
		config:     config,
		httpClient: &http.Client{Timeout: config.Timeout},
		logger:     logger.Named("commerce"),
	}, nil
}

// FetchOrders pulls all orders from the upstream API
func (c *Client) FetchOrders(ctx context.Context) ([]integration.RawOrder, error) {
	body, err := c.get(ctx, "/orders")
	if err != nil {
		return nil, err
	}
	var orders []integration.RawOrder
	if err := json.Unmarshal(body, &orders); err != nil {
		return nil, fmt.Errorf("%w: orders payload: %v", integration.ErrPlatformInvalidResponse, err)
	}
	c.logger.Debug("Fetched upstream orders", zap.Int("count", len(orders)))
	return orders, nil
}

// FetchProducts pulls all products from the upstream API
func (c *Client) FetchProducts(ctx context.Context) ([]integration.RawProduct, error) {
	body, err := c.get(ctx, "/products")
	if err != nil {
		return nil, err
	}
	var products []integration.RawProduct
	if err := json.Unmarshal(body, &products); err != nil {
		return nil, fmt.Errorf("%w: products payload: %v", integration.ErrPlatformInvalidResponse, err)
	}
	c.logger.Debug("Fetched upstream products", zap.Int("count", len(products)))
	return products, nil
}

// get performs an authenticated GET against the upstream API
func (c *Client) get(ctx context.Context, path string) ([]byte, error) {
	url := strings.TrimSuffix(c.config.BaseURL, "/") + path

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("commerce: failed to create request: %w", err)
	}
	req.Header.Set("Authorization", c.config.Token)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", integration.ErrPlatformUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("commerce: failed to read response: %w", err)
	}

	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("%w: HTTP %d from %s", integration.ErrPlatformRequestFailed, resp.StatusCode, path)
	}

	return body, nil
}

// Ensure Client implements the CommercePlatform port
var _ integration.CommercePlatform = (*Client)(nil)
