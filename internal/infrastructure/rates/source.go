package rates

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"github.com/pharmadash/backend/internal/domain/integration"
)

// maxResponseSize caps the rate source response (1MB is generous for a rate table)
const maxResponseSize = 1 * 1024 * 1024

// Source provides the current TRY→RUB exchange rate
type Source interface {
	// Fetch returns the raw (unbuffered) rate
	Fetch(ctx context.Context) (decimal.Decimal, error)
	// Name identifies the source in persisted observations
	Name() string
}

// HTTPSource fetches the rate from an exchange-rate API returning a JSON
// body of the form {"base":"TRY","rates":{"RUB":2.43}}.
type HTTPSource struct {
	url        string
	httpClient *http.Client
}

// NewHTTPSource creates an HTTP-backed rate source
func NewHTTPSource(url string, timeout time.Duration) *HTTPSource {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &HTTPSource{
		url:        url,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Name implements Source
func (s *HTTPSource) Name() string {
	return "exchange-rate-api"
}

// Fetch implements Source
func (s *HTTPSource) Fetch(ctx context.Context) (decimal.Decimal, error) {
	if s.url == "" {
		return decimal.Zero, fmt.Errorf("%w: rate source URL is required", integration.ErrPlatformNotConfigured)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return decimal.Zero, fmt.Errorf("rates: failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %v", integration.ErrPlatformUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return decimal.Zero, fmt.Errorf("%w: HTTP %d from rate source", integration.ErrPlatformRequestFailed, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return decimal.Zero, fmt.Errorf("rates: failed to read response: %w", err)
	}

	var payload struct {
		Base  string             `json:"base"`
		Rates map[string]float64 `json:"rates"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return decimal.Zero, fmt.Errorf("%w: %v", integration.ErrPlatformInvalidResponse, err)
	}

	rub, ok := payload.Rates["RUB"]
	if !ok || rub <= 0 {
		return decimal.Zero, fmt.Errorf("%w: no positive RUB rate in payload", integration.ErrPlatformInvalidResponse)
	}
	return decimal.NewFromFloat(rub), nil
}
