package commerce

import (
	"fmt"
	"net/url"
	"time"

	"github.com/pharmadash/backend/internal/domain/integration"
)

// Config holds connection settings for the upstream commerce API
type Config struct {
	// BaseURL is the API root, e.g. "https://shop.example.com/api"
	BaseURL string
	// Token is the static opaque token sent in the Authorization header
	Token string
	// Timeout bounds every request so a hung upstream cannot block a sync run
	Timeout time.Duration
}

// Validate checks that the configuration is complete. A missing base URL or
// token is a configuration error, reported before any network call.
func (c *Config) Validate() error {
	if c.BaseURL == "" {
		return fmt.Errorf("%w: base URL is required", integration.ErrPlatformNotConfigured)
	}
	if _, err := url.ParseRequestURI(c.BaseURL); err != nil {
		return fmt.Errorf("%w: invalid base URL %q", integration.ErrPlatformNotConfigured, c.BaseURL)
	}
	if c.Token == "" {
		return fmt.Errorf("%w: API token is required", integration.ErrPlatformNotConfigured)
	}
	if c.Timeout <= 0 {
		c.Timeout = 30 * time.Second
	}
	return nil
}
