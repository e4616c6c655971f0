package config

import (
	"strings"
	"time"
)

// Client holds the settings of the HTTP client wrapper.
type Client struct {
	BaseURL     string        `env:"BOOKING_API_URL" envDefault:"http://127.0.0.1:5000"`
	HTTPTimeout time.Duration `env:"BOOKING_HTTP_TIMEOUT" envDefault:"30s"`
}

var _ ClientConfig = Client{}

// GetBaseURL returns the API origin without a trailing slash
func (c Client) GetBaseURL() string {
	return strings.TrimSuffix(c.BaseURL, "/")
}

func (c Client) GetHTTPTimeout() time.Duration {
	return c.HTTPTimeout
}

func (Client) GetRefreshPath() string {
	return "/auth/refresh"
}
