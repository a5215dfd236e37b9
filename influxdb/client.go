package influxdb

import (
	"context"
	"fmt"
	"net/http"

	"github.com/hashicorp/go-cleanhttp"
	"github.com/rs/zerolog"
)

// Client represents an InfluxDB v2 API client
type Client struct {
	baseURL    string
	token      string
	userAgent  string
	httpClient *http.Client
	logger     zerolog.Logger
}

// NewClient creates a new InfluxDB client. The client performs no I/O
// here; use Ping or Health to probe the server.
func NewClient(baseURL, token string, logger zerolog.Logger, opts ...Option) (*Client, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("influxdb URL is required")
	}
	if token == "" {
		return nil, fmt.Errorf("influxdb token is required")
	}

	// Ensure baseURL doesn't have trailing slash
	if baseURL[len(baseURL)-1] == '/' {
		baseURL = baseURL[:len(baseURL)-1]
	}

	options := defaultClientOptions()
	for _, opt := range opts {
		opt(options)
	}

	httpClient := options.httpClient
	if httpClient == nil {
		httpClient = cleanhttp.DefaultPooledClient()
		httpClient.Timeout = options.timeout
	}

	return &Client{
		baseURL:    baseURL,
		token:      token,
		userAgent:  options.userAgent,
		httpClient: httpClient,
		logger:     logger,
	}, nil
}

// Ping checks that the server is reachable.
func (c *Client) Ping(ctx context.Context) error {
	_, err := c.doRequest(ctx, http.MethodGet, "/ping", nil, nil, http.StatusNoContent)
	if err != nil {
		return err
	}

	c.logger.Debug().Msg("Successfully pinged InfluxDB")
	return nil
}

// HealthCheck describes the response of the health endpoint.
type HealthCheck struct {
	Name    string `json:"name"`
	Message string `json:"message,omitempty"`
	Status  string `json:"status"`
	Version string `json:"version,omitempty"`
	Commit  string `json:"commit,omitempty"`
}

// Pass reports whether the health check succeeded.
func (h *HealthCheck) Pass() bool {
	return h.Status == "pass"
}

// Health retrieves the health status of the server.
func (c *Client) Health(ctx context.Context) (*HealthCheck, error) {
	check, err := doJSON[HealthCheck](ctx, c, http.MethodGet, "/health", nil, nil, http.StatusOK)
	if err != nil {
		return nil, err
	}

	return &check, nil
}
