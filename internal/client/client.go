package client

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/time/rate"
)

const (
	// DefaultAPIVersion is the API version used when none is configured
	// (format YYYY-MM-DD).
	DefaultAPIVersion = "2023-05-03"

	// DefaultRequestsPerSecond caps outgoing requests; Sanity enforces
	// per-project rate limits server-side, this keeps bursts polite.
	DefaultRequestsPerSecond = 25

	httpTimeout = 30 * time.Second
)

// Config holds the connection settings for a Sanity project.
type Config struct {
	// ProjectID is the Sanity project identifier.
	ProjectID string

	// Dataset is the project dataset to operate on.
	Dataset string

	// APIVersion selects the API version (YYYY-MM-DD). Defaults to
	// DefaultAPIVersion.
	APIVersion string

	// APIHost overrides the derived base URL entirely when set.
	APIHost string

	// UseCDN routes reads through the apicdn host for quicker responses.
	UseCDN bool

	// Token is the API token. Optional for public datasets; required for
	// mutations.
	Token string

	// Logger receives request-level debug logging. Defaults to a
	// discarding logger.
	Logger *slog.Logger

	// HTTPClient overrides the derived HTTP client. When unset, a client
	// with bearer-token injection (for configured tokens) is built.
	HTTPClient *http.Client

	// RequestsPerSecond overrides the client-side rate limit. Defaults
	// to DefaultRequestsPerSecond.
	RequestsPerSecond float64
}

// Client talks to the Sanity HTTP API for a single project and dataset.
type Client struct {
	projectID  string
	dataset    string
	apiVersion string
	baseURL    string
	token      string
	logger     *slog.Logger
	httpClient *http.Client
	limiter    *rate.Limiter
}

// New creates a Client from a Config.
//
// The base URL is derived from the project, API version and CDN flag:
//
//	https://<projectId>.api.sanity.io/v<YYYY-MM-DD>
//	https://<projectId>.apicdn.sanity.io/v<YYYY-MM-DD>
//
// unless Config.APIHost overrides it.
func New(cfg Config) (*Client, error) {
	if cfg.ProjectID == "" {
		return nil, fmt.Errorf("client: project ID is required")
	}
	if cfg.Dataset == "" {
		return nil, fmt.Errorf("client: dataset is required")
	}

	apiVersion := cfg.APIVersion
	if apiVersion == "" {
		apiVersion = DefaultAPIVersion
	}

	baseURL := cfg.APIHost
	if baseURL == "" {
		host := "api.sanity.io"
		if cfg.UseCDN {
			host = "apicdn.sanity.io"
		}
		baseURL = fmt.Sprintf("https://%s.%s/v%s", cfg.ProjectID, host, apiVersion)
	}
	baseURL = strings.TrimSuffix(baseURL, "/")

	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		if cfg.Token != "" {
			// Bearer-token injection via a static oauth2 token source.
			source := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: cfg.Token})
			httpClient = oauth2.NewClient(context.Background(), source)
		} else {
			httpClient = &http.Client{}
		}
		httpClient.Timeout = httpTimeout
	}

	rps := cfg.RequestsPerSecond
	if rps <= 0 {
		rps = DefaultRequestsPerSecond
	}

	logger.Debug("sanity client configured", "base_url", baseURL, "dataset", cfg.Dataset)

	return &Client{
		projectID:  cfg.ProjectID,
		dataset:    cfg.Dataset,
		apiVersion: apiVersion,
		baseURL:    baseURL,
		token:      cfg.Token,
		logger:     logger,
		httpClient: httpClient,
		limiter:    rate.NewLimiter(rate.Limit(rps), int(rps)),
	}, nil
}

// ProjectID returns the configured project identifier.
func (c *Client) ProjectID() string {
	return c.projectID
}

// Dataset returns the configured dataset name.
func (c *Client) Dataset() string {
	return c.dataset
}

// BaseURL returns the resolved API base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}
