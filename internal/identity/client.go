package identity

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/mcoot/hardercore-api/internal/model"
)

// DefaultBaseURL is the public session server profile endpoint
const DefaultBaseURL = "https://sessionserver.mojang.com/session/minecraft/profile"

// Resolver translates a player id into a profile
type Resolver interface {
	Resolve(ctx context.Context, id model.PlayerID) (*model.Profile, error)
}

// ClientConfig holds configuration for the lookup client
type ClientConfig struct {
	BaseURL string
	Timeout time.Duration

	// RequestsPerSecond and Burst shape outbound traffic. Zero RequestsPerSecond disables limiting.
	RequestsPerSecond float64
	Burst             int
}

// DefaultClientConfig returns defaults that stay within the session server's rate limit
func DefaultClientConfig() ClientConfig {
	return ClientConfig{
		BaseURL:           DefaultBaseURL,
		Timeout:           10 * time.Second,
		RequestsPerSecond: 1,
		Burst:             10,
	}
}

// Client performs profile lookups against the external identity service
type Client struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
}

// NewClient creates a new lookup client
func NewClient(cfg ClientConfig) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultClientConfig().Timeout
	}

	limit := rate.Inf
	if cfg.RequestsPerSecond > 0 {
		limit = rate.Limit(cfg.RequestsPerSecond)
	}
	burst := cfg.Burst
	if burst < 1 {
		burst = 1
	}

	return &Client{
		baseURL: strings.TrimSuffix(cfg.BaseURL, "/"),
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		limiter: rate.NewLimiter(limit, burst),
	}
}

// Ensure Client implements Resolver
var _ Resolver = (*Client)(nil)

// Resolve fetches the profile for id. Every failure matches model.ErrIdentityUnavailable.
func (c *Client) Resolve(ctx context.Context, id model.PlayerID) (*model.Profile, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrIdentityUnavailable, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.profileURL(id), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrIdentityUnavailable, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrIdentityUnavailable, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read response: %v", model.ErrIdentityUnavailable, err)
	}

	// The session server answers 204 for unknown ids
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: HTTP %d for %s", model.ErrIdentityUnavailable, resp.StatusCode, id)
	}

	var profile model.Profile
	if err := json.Unmarshal(body, &profile); err != nil {
		return nil, fmt.Errorf("%w: malformed profile: %v", model.ErrIdentityUnavailable, err)
	}
	if profile.Name == "" {
		return nil, fmt.Errorf("%w: profile for %s has no name", model.ErrIdentityUnavailable, id)
	}

	return &profile, nil
}

func (c *Client) profileURL(id model.PlayerID) string {
	return c.baseURL + "/" + url.PathEscape(normalizeID(id))
}

// normalizeID converts UUID-shaped ids to the undashed form the session server expects
func normalizeID(id model.PlayerID) string {
	u, err := uuid.Parse(string(id))
	if err != nil {
		return string(id)
	}
	return strings.ReplaceAll(u.String(), "-", "")
}
