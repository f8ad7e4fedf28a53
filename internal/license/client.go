package license

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/fieldnote/fieldnote/internal/config"
	"github.com/fieldnote/fieldnote/internal/instance"
)

// Licensing server hosts. Vars (not consts) so tests can redirect them.
var (
	productionHost = "https://licensing.fieldnote.io"
	stagingHost    = "https://licensing-staging.fieldnote.io"
)

const checkPath = "/api/licenses/check"

// Fetch failure taxonomy. The coordinator logs these distinctly but treats
// them all as "verification failed"; interpretation stays here.
var (
	// ErrTransport covers network-level failures (DNS, connect, timeout).
	ErrTransport = errors.New("license server unreachable")
	// ErrHTTPStatus covers non-2xx responses.
	ErrHTTPStatus = errors.New("license server returned error status")
	// ErrMalformed covers unparseable response bodies.
	ErrMalformed = errors.New("license server returned malformed response")
)

// UsageCounter reads the current usage count (e.g. collected responses) from
// the surrounding application. It is an external collaborator; the engine
// only forwards the number to the licensing server.
type UsageCounter func(ctx context.Context) (int64, error)

// checkRequest is the body posted to the license check endpoint.
type checkRequest struct {
	InstanceID string `json:"instanceId"`
	CreatedAt  string `json:"createdAt"`
	UsageCount int64  `json:"usageCount"`
}

// RawLicense is the status+features pair as returned by the licensing server.
type RawLicense struct {
	Status   Status   `json:"status"`
	Features Features `json:"features"`
}

// checkResponse is the success envelope from the licensing server.
type checkResponse struct {
	Data RawLicense `json:"data"`
}

// Client performs the single outbound verification call. It holds no cache
// and does no retries; retry policy belongs to the coordinator's
// one-attempt-per-miss protocol.
type Client struct {
	endpoint   string
	licenseKey string
	identity   instance.Identity
	usage      UsageCounter
	httpClient *http.Client
}

// NewClient builds a verification client for the configured environment.
func NewClient(cfg *config.Config, identity instance.Identity, usage UsageCounter) *Client {
	host := productionHost
	if cfg.Environment == config.EnvStaging {
		host = stagingHost
	}
	return &Client{
		endpoint:   host + checkPath,
		licenseKey: cfg.LicenseKey,
		identity:   identity,
		usage:      usage,
		httpClient: &http.Client{Timeout: cfg.FetchTimeout},
	}
}

// FetchLicense performs exactly one verification call against the licensing
// server and returns the parsed status+features, or a typed fetch error.
func (c *Client) FetchLicense(ctx context.Context) (*RawLicense, error) {
	var usageCount int64
	if c.usage != nil {
		n, err := c.usage(ctx)
		if err != nil {
			// Usage is reporting data for the server, not a gating input;
			// a failed read must not block verification.
			log.Warn().Err(err).Msg("Usage count read failed; reporting 0")
		} else {
			usageCount = n
		}
	}

	body, err := json.Marshal(checkRequest{
		InstanceID: c.identity.ID,
		CreatedAt:  c.identity.CreatedAt.UTC().Format(time.RFC3339),
		UsageCount: usageCount,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: encode request: %v", ErrMalformed, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: build request: %v", ErrTransport, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.licenseKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTransport, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// Drain a little of the body for the log line; servers often put the
		// reason there.
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 256))
		return nil, fmt.Errorf("%w: %d %s", ErrHTTPStatus, resp.StatusCode, bytes.TrimSpace(snippet))
	}

	var envelope checkResponse
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if envelope.Data.Status != StatusActive && envelope.Data.Status != StatusInactive {
		return nil, fmt.Errorf("%w: unknown status %q", ErrMalformed, envelope.Data.Status)
	}

	return &envelope.Data, nil
}
