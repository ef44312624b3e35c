package romm

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/sonh/qs"
)

const (
	endpointPlatforms   = "/platforms"
	endpointCollections = "/collections"
	endpointRoms        = "/roms"
	endpointRomByID     = "/roms/%d"
	endpointRomCover    = "/roms/%d/cover/small"
	endpointRomContent  = "/roms/%d/content/download"
)

const (
	// maxRetries bounds retry attempts for transient failures
	// (429 and 5xx responses, transport errors).
	maxRetries = 3

	defaultAPITimeout = 3 * time.Minute
)

// Host describes a RomM server plus the credentials used to reach it.
type Host struct {
	RootURI  string `json:"root_uri"`
	Username string `json:"username"`
	Password string `json:"password"`
}

func (h Host) URL() string {
	return strings.TrimRight(h.RootURI, "/")
}

func (h Host) BasicAuthHeader() string {
	creds := h.Username + ":" + h.Password
	return "Basic " + base64.StdEncoding.EncodeToString([]byte(creds))
}

// ToLoggable returns a representation safe for logging (no password).
func (h Host) ToLoggable() map[string]any {
	return map[string]any{
		"root_uri": h.RootURI,
		"username": h.Username,
	}
}

// Client is a RomM API client with basic auth and bounded retry for
// transient failures.
type Client struct {
	host Host
	http *http.Client
}

func NewClient(host Host, timeout time.Duration) *Client {
	if timeout == 0 {
		timeout = defaultAPITimeout
	}
	return &Client{
		host: host,
		http: &http.Client{Timeout: timeout},
	}
}

// BaseURL returns the server root URL without a trailing slash.
func (c *Client) BaseURL() string {
	return c.host.URL()
}

// Get performs a single GET against an absolute URL. Auth is attached only
// when withAuth is set; external asset hosts must not see our credentials.
func (c *Client) Get(url string, withAuth bool) (*http.Response, error) {
	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	if withAuth {
		req.Header.Set("Authorization", c.host.BasicAuthHeader())
	}
	return c.http.Do(req)
}

// doRequest performs an authenticated API request and decodes the JSON
// response into out. Transient failures (429, 5xx, transport errors) are
// retried with exponential backoff; everything else fails immediately with
// a kind the caller can branch on.
func (c *Client) doRequest(method, path string, query any, out any) error {
	logger := slog.Default()

	url := c.host.URL() + "/api" + path
	if query != nil {
		values, err := qs.NewEncoder().Values(query)
		if err != nil {
			return fmt.Errorf("encoding query for %s: %w", path, err)
		}
		if encoded := values.Encode(); encoded != "" {
			url += "?" + encoded
		}
	}

	var body []byte
	operation := func() error {
		req, err := http.NewRequest(method, url, nil)
		if err != nil {
			return backoff.Permanent(newAPIError(KindTransport, 0, url, err))
		}
		req.Header.Set("Authorization", c.host.BasicAuthHeader())
		req.Header.Set("Accept", "application/json")

		resp, err := c.http.Do(req)
		if err != nil {
			return newAPIError(KindTransport, 0, url, err)
		}
		defer resp.Body.Close()

		switch {
		case resp.StatusCode == http.StatusOK:
		case resp.StatusCode == http.StatusTooManyRequests:
			logger.Warn("Rate limited by server, backing off", "url", url)
			return newAPIError(KindRateLimited, resp.StatusCode, url, fmt.Errorf("rate limited"))
		case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
			return backoff.Permanent(newAPIError(KindAuthRequired, resp.StatusCode, url, fmt.Errorf("authentication failed")))
		case resp.StatusCode == http.StatusNotFound:
			return backoff.Permanent(newAPIError(KindNotFound, resp.StatusCode, url, fmt.Errorf("not found")))
		case resp.StatusCode >= 500:
			return newAPIError(KindServer, resp.StatusCode, url, fmt.Errorf("server error: %s", resp.Status))
		default:
			return backoff.Permanent(newAPIError(KindServer, resp.StatusCode, url, fmt.Errorf("unexpected status: %s", resp.Status)))
		}

		body, err = io.ReadAll(resp.Body)
		if err != nil {
			return newAPIError(KindTransport, resp.StatusCode, url, err)
		}
		return nil
	}

	policy := backoff.WithMaxRetries(backoff.NewExponentialBackOff(), maxRetries)
	if err := backoff.Retry(operation, policy); err != nil {
		return err
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return newAPIError(KindServer, http.StatusOK, url, fmt.Errorf("decoding response: %w", err))
	}
	return nil
}
