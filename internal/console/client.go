// Package console talks to the Prisma Cloud Compute console API.
package console

import (
	"crypto/tls"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
)

const (
	DefaultTimeout = 30 * time.Second

	authenticatePath = "/api/v1/authenticate"
	defendersPath    = "/api/v1/defenders"
	contentType      = "application/json; charset=UTF-8"

	// maxErrorBody bounds how much of an error response ends up in messages.
	maxErrorBody = 512
)

type Options struct {
	// URL is the console address. A bare host such as "api.prismacloud.io"
	// is treated as https.
	URL      string
	Timeout  time.Duration
	Insecure bool
}

type Client struct {
	baseURL string
	http    *http.Client
}

func New(opts Options) (*Client, error) {
	base, err := NormalizeURL(opts.URL)
	if err != nil {
		return nil, err
	}

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	return &Client{
		baseURL: base,
		http: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				Proxy: http.ProxyFromEnvironment,
				DialContext: (&net.Dialer{
					Timeout:   5 * time.Second,
					KeepAlive: 30 * time.Second,
				}).DialContext,
				TLSClientConfig: &tls.Config{
					MinVersion:         tls.VersionTLS12,
					InsecureSkipVerify: opts.Insecure,
				},
				TLSHandshakeTimeout: 10 * time.Second,
			},
		},
	}, nil
}

// BaseURL returns the normalized console address.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// NormalizeURL turns a console address into a scheme-qualified base URL
// without a trailing slash.
func NormalizeURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", errors.WithHint(errors.New("console URL is empty"), "e.g. api.prismacloud.io or https://console.example.com:8083")
	}
	if !strings.Contains(raw, "://") {
		raw = "https://" + raw
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", errors.Wrapf(err, "invalid console URL %q", raw)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", errors.Newf("invalid console URL %q: unsupported scheme %q", raw, u.Scheme)
	}
	if u.Host == "" {
		return "", errors.Newf("invalid console URL %q: missing host", raw)
	}

	return strings.TrimRight(u.String(), "/"), nil
}

func (c *Client) endpoint(path string) string {
	return c.baseURL + path
}

// statusError describes a non-2xx response, including a trimmed body.
func statusError(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	msg := strings.TrimSpace(string(body))
	if msg == "" {
		return errors.Newf("console returned %s", resp.Status)
	}
	return errors.Newf("console returned %s: %s", resp.Status, msg)
}

func isSuccess(code int) bool {
	return code >= 200 && code < 300
}
