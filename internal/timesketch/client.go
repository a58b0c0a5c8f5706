package timesketch

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/tsketch/tsketch-cli/internal/logging"
)

// Version is reported in the User-Agent header.
var Version = "dev"

type Client struct {
	host       string
	token      string
	sketchID   int
	httpClient *http.Client
}

type Option func(*Client)

func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.httpClient.Timeout = d }
}

// WithTLSVerify(false) accepts any server certificate.
func WithTLSVerify(verify bool) Option {
	return func(c *Client) {
		if verify {
			return
		}
		tr := http.DefaultTransport.(*http.Transport).Clone()
		tr.TLSClientConfig = &tls.Config{InsecureSkipVerify: true}
		c.httpClient.Transport = tr
	}
}

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

func NewClient(host, token string, sketchID int, opts ...Option) *Client {
	c := &Client{
		host:       strings.TrimRight(host, "/"),
		token:      token,
		sketchID:   sketchID,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

func (c *Client) SketchID() int { return c.sketchID }

func (c *Client) sketchPath(format string, args ...any) string {
	return fmt.Sprintf("/api/v1/sketches/%d", c.sketchID) + fmt.Sprintf(format, args...)
}

func (c *Client) do(ctx context.Context, method, path string, body any) ([]byte, error) {
	var r io.Reader
	if body != nil {
		var b bytes.Buffer
		enc := json.NewEncoder(&b)
		enc.SetEscapeHTML(false)
		if err := enc.Encode(body); err != nil {
			return nil, fmt.Errorf("encode request: %w", err)
		}
		r = &b
	}
	req, err := http.NewRequestWithContext(ctx, method, c.host+path, r)
	if err != nil {
		return nil, err
	}
	reqID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "tsketch-cli/"+Version)
	req.Header.Set("X-Request-ID", reqID)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	logging.Debug(fmt.Sprintf("%s %s [%s]", method, path, reqID))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("timesketch: %s: %s", resp.Status, strings.TrimSpace(string(data)))
	}
	return data, nil
}
