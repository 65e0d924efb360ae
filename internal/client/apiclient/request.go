package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
)

const requestIDHeader = "X-Request-Id"

// body produces a fresh request body for every attempt.
type body interface {
	open() (io.Reader, string, error)
}

type jsonBody struct {
	data []byte
}

func newJSONBody(v any) (*jsonBody, error) {
	if v == nil {
		return &jsonBody{}, nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to encode request body: %w", err)
	}
	return &jsonBody{data: data}, nil
}

func (b *jsonBody) open() (io.Reader, string, error) {
	if b.data == nil {
		return nil, "application/json", nil
	}
	return bytes.NewReader(b.data), "application/json", nil
}

type response struct {
	status int
	header http.Header
	body   []byte
}

func (r *response) ok() bool {
	return r.status >= 200 && r.status < 300
}

func (r *response) empty() bool {
	return len(bytes.TrimSpace(r.body)) == 0
}

func (c *Client) url(path string) string {
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return c.baseURL + path
}

// send performs a single HTTP attempt. A nil error means a response was
// received, whatever its status.
func (c *Client) send(ctx context.Context, method, path string, b body, token string) (*response, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	var (
		reader      io.Reader
		contentType string
	)
	if b != nil {
		var err error
		reader, contentType, err = b.open()
		if err != nil {
			return nil, err
		}
	}

	req, err := http.NewRequestWithContext(ctx, method, c.url(path), reader)
	if err != nil {
		return nil, fmt.Errorf("failed to build request %s %s: %w", method, path, err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	requestID := uuid.NewString()
	req.Header.Set(requestIDHeader, requestID)

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Debug(ctx, "api request failed", "method", method, "path", path, "dur", time.Since(start), "request_id", requestID, "error", err)
		return nil, connectivityError(err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, connectivityError(err)
	}

	c.log.Debug(ctx, "api request", "method", method, "path", path, "status", resp.StatusCode, "dur", time.Since(start), "request_id", requestID)

	return &response{status: resp.StatusCode, header: resp.Header, body: data}, nil
}

// execute runs the request and, on a 401 while a refresh token is held, one
// refresh followed by one retry. The retry's outcome is final.
func (c *Client) execute(ctx context.Context, method, path string, b body) (*response, error) {
	if c.baseURL == "" {
		return nil, fmt.Errorf("%s %s: %w", method, path, ErrNotConfigured)
	}

	token := c.AccessToken()
	resp, err := c.send(ctx, method, path, b, token)
	if err != nil {
		return nil, err
	}

	if resp.status != http.StatusUnauthorized || c.RefreshToken() == "" {
		return resp, nil
	}
	if !c.refreshAfter(ctx, token) {
		return resp, nil
	}

	return c.send(ctx, method, path, b, c.AccessToken())
}

func (c *Client) doJSON(ctx context.Context, method, path string, in, out any) error {
	b, err := newJSONBody(in)
	if err != nil {
		return err
	}
	return c.do(ctx, method, path, b, out)
}

func (c *Client) do(ctx context.Context, method, path string, b body, out any) error {
	resp, err := c.execute(ctx, method, path, b)
	if err != nil {
		return err
	}
	if !resp.ok() {
		return httpError(resp.status, resp.body)
	}
	if out == nil || resp.empty() {
		return nil
	}
	if err := json.Unmarshal(resp.body, out); err != nil {
		return fmt.Errorf("failed to decode response of %s %s: %w", method, path, err)
	}
	return nil
}

// Get decodes the JSON response into out. An empty success body leaves out
// untouched; out may be nil when the body is not needed.
func (c *Client) Get(ctx context.Context, path string, out any) error {
	return c.doJSON(ctx, http.MethodGet, path, nil, out)
}

func (c *Client) Delete(ctx context.Context, path string, out any) error {
	return c.doJSON(ctx, http.MethodDelete, path, nil, out)
}

// Post sends in as JSON. A nil in sends no body.
func (c *Client) Post(ctx context.Context, path string, in, out any) error {
	return c.doJSON(ctx, http.MethodPost, path, in, out)
}

func (c *Client) Put(ctx context.Context, path string, in, out any) error {
	return c.doJSON(ctx, http.MethodPut, path, in, out)
}

func (c *Client) Patch(ctx context.Context, path string, in, out any) error {
	return c.doJSON(ctx, http.MethodPatch, path, in, out)
}
