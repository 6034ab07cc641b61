package nomad

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Client talks to the scheduler HTTP API. Address and token are fixed at
// construction and the client is safe for concurrent use.
type Client struct {
	address string
	token   string
	http    *http.Client
}

func NewClient(address, token string, timeout time.Duration) *Client {
	return &Client{
		address: strings.TrimRight(address, "/"),
		token:   token,
		http:    &http.Client{Timeout: timeout},
	}
}

// ListJobs returns every job known to the scheduler, children included
func (c *Client) ListJobs(ctx context.Context) ([]JobSummary, error) {
	body, err := c.do(ctx, http.MethodGet, "/v1/jobs", nil)
	if err != nil {
		return nil, err
	}

	var jobs []JobSummary
	if err := json.Unmarshal(body, &jobs); err != nil {
		return nil, fmt.Errorf("failed to unmarshal job list: %w", err)
	}
	return jobs, nil
}

// ReadJob returns the raw definition document of the named job
func (c *Client) ReadJob(ctx context.Context, name string) ([]byte, error) {
	return c.do(ctx, http.MethodGet, "/v1/job/"+url.PathEscape(name), nil)
}

// RegisterJob submits a job definition and returns the scheduler's response body
func (c *Client) RegisterJob(ctx context.Context, definition json.RawMessage) ([]byte, error) {
	data, err := json.Marshal(registerRequest{Job: definition})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal register request: %w", err)
	}
	return c.do(ctx, http.MethodPost, "/v1/jobs", data)
}

func (c *Client) do(ctx context.Context, method, path string, payload []byte) ([]byte, error) {
	reqURL := c.address + path

	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set(TokenHeader, c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &UpstreamError{Method: method, URL: reqURL, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &UpstreamError{Method: method, URL: reqURL, StatusCode: resp.StatusCode, Err: fmt.Errorf("failed to read response body: %w", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &UpstreamError{Method: method, URL: reqURL, StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}

	return body, nil
}
