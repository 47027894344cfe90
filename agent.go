package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/uuid"
)

const requestIDHeader = "X-Request-ID"

// AgentClient talks to the external agent service, which owns all AI
// inference and persistence. The bot is a pass-through; nothing is cached
// here beyond what the caller holds.
type AgentClient struct {
	baseURL string

	httpClient *http.Client

	// Video generation regularly runs for minutes, so it gets its own
	// client with a longer timeout.
	videoClient *http.Client
}

func NewAgentClient(cfg Config) *AgentClient {
	return &AgentClient{
		baseURL:     strings.TrimRight(cfg.AgentServiceURL, "/"),
		httpClient:  &http.Client{Timeout: cfg.AgentTimeout},
		videoClient: &http.Client{Timeout: cfg.VideoTimeout},
	}
}

// AgentError is a non-2xx answer from the agent service, carrying the
// FastAPI "detail" string.
type AgentError struct {
	StatusCode int
	Detail     string
}

func (e *AgentError) Error() string {
	return fmt.Sprintf("agent service: %s (HTTP %d)", e.Detail, e.StatusCode)
}

func isNotFound(err error) bool {
	var agentErr *AgentError
	return errors.As(err, &agentErr) && agentErr.StatusCode == http.StatusNotFound
}

func (c *AgentClient) doJSON(ctx context.Context, client *http.Client, method, path string, query url.Values, body, out interface{}) error {
	var reqBody io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding %s %s request: %w", method, path, err)
		}
		reqBody = bytes.NewReader(encoded)
	}

	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reqBody)
	if err != nil {
		return fmt.Errorf("building %s %s request: %w", method, path, err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set(requestIDHeader, uuid.NewString())

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("calling agent service %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return decodeError(resp)
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding %s %s response: %w", method, path, err)
	}
	return nil
}

func (c *AgentClient) get(ctx context.Context, path string, query url.Values, out interface{}) error {
	return c.doJSON(ctx, c.httpClient, http.MethodGet, path, query, nil, out)
}

func (c *AgentClient) post(ctx context.Context, path string, query url.Values, body, out interface{}) error {
	return c.doJSON(ctx, c.httpClient, http.MethodPost, path, query, body, out)
}

// decodeError pulls the FastAPI error detail out of a failed response.
// Validation errors come back as structured objects, so anything that is
// not a plain string is passed through as raw JSON.
func decodeError(resp *http.Response) error {
	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
	if err != nil || len(raw) == 0 {
		return &AgentError{StatusCode: resp.StatusCode, Detail: resp.Status}
	}

	var envelope struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(raw, &envelope); err != nil || len(envelope.Detail) == 0 {
		return &AgentError{StatusCode: resp.StatusCode, Detail: string(raw)}
	}

	var detail string
	if err := json.Unmarshal(envelope.Detail, &detail); err != nil {
		detail = string(envelope.Detail)
	}
	return &AgentError{StatusCode: resp.StatusCode, Detail: detail}
}

// Health checks the agent service. Used by /status.
func (c *AgentClient) Health(ctx context.Context) (*HealthStatus, error) {
	var status HealthStatus
	if err := c.get(ctx, "/health", nil, &status); err != nil {
		return nil, err
	}
	return &status, nil
}
