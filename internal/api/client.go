// Package api is the single chokepoint for every exchange with the JobPing
// backend: it attaches the session credential, normalizes transport and HTTP
// failures into a fixed error taxonomy, and exposes one typed operation per
// domain intent.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"jobping-client-go/pkg/httpclient"
)

// TokenSource supplies the current bearer token. An empty token means the
// request goes out unauthenticated; rejecting it is the server's job.
type TokenSource interface {
	Token() string
	SetToken(token string)
}

// Client issues requests against a single base URL.
type Client struct {
	baseURL string
	client  *httpclient.HttpClient
	tokens  TokenSource
}

// NewClient creates a Client. The trailing slash on baseURL, if any, is
// dropped so paths can always start with "/".
func NewClient(baseURL string, client *httpclient.HttpClient, tokens TokenSource) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  client,
		tokens:  tokens,
	}
}

// errorBody is the backend's error envelope.
type errorBody struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// do executes one HTTP exchange. body, when non-nil, is marshalled as JSON;
// out, when non-nil, receives the decoded response body. extra headers are
// merged in and may override the JSON content type.
//
// Failure modes, in order of detection: TransportError (no response),
// RequestError (non-2xx, with the server's message when the error body
// parses), ParseError (malformed success body). A 204 response never
// touches out.
func (c *Client) do(ctx context.Context, method, path string, body, out interface{}, extra http.Header) error {
	var bodyReader io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		bodyReader = bytes.NewReader(jsonBody)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	for key, values := range extra {
		req.Header.Del(key)
		for _, v := range values {
			req.Header.Add(key, v)
		}
	}

	if token := c.tokens.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return &TransportError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := "Request failed"
		var envelope errorBody
		if decodeErr := json.NewDecoder(resp.Body).Decode(&envelope); decodeErr == nil && envelope.Message != "" {
			msg = envelope.Message
		}
		return &RequestError{Status: resp.StatusCode, Message: msg}
	}

	if resp.StatusCode == http.StatusNoContent || out == nil {
		io.Copy(io.Discard, resp.Body)
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &ParseError{Err: err}
	}

	return nil
}

func (c *Client) get(ctx context.Context, path string, out interface{}) error {
	return c.do(ctx, http.MethodGet, path, nil, out, nil)
}

func (c *Client) post(ctx context.Context, path string, body, out interface{}) error {
	return c.do(ctx, http.MethodPost, path, body, out, nil)
}

func (c *Client) put(ctx context.Context, path string, body, out interface{}) error {
	return c.do(ctx, http.MethodPut, path, body, out, nil)
}

func (c *Client) delete(ctx context.Context, path string) error {
	return c.do(ctx, http.MethodDelete, path, nil, nil, nil)
}
