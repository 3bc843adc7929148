package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"afrikar/internal/client/core/ports/driven"
	"afrikar/internal/mylogger"

	"github.com/google/uuid"
)

const (
	// MsgNetworkError is reported when an error body is not JSON at all.
	MsgNetworkError = "Erreur réseau"
	// MsgUnknownError is reported when a JSON error body names no message.
	MsgUnknownError = "Erreur inconnue"

	contentTypeJSON = "application/json"
)

// APIError is a non-2xx answer from the backend with its message normalized.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return e.Message
}

type Client struct {
	baseURL string
	client  *http.Client
	store   driven.IKVStore
	mylog   mylogger.Logger
}

// New builds a client rooted at baseURL. The bearer token is read from
// store on every request, so a login or logout is seen immediately.
func New(baseURL string, timeout time.Duration, store driven.IKVStore, mylog mylogger.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		client: &http.Client{
			Timeout: timeout,
		},
		store: store,
		mylog: mylog,
	}
}

func (c *Client) Get(ctx context.Context, path string, out any) error {
	return c.DoRequest(ctx, http.MethodGet, path, nil, out)
}

func (c *Client) Post(ctx context.Context, path string, body, out any) error {
	return c.DoRequest(ctx, http.MethodPost, path, body, out)
}

func (c *Client) DoRequest(ctx context.Context, method, path string, body, out any) error {
	mylog := c.mylog.Action("api_request").With("method", method, "path", path)

	var reader io.Reader
	if body != nil {
		bodyBytes, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshaling request body: %w", err)
		}
		reader = bytes.NewReader(bodyBytes)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", contentTypeJSON)
	req.Header.Set("Accept", contentTypeJSON)
	req.Header.Set("X-Request-ID", uuid.NewString())

	token, ok, err := c.store.Get(ctx, driven.KeyToken)
	if err != nil {
		return fmt.Errorf("reading token: %w", err)
	}
	if ok && token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		mylog.Warn("request failed", "error", err)
		return fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response: %w", err)
	}

	mylog.Debug("response received", "status", resp.StatusCode, "bytes", len(data))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &APIError{
			Status:  resp.StatusCode,
			Message: errorMessage(data),
		}
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decoding response from %s: %w", path, err)
	}
	return nil
}

// errorMessage prefers "detail", then "message", then a fixed fallback.
func errorMessage(data []byte) string {
	var parsed any
	if err := json.Unmarshal(data, &parsed); err != nil {
		return MsgNetworkError
	}

	fields, ok := parsed.(map[string]any)
	if !ok {
		return MsgUnknownError
	}
	for _, key := range []string{"detail", "message"} {
		if msg := messageText(fields[key]); msg != "" {
			return msg
		}
	}
	return MsgUnknownError
}

// messageText flattens a message field. Structured details (validation
// error lists) are rendered as compact JSON.
func messageText(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case bool:
		if !val {
			return ""
		}
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return string(raw)
}
