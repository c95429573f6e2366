package main

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

	"telugudb/internal/auth"
	"telugudb/pkg/models"
)

// Client wraps HTTP calls to the catalog API.
type Client struct {
	baseURL    string
	adminKey   string
	httpClient *http.Client
}

func NewClient(serverURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(serverURL, "/"),
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

// WithKey returns a copy of c that sends key on every request.
func (c *Client) WithKey(key string) *Client {
	cp := *c
	cp.adminKey = key
	return &cp
}

// APIError is a non-2xx response from the server.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("server error %d: %s", e.Status, e.Message)
}

// ListQuery mirrors the list endpoint's query parameters.
type ListQuery struct {
	Type     string
	Language string
	Category string
	Search   string
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
	Message string          `json:"message"`
	Stats   json.RawMessage `json:"stats"`
}

func (c *Client) do(ctx context.Context, method, path string, body any) (*envelope, error) {
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshal error: %w", err)
		}
		rd = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, rd)
	if err != nil {
		return nil, fmt.Errorf("request creation failed: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.adminKey != "" {
		req.Header.Set(auth.HeaderAdminKey, c.adminKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		if resp.StatusCode >= 300 {
			return nil, &APIError{Status: resp.StatusCode, Message: strings.TrimSpace(string(raw))}
		}
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if resp.StatusCode >= 300 || !env.Success {
		msg := env.Error
		if msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		return nil, &APIError{Status: resp.StatusCode, Message: msg}
	}
	return &env, nil
}

func decodeData(env *envelope, out any) error {
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("decode data: %w", err)
	}
	return nil
}

// Verify checks key against the server without caching it.
func (c *Client) Verify(ctx context.Context, key string) error {
	_, err := c.do(ctx, http.MethodPost, "/api/admin/verify", map[string]string{"key": key})
	return err
}

func (c *Client) List(ctx context.Context, f ListQuery) ([]models.Content, error) {
	q := url.Values{}
	if f.Type != "" {
		q.Set("type", f.Type)
	}
	if f.Language != "" {
		q.Set("language", f.Language)
	}
	if f.Category != "" {
		q.Set("category", f.Category)
	}
	if f.Search != "" {
		q.Set("search", f.Search)
	}
	path := "/api/content"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}

	env, err := c.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}
	var items []models.Content
	if err := decodeData(env, &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (c *Client) Get(ctx context.Context, id string) (*models.Content, error) {
	env, err := c.do(ctx, http.MethodGet, "/api/content/"+url.PathEscape(id), nil)
	if err != nil {
		return nil, err
	}
	var item models.Content
	if err := decodeData(env, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

func (c *Client) Create(ctx context.Context, doc json.RawMessage) (*models.Content, error) {
	env, err := c.do(ctx, http.MethodPost, "/api/content", doc)
	if err != nil {
		return nil, err
	}
	var item models.Content
	if err := decodeData(env, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

func (c *Client) Update(ctx context.Context, id string, patch json.RawMessage) (*models.Content, error) {
	env, err := c.do(ctx, http.MethodPut, "/api/content/"+url.PathEscape(id), patch)
	if err != nil {
		return nil, err
	}
	var item models.Content
	if err := decodeData(env, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

func (c *Client) Delete(ctx context.Context, id string) error {
	_, err := c.do(ctx, http.MethodDelete, "/api/content/"+url.PathEscape(id), nil)
	return err
}

func (c *Client) Stats(ctx context.Context) (*models.Stats, error) {
	env, err := c.do(ctx, http.MethodGet, "/api/admin/stats", nil)
	if err != nil {
		return nil, err
	}
	var stats models.Stats
	if err := json.Unmarshal(env.Stats, &stats); err != nil {
		return nil, fmt.Errorf("decode stats: %w", err)
	}
	return &stats, nil
}
