// Package remote talks to the JSON document store that holds every
// collection of the tracker. Each call is exactly one HTTP request; there are
// no retries and no caching.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/frahmantamala/finance-tracker/internal"
	"github.com/frahmantamala/finance-tracker/pkg/logger"
)

const (
	CollectionCategories   = "categories"
	CollectionTransactions = "transactions"

	RequestIDHeader = "X-Request-ID"

	// error bodies are only kept for diagnostics
	maxErrorBody = 512
)

// Document is one stored record tagged with the id the store generated for it.
type Document struct {
	ID   string
	Body json.RawMessage
}

// Decode unmarshals the record body into v.
func (d Document) Decode(v interface{}) error {
	return json.Unmarshal(d.Body, v)
}

type Config struct {
	BaseURL    string
	Timeout    time.Duration
	HTTPClient *http.Client
}

type Client struct {
	baseURL    string
	timeout    time.Duration
	httpClient *http.Client
	logger     *slog.Logger
}

func NewClient(config Config, logger *slog.Logger) *Client {
	httpClient := config.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	return &Client{
		baseURL:    strings.TrimRight(config.BaseURL, "/"),
		timeout:    config.Timeout,
		httpClient: httpClient,
		logger:     logger,
	}
}

// List returns every record of the collection. A missing or null collection
// is an empty result, not an error.
func (c *Client) List(ctx context.Context, collection string) ([]Document, error) {
	body, err := c.do(ctx, http.MethodGet, c.collectionURL(collection), nil)
	if err != nil {
		return nil, err
	}

	docs, err := decodeListing(body)
	if err != nil {
		return nil, internal.NewRemoteError(
			fmt.Sprintf("failed to decode %s listing", collection),
			internal.ErrCodeRemoteDecode, 0, err)
	}

	c.logger.Debug("remote list completed", "collection", collection, "count", len(docs))
	return docs, nil
}

// Create posts a record without id and returns the id the store generated.
func (c *Client) Create(ctx context.Context, collection string, record interface{}) (string, error) {
	body, err := c.do(ctx, http.MethodPost, c.collectionURL(collection), record)
	if err != nil {
		return "", err
	}

	var created struct {
		Name string `json:"name"`
	}
	if err := json.Unmarshal(body, &created); err != nil || created.Name == "" {
		if err == nil {
			err = fmt.Errorf("response carried no generated id")
		}
		return "", internal.NewRemoteError(
			fmt.Sprintf("failed to decode %s create response", collection),
			internal.ErrCodeRemoteDecode, 0, err)
	}

	c.logger.Debug("remote create completed", "collection", collection, "id", created.Name)
	return created.Name, nil
}

// Update replaces the stored record. The echoed body is ignored; the caller
// keeps its own record as the source of truth.
func (c *Client) Update(ctx context.Context, collection, id string, record interface{}) error {
	if _, err := c.do(ctx, http.MethodPut, c.documentURL(collection, id), record); err != nil {
		return err
	}
	c.logger.Debug("remote update completed", "collection", collection, "id", id)
	return nil
}

// Remove deletes the record and hands back its id for local invalidation.
func (c *Client) Remove(ctx context.Context, collection, id string) (string, error) {
	if _, err := c.do(ctx, http.MethodDelete, c.documentURL(collection, id), nil); err != nil {
		return "", err
	}
	c.logger.Debug("remote remove completed", "collection", collection, "id", id)
	return id, nil
}

// Ping issues a shallow read of the store root.
func (c *Client) Ping(ctx context.Context) error {
	_, err := c.do(ctx, http.MethodGet, c.baseURL+"/.json?shallow=true", nil)
	return err
}

func (c *Client) collectionURL(collection string) string {
	return fmt.Sprintf("%s/%s.json", c.baseURL, url.PathEscape(collection))
}

func (c *Client) documentURL(collection, id string) string {
	return fmt.Sprintf("%s/%s/%s.json", c.baseURL, url.PathEscape(collection), url.PathEscape(id))
}

func (c *Client) do(ctx context.Context, method, target string, payload interface{}) ([]byte, error) {
	var reqBody io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, internal.NewInternalError("failed to marshal record", err)
		}
		reqBody = bytes.NewReader(data)
	}

	ctx, cancel := internal.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, method, target, reqBody)
	if err != nil {
		return nil, internal.NewRemoteError("failed to create HTTP request", internal.ErrCodeRemoteUnreachable, 0, err)
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if reqID := logger.RequestIDFrom(ctx); reqID != "" {
		req.Header.Set(RequestIDHeader, reqID)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("remote request failed", "method", method, "url", target, "error", err)
		return nil, internal.NewRemoteError(
			fmt.Sprintf("%s %s failed", method, target),
			internal.ErrCodeRemoteUnreachable, 0, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, internal.NewRemoteError("failed to read response body", internal.ErrCodeRemoteUnreachable, resp.StatusCode, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet := string(body)
		if len(snippet) > maxErrorBody {
			snippet = snippet[:maxErrorBody]
		}
		c.logger.Warn("remote store returned error status",
			"method", method,
			"url", target,
			"status_code", resp.StatusCode,
			"duration_ms", time.Since(start).Milliseconds())
		return nil, internal.NewRemoteError(
			fmt.Sprintf("%s %s returned status %d", method, target, resp.StatusCode),
			internal.ErrCodeRemoteStatus, resp.StatusCode, fmt.Errorf("%s", strings.TrimSpace(snippet)))
	}

	return body, nil
}

// decodeListing flattens an id -> record object into documents, keeping the
// key order of the response body.
func decodeListing(body []byte) ([]Document, error) {
	docs := make([]Document, 0)

	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return docs, nil
	}

	dec := json.NewDecoder(bytes.NewReader(trimmed))
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, fmt.Errorf("expected object, got %v", tok)
	}

	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := keyTok.(string)
		if !ok {
			return nil, fmt.Errorf("unexpected key token %v", keyTok)
		}

		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return nil, fmt.Errorf("record %s: %w", key, err)
		}
		if bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
			continue
		}
		docs = append(docs, Document{ID: key, Body: raw})
	}

	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	return docs, nil
}
