// Package signing talks to the external n8n signing-automation service.
// Only the HTTP contract is consumed here; the automation itself lives
// entirely on the n8n side.
package signing

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

	"github.com/google/uuid"

	"github.com/fortiva/propflow/internal/models"
)

// Result reports the outcome of a single gateway call. Callers decide
// what to do with a failure; the client itself never retries. The
// standing policy is fire-and-forget: delivery failures are logged and
// recorded as failed transactions, never surfaced to the end user.
type Result struct {
	OK         bool
	StatusCode int // HTTP status, 0 when the request never completed
	Err        error
}

// StatusResponse is the body of a sign-status reply. All fields are
// optional on the wire.
type StatusResponse struct {
	Status string `json:"status,omitempty"`
	N8nID  string `json:"n8nId,omitempty"`
}

// Gateway is the outbound contract to the signing automation.
type Gateway interface {
	CreateTemplate(ctx context.Context, tpl *models.Template) Result
	GenerateDocument(ctx context.Context, doc *models.Document) Result
	ApproveSigning(ctx context.Context, documentID string) Result
	SignStatus(ctx context.Context, documentID string) (*StatusResponse, Result)
}

// Client implements Gateway against a webhook base URL.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient builds a client for the given n8n webhook base URL.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 10 * time.Second},
	}
}

// CreateTemplate notifies the automation that a template was created.
func (c *Client) CreateTemplate(ctx context.Context, tpl *models.Template) Result {
	return c.post(ctx, "/create-template", tpl)
}

// GenerateDocument forwards a freshly created document for generation.
// The payload spreads the raw metadata at the top level, the shape the
// n8n workflow expects, alongside the document and template ids.
func (c *Client) GenerateDocument(ctx context.Context, doc *models.Document) Result {
	payload := make(map[string]interface{}, len(doc.Metadata)+2)
	for k, v := range doc.Metadata {
		payload[k] = v
	}
	payload["documentId"] = doc.ID
	payload["templateId"] = doc.TemplateID
	return c.post(ctx, "/document-generate", payload)
}

// ApproveSigning notifies the automation that signing was approved.
func (c *Client) ApproveSigning(ctx context.Context, documentID string) Result {
	return c.post(ctx, "/approves-signing", map[string]string{"documentId": documentID})
}

// SignStatus queries the automation for the current signing status.
func (c *Client) SignStatus(ctx context.Context, documentID string) (*StatusResponse, Result) {
	endpoint := c.baseURL + "/sign-status?documentId=" + url.QueryEscape(documentID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, Result{Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-Id", uuid.NewString())

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, Result{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		io.Copy(io.Discard, resp.Body)
		return nil, Result{StatusCode: resp.StatusCode, Err: fmt.Errorf("gateway returned %s", resp.Status)}
	}

	var status StatusResponse
	if err := json.NewDecoder(resp.Body).Decode(&status); err != nil {
		return nil, Result{StatusCode: resp.StatusCode, Err: fmt.Errorf("decode sign-status response: %w", err)}
	}
	return &status, Result{OK: true, StatusCode: resp.StatusCode}
}

// post sends one JSON notification. A fresh X-Request-Id accompanies
// every attempt so the automation can deduplicate deliveries.
func (c *Client) post(ctx context.Context, path string, payload interface{}) Result {
	body, err := json.Marshal(payload)
	if err != nil {
		return Result{Err: fmt.Errorf("marshal payload: %w", err)}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return Result{Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-Id", uuid.NewString())

	resp, err := c.http.Do(req)
	if err != nil {
		return Result{Err: err}
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return Result{StatusCode: resp.StatusCode, Err: fmt.Errorf("gateway returned %s", resp.Status)}
	}
	return Result{OK: true, StatusCode: resp.StatusCode}
}
