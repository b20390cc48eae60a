package drive

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

const (
	defaultBaseURL = "https://www.googleapis.com"
	driveScope     = "https://www.googleapis.com/auth/drive"
)

// Sharer grants a user's email read access to a backing file resource.
type Sharer interface {
	GrantRead(ctx context.Context, fileID, email string) (string, error)
}

// Client grants Drive file permissions through a service account.
type Client struct {
	baseURL string
	client  *http.Client
}

// NewClient builds a Drive client from service-account credentials JSON.
func NewClient(ctx context.Context, credentialsJSON []byte) (*Client, error) {
	cfg, err := google.JWTConfigFromJSON(credentialsJSON, driveScope)
	if err != nil {
		return nil, fmt.Errorf("parse drive credentials: %w", err)
	}
	hc := oauth2.NewClient(ctx, cfg.TokenSource(ctx))
	hc.Timeout = 15 * time.Second
	return &Client{baseURL: defaultBaseURL, client: hc}, nil
}

// NewClientWithHTTP wires an explicit HTTP client and base URL. Tests use it
// to point at an httptest server.
func NewClientWithHTTP(baseURL string, hc *http.Client) *Client {
	return &Client{baseURL: baseURL, client: hc}
}

type permissionRequest struct {
	Role         string `json:"role"`
	Type         string `json:"type"`
	EmailAddress string `json:"emailAddress"`
}

type permissionResponse struct {
	ID string `json:"id"`
}

// GrantRead shares the file with the email as a reader and returns the
// permission ID Drive assigned.
func (c *Client) GrantRead(ctx context.Context, fileID, email string) (string, error) {
	payload, err := json.Marshal(permissionRequest{
		Role:         "reader",
		Type:         "user",
		EmailAddress: email,
	})
	if err != nil {
		return "", fmt.Errorf("marshal permission: %w", err)
	}

	endpoint := fmt.Sprintf("%s/drive/v3/files/%s/permissions?fields=id",
		c.baseURL, url.PathEscape(fileID))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("build permission request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("create permission: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read permission response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("create permission: status %d: %s", resp.StatusCode, raw)
	}

	var out permissionResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return "", fmt.Errorf("decode permission response: %w", err)
	}
	return out.ID, nil
}
