// Package evolution provides a client for the Evolution API, the
// WhatsApp gateway that evolution instances point at.
package evolution

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/cenkalti/backoff/v5"
)

const (
	defaultTimeout = 30 * time.Second
	maxRetries     = 3

	// Integration is the WhatsApp integration requested when creating
	// instances.
	Integration = "WHATSAPP-BAILEYS"
)

// Client talks to a single Evolution API server.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// New creates a client for the Evolution API at baseURL, authenticating
// with apiKey.
func New(baseURL, apiKey string) *Client {
	return &Client{
		baseURL:    baseURL,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: defaultTimeout},
	}
}

// CreateInstanceRequest is the payload for provisioning a new WhatsApp
// instance.
type CreateInstanceRequest struct {
	InstanceName string `json:"instanceName"`
	Integration  string `json:"integration"`
	QRCode       bool   `json:"qrcode"`
}

// InstanceInfo describes an instance as reported by the Evolution API.
type InstanceInfo struct {
	InstanceName string `json:"instanceName"`
	InstanceID   string `json:"instanceId,omitempty"`
	Status       string `json:"status,omitempty"`
}

// ConnectionState is the connection status of an instance, one of
// "open", "connecting" or "close".
type ConnectionState struct {
	Instance struct {
		InstanceName string `json:"instanceName"`
		State        string `json:"state"`
	} `json:"instance"`
}

// CreateInstance provisions a new WhatsApp instance with the Baileys
// integration.
func (c *Client) CreateInstance(ctx context.Context, instanceName string) (*InstanceInfo, error) {
	body := CreateInstanceRequest{
		InstanceName: instanceName,
		Integration:  Integration,
		QRCode:       true,
	}

	var resp struct {
		Instance InstanceInfo `json:"instance"`
	}
	if err := c.do(ctx, http.MethodPost, "/instance/create", body, &resp); err != nil {
		return nil, fmt.Errorf("failed to create instance: %w", err)
	}

	return &resp.Instance, nil
}

// FetchInstances lists the instances known to the Evolution API server.
func (c *Client) FetchInstances(ctx context.Context) ([]InstanceInfo, error) {
	var resp []struct {
		Instance InstanceInfo `json:"instance"`
	}
	if err := c.do(ctx, http.MethodGet, "/instance/fetchInstances", nil, &resp); err != nil {
		return nil, fmt.Errorf("failed to fetch instances: %w", err)
	}

	instances := make([]InstanceInfo, 0, len(resp))
	for _, r := range resp {
		instances = append(instances, r.Instance)
	}

	return instances, nil
}

// FetchConnectionState returns the connection status of an instance.
func (c *Client) FetchConnectionState(ctx context.Context, instanceName string) (*ConnectionState, error) {
	var state ConnectionState
	path := "/instance/connectionState/" + url.PathEscape(instanceName)
	if err := c.do(ctx, http.MethodGet, path, nil, &state); err != nil {
		return nil, fmt.Errorf("failed to fetch connection state: %w", err)
	}

	return &state, nil
}

// do issues a request with exponential backoff. Client errors are not
// retried, the Evolution API returns them deterministically.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
	}

	operation := func() ([]byte, error) {
		var reader io.Reader
		if payload != nil {
			reader = bytes.NewReader(payload)
		}

		req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
		if err != nil {
			return nil, backoff.Permanent(err)
		}
		req.Header.Set("apikey", c.apiKey)
		if payload != nil {
			req.Header.Set("Content-Type", "application/json")
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()

		data, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, err
		}

		if resp.StatusCode >= 500 {
			return nil, fmt.Errorf("evolution api returned status %d", resp.StatusCode)
		}
		if resp.StatusCode >= 400 {
			return nil, backoff.Permanent(fmt.Errorf("evolution api returned status %d: %s", resp.StatusCode, data))
		}

		return data, nil
	}

	data, err := backoff.Retry(ctx, operation,
		backoff.WithBackOff(backoff.NewExponentialBackOff()),
		backoff.WithMaxTries(maxRetries),
	)
	if err != nil {
		return err
	}

	if out != nil {
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return nil
}
