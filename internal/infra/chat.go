package infra

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// ChatStatus is returned by the messaging bridge sidecar.
type ChatStatus struct {
	Connected bool    `json:"connected"`
	Phone     *string `json:"phone,omitempty"`
	QRCode    *string `json:"qr_code,omitempty"` // present while pairing
}

// ChatClient talks to the external messaging bridge over HTTP. The bridge
// owns the session with the messaging provider; this client never holds
// provider credentials. Calls are wrapped in a circuit breaker so a dead
// bridge cannot stall request handlers.
type ChatClient struct {
	bridgeURL  string
	httpClient *http.Client
	breaker    *CircuitBreaker
}

func NewChatClient(bridgeURL string) *ChatClient {
	return &ChatClient{
		bridgeURL:  bridgeURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		breaker:    NewCircuitBreaker(DefaultCBConfig()),
	}
}

// Breaker exposes the circuit breaker for health reporting.
func (c *ChatClient) Breaker() *CircuitBreaker { return c.breaker }

// Status fetches the current bridge connection state.
func (c *ChatClient) Status(ctx context.Context) (*ChatStatus, error) {
	var status *ChatStatus
	err := c.breaker.Execute(func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.bridgeURL+"/status", nil)
		if err != nil {
			return fmt.Errorf("chat: create request: %w", err)
		}
		resp, err := c.httpClient.Do(req)
		if err != nil {
			return fmt.Errorf("chat: bridge unreachable: %w", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("chat: bridge returned %d", resp.StatusCode)
		}
		var s ChatStatus
		if err := json.NewDecoder(resp.Body).Decode(&s); err != nil {
			return fmt.Errorf("chat: decode response: %w", err)
		}
		status = &s
		return nil
	})
	return status, err
}

// Disconnect tears down the bridge session so a new device can pair.
func (c *ChatClient) Disconnect(ctx context.Context) error {
	return c.breaker.Execute(func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.bridgeURL+"/disconnect", nil)
		if err != nil {
			return fmt.Errorf("chat: create request: %w", err)
		}
		resp, err := c.httpClient.Do(req)
		if err != nil {
			return fmt.Errorf("chat: bridge unreachable: %w", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNoContent {
			return fmt.Errorf("chat: bridge returned %d", resp.StatusCode)
		}
		return nil
	})
}
