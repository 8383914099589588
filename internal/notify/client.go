package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/helphub-ai/support-intake/internal/config"
)

// ErrNotConfigured signals that no notification endpoint is set.
var ErrNotConfigured = errors.New("notifier endpoint not configured")

// Notifier pushes a resolution message back to the originating user.
type Notifier interface {
	Notify(ctx context.Context, userID int64, message string) error
}

// Client posts notifications to the chat front-end's notify endpoint.
type Client struct {
	cfg    config.NotifierConfig
	client *http.Client
}

// NewClient constructs the notifier client.
func NewClient(cfg config.NotifierConfig) *Client {
	return &Client{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout()},
	}
}

type notifyRequest struct {
	UserID  int64  `json:"user_id"`
	Message string `json:"message"`
}

type notifyAck struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// Notify delivers a single message. The acknowledgment carries
// status success|error; an error ack is surfaced as an error so the
// caller can log it, but delivery is best-effort either way.
func (c *Client) Notify(ctx context.Context, userID int64, message string) error {
	if c.cfg.URL == "" {
		return ErrNotConfigured
	}

	body, err := json.Marshal(notifyRequest{UserID: userID, Message: message})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.URL, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	var ack notifyAck
	if err := json.NewDecoder(resp.Body).Decode(&ack); err != nil {
		return fmt.Errorf("decode notify ack: %w", err)
	}
	if ack.Status != "success" {
		return fmt.Errorf("notify rejected: %s", ack.Message)
	}
	return nil
}
