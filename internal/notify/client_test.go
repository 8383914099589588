package notify

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/helphub-ai/support-intake/internal/config"
)

func TestNotifySuccess(t *testing.T) {
	var got notifyRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_ = json.NewEncoder(w).Encode(map[string]string{"status": "success"})
	}))
	defer server.Close()

	client := NewClient(config.NotifierConfig{URL: server.URL, TimeoutSeconds: 5})
	err := client.Notify(context.Background(), 42, "Your ticket TK-1 has been resolved!")
	require.NoError(t, err)
	assert.Equal(t, int64(42), got.UserID)
	assert.Contains(t, got.Message, "TK-1")
}

func TestNotifyErrorAck(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]string{"status": "error", "message": "bot not initialized"})
	}))
	defer server.Close()

	client := NewClient(config.NotifierConfig{URL: server.URL, TimeoutSeconds: 5})
	err := client.Notify(context.Background(), 42, "hello")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bot not initialized")
}

func TestNotifyNotConfigured(t *testing.T) {
	client := NewClient(config.NotifierConfig{})
	err := client.Notify(context.Background(), 42, "hello")
	assert.ErrorIs(t, err, ErrNotConfigured)
}
