package notify

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClientPush(t *testing.T) {
	var got Notification
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/send-notification", r.URL.Path)
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "secret", nil)
	err := client.Push(context.Background(), Notification{
		UserPhone:      "+919876543210",
		Title:          "Visitor at the line",
		Type:           TypeVisitorApproval,
		ActionRequired: true,
		ApprovalToken:  "tok-1",
	})
	require.NoError(t, err)
	assert.Equal(t, "tok-1", got.ApprovalToken)
	assert.Equal(t, TypeVisitorApproval, got.Type)
}

func TestClientPushServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusBadGateway)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "", nil)
	err := client.Push(context.Background(), Notification{Type: TypeUrgent})
	assert.Error(t, err)
}
