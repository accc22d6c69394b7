package orders

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandlerCreate(t *testing.T) {
	store := NewMemoryStore()
	h := NewHandler(store, nil)

	req := httptest.NewRequest(http.MethodPost, "/admin/orders",
		strings.NewReader(`{"company":"Zomato","otp":"4821","tracking_id":"ZMT-1"}`))
	rec := httptest.NewRecorder()
	h.Create(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	var got Order
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "zomato", got.Company)
	assert.Equal(t, StatusPending, got.Status)
	assert.NotEmpty(t, got.ID)
}

func TestHandlerCreateValidation(t *testing.T) {
	h := NewHandler(NewMemoryStore(), nil)

	tests := []struct {
		name string
		body string
	}{
		{"malformed json", `{not json`},
		{"missing company", `{"otp":"4821"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/admin/orders", strings.NewReader(tt.body))
			rec := httptest.NewRecorder()
			h.Create(rec, req)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestHandlerApproval(t *testing.T) {
	store := NewMemoryStore()
	h := NewHandler(store, nil)

	order := &Order{Company: "zomato", ApprovalToken: "tok-1"}
	require.NoError(t, store.Create(context.Background(), order))

	req := httptest.NewRequest(http.MethodPost, "/admin/orders/approval",
		strings.NewReader(`{"token":"tok-1","action":"approve"}`))
	rec := httptest.NewRecorder()
	h.Approval(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	got, err := store.Get(context.Background(), order.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusApproved, got.Status)
}

func TestHandlerApprovalUnknownToken(t *testing.T) {
	h := NewHandler(NewMemoryStore(), nil)

	req := httptest.NewRequest(http.MethodPost, "/admin/orders/approval",
		strings.NewReader(`{"token":"nope","action":"deny"}`))
	rec := httptest.NewRecorder()
	h.Approval(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandlerApprovalBadAction(t *testing.T) {
	h := NewHandler(NewMemoryStore(), nil)

	req := httptest.NewRequest(http.MethodPost, "/admin/orders/approval",
		strings.NewReader(`{"token":"tok-1","action":"maybe"}`))
	rec := httptest.NewRecorder()
	h.Approval(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandlerListAndClear(t *testing.T) {
	store := NewMemoryStore()
	h := NewHandler(store, nil)
	require.NoError(t, store.Create(context.Background(), &Order{Company: "zomato"}))

	rec := httptest.NewRecorder()
	h.List(rec, httptest.NewRequest(http.MethodGet, "/admin/orders", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var listResp struct {
		Orders []Order `json:"orders"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &listResp))
	assert.Len(t, listResp.Orders, 1)

	rec = httptest.NewRecorder()
	h.Clear(rec, httptest.NewRequest(http.MethodDelete, "/admin/orders", nil))
	assert.Equal(t, http.StatusNoContent, rec.Code)
}
