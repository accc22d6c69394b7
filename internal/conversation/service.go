// Package conversation drives the call dialogue: it turns caller
// utterances into state transitions, collaborator calls and spoken
// replies.
package conversation

import "context"

// TurnRequest is one caller utterance addressed to a session. The
// voice layer may pass along hints it already knows, such as the role
// announced by an IVR menu or the company from caller-id lookup.
type TurnRequest struct {
	SessionID string `json:"session_id"`
	Text      string `json:"text"`
	Language  string `json:"language,omitempty"`
	RoleHint  string `json:"role_hint,omitempty"`
	Company   string `json:"company,omitempty"`
	OrderID   string `json:"order_id,omitempty"`
}

// TurnResponse is what the assistant says back, plus enough state for
// the voice layer to act on.
type TurnResponse struct {
	SessionID string `json:"session_id"`
	Reply     string `json:"reply"`
	Stage     string `json:"stage"`
	Role      string `json:"role"`
	Language  string `json:"language"`
	Closed    bool   `json:"closed"`
	Summary   string `json:"summary,omitempty"`
}

// Service processes conversation turns.
type Service interface {
	ProcessTurn(ctx context.Context, req TurnRequest) (TurnResponse, error)
	Summary(ctx context.Context, sessionID string) (string, error)
	Reset(ctx context.Context, sessionID string) error
}
