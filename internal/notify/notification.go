// Package notify pushes owner notifications through the companion-app
// backend.
package notify

import "context"

// Notification types the companion app knows how to render.
const (
	TypeVisitorApproval = "visitor_approval"
	TypeUrgent          = "urgent"
	TypeCallSummary     = "call_summary"
	TypeArrival         = "delivery_arrival"
)

// Notification is one push message to the owner's phone.
type Notification struct {
	UserPhone      string `json:"user_phone"`
	Title          string `json:"title"`
	Message        string `json:"message"`
	Type           string `json:"type"`
	ActionRequired bool   `json:"action_required"`
	ApprovalToken  string `json:"approval_token,omitempty"`
	Timestamp      int64  `json:"timestamp"`
}

// Dispatcher delivers notifications. Implementations must be safe for
// concurrent use.
type Dispatcher interface {
	Push(ctx context.Context, n Notification) error
}
