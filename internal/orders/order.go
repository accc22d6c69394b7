// Package orders is the wallet of expected deliveries the owner
// registered through the companion app.
package orders

import (
	"context"
	"errors"
	"time"
)

// Status is an order's approval lifecycle position.
type Status string

const (
	StatusPending   Status = "pending"
	StatusApproved  Status = "approved"
	StatusDenied    Status = "denied"
	StatusCompleted Status = "completed"
)

// Order is one expected delivery, optionally carrying the OTP the
// owner pre-shared and the marketplace tracking id.
type Order struct {
	ID            string    `json:"id"`
	Company       string    `json:"company"`
	OTP           string    `json:"otp,omitempty"`
	TrackingID    string    `json:"tracking_id,omitempty"`
	Status        Status    `json:"status"`
	ApprovalToken string    `json:"approval_token,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// ErrNotFound is returned when no order matches a lookup.
var ErrNotFound = errors.New("order not found")

// Store persists the order wallet.
type Store interface {
	Create(ctx context.Context, o *Order) error
	Get(ctx context.Context, id string) (*Order, error)
	List(ctx context.Context) ([]Order, error)
	// FindByCompany returns the most recent order for a company in
	// any of the given statuses.
	FindByCompany(ctx context.Context, company string, statuses ...Status) (*Order, error)
	FindByToken(ctx context.Context, token string) (*Order, error)
	SetStatus(ctx context.Context, id string, status Status) error
	Clear(ctx context.Context) error
}
