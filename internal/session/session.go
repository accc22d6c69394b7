// Package session holds the per-call dialogue state and its stores.
package session

import "time"

// Stage is the dialogue state machine position for a call.
type Stage string

const (
	StageStart                  Stage = "start"
	StageRoleIdentification     Stage = "role_identification"
	StageAwaitingCompany        Stage = "awaiting_company"
	StageAwaitingOrderContext   Stage = "awaiting_order_context"
	StageOTPDelivered           Stage = "otp_delivered"
	StageAwaitingNavigationStart Stage = "awaiting_navigation_start"
	StageNavigationDelivered    Stage = "navigation_delivered"
	StageCollectingName         Stage = "collecting_name"
	StageCollectingPurpose      Stage = "collecting_purpose"
	StageCollectingCallback     Stage = "collecting_callback"
	StagePendingOwnerApproval   Stage = "pending_owner_approval"
	StageClosing                Stage = "closing"
)

// Role is what kind of caller the assistant decided it is talking to.
type Role string

const (
	RoleUnset    Role = ""
	RoleDelivery Role = "delivery"
	RoleUnknown  Role = "unknown"
)

// Turn is one utterance in the call transcript.
type Turn struct {
	Speaker string    `json:"speaker"`
	Text    string    `json:"text"`
	At      time.Time `json:"at"`
}

const (
	SpeakerCaller    = "caller"
	SpeakerAssistant = "assistant"
)

// Slots are the facts collected from the caller over the call. A slot
// once filled is only replaced by an explicit correction.
type Slots struct {
	Company         string `json:"company,omitempty"`
	OrderID         string `json:"order_id,omitempty"`
	CurrentLocation string `json:"current_location,omitempty"`
	Destination     string `json:"destination,omitempty"`
	VisitorName     string `json:"visitor_name,omitempty"`
	VisitorPurpose  string `json:"visitor_purpose,omitempty"`
	CallbackNumber  string `json:"callback_number,omitempty"`
}

// DeliveredOTP records what was read out to the caller, so later turns
// can repeat it without another inbox lookup.
type DeliveredOTP struct {
	Code       string  `json:"code"`
	Company    string  `json:"company,omitempty"`
	Confidence float64 `json:"confidence"`
	Tier       string  `json:"tier"`
	Manual     bool    `json:"manual,omitempty"`
}

// Session is the full per-call state. It is the unit of persistence
// and of serialization: turns for one session never interleave.
type Session struct {
	ID            string         `json:"id"`
	Stage         Stage          `json:"stage"`
	Role          Role           `json:"role"`
	Language      string         `json:"language"`
	Slots         Slots          `json:"slots"`
	Turns         []Turn         `json:"turns"`
	OTP           *DeliveredOTP  `json:"otp,omitempty"`
	Retries       map[Stage]int  `json:"retries,omitempty"`
	ApprovalToken string         `json:"approval_token,omitempty"`
	Urgent        bool           `json:"urgent,omitempty"`
	Summary       string         `json:"summary,omitempty"`
	Closed        bool           `json:"closed,omitempty"`
	CreatedAt     time.Time      `json:"created_at"`
	LastActiveAt  time.Time      `json:"last_active_at"`
}

// New returns a fresh session at the start stage.
func New(id string) *Session {
	now := time.Now().UTC()
	return &Session{
		ID:           id,
		Stage:        StageStart,
		Role:         RoleUnset,
		Retries:      make(map[Stage]int),
		CreatedAt:    now,
		LastActiveAt: now,
	}
}

// RecordTurn appends an utterance to the transcript and bumps the
// activity timestamp.
func (s *Session) RecordTurn(speaker, text string) {
	now := time.Now().UTC()
	s.Turns = append(s.Turns, Turn{Speaker: speaker, Text: text, At: now})
	s.LastActiveAt = now
}

// Retry increments and returns the unclear-input counter for a stage.
func (s *Session) Retry(stage Stage) int {
	if s.Retries == nil {
		s.Retries = make(map[Stage]int)
	}
	s.Retries[stage]++
	return s.Retries[stage]
}

// ResetRetry clears the unclear-input counter for a stage, called when
// the caller finally produces something usable.
func (s *Session) ResetRetry(stage Stage) {
	if s.Retries != nil {
		delete(s.Retries, stage)
	}
}
