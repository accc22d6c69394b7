package notify

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/echomi/echomi-ai-platform/pkg/logging"
)

// Service composes and dispatches owner notifications for call events.
type Service struct {
	dispatcher Dispatcher
	ownerPhone string
	logger     *logging.Logger
}

// NewService creates a notification service.
func NewService(dispatcher Dispatcher, ownerPhone string, logger *logging.Logger) *Service {
	if logger == nil {
		logger = logging.Default()
	}
	return &Service{
		dispatcher: dispatcher,
		ownerPhone: ownerPhone,
		logger:     logger,
	}
}

// VisitorApproval asks the owner whether to engage with an unknown
// visitor. It returns the approval token the owner's decision will be
// correlated by.
func (s *Service) VisitorApproval(ctx context.Context, name, purpose, callback string) (string, error) {
	if s.dispatcher == nil {
		return "", fmt.Errorf("notify: no dispatcher configured")
	}

	token := uuid.New().String()
	if name == "" {
		name = "An unknown caller"
	}
	message := fmt.Sprintf("%s is calling", name)
	if purpose != "" {
		message += " about: " + purpose
	}
	if callback != "" {
		message += ". Callback: " + callback
	}

	n := Notification{
		UserPhone:      s.ownerPhone,
		Title:          "Visitor at the line",
		Message:        message,
		Type:           TypeVisitorApproval,
		ActionRequired: true,
		ApprovalToken:  token,
		Timestamp:      time.Now().Unix(),
	}
	if err := s.dispatcher.Push(ctx, n); err != nil {
		return "", err
	}

	s.logger.Info("notify: visitor approval requested", "token", token)
	return token, nil
}

// Urgent flags an urgent call to the owner immediately.
func (s *Service) Urgent(ctx context.Context, message string) error {
	if s.dispatcher == nil {
		return fmt.Errorf("notify: no dispatcher configured")
	}
	return s.dispatcher.Push(ctx, Notification{
		UserPhone:      s.ownerPhone,
		Title:          "Urgent call",
		Message:        message,
		Type:           TypeUrgent,
		ActionRequired: true,
		Timestamp:      time.Now().Unix(),
	})
}

// DeliveryArrived tells the owner a delivery partner has reached the
// address.
func (s *Service) DeliveryArrived(ctx context.Context, company string) error {
	if s.dispatcher == nil {
		return fmt.Errorf("notify: no dispatcher configured")
	}
	message := "Your delivery has arrived at the door"
	if company != "" {
		message = fmt.Sprintf("Your %s delivery has arrived at the door", company)
	}
	return s.dispatcher.Push(ctx, Notification{
		UserPhone: s.ownerPhone,
		Title:     "Delivery arrived",
		Message:   message,
		Type:      TypeArrival,
		Timestamp: time.Now().Unix(),
	})
}

// CallSummary delivers the end-of-call summary to the owner.
func (s *Service) CallSummary(ctx context.Context, summary string) error {
	if s.dispatcher == nil || summary == "" {
		return nil
	}
	return s.dispatcher.Push(ctx, Notification{
		UserPhone: s.ownerPhone,
		Title:     "Call handled",
		Message:   summary,
		Type:      TypeCallSummary,
		Timestamp: time.Now().Unix(),
	})
}
