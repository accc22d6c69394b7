package conversation

import (
	"strings"

	"github.com/echomi/echomi-ai-platform/internal/compose"
	"github.com/echomi/echomi-ai-platform/internal/extract"
	"github.com/echomi/echomi-ai-platform/internal/session"
)

// Action is the collaborator call a decision asks the engine to make.
type Action int

const (
	ActionNone Action = iota
	ActionLookupOTP
	ActionNavigate
	ActionNotifyVisitor
	ActionNotifyArrival
)

// Decision is one turn's outcome: what to say, what to do, and where
// the session lands. Stage is the position before the engine runs the
// action; a failed action may land somewhere else.
type Decision struct {
	Reply        compose.ReplyIntent
	Action       Action
	Stage        session.Stage
	Close        bool
	NotifyUrgent bool
}

// Policy is the dialogue state machine. Decide mutates the session's
// slots and retry counters but never touches its stage; the engine
// commits the stage after actions resolve.
type Policy struct {
	maxRetries int
}

// DefaultMaxRetries is how many consecutive unusable utterances a
// stage tolerates before the call is handed off to the owner.
const DefaultMaxRetries = 3

func NewPolicy(maxRetries int) *Policy {
	if maxRetries <= 0 {
		maxRetries = DefaultMaxRetries
	}
	return &Policy{maxRetries: maxRetries}
}

// Decide maps an utterance onto the next dialogue move.
func (p *Policy) Decide(sess *session.Session, ex extract.Extraction, text string) Decision {
	fillSlots(sess, ex)

	var urgent bool
	if ex.Urgent && !sess.Urgent {
		sess.Urgent = true
		urgent = true
	}

	// a corrected company invalidates a code matched for the old one
	if ex.Correction && ex.Company != "" && sess.OTP != nil && !sess.OTP.Manual {
		sess.OTP = nil
	}

	if sess.Closed {
		return Decision{Reply: compose.ReplyGoodbye, Stage: session.StageClosing, Close: true, NotifyUrgent: urgent}
	}

	d := p.decide(sess, ex, text)
	d.NotifyUrgent = urgent
	return d
}

func (p *Policy) decide(sess *session.Session, ex extract.Extraction, text string) Decision {
	if ex.Farewell && sess.Stage != session.StageStart {
		return Decision{Reply: compose.ReplyGoodbye, Stage: session.StageClosing, Close: true}
	}

	switch sess.Stage {
	case session.StageStart, session.StageRoleIdentification:
		return p.identify(sess, ex)
	case session.StageAwaitingCompany:
		return p.awaitingCompany(sess, ex)
	case session.StageAwaitingOrderContext:
		return p.awaitingOrderContext(sess, ex)
	case session.StageOTPDelivered, session.StageNavigationDelivered:
		return p.delivered(sess, ex)
	case session.StageAwaitingNavigationStart:
		return p.awaitingNavigationStart(sess, ex, text)
	case session.StageCollectingName:
		return p.collectingName(sess, ex, text)
	case session.StageCollectingPurpose:
		return p.collectingPurpose(sess, ex, text)
	case session.StageCollectingCallback:
		return p.collectingCallback(sess, ex)
	case session.StagePendingOwnerApproval:
		return p.pendingApproval(sess)
	case session.StageClosing:
		return Decision{Reply: compose.ReplyGoodbye, Stage: session.StageClosing, Close: true}
	}
	return p.clarify(sess, sess.Stage)
}

// identify settles who is calling. The caller never reaches any other
// stage without passing through here.
func (p *Policy) identify(sess *session.Session, ex extract.Extraction) Decision {
	if deliveryEvidence(ex) {
		sess.Role = session.RoleDelivery
		sess.ResetRetry(session.StageRoleIdentification)
		return p.delivery(sess, ex)
	}
	if visitorEvidence(ex) {
		sess.Role = session.RoleUnknown
		sess.ResetRetry(session.StageRoleIdentification)
		return p.visitorNext(sess)
	}
	// A role already on the session (an upstream hint) skips the question.
	switch sess.Role {
	case session.RoleDelivery:
		return p.delivery(sess, ex)
	case session.RoleUnknown:
		return p.visitorNext(sess)
	}
	if ex.Intent == extract.IntentGreeting {
		return Decision{Reply: compose.ReplyAskRole, Stage: session.StageRoleIdentification}
	}
	return p.clarify(sess, session.StageRoleIdentification)
}

func deliveryEvidence(ex extract.Extraction) bool {
	return ex.DeliveryMarker ||
		ex.Intent == extract.IntentRequestOTP ||
		ex.Intent == extract.IntentRequestNavigation ||
		ex.Company != "" ||
		ex.OrderID != ""
}

func visitorEvidence(ex extract.Extraction) bool {
	return ex.Name != "" || ex.Purpose != ""
}

// delivery dispatches a delivery partner to the OTP or navigation flow.
func (p *Policy) delivery(sess *session.Session, ex extract.Extraction) Decision {
	if ex.Intent == extract.IntentRequestNavigation {
		return p.navigate(sess)
	}
	// An explicit code request goes straight to the lookup even without
	// a company; the matcher scores an empty hint neutrally and the
	// engine asks for the company when nothing matches.
	if sess.Slots.Company == "" && ex.Intent != extract.IntentRequestOTP {
		return Decision{Reply: compose.ReplyAskCompany, Stage: session.StageAwaitingCompany}
	}
	return Decision{Reply: compose.ReplyDeliverOTP, Action: ActionLookupOTP, Stage: session.StageOTPDelivered}
}

func (p *Policy) navigate(sess *session.Session) Decision {
	if sess.Slots.CurrentLocation == "" {
		return Decision{Reply: compose.ReplyAskNavigationStart, Stage: session.StageAwaitingNavigationStart}
	}
	return Decision{Reply: compose.ReplyDeliverNavigation, Action: ActionNavigate, Stage: session.StageNavigationDelivered}
}

func (p *Policy) awaitingCompany(sess *session.Session, ex extract.Extraction) Decision {
	if sess.Slots.Company != "" || ex.OrderID != "" {
		sess.ResetRetry(session.StageAwaitingCompany)
		return Decision{Reply: compose.ReplyDeliverOTP, Action: ActionLookupOTP, Stage: session.StageOTPDelivered}
	}
	return p.clarify(sess, session.StageAwaitingCompany)
}

// awaitingOrderContext is entered after a lookup found nothing. The
// caller can supply an order number, a different company, or read the
// code shown in their own app.
func (p *Policy) awaitingOrderContext(sess *session.Session, ex extract.Extraction) Decision {
	if ex.OTP != "" {
		sess.ResetRetry(session.StageAwaitingOrderContext)
		sess.OTP = &session.DeliveredOTP{Code: ex.OTP, Company: sess.Slots.Company, Manual: true, Tier: "manual"}
		return Decision{Reply: compose.ReplyConfirmManualOTP, Stage: session.StageOTPDelivered}
	}
	if ex.OrderID != "" || ex.Company != "" {
		sess.ResetRetry(session.StageAwaitingOrderContext)
		return Decision{Reply: compose.ReplyDeliverOTP, Action: ActionLookupOTP, Stage: session.StageOTPDelivered}
	}
	// An unclear answer here gets the stage's own prompt back, so the
	// caller hears what would actually move the lookup forward.
	return p.reprompt(sess, session.StageAwaitingOrderContext, compose.ReplyAskOrderContext)
}

// delivered handles follow-ups after a code or route was read out.
func (p *Policy) delivered(sess *session.Session, ex extract.Extraction) Decision {
	if ex.Intent == extract.IntentRequestNavigation {
		return p.navigate(sess)
	}
	if ex.Intent == extract.IntentRequestOTP {
		if sess.OTP != nil {
			// repeat from session state, no second lookup
			return Decision{Reply: compose.ReplyDeliverOTP, Stage: session.StageOTPDelivered}
		}
		if sess.Slots.Company == "" {
			return Decision{Reply: compose.ReplyAskCompany, Stage: session.StageAwaitingCompany}
		}
		return Decision{Reply: compose.ReplyDeliverOTP, Action: ActionLookupOTP, Stage: session.StageOTPDelivered}
	}
	if ex.Correction && ex.Company != "" {
		return Decision{Reply: compose.ReplyDeliverOTP, Action: ActionLookupOTP, Stage: session.StageOTPDelivered}
	}
	if ex.Arrived {
		return Decision{Reply: compose.ReplyArrivalAck, Action: ActionNotifyArrival, Stage: sess.Stage}
	}
	if ex.Affirmative {
		return Decision{Reply: compose.ReplyGoodbye, Stage: session.StageClosing, Close: true}
	}
	return p.clarify(sess, sess.Stage)
}

func (p *Policy) awaitingNavigationStart(sess *session.Session, ex extract.Extraction, text string) Decision {
	if sess.Slots.CurrentLocation == "" {
		if v := freeform(ex, text, 6); v != "" {
			sess.Slots.CurrentLocation = v
		}
	}
	if sess.Slots.CurrentLocation != "" {
		sess.ResetRetry(session.StageAwaitingNavigationStart)
		return Decision{Reply: compose.ReplyDeliverNavigation, Action: ActionNavigate, Stage: session.StageNavigationDelivered}
	}
	return p.clarify(sess, session.StageAwaitingNavigationStart)
}

func (p *Policy) collectingName(sess *session.Session, ex extract.Extraction, text string) Decision {
	if sess.Slots.VisitorName == "" {
		if v := freeform(ex, text, 4); v != "" {
			sess.Slots.VisitorName = v
		}
	}
	if sess.Slots.VisitorName != "" {
		sess.ResetRetry(session.StageCollectingName)
		return p.visitorNext(sess)
	}
	return p.clarify(sess, session.StageCollectingName)
}

func (p *Policy) collectingPurpose(sess *session.Session, ex extract.Extraction, text string) Decision {
	if sess.Slots.VisitorPurpose == "" {
		if v := freeform(ex, text, 14); v != "" {
			sess.Slots.VisitorPurpose = v
		}
	}
	if sess.Slots.VisitorPurpose != "" {
		sess.ResetRetry(session.StageCollectingPurpose)
		return p.visitorNext(sess)
	}
	return p.clarify(sess, session.StageCollectingPurpose)
}

func (p *Policy) collectingCallback(sess *session.Session, ex extract.Extraction) Decision {
	if sess.Slots.CallbackNumber != "" || ex.Negative {
		sess.ResetRetry(session.StageCollectingCallback)
		return Decision{Reply: compose.ReplyForwardedForApproval, Action: ActionNotifyVisitor, Stage: session.StagePendingOwnerApproval}
	}
	return p.clarify(sess, session.StageCollectingCallback)
}

// pendingApproval answers "any update?" from session state alone. The
// owner is pinged exactly once per call.
func (p *Policy) pendingApproval(sess *session.Session) Decision {
	if sess.ApprovalToken == "" {
		return Decision{Reply: compose.ReplyForwardedForApproval, Action: ActionNotifyVisitor, Stage: session.StagePendingOwnerApproval}
	}
	return Decision{Reply: compose.ReplyApprovalPending, Stage: session.StagePendingOwnerApproval}
}

// visitorNext asks for the next missing visitor detail, or forwards
// the request once everything is in.
func (p *Policy) visitorNext(sess *session.Session) Decision {
	switch {
	case sess.Slots.VisitorName == "":
		return Decision{Reply: compose.ReplyAskVisitorName, Stage: session.StageCollectingName}
	case sess.Slots.VisitorPurpose == "":
		return Decision{Reply: compose.ReplyAskVisitorPurpose, Stage: session.StageCollectingPurpose}
	case sess.Slots.CallbackNumber == "":
		return Decision{Reply: compose.ReplyAskCallback, Stage: session.StageCollectingCallback}
	}
	return Decision{Reply: compose.ReplyForwardedForApproval, Action: ActionNotifyVisitor, Stage: session.StagePendingOwnerApproval}
}

func (p *Policy) clarify(sess *session.Session, stage session.Stage) Decision {
	return p.reprompt(sess, stage, compose.ReplyClarify)
}

func (p *Policy) reprompt(sess *session.Session, stage session.Stage, reply compose.ReplyIntent) Decision {
	if sess.Retry(stage) >= p.maxRetries {
		// Offer the handoff but keep the call open; the counter resets
		// so a caller who recovers is not stuck on the fallback.
		sess.ResetRetry(stage)
		return Decision{Reply: compose.ReplyHumanHandoff, Stage: stage}
	}
	return Decision{Reply: reply, Stage: stage}
}

// fillSlots copies extracted facts into the session. Filled slots are
// only replaced when the caller corrected themselves.
func fillSlots(sess *session.Session, ex extract.Extraction) {
	s := &sess.Slots
	fill(&s.Company, ex.Company, ex.Correction)
	fill(&s.OrderID, ex.OrderID, ex.Correction)
	fill(&s.CurrentLocation, ex.CurrentLocation, ex.Correction)
	fill(&s.Destination, ex.Destination, ex.Correction)
	fill(&s.VisitorName, ex.Name, ex.Correction)
	fill(&s.VisitorPurpose, ex.Purpose, ex.Correction)
	fill(&s.CallbackNumber, ex.CallbackNumber, ex.Correction)
}

func fill(dst *string, v string, correction bool) {
	if v == "" {
		return
	}
	if *dst == "" || correction {
		*dst = v
	}
}

// freeform returns the raw utterance when a collecting stage asked a
// direct question and the caller answered without any recognizable
// phrasing, like a bare "Priya" for a name prompt.
func freeform(ex extract.Extraction, text string, maxWords int) string {
	if ex.Intent == extract.IntentRequestOTP || ex.Intent == extract.IntentRequestNavigation {
		return ""
	}
	if ex.Farewell || ex.Affirmative || ex.Negative || ex.Intent == extract.IntentGreeting {
		return ""
	}
	t := strings.TrimSpace(text)
	if t == "" || len(strings.Fields(t)) > maxWords {
		return ""
	}
	return strings.TrimRight(t, ".!?")
}
