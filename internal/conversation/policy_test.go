package conversation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/echomi/echomi-ai-platform/internal/compose"
	"github.com/echomi/echomi-ai-platform/internal/extract"
	"github.com/echomi/echomi-ai-platform/internal/session"
)

func TestGreetingAsksForRole(t *testing.T) {
	p := NewPolicy(0)
	sess := session.New("c1")

	d := p.Decide(sess, extract.Extraction{Intent: extract.IntentGreeting}, "hello")
	assert.Equal(t, compose.ReplyAskRole, d.Reply)
	assert.Equal(t, session.StageRoleIdentification, d.Stage)
	assert.Equal(t, session.RoleUnset, sess.Role)
}

func TestDeliveryWithCompanyGoesStraightToLookup(t *testing.T) {
	p := NewPolicy(0)
	sess := session.New("c1")

	d := p.Decide(sess, extract.Extraction{
		Intent:         extract.IntentRequestOTP,
		Company:        "zomato",
		DeliveryMarker: true,
	}, "zomato delivery, need the otp")
	assert.Equal(t, ActionLookupOTP, d.Action)
	assert.Equal(t, session.StageOTPDelivered, d.Stage)
	assert.Equal(t, session.RoleDelivery, sess.Role)
	assert.Equal(t, "zomato", sess.Slots.Company)
}

func TestDeliveryMarkerWithoutCompanyAsksForIt(t *testing.T) {
	p := NewPolicy(0)
	sess := session.New("c1")

	d := p.Decide(sess, extract.Extraction{Intent: extract.IntentProvideInfo, DeliveryMarker: true}, "i have a delivery")
	assert.Equal(t, compose.ReplyAskCompany, d.Reply)
	assert.Equal(t, ActionNone, d.Action)
	assert.Equal(t, session.StageAwaitingCompany, d.Stage)
}

func TestOTPRequestWithoutCompanyStillLooksUp(t *testing.T) {
	p := NewPolicy(0)
	sess := session.New("c1")

	d := p.Decide(sess, extract.Extraction{Intent: extract.IntentRequestOTP, DeliveryMarker: true}, "i need the delivery code")
	assert.Equal(t, compose.ReplyDeliverOTP, d.Reply)
	assert.Equal(t, ActionLookupOTP, d.Action)
	assert.Equal(t, session.StageOTPDelivered, d.Stage)
}

func TestVisitorWithNameSkipsToNextSlot(t *testing.T) {
	p := NewPolicy(0)
	sess := session.New("c1")

	d := p.Decide(sess, extract.Extraction{Intent: extract.IntentProvideInfo, Name: "Priya"}, "this is Priya")
	assert.Equal(t, session.RoleUnknown, sess.Role)
	assert.Equal(t, compose.ReplyAskVisitorPurpose, d.Reply)
	assert.Equal(t, session.StageCollectingPurpose, d.Stage)
}

func TestRepeatedUnclearHandsOff(t *testing.T) {
	p := NewPolicy(3)
	sess := session.New("c1")
	unclear := extract.Extraction{Intent: extract.IntentUnclear}

	d := p.Decide(sess, unclear, "mumble")
	assert.Equal(t, compose.ReplyClarify, d.Reply)
	sess.Stage = d.Stage

	d = p.Decide(sess, unclear, "static noise")
	assert.Equal(t, compose.ReplyClarify, d.Reply)

	d = p.Decide(sess, unclear, "more static")
	assert.Equal(t, compose.ReplyHumanHandoff, d.Reply)
	assert.False(t, d.Close)
	assert.Equal(t, sess.Stage, d.Stage)

	// The counter resets with the handoff, so the next unclear turn
	// goes back to a plain clarification.
	d = p.Decide(sess, unclear, "still static")
	assert.Equal(t, compose.ReplyClarify, d.Reply)
}

func TestUsableInputResetsRetryCounter(t *testing.T) {
	p := NewPolicy(3)
	sess := session.New("c1")
	unclear := extract.Extraction{Intent: extract.IntentUnclear}

	p.Decide(sess, unclear, "mumble")
	p.Decide(sess, unclear, "mumble")
	d := p.Decide(sess, extract.Extraction{Intent: extract.IntentProvideInfo, Company: "swiggy"}, "swiggy")
	assert.Equal(t, ActionLookupOTP, d.Action)
	assert.Zero(t, sess.Retries[session.StageRoleIdentification])
}

func TestAwaitingCompanyAcceptsCompanyOrOrderID(t *testing.T) {
	p := NewPolicy(0)

	sess := session.New("c1")
	sess.Stage = session.StageAwaitingCompany
	sess.Role = session.RoleDelivery
	d := p.Decide(sess, extract.Extraction{Intent: extract.IntentProvideInfo, Company: "blinkit"}, "it's blinkit")
	assert.Equal(t, ActionLookupOTP, d.Action)

	sess = session.New("c2")
	sess.Stage = session.StageAwaitingCompany
	sess.Role = session.RoleDelivery
	d = p.Decide(sess, extract.Extraction{Intent: extract.IntentProvideInfo, OrderID: "ZM48213"}, "order id ZM48213")
	assert.Equal(t, ActionLookupOTP, d.Action)
}

func TestManualCodeConfirmation(t *testing.T) {
	p := NewPolicy(0)
	sess := session.New("c1")
	sess.Stage = session.StageAwaitingOrderContext
	sess.Role = session.RoleDelivery
	sess.Slots.Company = "zomato"

	d := p.Decide(sess, extract.Extraction{Intent: extract.IntentProvideInfo, OTP: "7349"}, "the app shows code 7349")
	assert.Equal(t, compose.ReplyConfirmManualOTP, d.Reply)
	assert.Equal(t, ActionNone, d.Action)
	require.NotNil(t, sess.OTP)
	assert.Equal(t, "7349", sess.OTP.Code)
	assert.True(t, sess.OTP.Manual)
}

func TestUnclearInOrderContextRepromptsForDetails(t *testing.T) {
	p := NewPolicy(3)
	sess := session.New("c1")
	sess.Stage = session.StageAwaitingOrderContext
	sess.Role = session.RoleDelivery
	sess.Slots.Company = "zomato"

	d := p.Decide(sess, extract.Extraction{Intent: extract.IntentUnclear}, "umm")
	assert.Equal(t, compose.ReplyAskOrderContext, d.Reply)
	assert.Equal(t, session.StageAwaitingOrderContext, d.Stage)
}

func TestRepeatRequestReusesDeliveredCode(t *testing.T) {
	p := NewPolicy(0)
	sess := session.New("c1")
	sess.Stage = session.StageOTPDelivered
	sess.Role = session.RoleDelivery
	sess.OTP = &session.DeliveredOTP{Code: "4821", Company: "zomato", Tier: "high"}

	d := p.Decide(sess, extract.Extraction{Intent: extract.IntentRequestOTP}, "repeat the otp please")
	assert.Equal(t, compose.ReplyDeliverOTP, d.Reply)
	assert.Equal(t, ActionNone, d.Action, "no second lookup for a repeat")
}

func TestCompanyCorrectionInvalidatesCode(t *testing.T) {
	p := NewPolicy(0)
	sess := session.New("c1")
	sess.Stage = session.StageOTPDelivered
	sess.Role = session.RoleDelivery
	sess.Slots.Company = "zomato"
	sess.OTP = &session.DeliveredOTP{Code: "4821", Company: "zomato", Tier: "high"}

	d := p.Decide(sess, extract.Extraction{
		Intent:     extract.IntentProvideInfo,
		Company:    "swiggy",
		Correction: true,
	}, "sorry, i meant swiggy")
	assert.Nil(t, sess.OTP)
	assert.Equal(t, "swiggy", sess.Slots.Company)
	assert.Equal(t, ActionLookupOTP, d.Action)
}

func TestSlotsAreNotOverwrittenWithoutCorrection(t *testing.T) {
	p := NewPolicy(0)
	sess := session.New("c1")
	sess.Stage = session.StageOTPDelivered
	sess.Role = session.RoleDelivery
	sess.Slots.Company = "zomato"

	p.Decide(sess, extract.Extraction{Intent: extract.IntentProvideInfo, Company: "swiggy"}, "swiggy also has an order")
	assert.Equal(t, "zomato", sess.Slots.Company)
}

func TestNavigationRequestWithoutLocationAsksForIt(t *testing.T) {
	p := NewPolicy(0)
	sess := session.New("c1")

	d := p.Decide(sess, extract.Extraction{Intent: extract.IntentRequestNavigation, DeliveryMarker: true}, "how do i reach your place")
	assert.Equal(t, compose.ReplyAskNavigationStart, d.Reply)
	assert.Equal(t, session.StageAwaitingNavigationStart, d.Stage)
}

func TestBareAnswerAcceptedAsNavigationStart(t *testing.T) {
	p := NewPolicy(0)
	sess := session.New("c1")
	sess.Stage = session.StageAwaitingNavigationStart
	sess.Role = session.RoleDelivery

	d := p.Decide(sess, extract.Extraction{Intent: extract.IntentUnclear}, "Cubbon Park")
	assert.Equal(t, ActionNavigate, d.Action)
	assert.Equal(t, "Cubbon Park", sess.Slots.CurrentLocation)
}

func TestArrivalAcknowledged(t *testing.T) {
	p := NewPolicy(0)
	sess := session.New("c1")
	sess.Stage = session.StageOTPDelivered
	sess.Role = session.RoleDelivery

	d := p.Decide(sess, extract.Extraction{Intent: extract.IntentProvideInfo, Arrived: true}, "i am at the door")
	assert.Equal(t, compose.ReplyArrivalAck, d.Reply)
	assert.Equal(t, ActionNotifyArrival, d.Action)
	assert.Equal(t, session.StageOTPDelivered, d.Stage)
}

func TestCallbackDeclinedStillForwards(t *testing.T) {
	p := NewPolicy(0)
	sess := session.New("c1")
	sess.Stage = session.StageCollectingCallback
	sess.Role = session.RoleUnknown
	sess.Slots.VisitorName = "Priya"
	sess.Slots.VisitorPurpose = "society event"

	d := p.Decide(sess, extract.Extraction{Intent: extract.IntentProvideInfo, Negative: true}, "no")
	assert.Equal(t, compose.ReplyForwardedForApproval, d.Reply)
	assert.Equal(t, ActionNotifyVisitor, d.Action)
	assert.Equal(t, session.StagePendingOwnerApproval, d.Stage)
}

func TestPendingApprovalAnsweredFromState(t *testing.T) {
	p := NewPolicy(0)
	sess := session.New("c1")
	sess.Stage = session.StagePendingOwnerApproval
	sess.Role = session.RoleUnknown
	sess.ApprovalToken = "tok-1"

	d := p.Decide(sess, extract.Extraction{Intent: extract.IntentUnclear}, "any update?")
	assert.Equal(t, compose.ReplyApprovalPending, d.Reply)
	assert.Equal(t, ActionNone, d.Action, "the owner is never pinged twice")
}

func TestFarewellClosesMidCallButNotFirstTurn(t *testing.T) {
	p := NewPolicy(0)

	sess := session.New("c1")
	sess.Stage = session.StageOTPDelivered
	sess.Role = session.RoleDelivery
	d := p.Decide(sess, extract.Extraction{Intent: extract.IntentProvideInfo, Farewell: true}, "thanks, bye")
	assert.True(t, d.Close)
	assert.Equal(t, compose.ReplyGoodbye, d.Reply)

	sess = session.New("c2")
	d = p.Decide(sess, extract.Extraction{Intent: extract.IntentProvideInfo, Farewell: true}, "bye")
	assert.False(t, d.Close, "a call never ends before role identification")
}

func TestUrgentFlaggedOnce(t *testing.T) {
	p := NewPolicy(0)
	sess := session.New("c1")
	sess.Stage = session.StageOTPDelivered
	sess.Role = session.RoleDelivery

	d := p.Decide(sess, extract.Extraction{Intent: extract.IntentUnclear, Urgent: true}, "this is urgent")
	assert.True(t, d.NotifyUrgent)
	assert.True(t, sess.Urgent)

	d = p.Decide(sess, extract.Extraction{Intent: extract.IntentUnclear, Urgent: true}, "urgent, please")
	assert.False(t, d.NotifyUrgent)
}

func TestClosedSessionStaysClosed(t *testing.T) {
	p := NewPolicy(0)
	sess := session.New("c1")
	sess.Stage = session.StageClosing
	sess.Closed = true

	d := p.Decide(sess, extract.Extraction{Intent: extract.IntentRequestOTP}, "otp please")
	assert.Equal(t, compose.ReplyGoodbye, d.Reply)
	assert.True(t, d.Close)
}
