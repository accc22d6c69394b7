package conversation

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/echomi/echomi-ai-platform/internal/compose"
	"github.com/echomi/echomi-ai-platform/internal/extract"
	"github.com/echomi/echomi-ai-platform/internal/lang"
	"github.com/echomi/echomi-ai-platform/internal/nav"
	"github.com/echomi/echomi-ai-platform/internal/notify"
	"github.com/echomi/echomi-ai-platform/internal/observability/metrics"
	"github.com/echomi/echomi-ai-platform/internal/orders"
	"github.com/echomi/echomi-ai-platform/internal/otp"
	"github.com/echomi/echomi-ai-platform/internal/session"
	"github.com/echomi/echomi-ai-platform/internal/sms"
	"github.com/echomi/echomi-ai-platform/pkg/logging"
)

// Notifier is the slice of the notification service the engine needs.
type Notifier interface {
	VisitorApproval(ctx context.Context, name, purpose, callback string) (string, error)
	Urgent(ctx context.Context, message string) error
	DeliveryArrived(ctx context.Context, company string) error
	CallSummary(ctx context.Context, summary string) error
}

// Summarizer produces the end-of-call summary.
type Summarizer interface {
	Summarize(ctx context.Context, sess *session.Session) string
}

// Deps wires the engine's collaborators. Store is required; everything
// else degrades gracefully when absent.
type Deps struct {
	Store      session.Store
	Inbox      sms.Source
	Navigator  nav.Navigator
	Notifier   Notifier
	Wallet     orders.Store
	Composer   *compose.Composer
	Summarizer Summarizer
	Metrics    *metrics.CallMetrics
	Logger     *logging.Logger

	OwnerID         string
	HomeAddress     string
	SMSWindow       int
	MaxRetries      int
	DefaultLanguage string
}

// Engine executes conversation turns: policy first, then collaborator
// calls, then composition. Turns for one session are serialized.
type Engine struct {
	store      session.Store
	extractor  *extract.Extractor
	policy     *Policy
	matcher    *otp.Matcher
	inbox      sms.Source
	navigator  nav.Navigator
	notifier   Notifier
	wallet     orders.Store
	composer   *compose.Composer
	summarizer Summarizer
	metrics    *metrics.CallMetrics
	logger     *logging.Logger

	ownerID     string
	homeAddress string
	smsWindow   int
	defaultLang string

	locks sync.Map
}

func NewEngine(d Deps) *Engine {
	if d.Store == nil {
		panic("conversation: session store is required")
	}
	logger := d.Logger
	if logger == nil {
		logger = logging.Default()
	}
	composer := d.Composer
	if composer == nil {
		composer = compose.New(nil, logger)
	}
	window := d.SMSWindow
	if window <= 0 {
		window = 10
	}
	defaultLang := d.DefaultLanguage
	if !lang.Supported(defaultLang) || defaultLang == "" {
		defaultLang = lang.English
	}
	return &Engine{
		store:       d.Store,
		extractor:   extract.New(),
		policy:      NewPolicy(d.MaxRetries),
		matcher:     otp.NewMatcher(),
		inbox:       d.Inbox,
		navigator:   d.Navigator,
		notifier:    d.Notifier,
		wallet:      d.Wallet,
		composer:    composer,
		summarizer:  d.Summarizer,
		metrics:     d.Metrics,
		logger:      logger,
		ownerID:     d.OwnerID,
		homeAddress: d.HomeAddress,
		smsWindow:   window,
		defaultLang: defaultLang,
	}
}

// ProcessTurn runs one utterance through the dialogue.
func (e *Engine) ProcessTurn(ctx context.Context, req TurnRequest) (TurnResponse, error) {
	text := strings.TrimSpace(req.Text)
	start := time.Now()

	mu := e.lock(req.SessionID)
	mu.Lock()
	defer mu.Unlock()

	sess, err := e.store.Get(ctx, req.SessionID)
	switch {
	case errors.Is(err, session.ErrNotFound):
		sess = session.New(req.SessionID)
		sess.Language = e.defaultLang
	case err != nil:
		return TurnResponse{}, fmt.Errorf("conversation: load session: %w", err)
	}
	wasClosed := sess.Closed

	e.applyLanguage(sess, req.Language, text)
	applyHints(sess, req)
	sess.RecordTurn(session.SpeakerCaller, text)

	ex := e.extractor.Extract(text)
	dec := e.policy.Decide(sess, ex, text)

	if dec.NotifyUrgent {
		e.pushUrgent(ctx, text)
	}

	rc := compose.Context{Language: sess.Language}
	reply, stage := dec.Reply, dec.Stage

	switch dec.Action {
	case ActionLookupOTP:
		reply, stage = e.lookupOTP(ctx, sess, &rc)
	case ActionNavigate:
		reply, stage = e.navigate(ctx, sess, &rc)
	case ActionNotifyVisitor:
		reply, stage = e.forwardVisitor(ctx, sess, reply, stage)
	case ActionNotifyArrival:
		e.pushArrival(ctx, sess)
	}

	e.fillReplyContext(&rc, reply, sess)

	out := e.composer.Compose(ctx, reply, rc)
	sess.RecordTurn(session.SpeakerAssistant, out)
	sess.Stage = stage

	if dec.Close && !wasClosed {
		sess.Closed = true
		e.closeOut(ctx, sess)
	}

	if err := e.store.Put(ctx, sess); err != nil {
		return TurnResponse{}, fmt.Errorf("conversation: save session: %w", err)
	}

	e.metrics.ObserveTurn(string(sess.Stage), string(ex.Intent))
	e.metrics.ObserveTurnLatency(string(sess.Stage), time.Since(start).Seconds())

	return TurnResponse{
		SessionID: sess.ID,
		Reply:     out,
		Stage:     string(sess.Stage),
		Role:      string(sess.Role),
		Language:  sess.Language,
		Closed:    sess.Closed,
		Summary:   sess.Summary,
	}, nil
}

// Summary returns the stored end-of-call summary, producing one on
// demand for calls still in flight.
func (e *Engine) Summary(ctx context.Context, sessionID string) (string, error) {
	mu := e.lock(sessionID)
	mu.Lock()
	defer mu.Unlock()

	sess, err := e.store.Get(ctx, sessionID)
	if err != nil {
		return "", err
	}
	if sess.Summary != "" {
		return sess.Summary, nil
	}
	if e.summarizer == nil {
		return "", nil
	}
	return e.summarizer.Summarize(ctx, sess), nil
}

// Reset drops the session so the next utterance starts a fresh call.
func (e *Engine) Reset(ctx context.Context, sessionID string) error {
	mu := e.lock(sessionID)
	mu.Lock()
	defer mu.Unlock()
	return e.store.Delete(ctx, sessionID)
}

func (e *Engine) lock(id string) *sync.Mutex {
	v, _ := e.locks.LoadOrStore(id, &sync.Mutex{})
	return v.(*sync.Mutex)
}

// applyLanguage keeps the reply language in step with the caller: an
// explicit hint wins, and Hindi detection flips an English session.
func (e *Engine) applyLanguage(sess *session.Session, hint, text string) {
	if hint != "" && lang.Supported(hint) {
		sess.Language = hint
		return
	}
	if sess.Language == "" {
		sess.Language = e.defaultLang
	}
	if lang.Detect(text) == lang.Hindi {
		sess.Language = lang.Hindi
	}
}

// applyHints pre-fills the session from facts the voice layer already
// knows. Hints never override what the caller has said.
func applyHints(sess *session.Session, req TurnRequest) {
	if sess.Role == session.RoleUnset {
		switch session.Role(req.RoleHint) {
		case session.RoleDelivery, session.RoleUnknown:
			sess.Role = session.Role(req.RoleHint)
		}
	}
	if sess.Slots.Company == "" && req.Company != "" {
		sess.Slots.Company = strings.ToLower(strings.TrimSpace(req.Company))
	}
	if sess.Slots.OrderID == "" && req.OrderID != "" {
		sess.Slots.OrderID = strings.TrimSpace(req.OrderID)
	}
}

// lookupOTP resolves a delivery code: the order wallet first for
// pre-shared codes, then the SMS inbox through the matcher.
func (e *Engine) lookupOTP(ctx context.Context, sess *session.Session, rc *compose.Context) (compose.ReplyIntent, session.Stage) {
	company := sess.Slots.Company

	if e.wallet != nil && company != "" {
		o, err := e.wallet.FindByCompany(ctx, company, orders.StatusPending, orders.StatusApproved)
		switch {
		case err == nil:
			if sess.Slots.OrderID == "" && o.TrackingID != "" {
				sess.Slots.OrderID = o.TrackingID
			}
			if o.OTP != "" {
				sess.OTP = &session.DeliveredOTP{Code: o.OTP, Company: company, Confidence: 1, Tier: string(otp.TierHigh)}
				rc.OTP, rc.Company = o.OTP, company
				e.metrics.ObserveOTPLookup("wallet")
				return compose.ReplyDeliverOTP, session.StageOTPDelivered
			}
		case !errors.Is(err, orders.ErrNotFound):
			e.logger.Warn("conversation: order wallet lookup failed", "error", err)
		}
	}

	if e.inbox == nil {
		return compose.ReplyOTPUnavailable, session.StageAwaitingOrderContext
	}
	window, err := e.inbox.Recent(ctx, e.ownerID, company, e.smsWindow)
	if err != nil {
		e.logger.Warn("conversation: sms inbox unavailable", "error", err)
		e.metrics.ObserveOTPLookup("error")
		return compose.ReplyOTPUnavailable, session.StageAwaitingOrderContext
	}

	m, ok := e.matcher.Select(window, company, sess.Slots.OrderID)
	if !ok {
		e.metrics.ObserveOTPLookup("none")
		if company == "" {
			return compose.ReplyAskCompany, session.StageAwaitingCompany
		}
		return compose.ReplyNoOTPMatch, session.StageAwaitingOrderContext
	}

	if m.Company != "" && company == "" {
		company = m.Company
	}
	sess.OTP = &session.DeliveredOTP{Code: m.OTP, Company: company, Confidence: m.Confidence, Tier: string(m.Tier)}
	rc.OTP, rc.Company = m.OTP, company
	rc.Caveat = m.Tier != otp.TierHigh
	e.metrics.ObserveOTPLookup(string(m.Tier))
	return compose.ReplyDeliverOTP, session.StageOTPDelivered
}

func (e *Engine) navigate(ctx context.Context, sess *session.Session, rc *compose.Context) (compose.ReplyIntent, session.Stage) {
	origin := sess.Slots.CurrentLocation
	destination := sess.Slots.Destination
	if destination == "" {
		destination = e.homeAddress
	}
	if e.navigator == nil || origin == "" || destination == "" {
		return compose.ReplyNavUnavailable, session.StageAwaitingNavigationStart
	}

	route, err := e.navigator.Route(ctx, origin, destination)
	if err != nil {
		e.logger.Warn("conversation: navigation failed", "origin", origin, "error", err)
		return compose.ReplyNavUnavailable, session.StageAwaitingNavigationStart
	}
	rc.RouteSummary = route.Summary()
	rc.RouteSteps = route.SpokenSteps(4)
	return compose.ReplyDeliverNavigation, session.StageNavigationDelivered
}

// forwardVisitor pings the owner about an unknown visitor. The stored
// approval token makes the ping one-shot per call.
func (e *Engine) forwardVisitor(ctx context.Context, sess *session.Session, reply compose.ReplyIntent, stage session.Stage) (compose.ReplyIntent, session.Stage) {
	if sess.ApprovalToken != "" {
		return reply, stage
	}
	if e.notifier == nil {
		return compose.ReplyHumanHandoff, sess.Stage
	}
	token, err := e.notifier.VisitorApproval(ctx, sess.Slots.VisitorName, sess.Slots.VisitorPurpose, sess.Slots.CallbackNumber)
	if err != nil {
		e.logger.Warn("conversation: visitor approval push failed", "error", err)
		e.metrics.ObserveNotification(notify.TypeVisitorApproval, "failed")
		return compose.ReplyHumanHandoff, sess.Stage
	}
	sess.ApprovalToken = token
	e.metrics.ObserveNotification(notify.TypeVisitorApproval, "sent")
	return reply, stage
}

func (e *Engine) pushArrival(ctx context.Context, sess *session.Session) {
	if e.notifier == nil {
		return
	}
	if err := e.notifier.DeliveryArrived(ctx, sess.Slots.Company); err != nil {
		e.logger.Warn("conversation: arrival push failed", "error", err)
		e.metrics.ObserveNotification(notify.TypeArrival, "failed")
		return
	}
	e.metrics.ObserveNotification(notify.TypeArrival, "sent")
}

func (e *Engine) pushUrgent(ctx context.Context, text string) {
	if e.notifier == nil {
		return
	}
	if err := e.notifier.Urgent(ctx, "Caller flagged the call as urgent: "+text); err != nil {
		e.logger.Warn("conversation: urgent push failed", "error", err)
		e.metrics.ObserveNotification(notify.TypeUrgent, "failed")
		return
	}
	e.metrics.ObserveNotification(notify.TypeUrgent, "sent")
}

// fillReplyContext completes the compose context for replies that read
// stored state rather than a fresh lookup result.
func (e *Engine) fillReplyContext(rc *compose.Context, reply compose.ReplyIntent, sess *session.Session) {
	switch reply {
	case compose.ReplyDeliverOTP, compose.ReplyConfirmManualOTP:
		if rc.OTP == "" && sess.OTP != nil {
			rc.OTP = sess.OTP.Code
			rc.Company = sess.OTP.Company
			rc.Caveat = !sess.OTP.Manual && sess.OTP.Tier != string(otp.TierHigh)
		}
	case compose.ReplyForwardedForApproval, compose.ReplyApprovalPending:
		rc.Name = sess.Slots.VisitorName
		rc.Purpose = sess.Slots.VisitorPurpose
		rc.Callback = sess.Slots.CallbackNumber
	}
}

func (e *Engine) closeOut(ctx context.Context, sess *session.Session) {
	if e.summarizer != nil {
		sess.Summary = e.summarizer.Summarize(ctx, sess)
	}
	if e.notifier == nil || sess.Summary == "" {
		return
	}
	if err := e.notifier.CallSummary(ctx, sess.Summary); err != nil {
		e.logger.Warn("conversation: summary push failed", "error", err)
		e.metrics.ObserveNotification(notify.TypeCallSummary, "failed")
		return
	}
	e.metrics.ObserveNotification(notify.TypeCallSummary, "sent")
}
