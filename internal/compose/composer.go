// Package compose turns reply intents into caller-facing speech. Every
// reply has a deterministic template; an optional LLM may rephrase it,
// but only when the rephrasing keeps the facts (the mandatory tokens)
// intact.
package compose

import (
	"context"
	"fmt"
	"strings"

	"github.com/echomi/echomi-ai-platform/internal/lang"
	"github.com/echomi/echomi-ai-platform/internal/llm"
	"github.com/echomi/echomi-ai-platform/pkg/logging"
)

// Context carries the facts a reply is built from. Unused fields stay
// zero.
type Context struct {
	Language     string
	Company      string
	OTP          string
	Caveat       bool
	RouteSummary string
	RouteSteps   string
	Name         string
	Purpose      string
	Callback     string
}

// Composer renders replies.
type Composer struct {
	llm    llm.Client
	logger *logging.Logger
}

// New creates a composer. client may be nil, in which case replies are
// pure templates.
func New(client llm.Client, logger *logging.Logger) *Composer {
	if logger == nil {
		logger = logging.Default()
	}
	return &Composer{llm: client, logger: logger}
}

// Intents worth spending an LLM round-trip on. Codes and directions
// carry facts; the guard below keeps rephrasing honest.
var polishable = map[ReplyIntent]bool{
	ReplyAskRole:              true,
	ReplyAskCompany:           true,
	ReplyDeliverOTP:           true,
	ReplyAskVisitorPurpose:    true,
	ReplyForwardedForApproval: true,
	ReplyGoodbye:              true,
}

const maxReplyWords = 60

// Compose renders the reply for an intent. It never fails: any LLM
// problem falls back to the template.
func (c *Composer) Compose(ctx context.Context, intent ReplyIntent, rc Context) string {
	base := template(intent, rc)
	if c.llm == nil || !polishable[intent] {
		return base
	}

	polished, err := c.polish(ctx, base, rc)
	if err != nil {
		c.logger.Debug("compose: falling back to template", "intent", string(intent), "error", err)
		return base
	}

	if !c.keepsTokens(polished, intent, rc) {
		c.logger.Warn("compose: llm dropped a mandatory token, using template", "intent", string(intent))
		return base
	}
	return polished
}

func (c *Composer) polish(ctx context.Context, base string, rc Context) (string, error) {
	language := "English"
	if rc.Language == lang.Hindi {
		language = "romanized Hindi"
	}

	system := fmt.Sprintf(
		"You rephrase one sentence a phone assistant is about to speak. "+
			"Respond in %s, keep it warm and brief, and never add facts. "+
			"Any digit sequences and code phrases must appear verbatim. "+
			"Reply with the sentence only.", language)

	resp, err := c.llm.Complete(ctx, llm.Request{
		System:      system,
		Messages:    []llm.Message{{Role: llm.RoleUser, Content: base}},
		MaxTokens:   120,
		Temperature: 0.6,
	})
	if err != nil {
		return "", err
	}

	text := strings.TrimSpace(resp.Text)
	if text == "" {
		return "", fmt.Errorf("compose: llm returned empty text")
	}
	if len(strings.Fields(text)) > maxReplyWords {
		return "", fmt.Errorf("compose: llm reply too long")
	}
	return text, nil
}

// keepsTokens verifies the rephrased reply still carries every
// mandatory fact verbatim.
func (c *Composer) keepsTokens(text string, intent ReplyIntent, rc Context) bool {
	for _, token := range mandatoryTokens(intent, rc) {
		if !strings.Contains(text, token) {
			return false
		}
	}
	return true
}

func mandatoryTokens(intent ReplyIntent, rc Context) []string {
	var tokens []string
	switch intent {
	case ReplyDeliverOTP, ReplyConfirmManualOTP:
		tokens = append(tokens, SpeakDigits(rc.OTP))
		if intent == ReplyDeliverOTP && rc.Caveat {
			if rc.Language == lang.Hindi {
				tokens = append(tokens, caveatHI)
			} else {
				tokens = append(tokens, caveatEN)
			}
		}
	case ReplyDeliverNavigation:
		if rc.RouteSummary != "" {
			tokens = append(tokens, rc.RouteSummary)
		}
	case ReplyForwardedForApproval:
		if rc.Callback != "" {
			tokens = append(tokens, SpeakPhone(rc.Callback))
		}
	}
	return tokens
}
