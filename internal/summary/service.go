// Package summary produces the owner-facing recap of a finished call.
// Summaries are kept between 50 and 70 words so the push notification
// stays readable at a glance.
package summary

import (
	"context"
	"fmt"
	"strings"

	"github.com/echomi/echomi-ai-platform/internal/llm"
	"github.com/echomi/echomi-ai-platform/internal/session"
	"github.com/echomi/echomi-ai-platform/pkg/logging"
)

const (
	minWords = 50
	maxWords = 70
)

// Service writes call summaries.
type Service struct {
	llm    llm.Client
	logger *logging.Logger
}

// New creates a summary service. client may be nil; summaries then
// come from the deterministic fallback.
func New(client llm.Client, logger *logging.Logger) *Service {
	if logger == nil {
		logger = logging.Default()
	}
	return &Service{llm: client, logger: logger}
}

// Summarize recaps a call from its transcript and collected facts.
func (s *Service) Summarize(ctx context.Context, sess *session.Session) string {
	if s.llm != nil {
		if text, err := s.fromLLM(ctx, sess); err == nil {
			return text
		} else {
			s.logger.Debug("summary: llm unavailable, using fallback", "error", err)
		}
	}
	return clampWords(fallback(sess))
}

func (s *Service) fromLLM(ctx context.Context, sess *session.Session) (string, error) {
	var transcript strings.Builder
	for _, turn := range sess.Turns {
		fmt.Fprintf(&transcript, "%s: %s\n", turn.Speaker, turn.Text)
	}

	resp, err := s.llm.Complete(ctx, llm.Request{
		System: "You summarize a phone call an AI assistant answered for a home resident. " +
			"Write exactly one paragraph of 50 to 70 words in plain English, " +
			"covering who called, what they wanted, and how it was resolved. " +
			"No preamble, no bullet points.",
		Messages:    []llm.Message{{Role: llm.RoleUser, Content: transcript.String()}},
		MaxTokens:   200,
		Temperature: 0.3,
	})
	if err != nil {
		return "", err
	}

	text := strings.TrimSpace(resp.Text)
	words := len(strings.Fields(text))
	if words < minWords/2 {
		return "", fmt.Errorf("summary: llm output too short (%d words)", words)
	}
	return clampWords(text), nil
}

func fallback(sess *session.Session) string {
	var parts []string

	switch sess.Role {
	case session.RoleDelivery:
		company := sess.Slots.Company
		if company == "" {
			company = "an unidentified company"
		}
		parts = append(parts, fmt.Sprintf("A delivery agent from %s called about an order.", company))
		if sess.OTP != nil {
			if sess.OTP.Manual {
				parts = append(parts, "The agent read out their own delivery code and it was confirmed back to them.")
			} else if sess.OTP.Tier == "high" {
				parts = append(parts, "The matching delivery code was found in recent messages and shared confidently.")
			} else {
				parts = append(parts, "A likely delivery code was shared with a request to double-check it in the app.")
			}
		} else {
			parts = append(parts, "No matching delivery code could be confirmed during the call.")
		}
		if sess.Slots.Destination != "" {
			parts = append(parts, fmt.Sprintf("Directions were discussed towards %s.", sess.Slots.Destination))
		}
	case session.RoleUnknown:
		name := sess.Slots.VisitorName
		if name == "" {
			name = "An unidentified caller"
		}
		parts = append(parts, fmt.Sprintf("%s called for the resident.", name))
		if sess.Slots.VisitorPurpose != "" {
			parts = append(parts, fmt.Sprintf("They said it was regarding %s.", sess.Slots.VisitorPurpose))
		}
		if sess.ApprovalToken != "" {
			parts = append(parts, "Their details were forwarded to the resident for a decision.")
		}
		if sess.Slots.CallbackNumber != "" {
			parts = append(parts, fmt.Sprintf("They left %s as a callback number.", sess.Slots.CallbackNumber))
		}
	default:
		parts = append(parts, "Someone called but their purpose could not be established.")
	}

	if sess.Urgent {
		parts = append(parts, "The caller flagged the matter as urgent and an immediate alert was sent.")
	}

	text := strings.Join(parts, " ")

	// pad with neutral detail until the summary reads as a full recap
	fillers := []string{
		fmt.Sprintf("The conversation ran for %d exchanges and was handled automatically from start to finish.", len(sess.Turns)),
		"No action is needed from you right now unless you would like to follow up with the caller yourself.",
		"The full transcript is available in the call history if you want the exact wording of any exchange.",
	}
	for _, filler := range fillers {
		if len(strings.Fields(text)) >= minWords {
			break
		}
		text += " " + filler
	}
	return text
}

func clampWords(text string) string {
	words := strings.Fields(text)
	if len(words) <= maxWords {
		return text
	}
	clipped := strings.Join(words[:maxWords], " ")
	return strings.TrimRight(clipped, ",;:") + "."
}
