package otp

import (
	"strings"
)

// Tier buckets a match's confidence into how the assistant should
// present the code to the caller.
type Tier string

const (
	// TierHigh means the code is read out with no hedging.
	TierHigh Tier = "high"
	// TierMedium and TierLow mean the code is read out with a
	// confirmation caveat.
	TierMedium Tier = "medium"
	TierLow    Tier = "low"
)

// Feature weights for candidate scoring. The company sub-score and the
// bonuses are summed and then normalized by maxRawScore.
const (
	companySenderMatch = 1.0
	companyBodyMatch   = 0.7
	companyAliasMatch  = 0.5
	companyNeutral     = 0.5
	companyNoSignal    = 0.1

	orderIDBonus    = 0.3
	recencyBonusMax = 0.2

	maxRawScore = 1.5
)

// Default decision thresholds on the normalized [0,1] confidence.
const (
	DefaultHighThreshold   = 0.60
	DefaultMediumThreshold = 0.40
	DefaultMatchFloor      = 0.25
)

// Match is the record the matcher settled on, with everything the
// composer needs to present it.
type Match struct {
	OTP        string
	Company    string
	TrackingID string
	Sender     string
	Confidence float64
	Tier       Tier
	ReceivedAt int64
}

// Matcher scores a window of SMS records against a company hint and
// optional order id and picks the best candidate.
type Matcher struct {
	highThreshold   float64
	mediumThreshold float64
	matchFloor      float64
}

// NewMatcher returns a matcher with the default thresholds.
func NewMatcher() *Matcher {
	return &Matcher{
		highThreshold:   DefaultHighThreshold,
		mediumThreshold: DefaultMediumThreshold,
		matchFloor:      DefaultMatchFloor,
	}
}

// Select picks the best OTP candidate from window, which must be
// ordered most recent first. companyHint and orderID may be empty.
// The second return is false when no candidate clears the match floor.
func (m *Matcher) Select(window []SMSRecord, companyHint, orderID string) (Match, bool) {
	hint := normalize(companyHint)
	best := Match{Confidence: -1}
	bestAt := int64(0)

	for i, rec := range window {
		parsed := Parse(rec)
		if !ValidOTP(parsed.OTP) {
			continue
		}

		score := m.score(rec, parsed, i, len(window), hint, orderID)
		at := rec.ReceivedAt.Unix()

		if score > best.Confidence || (score == best.Confidence && at > bestAt) {
			best = Match{
				OTP:        parsed.OTP,
				Company:    parsed.Company,
				TrackingID: parsed.TrackingID,
				Sender:     rec.Sender,
				Confidence: score,
				ReceivedAt: at,
			}
			bestAt = at
		}
	}

	if best.Confidence < m.matchFloor {
		return Match{}, false
	}

	switch {
	case best.Confidence >= m.highThreshold:
		best.Tier = TierHigh
	case best.Confidence >= m.mediumThreshold:
		best.Tier = TierMedium
	default:
		best.Tier = TierLow
	}
	return best, true
}

func (m *Matcher) score(rec SMSRecord, parsed Parsed, index, window int, hint, orderID string) float64 {
	raw := companyScore(rec, parsed, hint)

	if orderID != "" && strings.Contains(strings.ToLower(rec.Body), strings.ToLower(orderID)) {
		raw += orderIDBonus
	}

	if window > 1 {
		raw += recencyBonusMax * (1 - float64(index)/float64(window))
	} else {
		raw += recencyBonusMax
	}

	score := raw / maxRawScore
	if score > 1 {
		score = 1
	}
	if score < 0 {
		score = 0
	}
	return score
}

// companyScore grades how well the record's origin agrees with the
// caller's stated company. An empty hint is neutral: there is no
// company evidence either way, so the record is neither rewarded nor
// penalized.
func companyScore(rec SMSRecord, parsed Parsed, hint string) float64 {
	if hint == "" {
		return companyNeutral
	}
	if strings.Contains(normalize(rec.Sender), hint) {
		return companySenderMatch
	}
	if strings.Contains(strings.ToLower(rec.Body), hint) {
		return companyBodyMatch
	}
	if parsed.Company != "" && parsed.Company == hint {
		return companyAliasMatch
	}
	return companyNoSignal
}
