package otp

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func record(sender, body string, age time.Duration) SMSRecord {
	return SMSRecord{Sender: sender, Body: body, ReceivedAt: time.Now().Add(-age)}
}

func TestSelectExactSenderMatch(t *testing.T) {
	m := NewMatcher()
	window := []SMSRecord{
		record("AX-ZOMATO", "Your OTP for order delivery is 4821", time.Minute),
	}

	match, ok := m.Select(window, "zomato", "")
	require.True(t, ok)
	assert.Equal(t, "4821", match.OTP)
	assert.Equal(t, TierHigh, match.Tier)
	assert.Equal(t, "zomato", match.Company)
	assert.GreaterOrEqual(t, match.Confidence, DefaultHighThreshold)
}

func TestSelectNoHintIsMediumConfidence(t *testing.T) {
	m := NewMatcher()
	window := []SMSRecord{
		record("AX-998877", "Your delivery OTP is 4821", time.Minute),
		record("JD-112233", "Verification code 9900 for your account", time.Hour),
	}

	match, ok := m.Select(window, "", "")
	require.True(t, ok)
	assert.Equal(t, "4821", match.OTP, "most recent valid candidate should win without a hint")
	assert.Equal(t, TierMedium, match.Tier)
}

func TestSelectWrongCompanyIsNoMatch(t *testing.T) {
	m := NewMatcher()
	window := []SMSRecord{
		record("AX-ZOMATO", "Your OTP is 4821", time.Minute),
		record("JD-SWIGGY", "Delivery code 5412", 2*time.Minute),
	}

	_, ok := m.Select(window, "bigbasket", "")
	assert.False(t, ok, "records from other companies must not be offered for a bigbasket ask")
}

func TestSelectEmptyWindow(t *testing.T) {
	m := NewMatcher()
	_, ok := m.Select(nil, "zomato", "")
	assert.False(t, ok)
}

func TestSelectIgnoresRecordsWithoutValidOTP(t *testing.T) {
	m := NewMatcher()
	window := []SMSRecord{
		record("AX-ZOMATO", "Your rider is 2 minutes away", time.Minute),
		record("AX-ZOMATO", "Your OTP is 4821", 5*time.Minute),
	}

	match, ok := m.Select(window, "zomato", "")
	require.True(t, ok)
	assert.Equal(t, "4821", match.OTP)
}

func TestSelectOrderIDBonus(t *testing.T) {
	m := NewMatcher()
	// Two zomato records; the older one carries the caller's order id.
	window := []SMSRecord{
		record("AX-ZOMATO", "Your OTP is 1111", time.Minute),
		record("AX-ZOMATO", "Your OTP for order ZMT-48213A is 2222", 10*time.Minute),
	}

	match, ok := m.Select(window, "zomato", "ZMT-48213A")
	require.True(t, ok)
	assert.Equal(t, "2222", match.OTP, "order-id evidence should outweigh recency")
}

func TestSelectRecencyBreaksCompanyTie(t *testing.T) {
	m := NewMatcher()
	window := []SMSRecord{
		record("AX-ZOMATO", "Your OTP is 1111", time.Minute),
		record("AX-ZOMATO", "Your OTP is 2222", time.Hour),
	}

	match, ok := m.Select(window, "zomato", "")
	require.True(t, ok)
	assert.Equal(t, "1111", match.OTP)
}

func TestSelectBodyHintBeatsNoSignal(t *testing.T) {
	m := NewMatcher()
	window := []SMSRecord{
		record("JD-112233", "Verification code 9900", time.Minute),
		record("AX-998877", "Your Zomato order OTP is 4821", 2*time.Minute),
	}

	match, ok := m.Select(window, "zomato", "")
	require.True(t, ok)
	assert.Equal(t, "4821", match.OTP)
	assert.Equal(t, TierMedium, match.Tier, "body-only evidence should carry a caveat")
}

func TestSelectConfidenceBounds(t *testing.T) {
	m := NewMatcher()
	window := []SMSRecord{
		record("AX-ZOMATO", "Your OTP for order ZMT-1 is 4821. Order ZMT-1 arriving.", time.Second),
	}
	match, ok := m.Select(window, "zomato", "ZMT-1")
	require.True(t, ok)
	assert.LessOrEqual(t, match.Confidence, 1.0)
	assert.GreaterOrEqual(t, match.Confidence, 0.0)
}
