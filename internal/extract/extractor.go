// Package extract turns raw caller utterances into structured fields
// and an intent tag. Extraction never fails: malformed or empty input
// produces an empty result with the unclear intent.
package extract

import (
	"regexp"
	"strings"
)

// Intent classifies what the caller is trying to do this turn.
type Intent string

const (
	IntentGreeting          Intent = "greeting"
	IntentRequestOTP        Intent = "request_otp"
	IntentRequestNavigation Intent = "request_navigation"
	IntentProvideInfo       Intent = "provide_info"
	IntentUnclear           Intent = "unclear"
)

// Extraction is everything one utterance yielded. Absent fields stay
// empty; the intent is always set.
type Extraction struct {
	Intent          Intent
	Company         string
	OrderID         string
	OTP             string
	CurrentLocation string
	Destination     string
	Name            string
	Purpose         string
	CallbackNumber  string
	Affirmative     bool
	Negative        bool
	Correction      bool
	Urgent          bool
	Farewell        bool
	Arrived         bool
	DeliveryMarker  bool
}

// rule is one named extraction step. Rules run in order against the
// same utterance and each fills its part of the result.
type rule struct {
	name  string
	apply func(raw, lower string, ex *Extraction)
}

// Extractor applies the rule pipeline to utterances.
type Extractor struct {
	rules []rule
}

// New builds an extractor with the default rule order. Field rules run
// before the intent rule so classification can see what was captured.
func New() *Extractor {
	return &Extractor{rules: []rule{
		{"company", companyRule},
		{"otp_digits", otpDigitsRule},
		{"order_id", orderIDRule},
		{"destination", destinationRule},
		{"current_location", currentLocationRule},
		{"callback_number", callbackNumberRule},
		{"visitor_name", visitorNameRule},
		{"purpose", purposeRule},
		{"yes_no", yesNoRule},
		{"correction", correctionRule},
		{"urgency", urgencyRule},
		{"farewell", farewellRule},
		{"arrival", arrivalRule},
		{"delivery_marker", deliveryMarkerRule},
		{"intent", intentRule},
	}}
}

// Extract runs the pipeline over one utterance.
func (e *Extractor) Extract(text string) Extraction {
	ex := Extraction{Intent: IntentUnclear}
	raw := strings.TrimSpace(text)
	if raw == "" {
		return ex
	}
	lower := strings.ToLower(raw)
	for _, r := range e.rules {
		r.apply(raw, lower, &ex)
	}
	return ex
}

var (
	otpContextPattern = regexp.MustCompile(`(?i)\b(?:otp|code|pin|password)\b`)
	otpDigitsPattern  = regexp.MustCompile(`\b(\d{4}|\d{6})\b`)
	orderIDPattern    = regexp.MustCompile(`(?i)\border\s*(?:id|no|number)?\s*(?:is)?\s*[:#]?\s*([a-z0-9][a-z0-9-]{3,19})\b`)
	destinationPattern = regexp.MustCompile(`(?i)(?:get to|reach|deliver(?:ing)? (?:to|at)|going to|drop at|customer address(?: is)?)\s+([^,.?!]+)`)
	locationPattern    = regexp.MustCompile(`(?i)(?:i am at|i'm at|im at|currently at|standing at|waiting at|near)\s+([^,.?!]+)`)
	callbackPattern    = regexp.MustCompile(`(\+?\d[\d\s-]{8,13}\d)`)
	namePattern        = regexp.MustCompile(`(?i)(?:my name is|this is|i am|i'm|im)\s+([a-zA-Z]+(?:\s+[a-zA-Z]+)?)`)
	purposePattern     = regexp.MustCompile(`(?i)(?:here to|came to|want to|calling about|calling regarding|regarding|about)\s+([^,.?!]+)`)
)

func otpDigitsRule(raw, lower string, ex *Extraction) {
	if !otpContextPattern.MatchString(lower) {
		return
	}
	if m := otpDigitsPattern.FindStringSubmatch(raw); m != nil {
		ex.OTP = m[1]
	}
}

func orderIDRule(raw, lower string, ex *Extraction) {
	m := orderIDPattern.FindStringSubmatch(raw)
	if m == nil {
		return
	}
	candidate := m[1]
	// plain words after "order" ("order from zomato") are not ids
	if !strings.ContainsAny(candidate, "0123456789") {
		return
	}
	ex.OrderID = strings.ToUpper(candidate)
}

func destinationRule(raw, lower string, ex *Extraction) {
	if m := destinationPattern.FindStringSubmatch(raw); m != nil {
		ex.Destination = titleCase(strings.TrimSpace(m[1]))
	}
}

func currentLocationRule(raw, lower string, ex *Extraction) {
	if m := locationPattern.FindStringSubmatch(raw); m != nil {
		loc := titleCase(strings.TrimSpace(m[1]))
		if loc != "" && loc != ex.Destination {
			ex.CurrentLocation = loc
		}
	}
}

func callbackNumberRule(raw, lower string, ex *Extraction) {
	m := callbackPattern.FindStringSubmatch(raw)
	if m == nil {
		return
	}
	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, m[1])
	if len(digits) < 10 || len(digits) > 13 {
		return
	}
	if strings.HasPrefix(strings.TrimSpace(m[1]), "+") {
		ex.CallbackNumber = "+" + digits
	} else {
		ex.CallbackNumber = digits
	}
}

var trailingConnectives = map[string]bool{
	"from": true, "here": true, "and": true, "speaking": true,
	"calling": true, "side": true,
}

// Words that follow "i am" without being a name.
var nameStopwords = map[string]bool{
	"here": true, "at": true, "a": true, "an": true, "the": true,
	"calling": true, "waiting": true, "outside": true, "from": true,
	"delivering": true, "your": true, "not": true, "sorry": true,
	"lost": true, "near": true, "done": true,
}

func visitorNameRule(raw, lower string, ex *Extraction) {
	m := namePattern.FindStringSubmatch(raw)
	if m == nil {
		return
	}
	words := strings.Fields(strings.TrimSpace(m[1]))
	first := strings.ToLower(words[0])
	if nameStopwords[first] || knownCompany(first) != "" {
		return
	}
	// drop a trailing connective the regex swallowed ("Ramesh from ...")
	if len(words) == 2 && trailingConnectives[strings.ToLower(words[1])] {
		words = words[:1]
	}
	ex.Name = titleCase(strings.Join(words, " "))
}

func purposeRule(raw, lower string, ex *Extraction) {
	if m := purposePattern.FindStringSubmatch(raw); m != nil {
		ex.Purpose = strings.TrimSpace(m[1])
	}
}

var affirmatives = map[string]bool{
	"yes": true, "yeah": true, "yep": true, "sure": true, "ok": true,
	"okay": true, "correct": true, "right": true, "haan": true,
	"haan ji": true, "ha": true, "theek hai": true, "bilkul": true,
}

var negatives = map[string]bool{
	"no": true, "nope": true, "nah": true, "wrong": true, "nahi": true,
	"nahin": true, "galat": true,
}

func yesNoRule(raw, lower string, ex *Extraction) {
	cleaned := strings.Trim(lower, " .,!?")
	if affirmatives[cleaned] {
		ex.Affirmative = true
	}
	if negatives[cleaned] {
		ex.Negative = true
	}
}

var correctionMarkers = []string{
	"actually", "sorry, i meant", "i meant", "not that", "my mistake",
	"correction", "galti se", "matlab",
}

func correctionRule(raw, lower string, ex *Extraction) {
	for _, marker := range correctionMarkers {
		if strings.Contains(lower, marker) {
			ex.Correction = true
			return
		}
	}
}

var urgencyMarkers = []string{"urgent", "emergency", "asap", "right now", "jaldi", "turant"}

func urgencyRule(raw, lower string, ex *Extraction) {
	for _, marker := range urgencyMarkers {
		if strings.Contains(lower, marker) {
			ex.Urgent = true
			return
		}
	}
}

var farewellMarkers = []string{
	"bye", "goodbye", "that's all", "thats all", "that is all",
	"nothing else", "thank you bye", "thanks bye", "chalo bye",
}

func farewellRule(raw, lower string, ex *Extraction) {
	cleaned := strings.Trim(lower, " .,!?")
	for _, marker := range farewellMarkers {
		if cleaned == marker || strings.HasSuffix(cleaned, " "+marker) {
			ex.Farewell = true
			return
		}
	}
}

var arrivalMarkers = []string{
	"i have arrived", "i've arrived", "i am here", "i'm here", "im here",
	"reached your", "at your door", "at the door", "at the gate",
	"outside your", "pahunch gaya", "aa gaya",
}

func arrivalRule(raw, lower string, ex *Extraction) {
	for _, marker := range arrivalMarkers {
		if strings.Contains(lower, marker) {
			ex.Arrived = true
			return
		}
	}
}

var deliveryMarkers = []string{
	"delivery", "deliver", "parcel", "package", "order", "courier",
	"rider", "shipment", "food", "groceries",
}

func deliveryMarkerRule(raw, lower string, ex *Extraction) {
	if ex.Company != "" {
		ex.DeliveryMarker = true
		return
	}
	for _, marker := range deliveryMarkers {
		if strings.Contains(lower, marker) {
			ex.DeliveryMarker = true
			return
		}
	}
}

var greetingMarkers = []string{
	"hello", "hi", "hey", "namaste", "namaskar", "good morning",
	"good afternoon", "good evening",
}

var otpAskMarkers = []string{
	"otp", "one time password", "delivery code", "verification code",
	"the code", "your code", "need code", "delivery pin",
}

var navigationMarkers = []string{
	"how do i get", "how do i reach", "how to get", "how to reach",
	"directions", "navigate", "the way to", "way to your", "route",
	"i am lost", "i'm lost", "im lost", "guide me", "kaise aana",
	"kaise pahunche", "raasta",
}

func intentRule(raw, lower string, ex *Extraction) {
	for _, marker := range otpAskMarkers {
		if strings.Contains(lower, marker) {
			ex.Intent = IntentRequestOTP
			return
		}
	}
	for _, marker := range navigationMarkers {
		if strings.Contains(lower, marker) {
			ex.Intent = IntentRequestNavigation
			return
		}
	}
	if ex.hasFields() {
		ex.Intent = IntentProvideInfo
		return
	}
	cleaned := strings.Trim(lower, " .,!?")
	for _, marker := range greetingMarkers {
		if cleaned == marker || strings.HasPrefix(cleaned, marker+" ") || strings.HasPrefix(cleaned, marker+",") {
			ex.Intent = IntentGreeting
			return
		}
	}
	if ex.Farewell {
		ex.Intent = IntentProvideInfo
		return
	}
	ex.Intent = IntentUnclear
}

func (ex *Extraction) hasFields() bool {
	return ex.Company != "" || ex.OrderID != "" || ex.OTP != "" ||
		ex.CurrentLocation != "" || ex.Destination != "" || ex.Name != "" ||
		ex.Purpose != "" || ex.CallbackNumber != "" ||
		ex.Affirmative || ex.Negative || ex.Arrived
}

func titleCase(s string) string {
	fields := strings.Fields(s)
	for i, f := range fields {
		if len(f) > 0 {
			fields[i] = strings.ToUpper(f[:1]) + f[1:]
		}
	}
	return strings.Join(fields, " ")
}
