package otp

import "regexp"

// Parsed is what the parser could recover from a single SMS record.
type Parsed struct {
	OTP        string
	Company    string
	TrackingID string
}

var validOTP = regexp.MustCompile(`^(\d{4}|\d{6})$`)

// Keyword-anchored extraction. The digits must sit near an OTP-ish
// keyword so amounts and timestamps in promotional texts do not match.
var otpAfterKeyword = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(?:otp|one[\s-]?time\s+password|verification\s+code|delivery\s+code|security\s+code|pin)\D{0,20}?(\d{4}|\d{6})\b`),
	regexp.MustCompile(`(?i)\b(\d{4}|\d{6})\s+is\s+(?:your|the)\s+(?:otp|one[\s-]?time\s+password|verification\s+code|delivery\s+code|code|pin)`),
	regexp.MustCompile(`(?i)(?:use|enter|share)\s+(?:code\s+)?(\d{4}|\d{6})\b`),
}

var trackingPattern = regexp.MustCompile(`(?i)(?:order|track(?:ing)?|awb|shipment)\s*(?:id|no|number)?\s*[:#-]?\s*([A-Z0-9][A-Z0-9-]{4,19})`)

// ValidOTP reports whether s is a syntactically valid OTP. Only 4- and
// 6-digit codes count.
func ValidOTP(s string) bool {
	return validOTP.MatchString(s)
}

// Parse extracts the OTP, company and tracking id from one record. A
// pre-extracted OTP on the record wins when it is valid; otherwise the
// body is scanned. Any field may come back empty.
func Parse(rec SMSRecord) Parsed {
	p := Parsed{}

	if ValidOTP(rec.OTP) {
		p.OTP = rec.OTP
	} else {
		for _, re := range otpAfterKeyword {
			if m := re.FindStringSubmatch(rec.Body); m != nil {
				p.OTP = m[1]
				break
			}
		}
	}

	p.Company = CompanyFromSender(rec.Sender)
	if p.Company == "" {
		p.Company = CompanyFromBody(rec.Body)
	}

	if m := trackingPattern.FindStringSubmatch(rec.Body); m != nil {
		p.TrackingID = m[1]
	}

	return p
}
