package compose

import "strings"

// SpeakDigits renders a numeric code the way it should be read aloud,
// one digit at a time: "4821" becomes "4 8 2 1". Non-digits are
// dropped.
func SpeakDigits(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r < '0' || r > '9' {
			continue
		}
		if b.Len() > 0 {
			b.WriteByte(' ')
		}
		b.WriteRune(r)
	}
	return b.String()
}

// SpeakPhone renders a phone number for reading aloud, keeping a
// leading plus: "+919876543210" becomes "+91 9 8 7 6 5 4 3 2 1 0".
func SpeakPhone(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "+") {
		digits := SpeakDigits(s)
		// country code stays grouped
		parts := strings.SplitN(digits, " ", 3)
		if len(parts) == 3 {
			return "+" + parts[0] + parts[1] + " " + parts[2]
		}
		return "+" + digits
	}
	return SpeakDigits(s)
}
