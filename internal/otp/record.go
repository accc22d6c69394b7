// Package otp parses one-time passwords out of SMS messages and picks
// the record that best matches what a caller is asking for.
package otp

import "time"

// SMSRecord is one message from the phone's inbox as the companion
// backend reports it. OTP may be pre-extracted on the device; when it
// is empty the parser falls back to the message body.
type SMSRecord struct {
	Sender     string    `json:"sender"`
	Body       string    `json:"message"`
	OTP        string    `json:"otp,omitempty"`
	ReceivedAt time.Time `json:"received_at"`
}
