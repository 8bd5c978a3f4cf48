package session

import (
	"strings"
	"time"
)

// PlaceholderIdentityNumber is recorded when a login flow collects only a
// phone number and verification code. Twelve digits, so masking and format
// checks treat it like any real value.
const PlaceholderIdentityNumber = "000000000000"

// Session is the sole unit of authentication state: the currently
// authenticated principal, replaced wholesale on login/signup and merged
// only through explicit profile updates.
type Session struct {
	ID             string    `json:"id"`
	PhoneNumber    string    `json:"phone_number"`
	IdentityNumber string    `json:"identity_number"`
	DisplayName    string    `json:"display_name,omitempty"`
	ProfileImage   string    `json:"profile_image,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// ProfileUpdate carries a partial set of profile fields. Nil fields keep
// their current value; set fields overwrite.
type ProfileUpdate struct {
	DisplayName  *string
	ProfileImage *string
}

// MaskIdentityNumber redacts the middle of a national identity number,
// leaving the first and last four characters visible. Values too short to
// mask meaningfully are redacted entirely.
func MaskIdentityNumber(idNumber string) string {
	const visible = 4
	if len(idNumber) <= visible*2 {
		return strings.Repeat("*", len(idNumber))
	}
	middle := strings.Repeat("*", len(idNumber)-visible*2)
	return idNumber[:visible] + middle + idNumber[len(idNumber)-visible:]
}
