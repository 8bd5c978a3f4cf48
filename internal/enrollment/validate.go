package enrollment

import (
	"errors"
	"regexp"
)

var (
	// ErrInvalidPhone indicates the phone number is not a 10-digit mobile
	// number starting with 6-9.
	ErrInvalidPhone = errors.New("invalid phone number")
	// ErrInvalidIdentityNumber indicates the identity number is not exactly
	// 12 digits.
	ErrInvalidIdentityNumber = errors.New("invalid identity number")
)

var (
	phonePattern    = regexp.MustCompile(`^[6-9]\d{9}$`)
	identityPattern = regexp.MustCompile(`^\d{12}$`)
)

// ValidatePhone checks the enrollment phone number format. Called on every
// submission attempt, not just once.
func ValidatePhone(phone string) error {
	if !phonePattern.MatchString(phone) {
		return ErrInvalidPhone
	}
	return nil
}

// ValidateIdentityNumber checks the national identity number format.
func ValidateIdentityNumber(idNumber string) error {
	if !identityPattern.MatchString(idNumber) {
		return ErrInvalidIdentityNumber
	}
	return nil
}
