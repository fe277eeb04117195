package payment

import (
	"errors"

	"github.com/nyaruka/phonenumbers"
)

// Phone validation error codes, in the order the phone widget reports them
const (
	PhoneErrInvalidNumber      = 0
	PhoneErrInvalidCountryCode = 1
	PhoneErrTooShort           = 2
	PhoneErrTooLong            = 3
	PhoneErrLocalOnly          = 4
	PhoneErrInvalidLength      = 5
)

var phoneErrorMessages = []string{
	"Invalid number",
	"Invalid country code",
	"Too short",
	"Too long",
	"Invalid number",
}

// PhoneMessage maps a validation error code to the text shown under the field
func PhoneMessage(code int) string {
	if code >= 0 && code < len(phoneErrorMessages) {
		return phoneErrorMessages[code]
	}
	return "Invalid phone number"
}

// PhoneChecker validates phone numbers for the payment form
type PhoneChecker interface {
	IsValidNumber(number string) bool
	ValidationError(number string) int
}

// LibPhoneChecker checks numbers with libphonenumber metadata. Numbers
// without a leading "+" are read as national numbers of Region.
type LibPhoneChecker struct {
	Region string
}

// NewLibPhoneChecker creates a checker with the given default region, e.g. "ZA"
func NewLibPhoneChecker(region string) *LibPhoneChecker {
	return &LibPhoneChecker{Region: region}
}

// IsValidNumber reports whether number is a valid, dialable number
func (c *LibPhoneChecker) IsValidNumber(number string) bool {
	num, err := phonenumbers.Parse(number, c.Region)
	if err != nil {
		return false
	}
	return phonenumbers.IsValidNumber(num)
}

// ValidationError returns the reason code for an invalid number
func (c *LibPhoneChecker) ValidationError(number string) int {
	num, err := phonenumbers.Parse(number, c.Region)
	if err != nil {
		switch {
		case errors.Is(err, phonenumbers.ErrInvalidCountryCode):
			return PhoneErrInvalidCountryCode
		case errors.Is(err, phonenumbers.ErrTooShortNSN), errors.Is(err, phonenumbers.ErrTooShortAfterIDD):
			return PhoneErrTooShort
		case errors.Is(err, phonenumbers.ErrNumTooLong):
			return PhoneErrTooLong
		default:
			return PhoneErrInvalidNumber
		}
	}

	switch phonenumbers.IsPossibleNumberWithReason(num) {
	case phonenumbers.INVALID_COUNTRY_CODE:
		return PhoneErrInvalidCountryCode
	case phonenumbers.TOO_SHORT:
		return PhoneErrTooShort
	case phonenumbers.TOO_LONG:
		return PhoneErrTooLong
	case phonenumbers.IS_POSSIBLE_LOCAL_ONLY:
		return PhoneErrLocalOnly
	case phonenumbers.INVALID_LENGTH:
		return PhoneErrInvalidLength
	default:
		return PhoneErrInvalidNumber
	}
}
