package utils

import (
	"fmt"
	"regexp"
)

var (
	emailRegex   = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
	mobileRegex  = regexp.MustCompile(`^\+?[\d\s-]{10,15}$`)
	gstinRegex   = regexp.MustCompile(`^[0-9]{2}[A-Z]{5}[0-9]{4}[A-Z][1-9A-Z]Z[0-9A-Z]$`)
	pincodeRegex = regexp.MustCompile(`^[1-9][0-9]{5}$`)
	controlChars = regexp.MustCompile(`[\x00-\x1f\x7f]`)
)

// ValidateEmail validates an email address
func ValidateEmail(email string) error {
	if !emailRegex.MatchString(email) {
		return fmt.Errorf("invalid email format: %s", email)
	}
	return nil
}

// ValidateMobile validates a phone number: an optional leading +, then 10 to
// 15 digits, spaces or dashes
func ValidateMobile(mobile string) error {
	if !mobileRegex.MatchString(mobile) {
		return fmt.Errorf("invalid mobile number format: %s", mobile)
	}
	return nil
}

// ValidateGSTIN validates a 15 character Indian GST identification number
func ValidateGSTIN(gstin string) error {
	if len(gstin) != 15 {
		return fmt.Errorf("GSTIN must be 15 characters: %s", gstin)
	}
	if !gstinRegex.MatchString(gstin) {
		return fmt.Errorf("invalid GSTIN format: %s", gstin)
	}
	return nil
}

// ValidatePincode validates a 6 digit Indian postal code
func ValidatePincode(pincode string) error {
	if !pincodeRegex.MatchString(pincode) {
		return fmt.Errorf("pincode must be 6 digits: %s", pincode)
	}
	return nil
}

// SanitizeString removes control characters
func SanitizeString(s string) string {
	return controlChars.ReplaceAllString(s, "")
}
