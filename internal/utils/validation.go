package utils

import (
	"errors"
	"regexp"
	"strings"
)

var ErrInvalidPaymentCode = errors.New("the provided code appears invalid, paste the full confirmation message or enter the reference ID")

var (
	paymentCodePattern = regexp.MustCompile(`[A-Z0-9]{10}`)
	phonePattern       = regexp.MustCompile(`^(?:\+254|254|0)(?:7|1)\d{8}$`)
)

// ExtractPaymentCode pulls the 10 character transaction reference out of a pasted
// M-Pesa confirmation message. Input without such a token is taken as a manually
// typed code and must be at least 8 characters long.
func ExtractPaymentCode(input string) (string, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return "", ErrInvalidPaymentCode
	}

	code := paymentCodePattern.FindString(input)
	if code == "" {
		code = strings.ToUpper(input)
	}

	if len(code) < 8 || strings.ContainsAny(code, " \t\n") {
		return "", ErrInvalidPaymentCode
	}
	return code, nil
}

func IsValidPhone(phone string) bool {
	return phonePattern.MatchString(strings.ReplaceAll(phone, " ", ""))
}
