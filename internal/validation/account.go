// Package validation holds input validators for account fields.
package validation

import (
	"errors"
	"net/mail"
	"strings"
	"unicode"
)

const (
	minPasswordLen    = 8
	maxPasswordLen    = 72 // bcrypt input limit
	maxDisplayNameLen = 64
)

// ValidateEmail checks that the address parses per RFC 5322.
func ValidateEmail(email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return errors.New("email is required")
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return errors.New("email address is not valid")
	}
	return nil
}

// ValidatePassword enforces minimum password strength: length plus at least
// one letter and one digit.
func ValidatePassword(password string) error {
	if len(password) < minPasswordLen {
		return errors.New("password must be at least 8 characters")
	}
	if len(password) > maxPasswordLen {
		return errors.New("password must be at most 72 characters")
	}

	var hasLetter, hasDigit bool
	for _, r := range password {
		switch {
		case unicode.IsLetter(r):
			hasLetter = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}
	if !hasLetter || !hasDigit {
		return errors.New("password must contain at least one letter and one digit")
	}
	return nil
}

// ValidateDisplayName checks length and rejects control characters.
func ValidateDisplayName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return errors.New("display name is required")
	}
	if len(name) > maxDisplayNameLen {
		return errors.New("display name must be at most 64 characters")
	}
	for _, r := range name {
		if unicode.IsControl(r) {
			return errors.New("display name contains invalid characters")
		}
	}
	return nil
}
