package service

import (
	"net/mail"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	nameMinLen     = 3
	nameMaxLen     = 100
	emailMaxLen    = 255
	passwordMinLen = 8
	passwordMaxLen = 72 // bcrypt input limit
)

// Letters (including accented), spaces and hyphens only.
var nameCharset = regexp.MustCompile(`^[\p{L} -]+$`)

func normalizeName(name string) string {
	return strings.TrimSpace(name)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// validateRegistration checks normalized inputs and returns a map of
// field violations, empty when everything passes.
func validateRegistration(name, email, password string) map[string]any {
	violations := map[string]any{}

	if n := utf8.RuneCountInString(name); n < nameMinLen || n > nameMaxLen {
		violations["name"] = "name must be between 3 and 100 characters"
	} else if !nameCharset.MatchString(name) {
		violations["name"] = "name may only contain letters, spaces and hyphens"
	}

	if err := validateEmail(email); err != "" {
		violations["email"] = err
	}

	if err := validatePassword(password); err != "" {
		violations["password"] = err
	}

	return violations
}

func validateEmail(email string) string {
	if email == "" {
		return "email is required"
	}
	if len(email) > emailMaxLen {
		return "email must be at most 255 characters"
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return "email must be a valid address"
	}
	return ""
}

func validatePassword(password string) string {
	if strings.TrimSpace(password) == "" {
		return "password is required"
	}
	if len(password) < passwordMinLen || len(password) > passwordMaxLen {
		return "password must be between 8 and 72 characters"
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
		return "password must contain letters and numbers"
	}
	return ""
}
