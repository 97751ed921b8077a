package util

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

var (
	emailPattern   = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
	lowerPattern   = regexp.MustCompile(`[a-z]`)
	upperPattern   = regexp.MustCompile(`[A-Z]`)
	digitPattern   = regexp.MustCompile(`[0-9]`)
	specialPattern = regexp.MustCompile(`[@$!%*?&]`)
)

const minPasswordLength = 12

func ValidateEmail(email string) bool {
	return emailPattern.MatchString(email)
}

func ValidateName(name string) bool {
	n := utf8.RuneCountInString(strings.TrimSpace(name))
	return n >= 2 && n <= 100
}

// ValidatePassword returns the problems with a password, or nil when it is acceptable.
func ValidatePassword(password string) []string {
	var problems []string
	if len(password) < minPasswordLength {
		problems = append(problems, "Password must be at least 12 characters long")
	}
	if !lowerPattern.MatchString(password) {
		problems = append(problems, "Password must contain at least one lowercase letter")
	}
	if !upperPattern.MatchString(password) {
		problems = append(problems, "Password must contain at least one uppercase letter")
	}
	if !digitPattern.MatchString(password) {
		problems = append(problems, "Password must contain at least one number")
	}
	if !specialPattern.MatchString(password) {
		problems = append(problems, "Password must contain at least one special character (@$!%*?&)")
	}
	return problems
}
