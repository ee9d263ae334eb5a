package validation

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/pichane/iquit-cli/internal/constants"
)

var emailPattern = regexp.MustCompile(`^[A-Z0-9a-z._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,64}$`)

// IsValidEmail reports whether s looks like a standard email address.
func IsValidEmail(s string) bool {
	return emailPattern.MatchString(s)
}

// IsValidPassword reports whether the password meets the client-side
// minimum length.
func IsValidPassword(s string) bool {
	return len(s) >= constants.MinPasswordLength
}

// ParsePositive parses s as a number strictly greater than zero.
func ParsePositive(field, s string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || v <= 0 {
		return 0, fmt.Errorf("please enter a valid %s", field)
	}
	return v, nil
}

// ParseNonNegative parses s as a number greater than or equal to zero.
func ParseNonNegative(field, s string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || v < 0 {
		return 0, fmt.Errorf("please enter a valid %s", field)
	}
	return v, nil
}

// Username derives a signup username from the email local part.
func Username(email string) string {
	if at := strings.Index(email, "@"); at > 0 {
		return email[:at]
	}
	return email
}
