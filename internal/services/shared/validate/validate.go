// Package validate holds the client-side checks run before any network call.
package validate

import (
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	apperrors "github.com/louisbranch/familyhub/internal/platform/errors"
)

// MinPasswordLength is the shortest password accepted at registration.
const MinPasswordLength = 6

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Email checks that value looks like an email address.
func Email(value string) error {
	if !emailPattern.MatchString(strings.TrimSpace(value)) {
		return apperrors.New(apperrors.CodeEmailInvalid, "email is invalid")
	}
	return nil
}

// Password checks that value has at least min characters.
func Password(value string, min int) error {
	if utf8.RuneCountInString(value) < min {
		return apperrors.WithMetadata(apperrors.CodePasswordTooShort, "password is too short",
			map[string]string{"Min": strconv.Itoa(min)})
	}
	return nil
}

// Required returns an error with code when value is blank.
func Required(code apperrors.Code, field, value string) error {
	if strings.TrimSpace(value) == "" {
		return apperrors.WithMetadata(code, field+" is required", map[string]string{"Field": field})
	}
	return nil
}

// MaxLength returns an error with code when value exceeds max runes.
func MaxLength(code apperrors.Code, field, value string, max int) error {
	if utf8.RuneCountInString(value) > max {
		return apperrors.WithMetadata(code, field+" is too long", map[string]string{
			"Field": field,
			"Max":   strconv.Itoa(max),
		})
	}
	return nil
}
