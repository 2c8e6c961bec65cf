package service

import (
	"fmt"
	"strings"

	"github.com/sakif/wellbeing-tracker/internal/apperror"
)

// The helpers below return nil or an *apperror.AppError of kind ErrValidation.
// Messages use the JSON field names, since that is what the client sent.

func required(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return apperror.ValidationFailed(field, field+" is required")
	}
	return nil
}

func maxLength(field, value string, limit int) error {
	if len(value) > limit {
		return apperror.ValidationFailed(field,
			fmt.Sprintf("%s must be %d characters or less", field, limit))
	}
	return nil
}

func intRange(field string, value, lo, hi int) error {
	if value < lo || value > hi {
		return apperror.ValidationFailed(field,
			fmt.Sprintf("%s must be between %d and %d", field, lo, hi))
	}
	return nil
}

func oneOf[T ~string](field string, value T, allowed []T) error {
	for _, a := range allowed {
		if value == a {
			return nil
		}
	}
	names := make([]string, len(allowed))
	for i, a := range allowed {
		names[i] = string(a)
	}
	return apperror.ValidationFailed(field,
		fmt.Sprintf("%s must be one of: %s", field, strings.Join(names, ", ")))
}

// firstError returns the first non-nil error, so a service can list all its
// checks in one place and report them in declaration order.
func firstError(errs ...error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}

// normalise trims the string and, for enumerations, lower-cases it so that
// "Female" and " female " are accepted as "female".
func normalise[T ~string](v T) T {
	return T(strings.ToLower(strings.TrimSpace(string(v))))
}
