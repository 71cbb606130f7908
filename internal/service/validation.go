package service

import (
	"fmt"
	"strings"
	"time"

	"github.com/dangerclosesec/greenhug/internal/domain"
	"github.com/go-playground/validator/v10"
)

// validateStruct runs the struct's validate tags. Failures wrap both
// domain.ErrInvalidInput and the validator's errors.
func validateStruct(v *validator.Validate, input interface{}) error {
	if err := v.Struct(input); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrInvalidInput, err)
	}
	return nil
}

var dateLayouts = []string{time.RFC3339, "2006-01-02"}

// parseDate accepts RFC 3339 timestamps and plain YYYY-MM-DD dates.
func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: invalid date %q", domain.ErrInvalidInput, s)
}
