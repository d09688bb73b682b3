package validation

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// ValidationError represents a single field validation failure.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Collector accumulates validation errors without failing on first.
type Collector struct {
	errors []ValidationError
}

// Add appends a validation error to the collector if non-nil.
func (c *Collector) Add(err *ValidationError) {
	if err != nil {
		c.errors = append(c.errors, *err)
	}
}

// HasErrors returns true if the collector has accumulated any errors.
func (c *Collector) HasErrors() bool {
	return len(c.errors) > 0
}

// Errors returns all accumulated validation errors.
func (c *Collector) Errors() []ValidationError {
	return c.errors
}

// emailPattern is deliberately permissive: one @, non-empty local part, and a
// dotted domain. Deliverability is proven by the magic link, not the regex.
var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// ValidateRequired returns an error if the value is empty or whitespace-only.
func ValidateRequired(field, value string) *ValidationError {
	if strings.TrimSpace(value) == "" {
		return &ValidationError{
			Field:   field,
			Message: "is required",
		}
	}
	return nil
}

// ValidateEmail returns an error if the value is not a plausible email
// address.
func ValidateEmail(field, value string) *ValidationError {
	if !emailPattern.MatchString(strings.TrimSpace(value)) {
		return &ValidationError{
			Field:   field,
			Message: "must be a valid email address",
		}
	}
	return nil
}

// ValidatePhone returns an error if the value has fewer than 10 digits once
// formatting characters are stripped.
func ValidatePhone(field, value string) *ValidationError {
	digits := 0
	for _, r := range value {
		if r >= '0' && r <= '9' {
			digits++
		}
	}
	if digits < 10 {
		return &ValidationError{
			Field:   field,
			Message: "must contain at least 10 digits",
		}
	}
	return nil
}

// ValidateEnum returns an error if the value is not in the allowed list.
func ValidateEnum(field, value string, allowed []string) *ValidationError {
	for _, a := range allowed {
		if value == a {
			return nil
		}
	}
	return &ValidationError{
		Field:   field,
		Message: fmt.Sprintf("must be one of: %s", strings.Join(allowed, ", ")),
	}
}

// ValidatePositive returns an error if the value is not strictly positive.
func ValidatePositive(field string, value float64) *ValidationError {
	if value <= 0 {
		return &ValidationError{
			Field:   field,
			Message: "must be greater than zero",
		}
	}
	return nil
}

// ParseDate validates the three raw date-of-birth fields and returns the
// calendar date they represent. The year must fall in [1900, now.Year()] and
// the day/month/year combination must be a real date.
func ParseDate(day, month, year string, now time.Time) (time.Time, *ValidationError) {
	d, err := strconv.Atoi(strings.TrimSpace(day))
	if err != nil {
		return time.Time{}, &ValidationError{Field: "day", Message: "must be a number"}
	}
	m, err := strconv.Atoi(strings.TrimSpace(month))
	if err != nil {
		return time.Time{}, &ValidationError{Field: "month", Message: "must be a number"}
	}
	y, err := strconv.Atoi(strings.TrimSpace(year))
	if err != nil {
		return time.Time{}, &ValidationError{Field: "year", Message: "must be a number"}
	}

	if y < 1900 || y > now.Year() {
		return time.Time{}, &ValidationError{
			Field:   "year",
			Message: fmt.Sprintf("must be between 1900 and %d", now.Year()),
		}
	}

	date := time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
	// time.Date normalizes overflow (e.g. 31 Feb becomes 2-3 Mar), so a
	// round-trip mismatch means the fields were not a real date.
	if date.Year() != y || date.Month() != time.Month(m) || date.Day() != d {
		return time.Time{}, &ValidationError{Field: "day", Message: "is not a valid calendar date"}
	}

	return date, nil
}

// AgeAt returns full years elapsed between birth date and now.
func AgeAt(birth, now time.Time) int {
	age := now.Year() - birth.Year()
	anniversary := time.Date(now.Year(), birth.Month(), birth.Day(), 0, 0, 0, 0, time.UTC)
	if now.Before(anniversary) {
		age--
	}
	return age
}
