package datetime

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"
)

// ZuluLayout is the canonical UTC layout every normalized timestamp uses.
const ZuluLayout = "2006-01-02T15:04:05.000Z"

var (
	// ErrInvalidArgument is returned when a timestamp argument is missing,
	// empty, or not a string.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrInvalidTimestamp is returned when a timestamp cannot be parsed.
	ErrInvalidTimestamp = errors.New("invalid timestamp")
)

var zuluPattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}T\d{2}:\d{2}:\d{2}(\.\d{3})?Z$`)

// Layouts without an offset are read as UTC.
var parseLayouts = []struct {
	layout  string
	utcOnly bool
}{
	{layout: time.RFC3339Nano},
	{layout: "2006-01-02T15:04:05.999999999Z0700"},
	{layout: "2006-01-02T15:04Z07:00"},
	{layout: "2006-01-02T15:04:05.999999999", utcOnly: true},
	{layout: "2006-01-02 15:04:05.999999999", utcOnly: true},
	{layout: "2006-01-02T15:04", utcOnly: true},
	{layout: time.DateOnly, utcOnly: true},
}

// IsZuluForm reports whether s is already a canonical Zulu timestamp
// (YYYY-MM-DDTHH:mm:ss[.sss]Z).
func IsZuluForm(s string) bool {
	return zuluPattern.MatchString(s)
}

// ToZuluForm converts s to Zulu form. Strings that are already in Zulu form
// are returned untouched so their precision is preserved exactly.
func ToZuluForm(s string) (string, error) {
	if IsZuluForm(s) {
		return s, nil
	}

	t, err := Parse(s)
	if err != nil {
		return "", err
	}
	utc := t.UTC()
	if y := utc.Year(); y < 0 || y > 9999 {
		return "", fmt.Errorf("%w: %q falls outside years 0000-9999 in UTC", ErrInvalidTimestamp, s)
	}
	return utc.Format(ZuluLayout), nil
}

// ValidateAndNormalize rejects empty input and otherwise delegates to ToZuluForm.
func ValidateAndNormalize(s string) (string, error) {
	if strings.TrimSpace(s) == "" {
		return "", fmt.Errorf("%w: timestamp must be a non-empty string", ErrInvalidArgument)
	}
	return ToZuluForm(s)
}

// ValidateAndNormalizeValue is ValidateAndNormalize for untyped tool arguments.
func ValidateAndNormalizeValue(v any) (string, error) {
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("%w: timestamp must be a non-empty string, got %T", ErrInvalidArgument, v)
	}
	return ValidateAndNormalize(s)
}

// Parse reads s as a general ISO-8601 date or date-time.
func Parse(s string) (time.Time, error) {
	trimmed := strings.TrimSpace(s)
	for _, l := range parseLayouts {
		var (
			t   time.Time
			err error
		)
		if l.utcOnly {
			t, err = time.ParseInLocation(l.layout, trimmed, time.UTC)
		} else {
			t, err = time.Parse(l.layout, trimmed)
		}
		if err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q is not an ISO-8601 date/time", ErrInvalidTimestamp, s)
}
