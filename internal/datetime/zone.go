package datetime

import (
	"errors"
	"fmt"
	"strings"
	"time"
	_ "time/tzdata"
)

// FallbackTimeZone is used when neither the caller nor the configuration
// names a time zone.
const FallbackTimeZone = "Atlantic/Canary"

// ErrInvalidTimeZone is returned for names that are not IANA time zones.
var ErrInvalidTimeZone = errors.New("invalid time zone")

// LoadZone resolves an IANA time zone name. The empty string and "Local" are
// rejected because they do not name a zone the upstream API understands.
func LoadZone(name string) (*time.Location, error) {
	name = strings.TrimSpace(name)
	if name == "" || name == "Local" {
		return nil, fmt.Errorf("%w %q: use an IANA name such as America/New_York, Europe/Madrid or Atlantic/Canary", ErrInvalidTimeZone, name)
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("%w %q: use an IANA name such as America/New_York, Europe/Madrid or Atlantic/Canary", ErrInvalidTimeZone, name)
	}
	return loc, nil
}

// ResolveZone returns the first non-empty name of override, configured and
// FallbackTimeZone.
func ResolveZone(override, configured string) string {
	if z := strings.TrimSpace(override); z != "" {
		return z
	}
	if z := strings.TrimSpace(configured); z != "" {
		return z
	}
	return FallbackTimeZone
}
