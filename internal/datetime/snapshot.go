package datetime

import (
	"strings"
	"time"
)

const (
	localTimeLayout = "02/01/2006, 15:04:05"
	formattedLayout = "Monday, 2 January 2006, 15:04:05"
)

// Snapshot describes a single instant in several representations so a
// caller can anchor relative dates ("tomorrow at 10") without guessing.
type Snapshot struct {
	ISO8601   string    `json:"iso8601"`
	Timestamp int64     `json:"timestamp"`
	Timezone  string    `json:"timezone"`
	LocalTime string    `json:"localTime"`
	Formatted string    `json:"formatted"`
	Unix      int64     `json:"unix"`
	Date      DateParts `json:"date"`
	Time      TimeParts `json:"time"`
}

// DateParts is the UTC calendar date of a Snapshot.
type DateParts struct {
	Year  int `json:"year"`
	Month int `json:"month"`
	Day   int `json:"day"`
}

// TimeParts is the UTC wall clock of a Snapshot.
type TimeParts struct {
	Hour   int `json:"hour"`
	Minute int `json:"minute"`
	Second int `json:"second"`
}

// NewSnapshot builds a Snapshot of now. zone selects the location used for
// LocalTime and Formatted; an empty zone means FallbackTimeZone.
func NewSnapshot(now time.Time, zone string) (*Snapshot, error) {
	zone = strings.TrimSpace(zone)
	if zone == "" {
		zone = FallbackTimeZone
	}
	loc, err := LoadZone(zone)
	if err != nil {
		return nil, err
	}

	utc := now.UTC()
	local := now.In(loc)

	return &Snapshot{
		ISO8601:   utc.Format(ZuluLayout),
		Timestamp: utc.UnixMilli(),
		Timezone:  zone,
		LocalTime: local.Format(localTimeLayout),
		Formatted: local.Format(formattedLayout),
		Unix:      utc.Unix(),
		Date: DateParts{
			Year:  utc.Year(),
			Month: int(utc.Month()),
			Day:   utc.Day(),
		},
		Time: TimeParts{
			Hour:   utc.Hour(),
			Minute: utc.Minute(),
			Second: utc.Second(),
		},
	}, nil
}
