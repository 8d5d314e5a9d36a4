// Package datetime normalizes timestamps handed to the Calendar and Tasks
// APIs.
//
// Every timestamp that reaches Google is either canonical Zulu time
// (2006-01-02T15:04:05.000Z) or paired with an IANA zone name. Inputs that
// are already in Zulu form pass through byte for byte; everything else is
// parsed as ISO-8601 and re-rendered in UTC:
//
//	s, err := datetime.ValidateAndNormalize("2024-01-01T11:00:00+01:00")
//	// s == "2024-01-01T10:00:00.000Z"
//
// Offset-less date-times and plain dates are read as UTC.
package datetime
