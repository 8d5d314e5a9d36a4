package instrumentation

import "strings"

// TargetLabel reduces a calendar or task list id to a low-cardinality label.
//
// Calendar ids are usually email addresses or group calendar addresses, so
// only their domain is kept. Opaque ids (task lists, imported calendars)
// collapse to "other".
//
//	TargetLabel("primary")                                      // "primary"
//	TargetLabel("jane@example.com")                             // "example.com"
//	TargetLabel("en.spain#holiday@group.v.calendar.google.com") // "group.v.calendar.google.com"
//	TargetLabel("MDY2NzE0NjQ5ODk")                              // "other"
//	TargetLabel("")                                             // "unknown"
func TargetLabel(id string) string {
	switch {
	case id == "":
		return "unknown"
	case id == "primary":
		return id
	}

	if at := strings.LastIndex(id, "@"); at >= 0 && at < len(id)-1 {
		return id[at+1:]
	}
	return "other"
}

// Operation types for Google API metrics.
const (
	OperationList     = "list"
	OperationGet      = "get"
	OperationCreate   = "create"
	OperationUpdate   = "update"
	OperationDelete   = "delete"
	OperationSearch   = "search"
	OperationComplete = "complete"
)
