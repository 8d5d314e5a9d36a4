// Package common provides the pieces shared by every tool package: the
// instrumentation wrapper that records spans, metrics and audit lines for a
// tool call, and helpers that read loosely typed MCP arguments.
//
// Argument helpers distinguish an absent argument from one sent with a zero
// value, returning optional.Value where an update has to know the difference.
package common
