// Package google wires OAuth2 for the Google Calendar and Tasks APIs.
//
// The server authenticates with a single offline refresh token supplied
// through configuration. NewTokenSource trades it for access tokens and
// NewHTTPClient turns the source into the client handed to the API
// packages. AuthFlow runs the one-time consent flow that produces the
// refresh token in the first place.
package google
