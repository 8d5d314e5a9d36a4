// Package config resolves the server configuration.
//
// Settings come from cobra flags, the process environment and an optional
// .env file in the working directory, with flags taking precedence. See the
// Env constants for the recognised variables.
package config
