// Package errors provides the structured error type shared by every textstream
// package. Errors carry a machine-readable code, a message, optional details
// and the underlying cause, and map to process exit codes for the CLI.
package errors
