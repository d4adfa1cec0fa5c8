package errors

// ErrorCode represents a machine-readable error code.
type ErrorCode string

// I/O errors
const (
	// ErrCodeIO indicates a failure of the underlying byte resource (open, read, write, close).
	ErrCodeIO ErrorCode = "IO_ERROR"
)

// Conversion errors
const (
	// ErrCodeConversion indicates an invalid or unrepresentable character sequence.
	ErrCodeConversion ErrorCode = "CONVERSION_ERROR"
	// ErrCodeBufferTooSmall indicates an output buffer that cannot hold a single character.
	ErrCodeBufferTooSmall ErrorCode = "BUFFER_TOO_SMALL"
)

// Configuration errors
const (
	// ErrCodeUnknownCharset indicates a charset name that could not be resolved.
	ErrCodeUnknownCharset ErrorCode = "UNKNOWN_CHARSET"
	// ErrCodeInvalidConfig indicates a configuration value that cannot be used.
	ErrCodeInvalidConfig ErrorCode = "INVALID_CONFIG"
	// ErrCodeInvalidInput indicates the input failed validation.
	ErrCodeInvalidInput ErrorCode = "INVALID_INPUT"
	// ErrCodeUsage indicates the command line was malformed.
	ErrCodeUsage ErrorCode = "USAGE"
)

// Internal errors
const (
	// ErrCodeInternal indicates an unexpected internal failure.
	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
)

// Process exit codes.
const (
	ExitOK      = 0
	ExitUsage   = 1
	ExitFailure = 2
)

var exitCodes = map[ErrorCode]int{
	ErrCodeIO:             ExitFailure,
	ErrCodeConversion:     ExitFailure,
	ErrCodeBufferTooSmall: ExitFailure,
	ErrCodeInternal:       ExitFailure,
	ErrCodeUnknownCharset: ExitUsage,
	ErrCodeInvalidConfig:  ExitUsage,
	ErrCodeInvalidInput:   ExitUsage,
	ErrCodeUsage:          ExitUsage,
}

// ExitCodeFor returns the process exit code for an error code.
// Unknown codes map to ExitFailure.
func ExitCodeFor(code ErrorCode) int {
	if c, ok := exitCodes[code]; ok {
		return c
	}
	return ExitFailure
}

// IsConfigurationCode returns true if the code is raised before any I/O happens.
func IsConfigurationCode(code ErrorCode) bool {
	return ExitCodeFor(code) == ExitUsage
}
