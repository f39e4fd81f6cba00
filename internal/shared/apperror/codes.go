package apperror

// Stable machine-readable codes carried in the API envelope. Several
// sentinels share a code; clients needing finer grain read the message.
const (
	// Caller mistakes (4xx)
	CodeInvalidInput = "INVALID_INPUT"
	CodeUnauthorized = "UNAUTHORIZED"
	CodeForbidden    = "FORBIDDEN"
	CodeNotFound     = "NOT_FOUND"
	CodeConflict     = "CONFLICT"
	// CodeInvalidState covers lifecycle violations: paying an open
	// period, cancelling a paid commission, and the like.
	CodeInvalidState = "INVALID_STATE"

	// Our faults (5xx)
	CodeInternalError      = "INTERNAL_ERROR"
	CodeServiceUnavailable = "SERVICE_UNAVAILABLE"
)
