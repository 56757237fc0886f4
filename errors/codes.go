package errors

// ErrorCode represents a machine-readable error code.
type ErrorCode string

// Input errors
const (
	// ErrCodeInvalidInput indicates an argument or file name is unusable for
	// the requested operation (e.g. size estimation on a non-gzip name).
	ErrCodeInvalidInput ErrorCode = "INVALID_INPUT"
	// ErrCodeIO indicates the input could not be opened or read.
	ErrCodeIO ErrorCode = "IO_ERROR"
)

// Run errors
const (
	// ErrCodeWorkerFailure indicates the transform failed for some line.
	ErrCodeWorkerFailure ErrorCode = "WORKER_FAILURE"
	// ErrCodeTruncatedWrite indicates the output became unusable mid-run.
	ErrCodeTruncatedWrite ErrorCode = "TRUNCATED_WRITE"
	// ErrCodeInternal indicates a bug or an unexpected state.
	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
)

// None of the pipeline failures are retryable: a run either completes or
// is aborted, and there is no per-line retry.
var retryableCodes = map[ErrorCode]bool{
	ErrCodeInvalidInput:   false,
	ErrCodeIO:             false,
	ErrCodeWorkerFailure:  false,
	ErrCodeTruncatedWrite: false,
	ErrCodeInternal:       false,
}

// IsRetryableCode returns true if the error code indicates a retryable error.
func IsRetryableCode(code ErrorCode) bool {
	return retryableCodes[code]
}
