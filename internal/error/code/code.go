package code

// HTTP status codes used by the error code table.
const (
	// StatusOK - 200: success.
	StatusOK = 200
	// StatusBadRequest - 400: invalid request parameters.
	StatusBadRequest = 400
	// StatusNotFound - 404: resource not found.
	StatusNotFound = 404
	// StatusInternalServerError - 500: internal server error.
	StatusInternalServerError = 500
	// StatusBadGateway - 502: upstream feed failure.
	StatusBadGateway = 502
	// StatusTooManyRequests - 429: too many requests.
	StatusTooManyRequests = 429
)

// Common error codes (100xxx).
const (
	// ErrSuccess - 200: success.
	ErrSuccess int = iota + 100000
	// ErrUnknown - 500: unknown error.
	ErrUnknown
	// ErrBind - 400: request parameter binding error.
	ErrBind
	// ErrValidation - 400: request parameter validation error.
	ErrValidation
	// ErrTooManyRequests - 429: request rate too high.
	ErrTooManyRequests
)

// Feed error codes (102xxx).
const (
	// ErrFeedUnavailable - 502: upstream flight feed failed.
	ErrFeedUnavailable int = iota + 102000
	// ErrWeatherUnavailable - 502: upstream weather feed failed.
	ErrWeatherUnavailable
	// ErrNASStatusUnavailable - 502: FAA NAS status feed failed.
	ErrNASStatusUnavailable
)

// History and archive error codes (103xxx).
const (
	// ErrDatabase - 500: database error.
	ErrDatabase int = iota + 103000
	// ErrFlightNotFound - 404: flight not found.
	ErrFlightNotFound
	// ErrArchive - 500: archive store error.
	ErrArchive
	// ErrInvalidDateRange - 400: invalid date range.
	ErrInvalidDateRange
)

// Backup and operations error codes (104xxx).
const (
	// ErrBackupFailed - 500: backup failed.
	ErrBackupFailed int = iota + 104000
	// ErrPruneFailed - 500: backup retention prune failed.
	ErrPruneFailed
	// ErrOperationsLog - 500: operations log error.
	ErrOperationsLog
)
