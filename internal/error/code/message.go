package code

// Error code to message mapping
var codeMessageMap = map[int]string{
	// Common
	ErrSuccess:         "success",
	ErrUnknown:         "unknown error",
	ErrBind:            "request parameter binding error",
	ErrValidation:      "request parameter validation error",
	ErrTooManyRequests: "request rate too high",

	// Feeds
	ErrFeedUnavailable:      "flight feed unavailable",
	ErrWeatherUnavailable:   "weather feed unavailable",
	ErrNASStatusUnavailable: "NAS status feed unavailable",

	// History and archive
	ErrDatabase:         "database error",
	ErrFlightNotFound:   "flight not found",
	ErrArchive:          "archive store error",
	ErrInvalidDateRange: "invalid date range",

	// Backup and operations
	ErrBackupFailed:  "backup failed",
	ErrPruneFailed:   "backup prune failed",
	ErrOperationsLog: "operations log error",
}

// Error code to HTTP status mapping
var codeStatusMap = map[int]int{
	// Common
	ErrSuccess:         StatusOK,
	ErrUnknown:         StatusInternalServerError,
	ErrBind:            StatusBadRequest,
	ErrValidation:      StatusBadRequest,
	ErrTooManyRequests: StatusTooManyRequests,

	// Feeds
	ErrFeedUnavailable:      StatusBadGateway,
	ErrWeatherUnavailable:   StatusBadGateway,
	ErrNASStatusUnavailable: StatusBadGateway,

	// History and archive
	ErrDatabase:         StatusInternalServerError,
	ErrFlightNotFound:   StatusNotFound,
	ErrArchive:          StatusInternalServerError,
	ErrInvalidDateRange: StatusBadRequest,

	// Backup and operations
	ErrBackupFailed:  StatusInternalServerError,
	ErrPruneFailed:   StatusInternalServerError,
	ErrOperationsLog: StatusInternalServerError,
}

// GetMessage returns the message for an error code
func GetMessage(code int) string {
	if msg, ok := codeMessageMap[code]; ok {
		return msg
	}
	return "unknown error"
}

// GetStatus returns the HTTP status for an error code
func GetStatus(code int) int {
	if status, ok := codeStatusMap[code]; ok {
		return status
	}
	return StatusInternalServerError
}
