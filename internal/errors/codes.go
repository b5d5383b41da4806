package errors

// Machine-readable error codes carried alongside the human message.
// Format: CATEGORY_SPECIFIC_DETAIL

const (
	// ==================== Validation (VALIDATION_) ====================
	ValidationInvalidJSON  = "VALIDATION_INVALID_JSON"  // body is not a JSON object
	ValidationRequired     = "VALIDATION_REQUIRED"      // required field missing or empty
	ValidationInvalidInput = "VALIDATION_INVALID_INPUT" // value outside the allowed set
	ValidationTooLong      = "VALIDATION_TOO_LONG"      // value exceeds column width

	// ==================== Resource (RESOURCE_) ====================
	ResourceNotFound      = "RESOURCE_NOT_FOUND"
	ResourceAlreadyExists = "RESOURCE_ALREADY_EXISTS"

	// ==================== Request (REQUEST_) ====================
	RequestMethodNotAllowed = "REQUEST_METHOD_NOT_ALLOWED"

	// ==================== Internal (INTERNAL_) ====================
	InternalServerError   = "INTERNAL_SERVER_ERROR"
	InternalDatabaseError = "INTERNAL_DATABASE_ERROR"
	InternalUnavailable   = "INTERNAL_UNAVAILABLE"
)
