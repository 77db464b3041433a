// Package handlers defines HTTP-layer error codes used across all API endpoints.
//
// Every error response carries one of these codes next to a human-readable
// message, so clients can branch on the code rather than on the text:
//
//	{
//	  "request_id": "e1b9be03-4999-4289-9f03-999b042d65d6",
//	  "code": "quota_exhausted",
//	  "message": "No tokens remaining. Maximum 10 analyses allowed in demo mode."
//	}
package handlers

const (
	ErrCodeBadRequest       = "bad_request"
	ErrCodeNotFound         = "not_found"
	ErrCodeMethodNotAllowed = "method_not_allowed"
	ErrCodeInternal         = "internal_error"

	// Domain-specific:
	ErrCodeQuotaExhausted    = "quota_exhausted"
	ErrCodeLanguageDetection = "language_detection_failed"
	ErrCodeAnalysisFailed    = "analysis_failed"
	ErrCodeHistoryFailed     = "history_failed"
)

// User-facing messages for analyze failures.
const (
	msgLanguageDetection = "Failed to detect language. Please try again."
	msgAnalysisParse     = "Failed to parse AI response. Please try again."
	msgMissingFields     = "Missing required fields in response"
	msgOutOfRange        = "Numeric values must be between 0 and 1"
	msgUnexpected        = "An unexpected error occurred. Please try again."
)
