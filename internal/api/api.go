// Package api holds the JSON envelopes shared by every HTTP handler.
package api

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error     string `json:"error"`
	Code      string `json:"code,omitempty"`
	Retryable bool   `json:"retryable,omitempty"`
	Details   any    `json:"details,omitempty"`
}

// MessageResponse acknowledges a mutation that has nothing else to return.
type MessageResponse struct {
	Message string `json:"message"`
}

// Error codes carried in ErrorResponse.Code.
const (
	CodeInvalidInput           = "invalid_input"
	CodeUnauthorized           = "unauthorized"
	CodeForbidden              = "forbidden"
	CodeNotFound               = "not_found"
	CodeConflict               = "conflict"
	CodeInsufficientStock      = "insufficient_stock"
	CodeCartEmpty              = "cart_empty"
	CodeCategoryInUse          = "category_in_use"
	CodeConflictRetryExhausted = "conflict_retry_exhausted"
	CodeInternal               = "internal_error"
)
