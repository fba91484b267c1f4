// Package dto provides Data Transfer Objects for HTTP request/response handling.
package dto

// ErrorResponse is the body of every failed request.
// It carries exactly one human-readable message in the caller's locale.
type ErrorResponse struct {
	Error string `json:"error"`
}

// NewErrorResponse creates a new error response with the given message.
func NewErrorResponse(message string) *ErrorResponse {
	return &ErrorResponse{Error: message}
}
