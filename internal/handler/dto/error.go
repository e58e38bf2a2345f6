// Package dto provides Data Transfer Objects for API requests and responses.
package dto

// ErrorResponse represents an API error. Error carries internal detail and
// is only filled when the server is configured to expose it.
type ErrorResponse struct {
	Message string `json:"message"`
	Code    string `json:"code"`
	Error   string `json:"error,omitempty"`
}

// MessageResponse is a bare acknowledgement.
type MessageResponse struct {
	Message string `json:"message"`
}
