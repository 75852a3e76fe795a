// Package dto defines response bodies shared across HTTP handlers.
package dto

// ErrorResponse is the standard error response body.
type ErrorResponse struct {
	Error string `json:"error"`
}

// MessageResponse is a simple acknowledgement response body.
type MessageResponse struct {
	Message string `json:"message"`
}

// TokenResponse carries a signed JWT back to the client.
type TokenResponse struct {
	Token string `json:"token"`
}
