// Package handler holds the shared response envelope used by every
// endpoint: {"status": "success"|"error", "message": ..., "data": ...}.
package handler

type Response struct {
	Status  string      `json:"status"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

// NewSuccessResponse wraps payload data in the success envelope.
func NewSuccessResponse(data interface{}) *Response {
	return &Response{Status: "success", Data: data}
}

// NewErrorResponse wraps a human-readable message in the error envelope.
func NewErrorResponse(message string) *Response {
	return &Response{Status: "error", Message: message}
}
