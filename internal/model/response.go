package model

// APIResponse is the envelope of every JSON body the service writes. Failures
// carry Error and repeat its message at the top level.
type APIResponse struct {
	Success bool      `json:"success"`
	Message string    `json:"message,omitempty"`
	Data    any       `json:"data,omitempty"`
	Error   *APIError `json:"error,omitempty"`
	Meta    *Meta     `json:"meta,omitempty"`
}

// APIError codes are stable: INVALID_TYPE, VALIDATION_FAILED, NOT_FOUND,
// CONFLICT, UNAUTHORIZED, BAD_REQUEST, RATE_LIMITED, REQUEST_TIMEOUT and
// INTERNAL_ERROR.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

// Meta accompanies list responses.
type Meta struct {
	Total int `json:"total"`
}
