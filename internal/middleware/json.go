package middleware

import (
	"encoding/json"
	"net/http"

	"go-life-planner/internal/model"
)

// errorEnvelope renders the same failure body the handlers produce, so
// rejections from the middleware chain look like any other API error.
func errorEnvelope(code string, message string) model.APIResponse {
	return model.APIResponse{
		Success: false,
		Message: message,
		Error: &model.APIError{
			Code:    code,
			Message: message,
		},
	}
}

func writeJSONError(w http.ResponseWriter, status int, code string, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(errorEnvelope(code, message))
}
