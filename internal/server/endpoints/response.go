package endpoints

import (
	"encoding/json"
	"net/http"
)

// ErrorResponse is the error body every non-streaming failure uses.
type ErrorResponse struct {
	Error      string `json:"error" example:"Bad Request"`
	Success    bool   `json:"success" example:"false"`
	Message    string `json:"message" example:"text: length must be <= 2000, but got 2001"`
	StatusCode int    `json:"statusCode" example:"400"`
}

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError writes the standard JSON error body.
func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, ErrorResponse{
		Error:      http.StatusText(status),
		Success:    false,
		Message:    msg,
		StatusCode: status,
	})
}
