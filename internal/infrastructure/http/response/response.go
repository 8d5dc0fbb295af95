package response

import (
	"encoding/json"
	"net/http"
)

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// JSON sends a JSON response
func JSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// Error sends an error response. message is the user-facing text; when empty
// the error's own text is used.
func Error(w http.ResponseWriter, status int, err error, message string) {
	errorType := "error"
	switch status {
	case http.StatusNotFound:
		errorType = "not_found"
	case http.StatusBadRequest:
		errorType = "bad_request"
	case http.StatusForbidden:
		errorType = "forbidden"
	case http.StatusUnprocessableEntity:
		errorType = "validation_error"
	case http.StatusBadGateway:
		errorType = "source_unavailable"
	case http.StatusInternalServerError:
		errorType = "internal_server_error"
	}

	if message == "" {
		message = err.Error()
	}

	JSON(w, status, ErrorResponse{
		Error:   errorType,
		Message: message,
	})
}
