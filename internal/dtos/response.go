// File: internal/dtos/response.go
package dtos

import (
	"encoding/json"
	"net/http"
	"time"
)

// Envelope wraps every API response body.
type Envelope struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *ErrorBody  `json:"error,omitempty"`
}

type ErrorBody struct {
	Message    string `json:"message"`
	StatusCode int    `json:"statusCode"`
	Timestamp  string `json:"timestamp"`
	// Details carries the internal error text, development only.
	Details string `json:"details,omitempty"`
}

// MessageResponse is the body of DELETE and other acknowledgement-only calls.
type MessageResponse struct {
	Message string `json:"message"`
}

func WriteJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func WriteSuccess(w http.ResponseWriter, status int, data interface{}) {
	WriteJSON(w, status, Envelope{Success: true, Data: data})
}

func WriteError(w http.ResponseWriter, status int, message, details string) {
	WriteJSON(w, status, Envelope{
		Success: false,
		Error: &ErrorBody{
			Message:    message,
			StatusCode: status,
			Timestamp:  time.Now().UTC().Format(time.RFC3339),
			Details:    details,
		},
	})
}
