// Package httputil holds the JSON request/response helpers shared by the
// API handlers, keeping the error envelope identical across endpoints.
package httputil

import (
	"encoding/json"
	"log"
	"net/http"
)

// ErrorResponse is the error envelope every endpoint returns.
type ErrorResponse struct {
	Error string `json:"error"`
}

// JSON writes data as a JSON response with the given status.
func JSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("[HTTP] Failed to encode response: %v", err)
	}
}

// OK writes a 200 response.
func OK(w http.ResponseWriter, data interface{}) {
	JSON(w, http.StatusOK, data)
}

// Error writes the JSON error envelope with the given status.
func Error(w http.ResponseWriter, status int, message string) {
	JSON(w, status, ErrorResponse{Error: message})
}

// BadRequest writes a 400 error.
func BadRequest(w http.ResponseWriter, message string) {
	Error(w, http.StatusBadRequest, message)
}

// NotFound writes a 404 error.
func NotFound(w http.ResponseWriter, message string) {
	Error(w, http.StatusNotFound, message)
}

// Unavailable writes a 503 error.
func Unavailable(w http.ResponseWriter, message string) {
	Error(w, http.StatusServiceUnavailable, message)
}

// InternalError logs the real error and returns a generic 500 so internals
// never leak to clients.
func InternalError(w http.ResponseWriter, err error) {
	log.Printf("[HTTP] Internal error: %v", err)
	Error(w, http.StatusInternalServerError, "internal server error")
}

// Decode reads the JSON request body into dst, writing a 400 response and
// returning false when parsing fails.
func Decode(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		BadRequest(w, "invalid request body")
		return false
	}
	return true
}
