// Package httpx provides the uniform {result, err} response envelope used by
// every command endpoint.
package httpx

import (
	"encoding/json"
	"net/http"
)

// Envelope is the shape of every command response. Err is false when the
// operation took effect and a localized message otherwise; callers key
// success off Err truthiness, never off Result being non-empty.
type Envelope struct {
	Result any `json:"result"`
	Err    any `json:"err"`
}

// JSON sends a JSON response with the given status code.
func JSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// OK wraps a successful result in the envelope.
func OK(w http.ResponseWriter, status int, result any) {
	JSON(w, status, Envelope{Result: result, Err: false})
}

// Fail wraps a localized failure message in the envelope.
func Fail(w http.ResponseWriter, status int, message string) {
	JSON(w, status, Envelope{Result: nil, Err: message})
}

// DecodeJSON decodes a JSON request body into the target struct.
func DecodeJSON(r *http.Request, target any) error {
	return json.NewDecoder(r.Body).Decode(target)
}
