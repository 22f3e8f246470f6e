package response

import (
	"encoding/json"
	"net/http"
)

const contentTypeJSON = "application/json; charset=utf-8"

// Envelope wraps every success body as {"data": ...}.
type Envelope struct {
	Data any `json:"data"`
}

// WriteJSON writes v with status, defaulting Content-Type to JSON when the caller has not set one.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	if w.Header().Get("Content-Type") == "" {
		w.Header().Set("Content-Type", contentTypeJSON)
	}
	writeJSON(w, status, v)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func OK(w http.ResponseWriter, data any)       { WriteJSON(w, http.StatusOK, Envelope{Data: data}) }
func Created(w http.ResponseWriter, data any)  { WriteJSON(w, http.StatusCreated, Envelope{Data: data}) }
func Accepted(w http.ResponseWriter, data any) { WriteJSON(w, http.StatusAccepted, Envelope{Data: data}) }
