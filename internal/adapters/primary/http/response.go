package http

import (
	"encoding/json"
	"net/http"
)

// SuccessResponse wraps a successful response
type SuccessResponse struct {
	Data    interface{} `json:"data,omitempty"`
	Message string      `json:"message,omitempty"`
}

// ListResponse wraps a list of items
type ListResponse[T any] struct {
	Data  []T `json:"data"`
	Count int `json:"count"`
}

// WriteJSON writes a JSON response with the given status code
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	// The status line is already written, so encode errors are unrecoverable.
	_ = json.NewEncoder(w).Encode(v)
}

// WriteSuccess writes a success response
func WriteSuccess(w http.ResponseWriter, data any) {
	WriteJSON(w, http.StatusOK, SuccessResponse{Data: data})
}

// WriteList writes a simple list response
func WriteList[T any](w http.ResponseWriter, data []T) {
	response := ListResponse[T]{
		Data:  data,
		Count: len(data),
	}

	WriteJSON(w, http.StatusOK, response)
}
