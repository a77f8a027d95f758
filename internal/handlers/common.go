package handlers

import (
	"encoding/json"
	"net/http"

	"table-for-two-backend/internal/apperr"
)

// ErrorBody is the wire shape of a failure: a stable machine-readable kind
// plus a human-readable message.
type ErrorBody struct {
	Kind    apperr.Kind `json:"kind"`
	Message string      `json:"message"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error ErrorBody `json:"error"`
}

// respondJSON writes v as a JSON response
func respondJSON(w http.ResponseWriter, statusCode int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(v)
}

// respondError surfaces err's kind and message to the caller
func respondError(w http.ResponseWriter, err error) {
	kind := apperr.KindOf(err)
	respondJSON(w, kind.HTTPStatus(), ErrorResponse{
		Error: ErrorBody{Kind: kind, Message: apperr.MessageOf(err)},
	})
}

// respondInvalid is a shortcut for request decoding failures
func respondInvalid(w http.ResponseWriter, message string) {
	respondError(w, apperr.New(apperr.InvalidArgument, message))
}
