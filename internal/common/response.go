package common

import (
	"encoding/json"
	"net/http"

	"userhub/internal/common/validation"
)

const (
	ErrorTypeValidation   = "validation"
	ErrorTypeAuthenticate = "authenticate"
	ErrorTypeServer       = "server"
)

// EntitiesResponse is the success envelope; every 200/201 body wraps
// its resources in an entities array.
type EntitiesResponse struct {
	Entities []interface{} `json:"entities"`
}

type ErrorResponse struct {
	Status  string              `json:"status"`
	Type    string              `json:"type"`
	Message string              `json:"message"`
	Errors  map[string][]string `json:"errors,omitempty"`
}

func RespondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"status":"error","type":"server","message":"Failed to marshal JSON response"}`))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}

func RespondWithEntities(w http.ResponseWriter, code int, entities ...interface{}) {
	RespondWithJSON(w, code, EntitiesResponse{Entities: entities})
}

func RespondNoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}

func RespondWithError(w http.ResponseWriter, code int, errType, message string) {
	RespondWithJSON(w, code, ErrorResponse{Status: "error", Type: errType, Message: message})
}

// RespondWithValidationErrors writes the 400 validation envelope; the
// top-level message carries the first violation in field order.
func RespondWithValidationErrors(w http.ResponseWriter, ve *validation.Errors) {
	RespondWithJSON(w, http.StatusBadRequest, ErrorResponse{
		Status:  "error",
		Type:    ErrorTypeValidation,
		Message: ve.First(),
		Errors:  ve.Fields(),
	})
}
