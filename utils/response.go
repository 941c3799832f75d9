package utils

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"eventspark/models"
)

// RespondWithJSON sends data with the given status code.
func RespondWithJSON(w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("Failed to encode response: %v", err)
	}
}

// RespondWithData wraps data in the success envelope.
func RespondWithData(w http.ResponseWriter, statusCode int, data any) {
	RespondWithJSON(w, statusCode, map[string]any{
		"success": true,
		"data":    data,
	})
}

func RespondWithError(w http.ResponseWriter, code int, msg string) {
	RespondWithJSON(w, code, map[string]any{
		"success": false,
		"message": msg,
	})
}

// RespondWithAppError maps err to a status code. Infrastructure failures
// are logged and hidden behind a generic message.
func RespondWithAppError(w http.ResponseWriter, err error) {
	var appErr *models.Error
	if !errors.As(err, &appErr) {
		log.Printf("Internal error: %v", err)
		RespondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	body := map[string]any{
		"success": false,
		"message": appErr.Message,
		"kind":    appErr.Kind,
		"code":    appErr.Code,
	}
	if len(appErr.Seats) > 0 {
		body["seats"] = appErr.Seats
	}
	RespondWithJSON(w, StatusFor(err), body)
}

func StatusFor(err error) int {
	if errors.Is(err, models.ErrPaymentFailed) {
		return http.StatusBadRequest
	}
	switch models.KindOf(err) {
	case models.KindNotFound:
		return http.StatusNotFound
	case models.KindConflict:
		return http.StatusConflict
	case models.KindUnauthorized:
		return http.StatusForbidden
	case models.KindUnauthenticated:
		return http.StatusUnauthorized
	case models.KindValidation:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// DecodeJSON reads a JSON request body into v.
func DecodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(v); err != nil {
		return models.Validation("Invalid request body")
	}
	return nil
}
