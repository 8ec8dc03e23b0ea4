// Package handler contains chi HTTP handlers that translate HTTP
// requests/responses to and from the service layer.
package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/libardo24/Prueba-Tecnica-Eventos/internal/model"
	"github.com/libardo24/Prueba-Tecnica-Eventos/internal/repository"
	"github.com/libardo24/Prueba-Tecnica-Eventos/internal/service"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, model.ErrorResponse{Error: msg})
}

func decodeJSON(r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(nil, r.Body, 1<<20) // 1 MB limit
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}

// writeServiceError maps service and repository errors onto HTTP statuses:
// validation -> 400, absent entity -> 404, state conflicts -> 400 (matching
// the API's historical contract), bad credentials -> 401, anything else ->
// 500 with a generic message so raw store errors never reach clients.
func writeServiceError(w http.ResponseWriter, err error) {
	var verr *service.ValidationError
	switch {
	case errors.As(err, &verr):
		writeJSON(w, http.StatusBadRequest, model.ErrorResponse{
			Error:  "validation failed",
			Fields: verr.Fields,
		})
	case errors.Is(err, repository.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, repository.ErrDuplicateEmail),
		errors.Is(err, repository.ErrAlreadyRegistered),
		errors.Is(err, repository.ErrEventFull),
		errors.Is(err, repository.ErrNotRegistered),
		errors.Is(err, repository.ErrNotRegisteredForEvent),
		errors.Is(err, repository.ErrSessionFull),
		errors.Is(err, repository.ErrAlreadyInSession),
		errors.Is(err, repository.ErrScheduleConflict),
		errors.Is(err, service.ErrOutsideEventWindow),
		errors.Is(err, service.ErrSessionOverlap):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}

// HealthCheck handles GET /health
func HealthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
