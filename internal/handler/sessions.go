package handler

import (
	"net/http"

	"github.com/libardo24/Prueba-Tecnica-Eventos/internal/model"
	"github.com/libardo24/Prueba-Tecnica-Eventos/internal/service"
)

// SessionHandler holds the HTTP handlers for the session API.
type SessionHandler struct {
	svc *service.SessionService
}

// NewSessionHandler constructs a SessionHandler.
func NewSessionHandler(svc *service.SessionService) *SessionHandler {
	return &SessionHandler{svc: svc}
}

// Create handles POST /api/sessions
// The session must fit inside its event's window and not overlap siblings.
func (h *SessionHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req model.SessionRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	session, err := h.svc.Create(r.Context(), req)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, session)
}

// List handles GET /api/sessions
// Returns every session with current attendee count and available capacity.
func (h *SessionHandler) List(w http.ResponseWriter, r *http.Request) {
	views, err := h.svc.ListAll(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"sessions": views})
}

// ListForEvent handles GET /api/events/{id}/sessions
func (h *SessionHandler) ListForEvent(w http.ResponseWriter, r *http.Request) {
	eventID, ok := idParam(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid event id")
		return
	}

	sessions, err := h.svc.ListForEvent(r.Context(), eventID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sessions)
}

// Update handles PUT /api/sessions/{id}
// Fully replaces the session's fields.
func (h *SessionHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid session id")
		return
	}
	var req model.SessionRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	if err := h.svc.Update(r.Context(), id, req); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "session updated successfully"})
}

// Delete handles DELETE /api/sessions/{id}
func (h *SessionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid session id")
		return
	}

	if err := h.svc.Delete(r.Context(), id); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Capacity handles GET /api/sessions/{id}/capacity
func (h *SessionHandler) Capacity(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid session id")
		return
	}

	available, err := h.svc.AvailableCapacity(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"available_capacity": available})
}

// RegisterAttendee handles POST /api/sessions/{id}/register
// The attendee must already be registered for the session's owning event.
func (h *SessionHandler) RegisterAttendee(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid session id")
		return
	}
	var req model.AttendeeRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if req.UserID <= 0 {
		writeError(w, http.StatusBadRequest, "user_id is required")
		return
	}

	if err := h.svc.RegisterAttendee(r.Context(), req.UserID, id); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"message": "attendee registered successfully"})
}

// AssignSpeaker handles PUT /api/sessions/{id}/speaker
func (h *SessionHandler) AssignSpeaker(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid session id")
		return
	}
	var req model.SpeakerRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	if err := h.svc.AssignSpeaker(r.Context(), id, req.Speaker); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "speaker assigned successfully"})
}

// Attendance handles GET /api/sessions/attendance
func (h *SessionHandler) Attendance(w http.ResponseWriter, r *http.Request) {
	records, err := h.svc.AttendanceRecords(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"attendance": records})
}
