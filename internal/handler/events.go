package handler

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/libardo24/Prueba-Tecnica-Eventos/internal/model"
	"github.com/libardo24/Prueba-Tecnica-Eventos/internal/service"
)

// EventHandler holds the HTTP handlers for the event API.
type EventHandler struct {
	svc *service.EventService
}

// NewEventHandler constructs an EventHandler.
func NewEventHandler(svc *service.EventService) *EventHandler {
	return &EventHandler{svc: svc}
}

func idParam(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	return id, err == nil && id > 0
}

func queryInt(r *http.Request, key string, fallback int) int {
	v := r.URL.Query().Get(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

// List handles GET /api/events
// Supports an optional case-insensitive name filter plus page/per_page.
func (h *EventHandler) List(w http.ResponseWriter, r *http.Request) {
	page := queryInt(r, "page", 1)
	perPage := queryInt(r, "per_page", 10)
	name := r.URL.Query().Get("name")

	result, err := h.svc.List(r.Context(), name, page, perPage)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// Create handles POST /api/events
func (h *EventHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req model.EventRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	event, err := h.svc.Create(r.Context(), req)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, event)
}

// Get handles GET /api/events/{id}
func (h *EventHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid event id")
		return
	}

	event, err := h.svc.Get(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, event)
}

// Update handles PUT /api/events/{id}
// Fully replaces the event's fields.
func (h *EventHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid event id")
		return
	}
	var req model.EventRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	if err := h.svc.Update(r.Context(), id, req); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "event updated successfully"})
}

// Delete handles DELETE /api/events/{id}
// Removes the event, its roster, and its sessions.
func (h *EventHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid event id")
		return
	}

	if err := h.svc.Delete(r.Context(), id); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Search handles GET /api/events/search
func (h *EventHandler) Search(w http.ResponseWriter, r *http.Request) {
	events, err := h.svc.Search(r.Context(), r.URL.Query().Get("name"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, events)
}

// Mine handles GET /api/events/mine
// Lists the events the authenticated user is registered for.
func (h *EventHandler) Mine(w http.ResponseWriter, r *http.Request) {
	userID, ok := UserID(r.Context())
	if !ok {
		writeError(w, http.StatusForbidden, "missing authenticated user")
		return
	}

	events, total, err := h.svc.ListMine(r.Context(), userID, queryInt(r, "page", 1), queryInt(r, "per_page", 10))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"events": events, "total": total})
}

// Register handles POST /api/events/{id}/register
func (h *EventHandler) Register(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid event id")
		return
	}
	userID, ok := UserID(r.Context())
	if !ok {
		writeError(w, http.StatusForbidden, "missing authenticated user")
		return
	}

	if err := h.svc.Register(r.Context(), userID, id); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "registered for event successfully"})
}

// Unregister handles DELETE /api/events/{id}/register
func (h *EventHandler) Unregister(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid event id")
		return
	}
	userID, ok := UserID(r.Context())
	if !ok {
		writeError(w, http.StatusForbidden, "missing authenticated user")
		return
	}

	if err := h.svc.Unregister(r.Context(), userID, id); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "event registration removed"})
}

// Capacity handles GET /api/events/{id}/capacity
func (h *EventHandler) Capacity(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid event id")
		return
	}

	available, err := h.svc.AvailableCapacity(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"available_capacity": available})
}
