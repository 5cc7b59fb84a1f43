package handlers

import (
	"net/http"

	"github.com/Dosada05/clubhub/middleware"
	"github.com/Dosada05/clubhub/services"
)

const defaultUpcomingLimit = 10

type EventHandler struct {
	eventService services.EventService
}

func NewEventHandler(eventService services.EventService) *EventHandler {
	return &EventHandler{eventService: eventService}
}

// ListEvents godoc
// @Summary Все события по дате проведения
// @Tags events
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /events [get]
func (h *EventHandler) ListEvents(w http.ResponseWriter, r *http.Request) {
	events, err := h.eventService.List(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"events": events}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *EventHandler) Upcoming(w http.ResponseWriter, r *http.Request) {
	limit, err := queryInt(r, "limit", defaultUpcomingLimit)
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	events, err := h.eventService.Upcoming(r.Context(), limit)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"events": events}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *EventHandler) ListClubEvents(w http.ResponseWriter, r *http.Request) {
	clubID, err := getIDFromURL(r, "clubID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	events, err := h.eventService.ListByClub(r.Context(), clubID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"events": events}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *EventHandler) GetEvent(w http.ResponseWriter, r *http.Request) {
	eventID, err := getIDFromURL(r, "eventID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	event, err := h.eventService.Get(r.Context(), middleware.GetIdentityFromContext(r.Context()), eventID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"event": event}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// CreateEvent godoc
// @Summary Создать событие клуба
// @Description Только лидер клуба. Вместе с событием публикуется новость.
// @Tags events
// @Accept json
// @Produce json
// @Param clubID path int true "Club ID"
// @Param body body services.EventInput true "title, description, capacity, scheduled_at"
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} map[string]string "Вместимость должна быть больше нуля"
// @Failure 403 {object} map[string]string "Не лидер клуба"
// @Security BearerAuth
// @Router /clubs/{clubID}/events [post]
func (h *EventHandler) CreateEvent(w http.ResponseWriter, r *http.Request) {
	clubID, err := getIDFromURL(r, "clubID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input services.EventInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	event, err := h.eventService.Create(r.Context(), middleware.GetIdentityFromContext(r.Context()), clubID, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusCreated, jsonResponse{"event": event}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// Enroll godoc
// @Summary Записаться на событие
// @Tags events
// @Produce json
// @Param eventID path int true "Event ID"
// @Success 200 {object} map[string]interface{}
// @Failure 409 {object} map[string]string "Уже записан или мест нет"
// @Security BearerAuth
// @Router /events/{eventID}/enroll [post]
func (h *EventHandler) Enroll(w http.ResponseWriter, r *http.Request) {
	eventID, err := getIDFromURL(r, "eventID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	event, err := h.eventService.Enroll(r.Context(), middleware.GetIdentityFromContext(r.Context()), eventID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"event": event}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
