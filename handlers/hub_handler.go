package handlers

import (
	"net/http"
	"time"

	"github.com/Dosada05/clubhub/middleware"
	"github.com/Dosada05/clubhub/services"
)

// HubHandler serves the landing page and the campus-wide registries.
type HubHandler struct {
	hubService      services.HubService
	menuService     services.MenuService
	calendarService services.CalendarService
	badgeService    services.BadgeService
	now             func() time.Time
}

func NewHubHandler(
	hubService services.HubService,
	menuService services.MenuService,
	calendarService services.CalendarService,
	badgeService services.BadgeService,
) *HubHandler {
	return &HubHandler{
		hubService:      hubService,
		menuService:     menuService,
		calendarService: calendarService,
		badgeService:    badgeService,
		now:             time.Now,
	}
}

// Overview godoc
// @Summary Главная страница
// @Description Ближайшие события, последние новости, меню недели, календарь; для авторизованных также клубы и значки.
// @Tags hub
// @Produce json
// @Success 200 {object} models.HubOverview
// @Router /hub [get]
func (h *HubHandler) Overview(w http.ResponseWriter, r *http.Request) {
	overview, err := h.hubService.Overview(r.Context(), middleware.GetIdentityFromContext(r.Context()))
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, overview, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *HubHandler) WeekMenu(w http.ResponseWriter, r *http.Request) {
	menu, err := h.menuService.WeekMenu(r.Context(), h.now())
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"menu": menu}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *HubHandler) Calendar(w http.ResponseWriter, r *http.Request) {
	entries, err := h.calendarService.Upcoming(r.Context(), h.now())
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"calendar": entries}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *HubHandler) ListBadges(w http.ResponseWriter, r *http.Request) {
	badges, err := h.badgeService.ListBadges(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"badges": badges}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
