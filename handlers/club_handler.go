package handlers

import (
	"net/http"

	"github.com/Dosada05/clubhub/middleware"
	"github.com/Dosada05/clubhub/services"
)

type ClubHandler struct {
	clubService       services.ClubService
	membershipService services.MembershipService
}

func NewClubHandler(clubService services.ClubService, membershipService services.MembershipService) *ClubHandler {
	return &ClubHandler{
		clubService:       clubService,
		membershipService: membershipService,
	}
}

// ListClubs godoc
// @Summary Список клубов
// @Tags clubs
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /clubs [get]
func (h *ClubHandler) ListClubs(w http.ResponseWriter, r *http.Request) {
	clubs, err := h.clubService.List(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"clubs": clubs}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// Ranking godoc
// @Summary Рейтинг клубов по числу участников
// @Tags clubs
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /clubs/ranking [get]
func (h *ClubHandler) Ranking(w http.ResponseWriter, r *http.Request) {
	clubs, err := h.clubService.Ranking(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"clubs": clubs}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// GetClub godoc
// @Summary Страница клуба
// @Tags clubs
// @Produce json
// @Param clubID path int true "Club ID"
// @Success 200 {object} models.ClubDetail
// @Failure 404 {object} map[string]string
// @Router /clubs/{clubID} [get]
func (h *ClubHandler) GetClub(w http.ResponseWriter, r *http.Request) {
	clubID, err := getIDFromURL(r, "clubID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	detail, err := h.clubService.Get(r.Context(), middleware.GetIdentityFromContext(r.Context()), clubID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, detail, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *ClubHandler) ListMembers(w http.ResponseWriter, r *http.Request) {
	clubID, err := getIDFromURL(r, "clubID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	members, err := h.clubService.Members(r.Context(), clubID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	for i := range members {
		members[i].Email = ""
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"members": members}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// CreateClub godoc
// @Summary Создать клуб
// @Description Создатель становится лидером и первым участником клуба.
// @Tags clubs
// @Accept json
// @Produce json
// @Param body body services.ClubInput true "name, description, category"
// @Success 201 {object} map[string]interface{}
// @Failure 409 {object} map[string]string "Имя клуба занято"
// @Security BearerAuth
// @Router /clubs [post]
func (h *ClubHandler) CreateClub(w http.ResponseWriter, r *http.Request) {
	var input services.ClubInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	club, err := h.clubService.Create(r.Context(), middleware.GetIdentityFromContext(r.Context()), input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusCreated, jsonResponse{"club": club}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *ClubHandler) UpdateClub(w http.ResponseWriter, r *http.Request) {
	clubID, err := getIDFromURL(r, "clubID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input services.ClubInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	club, err := h.clubService.Update(r.Context(), middleware.GetIdentityFromContext(r.Context()), clubID, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"club": club}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *ClubHandler) DeleteClub(w http.ResponseWriter, r *http.Request) {
	clubID, err := getIDFromURL(r, "clubID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := h.clubService.Delete(r.Context(), middleware.GetIdentityFromContext(r.Context()), clubID); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// JoinClub godoc
// @Summary Вступить в клуб
// @Description Повторное вступление ничего не меняет.
// @Tags clubs
// @Produce json
// @Param clubID path int true "Club ID"
// @Success 200 {object} map[string]interface{} "joined=false, если пользователь уже участник"
// @Security BearerAuth
// @Router /clubs/{clubID}/join [post]
func (h *ClubHandler) JoinClub(w http.ResponseWriter, r *http.Request) {
	clubID, err := getIDFromURL(r, "clubID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	joined, err := h.membershipService.Join(r.Context(), middleware.GetIdentityFromContext(r.Context()), clubID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"joined": joined}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *ClubHandler) LeaveClub(w http.ResponseWriter, r *http.Request) {
	clubID, err := getIDFromURL(r, "clubID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	left, err := h.membershipService.Leave(r.Context(), middleware.GetIdentityFromContext(r.Context()), clubID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"left": left}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
