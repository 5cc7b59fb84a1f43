package handlers

import (
	"net/http"

	"github.com/Dosada05/clubhub/middleware"
	"github.com/Dosada05/clubhub/services"
)

type ForumHandler struct {
	forumService services.ForumService
}

func NewForumHandler(forumService services.ForumService) *ForumHandler {
	return &ForumHandler{forumService: forumService}
}

func (h *ForumHandler) ListTopics(w http.ResponseWriter, r *http.Request) {
	clubID, err := getIDFromURL(r, "clubID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	topics, err := h.forumService.ListTopics(r.Context(), middleware.GetIdentityFromContext(r.Context()), clubID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"topics": topics}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// CreateTopic godoc
// @Summary Новая тема форума клуба
// @Tags forum
// @Accept json
// @Produce json
// @Param clubID path int true "Club ID"
// @Param body body services.TopicInput true "title, content"
// @Success 201 {object} map[string]interface{}
// @Failure 403 {object} map[string]string "Только для участников клуба"
// @Security BearerAuth
// @Router /clubs/{clubID}/forum/topics [post]
func (h *ForumHandler) CreateTopic(w http.ResponseWriter, r *http.Request) {
	clubID, err := getIDFromURL(r, "clubID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input services.TopicInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	topic, err := h.forumService.CreateTopic(r.Context(), middleware.GetIdentityFromContext(r.Context()), clubID, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusCreated, jsonResponse{"topic": topic}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *ForumHandler) GetTopic(w http.ResponseWriter, r *http.Request) {
	clubID, err := getIDFromURL(r, "clubID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	topicID, err := getIDFromURL(r, "topicID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	topic, err := h.forumService.GetTopic(r.Context(), middleware.GetIdentityFromContext(r.Context()), clubID, topicID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"topic": topic}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *ForumHandler) CreatePost(w http.ResponseWriter, r *http.Request) {
	clubID, err := getIDFromURL(r, "clubID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	topicID, err := getIDFromURL(r, "topicID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input services.PostInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	post, err := h.forumService.CreatePost(r.Context(), middleware.GetIdentityFromContext(r.Context()), clubID, topicID, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusCreated, jsonResponse{"post": post}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
