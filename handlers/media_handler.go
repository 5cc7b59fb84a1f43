package handlers

import (
	"net/http"

	"github.com/Dosada05/clubhub/middleware"
	"github.com/Dosada05/clubhub/services"
)

type MediaHandler struct {
	mediaService services.MediaService
}

func NewMediaHandler(mediaService services.MediaService) *MediaHandler {
	return &MediaHandler{mediaService: mediaService}
}

func (h *MediaHandler) ListMedia(w http.ResponseWriter, r *http.Request) {
	clubID, err := getIDFromURL(r, "clubID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	media, err := h.mediaService.List(r.Context(), middleware.GetIdentityFromContext(r.Context()), clubID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"media": media}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *MediaHandler) GetMedia(w http.ResponseWriter, r *http.Request) {
	clubID, err := getIDFromURL(r, "clubID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	mediaID, err := getIDFromURL(r, "mediaID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	media, err := h.mediaService.Get(r.Context(), middleware.GetIdentityFromContext(r.Context()), clubID, mediaID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"media": media}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// UploadMedia godoc
// @Summary Загрузить файл в медиатеку клуба
// @Tags media
// @Accept multipart/form-data
// @Produce json
// @Param clubID path int true "Club ID"
// @Param file formData file true "png, jpg, jpeg, gif, pdf, mp4, mov, webp"
// @Param description formData string false "Описание"
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} map[string]string "Недопустимый файл"
// @Failure 403 {object} map[string]string "Не лидер клуба"
// @Security BearerAuth
// @Router /clubs/{clubID}/media [post]
func (h *MediaHandler) UploadMedia(w http.ResponseWriter, r *http.Request) {
	clubID, err := getIDFromURL(r, "clubID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	upload, file, err := readUpload(w, r, "file")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	defer file.Close()

	identity := middleware.GetIdentityFromContext(r.Context())
	media, err := h.mediaService.Upload(r.Context(), identity, clubID, upload, r.FormValue("description"))
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusCreated, jsonResponse{"media": media}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
