package controllers

import (
	"errors"
	"log/slog"
	"net/http"

	"venuebooking/internal/delivery/http/helpers"
	"venuebooking/internal/domain"
)

// maxUploadRequestBytes bounds the whole multipart request. The service
// enforces the 5 MiB per-file cap; the extra megabyte covers form overhead.
const maxUploadRequestBytes = 6 << 20

// UploadImageSuccessResponse is the success response envelope for POST /uploads (201).
type UploadImageSuccessResponse struct {
	Data  *domain.UploadedFile `json:"data"`
	Error *helpers.APIError    `json:"error"`
}

// UploadController handles venue image uploads.
type UploadController struct {
	Logger  *slog.Logger
	Service domain.UploadService
}

func NewUploadController(logger *slog.Logger, svc domain.UploadService) *UploadController {
	return &UploadController{
		Logger:  logger,
		Service: svc,
	}
}

// UploadImage godoc
// @Summary Upload a venue image
// @Description Upload an image (jpg, jpeg, png, or webp, max 5 MiB) as multipart form data under the "file" field. Returns the storage key and public URL; set the URL as a venue's image_url. Requires an organizer Bearer token.
// @Tags uploads
// @Accept mpfd
// @Produce json
// @Security BearerAuth
// @Param file formData file true "Image file"
// @Success 201 {object} controllers.UploadImageSuccessResponse "data contains key and url"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /uploads [post]
func (c *UploadController) UploadImage(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadRequestBytes)

	file, header, err := r.FormFile("file")
	if err != nil {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "file is required and must not exceed 5 MiB")
		return
	}
	defer file.Close()

	uploaded, err := c.Service.UploadImage(r.Context(), header.Filename, header.Header.Get("Content-Type"), file, header.Size)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, err.Error())
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, uploaded)
}
