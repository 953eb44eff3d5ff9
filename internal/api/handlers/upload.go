package handlers

import (
	"context"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/studyhub-ai/studyhub/internal/api"
	"github.com/studyhub-ai/studyhub/internal/api/middleware"
	"github.com/studyhub-ai/studyhub/internal/domain"
)

type UploadService interface {
	CreateUpload(ctx context.Context, userID, filename, contentType string, body io.Reader) (*domain.Upload, error)
	GetUpload(ctx context.Context, userID, id string) (*domain.Upload, error)
	ListUploads(ctx context.Context, userID string) ([]*domain.Upload, error)
	DownloadUpload(ctx context.Context, userID, id string) (*domain.Upload, io.ReadCloser, error)
	DeleteUpload(ctx context.Context, userID, id string) error
}

type UploadHandler struct {
	svc UploadService
}

func NewUploadHandler(svc UploadService) *UploadHandler {
	return &UploadHandler{svc: svc}
}

type UploadResponse struct {
	ID          string `json:"id"`
	Filename    string `json:"filename"`
	ContentType string `json:"content_type"`
	SizeBytes   int64  `json:"size_bytes"`
	Status      string `json:"status"`
	CreatedAt   string `json:"created_at"`
}

func uploadToResponse(u *domain.Upload) *UploadResponse {
	return &UploadResponse{
		ID:          u.ID,
		Filename:    u.Filename,
		ContentType: u.ContentType,
		SizeBytes:   u.SizeBytes,
		Status:      string(u.Status),
		CreatedAt:   u.CreatedAt.Format("2006-01-02T15:04:05Z"),
	}
}

// Create accepts a multipart form with a single "file" part.
func (h *UploadHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		api.Error(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		api.Error(w, http.StatusBadRequest, "missing file")
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	upload, err := h.svc.CreateUpload(r.Context(), userID, header.Filename, contentType, file)
	if err != nil {
		api.HandleError(w, err)
		return
	}

	api.Success(w, http.StatusCreated, uploadToResponse(upload))
}

func (h *UploadHandler) List(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	uploads, err := h.svc.ListUploads(r.Context(), userID)
	if err != nil {
		api.HandleError(w, err)
		return
	}

	resp := make([]*UploadResponse, 0, len(uploads))
	for _, u := range uploads {
		resp = append(resp, uploadToResponse(u))
	}
	api.Success(w, http.StatusOK, resp)
}

func (h *UploadHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	upload, err := h.svc.GetUpload(r.Context(), userID, chi.URLParam(r, "id"))
	if err != nil {
		api.HandleError(w, err)
		return
	}
	api.Success(w, http.StatusOK, uploadToResponse(upload))
}

func (h *UploadHandler) Download(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	upload, body, err := h.svc.DownloadUpload(r.Context(), userID, chi.URLParam(r, "id"))
	if err != nil {
		api.HandleError(w, err)
		return
	}
	defer body.Close()

	w.Header().Set("Content-Type", upload.ContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+upload.Filename+`"`)
	w.WriteHeader(http.StatusOK)
	io.Copy(w, body)
}

func (h *UploadHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	if err := h.svc.DeleteUpload(r.Context(), userID, chi.URLParam(r, "id")); err != nil {
		api.HandleError(w, err)
		return
	}

	api.JSON(w, http.StatusNoContent, nil)
}
