package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/fretvault/api/internal/application"
	"github.com/fretvault/api/pkg/response"
)

type FileHandler struct {
	Svc    *application.StorageService
	Logger *logrus.Logger
}

func NewFileHandler(svc *application.StorageService, logger *logrus.Logger) *FileHandler {
	return &FileHandler{Svc: svc, Logger: logger}
}

type uploadRequest struct {
	Filename    string `json:"filename" binding:"required,max=255"`
	ContentType string `json:"content_type" binding:"required,max=255"`
	SizeBytes   int64  `json:"size_bytes" binding:"required,min=1"`
}

// UploadURL POST /api/files/upload-url
func (h *FileHandler) UploadURL(c *gin.Context) {
	var req uploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badPayload(c, err)
		return
	}
	up, err := h.Svc.CreateUpload(c.Request.Context(), userID(c), application.UploadInput{
		Filename:    req.Filename,
		ContentType: req.ContentType,
		SizeBytes:   req.SizeBytes,
	})
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusCreated, toUploadDTO(up), "upload url issued", nil)
}

// Complete POST /api/files/:id/complete
func (h *FileHandler) Complete(c *gin.Context) {
	f, err := h.Svc.CompleteUpload(c.Request.Context(), userID(c), c.Param("id"))
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, toFileDTO(f), "upload completed", nil)
}

// DownloadURL GET /api/files/:id/download-url
func (h *FileHandler) DownloadURL(c *gin.Context) {
	d, err := h.Svc.DownloadURL(c.Request.Context(), userID(c), c.Param("id"))
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, downloadDTO{URL: d.URL, ExpiresAt: d.ExpiresAt}, "download url issued", nil)
}

// List GET /api/files
func (h *FileHandler) List(c *gin.Context) {
	files, err := h.Svc.List(c.Request.Context(), userID(c))
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	out := make([]fileDTO, 0, len(files))
	for i := range files {
		out = append(out, toFileDTO(&files[i]))
	}
	response.Success(c, http.StatusOK, out, "files", response.Page{Count: len(out)})
}

// Delete DELETE /api/files/:id
func (h *FileHandler) Delete(c *gin.Context) {
	if err := h.Svc.Delete(c.Request.Context(), userID(c), c.Param("id")); err != nil {
		respondError(c, h.Logger, err)
		return
	}
	response.Success[any](c, http.StatusOK, gin.H{"deleted": true}, "file deleted", nil)
}
