package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	filesapp "github.com/nordvest/backend/internal/application/files"
	"github.com/nordvest/backend/internal/domain/files"
	"github.com/nordvest/backend/internal/domain/shared"
)

// uploadField is the multipart form field carrying the file
const uploadField = "file"

// FileHandler handles project file endpoints
type FileHandler struct {
	BaseHandler
	fileService *filesapp.Service
}

// NewFileHandler creates a new FileHandler
func NewFileHandler(fileService *filesapp.Service) *FileHandler {
	return &FileHandler{
		fileService: fileService,
	}
}

// FileListQuery optionally narrows a listing to images or documents
type FileListQuery struct {
	Kind string `form:"kind" binding:"omitempty,oneof=images documents"`
}

// Upload handles POST /api/projects/:id/files (multipart field "file")
func (h *FileHandler) Upload(c *gin.Context) {
	id, ok := h.projectID(c)
	if !ok {
		return
	}
	if !h.fileService.Enabled() {
		h.HandleError(c, shared.ErrStorageUnavailable)
		return
	}

	header, err := c.FormFile(uploadField)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			h.BindError(c, err)
			return
		}
		h.BadRequest(c, "multipart field \"file\" is required")
		return
	}

	f, err := header.Open()
	if err != nil {
		h.BadRequest(c, "uploaded file could not be read")
		return
	}
	defer f.Close()

	stored, err := h.fileService.Upload(c.Request.Context(), id, filesapp.Upload{
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Size:        header.Size,
		Body:        f,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, stored)
}

// List handles GET /api/projects/:id/files?kind=
func (h *FileHandler) List(c *gin.Context) {
	id, ok := h.projectID(c)
	if !ok {
		return
	}

	var query FileListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		h.BindError(c, err)
		return
	}

	list, err := h.fileService.List(c.Request.Context(), id, files.Kind(query.Kind))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, list)
}

// Delete handles DELETE /api/projects/:id/files/*key
func (h *FileHandler) Delete(c *gin.Context) {
	id, ok := h.projectID(c)
	if !ok {
		return
	}

	if err := h.fileService.Delete(c.Request.Context(), id, c.Param("key")); err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, nil)
}
