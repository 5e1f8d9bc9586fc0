// internal/handlers/file/file_handler.go
package file

import (
	"io"
	"net/http"
	"strconv"

	"projexa-service/internal/middleware"
	"projexa-service/internal/pkg/response"
	service "projexa-service/internal/service/file"

	"github.com/gin-gonic/gin"
)

// maxUploadBytes caps multipart uploads at 25MB.
const maxUploadBytes = 25 << 20

type FileHandler struct {
	fileService *service.FileService
}

func NewFileHandler(fileService *service.FileService) *FileHandler {
	return &FileHandler{fileService: fileService}
}

// Upload accepts a multipart form with a "file" part and stores it against
// the project.
func (h *FileHandler) Upload(c *gin.Context) {
	identityID := middleware.MustGetIdentityID(c)

	projectID, err := strconv.ParseInt(c.PostForm("project_id"), 10, 64)
	if err != nil || projectID < 1 {
		response.Error(c, http.StatusBadRequest, "invalid project_id", err)
		return
	}

	header, err := c.FormFile("file")
	if err != nil {
		response.Error(c, http.StatusBadRequest, "missing file", err)
		return
	}
	if header.Size > maxUploadBytes {
		response.Error(c, http.StatusRequestEntityTooLarge, "file too large", nil)
		return
	}

	f, err := header.Open()
	if err != nil {
		response.Error(c, http.StatusBadRequest, "failed to read file", err)
		return
	}
	defer f.Close()

	content, err := io.ReadAll(io.LimitReader(f, maxUploadBytes+1))
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "failed to read file", err)
		return
	}

	record, err := h.fileService.Upload(c.Request.Context(), projectID, identityID,
		header.Filename, header.Header.Get("Content-Type"), content)
	if err != nil {
		response.FromError(c, err, "failed to upload file")
		return
	}

	response.Success(c, http.StatusCreated, "file uploaded", record)
}

// Download streams the file content back
func (h *FileHandler) Download(c *gin.Context) {
	identityID := middleware.MustGetIdentityID(c)

	fileID, ok := pathID(c)
	if !ok {
		return
	}

	record, content, err := h.fileService.Download(c.Request.Context(), fileID, identityID)
	if err != nil {
		response.FromError(c, err, "failed to download file")
		return
	}

	contentType := "application/octet-stream"
	if record.MimeType.Valid {
		contentType = record.MimeType.String
	}

	c.Header("Content-Disposition", `attachment; filename="`+record.Name+`"`)
	c.Data(http.StatusOK, contentType, content)
}

// ListByProject returns the metadata of a project's files
func (h *FileHandler) ListByProject(c *gin.Context) {
	identityID := middleware.MustGetIdentityID(c)

	projectID, err := strconv.ParseInt(c.Query("project_id"), 10, 64)
	if err != nil || projectID < 1 {
		response.Error(c, http.StatusBadRequest, "invalid project_id", err)
		return
	}

	files, err := h.fileService.ListByProject(c.Request.Context(), projectID, identityID)
	if err != nil {
		response.FromError(c, err, "failed to list files")
		return
	}

	response.Success(c, http.StatusOK, "files retrieved", gin.H{"files": files})
}

func (h *FileHandler) Delete(c *gin.Context) {
	identityID := middleware.MustGetIdentityID(c)
	role, _ := middleware.GetRole(c)

	fileID, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.fileService.Delete(c.Request.Context(), fileID, identityID, role); err != nil {
		response.FromError(c, err, "failed to delete file")
		return
	}

	response.Success(c, http.StatusOK, "file deleted", nil)
}

func pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id < 1 {
		response.Error(c, http.StatusBadRequest, "invalid file ID", err)
		return 0, false
	}
	return id, true
}
