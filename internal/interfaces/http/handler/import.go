package handler

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	importapp "github.com/filterdesk/backend/internal/application/import"
	"github.com/filterdesk/backend/internal/domain/bulk"
	"github.com/filterdesk/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// DefaultMaxUploadSize bounds spreadsheet uploads when no limit is configured
const DefaultMaxUploadSize int64 = 10 << 20

// ImportHandler handles spreadsheet uploads. Both routes share the :ref path
// segment, which is the entity on preview and the session id on commit.
type ImportHandler struct {
	BaseHandler
	importService *importapp.ImportService
	maxUploadSize int64
}

// NewImportHandler creates a new ImportHandler
func NewImportHandler(importService *importapp.ImportService, maxUploadSize int64) *ImportHandler {
	if maxUploadSize <= 0 {
		maxUploadSize = DefaultMaxUploadSize
	}
	return &ImportHandler{importService: importService, maxUploadSize: maxUploadSize}
}

// Preview handles POST /api/v1/imports/:ref/preview with a multipart "file"
//
// @ID           previewImport
// @Summary      Preview a spreadsheet import
// @Description  Parses the file and keeps a session to commit. Product imports are admin only
// @Tags         imports
// @Accept       multipart/form-data
// @Produce      json
// @Param        ref path string true "Entity (clients or products)"
// @Param        file formData file true "Spreadsheet or CSV file"
// @Success      200 {object} APIResponse[importapp.PreviewResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Failure      413 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     SessionCookie
// @Router       /imports/{ref}/preview [post]
func (h *ImportHandler) Preview(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	entity := c.Param("ref")
	if bulk.ImportEntityType(entity) == bulk.ImportEntityProducts && !actor.IsAdmin() {
		h.Forbidden(c, "Only administrators can import products")
		return
	}

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUploadSize)
	fileHeader, err := c.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			h.Error(c, http.StatusRequestEntityTooLarge, dto.ErrCodeRequestTooLarge,
				fmt.Sprintf("File exceeds the %d MB upload limit", h.maxUploadSize>>20))
			return
		}
		h.BadRequest(c, "A file must be uploaded in the \"file\" field")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		h.BadRequest(c, "Could not read the uploaded file")
		return
	}
	defer file.Close()
	data, err := io.ReadAll(file)
	if err != nil {
		h.BadRequest(c, "Could not read the uploaded file")
		return
	}

	preview, err := h.importService.Preview(c.Request.Context(), actor, entity, fileHeader.Filename, data)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, preview)
}

// Commit handles POST /api/v1/imports/:ref/commit
//
// @ID           commitImport
// @Summary      Commit an import
// @Tags         imports
// @Produce      json
// @Param        ref path string true "Import session ID" format(uuid)
// @Success      200 {object} APIResponse[importapp.CommitResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     SessionCookie
// @Router       /imports/{ref}/commit [post]
func (h *ImportHandler) Commit(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	sessionID, err := uuid.Parse(c.Param("ref"))
	if err != nil {
		h.BadRequest(c, "Invalid import session id")
		return
	}

	session, err := h.importService.Session(c.Request.Context(), actor, sessionID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	if session.Entity == bulk.ImportEntityProducts && !actor.IsAdmin() {
		h.Forbidden(c, "Only administrators can import products")
		return
	}

	result, err := h.importService.Commit(c.Request.Context(), actor, sessionID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// History handles GET /api/v1/imports/history
//
// @ID           listImportHistory
// @Summary      Import history
// @Tags         imports
// @Produce      json
// @Param        entity_type query string false "Entity"
// @Param        status query string false "Status"
// @Param        imported_by query string false "User ID"
// @Param        page query int false "Page number"
// @Param        page_size query int false "Page size"
// @Success      200 {object} APIResponse[[]importapp.HistoryResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     SessionCookie
// @Router       /imports/history [get]
func (h *ImportHandler) History(c *gin.Context) {
	var filter importapp.HistoryListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BindError(c, err)
		return
	}
	page, err := h.importService.History(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	Paginated(c, page)
}
