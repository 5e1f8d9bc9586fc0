// internal/handlers/sprint/sprint_handler.go
package sprint

import (
	"net/http"
	"strconv"

	"projexa-service/internal/domain/sprint"
	"projexa-service/internal/middleware"
	"projexa-service/internal/pkg/response"
	service "projexa-service/internal/service/sprint"

	"github.com/gin-gonic/gin"
)

type SprintHandler struct {
	sprintService *service.SprintService
}

func NewSprintHandler(sprintService *service.SprintService) *SprintHandler {
	return &SprintHandler{sprintService: sprintService}
}

func (h *SprintHandler) Create(c *gin.Context) {
	identityID := middleware.MustGetIdentityID(c)

	var req sprint.CreateSprintRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "invalid request body", err)
		return
	}

	sp, err := h.sprintService.Create(c.Request.Context(), identityID, &req)
	if err != nil {
		response.FromError(c, err, "failed to create sprint")
		return
	}

	response.Success(c, http.StatusCreated, "sprint created", sp)
}

func (h *SprintHandler) Get(c *gin.Context) {
	identityID := middleware.MustGetIdentityID(c)

	sprintID, ok := pathID(c)
	if !ok {
		return
	}

	sp, err := h.sprintService.Get(c.Request.Context(), sprintID, identityID)
	if err != nil {
		response.FromError(c, err, "failed to load sprint")
		return
	}

	response.Success(c, http.StatusOK, "sprint retrieved", sp)
}

// ListByProject returns a project's sprints; the project comes from the query
func (h *SprintHandler) ListByProject(c *gin.Context) {
	identityID := middleware.MustGetIdentityID(c)

	projectID, err := strconv.ParseInt(c.Query("project_id"), 10, 64)
	if err != nil || projectID < 1 {
		response.Error(c, http.StatusBadRequest, "invalid project_id", err)
		return
	}

	sprints, err := h.sprintService.ListByProject(c.Request.Context(), projectID, identityID)
	if err != nil {
		response.FromError(c, err, "failed to list sprints")
		return
	}

	response.Success(c, http.StatusOK, "sprints retrieved", gin.H{"sprints": sprints})
}

func (h *SprintHandler) Update(c *gin.Context) {
	identityID := middleware.MustGetIdentityID(c)

	sprintID, ok := pathID(c)
	if !ok {
		return
	}

	var req sprint.UpdateSprintRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "invalid request body", err)
		return
	}

	sp, err := h.sprintService.Update(c.Request.Context(), sprintID, identityID, &req)
	if err != nil {
		response.FromError(c, err, "failed to update sprint")
		return
	}

	response.Success(c, http.StatusOK, "sprint updated", sp)
}

func (h *SprintHandler) Delete(c *gin.Context) {
	identityID := middleware.MustGetIdentityID(c)

	sprintID, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.sprintService.Delete(c.Request.Context(), sprintID, identityID); err != nil {
		response.FromError(c, err, "failed to delete sprint")
		return
	}

	response.Success(c, http.StatusOK, "sprint deleted", nil)
}

func pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id < 1 {
		response.Error(c, http.StatusBadRequest, "invalid sprint ID", err)
		return 0, false
	}
	return id, true
}
