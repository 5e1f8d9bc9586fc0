// internal/handlers/project/project_handler.go
package project

import (
	"net/http"
	"strconv"

	"projexa-service/internal/domain/project"
	"projexa-service/internal/middleware"
	"projexa-service/internal/pkg/response"
	service "projexa-service/internal/service/project"

	"github.com/gin-gonic/gin"
)

type ProjectHandler struct {
	projectService *service.ProjectService
	meetingService *service.MeetingService
}

func NewProjectHandler(projectService *service.ProjectService, meetingService *service.MeetingService) *ProjectHandler {
	return &ProjectHandler{
		projectService: projectService,
		meetingService: meetingService,
	}
}

// Create opens a new project owned by the caller
func (h *ProjectHandler) Create(c *gin.Context) {
	identityID := middleware.MustGetIdentityID(c)

	var req project.CreateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "invalid request body", err)
		return
	}

	p, err := h.projectService.Create(c.Request.Context(), identityID, &req)
	if err != nil {
		response.FromError(c, err, "failed to create project")
		return
	}

	response.Success(c, http.StatusCreated, "project created", p)
}

// Get returns one project
func (h *ProjectHandler) Get(c *gin.Context) {
	identityID := middleware.MustGetIdentityID(c)
	role, _ := middleware.GetRole(c)

	projectID, ok := pathID(c, "id")
	if !ok {
		return
	}

	p, err := h.projectService.Get(c.Request.Context(), projectID, identityID, role)
	if err != nil {
		response.FromError(c, err, "failed to load project")
		return
	}

	response.Success(c, http.StatusOK, "project retrieved", p)
}

// List returns the caller's projects
func (h *ProjectHandler) List(c *gin.Context) {
	identityID := middleware.MustGetIdentityID(c)

	var filters project.ProjectListFilters
	if err := c.ShouldBindQuery(&filters); err != nil {
		response.ValidationError(c, "invalid query parameters", err)
		return
	}

	result, err := h.projectService.List(c.Request.Context(), identityID, &filters)
	if err != nil {
		response.FromError(c, err, "failed to list projects")
		return
	}

	response.Success(c, http.StatusOK, "projects retrieved", result)
}

// Update edits project fields other than status
func (h *ProjectHandler) Update(c *gin.Context) {
	identityID := middleware.MustGetIdentityID(c)
	role, _ := middleware.GetRole(c)

	projectID, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req project.UpdateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "invalid request body", err)
		return
	}

	p, err := h.projectService.Update(c.Request.Context(), projectID, identityID, role, &req)
	if err != nil {
		response.FromError(c, err, "failed to update project")
		return
	}

	response.Success(c, http.StatusOK, "project updated", p)
}

// ChangeStatus moves the project through its workflow
func (h *ProjectHandler) ChangeStatus(c *gin.Context) {
	identityID := middleware.MustGetIdentityID(c)
	role, _ := middleware.GetRole(c)

	projectID, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req project.ChangeStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "invalid request body", err)
		return
	}

	p, err := h.projectService.ChangeStatus(c.Request.Context(), projectID, identityID, role, &req)
	if err != nil {
		response.FromError(c, err, "failed to change status")
		return
	}

	response.Success(c, http.StatusOK, "status changed", p)
}

// Delete removes the project and everything attached to it
func (h *ProjectHandler) Delete(c *gin.Context) {
	identityID := middleware.MustGetIdentityID(c)
	role, _ := middleware.GetRole(c)

	projectID, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.projectService.Delete(c.Request.Context(), projectID, identityID, role); err != nil {
		response.FromError(c, err, "failed to delete project")
		return
	}

	response.Success(c, http.StatusOK, "project deleted", nil)
}

// ========== Members ==========

func (h *ProjectHandler) AddMember(c *gin.Context) {
	identityID := middleware.MustGetIdentityID(c)
	role, _ := middleware.GetRole(c)

	projectID, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req project.AddMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "invalid request body", err)
		return
	}

	if err := h.projectService.AddMember(c.Request.Context(), projectID, identityID, role, &req); err != nil {
		response.FromError(c, err, "failed to add member")
		return
	}

	response.Success(c, http.StatusCreated, "member added", nil)
}

func (h *ProjectHandler) RemoveMember(c *gin.Context) {
	identityID := middleware.MustGetIdentityID(c)
	role, _ := middleware.GetRole(c)

	projectID, ok := pathID(c, "id")
	if !ok {
		return
	}
	userID, ok := pathID(c, "user_id")
	if !ok {
		return
	}

	if err := h.projectService.RemoveMember(c.Request.Context(), projectID, identityID, role, userID); err != nil {
		response.FromError(c, err, "failed to remove member")
		return
	}

	response.Success(c, http.StatusOK, "member removed", nil)
}

func (h *ProjectHandler) UpdateMember(c *gin.Context) {
	identityID := middleware.MustGetIdentityID(c)
	role, _ := middleware.GetRole(c)

	projectID, ok := pathID(c, "id")
	if !ok {
		return
	}
	userID, ok := pathID(c, "user_id")
	if !ok {
		return
	}

	var req project.UpdateMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "invalid request body", err)
		return
	}

	if err := h.projectService.UpdateMember(c.Request.Context(), projectID, identityID, role, userID, &req); err != nil {
		response.FromError(c, err, "failed to update member")
		return
	}

	response.Success(c, http.StatusOK, "member updated", nil)
}

func (h *ProjectHandler) ListMembers(c *gin.Context) {
	identityID := middleware.MustGetIdentityID(c)
	role, _ := middleware.GetRole(c)

	projectID, ok := pathID(c, "id")
	if !ok {
		return
	}

	members, err := h.projectService.ListMembers(c.Request.Context(), projectID, identityID, role)
	if err != nil {
		response.FromError(c, err, "failed to list members")
		return
	}

	response.Success(c, http.StatusOK, "members retrieved", gin.H{"members": members})
}

// ========== Meetings ==========

func (h *ProjectHandler) ScheduleMeeting(c *gin.Context) {
	identityID := middleware.MustGetIdentityID(c)
	role, _ := middleware.GetRole(c)

	projectID, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req service.ScheduleMeetingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "invalid request body", err)
		return
	}

	m, err := h.meetingService.Schedule(c.Request.Context(), projectID, identityID, role, &req)
	if err != nil {
		response.FromError(c, err, "failed to schedule meeting")
		return
	}

	response.Success(c, http.StatusCreated, "meeting scheduled", m)
}

func (h *ProjectHandler) ListMeetings(c *gin.Context) {
	identityID := middleware.MustGetIdentityID(c)
	role, _ := middleware.GetRole(c)

	projectID, ok := pathID(c, "id")
	if !ok {
		return
	}

	meetings, err := h.meetingService.ListByProject(c.Request.Context(), projectID, identityID, role)
	if err != nil {
		response.FromError(c, err, "failed to list meetings")
		return
	}

	response.Success(c, http.StatusOK, "meetings retrieved", gin.H{"meetings": meetings})
}

func pathID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id < 1 {
		response.Error(c, http.StatusBadRequest, "invalid "+name, err)
		return 0, false
	}
	return id, true
}
