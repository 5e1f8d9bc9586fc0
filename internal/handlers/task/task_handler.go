// internal/handlers/task/task_handler.go
package task

import (
	"net/http"
	"strconv"

	"projexa-service/internal/domain/task"
	"projexa-service/internal/middleware"
	"projexa-service/internal/pkg/response"
	service "projexa-service/internal/service/task"

	"github.com/gin-gonic/gin"
)

type TaskHandler struct {
	taskService *service.TaskService
}

func NewTaskHandler(taskService *service.TaskService) *TaskHandler {
	return &TaskHandler{taskService: taskService}
}

// Create opens a task on a project the caller belongs to
func (h *TaskHandler) Create(c *gin.Context) {
	identityID := middleware.MustGetIdentityID(c)

	var req task.CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "invalid request body", err)
		return
	}

	t, err := h.taskService.Create(c.Request.Context(), identityID, &req)
	if err != nil {
		response.FromError(c, err, "failed to create task")
		return
	}

	response.Success(c, http.StatusCreated, "task created", t)
}

func (h *TaskHandler) Get(c *gin.Context) {
	identityID := middleware.MustGetIdentityID(c)

	taskID, ok := pathID(c)
	if !ok {
		return
	}

	t, err := h.taskService.Get(c.Request.Context(), taskID, identityID)
	if err != nil {
		response.FromError(c, err, "failed to load task")
		return
	}

	response.Success(c, http.StatusOK, "task retrieved", t)
}

// List returns tasks of one project, with optional sprint/assignee/status filters
func (h *TaskHandler) List(c *gin.Context) {
	identityID := middleware.MustGetIdentityID(c)

	var filters task.TaskListFilters
	if err := c.ShouldBindQuery(&filters); err != nil {
		response.ValidationError(c, "invalid query parameters", err)
		return
	}

	result, err := h.taskService.List(c.Request.Context(), identityID, &filters)
	if err != nil {
		response.FromError(c, err, "failed to list tasks")
		return
	}

	response.Success(c, http.StatusOK, "tasks retrieved", result)
}

func (h *TaskHandler) Update(c *gin.Context) {
	identityID := middleware.MustGetIdentityID(c)

	taskID, ok := pathID(c)
	if !ok {
		return
	}

	var req task.UpdateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "invalid request body", err)
		return
	}

	t, err := h.taskService.Update(c.Request.Context(), taskID, identityID, &req)
	if err != nil {
		response.FromError(c, err, "failed to update task")
		return
	}

	response.Success(c, http.StatusOK, "task updated", t)
}

func (h *TaskHandler) Delete(c *gin.Context) {
	identityID := middleware.MustGetIdentityID(c)

	taskID, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.taskService.Delete(c.Request.Context(), taskID, identityID); err != nil {
		response.FromError(c, err, "failed to delete task")
		return
	}

	response.Success(c, http.StatusOK, "task deleted", nil)
}

// ========== Comments ==========

func (h *TaskHandler) AddComment(c *gin.Context) {
	identityID := middleware.MustGetIdentityID(c)

	taskID, ok := pathID(c)
	if !ok {
		return
	}

	var req task.CreateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "invalid request body", err)
		return
	}

	comment, err := h.taskService.AddComment(c.Request.Context(), taskID, identityID, &req)
	if err != nil {
		response.FromError(c, err, "failed to add comment")
		return
	}

	response.Success(c, http.StatusCreated, "comment added", comment)
}

func (h *TaskHandler) ListComments(c *gin.Context) {
	identityID := middleware.MustGetIdentityID(c)

	taskID, ok := pathID(c)
	if !ok {
		return
	}

	comments, err := h.taskService.ListComments(c.Request.Context(), taskID, identityID)
	if err != nil {
		response.FromError(c, err, "failed to list comments")
		return
	}

	response.Success(c, http.StatusOK, "comments retrieved", gin.H{"comments": comments})
}

func pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id < 1 {
		response.Error(c, http.StatusBadRequest, "invalid task ID", err)
		return 0, false
	}
	return id, true
}
