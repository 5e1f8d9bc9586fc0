// internal/handlers/remuneration/remuneration_handler.go
package remuneration

import (
	"net/http"
	"strconv"

	"projexa-service/internal/domain/remuneration"
	"projexa-service/internal/middleware"
	"projexa-service/internal/pkg/response"
	service "projexa-service/internal/service/remuneration"

	"github.com/gin-gonic/gin"
)

type RemunerationHandler struct {
	remunerationService *service.RemunerationService
}

func NewRemunerationHandler(remunerationService *service.RemunerationService) *RemunerationHandler {
	return &RemunerationHandler{remunerationService: remunerationService}
}

func (h *RemunerationHandler) Create(c *gin.Context) {
	role, _ := middleware.GetRole(c)

	var req remuneration.CreateRemunerationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "invalid request body", err)
		return
	}

	m, err := h.remunerationService.Create(c.Request.Context(), role, &req)
	if err != nil {
		response.FromError(c, err, "failed to create remuneration")
		return
	}

	response.Success(c, http.StatusCreated, "remuneration created", m)
}

func (h *RemunerationHandler) Get(c *gin.Context) {
	identityID := middleware.MustGetIdentityID(c)
	role, _ := middleware.GetRole(c)

	id, ok := pathID(c)
	if !ok {
		return
	}

	m, err := h.remunerationService.Get(c.Request.Context(), id, identityID, role)
	if err != nil {
		response.FromError(c, err, "failed to load remuneration")
		return
	}

	response.Success(c, http.StatusOK, "remuneration retrieved", m)
}

func (h *RemunerationHandler) List(c *gin.Context) {
	identityID := middleware.MustGetIdentityID(c)
	role, _ := middleware.GetRole(c)

	var filters remuneration.RemunerationListFilters
	if err := c.ShouldBindQuery(&filters); err != nil {
		response.ValidationError(c, "invalid query parameters", err)
		return
	}

	items, total, err := h.remunerationService.List(c.Request.Context(), identityID, role, &filters)
	if err != nil {
		response.FromError(c, err, "failed to list remunerations")
		return
	}

	response.Success(c, http.StatusOK, "remunerations retrieved", gin.H{
		"remunerations": items,
		"total":         total,
		"page":          filters.Page,
	})
}

// Pay settles a pending remuneration. A second payment attempt gets a 409.
func (h *RemunerationHandler) Pay(c *gin.Context) {
	identityID := middleware.MustGetIdentityID(c)
	role, _ := middleware.GetRole(c)

	id, ok := pathID(c)
	if !ok {
		return
	}

	var req remuneration.PayRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "invalid request body", err)
		return
	}

	m, err := h.remunerationService.Pay(c.Request.Context(), id, identityID, role, &req)
	if err != nil {
		response.FromError(c, err, "failed to pay remuneration")
		return
	}

	response.Success(c, http.StatusOK, "remuneration paid", m)
}

func (h *RemunerationHandler) Cancel(c *gin.Context) {
	identityID := middleware.MustGetIdentityID(c)
	role, _ := middleware.GetRole(c)

	id, ok := pathID(c)
	if !ok {
		return
	}

	m, err := h.remunerationService.Cancel(c.Request.Context(), id, identityID, role)
	if err != nil {
		response.FromError(c, err, "failed to cancel remuneration")
		return
	}

	response.Success(c, http.StatusOK, "remuneration cancelled", m)
}

func pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id < 1 {
		response.Error(c, http.StatusBadRequest, "invalid remuneration ID", err)
		return 0, false
	}
	return id, true
}
