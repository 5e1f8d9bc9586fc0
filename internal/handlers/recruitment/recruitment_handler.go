// internal/handlers/recruitment/recruitment_handler.go
package recruitment

import (
	"net/http"
	"strconv"

	"projexa-service/internal/domain/recruitment"
	"projexa-service/internal/middleware"
	"projexa-service/internal/pkg/response"
	service "projexa-service/internal/service/recruitment"

	"github.com/gin-gonic/gin"
)

type RecruitmentHandler struct {
	recruitmentService *service.RecruitmentService
}

func NewRecruitmentHandler(recruitmentService *service.RecruitmentService) *RecruitmentHandler {
	return &RecruitmentHandler{recruitmentService: recruitmentService}
}

func (h *RecruitmentHandler) Create(c *gin.Context) {
	identityID := middleware.MustGetIdentityID(c)

	var req recruitment.CreateRecruitmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "invalid request body", err)
		return
	}

	rec, err := h.recruitmentService.Create(c.Request.Context(), identityID, &req)
	if err != nil {
		response.FromError(c, err, "failed to create recruitment")
		return
	}

	response.Success(c, http.StatusCreated, "recruitment created", rec)
}

// Get is public: applicants consult postings without an account
func (h *RecruitmentHandler) Get(c *gin.Context) {
	recID, ok := pathID(c)
	if !ok {
		return
	}

	rec, err := h.recruitmentService.Get(c.Request.Context(), recID)
	if err != nil {
		response.FromError(c, err, "failed to load recruitment")
		return
	}

	fields, err := h.recruitmentService.ListCustomFields(c.Request.Context(), recID)
	if err != nil {
		response.FromError(c, err, "failed to load custom fields")
		return
	}

	response.Success(c, http.StatusOK, "recruitment retrieved", gin.H{
		"recruitment":   rec,
		"custom_fields": fields,
	})
}

func (h *RecruitmentHandler) List(c *gin.Context) {
	var filters recruitment.RecruitmentListFilters
	if err := c.ShouldBindQuery(&filters); err != nil {
		response.ValidationError(c, "invalid query parameters", err)
		return
	}

	recs, total, err := h.recruitmentService.List(c.Request.Context(), &filters)
	if err != nil {
		response.FromError(c, err, "failed to list recruitments")
		return
	}

	response.Success(c, http.StatusOK, "recruitments retrieved", gin.H{
		"recruitments": recs,
		"total":        total,
		"page":         filters.Page,
	})
}

func (h *RecruitmentHandler) Update(c *gin.Context) {
	identityID := middleware.MustGetIdentityID(c)
	role, _ := middleware.GetRole(c)

	recID, ok := pathID(c)
	if !ok {
		return
	}

	var req recruitment.UpdateRecruitmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "invalid request body", err)
		return
	}

	rec, err := h.recruitmentService.Update(c.Request.Context(), recID, identityID, role, &req)
	if err != nil {
		response.FromError(c, err, "failed to update recruitment")
		return
	}

	response.Success(c, http.StatusOK, "recruitment updated", rec)
}

// Publish opens a posting to applicants
func (h *RecruitmentHandler) Publish(c *gin.Context) {
	identityID := middleware.MustGetIdentityID(c)
	role, _ := middleware.GetRole(c)

	recID, ok := pathID(c)
	if !ok {
		return
	}

	rec, err := h.recruitmentService.Publish(c.Request.Context(), recID, identityID, role)
	if err != nil {
		response.FromError(c, err, "failed to publish recruitment")
		return
	}

	response.Success(c, http.StatusOK, "recruitment published", rec)
}

func (h *RecruitmentHandler) Delete(c *gin.Context) {
	identityID := middleware.MustGetIdentityID(c)
	role, _ := middleware.GetRole(c)

	recID, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.recruitmentService.Delete(c.Request.Context(), recID, identityID, role); err != nil {
		response.FromError(c, err, "failed to delete recruitment")
		return
	}

	response.Success(c, http.StatusOK, "recruitment deleted", nil)
}

// ========== Applications ==========

// Apply is the public application endpoint
func (h *RecruitmentHandler) Apply(c *gin.Context) {
	recID, ok := pathID(c)
	if !ok {
		return
	}

	var req recruitment.ApplyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "invalid request body", err)
		return
	}

	app, err := h.recruitmentService.Apply(c.Request.Context(), recID, &req)
	if err != nil {
		response.FromError(c, err, "failed to submit application")
		return
	}

	response.Success(c, http.StatusCreated, "application submitted", app)
}

func (h *RecruitmentHandler) ListApplications(c *gin.Context) {
	identityID := middleware.MustGetIdentityID(c)
	role, _ := middleware.GetRole(c)

	recID, ok := pathID(c)
	if !ok {
		return
	}

	apps, err := h.recruitmentService.ListApplications(c.Request.Context(), recID, identityID, role)
	if err != nil {
		response.FromError(c, err, "failed to list applications")
		return
	}

	response.Success(c, http.StatusOK, "applications retrieved", gin.H{"applications": apps})
}

func (h *RecruitmentHandler) UpdateApplicationStatus(c *gin.Context) {
	identityID := middleware.MustGetIdentityID(c)
	role, _ := middleware.GetRole(c)

	appID, err := strconv.ParseInt(c.Param("application_id"), 10, 64)
	if err != nil || appID < 1 {
		response.Error(c, http.StatusBadRequest, "invalid application ID", err)
		return
	}

	var req recruitment.UpdateApplicationStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "invalid request body", err)
		return
	}

	app, err := h.recruitmentService.UpdateApplicationStatus(c.Request.Context(), appID, identityID, role, &req)
	if err != nil {
		response.FromError(c, err, "failed to update application")
		return
	}

	response.Success(c, http.StatusOK, "application updated", app)
}

func pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id < 1 {
		response.Error(c, http.StatusBadRequest, "invalid recruitment ID", err)
		return 0, false
	}
	return id, true
}
