// Package handler 提供 HTTP 请求处理器
package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"velours-story-api/internal/application/history"
	"velours-story-api/internal/domain/entity"
	"velours-story-api/internal/interfaces/http/dto"
)

// HistoryHandler 用户历史处理器
type HistoryHandler struct {
	service *history.Service
}

// NewHistoryHandler 创建用户历史处理器
func NewHistoryHandler(service *history.Service) *HistoryHandler {
	return &HistoryHandler{service: service}
}

// GetHistory 聚合查询用户历史
// GET /v1/users/:uid/history
func (h *HistoryHandler) GetHistory(c *gin.Context) {
	userHistory, err := h.service.GetHistory(c.Request.Context(), c.Param("uid"))
	if err != nil {
		renderError(c, err)
		return
	}
	dto.Success(c, userHistory)
}

// ListStories 分页列出用户故事
// GET /v1/users/:uid/history/stories
func (h *HistoryHandler) ListStories(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))

	result, err := h.service.ListStories(c.Request.Context(), c.Param("uid"), page, pageSize)
	if err != nil {
		renderError(c, err)
		return
	}
	dto.SuccessWithPage(c, result.Items, dto.NewPageMeta(result.Page, result.PageSize, int(result.Total)))
}

// GetStats 用户历史统计
// GET /v1/users/:uid/history/stats
func (h *HistoryHandler) GetStats(c *gin.Context) {
	stats, err := h.service.Stats(c.Request.Context(), c.Param("uid"))
	if err != nil {
		renderError(c, err)
		return
	}
	dto.Success(c, stats)
}

// Export 导出用户全部历史
// GET /v1/users/:uid/history/export
func (h *HistoryHandler) Export(c *gin.Context) {
	userHistory, err := h.service.Export(c.Request.Context(), c.Param("uid"))
	if err != nil {
		renderError(c, err)
		return
	}
	uid := c.Param("uid")
	c.Header("Content-Disposition", `attachment; filename="history_`+uid+`.json"`)
	c.JSON(200, userHistory)
}

// DeleteHistory 删除用户全部历史
// DELETE /v1/users/:uid/history
func (h *HistoryHandler) DeleteHistory(c *gin.Context) {
	if err := h.service.DeleteUser(c.Request.Context(), c.Param("uid")); err != nil {
		renderError(c, err)
		return
	}
	dto.NoContent(c)
}

// SaveQuestionnaire 存档问卷作答
// POST /v1/users/:uid/questionnaires
func (h *HistoryHandler) SaveQuestionnaire(c *gin.Context) {
	var req dto.SaveQuestionnaireRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	record, err := h.service.SaveQuestionnaire(
		c.Request.Context(),
		c.Param("uid"),
		entity.QuestionnaireKind(req.Type),
		req.Questions,
		entity.QuestionnaireAnswers(req.Answers),
	)
	if err != nil {
		renderError(c, err)
		return
	}
	dto.Created(c, dto.NewQuestionnaireResponse(record))
}

// GetDerivedProfile 由已存档问卷推导画像偏好
// GET /v1/users/:uid/profile
func (h *HistoryHandler) GetDerivedProfile(c *gin.Context) {
	profile, err := h.service.ProfileFromQuestionnaires(c.Request.Context(), c.Param("uid"))
	if err != nil {
		renderError(c, err)
		return
	}
	dto.Success(c, &dto.DerivedProfileResponse{
		DominantStyle:  string(profile.DominantStyle),
		ExcitationType: string(profile.ExcitationType),
	})
}
