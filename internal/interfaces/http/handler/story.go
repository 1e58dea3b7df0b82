// Package handler 提供 HTTP 请求处理器
package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	"velours-story-api/internal/application/history"
	"velours-story-api/internal/application/story"
	"velours-story-api/internal/interfaces/http/dto"
	"velours-story-api/pkg/logger"
)

// StoryHandler 故事生成处理器
type StoryHandler struct {
	generator *story.Generator
	history   *history.Service
}

// NewStoryHandler history 可为 nil,此时生成结果不留痕。
func NewStoryHandler(generator *story.Generator, historySvc *history.Service) *StoryHandler {
	return &StoryHandler{
		generator: generator,
		history:   historySvc,
	}
}

// Generate 生成故事
// POST /v1/stories/generate
func (h *StoryHandler) Generate(c *gin.Context) {
	var req dto.GenerateStoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	ctx := c.Request.Context()
	if req.UserID != "" {
		ctx = logger.WithContext(ctx, logger.UserIDKey, req.UserID)
	}
	ctx = logger.WithContext(ctx, logger.StoryKindKey, req.Type)

	appReq := req.ToApplication()
	result, err := h.generator.Generate(ctx, appReq)
	if err != nil {
		renderError(c, err)
		return
	}

	// 留痕不阻塞响应,历史服务内部吞掉失败
	if h.history != nil && appReq.UserID != "" {
		recordCtx := context.WithoutCancel(ctx)
		go h.history.RecordStory(recordCtx, appReq.UserID, appReq, result)
	}

	dto.Success(c, dto.NewGenerateStoryResponse(req.Type, result))
}
