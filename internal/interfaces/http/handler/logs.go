// Package handler 提供 HTTP 请求处理器
package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"velours-story-api/internal/domain/entity"
	"velours-story-api/internal/domain/repository"
	"velours-story-api/internal/interfaces/http/dto"
	"velours-story-api/pkg/logger"
)

// LogsHandler 客户端事件日志处理器。
// 响应形状沿用既有客户端协议({status, logs, totalLogs, lastUpdated})。
type LogsHandler struct {
	store repository.LogStore
}

// NewLogsHandler 创建日志处理器
func NewLogsHandler(store repository.LogStore) *LogsHandler {
	return &LogsHandler{store: store}
}

// List 返回全部日志
// GET /v1/logs
func (h *LogsHandler) List(c *gin.Context) {
	logs, err := h.store.List(c.Request.Context())
	if err != nil {
		h.renderStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewLogsListResponse(logs))
}

// Append 追加一条日志
// POST /v1/logs
func (h *LogsHandler) Append(c *gin.Context) {
	var entry entity.LogEntry
	if err := c.ShouldBindJSON(&entry); err != nil {
		c.JSON(http.StatusBadRequest, dto.LogErrorResponse{
			Status:  "error",
			Message: "invalid log entry: " + err.Error(),
		})
		return
	}

	total, err := h.store.Append(c.Request.Context(), entry)
	if err != nil {
		h.renderStoreError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.LogAppendResponse{
		Status:    "success",
		Message:   "log saved",
		TotalLogs: total,
	})
}

// Clear 清空全部日志
// DELETE /v1/logs
func (h *LogsHandler) Clear(c *gin.Context) {
	if err := h.store.Clear(c.Request.Context()); err != nil {
		h.renderStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.LogClearResponse{
		Status:  "success",
		Message: "logs cleared",
	})
}

func (h *LogsHandler) renderStoreError(c *gin.Context, err error) {
	logger.Error(c.Request.Context(), "log store operation failed", err, "path", c.Request.URL.Path)
	c.JSON(http.StatusInternalServerError, dto.LogErrorResponse{
		Status:  "error",
		Message: "log store unavailable",
	})
}
