// Package dto 提供 HTTP 层数据传输对象
package dto

import (
	"velours-story-api/internal/domain/entity"
)

// 日志端点的响应形状沿用既有客户端协议,不走统一响应包装。

// LogsListResponse GET /v1/logs 响应
type LogsListResponse struct {
	Status      string            `json:"status"`
	Logs        []entity.LogEntry `json:"logs"`
	TotalLogs   int               `json:"totalLogs"`
	LastUpdated *string           `json:"lastUpdated"`
}

// NewLogsListResponse 构建日志列表响应
// lastUpdated 取最后一条日志的时间戳,无日志时为 null。
func NewLogsListResponse(logs []entity.LogEntry) *LogsListResponse {
	if logs == nil {
		logs = []entity.LogEntry{}
	}
	var lastUpdated *string
	if len(logs) > 0 {
		ts := logs[len(logs)-1].Timestamp()
		lastUpdated = &ts
	}
	return &LogsListResponse{
		Status:      "success",
		Logs:        logs,
		TotalLogs:   len(logs),
		LastUpdated: lastUpdated,
	}
}

// LogAppendResponse POST /v1/logs 响应
type LogAppendResponse struct {
	Status    string `json:"status"`
	Message   string `json:"message"`
	TotalLogs int    `json:"totalLogs"`
}

// LogClearResponse DELETE /v1/logs 响应
type LogClearResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// LogErrorResponse 日志端点错误响应
type LogErrorResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}
