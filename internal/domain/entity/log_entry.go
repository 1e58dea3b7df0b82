// Package entity 定义领域实体
package entity

import (
	"fmt"
	"math/rand"
	"time"
)

// LogEntry 客户端事件日志条目
// 负载结构由客户端决定，服务端只保证 id 与 timestamp 存在。
type LogEntry map[string]any

// ID 返回条目 ID，缺失时返回空串
func (e LogEntry) ID() string {
	if v, ok := e["id"].(string); ok {
		return v
	}
	return ""
}

// Timestamp 返回条目时间戳字符串，缺失时返回空串
func (e LogEntry) Timestamp() string {
	if v, ok := e["timestamp"].(string); ok {
		return v
	}
	return ""
}

// EnsureIdentity 补齐缺失的 id 与 timestamp
func (e LogEntry) EnsureIdentity(now time.Time) {
	if e.ID() == "" {
		e["id"] = fmt.Sprintf("log_%d_%09d", now.UnixMilli(), rand.Intn(1_000_000_000))
	}
	if e.Timestamp() == "" {
		e["timestamp"] = now.UTC().Format(time.RFC3339)
	}
}
