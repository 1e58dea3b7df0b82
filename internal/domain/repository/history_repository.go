// Package repository 定义数据访问层接口
package repository

import (
	"context"

	"velours-story-api/internal/domain/entity"
)

// HistoryRepository 用户历史仓储接口
type HistoryRepository interface {
	// AppendStory 追加一条已生成故事记录
	AppendStory(ctx context.Context, record *entity.GeneratedStoryRecord) error
	// ListStories 分页列出用户故事记录（时间倒序）
	ListStories(ctx context.Context, userID string, pagination Pagination) (*PagedResult[*entity.GeneratedStoryRecord], error)
	// ListAllStories 列出用户全部故事记录（时间倒序，不分页），供聚合与导出使用
	ListAllStories(ctx context.Context, userID string) ([]*entity.GeneratedStoryRecord, error)

	// UpsertQuestionnaire 写入问卷作答，同一用户同一类型覆盖
	UpsertQuestionnaire(ctx context.Context, record *entity.QuestionnaireRecord) error
	// ListQuestionnaires 列出用户问卷记录
	ListQuestionnaires(ctx context.Context, userID string) ([]*entity.QuestionnaireRecord, error)
	// GetQuestionnaire 获取指定类型问卷，不存在时返回 nil
	GetQuestionnaire(ctx context.Context, userID string, kind entity.QuestionnaireKind) (*entity.QuestionnaireRecord, error)

	// AppendFantasies 批量追加勾选偏好
	AppendFantasies(ctx context.Context, records []*entity.SelectedFantasyRecord) error
	// ListFantasies 列出用户勾选偏好
	ListFantasies(ctx context.Context, userID string) ([]*entity.SelectedFantasyRecord, error)

	// AppendFreeText 追加自由文本记录
	AppendFreeText(ctx context.Context, record *entity.FreeTextRecord) error
	// ListFreeTexts 列出用户自由文本记录
	ListFreeTexts(ctx context.Context, userID string) ([]*entity.FreeTextRecord, error)

	// DeleteUser 删除用户全部历史
	DeleteUser(ctx context.Context, userID string) error
}

// LogStore 客户端事件日志存储接口
type LogStore interface {
	// Append 追加一条日志，超出上限时淘汰最旧条目
	Append(ctx context.Context, entry entity.LogEntry) (total int, err error)
	// List 返回全部日志与总数
	List(ctx context.Context) ([]entity.LogEntry, error)
	// Clear 清空全部日志
	Clear(ctx context.Context) error
}
