// Package postgres 提供 PostgreSQL Repository 实现
package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"velours-story-api/internal/domain/entity"
	"velours-story-api/internal/domain/repository"
)

// HistoryRepository 用户历史仓储实现
type HistoryRepository struct {
	client *Client
}

// NewHistoryRepository 创建用户历史仓储
func NewHistoryRepository(client *Client) *HistoryRepository {
	return &HistoryRepository{client: client}
}

// AppendStory 追加一条已生成故事记录
func (r *HistoryRepository) AppendStory(ctx context.Context, record *entity.GeneratedStoryRecord) error {
	ctx, span := tracer.Start(ctx, "postgres.HistoryRepository.AppendStory")
	defer span.End()

	if record.ID == "" {
		record.ID = uuid.NewString()
	}
	if err := r.client.db.WithContext(ctx).Create(record).Error; err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to append story record: %w", err)
	}
	return nil
}

// ListStories 分页列出用户故事记录（时间倒序）
func (r *HistoryRepository) ListStories(ctx context.Context, userID string, pagination repository.Pagination) (*repository.PagedResult[*entity.GeneratedStoryRecord], error) {
	ctx, span := tracer.Start(ctx, "postgres.HistoryRepository.ListStories")
	defer span.End()

	db := r.client.db.WithContext(ctx).Model(&entity.GeneratedStoryRecord{}).Where("user_id = ?", userID)

	var total int64
	if err := db.Count(&total).Error; err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to count story records: %w", err)
	}

	var records []*entity.GeneratedStoryRecord
	err := db.Order("created_at DESC").
		Offset(pagination.Offset()).
		Limit(pagination.Limit()).
		Find(&records).Error
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to list story records: %w", err)
	}

	return repository.NewPagedResult(records, total, pagination), nil
}

// ListAllStories 列出用户全部故事记录（时间倒序，不分页）
func (r *HistoryRepository) ListAllStories(ctx context.Context, userID string) ([]*entity.GeneratedStoryRecord, error) {
	ctx, span := tracer.Start(ctx, "postgres.HistoryRepository.ListAllStories")
	defer span.End()

	var records []*entity.GeneratedStoryRecord
	err := r.client.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&records).Error
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to list story records: %w", err)
	}
	return records, nil
}

// UpsertQuestionnaire 写入问卷作答，同一用户同一类型覆盖
func (r *HistoryRepository) UpsertQuestionnaire(ctx context.Context, record *entity.QuestionnaireRecord) error {
	ctx, span := tracer.Start(ctx, "postgres.HistoryRepository.UpsertQuestionnaire")
	defer span.End()

	if record.ID == "" {
		record.ID = uuid.NewString()
	}
	err := r.client.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "kind"}},
			DoUpdates: clause.AssignmentColumns([]string{"questions", "answers", "completed_at"}),
		}).
		Create(record).Error
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to upsert questionnaire: %w", err)
	}
	return nil
}

// ListQuestionnaires 列出用户问卷记录
func (r *HistoryRepository) ListQuestionnaires(ctx context.Context, userID string) ([]*entity.QuestionnaireRecord, error) {
	ctx, span := tracer.Start(ctx, "postgres.HistoryRepository.ListQuestionnaires")
	defer span.End()

	var records []*entity.QuestionnaireRecord
	err := r.client.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("completed_at DESC").
		Find(&records).Error
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to list questionnaires: %w", err)
	}
	return records, nil
}

// GetQuestionnaire 获取指定类型问卷，不存在时返回 nil
func (r *HistoryRepository) GetQuestionnaire(ctx context.Context, userID string, kind entity.QuestionnaireKind) (*entity.QuestionnaireRecord, error) {
	ctx, span := tracer.Start(ctx, "postgres.HistoryRepository.GetQuestionnaire")
	defer span.End()

	var record entity.QuestionnaireRecord
	err := r.client.db.WithContext(ctx).
		Where("user_id = ? AND kind = ?", userID, kind).
		First(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to get questionnaire: %w", err)
	}
	return &record, nil
}

// AppendFantasies 批量追加勾选偏好
func (r *HistoryRepository) AppendFantasies(ctx context.Context, records []*entity.SelectedFantasyRecord) error {
	ctx, span := tracer.Start(ctx, "postgres.HistoryRepository.AppendFantasies")
	defer span.End()

	if len(records) == 0 {
		return nil
	}
	for _, record := range records {
		if record.ID == "" {
			record.ID = uuid.NewString()
		}
	}
	if err := r.client.db.WithContext(ctx).Create(records).Error; err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to append fantasies: %w", err)
	}
	return nil
}

// ListFantasies 列出用户勾选偏好
func (r *HistoryRepository) ListFantasies(ctx context.Context, userID string) ([]*entity.SelectedFantasyRecord, error) {
	ctx, span := tracer.Start(ctx, "postgres.HistoryRepository.ListFantasies")
	defer span.End()

	var records []*entity.SelectedFantasyRecord
	err := r.client.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&records).Error
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to list fantasies: %w", err)
	}
	return records, nil
}

// AppendFreeText 追加自由文本记录
func (r *HistoryRepository) AppendFreeText(ctx context.Context, record *entity.FreeTextRecord) error {
	ctx, span := tracer.Start(ctx, "postgres.HistoryRepository.AppendFreeText")
	defer span.End()

	if record.ID == "" {
		record.ID = uuid.NewString()
	}
	if err := r.client.db.WithContext(ctx).Create(record).Error; err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to append free text: %w", err)
	}
	return nil
}

// ListFreeTexts 列出用户自由文本记录
func (r *HistoryRepository) ListFreeTexts(ctx context.Context, userID string) ([]*entity.FreeTextRecord, error) {
	ctx, span := tracer.Start(ctx, "postgres.HistoryRepository.ListFreeTexts")
	defer span.End()

	var records []*entity.FreeTextRecord
	err := r.client.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&records).Error
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to list free texts: %w", err)
	}
	return records, nil
}

// DeleteUser 删除用户全部历史，跨表在同一事务内完成
func (r *HistoryRepository) DeleteUser(ctx context.Context, userID string) error {
	ctx, span := tracer.Start(ctx, "postgres.HistoryRepository.DeleteUser")
	defer span.End()

	err := r.client.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, model := range []any{
			&entity.GeneratedStoryRecord{},
			&entity.QuestionnaireRecord{},
			&entity.SelectedFantasyRecord{},
			&entity.FreeTextRecord{},
		} {
			if err := tx.Where("user_id = ?", userID).Delete(model).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to delete user history: %w", err)
	}
	return nil
}
