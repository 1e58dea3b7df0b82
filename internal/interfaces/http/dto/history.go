// Package dto 提供 HTTP 层数据传输对象
package dto

import (
	"velours-story-api/internal/domain/entity"
)

// SaveQuestionnaireRequest 问卷存档请求
type SaveQuestionnaireRequest struct {
	Type      string            `json:"type" binding:"required"`
	Questions []string          `json:"questions"`
	Answers   map[string]string `json:"answers" binding:"required"`
}

// QuestionnaireResponse 问卷存档响应
type QuestionnaireResponse struct {
	ID          string            `json:"id"`
	Type        string            `json:"type"`
	Answers     map[string]string `json:"answers"`
	CompletedAt string            `json:"completed_at"`
}

// NewQuestionnaireResponse 由实体构建响应
func NewQuestionnaireResponse(record *entity.QuestionnaireRecord) *QuestionnaireResponse {
	return &QuestionnaireResponse{
		ID:          record.ID,
		Type:        string(record.Kind),
		Answers:     record.Answers,
		CompletedAt: record.CompletedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
}

// DerivedProfileResponse 由问卷推导出的画像偏好
type DerivedProfileResponse struct {
	DominantStyle  string `json:"dominant_style,omitempty"`
	ExcitationType string `json:"excitation_type,omitempty"`
}
