// Package entity 定义领域实体
package entity

import (
	"time"

	"github.com/lib/pq"
)

// GeneratedStoryRecord 已生成故事记录，按用户追加
type GeneratedStoryRecord struct {
	ID             string         `json:"id" gorm:"type:uuid;primaryKey"`
	UserID         string         `json:"user_id" gorm:"type:varchar(128);index;not null"`
	Kind           StoryKind      `json:"type" gorm:"type:varchar(32);not null"`
	Content        string         `json:"content" gorm:"type:text"`
	ReadingTime    int            `json:"reading_time,omitempty"`
	Eroticism      int            `json:"eroticism_level,omitempty" gorm:"column:eroticism_level"`
	SelectedKinks  pq.StringArray `json:"selected_kinks,omitempty" gorm:"type:text[]"`
	CustomPrompt   string         `json:"custom_prompt,omitempty" gorm:"type:text"`
	FreeText       string         `json:"free_text,omitempty" gorm:"type:text"`
	DominantStyle  string         `json:"dominant_style,omitempty" gorm:"type:varchar(32)"`
	ExcitationType string         `json:"excitation_type,omitempty" gorm:"type:varchar(32)"`
	Metadata       *GenerationMetadata `json:"metadata,omitempty" gorm:"type:jsonb;serializer:json"`
	CreatedAt      time.Time      `json:"timestamp" gorm:"autoCreateTime;index"`
}

// TableName 指定表名
func (GeneratedStoryRecord) TableName() string {
	return "generated_stories"
}

// QuestionnaireKind 问卷类型
type QuestionnaireKind string

const (
	QuestionnaireSensory    QuestionnaireKind = "sensory"
	QuestionnaireExcitation QuestionnaireKind = "excitation"
)

// QuestionnaireRecord 问卷作答记录，同一用户同一类型保留最新一份
type QuestionnaireRecord struct {
	ID          string               `json:"id" gorm:"type:uuid;primaryKey"`
	UserID      string               `json:"user_id" gorm:"type:varchar(128);uniqueIndex:idx_user_questionnaire;not null"`
	Kind        QuestionnaireKind    `json:"type" gorm:"type:varchar(32);uniqueIndex:idx_user_questionnaire;not null"`
	Questions   pq.StringArray       `json:"questions,omitempty" gorm:"type:text[]"`
	Answers     QuestionnaireAnswers `json:"answers" gorm:"type:jsonb;serializer:json"`
	CompletedAt time.Time            `json:"completed_at" gorm:"autoUpdateTime"`
}

// TableName 指定表名
func (QuestionnaireRecord) TableName() string {
	return "questionnaires"
}

// SelectedFantasyRecord 用户勾选的偏好记录
type SelectedFantasyRecord struct {
	ID          string    `json:"id" gorm:"type:uuid;primaryKey"`
	UserID      string    `json:"user_id" gorm:"type:varchar(128);index;not null"`
	Category    string    `json:"category" gorm:"type:varchar(128)"`
	Subcategory string    `json:"subcategory" gorm:"type:varchar(128)"`
	Context     string    `json:"context,omitempty" gorm:"type:varchar(64)"`
	CreatedAt   time.Time `json:"timestamp" gorm:"autoCreateTime"`
}

// TableName 指定表名
func (SelectedFantasyRecord) TableName() string {
	return "selected_fantasies"
}

// FreeTextRecord 用户输入的自由文本记录
type FreeTextRecord struct {
	ID        string         `json:"id" gorm:"type:uuid;primaryKey"`
	UserID    string         `json:"user_id" gorm:"type:varchar(128);index;not null"`
	Kind      string         `json:"type" gorm:"type:varchar(64)"`
	Content   string         `json:"content" gorm:"type:text"`
	Metadata  map[string]any `json:"metadata,omitempty" gorm:"type:jsonb;serializer:json"`
	CreatedAt time.Time      `json:"timestamp" gorm:"autoCreateTime"`
}

// TableName 指定表名
func (FreeTextRecord) TableName() string {
	return "free_texts"
}

// UserHistory 用户完整历史聚合（只读视图，由各表拼装）
type UserHistory struct {
	UserID         string                   `json:"user_id"`
	Stories        []*GeneratedStoryRecord  `json:"generated_stories"`
	Questionnaires []*QuestionnaireRecord   `json:"questionnaires"`
	Fantasies      []*SelectedFantasyRecord `json:"selected_fantasies"`
	FreeTexts      []*FreeTextRecord        `json:"free_texts"`
	LastUpdated    *time.Time               `json:"last_updated,omitempty"`
}

// UserStats 用户历史统计
type UserStats struct {
	TotalStories            int            `json:"total_stories"`
	TotalFantasies          int            `json:"total_fantasies"`
	TotalFreeTexts          int            `json:"total_free_texts"`
	QuestionnairesCompleted int            `json:"questionnaires_completed"`
	StoriesByType           map[string]int `json:"stories_by_type"`
	MostUsedFantasies       map[string]int `json:"most_used_fantasies"`
	LastActivity            *time.Time     `json:"last_activity,omitempty"`
}
